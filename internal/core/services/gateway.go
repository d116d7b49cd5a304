package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
	"github.com/custodia-labs/harvester/internal/logger"
)

// DefaultBatchSize bounds the number of records per classification call
// to respect external payload limits.
const DefaultBatchSize = 20

// AnalysisGateway batches normalised records, invokes the external
// classification service and maps its untrusted structured output to
// Alert entities. Classification is best-effort over the available
// evidence: a batch that stays structurally invalid after one stricter
// retry is dropped, never failing the whole cycle.
type AnalysisGateway struct {
	classifier driven.Classifier
	batchSize  int

	// now is swappable for tests.
	now func() time.Time

	// newID is swappable for tests.
	newID func() string
}

// NewAnalysisGateway creates a gateway. batchSize <= 0 selects the default.
func NewAnalysisGateway(classifier driven.Classifier, batchSize int) *AnalysisGateway {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &AnalysisGateway{
		classifier: classifier,
		batchSize:  batchSize,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Classify runs the record set through the classification service in
// bounded batches and returns the resulting alerts in response order.
// Returns domain.ErrClassifierUnavailable when no classifier is
// configured.
func (g *AnalysisGateway) Classify(
	ctx context.Context,
	criteria domain.RequestCriteria,
	fp domain.Fingerprint,
	records []domain.SourceRecord,
) ([]domain.Alert, error) {
	if g.classifier == nil {
		return nil, domain.ErrClassifierUnavailable
	}
	if len(records) == 0 {
		return nil, nil
	}

	var alerts []domain.Alert
	batchIndex := 0

	for start := 0; start < len(records); start += g.batchSize {
		end := start + g.batchSize
		if end > len(records) {
			end = len(records)
		}

		batchAlerts, err := g.classifyBatch(ctx, criteria, fp, records[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Drop the batch; the cycle degrades rather than aborts.
			logger.Warn("dropping batch: %v", &domain.ClassificationError{Batch: batchIndex, Err: err})
			batchIndex++
			continue
		}
		alerts = append(alerts, batchAlerts...)
		batchIndex++
	}

	return alerts, nil
}

// classifyBatch sends one batch, validating the response against the
// fixed alert schema. A structurally invalid response earns exactly one
// stricter reformulation request before the batch is given up on.
func (g *AnalysisGateway) classifyBatch(
	ctx context.Context,
	criteria domain.RequestCriteria,
	fp domain.Fingerprint,
	records []domain.SourceRecord,
) ([]domain.Alert, error) {
	req := driven.ClassificationRequest{
		SupplierNames: criteria.SupplierNames,
		Regions:       criteria.Regions,
		Categories:    criteria.Categories,
		Records:       records,
	}

	resp, err := g.classifier.Classify(ctx, req)
	if err == nil {
		alerts, verr := g.mapResponse(resp, fp)
		if verr == nil {
			return alerts, nil
		}
		err = verr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	logger.Debug("classification response invalid (%v), retrying strictly", err)
	req.Strict = true
	resp, err = g.classifier.Classify(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassificationSchema, err)
	}
	alerts, verr := g.mapResponse(resp, fp)
	if verr != nil {
		return nil, verr
	}
	return alerts, nil
}

// mapResponse validates a classification response and maps it to Alert
// entities. Unknown category strings map to the catch-all category;
// structurally missing fields (absent source_link or title) reject the
// whole batch, matching the all-or-nothing refresh discipline.
func (g *AnalysisGateway) mapResponse(resp *driven.ClassificationResponse, fp domain.Fingerprint) ([]domain.Alert, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", domain.ErrClassificationSchema)
	}

	now := g.now()
	alerts := make([]domain.Alert, 0, len(resp.Alerts))

	for i, raw := range resp.Alerts {
		if strings.TrimSpace(raw.SourceLink) == "" {
			return nil, fmt.Errorf("%w: alert %d has no source_link", domain.ErrClassificationSchema, i)
		}
		if strings.TrimSpace(raw.Title) == "" {
			return nil, fmt.Errorf("%w: alert %d has no title", domain.ErrClassificationSchema, i)
		}

		category, known := domain.ParseCategory(raw.Category)
		if !known {
			logger.Debug("unknown category %q mapped to %s", raw.Category, domain.CategoryGeneralNews)
		}

		title := domain.ClampWords(raw.Title, domain.MaxTitleWords)
		description := domain.ClampWords(raw.Description, domain.MaxDescriptionWords)

		icon := strings.TrimSpace(raw.Icon)
		if icon == "" {
			icon = category.Icon()
		}
		colour := strings.TrimSpace(raw.Colour)
		if colour == "" {
			colour = category.Colour()
		}

		alerts = append(alerts, domain.Alert{
			ID:              g.newID(),
			Fingerprint:     fp,
			Category:        category,
			Title:           title,
			Description:     description,
			Icon:            icon,
			Colour:          colour,
			SourceLink:      strings.TrimSpace(raw.SourceLink),
			DedupKey:        domain.AlertDedupKey(category, title, raw.SourceLink),
			FirstSeenAt:     now,
			LastConfirmedAt: now,
		})
	}

	return alerts, nil
}
