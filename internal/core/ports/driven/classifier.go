package driven

import (
	"context"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// ClassificationRequest is one batch of evidence sent to the
// classification service, together with the criteria it was
// gathered for. Transient: not persisted beyond the cycle.
type ClassificationRequest struct {
	// SupplierNames are the suppliers the evidence was gathered for.
	SupplierNames []string

	// Regions are the regions of interest.
	Regions []domain.Region

	// Categories are the categories the caller asked about.
	Categories []domain.Category

	// Records is the evidence batch (bounded by the gateway).
	Records []domain.SourceRecord

	// Strict requests a stricter reformulation after a structurally
	// invalid response. Adapters tighten their output instructions
	// when set.
	Strict bool
}

// ClassifiedAlert is one alert as returned by the classification
// service. All fields are untrusted until validated by the analysis
// gateway against the fixed alert schema.
type ClassifiedAlert struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Colour      string `json:"color"`
	SourceLink  string `json:"source_link"`
}

// ClassificationResponse is the structured object the classification
// service returns. Possibly empty.
type ClassificationResponse struct {
	Alerts []ClassifiedAlert `json:"alerts"`
}

// Classifier invokes the external classification service.
//
// Implementations return the service's structured output without
// validating it; schema validation and repair belong to the analysis
// gateway. A response that cannot even be decoded is reported as an
// error matching domain.ErrClassificationSchema.
type Classifier interface {
	// Classify sends one batch and returns the raw structured response.
	Classify(ctx context.Context, req ClassificationRequest) (*ClassificationResponse, error)

	// ModelName identifies the backing model for logging.
	ModelName() string
}
