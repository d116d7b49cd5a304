// Package classify provides classification-service adapters and the
// prompt construction they share.
package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/harvester/internal/core/domain"
	"github.com/custodia-labs/harvester/internal/core/ports/driven"
)

// SystemPrompt frames the classification task for chat-style services.
const SystemPrompt = "You are a market intelligence analyst specialising in procurement " +
	"and supply chain analysis. You classify web search evidence into structured alerts " +
	"and respond only with JSON."

// BuildPrompt renders one classification request as the user message.
// With req.Strict set the schema instructions are restated more firmly,
// used as the one repair retry after a structurally invalid response.
func BuildPrompt(req driven.ClassificationRequest) string {
	var b strings.Builder

	b.WriteString("Classify the evidence below into market-intelligence alerts.\n\n")

	b.WriteString("Monitored suppliers: ")
	b.WriteString(strings.Join(req.SupplierNames, ", "))
	b.WriteString("\n")

	if len(req.Regions) > 0 {
		names := make([]string, len(req.Regions))
		for i, r := range req.Regions {
			names[i] = r.DisplayName()
		}
		b.WriteString("Regions of interest: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}

	categories := make([]string, len(req.Categories))
	for i, c := range req.Categories {
		categories[i] = string(c)
	}
	b.WriteString("Categories of interest: ")
	b.WriteString(strings.Join(categories, ", "))
	b.WriteString("\n\nEvidence:\n")

	for i, record := range req.Records {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, record.Title, record.Snippet, record.URL)
	}

	b.WriteString("\nRespond with a JSON object of the form " +
		`{"alerts": [{"category": "...", "title": "...", "description": "...", ` +
		`"icon": "...", "color": "...", "source_link": "..."}]}` + ".\n")
	b.WriteString("Allowed category values: ")
	allowed := make([]string, 0, len(domain.AllCategories()))
	for _, c := range domain.AllCategories() {
		allowed = append(allowed, string(c))
	}
	b.WriteString(strings.Join(allowed, ", "))
	b.WriteString(".\nTitles must be at most 10 words, descriptions at most 25 words. " +
		"Each source_link must be one of the evidence URLs. " +
		"Return an empty alerts array if nothing is noteworthy.\n")

	if req.Strict {
		b.WriteString("\nYour previous response did not match the schema. " +
			"Return ONLY the JSON object described above, with every field present " +
			"and non-empty, and no prose, markdown fences or commentary.\n")
	}

	return b.String()
}

// DecodeResponse strips optional markdown fences and decodes the JSON
// body of a classification response.
func DecodeResponse(text string) (*driven.ClassificationResponse, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var resp driven.ClassificationResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassificationSchema, err)
	}
	return &resp, nil
}
