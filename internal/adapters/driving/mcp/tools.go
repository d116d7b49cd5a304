package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/harvester/internal/core/domain"
)

// GenerateInput is the input schema for the generate_intelligence tool.
type GenerateInput struct {
	Suppliers  []string `json:"suppliers" jsonschema:"supplier names to monitor"`
	Regions    []string `json:"regions,omitempty" jsonschema:"geographic regions of interest (uk, eu, north-america, asia-pacific, global)"`
	Categories []string `json:"categories,omitempty" jsonschema:"intelligence categories (regulatory, funding, market-trend, supply-chain, general-news); all when omitted"`
	TopN       int      `json:"top_n,omitempty" jsonschema:"results requested per query (default 5)"`
	Force      bool     `json:"force,omitempty" jsonschema:"bypass the freshness window and fetch regardless of cache age"`
}

// GenerateOutput is the output schema for the generate_intelligence tool.
type GenerateOutput struct {
	Status      string        `json:"status"`
	Groups      []GroupOutput `json:"groups"`
	AlertCount  int           `json:"alert_count"`
	RecordCount int           `json:"record_count"`
}

// GroupOutput represents one category's alerts.
type GroupOutput struct {
	Category string        `json:"category"`
	Count    int           `json:"count"`
	Alerts   []AlertOutput `json:"alerts"`
}

// AlertOutput represents a single intelligence alert.
type AlertOutput struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Colour      string `json:"color"`
	SourceLink  string `json:"source_link"`
	FirstSeenAt string `json:"first_seen_at"`
}

// ListAlertsInput is the input schema for the list_alerts tool.
type ListAlertsInput struct {
	Suppliers  []string `json:"suppliers" jsonschema:"supplier names the alerts were generated for"`
	Regions    []string `json:"regions,omitempty" jsonschema:"geographic regions of interest"`
	Categories []string `json:"categories,omitempty" jsonschema:"intelligence categories; all when omitted"`
	TopN       int      `json:"top_n,omitempty" jsonschema:"results per query the alerts were generated with (default 5)"`
}

// ListAlertsOutput is the output schema for the list_alerts tool.
type ListAlertsOutput struct {
	Groups     []GroupOutput `json:"groups"`
	AlertCount int           `json:"alert_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_intelligence",
		Description: "Run an intelligence cycle for a set of suppliers and return classified alerts",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_alerts",
		Description: "Return previously generated alerts without running a cycle",
	}, s.handleListAlerts)
}

// handleGenerate handles the generate_intelligence tool invocation.
func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	criteria, err := buildCriteria(input.Suppliers, input.Regions, input.Categories, input.TopN)
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	result, err := s.ports.Engine.Refresh(ctx, criteria, input.Force)
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	return nil, GenerateOutput{
		Status:      string(result.Status),
		Groups:      mapGroups(result.Groups),
		AlertCount:  result.AlertCount(),
		RecordCount: result.RecordCount,
	}, nil
}

// handleListAlerts handles the list_alerts tool invocation.
func (s *Server) handleListAlerts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListAlertsInput,
) (*mcp.CallToolResult, ListAlertsOutput, error) {
	criteria, err := buildCriteria(input.Suppliers, input.Regions, input.Categories, input.TopN)
	if err != nil {
		return nil, ListAlertsOutput{}, err
	}

	groups, err := s.ports.Engine.Alerts(ctx, criteria)
	if err != nil {
		return nil, ListAlertsOutput{}, err
	}

	output := ListAlertsOutput{Groups: mapGroups(groups)}
	for _, g := range output.Groups {
		output.AlertCount += g.Count
	}
	return nil, output, nil
}

// buildCriteria converts loosely-typed tool input into request criteria.
func buildCriteria(suppliers, regions, categories []string, topN int) (domain.RequestCriteria, error) {
	criteria := domain.RequestCriteria{
		SupplierNames: suppliers,
		TopN:          topN,
	}
	if criteria.TopN <= 0 {
		criteria.TopN = 5
	}

	for _, r := range regions {
		region, err := domain.ParseRegion(r)
		if err != nil {
			return domain.RequestCriteria{}, err
		}
		criteria.Regions = append(criteria.Regions, region)
	}

	if len(categories) == 0 {
		criteria.Categories = domain.AllCategories()
	} else {
		for _, c := range categories {
			cat, ok := domain.ParseCategory(c)
			if !ok {
				return domain.RequestCriteria{}, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidCriteria, c)
			}
			criteria.Categories = append(criteria.Categories, cat)
		}
	}

	return criteria, criteria.Validate()
}

// mapGroups converts domain alert groups to the tool output schema.
func mapGroups(groups []domain.AlertGroup) []GroupOutput {
	out := make([]GroupOutput, len(groups))
	for i, g := range groups {
		alerts := make([]AlertOutput, len(g.Alerts))
		for j, a := range g.Alerts {
			alerts[j] = AlertOutput{
				Category:    string(a.Category),
				Title:       a.Title,
				Description: a.Description,
				Icon:        a.Icon,
				Colour:      a.Colour,
				SourceLink:  a.SourceLink,
				FirstSeenAt: a.FirstSeenAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}
		out[i] = GroupOutput{
			Category: string(g.Category),
			Count:    g.Count(),
			Alerts:   alerts,
		}
	}
	return out
}
