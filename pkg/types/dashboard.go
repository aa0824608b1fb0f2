package types

import (
	"github.com/chronograf/chronograf-mcp-server/pkg/influxql"
)

// Dashboard is a dashboard as returned by /chronograf/v1/dashboards.
type Dashboard struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Cells     []influxql.Cell `json:"cells"`
	Templates []Template      `json:"templates,omitempty"`
	Links     Links           `json:"links,omitempty"`
}

type DashboardsResponse struct {
	Dashboards []Dashboard `json:"dashboards"`
}

// Template is a dashboard template variable such as :host:.
type Template struct {
	ID      string          `json:"id,omitempty"`
	TempVar string          `json:"tempVar"`
	Type    string          `json:"type"`
	Label   string          `json:"label,omitempty"`
	Values  []TemplateValue `json:"values"`
}

type TemplateValue struct {
	Value    string `json:"value"`
	Type     string `json:"type"`
	Selected bool   `json:"selected"`
}

// DashboardSummary is the trimmed form used when listing dashboards.
type DashboardSummary struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	CellCount int      `json:"cellCount"`
	CellNames []string `json:"cellNames"`
	Templates []string `json:"templates,omitempty"`
}

// Summary drops cell queries and layout, keeping what identifies a
// dashboard.
func (d Dashboard) Summary() DashboardSummary {
	s := DashboardSummary{
		ID:        d.ID,
		Name:      d.Name,
		CellCount: len(d.Cells),
		CellNames: make([]string, 0, len(d.Cells)),
	}
	for _, c := range d.Cells {
		s.CellNames = append(s.CellNames, c.Name)
	}
	for _, t := range d.Templates {
		s.Templates = append(s.Templates, t.TempVar)
	}
	return s
}

// CellQueries is the rendered query list of one cell.
type CellQueries struct {
	CellID   string                 `json:"cellId"`
	CellName string                 `json:"cellName"`
	Queries  []influxql.LayoutQuery `json:"queries"`
}

// RenderedDashboard holds the queries of every cell of a dashboard.
type RenderedDashboard struct {
	ID    int           `json:"id"`
	Name  string        `json:"name"`
	Cells []CellQueries `json:"cells"`
}
