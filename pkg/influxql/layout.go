package influxql

import (
	"encoding/json"
	"fmt"

	"github.com/chronograf/chronograf-mcp-server/pkg/timerange"
)

// QueryKind tells which builder a cell query goes through.
type QueryKind string

const (
	// KindConfig queries carry a QueryConfig and use Build.
	KindConfig QueryKind = "queryConfig"
	// KindCanned queries come from pre-built dashboards and use BuildCanned.
	KindCanned QueryKind = "canned"
)

// Cell is a single graph on a dashboard grid.
type Cell struct {
	ID      string      `json:"i"`
	Name    string      `json:"name"`
	X       int         `json:"x"`
	Y       int         `json:"y"`
	W       int         `json:"w"`
	H       int         `json:"h"`
	Type    string      `json:"type,omitempty"`
	Queries []CellQuery `json:"queries"`
}

// CellQuery is one query of a cell. Exactly one of Config and Canned is set,
// matching Kind.
type CellQuery struct {
	Kind   QueryKind
	Label  string
	Config *QueryConfig
	Canned *CannedQuery
}

type cellQueryJSON struct {
	Label       string       `json:"label,omitempty"`
	QueryConfig *QueryConfig `json:"queryConfig,omitempty"`
	Text        string       `json:"text,omitempty"`
	Query       string       `json:"query,omitempty"`
	Wheres      []string     `json:"wheres,omitempty"`
	GroupBys    []string     `json:"groupbys,omitempty"`
}

// UnmarshalJSON decides the kind once: a stored queryConfig makes it a
// config query, anything else is a canned query whose body is "text" (or
// "query" for layouts written by the server).
func (q *CellQuery) UnmarshalJSON(data []byte) error {
	var raw cellQueryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode cell query: %w", err)
	}

	q.Label = raw.Label
	if raw.QueryConfig != nil {
		q.Kind = KindConfig
		q.Config = raw.QueryConfig
		q.Canned = nil
		return nil
	}

	text := raw.Text
	if text == "" {
		text = raw.Query
	}
	q.Kind = KindCanned
	q.Config = nil
	q.Canned = &CannedQuery{Text: text, Wheres: raw.Wheres, GroupBys: raw.GroupBys}
	return nil
}

func (q CellQuery) MarshalJSON() ([]byte, error) {
	raw := cellQueryJSON{Label: q.Label}
	switch q.Kind {
	case KindConfig:
		raw.QueryConfig = q.Config
	case KindCanned:
		if q.Canned != nil {
			raw.Text = q.Canned.Text
			raw.Wheres = q.Canned.Wheres
			raw.GroupBys = q.Canned.GroupBys
		}
	default:
		return nil, fmt.Errorf("unknown cell query kind %q", q.Kind)
	}
	return json.Marshal(raw)
}

// LayoutQuery is a cell query ready to be sent to a source proxy.
type LayoutQuery struct {
	Kind      QueryKind `json:"kind"`
	Label     string    `json:"label,omitempty"`
	Host      string    `json:"host"`
	Text      string    `json:"text,omitempty"`
	Buildable bool      `json:"buildable"`
}

// BuildLayoutQueries renders every query of cell. Config queries use their
// stored raw text when present, otherwise they are built against their own
// range or the dashboard time placeholders. Canned queries are built
// against tr and host. A config query that cannot be built keeps an empty
// Text and Buildable=false.
func BuildLayoutQueries(cell Cell, proxy string, tr TimeBounds, host string, ranges timerange.Table) []LayoutQuery {
	out := make([]LayoutQuery, 0, len(cell.Queries))
	for _, q := range cell.Queries {
		lq := LayoutQuery{Kind: q.Kind, Label: q.Label, Host: proxy}

		switch q.Kind {
		case KindConfig:
			if q.Config == nil {
				break
			}
			if q.Config.RawText != "" {
				lq.Text = q.Config.RawText
				lq.Buildable = true
				break
			}
			bounds := TimeBounds{Lower: DashboardTimeTemplate, Upper: UpperDashboardTimeTemplate}
			if q.Config.Range != nil {
				bounds = *q.Config.Range
			}
			lq.Text, lq.Buildable = Build(bounds, *q.Config, false)
		case KindCanned:
			if q.Canned == nil {
				break
			}
			lq.Text = BuildCanned(*q.Canned, tr, host, ranges)
			lq.Buildable = true
		}

		out = append(out, lq)
	}
	return out
}
