package types

import (
	"github.com/chronograf/chronograf-mcp-server/pkg/influxql"
)

// Rule is a Kapacitor alert rule managed through Chronograf.
type Rule struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Query      *influxql.QueryConfig `json:"query,omitempty"`
	Every      string                `json:"every,omitempty"`
	Alerts     []string              `json:"alerts"`
	AlertNodes map[string]any        `json:"alertNodes,omitempty"`
	Message    string                `json:"message"`
	Details    string                `json:"details"`
	Trigger    string                `json:"trigger"`
	Values     TriggerValues         `json:"values"`
	TICKScript string                `json:"tickscript,omitempty"`
	Type       string                `json:"type,omitempty"`
	Status     string                `json:"status,omitempty"`
	DBRPs      []DBRP                `json:"dbrps,omitempty"`
}

// TriggerValues configures when a rule fires.
type TriggerValues struct {
	Change     string `json:"change,omitempty"`
	Period     string `json:"period,omitempty"`
	Shift      string `json:"shift,omitempty"`
	Operator   string `json:"operator,omitempty"`
	Value      string `json:"value,omitempty"`
	RangeValue string `json:"rangeValue,omitempty"`
}

type DBRP struct {
	DB string `json:"db"`
	RP string `json:"rp"`
}

type RulesResponse struct {
	Rules []Rule `json:"rules"`
}

// InfluxQL renders the rule's query the way Kapacitor receives it: no time
// bounds and no FILL clause. It reports false when the rule has no
// buildable query.
func (r Rule) InfluxQL() (string, bool) {
	if r.Query == nil {
		return "", false
	}
	return influxql.Build(influxql.TimeBounds{}, *r.Query, true)
}

// RuleSummary is the trimmed form used when listing rules.
type RuleSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Trigger  string   `json:"trigger"`
	Every    string   `json:"every,omitempty"`
	Status   string   `json:"status,omitempty"`
	Alerts   []string `json:"alerts"`
	InfluxQL string   `json:"influxql,omitempty"`
}

func (r Rule) Summary() RuleSummary {
	q, _ := r.InfluxQL()
	return RuleSummary{
		ID:       r.ID,
		Name:     r.Name,
		Trigger:  r.Trigger,
		Every:    r.Every,
		Status:   r.Status,
		Alerts:   r.Alerts,
		InfluxQL: q,
	}
}
