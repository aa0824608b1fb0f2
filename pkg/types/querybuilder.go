package types

import (
	"fmt"
	"strings"
)

// ProxyRequest is the body sent to a source's proxy endpoint.
type ProxyRequest struct {
	Query string `json:"query"`
	DB    string `json:"db,omitempty"`
	RP    string `json:"rp,omitempty"`
	Epoch string `json:"epoch,omitempty"`
}

var validEpochs = map[string]bool{
	"h": true, "m": true, "s": true, "ms": true, "u": true, "ns": true,
}

// Validate fills defaults and rejects requests the proxy would refuse.
// Errors describe how to fix the request.
func (p *ProxyRequest) Validate() error {
	p.Query = strings.TrimSpace(p.Query)
	if p.Query == "" {
		return fmt.Errorf("missing query text")
	}
	if p.RP != "" && p.DB == "" {
		return fmt.Errorf("retention policy %q given without a database", p.RP)
	}
	if p.Epoch == "" {
		p.Epoch = "ms"
	}
	if !validEpochs[p.Epoch] {
		return fmt.Errorf("invalid epoch %q: use one of h, m, s, ms, u, ns", p.Epoch)
	}
	return nil
}

// BuildQueryHelpText explains how to describe queries to the builder tools.
func BuildQueryHelpText(topic string) string {
	switch topic {
	case "fields":
		return `Query config fields:
- database (required): InfluxDB database, e.g. "telegraf"
- retentionPolicy (optional): e.g. "autogen"; omitted from FROM when empty
- measurement (required): e.g. "cpu"
- fields (required, non-empty): [{"field": "usage_idle", "funcs": ["mean"]}]
  "*" selects every field. When any field has funcs, every field is rendered
  as an aggregate; a field with no funcs then contributes nothing.
- fill (optional): null (default), none, 0, previous, linear
- areTagsAccepted: true renders tag filters with =, false with !=`
	case "where":
		return `Time bounds and tag filters:
- lower / upper: relative expressions ("now() - 1h", "now()") or absolute
  RFC3339 timestamps. Values containing "Z" and no single quote are quoted.
- timeRange: shorthand for lower, e.g. "15m", "6h", "7d" => now() - 7d
- tags: {"host": ["a", "b"], "cpu": ["cpu-total"]}
  Several values of one key are OR-ed inside parentheses, keys are AND-ed.`
	case "groupby":
		return `Grouping:
- groupBy: {"time": "5m", "tags": ["host"]}
- time "auto" renders the :interval: template for dashboards
- FILL is only added with a time interval and never for alert rules`
	case "canned":
		return `Canned dashboard queries (pre-built layouts):
- query: {"text": "SELECT mean(\"usage_user\") FROM cpu", "wheres": ["\"cpu\" = 'cpu-total'"], "groupbys": ["\"host\""]}
- lower defaults to now() - 15m; the GROUP BY interval comes from the named range
  matching lower (e.g. now() - 1h => 1m), 5m when none matches
- host adds and "host" = '<host>'`
	case "examples":
		return `Examples:
1. {"database":"telegraf","measurement":"cpu","fields":[{"field":"usage_idle","funcs":[]}]}
   => SELECT "usage_idle" FROM "telegraf"."cpu"
2. {"database":"telegraf","retentionPolicy":"autogen","measurement":"cpu",
    "fields":[{"field":"usage_idle","funcs":["mean"]}],
    "groupBy":{"time":"5m","tags":["host"]},"tags":{"host":["a","b"]},"areTagsAccepted":true}
   with lower "now() - 1h"
   => SELECT mean("usage_idle") AS "mean_usage_idle" FROM "telegraf"."autogen"."cpu" WHERE time > now() - 1h AND ("host"='a' OR "host"='b') GROUP BY time(5m), "host" FILL(null)`
	default:
		return "InfluxQL query builder help\n\n" +
			BuildQueryHelpText("fields") + "\n\n" +
			BuildQueryHelpText("where") + "\n\n" +
			BuildQueryHelpText("groupby") + "\n\n" +
			BuildQueryHelpText("canned") + "\n\n" +
			BuildQueryHelpText("examples")
	}
}
