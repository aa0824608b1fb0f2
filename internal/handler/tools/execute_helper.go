package tools

import (
	"fmt"

	"github.com/chronograf/chronograf-mcp-server/pkg/influxql"
	"github.com/chronograf/chronograf-mcp-server/pkg/timerange"
	"github.com/chronograf/chronograf-mcp-server/pkg/timeutil"
	"github.com/chronograf/chronograf-mcp-server/pkg/types"
)

// ExecuteRequest holds the parsed parameters of chronograf_execute_query.
type ExecuteRequest struct {
	SourceID string
	Proxy    types.ProxyRequest
}

// parseExecuteArgs accepts either raw InfluxQL in "query" or a query config
// in "queryConfig". Configs are built against the given bounds (default
// now() - 15m) and an "auto" interval is resolved from the named range
// table since InfluxDB cannot evaluate :interval: itself.
func parseExecuteArgs(args map[string]any, ranges timerange.Table) (*ExecuteRequest, error) {
	sourceID := stringArg(args, "sourceId")
	if sourceID == "" {
		return nil, fmt.Errorf(`"sourceId" is required. Use chronograf_list_sources to find it. Example: {"sourceId": "1", "query": "SHOW DATABASES"}`)
	}

	req := &ExecuteRequest{
		SourceID: sourceID,
		Proxy: types.ProxyRequest{
			Query: stringArg(args, "query"),
			DB:    stringArg(args, "db"),
			RP:    stringArg(args, "rp"),
			Epoch: stringArg(args, "epoch"),
		},
	}

	_, hasConfig := args["queryConfig"]
	switch {
	case req.Proxy.Query != "" && hasConfig:
		return nil, fmt.Errorf(`give either "query" or "queryConfig", not both`)
	case req.Proxy.Query == "" && !hasConfig:
		return nil, fmt.Errorf(`"query" or "queryConfig" is required. Example: {"sourceId": "1", "query": "SELECT mean(\"usage_idle\") FROM \"telegraf\".\"autogen\".\"cpu\" WHERE time > now() - 1h"}`)
	case hasConfig:
		cfg, err := parseQueryConfig(args["queryConfig"], "queryConfig")
		if err != nil {
			return nil, err
		}
		lower, upper, err := timeutil.BoundsFromArgs(args, timeutil.DefaultLower)
		if err != nil {
			return nil, err
		}
		if cfg.GroupBy != nil && cfg.GroupBy.Time == influxql.DefaultDashboardGroupByInterval {
			resolved := *cfg.GroupBy
			resolved.Time = ranges.DefaultGroupBy(lower)
			cfg.GroupBy = &resolved
		}

		q, ok := influxql.BuildRunnable(influxql.TimeBounds{Lower: lower, Upper: upper}, *cfg)
		if !ok {
			return nil, incompleteConfigError(*cfg)
		}
		req.Proxy.Query = q
		if req.Proxy.DB == "" {
			req.Proxy.DB = cfg.Database
		}
		if req.Proxy.RP == "" {
			req.Proxy.RP = cfg.RetentionPolicy
		}
	}

	if err := req.Proxy.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
