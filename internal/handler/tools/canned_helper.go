package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chronograf/chronograf-mcp-server/pkg/influxql"
	"github.com/chronograf/chronograf-mcp-server/pkg/timeutil"
)

const cannedExample = `{"text": "SELECT mean(\"usage_user\") FROM \"cpu\"", "wheres": ["\"cpu\" = 'cpu-total'"], "groupbys": ["\"host\""]}`

// CannedRequest holds the parsed parameters of chronograf_build_canned_query.
type CannedRequest struct {
	Query  influxql.CannedQuery
	Bounds influxql.TimeBounds
	Host   string
}

func parseCannedArgs(args map[string]any) (*CannedRequest, error) {
	var raw []byte
	switch q := args["query"].(type) {
	case string:
		raw = []byte(q)
	case map[string]any:
		b, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("failed to encode \"query\": %w", err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("\"query\" is required and must be a JSON object. Example: {\"query\": %s}", cannedExample)
	}

	var q influxql.CannedQuery
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("invalid \"query\": %s. Example: {\"query\": %s}", err.Error(), cannedExample)
	}
	if strings.TrimSpace(q.Text) == "" {
		return nil, fmt.Errorf("\"query.text\" cannot be empty. Example: {\"query\": %s}", cannedExample)
	}

	lower, upper, err := timeutil.BoundsFromArgs(args, timeutil.DefaultLower)
	if err != nil {
		return nil, err
	}

	return &CannedRequest{
		Query:  q,
		Bounds: influxql.TimeBounds{Lower: lower, Upper: upper},
		Host:   stringArg(args, "host"),
	}, nil
}
