package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/chronograf/chronograf-mcp-server/pkg/influxql"
	"github.com/chronograf/chronograf-mcp-server/pkg/timeutil"
)

const queryConfigExample = `{"database": "telegraf", "measurement": "cpu", "fields": [{"field": "usage_idle", "funcs": ["mean"]}], "groupBy": {"time": "5m", "tags": ["host"]}, "tags": {"host": ["server01"]}, "areTagsAccepted": true}`

// BuildRequest keeps the parsed parameters of chronograf_build_influxql.
type BuildRequest struct {
	Config influxql.QueryConfig
	Bounds influxql.TimeBounds
	IsRule bool
}

// parseQueryConfig accepts the query config either as a JSON object or as
// a JSON string. Only the string form keeps the caller's tag key order;
// objects arrive as Go maps and their keys are re-encoded sorted.
func parseQueryConfig(v any, key string) (*influxql.QueryConfig, error) {
	var raw []byte
	switch q := v.(type) {
	case nil:
		return nil, fmt.Errorf("%q is required. Example: {%q: %s}", key, key, queryConfigExample)
	case string:
		if strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("%q cannot be empty. Example: {%q: %s}", key, key, queryConfigExample)
		}
		raw = []byte(q)
	case map[string]any:
		b, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", key, err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("%q must be a JSON object. Example: {%q: %s}", key, key, queryConfigExample)
	}

	var cfg influxql.QueryConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %q: %s. Example: {%q: %s}", key, err.Error(), key, queryConfigExample)
	}
	return &cfg, nil
}

// parseBuildArgs validates and parses chronograf_build_influxql arguments.
// Input comes from an LLM, so every error says how to fix the call.
func parseBuildArgs(args map[string]any) (*BuildRequest, error) {
	cfg, err := parseQueryConfig(args["query"], "query")
	if err != nil {
		return nil, err
	}

	isRule, err := boolArg(args, "isKapacitorRule")
	if err != nil {
		return nil, err
	}

	lower, upper, err := timeutil.BoundsFromArgs(args, "")
	if err != nil {
		return nil, err
	}

	return &BuildRequest{
		Config: *cfg,
		Bounds: influxql.TimeBounds{Lower: lower, Upper: upper},
		IsRule: isRule,
	}, nil
}

// incompleteConfigError explains why Build refused a config.
func incompleteConfigError(cfg influxql.QueryConfig) error {
	var missing []string
	if cfg.Database == "" {
		missing = append(missing, `"database"`)
	}
	if cfg.Measurement == "" {
		missing = append(missing, `"measurement"`)
	}
	if len(cfg.Fields) == 0 {
		missing = append(missing, `at least one entry in "fields"`)
	}
	return fmt.Errorf("query config is incomplete: missing %s. Example: %s",
		strings.Join(missing, ", "), queryConfigExample)
}

func boolArg(args map[string]any, key string) (bool, error) {
	switch v := args[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		if v == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid %q value %q: use true or false", key, v)
		}
		return b, nil
	}
	return false, fmt.Errorf("invalid %q value: use true or false", key)
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func intArg(args map[string]any, key string, defaultVal int) (int, error) {
	var num int
	switch v := args[key].(type) {
	case nil:
		return defaultVal, nil
	case float64:
		num = int(v)
	case string:
		if v == "" {
			return defaultVal, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %q value %q: must be a number", key, v)
		}
		num = n
	default:
		return 0, fmt.Errorf("invalid %q value: must be a number", key)
	}
	if num <= 0 {
		return defaultVal, nil
	}
	return num, nil
}
