package influxql

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func cpuConfig(fields ...Field) QueryConfig {
	return QueryConfig{
		Database:    "telegraf",
		Measurement: "cpu",
		Fields:      fields,
	}
}

func TestBuild_Select(t *testing.T) {
	tests := []struct {
		name string
		cfg  QueryConfig
		want string
	}{
		{
			name: "single raw field",
			cfg:  cpuConfig(Field{Field: "usage_idle", Funcs: []string{}}),
			want: `SELECT "usage_idle" FROM "telegraf"."cpu"`,
		},
		{
			name: "single aggregate",
			cfg:  cpuConfig(Field{Field: "usage_idle", Funcs: []string{"mean"}}),
			want: `SELECT mean("usage_idle") AS "mean_usage_idle" FROM "telegraf"."cpu"`,
		},
		{
			name: "wildcard stays unquoted",
			cfg:  cpuConfig(Field{Field: "*"}),
			want: `SELECT * FROM "telegraf"."cpu"`,
		},
		{
			name: "several raw fields",
			cfg:  cpuConfig(Field{Field: "usage_idle"}, Field{Field: "usage_user"}),
			want: `SELECT "usage_idle", "usage_user" FROM "telegraf"."cpu"`,
		},
		{
			name: "several functions keep their order",
			cfg: cpuConfig(
				Field{Field: "usage_idle", Funcs: []string{"mean", "max"}},
				Field{Field: "usage_user", Funcs: []string{"sum"}},
			),
			want: `SELECT mean("usage_idle") AS "mean_usage_idle", max("usage_idle") AS "max_usage_idle", sum("usage_user") AS "sum_usage_user" FROM "telegraf"."cpu"`,
		},
		{
			name: "retention policy is quoted",
			cfg: QueryConfig{
				Database:        "telegraf",
				RetentionPolicy: "autogen",
				Measurement:     "cpu",
				Fields:          []Field{{Field: "usage_idle"}},
			},
			want: `SELECT "usage_idle" FROM "telegraf"."autogen"."cpu"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Build(TimeBounds{}, tt.cfg, false)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

// A field without functions is pushed through the aggregate renderer once
// any other field has one, and shows up as an empty list entry.
func TestBuild_ForcedAggregateQuirk(t *testing.T) {
	cfg := cpuConfig(
		Field{Field: "usage_idle", Funcs: []string{"mean"}},
		Field{Field: "usage_user"},
	)

	got, ok := Build(TimeBounds{}, cfg, false)
	require.True(t, ok)
	require.Equal(t, `SELECT mean("usage_idle") AS "mean_usage_idle",  FROM "telegraf"."cpu"`, got)
	require.NotContains(t, got, "usage_user")
}

func TestBuild_Unbuildable(t *testing.T) {
	tests := []struct {
		name string
		cfg  QueryConfig
	}{
		{name: "empty config", cfg: QueryConfig{}},
		{name: "missing database", cfg: QueryConfig{Measurement: "cpu", Fields: []Field{{Field: "f"}}}},
		{name: "missing measurement", cfg: QueryConfig{Database: "telegraf", Fields: []Field{{Field: "f"}}}},
		{name: "no fields", cfg: QueryConfig{Database: "telegraf", Measurement: "cpu"}},
		{name: "empty fields", cfg: QueryConfig{Database: "telegraf", Measurement: "cpu", Fields: []Field{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.GroupBy = &GroupBy{Time: "5m"}
			got, ok := Build(TimeBounds{Lower: "now() - 1h"}, tt.cfg, false)
			require.False(t, ok)
			require.Empty(t, got)

			_, ok = BuildSelect(tt.cfg)
			require.False(t, ok)
		})
	}
}

func TestBuild_Where(t *testing.T) {
	tests := []struct {
		name     string
		bounds   TimeBounds
		tags     TagFilters
		accepted bool
		want     string
	}{
		{
			name:   "relative lower bound",
			bounds: TimeBounds{Lower: "now() - 15m"},
			want:   ` WHERE time > now() - 15m`,
		},
		{
			name:   "absolute bounds are quoted",
			bounds: TimeBounds{Lower: "2017-01-01T00:00:00Z", Upper: "2017-01-02T00:00:00Z"},
			want:   ` WHERE time > '2017-01-01T00:00:00Z' AND time < '2017-01-02T00:00:00Z'`,
		},
		{
			name:   "already quoted bounds are kept",
			bounds: TimeBounds{Lower: "'2017-01-01T00:00:00Z'"},
			want:   ` WHERE time > '2017-01-01T00:00:00Z'`,
		},
		{
			name:   "upper bound only",
			bounds: TimeBounds{Upper: "now()"},
			want:   ` WHERE time < now()`,
		},
		{
			name:     "rejected values are still OR-ed",
			tags:     TagFilters{{Key: "host", Values: []string{"a", "b"}}},
			accepted: false,
			want:     ` WHERE ("host"!='a' OR "host"!='b')`,
		},
		{
			name:     "accepted values",
			bounds:   TimeBounds{Lower: "now() - 1h"},
			tags:     TagFilters{{Key: "cpu", Values: []string{"cpu-total"}}, {Key: "host", Values: []string{"a", "b"}}},
			accepted: true,
			want:     ` WHERE time > now() - 1h AND "cpu"='cpu-total' AND ("host"='a' OR "host"='b')`,
		},
		{
			name:     "key without values",
			tags:     TagFilters{{Key: "host"}},
			accepted: true,
			want:     ` WHERE "host"=''`,
		},
		{
			name: "nothing to filter",
			want: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cpuConfig(Field{Field: "usage_idle"})
			cfg.Tags = tt.tags
			cfg.AreTagsAccepted = tt.accepted

			got, ok := Build(tt.bounds, cfg, false)
			require.True(t, ok)
			require.Equal(t, `SELECT "usage_idle" FROM "telegraf"."cpu"`+tt.want, got)
		})
	}
}

func TestBuild_TagOrderFollowsStoredObject(t *testing.T) {
	var cfg QueryConfig
	err := json.Unmarshal([]byte(`{
		"database": "telegraf",
		"measurement": "cpu",
		"fields": [{"field": "usage_idle", "funcs": []}],
		"tags": {"zone": ["us-east"], "host": ["b", "a"], "cpu": "cpu0"},
		"areTagsAccepted": true
	}`), &cfg)
	require.NoError(t, err)

	got, ok := Build(TimeBounds{}, cfg, false)
	require.True(t, ok)
	require.Equal(t, `SELECT "usage_idle" FROM "telegraf"."cpu" WHERE "zone"='us-east' AND ("host"='b' OR "host"='a') AND "cpu"='cpu0'`, got)

	// the same config built twice gives the same text
	again, _ := Build(TimeBounds{}, cfg, false)
	require.Equal(t, got, again)
}

func TestBuild_GroupByAndFill(t *testing.T) {
	tests := []struct {
		name    string
		groupBy *GroupBy
		fill    string
		isRule  bool
		want    string
	}{
		{
			name:    "time interval with default fill",
			groupBy: &GroupBy{Time: "5m", Tags: []string{}},
			want:    ` GROUP BY time(5m) FILL(null)`,
		},
		{
			name:    "dashboard interval becomes a template",
			groupBy: &GroupBy{Time: DefaultDashboardGroupByInterval},
			want:    ` GROUP BY :interval: FILL(null)`,
		},
		{
			name:    "time and tags with explicit fill",
			groupBy: &GroupBy{Time: "5m", Tags: []string{"host", "cpu"}},
			fill:    "0",
			want:    ` GROUP BY time(5m), "host", "cpu" FILL(0)`,
		},
		{
			name:    "tags only have no fill",
			groupBy: &GroupBy{Tags: []string{"host"}},
			fill:    "previous",
			want:    ` GROUP BY "host"`,
		},
		{
			name:    "rule mode drops fill",
			groupBy: &GroupBy{Time: "10m", Tags: []string{"host"}},
			fill:    "linear",
			isRule:  true,
			want:    ` GROUP BY time(10m), "host"`,
		},
		{
			name:    "empty group by",
			groupBy: &GroupBy{},
			want:    ``,
		},
		{
			name: "absent group by",
			want: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cpuConfig(Field{Field: "usage_idle", Funcs: []string{"mean"}})
			cfg.GroupBy = tt.groupBy
			cfg.Fill = tt.fill

			got, ok := Build(TimeBounds{}, cfg, tt.isRule)
			require.True(t, ok)
			require.Equal(t, `SELECT mean("usage_idle") AS "mean_usage_idle" FROM "telegraf"."cpu"`+tt.want, got)
		})
	}
}

func TestBuild_RuleModeNeverFills(t *testing.T) {
	for _, fill := range []string{"", "null", "none", "0", "previous", "linear"} {
		cfg := cpuConfig(Field{Field: "usage_idle", Funcs: []string{"mean"}})
		cfg.GroupBy = &GroupBy{Time: "1m"}
		cfg.Fill = fill

		got, ok := Build(TimeBounds{Lower: "now() - 1h"}, cfg, true)
		require.True(t, ok)
		require.NotContains(t, got, "FILL", "fill %q", fill)
	}
}

func TestBuildRunnable_DefaultRetentionPolicy(t *testing.T) {
	tests := []struct {
		name string
		rp   string
		want string
	}{
		{
			name: "no policy uses the default one",
			want: `SELECT "usage_idle" FROM "telegraf".."cpu" WHERE time > now() - 15m`,
		},
		{
			name: "explicit policy",
			rp:   "autogen",
			want: `SELECT "usage_idle" FROM "telegraf"."autogen"."cpu" WHERE time > now() - 15m`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cpuConfig(Field{Field: "usage_idle"})
			cfg.RetentionPolicy = tt.rp

			got, ok := BuildRunnable(TimeBounds{Lower: "now() - 15m"}, cfg)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	cfg := cpuConfig(Field{Field: "usage_idle"})
	got, ok := Build(TimeBounds{}, cfg, false)
	require.True(t, ok)
	require.Equal(t, `SELECT "usage_idle" FROM "telegraf"."cpu"`, got)

	_, ok = BuildRunnable(TimeBounds{}, QueryConfig{Database: "telegraf"})
	require.False(t, ok)
}

func TestBuild_AlwaysStartsWithSelect(t *testing.T) {
	cfg := QueryConfig{
		Database:        "telegraf",
		RetentionPolicy: "autogen",
		Measurement:     "mem",
		Fields:          []Field{{Field: "used_percent", Funcs: []string{"max"}}},
		GroupBy:         &GroupBy{Time: "1h", Tags: []string{"host"}},
		Tags:            TagFilters{{Key: "host", Values: []string{"db01"}}},
		AreTagsAccepted: true,
	}

	got, ok := Build(TimeBounds{Lower: "now() - 7d", Upper: "now()"}, cfg, false)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(got, "SELECT "))
	require.Equal(t,
		`SELECT max("used_percent") AS "max_used_percent" FROM "telegraf"."autogen"."mem" WHERE time > now() - 7d AND time < now() AND "host"='db01' GROUP BY time(1h), "host" FILL(null)`,
		got)
}

func TestQuoteIfTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   TimeBounds
		want TimeBounds
	}{
		{
			name: "absolute bounds",
			in:   TimeBounds{Lower: "2017-01-01T00:00:00Z", Upper: "2017-01-01T01:00:00.000Z"},
			want: TimeBounds{Lower: "'2017-01-01T00:00:00Z'", Upper: "'2017-01-01T01:00:00.000Z'"},
		},
		{
			name: "relative bounds pass through",
			in:   TimeBounds{Lower: "now() - 1h", Upper: "now()"},
			want: TimeBounds{Lower: "now() - 1h", Upper: "now()"},
		},
		{
			name: "absent bounds stay absent",
			in:   TimeBounds{},
			want: TimeBounds{},
		},
		{
			name: "a quote anywhere disables quoting",
			in:   TimeBounds{Lower: "'2017-01-01T00:00:00Z' - 1h"},
			want: TimeBounds{Lower: "'2017-01-01T00:00:00Z' - 1h"},
		},
		{
			// known limitation of the Z heuristic
			name: "any Z is taken for a timestamp",
			in:   TimeBounds{Lower: ":dashboardTimeZ:"},
			want: TimeBounds{Lower: "':dashboardTimeZ:'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := QuoteIfTimestamp(tt.in)
			require.Equal(t, tt.want, once)
			require.Equal(t, once, QuoteIfTimestamp(once))
		})
	}
}
