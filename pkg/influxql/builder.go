// Package influxql turns stored query configurations into InfluxQL text.
//
// Every function in this package is pure: the same input always yields the
// same query and nothing is shared between calls.
package influxql

import (
	"fmt"
	"strings"
)

// QuoteIfTimestamp single-quotes bounds that look like absolute timestamps.
// A value is treated as a timestamp when it contains a 'Z' and no single
// quote, so a relative expression that happens to contain 'Z' is quoted too.
func QuoteIfTimestamp(b TimeBounds) TimeBounds {
	return TimeBounds{
		Lower: quoteTimestamp(b.Lower),
		Upper: quoteTimestamp(b.Upper),
	}
}

func quoteTimestamp(v string) string {
	if v != "" && strings.Contains(v, "Z") && !strings.Contains(v, "'") {
		return "'" + v + "'"
	}
	return v
}

// Build renders the full query for cfg. It reports false when the config
// lacks a database, a measurement or fields; callers should not run a query
// in that case. Rule queries never get a FILL clause.
func Build(bounds TimeBounds, cfg QueryConfig, isRule bool) (string, bool) {
	return build(bounds, cfg, isRule, false)
}

// BuildRunnable renders cfg for sending to InfluxDB. A config without a
// retention policy is qualified as "db".."m", which InfluxDB resolves to the
// database's default policy; a two-part "db"."m" would be read as "rp"."m".
func BuildRunnable(bounds TimeBounds, cfg QueryConfig) (string, bool) {
	return build(bounds, cfg, false, true)
}

func build(bounds TimeBounds, cfg QueryConfig, isRule, defaultRP bool) (string, bool) {
	bounds = QuoteIfTimestamp(bounds)

	selectClause, ok := buildSelect(cfg, defaultRP)
	if !ok {
		return "", false
	}

	where := buildWhere(bounds, cfg.Tags, cfg.AreTagsAccepted)
	dimensions := buildGroupBy(cfg.GroupBy)

	fill := ""
	if !isRule && cfg.GroupBy != nil && cfg.GroupBy.Time != "" {
		value := cfg.Fill
		if value == "" {
			value = NullFill
		}
		fill = buildFill(value)
	}

	return selectClause + where + dimensions + fill, true
}

// BuildSelect renders the SELECT ... FROM ... part of cfg.
func BuildSelect(cfg QueryConfig) (string, bool) {
	return buildSelect(cfg, false)
}

func buildSelect(cfg QueryConfig, defaultRP bool) (string, bool) {
	if cfg.Database == "" || cfg.Measurement == "" || len(cfg.Fields) == 0 {
		return "", false
	}
	return fmt.Sprintf("SELECT %s FROM %s", buildFields(cfg.Fields), qualifiedMeasurement(cfg, defaultRP)), true
}

// qualifiedMeasurement gives "db"."rp"."m" with a policy and "db"."m"
// without one, or "db".."m" when defaultRP is set.
func qualifiedMeasurement(cfg QueryConfig, defaultRP bool) string {
	rp := ""
	switch {
	case cfg.RetentionPolicy != "":
		rp = `"` + cfg.RetentionPolicy + `".`
	case defaultRP:
		rp = "."
	}
	return `"` + cfg.Database + `".` + rp + `"` + cfg.Measurement + `"`
}

// buildFields switches every field to the aggregate form as soon as one of
// them has a function. A field without functions then renders as an empty
// entry in the list.
func buildFields(fields []Field) string {
	hasAggregate := false
	for _, f := range fields {
		if len(f.Funcs) > 0 {
			hasAggregate = true
			break
		}
	}

	parts := make([]string, 0, len(fields))
	if hasAggregate {
		for _, f := range fields {
			calls := make([]string, 0, len(f.Funcs))
			for _, fn := range f.Funcs {
				calls = append(calls, fmt.Sprintf(`%s("%s") AS "%s_%s"`, fn, f.Field, fn, f.Field))
			}
			parts = append(parts, strings.Join(calls, ", "))
		}
		return strings.Join(parts, ", ")
	}

	for _, f := range fields {
		if f.Field == Wildcard {
			parts = append(parts, Wildcard)
			continue
		}
		parts = append(parts, `"`+f.Field+`"`)
	}
	return strings.Join(parts, ", ")
}

func buildWhere(bounds TimeBounds, tags TagFilters, accepted bool) string {
	bounds = QuoteIfTimestamp(bounds)

	var clauses []string
	if bounds.Lower != "" {
		clauses = append(clauses, "time > "+bounds.Lower)
	}
	if bounds.Upper != "" {
		clauses = append(clauses, "time < "+bounds.Upper)
	}

	op := "!="
	if accepted {
		op = "="
	}

	// values of one key are always OR-ed, even when they are rejected
	for _, tag := range tags {
		if len(tag.Values) > 1 {
			alternatives := make([]string, 0, len(tag.Values))
			for _, v := range tag.Values {
				alternatives = append(alternatives, tagClause(tag.Key, op, v))
			}
			clauses = append(clauses, "("+strings.Join(alternatives, " OR ")+")")
			continue
		}
		value := ""
		if len(tag.Values) == 1 {
			value = tag.Values[0]
		}
		clauses = append(clauses, tagClause(tag.Key, op, value))
	}

	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

func tagClause(key, op, value string) string {
	return `"` + key + `"` + op + `'` + value + `'`
}

func buildGroupBy(g *GroupBy) string {
	return buildGroupByTime(g) + buildGroupByTags(g)
}

func buildGroupByTime(g *GroupBy) string {
	if g == nil || g.Time == "" {
		return ""
	}
	if g.Time == DefaultDashboardGroupByInterval {
		return " GROUP BY " + IntervalTemplate
	}
	return " GROUP BY time(" + g.Time + ")"
}

func buildGroupByTags(g *GroupBy) string {
	if g == nil || len(g.Tags) == 0 {
		return ""
	}

	quoted := make([]string, 0, len(g.Tags))
	for _, t := range g.Tags {
		quoted = append(quoted, `"`+t+`"`)
	}
	tags := strings.Join(quoted, ", ")

	if g.Time != "" {
		return ", " + tags
	}
	return " GROUP BY " + tags
}

func buildFill(value string) string {
	return " FILL(" + value + ")"
}
