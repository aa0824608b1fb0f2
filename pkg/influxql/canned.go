package influxql

import (
	"strings"

	"github.com/chronograf/chronograf-mcp-server/pkg/timerange"
)

// BuildCanned appends time, host and grouping clauses to the body of a
// legacy dashboard query. The default GROUP BY interval comes from the
// named range whose lower bound equals tr.Lower.
func BuildCanned(q CannedQuery, tr TimeBounds, host string, ranges timerange.Table) string {
	defaultGroupBy := ranges.DefaultGroupBy(tr.Lower)

	var b strings.Builder
	b.WriteString(q.Text)

	if tr.Upper != "" {
		b.WriteString(" where time > '" + tr.Lower + "' AND time < '" + tr.Upper + "'")
	} else {
		b.WriteString(" where time > " + tr.Lower)
	}

	if host != "" {
		b.WriteString(` and "host" = '` + host + `'`)
	}

	if len(q.Wheres) > 0 {
		b.WriteString(" and " + strings.Join(q.Wheres, " and "))
	}

	b.WriteString(cannedGroupBy(q.GroupBys, defaultGroupBy))
	return b.String()
}

func cannedGroupBy(groupBys []string, defaultGroupBy string) string {
	defaultTime := " group by time(" + defaultGroupBy + ")"
	if groupBys == nil {
		return defaultTime
	}

	for _, g := range groupBys {
		if strings.Contains(g, "time") {
			return " group by " + strings.Join(groupBys, ",")
		}
	}
	if len(groupBys) > 0 {
		return " group by time(" + defaultGroupBy + ")," + strings.Join(groupBys, ",")
	}
	return defaultTime
}
