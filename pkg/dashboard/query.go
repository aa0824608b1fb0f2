package dashboard

// InfluxQLPatterns collects query shapes that work well in dashboard cells.
const InfluxQLPatterns = `
InfluxQL patterns

Identifiers are double-quoted, string literals single-quoted:
  SELECT mean("usage_idle") FROM "telegraf"."autogen"."cpu" WHERE "host"='server01'

Measurement qualification:
  "db"."rp"."measurement" with a retention policy, "db"."measurement" without one.

Time filters:
  WHERE time > now() - 1h
  WHERE time > '2017-01-01T00:00:00Z' AND time < '2017-01-02T00:00:00Z'
  Dashboard cells use :dashboardTime: and :upperDashboardTime:.

Aggregates and grouping:
  SELECT mean("usage_idle") AS "mean_usage_idle" FROM "telegraf"."cpu"
    WHERE time > now() - 6h GROUP BY time(1m), "host" FILL(null)
  GROUP BY :interval: lets the dashboard choose the interval.

Tag filters:
  several values of one tag are OR-ed:  ("host"='a' OR "host"='b')
  different tags are AND-ed:            "host"='a' AND "cpu"='cpu-total'
  exclusion uses !=:                    "host"!='a'

Common cells:
  CPU idle:     SELECT mean("usage_idle") FROM "telegraf"."autogen"."cpu" WHERE "cpu"='cpu-total' AND time > :dashboardTime: GROUP BY :interval:
  Memory used:  SELECT mean("used_percent") FROM "telegraf"."autogen"."mem" WHERE time > :dashboardTime: GROUP BY :interval:
  Disk used:    SELECT last("used_percent") FROM "telegraf"."autogen"."disk" WHERE time > :dashboardTime: GROUP BY "path"
  Load:         SELECT mean("load1"), mean("load5"), mean("load15") FROM "telegraf"."autogen"."system" WHERE time > :dashboardTime: GROUP BY :interval:

Alert rules (Kapacitor) use the same query without time bounds and without FILL.
`
