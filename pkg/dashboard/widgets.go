package dashboard

// CellTypes describes the visualizations a Chronograf cell can use.
const CellTypes = `
Cell types:
- line: time series lines; default for most metrics.
- stacked: stacked areas; use for parts of a whole such as CPU states.
- step-plot: step lines; use for values that change in discrete jumps.
- bar: bars per interval; use for counts per time bucket.
- single-stat: the latest value of the first series; pair with a mean or last aggregate.
- line-plus-single-stat: a line graph with the latest value overlaid.
- gauge: the latest value against thresholds.
- table: raw rows; group by tags to get one row per series.
- note: markdown text, no queries.

Queries per cell:
- A cell holds one or more queries; each is either a query config
  (database, measurement, fields, tags, groupBy, fill) or a canned query text.
- Graph cells should aggregate (mean, max, sum, count, ...) and group by time;
  raw field selections over long ranges return too many points.
- single-stat and gauge cells need exactly one series: avoid tag group bys.
- Fill: null leaves gaps, none drops empty buckets, previous and linear
  interpolate, a number fills with that constant.
`
