package dashboard

// Layout explains how Chronograf positions cells on a dashboard.
const Layout = `
Follow these rules when reading or proposing a Chronograf dashboard layout.

Basics:
Dashboard name: a descriptive name, unique within the Chronograf instance.
Template variables: reusable values such as :host: or :database: referenced
from cell queries; every variable used in a query must exist on the dashboard.

Layout [Critical]:
- Cells sit on a 12-column grid; x and y give the position, w and h the size in grid units.
- x is the horizontal start (0-11, 0 is leftmost); y is the vertical start and grows downward.
- w is the width (1-12, 12 spans the full width); h is the height (minimum 1, typical 3-6).
- "i" is the stable unique cell id; keep it unchanged when editing a cell.
- Cells must not overlap: a new row starts at or after the previous row's y + h.
- Side-by-side cells satisfy x1 + w1 = x2 and w1 + w2 <= 12.
- Three columns use w=4 (x=0, 4, 8); four columns use w=3 (x=0, 3, 6, 9).

Recommended heights by cell type:
- single-stat and gauge: h=2 to h=3
- line, stacked, step-plot and bar: h=4 to h=6
- line-plus-single-stat: h=4 to h=5
- table: h=5 to h=8
- note: h=2 to h=4

Time handling:
- Query config cells are rendered with :dashboardTime: and :upperDashboardTime:
  so the dashboard's time picker drives them; a cell can pin its own range instead.
- groupBy.time "auto" lets the dashboard pick the interval through :interval:.
- Canned (pre-built) cells get the interval of the selected named range:
  5m=10s, 15m=1m, 1h=1m, 6h=1m, 12h=5m, 24h=10m, 2d=30m, 7d=1h, 30d=6h,
  and 5m for any other range.
`
