package dashboard

// Resource is a guidance document published to MCP clients.
type Resource struct {
	URI         string
	Name        string
	Description string
	Text        string
}

const MIMEType = "text/markdown"

func Resources() []Resource {
	return []Resource{
		{
			URI:         "chronograf://docs/dashboard-layout",
			Name:        "Dashboard layout",
			Description: "Grid, cell sizing and time handling rules for Chronograf dashboards",
			Text:        Layout,
		},
		{
			URI:         "chronograf://docs/cell-types",
			Name:        "Cell types",
			Description: "Visualization types and how their queries should be shaped",
			Text:        CellTypes,
		},
		{
			URI:         "chronograf://docs/influxql",
			Name:        "InfluxQL patterns",
			Description: "Quoting, time filters, grouping and common dashboard queries",
			Text:        InfluxQLPatterns,
		},
	}
}
