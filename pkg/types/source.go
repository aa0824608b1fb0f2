package types

// Source is an InfluxDB data source registered in Chronograf.
type Source struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type,omitempty"`
	URL      string      `json:"url"`
	Default  bool        `json:"default"`
	Telegraf string      `json:"telegraf,omitempty"`
	Links    SourceLinks `json:"links"`
}

type SourceLinks struct {
	Self       string `json:"self"`
	Kapacitors string `json:"kapacitors,omitempty"`
	Proxy      string `json:"proxy"`
	Queries    string `json:"queries,omitempty"`
	Write      string `json:"write,omitempty"`
	Databases  string `json:"databases,omitempty"`
}

type SourcesResponse struct {
	Sources []Source `json:"sources"`
}

// Links holds the self link Chronograf attaches to most resources.
type Links struct {
	Self string `json:"self,omitempty"`
}
