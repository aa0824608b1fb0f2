// Package search keeps an in-memory full text index of dashboards so they
// can be found by name, cell title, measurement or query text.
package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/chronograf/chronograf-mcp-server/pkg/types"
)

const DefaultLimit = 10

type document struct {
	Name         string `json:"name"`
	Cells        string `json:"cells"`
	Measurements string `json:"measurements"`
	Databases    string `json:"databases"`
	Queries      string `json:"queries"`
}

type Hit struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type Index struct {
	index bleve.Index
	names map[int]string
}

// NewIndex builds a memory-only index over dashboards.
func NewIndex(dashboards []types.Dashboard) (*Index, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	idx := &Index{index: index, names: make(map[int]string, len(dashboards))}

	batch := index.NewBatch()
	for _, d := range dashboards {
		idx.names[d.ID] = d.Name
		if err := batch.Index(strconv.Itoa(d.ID), toDocument(d)); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index dashboard %d: %w", d.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to index dashboards: %w", err)
	}
	return idx, nil
}

func toDocument(d types.Dashboard) document {
	var cells, measurements, databases, queries []string
	for _, c := range d.Cells {
		cells = append(cells, c.Name)
		for _, q := range c.Queries {
			if q.Label != "" {
				cells = append(cells, q.Label)
			}
			if q.Config != nil {
				measurements = append(measurements, q.Config.Measurement)
				databases = append(databases, q.Config.Database)
				if q.Config.RawText != "" {
					queries = append(queries, q.Config.RawText)
				}
			}
			if q.Canned != nil {
				queries = append(queries, q.Canned.Text)
			}
		}
	}
	return document{
		Name:         d.Name,
		Cells:        strings.Join(cells, " "),
		Measurements: strings.Join(measurements, " "),
		Databases:    strings.Join(databases, " "),
		Queries:      strings.Join(queries, " "),
	}
}

// Search runs a query string query (e.g. "cpu", "name:system",
// "+measurements:mem") and returns hits by descending score.
func (i *Index) Search(query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(query), limit, 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{ID: id, Name: i.names[id], Score: h.Score})
	}
	return hits, nil
}

func (i *Index) Close() error {
	return i.index.Close()
}
