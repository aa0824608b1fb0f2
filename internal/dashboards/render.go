// Package dashboards renders the queries of stored dashboards, fetching
// several dashboards concurrently.
package dashboards

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chronograf/chronograf-mcp-server/pkg/influxql"
	"github.com/chronograf/chronograf-mcp-server/pkg/timerange"
	"github.com/chronograf/chronograf-mcp-server/pkg/types"
)

const DefaultConcurrency = 4

// Fetcher loads a single dashboard. *client.Chronograf satisfies it.
type Fetcher interface {
	Dashboard(ctx context.Context, id int) (*types.Dashboard, error)
}

// Options apply to every cell of every rendered dashboard.
type Options struct {
	Proxy  string
	Bounds influxql.TimeBounds
	Host   string
}

type Renderer struct {
	fetcher     Fetcher
	ranges      timerange.Table
	logger      *zap.Logger
	concurrency int
}

func NewRenderer(log *zap.Logger, fetcher Fetcher, ranges timerange.Table, concurrency int) *Renderer {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Renderer{
		fetcher:     fetcher,
		ranges:      ranges,
		logger:      log,
		concurrency: concurrency,
	}
}

// Render fetches the dashboards and renders their cells. Results keep the
// order of ids. The first fetch error cancels the remaining fetches.
func (r *Renderer) Render(ctx context.Context, ids []int, opts Options) ([]types.RenderedDashboard, error) {
	out := make([]types.RenderedDashboard, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			d, err := r.fetcher.Dashboard(ctx, id)
			if err != nil {
				r.logger.Error("Failed to fetch dashboard", zap.Int("id", id), zap.Error(err))
				return fmt.Errorf("dashboard %d: %w", id, err)
			}
			out[i] = RenderDashboard(*d, opts, r.ranges)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderDashboard renders every cell of d without any I/O.
func RenderDashboard(d types.Dashboard, opts Options, ranges timerange.Table) types.RenderedDashboard {
	rd := types.RenderedDashboard{
		ID:    d.ID,
		Name:  d.Name,
		Cells: make([]types.CellQueries, 0, len(d.Cells)),
	}
	for _, cell := range d.Cells {
		rd.Cells = append(rd.Cells, types.CellQueries{
			CellID:   cell.ID,
			CellName: cell.Name,
			Queries:  influxql.BuildLayoutQueries(cell, opts.Proxy, opts.Bounds, opts.Host, ranges),
		})
	}
	return rd
}

// ParseIDs reads a comma separated list of dashboard ids. Duplicates are
// dropped, keeping the first occurrence.
func ParseIDs(s string) ([]int, error) {
	var ids []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid dashboard id %q", part)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no dashboard ids given")
	}
	return ids, nil
}
