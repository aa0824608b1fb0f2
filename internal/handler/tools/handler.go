package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/chronograf/chronograf-mcp-server/internal/analytics"
	chronografclient "github.com/chronograf/chronograf-mcp-server/internal/client"
	"github.com/chronograf/chronograf-mcp-server/internal/contextutil"
	"github.com/chronograf/chronograf-mcp-server/internal/dashboards"
	"github.com/chronograf/chronograf-mcp-server/internal/search"
	"github.com/chronograf/chronograf-mcp-server/internal/telemetry"
	"github.com/chronograf/chronograf-mcp-server/pkg/influxql"
	"github.com/chronograf/chronograf-mcp-server/pkg/paginate"
	"github.com/chronograf/chronograf-mcp-server/pkg/timerange"
	"github.com/chronograf/chronograf-mcp-server/pkg/timeutil"
	"github.com/chronograf/chronograf-mcp-server/pkg/types"
)

const (
	DefaultClientCacheSize = 64

	lowerDesc     = "Lower time bound (optional). A relative expression such as 'now() - 1h', an RFC3339 timestamp such as '2017-01-01T00:00:00Z' (quoted automatically), or milliseconds since epoch."
	upperDesc     = "Upper time bound (optional). Same formats as 'lower'. Leave empty for an open range ending now."
	timeRangeDesc = "Time range shorthand (optional, overrides 'lower'). Format: <number><unit>, unit one of s, m, h, d, w. Example: '1h' becomes 'now() - 1h'."
	limitDesc     = "Maximum number of results per page. Default: 50. Must be greater than 0."
	offsetDesc    = "Number of results to skip. Use 'pagination.nextOffset' from the previous response. Default: 0."
)

type Handler struct {
	client        *chronografclient.Chronograf
	logger        *zap.Logger
	chronografURL string
	clientOpts    []chronografclient.Option
	clients       *lru.Cache[string, *chronografclient.Chronograf]
	ranges        timerange.Table
	telemetry     *telemetry.Telemetry
	tracker       *analytics.Tracker
	concurrency   int
}

type Option func(*Handler)

func WithTimeRanges(t timerange.Table) Option {
	return func(h *Handler) { h.ranges = t }
}

func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(h *Handler) { h.telemetry = t }
}

func WithAnalytics(t *analytics.Tracker) Option {
	return func(h *Handler) { h.tracker = t }
}

// WithClientOptions are applied to clients created for context tokens.
func WithClientOptions(opts ...chronografclient.Option) Option {
	return func(h *Handler) { h.clientOpts = opts }
}

func WithRenderConcurrency(n int) Option {
	return func(h *Handler) { h.concurrency = n }
}

func NewHandler(log *zap.Logger, client *chronografclient.Chronograf, chronografURL string, cacheSize int, opts ...Option) (*Handler, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultClientCacheSize
	}
	clients, err := lru.New[string, *chronografclient.Chronograf](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create client cache: %w", err)
	}

	h := &Handler{
		client:        client,
		logger:        log,
		chronografURL: chronografURL,
		clients:       clients,
		ranges:        timerange.Default(),
		concurrency:   dashboards.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.telemetry == nil {
		tel, err := telemetry.Setup(context.Background(), log, "chronograf-mcp-server", "", "")
		if err != nil {
			return nil, err
		}
		h.telemetry = tel
	}
	return h, nil
}

// GetClient returns the client for the bearer token carried by ctx, or the
// default client when there is none. Token clients are kept in an LRU cache.
func (h *Handler) GetClient(ctx context.Context) *chronografclient.Chronograf {
	token, ok := contextutil.GetToken(ctx)
	if !ok || token == "" || h.chronografURL == "" {
		return h.client
	}

	if cached, ok := h.clients.Get(token); ok {
		return cached
	}

	h.logger.Debug("Creating client with token from context")
	c := chronografclient.NewClient(h.logger, h.chronografURL, token, h.clientOpts...)
	// a concurrent caller may have added one already; keep theirs
	if prev, ok, _ := h.clients.PeekOrAdd(token, c); ok {
		return prev
	}
	return c
}

type toolFunc func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// instrument wraps a tool with a span, call metrics and a usage event.
func (h *Handler) instrument(name string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		h.logger.Debug("Tool called: " + name)
		start := time.Now()

		ctx, end := h.telemetry.StartTool(ctx, name)
		result, err := fn(ctx, req)

		failure := err
		if failure == nil && result != nil && result.IsError {
			failure = errors.New(resultText(result))
		}
		end(failure)
		h.tracker.ToolCalled(name, time.Since(start), failure)

		return result, err
	}
}

func resultText(r *mcp.CallToolResult) string {
	for _, c := range r.Content {
		if t, ok := c.(mcp.TextContent); ok {
			return t.Text
		}
	}
	return "tool error"
}

func arguments(req mcp.CallToolRequest) (map[string]any, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok && req.Params.Arguments == nil {
		return map[string]any{}, true
	}
	return args, ok
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("failed to marshal response: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (h *Handler) RegisterQueryBuilderHandlers(s *server.MCPServer) {
	h.logger.Debug("Registering query builder handlers")

	buildTool := mcp.NewTool("chronograf_build_influxql",
		mcp.WithDescription("Build an InfluxQL query from a Chronograf query config (database, retentionPolicy, measurement, fields, tags, groupBy, fill). Returns the query text, or an error explaining what the config is missing. Tag filters are rendered in the order of the config's tags object; pass 'query' as a JSON string to keep that order exactly. Set isKapacitorRule to render an alert rule query (no FILL clause). Use chronograf_query_helper for the config format."),
		mcp.WithObject("query", mcp.Required(), mcp.Description(`Query config object (or the same object as a JSON string). Example: `+queryConfigExample)),
		mcp.WithString("lower", mcp.Description(lowerDesc)),
		mcp.WithString("upper", mcp.Description(upperDesc)),
		mcp.WithString("timeRange", mcp.Description(timeRangeDesc)),
		mcp.WithBoolean("isKapacitorRule", mcp.Description("Render the query the way Kapacitor alert rules use it: never adds FILL. Default: false.")),
	)
	s.AddTool(buildTool, h.instrument("chronograf_build_influxql", h.handleBuildInfluxQL))

	cannedTool := mcp.NewTool("chronograf_build_canned_query",
		mcp.WithDescription("Build the query of a pre-built (canned) dashboard layout: appends the time filter, an optional host filter, extra where clauses and the GROUP BY interval. The default interval follows the selected range (e.g. now() - 1h uses 1m); unknown ranges use 5m."),
		mcp.WithObject("query", mcp.Required(), mcp.Description("Canned query object. Example: "+cannedExample)),
		mcp.WithString("lower", mcp.Description(lowerDesc+" Defaults to 'now() - 15m'.")),
		mcp.WithString("upper", mcp.Description(upperDesc+" When set, both bounds are single-quoted.")),
		mcp.WithString("timeRange", mcp.Description(timeRangeDesc)),
		mcp.WithString("host", mcp.Description("Optional host to filter on. Example: 'server01'.")),
	)
	s.AddTool(cannedTool, h.instrument("chronograf_build_canned_query", h.handleBuildCanned))

	executeTool := mcp.NewTool("chronograf_execute_query",
		mcp.WithDescription("Run an InfluxQL query through a Chronograf source proxy and return the raw InfluxDB response. Give either raw InfluxQL in 'query' or a query config in 'queryConfig' (built with the given bounds, default now() - 15m; an 'auto' interval is resolved from the range)."),
		mcp.WithString("sourceId", mcp.Required(), mcp.Description("Chronograf source ID. Use chronograf_list_sources to find it.")),
		mcp.WithString("query", mcp.Description(`Raw InfluxQL. Example: 'SELECT mean("usage_idle") FROM "telegraf"."autogen"."cpu" WHERE time > now() - 1h GROUP BY time(1m)'`)),
		mcp.WithObject("queryConfig", mcp.Description("Query config to build and run instead of raw InfluxQL. Example: "+queryConfigExample)),
		mcp.WithString("db", mcp.Description("Database for the query. Defaults to the query config's database.")),
		mcp.WithString("rp", mcp.Description("Retention policy. Defaults to the query config's retention policy.")),
		mcp.WithString("epoch", mcp.Description("Timestamp precision of the results: h, m, s, ms, u or ns. Default: ms.")),
		mcp.WithString("lower", mcp.Description(lowerDesc)),
		mcp.WithString("upper", mcp.Description(upperDesc)),
		mcp.WithString("timeRange", mcp.Description(timeRangeDesc)),
	)
	s.AddTool(executeTool, h.instrument("chronograf_execute_query", h.handleExecuteQuery))

	helperTool := mcp.NewTool("chronograf_query_helper",
		mcp.WithDescription("Explains the query config format accepted by the builder tools, with examples."),
		mcp.WithString("topic", mcp.Description("One of: fields, where, groupby, canned, examples. Leave empty for everything.")),
	)
	s.AddTool(helperTool, h.instrument("chronograf_query_helper", h.handleQueryHelper))
}

func (h *Handler) handleBuildInfluxQL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(req)
	if !ok {
		h.logger.Warn("Invalid arguments payload type", zap.Any("type", req.Params.Arguments))
		return mcp.NewToolResultError("invalid arguments payload"), nil
	}

	br, err := parseBuildArgs(args)
	if err != nil {
		h.logger.Warn("Invalid build arguments", zap.Error(err))
		return mcp.NewToolResultError("Parameter validation failed: " + err.Error()), nil
	}

	q, ok := influxql.Build(br.Bounds, br.Config, br.IsRule)
	if !ok {
		return mcp.NewToolResultError(incompleteConfigError(br.Config).Error()), nil
	}

	h.logger.Debug("Built InfluxQL query", zap.String("query", q), zap.Bool("rule", br.IsRule))
	return jsonResult(map[string]any{"query": q, "buildable": true})
}

func (h *Handler) handleBuildCanned(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(req)
	if !ok {
		return mcp.NewToolResultError("invalid arguments payload"), nil
	}

	cr, err := parseCannedArgs(args)
	if err != nil {
		h.logger.Warn("Invalid canned query arguments", zap.Error(err))
		return mcp.NewToolResultError("Parameter validation failed: " + err.Error()), nil
	}

	q := influxql.BuildCanned(cr.Query, cr.Bounds, cr.Host, h.ranges)
	return jsonResult(map[string]any{"query": q})
}

func (h *Handler) handleExecuteQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(req)
	if !ok {
		return mcp.NewToolResultError("invalid arguments payload"), nil
	}

	er, err := parseExecuteArgs(args, h.ranges)
	if err != nil {
		h.logger.Warn("Invalid execute arguments", zap.Error(err))
		return mcp.NewToolResultError("Parameter validation failed: " + err.Error()), nil
	}

	data, err := h.GetClient(ctx).Query(ctx, er.SourceID, er.Proxy)
	if err != nil {
		h.logger.Error("Failed to execute query", zap.String("sourceId", er.SourceID), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *Handler) handleQueryHelper(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := arguments(req)
	return mcp.NewToolResultText(types.BuildQueryHelpText(stringArg(args, "topic"))), nil
}

func (h *Handler) RegisterSourceHandlers(s *server.MCPServer) {
	h.logger.Debug("Registering source handlers")

	listTool := mcp.NewTool("chronograf_list_sources",
		mcp.WithDescription("List the InfluxDB sources configured in Chronograf with their IDs and proxy links."),
	)
	s.AddTool(listTool, h.instrument("chronograf_list_sources", h.handleListSources))
}

func (h *Handler) handleListSources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sources, err := h.GetClient(ctx).ListSources(ctx)
	if err != nil {
		h.logger.Error("Failed to list sources", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"sources": sources})
}

func (h *Handler) RegisterDashboardHandlers(s *server.MCPServer) {
	h.logger.Debug("Registering dashboard handlers")

	listTool := mcp.NewTool("chronograf_list_dashboards",
		mcp.WithDescription("List Chronograf dashboards (id, name, cell names, template variables). IMPORTANT: This tool supports pagination using 'limit' and 'offset'. The response includes 'pagination' metadata with 'total', 'hasMore' and 'nextOffset'. When looking for a specific dashboard keep paginating while 'hasMore' is true. Supports optional regex filtering via 'namePattern'."),
		mcp.WithString("namePattern", mcp.Description("Optional regex matched against dashboard and cell names. Example: 'prod.*api'. Case-sensitive.")),
		mcp.WithString("limit", mcp.Description(limitDesc)),
		mcp.WithString("offset", mcp.Description(offsetDesc)),
	)
	s.AddTool(listTool, h.instrument("chronograf_list_dashboards", h.handleListDashboards))

	getTool := mcp.NewTool("chronograf_get_dashboard",
		mcp.WithDescription("Get the full definition of a dashboard by ID, including every cell and its stored queries."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Dashboard ID. Example: '2'.")),
	)
	s.AddTool(getTool, h.instrument("chronograf_get_dashboard", h.handleGetDashboard))

	searchTool := mcp.NewTool("chronograf_search_dashboards",
		mcp.WithDescription("Full text search over dashboard names, cell names, measurements, databases and query text. Supports query string syntax such as 'cpu', 'name:system', '+measurements:mem'."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text. Example: 'cpu usage'.")),
		mcp.WithString("limit", mcp.Description("Maximum number of hits. Default: 10.")),
	)
	s.AddTool(searchTool, h.instrument("chronograf_search_dashboards", h.handleSearchDashboards))

	renderTool := mcp.NewTool("chronograf_render_dashboard_queries",
		mcp.WithDescription("Render the InfluxQL of every cell of one or more dashboards, ready to send to a source proxy. Query config cells keep the :dashboardTime:/:upperDashboardTime: placeholders unless they store their own range; canned cells are built against the given bounds and host."),
		mcp.WithString("ids", mcp.Required(), mcp.Description("Comma separated dashboard IDs. Example: '1,4'.")),
		mcp.WithString("sourceId", mcp.Description("Optional source ID; its proxy link is attached to every rendered query.")),
		mcp.WithString("lower", mcp.Description(lowerDesc+" Defaults to 'now() - 15m'.")),
		mcp.WithString("upper", mcp.Description(upperDesc)),
		mcp.WithString("timeRange", mcp.Description(timeRangeDesc)),
		mcp.WithString("host", mcp.Description("Optional host filter for canned cells.")),
	)
	s.AddTool(renderTool, h.instrument("chronograf_render_dashboard_queries", h.handleRenderDashboards))
}

func (h *Handler) handleListDashboards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, offset := paginate.ParseParams(req.Params.Arguments)
	args, _ := arguments(req)
	namePattern := stringArg(args, "namePattern")

	var re *regexp.Regexp
	if namePattern != "" {
		var err error
		re, err = regexp.Compile(namePattern)
		if err != nil {
			h.logger.Warn("Invalid regex pattern", zap.String("pattern", namePattern), zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Invalid regex pattern: %s", err.Error())), nil
		}
	}

	raw, err := h.GetClient(ctx).ListDashboards(ctx)
	if err != nil {
		h.logger.Error("Failed to list dashboards", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	var listing struct {
		Dashboards []types.DashboardSummary `json:"dashboards"`
	}
	if err := json.Unmarshal(raw, &listing); err != nil {
		h.logger.Error("Failed to parse dashboards response", zap.Error(err))
		return mcp.NewToolResultError("failed to parse response: " + err.Error()), nil
	}

	data := listing.Dashboards
	if re != nil {
		filtered := make([]types.DashboardSummary, 0, len(data))
		for _, d := range data {
			if matchesSummary(re, d) {
				filtered = append(filtered, d)
			}
		}
		data = filtered
	}

	resultJSON, err := paginate.Wrap(data, offset, limit)
	if err != nil {
		h.logger.Error("Failed to wrap dashboards with pagination", zap.Error(err))
		return mcp.NewToolResultError("failed to marshal response: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func matchesSummary(re *regexp.Regexp, d types.DashboardSummary) bool {
	if re.MatchString(d.Name) {
		return true
	}
	for _, name := range d.CellNames {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

func dashboardIDArg(args map[string]any) (int, error) {
	var id int
	switch v := args["id"].(type) {
	case float64:
		if v != math.Trunc(v) || v < 1 || v > math.MaxInt32 {
			return 0, fmt.Errorf(`"id" must be a positive whole number, got %v. Example: {"id": "2"}`, v)
		}
		id = int(v)
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return 0, fmt.Errorf(`"id" is required. Use chronograf_list_dashboards to find it. Example: {"id": "2"}`)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf(`"id" must be a numeric dashboard ID, got %q. Example: {"id": "2"}`, raw)
		}
		id = n
	default:
		return 0, fmt.Errorf(`"id" is required. Use chronograf_list_dashboards to find it. Example: {"id": "2"}`)
	}
	if id < 1 {
		return 0, fmt.Errorf(`"id" must be a positive dashboard ID, got %d. Example: {"id": "2"}`, id)
	}
	return id, nil
}

func (h *Handler) handleGetDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := arguments(req)
	id, err := dashboardIDArg(args)
	if err != nil {
		h.logger.Warn("Invalid dashboard id", zap.Any("id", args["id"]))
		return mcp.NewToolResultError("Parameter validation failed: " + err.Error()), nil
	}

	data, err := h.GetClient(ctx).GetDashboard(ctx, id)
	if err != nil {
		h.logger.Error("Failed to get dashboard", zap.Int("id", id), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *Handler) handleSearchDashboards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := arguments(req)
	query := stringArg(args, "query")
	if query == "" {
		return mcp.NewToolResultError(`Parameter validation failed: "query" cannot be empty. Example: {"query": "cpu"}`), nil
	}
	limit, err := intArg(args, "limit", search.DefaultLimit)
	if err != nil {
		return mcp.NewToolResultError("Parameter validation failed: " + err.Error()), nil
	}

	all, err := h.GetClient(ctx).Dashboards(ctx)
	if err != nil {
		h.logger.Error("Failed to fetch dashboards for search", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	idx, err := search.NewIndex(all)
	if err != nil {
		h.logger.Error("Failed to index dashboards", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() {
		if err := idx.Close(); err != nil {
			h.logger.Warn("Failed to close search index", zap.Error(err))
		}
	}()

	hits, err := idx.Search(query, limit)
	if err != nil {
		return mcp.NewToolResultError("Invalid search query: " + err.Error()), nil
	}
	return jsonResult(map[string]any{"hits": hits, "total": len(hits)})
}

func (h *Handler) handleRenderDashboards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := arguments(req)

	ids, err := dashboards.ParseIDs(stringArg(args, "ids"))
	if err != nil {
		return mcp.NewToolResultError(`Parameter validation failed: ` + err.Error() + `. Example: {"ids": "1,4"}`), nil
	}
	lower, upper, err := timeutil.BoundsFromArgs(args, timeutil.DefaultLower)
	if err != nil {
		return mcp.NewToolResultError("Parameter validation failed: " + err.Error()), nil
	}

	client := h.GetClient(ctx)
	opts := dashboards.Options{
		Bounds: influxql.TimeBounds{Lower: lower, Upper: upper},
		Host:   stringArg(args, "host"),
	}
	if sourceID := stringArg(args, "sourceId"); sourceID != "" {
		src, err := client.GetSource(ctx, sourceID)
		if err != nil {
			h.logger.Error("Failed to get source", zap.String("sourceId", sourceID), zap.Error(err))
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Proxy = src.Links.Proxy
	}

	rendered, err := dashboards.NewRenderer(h.logger, client, h.ranges, h.concurrency).Render(ctx, ids, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"dashboards": rendered})
}

func (h *Handler) RegisterAlertsHandlers(s *server.MCPServer) {
	h.logger.Debug("Registering alert handlers")

	listTool := mcp.NewTool("chronograf_list_alert_rules",
		mcp.WithDescription("List Kapacitor alert rules of a source (id, name, trigger, alert handlers and the rule's InfluxQL). Supports pagination using 'limit' and 'offset'; keep paginating while 'pagination.hasMore' is true."),
		mcp.WithString("sourceId", mcp.Required(), mcp.Description("Chronograf source ID.")),
		mcp.WithString("kapacitorId", mcp.Required(), mcp.Description("Kapacitor ID of the source.")),
		mcp.WithString("limit", mcp.Description(limitDesc)),
		mcp.WithString("offset", mcp.Description(offsetDesc)),
	)
	s.AddTool(listTool, h.instrument("chronograf_list_alert_rules", h.handleListRules))

	getTool := mcp.NewTool("chronograf_get_alert_rule",
		mcp.WithDescription("Get one Kapacitor alert rule with its query rendered the way Kapacitor runs it (no time bounds, no FILL)."),
		mcp.WithString("sourceId", mcp.Required(), mcp.Description("Chronograf source ID.")),
		mcp.WithString("kapacitorId", mcp.Required(), mcp.Description("Kapacitor ID of the source.")),
		mcp.WithString("ruleId", mcp.Required(), mcp.Description("Alert rule ID.")),
	)
	s.AddTool(getTool, h.instrument("chronograf_get_alert_rule", h.handleGetRule))
}

func kapacitorArgs(args map[string]any) (string, string, error) {
	sourceID := stringArg(args, "sourceId")
	kapacitorID := stringArg(args, "kapacitorId")
	if sourceID == "" || kapacitorID == "" {
		return "", "", fmt.Errorf(`"sourceId" and "kapacitorId" are required. Example: {"sourceId": "1", "kapacitorId": "1"}`)
	}
	return sourceID, kapacitorID, nil
}

func (h *Handler) handleListRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := arguments(req)
	sourceID, kapacitorID, err := kapacitorArgs(args)
	if err != nil {
		return mcp.NewToolResultError("Parameter validation failed: " + err.Error()), nil
	}
	limit, offset := paginate.ParseParams(req.Params.Arguments)

	rules, err := h.GetClient(ctx).ListRules(ctx, sourceID, kapacitorID)
	if err != nil {
		h.logger.Error("Failed to list alert rules", zap.String("sourceId", sourceID), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	summaries := make([]types.RuleSummary, 0, len(rules))
	for _, r := range rules {
		summaries = append(summaries, r.Summary())
	}

	resultJSON, err := paginate.Wrap(summaries, offset, limit)
	if err != nil {
		return mcp.NewToolResultError("failed to marshal response: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (h *Handler) handleGetRule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := arguments(req)
	sourceID, kapacitorID, err := kapacitorArgs(args)
	if err != nil {
		return mcp.NewToolResultError("Parameter validation failed: " + err.Error()), nil
	}
	ruleID := stringArg(args, "ruleId")
	if ruleID == "" {
		return mcp.NewToolResultError(`Parameter validation failed: "ruleId" cannot be empty. Use chronograf_list_alert_rules to find it.`), nil
	}

	rule, err := h.GetClient(ctx).Rule(ctx, sourceID, kapacitorID, ruleID)
	if err != nil {
		h.logger.Error("Failed to get alert rule", zap.String("ruleId", ruleID), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	q, buildable := rule.InfluxQL()
	return jsonResult(map[string]any{
		"rule":      rule,
		"influxql":  q,
		"buildable": buildable,
	})
}
