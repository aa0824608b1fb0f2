package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chronograf/chronograf-mcp-server/pkg/types"
)

const (
	ContentType   = "Content-Type"
	Authorization = "Authorization"
	RequestID     = "X-Request-Id"

	requestTimeout = 600 * time.Second
)

type Chronograf struct {
	baseURL    string
	token      string
	logger     *zap.Logger
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Chronograf)

// WithRateLimit caps outgoing requests per second. rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Chronograf) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Chronograf) {
		c.httpClient = hc
	}
}

func NewClient(log *zap.Logger, url, token string, opts ...Option) *Chronograf {
	c := &Chronograf{
		baseURL: strings.TrimRight(url, "/"),
		token:   token,
		logger:  log,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Chronograf) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	endpoint := c.baseURL + path

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set(ContentType, "application/json")
	req.Header.Set(RequestID, reqID)
	if c.token != "" {
		req.Header.Set(Authorization, "Bearer "+c.token)
	}

	c.logger.Debug("Making request to Chronograf API",
		zap.String("method", method),
		zap.String("endpoint", path),
		zap.String("requestId", reqID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("HTTP request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read response body", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("API request failed",
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(respBody)))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Debug("Chronograf API request succeeded", zap.String("endpoint", path), zap.Int("status", resp.StatusCode))
	return respBody, nil
}

func (c *Chronograf) get(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *Chronograf) ListSources(ctx context.Context) ([]types.Source, error) {
	var resp types.SourcesResponse
	if err := c.get(ctx, "/chronograf/v1/sources", &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

func (c *Chronograf) GetSource(ctx context.Context, id string) (*types.Source, error) {
	var src types.Source
	if err := c.get(ctx, "/chronograf/v1/sources/"+url.PathEscape(id), &src); err != nil {
		return nil, err
	}
	return &src, nil
}

// ListDashboards returns a trimmed listing: id, name and cell names per
// dashboard. Cell queries are left out to keep the payload small.
func (c *Chronograf) ListDashboards(ctx context.Context) (json.RawMessage, error) {
	dashboards, err := c.Dashboards(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]types.DashboardSummary, 0, len(dashboards))
	for _, d := range dashboards {
		summaries = append(summaries, d.Summary())
	}

	out, err := json.Marshal(map[string]any{"dashboards": summaries})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dashboard summaries: %w", err)
	}
	return out, nil
}

func (c *Chronograf) GetDashboard(ctx context.Context, id int) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/chronograf/v1/dashboards/%d", id), nil)
}

func (c *Chronograf) Dashboards(ctx context.Context) ([]types.Dashboard, error) {
	var resp types.DashboardsResponse
	if err := c.get(ctx, "/chronograf/v1/dashboards", &resp); err != nil {
		return nil, err
	}
	return resp.Dashboards, nil
}

func (c *Chronograf) Dashboard(ctx context.Context, id int) (*types.Dashboard, error) {
	var d types.Dashboard
	if err := c.get(ctx, fmt.Sprintf("/chronograf/v1/dashboards/%d", id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func rulesPath(sourceID, kapacitorID string) string {
	return fmt.Sprintf("/chronograf/v1/sources/%s/kapacitors/%s/rules",
		url.PathEscape(sourceID), url.PathEscape(kapacitorID))
}

func (c *Chronograf) ListRules(ctx context.Context, sourceID, kapacitorID string) ([]types.Rule, error) {
	var resp types.RulesResponse
	if err := c.get(ctx, rulesPath(sourceID, kapacitorID), &resp); err != nil {
		return nil, err
	}
	return resp.Rules, nil
}

func (c *Chronograf) GetRule(ctx context.Context, sourceID, kapacitorID, ruleID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, rulesPath(sourceID, kapacitorID)+"/"+url.PathEscape(ruleID), nil)
}

func (c *Chronograf) Rule(ctx context.Context, sourceID, kapacitorID, ruleID string) (*types.Rule, error) {
	var r types.Rule
	if err := c.get(ctx, rulesPath(sourceID, kapacitorID)+"/"+url.PathEscape(ruleID), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Query sends an InfluxQL statement through the source's proxy endpoint and
// returns the raw InfluxDB response.
func (c *Chronograf) Query(ctx context.Context, sourceID string, q types.ProxyRequest) (json.RawMessage, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query request: %w", err)
	}

	c.logger.Debug("Proxying query", zap.String("sourceId", sourceID), zap.String("query", q.Query), zap.String("db", q.DB))
	return c.do(ctx, http.MethodPost,
		fmt.Sprintf("/chronograf/v1/sources/%s/proxy", url.PathEscape(sourceID)), q)
}
