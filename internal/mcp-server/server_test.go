package mcp_server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chronograf/chronograf-mcp-server/internal/client"
	"github.com/chronograf/chronograf-mcp-server/internal/config"
	"github.com/chronograf/chronograf-mcp-server/internal/handler/tools"
	"github.com/chronograf/chronograf-mcp-server/pkg/dashboard"
)

func newTestServer(t *testing.T) *MCPServer {
	t.Helper()
	log := zap.NewNop()
	h, err := tools.NewHandler(log, client.NewClient(log, "http://chronograf:8888", ""), "http://chronograf:8888", 4)
	require.NoError(t, err)
	return NewMCPServer(log, h, &config.Config{DeploymentMode: config.ModeCloud, Port: "8000"})
}

func TestBuildRegistersTools(t *testing.T) {
	s := newTestServer(t).Build()

	tools := s.ListTools()
	for _, name := range []string{
		"chronograf_build_influxql",
		"chronograf_build_canned_query",
		"chronograf_execute_query",
		"chronograf_query_helper",
		"chronograf_list_sources",
		"chronograf_list_dashboards",
		"chronograf_get_dashboard",
		"chronograf_search_dashboards",
		"chronograf_render_dashboard_queries",
		"chronograf_list_alert_rules",
		"chronograf_get_alert_rule",
	} {
		_, ok := tools[name]
		assert.True(t, ok, name)
	}
	assert.Len(t, tools, 11)
}

func TestHealthz(t *testing.T) {
	m := newTestServer(t)
	srv := httptest.NewServer(m.HTTPHandler(m.Build()))
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBuildInfluxQLToolDescription(t *testing.T) {
	tools := newTestServer(t).Build().ListTools()
	tool, ok := tools["chronograf_build_influxql"]
	require.True(t, ok)

	assert.Contains(t, tool.Tool.Description, "isKapacitorRule")
	assert.Contains(t, tool.Tool.InputSchema.Required, "query")
}

func TestGuidanceHandler(t *testing.T) {
	doc := dashboard.Resources()[0]

	contents, err := guidanceHandler(doc)(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, doc.URI, text.URI)
	assert.Equal(t, dashboard.Layout, text.Text)
}

func TestToolPanicBecomesErrorResponse(t *testing.T) {
	s := newTestServer(t).Build()
	s.AddTool(mcp.NewTool("explode"), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("boom")
	})

	call := json.RawMessage(`{"jsonrpc": "2.0", "id": 1, "method": "tools/call", "params": {"name": "explode", "arguments": {}}}`)

	var resp mcp.JSONRPCMessage
	require.NotPanics(t, func() {
		resp = s.HandleMessage(context.Background(), call)
	})

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"error"`)
	assert.Contains(t, string(out), "boom")
}
