package mcp_server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/chronograf/chronograf-mcp-server/internal/config"
	"github.com/chronograf/chronograf-mcp-server/internal/contextutil"
	"github.com/chronograf/chronograf-mcp-server/internal/handler/tools"
	"github.com/chronograf/chronograf-mcp-server/pkg/dashboard"
)

const (
	ServerName    = "ChronografMCP"
	ServerVersion = "0.1.0"
	mcpEndpoint   = "/mcp"
)

type MCPServer struct {
	logger  *zap.Logger
	handler *tools.Handler
	config  *config.Config
}

func NewMCPServer(log *zap.Logger, handler *tools.Handler, cfg *config.Config) *MCPServer {
	return &MCPServer{logger: log, handler: handler, config: cfg}
}

// Build creates the MCP server with every tool group registered.
func (m *MCPServer) Build() *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion,
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false))

	m.handler.RegisterQueryBuilderHandlers(s)
	m.handler.RegisterSourceHandlers(s)
	m.handler.RegisterDashboardHandlers(s)
	m.handler.RegisterAlertsHandlers(s)
	m.registerGuidance(s)

	m.logger.Info("All handlers registered successfully")
	return s
}

// registerGuidance publishes the dashboard and InfluxQL guidance documents.
func (m *MCPServer) registerGuidance(s *server.MCPServer) {
	for _, doc := range dashboard.Resources() {
		resource := mcp.NewResource(doc.URI, doc.Name,
			mcp.WithResourceDescription(doc.Description),
			mcp.WithMIMEType(dashboard.MIMEType))
		s.AddResource(resource, guidanceHandler(doc))
	}
}

func guidanceHandler(doc dashboard.Resource) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      doc.URI,
				MIMEType: dashboard.MIMEType,
				Text:     doc.Text,
			},
		}, nil
	}
}

func (m *MCPServer) Start() error {
	m.logger.Info("Starting Chronograf MCP Server",
		zap.String("server_name", ServerName),
		zap.String("deployment_mode", m.config.DeploymentMode))

	s := m.Build()
	if m.config.DeploymentMode == config.ModeCloud {
		return m.startCloud(s)
	}
	return m.startLocal(s)
}

func (m *MCPServer) startLocal(s *server.MCPServer) error {
	m.logger.Info("MCP Server running in LOCAL mode (stdio)")
	return server.ServeStdio(s)
}

// HTTPHandler serves the streamable HTTP transport. The caller's bearer
// token is carried into tool calls so each user talks to Chronograf with
// their own credentials.
func (m *MCPServer) HTTPHandler(s *server.MCPServer) http.Handler {
	httpServer := server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(contextutil.TokenFromRequest))

	mux := http.NewServeMux()
	mux.Handle(mcpEndpoint, httpServer)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return otelhttp.NewHandler(mux, "mcp")
}

func (m *MCPServer) startCloud(s *server.MCPServer) error {
	m.logger.Info("MCP Server running in cloud hosted mode")

	addr := fmt.Sprintf(":%s", m.config.Port)

	m.logger.Info("Listening for MCP clients",
		zap.String("addr", addr),
		zap.String("mcp_endpoint", mcpEndpoint))

	return http.ListenAndServe(addr, m.HTTPHandler(s))
}
