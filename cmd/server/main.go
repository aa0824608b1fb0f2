package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/chronograf/chronograf-mcp-server/internal/analytics"
	"github.com/chronograf/chronograf-mcp-server/internal/client"
	"github.com/chronograf/chronograf-mcp-server/internal/config"
	"github.com/chronograf/chronograf-mcp-server/internal/handler/tools"
	"github.com/chronograf/chronograf-mcp-server/internal/logger"
	mcpserver "github.com/chronograf/chronograf-mcp-server/internal/mcp-server"
	"github.com/chronograf/chronograf-mcp-server/internal/telemetry"
	"github.com/chronograf/chronograf-mcp-server/pkg/timerange"
)

func main() {
	log, err := logger.NewLogger(logger.LogLevel(os.Getenv(config.LogLevel)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	ranges, err := timerange.LoadFile(cfg.TimeRangesFile)
	if err != nil {
		log.Fatal("Failed to load time ranges", zap.String("file", cfg.TimeRangesFile), zap.Error(err))
	}

	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, log, "chronograf-mcp-server", mcpserver.ServerVersion, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("Failed to set up telemetry", zap.Error(err))
	}

	tracker, err := analytics.New(log, cfg.SegmentWriteKey)
	if err != nil {
		log.Fatal("Failed to set up analytics", zap.Error(err))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
		if err := tracker.Close(); err != nil {
			log.Warn("Analytics shutdown failed", zap.Error(err))
		}
	}()

	clientOpts := []client.Option{client.WithRateLimit(cfg.RPS, int(cfg.RPS)+1)}
	chronografClient := client.NewClient(log, cfg.URL, cfg.Token, clientOpts...)

	handler, err := tools.NewHandler(log, chronografClient, cfg.URL, cfg.ClientCacheSize,
		tools.WithTimeRanges(ranges),
		tools.WithTelemetry(tel),
		tools.WithAnalytics(tracker),
		tools.WithClientOptions(clientOpts...),
	)
	if err != nil {
		log.Fatal("Failed to create tool handler", zap.Error(err))
	}

	if err := mcpserver.NewMCPServer(log, handler, cfg).Start(); err != nil {
		log.Error("Server stopped", zap.Error(err))
	}
}
