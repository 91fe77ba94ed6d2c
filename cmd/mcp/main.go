package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/dkotenko/docqa/internal/adapters/mcp"
	"github.com/dkotenko/docqa/internal/bootstrap"
	"github.com/dkotenko/docqa/internal/config"
)

func main() {
	_ = godotenv.Load()

	// Stdout carries the MCP stdio protocol, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("service", "mcp")
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := mcpserver.NewMCPServer("docqa", "1.0.0")
	mcpadapter.RegisterTools(server, app.QueryUC)

	logger.Info("mcp server starting on stdio")
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
