package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/catadmin/catalog"
	"github.com/qyinm/catadmin/config"
	"github.com/qyinm/catadmin/dummyjson"
	"github.com/qyinm/catadmin/logging"
	"github.com/qyinm/catadmin/mcpsrv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the protocol
	logger := logging.New(cfg.LogLevel, os.Stderr, false)

	mcpCfg, err := mcpsrv.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Invalid MCP configuration")
	}

	source := dummyjson.New(cfg.APIBaseURL, cfg.APITimeout, logger)
	server := mcpsrv.NewServer(source, "dev", &mcpsrv.ServerOptions{
		EnableAdmin: mcpCfg.AdminEnabled(),
		APIKey:      mcpCfg.APIKey,
		Category:    cfg.ProductsCategory,
		Locale:      catalog.ParseLocale(cfg.Locale),
		Logger:      logger,
	})

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.WithError(err).Fatal("stdio mcp server failed")
	}
}
