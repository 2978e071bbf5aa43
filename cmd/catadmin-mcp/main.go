package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	if mcpCfg.EnableAdmin && !mcpCfg.AdminEnabled() {
		logger.Warn("Admin tools disabled: CATADMIN_MCP_API_KEY is not set")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mcpHandler := mcpsrv.NewHandler(server, mcpsrv.StreamableOptions(mcpCfg))
	mux.Handle("/mcp", mcpsrv.WrapMCPHandler(mcpHandler, mcpCfg, logger))

	httpServer := &http.Server{
		Addr:              ":" + mcpCfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Shutdown error")
		}
	}()

	logger.WithField("addr", httpServer.Addr).WithField("api", source.BaseURL()).Info("catadmin-mcp listening")
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("Server failed")
	}
}
