package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/catadmin/catalog"
	"github.com/qyinm/catadmin/config"
	"github.com/qyinm/catadmin/dummyjson"
	"github.com/qyinm/catadmin/logging"
	"github.com/qyinm/catadmin/ui"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.NewFile(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	logger.WithFields(logrus.Fields{
		"api":      cfg.APIBaseURL,
		"category": cfg.ProductsCategory,
		"dotenv":   cfg.DotEnvLoaded,
	}).Info("Starting catadmin")

	client := dummyjson.New(cfg.APIBaseURL, cfg.APITimeout, logger)
	model := ui.NewModel(client, ui.Options{
		Category: cfg.ProductsCategory,
		Timeout:  cfg.APITimeout,
		Locale:   catalog.ParseLocale(cfg.Locale),
		Logger:   logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.WithError(err).Error("Program exited with error")
		closer.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
