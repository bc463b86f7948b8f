package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hnguyen/recruitmail/internal/api"
	"github.com/hnguyen/recruitmail/internal/app"
	"github.com/hnguyen/recruitmail/internal/logging"
	"github.com/hnguyen/recruitmail/internal/model"
	"github.com/hnguyen/recruitmail/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "recruitmail: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.Setup(cfg.Storage.LogFile, cfg.Storage.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	mirror, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer mirror.Close()

	client := api.NewClient(cfg.Server, log)

	log.WithField("backend", cfg.Server.BaseURL).Info("starting")

	p := tea.NewProgram(
		app.New(cfg, client, mirror, log),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
