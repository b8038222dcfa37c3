package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskgenius/internal/app"
	"github.com/nhle/taskgenius/internal/credential"
	"github.com/nhle/taskgenius/internal/gateway"
	"github.com/nhle/taskgenius/internal/logging"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/store"
	appsync "github.com/nhle/taskgenius/internal/sync"
	"github.com/nhle/taskgenius/internal/theme"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("taskgenius %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	configPath := os.Getenv("TASKGENIUS_CONFIG")
	if configPath == "" {
		configPath = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := theme.Apply(cfg.Display.Theme); err != nil {
		logger.Warn("falling back to default theme", "error", err)
	}

	timeout := time.Duration(cfg.Server.TimeoutSec) * time.Second
	dial := func(baseURL string) (app.API, error) {
		c, err := gateway.NewClient(baseURL, timeout, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	api, err := dial(cfg.Server.BaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating API client: %v\n", err)
		os.Exit(1)
	}

	dataDir := model.DefaultDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data directory: %v\n", err)
		os.Exit(1)
	}
	cache, err := store.NewSQLiteStore(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		os.Exit(1)
	}
	defer cache.Close()

	var creds app.Credentials
	if ring, err := credential.Open(filepath.Dir(configPath)); err != nil {
		logger.Warn("keyring unavailable, passwords will not be remembered", slog.String("error", err.Error()))
	} else {
		creds = ring
	}

	refresher := appsync.New(time.Duration(cfg.Display.RefreshIntervalSec) * time.Second)
	defer refresher.Stop()

	m := app.New(app.Deps{
		Config:      cfg,
		ConfigPath:  configPath,
		API:         api,
		Dial:        dial,
		Store:       cache,
		Credentials: creds,
		Refresher:   refresher,
		Logger:      logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
