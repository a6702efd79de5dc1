package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Zuo-Peng/fb-quantifier/internal/config"
	"github.com/Zuo-Peng/fb-quantifier/internal/index"
	"github.com/Zuo-Peng/fb-quantifier/internal/render"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

var verbose bool

// setup loads the config and installs the default logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return cfg, log, nil
}

// loadRun opens the store and resolves args[0] (or the latest run).
func loadRun(ctx context.Context, cfg *config.Config, args []string) (*index.DB, *index.Run, error) {
	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	run, err := db.Resolve(ctx, id)
	if err != nil {
		db.Close()
		if id == "" {
			return nil, nil, fmt.Errorf("no stored runs (run 'fbq run' first): %w", err)
		}
		return nil, nil, err
	}
	return db, run, nil
}

func runSummary(run *index.Run, t *tally.Table) render.Summary {
	s := render.NewSummary(t)
	s.RunID = run.ID
	s.Archive = run.ArchiveRoot
	s.User = run.User
	s.Files = run.Files
	s.Ambiguous = run.Ambiguous
	return s
}
