package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/seed"
	"github.com/tally-dev/tally/internal/storage"
)

// env is everything a command needs to act on one project directory.
type env struct {
	dir     string
	cfg     *config.Config
	log     *log.Logger
	backend storage.Backend
	store   *storage.Store
	ledger  *ledger.Store
}

// openEnv loads the project config, opens storage and runs the startup
// flow: load the snapshot, seeding it when empty.
func openEnv(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.Log.Format,
		Component: log.ComponentCLI,
		Output:    cmd.ErrOrStderr(),
	})

	backend, err := storage.Open(cfg.Storage.Backend, cfg.StoragePath(dir))
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	logger.Debug("storage opened",
		log.FieldBackend, cfg.Storage.Backend, log.FieldPath, cfg.StoragePath(dir))

	store := storage.NewStore(backend, cfg.Storage.Key, logger)

	var seeder ledger.Seeder
	if src := cfg.SeedSource(dir); src != "" {
		seeder = seed.New(src, cfg.Seed.Format)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	l := ledger.Open(ctx, store, seeder,
		ledger.WithLogger(logger),
		ledger.WithLocale(cfg.Sort.Locale),
		ledger.WithSearchCache(cfg.Search.CacheSize),
	)

	return &env{
		dir:     dir,
		cfg:     cfg,
		log:     logger,
		backend: backend,
		store:   store,
		ledger:  l,
	}, nil
}

func (e *env) Close() error {
	return e.backend.Close()
}

// record appends an activity row and, when auto-commit is on, commits the
// project. Failures are logged; the change itself already happened.
func (e *env) record(action, details, txnID string) {
	entry := activity.Entry{
		Timestamp:     time.Now().UTC(),
		Action:        action,
		Details:       details,
		TransactionID: txnID,
	}
	if err := activity.Append(e.dir, entry); err != nil {
		e.log.Warn("failed to write activity log", log.FieldError, err)
	}

	if !e.cfg.Git.AutoCommit || !gitops.IsRepo(e.dir) {
		return
	}
	author := gitops.Author{Name: e.cfg.Git.AuthorName, Email: e.cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(e.dir, "tally: "+details, author)
	switch {
	case errors.Is(err, gitops.ErrNothingToCommit):
	case err != nil:
		e.log.Warn("auto-commit failed", log.FieldError, err)
	default:
		e.log.Debug("committed", "commit", hash)
	}
}

// withEnv opens the project for the duration of fn.
func withEnv(cmd *cobra.Command, opts *rootOptions, fn func(*env) error) error {
	e, err := openEnv(cmd, opts)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

// readSnapshot returns the persisted snapshot without running the startup
// flow, so nothing is seeded or written.
func readSnapshot(opts *rootOptions) (model.Snapshot, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadDir(dir)
	if err != nil {
		return model.Snapshot{}, err
	}
	backend, err := storage.Open(cfg.Storage.Backend, cfg.StoragePath(dir))
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("opening storage: %w", err)
	}
	defer backend.Close()

	return storage.NewStore(backend, cfg.Storage.Key, nil).Load(), nil
}
