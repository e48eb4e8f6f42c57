package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var (
		backend   string
		seedSrc   string
		withGit   bool
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default()
			cfg.Storage.Backend = backend
			cfg.Seed.Source = seedSrc
			cfg.Git.AutoCommit = withGit
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runInit(cmd, absDir, cfg, overwrite)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "file", "storage backend (file, sqlite, memory)")
	cmd.Flags().StringVar(&seedSrc, "seed", "", "seed data file or URL used when the store is empty")
	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository and auto-commit changes")
	cmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing tally.yaml")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, cfg *config.Config, overwrite bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !overwrite {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	for _, d := range []string{"data", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := ".env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	out := cmd.OutOrStdout()
	if !cfg.Git.AutoCommit {
		fmt.Fprintf(out, "Initialized tally project at %s\n", dir)
		return nil
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir, cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, "init: Initialize tally project", author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally project at %s (%s)\n", dir, hash)
	return nil
}
