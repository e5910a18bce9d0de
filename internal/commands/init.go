package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, noGit)
		},
	}

	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(out io.Writer, dir string, noGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default()

	// Create directory structure.
	dirs := []string{
		filepath.Dir(cfg.Paths.Accounts),
		filepath.Dir(cfg.Paths.Ledger),
		filepath.Dir(cfg.Paths.RunLog),
		cfg.Paths.Import,
		filepath.Join(cfg.Paths.Import, "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the default account table.
	registry, err := accounts.NewRegistry(accounts.DefaultAccounts())
	if err != nil {
		return err
	}
	if err := registry.Save(config.Resolve(dir, cfg.Paths.Accounts)); err != nil {
		return err
	}

	// Write an empty ledger so the header is tracked from the first commit.
	opts, err := cfg.ReconcileOptions()
	if err != nil {
		return err
	}
	store := ledger.NewStore(config.Resolve(dir, cfg.Paths.Ledger), opts.KeyFields)
	if err := store.Save(ledger.New()); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}

	// Statements stay out of history; only the ledger is versioned.
	gitignore := "import/*.csv\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, cfg.Paths.Import, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if noGit {
		fmt.Fprintf(out, "Initialized tally repository at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
	}

	hash, err := gitops.Commit(dir, "init: tally repository", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil && !errors.Is(err, gitops.ErrNothingToCommit) {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally repository at %s (%s)\n", dir, hash)
	return nil
}
