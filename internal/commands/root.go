package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/logging"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Reconcile bank statements into a CSV ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("repo", ".", "repository directory")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides tally.yaml")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newHashCommand())

	return rootCmd
}

// repo is an opened tally repository.
type repo struct {
	root string
	cfg  *config.Config
	log  zerolog.Logger
}

// openRepo loads tally.yaml from the --repo directory and builds the logger.
// The logger is also stored on the command context.
func openRepo(cmd *cobra.Command) (*repo, error) {
	dir, _ := cmd.Flags().GetString("repo")
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfgPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s is not a tally repository (run tally init)", root)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	levelName := cfg.Log.Level
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		levelName = flag
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	var log zerolog.Logger
	switch cfg.Log.Format {
	case "", "console":
		log = logging.New(cmd.ErrOrStderr(), level)
	case "json":
		log = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	default:
		return nil, fmt.Errorf("log format %q: want console or json", cfg.Log.Format)
	}
	cmd.SetContext(logging.WithContext(cmd.Context(), log))

	return &repo{root: root, cfg: cfg, log: log}, nil
}

// path resolves a configured path against the repository root.
func (r *repo) path(p string) string {
	return config.Resolve(r.root, p)
}
