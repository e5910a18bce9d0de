package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reconcile"
	"github.com/cleared-dev/tally/internal/runlog"
)

type importFlags struct {
	dryRun    bool
	noCommit  bool
	keepFiles bool
	threshold float64
	policy    string
}

func newImportCommand() *cobra.Command {
	var f importFlags

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Reconcile statements in the import directory into the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, f)
		},
	}

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "report what would change without writing anything")
	cmd.Flags().BoolVar(&f.noCommit, "no-commit", false, "do not commit the updated ledger")
	cmd.Flags().BoolVar(&f.keepFiles, "keep-files", false, "leave statements in the import directory")
	cmd.Flags().Float64Var(&f.threshold, "threshold", reconcile.DefaultThreshold, "minimum description similarity for a correction")
	cmd.Flags().StringVar(&f.policy, "policy", string(reconcile.PolicyBest), "correction policy when several rows match (best, all)")

	return cmd
}

// importSummary accumulates the per-file outcome of one run.
type importSummary struct {
	rows      pterm.TableData
	processed []string
	corrected int
	admitted  int
	failed    int
}

func runImport(cmd *cobra.Command, f importFlags) error {
	r, err := openRepo(cmd)
	if err != nil {
		return err
	}
	log := logging.FromContext(cmd.Context())

	opts, err := r.cfg.ReconcileOptions()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("threshold") {
		if f.threshold <= 0 || f.threshold > 1 {
			return fmt.Errorf("--threshold %v out of range (0,1]", f.threshold)
		}
		opts.Threshold = f.threshold
	}
	if cmd.Flags().Changed("policy") {
		if opts.Policy, err = reconcile.ParsePolicy(f.policy); err != nil {
			return err
		}
	}

	registry, err := accounts.Load(r.path(r.cfg.Paths.Accounts))
	if err != nil {
		return err
	}

	store := ledger.NewStore(r.path(r.cfg.Paths.Ledger), opts.KeyFields)
	l, err := store.Load()
	if err != nil {
		return err
	}
	if n := l.Stale(); n > 0 {
		log.Warn().Int("rows", n).Str("ledger", store.Path()).Msg("recomputed stale transaction ids")
	}

	engine, err := reconcile.NewEngine(opts, log)
	if err != nil {
		return err
	}

	importDir := r.path(r.cfg.Paths.Import)
	files, err := importer.Scan(importDir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No statements to import.")
		return nil
	}

	runID := runlog.NewRunID()
	now := time.Now().UTC()
	var entries []runlog.Entry
	sum := importSummary{
		rows: pterm.TableData{{"File", "Account", "Corrected", "Added", "Duplicates"}},
	}

	for _, file := range files {
		fileLog := log.With().Str("file", file.Name).Logger()

		st, res, err := reconcileStatement(engine, registry, l, file, opts.KeyFields)
		var amb *model.AmbiguousSourceError
		switch {
		case errors.As(err, &amb):
			fileLog.Warn().Err(err).Msg("skipping statement")
			entries = append(entries, runlog.Entry{
				Timestamp: now, RunID: runID, Source: file.Name,
				Action: runlog.ActionSkipped, Details: err.Error(),
			})
			continue
		case err != nil:
			fileLog.Error().Err(err).Msg("statement rejected")
			entries = append(entries, runlog.Entry{
				Timestamp: now, RunID: runID, Source: file.Name,
				Action: runlog.ActionFailed, Details: err.Error(),
			})
			sum.failed++
			continue
		}
		l = res.Ledger

		entries = append(entries, runlog.FromResult(runID, now, res)...)
		sum.rows = append(sum.rows, []string{
			file.Name,
			st.Account.Name,
			strconv.Itoa(len(res.Corrections)),
			strconv.Itoa(len(res.Admitted)),
			strconv.Itoa(len(res.Discarded)),
		})
		sum.processed = append(sum.processed, file.Name)
		sum.corrected += len(res.Corrections)
		sum.admitted += len(res.Admitted)
		fileLog.Info().
			Str("account", st.Account.Name).
			Int("corrected", len(res.Corrections)).
			Int("added", len(res.Admitted)).
			Int("duplicates", len(res.Discarded)).
			Msg("statement reconciled")
	}

	if len(sum.rows) > 1 {
		if err := renderTable(out, sum.rows); err != nil {
			return err
		}
	}

	if f.dryRun {
		fmt.Fprintln(out, "Dry run: ledger not written.")
		return sum.err()
	}

	if err := persistImport(r, store, l, entries, &sum, importDir, f); err != nil {
		return err
	}
	return sum.err()
}

// reconcileStatement reads one statement file, confirms its account is
// registered and reconciles it against l.
func reconcileStatement(engine *reconcile.Engine, registry *accounts.Registry, l *ledger.Ledger, file importer.FileInfo, fields []id.KeyField) (importer.Statement, *reconcile.Result, error) {
	st, err := importer.Read(file, registry, fields)
	if err != nil {
		return st, nil, err
	}
	if _, err := registry.Lookup(st.Batch.AccountName); err != nil {
		return st, nil, fmt.Errorf("%s: %w", file.Name, err)
	}
	res, err := engine.Reconcile(l, st.Batch)
	if err != nil {
		return st, nil, err
	}
	return st, res, nil
}

// persistImport saves the ledger and run log, archives the statements and
// commits the result.
func persistImport(r *repo, store *ledger.Store, l *ledger.Ledger, entries []runlog.Entry, sum *importSummary, importDir string, f importFlags) error {
	if len(sum.processed) > 0 {
		if err := store.Save(l); err != nil {
			return err
		}
	}
	if len(entries) > 0 {
		if err := runlog.Append(r.path(r.cfg.Paths.RunLog), entries); err != nil {
			return err
		}
	}

	if !f.keepFiles {
		for _, name := range sum.processed {
			if err := importer.MarkProcessed(importDir, name); err != nil {
				return err
			}
		}
	}

	if !r.cfg.Git.AutoCommit || f.noCommit || !gitops.IsRepo(r.root) {
		return nil
	}
	msg := fmt.Sprintf("import: %d statement(s), %d added, %d corrected", len(sum.processed), sum.admitted, sum.corrected)
	hash, err := gitops.Commit(r.root, msg, r.cfg.Git.AuthorName, r.cfg.Git.AuthorEmail)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	r.log.Info().Str("commit", hash).Msg("ledger committed")
	return nil
}

func (s importSummary) err() error {
	if s.failed > 0 {
		return fmt.Errorf("%d statement(s) failed to import", s.failed)
	}
	return nil
}
