package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the ledger against the account table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			opts, err := r.cfg.ReconcileOptions()
			if err != nil {
				return err
			}

			registry, err := accounts.Load(r.path(r.cfg.Paths.Accounts))
			if err != nil {
				return err
			}
			l, err := ledger.NewStore(r.path(r.cfg.Paths.Ledger), opts.KeyFields).Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if n := l.Stale(); n > 0 {
				fmt.Fprintf(out, "%d stored id(s) did not match their key fields; the next import rewrites them.\n", n)
			}

			violations := ledger.Check(l, registry, opts.KeyFields)
			if len(violations) == 0 {
				fmt.Fprintf(out, "Ledger OK: %d transactions.\n", l.Len())
				return nil
			}

			data := pterm.TableData{{"Invariant", "ID", "Problem"}}
			for _, v := range violations {
				data = append(data, []string{strconv.Itoa(v.Invariant), id.Short(v.ID), v.Description})
			}
			if err := renderTable(out, data); err != nil {
				return err
			}
			return fmt.Errorf("%d ledger violation(s)", len(violations))
		},
	}
}
