package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

func newShowCommand() *cobra.Command {
	var account string
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the ledger",
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

			if account != "" {
				registry, err := accounts.Load(r.path(r.cfg.Paths.Accounts))
				if err != nil {
					return err
				}
				if _, err := registry.Lookup(account); err != nil {
					return err
				}
			}

			l, err := ledger.NewStore(r.path(r.cfg.Paths.Ledger), opts.KeyFields).Load()
			if err != nil {
				return err
			}

			data := pterm.TableData{{"ID", "Date", "Account", "Description", "Category", "Amount", "Currency", "Type"}}
			for _, txn := range l.Sorted().Rows() {
				if account != "" && txn.AccountName != account {
					continue
				}
				data = append(data, []string{
					id.Short(txn.ID),
					txn.Date.Format(id.DateFormat),
					txn.AccountName,
					txn.Description,
					model.TextOf(txn.Category),
					txn.Amount.StringFixed(2),
					txn.Currency,
					string(txn.TranType),
				})
			}

			out := cmd.OutOrStdout()
			if len(data) == 1 {
				fmt.Fprintln(out, "No transactions.")
				return nil
			}
			if limit > 0 && len(data)-1 > limit {
				data = append(data[:1], data[len(data)-limit:]...)
			}
			return renderTable(out, data)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "only show this account")
	cmd.Flags().IntVar(&limit, "limit", 0, "only show the most recent n transactions")

	return cmd
}
