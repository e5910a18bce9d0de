package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
)

func newAccountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the registered bank accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			registry, err := accounts.Load(r.path(r.cfg.Paths.Accounts))
			if err != nil {
				return err
			}

			data := pterm.TableData{{"Account", "Currency", "Bank", "Type", "ID Pattern"}}
			for _, a := range registry.All() {
				data = append(data, []string{a.Name, a.Currency, a.Bank, string(a.Type), a.IDPattern})
			}
			return renderTable(cmd.OutOrStdout(), data)
		},
	}
}
