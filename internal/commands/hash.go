package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

func newHashCommand() *cobra.Command {
	var date, description, amount, account string
	var keyFields []string

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the identity digest of a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := id.ParseKeyFields(keyFields)
			if err != nil {
				return err
			}

			txn := model.Transaction{
				AccountName: account,
				Description: description,
			}
			if date != "" {
				if txn.Date, err = time.Parse(id.DateFormat, date); err != nil {
					return fmt.Errorf("--date: want YYYY-MM-DD: %w", err)
				}
			}
			if amount != "" {
				if txn.Amount, err = decimal.NewFromString(amount); err != nil {
					return fmt.Errorf("--amount: %w", err)
				}
			}

			digest, err := id.Digest(txn, fields)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "transaction description")
	cmd.Flags().StringVar(&amount, "amount", "0", "signed amount, e.g. -450.00")
	cmd.Flags().StringVar(&account, "account", "", "account name")
	cmd.Flags().StringSliceVar(&keyFields, "key-fields", nil, "key fields in digest order (default date,description,amount,account_name)")

	return cmd
}
