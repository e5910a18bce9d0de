package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header for accounts.csv.
const Header = "account_name,currency,bank,account_type,id_pattern"

const (
	numFields   = 5
	colName     = 0
	colCurrency = 1
	colBank     = 2
	colType     = 3
	colPattern  = 4
)

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colName] = acct.Name
	row[colCurrency] = acct.Currency
	row[colBank] = acct.Bank
	row[colType] = string(acct.Type)
	row[colPattern] = acct.IDPattern
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	name := strings.TrimSpace(record[colName])
	if name == "" {
		return model.Account{}, fmt.Errorf("empty account_name")
	}

	typ := model.AccountType(strings.TrimSpace(record[colType]))
	switch typ {
	case model.AccountTypeSavings, model.AccountTypeCreditCard:
	default:
		return model.Account{}, fmt.Errorf("account %q: unknown account_type %q", name, record[colType])
	}

	pattern := record[colPattern]
	if strings.TrimSpace(pattern) == "" {
		pattern = name
	}

	return model.Account{
		Name:      name,
		Currency:  strings.TrimSpace(record[colCurrency]),
		Bank:      strings.TrimSpace(record[colBank]),
		Type:      typ,
		IDPattern: pattern,
	}, nil
}
