package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

var dateFormats = []string{"2006-01-02", "02/01/2006"}

var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

// statementColumns locates the recognised columns of a statement header.
// Missing columns are -1.
type statementColumns struct {
	date, desc, amount, debit, credit int
	currency, category, notes         int
}

func findColumns(record []string) (statementColumns, bool) {
	c := statementColumns{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, cell := range record {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "date":
			c.date = i
		case "description":
			c.desc = i
		case "amount":
			c.amount = i
		case "debit":
			c.debit = i
		case "credit":
			c.credit = i
		case "currency":
			c.currency = i
		case "category":
			c.category = i
		case "notes":
			c.notes = i
		}
	}
	hasAmount := c.amount >= 0 || (c.debit >= 0 && c.credit >= 0)
	return c, c.date >= 0 && c.desc >= 0 && hasAmount
}

// Normalize converts a statement in canonical layout into a batch for acct.
//
// The header is the first record naming date, description and amount columns
// (or debit and credit in place of amount); anything before it is preamble.
// Records with an empty date are skipped. Every other record must parse, or
// the whole statement is rejected.
func Normalize(source string, r io.Reader, acct model.Account, fields []id.KeyField) (model.Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return model.Batch{}, fmt.Errorf("reading statement CSV: %w", err)
	}

	batch := model.Batch{Source: source, AccountName: acct.Name}

	start := -1
	var cols statementColumns
	for i, rec := range records {
		if c, ok := findColumns(rec); ok {
			cols, start = c, i
			break
		}
	}
	if start < 0 {
		return model.Batch{}, &model.SchemaError{Column: "date,description,amount", Reason: "no header row found"}
	}

	for i, rec := range records[start+1:] {
		row := i + 1
		if strings.TrimSpace(cell(rec, cols.date)) == "" {
			continue
		}
		txn, err := normalizeRow(rec, cols, acct, row)
		if err != nil {
			return model.Batch{}, err
		}
		txn, err = id.Rehash(txn, fields)
		if err != nil {
			return model.Batch{}, fmt.Errorf("row %d: %w", row, err)
		}
		batch.Transactions = append(batch.Transactions, txn)
	}
	return batch, nil
}

func normalizeRow(rec []string, cols statementColumns, acct model.Account, row int) (model.Transaction, error) {
	date, err := parseDate(cell(rec, cols.date))
	if err != nil {
		return model.Transaction{}, &model.SchemaError{Column: "date", Row: row, Reason: err.Error()}
	}

	var amount decimal.Decimal
	if cols.amount >= 0 {
		amount, err = parseAmount(cell(rec, cols.amount))
		if err != nil {
			return model.Transaction{}, &model.SchemaError{Column: "amount", Row: row, Reason: err.Error()}
		}
	} else {
		amount, err = debitCredit(cell(rec, cols.debit), cell(rec, cols.credit))
		if err != nil {
			return model.Transaction{}, &model.SchemaError{Column: "debit,credit", Row: row, Reason: err.Error()}
		}
	}

	currency := strings.TrimSpace(cell(rec, cols.currency))
	if currency == "" {
		currency = acct.Currency
	}

	return model.Transaction{
		Date:        date,
		AccountName: acct.Name,
		Description: collapse(cell(rec, cols.desc)),
		Category:    model.NullText(collapse(cell(rec, cols.category))),
		Notes:       model.NullText(collapse(cell(rec, cols.notes))),
		Currency:    currency,
		Amount:      amount,
		TranType:    tranType(amount, acct.Type),
	}, nil
}

// tranType classifies an amount: outflows are expenses, inflows are income
// on savings accounts and transfers (card payments) on credit cards.
func tranType(amount decimal.Decimal, accountType model.AccountType) model.TranType {
	switch {
	case amount.IsNegative():
		return model.TranTypeExpense
	case accountType == model.AccountTypeCreditCard:
		return model.TranTypeTransfer
	default:
		return model.TranTypeIncome
	}
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: want YYYY-MM-DD or DD/MM/YYYY", s)
}

// parseAmount strips everything but digits, '.' and '-' and rounds to cents.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := nonNumeric.ReplaceAllString(s, "")
	if clean == "" {
		return decimal.Decimal{}, fmt.Errorf("amount %q has no digits", s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d.Round(2), nil
}

// debitCredit nets a debit/credit pair into a signed amount. Debits are
// outflows whatever their printed sign.
func debitCredit(debit, credit string) (decimal.Decimal, error) {
	var out decimal.Decimal
	found := false
	if nonNumeric.ReplaceAllString(debit, "") != "" {
		d, err := parseAmount(debit)
		if err != nil {
			return decimal.Decimal{}, err
		}
		out = out.Sub(d.Abs())
		found = true
	}
	if nonNumeric.ReplaceAllString(credit, "") != "" {
		c, err := parseAmount(credit)
		if err != nil {
			return decimal.Decimal{}, err
		}
		out = out.Add(c)
		found = true
	}
	if !found {
		return decimal.Decimal{}, fmt.Errorf("neither debit nor credit is set")
	}
	return out, nil
}

var bom = []byte("\ufeff")

// stripBOM drops a leading UTF-8 byte order mark.
func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, bom)
}
