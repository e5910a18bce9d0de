package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// Columns is the canonical column order of the persisted ledger.
var Columns = []string{"id", "date", "account_name", "description", "category", "notes", "currency", "amount", "tran_type"}

const (
	numFields   = 9
	colID       = 0
	colDate     = 1
	colAccount  = 2
	colDesc     = 3
	colCategory = 4
	colNotes    = 5
	colCurrency = 6
	colAmount   = 7
	colTranType = 8

	legacyDateFormat = "2006-01-02 15:04:05"
)

// Table is the flat tabular form of a ledger: a header and string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Table renders the ledger in canonical column order.
func (l *Ledger) Table() Table {
	t := Table{Header: append([]string(nil), Columns...), Rows: make([][]string, 0, l.Len())}
	for _, txn := range l.rows {
		t.Rows = append(t.Rows, MarshalTransaction(txn))
	}
	return t
}

// MarshalTransaction converts a transaction to a row in canonical column order.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID
	row[colDate] = txn.Date.Format(id.DateFormat)
	row[colAccount] = txn.AccountName
	row[colDesc] = txn.Description
	row[colCategory] = model.TextOf(txn.Category)
	row[colNotes] = model.TextOf(txn.Notes)
	row[colCurrency] = txn.Currency
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colTranType] = string(txn.TranType)
	return row
}

// Assemble validates a table against the ledger schema, coerces every cell,
// recomputes IDs from the given key fields (the defaults when none are given)
// and returns the rows ordered by date, then account name.
//
// Any schema violation aborts assembly; no partial ledger is returned.
func Assemble(t Table, fields ...id.KeyField) (*Ledger, error) {
	pos, err := columnPositions(t.Header)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Transaction, 0, len(t.Rows))
	stale := 0
	for i, rec := range t.Rows {
		row := i + 1
		if len(rec) != len(t.Header) {
			return nil, &model.SchemaError{Row: row, Reason: fmt.Sprintf("expected %d fields, got %d", len(t.Header), len(rec))}
		}
		canonical := make([]string, numFields)
		for col, p := range pos {
			canonical[col] = rec[p]
		}
		txn, err := UnmarshalTransaction(canonical, row)
		if err != nil {
			return nil, err
		}
		stored := txn.ID
		txn, err = id.Rehash(txn, fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if stored != txn.ID {
			stale++
		}
		rows = append(rows, txn)
	}

	l := New(rows...).Sorted()
	l.stale = stale
	return l, nil
}

// UnmarshalTransaction converts a row in canonical column order to a
// transaction. The stored ID is carried as-is; row is the 1-based data row
// reported in errors.
func UnmarshalTransaction(record []string, row int) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, &model.SchemaError{Row: row, Reason: fmt.Sprintf("expected %d fields, got %d", numFields, len(record))}
	}

	date, err := parseDate(record[colDate])
	if err != nil {
		return model.Transaction{}, &model.SchemaError{Column: Columns[colDate], Row: row, Reason: err.Error()}
	}

	amount, err := parseAmount(record[colAmount])
	if err != nil {
		return model.Transaction{}, &model.SchemaError{Column: Columns[colAmount], Row: row, Reason: err.Error()}
	}

	tt := model.TranType(strings.TrimSpace(record[colTranType]))
	if !tt.Valid() {
		return model.Transaction{}, &model.SchemaError{Column: Columns[colTranType], Row: row, Reason: fmt.Sprintf("unknown transaction type %q", record[colTranType])}
	}

	return model.Transaction{
		ID:          strings.TrimSpace(record[colID]),
		Date:        date,
		AccountName: record[colAccount],
		Description: record[colDesc],
		Category:    model.NullText(record[colCategory]),
		Notes:       model.NullText(record[colNotes]),
		Currency:    record[colCurrency],
		Amount:      amount,
		TranType:    tt,
	}, nil
}

// columnPositions maps each canonical column to its index in header.
func columnPositions(header []string) ([]int, error) {
	want := make(map[string]int, numFields)
	for i, c := range Columns {
		want[c] = i
	}

	pos := make([]int, numFields)
	found := make([]bool, numFields)
	var extra []string
	for i, h := range header {
		name := strings.TrimSpace(h)
		col, ok := want[name]
		if !ok || found[col] {
			extra = append(extra, name)
			continue
		}
		pos[col] = i
		found[col] = true
	}

	var missing []string
	for col, ok := range found {
		if !ok {
			missing = append(missing, Columns[col])
		}
	}

	switch {
	case len(missing) > 0 && len(extra) > 0:
		return nil, &model.SchemaError{
			Column: strings.Join(missing, ","),
			Reason: fmt.Sprintf("missing columns %s; unexpected columns %s", strings.Join(missing, ", "), strings.Join(extra, ", ")),
		}
	case len(missing) > 0:
		return nil, &model.SchemaError{Column: strings.Join(missing, ","), Reason: "missing column"}
	case len(extra) > 0:
		sort.Strings(extra)
		return nil, &model.SchemaError{Column: strings.Join(extra, ","), Reason: "unexpected column"}
	}
	return pos, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if d, err := time.Parse(id.DateFormat, s); err == nil {
		return d, nil
	}
	d, err := time.Parse(legacyDateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: want YYYY-MM-DD", s)
	}
	if !d.Equal(model.Day(d)) {
		return time.Time{}, fmt.Errorf("date %q has a time-of-day component", s)
	}
	return d, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errors.New("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, fmt.Errorf("amount %q has more than 2 fractional digits", s)
	}
	return d, nil
}
