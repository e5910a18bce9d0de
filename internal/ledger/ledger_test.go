package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(t *testing.T, day time.Time, account, desc, amount string) model.Transaction {
	t.Helper()
	tt := model.TranTypeExpense
	if dec(amount).IsPositive() {
		tt = model.TranTypeIncome
	}
	out, err := id.Rehash(model.Transaction{
		Date:        day,
		AccountName: account,
		Description: desc,
		Currency:    "HNL",
		Amount:      dec(amount),
		TranType:    tt,
	}, nil)
	require.NoError(t, err)
	return out
}

func TestLedger_AppendAndIndex(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "BAC HNL 271", "SUPERMERCADO LA COLONIA", "-450.00")
	b := txn(t, date(2024, 1, 6), "BAC HNL 271", "UBER TRIP", "-80.00")

	l := New(a)
	l.Append(b)

	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Contains(a.ID))
	assert.True(t, l.Contains(b.ID))
	assert.False(t, l.Contains("nope"))
	assert.Equal(t, []int{1}, l.positions(b.ID))
	assert.Len(t, l.IDs(), 2)
	assert.Equal(t, b, l.At(1))
}

func TestLedger_DuplicateIDsIndexed(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "BAC HNL 271", "SUPERMERCADO LA COLONIA", "-450.00")

	l := New(a, a)
	assert.Equal(t, []int{0, 1}, l.positions(a.ID))
	assert.Len(t, l.IDs(), 1)
}

func TestLedger_Replace(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "REVOLUT", "AMAZON MKTPLACE PMTS", "-20.00")
	b := txn(t, date(2024, 1, 6), "REVOLUT", "UBER TRIP", "-8.00")
	l := New(a, b)

	corrected := txn(t, date(2024, 1, 5), "REVOLUT", "AMAZON MKTPLACE PMTS 1234", "-20.00")
	require.NoError(t, l.Replace(0, corrected))

	assert.Equal(t, 2, l.Len())
	assert.False(t, l.Contains(a.ID))
	assert.Equal(t, []int{0}, l.positions(corrected.ID))
	assert.Equal(t, "AMAZON MKTPLACE PMTS 1234", l.At(0).Description)
	assert.Equal(t, []int{1}, l.positions(b.ID))
}

func TestLedger_ReplaceKeepsPositionsOrdered(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "REVOLUT", "A", "-1.00")
	b := txn(t, date(2024, 1, 5), "REVOLUT", "B", "-1.00")
	l := New(b, a, b)

	require.NoError(t, l.Replace(1, b))
	assert.Equal(t, []int{0, 1, 2}, l.positions(b.ID))
	assert.False(t, l.Contains(a.ID))
}

func TestLedger_ReplaceOutOfRange(t *testing.T) {
	l := New()
	err := l.Replace(0, model.Transaction{})
	assert.Error(t, err)
}

func TestLedger_CloneIsIndependent(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "REVOLUT", "AMAZON", "-20.00")
	l := New(a)

	c := l.Clone()
	c.Append(txn(t, date(2024, 1, 6), "REVOLUT", "UBER", "-8.00"))
	require.NoError(t, c.Replace(0, txn(t, date(2024, 1, 5), "REVOLUT", "AMAZON 1", "-20.00")))

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, a, l.At(0))
	assert.True(t, l.Contains(a.ID))
}

func TestLedger_RowsIsCopy(t *testing.T) {
	l := New(txn(t, date(2024, 1, 5), "REVOLUT", "AMAZON", "-20.00"))
	rows := l.Rows()
	rows[0].Description = "changed"
	assert.Equal(t, "AMAZON", l.At(0).Description)
}

func TestLedger_Sorted(t *testing.T) {
	l := New(
		txn(t, date(2024, 2, 1), "REVOLUT", "late", "-1.00"),
		txn(t, date(2024, 1, 1), "SANTANDER EUR", "early second account", "-1.00"),
		txn(t, date(2024, 1, 1), "BAC HNL 271", "tie first", "-1.00"),
		txn(t, date(2024, 1, 1), "BAC HNL 271", "tie second", "-1.00"),
	)

	s := l.Sorted()
	var got []string
	for _, r := range s.Rows() {
		got = append(got, r.Description)
	}
	assert.Equal(t, []string{"tie first", "tie second", "early second account", "late"}, got)
	assert.Equal(t, "late", l.At(0).Description, "original untouched")
}
