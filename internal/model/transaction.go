package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TranType classifies the direction of a transaction.
type TranType string

const (
	TranTypeExpense  TranType = "Expense"
	TranTypeIncome   TranType = "Income"
	TranTypeTransfer TranType = "Transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TranType) Valid() bool {
	switch t {
	case TranTypeExpense, TranTypeIncome, TranTypeTransfer:
		return true
	}
	return false
}

// Transaction is a single row in the ledger.
type Transaction struct {
	ID          string    // identity digest, see package id
	Date        time.Time // UTC midnight
	AccountName string
	Description string
	Category    *string // nil = unset
	Notes       *string // nil = unset
	Currency    string
	Amount      decimal.Decimal // negative = expense, positive = income
	TranType    TranType
}

// Batch is one statement file's worth of normalized candidates.
type Batch struct {
	Source       string
	AccountName  string
	Transactions []Transaction
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NullText normalizes optional free text: empty or whitespace-only becomes nil.
func NullText(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// TextOf returns the value of an optional text field, or "" when unset.
func TextOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
