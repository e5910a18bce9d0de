// Package id computes the identity digest that keys every ledger row.
package id

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// KeyField names a transaction field that participates in the identity digest.
type KeyField string

const (
	FieldDate        KeyField = "date"
	FieldDescription KeyField = "description"
	FieldAmount      KeyField = "amount"
	FieldAccountName KeyField = "account_name"
)

// DateFormat is the canonical rendering of a transaction date.
const DateFormat = "2006-01-02"

// separator joins canonical field values so that ("ab", "c") and ("a", "bc")
// never produce the same input to the hash.
const separator = "\x1f"

// DefaultKeyFields returns the identity fields in canonical order.
func DefaultKeyFields() []KeyField {
	return []KeyField{FieldDate, FieldDescription, FieldAmount, FieldAccountName}
}

// ParseKeyFields validates configured key field names. An empty list yields
// the defaults.
func ParseKeyFields(names []string) ([]KeyField, error) {
	if len(names) == 0 {
		return DefaultKeyFields(), nil
	}
	seen := make(map[KeyField]bool, len(names))
	fields := make([]KeyField, 0, len(names))
	for _, n := range names {
		f := KeyField(strings.ToLower(strings.TrimSpace(n)))
		switch f {
		case FieldDate, FieldDescription, FieldAmount, FieldAccountName:
		default:
			return nil, fmt.Errorf("unknown key field %q", n)
		}
		if seen[f] {
			return nil, fmt.Errorf("duplicate key field %q", n)
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return fields, nil
}

// Canonical renders a single key field of txn to its canonical string.
func Canonical(txn model.Transaction, field KeyField) (string, error) {
	switch field {
	case FieldDate:
		if txn.Date.IsZero() {
			return "", &model.HashingError{Field: string(field)}
		}
		if !isMidnight(txn) {
			return "", &model.SchemaError{Column: string(field), Reason: fmt.Sprintf("%s has a time-of-day component", txn.Date)}
		}
		return txn.Date.Format(DateFormat), nil
	case FieldAmount:
		if !txn.Amount.Equal(txn.Amount.Round(2)) {
			return "", &model.SchemaError{Column: string(field), Reason: fmt.Sprintf("%s has more than 2 fractional digits", txn.Amount)}
		}
		return txn.Amount.StringFixed(2), nil
	case FieldDescription:
		if txn.Description == "" {
			return "", &model.HashingError{Field: string(field)}
		}
		return txn.Description, nil
	case FieldAccountName:
		if txn.AccountName == "" {
			return "", &model.HashingError{Field: string(field)}
		}
		return txn.AccountName, nil
	default:
		return "", fmt.Errorf("unknown key field %q", field)
	}
}

func isMidnight(txn model.Transaction) bool {
	h, m, s := txn.Date.Clock()
	return h == 0 && m == 0 && s == 0 && txn.Date.Nanosecond() == 0
}

// Digest returns the hex SHA-256 of txn's key fields in the given order.
func Digest(txn model.Transaction, fields []KeyField) (string, error) {
	if len(fields) == 0 {
		fields = DefaultKeyFields()
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		s, err := Canonical(txn, f)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, separator)))
	return hex.EncodeToString(sum[:]), nil
}

// Rehash returns a copy of txn with ID recomputed from its key fields.
func Rehash(txn model.Transaction, fields []KeyField) (model.Transaction, error) {
	d, err := Digest(txn, fields)
	if err != nil {
		return model.Transaction{}, err
	}
	txn.ID = d
	return txn, nil
}

// Short abbreviates a digest for display.
func Short(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}
