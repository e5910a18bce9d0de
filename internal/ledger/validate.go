package ledger

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/id"
)

// Invariants checked by Check.
const (
	InvariantUniqueID     = 1
	InvariantCurrentID    = 2
	InvariantKnownAccount = 3
	InvariantPrecision    = 4
	InvariantTranType     = 5
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	ID          string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, id.Short(e.ID), e.Description)
}

// AccountChecker tests whether an account name exists in the registry.
type AccountChecker interface {
	Exists(name string) bool
}

// Check enforces the ledger invariants: unique IDs, IDs matching their key
// fields, known accounts, 2-decimal amounts and valid transaction types.
// A nil accounts skips the account check.
func Check(l *Ledger, accounts AccountChecker, fields []id.KeyField) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, l.Len())
	for i, txn := range l.rows {
		// Invariant 1: one row per ID.
		if seen[txn.ID] {
			errs = append(errs, ValidationError{
				Invariant:   InvariantUniqueID,
				ID:          txn.ID,
				Description: fmt.Sprintf("row %d duplicates an earlier row", i+1),
			})
		}
		seen[txn.ID] = true

		// Invariant 2: ID is the digest of the key fields.
		want, err := id.Digest(txn, fields)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{
				Invariant:   InvariantCurrentID,
				ID:          txn.ID,
				Description: fmt.Sprintf("row %d: %v", i+1, err),
			})
		case want != txn.ID:
			errs = append(errs, ValidationError{
				Invariant:   InvariantCurrentID,
				ID:          txn.ID,
				Description: fmt.Sprintf("row %d: stale id, key fields hash to %s", i+1, id.Short(want)),
			})
		}

		// Invariant 3: valid account references.
		if accounts != nil && !accounts.Exists(txn.AccountName) {
			errs = append(errs, ValidationError{
				Invariant:   InvariantKnownAccount,
				ID:          txn.ID,
				Description: fmt.Sprintf("unknown account %q", txn.AccountName),
			})
		}

		// Invariant 4: no more than 2 decimal places.
		if !txn.Amount.Equal(txn.Amount.Round(2)) {
			errs = append(errs, ValidationError{
				Invariant:   InvariantPrecision,
				ID:          txn.ID,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", txn.Amount),
			})
		}

		// Invariant 5: known transaction type.
		if !txn.TranType.Valid() {
			errs = append(errs, ValidationError{
				Invariant:   InvariantTranType,
				ID:          txn.ID,
				Description: fmt.Sprintf("unknown transaction type %q", txn.TranType),
			})
		}
	}

	return errs
}
