package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts struct {
	names map[string]bool
}

func (m *mockAccounts) Exists(name string) bool {
	return m.names[name]
}

func newMockAccounts(names ...string) *mockAccounts {
	m := &mockAccounts{names: make(map[string]bool)}
	for _, n := range names {
		m.names[n] = true
	}
	return m
}

var defaultAccounts = newMockAccounts("BAC HNL 271", "REVOLUT")

func invariants(errs []ValidationError) []int {
	var out []int
	for _, e := range errs {
		out = append(out, e.Invariant)
	}
	return out
}

func TestCheck_Clean(t *testing.T) {
	l := New(
		txn(t, date(2024, 1, 5), "BAC HNL 271", "SUPERMERCADO LA COLONIA", "-450.00"),
		txn(t, date(2024, 1, 6), "REVOLUT", "Amazon.com", "-20.00"),
	)
	assert.Empty(t, Check(l, defaultAccounts, nil))
}

func TestCheck_DuplicateID(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "BAC HNL 271", "SUPERMERCADO LA COLONIA", "-450.00")
	errs := Check(New(a, a), defaultAccounts, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, InvariantUniqueID, errs[0].Invariant)
	assert.Contains(t, errs[0].Error(), "invariant 1 [050c9e5f8686]")
}

func TestCheck_StaleID(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "BAC HNL 271", "SUPERMERCADO LA COLONIA", "-450.00")
	a.Description = "SUPERMERCADO LA COLONIA 0042"

	errs := Check(New(a), defaultAccounts, nil)
	assert.Equal(t, []int{InvariantCurrentID}, invariants(errs))
}

func TestCheck_UnhashableRow(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "BAC HNL 271", "SUPERMERCADO LA COLONIA", "-450.00")
	a.Description = ""

	errs := Check(New(a), defaultAccounts, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Description, "description")
}

func TestCheck_UnknownAccount(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "BAC USD 911", "ATM", "-20.00")

	errs := Check(New(a), defaultAccounts, nil)
	assert.Equal(t, []int{InvariantKnownAccount}, invariants(errs))

	assert.Empty(t, Check(New(a), nil, nil), "nil registry skips account check")
}

func TestCheck_PrecisionAndTranType(t *testing.T) {
	a := txn(t, date(2024, 1, 5), "REVOLUT", "Amazon.com", "-20.00")
	a.Amount = dec("-20.005")
	a.TranType = model.TranType("Refund")

	errs := Check(New(a), defaultAccounts, nil)
	// The stale-id check fails too since the amount cannot be hashed.
	assert.ElementsMatch(t, []int{InvariantCurrentID, InvariantPrecision, InvariantTranType}, invariants(errs))
}
