package accounts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(DefaultAccounts())
	require.NoError(t, err)
	return r
}

func TestNewRegistry(t *testing.T) {
	r := defaultRegistry(t)
	assert.Len(t, r.All(), len(DefaultAccounts()))
}

func TestNewRegistry_Duplicate(t *testing.T) {
	accts := []model.Account{
		{Name: "REVOLUT", Type: model.AccountTypeSavings, IDPattern: "REVOLUT"},
		{Name: "REVOLUT", Type: model.AccountTypeSavings, IDPattern: "REVOLUT"},
	}
	_, err := NewRegistry(accts)
	assert.ErrorContains(t, err, "duplicate account")
}

func TestNewRegistry_BadPattern(t *testing.T) {
	_, err := NewRegistry([]model.Account{{Name: "X", Type: model.AccountTypeSavings, IDPattern: "(["}})
	assert.ErrorContains(t, err, "compiling id_pattern")
}

func TestExistsLookup(t *testing.T) {
	r := defaultRegistry(t)

	assert.True(t, r.Exists("REVOLUT"))
	assert.False(t, r.Exists("CHASE"))

	acct, err := r.Lookup("BAC ECONOMIA")
	require.NoError(t, err)
	assert.Equal(t, model.AccountTypeCreditCard, acct.Type)

	_, err = r.Lookup("CHASE")
	assert.True(t, errors.Is(err, model.ErrUnknownAccount))
}

func TestIdentify(t *testing.T) {
	r := defaultRegistry(t)

	tests := []struct {
		name    string
		content string
		want    string
		matches []string
	}{
		{"exact", "Account: BAC HNL 271\ndate,description,amount\n", "BAC HNL 271", nil},
		{"case and spacing", "account:   bac\thnl   271\n", "BAC HNL 271", nil},
		{"revolut", "Revolut statement\n", "REVOLUT", nil},
		{"no match", "Chase checking\n", "", []string{}},
		{"two matches", "REVOLUT transfer to SANTANDER\n", "", []string{"SANTANDER", "REVOLUT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct, err := r.Identify("stmt.csv", tt.content)
			if tt.matches != nil {
				var ae *model.AmbiguousSourceError
				require.True(t, errors.As(err, &ae), "got %v", err)
				assert.Equal(t, "stmt.csv", ae.Source)
				assert.Equal(t, tt.matches, ae.Matches)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, acct.Name)
		})
	}
}

func TestIdentify_OnlyLeadingContent(t *testing.T) {
	r := defaultRegistry(t)
	content := strings.Repeat("x", identifyChars) + "REVOLUT"

	_, err := r.Identify("late.csv", content)
	var ae *model.AmbiguousSourceError
	require.True(t, errors.As(err, &ae))
	assert.Empty(t, ae.Matches)
}

func TestLeading(t *testing.T) {
	assert.Equal(t, "BAC HNL 271 DATE", Leading("  bac\n hnl\t271  date "))
	assert.Len(t, []rune(Leading(strings.Repeat("ñ", 1000))), identifyChars)
}

func TestSaveLoad(t *testing.T) {
	r := defaultRegistry(t)
	path := filepath.Join(t.TempDir(), "accounts", "accounts.csv")

	require.NoError(t, r.Save(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	r2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, r.All(), r2.All())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "accounts.csv"))
	assert.ErrorContains(t, err, "opening accounts")
}
