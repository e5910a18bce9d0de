package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// stubAccounts implements Identifier with a fixed answer.
type stubAccounts struct {
	acct model.Account
	err  error
	seen string
}

func (s *stubAccounts) Identify(source, content string) (model.Account, error) {
	s.seen = content
	return s.acct, s.err
}

func writeStatement(t *testing.T, name, content string) FileInfo {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return FileInfo{Name: name, Path: path, Size: int64(len(content))}
}

func TestRead(t *testing.T) {
	file := writeStatement(t, "stmt.csv", "\ufeffBAC HNL 271\ndate,description,amount\n2024-01-05,SUPERMERCADO LA COLONIA,-450.00\n")
	ident := &stubAccounts{acct: savings}

	stmt, err := Read(file, ident, nil)
	require.NoError(t, err)
	assert.Equal(t, file, stmt.File)
	assert.Equal(t, savings, stmt.Account)
	require.Len(t, stmt.Batch.Transactions, 1)
	assert.Equal(t, coloniaID, stmt.Batch.Transactions[0].ID)
	assert.Equal(t, "BAC HNL 271\n", ident.seen[:12], "byte order mark stripped")
}

func TestRead_Ambiguous(t *testing.T) {
	file := writeStatement(t, "stmt.csv", "unknown bank\n")
	ident := &stubAccounts{err: &model.AmbiguousSourceError{Source: "stmt.csv"}}

	_, err := Read(file, ident, nil)
	var ae *model.AmbiguousSourceError
	assert.True(t, errors.As(err, &ae))
}

func TestRead_SchemaErrorNamesFile(t *testing.T) {
	file := writeStatement(t, "stmt.csv", "BAC HNL 271\ndate,description,amount\nnot-a-date,X,1\n")

	_, err := Read(file, &stubAccounts{acct: savings}, nil)
	var se *model.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "stmt.csv")
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(FileInfo{Name: "x.csv", Path: filepath.Join(t.TempDir(), "x.csv")}, &stubAccounts{}, nil)
	assert.ErrorContains(t, err, "reading x.csv")
}
