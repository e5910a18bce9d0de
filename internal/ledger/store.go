package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// DefaultPath is the ledger location relative to the repository root.
const DefaultPath = "ledger/transactions.csv"

// Store loads and persists a ledger as a flat CSV file.
type Store struct {
	path   string
	fields []id.KeyField
}

// NewStore creates a Store for the CSV file at path. IDs are computed from
// fields, or the default key fields when fields is empty.
func NewStore(path string, fields []id.KeyField) *Store {
	return &Store{path: path, fields: fields}
}

// Path returns the ledger file location.
func (s *Store) Path() string { return s.path }

// Load reads and assembles the ledger. A missing file is an empty ledger.
func (s *Store) Load() (*Ledger, error) {
	t, err := s.ReadTable()
	if err != nil {
		return nil, err
	}
	l, err := Assemble(t, s.fields...)
	if err != nil {
		return nil, fmt.Errorf("ledger %s: %w", s.path, err)
	}
	return l, nil
}

// ReadTable reads the raw table without assembling it. A missing file yields
// an empty table with the canonical header.
func (s *Store) ReadTable() (Table, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Table{Header: append([]string(nil), Columns...)}, nil
	}
	if err != nil {
		return Table{}, &model.IOError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return Table{}, &model.IOError{Op: "read", Path: s.path, Err: err}
	}
	return t, nil
}

// Save writes the ledger in display order. The file is replaced atomically
// through a temporary file in the same directory.
func (s *Store) Save(l *Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &model.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".transactions-*.csv")
	if err != nil {
		return &model.IOError{Op: "create", Path: s.path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := WriteTable(tmp, l.Sorted().Table()); err != nil {
		tmp.Close()
		return &model.IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &model.IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &model.IOError{Op: "chmod", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &model.IOError{Op: "rename", Path: s.path, Err: err}
	}
	return nil
}
