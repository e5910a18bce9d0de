package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAccount is returned when an account name is not in the registry.
var ErrUnknownAccount = errors.New("unknown account")

// SchemaError reports a missing or extra column, or a value that cannot be
// coerced to its declared type.
type SchemaError struct {
	Column string
	Row    int // 1-based data row, 0 when not row-specific
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("schema: row %d, column %s: %s", e.Row, e.Column, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("schema: column %s: %s", e.Column, e.Reason)
	default:
		return "schema: " + e.Reason
	}
}

// HashingError reports a key field that is absent when computing a digest.
type HashingError struct {
	Field string
}

func (e *HashingError) Error() string {
	return fmt.Sprintf("hashing: key field %s is absent", e.Field)
}

// AmbiguousSourceError reports a statement that matched zero or several accounts.
type AmbiguousSourceError struct {
	Source  string
	Matches []string
}

func (e *AmbiguousSourceError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("%s: no account matched", e.Source)
	}
	return fmt.Sprintf("%s: matched %d accounts (%s)", e.Source, len(e.Matches), strings.Join(e.Matches, ", "))
}

// IOError reports a ledger that cannot be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
