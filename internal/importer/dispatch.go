package importer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// Identifier attributes statement content to an account.
type Identifier interface {
	Identify(source, content string) (model.Account, error)
}

// Statement is a statement file attributed to its account and normalized.
type Statement struct {
	File    FileInfo
	Account model.Account
	Batch   model.Batch
}

// Read loads a statement file, identifies its account and normalizes it.
// An *model.AmbiguousSourceError means the file could not be attributed.
func Read(file FileInfo, accounts Identifier, fields []id.KeyField) (Statement, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return Statement{}, fmt.Errorf("reading %s: %w", file.Name, err)
	}
	data = stripBOM(data)

	acct, err := accounts.Identify(file.Name, string(data))
	if err != nil {
		return Statement{}, err
	}

	batch, err := Normalize(file.Name, bytes.NewReader(data), acct, fields)
	if err != nil {
		return Statement{}, fmt.Errorf("%s: %w", file.Name, err)
	}
	return Statement{File: file, Account: acct, Batch: batch}, nil
}
