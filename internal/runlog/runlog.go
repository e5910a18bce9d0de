// Package runlog keeps an append-only CSV audit of what each import run did
// to the ledger.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/reconcile"
)

// Actions recorded in the run log.
const (
	ActionCorrected = "corrected"
	ActionAdmitted  = "admitted"
	ActionAmbiguous = "ambiguous"
	ActionSkipped   = "skipped"
	ActionFailed    = "failed"
)

// DefaultPath is the run log location relative to the repository root.
const DefaultPath = "logs/reconcile-log.csv"

// Entry is one row in the run log.
type Entry struct {
	Timestamp     time.Time
	RunID         string
	Source        string
	Action        string
	TransactionID string
	Details       string
}

// Header is the CSV header for reconcile-log.csv.
const Header = "timestamp,run_id,source,action,transaction_id,details"

const (
	numFields  = 6
	colTime    = 0
	colRunID   = 1
	colSource  = 2
	colAction  = 3
	colTxnID   = 4
	colDetails = 5
)

// NewRunID returns a fresh identifier for one invocation of tally import.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSource] = e.Source
	row[colAction] = e.Action
	row[colTxnID] = e.TransactionID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	if _, err := uuid.Parse(record[colRunID]); err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}

	return Entry{
		Timestamp:     ts,
		RunID:         record[colRunID],
		Source:        record[colSource],
		Action:        record[colAction],
		TransactionID: record[colTxnID],
		Details:       record[colDetails],
	}, nil
}

// FromResult turns a reconciliation result into log entries: one per
// correction, admission and ambiguous candidate. Discarded duplicates are
// not logged.
func FromResult(runID string, at time.Time, res *reconcile.Result) []Entry {
	var entries []Entry
	for _, c := range res.Corrections {
		entries = append(entries, Entry{
			Timestamp:     at,
			RunID:         runID,
			Source:        res.Source,
			Action:        ActionCorrected,
			TransactionID: c.NewID,
			Details:       fmt.Sprintf("%q -> %q (score %.3f, was %s)", c.OldDescription, c.NewDescription, c.Score, c.OldID),
		})
	}
	for _, a := range res.Ambiguous {
		entries = append(entries, Entry{
			Timestamp:     at,
			RunID:         runID,
			Source:        res.Source,
			Action:        ActionAmbiguous,
			TransactionID: a.CandidateID,
			Details:       fmt.Sprintf("%q similar to %d rows", a.Description, a.Matches),
		})
	}
	for _, txn := range res.Admitted {
		entries = append(entries, Entry{
			Timestamp:     at,
			RunID:         runID,
			Source:        res.Source,
			Action:        ActionAdmitted,
			TransactionID: txn.ID,
			Details:       fmt.Sprintf("%s %s %s", txn.Date.Format(id.DateFormat), txn.Description, txn.Amount.StringFixed(2)),
		})
	}
	return entries
}

// Append writes entries to the run log at path, creating the file and header
// if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the run log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
