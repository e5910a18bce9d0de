// Package ledger holds the persistent transaction ledger: an ordered set of
// rows indexed by identity digest, plus its tabular form and CSV storage.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Ledger is an ordered collection of transactions indexed by ID. Rows are
// appended or replaced in place, never removed.
type Ledger struct {
	rows  []model.Transaction
	index map[string][]int
	stale int
}

// New creates a ledger holding rows in the given order.
func New(rows ...model.Transaction) *Ledger {
	l := &Ledger{index: make(map[string][]int, len(rows))}
	for _, r := range rows {
		l.Append(r)
	}
	return l
}

// Len returns the number of rows.
func (l *Ledger) Len() int { return len(l.rows) }

// At returns the row at position i.
func (l *Ledger) At(i int) model.Transaction { return l.rows[i] }

// Rows returns a copy of all rows in ledger order.
func (l *Ledger) Rows() []model.Transaction {
	out := make([]model.Transaction, len(l.rows))
	copy(out, l.rows)
	return out
}

// Contains reports whether some row carries the given ID.
func (l *Ledger) Contains(id string) bool {
	return len(l.index[id]) > 0
}

// positions returns the row positions carrying id, in ledger order.
func (l *Ledger) positions(id string) []int {
	p := l.index[id]
	out := make([]int, len(p))
	copy(out, p)
	return out
}

// IDs returns the set of IDs present right now.
func (l *Ledger) IDs() map[string]struct{} {
	set := make(map[string]struct{}, len(l.index))
	for id := range l.index {
		set[id] = struct{}{}
	}
	return set
}

// Stale returns how many stored IDs disagreed with their key fields when the
// ledger was assembled and were replaced.
func (l *Ledger) Stale() int { return l.stale }

// Append adds txn at the end of the ledger.
func (l *Ledger) Append(txn model.Transaction) {
	l.index[txn.ID] = append(l.index[txn.ID], len(l.rows))
	l.rows = append(l.rows, txn)
}

// Replace swaps the row at position i for txn and re-indexes it.
func (l *Ledger) Replace(i int, txn model.Transaction) error {
	if i < 0 || i >= len(l.rows) {
		return fmt.Errorf("replace row %d: out of range [0,%d)", i, len(l.rows))
	}
	old := l.rows[i].ID
	if old != txn.ID {
		l.unindex(old, i)
		l.index[txn.ID] = insertSorted(l.index[txn.ID], i)
	}
	l.rows[i] = txn
	return nil
}

func (l *Ledger) unindex(id string, i int) {
	pos := l.index[id]
	for k, p := range pos {
		if p == i {
			pos = append(pos[:k], pos[k+1:]...)
			break
		}
	}
	if len(pos) == 0 {
		delete(l.index, id)
		return
	}
	l.index[id] = pos
}

func insertSorted(pos []int, i int) []int {
	k := sort.SearchInts(pos, i)
	pos = append(pos, 0)
	copy(pos[k+1:], pos[k:])
	pos[k] = i
	return pos
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := New(l.rows...)
	c.stale = l.stale
	return c
}

// Sorted returns a copy ordered by date, then account name. Ties keep their
// relative order.
func (l *Ledger) Sorted() *Ledger {
	rows := l.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return strings.Compare(a.AccountName, b.AccountName) < 0
	})
	s := New(rows...)
	s.stale = l.stale
	return s
}
