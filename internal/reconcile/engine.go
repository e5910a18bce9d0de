// Package reconcile merges a batch of normalized statement transactions into
// the ledger.
//
// Reconciliation runs in two phases. Phase A repairs description drift: a
// ledger row with the same date, amount and account as a candidate but a
// different, sufficiently similar description takes the candidate's
// description (and therefore its ID). Phase B admits candidates whose ID is
// not yet in the ledger and discards the rest.
package reconcile

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/similarity"
)

// Correction records one ledger row whose description was rewritten.
type Correction struct {
	Row            int // position in the ledger
	OldDescription string
	NewDescription string
	OldID          string
	NewID          string
	Score          float64
}

// Ambiguity records a candidate that was similar to more than one row.
type Ambiguity struct {
	CandidateID string
	Description string
	Matches     int
}

// Result is the outcome of reconciling one batch.
type Result struct {
	Source      string
	Ledger      *ledger.Ledger
	Corrections []Correction
	Admitted    []model.Transaction
	Discarded   []model.Transaction
	Ambiguous   []Ambiguity
}

// Engine reconciles batches against a ledger.
type Engine struct {
	opts Options
	log  zerolog.Logger
}

// NewEngine creates an Engine. Zero-valued options take their defaults.
func NewEngine(opts Options, log zerolog.Logger) (*Engine, error) {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if len(opts.KeyFields) == 0 {
		opts.KeyFields = id.DefaultKeyFields()
	}
	if opts.Policy == "" {
		opts.Policy = PolicyBest
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts, log: log}, nil
}

// Options returns the engine's effective options.
func (e *Engine) Options() Options { return e.opts }

// matchKey groups rows that can describe the same event.
type matchKey struct {
	date    string
	amount  string
	account string
}

func keyOf(txn model.Transaction) matchKey {
	return matchKey{
		date:    txn.Date.Format(id.DateFormat),
		amount:  txn.Amount.StringFixed(2),
		account: txn.AccountName,
	}
}

type scored struct {
	row   int
	score float64
}

// Reconcile merges batch into l and returns the updated ledger with a report.
// l itself is never modified; on error no result is returned.
func (e *Engine) Reconcile(l *ledger.Ledger, batch model.Batch) (*Result, error) {
	candidates := make([]model.Transaction, len(batch.Transactions))
	for i, txn := range batch.Transactions {
		c, err := id.Rehash(txn, e.opts.KeyFields)
		if err != nil {
			return nil, fmt.Errorf("%s: candidate %d: %w", batch.Source, i+1, err)
		}
		candidates[i] = c
	}

	work := l.Clone()
	res := &Result{Source: batch.Source}

	// Phase A matches against the ledger as it stood before any correction.
	byKey := make(map[matchKey][]int)
	for i := 0; i < l.Len(); i++ {
		k := keyOf(l.At(i))
		byKey[k] = append(byKey[k], i)
	}

	for _, c := range candidates {
		// A candidate already represented in the ledger corrects nothing.
		if work.Contains(c.ID) {
			continue
		}
		survivors := e.similarRows(l, byKey[keyOf(c)], c)
		if len(survivors) == 0 {
			continue
		}
		if len(survivors) > 1 {
			res.Ambiguous = append(res.Ambiguous, Ambiguity{CandidateID: c.ID, Description: c.Description, Matches: len(survivors)})
			e.log.Warn().
				Str("source", batch.Source).
				Str("candidate", id.Short(c.ID)).
				Str("description", c.Description).
				Int("matches", len(survivors)).
				Str("policy", string(e.opts.Policy)).
				Msg("ambiguous description correction")
		}

		if e.opts.Policy == PolicyBest {
			survivors = survivors[:1]
		}

		for _, s := range survivors {
			corr, changed, err := e.correct(work, s, c.Description)
			if err != nil {
				return nil, fmt.Errorf("%s: correcting row %d: %w", batch.Source, s.row+1, err)
			}
			if changed {
				res.Corrections = append(res.Corrections, corr)
			}
		}
	}

	// Phase B: anti-join on the IDs present after correction.
	ids := work.IDs()
	for _, c := range candidates {
		if _, ok := ids[c.ID]; ok {
			res.Discarded = append(res.Discarded, c)
			continue
		}
		res.Admitted = append(res.Admitted, c)
		work.Append(c)
	}

	res.Ledger = work
	e.log.Debug().
		Str("source", batch.Source).
		Int("candidates", len(candidates)).
		Int("corrected", len(res.Corrections)).
		Int("admitted", len(res.Admitted)).
		Int("discarded", len(res.Discarded)).
		Msg("batch reconciled")
	return res, nil
}

// similarRows scores rows against c and returns those at or above the
// threshold, most similar first. Ties keep ledger order.
func (e *Engine) similarRows(l *ledger.Ledger, rows []int, c model.Transaction) []scored {
	var out []scored
	for _, i := range rows {
		r := l.At(i)
		if r.Description == c.Description {
			continue
		}
		score := similarity.Ratio(r.Description, c.Description)
		if score < e.opts.Threshold {
			continue
		}
		pos := len(out)
		for pos > 0 && out[pos-1].score < score {
			pos--
		}
		out = append(out, scored{})
		copy(out[pos+1:], out[pos:])
		out[pos] = scored{row: i, score: score}
	}
	return out
}

// correct rewrites the description of one row in work and recomputes its ID.
func (e *Engine) correct(work *ledger.Ledger, s scored, description string) (Correction, bool, error) {
	old := work.At(s.row)
	if old.Description == description {
		return Correction{}, false, nil
	}
	updated := old
	updated.Description = description
	updated, err := id.Rehash(updated, e.opts.KeyFields)
	if err != nil {
		return Correction{}, false, err
	}
	if err := work.Replace(s.row, updated); err != nil {
		return Correction{}, false, err
	}
	return Correction{
		Row:            s.row,
		OldDescription: old.Description,
		NewDescription: description,
		OldID:          old.ID,
		NewID:          updated.ID,
		Score:          s.score,
	}, true, nil
}
