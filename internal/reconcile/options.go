package reconcile

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/tally/internal/id"
)

// DefaultThreshold is the minimum similarity for a description correction.
const DefaultThreshold = 0.80

// Policy decides which rows a candidate corrects when several are similar.
type Policy string

const (
	// PolicyBest corrects only the most similar row, and nothing at all when
	// the candidate is already in the ledger.
	PolicyBest Policy = "best"
	// PolicyAll corrects every row at or above the threshold.
	PolicyAll Policy = "all"
)

// ParsePolicy validates a configured policy name. Empty means PolicyBest.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyBest, nil
	case PolicyBest, PolicyAll:
		return p, nil
	default:
		return "", fmt.Errorf("unknown correction policy %q (want %q or %q)", s, PolicyBest, PolicyAll)
	}
}

// Options parameterise an Engine.
type Options struct {
	Threshold float64
	KeyFields []id.KeyField
	Policy    Policy
}

// DefaultOptions returns the standard reconciliation parameters.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		KeyFields: id.DefaultKeyFields(),
		Policy:    PolicyBest,
	}
}

func (o Options) validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("threshold %v out of range [0,1]", o.Threshold)
	}
	if _, err := ParsePolicy(string(o.Policy)); err != nil {
		return err
	}
	return nil
}
