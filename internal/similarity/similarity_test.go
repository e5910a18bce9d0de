package similarity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "SUPERMERCADO LA COLONIA", "SUPERMERCADO LA COLONIA", 1},
		{"both empty", "", "", 1},
		{"one empty", "", "abc", 0},
		{"disjoint", "abc", "xyz", 0},
		{"shifted", "abcd", "bcde", 0.75},
		{"suffix drift", "AMAZON MKTPLACE PMTS", "AMAZON MKTPLACE PMTS 1234", 16.0 / 18.0},
		{"store number", "SUPERMERCADO LA COLONIA", "SUPERMERCADO LA COLONIA 0042", 46.0 / 51.0},
		{"extra spaces", "UBER   TRIP", "UBER TRIP", 0.9},
		{"marketplace", "Amazon.com", "Amazon.com Marketplace", 0.625},
		{"abbreviated", "Amazon.com", "Amzn Mktp US", 8.0 / 22.0},
		{"accent", "café", "cafe", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"abcd", "bcde"},
		{"AMAZON MKTPLACE PMTS", "AMAZON MKTPLACE PMTS 1234"},
		{"Amazon.com", "Amzn Mktp US"},
		{"café", "cafe"},
	}
	for _, p := range pairs {
		assert.InDelta(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), 1e-9, "%q vs %q", p[0], p[1])
	}
}

func TestRatio_LongStrings(t *testing.T) {
	// Frequent characters are dropped from the index on long inputs but
	// identical runs still match through block extension.
	long := strings.Repeat("a", 250)
	assert.InDelta(t, 1.0, Ratio(long, long), 1e-9)

	// With every character junked and no shared first character nothing matches.
	assert.InDelta(t, 0.0, Ratio(strings.Repeat("ab", 150), strings.Repeat("ba", 150)), 1e-9)
}

func TestRatio_Bounds(t *testing.T) {
	inputs := []string{"", "a", "POS 1234 SUPER", "Transferencia ACH", "ÑANDÚ", strings.Repeat("xy ", 90)}
	for _, a := range inputs {
		for _, b := range inputs {
			r := Ratio(a, b)
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 1.0)
		}
	}
}
