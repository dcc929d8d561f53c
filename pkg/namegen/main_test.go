package namegen

import (
	"math/rand/v2"
	"testing"

	"github.com/CTAG07/namechain/pkg/chain"
	"github.com/stretchr/testify/require"
)

// sampleNames is a small corpus used to build a realistic table for tests.
var sampleNames = []string{
	"olivia", "emma", "charlotte", "amelia", "sophia", "mia", "isabella", "ava",
	"liam", "noah", "oliver", "james", "elijah", "mateo", "theodore", "henry",
	"luna", "evelyn", "harper", "lucas", "levi", "ezra", "aurora", "hazel",
}

// tableFromNames counts every n-gram -> next letter transition in names, for
// every n-gram length from 1 up to the length of the name minus one.
func tableFromNames(names []string) chain.Table {
	table := make(chain.Table)
	for _, name := range names {
		for order := 1; order < len(name); order++ {
			for start := 0; start+order < len(name); start++ {
				key := name[start : start+order]
				vec := table[key]
				vec[chain.Index(name[start+order])]++
				table[key] = vec
			}
		}
	}
	return table
}

// setupGenerator creates a Generator seeded with a deterministic PCG source.
func setupGenerator(t *testing.T, seed uint64, opts ...Option) *Generator {
	t.Helper()
	opts = append([]Option{WithSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))}, opts...)
	g, err := NewGenerator(opts...)
	require.NoError(t, err)
	return g
}

// scriptedSource answers each draw by the size of the range it is asked for,
// which is enough to pin the seed letter, the target length and weighted picks.
func scriptedSource(letter, lengthDraw, weighted int) SourceFunc {
	return func(n int) int {
		switch n {
		case chain.AlphabetSize:
			return letter
		case DefaultMaxLength - DefaultMinLength + 1:
			return lengthDraw
		default:
			return weighted
		}
	}
}
