package namegen

import (
	"testing"

	"github.com/CTAG07/namechain/pkg/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidName(t *testing.T, name string, minLength, maxLength int) {
	t.Helper()
	assert.GreaterOrEqual(t, len(name), minLength, "name %q too short", name)
	assert.LessOrEqual(t, len(name), maxLength, "name %q too long", name)
	for i := 0; i < len(name); i++ {
		assert.GreaterOrEqual(t, chain.Index(name[i]), 0, "name %q has non-letter byte %q", name, name[i])
	}
}

func TestGenerate_ValidNames(t *testing.T) {
	tables := map[string]chain.Table{
		"Trained": tableFromNames(sampleNames),
		"Empty":   {},
		"Sparse":  {"q": chain.Vector{20: 1}},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			g := setupGenerator(t, 42)
			for i := 0; i < 500; i++ {
				assertValidName(t, g.Generate(table), DefaultMinLength, DefaultMaxLength)
			}
		})
	}
}

func TestGenerate_AllLengthsReachable(t *testing.T) {
	g := setupGenerator(t, 3)
	table := tableFromNames(sampleNames)

	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		seen[len(g.Generate(table))] = true
	}
	for l := DefaultMinLength; l <= DefaultMaxLength; l++ {
		assert.True(t, seen[l], "length %d never generated", l)
	}
}

func TestGenerate_DeterministicUnderSeed(t *testing.T) {
	table := tableFromNames(sampleNames)

	first := setupGenerator(t, 1234).Batch(table, 50)
	second := setupGenerator(t, 1234).Batch(table, 50)
	assert.Equal(t, first, second)

	other := setupGenerator(t, 4321).Batch(table, 50)
	assert.NotEqual(t, first, other)
}

func TestGenerate_SingleLetterChain(t *testing.T) {
	// Only "a" is a key, so every longer name resets until the cap is spent and
	// then completes from the "a" row.
	table := chain.Table{"a": chain.Vector{0: 10}}
	g, err := NewGenerator(WithSource(scriptedSource(0, 1, 0)))
	require.NoError(t, err)

	name, trace := g.GenerateTrace(table)

	assert.Equal(t, "aaaa", name)
	assert.Equal(t, Trace{Target: 4, Resets: DefaultResetCap, UnigramFallbacks: 2}, trace)
}

func TestGenerate_UnigramFallback(t *testing.T) {
	table := chain.Table{"x": chain.Vector{1: 5}}
	g, err := NewGenerator(WithSource(scriptedSource(23, 6, 0)))
	require.NoError(t, err)

	name, trace := g.GenerateTrace(table)

	assert.Equal(t, "xbxbxbxbx", name)
	assert.Equal(t, Trace{Target: 9, Resets: DefaultResetCap, UnigramFallbacks: 3, UniformFallbacks: 4}, trace)
}

func TestGenerate_FallbackFollowsUnigramRow(t *testing.T) {
	table := chain.Table{"x": chain.Vector{1: 5}}
	g := setupGenerator(t, 99)

	for i := 0; i < 500; i++ {
		name := g.Generate(table)
		for j := 0; j+1 < len(name); j++ {
			if name[j] == 'x' {
				assert.Equal(t, byte('b'), name[j+1], "letter after 'x' in %q not drawn from the x row", name)
			}
		}
	}
}

func TestGenerate_UniformFallbackIsFlat(t *testing.T) {
	g := setupGenerator(t, 7)

	var counts [chain.AlphabetSize]int
	total := 0
	for i := 0; i < 3000; i++ {
		name, trace := g.GenerateTrace(chain.Table{})
		assertValidName(t, name, DefaultMinLength, DefaultMaxLength)
		require.Equal(t, DefaultResetCap, trace.Resets)
		require.Equal(t, len(name)-1, trace.UniformFallbacks)
		for j := 0; j < len(name); j++ {
			counts[chain.Index(name[j])]++
			total++
		}
	}

	expected := float64(total) / chain.AlphabetSize
	for i, c := range counts {
		assert.InDelta(t, expected, float64(c), expected*0.2, "letter %q drawn %d times, expected about %.0f", chain.Letter(i), c, expected)
	}
}

func TestGenerate_ZeroSumRowIsMissing(t *testing.T) {
	table := chain.Table{"a": chain.Vector{}}
	g, err := NewGenerator(WithSource(scriptedSource(0, 0, 0)), WithResetCap(0))
	require.NoError(t, err)

	name, trace := g.GenerateTrace(table)

	assert.Equal(t, "aaa", name)
	assert.Equal(t, 0, trace.UnigramFallbacks)
	assert.Equal(t, 2, trace.UniformFallbacks)
}

func TestGenerate_ResetKeepsTarget(t *testing.T) {
	draws := 0
	src := SourceFunc(func(n int) int {
		if n == DefaultMaxLength-DefaultMinLength+1 {
			draws++
			return 4
		}
		return 0
	})
	g, err := NewGenerator(WithSource(src))
	require.NoError(t, err)

	name, trace := g.GenerateTrace(chain.Table{})

	assert.Len(t, name, 7)
	assert.Equal(t, 7, trace.Target)
	assert.Equal(t, 1, draws, "target length must be drawn once per name")
}

func TestGenerate_LengthRange(t *testing.T) {
	g := setupGenerator(t, 5, WithLengthRange(5, 5))
	table := tableFromNames(sampleNames)
	for i := 0; i < 100; i++ {
		assert.Len(t, g.Generate(table), 5)
	}
}

func TestNewGenerator_InvalidOptions(t *testing.T) {
	testCases := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "Zero minimum", opts: []Option{WithLengthRange(0, 4)}, wantErr: ErrInvalidLengthRange},
		{name: "Inverted range", opts: []Option{WithLengthRange(6, 3)}, wantErr: ErrInvalidLengthRange},
		{name: "Negative reset cap", opts: []Option{WithResetCap(-1)}, wantErr: ErrInvalidResetCap},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGenerator(tc.opts...)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestChooseNextLetter(t *testing.T) {
	t.Run("Single non-zero weight always wins", func(t *testing.T) {
		for k := 0; k < chain.AlphabetSize; k++ {
			var weights chain.Vector
			weights[k] = 4
			for r := 0; r < 4; r++ {
				got := chooseNextLetter(SourceFunc(func(int) int { return r }), weights)
				assert.Equal(t, k, got)
			}
		}
	})

	t.Run("Inclusive upper bounds", func(t *testing.T) {
		weights := chain.Vector{0: 2, 25: 3}
		expected := []int{0, 0, 25, 25, 25}
		for r, want := range expected {
			got := chooseNextLetter(SourceFunc(func(n int) int {
				require.Equal(t, 5, n)
				return r
			}), weights)
			assert.Equal(t, want, got, "draw %d", r+1)
		}
	})

	t.Run("Out of range draw panics", func(t *testing.T) {
		assert.Panics(t, func() {
			chooseNextLetter(SourceFunc(func(n int) int { return n }), chain.Vector{3: 1})
		})
	})
}

func TestBatch(t *testing.T) {
	g := setupGenerator(t, 8)
	table := tableFromNames(sampleNames)

	assert.Len(t, g.Batch(table, 10), 10)
	assert.Empty(t, g.Batch(table, 0))
}

func BenchmarkGenerate(b *testing.B) {
	g, err := NewGenerator()
	if err != nil {
		b.Fatal(err)
	}
	tables := map[string]chain.Table{
		"Trained": tableFromNames(sampleNames),
		"Empty":   {},
	}

	for name, table := range tables {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = g.Generate(table)
			}
		})
	}
}
