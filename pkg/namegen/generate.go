package namegen

import (
	"fmt"
	"log/slog"

	"github.com/CTAG07/namechain/pkg/chain"
)

// Trace records how a single name was built.
type Trace struct {
	Target           int `json:"target"`            // The length drawn at the start of generation
	Resets           int `json:"resets"`            // Restarts from a fresh seed letter
	UnigramFallbacks int `json:"unigram_fallbacks"` // Letters sampled from the last character's row after the reset cap
	UniformFallbacks int `json:"uniform_fallbacks"` // Letters drawn uniformly because no row could be used
}

// Generate builds one name from table. It always terminates and always returns a
// lowercase name whose length lies in the Generator's length range.
//
// The whole name built so far is the lookup key, so the chain grows from a
// unigram to full context as the name gets longer. When that key has no usable
// row the name is discarded and restarted from a new random letter, keeping the
// same target length. Once the reset cap is spent, the row of the last letter is
// used instead, and if that is missing too a letter is drawn uniformly.
func (g *Generator) Generate(table chain.Table) string {
	name, _ := g.GenerateTrace(table)
	return name
}

// GenerateTrace is Generate, additionally reporting how the name was built.
func (g *Generator) GenerateTrace(table chain.Table) (string, Trace) {
	var trace Trace

	name := make([]byte, 0, g.maxLength)
	name = append(name, g.randomLetter())
	trace.Target = g.minLength + g.src.IntN(g.maxLength-g.minLength+1)

	for len(name) < trace.Target {
		weights, ok := table.Lookup(string(name))
		if !ok {
			if trace.Resets < g.resetCap {
				trace.Resets++
				name = append(name[:0], g.randomLetter())
				continue
			}

			weights, ok = table.Lookup(string(name[len(name)-1:]))
			if !ok {
				trace.UniformFallbacks++
				name = append(name, g.randomLetter())
				continue
			}
			trace.UnigramFallbacks++
		}

		name = append(name, chain.Letter(chooseNextLetter(g.src, weights)))
	}

	if trace.UnigramFallbacks > 0 || trace.UniformFallbacks > 0 {
		g.logger.Debug("Reset cap reached, name completed with fallbacks",
			slog.String("name", string(name)),
			slog.Int("resets", trace.Resets),
			slog.Int("unigram_fallbacks", trace.UnigramFallbacks),
			slog.Int("uniform_fallbacks", trace.UniformFallbacks),
		)
	}

	return string(name), trace
}

// Batch generates n names from table, one after another.
func (g *Generator) Batch(table chain.Table, n int) []string {
	if n <= 0 {
		return []string{}
	}
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, g.Generate(table))
	}
	return names
}

func (g *Generator) randomLetter() byte {
	return chain.Letter(g.src.IntN(chain.AlphabetSize))
}

// chooseNextLetter draws r uniformly from [1, total] and returns the smallest
// index whose cumulative weight is at least r. weights must have a positive sum.
func chooseNextLetter(src Source, weights chain.Vector) int {
	var cumulative chain.Vector
	total := 0
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}

	r := src.IntN(total) + 1
	for i, c := range cumulative {
		if r <= c {
			return i
		}
	}
	panic(fmt.Sprintf("namegen: draw %d exceeds cumulative weight %d", r, total))
}
