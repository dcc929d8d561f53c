package namegen

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
)

const (
	// DefaultMinLength is the shortest name Generate returns by default.
	DefaultMinLength = 3
	// DefaultMaxLength is the longest name Generate returns by default.
	DefaultMaxLength = 9
	// DefaultResetCap is how many times a single name may restart from a fresh seed
	// before generation falls back to unigram and then uniform selection.
	DefaultResetCap = 50
)

var (
	// ErrInvalidLengthRange is returned by NewGenerator for an empty or non-positive length range.
	ErrInvalidLengthRange = errors.New("invalid name length range")
	// ErrInvalidResetCap is returned by NewGenerator for a negative reset cap.
	ErrInvalidResetCap = errors.New("invalid reset cap")
)

// Source is the random source a Generator draws from. IntN returns a uniformly
// distributed integer in [0, n) and is only called with n > 0.
// A *rand.Rand from math/rand/v2 satisfies Source.
type Source interface {
	IntN(n int) int
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(n int) int

// IntN calls f(n).
func (f SourceFunc) IntN(n int) int {
	return f(n)
}

// globalSource draws from the math/rand/v2 top-level functions, which are safe
// for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// Option configures a Generator. Options are passed to NewGenerator.
type Option func(*Generator)

// WithSource sets the random source used for every draw. Generation is a pure
// function of the table and the sequence of values the source returns.
// The Generator is only as concurrency-safe as the source given here.
func WithSource(src Source) Option {
	return func(g *Generator) { g.src = src }
}

// WithResetCap sets how many restarts a single name may perform. A cap of 0
// disables restarts and goes straight to the fallbacks.
func WithResetCap(n int) Option {
	return func(g *Generator) { g.resetCap = n }
}

// WithLengthRange sets the inclusive range the target length is drawn from.
func WithLengthRange(minLength, maxLength int) Option {
	return func(g *Generator) {
		g.minLength = minLength
		g.maxLength = maxLength
	}
}

// Generator produces names from transition tables. It holds no state between
// calls besides its configuration, random source and logger.
type Generator struct {
	src       Source
	resetCap  int
	minLength int
	maxLength int
	logger    *slog.Logger
}

// NewGenerator creates a Generator with the defaults (names of 3 to 9 letters,
// 50 resets, the math/rand/v2 global source) overridden by opts.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		src:       globalSource{},
		resetCap:  DefaultResetCap,
		minLength: DefaultMinLength,
		maxLength: DefaultMaxLength,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.minLength < 1 || g.maxLength < g.minLength {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidLengthRange, g.minLength, g.maxLength)
	}
	if g.resetCap < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResetCap, g.resetCap)
	}
	if g.src == nil {
		g.src = globalSource{}
	}
	return g, nil
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// LengthRange returns the inclusive range of name lengths the Generator produces.
func (g *Generator) LengthRange() (int, int) {
	return g.minLength, g.maxLength
}
