package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

const (
	// AlphabetSize is the number of letters a Vector holds a weight for.
	AlphabetSize = 26
	// asciiOffset is the byte value of 'a'. All keys and names are lowercase.
	asciiOffset = 'a'
)

// ErrMalformedTable is wrapped by every validation error returned from this package.
var ErrMalformedTable = errors.New("malformed transition table")

// Vector is a Likelihood Vector: the unnormalized weight of each letter following
// an n-gram, indexed by alphabet position (a=0 ... z=25).
type Vector [AlphabetSize]int

// Sum returns the total weight of the vector.
func (v Vector) Sum() int {
	total := 0
	for _, w := range v {
		total += w
	}
	return total
}

// Table maps n-gram keys to the Vector of letters observed after them.
// A Table is read-only once loaded and safe for concurrent reads.
type Table map[string]Vector

// Lookup returns the vector for key. The second result is false when the key is
// absent or its vector has no positive weight, since neither can be sampled from.
func (t Table) Lookup(key string) (Vector, bool) {
	v, ok := t[key]
	if !ok || v.Sum() <= 0 {
		return Vector{}, false
	}
	return v, true
}

// Keys returns the table's keys in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every key is a non-empty run of lowercase ASCII letters and
// that no weight is negative.
func (t Table) Validate() error {
	for key, vec := range t {
		if err := validateKey(key); err != nil {
			return err
		}
		for i, w := range vec {
			if w < 0 {
				return fmt.Errorf("%w: key %q has negative weight %d for letter %q", ErrMalformedTable, key, w, Letter(i))
			}
		}
	}
	return nil
}

// ParseTable decodes a table from its JSON object form, where each key is an n-gram
// and each value an array of exactly 26 non-negative integers. The decoded table is
// validated before it is returned.
func ParseTable(r io.Reader) (Table, error) {
	var raw map[string][]int
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode json: %v", ErrMalformedTable, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document is not a json object", ErrMalformedTable)
	}

	table := make(Table, len(raw))
	for key, weights := range raw {
		if len(weights) != AlphabetSize {
			return nil, fmt.Errorf("%w: key %q has %d weights, want %d", ErrMalformedTable, key, len(weights), AlphabetSize)
		}
		var vec Vector
		copy(vec[:], weights)
		table[key] = vec
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// WriteJSON encodes the table in the same JSON form ParseTable reads.
func (t Table) WriteJSON(w io.Writer) error {
	raw := make(map[string][]int, len(t))
	for key, vec := range t {
		weights := make([]int, AlphabetSize)
		copy(weights, vec[:])
		raw[key] = weights
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(raw)
}

// Letter returns the lowercase letter at alphabet index i.
func Letter(i int) byte {
	return byte(i) + asciiOffset
}

// Index returns the alphabet index of a lowercase letter, or -1 if c is not one.
func Index(c byte) int {
	if c < 'a' || c > 'z' {
		return -1
	}
	return int(c - asciiOffset)
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrMalformedTable)
	}
	for i := 0; i < len(key); i++ {
		if Index(key[i]) < 0 {
			return fmt.Errorf("%w: key %q contains non-letter byte %q", ErrMalformedTable, key, key[i])
		}
	}
	return nil
}
