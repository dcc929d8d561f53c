package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	table := Table{
		"a":   Vector{1: 2, 13: 3},
		"b":   Vector{},
		"an":  Vector{13: 4},
		"ann": Vector{0: 1},
	}

	stats := ComputeStats(table)

	assert.Equal(t, Stats{
		Keys:        4,
		MaxOrder:    3,
		Unigrams:    2,
		ZeroRows:    1,
		TotalWeight: 10,
		Starters:    1,
	}, stats)
}

func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(Table{}))
}
