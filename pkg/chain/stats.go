package chain

// Stats holds aggregated statistics for a single transition table.
type Stats struct {
	Keys        int `json:"keys"`         // The number of n-grams in the table
	MaxOrder    int `json:"max_order"`    // The length of the longest n-gram
	Unigrams    int `json:"unigrams"`     // The number of single-letter n-grams
	ZeroRows    int `json:"zero_rows"`    // Rows whose weights sum to zero; treated as missing when generating
	TotalWeight int `json:"total_weight"` // The sum of every weight in the table; the number of trained transitions
	Starters    int `json:"starters"`     // Letters with a usable unigram row
}

// ComputeStats returns a snapshot of statistics for t.
func ComputeStats(t Table) Stats {
	var stats Stats
	stats.Keys = len(t)
	for key, vec := range t {
		sum := vec.Sum()
		stats.TotalWeight += sum
		if sum == 0 {
			stats.ZeroRows++
		}
		if len(key) > stats.MaxOrder {
			stats.MaxOrder = len(key)
		}
		if len(key) == 1 {
			stats.Unigrams++
			if sum > 0 {
				stats.Starters++
			}
		}
	}
	return stats
}
