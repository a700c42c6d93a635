package face

// Candidate pairs an identity with its stored embedding for matching.
type Candidate struct {
	ID        string
	Embedding []float32
}

// Match is the outcome of a BestMatch scan.
type Match struct {
	ID    string
	Score float64
}

// BestMatch scans candidates in order and returns the one with the highest
// similarity to query, or nil when no candidate strictly exceeds the
// threshold. Seeding the best score at the threshold makes a candidate
// scoring exactly at the threshold ineligible, and the strict-improvement
// update means ties go to the earliest candidate. O(N*D), linear scan;
// enrollment sets are expected to stay small.
func BestMatch(query []float32, candidates []Candidate, threshold float64) *Match {
	best := threshold
	var match *Match

	for _, c := range candidates {
		score := CosineSimilarity(query, c.Embedding)
		if score > best {
			best = score
			match = &Match{ID: c.ID, Score: score}
		}
	}
	return match
}
