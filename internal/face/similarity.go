package face

// CosineSimilarity computes the similarity between two unit embeddings as
// their dot product clamped into [0,1]. Vectors of differing dimension
// score 0 rather than failing, so a configuration change degrades old
// comparisons instead of crashing live matching.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}

	// Clamp to [0,1] to absorb floating point drift; negative correlation
	// is reported as 0 (no similarity).
	if dot > 1 {
		dot = 1
	}
	if dot < 0 {
		dot = 0
	}
	return dot
}
