package face

import "math"

// Normalize scales v to unit Euclidean length in place and returns it.
// The zero vector has no direction and is returned unchanged, never
// divided by zero.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
