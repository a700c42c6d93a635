package recognition

import "github.com/CORREAK18/Biometrico-App/internal/face"

// Embedder turns a face observation into a unit-length embedding.
type Embedder interface {
	Embed(obs *face.Observation) ([]float32, error)
}

// GeometricEmbedder is the production embedder: geometric feature
// extraction followed by L2 normalization.
type GeometricEmbedder struct{}

// Embed extracts and normalizes the embedding for one observation.
func (GeometricEmbedder) Embed(obs *face.Observation) ([]float32, error) {
	vec, err := face.Extract(obs)
	if err != nil {
		return nil, err
	}
	return face.Normalize(vec), nil
}

var _ Embedder = GeometricEmbedder{}
