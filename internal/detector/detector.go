// Package detector talks to an external landmark detection service.
// The service receives a photo and answers with the faces it found,
// each described by a bounding box, named landmarks, head rotation
// angles and expression probabilities.
package detector

import (
	"context"

	"github.com/CORREAK18/Biometrico-App/internal/face"
)

// Detector finds faces in an image. Implementations must be safe to
// call from a single goroutine at a time; callers serialize access.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]face.Observation, error)
}
