// Package store defines enrollment record storage. Backends live in
// the postgres, mysql and mock subpackages.
package store

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentRecord is one enrolled identity with its face embedding.
type EnrollmentRecord struct {
	ID             uuid.UUID
	ExternalID     string // caller-supplied identifier, unique across the enrolled set
	DisplayName    string
	Embedding      []float32 // unit-length geometric embedding
	ProfileVersion int       // matching profile the embedding was produced under
	Photo          []byte    // re-encoded JPEG of the enrollment photo, optional
	CreatedAt      time.Time
}
