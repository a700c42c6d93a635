package store

import (
	"context"

	"github.com/google/uuid"
)

// EnrollmentReader provides read-only access to enrolled identities.
type EnrollmentReader interface {
	// Get retrieves a record by ID, returns nil if not found
	Get(ctx context.Context, id uuid.UUID) (*EnrollmentRecord, error)
	// FindByExternalID retrieves a record by its external identifier, returns nil if not found
	FindByExternalID(ctx context.Context, externalID string) (*EnrollmentRecord, error)
	// All returns every enrolled record including embeddings
	All(ctx context.Context) ([]EnrollmentRecord, error)
	// Count returns the total number of enrolled identities
	Count(ctx context.Context) (int, error)
	// SearchByDisplayName returns records whose display name matches after
	// normalization (lowercase, no diacritics, dashes to spaces)
	SearchByDisplayName(ctx context.Context, name string) ([]EnrollmentRecord, error)
}

// EnrollmentWriter provides write access to enrolled identities.
type EnrollmentWriter interface {
	EnrollmentReader

	// Insert stores a new record. The caller is responsible for external ID
	// uniqueness checks; backends do not enforce them.
	Insert(ctx context.Context, record *EnrollmentRecord) error

	// DeleteByID removes a record. Returns false if no record existed.
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
}
