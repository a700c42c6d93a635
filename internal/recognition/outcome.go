// Package recognition orchestrates enrollment and recognition: face
// detection, embedding extraction, duplicate gating and matching
// against the enrolled set.
package recognition

import "github.com/google/uuid"

// State tracks an enrollment attempt through its lifecycle.
type State string

const (
	StateIdle          State = "idle"
	StateProcessing    State = "processing"
	StateSuccess       State = "success"
	StateError         State = "error"
	StateAlreadyExists State = "already_exists"
)

// Reason explains why an attempt did not produce a new enrollment or match.
type Reason string

const (
	ReasonNoFaceDetected      Reason = "no_face_detected"
	ReasonMultipleFaces       Reason = "multiple_faces_detected"
	ReasonDuplicateExternalID Reason = "duplicate_external_identifier"
	ReasonDuplicateFace       Reason = "duplicate_face"
	ReasonEmptyEnrolledSet    Reason = "empty_enrolled_set"
	ReasonBelowThreshold      Reason = "below_similarity_threshold"
)

// IdentitySummary identifies an enrolled identity without its embedding.
type IdentitySummary struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"externalId"`
	DisplayName string    `json:"displayName"`
}

// EnrollOutcome is the result of one enrollment attempt.
type EnrollOutcome struct {
	State  State  `json:"state"`
	Reason Reason `json:"reason,omitempty"`

	// Identity is the newly enrolled identity on success, or the
	// conflicting identity when State is StateAlreadyExists.
	Identity *IdentitySummary `json:"identity,omitempty"`

	// Score is the similarity to the conflicting identity when the
	// attempt was rejected as a duplicate face.
	Score float64 `json:"score,omitempty"`
}

// MatchResult is the result of one recognition query.
type MatchResult struct {
	Matched bool   `json:"matched"`
	Reason  Reason `json:"reason,omitempty"`

	Identity *IdentitySummary `json:"identity,omitempty"`
	Score    float64          `json:"score,omitempty"`
}
