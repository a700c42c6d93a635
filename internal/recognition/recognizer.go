package recognition

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CORREAK18/Biometrico-App/internal/config"
	"github.com/CORREAK18/Biometrico-App/internal/detector"
	"github.com/CORREAK18/Biometrico-App/internal/face"
	"github.com/CORREAK18/Biometrico-App/internal/imaging"
	"github.com/CORREAK18/Biometrico-App/internal/store"
)

// ErrInvalidRequest is returned when an enrollment request is missing
// required fields.
var ErrInvalidRequest = errors.New("recognition: external ID and display name are required")

// EnrollRequest describes one enrollment attempt.
type EnrollRequest struct {
	ExternalID  string
	DisplayName string
	Image       []byte
}

// Recognizer runs the enrollment and recognition pipelines against a
// detector and an enrollment store.
type Recognizer struct {
	detector detector.Detector
	embedder Embedder
	repo     store.EnrollmentWriter
	index    *store.IdentityIndex // optional, nil disables neighbor queries
	matching config.MatchingConfig

	// The detector processes one image at a time.
	detectMu sync.Mutex
}

// New creates a Recognizer. The index may be nil.
func New(det detector.Detector, emb Embedder, repo store.EnrollmentWriter, index *store.IdentityIndex, matching config.MatchingConfig) *Recognizer {
	return &Recognizer{
		detector: det,
		embedder: emb,
		repo:     repo,
		index:    index,
		matching: matching,
	}
}

// detectSingleFace runs detection and applies the exactly-one-face gate.
// The returned outcome is non-nil when the gate fails.
func (r *Recognizer) detectSingleFace(ctx context.Context, image []byte) (*face.Observation, Reason, error) {
	r.detectMu.Lock()
	observations, err := r.detector.Detect(ctx, image)
	r.detectMu.Unlock()
	if err != nil {
		return nil, "", fmt.Errorf("detect faces: %w", err)
	}

	switch len(observations) {
	case 0:
		return nil, ReasonNoFaceDetected, nil
	case 1:
		return &observations[0], "", nil
	default:
		return nil, ReasonMultipleFaces, nil
	}
}

// Enroll registers a new identity from a photo. The attempt walks
// through the gates in order: exactly one face, embedding extraction,
// external ID uniqueness, duplicate face check, persistence.
func (r *Recognizer) Enroll(ctx context.Context, req EnrollRequest) (*EnrollOutcome, error) {
	if req.ExternalID == "" || req.DisplayName == "" {
		return nil, ErrInvalidRequest
	}

	obs, reason, err := r.detectSingleFace(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		return &EnrollOutcome{State: StateError, Reason: reason}, nil
	}

	embedding, err := r.embedder.Embed(obs)
	if err != nil {
		return nil, fmt.Errorf("embed face: %w", err)
	}

	// The store does not enforce external ID uniqueness; checking here
	// lets the outcome carry the conflicting identity.
	existing, err := r.repo.FindByExternalID(ctx, req.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("check external ID: %w", err)
	}
	if existing != nil {
		return &EnrollOutcome{
			State:    StateAlreadyExists,
			Reason:   ReasonDuplicateExternalID,
			Identity: summarize(existing),
		}, nil
	}

	enrolled, err := r.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load enrolled set: %w", err)
	}

	if match := face.BestMatch(embedding, candidates(enrolled), r.matching.Thresholds.Duplicate); match != nil {
		dup := recordByID(enrolled, match.ID)
		return &EnrollOutcome{
			State:    StateAlreadyExists,
			Reason:   ReasonDuplicateFace,
			Identity: summarize(dup),
			Score:    match.Score,
		}, nil
	}

	// The stored photo is informational; a photo that cannot be
	// re-encoded does not block enrollment.
	photo, err := imaging.PrepareForStorage(req.Image)
	if err != nil {
		photo = nil
	}

	record := &store.EnrollmentRecord{
		ID:             uuid.New(),
		ExternalID:     req.ExternalID,
		DisplayName:    req.DisplayName,
		Embedding:      embedding,
		ProfileVersion: r.matching.Profile.Version,
		Photo:          photo,
		CreatedAt:      time.Now().UTC(),
	}

	if err := r.repo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	if r.index != nil {
		r.index.Add(record)
	}

	return &EnrollOutcome{State: StateSuccess, Identity: summarize(record)}, nil
}

// Recognize matches a photo against the enrolled set. The enrolled set
// is snapshotted once; identities enrolled mid-query are not
// considered.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (*MatchResult, error) {
	obs, reason, err := r.detectSingleFace(ctx, image)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		return &MatchResult{Matched: false, Reason: reason}, nil
	}

	embedding, err := r.embedder.Embed(obs)
	if err != nil {
		return nil, fmt.Errorf("embed face: %w", err)
	}

	enrolled, err := r.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load enrolled set: %w", err)
	}
	if len(enrolled) == 0 {
		return &MatchResult{Matched: false, Reason: ReasonEmptyEnrolledSet}, nil
	}

	match := face.BestMatch(embedding, candidates(enrolled), r.matching.Thresholds.Recognition)
	if match == nil {
		return &MatchResult{Matched: false, Reason: ReasonBelowThreshold}, nil
	}

	return &MatchResult{
		Matched:  true,
		Identity: summarize(recordByID(enrolled, match.ID)),
		Score:    match.Score,
	}, nil
}

// RemoveIdentity deletes an enrolled identity. Returns false if the
// identity did not exist.
func (r *Recognizer) RemoveIdentity(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := r.repo.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	if deleted && r.index != nil {
		r.index.Delete(id.String())
	}
	return deleted, nil
}

// SimilarIdentities returns the closest enrolled identities to the one
// given, using the approximate index. Returns nil when no index is
// configured.
func (r *Recognizer) SimilarIdentities(ctx context.Context, id uuid.UUID, limit int) ([]store.Neighbor, error) {
	if r.index == nil {
		return nil, nil
	}

	rec, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	// Request one extra so the identity itself can be dropped.
	neighbors := r.index.Nearest(rec.Embedding, limit+1)
	results := make([]store.Neighbor, 0, limit)
	for _, n := range neighbors {
		if n.Record.ID == rec.ID {
			continue
		}
		results = append(results, n)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func candidates(records []store.EnrollmentRecord) []face.Candidate {
	out := make([]face.Candidate, len(records))
	for i := range records {
		out[i] = face.Candidate{
			ID:        records[i].ID.String(),
			Embedding: records[i].Embedding,
		}
	}
	return out
}

func recordByID(records []store.EnrollmentRecord, id string) *store.EnrollmentRecord {
	for i := range records {
		if records[i].ID.String() == id {
			return &records[i]
		}
	}
	return nil
}

func summarize(rec *store.EnrollmentRecord) *IdentitySummary {
	if rec == nil {
		return nil
	}
	return &IdentitySummary{
		ID:          rec.ID,
		ExternalID:  rec.ExternalID,
		DisplayName: rec.DisplayName,
	}
}
