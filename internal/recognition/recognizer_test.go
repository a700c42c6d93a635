package recognition

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/CORREAK18/Biometrico-App/internal/config"
	"github.com/CORREAK18/Biometrico-App/internal/face"
	"github.com/CORREAK18/Biometrico-App/internal/store"
	"github.com/CORREAK18/Biometrico-App/internal/store/mock"
)

// fakeDetector returns a fixed set of observations.
type fakeDetector struct {
	observations []face.Observation
	err          error
}

func (f *fakeDetector) Detect(ctx context.Context, image []byte) ([]face.Observation, error) {
	return f.observations, f.err
}

// stubEmbedder maps the observation's box left edge to a fixed unit
// vector so tests control similarity exactly.
type stubEmbedder struct {
	vectors map[float64][]float32
}

func (s *stubEmbedder) Embed(obs *face.Observation) ([]float32, error) {
	v, ok := s.vectors[obs.Box.Left]
	if !ok {
		return nil, errors.New("no vector for observation")
	}
	return v, nil
}

func obsAt(left float64) face.Observation {
	return face.Observation{Box: face.Box{Left: left, Top: 0, Width: 100, Height: 100}}
}

func testMatching() config.MatchingConfig {
	var m config.MatchingConfig
	m.Profile.Version = 1
	m.Profile.Dimension = 4
	m.Thresholds.Recognition = 0.80
	m.Thresholds.Duplicate = 0.90
	return m
}

// vecA and vecB have cosine similarity 0.85: above the recognition
// threshold, below the duplicate threshold. vecC is orthogonal to both.
var (
	vecA = []float32{1, 0, 0, 0}
	vecB = []float32{0.85, float32(math.Sqrt(1 - 0.85*0.85)), 0, 0}
	vecC = []float32{0, 0, 1, 0}
)

func newTestRecognizer(det *fakeDetector, repo store.EnrollmentWriter) *Recognizer {
	emb := &stubEmbedder{vectors: map[float64][]float32{
		1: vecA,
		2: vecB,
		3: vecC,
	}}
	return New(det, emb, repo, store.NewIdentityIndex(), testMatching())
}

func mustEnroll(t *testing.T, r *Recognizer, det *fakeDetector, left float64, externalID, name string) *IdentitySummary {
	t.Helper()
	det.observations = []face.Observation{obsAt(left)}
	outcome, err := r.Enroll(context.Background(), EnrollRequest{
		ExternalID:  externalID,
		DisplayName: name,
		Image:       []byte("img"),
	})
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if outcome.State != StateSuccess {
		t.Fatalf("expected success, got state=%s reason=%s", outcome.State, outcome.Reason)
	}
	return outcome.Identity
}

func TestEnroll_Success(t *testing.T) {
	det := &fakeDetector{}
	repo := mock.NewMockEnrollmentStore()
	r := newTestRecognizer(det, repo)

	identity := mustEnroll(t, r, det, 1, "emp-001", "Jan Novak")

	if identity.ExternalID != "emp-001" {
		t.Errorf("identity external ID = %q, want %q", identity.ExternalID, "emp-001")
	}

	count, _ := repo.Count(context.Background())
	if count != 1 {
		t.Errorf("store count = %d, want 1", count)
	}
	if r.index.Count() != 1 {
		t.Errorf("index count = %d, want 1", r.index.Count())
	}

	stored, _ := repo.FindByExternalID(context.Background(), "emp-001")
	if stored == nil {
		t.Fatal("record not stored")
	}
	if stored.ProfileVersion != 1 {
		t.Errorf("profile version = %d, want 1", stored.ProfileVersion)
	}
}

func TestEnroll_MissingFields(t *testing.T) {
	r := newTestRecognizer(&fakeDetector{}, mock.NewMockEnrollmentStore())

	_, err := r.Enroll(context.Background(), EnrollRequest{DisplayName: "No ID"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestEnroll_NoFace(t *testing.T) {
	det := &fakeDetector{observations: nil}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	outcome, err := r.Enroll(context.Background(), EnrollRequest{
		ExternalID: "x", DisplayName: "X", Image: []byte("img"),
	})
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if outcome.State != StateError || outcome.Reason != ReasonNoFaceDetected {
		t.Fatalf("got state=%s reason=%s, want error/no_face_detected", outcome.State, outcome.Reason)
	}
}

func TestEnroll_MultipleFaces(t *testing.T) {
	det := &fakeDetector{observations: []face.Observation{obsAt(1), obsAt(2)}}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	outcome, err := r.Enroll(context.Background(), EnrollRequest{
		ExternalID: "x", DisplayName: "X", Image: []byte("img"),
	})
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if outcome.State != StateError || outcome.Reason != ReasonMultipleFaces {
		t.Fatalf("got state=%s reason=%s, want error/multiple_faces_detected", outcome.State, outcome.Reason)
	}
}

func TestEnroll_DuplicateExternalID(t *testing.T) {
	det := &fakeDetector{}
	repo := mock.NewMockEnrollmentStore()
	r := newTestRecognizer(det, repo)

	first := mustEnroll(t, r, det, 1, "emp-001", "Jan Novak")

	// Same external ID with a completely different face.
	det.observations = []face.Observation{obsAt(3)}
	outcome, err := r.Enroll(context.Background(), EnrollRequest{
		ExternalID: "emp-001", DisplayName: "Someone Else", Image: []byte("img"),
	})
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if outcome.State != StateAlreadyExists || outcome.Reason != ReasonDuplicateExternalID {
		t.Fatalf("got state=%s reason=%s, want already_exists/duplicate_external_identifier", outcome.State, outcome.Reason)
	}
	if outcome.Identity == nil || outcome.Identity.ID != first.ID {
		t.Errorf("conflict identity = %+v, want %s", outcome.Identity, first.ID)
	}

	count, _ := repo.Count(context.Background())
	if count != 1 {
		t.Errorf("store count = %d after rejected enroll, want 1", count)
	}
}

func TestEnroll_DuplicateFace(t *testing.T) {
	det := &fakeDetector{}
	repo := mock.NewMockEnrollmentStore()
	r := newTestRecognizer(det, repo)

	first := mustEnroll(t, r, det, 1, "emp-001", "Jan Novak")

	// Identical face under a new external ID.
	det.observations = []face.Observation{obsAt(1)}
	outcome, err := r.Enroll(context.Background(), EnrollRequest{
		ExternalID: "emp-002", DisplayName: "Jan Again", Image: []byte("img"),
	})
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if outcome.State != StateAlreadyExists || outcome.Reason != ReasonDuplicateFace {
		t.Fatalf("got state=%s reason=%s, want already_exists/duplicate_face", outcome.State, outcome.Reason)
	}
	if outcome.Identity == nil || outcome.Identity.ID != first.ID {
		t.Errorf("matched identity = %+v, want %s", outcome.Identity, first.ID)
	}
	if outcome.Score < 0.99 {
		t.Errorf("score = %v, want ~1", outcome.Score)
	}
}

func TestEnroll_SimilarButNotDuplicate(t *testing.T) {
	det := &fakeDetector{}
	repo := mock.NewMockEnrollmentStore()
	r := newTestRecognizer(det, repo)

	mustEnroll(t, r, det, 1, "emp-001", "Jan Novak")

	// Similarity 0.85 sits between the recognition and duplicate
	// thresholds, so this is a distinct identity.
	mustEnroll(t, r, det, 2, "emp-002", "Petr Novak")

	count, _ := repo.Count(context.Background())
	if count != 2 {
		t.Errorf("store count = %d, want 2", count)
	}
}

func TestEnroll_DetectorError(t *testing.T) {
	det := &fakeDetector{err: errors.New("detector down")}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	if _, err := r.Enroll(context.Background(), EnrollRequest{
		ExternalID: "x", DisplayName: "X", Image: []byte("img"),
	}); err == nil {
		t.Fatal("expected detector error to propagate")
	}
}

func TestEnroll_StoreError(t *testing.T) {
	det := &fakeDetector{observations: []face.Observation{obsAt(1)}}
	repo := mock.NewMockEnrollmentStore()
	repo.InsertError = errors.New("db down")
	r := newTestRecognizer(det, repo)

	if _, err := r.Enroll(context.Background(), EnrollRequest{
		ExternalID: "x", DisplayName: "X", Image: []byte("img"),
	}); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestRecognize_EmptyEnrolledSet(t *testing.T) {
	det := &fakeDetector{observations: []face.Observation{obsAt(1)}}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	result, err := r.Recognize(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if result.Matched || result.Reason != ReasonEmptyEnrolledSet {
		t.Fatalf("got %+v, want unmatched empty_enrolled_set", result)
	}
}

func TestRecognize_Match(t *testing.T) {
	det := &fakeDetector{}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	enrolled := mustEnroll(t, r, det, 1, "emp-001", "Jan Novak")

	// Query with a face at similarity 0.85, above the 0.80 threshold.
	det.observations = []face.Observation{obsAt(2)}
	result, err := r.Recognize(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if !result.Matched {
		t.Fatalf("expected match, got reason=%s", result.Reason)
	}
	if result.Identity.ID != enrolled.ID {
		t.Errorf("matched %s, want %s", result.Identity.ID, enrolled.ID)
	}
	if math.Abs(result.Score-0.85) > 1e-6 {
		t.Errorf("score = %v, want 0.85", result.Score)
	}
}

func TestRecognize_BelowThreshold(t *testing.T) {
	det := &fakeDetector{}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	mustEnroll(t, r, det, 1, "emp-001", "Jan Novak")

	// Orthogonal face, similarity 0.
	det.observations = []face.Observation{obsAt(3)}
	result, err := r.Recognize(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if result.Matched || result.Reason != ReasonBelowThreshold {
		t.Fatalf("got %+v, want unmatched below_similarity_threshold", result)
	}
}

func TestRecognize_PicksBestCandidate(t *testing.T) {
	det := &fakeDetector{}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	mustEnroll(t, r, det, 2, "emp-b", "B")
	exact := mustEnroll(t, r, det, 1, "emp-a", "A")

	// Query identical to emp-a; emp-b scores 0.85, emp-a scores 1.
	det.observations = []face.Observation{obsAt(1)}
	result, err := r.Recognize(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if !result.Matched || result.Identity.ID != exact.ID {
		t.Fatalf("got %+v, want match on emp-a", result)
	}
}

func TestRecognize_NoFace(t *testing.T) {
	det := &fakeDetector{}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	mustEnroll(t, r, det, 1, "emp-001", "Jan Novak")

	det.observations = nil
	result, err := r.Recognize(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if result.Matched || result.Reason != ReasonNoFaceDetected {
		t.Fatalf("got %+v, want unmatched no_face_detected", result)
	}
}

func TestRemoveIdentity(t *testing.T) {
	det := &fakeDetector{}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	enrolled := mustEnroll(t, r, det, 1, "emp-001", "Jan Novak")

	deleted, err := r.RemoveIdentity(context.Background(), enrolled.ID)
	if err != nil {
		t.Fatalf("RemoveIdentity failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected true for existing identity")
	}

	deleted, err = r.RemoveIdentity(context.Background(), enrolled.ID)
	if err != nil {
		t.Fatalf("RemoveIdentity failed: %v", err)
	}
	if deleted {
		t.Fatal("expected false for already removed identity")
	}

	// Removed identity must no longer recognize.
	det.observations = []face.Observation{obsAt(1)}
	result, err := r.Recognize(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if result.Matched {
		t.Fatal("removed identity still matched")
	}
}

func TestSimilarIdentities(t *testing.T) {
	det := &fakeDetector{}
	r := newTestRecognizer(det, mock.NewMockEnrollmentStore())

	a := mustEnroll(t, r, det, 1, "emp-a", "A")
	b := mustEnroll(t, r, det, 2, "emp-b", "B")

	neighbors, err := r.SimilarIdentities(context.Background(), a.ID, 5)
	if err != nil {
		t.Fatalf("SimilarIdentities failed: %v", err)
	}
	if len(neighbors) != 1 {
		t.Fatalf("expected 1 neighbor, got %d", len(neighbors))
	}
	if neighbors[0].Record.ID != b.ID {
		t.Errorf("neighbor = %s, want %s", neighbors[0].Record.ID, b.ID)
	}
	if math.Abs(neighbors[0].Similarity-0.85) > 1e-6 {
		t.Errorf("similarity = %v, want 0.85", neighbors[0].Similarity)
	}
}

func TestSimilarIdentities_MissingIdentity(t *testing.T) {
	r := newTestRecognizer(&fakeDetector{}, mock.NewMockEnrollmentStore())

	neighbors, err := r.SimilarIdentities(context.Background(), uuid.New(), 5)
	if err != nil {
		t.Fatalf("SimilarIdentities failed: %v", err)
	}
	if neighbors != nil {
		t.Fatalf("expected nil for unknown identity, got %+v", neighbors)
	}
}
