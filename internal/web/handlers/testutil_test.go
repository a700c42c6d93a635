package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/CORREAK18/Biometrico-App/internal/config"
	"github.com/CORREAK18/Biometrico-App/internal/face"
	"github.com/CORREAK18/Biometrico-App/internal/recognition"
	"github.com/CORREAK18/Biometrico-App/internal/store"
	"github.com/CORREAK18/Biometrico-App/internal/store/mock"
)

// stubDetector returns a fixed detection result.
type stubDetector struct {
	observations []face.Observation
	err          error
}

func (s *stubDetector) Detect(ctx context.Context, image []byte) ([]face.Observation, error) {
	return s.observations, s.err
}

// stubEmbedder maps an observation to a one-hot unit vector derived
// from its box position. Observations built from different seeds embed
// to orthogonal vectors, identical observations to the same vector.
type stubEmbedder struct{}

func (stubEmbedder) Embed(obs *face.Observation) ([]float32, error) {
	v := make([]float32, face.EmbeddingDim)
	v[int(obs.Box.Left)%face.EmbeddingDim] = 1
	return v, nil
}

// testMatching creates a minimal matching profile for testing
func testMatching() config.MatchingConfig {
	var m config.MatchingConfig
	m.Profile.Version = 1
	m.Profile.Dimension = face.EmbeddingDim
	m.Thresholds.Recognition = 0.80
	m.Thresholds.Duplicate = 0.90
	return m
}

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{Matching: testMatching()}
}

// singleFace builds an observation with a full landmark set. Varying
// seed shifts the face so different seeds give different faces.
func singleFace(seed float64) face.Observation {
	return face.Observation{
		Box: face.Box{Left: 100 + seed, Top: 50, Width: 200, Height: 250},
		Landmarks: map[face.Landmark]face.Point{
			face.LeftEye:     {X: 150 + seed, Y: 120},
			face.RightEye:    {X: 250 - seed, Y: 122 + seed},
			face.NoseBase:    {X: 200, Y: 170 + seed},
			face.MouthLeft:   {X: 160, Y: 230 - seed},
			face.MouthRight:  {X: 240 + seed, Y: 232},
			face.MouthBottom: {X: 200 - seed, Y: 250},
			face.LeftCheek:   {X: 130, Y: 180 + seed},
			face.RightCheek:  {X: 270, Y: 182 - seed},
			face.LeftEar:     {X: 110 + seed, Y: 140},
			face.RightEar:    {X: 290, Y: 142 + seed},
		},
	}
}

// newTestSetup wires a recognizer over a mock store and stub detector.
func newTestSetup(det *stubDetector) (*recognition.Recognizer, *mock.MockEnrollmentStore) {
	repo := mock.NewMockEnrollmentStore()
	rec := recognition.New(det, stubEmbedder{}, repo, store.NewIdentityIndex(), testMatching())
	return rec, repo
}

// multipartRequest builds a multipart request with an image part and form fields.
func multipartRequest(t *testing.T, path string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "photo.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte("fake-jpeg-bytes"))

	for key, value := range fields {
		writer.WriteField(key, value)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
