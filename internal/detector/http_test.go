package detector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CORREAK18/Biometrico-App/internal/face"
)

const detectPayload = `{
	"faces": [
		{
			"boundingBox": {"left": 100, "top": 50, "width": 200, "height": 250},
			"landmarks": {
				"leftEye": {"x": 150, "y": 120},
				"rightEye": {"x": 250, "y": 122},
				"noseBase": {"x": 200, "y": 170}
			},
			"headEulerAngleX": 5,
			"headEulerAngleY": -10,
			"headEulerAngleZ": 2,
			"smilingProbability": 0.9
		}
	]
}`

func setupMockServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/detect", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestDetect(t *testing.T) {
	client := setupMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			http.Error(w, "expected multipart body", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(detectPayload))
	})

	observations, err := client.Detect(context.Background(), []byte("not-a-real-jpeg"))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if len(observations) != 1 {
		t.Fatalf("expected 1 face, got %d", len(observations))
	}

	obs := observations[0]
	if obs.Box.Width != 200 || obs.Box.Height != 250 {
		t.Errorf("unexpected bounding box: %+v", obs.Box)
	}
	if p, ok := obs.Landmarks[face.LeftEye]; !ok || p.X != 150 {
		t.Errorf("leftEye landmark missing or wrong: %+v", obs.Landmarks)
	}
	if obs.AngleY != -10 {
		t.Errorf("angleY = %v, want -10", obs.AngleY)
	}
	if obs.SmilingProbability == nil || *obs.SmilingProbability != 0.9 {
		t.Errorf("smiling probability not parsed: %v", obs.SmilingProbability)
	}
	if obs.LeftEyeOpenProbability != nil {
		t.Error("absent probability should stay nil")
	}
}

func TestDetect_NoFaces(t *testing.T) {
	client := setupMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"faces": []}`))
	})

	observations, err := client.Detect(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(observations) != 0 {
		t.Fatalf("expected no faces, got %d", len(observations))
	}
}

func TestDetect_ServerError(t *testing.T) {
	client := setupMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := client.Detect(context.Background(), []byte("img")); err == nil {
		t.Fatal("expected error on server failure")
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	if _, err := NewClient("://not-a-url"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}
