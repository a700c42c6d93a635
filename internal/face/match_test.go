package face

import "testing"

func TestBestMatch_NoCandidates(t *testing.T) {
	query := []float32{1, 0, 0, 0, 0, 0}
	if m := BestMatch(query, nil, 0.8); m != nil {
		t.Fatalf("expected nil match for empty set, got %+v", m)
	}
}

func TestBestMatch_ExactMatch(t *testing.T) {
	query := []float32{1, 0, 0, 0, 0, 0}
	candidates := []Candidate{
		{ID: "a", Embedding: []float32{0, 1, 0, 0, 0, 0}},
		{ID: "b", Embedding: []float32{1, 0, 0, 0, 0, 0}},
	}

	m := BestMatch(query, candidates, 0.8)
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if m.ID != "b" {
		t.Fatalf("matched %q, want %q", m.ID, "b")
	}
	if m.Score != 1.0 {
		t.Fatalf("score = %v, want 1.0", m.Score)
	}
}

func TestBestMatch_BelowThreshold(t *testing.T) {
	query := []float32{1, 0, 0, 0, 0, 0}
	candidates := []Candidate{
		{ID: "a", Embedding: []float32{0, 1, 0, 0, 0, 0}},
	}
	if m := BestMatch(query, candidates, 0.8); m != nil {
		t.Fatalf("expected nil match below threshold, got %+v", m)
	}
}

func TestBestMatch_ThresholdIsExclusive(t *testing.T) {
	query := Normalize([]float32{1, 0})
	candidates := []Candidate{
		{ID: "edge", Embedding: Normalize([]float32{1, 0})},
	}

	// Score is exactly 1.0; a threshold of 1.0 must reject it.
	if m := BestMatch(query, candidates, 1.0); m != nil {
		t.Fatalf("score equal to threshold must not match, got %+v", m)
	}
	if m := BestMatch(query, candidates, 0.999); m == nil {
		t.Fatal("score above threshold must match")
	}
}

func TestBestMatch_HighestScoreWins(t *testing.T) {
	query := Normalize([]float32{1, 0})
	candidates := []Candidate{
		{ID: "closer", Embedding: Normalize([]float32{1, 0.1})},
		{ID: "closest", Embedding: Normalize([]float32{1, 0.01})},
		{ID: "far", Embedding: Normalize([]float32{1, 0.5})},
	}

	m := BestMatch(query, candidates, 0.5)
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if m.ID != "closest" {
		t.Fatalf("matched %q, want %q", m.ID, "closest")
	}
}

func TestBestMatch_TieKeepsFirst(t *testing.T) {
	query := []float32{1, 0, 0}
	emb := []float32{1, 0, 0}
	candidates := []Candidate{
		{ID: "first", Embedding: emb},
		{ID: "second", Embedding: emb},
	}

	m := BestMatch(query, candidates, 0.8)
	if m == nil {
		t.Fatal("expected a match, got nil")
	}
	if m.ID != "first" {
		t.Fatalf("tie matched %q, want earliest candidate", m.ID)
	}
}

func TestBestMatch_SkipsMismatchedDimensions(t *testing.T) {
	query := []float32{1, 0, 0}
	candidates := []Candidate{
		{ID: "bad", Embedding: []float32{1, 0}},
		{ID: "good", Embedding: []float32{1, 0, 0}},
	}

	m := BestMatch(query, candidates, 0.8)
	if m == nil || m.ID != "good" {
		t.Fatalf("expected %q, got %+v", "good", m)
	}
}
