package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/CORREAK18/Biometrico-App/internal/config"
	"github.com/CORREAK18/Biometrico-App/internal/store"
)

const statsCacheTTL = time.Minute

// statsCache holds cached stats with expiry
type statsCache struct {
	mu        sync.RWMutex
	data      *StatsResponse
	expiresAt time.Time
}

func (c *statsCache) get() (*StatsResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.data, true
}

func (c *statsCache) set(data *StatsResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.expiresAt = time.Now().Add(statsCacheTTL)
}

func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
}

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	config *config.Config
	repo   store.EnrollmentReader
	cache  statsCache
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(cfg *config.Config, repo store.EnrollmentReader) *StatsHandler {
	return &StatsHandler{config: cfg, repo: repo}
}

// InvalidateCache clears the cached stats so the next request fetches fresh data
func (h *StatsHandler) InvalidateCache() {
	h.cache.invalidate()
}

// StatsResponse represents the statistics response
type StatsResponse struct {
	EnrolledIdentities   int     `json:"enrolled_identities"`
	ProfileVersion       int     `json:"profile_version"`
	EmbeddingDimension   int     `json:"embedding_dimension"`
	RecognitionThreshold float64 `json:"recognition_threshold"`
	DuplicateThreshold   float64 `json:"duplicate_threshold"`
}

// Get returns statistics about the enrolled set and matching profile
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.get(); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	count, err := h.repo.Count(r.Context())
	if err != nil {
		log.Printf("stats count failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	stats := &StatsResponse{
		EnrolledIdentities:   count,
		ProfileVersion:       h.config.Matching.Profile.Version,
		EmbeddingDimension:   h.config.Matching.Profile.Dimension,
		RecognitionThreshold: h.config.Matching.Thresholds.Recognition,
		DuplicateThreshold:   h.config.Matching.Thresholds.Duplicate,
	}

	h.cache.set(stats)
	respondJSON(w, http.StatusOK, stats)
}
