package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/CORREAK18/Biometrico-App/internal/recognition"
	"github.com/CORREAK18/Biometrico-App/internal/store"
)

const defaultSimilarLimit = 5

// IdentitiesHandler handles identity enrollment and management endpoints.
type IdentitiesHandler struct {
	recognizer *recognition.Recognizer
	repo       store.EnrollmentReader
}

// NewIdentitiesHandler creates a new identities handler.
func NewIdentitiesHandler(rec *recognition.Recognizer, repo store.EnrollmentReader) *IdentitiesHandler {
	return &IdentitiesHandler{recognizer: rec, repo: repo}
}

// identityResponse is the public view of an enrolled identity.
type identityResponse struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"externalId"`
	DisplayName string    `json:"displayName"`
	CreatedAt   string    `json:"createdAt"`
	HasPhoto    bool      `json:"hasPhoto"`
}

func toIdentityResponse(rec *store.EnrollmentRecord) identityResponse {
	return identityResponse{
		ID:          rec.ID,
		ExternalID:  rec.ExternalID,
		DisplayName: rec.DisplayName,
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		HasPhoto:    len(rec.Photo) > 0,
	}
}

// Enroll registers a new identity from an uploaded photo.
func (h *IdentitiesHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	image, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	req := recognition.EnrollRequest{
		ExternalID:  r.FormValue("externalId"),
		DisplayName: r.FormValue("displayName"),
		Image:       image,
	}
	if req.ExternalID == "" || req.DisplayName == "" {
		respondError(w, http.StatusBadRequest, "externalId and displayName are required")
		return
	}

	outcome, err := h.recognizer.Enroll(r.Context(), req)
	if err != nil {
		log.Printf("enroll %s failed: %v", sanitizeForLog(req.ExternalID), err)
		respondError(w, http.StatusInternalServerError, "enrollment failed")
		return
	}

	switch outcome.State {
	case recognition.StateSuccess:
		respondJSON(w, http.StatusCreated, outcome)
	case recognition.StateAlreadyExists:
		respondJSON(w, http.StatusConflict, outcome)
	default:
		respondJSON(w, http.StatusUnprocessableEntity, outcome)
	}
}

// List returns enrolled identities, optionally filtered by display name.
func (h *IdentitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		records []store.EnrollmentRecord
		err     error
	)
	if name := r.URL.Query().Get("name"); name != "" {
		records, err = h.repo.SearchByDisplayName(r.Context(), name)
	} else {
		records, err = h.repo.All(r.Context())
	}
	if err != nil {
		log.Printf("list identities failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list identities")
		return
	}

	identities := make([]identityResponse, 0, len(records))
	for i := range records {
		identities = append(identities, toIdentityResponse(&records[i]))
	}
	respondJSON(w, http.StatusOK, map[string]any{"identities": identities})
}

// Get returns a single enrolled identity.
func (h *IdentitiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIdentityID(w, r)
	if !ok {
		return
	}

	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		log.Printf("get identity %s failed: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get identity")
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "identity not found")
		return
	}

	respondJSON(w, http.StatusOK, toIdentityResponse(rec))
}

// Photo serves the stored enrollment photo.
func (h *IdentitiesHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIdentityID(w, r)
	if !ok {
		return
	}

	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		log.Printf("get identity photo %s failed: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get identity")
		return
	}
	if rec == nil || len(rec.Photo) == 0 {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Photo)
}

// Delete removes an enrolled identity.
func (h *IdentitiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIdentityID(w, r)
	if !ok {
		return
	}

	deleted, err := h.recognizer.RemoveIdentity(r.Context(), id)
	if err != nil {
		log.Printf("delete identity %s failed: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to delete identity")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "identity not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Similar returns the enrolled identities closest to the given one.
func (h *IdentitiesHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIdentityID(w, r)
	if !ok {
		return
	}

	limit := defaultSimilarLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	neighbors, err := h.recognizer.SimilarIdentities(r.Context(), id, limit)
	if err != nil {
		log.Printf("similar identities %s failed: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to find similar identities")
		return
	}

	type similarEntry struct {
		Identity   identityResponse `json:"identity"`
		Similarity float64          `json:"similarity"`
	}
	results := make([]similarEntry, 0, len(neighbors))
	for _, n := range neighbors {
		results = append(results, similarEntry{
			Identity:   toIdentityResponse(n.Record),
			Similarity: n.Similarity,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"similar": results})
}

// parseIdentityID reads the {id} URL parameter. Responds with 400 and
// returns false when it is not a valid UUID.
func parseIdentityID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid identity id")
		return uuid.Nil, false
	}
	return id, true
}
