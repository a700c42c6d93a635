package handlers

import (
	"log"
	"net/http"

	"github.com/CORREAK18/Biometrico-App/internal/recognition"
)

// RecognizeHandler handles recognition queries.
type RecognizeHandler struct {
	recognizer *recognition.Recognizer
}

// NewRecognizeHandler creates a new recognize handler.
func NewRecognizeHandler(rec *recognition.Recognizer) *RecognizeHandler {
	return &RecognizeHandler{recognizer: rec}
}

// Recognize matches an uploaded photo against the enrolled set. The
// response always carries a MatchResult; an unmatched query is not an
// HTTP error.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	image, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	result, err := h.recognizer.Recognize(r.Context(), image)
	if err != nil {
		log.Printf("recognize failed: %v", err)
		respondError(w, http.StatusInternalServerError, "recognition failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
