// Package handlers implements the HTTP API: identity enrollment,
// recognition queries and service statistics.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// MaxUploadSize caps multipart photo uploads at 16 MiB.
const MaxUploadSize = 16 << 20

// errInvalidRequestBody is a shared error message for malformed requests.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// readImageUpload extracts the uploaded photo from a multipart form.
func readImageUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
