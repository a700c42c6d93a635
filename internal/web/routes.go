package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/CORREAK18/Biometrico-App/internal/recognition"
	"github.com/CORREAK18/Biometrico-App/internal/store"
	"github.com/CORREAK18/Biometrico-App/internal/web/handlers"
)

func (s *Server) setupRoutes(recognizer *recognition.Recognizer, repo store.EnrollmentReader) {
	// Create handlers
	identitiesHandler := handlers.NewIdentitiesHandler(recognizer, repo)
	recognizeHandler := handlers.NewRecognizeHandler(recognizer)
	statsHandler := handlers.NewStatsHandler(s.config, repo)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Identities
		r.Post("/identities", identitiesHandler.Enroll)
		r.Get("/identities", identitiesHandler.List)
		r.Get("/identities/{id}", identitiesHandler.Get)
		r.Get("/identities/{id}/photo", identitiesHandler.Photo)
		r.Get("/identities/{id}/similar", identitiesHandler.Similar)
		r.Delete("/identities/{id}", identitiesHandler.Delete)

		// Recognition
		r.Post("/recognize", recognizeHandler.Recognize)

		// Stats
		r.Get("/stats", statsHandler.Get)
	})
}
