package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.With(s.loginRateLimit).Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})

		// everything below requires a valid access token
		r.Group(func(r chi.Router) {
			r.Use(s.withAuth)

			r.Get("/users/me", s.handleCurrentUser)

			r.Post("/photos", s.handlePhotoUpload)
			r.Get("/photos/{photoID}", s.handlePhotoGet)
			r.Get("/photos/{photoID}/file", s.handlePhotoFile)

			r.Post("/collections", s.handleCollectionCreate)
			r.Get("/collections", s.handleCollectionList)
			r.Get("/collections/{collectionID}", s.handleCollectionGet)
			r.Patch("/collections/{collectionID}/sync", s.handleCollectionSync)

			r.Get("/dashboard/stats", s.handleDashboardStats)
		})
	})

	return r
}
