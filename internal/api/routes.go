package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpetrov/stagtrip/internal/middleware"
)

// Routes builds the router with all endpoints and middleware registered.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.jwt))

		r.Get("/participants", s.handleListParticipants)
		r.Put("/participants/{id}/trip-status", s.handleUpdateTripStatus)

		r.Get("/events", s.handleListEvents)
		r.Get("/events/{id}", s.handleGetEvent)
		r.Get("/events/{id}/allocations", s.handleListAllocations)
		r.Put("/events/{id}/rsvp", s.handleUpsertRSVP)

		r.Post("/payments", s.handleCreatePayment)
		r.Get("/payments", s.handleListPayments)

		r.Get("/balances", s.handleAllBalances)
		r.Get("/balances/{id}", s.handleBalance)

		// Admin-only routes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Put("/participants/{id}/groom", s.handleSetGroom)
			r.Put("/participants/{id}/admin", s.handleSetAdmin)
			r.Delete("/participants/{id}", s.handleDeleteParticipant)

			r.Post("/events", s.handleCreateEvent)
			r.Put("/events/{id}", s.handleUpdateEvent)
			r.Delete("/events/{id}", s.handleDeleteEvent)
			r.Put("/events/{id}/allocations", s.handleOverrideAllocations)

			r.Put("/payments/{id}/status", s.handleUpdatePaymentStatus)
		})
	})

	return r
}
