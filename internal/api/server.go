// Package api exposes the HTTP surface: auth, roster and RSVP updates,
// admin event CRUD, payments, and the balances read. Every
// attendance-affecting handler schedules a background recomputation
// through the dispatcher; none of them wait for it.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mpetrov/stagtrip/internal/allocation"
	"github.com/mpetrov/stagtrip/internal/auth"
	"github.com/mpetrov/stagtrip/internal/ledger"
	"github.com/mpetrov/stagtrip/internal/storage"
)

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	store      storage.Store
	auth       auth.Authenticator
	jwt        *auth.JWTManager
	dispatcher *allocation.Dispatcher
	ledger     *ledger.Ledger
}

// NewServer creates a Server with its dependencies injected.
func NewServer(store storage.Store, authenticator auth.Authenticator, jwt *auth.JWTManager, dispatcher *allocation.Dispatcher, ledger *ledger.Ledger) *Server {
	return &Server{
		store:      store,
		auth:       authenticator,
		jwt:        jwt,
		dispatcher: dispatcher,
		ledger:     ledger,
	}
}

// writeJSON writes data as a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// errorJSON writes an error message as a JSON response.
func (s *Server) errorJSON(w http.ResponseWriter, err error, status int) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
