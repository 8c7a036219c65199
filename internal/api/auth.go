package api

import (
	"errors"
	"net/http"

	"github.com/mpetrov/stagtrip/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token       string              `json:"token"`
	Participant participantResponse `json:"participant"`
}

// handleRegister creates a new participant and returns a session token.
// A new roster member can affect mandatory-event allocations, so every
// automatic event is queued for recomputation.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Name == "" {
		s.errorJSON(w, errors.New("email and name are required"), http.StatusBadRequest)
		return
	}

	p, err := s.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			s.errorJSON(w, err, http.StatusConflict)
		case errors.Is(err, auth.ErrWeakPassword):
			s.errorJSON(w, err, http.StatusBadRequest)
		default:
			s.errorJSON(w, err, http.StatusInternalServerError)
		}
		return
	}

	s.dispatcher.EnqueueAll(r.Context(), "registration")

	token, err := s.jwt.Generate(p)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, authResponse{
		Token:       token,
		Participant: toParticipantResponse(*p),
	})
}

// handleLogin authenticates a participant and returns a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	p, err := s.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.errorJSON(w, auth.ErrInvalidCredentials, http.StatusUnauthorized)
		return
	}

	token, err := s.jwt.Generate(p)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, authResponse{
		Token:       token,
		Participant: toParticipantResponse(*p),
	})
}
