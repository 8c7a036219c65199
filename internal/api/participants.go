package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mpetrov/stagtrip/internal/middleware"
	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

// participantResponse is the roster view; it never carries the password hash.
type participantResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TripStatus string `json:"tripStatus"`
	IsGroom    bool   `json:"isGroom"`
	IsAdmin    bool   `json:"isAdmin"`
}

func toParticipantResponse(p models.Participant) participantResponse {
	return participantResponse{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		TripStatus: string(p.TripStatus),
		IsGroom:    p.IsGroom,
		IsAdmin:    p.IsAdmin,
	}
}

// handleListParticipants returns the full roster.
func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	roster, err := s.store.ListParticipants(r.Context())
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	out := make([]participantResponse, 0, len(roster))
	for _, p := range roster {
		out = append(out, toParticipantResponse(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

type tripStatusRequest struct {
	TripStatus string `json:"tripStatus"`
}

// handleUpdateTripStatus changes a participant's trip-wide status.
// Participants change their own; admins can change anyone's. A status
// change moves the participant in or out of every mandatory event's
// paying set, so all automatic events are queued for recomputation.
func (s *Server) handleUpdateTripStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if id != middleware.GetParticipantID(ctx) && !middleware.IsAdmin(ctx) {
		s.errorJSON(w, errors.New("can only change your own trip status"), http.StatusForbidden)
		return
	}

	var req tripStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}
	status := models.TripStatus(req.TripStatus)
	if !status.Valid() {
		s.errorJSON(w, errors.New("invalid trip status"), http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateTripStatus(ctx, id, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("participant not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.dispatcher.EnqueueAll(ctx, "trip status change")
	s.writeJSON(w, http.StatusOK, map[string]string{"tripStatus": string(status)})
}

// handleSetGroom assigns the groom flag, clearing it from the previous
// holder in one guarded transition. Groom exclusion feeds the split math,
// so all automatic events are recomputed.
func (s *Server) handleSetGroom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if err := s.store.SetGroom(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("participant not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.dispatcher.EnqueueAll(ctx, "groom change")
	s.writeJSON(w, http.StatusOK, map[string]bool{"isGroom": true})
}

type adminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// handleSetAdmin grants or revokes admin rights.
func (s *Server) handleSetAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req adminRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	if err := s.store.SetAdmin(r.Context(), id, req.IsAdmin); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("participant not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"isAdmin": req.IsAdmin})
}

// handleDeleteParticipant removes a participant from the roster. Their
// RSVP, allocation, and payment rows cascade, which shrinks paying sets,
// so all automatic events are recomputed.
func (s *Server) handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if err := s.store.DeleteParticipant(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("participant not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.dispatcher.EnqueueAll(ctx, "participant removed")
	s.writeJSON(w, http.StatusNoContent, nil)
}
