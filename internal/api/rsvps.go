package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mpetrov/stagtrip/internal/middleware"
	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

type rsvpRequest struct {
	Status string `json:"status"`
}

// handleUpsertRSVP records the caller's answer for an optional event and
// queues a recomputation for it. Mandatory events take no RSVPs;
// attendance there follows trip status.
func (s *Server) handleUpsertRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	ctx := r.Context()

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("event not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	if event.IsMandatory {
		s.errorJSON(w, errors.New("mandatory events do not take RSVPs"), http.StatusBadRequest)
		return
	}

	var req rsvpRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}
	status := models.RSVPStatus(req.Status)
	if !status.Valid() {
		s.errorJSON(w, errors.New("invalid rsvp status"), http.StatusBadRequest)
		return
	}

	rsvp := &models.RSVP{
		ParticipantID: middleware.GetParticipantID(ctx),
		EventID:       eventID,
		Status:        status,
		UpdatedAt:     time.Now().Unix(),
	}
	if err := s.store.UpsertRSVP(ctx, rsvp); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	// The RSVP write succeeded regardless of what the recompute does.
	s.dispatcher.Enqueue(eventID, "rsvp change")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
