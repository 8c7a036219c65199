package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

type eventRequest struct {
	Title        string          `json:"title"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	SplitType    string          `json:"splitType"`
	IsMandatory  bool            `json:"isMandatory"`
	ExcludeGroom *bool           `json:"excludeGroom,omitempty"`
	StartsAt     int64           `json:"startsAt,omitempty"`
}

type eventResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	SplitType    string          `json:"splitType"`
	IsMandatory  bool            `json:"isMandatory"`
	ExcludeGroom bool            `json:"excludeGroom"`
	StartsAt     int64           `json:"startsAt"`
}

func toEventResponse(e models.Event) eventResponse {
	return eventResponse{
		ID:           e.ID,
		Title:        e.Title,
		TotalCost:    e.TotalCost,
		SplitType:    string(e.SplitType),
		IsMandatory:  e.IsMandatory,
		ExcludeGroom: e.ExcludeGroom,
		StartsAt:     e.StartsAt,
	}
}

func (req *eventRequest) validate() error {
	if req.Title == "" {
		return errors.New("title is required")
	}
	if !models.SplitType(req.SplitType).Valid() {
		return errors.New("splitType must be even, fixed, or custom")
	}
	if req.TotalCost.IsNegative() {
		return errors.New("totalCost cannot be negative")
	}
	return nil
}

// handleCreateEvent creates an event. Even/fixed events get an initial
// recomputation queued so allocations exist as soon as anyone attends.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	event := &models.Event{
		Title:        req.Title,
		TotalCost:    req.TotalCost,
		SplitType:    models.SplitType(req.SplitType),
		IsMandatory:  req.IsMandatory,
		ExcludeGroom: true, // default
		StartsAt:     req.StartsAt,
	}
	if req.ExcludeGroom != nil {
		event.ExcludeGroom = *req.ExcludeGroom
	}

	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	if event.AutoSplit() {
		s.dispatcher.Enqueue(event.ID, "event created")
	}
	s.writeJSON(w, http.StatusCreated, toEventResponse(*event))
}

// handleListEvents returns all events.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleGetEvent returns one event.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("event not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, toEventResponse(*event))
}

// handleUpdateEvent updates an event's configuration. Cost or split
// changes invalidate the current allocation rows, so even/fixed events
// get a recomputation queued. Switching an event to custom leaves its
// rows alone: they become admin-owned from that point on.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("event not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	event.Title = req.Title
	event.TotalCost = req.TotalCost
	event.SplitType = models.SplitType(req.SplitType)
	event.IsMandatory = req.IsMandatory
	event.StartsAt = req.StartsAt
	if req.ExcludeGroom != nil {
		event.ExcludeGroom = *req.ExcludeGroom
	}

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	if event.AutoSplit() {
		s.dispatcher.Enqueue(event.ID, "event updated")
	}
	s.writeJSON(w, http.StatusOK, toEventResponse(*event))
}

// handleDeleteEvent removes an event; RSVP and allocation rows cascade.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("event not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

type allocationResponse struct {
	EventID       string          `json:"eventId"`
	ParticipantID string          `json:"participantId"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note"`
}

// handleListAllocations returns an event's current allocation rows.
func (s *Server) handleListAllocations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if _, err := s.store.GetEvent(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("event not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	rows, err := s.store.ListEventAllocations(ctx, id)
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	out := make([]allocationResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, allocationResponse{
			EventID:       a.EventID,
			ParticipantID: a.ParticipantID,
			Amount:        a.Amount,
			Note:          a.Note,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type overrideRow struct {
	ParticipantID string          `json:"participantId"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note"`
}

// handleOverrideAllocations lets an admin set an event's allocation rows
// directly. This is the write path for custom-split events and a
// hand-tuning escape hatch for even/fixed ones, with the caveat that a
// non-custom event snaps back to formula on the next attendance change.
func (s *Server) handleOverrideAllocations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if _, err := s.store.GetEvent(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("event not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	var req []overrideRow
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}

	rows := make([]models.CostAllocation, 0, len(req))
	for _, o := range req {
		if o.ParticipantID == "" {
			s.errorJSON(w, errors.New("participantId is required on every row"), http.StatusBadRequest)
			return
		}
		rows = append(rows, models.CostAllocation{
			EventID:       id,
			ParticipantID: o.ParticipantID,
			Amount:        o.Amount,
			Note:          o.Note,
		})
	}

	if err := s.store.ReplaceAllocations(ctx, id, rows); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"rows": len(rows)})
}
