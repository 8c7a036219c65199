package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/middleware"
	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

type paymentRequest struct {
	EventID string          `json:"eventId,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note,omitempty"`
}

type paymentResponse struct {
	ID            string          `json:"id"`
	ParticipantID string          `json:"participantId"`
	EventID       string          `json:"eventId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     int64           `json:"createdAt"`
}

func toPaymentResponse(p models.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		ParticipantID: p.ParticipantID,
		EventID:       p.EventID,
		Amount:        p.Amount,
		Status:        string(p.Status),
		Note:          p.Note,
		CreatedAt:     p.CreatedAt,
	}
}

// handleCreatePayment records a payment by the caller. It starts pending;
// an admin confirms or rejects it, and only confirmed payments count
// toward the balance.
func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}
	if !req.Amount.IsPositive() {
		s.errorJSON(w, errors.New("amount must be positive"), http.StatusBadRequest)
		return
	}

	payment := &models.Payment{
		ParticipantID: middleware.GetParticipantID(r.Context()),
		EventID:       req.EventID,
		Amount:        req.Amount,
		Status:        models.PaymentPending,
		Note:          req.Note,
	}
	if err := s.store.CreatePayment(r.Context(), payment); err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, toPaymentResponse(*payment))
}

// handleListPayments returns the caller's own payments.
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.store.ListParticipantPayments(r.Context(), middleware.GetParticipantID(r.Context()))
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

type paymentStatusRequest struct {
	Status string `json:"status"`
}

// handleUpdatePaymentStatus confirms or rejects a pending payment.
func (s *Server) handleUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req paymentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorJSON(w, err, http.StatusBadRequest)
		return
	}
	status := models.PaymentStatus(req.Status)
	if !status.Valid() {
		s.errorJSON(w, errors.New("invalid payment status"), http.StatusBadRequest)
		return
	}

	if err := s.store.UpdatePaymentStatus(r.Context(), id, status); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			s.errorJSON(w, errors.New("payment not found"), http.StatusNotFound)
		case errors.Is(err, storage.ErrInvalidTransition):
			s.errorJSON(w, err, http.StatusConflict)
		default:
			s.errorJSON(w, err, http.StatusInternalServerError)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
