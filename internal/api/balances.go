package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

type balanceResponse struct {
	ParticipantID string          `json:"participantId"`
	Name          string          `json:"name"`
	TotalOwed     decimal.Decimal `json:"totalOwed"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	Remaining     decimal.Decimal `json:"remaining"`
}

func toBalanceResponse(b models.Balance) balanceResponse {
	return balanceResponse{
		ParticipantID: b.ParticipantID,
		Name:          b.Name,
		TotalOwed:     b.TotalOwed,
		TotalPaid:     b.TotalPaid,
		Remaining:     b.Remaining,
	}
}

// handleAllBalances returns the owed/paid/remaining view for the whole
// roster, computed fresh on every read.
func (s *Server) handleAllBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.ledger.AllBalances(r.Context())
	if err != nil {
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	out := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleBalance returns one participant's balance.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.ledger.Balance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.errorJSON(w, errors.New("participant not found"), http.StatusNotFound)
			return
		}
		s.errorJSON(w, err, http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, toBalanceResponse(balance))
}
