package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/solitaire-server/internal/api/middleware"
	"github.com/mcoot/solitaire-server/internal/api/request"
	"github.com/mcoot/solitaire-server/internal/api/response"
	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/services/stats"
)

// StatsHandler handles game result reporting
type StatsHandler struct {
	ledger *stats.Ledger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(ledger *stats.Ledger) *StatsHandler {
	return &StatsHandler{
		ledger: ledger,
	}
}

// Win handles POST /api/v1/stats/win
func (h *StatsHandler) Win(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, h.ledger.RecordWin)
}

// Loss handles POST /api/v1/stats/loss
func (h *StatsHandler) Loss(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, h.ledger.RecordLoss)
}

func (h *StatsHandler) record(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, username, address string) (*model.Account, error)) {
	var req request.AccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account, err := fn(r.Context(), req.Username, middleware.GetAddress(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryFromModel(account))
}
