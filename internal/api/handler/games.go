package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/solitaire-server/internal/api/response"
	"github.com/mcoot/solitaire-server/internal/services/records"
)

// MaxGameRecordBytes caps the size of a posted game record
const MaxGameRecordBytes = 1 << 20

// GameHandler handles game record storage and retrieval
type GameHandler struct {
	records *records.Service
}

// NewGameHandler creates a new game record handler
func NewGameHandler(records *records.Service) *GameHandler {
	return &GameHandler{
		records: records,
	}
}

// Record handles POST /api/v1/games
func (h *GameHandler) Record(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, http.StatusCreated)
}

// LegacyRecord handles POST /api/data, which browser clients expect to answer 200
func (h *GameHandler) LegacyRecord(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, http.StatusOK)
}

func (h *GameHandler) record(w http.ResponseWriter, r *http.Request, status int) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxGameRecordBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, NewInvalidRequestError("game record too large"))
			return
		}
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	name, err := h.records.Save(r.Context(), body)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, status, response.GameSaved{
		Message: "game record saved",
		File:    name,
	})
}

// Random handles GET /api/v1/games/random
func (h *GameHandler) Random(w http.ResponseWriter, r *http.Request) {
	record, err := h.records.Random(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameRecordFromModel(record))
}
