package handler

import (
	"net/http"

	"github.com/mcoot/solitaire-server/internal/api/middleware"
	"github.com/mcoot/solitaire-server/internal/api/request"
	"github.com/mcoot/solitaire-server/internal/api/response"
	"github.com/mcoot/solitaire-server/internal/services/auth"
)

// AccountHandler handles registration and address-bound sessions
type AccountHandler struct {
	authService *auth.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *auth.Service) *AccountHandler {
	return &AccountHandler{
		authService: authService,
	}
}

// Register handles POST /api/v1/accounts/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AccountFromModel(account))
}

// Login handles POST /api/v1/accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	stats, err := h.authService.Login(r.Context(), req.Username, req.Password, middleware.GetAddress(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// AutoConnect handles POST /api/v1/accounts/autoconnect
func (h *AccountHandler) AutoConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := h.authService.AutoConnect(r.Context(), middleware.GetAddress(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryFromConnection(conn))
}

// Logout handles POST /api/v1/accounts/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req request.AccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authService.Logout(r.Context(), req.Username); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK{OK: true})
}
