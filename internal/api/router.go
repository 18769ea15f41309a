package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/solitaire-server/internal/api/handler"
	"github.com/mcoot/solitaire-server/internal/api/middleware"
	"github.com/mcoot/solitaire-server/internal/services/auth"
	"github.com/mcoot/solitaire-server/internal/services/records"
	"github.com/mcoot/solitaire-server/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	StatsLedger   *stats.Ledger
	RecordService *records.Service

	// TrustedProxyHeader is consulted for the caller address before the
	// peer address; empty disables it
	TrustedProxyHeader string
	CORSAllowedOrigins []string
	StoreTimeout       time.Duration
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService)
	statsHandler := handler.NewStatsHandler(cfg.StatsLedger)
	gameHandler := handler.NewGameHandler(cfg.RecordService)

	// Common middleware; the address must be resolved before logging
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.ClientAddress(cfg.TrustedProxyHeader))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.StoreTimeout(cfg.StoreTimeout))

	api := r.PathPrefix("/api/v1").Subrouter()

	// Account routes
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/accounts/autoconnect", accountHandler.AutoConnect).Methods(http.MethodPost)
	api.HandleFunc("/accounts/logout", accountHandler.Logout).Methods(http.MethodPost)

	// Stats routes (authorized by caller address)
	api.HandleFunc("/stats/win", statsHandler.Win).Methods(http.MethodPost)
	api.HandleFunc("/stats/loss", statsHandler.Loss).Methods(http.MethodPost)

	// Game record routes
	api.HandleFunc("/games", gameHandler.Record).Methods(http.MethodPost)
	api.HandleFunc("/games/random", gameHandler.Random).Methods(http.MethodGet)

	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet, http.MethodPost)

	// Paths the existing browser client still calls
	legacy := r.PathPrefix("/api").Subrouter()
	legacy.HandleFunc("/data", gameHandler.LegacyRecord).Methods(http.MethodPost)
	legacy.HandleFunc("/random-data", gameHandler.Random).Methods(http.MethodGet)
	legacy.HandleFunc("/estOn", handler.LegacyHealth).Methods(http.MethodPost)

	// CORS wraps the router so preflights reach it before method matching
	return middleware.CORS(cfg.CORSAllowedOrigins)(r)
}
