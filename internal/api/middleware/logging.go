package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/solitaire-server/internal/middleware"
)

// Logging creates request logging middleware that records the caller address.
// It must run after ClientAddress.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, func(r *http.Request) slog.Attr {
		return slog.String("client_address", GetAddress(r.Context()))
	})
}
