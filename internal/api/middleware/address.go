package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const addressContextKey contextKey = "client_address"

// ClientAddress resolves the caller's network address and stores it in the
// request context. When header is set and present on the request, its first
// entry wins; otherwise the host part of the peer address is used.
func ClientAddress(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := resolveAddress(r, header)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), addressContextKey, addr)))
		})
	}
}

// GetAddress returns the caller address resolved by ClientAddress
func GetAddress(ctx context.Context) string {
	addr, _ := ctx.Value(addressContextKey).(string)
	return addr
}

func resolveAddress(r *http.Request, header string) string {
	if header != "" {
		if v := r.Header.Get(header); v != "" {
			first, _, _ := strings.Cut(v, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
