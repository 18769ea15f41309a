package handler

import (
	"net/http"

	"github.com/mcoot/solitaire-server/internal/api/apierr"
	"github.com/mcoot/solitaire-server/internal/api/response"
)

// Health handles GET/POST /api/v1/health
func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{On: true})
}

// LegacyHealth handles POST /api/estOn
func LegacyHealth(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.LegacyHealth{EstOn: true})
}

// NotFound answers unmatched routes with a JSON error
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, apierr.NewNotFoundError())
}
