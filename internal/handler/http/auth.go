package http

import (
	"net/http"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
)

// CurrentUser handles GET /api/v1/auth/user and returns the identity resolved
// from the bearer token.
func CurrentUser(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: middleware.ClaimsFromContext(r.Context())})
}
