package middleware

import (
	"net/http"

	"github.com/clipstream/tokenauth"
)

// RequireRefresh admits requests whose bearer token is a valid refresh
// token. Use it only on the token renewal route.
func RequireRefresh(v Verifier) func(http.Handler) http.Handler {
	return Guard(v, tokenauth.ClassRefresh)
}
