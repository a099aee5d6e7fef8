package middleware

import (
	"net/http"

	"github.com/clipstream/tokenauth"
)

// RequireAccess admits requests carrying a valid access token.
func RequireAccess(v Verifier) func(http.Handler) http.Handler {
	return Guard(v, tokenauth.ClassAccess)
}
