package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/clipstream/tokenauth"
)

// Verifier is the part of tokenauth.Engine the guards depend on.
type Verifier interface {
	VerifyAccessToken(token string) *tokenauth.Claims
	VerifyRefreshToken(token string) *tokenauth.Claims
}

type claimsContextKey struct{}

// ClaimsFromContext returns the claims stored by a guard.
func ClaimsFromContext(ctx context.Context) (*tokenauth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*tokenauth.Claims)
	return claims, ok && claims != nil
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *tokenauth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// Guard rejects requests whose bearer token is not a valid token of class.
// Every failure produces the same 401 body.
func Guard(v Verifier, class tokenauth.TokenClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				unauthorized(w)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			var claims *tokenauth.Claims
			switch class {
			case tokenauth.ClassAccess:
				claims = v.VerifyAccessToken(token)
			case tokenauth.ClassRefresh:
				claims = v.VerifyRefreshToken(token)
			}
			if claims == nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="tokenauth"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
