package tokenauth

import (
	"time"

	"github.com/clipstream/tokenauth/internal/token"
)

// Claims is the verified payload of a token.
type Claims = token.Claims

// TokenClass distinguishes access from refresh tokens.
type TokenClass = token.Class

const (
	ClassAccess  = token.ClassAccess
	ClassRefresh = token.ClassRefresh
)

// TokenPair is returned by the login and refresh flows.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
