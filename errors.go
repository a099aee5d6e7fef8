package tokenauth

import (
	"errors"

	"github.com/clipstream/tokenauth/internal/token"
)

var (
	// ErrUnauthorized is the only error a refresh flow reports for a bad token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEngineNotReady is returned by methods called on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInsecureSecret is returned in production mode for development or short secrets.
	ErrInsecureSecret = errors.New("insecure signing secret")
	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("builder already used")

	// Mint input errors. These indicate integration bugs, not bad tokens.
	ErrMissingSubject = token.ErrMissingSubject
	ErrMissingEmail   = token.ErrMissingEmail
	ErrMissingRole    = token.ErrMissingRole
	ErrUnknownClass   = token.ErrUnknownClass
)
