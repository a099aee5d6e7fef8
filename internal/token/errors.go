package token

import "errors"

var (
	ErrMalformed      = errors.New("token: malformed")
	ErrUnknownClass   = errors.New("token: unknown token class")
	ErrMissingSubject = errors.New("token: subject id is required")
	ErrMissingEmail   = errors.New("token: email is required")
	ErrMissingRole    = errors.New("token: role is required")
	ErrMissingSecret  = errors.New("token: signing secret is required")
	ErrInvalidExpiry  = errors.New("token: expiry exceeds the maximum lifetime")
)
