// Package middleware exposes net/http adapters that guard routes with
// tokenauth.Engine verification.
//
// # Guards
//
//   - [Guard] checks the bearer token against a given token class.
//   - [RequireAccess] admits valid access tokens.
//   - [RequireRefresh] admits valid refresh tokens.
//
// Each guard reads the Authorization header, verifies the token and stores
// the claims in the request context, where [ClaimsFromContext] finds them.
// Malformed, forged, expired and wrong-class tokens all get the same
// "401 unauthorized" response so callers cannot tell the causes apart.
//
// The package never parses tokens itself; every decision comes from the
// Verifier.
package middleware
