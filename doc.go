// Package tokenauth issues and verifies the signed access and refresh tokens
// used by the video platform's REST layer.
//
// Tokens are compact HS256 JWS strings carrying userId, email, role, type,
// iat and exp. Access and refresh tokens use separate secrets and lifetimes
// (15 minutes and 7 days by default).
//
// # Contract
//
// [Engine.VerifyAccessToken] and [Engine.VerifyRefreshToken] return the
// claims of a valid token or nil. A nil result never says why: malformed,
// forged, expired and wrong-class tokens are indistinguishable to callers,
// who should answer with 401. The reason is still counted in [Metrics] and
// reported to the configured [AuditSink].
//
// Mint operations only fail on integration mistakes such as an empty subject.
//
// # Concurrency
//
// An [Engine] is immutable after [Builder.Build] and safe for concurrent use.
// The verify path takes no locks and performs no I/O; audit delivery happens
// on a background goroutine.
package tokenauth
