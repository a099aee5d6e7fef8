// Package token implements the HS256 compact token codec used by tokenauth:
// segment encoding, HMAC-SHA256 signing, expiry parsing, and the mint/verify
// lifecycle for access and refresh token classes.
//
// # Architecture boundaries
//
// The package is pure computation. It reads the clock through Config.Now and
// performs no I/O, holds no package-level secrets, and takes no locks, so a
// Manager can be shared by any number of goroutines.
//
// # What this package must NOT do
//
//   - Tell callers of Verify why a token was rejected. Inspect exposes the
//     reason to the engine for metrics and audit only.
//   - Panic on adversarial input.
package token
