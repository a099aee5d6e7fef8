// Package rate implements a Redis fixed-window attempt limiter.
//
// Callers Check before doing work, Hit on failure and Reset on success.
// A window opens on the first Hit for a key and expires after Window, so a
// key that keeps failing is locked out until the window ends.
package rate
