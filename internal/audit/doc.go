// Package audit holds the audit event model and the asynchronous dispatcher
// that forwards token lifecycle events to a sink off the hot path.
//
// The dispatcher never blocks Mint or Verify beyond a channel send; with
// DropIfFull set it never blocks at all and counts what it drops.
package audit
