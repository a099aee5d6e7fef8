package internaldefs

import (
	"github.com/clipstream/tokenauth"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   tokenauth.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for exporters.
type HistogramDef struct {
	ID   tokenauth.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter reporting audit events lost to backpressure.
const (
	AuditDroppedName = "tokenauth_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

var CounterDefs = []CounterDef{
	{ID: tokenauth.MetricAccessMinted, Name: "tokenauth_access_minted_total", Help: "Access tokens issued."},
	{ID: tokenauth.MetricRefreshMinted, Name: "tokenauth_refresh_minted_total", Help: "Refresh tokens issued."},
	{ID: tokenauth.MetricMintRejected, Name: "tokenauth_mint_rejected_total", Help: "Mint calls rejected for missing principal fields."},
	{ID: tokenauth.MetricAccessVerified, Name: "tokenauth_access_verified_total", Help: "Access tokens that passed verification."},
	{ID: tokenauth.MetricRefreshVerified, Name: "tokenauth_refresh_verified_total", Help: "Refresh tokens that passed verification."},
	{ID: tokenauth.MetricVerifyMalformed, Name: "tokenauth_verify_malformed_total", Help: "Tokens rejected as structurally invalid."},
	{ID: tokenauth.MetricVerifyBadSignature, Name: "tokenauth_verify_bad_signature_total", Help: "Tokens rejected for a signature mismatch."},
	{ID: tokenauth.MetricVerifyExpired, Name: "tokenauth_verify_expired_total", Help: "Tokens rejected as expired."},
	{ID: tokenauth.MetricVerifyWrongClass, Name: "tokenauth_verify_wrong_class_total", Help: "Tokens rejected for carrying the other token class."},
}

var HistogramDefs = []HistogramDef{
	{ID: tokenauth.MetricVerifyLatency, Name: "tokenauth_verify_latency_seconds", Help: "Token verification latency."},
}

// BucketCount is the number of histogram buckets including +Inf.
const BucketCount = len(tokenauth.LatencyBucketBounds) + 1

// HistogramBounds are the finite upper bounds in seconds, in bucket order.
var HistogramBounds = func() []float64 {
	out := make([]float64, 0, len(tokenauth.LatencyBucketBounds))
	for _, d := range tokenauth.LatencyBucketBounds {
		out = append(out, d.Seconds())
	}
	return out
}()

// HistogramBoundSuffix names each bucket, +Inf last, for exporters that
// flatten buckets into separate instruments.
var HistogramBoundSuffix = []string{
	"10us",
	"25us",
	"50us",
	"100us",
	"250us",
	"500us",
	"1ms",
	"inf",
}

// NormalizeBuckets pads or truncates raw to BucketCount entries.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
