package token

import (
	"math"
	"strconv"
	"time"
)

// DefaultExpirySeconds is returned by ParseExpiry for any input it cannot read.
const DefaultExpirySeconds int64 = 900

const (
	DefaultAccessExpiry  = "15m"
	DefaultRefreshExpiry = "7d"
)

var unitSeconds = map[byte]int64{
	's': 1,
	'm': 60,
	'h': 60 * 60,
	'd': 24 * 60 * 60,
}

// ParseExpiry converts a compact duration such as "15m" or "7d" into seconds.
// The grammar is one or more ASCII digits followed by exactly one of s, m, h, d.
// Malformed, zero, or overflowing values fall back to DefaultExpirySeconds.
func ParseExpiry(s string) int64 {
	secs, ok := LookupExpiry(s)
	if !ok {
		return DefaultExpirySeconds
	}
	return secs
}

// LookupExpiry is ParseExpiry without the fallback: ok is false whenever
// ParseExpiry would have substituted DefaultExpirySeconds.
func LookupExpiry(s string) (int64, bool) {
	if len(s) < 2 {
		return 0, false
	}
	factor, ok := unitSeconds[s[len(s)-1]]
	if !ok {
		return 0, false
	}
	digits := s[:len(s)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || value <= 0 || value > math.MaxInt64/factor {
		return 0, false
	}
	return value * factor, true
}

// ExpiryDuration is ParseExpiry expressed as a time.Duration.
func ExpiryDuration(s string) time.Duration {
	secs := ParseExpiry(s)
	if secs > int64(math.MaxInt64/time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs) * time.Second
}
