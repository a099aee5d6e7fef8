package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{in: "15m", want: 900},
		{in: "7d", want: 604800},
		{in: "30s", want: 30},
		{in: "2h", want: 7200},
		{in: "1s", want: 1},
		{in: "001m", want: 60},

		{in: "abc", want: DefaultExpirySeconds},
		{in: "15", want: DefaultExpirySeconds},
		{in: "-5m", want: DefaultExpirySeconds},
		{in: "+5m", want: DefaultExpirySeconds},
		{in: "", want: DefaultExpirySeconds},
		{in: "m", want: DefaultExpirySeconds},
		{in: "5w", want: DefaultExpirySeconds},
		{in: "5M", want: DefaultExpirySeconds},
		{in: "1.5h", want: DefaultExpirySeconds},
		{in: " 5m", want: DefaultExpirySeconds},
		{in: "5m ", want: DefaultExpirySeconds},
		{in: "1h30m", want: DefaultExpirySeconds},
		{in: "0m", want: DefaultExpirySeconds},
		{in: "99999999999999999999d", want: DefaultExpirySeconds},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseExpiry(tc.in))
		})
	}
}

func TestExpiryDuration(t *testing.T) {
	assert.Equal(t, 15*time.Minute, ExpiryDuration(DefaultAccessExpiry))
	assert.Equal(t, 7*24*time.Hour, ExpiryDuration(DefaultRefreshExpiry))
	assert.Equal(t, 15*time.Minute, ExpiryDuration("bogus"))
}

func TestLookupExpiryReportsFallback(t *testing.T) {
	secs, ok := LookupExpiry("2h")
	assert.True(t, ok)
	assert.Equal(t, int64(7200), secs)

	for _, in := range []string{"", "15", "-5m", "abc", "0s"} {
		_, ok := LookupExpiry(in)
		assert.False(t, ok, "input %q", in)
	}
}
