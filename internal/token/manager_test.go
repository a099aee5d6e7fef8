package token

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Unix(1_700_000_000, 0)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T, clock *testClock) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		Now:           clock.Now,
	})
	require.NoError(t, err)
	return m
}

func TestNewManagerValidatesConfig(t *testing.T) {
	_, err := NewManager(Config{RefreshSecret: []byte("r")})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewManager(Config{AccessSecret: []byte("a")})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewManager(Config{AccessSecret: []byte("a"), RefreshSecret: []byte("r"), RefreshExpiry: "999999999d"})
	assert.ErrorIs(t, err, ErrInvalidExpiry)

	m, err := NewManager(Config{AccessSecret: []byte("a"), RefreshSecret: []byte("r")})
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, m.Lifetime(ClassAccess))
	assert.Equal(t, 7*24*time.Hour, m.Lifetime(ClassRefresh))
	assert.Zero(t, m.Lifetime(Class("other")))
}

func TestNewManagerCopiesSecrets(t *testing.T) {
	secret := []byte("access-secret")
	clock := &testClock{now: testEpoch}
	m, err := NewManager(Config{AccessSecret: secret, RefreshSecret: []byte("refresh"), Now: clock.Now})
	require.NoError(t, err)

	tok, _, err := m.Mint("u1", "u1@x.com", "user", ClassAccess)
	require.NoError(t, err)

	secret[0] = 'X'
	_, ok := m.Verify(tok, ClassAccess)
	assert.True(t, ok, "mutating the caller's slice must not affect the manager")
}

func TestMintRejectsProgrammerErrors(t *testing.T) {
	m := newTestManager(t, &testClock{now: testEpoch})

	_, _, err := m.Mint("", "e", "r", ClassAccess)
	assert.ErrorIs(t, err, ErrMissingSubject)
	_, _, err = m.Mint("u", "", "r", ClassAccess)
	assert.ErrorIs(t, err, ErrMissingEmail)
	_, _, err = m.Mint("u", "e", "", ClassAccess)
	assert.ErrorIs(t, err, ErrMissingRole)
	_, _, err = m.Mint("u", "e", "r", Class("id"))
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestMintVerifyRoundTrip(t *testing.T) {
	clock := &testClock{now: testEpoch}
	m := newTestManager(t, clock)

	for _, class := range []Class{ClassAccess, ClassRefresh} {
		t.Run(string(class), func(t *testing.T) {
			tok, minted, err := m.Mint("u1", "u1@x.com", "user", class)
			require.NoError(t, err)
			require.Len(t, strings.Split(tok, "."), 3)

			got, ok := m.Verify(tok, class)
			require.True(t, ok)
			require.NotNil(t, got)
			assert.Equal(t, minted, *got)
			assert.Equal(t, "u1", got.UserID)
			assert.Equal(t, "u1@x.com", got.Email)
			assert.Equal(t, "user", got.Role)
			assert.Equal(t, class, got.Class)
			assert.Equal(t, testEpoch.Unix(), got.IssuedAt)
			assert.Equal(t, testEpoch.Unix()+int64(m.Lifetime(class)/time.Second), got.ExpiresAt)
			assert.Greater(t, got.ExpiresAt, got.IssuedAt)
		})
	}
}

func TestVerifyIsRepeatable(t *testing.T) {
	m := newTestManager(t, &testClock{now: testEpoch})
	tok, _, err := m.Mint("u1", "u1@x.com", "user", ClassAccess)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, ok := m.Verify(tok, ClassAccess)
		assert.True(t, ok)
	}
}

func TestVerifyRejectsEverySingleCharacterTamper(t *testing.T) {
	m := newTestManager(t, &testClock{now: testEpoch})
	tok, _, err := m.Mint("u1", "u1@x.com", "user", ClassAccess)
	require.NoError(t, err)

	for i := 0; i < len(tok); i++ {
		if tok[i] == '.' {
			continue
		}
		replacement := byte('A')
		if tok[i] == 'A' {
			replacement = 'B'
		}
		tampered := tok[:i] + string(replacement) + tok[i+1:]

		claims, ok := m.Verify(tampered, ClassAccess)
		assert.False(t, ok, "tamper at index %d accepted", i)
		assert.Nil(t, claims)
	}
}

func TestVerifyEnforcesExpiry(t *testing.T) {
	clock := &testClock{now: testEpoch}
	m := newTestManager(t, clock)

	tok, _, err := m.Mint("u1", "u1@x.com", "user", ClassAccess)
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	_, outcome := m.Inspect(tok, ClassAccess)
	assert.Equal(t, OutcomeOK, outcome, "exp equal to now is still valid")

	clock.Advance(time.Second)
	_, outcome = m.Inspect(tok, ClassAccess)
	assert.Equal(t, OutcomeExpired, outcome)

	claims, ok := m.Verify(tok, ClassAccess)
	assert.False(t, ok)
	assert.Nil(t, claims)
}

func TestVerifyRejectsTokenIssuedBeforeLifetime(t *testing.T) {
	lifetime := 15 * time.Minute
	clock := &testClock{now: testEpoch.Add(-lifetime - time.Second)}
	m := newTestManager(t, clock)

	tok, _, err := m.Mint("u1", "u1@x.com", "user", ClassAccess)
	require.NoError(t, err)

	clock.Advance(lifetime + time.Second)
	_, outcome := m.Inspect(tok, ClassAccess)
	assert.Equal(t, OutcomeExpired, outcome)
}

func TestVerifyRejectsCrossClass(t *testing.T) {
	clock := &testClock{now: testEpoch}
	m := newTestManager(t, clock)

	access, _, err := m.Mint("u1", "u1@x.com", "user", ClassAccess)
	require.NoError(t, err)
	refresh, _, err := m.Mint("u1", "u1@x.com", "user", ClassRefresh)
	require.NoError(t, err)

	_, outcome := m.Inspect(access, ClassRefresh)
	assert.Equal(t, OutcomeBadSignature, outcome)
	_, outcome = m.Inspect(refresh, ClassAccess)
	assert.Equal(t, OutcomeBadSignature, outcome)
}

func TestVerifyRejectsCrossClassWithSharedSecret(t *testing.T) {
	clock := &testClock{now: testEpoch}
	shared := []byte("one-secret-for-both-classes")
	m, err := NewManager(Config{AccessSecret: shared, RefreshSecret: shared, Now: clock.Now})
	require.NoError(t, err)

	access, _, err := m.Mint("u1", "u1@x.com", "user", ClassAccess)
	require.NoError(t, err)
	refresh, _, err := m.Mint("u1", "u1@x.com", "user", ClassRefresh)
	require.NoError(t, err)

	_, outcome := m.Inspect(access, ClassRefresh)
	assert.Equal(t, OutcomeWrongClass, outcome)
	_, outcome = m.Inspect(refresh, ClassAccess)
	assert.Equal(t, OutcomeWrongClass, outcome)

	_, ok := m.Verify(access, ClassRefresh)
	assert.False(t, ok)
	_, ok = m.Verify(refresh, ClassAccess)
	assert.False(t, ok)
}

func TestInspectOutcomes(t *testing.T) {
	clock := &testClock{now: testEpoch}
	m := newTestManager(t, clock)
	secret := []byte("access-secret-for-tests")

	signed := func(headerSeg, payloadSeg string) string {
		return headerSeg + "." + payloadSeg + "." + Sign(headerSeg, payloadSeg, secret)
	}
	header, err := EncodeSegment(defaultHeader)
	require.NoError(t, err)
	validPayload, err := EncodeSegment(Claims{UserID: "u1", Email: "e", Role: "r", Class: ClassAccess, IssuedAt: testEpoch.Unix(), ExpiresAt: testEpoch.Unix() + 60})
	require.NoError(t, err)
	noSubject, err := EncodeSegment(Claims{Email: "e", Role: "r", Class: ClassAccess, ExpiresAt: testEpoch.Unix() + 60})
	require.NoError(t, err)

	cases := []struct {
		name  string
		token string
		want  Outcome
	}{
		{name: "valid", token: signed(header, validPayload), want: OutcomeOK},
		{name: "empty", token: "", want: OutcomeMalformed},
		{name: "one segment", token: "abc", want: OutcomeMalformed},
		{name: "two segments", token: header + "." + validPayload, want: OutcomeMalformed},
		{name: "four segments", token: signed(header, validPayload) + ".x", want: OutcomeMalformed},
		{name: "empty signature", token: header + "." + validPayload + ".", want: OutcomeMalformed},
		{name: "wrong secret", token: header + "." + validPayload + "." + Sign(header, validPayload, []byte("nope")), want: OutcomeBadSignature},
		{name: "payload not base64", token: signed(header, "%%%%"), want: OutcomeMalformed},
		{name: "payload not json", token: signed(header, base64URLEncode([]byte("{"))), want: OutcomeMalformed},
		{name: "payload null", token: signed(header, base64URLEncode([]byte("null"))), want: OutcomeMalformed},
		{name: "payload without subject", token: signed(header, noSubject), want: OutcomeMalformed},
		{name: "header not json", token: signed(base64URLEncode([]byte("x")), validPayload), want: OutcomeMalformed},
		{name: "header null", token: signed(base64URLEncode([]byte("null")), validPayload), want: OutcomeMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, got := m.Inspect(tc.token, ClassAccess)
			assert.Equal(t, tc.want, got)
		})
	}

	_, got := m.Inspect(signed(header, validPayload), Class("bogus"))
	assert.Equal(t, OutcomeWrongClass, got)
}

func TestEndToEndAccessScenario(t *testing.T) {
	clock := &testClock{now: testEpoch}
	m := newTestManager(t, clock)

	tok, _, err := m.Mint("u1", "u1@x.com", "user", ClassAccess)
	require.NoError(t, err)

	claims, ok := m.Verify(tok, ClassAccess)
	require.True(t, ok)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, ClassAccess, claims.Class)

	clock.Advance(15*time.Minute + time.Second)
	claims, ok = m.Verify(tok, ClassAccess)
	assert.False(t, ok)
	assert.Nil(t, claims)
}

func TestManagerConcurrentUse(t *testing.T) {
	m := newTestManager(t, &testClock{now: testEpoch})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tok, _, err := m.Mint("u1", "u1@x.com", "user", ClassRefresh)
				if err != nil {
					t.Error(err)
					return
				}
				if _, ok := m.Verify(tok, ClassRefresh); !ok {
					t.Error("concurrent verify failed")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "malformed", OutcomeMalformed.String())
	assert.Equal(t, "bad_signature", OutcomeBadSignature.String())
	assert.Equal(t, "expired", OutcomeExpired.String())
	assert.Equal(t, "wrong_class", OutcomeWrongClass.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
