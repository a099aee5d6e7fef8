package token

import (
	"encoding/json"
	"fmt"
	"time"
)

// maxLifetimeSeconds bounds configured expiries so iat+lifetime cannot overflow.
const maxLifetimeSeconds int64 = 100 * 365 * 24 * 60 * 60

// Config carries the per-instance secrets and lifetimes of a Manager.
// AccessExpiry and RefreshExpiry use the ParseExpiry grammar and default to
// DefaultAccessExpiry and DefaultRefreshExpiry when empty.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessExpiry  string
	RefreshExpiry string
	Now           func() time.Time
}

// Manager mints and verifies tokens for both classes. It is immutable after
// NewManager and safe for concurrent use.
type Manager struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessLifetime  int64
	refreshLifetime int64
	headerSegment   string
	now             func() time.Time
}

// NewManager validates cfg and returns a Manager that owns copies of the secrets.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, fmt.Errorf("%w: access", ErrMissingSecret)
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, fmt.Errorf("%w: refresh", ErrMissingSecret)
	}
	if cfg.AccessExpiry == "" {
		cfg.AccessExpiry = DefaultAccessExpiry
	}
	if cfg.RefreshExpiry == "" {
		cfg.RefreshExpiry = DefaultRefreshExpiry
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	accessLifetime := ParseExpiry(cfg.AccessExpiry)
	refreshLifetime := ParseExpiry(cfg.RefreshExpiry)
	if accessLifetime > maxLifetimeSeconds {
		return nil, fmt.Errorf("%w: access %q", ErrInvalidExpiry, cfg.AccessExpiry)
	}
	if refreshLifetime > maxLifetimeSeconds {
		return nil, fmt.Errorf("%w: refresh %q", ErrInvalidExpiry, cfg.RefreshExpiry)
	}

	headerSegment, err := EncodeSegment(defaultHeader)
	if err != nil {
		return nil, err
	}

	return &Manager{
		accessSecret:    append([]byte(nil), cfg.AccessSecret...),
		refreshSecret:   append([]byte(nil), cfg.RefreshSecret...),
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
		headerSegment:   headerSegment,
		now:             cfg.Now,
	}, nil
}

// Lifetime returns the configured lifetime of class, or zero for an unknown class.
func (m *Manager) Lifetime(class Class) time.Duration {
	switch class {
	case ClassAccess:
		return time.Duration(m.accessLifetime) * time.Second
	case ClassRefresh:
		return time.Duration(m.refreshLifetime) * time.Second
	default:
		return 0
	}
}

// Mint issues a token of the given class for the principal. Errors are only
// returned for integration mistakes: an unknown class or an empty field.
func (m *Manager) Mint(subjectID, email, role string, class Class) (string, Claims, error) {
	switch {
	case !class.Valid():
		return "", Claims{}, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	case subjectID == "":
		return "", Claims{}, ErrMissingSubject
	case email == "":
		return "", Claims{}, ErrMissingEmail
	case role == "":
		return "", Claims{}, ErrMissingRole
	}

	secret, lifetime := m.keyFor(class)
	issuedAt := m.now().Unix()
	claims := Claims{
		UserID:    subjectID,
		Email:     email,
		Role:      role,
		Class:     class,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt + lifetime,
	}

	payloadSegment, err := EncodeSegment(claims)
	if err != nil {
		return "", Claims{}, err
	}
	signature := Sign(m.headerSegment, payloadSegment, secret)
	return m.headerSegment + "." + payloadSegment + "." + signature, claims, nil
}

// Inspect runs every verification step and reports which one failed. The
// signature is checked with the secret of expected, never with the class the
// payload claims; the embedded class is compared only after decoding.
func (m *Manager) Inspect(token string, expected Class) (Claims, Outcome) {
	if !expected.Valid() {
		return Claims{}, OutcomeWrongClass
	}
	parts, ok := splitToken(token)
	if !ok {
		return Claims{}, OutcomeMalformed
	}

	secret, _ := m.keyFor(expected)
	if !verifyParts(parts, secret) {
		return Claims{}, OutcomeBadSignature
	}

	var header map[string]json.RawMessage
	if err := DecodeSegment(parts[0], &header); err != nil || header == nil {
		return Claims{}, OutcomeMalformed
	}

	var claims Claims
	if err := DecodeSegment(parts[1], &claims); err != nil || claims.UserID == "" {
		return Claims{}, OutcomeMalformed
	}

	if claims.ExpiresAt < m.now().Unix() {
		return Claims{}, OutcomeExpired
	}
	if claims.Class != expected {
		return Claims{}, OutcomeWrongClass
	}
	return claims, OutcomeOK
}

// Verify returns the claims of a valid token of the expected class, or nil.
func (m *Manager) Verify(token string, expected Class) (*Claims, bool) {
	claims, outcome := m.Inspect(token, expected)
	if outcome != OutcomeOK {
		return nil, false
	}
	return &claims, true
}

func (m *Manager) keyFor(class Class) ([]byte, int64) {
	if class == ClassRefresh {
		return m.refreshSecret, m.refreshLifetime
	}
	return m.accessSecret, m.accessLifetime
}
