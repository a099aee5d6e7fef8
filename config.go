package tokenauth

import (
	"fmt"

	"github.com/clipstream/tokenauth/internal/token"
)

// Development secrets used when nothing else is configured. Production mode
// refuses to start with either of them.
const (
	DefaultAccessSecret  = "dev-access-secret-change-me"
	DefaultRefreshSecret = "dev-refresh-secret-change-me"
)

// DefaultMinSecretLength is the production-mode minimum secret length in bytes.
const DefaultMinSecretLength = 32

// Config is the full engine configuration. Build it with DefaultConfig or
// LoadConfig and treat it as immutable once passed to a Builder.
type Config struct {
	Token    TokenConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	Security SecurityConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig holds the signing secrets and lifetimes. Expiry strings use
// the "<n><s|m|h|d>" grammar; anything else falls back to 15 minutes.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  string
	RefreshExpiry string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
	// EmitVerified also reports successful verifications, which is one
	// event per authenticated request.
	EmitVerified bool
}

// MetricsConfig enables the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig gates production-only checks.
type SecurityConfig struct {
	ProductionMode  bool
	MinSecretLength int
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the development defaults: dev secrets, 15m/7d
// lifetimes, metrics on, audit off.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessSecret:  DefaultAccessSecret,
			RefreshSecret: DefaultRefreshSecret,
			AccessExpiry:  token.DefaultAccessExpiry,
			RefreshExpiry: token.DefaultRefreshExpiry,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
		Security: SecurityConfig{
			ProductionMode:  false,
			MinSecretLength: DefaultMinSecretLength,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports configuration that cannot produce a working engine.
// Malformed expiry strings are not errors; they fall back to 15 minutes and
// are reported by Lint instead.
func (c *Config) Validate() error {
	if c.Token.AccessSecret == "" {
		return fmt.Errorf("%w: access secret is required", ErrInvalidConfig)
	}
	if c.Token.RefreshSecret == "" {
		return fmt.Errorf("%w: refresh secret is required", ErrInvalidConfig)
	}
	if c.Audit.BufferSize < 0 {
		return fmt.Errorf("%w: audit buffer size must be >= 0", ErrInvalidConfig)
	}
	if c.Security.MinSecretLength < 0 {
		return fmt.Errorf("%w: minimum secret length must be >= 0", ErrInvalidConfig)
	}

	if c.Security.ProductionMode {
		if err := checkProductionSecret("access", c.Token.AccessSecret, c.Security.MinSecretLength); err != nil {
			return err
		}
		if err := checkProductionSecret("refresh", c.Token.RefreshSecret, c.Security.MinSecretLength); err != nil {
			return err
		}
	}
	return nil
}

func checkProductionSecret(name, secret string, minLen int) error {
	if isDevelopmentSecret(secret) {
		return fmt.Errorf("%w: %s secret is a development default", ErrInsecureSecret, name)
	}
	if len(secret) < minLen {
		return fmt.Errorf("%w: %s secret is shorter than %d bytes", ErrInsecureSecret, name, minLen)
	}
	return nil
}

func isDevelopmentSecret(secret string) bool {
	return secret == DefaultAccessSecret || secret == DefaultRefreshSecret
}

func (c *Config) usesDevelopmentSecrets() bool {
	return isDevelopmentSecret(c.Token.AccessSecret) || isDevelopmentSecret(c.Token.RefreshSecret)
}

func (c *Config) managerConfig() token.Config {
	return token.Config{
		AccessSecret:  []byte(c.Token.AccessSecret),
		RefreshSecret: []byte(c.Token.RefreshSecret),
		AccessExpiry:  c.Token.AccessExpiry,
		RefreshExpiry: c.Token.RefreshExpiry,
	}
}
