package tokenauth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envSettings is the flat environment surface read by LoadConfig. Token
// lifetimes are intentionally absent: they are fixed at 15m and 7d for
// deployed services.
type envSettings struct {
	AccessSecret      string `envconfig:"JWT_ACCESS_SECRET" default:"dev-access-secret-change-me"`
	RefreshSecret     string `envconfig:"JWT_REFRESH_SECRET" default:"dev-refresh-secret-change-me"`
	AccessSecretFile  string `envconfig:"JWT_ACCESS_SECRET_FILE"`
	RefreshSecretFile string `envconfig:"JWT_REFRESH_SECRET_FILE"`

	ProductionMode  bool `envconfig:"TOKENAUTH_PRODUCTION" default:"false"`
	MinSecretLength int  `envconfig:"TOKENAUTH_MIN_SECRET_LENGTH" default:"32"`

	AuditEnabled      bool `envconfig:"TOKENAUTH_AUDIT_ENABLED" default:"false"`
	AuditBufferSize   int  `envconfig:"TOKENAUTH_AUDIT_BUFFER" default:"1024"`
	AuditDropIfFull   bool `envconfig:"TOKENAUTH_AUDIT_DROP_IF_FULL" default:"true"`
	AuditEmitVerified bool `envconfig:"TOKENAUTH_AUDIT_EMIT_VERIFIED" default:"false"`

	MetricsEnabled    bool `envconfig:"TOKENAUTH_METRICS_ENABLED" default:"true"`
	LatencyHistograms bool `envconfig:"TOKENAUTH_LATENCY_HISTOGRAMS" default:"false"`
}

// LoadConfig reads the engine configuration from the process environment.
// When envFile is non-empty and exists it is loaded first; variables already
// present in the environment win. *_SECRET_FILE variables point at files
// (Docker secrets) whose trimmed content replaces the plain secret variable.
//
// The returned Config has been validated, so in production mode a missing
// secret (which leaves the development default in place) is an error.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var env envSettings
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("process env vars: %w", err)
	}

	if env.AccessSecretFile != "" {
		secret, err := readSecretFile(env.AccessSecretFile)
		if err != nil {
			return Config{}, err
		}
		env.AccessSecret = secret
	}
	if env.RefreshSecretFile != "" {
		secret, err := readSecretFile(env.RefreshSecretFile)
		if err != nil {
			return Config{}, err
		}
		env.RefreshSecret = secret
	}

	cfg := DefaultConfig()
	cfg.Token.AccessSecret = env.AccessSecret
	cfg.Token.RefreshSecret = env.RefreshSecret
	cfg.Security.ProductionMode = env.ProductionMode
	cfg.Security.MinSecretLength = env.MinSecretLength
	cfg.Audit = AuditConfig{
		Enabled:      env.AuditEnabled,
		BufferSize:   env.AuditBufferSize,
		DropIfFull:   env.AuditDropIfFull,
		EmitVerified: env.AuditEmitVerified,
	}
	cfg.Metrics = MetricsConfig{
		Enabled:                 env.MetricsEnabled,
		EnableLatencyHistograms: env.LatencyHistograms,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readSecretFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret file %s: %w", path, err)
	}
	secret := strings.TrimSpace(string(raw))
	if secret == "" {
		return "", fmt.Errorf("%w: secret file %s is empty", ErrInvalidConfig, path)
	}
	return secret, nil
}
