package tokenauth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clipstream/tokenauth/internal/token"
)

// LintSeverity ranks advisory configuration warnings.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning is one advisory finding. Code is stable and machine-readable.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintWarnings is the result of Config.Lint.
type LintWarnings []LintWarning

// Codes returns the warning codes in report order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns the warnings at or above min.
func (ws LintWarnings) BySeverity(min LintSeverity) LintWarnings {
	var out LintWarnings
	for _, w := range ws {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError joins every warning at or above min into one error, or returns nil.
func (ws LintWarnings) AsError(min LintSeverity) error {
	selected := ws.BySeverity(min)
	if len(selected) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(selected))
	for _, w := range selected {
		msgs = append(msgs, fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message))
	}
	return errors.New("config lint: " + strings.Join(msgs, "; "))
}

// Lint reports configuration that works but is risky. Unlike Validate it
// never blocks Build.
func (c Config) Lint() LintWarnings {
	var ws LintWarnings
	add := func(code string, sev LintSeverity, msg string) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	if c.Token.AccessSecret == DefaultAccessSecret {
		add("default_access_secret", LintHigh, "access secret is the development default")
	}
	if c.Token.RefreshSecret == DefaultRefreshSecret {
		add("default_refresh_secret", LintHigh, "refresh secret is the development default")
	}
	if c.Token.AccessSecret != "" && c.Token.AccessSecret == c.Token.RefreshSecret {
		add("shared_secret", LintWarn, "access and refresh tokens share one secret; only the type claim separates them")
	}
	if n := len(c.Token.AccessSecret); n > 0 && n < DefaultMinSecretLength {
		add("short_access_secret", LintWarn, fmt.Sprintf("access secret is %d bytes, want at least %d", n, DefaultMinSecretLength))
	}
	if n := len(c.Token.RefreshSecret); n > 0 && n < DefaultMinSecretLength {
		add("short_refresh_secret", LintWarn, fmt.Sprintf("refresh secret is %d bytes, want at least %d", n, DefaultMinSecretLength))
	}

	accessExpiry := orDefault(c.Token.AccessExpiry, token.DefaultAccessExpiry)
	refreshExpiry := orDefault(c.Token.RefreshExpiry, token.DefaultRefreshExpiry)
	if _, ok := token.LookupExpiry(accessExpiry); !ok {
		add("access_expiry_fallback", LintWarn, fmt.Sprintf("access expiry %q is malformed and falls back to 15m", accessExpiry))
	}
	if _, ok := token.LookupExpiry(refreshExpiry); !ok {
		add("refresh_expiry_fallback", LintWarn, fmt.Sprintf("refresh expiry %q is malformed and falls back to 15m", refreshExpiry))
	}
	accessSecs := token.ParseExpiry(accessExpiry)
	refreshSecs := token.ParseExpiry(refreshExpiry)
	if accessSecs > 60*60 {
		add("access_expiry_long", LintInfo, "access tokens live longer than one hour")
	}
	if refreshSecs <= accessSecs {
		add("refresh_expiry_short", LintWarn, "refresh tokens do not outlive access tokens")
	}

	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "verification failures are not audited")
	}
	return ws
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
