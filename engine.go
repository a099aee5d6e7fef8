package tokenauth

import (
	"context"
	"time"

	"github.com/clipstream/tokenauth/internal/audit"
	"github.com/clipstream/tokenauth/internal/token"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine mints and verifies access and refresh tokens. It is safe for
// concurrent use. Build one with New().Build().
type Engine struct {
	config  Config
	manager *token.Manager
	metrics *Metrics
	audit   *audit.Dispatcher
	logger  *zap.Logger
	now     func() time.Time
}

// Close flushes pending audit events and stops the dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped returns the number of audit events that never reached the
// sink: those refused under backpressure and those emitted after Close.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return emptySnapshot()
	}
	return e.metrics.Snapshot()
}

// Lifetime reports how long tokens of class stay valid.
func (e *Engine) Lifetime(class TokenClass) time.Duration {
	if e == nil || e.manager == nil {
		return 0
	}
	return e.manager.Lifetime(class)
}

/*
====================================
MINT
====================================
*/

// MintAccessToken issues a signed access token for the principal.
func (e *Engine) MintAccessToken(subjectID, email, role string) (string, error) {
	tok, _, err := e.mint(subjectID, email, role, token.ClassAccess)
	return tok, err
}

// MintRefreshToken issues a signed refresh token for the principal.
func (e *Engine) MintRefreshToken(subjectID, email, role string) (string, error) {
	tok, _, err := e.mint(subjectID, email, role, token.ClassRefresh)
	return tok, err
}

// MintTokenPair issues an access and a refresh token for the principal.
func (e *Engine) MintTokenPair(subjectID, email, role string) (TokenPair, error) {
	access, accessClaims, err := e.mint(subjectID, email, role, token.ClassAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshClaims, err := e.mint(subjectID, email, role, token.ClassRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  time.Unix(accessClaims.ExpiresAt, 0).UTC(),
		RefreshExpiresAt: time.Unix(refreshClaims.ExpiresAt, 0).UTC(),
	}, nil
}

func (e *Engine) mint(subjectID, email, role string, class token.Class) (string, token.Claims, error) {
	if e == nil || e.manager == nil {
		return "", token.Claims{}, ErrEngineNotReady
	}

	tok, claims, err := e.manager.Mint(subjectID, email, role, class)
	if err != nil {
		e.metrics.Inc(MetricMintRejected)
		e.logger.Debug("mint rejected", zap.String("tokenClass", string(class)), zap.Error(err))
		return "", token.Claims{}, err
	}

	if class == token.ClassRefresh {
		e.metrics.Inc(MetricRefreshMinted)
	} else {
		e.metrics.Inc(MetricAccessMinted)
	}
	e.emitAudit(audit.EventTokenMinted, true, claims.UserID, class, "")
	return tok, claims, nil
}

/*
====================================
VERIFY
====================================
*/

// VerifyAccessToken returns the claims of a valid access token, or nil when
// the token is malformed, forged, expired or of the wrong class.
func (e *Engine) VerifyAccessToken(tok string) *Claims {
	return e.verify(tok, token.ClassAccess)
}

// VerifyRefreshToken returns the claims of a valid refresh token, or nil.
func (e *Engine) VerifyRefreshToken(tok string) *Claims {
	return e.verify(tok, token.ClassRefresh)
}

func (e *Engine) verify(tok string, class token.Class) *Claims {
	if e == nil || e.manager == nil {
		return nil
	}

	start := time.Now()
	claims, outcome := e.manager.Inspect(tok, class)
	e.metrics.Observe(MetricVerifyLatency, time.Since(start))

	if outcome != token.OutcomeOK {
		if id, ok := outcomeMetric(outcome); ok {
			e.metrics.Inc(id)
		}
		e.logger.Debug("token rejected", zap.String("tokenClass", string(class)), zap.Stringer("outcome", outcome))
		e.emitAudit(audit.EventTokenRejected, false, "", class, outcome.String())
		return nil
	}

	if class == token.ClassRefresh {
		e.metrics.Inc(MetricRefreshVerified)
	} else {
		e.metrics.Inc(MetricAccessVerified)
	}
	if e.config.Audit.EmitVerified {
		e.emitAudit(audit.EventTokenVerified, true, claims.UserID, class, "")
	}
	return &claims
}

/*
====================================
REFRESH
====================================
*/

// RefreshAccess exchanges a valid refresh token for a new token pair bound
// to the same principal. Any verification failure yields ErrUnauthorized.
func (e *Engine) RefreshAccess(refreshToken string) (TokenPair, error) {
	if e == nil || e.manager == nil {
		return TokenPair{}, ErrEngineNotReady
	}
	claims := e.VerifyRefreshToken(refreshToken)
	if claims == nil {
		return TokenPair{}, ErrUnauthorized
	}
	return e.MintTokenPair(claims.UserID, claims.Email, claims.Role)
}

func (e *Engine) emitAudit(eventType string, success bool, userID string, class token.Class, reason string) {
	if e.audit == nil {
		return
	}
	e.audit.Emit(context.Background(), AuditEvent{
		ID:         uuid.NewString(),
		Timestamp:  e.now().UTC(),
		EventType:  eventType,
		UserID:     userID,
		TokenClass: string(class),
		Success:    success,
		Reason:     reason,
	})
}
