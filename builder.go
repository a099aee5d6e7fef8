package tokenauth

import (
	"fmt"
	"time"

	"github.com/clipstream/tokenauth/internal/audit"
	"github.com/clipstream/tokenauth/internal/token"
	"go.uber.org/zap"
)

// Builder assembles an Engine. Configure it during initialization and call
// Build exactly once.
type Builder struct {
	config    Config
	logger    *zap.Logger
	auditSink AuditSink
	now       func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithLogger sets the logger. The engine logs under the "tokenauth" name.
func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// WithAuditSink sets where audit events go. It has no effect unless
// Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock overrides the time source used for iat, exp and expiry checks.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled toggles the engine counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the verify latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("tokenauth")

	if cfg.usesDevelopmentSecrets() {
		logger.Warn("development signing secrets in use; set JWT_ACCESS_SECRET and JWT_REFRESH_SECRET")
	}
	for _, w := range cfg.Lint().BySeverity(LintWarn) {
		logger.Warn("configuration warning", zap.String("code", w.Code), zap.String("severity", w.Severity.String()), zap.String("message", w.Message))
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	managerCfg := cfg.managerConfig()
	managerCfg.Now = now
	manager, err := token.NewManager(managerCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var dispatcher *audit.Dispatcher
	if cfg.Audit.Enabled {
		sink := b.auditSink
		if sink == nil {
			sink = NoOpSink{}
		}
		dispatcher = audit.NewDispatcher(audit.Config{
			Enabled:    true,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, sink)
	}

	logger.Info("token engine ready",
		zap.Duration("accessLifetime", manager.Lifetime(token.ClassAccess)),
		zap.Duration("refreshLifetime", manager.Lifetime(token.ClassRefresh)),
		zap.Bool("production", cfg.Security.ProductionMode),
		zap.Bool("audit", cfg.Audit.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)

	return &Engine{
		config:  cfg,
		manager: manager,
		metrics: NewMetrics(cfg.Metrics),
		audit:   dispatcher,
		logger:  logger,
		now:     now,
	}, nil
}
