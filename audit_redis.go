package tokenauth

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultAuditStream is the Redis stream RedisStreamSink appends to.
const DefaultAuditStream = "tokenauth:audit"

// RedisStreamSink appends audit events to a Redis stream with XADD, trimming
// it to roughly MaxLen entries. Failures are logged and counted, never retried.
type RedisStreamSink struct {
	client  redis.UniversalClient
	stream  string
	maxLen  int64
	timeout time.Duration
	logger  *zap.Logger
	failed  atomic.Uint64
}

// RedisStreamOption customizes a RedisStreamSink.
type RedisStreamOption func(*RedisStreamSink)

func WithStream(name string) RedisStreamOption {
	return func(s *RedisStreamSink) {
		if name != "" {
			s.stream = name
		}
	}
}

// WithMaxLen caps the stream length; zero disables trimming.
func WithMaxLen(n int64) RedisStreamOption {
	return func(s *RedisStreamSink) {
		if n >= 0 {
			s.maxLen = n
		}
	}
}

func WithWriteTimeout(d time.Duration) RedisStreamOption {
	return func(s *RedisStreamSink) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithSinkLogger(l *zap.Logger) RedisStreamOption {
	return func(s *RedisStreamSink) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewRedisStreamSink(client redis.UniversalClient, opts ...RedisStreamOption) *RedisStreamSink {
	s := &RedisStreamSink{
		client:  client,
		stream:  DefaultAuditStream,
		maxLen:  100_000,
		timeout: time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("audit.redis")
	return s
}

func (s *RedisStreamSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: streamValues(event),
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		s.failed.Add(1)
		s.logger.Warn("audit event not written", zap.String("stream", s.stream), zap.String("eventType", event.EventType), zap.Error(err))
	}
}

// Failed returns how many events could not be written.
func (s *RedisStreamSink) Failed() uint64 {
	if s == nil {
		return 0
	}
	return s.failed.Load()
}

func streamValues(event AuditEvent) map[string]any {
	success := "0"
	if event.Success {
		success = "1"
	}
	values := map[string]any{
		"id":          event.ID,
		"timestamp":   event.Timestamp.UTC().Format(time.RFC3339Nano),
		"event_type":  event.EventType,
		"token_class": event.TokenClass,
		"success":     success,
	}
	if event.UserID != "" {
		values["user_id"] = event.UserID
	}
	if event.Reason != "" {
		values["reason"] = event.Reason
	}
	for k, v := range event.Metadata {
		values["meta."+k] = v
	}
	return values
}
