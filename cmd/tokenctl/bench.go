package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/clipstream/tokenauth"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type principal struct {
	id    string
	email string
	role  string
}

func runBench(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		envFile     = fs.String("env", ".env", "optional dotenv file")
		users       = fs.Int("users", 1000, "number of distinct principals")
		concurrency = fs.Int("concurrency", 64, "number of concurrent workers")
		ops         = fs.Int("ops", 200000, "operations per phase (mint + verify)")
		audit       = fs.Bool("audit", false, "stream audit events to redis while benchmarking")
		redisAddr   = fs.String("redis-addr", "", "redis address for -audit; if empty, REDIS_ADDR env or miniredis is used")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(stderr, "users, concurrency, and ops must be > 0")
		return 2
	}

	var opts []func(*tokenauth.Builder)
	if *audit {
		client, cleanup, err := openRedis(*redisAddr, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "redis: %v\n", err)
			return 1
		}
		defer cleanup()
		opts = append(opts, func(b *tokenauth.Builder) {
			b.WithAuditSink(tokenauth.NewRedisStreamSink(client))
		})
	}

	engine, log, err := buildEngine(*envFile, func(cfg *tokenauth.Config) {
		cfg.Metrics.Enabled = true
		cfg.Metrics.EnableLatencyHistograms = true
		cfg.Audit.Enabled = *audit
	}, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "engine: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	principals := make([]principal, *users)
	for i := range principals {
		id := uuid.NewString()
		principals[i] = principal{id: id, email: id + "@bench.local", role: "member"}
	}

	tokens := make([]string, len(principals))
	for i, p := range principals {
		tok, err := engine.MintAccessToken(p.id, p.email, p.role)
		if err != nil {
			fmt.Fprintf(stderr, "seed mint failed: %v\n", err)
			return 1
		}
		tokens[i] = tok
	}

	mintStats := runPhase(*ops, *concurrency, 7919, func(r *rand.Rand) bool {
		p := principals[r.Intn(len(principals))]
		_, err := engine.MintAccessToken(p.id, p.email, p.role)
		return err == nil
	})
	verifyStats := runPhase(*ops, *concurrency, 6151, func(r *rand.Rand) bool {
		return engine.VerifyAccessToken(tokens[r.Intn(len(tokens))]) != nil
	})

	engine.Close()

	fmt.Fprintln(stdout, "---- results ----")
	printStats(stdout, "mint", mintStats)
	printStats(stdout, "verify", verifyStats)
	printEngineMetrics(stdout, engine.MetricsSnapshot(), engine.AuditDropped())
	return 0
}

// runPhase spreads ops calls of op over concurrency workers and records
// per-call latency. op reports success.
func runPhase(ops, concurrency int, seed int64, op func(r *rand.Rand) bool) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*seed))
			local := make([]time.Duration, 0, ops/concurrency+1)
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					break
				}
				t0 := time.Now()
				ok := op(r)
				local = append(local, time.Since(t0))
				if !ok {
					atomic.AddInt64(&failures, 1)
				}
			}
			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

func openRedis(addr string, out io.Writer) (redis.UniversalClient, func(), error) {
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start miniredis: %w", err)
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		fmt.Fprintf(out, "using miniredis at %s\n", mr.Addr())
		return client, func() {
			_ = client.Close()
			mr.Close()
		}, nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", addr, err)
	}
	fmt.Fprintf(out, "using redis at %s\n", addr)
	return client, func() { _ = client.Close() }, nil
}
