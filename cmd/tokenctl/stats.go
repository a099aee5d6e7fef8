package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/clipstream/tokenauth"
)

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	s := phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
	}
	if total > 0 {
		s.opsPerS = float64(len(samples)) / total.Seconds()
	}
	return s
}

// percentile expects samples sorted ascending.
func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(w io.Writer, name string, s phaseStats) {
	fmt.Fprintf(w, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func printEngineMetrics(w io.Writer, snap tokenauth.MetricsSnapshot, dropped uint64) {
	fmt.Fprintf(w, "engine: minted=%d verified=%d rejected=%d audit_dropped=%d\n",
		snap.Counters[tokenauth.MetricAccessMinted],
		snap.Counters[tokenauth.MetricAccessVerified],
		snap.Counters[tokenauth.MetricVerifyMalformed]+
			snap.Counters[tokenauth.MetricVerifyBadSignature]+
			snap.Counters[tokenauth.MetricVerifyExpired]+
			snap.Counters[tokenauth.MetricVerifyWrongClass],
		dropped,
	)

	buckets := snap.Histograms[tokenauth.MetricVerifyLatency]
	if len(buckets) == 0 {
		return
	}
	fmt.Fprint(w, "verify latency:")
	for i, n := range buckets {
		label := "+Inf"
		if i < len(tokenauth.LatencyBucketBounds) {
			label = "<=" + tokenauth.LatencyBucketBounds[i].String()
		}
		fmt.Fprintf(w, " %s:%d", label, n)
	}
	fmt.Fprintln(w)
}
