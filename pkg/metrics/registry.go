// Package metrics provides Prometheus instrumentation for the route
// pipeline: pattern compilation, argument resolution, and value conversion.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config controls metric registration.
type Config struct {
	// Namespace prefixes every metric name.
	Namespace string

	// EnableProcessMetrics registers process-level collectors.
	EnableProcessMetrics bool

	// EnableRuntimeMetrics registers Go runtime collectors.
	EnableRuntimeMetrics bool
}

// DefaultConfig returns sensible defaults for metrics configuration.
func DefaultConfig() Config {
	return Config{Namespace: "nuru"}
}

// Registry manages all Prometheus metrics for the route pipeline.
type Registry struct {
	config   Config
	registry *prometheus.Registry

	// Compilation metrics
	patternsCompiled prometheus.Counter
	patternErrors    *prometheus.CounterVec

	// Resolution metrics
	resolveAttempts prometheus.Counter
	resolveMatches  prometheus.Counter
	resolveMisses   prometheus.Counter
	resolveDuration prometheus.Histogram

	// Binding metrics
	conversionsTotal *prometheus.CounterVec
	conversionErrors *prometheus.CounterVec
}

// Global registry instance
var (
	globalRegistry *Registry
	once           sync.Once
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	once.Do(func() {
		globalRegistry = NewRegistry(DefaultConfig())
	})
	return globalRegistry
}

// NewRegistry creates a new metrics registry with the given configuration.
func NewRegistry(config Config) *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		config:   config,
		registry: reg,
		patternsCompiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "patterns_compiled_total",
			Help:      "Total number of route patterns compiled successfully.",
		}),
		patternErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "pattern_errors_total",
			Help:      "Total number of route patterns rejected, by pipeline stage.",
		}, []string{"stage"}),
		resolveAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "resolve_attempts_total",
			Help:      "Total number of resolve calls.",
		}),
		resolveMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "resolve_matches_total",
			Help:      "Total number of resolve calls that matched a route.",
		}),
		resolveMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "resolve_misses_total",
			Help:      "Total number of resolve calls that matched no route.",
		}),
		resolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Time spent resolving an argument vector.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		conversionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "conversions_total",
			Help:      "Total number of value conversions, by target type.",
		}, []string{"type"}),
		conversionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "conversion_errors_total",
			Help:      "Total number of failed value conversions, by target type.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		r.patternsCompiled,
		r.patternErrors,
		r.resolveAttempts,
		r.resolveMatches,
		r.resolveMisses,
		r.resolveDuration,
		r.conversionsTotal,
		r.conversionErrors,
	)

	if config.EnableProcessMetrics {
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	if config.EnableRuntimeMetrics {
		reg.MustRegister(collectors.NewGoCollector())
	}

	return r
}

// Gatherer exposes the underlying registry for scraping or testing.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// RecordPatternCompiled counts a successfully compiled pattern.
func (r *Registry) RecordPatternCompiled() {
	r.patternsCompiled.Inc()
}

// RecordPatternError counts a rejected pattern by stage (lex, parse, semantic).
func (r *Registry) RecordPatternError(stage string) {
	r.patternErrors.WithLabelValues(stage).Inc()
}

// ObserveResolve records the outcome and duration of one resolve call.
func (r *Registry) ObserveResolve(d time.Duration, matched bool) {
	r.resolveAttempts.Inc()
	if matched {
		r.resolveMatches.Inc()
	} else {
		r.resolveMisses.Inc()
	}
	r.resolveDuration.Observe(d.Seconds())
}

// RecordConversion counts one value conversion by target type.
func (r *Registry) RecordConversion(targetType string, ok bool) {
	r.conversionsTotal.WithLabelValues(targetType).Inc()
	if !ok {
		r.conversionErrors.WithLabelValues(targetType).Inc()
	}
}
