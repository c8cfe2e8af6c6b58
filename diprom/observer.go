// Package diprom exports [di.Container] activity as Prometheus metrics.
//
// Example:
//
//	obs, err := diprom.NewObserver(prometheus.DefaultRegisterer)
//	if err != nil {
//		return err
//	}
//
//	c, err := di.NewContainer(
//		di.WithObserver(obs),
//		di.WithService(NewService),
//	)
package diprom

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sectrean/di-chain"
	"github.com/sectrean/di-chain/internal/errors"
)

const (
	labelService  = "service"
	labelLifetime = "lifetime"
	labelResult   = "result"
	labelScope    = "scope"

	resultOK    = "ok"
	resultError = "error"

	scopeRoot  = "root"
	scopeChild = "child"
)

// Observer is a [di.Observer] that records Prometheus metrics.
type Observer struct {
	created       *prometheus.CounterVec
	construction  *prometheus.HistogramVec
	fallback      *prometheus.CounterVec
	opened        *prometheus.CounterVec
	openScopes    prometheus.Gauge
	releasedTotal prometheus.Counter
	closeErrors   prometheus.Counter
}

var _ di.Observer = (*Observer)(nil)

// Option configures an [Observer].
type Option func(*config)

type config struct {
	namespace string
	buckets   []float64
}

// WithNamespace sets the metric namespace. The default is "di".
func WithNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

// WithBuckets sets the buckets of the construction duration histogram.
func WithBuckets(buckets ...float64) Option {
	return func(c *config) {
		c.buckets = buckets
	}
}

// NewObserver creates an [Observer] and registers its metrics with reg.
func NewObserver(reg prometheus.Registerer, opts ...Option) (*Observer, error) {
	if reg == nil {
		return nil, errors.New("diprom.NewObserver: registerer is nil")
	}

	cfg := config{
		namespace: "di",
		buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	o := &Observer{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "services_created_total",
			Help:      "Number of service instances created, by service and result.",
		}, []string{labelService, labelLifetime, labelResult}),

		construction: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "service_construction_seconds",
			Help:      "Time spent in service constructors.",
			Buckets:   cfg.buckets,
		}, []string{labelLifetime}),

		fallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "fallback_resolutions_total",
			Help:      "Number of keys delegated to the fallback, by result.",
		}, []string{labelResult}),

		opened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "scopes_opened_total",
			Help:      "Number of containers and scopes created, by kind.",
		}, []string{labelScope}),

		openScopes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Name:      "open_scopes",
			Help:      "Number of containers and scopes that have not been closed.",
		}),

		releasedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "closers_released_total",
			Help:      "Number of service closers released by closed scopes.",
		}),

		closeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "scope_close_errors_total",
			Help:      "Number of scopes that returned an error when closed.",
		}),
	}

	for _, c := range o.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "diprom.NewObserver")
		}
	}

	return o, nil
}

func (o *Observer) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		o.created,
		o.construction,
		o.fallback,
		o.opened,
		o.openScopes,
		o.releasedTotal,
		o.closeErrors,
	}
}

func (o *Observer) ServiceCreated(key di.TypeKey, lifetime di.Lifetime, elapsed time.Duration, err error) {
	o.created.WithLabelValues(key.String(), lifetime.String(), result(err)).Inc()
	o.construction.WithLabelValues(lifetime.String()).Observe(elapsed.Seconds())
}

func (o *Observer) FallbackResolved(_ di.TypeKey, err error) {
	o.fallback.WithLabelValues(result(err)).Inc()
}

func (o *Observer) ScopeOpened(_ uuid.UUID, root bool) {
	kind := scopeChild
	if root {
		kind = scopeRoot
	}

	o.opened.WithLabelValues(kind).Inc()
	o.openScopes.Inc()
}

func (o *Observer) ScopeClosed(_ uuid.UUID, released int, err error) {
	o.openScopes.Dec()
	o.releasedTotal.Add(float64(released))
	if err != nil {
		o.closeErrors.Inc()
	}
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
