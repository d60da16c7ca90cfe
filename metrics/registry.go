// Package metrics exposes the pipeline's counters and gauges over
// Prometheus, scraped on an optional opt-in HTTP endpoint. It never
// listens unless Serve is called; the matching engine itself is never
// reachable over the network.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config names the metric namespace/subsystem prefix.
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig returns the "nanoex_pipeline_*" metric family.
func DefaultConfig() Config {
	return Config{Namespace: "nanoex", Subsystem: "pipeline"}
}

// Registry wraps a private Prometheus registry with the gauges and
// counters spec.md's pipeline tracks: submitted orders, trades matched,
// rejections, engine latency, and events/second, plus the best bid/ask
// and spread readout from the original C++ demo's status line.
type Registry struct {
	registry *prometheus.Registry

	ordersProcessed prometheus.Counter
	tradesMatched   prometheus.Counter
	ordersRejected  prometheus.Counter
	engineLatency   prometheus.Histogram
	eventsPerSecond prometheus.Gauge
	bestBid         prometheus.Gauge
	bestAsk         prometheus.Gauge
	spread          prometheus.Gauge
}

// New constructs a Registry under cfg's namespace/subsystem.
func New(cfg Config) *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		ordersProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "orders_processed_total", Help: "Orders submitted to the matching engine.",
		}),
		tradesMatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "trades_matched_total", Help: "Trades produced by the matching engine.",
		}),
		ordersRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "orders_rejected_total", Help: "Strategy orders discarded by the risk filter.",
		}),
		engineLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name:    "engine_latency_seconds",
			Help:    "Time spent inside Engine.Submit.",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		eventsPerSecond: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "events_per_second", Help: "Order events per second since the pipeline started.",
		}),
		bestBid: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "best_bid", Help: "Current best bid, in minor units.",
		}),
		bestAsk: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "best_ask", Help: "Current best ask, in minor units.",
		}),
		spread: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "spread", Help: "Current ask-bid spread, in minor units.",
		}),
	}
}

// RecordOrderProcessed increments the processed-orders counter.
func (r *Registry) RecordOrderProcessed() { r.ordersProcessed.Inc() }

// RecordTrades increments the matched-trades counter by n.
func (r *Registry) RecordTrades(n int) { r.tradesMatched.Add(float64(n)) }

// RecordRejection increments the rejected-orders counter.
func (r *Registry) RecordRejection() { r.ordersRejected.Inc() }

// ObserveEngineLatencyNs records one Submit call's duration.
func (r *Registry) ObserveEngineLatencyNs(ns float64) { r.engineLatency.Observe(ns / 1e9) }

// SetEventsPerSecond updates the throughput gauge.
func (r *Registry) SetEventsPerSecond(v float64) { r.eventsPerSecond.Set(v) }

// SetBookState updates the best bid/ask and derived spread gauges.
func (r *Registry) SetBookState(bid, ask, spread float64) {
	r.bestBid.Set(bid)
	r.bestAsk.Set(ask)
	r.spread.Set(spread)
}

// Handler returns the HTTP handler serving this registry's metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on addr, returning once
// ctx is cancelled. It is the opt-in side channel described in
// SPEC_FULL.md: the CLI's primary surface remains stdin/stdout, and
// Serve is only invoked when the caller explicitly supplies an address.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
