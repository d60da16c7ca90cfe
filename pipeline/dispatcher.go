// Package pipeline wires the feed, strategy, risk filter, and matching
// engine together: a bounded worker pool drains batches produced by the
// feed, submitting every feed order to the engine directly and running
// each batch through the ordered indicator -> signal -> risk -> engine
// sequence for the strategy's own order, all within a single worker task.
package pipeline

import (
	"runtime"
	"sync"
	"time"

	"nanoex-go/book"
	"nanoex-go/engine"
	"nanoex-go/metrics"
	"nanoex-go/risk"
	"nanoex-go/strategy"
)

// Lane bundles one worker's exclusive strategy engine and risk filter.
// Strategy state is single-writer per spec.md §5: a Lane must never be
// touched by more than one goroutine at a time.
type Lane struct {
	Strategy *strategy.Engine
	Risk     *risk.Filter
}

// Dispatcher is a worker pool with one worker per Lane, so its
// parallelism is the number of lanes the caller supplies. Each worker
// owns exactly one Lane for its lifetime, so strategy state is never
// shared across goroutines without serialisation.
type Dispatcher struct {
	engine  *engine.Engine
	metrics *Metrics
	reg     *metrics.Registry
	lanes   []*Lane
	work    chan []*book.Order
	wg      sync.WaitGroup

	onTrade    func([]engine.Trade)
	onSignal   func(lane int, order *book.Order, sig strategy.Signal)
	onAdmitted func(lane int, order *book.Order)
}

// NewDispatcher constructs a Dispatcher over lanes. workers <= 0 defaults
// to runtime.GOMAXPROCS(0) and is capped at len(lanes); it sizes the work
// queue (workers*4 batches) and does not change how many workers Start
// launches, which is always one per lane.
func NewDispatcher(eng *engine.Engine, metrics *Metrics, lanes []*Lane, workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(lanes) {
		workers = len(lanes)
	}
	return &Dispatcher{
		engine:  eng,
		metrics: metrics,
		lanes:   lanes,
		work:    make(chan []*book.Order, workers*4),
	}
}

// OnTrade registers a callback invoked with the trades produced by each
// engine submission a worker makes, whether of a feed order or of an
// admitted strategy order. Optional; nil is a no-op.
func (d *Dispatcher) OnTrade(fn func([]engine.Trade)) { d.onTrade = fn }

// OnSignal registers a callback invoked after every Evaluate call,
// whether or not it produced an order. lane identifies which worker
// lane produced the signal. Optional; nil is a no-op.
func (d *Dispatcher) OnSignal(fn func(lane int, order *book.Order, sig strategy.Signal)) {
	d.onSignal = fn
}

// OnAdmitted registers a callback invoked with each strategy order the
// risk filter admits, just before it is submitted to the engine.
// Optional; nil is a no-op.
func (d *Dispatcher) OnAdmitted(fn func(lane int, order *book.Order)) {
	d.onAdmitted = fn
}

// UseRegistry wires a Prometheus registry into the dispatcher so that
// every engine submission, its latency, and every risk-filter rejection
// update the registry's counters and histogram. Optional; nil (the
// default) leaves those series permanently at zero.
func (d *Dispatcher) UseRegistry(reg *metrics.Registry) {
	d.reg = reg
}

// Rejections returns the cumulative count of strategy orders discarded
// by the risk filter, summed across every lane.
func (d *Dispatcher) Rejections() uint64 {
	var total uint64
	for _, l := range d.lanes {
		total += l.Risk.Rejections()
	}
	return total
}

// Start launches one goroutine per lane, each draining Submit calls from
// the shared work channel and running its own Lane's strategy and risk
// filter against each batch it receives.
func (d *Dispatcher) Start() {
	for i, lane := range d.lanes {
		d.wg.Add(1)
		go d.runLane(i, lane)
	}
}

func (d *Dispatcher) runLane(idx int, lane *Lane) {
	defer d.wg.Done()
	for batch := range d.work {
		d.process(idx, lane, batch)
	}
}

// process runs the mandated sequence for one batch on one lane:
// indicator update + signal generation (Evaluate), then risk filtering,
// then engine submission. All four complete before process returns, so a
// signal's order can never reach the engine before its own batch has
// been fully consumed by the strategy.
//
// Every order in the feed batch is also submitted to the engine
// directly, the way the synthetic feed feeds the book in the original
// demo: these are the orders that rest and build up the book the
// strategy's own Market orders match against. Evaluate runs first so
// the strategy's history reflects the batch's as-generated prices and
// quantities, before matching mutates any of them in place.
func (d *Dispatcher) process(lane int, l *Lane, batch []*book.Order) {
	d.metrics.recordEvents(len(batch))

	order, sig := l.Strategy.Evaluate(batch, nowNano())
	if d.onSignal != nil {
		d.onSignal(lane, order, sig)
	}

	for _, o := range batch {
		trades := d.submit(o)
		if len(trades) > 0 && d.onTrade != nil {
			d.onTrade(trades)
		}
	}

	if order == nil {
		return
	}

	admitted := l.Risk.Filter([]*book.Order{order})
	if len(admitted) == 0 {
		if d.reg != nil {
			d.reg.RecordRejection()
		}
		return
	}
	if d.onAdmitted != nil {
		d.onAdmitted(lane, admitted[0])
	}

	trades := d.submit(admitted[0])
	if len(trades) > 0 && d.onTrade != nil {
		d.onTrade(trades)
	}
}

// submit passes o to the engine, timing the call so it can report
// Engine.Submit's per-call latency (and a processed-order count)
// through the optional Prometheus registry.
func (d *Dispatcher) submit(o *book.Order) []engine.Trade {
	start := time.Now()
	trades := d.engine.Submit(o)
	if d.reg != nil {
		d.reg.RecordOrderProcessed()
		d.reg.ObserveEngineLatencyNs(float64(time.Since(start).Nanoseconds()))
	}
	return trades
}

// Submit enqueues a batch for processing. It blocks if every worker and
// the internal queue are saturated, applying natural backpressure to the
// feed.
func (d *Dispatcher) Submit(batch []*book.Order) {
	d.work <- batch
}

// Stop closes the work queue and waits for every lane to drain pending
// batches before returning, matching spec.md §5's "the pool drains
// pending work then exits" shutdown.
func (d *Dispatcher) Stop() {
	close(d.work)
	d.wg.Wait()
}
