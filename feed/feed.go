// Package feed generates the synthetic order stream that drives the
// matching pipeline: a single producer emitting small batches at a
// fixed cadence.
package feed

import (
	"math/rand"
	"time"

	"nanoex-go/book"
)

// Config controls the feed's cadence, batch size, and price band.
type Config struct {
	Interval    time.Duration
	BatchSize   int
	ReferenceMid book.Price // minor units
	PriceBand    book.Price // +/- this many minor units around ReferenceMid
	MaxQuantity  book.Quantity
}

// DefaultConfig returns spec.md §4.5's 10ms/10-order synthetic feed,
// scaled into minor units (reference mid 100.00 -> 10000).
func DefaultConfig() Config {
	return Config{
		Interval:     10 * time.Millisecond,
		BatchSize:    10,
		ReferenceMid: 10000,
		PriceBand:    100,
		MaxQuantity:  10,
	}
}

// Feed owns its RNG and a monotonic order-id counter. A Feed must not be
// shared across goroutines; Clone produces an independent copy with its
// own, differently-seeded RNG so that concurrently-run feeds (e.g. in a
// backtest harness) never correlate.
type Feed struct {
	cfg    Config
	rng    *rand.Rand
	nextID uint64
}

// New constructs a feed seeded from a caller-supplied seed, so that a run
// can be reproduced by re-using the same seed.
func New(cfg Config, seed int64) *Feed {
	return &Feed{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Clone returns an independent feed with the same configuration and its
// own reseeded RNG, so that cloning never produces correlated streams.
func (f *Feed) Clone() *Feed {
	return &Feed{cfg: f.cfg, rng: rand.New(rand.NewSource(f.rng.Int63())), nextID: f.nextID}
}

// NextBatch generates one batch of synthetic orders: a uniformly random
// side, a price drawn from a narrow band around the reference mid, a
// uniformly random small quantity, and a type chosen uniformly from
// {Limit, Market}.
func (f *Feed) NextBatch() []*book.Order {
	batch := make([]*book.Order, f.cfg.BatchSize)
	for i := range batch {
		f.nextID++
		batch[i] = &book.Order{
			ID:        f.nextID,
			Side:      f.randomSide(),
			Type:      f.randomType(),
			Price:     f.randomPrice(),
			Quantity:  f.randomQuantity(),
			CreatedAt: time.Now().UnixNano(),
		}
	}
	return batch
}

func (f *Feed) randomSide() book.Side {
	if f.rng.Intn(2) == 0 {
		return book.Buy
	}
	return book.Sell
}

func (f *Feed) randomType() book.OrderType {
	if f.rng.Intn(2) == 0 {
		return book.Limit
	}
	return book.Market
}

func (f *Feed) randomPrice() book.Price {
	band := int64(f.cfg.PriceBand)
	if band <= 0 {
		return f.cfg.ReferenceMid
	}
	offset := f.rng.Int63n(2*band+1) - band
	return book.Price(int64(f.cfg.ReferenceMid) + offset)
}

func (f *Feed) randomQuantity() book.Quantity {
	if f.cfg.MaxQuantity == 0 {
		return 1
	}
	return book.Quantity(f.rng.Int63n(int64(f.cfg.MaxQuantity))) + 1
}

// Run drives NextBatch on cfg.Interval, sending each batch to out, until
// stop is closed. It returns when stop fires, matching the original
// feed thread's cooperative-stop-flag shutdown (spec.md §5): the loop
// checks stop only between cadence ticks, never mid-batch.
func (f *Feed) Run(out chan<- []*book.Order, stop <-chan struct{}) {
	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case out <- f.NextBatch():
			case <-stop:
				return
			}
		}
	}
}
