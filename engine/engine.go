// Package engine applies incoming orders against a price-time priority
// order book, matching them or resting them, and reports trades and
// latency/throughput counters.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"nanoex-go/book"
)

// Trade is an immutable, append-only record of a single match.
type Trade struct {
	BuyOrderID  uint64
	SellOrderID uint64
	Price       book.Price
	Quantity    book.Quantity
	Timestamp   int64 // wall-clock Unix nanoseconds (time.Now().UnixNano()); not monotonic
}

// location is the order index entry: where a resting order currently sits.
type location struct {
	price book.Price
	side  book.Side
}

// Engine is the matching engine. The order book and trade log are
// guarded by a single exclusive lock; the processed/matched/latency
// counters are atomic so readers can observe them without contending on
// that lock.
type Engine struct {
	mu       sync.Mutex
	bids     *book.OneSide
	asks     *book.OneSide
	index    map[uint64]location
	trades   []Trade

	processedOrders   atomic.Uint64
	matchedTrades     atomic.Uint64
	totalProcessingNs atomic.Uint64
}

// New constructs an empty matching engine.
func New() *Engine {
	return &Engine{
		bids:  book.New(true),
		asks:  book.New(false),
		index: make(map[uint64]location),
	}
}

// Submit applies an incoming order: a Market order matches repeatedly
// against the opposite side until exhausted or the side empties, with
// any unfilled remainder dropped; a Limit order matches while it crosses
// the opposite side's best price, then rests any remaining quantity on
// its own side. Submitting a well-formed order cannot fail.
func (e *Engine) Submit(o *book.Order) []Trade {
	start := time.Now()
	e.mu.Lock()

	var produced []Trade
	if o.Type == book.Market {
		produced = e.matchAgainstOpposite(o)
	} else {
		produced = e.matchAgainstOpposite(o)
		if o.Quantity > 0 {
			e.rest(o)
		}
	}

	e.mu.Unlock()

	e.totalProcessingNs.Add(uint64(time.Since(start).Nanoseconds()))
	e.processedOrders.Add(1)
	return produced
}

func (e *Engine) oppositeSide(s book.Side) *book.OneSide {
	if s == book.Buy {
		return e.asks
	}
	return e.bids
}

func (e *Engine) ownSide(s book.Side) *book.OneSide {
	if s == book.Buy {
		return e.bids
	}
	return e.asks
}

// matchAgainstOpposite executes price-time-priority matching for the
// incoming order against its opposite side, mutating its remaining
// quantity and appending trades to the log as it goes. Must be called
// with mu held.
func (e *Engine) matchAgainstOpposite(incoming *book.Order) []Trade {
	opposite := e.oppositeSide(incoming.Side)
	var produced []Trade

	for incoming.Quantity > 0 {
		resting := opposite.PeekBest()
		if resting == nil {
			break
		}
		if !crosses(incoming, resting) {
			break
		}

		tradeQty := min64(incoming.Quantity, resting.Quantity)
		buyID, sellID := incoming.ID, resting.ID
		if incoming.Side == book.Sell {
			buyID, sellID = resting.ID, incoming.ID
		}

		trade := Trade{
			BuyOrderID:  buyID,
			SellOrderID: sellID,
			Price:       resting.Price,
			Quantity:    tradeQty,
			Timestamp:   time.Now().UnixNano(),
		}
		e.trades = append(e.trades, trade)
		produced = append(produced, trade)
		e.matchedTrades.Add(1)

		incoming.Quantity -= tradeQty
		resting.Quantity -= tradeQty

		if resting.Quantity == 0 {
			opposite.PopBest()
			delete(e.index, resting.ID)
		}
	}

	return produced
}

// crosses reports whether incoming may match against resting: a Market
// order matches at any price; a Buy limit crosses if its price is at
// least the resting price, a Sell limit crosses if its price is at most
// the resting price.
func crosses(incoming, resting *book.Order) bool {
	if incoming.Type == book.Market {
		return true
	}
	if incoming.Side == book.Buy {
		return incoming.Price >= resting.Price
	}
	return incoming.Price <= resting.Price
}

// rest adds a still-live limit order to its own side and records it in
// the order index. Must be called with mu held.
func (e *Engine) rest(o *book.Order) {
	e.ownSide(o.Side).Insert(o)
	e.index[o.ID] = location{price: o.Price, side: o.Side}
}

// Cancel looks up order_id's resting location and removes it from its
// side. It returns false, not an error, if the id is not currently
// resting.
func (e *Engine) Cancel(orderID uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	loc, ok := e.index[orderID]
	if !ok {
		return false
	}
	removed := e.ownSide(loc.side).Cancel(orderID, loc.price)
	if removed {
		delete(e.index, orderID)
	}
	return removed
}

// BestBidAsk returns the current best bid and best ask price, 0 when a
// side is empty.
func (e *Engine) BestBidAsk() (bid, ask book.Price) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bids.BestPrice(), e.asks.BestPrice()
}

// Spread returns ask-bid in minor units, or 0 if either side is empty.
func (e *Engine) Spread() book.Price {
	bid, ask := e.BestBidAsk()
	if bid == 0 || ask == 0 {
		return 0
	}
	return ask - bid
}

// RecentTrades returns the last n trades in arrival order. If fewer than
// n trades have occurred, all of them are returned.
func (e *Engine) RecentTrades(n int) []Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n <= 0 || len(e.trades) == 0 {
		return nil
	}
	if n > len(e.trades) {
		n = len(e.trades)
	}
	out := make([]Trade, n)
	copy(out, e.trades[len(e.trades)-n:])
	return out
}

// ProcessedOrders returns the cumulative count of orders passed to Submit.
func (e *Engine) ProcessedOrders() uint64 { return e.processedOrders.Load() }

// MatchedTrades returns the cumulative count of trades produced.
func (e *Engine) MatchedTrades() uint64 { return e.matchedTrades.Load() }

// AverageLatencyNs returns cumulative nanoseconds spent inside Submit
// divided by the number of orders processed, or 0 before the first order.
func (e *Engine) AverageLatencyNs() float64 {
	orders := e.processedOrders.Load()
	if orders == 0 {
		return 0
	}
	return float64(e.totalProcessingNs.Load()) / float64(orders)
}

func min64(a, b book.Quantity) book.Quantity {
	if a < b {
		return a
	}
	return b
}
