// Package book implements the price-indexed, time-ordered resting-order
// store for one side of the matching engine.
package book

import (
	"container/list"
	"sort"
)

// Side distinguishes the buy and sell sides of a book.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// OrderType distinguishes limit and market orders.
type OrderType uint8

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Limit {
		return "LIMIT"
	}
	return "MARKET"
}

// Price is a fixed-point integer, scaled by 100 (minor units, e.g. cents).
type Price = uint64

// Quantity is an unsigned order size.
type Quantity = uint64

// Order is a resting or in-flight order. Quantity is mutated in place as
// fills are applied; callers that need a stable snapshot should copy it.
type Order struct {
	ID        uint64
	Side      Side
	Type      OrderType
	Price     Price // ignored for Market orders
	Quantity  Quantity
	CreatedAt int64 // wall-clock Unix nanoseconds, from time.Now().UnixNano() at creation; not monotonic
}

// level holds the resting orders at a single price, in arrival order, plus
// a cached sum of their remaining quantities.
type level struct {
	price    Price
	orders   *list.List // of *Order
	totalQty Quantity
}

func newLevel(price Price) *level {
	return &level{price: price, orders: list.New()}
}

func (l *level) front() *Order {
	e := l.orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*Order)
}

func (l *level) popFront() *list.Element {
	e := l.orders.Front()
	if e == nil {
		return nil
	}
	o := e.Value.(*Order)
	l.totalQty -= o.Quantity
	l.orders.Remove(e)
	return e
}

func (l *level) push(o *Order) *list.Element {
	l.totalQty += o.Quantity
	return l.orders.PushBack(o)
}

func (l *level) removeElement(e *list.Element) {
	o := e.Value.(*Order)
	l.totalQty -= o.Quantity
	l.orders.Remove(e)
}

func (l *level) isEmpty() bool { return l.orders.Len() == 0 }

// OneSide is an ordered mapping of Price to price level for one side of
// the book (Buy or Sell). Levels are kept sorted by price; the Buy side
// exposes its best level highest-price-first, the Sell side
// lowest-price-first. An empty level is removed immediately, so the
// invariant "no level is ever empty" holds at every operation boundary.
type OneSide struct {
	isBid  bool
	levels map[Price]*level
	prices []Price // sorted ascending

	// locate gives O(1) cancellation: order id -> the price/element
	// holding it, rather than an O(n) scan of the level.
	locate map[uint64]location
}

type location struct {
	price Price
	elem  *list.Element
}

// New constructs one side of the book. isBid selects Buy-side ordering
// (best = highest price) vs Sell-side ordering (best = lowest price).
func New(isBid bool) *OneSide {
	return &OneSide{
		isBid:  isBid,
		levels: make(map[Price]*level),
		locate: make(map[uint64]location),
	}
}

// Insert appends the order at its price level, creating the level (and
// inserting it into the sorted price index) if this is the first resting
// order at that price.
func (s *OneSide) Insert(o *Order) {
	lvl, ok := s.levels[o.Price]
	if !ok {
		lvl = newLevel(o.Price)
		s.levels[o.Price] = lvl
		s.insertPrice(o.Price)
	}
	elem := lvl.push(o)
	s.locate[o.ID] = location{price: o.Price, elem: elem}
}

func (s *OneSide) insertPrice(p Price) {
	i := sort.Search(len(s.prices), func(i int) bool { return s.prices[i] >= p })
	s.prices = append(s.prices, 0)
	copy(s.prices[i+1:], s.prices[i:])
	s.prices[i] = p
}

func (s *OneSide) removePrice(p Price) {
	i := sort.Search(len(s.prices), func(i int) bool { return s.prices[i] >= p })
	if i < len(s.prices) && s.prices[i] == p {
		s.prices = append(s.prices[:i], s.prices[i+1:]...)
	}
}

// bestIndex returns the index into s.prices of the best level, or -1 if
// the side is empty.
func (s *OneSide) bestIndex() int {
	if len(s.prices) == 0 {
		return -1
	}
	if s.isBid {
		return len(s.prices) - 1
	}
	return 0
}

// PeekBest returns the front order at the best level, or nil when the
// side is empty.
func (s *OneSide) PeekBest() *Order {
	i := s.bestIndex()
	if i < 0 {
		return nil
	}
	return s.levels[s.prices[i]].front()
}

// BestPrice returns the best resting price, or 0 when the side is empty.
func (s *OneSide) BestPrice() Price {
	i := s.bestIndex()
	if i < 0 {
		return 0
	}
	return s.prices[i]
}

// PopBest removes the front order at the best level. If that level
// becomes empty it is removed from the side entirely.
func (s *OneSide) PopBest() {
	i := s.bestIndex()
	if i < 0 {
		return
	}
	price := s.prices[i]
	lvl := s.levels[price]
	e := lvl.popFront()
	if e != nil {
		delete(s.locate, e.Value.(*Order).ID)
	}
	if lvl.isEmpty() {
		delete(s.levels, price)
		s.removePrice(price)
	}
}

// Cancel removes the order matching id at price from its level. It
// returns false (without effect) if the order is not resting there. A
// successful cancel that empties the level also removes the level.
func (s *OneSide) Cancel(id uint64, price Price) bool {
	loc, ok := s.locate[id]
	if !ok || loc.price != price {
		return false
	}
	lvl, ok := s.levels[price]
	if !ok {
		return false
	}
	lvl.removeElement(loc.elem)
	delete(s.locate, id)
	if lvl.isEmpty() {
		delete(s.levels, price)
		s.removePrice(price)
	}
	return true
}

// IsEmpty reports whether the side holds no resting orders.
func (s *OneSide) IsEmpty() bool { return len(s.prices) == 0 }

// TotalQuantity returns the cached total remaining quantity resting at
// price, or 0 if no level exists there.
func (s *OneSide) TotalQuantity(price Price) Quantity {
	lvl, ok := s.levels[price]
	if !ok {
		return 0
	}
	return lvl.totalQty
}
