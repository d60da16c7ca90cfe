// Package risk implements the pre-submission order filter: a stateless
// batch rewrite that admits or rejects candidate orders against a set
// of configured caps, counting rejections as it goes.
package risk

import (
	"errors"

	"nanoex-go/book"
)

// ErrInvalidConfig is returned by Limits.Validate when a configured cap
// is negative (zero means "uncapped", matching spec.md's "when the cap
// is set" qualifiers).
var ErrInvalidConfig = errors.New("risk: limits must be >= 0")

// Limits configures the per-order and per-batch caps. A zero field means
// that cap is not enforced.
type Limits struct {
	MaxOrderQuantity  book.Quantity
	MaxNotionalPerOrd uint64
	MaxOrdersPerBatch int
	MaxDailyVolume    book.Quantity
}

// Validate reports whether l is usable; all-zero is valid (uncapped).
func (l Limits) Validate() error {
	if l.MaxOrdersPerBatch < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Filter applies Limits to a batch of candidate orders, in input order,
// and accumulates a running daily-volume total across calls. It is not
// safe for concurrent use by multiple goroutines; the pipeline binds one
// Filter to one worker lane, matching the strategy's one-writer
// invariant.
type Filter struct {
	limits     Limits
	dailyVol   book.Quantity
	rejections uint64
}

// NewFilter validates limits and constructs a Filter.
func NewFilter(limits Limits) (*Filter, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return &Filter{limits: limits}, nil
}

// SetLimits swaps the filter's limits, e.g. on a hot config reload. The
// accumulated daily volume and rejection counter are left untouched.
func (f *Filter) SetLimits(limits Limits) error {
	if err := limits.Validate(); err != nil {
		return err
	}
	f.limits = limits
	return nil
}

// Filter rewrites candidates into the admitted subset, in input order,
// rejecting (and counting) any candidate that violates a configured cap.
// Admitted orders add their quantity to the running daily-volume total.
func (f *Filter) Filter(candidates []*book.Order) []*book.Order {
	admitted := make([]*book.Order, 0, len(candidates))

	for _, o := range candidates {
		if f.reject(o, len(admitted)) {
			f.rejections++
			continue
		}
		f.dailyVol += o.Quantity
		admitted = append(admitted, o)
	}
	return admitted
}

func (f *Filter) reject(o *book.Order, admittedSoFar int) bool {
	l := f.limits
	if l.MaxOrderQuantity > 0 && o.Quantity > l.MaxOrderQuantity {
		return true
	}
	if l.MaxNotionalPerOrd > 0 && uint64(o.Price)*uint64(o.Quantity) > l.MaxNotionalPerOrd {
		return true
	}
	if l.MaxOrdersPerBatch > 0 && admittedSoFar >= l.MaxOrdersPerBatch {
		return true
	}
	if l.MaxDailyVolume > 0 && f.dailyVol+o.Quantity > l.MaxDailyVolume {
		return true
	}
	return false
}

// Rejections returns the cumulative count of orders the filter has
// discarded.
func (f *Filter) Rejections() uint64 { return f.rejections }

// DailyVolume returns the cumulative admitted quantity since the filter
// was constructed or last reset.
func (f *Filter) DailyVolume() book.Quantity { return f.dailyVol }

// ResetDailyVolume zeroes the running daily-volume counter; the caller
// is responsible for invoking this at the configured reset cadence —
// spec.md leaves the reset schedule external to RiskFilter itself.
func (f *Filter) ResetDailyVolume() { f.dailyVol = 0 }
