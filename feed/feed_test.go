package feed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanoex-go/book"
	"nanoex-go/feed"
)

func TestNextBatchShapeMatchesConfig(t *testing.T) {
	f := feed.New(feed.Config{
		Interval: time.Millisecond, BatchSize: 10, ReferenceMid: 10000, PriceBand: 100, MaxQuantity: 10,
	}, 1)

	batch := f.NextBatch()
	require.Len(t, batch, 10)

	seen := make(map[uint64]bool)
	for _, o := range batch {
		assert.False(t, seen[o.ID], "order ids within a batch must be unique")
		seen[o.ID] = true
		assert.GreaterOrEqual(t, o.Price, book.Price(9900))
		assert.LessOrEqual(t, o.Price, book.Price(10100))
		assert.GreaterOrEqual(t, o.Quantity, book.Quantity(1))
		assert.LessOrEqual(t, o.Quantity, book.Quantity(10))
	}
}

func TestOrderIDsAreMonotonicAcrossBatches(t *testing.T) {
	f := feed.New(feed.DefaultConfig(), 2)

	first := f.NextBatch()
	second := f.NextBatch()
	assert.Equal(t, first[len(first)-1].ID+1, second[0].ID)
}

func TestCloneContinuesIDCounter(t *testing.T) {
	f := feed.New(feed.DefaultConfig(), 42)
	g := f.Clone()

	// The clone gets its own reseeded RNG but copies the id counter, so
	// both feeds hand out the same next id.
	fb := f.NextBatch()
	gb := g.NextBatch()
	assert.Equal(t, fb[0].ID, gb[0].ID, "clone starts from the same id counter")
}

func TestRunStopsOnSignal(t *testing.T) {
	f := feed.New(feed.Config{Interval: time.Millisecond, BatchSize: 1, ReferenceMid: 10000}, 3)
	out := make(chan []*book.Order, 8)
	stop := make(chan struct{})

	done := make(chan struct{})
	go func() {
		f.Run(out, stop)
		close(done)
	}()

	<-out // at least one batch arrives
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after stop was closed")
	}
}
