package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanoex-go/book"
	"nanoex-go/risk"
)

func order(id uint64, price, qty book.Quantity) *book.Order {
	return &book.Order{ID: id, Price: price, Quantity: qty}
}

func TestFilterUncappedAdmitsEverything(t *testing.T) {
	f, err := risk.NewFilter(risk.Limits{})
	require.NoError(t, err)

	admitted := f.Filter([]*book.Order{order(1, 10000, 5), order(2, 10000, 500)})
	assert.Len(t, admitted, 2)
	assert.Zero(t, f.Rejections())
}

func TestFilterRejectsQuantityOverCap(t *testing.T) {
	f, err := risk.NewFilter(risk.Limits{MaxOrderQuantity: 100})
	require.NoError(t, err)

	admitted := f.Filter([]*book.Order{order(1, 10000, 100), order(2, 10000, 101)})
	require.Len(t, admitted, 1)
	assert.EqualValues(t, 1, admitted[0].ID)
	assert.EqualValues(t, 1, f.Rejections())
}

// TestFilterRejectsNotionalOverCap is spec scenario 6: a price=10000,
// qty=200 order (notional 2_000_000) is rejected against a 1_000_000 cap.
func TestFilterRejectsNotionalOverCap(t *testing.T) {
	f, err := risk.NewFilter(risk.Limits{MaxNotionalPerOrd: 1_000_000})
	require.NoError(t, err)

	admitted := f.Filter([]*book.Order{order(1, 10000, 200)})
	assert.Empty(t, admitted)
	assert.EqualValues(t, 1, f.Rejections())
}

func TestFilterRejectsBeyondOrdersPerBatch(t *testing.T) {
	f, err := risk.NewFilter(risk.Limits{MaxOrdersPerBatch: 2})
	require.NoError(t, err)

	admitted := f.Filter([]*book.Order{order(1, 100, 1), order(2, 100, 1), order(3, 100, 1)})
	require.Len(t, admitted, 2)
	assert.EqualValues(t, 1, f.Rejections())
}

func TestFilterDailyVolumeAccumulatesAcrossCalls(t *testing.T) {
	f, err := risk.NewFilter(risk.Limits{MaxDailyVolume: 10})
	require.NoError(t, err)

	first := f.Filter([]*book.Order{order(1, 100, 6)})
	require.Len(t, first, 1)
	assert.EqualValues(t, 6, f.DailyVolume())

	second := f.Filter([]*book.Order{order(2, 100, 5)})
	assert.Empty(t, second, "6 + 5 > 10 cap should reject")
	assert.EqualValues(t, 1, f.Rejections())

	third := f.Filter([]*book.Order{order(3, 100, 4)})
	require.Len(t, third, 1, "6 + 4 = 10 is within the cap")
}

func TestFilterOnlyAdmittedOrdersCountTowardDailyVolume(t *testing.T) {
	f, err := risk.NewFilter(risk.Limits{MaxOrderQuantity: 10, MaxDailyVolume: 100})
	require.NoError(t, err)

	f.Filter([]*book.Order{order(1, 100, 50)}) // rejected: over MaxOrderQuantity
	assert.Zero(t, f.DailyVolume())
}

func TestResetDailyVolume(t *testing.T) {
	f, err := risk.NewFilter(risk.Limits{MaxDailyVolume: 10})
	require.NoError(t, err)

	f.Filter([]*book.Order{order(1, 100, 10)})
	assert.EqualValues(t, 10, f.DailyVolume())

	f.ResetDailyVolume()
	assert.Zero(t, f.DailyVolume())
}

func TestNewFilterRejectsInvalidLimits(t *testing.T) {
	_, err := risk.NewFilter(risk.Limits{MaxOrdersPerBatch: -1})
	assert.ErrorIs(t, err, risk.ErrInvalidConfig)
}
