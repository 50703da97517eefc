package account

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realJaydenCheng/quantmock/internal/market"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func bar(day string, open, high, low, closing float64) market.Bar {
	return market.Bar{
		Time:  date(day),
		Open:  decimal.NewFromFloat(open),
		High:  decimal.NewFromFloat(high),
		Low:   decimal.NewFromFloat(low),
		Close: decimal.NewFromFloat(closing),
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAccount(t *testing.T, capital int64) *Account {
	t.Helper()

	x, err := market.NewSeries([]market.Bar{
		bar("2022-01-04", 10.5, 11, 10, 10.8),
		bar("2022-01-05", 10.8, 12, 10.6, 11.5),
	})
	require.NoError(t, err)

	y, err := market.NewSeries([]market.Bar{
		bar("2022-01-04", 100, 105, 98, 102),
	})
	require.NoError(t, err)

	m, err := market.New(map[string]*market.Series{"X": x, "Y": y}, date("2022-01-04"))
	require.NoError(t, err)

	return New(discard(), m, decimal.NewFromInt(capital))
}

func TestBuy_fillsAtLowRecordsHigh(t *testing.T) {
	acc := newTestAccount(t, 5000000)

	ok := acc.Buy("X", decimal.NewFromInt(1500000))
	require.True(t, ok)

	p := acc.Position("X")
	assert.Equal(t, int64(150000), p.Qty)
	assert.True(t, p.LastPrice.Equal(decimal.NewFromInt(11)), "last trade price must be the day high")
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(5000000-150000*10)))

	require.Len(t, acc.Trades(), 1)
	tr := acc.Trades()[0]
	assert.Equal(t, int64(150000), tr.Change)
	assert.True(t, tr.Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(150000), tr.Position)
}

func TestBuy_keepsCashRemainder(t *testing.T) {
	acc := newTestAccount(t, 1000)

	// 105 buys 10 units at the low of 10; the 5 left over stays cash.
	ok := acc.Buy("X", decimal.NewFromInt(105))
	require.True(t, ok)

	assert.Equal(t, int64(10), acc.Position("X").Qty)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(900)))
}

func TestBuy_insufficientFunds(t *testing.T) {
	acc := newTestAccount(t, 100)

	ok := acc.Buy("X", decimal.NewFromInt(101))
	assert.False(t, ok)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(100)))
	assert.Empty(t, acc.Trades())
}

func TestBuy_noPriceData(t *testing.T) {
	acc := newTestAccount(t, 5000000)
	acc.Market().AdvanceDay()

	// Y has no bar on the 5th.
	ok := acc.Buy("Y", decimal.NewFromInt(1000))
	assert.False(t, ok)
	assert.Empty(t, acc.Trades())
}

func TestSell_fillsAtHigh(t *testing.T) {
	acc := newTestAccount(t, 5000000)
	require.True(t, acc.Buy("X", decimal.NewFromInt(1000)))

	balance := acc.Balance()
	ok := acc.Sell("X", decimal.NewFromInt(550))

	// 550 over the high of 11 sells 50 units.
	require.True(t, ok)
	p := acc.Position("X")
	assert.Equal(t, int64(50), p.Qty)
	assert.True(t, p.LastPrice.Equal(decimal.NewFromInt(11)))
	assert.True(t, acc.Balance().Equal(balance.Add(decimal.NewFromInt(550))))

	tr := acc.Trades()[len(acc.Trades())-1]
	assert.Equal(t, int64(-50), tr.Change)
	assert.True(t, tr.Price.Equal(decimal.NewFromInt(11)))
}

func TestSell_insufficientInventory(t *testing.T) {
	acc := newTestAccount(t, 5000000)
	require.True(t, acc.Buy("X", decimal.NewFromInt(100)))

	balance := acc.Balance()
	qty := acc.Position("X").Qty

	ok := acc.Sell("X", decimal.NewFromInt(1000000))
	assert.False(t, ok)
	assert.True(t, acc.Balance().Equal(balance))
	assert.Equal(t, qty, acc.Position("X").Qty)
	assert.Len(t, acc.Trades(), 1)
}

func TestSell_noPriceData(t *testing.T) {
	acc := newTestAccount(t, 5000000)
	require.True(t, acc.Buy("Y", decimal.NewFromInt(1000)))
	acc.Market().AdvanceDay()

	ok := acc.Sell("Y", decimal.NewFromInt(100))
	assert.False(t, ok)
}

func TestAssetValue_marksAtLastTradePrice(t *testing.T) {
	acc := newTestAccount(t, 5000000)
	require.True(t, acc.Buy("X", decimal.NewFromInt(1500000)))

	// balance + qty * last trade price (the day high, not the fill price).
	want := acc.Balance().Add(decimal.NewFromInt(150000 * 11))
	assert.True(t, acc.AssetValue().Equal(want))

	require.Len(t, acc.Trades(), 1)
	assert.True(t, acc.Trades()[0].Asset.Equal(want))
}

func TestEstablish(t *testing.T) {
	acc := newTestAccount(t, 5000000)

	acc.Establish(map[string]decimal.Decimal{
		"X": decimal.NewFromInt(1500000),
		"Y": decimal.NewFromInt(500000),
	})

	assert.Equal(t, int64(150000), acc.Position("X").Qty)
	assert.Equal(t, int64(500000/98), acc.Position("Y").Qty)
	assert.Len(t, acc.Trades(), 2)

	// Deterministic seeding order: sorted by name.
	assert.Equal(t, "X", acc.Trades()[0].Name)
	assert.Equal(t, "Y", acc.Trades()[1].Name)
}

func TestNextDay_snapshotAndClockInLockstep(t *testing.T) {
	acc := newTestAccount(t, 5000000)
	start := acc.Market().Today()

	const days = 7
	for i := 0; i < days; i++ {
		acc.NextDay()
	}

	require.Len(t, acc.Snapshots(), days)
	assert.Equal(t, start.AddDate(0, 0, days), acc.Market().Today())

	for i, s := range acc.Snapshots() {
		assert.Equal(t, start.AddDate(0, 0, i), s.Date)
	}
}

func TestNextDay_rateFormula(t *testing.T) {
	acc := newTestAccount(t, 5000000)
	require.True(t, acc.Buy("X", decimal.NewFromInt(1500000)))
	acc.NextDay()

	require.Len(t, acc.Snapshots(), 1)
	s := acc.Snapshots()[0]

	ratio, _ := s.Asset.Div(acc.Capital()).Float64()
	assert.Equal(t, ratio-1, s.Rate)
	assert.Equal(t, int64(150000), s.Positions["X"])
	assert.Equal(t, int64(0), s.Positions["Y"])
}

func TestBalanceNeverNegative(t *testing.T) {
	acc := newTestAccount(t, 1000)

	for i := 0; i < 20; i++ {
		acc.Buy("X", decimal.NewFromInt(300))
		acc.Sell("X", decimal.NewFromInt(150))

		assert.False(t, acc.Balance().IsNegative())
		assert.GreaterOrEqual(t, acc.Position("X").Qty, int64(0))
	}
}
