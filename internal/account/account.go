package account

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/realJaydenCheng/quantmock/internal/market"
)

// Position tracks the held quantity of one asset together with the price
// observed at its most recent fill. Valuation uses that last observed price,
// not the live market price, so untraded assets are carried at their last
// trade mark.
type Position struct {
	Qty       int64
	LastPrice decimal.Decimal
}

// Trade is one append-only ledger row. Change is signed: positive for buys,
// negative for sells.
type Trade struct {
	Date     time.Time
	Name     string
	Change   int64
	Price    decimal.Decimal
	Position int64
	Balance  decimal.Decimal
	Asset    decimal.Decimal
}

// Snapshot is the end-of-day valuation record, taken once per simulated day
// whether or not anything traded.
type Snapshot struct {
	Date      time.Time
	Balance   decimal.Decimal
	Asset     decimal.Decimal
	Rate      float64
	Positions map[string]int64
}

// Account owns the cash balance, per-asset positions, and the two append-only
// logs of a simulation run. Orders that cannot be honored are dropped, not
// queued: Buy and Sell report execution with their boolean result and leave
// all state untouched on failure.
type Account struct {
	log       *slog.Logger
	market    *market.Market
	capital   decimal.Decimal
	balance   decimal.Decimal
	positions map[string]*Position
	trades    []Trade
	snapshots []Snapshot
}

func New(log *slog.Logger, m *market.Market, capital decimal.Decimal) *Account {
	a := &Account{
		log:       log,
		market:    m,
		capital:   capital,
		balance:   capital,
		positions: make(map[string]*Position),
	}
	for _, name := range m.Names() {
		a.positions[name] = &Position{}
	}

	return a
}

func (a *Account) Market() *market.Market { return a.market }

func (a *Account) Balance() decimal.Decimal { return a.balance }

func (a *Account) Capital() decimal.Decimal { return a.capital }

// Position returns the current holding for name. Unknown names read as an
// empty position.
func (a *Account) Position(name string) Position {
	p, ok := a.positions[name]
	if !ok {
		return Position{}
	}

	return *p
}

// AssetValue is the balance plus every position marked at its last trade
// price. It is the figure recorded on trades and snapshots.
func (a *Account) AssetValue() decimal.Decimal {
	total := a.balance
	for _, p := range a.positions {
		total = total.Add(p.LastPrice.Mul(decimal.NewFromInt(p.Qty)))
	}

	return total
}

func (a *Account) Trades() []Trade { return a.trades }

func (a *Account) Snapshots() []Snapshot { return a.snapshots }

// Buy spends up to value on the named asset at today's low. The executed
// quantity is the floor of value over the fill price; the cash remainder
// stays on the balance. The high of the same day becomes the position's last
// trade price. Returns false, changing nothing, when value exceeds the
// balance or the asset has no bar today.
func (a *Account) Buy(name string, value decimal.Decimal) bool {
	if value.GreaterThan(a.balance) {
		a.log.Debug("buy rejected: insufficient funds",
			slog.String("name", name), slog.String("value", value.String()))
		return false
	}

	bar, ok := a.market.Bar(name)
	if !ok {
		a.log.Debug("buy rejected: no price data",
			slog.String("name", name), slog.Time("date", a.market.Today()))
		return false
	}

	count, _ := value.QuoRem(bar.Low, 0)
	qty := count.IntPart()

	p := a.position(name)
	p.Qty += qty
	p.LastPrice = bar.High
	a.balance = a.balance.Sub(bar.Low.Mul(count))

	a.record(Trade{
		Date:     a.market.Today(),
		Name:     name,
		Change:   qty,
		Price:    bar.Low,
		Position: p.Qty,
		Balance:  a.balance,
		Asset:    a.AssetValue(),
	})
	return true
}

// Sell liquidates floor(value / today's high) units at the high. Returns
// false, changing nothing, when the asset has no bar today or the computed
// quantity exceeds the held position.
func (a *Account) Sell(name string, value decimal.Decimal) bool {
	bar, ok := a.market.Bar(name)
	if !ok {
		a.log.Debug("sell rejected: no price data",
			slog.String("name", name), slog.Time("date", a.market.Today()))
		return false
	}

	count, _ := value.QuoRem(bar.High, 0)
	qty := count.IntPart()

	p := a.position(name)
	if qty > p.Qty {
		a.log.Debug("sell rejected: insufficient inventory",
			slog.String("name", name), slog.Int64("qty", qty), slog.Int64("held", p.Qty))
		return false
	}

	p.Qty -= qty
	p.LastPrice = bar.High
	a.balance = a.balance.Add(bar.High.Mul(count))

	a.record(Trade{
		Date:     a.market.Today(),
		Name:     name,
		Change:   -qty,
		Price:    bar.High,
		Position: p.Qty,
		Balance:  a.balance,
		Asset:    a.AssetValue(),
	})
	return true
}

// Establish seeds initial holdings with one buy per entry, in name order.
func (a *Account) Establish(targets map[string]decimal.Decimal) {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a.Buy(name, targets[name])
	}
}

// NextDay appends today's valuation snapshot and then advances the market
// clock. Snapshots and clock ticks stay in lockstep: this is the only call
// path that moves either.
func (a *Account) NextDay() {
	asset := a.AssetValue()
	ratio, _ := asset.Div(a.capital).Float64()

	positions := make(map[string]int64, len(a.positions))
	for name, p := range a.positions {
		positions[name] = p.Qty
	}

	a.snapshots = append(a.snapshots, Snapshot{
		Date:      a.market.Today(),
		Balance:   a.balance,
		Asset:     asset,
		Rate:      ratio - 1,
		Positions: positions,
	})
	a.market.AdvanceDay()
}

func (a *Account) position(name string) *Position {
	p, ok := a.positions[name]
	if !ok {
		p = &Position{}
		a.positions[name] = p
	}

	return p
}

func (a *Account) record(t Trade) {
	a.trades = append(a.trades, t)
}
