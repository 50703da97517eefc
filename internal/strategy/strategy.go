package strategy

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/realJaydenCheng/quantmock/internal/market"
)

// trader is the slice of the account the strategy needs: price/clock access
// plus order placement. A false order result means "not placed" and is final
// for the day.
type trader interface {
	Market() *market.Market
	Buy(name string, value decimal.Decimal) bool
	Sell(name string, value decimal.Decimal) bool
}

type Config struct {
	Grid  Grid
	Batch decimal.Decimal

	// UnorderedSkip reproduces the reference no-op detection: the candidate
	// bucket pair is compared against the stored pair ignoring direction, so
	// certain oscillations (3->5 then 5->3) read as no change. Disable for
	// strict ordered comparison.
	UnorderedSkip bool
}

// bucket is one slot of the rolling bucket window. ok is false when the day's
// open fell outside the grid, which poisons comparisons the way the reference
// treats its undefined labels: an invalid slot compares unequal to everything.
type bucket struct {
	idx int
	ok  bool
}

func (b bucket) equal(o bucket) bool {
	return b.ok && o.ok && b.idx == o.idx
}

// assetState is the per-asset rolling state: a two-slot window of reference
// prices and a two-slot window of bucket assignments.
type assetState struct {
	refPrev decimal.Decimal
	refCur  decimal.Decimal
	bktPrev bucket
	bktCur  bucket
}

// GridStrategy re-anchors a multiplier grid to each asset's previous close
// every day and trades one fixed batch whenever the day's open crosses into a
// different bucket: a lower bucket buys, a higher bucket sells.
type GridStrategy struct {
	log    *slog.Logger
	cfg    Config
	acct   trader
	states map[string]*assetState
}

func New(log *slog.Logger, cfg Config, acct trader) *GridStrategy {
	return &GridStrategy{
		log:    log,
		cfg:    cfg,
		acct:   acct,
		states: make(map[string]*assetState),
	}
}

// Init seeds every asset's windows from the start date's close. The first
// evaluation happens on the day after the start date; the simulator advances
// the clock right after calling Init.
func (s *GridStrategy) Init() error {
	m := s.acct.Market()
	for _, name := range m.Names() {
		bar, ok := m.Bar(name)
		if !ok {
			return fmt.Errorf("%s has no bar on start date %s",
				name, m.Today().Format("2006-01-02"))
		}

		s.states[name] = &assetState{
			refCur:  bar.Close,
			bktPrev: bucket{idx: 0, ok: true},
			bktCur:  bucket{idx: 0, ok: true},
		}
	}

	return nil
}

// Step evaluates one simulated day for every asset that has a bar on the
// current date. Assets without data are skipped entirely: no window shifts,
// no trades.
func (s *GridStrategy) Step() {
	m := s.acct.Market()
	for _, name := range m.Names() {
		bar, ok := m.Bar(name)
		if !ok {
			continue
		}

		st := s.states[name]

		// Shift in today's close; the ousted slot, yesterday's close, anchors
		// today's thresholds.
		st.refPrev, st.refCur = st.refCur, bar.Close
		ref := st.refPrev

		idx, inRange := s.cfg.Grid.Bucket(bar.Open, ref)
		candPrev := st.bktCur
		candCur := bucket{idx: idx, ok: inRange}

		// The validity check reads the stale slot before it is overwritten,
		// so the notice surfaces the day after the out-of-range open.
		if !candPrev.ok {
			s.log.Warn("open price out of grid range",
				slog.String("name", name), slog.Time("date", m.Today()))
		}

		if s.skip(st, candPrev, candCur) {
			continue
		}

		switch {
		case !candPrev.ok || !candCur.ok:
			// Undefined bucket on either side: no trade, window still shifts.
		case candCur.idx > candPrev.idx:
			s.acct.Sell(name, s.cfg.Batch)
		case candCur.idx < candPrev.idx:
			s.acct.Buy(name, s.cfg.Batch)
		}

		st.bktPrev, st.bktCur = candPrev, candCur
	}
}

// skip reports whether the candidate window counts as no meaningful change
// from the stored one, in which case the bucket window is left untouched.
func (s *GridStrategy) skip(st *assetState, candPrev, candCur bucket) bool {
	if !s.cfg.UnorderedSkip {
		return candPrev.equal(st.bktPrev) && candCur.equal(st.bktCur)
	}

	lo, hi := candPrev, candCur
	if lo.ok && hi.ok && lo.idx > hi.idx {
		lo, hi = hi, lo
	}

	return lo.equal(st.bktPrev) && hi.equal(st.bktCur)
}
