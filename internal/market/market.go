package market

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Day truncates t to a UTC calendar date. All series and the market clock
// are keyed on these normalized dates.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Series is an immutable per-asset daily OHLCV history. Dates are strictly
// increasing but need not be contiguous; holidays show up as gaps.
type Series struct {
	bars  []Bar
	index map[time.Time]int
}

func NewSeries(bars []Bar) (*Series, error) {
	if len(bars) == 0 {
		return nil, errors.New("series must contain at least one bar")
	}

	s := &Series{
		bars:  make([]Bar, len(bars)),
		index: make(map[time.Time]int, len(bars)),
	}
	for i, b := range bars {
		b.Time = Day(b.Time)
		if i > 0 && !b.Time.After(s.bars[i-1].Time) {
			return nil, fmt.Errorf("bar dates must be strictly increasing: %s after %s",
				b.Time.Format(time.DateOnly), s.bars[i-1].Time.Format(time.DateOnly))
		}
		if !b.Open.IsPositive() || !b.High.IsPositive() || !b.Low.IsPositive() || !b.Close.IsPositive() {
			return nil, fmt.Errorf("bar on %s has a non-positive price", b.Time.Format(time.DateOnly))
		}
		s.bars[i] = b
		s.index[b.Time] = i
	}

	return s, nil
}

// Bar returns the bar recorded on date, if any.
func (s *Series) Bar(date time.Time) (Bar, bool) {
	i, ok := s.index[Day(date)]
	if !ok {
		return Bar{}, false
	}

	return s.bars[i], true
}

func (s *Series) First() Bar { return s.bars[0] }

func (s *Series) Last() Bar { return s.bars[len(s.bars)-1] }

func (s *Series) Len() int { return len(s.bars) }

// Since returns the bars on or after date. The returned slice shares the
// series' backing array and must not be modified.
func (s *Series) Since(date time.Time) []Bar {
	date = Day(date)
	i := sort.Search(len(s.bars), func(i int) bool {
		return !s.bars[i].Time.Before(date)
	})
	return s.bars[i:]
}

// Market holds every tradable series plus the single authoritative clock for
// a simulation run. Account and strategy both read the clock through the one
// shared instance; only the simulator advances it.
type Market struct {
	series map[string]*Series
	today  time.Time
}

func New(series map[string]*Series, start time.Time) (*Market, error) {
	if len(series) == 0 {
		return nil, errors.New("market requires at least one series")
	}

	return &Market{series: series, today: Day(start)}, nil
}

func (m *Market) Today() time.Time { return m.today }

// AdvanceDay moves the clock forward one calendar day, unconditionally.
// Weekends and holidays are not skipped; dates without data are handled by
// callers via the absent-bar lookups.
func (m *Market) AdvanceDay() {
	m.today = m.today.AddDate(0, 0, 1)
}

// Lookup returns the named asset's bar on date.
func (m *Market) Lookup(name string, date time.Time) (Bar, bool) {
	s, ok := m.series[name]
	if !ok {
		return Bar{}, false
	}

	return s.Bar(date)
}

// Bar returns the named asset's bar on the current date.
func (m *Market) Bar(name string) (Bar, bool) {
	return m.Lookup(name, m.today)
}

func (m *Market) Series(name string) (*Series, bool) {
	s, ok := m.series[name]
	return s, ok
}

// Names returns the asset names in sorted order so that every walk over the
// market is deterministic.
func (m *Market) Names() []string {
	names := make([]string, 0, len(m.series))
	for name := range m.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
