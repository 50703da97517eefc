package strategy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Grid is an ascending sequence of multipliers. Scaled by a reference price
// it yields len(grid)-1 half-open buckets [t[i-1], t[i]) labeled 1..len-1;
// prices outside the first and last threshold have no bucket.
type Grid []decimal.Decimal

func NewGrid(multipliers []decimal.Decimal) (Grid, error) {
	if len(multipliers) < 2 {
		return nil, errors.New("grid requires at least two multipliers")
	}

	for i := 1; i < len(multipliers); i++ {
		if multipliers[i].LessThanOrEqual(multipliers[i-1]) {
			return nil, fmt.Errorf("grid multipliers must be strictly ascending: %s after %s",
				multipliers[i], multipliers[i-1])
		}
	}

	return Grid(multipliers), nil
}

func NewGridFromFloats(multipliers []float64) (Grid, error) {
	ds := make([]decimal.Decimal, len(multipliers))
	for i, m := range multipliers {
		ds[i] = decimal.NewFromFloat(m)
	}

	return NewGrid(ds)
}

// Thresholds scales the grid by a reference price.
func (g Grid) Thresholds(ref decimal.Decimal) []decimal.Decimal {
	ts := make([]decimal.Decimal, len(g))
	for i, m := range g {
		ts[i] = m.Mul(ref)
	}

	return ts
}

// Bucket assigns price to its 1-based bucket against the thresholds for ref.
// The second result is false when the price falls below the lowest or at or
// above the highest threshold.
func (g Grid) Bucket(price, ref decimal.Decimal) (int, bool) {
	ts := g.Thresholds(ref)
	for i := 1; i < len(ts); i++ {
		if price.GreaterThanOrEqual(ts[i-1]) && price.LessThan(ts[i]) {
			return i, true
		}
	}

	return 0, false
}
