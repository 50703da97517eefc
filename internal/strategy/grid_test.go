package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canonicalGrid(t *testing.T) Grid {
	t.Helper()

	g, err := NewGridFromFloats([]float64{0.97, 0.98, 0.99, 1, 1.01, 1.02, 1.03})
	require.NoError(t, err)
	return g
}

func TestNewGrid_validation(t *testing.T) {
	_, err := NewGridFromFloats([]float64{1})
	assert.Error(t, err)

	_, err = NewGridFromFloats([]float64{0.97, 0.97, 1})
	assert.Error(t, err)

	_, err = NewGridFromFloats([]float64{1, 0.99})
	assert.Error(t, err)
}

func TestGridThresholds(t *testing.T) {
	g := canonicalGrid(t)
	ts := g.Thresholds(decimal.NewFromInt(100))

	require.Len(t, ts, 7)
	assert.True(t, ts[0].Equal(decimal.NewFromInt(97)))
	assert.True(t, ts[3].Equal(decimal.NewFromInt(100)))
	assert.True(t, ts[6].Equal(decimal.NewFromInt(103)))
}

func TestGridBucket(t *testing.T) {
	g := canonicalGrid(t)
	ref := decimal.NewFromInt(100)

	tbl := []struct {
		price   float64
		bucket  int
		inRange bool
	}{
		{price: 102, bucket: 6, inRange: true},
		{price: 97, bucket: 1, inRange: true},
		{price: 97.5, bucket: 1, inRange: true},
		{price: 98, bucket: 2, inRange: true},
		{price: 100, bucket: 4, inRange: true},
		{price: 100.5, bucket: 4, inRange: true},
		{price: 102.99, bucket: 6, inRange: true},
		{price: 95, inRange: false},
		{price: 96.99, inRange: false},
		{price: 103, inRange: false},
		{price: 110, inRange: false},
	}

	for _, c := range tbl {
		b, ok := g.Bucket(decimal.NewFromFloat(c.price), ref)
		assert.Equal(t, c.inRange, ok, "price %v", c.price)
		if c.inRange {
			assert.Equal(t, c.bucket, b, "price %v", c.price)
		}
	}
}

func TestGridBucket_monotonicInPrice(t *testing.T) {
	g := canonicalGrid(t)
	ref := decimal.NewFromInt(100)

	last := 0
	for p := 9700; p < 10300; p += 7 {
		b, ok := g.Bucket(decimal.NewFromInt(int64(p)).Div(decimal.NewFromInt(100)), ref)
		require.True(t, ok, "price %d", p)
		assert.GreaterOrEqual(t, b, last, "price %d", p)
		last = b
	}
}

func TestGridBucket_scalesWithReference(t *testing.T) {
	g := canonicalGrid(t)

	b, ok := g.Bucket(decimal.NewFromInt(204), decimal.NewFromInt(200))
	require.True(t, ok)
	assert.Equal(t, 6, b)

	_, ok = g.Bucket(decimal.NewFromInt(204), decimal.NewFromInt(100))
	assert.False(t, ok)
}
