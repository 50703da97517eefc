package plot

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/realJaydenCheng/quantmock/internal/account"
	"github.com/realJaydenCheng/quantmock/internal/market"
)

var (
	colorUp   = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	colorDown = color.RGBA{R: 60, G: 60, B: 220, A: 255}
	colorVol  = color.RGBA{R: 90, G: 180, B: 190, A: 255}
)

func newTimePlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	return p
}

// Candles renders daily candlesticks from a series, starting at from: a thin
// high/low wick and a thicker open/close body per bar, colored by direction.
func Candles(s *market.Series, name string, from time.Time) (*plot.Plot, error) {
	bars := s.Since(from)
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for %s after %s", name, from.Format(time.DateOnly))
	}

	p := newTimePlot(name, "Price")
	for _, b := range bars {
		c := colorDown
		if b.Close.GreaterThanOrEqual(b.Open) {
			c = colorUp
		}

		x := float64(b.Time.Unix())
		low, _ := b.Low.Float64()
		high, _ := b.High.Float64()
		open, _ := b.Open.Float64()
		closing, _ := b.Close.Float64()

		wick, err := plotter.NewLine(plotter.XYs{{X: x, Y: low}, {X: x, Y: high}})
		if err != nil {
			return nil, fmt.Errorf("failed to build candle wick: %w", err)
		}
		wick.Color = c

		body, err := plotter.NewLine(plotter.XYs{{X: x, Y: open}, {X: x, Y: closing}})
		if err != nil {
			return nil, fmt.Errorf("failed to build candle body: %w", err)
		}
		body.Color = c
		body.Width = vg.Points(4)

		p.Add(wick, body)
	}

	return p, nil
}

// Volume renders the daily traded volume as vertical bars.
func Volume(s *market.Series, name string, from time.Time) (*plot.Plot, error) {
	bars := s.Since(from)
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for %s after %s", name, from.Format(time.DateOnly))
	}

	p := newTimePlot(name, "Volume")
	for _, b := range bars {
		x := float64(b.Time.Unix())
		v, _ := b.Volume.Float64()

		bar, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: v}})
		if err != nil {
			return nil, fmt.Errorf("failed to build volume bar: %w", err)
		}
		bar.Color = colorVol
		bar.Width = vg.Points(3)
		p.Add(bar)
	}

	return p, nil
}

// Valuation renders the account's total asset value over the run.
func Valuation(snapshots []account.Snapshot) (*plot.Plot, error) {
	if len(snapshots) == 0 {
		return nil, errors.New("no snapshots to plot")
	}

	pts := make(plotter.XYs, len(snapshots))
	for i, s := range snapshots {
		v, _ := s.Asset.Float64()
		pts[i] = plotter.XY{X: float64(s.Date.Unix()), Y: v}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build valuation line: %w", err)
	}

	p := newTimePlot("Valuation", "Asset value")
	p.Add(line)
	return p, nil
}

// Stack lays plots out in vertically aligned panels sharing an x range and
// saves them as one PNG.
type Stack struct {
	plots   []*plot.Plot
	heights []float64
	w       int
	h       int
}

func NewStack(w, h int) *Stack {
	return &Stack{w: w, h: h}
}

func (s *Stack) Add(p *plot.Plot, height float64) {
	s.plots = append(s.plots, p)
	s.heights = append(s.heights, height)
}

func (s *Stack) Save(path string) (err error) {
	if len(s.plots) == 0 {
		return errors.New("nothing to save")
	}

	var axes []*plot.Axis
	for _, p := range s.plots {
		axes = append(axes, &p.X)
	}
	plotext.UniteAxisRanges(axes)

	tbl := plotext.Table{
		RowHeights: s.heights,
		ColWidths:  []float64{1},
	}

	var rows [][]*plot.Plot
	for _, p := range s.plots {
		rows = append(rows, []*plot.Plot{p})
	}

	h := 0.0
	for _, v := range s.heights {
		h += v * float64(s.h)
	}

	img := vgimg.New(vg.Points(float64(s.w)), vg.Points(h))
	dc := draw.New(img)

	canvases := tbl.Align(rows, dc)
	for i, p := range s.plots {
		p.Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write plot to file: %w", err)
	}

	return nil
}
