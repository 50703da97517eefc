package market

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// ReadSeriesCSV parses daily OHLCV rows of the form
//
//	date,open,high,low,close,volume
//
// with dates formatted 2006-01-02 and a mandatory header row.
func ReadSeriesCSV(r io.Reader) (*Series, error) {
	rdr := csv.NewReader(bufio.NewReader(r))

	if _, err := rdr.Read(); err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var bars []Bar
	for {
		data, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bar data: %w", err)
		}
		if len(data) < 6 {
			return nil, fmt.Errorf("bar row has %d fields, want 6", len(data))
		}

		date, err := time.Parse(time.DateOnly, data[0])
		if err != nil {
			return nil, fmt.Errorf("failed to parse bar date: %w", err)
		}

		open, err := decimal.NewFromString(data[1])
		if err != nil {
			return nil, fmt.Errorf("failed to read open price: %w", err)
		}

		high, err := decimal.NewFromString(data[2])
		if err != nil {
			return nil, fmt.Errorf("failed to read high price: %w", err)
		}

		low, err := decimal.NewFromString(data[3])
		if err != nil {
			return nil, fmt.Errorf("failed to read low price: %w", err)
		}

		closing, err := decimal.NewFromString(data[4])
		if err != nil {
			return nil, fmt.Errorf("failed to read close price: %w", err)
		}

		volume, err := decimal.NewFromString(data[5])
		if err != nil {
			return nil, fmt.Errorf("failed to read volume: %w", err)
		}

		bars = append(bars, Bar{
			Time:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closing,
			Volume: volume,
		})
	}

	return NewSeries(bars)
}

// LoadSeriesCSV reads a series from a file on disk.
func LoadSeriesCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open series file: %w", err)
	}
	defer f.Close()

	s, err := ReadSeriesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}
