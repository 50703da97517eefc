package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/realJaydenCheng/quantmock/internal/config"
	"github.com/realJaydenCheng/quantmock/internal/market"
	"github.com/realJaydenCheng/quantmock/internal/plot"
)

func newPlotCmd(opts *rootOpts) *cobra.Command {
	var (
		out  string
		from string
	)

	cmd := &cobra.Command{
		Use:   "plot <asset>",
		Short: "Render candlestick and volume panels for one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return plotAsset(opts, args[0], out, from)
		},
	}

	cmd.Flags().StringVar(&out, "out", "chart.png", "Output PNG path")
	cmd.Flags().StringVar(&from, "from", "", "First date to draw (2006-01-02), defaults to the run start")

	return cmd
}

func plotAsset(opts *rootOpts, name, out, from string) error {
	cfg, err := config.ReadFromFile(opts.ConfigPath)
	if err != nil {
		return err
	}

	path, ok := cfg.Data[name]
	if !ok {
		return fmt.Errorf("unknown asset %q", name)
	}

	series, err := market.LoadSeriesCSV(path)
	if err != nil {
		return err
	}

	start := cfg.Start
	if from != "" {
		start, err = time.Parse(time.DateOnly, from)
		if err != nil {
			return fmt.Errorf("invalid from date: %w", err)
		}
	}

	candles, err := plot.Candles(series, name, start)
	if err != nil {
		return err
	}

	volume, err := plot.Volume(series, name, start)
	if err != nil {
		return err
	}

	stack := plot.NewStack(900, 600)
	stack.Add(candles, 0.7)
	stack.Add(volume, 0.3)

	return stack.Save(out)
}
