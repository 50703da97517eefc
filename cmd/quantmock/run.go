package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/realJaydenCheng/quantmock/internal/account"
	"github.com/realJaydenCheng/quantmock/internal/backtest"
	"github.com/realJaydenCheng/quantmock/internal/config"
	"github.com/realJaydenCheng/quantmock/internal/id"
	"github.com/realJaydenCheng/quantmock/internal/journal"
	"github.com/realJaydenCheng/quantmock/internal/market"
	"github.com/realJaydenCheng/quantmock/internal/plot"
	"github.com/realJaydenCheng/quantmock/internal/report"
	"github.com/realJaydenCheng/quantmock/internal/strategy"
)

func newRunCmd(opts *rootOpts) *cobra.Command {
	var valuationPlot string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured backtest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBacktest(cmd.Context(), opts, valuationPlot)
		},
	}

	cmd.Flags().StringVar(&valuationPlot, "valuation-plot", "", "Write the valuation curve PNG to this path")

	return cmd
}

func runBacktest(ctx context.Context, opts *rootOpts, valuationPlot string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.ReadFromFile(opts.ConfigPath)
	if err != nil {
		return err
	}

	log := newLogger(opts.LogLevel)

	series := make(map[string]*market.Series, len(cfg.Data))
	for name, path := range cfg.Data {
		s, err := market.LoadSeriesCSV(path)
		if err != nil {
			return fmt.Errorf("failed to load series for %s: %w", name, err)
		}
		series[name] = s
	}

	mkt, err := market.New(series, cfg.Start)
	if err != nil {
		return err
	}

	grid, err := strategy.NewGridFromFloats(cfg.Grid)
	if err != nil {
		return err
	}

	acct := account.New(log, mkt, decimal.NewFromInt(cfg.Capital))
	strat := strategy.New(log, strategy.Config{
		Grid:          grid,
		Batch:         decimal.NewFromInt(cfg.Batch),
		UnorderedSkip: cfg.Unordered(),
	}, acct)

	establish := make(map[string]decimal.Decimal, len(cfg.Establish))
	for name, value := range cfg.Establish {
		establish[name] = decimal.NewFromInt(value)
	}

	sim, err := backtest.NewSimulator(log, acct, strat, cfg.Duration, establish)
	if err != nil {
		return err
	}

	res, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Report != "" {
		rb := report.NewJsonReportBuilder(log)
		for _, t := range acct.Trades() {
			rb.SubmitTrade(t)
		}
		rb.SubmitSummary(acct.Capital(), res.FinalBalance, res.FinalAsset, res.Rate)

		if err := rb.WriteToFile(cfg.Report); err != nil {
			return err
		}
	}

	if cfg.Journal != "" {
		j, err := journal.NewSQLite(cfg.Journal)
		if err != nil {
			return err
		}
		defer j.Close()

		run := journal.Run{
			RunID:    id.New(),
			Started:  time.Now().UTC(),
			Capital:  acct.Capital(),
			Duration: cfg.Duration,
		}
		if err := journal.RecordAll(j, run, acct); err != nil {
			return fmt.Errorf("failed to journal run: %w", err)
		}
	}

	if valuationPlot != "" {
		p, err := plot.Valuation(acct.Snapshots())
		if err != nil {
			return err
		}

		stack := plot.NewStack(900, 400)
		stack.Add(p, 1)
		if err := stack.Save(valuationPlot); err != nil {
			return err
		}
	}

	return nil
}
