package backtest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/realJaydenCheng/quantmock/internal/account"
	"github.com/realJaydenCheng/quantmock/internal/strategy"
)

// Result summarizes one completed run.
type Result struct {
	Days         int
	Trades       int
	FinalBalance decimal.Decimal
	FinalAsset   decimal.Decimal
	Rate         float64
}

// Simulator drives the day loop: seed initial holdings, then run exactly
// Duration iterations of grid evaluation followed by the end-of-day snapshot.
// The run never terminates early; once cash or inventory runs out, orders
// simply stop executing.
type Simulator struct {
	log       *slog.Logger
	acct      *account.Account
	strat     *strategy.GridStrategy
	duration  int
	establish map[string]decimal.Decimal
}

func NewSimulator(log *slog.Logger, acct *account.Account, strat *strategy.GridStrategy, duration int, establish map[string]decimal.Decimal) (*Simulator, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("invalid duration: %d", duration)
	}

	return &Simulator{
		log:       log,
		acct:      acct,
		strat:     strat,
		duration:  duration,
		establish: establish,
	}, nil
}

func (s *Simulator) Run(ctx context.Context) (Result, error) {
	s.acct.Establish(s.establish)
	if err := s.strat.Init(); err != nil {
		return Result{}, fmt.Errorf("failed to initialize strategy: %w", err)
	}
	s.acct.NextDay()

	for day := 0; day < s.duration; day++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("simulation canceled on day %d: %w", day, err)
		}

		s.strat.Step()
		s.acct.NextDay()
	}

	asset := s.acct.AssetValue()
	ratio, _ := asset.Div(s.acct.Capital()).Float64()

	res := Result{
		Days:         s.duration,
		Trades:       len(s.acct.Trades()),
		FinalBalance: s.acct.Balance(),
		FinalAsset:   asset,
		Rate:         ratio - 1,
	}

	s.log.Info("simulation complete",
		slog.Int("days", res.Days),
		slog.Int("trades", res.Trades),
		slog.String("final_asset", res.FinalAsset.String()),
		slog.Float64("rate", res.Rate))

	return res, nil
}
