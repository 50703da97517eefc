package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/realJaydenCheng/quantmock/internal/account"
)

// Run identifies one backtest execution. Trade and snapshot rows hang off its
// RunID; the ID and start time are the only non-deterministic fields a run
// produces.
type Run struct {
	RunID    string
	Started  time.Time
	Capital  decimal.Decimal
	Duration int
}

type Journal interface {
	StartRun(r Run) error
	RecordTrade(runID string, seq int, t account.Trade) error
	RecordSnapshot(runID string, s account.Snapshot) error
	Close() error
}

// RecordAll persists an account's full trade and snapshot logs under run.
func RecordAll(j Journal, run Run, acct *account.Account) error {
	if err := j.StartRun(run); err != nil {
		return err
	}

	for i, t := range acct.Trades() {
		if err := j.RecordTrade(run.RunID, i, t); err != nil {
			return err
		}
	}

	for _, s := range acct.Snapshots() {
		if err := j.RecordSnapshot(run.RunID, s); err != nil {
			return err
		}
	}

	return nil
}
