package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/realJaydenCheng/quantmock/internal/account"
)

type JsonReportBuilder struct {
	log    *slog.Logger
	report JsonReport
}

type JsonReport struct {
	Capital      string                 `json:"capital,omitempty"`
	FinalBalance string                 `json:"final_balance,omitempty"`
	FinalAsset   string                 `json:"final_asset,omitempty"`
	Rate         float64                `json:"rate"`
	TradeCount   int                    `json:"trade_count"`
	Trades       map[string][]JsonTrade `json:"trades,omitempty"`
}

type JsonTrade struct {
	Date     time.Time `json:"date"`
	Change   int64     `json:"change"`
	Price    string    `json:"price"`
	Position int64     `json:"position"`
	Balance  string    `json:"balance"`
	Asset    string    `json:"asset"`
}

func NewJsonReportBuilder(log *slog.Logger) *JsonReportBuilder {
	return &JsonReportBuilder{
		log: log,
		report: JsonReport{
			Trades: map[string][]JsonTrade{},
		},
	}
}

func (r *JsonReportBuilder) SubmitTrade(t account.Trade) {
	r.report.Trades[t.Name] = append(r.report.Trades[t.Name], JsonTrade{
		Date:     t.Date,
		Change:   t.Change,
		Price:    t.Price.String(),
		Position: t.Position,
		Balance:  t.Balance.String(),
		Asset:    t.Asset.String(),
	})
	r.report.TradeCount++
}

// SubmitSummary records the run totals. Rate is the final asset value over
// capital, minus one.
func (r *JsonReportBuilder) SubmitSummary(capital, balance, asset decimal.Decimal, rate float64) {
	r.report.Capital = capital.String()
	r.report.FinalBalance = balance.String()
	r.report.FinalAsset = asset.String()
	r.report.Rate = rate

	r.log.Info("run summary",
		slog.String("final_asset", asset.String()),
		slog.Float64("rate", rate),
		slog.Int("trades", r.report.TradeCount))
}

func (r *JsonReportBuilder) Write(w io.Writer) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(r.report); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	return nil
}

func (r *JsonReportBuilder) WriteToFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	return r.Write(f)
}
