package report

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realJaydenCheng/quantmock/internal/account"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTrade(name string, change int64) account.Trade {
	return account.Trade{
		Date:     time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
		Name:     name,
		Change:   change,
		Price:    decimal.NewFromFloat(10.5),
		Position: change,
		Balance:  decimal.NewFromInt(90000),
		Asset:    decimal.NewFromInt(100500),
	}
}

func TestJsonReport(t *testing.T) {
	rb := NewJsonReportBuilder(discard())
	rb.SubmitTrade(sampleTrade("SSEA", 1000))
	rb.SubmitTrade(sampleTrade("SSEA", -500))
	rb.SubmitTrade(sampleTrade("BTC", 10))
	rb.SubmitSummary(
		decimal.NewFromInt(100000),
		decimal.NewFromInt(90000),
		decimal.NewFromInt(100500),
		0.005,
	)

	var buf bytes.Buffer
	require.NoError(t, rb.Write(&buf))

	var got JsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "100000", got.Capital)
	assert.Equal(t, "90000", got.FinalBalance)
	assert.Equal(t, "100500", got.FinalAsset)
	assert.Equal(t, 0.005, got.Rate)
	assert.Equal(t, 3, got.TradeCount)
	require.Len(t, got.Trades["SSEA"], 2)
	require.Len(t, got.Trades["BTC"], 1)
	assert.Equal(t, int64(-500), got.Trades["SSEA"][1].Change)
	assert.Equal(t, "10.5", got.Trades["SSEA"][1].Price)
}

func TestWriteToFile(t *testing.T) {
	rb := NewJsonReportBuilder(discard())
	rb.SubmitTrade(sampleTrade("SSEA", 1000))

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, rb.WriteToFile(path))

	assert.FileExists(t, path)
}
