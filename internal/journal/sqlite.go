package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/realJaydenCheng/quantmock/internal/account"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open journal database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to apply journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) StartRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs (run_id, started, capital, duration)
		VALUES (?, ?, ?, ?)`,
		r.RunID, r.Started, r.Capital.String(), r.Duration,
	)
	return err
}

func (j *SQLiteJournal) RecordTrade(runID string, seq int, t account.Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, seq, date, name, change, price, position, balance, asset)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, t.Date, t.Name, t.Change,
		t.Price.String(), t.Position, t.Balance.String(), t.Asset.String(),
	)
	return err
}

func (j *SQLiteJournal) RecordSnapshot(runID string, s account.Snapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO snapshots (run_id, date, balance, asset, rate)
		VALUES (?, ?, ?, ?, ?)`,
		runID, s.Date, s.Balance.String(), s.Asset.String(), s.Rate,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
