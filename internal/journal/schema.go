package journal

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started DATETIME NOT NULL,
	capital TEXT NOT NULL,
	duration INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	date DATETIME NOT NULL,
	name TEXT NOT NULL,
	change INTEGER NOT NULL,
	price TEXT NOT NULL,
	position INTEGER NOT NULL,
	balance TEXT NOT NULL,
	asset TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS snapshots (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	balance TEXT NOT NULL,
	asset TEXT NOT NULL,
	rate REAL NOT NULL,
	PRIMARY KEY (run_id, date)
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
CREATE INDEX IF NOT EXISTS idx_snapshots_date ON snapshots(date);
`
