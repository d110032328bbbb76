package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists request history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc reads don't block the request path.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_requests (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			start_date   TEXT,
			end_date     TEXT,
			short_window INTEGER,
			long_window  INTEGER,
			trend_window INTEGER,
			cache_hits   INTEGER,
			duration_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_ts ON analysis_requests(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ticker_outcomes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id TEXT NOT NULL,
			ticker     TEXT NOT NULL,
			outcome    TEXT NOT NULL,
			detail     TEXT,
			points     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_request ON ticker_outcomes(request_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRequest(rec *RequestRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO analysis_requests
		(id, timestamp, start_date, end_date, short_window, long_window, trend_window, cache_hits, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.ID, time.Now().Unix(), rec.Start, rec.End,
		rec.ShortWindow, rec.LongWindow, rec.TrendWindow,
		rec.CacheHits, rec.DurationMS,
	)
	if err != nil {
		return err
	}

	for _, to := range rec.Tickers {
		_, err = tx.Exec(`INSERT INTO ticker_outcomes
			(request_id, ticker, outcome, detail, points)
			VALUES (?,?,?,?,?)`,
			rec.ID, to.Ticker, to.Outcome, to.Detail, to.Points,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
