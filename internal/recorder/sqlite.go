package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"tariffwatch/internal/logger"
	"tariffwatch/internal/model"
)

// SQLiteRecorder persists cycle history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.WithComponent("recorder").Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_cycles (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			source_entity       TEXT,
			shape               TEXT,
			today_count         INTEGER,
			tomorrow_count      INTEGER,
			skipped_entries     INTEGER,
			market_current      REAL,
			consumption_current REAL,
			injection_current   REAL,
			consumption_min     REAL,
			consumption_max     REAL,
			consumption_mean    REAL,
			injection_min       REAL,
			injection_max       REAL,
			injection_mean      REAL,
			tomorrow_valid      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON price_cycles(timestamp)`,

		`CREATE TABLE IF NOT EXISTS price_intervals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id   INTEGER NOT NULL REFERENCES price_cycles(id),
			tariff     TEXT NOT NULL,
			day        TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time   TEXT NOT NULL,
			price      REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_intervals_cycle ON price_intervals(cycle_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordCycle writes the cycle summary row plus one row per priced
// interval for both tariffs.
func (r *SQLiteRecorder) RecordCycle(snap *CycleSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO price_cycles
		(timestamp, source_entity, shape, today_count, tomorrow_count, skipped_entries,
		 market_current, consumption_current, injection_current,
		 consumption_min, consumption_max, consumption_mean,
		 injection_min, injection_max, injection_mean, tomorrow_valid)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.SourceEntity, string(snap.Shape),
		len(snap.Parsed.Today), len(snap.Parsed.Tomorrow), snap.Parsed.Skipped,
		nullable(snap.Parsed.CurrentPrice),
		nullable(snap.Consumption.CurrentPrice), nullable(snap.Injection.CurrentPrice),
		nullable(snap.Consumption.TodayMin), nullable(snap.Consumption.TodayMax), nullable(snap.Consumption.TodayMean),
		nullable(snap.Injection.TodayMin), nullable(snap.Injection.TodayMax), nullable(snap.Injection.TodayMean),
		boolToInt(snap.Parsed.TomorrowValid),
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	cycleID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("cycle id: %w", err)
	}

	if err := insertIntervals(tx, cycleID, "consumption", snap.Parsed, snap.Consumption); err != nil {
		return err
	}
	if err := insertIntervals(tx, cycleID, "injection", snap.Parsed, snap.Injection); err != nil {
		return err
	}
	return tx.Commit()
}

// insertIntervals pairs the parsed interval boundaries with the priced
// values, which align index-for-index by construction.
func insertIntervals(tx *sql.Tx, cycleID int64, tariff string, parsed *model.ParsedPriceSet, priced *model.PricedSet) error {
	stmt, err := tx.Prepare(`INSERT INTO price_intervals
		(cycle_id, tariff, day, start_time, end_time, price) VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare intervals: %w", err)
	}
	defer stmt.Close()

	write := func(day string, intervals []model.PriceInterval, prices []float64) error {
		for i, iv := range intervals {
			if _, err := stmt.Exec(cycleID, tariff, day,
				iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339), prices[i]); err != nil {
				return fmt.Errorf("insert interval: %w", err)
			}
		}
		return nil
	}
	if err := write("today", parsed.Today, priced.Today); err != nil {
		return err
	}
	return write("tomorrow", parsed.Tomorrow, priced.Tomorrow)
}

func (r *SQLiteRecorder) Close() error {
	logger.WithComponent("recorder").Info("closing sqlite recorder")
	return r.db.Close()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
