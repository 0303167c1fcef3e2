package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists schedule runs to a SQLite database.
type SQLiteRecorder struct {
	logger *zap.Logger
	db     *sql.DB
	mu     sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(logger *zap.Logger, dbPath string) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{logger: logger, db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened",
		zap.String("op", "recorder.NewSQLiteRecorder"),
		zap.String("path", dbPath),
	)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schedule_runs (
			id               TEXT PRIMARY KEY,
			timestamp        INTEGER NOT NULL,
			source           TEXT,
			scenario         TEXT,
			principal        REAL,
			interest_rate    REAL,
			effective_term   REAL,
			periods_computed INTEGER,
			payoff_period    INTEGER,
			total_repayment  REAL,
			total_interest   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON schedule_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_scenario ON schedule_runs(scenario)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts one run row, assigning an id and timestamp when unset.
func (r *SQLiteRecorder) RecordRun(record *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp == 0 {
		record.Timestamp = time.Now().Unix()
	}

	_, err := r.db.Exec(`INSERT INTO schedule_runs
		(id, timestamp, source, scenario, principal, interest_rate, effective_term,
		 periods_computed, payoff_period, total_repayment, total_interest)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		record.ID, record.Timestamp, record.Source, record.Scenario,
		record.Principal, record.InterestRate, record.EffectiveTerm,
		record.PeriodsComputed, record.PayoffPeriod,
		record.TotalRepayment, record.TotalInterest,
	)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, source, scenario, principal,
		interest_rate, effective_term, periods_computed, payoff_period,
		total_repayment, total_interest
		FROM schedule_runs ORDER BY timestamp DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		if err := rows.Scan(&record.ID, &record.Timestamp, &record.Source,
			&record.Scenario, &record.Principal, &record.InterestRate,
			&record.EffectiveTerm, &record.PeriodsComputed, &record.PayoffPeriod,
			&record.TotalRepayment, &record.TotalInterest); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder",
		zap.String("op", "recorder.Close"),
	)
	return r.db.Close()
}
