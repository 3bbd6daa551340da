package scheduler

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection and provides methods for interacting
// with rescan cycle history.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// CycleHistoryEntry represents a record in the rescan_history table.
type CycleHistoryEntry struct {
	ID             int64
	CycleStartTime time.Time
	CycleEndTime   sql.NullTime
	Status         string
	URLsConsidered int
	URLsRescanned  int
	Failures       int
	LogSummary     sql.NullString
}

// NewDB initializes a new DB connection and ensures the schema is set up.
func NewDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	logger.Info().Str("db_path", dataSourceName).Msg("Initializing scheduler database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scheduler database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	db := &DB{
		db:     dbInstance,
		logger: logger,
	}

	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info().Str("path", dataSourceName).Msg("Database initialized and schema verified")
	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InitSchema creates the rescan_history table if it doesn't already exist.
func (d *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS rescan_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle_start_time DATETIME NOT NULL,
		cycle_end_time DATETIME,
		status TEXT NOT NULL,
		urls_considered INTEGER DEFAULT 0,
		urls_rescanned INTEGER DEFAULT 0,
		failures INTEGER DEFAULT 0,
		log_summary TEXT
	);
	`
	_, err := d.db.Exec(query)
	if err != nil {
		d.logger.Error().Err(err).Msg("DB: Failed to initialize schema")
		return err
	}
	return nil
}

// RecordCycleStart inserts a new record into rescan_history with status
// "STARTED" and returns the ID of the newly inserted row.
func (d *DB) RecordCycleStart(startTime time.Time, urlsConsidered int) (int64, error) {
	query := `INSERT INTO rescan_history (cycle_start_time, status, urls_considered) VALUES (?, ?, ?)`
	result, err := d.db.Exec(query, startTime, "STARTED", urlsConsidered)
	if err != nil {
		return 0, fmt.Errorf("failed to insert cycle start record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	d.logger.Info().Int64("cycle_id", id).Msg("Recorded cycle start in DB")
	return id, nil
}

// UpdateCycleCompletion updates an existing rescan_history record with
// completion details.
func (d *DB) UpdateCycleCompletion(cycleID int64, endTime time.Time, status string, urlsRescanned int, failures int, logSummary string) error {
	query := `UPDATE rescan_history SET cycle_end_time = ?, status = ?, urls_rescanned = ?, failures = ?, log_summary = ? WHERE id = ?`
	_, err := d.db.Exec(query, endTime, status, urlsRescanned, failures, sql.NullString{String: logSummary, Valid: logSummary != ""}, cycleID)
	if err != nil {
		return fmt.Errorf("failed to update cycle completion for ID %d: %w", cycleID, err)
	}
	d.logger.Info().Int64("cycle_id", cycleID).Str("status", status).Msg("Updated cycle completion in DB")
	return nil
}

// GetLastCycleTime retrieves the cycle_start_time of the most recent
// finished cycle. Every terminal status counts (COMPLETED, PARTIAL_COMPLETE,
// FAILED, INTERRUPTED): a cycle with failing URLs still consumes its slot,
// otherwise the scheduler would rerun it back-to-back with no delay. Returns
// sql.ErrNoRows when no cycle has finished yet.
func (d *DB) GetLastCycleTime() (*time.Time, error) {
	query := `SELECT cycle_start_time FROM rescan_history WHERE cycle_end_time IS NOT NULL ORDER BY cycle_start_time DESC LIMIT 1`
	var cycleStartTime time.Time
	err := d.db.QueryRow(query).Scan(&cycleStartTime)
	if err != nil {
		if err == sql.ErrNoRows {
			d.logger.Info().Msg("No finished cycle found in history")
			return nil, err
		}
		return nil, fmt.Errorf("failed to query last cycle start time: %w", err)
	}

	d.logger.Debug().Time("last_cycle_start_time", cycleStartTime).Msg("Found last cycle start time")
	return &cycleStartTime, nil
}

// RecentCycles returns up to limit most recent cycle records, newest first.
func (d *DB) RecentCycles(limit int) ([]CycleHistoryEntry, error) {
	query := `SELECT id, cycle_start_time, cycle_end_time, status, urls_considered, urls_rescanned, failures, log_summary
		FROM rescan_history ORDER BY cycle_start_time DESC LIMIT ?`
	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent cycles: %w", err)
	}
	defer rows.Close()

	var entries []CycleHistoryEntry
	for rows.Next() {
		var e CycleHistoryEntry
		if err := rows.Scan(&e.ID, &e.CycleStartTime, &e.CycleEndTime, &e.Status, &e.URLsConsidered, &e.URLsRescanned, &e.Failures, &e.LogSummary); err != nil {
			return nil, fmt.Errorf("failed to scan cycle row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
