package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"pta/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pta_runs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id CHAR(36) NOT NULL UNIQUE,
		total_started INT NOT NULL,
		total_outcomes INT NOT NULL,
		failed_test_cases INT NOT NULL,
		counts TEXT NOT NULL,
		duration VARCHAR(64) NOT NULL,
		duration_seconds DOUBLE NOT NULL,
		sessions INT NOT NULL,
		created_at VARCHAR(64) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pta_outcomes (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id CHAR(36) NOT NULL,
		test_id TEXT NOT NULL,
		file_path TEXT NOT NULL,
		test_name TEXT NOT NULL,
		status VARCHAR(8) NOT NULL,
		message MEDIUMTEXT NOT NULL,
		output MEDIUMTEXT NOT NULL,
		seconds DOUBLE NOT NULL,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		INDEX idx_pta_outcomes_run (run_id)
	)`,
}

// MySQLStorage keeps every report in MySQL; Load returns the most recent one.
type MySQLStorage struct {
	db *sql.DB
}

// NewMySQLStorage connects to the server and creates the tables if needed.
func NewMySQLStorage(dsn string) (*MySQLStorage, error) {
	if dsn == "" {
		return nil, errors.New("mysql store needs a DSN")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &MySQLStorage{db: db}, nil
}

// Close releases the connection pool.
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}

// Save inserts a new run and its failures.
func (s *MySQLStorage) Save(summary *domain.RunSummary) (*domain.TestResultsOutput, error) {
	output := BuildOutput(summary)
	counts, err := json.Marshal(output.Meta.Counts)
	if err != nil {
		return nil, fmt.Errorf("marshal counts: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	m := output.Meta
	_, err = tx.Exec(`INSERT INTO pta_runs
		(run_id, total_started, total_outcomes, failed_test_cases, counts, duration, duration_seconds, sessions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, m.TotalStarted, m.TotalOutcomes, m.FailedTestCases, string(counts), m.Duration, m.DurationSeconds, m.Sessions, m.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	for _, f := range output.Details {
		if err := insertFailure(tx, m.RunID, f); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return output, nil
}

func insertFailure(tx *sql.Tx, runID string, f domain.TestFailure) error {
	_, err := tx.Exec(`INSERT INTO pta_outcomes
		(run_id, test_id, file_path, test_name, status, message, output, seconds, resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, f.TestID, f.FilePath, f.TestName, f.Status, f.Message, f.Output, f.Seconds, f.Resolved)
	if err != nil {
		return fmt.Errorf("insert outcome %s: %w", f.TestID, err)
	}
	return nil
}

// Load returns the most recently saved run.
func (s *MySQLStorage) Load() (*domain.TestResultsOutput, error) {
	var (
		output domain.TestResultsOutput
		counts string
	)
	m := &output.Meta
	err := s.db.QueryRow(`SELECT run_id, total_started, total_outcomes, failed_test_cases, counts, duration, duration_seconds, sessions, created_at
		FROM pta_runs ORDER BY id DESC LIMIT 1`).
		Scan(&m.RunID, &m.TotalStarted, &m.TotalOutcomes, &m.FailedTestCases, &counts, &m.Duration, &m.DurationSeconds, &m.Sessions, &m.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("no runs stored")
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if err := json.Unmarshal([]byte(counts), &m.Counts); err != nil {
		return nil, fmt.Errorf("parse counts: %w", err)
	}

	rows, err := s.db.Query(`SELECT test_id, file_path, test_name, status, message, output, seconds, resolved
		FROM pta_outcomes WHERE run_id = ? ORDER BY id`, m.RunID)
	if err != nil {
		return nil, fmt.Errorf("load outcomes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f domain.TestFailure
		if err := rows.Scan(&f.TestID, &f.FilePath, &f.TestName, &f.Status, &f.Message, &f.Output, &f.Seconds, &f.Resolved); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		output.Details = append(output.Details, f)
	}
	return &output, rows.Err()
}

// SaveOutput rewrites the failures of an existing run.
func (s *MySQLStorage) SaveOutput(output *domain.TestResultsOutput) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pta_outcomes WHERE run_id = ?`, output.Meta.RunID); err != nil {
		return fmt.Errorf("clear outcomes: %w", err)
	}
	for _, f := range output.Details {
		if err := insertFailure(tx, output.Meta.RunID, f); err != nil {
			return err
		}
	}
	return tx.Commit()
}
