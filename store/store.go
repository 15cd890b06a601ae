// Package store persists completed assessment summaries to a local SQLite
// database.  It lives at the tool layer; the evaluation core never depends
// on it.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/movewell/go-lumbarcheck/analyze"
)

// Assessment is one stored session outcome
type Assessment struct {
	SessionID   string
	Test        string
	Score       float64
	FrameCount  int
	Metrics     []analyze.Metric
	Feedback    []string
	CompletedAt time.Time
}

// Store wraps the SQLite assessment log
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	test         TEXT NOT NULL,
	score        REAL NOT NULL,
	frame_count  INTEGER NOT NULL,
	metrics      TEXT NOT NULL,
	feedback     TEXT NOT NULL,
	completed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_completed
	ON assessments(completed_at);
`

// Open opens (creating if needed) the assessment database at path
func Open(path string) (*Store, error) {

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a completed assessment.  Metrics and feedback are stored as
// JSON since they are only read back for display, never queried
func (s *Store) Save(a Assessment) error {

	metrics, err := json.Marshal(a.Metrics)

	if err != nil {
		return fmt.Errorf("error encoding metrics: %w", err)
	}

	feedback, err := json.Marshal(a.Feedback)

	if err != nil {
		return fmt.Errorf("error encoding feedback: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO assessments
		(session_id, test, score, frame_count, metrics, feedback, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.SessionID, a.Test, a.Score, a.FrameCount,
		string(metrics), string(feedback), a.CompletedAt)

	if err != nil {
		return fmt.Errorf("error inserting assessment: %w", err)
	}

	return nil
}

// Recent returns the most recent assessments, newest first
func (s *Store) Recent(limit int) ([]Assessment, error) {

	rows, err := s.db.Query(`SELECT session_id, test, score, frame_count,
		metrics, feedback, completed_at
		FROM assessments ORDER BY completed_at DESC LIMIT ?`, limit)

	if err != nil {
		return nil, fmt.Errorf("error querying assessments: %w", err)
	}

	defer rows.Close()

	var results []Assessment

	for rows.Next() {
		var a Assessment
		var metrics, feedback string

		if err := rows.Scan(&a.SessionID, &a.Test, &a.Score, &a.FrameCount,
			&metrics, &feedback, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("error scanning assessment: %w", err)
		}

		if err := json.Unmarshal([]byte(metrics), &a.Metrics); err != nil {
			return nil, fmt.Errorf("error decoding metrics: %w", err)
		}

		if err := json.Unmarshal([]byte(feedback), &a.Feedback); err != nil {
			return nil, fmt.Errorf("error decoding feedback: %w", err)
		}

		results = append(results, a)
	}

	return results, rows.Err()
}
