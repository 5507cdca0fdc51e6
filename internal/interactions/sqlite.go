package interactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// sqliteTimeLayout is fixed width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteSink keeps records in a local database file. It is the default
// sink for development setups without postgres.
type SQLiteSink struct {
	db *sql.DB
}

func NewSQLiteSink(db *sql.DB) *SQLiteSink {
	return &SQLiteSink{db: db}
}

func (s *SQLiteSink) Name() string {
	return "sqlite"
}

func (s *SQLiteSink) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			remote_addr TEXT,
			question TEXT NOT NULL,
			response TEXT NOT NULL,
			model_used TEXT,
			duration_ms INTEGER,
			diagnostics TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure interactions schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteSink) Write(ctx context.Context, r Record) error {
	var diagnostics interface{}
	if len(r.Diagnostics) > 0 {
		diagnostics = string(r.Diagnostics)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, timestamp, remote_addr, question, response, model_used, duration_ms, diagnostics) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp.UTC().Format(sqliteTimeLayout), r.RemoteAddr, r.Question, r.Answer, r.Model, r.DurationMS, diagnostics)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, remote_addr, question, response, model_used, duration_ms, diagnostics FROM interactions ORDER BY timestamp DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r           Record
			timestamp   string
			remoteAddr  sql.NullString
			model       sql.NullString
			duration    sql.NullInt64
			diagnostics sql.NullString
		)
		if err := rows.Scan(&r.ID, &timestamp, &remoteAddr, &r.Question, &r.Answer, &model, &duration, &diagnostics); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		ts, err := time.Parse(sqliteTimeLayout, timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse interaction timestamp %q: %w", timestamp, err)
		}
		r.Timestamp = ts
		r.RemoteAddr = remoteAddr.String
		r.Model = model.String
		r.DurationMS = duration.Int64
		if diagnostics.Valid && diagnostics.String != "" {
			r.Diagnostics = []byte(diagnostics.String)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
