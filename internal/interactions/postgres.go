package interactions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type PostgresSink struct {
	db    *sql.DB
	table string
}

func NewPostgresSink(db *sql.DB, table string) *PostgresSink {
	return &PostgresSink{db: db, table: pq.QuoteIdentifier(table)}
}

func (s *PostgresSink) Name() string {
	return "postgres"
}

// EnsureSchema creates the table and its timestamp index when missing.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			remote_addr TEXT,
			question TEXT NOT NULL,
			response TEXT NOT NULL,
			model_used TEXT,
			duration_ms BIGINT,
			diagnostics JSONB
		)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (timestamp DESC)`,
			pq.QuoteIdentifier(unquoted(s.table)+"_timestamp_idx"), s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure interactions schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresSink) Write(ctx context.Context, r Record) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, timestamp, remote_addr, question, response, model_used, duration_ms, diagnostics) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, s.table)

	var diagnostics interface{}
	if len(r.Diagnostics) > 0 {
		diagnostics = []byte(r.Diagnostics)
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Timestamp, r.RemoteAddr, r.Question, r.Answer, r.Model, r.DurationMS, diagnostics)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

func (s *PostgresSink) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := fmt.Sprintf(`SELECT id, timestamp, remote_addr, question, response, model_used, duration_ms, diagnostics FROM %s ORDER BY timestamp DESC LIMIT $1`, s.table)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r           Record
			remoteAddr  sql.NullString
			model       sql.NullString
			duration    sql.NullInt64
			diagnostics []byte
		)
		if err := rows.Scan(&r.ID, &r.Timestamp, &remoteAddr, &r.Question, &r.Answer, &model, &duration, &diagnostics); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		r.RemoteAddr = remoteAddr.String
		r.Model = model.String
		r.DurationMS = duration.Int64
		if len(diagnostics) > 0 {
			r.Diagnostics = diagnostics
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func unquoted(ident string) string {
	if len(ident) >= 2 && ident[0] == '"' && ident[len(ident)-1] == '"' {
		return ident[1 : len(ident)-1]
	}
	return ident
}
