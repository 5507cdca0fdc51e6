package interactions

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSink_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "interactions"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS "interactions_timestamp_idx" ON "interactions" (timestamp DESC)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	sink := NewPostgresSink(db, "interactions")
	require.NoError(t, sink.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_Write(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := NewRecord("10.0.0.1", "Weather in Paris?", "Sunny.", "gemini-test", 250*time.Millisecond,
		map[string]string{"type": "weather"})

	mock.ExpectExec(`INSERT INTO "interactions" \(id, timestamp, remote_addr, question, response, model_used, duration_ms, diagnostics\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)`).
		WithArgs(rec.ID, rec.Timestamp, "10.0.0.1", "Weather in Paris?", "Sunny.", "gemini-test", int64(250), []byte(rec.Diagnostics)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sink := NewPostgresSink(db, "interactions")
	require.NoError(t, sink.Write(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_WriteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO "interactions"`).WillReturnError(errors.New("relation does not exist"))

	err = NewPostgresSink(db, "interactions").Write(context.Background(), NewRecord("", "q", "a", "m", 0, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestPostgresSink_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "timestamp", "remote_addr", "question", "response", "model_used", "duration_ms", "diagnostics"}).
		AddRow("b", now, "10.0.0.2", "second", "two", "gemini-test", int64(20), []byte(`{"type":"general"}`)).
		AddRow("a", now.Add(-time.Minute), nil, "first", "one", nil, nil, nil)

	mock.ExpectQuery(`SELECT id, timestamp, remote_addr, question, response, model_used, duration_ms, diagnostics FROM "interactions" ORDER BY timestamp DESC LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(rows)

	records, err := NewPostgresSink(db, "interactions").Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "10.0.0.2", records[0].RemoteAddr)
	assert.JSONEq(t, `{"type":"general"}`, string(records[0].Diagnostics))
	assert.Equal(t, "", records[1].RemoteAddr)
	assert.Nil(t, records[1].Diagnostics)
	assert.NoError(t, mock.ExpectationsWereMet())
}
