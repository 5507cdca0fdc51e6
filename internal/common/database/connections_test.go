package database

import (
	"context"
	"path/filepath"
	"testing"

	"web-assistant/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_NoSinks(t *testing.T) {
	conns, err := Open(config.StorageConfig{})
	require.NoError(t, err)
	assert.Nil(t, conns.Postgres)
	assert.Nil(t, conns.Redis)
	assert.Nil(t, conns.Elasticsearch)
	assert.Nil(t, conns.SQLite)
	assert.Nil(t, conns.Kafka)
	assert.Empty(t, conns.Ping(context.Background()))
	assert.NoError(t, conns.Close())
}

func TestConnections_PingRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	conns, err := Open(config.StorageConfig{
		Sinks: []string{"redis"},
		Redis: config.RedisConfig{Address: mr.Addr()},
	})
	require.NoError(t, err)
	defer conns.Close()

	assert.Empty(t, conns.Ping(context.Background()))

	mr.Close()
	failures := conns.Ping(context.Background())
	assert.Contains(t, failures, "redis")
}

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectClose()

	conns := &Connections{Postgres: NewPostgresFromDB(db)}
	assert.Empty(t, conns.Ping(context.Background()))
	require.NoError(t, conns.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewElasticsearch(t *testing.T) {
	es, err := NewElasticsearch(config.ElasticsearchConfig{
		Addresses: []string{"http://localhost:9200"},
		Username:  "elastic",
		Password:  "secret",
	})
	require.NoError(t, err)
	assert.NotNil(t, es.Client)
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "interactions.db")

	conns, err := Open(config.StorageConfig{
		Sinks:  []string{"sqlite"},
		SQLite: config.SQLiteConfig{Path: path},
	})
	require.NoError(t, err)
	require.NotNil(t, conns.SQLite)

	assert.Empty(t, conns.Ping(context.Background()))
	assert.NoError(t, conns.Close())
	assert.FileExists(t, path)
}

func TestNewKafka_Unreachable(t *testing.T) {
	_, err := NewKafka(config.KafkaConfig{
		Brokers:  []string{"127.0.0.1:1"},
		Topic:    "assistant.interactions",
		ClientID: "web-assistant-test",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create kafka client")
}
