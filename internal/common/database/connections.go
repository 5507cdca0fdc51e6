package database

import (
	"context"
	"fmt"

	"web-assistant/internal/common/config"
)

// Pinger is implemented by every store handle.
type Pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// Connections holds the store handles opened for the configured sinks.
// Handles for sinks that are not configured stay nil.
type Connections struct {
	SQLite        *SQLiteClient
	Postgres      *PostgresClient
	Redis         *RedisClient
	Elasticsearch *ElasticsearchClient
	Kafka         *KafkaClient
}

// Open creates a handle for each configured sink.
func Open(cfg config.StorageConfig) (*Connections, error) {
	conns := &Connections{}

	if cfg.HasSink("sqlite") {
		lite, err := NewSQLite(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		conns.SQLite = lite
	}

	if cfg.HasSink("postgres") {
		pg, err := NewPostgres(cfg.Postgres)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Postgres = pg
	}

	if cfg.HasSink("redis") {
		conns.Redis = NewRedis(cfg.Redis)
	}

	if cfg.HasSink("elasticsearch") {
		es, err := NewElasticsearch(cfg.Elasticsearch)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Elasticsearch = es
	}

	if cfg.HasSink("kafka") {
		kc, err := NewKafka(cfg.Kafka)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Kafka = kc
	}

	return conns, nil
}

func (c *Connections) stores() map[string]Pinger {
	out := make(map[string]Pinger)
	if c == nil {
		return out
	}
	if c.SQLite != nil {
		out["sqlite"] = c.SQLite
	}
	if c.Postgres != nil {
		out["postgres"] = c.Postgres
	}
	if c.Redis != nil {
		out["redis"] = c.Redis
	}
	if c.Elasticsearch != nil {
		out["elasticsearch"] = c.Elasticsearch
	}
	if c.Kafka != nil {
		out["kafka"] = c.Kafka
	}
	return out
}

// Ping checks every open store and returns the failures keyed by sink name.
func (c *Connections) Ping(ctx context.Context) map[string]error {
	failures := make(map[string]error)
	for name, store := range c.stores() {
		if err := store.Ping(ctx); err != nil {
			failures[name] = err
		}
	}
	return failures
}

func (c *Connections) Close() error {
	var firstErr error
	for name, store := range c.stores() {
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", name, err)
		}
	}
	return firstErr
}
