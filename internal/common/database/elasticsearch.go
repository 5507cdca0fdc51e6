// internal/common/database/elasticsearch.go
package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"web-assistant/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// interactionMapping keeps diagnostics opaque so their shape can change
// without mapping conflicts.
var interactionMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "keyword"},
			"timestamp":   map[string]interface{}{"type": "date"},
			"remote_addr": map[string]interface{}{"type": "keyword"},
			"question":    map[string]interface{}{"type": "text"},
			"response":    map[string]interface{}{"type": "text"},
			"model_used":  map[string]interface{}{"type": "keyword"},
			"duration_ms": map[string]interface{}{"type": "long"},
			"diagnostics": map[string]interface{}{"type": "object", "enabled": false},
		},
	},
}

type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses:  cfg.Addresses,
		MaxRetries: 2,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the interaction index with its mapping when missing.
func (c *ElasticsearchClient) EnsureIndex(ctx context.Context, index string) error {
	exists, err := c.Client.Indices.Exists([]string{index}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	exists.Body.Close()

	switch exists.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("check index %s: %s", index, exists.Status())
	}

	body, err := json.Marshal(interactionMapping)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}

	res, err := c.Client.Indices.Create(index,
		c.Client.Indices.Create.WithBody(bytes.NewReader(body)),
		c.Client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()

	// a concurrent creator wins the race with resource_already_exists_exception
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("create index %s: %s", index, res.Status())
	}
	return nil
}

// Close is a no-op; the client holds no pooled state beyond its transport.
func (c *ElasticsearchClient) Close() error {
	return nil
}
