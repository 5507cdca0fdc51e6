// internal/common/database/kafka.go
package database

import (
	"context"
	"fmt"

	"web-assistant/internal/common/config"

	"github.com/IBM/sarama"
)

// KafkaClient wraps a broker client and the sync producer built on it.
type KafkaClient struct {
	Client   sarama.Client
	Producer sarama.SyncProducer
	topic    string
}

func NewKafka(cfg config.KafkaConfig) (*KafkaClient, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = true

	client, err := sarama.NewClient(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	producer, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaClient{Client: client, Producer: producer, topic: cfg.Topic}, nil
}

// Ping refreshes metadata for the interaction topic.
func (c *KafkaClient) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.Client.RefreshMetadata(c.topic); err != nil {
		return fmt.Errorf("kafka ping failed: %w", err)
	}
	return nil
}

func (c *KafkaClient) Close() error {
	var firstErr error
	if c.Producer != nil {
		firstErr = c.Producer.Close()
	}
	if c.Client != nil && !c.Client.Closed() {
		if err := c.Client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
