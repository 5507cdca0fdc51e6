package interactions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink keeps the newest MaxLen records in a list, newest at the head.
type RedisSink struct {
	client *redis.Client
	key    string
	maxLen int64
}

func NewRedisSink(client *redis.Client, key string, maxLen int64) *RedisSink {
	return &RedisSink{client: client, key: key, maxLen: maxLen}
}

func (s *RedisSink) Name() string {
	return "redis"
}

func (s *RedisSink) Write(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, data)
	if s.maxLen > 0 {
		pipe.LTrim(ctx, s.key, 0, s.maxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push interaction: %w", err)
	}
	return nil
}

func (s *RedisSink) Recent(ctx context.Context, limit int) ([]Record, error) {
	items, err := s.client.LRange(ctx, s.key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read interactions: %w", err)
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		var r Record
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("decode interaction: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}
