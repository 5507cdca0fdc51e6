package interactions

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaSink_Write(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	defer producer.Close()

	r := NewRecord("10.0.0.1", "Weather in Paris?", "Sunny.", "gemini", 40*time.Millisecond, map[string]string{"type": "weather"})

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got Record
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.ID != r.ID || got.Question != r.Question {
			return errors.New("unexpected record payload")
		}
		return nil
	})

	sink := NewKafkaSink(producer, "assistant.interactions")
	require.NoError(t, sink.Write(context.Background(), r))
	assert.Equal(t, "kafka", sink.Name())

	_, isReader := interface{}(sink).(Reader)
	assert.False(t, isReader)
}

func TestKafkaSink_WriteFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	defer producer.Close()

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	sink := NewKafkaSink(producer, "assistant.interactions")
	err := sink.Write(context.Background(), NewRecord("", "q", "a", "m", 0, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestKafkaSink_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewKafkaSink(producer, "assistant.interactions")
	assert.ErrorIs(t, sink.Write(ctx, NewRecord("", "q", "a", "m", 0, nil)), context.Canceled)
}
