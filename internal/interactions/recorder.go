package interactions

import (
	"context"
	"errors"
	"sync"
	"time"

	commonerrors "web-assistant/internal/common/errors"
	"web-assistant/internal/common/logger"
	"web-assistant/internal/common/metrics"
)

var ErrNoHistory = errors.New("HISTORY_UNAVAILABLE")

// Recorder writes records in the background. Submit never blocks the
// caller: when the queue is full the record is dropped with a warning.
type Recorder struct {
	sinks        []Sink
	reader       Reader
	queue        chan Record
	writeTimeout time.Duration
	logger       logger.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewRecorder(sinks []Sink, queueSize int, writeTimeout time.Duration, log logger.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = 1
	}
	r := &Recorder{
		sinks:        sinks,
		queue:        make(chan Record, queueSize),
		writeTimeout: writeTimeout,
		logger:       log.With(map[string]interface{}{"component": "interactions"}),
		done:         make(chan struct{}),
	}
	for _, sink := range sinks {
		if reader, ok := sink.(Reader); ok {
			r.reader = reader
			break
		}
	}
	go r.run()
	return r
}

// Submit enqueues rec and reports whether it was accepted.
func (r *Recorder) Submit(rec Record) bool {
	if len(r.sinks) == 0 {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}

	select {
	case r.queue <- rec:
		metrics.InteractionQueueDepth.Set(float64(len(r.queue)))
		return true
	default:
		metrics.InteractionWritesTotal.WithLabelValues("queue", metrics.OutcomeDropped).Inc()
		r.logger.Warn("interaction queue full, dropping record", map[string]interface{}{
			"id": rec.ID,
		})
		return false
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for rec := range r.queue {
		metrics.InteractionQueueDepth.Set(float64(len(r.queue)))
		r.write(rec)
	}
}

func (r *Recorder) write(rec Record) {
	for _, sink := range r.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
		err := sink.Write(ctx, rec)
		cancel()

		if err != nil {
			stdErr := commonerrors.NewPersistenceFailedError(sink.Name(), err)
			metrics.InteractionWritesTotal.WithLabelValues(sink.Name(), metrics.OutcomeError).Inc()
			r.logger.Error("failed to write interaction", map[string]interface{}{
				"id":      rec.ID,
				"code":    string(stdErr.Code),
				"details": stdErr.Details,
			})
			continue
		}
		metrics.InteractionWritesTotal.WithLabelValues(sink.Name(), metrics.OutcomeOK).Inc()
	}
}

// HasHistory reports whether Recent can be served.
func (r *Recorder) HasHistory() bool {
	return r != nil && r.reader != nil
}

// Recent reads from the first configured sink that supports reads.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	if !r.HasHistory() {
		return nil, ErrNoHistory
	}
	return r.reader.Recent(ctx, limit)
}

// Close stops accepting records and waits for the queue to drain or ctx to end.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
