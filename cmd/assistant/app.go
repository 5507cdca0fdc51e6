// cmd/assistant/app.go
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"web-assistant/internal/common/config"
	"web-assistant/internal/common/database"
	"web-assistant/internal/common/logger"
	"web-assistant/internal/common/observability"
	"web-assistant/internal/generation"
	"web-assistant/internal/interactions"
	"web-assistant/internal/orchestrator"
	"web-assistant/internal/providers/geocoding"
	"web-assistant/internal/providers/weather"
	"web-assistant/internal/providers/websearch"
)

// application holds every long-lived component built from one Config.
type application struct {
	cfg          *config.Config
	zapLog       *zap.Logger
	log          logger.Logger
	obs          *observability.Observability
	generator    *generation.Client
	orchestrator *orchestrator.Orchestrator
	conns        *database.Connections
	recorder     *interactions.Recorder
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func newApplication(ctx context.Context, cfg *config.Config, withStorage bool) (*application, error) {
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog)

	app := &application{cfg: cfg, zapLog: zapLog, log: log}

	app.obs = observability.New(cfg.Observability.ServiceName)
	tracing, err := observability.NewTracing(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	if err != nil {
		log.Warn("tracing disabled", map[string]interface{}{"error": err})
	}
	app.obs.AttachTracing(tracing)

	app.generator = generation.New(ctx, generation.Config{
		APIKey:  cfg.GenAI.APIKey,
		Model:   cfg.GenAI.Model,
		Timeout: config.GetDuration(cfg.GenAI.Timeout),
	}, log)

	weatherClient := weather.NewClient(&weather.Config{
		BaseURL: cfg.APIs.Weather.BaseURL,
		APIKey:  cfg.APIs.Weather.APIKey,
		Timeout: config.GetDuration(cfg.APIs.Weather.Timeout),
	}, nil, log)

	geocodingClient := geocoding.NewClient(&geocoding.Config{
		BaseURL:   cfg.APIs.Geocoding.BaseURL,
		UserAgent: cfg.APIs.Geocoding.UserAgent,
		Timeout:   config.GetDuration(cfg.APIs.Geocoding.Timeout),
	}, nil, log)

	searcher := websearch.NewSearcher(&websearch.Config{
		BaseURL:     cfg.APIs.WebSearch.BaseURL,
		APIKey:      cfg.APIs.WebSearch.APIKey,
		EngineID:    cfg.APIs.WebSearch.EngineID,
		FallbackURL: cfg.APIs.WebSearch.FallbackURL,
		MaxResults:  cfg.APIs.WebSearch.MaxResults,
		Timeout:     config.GetDuration(cfg.APIs.WebSearch.Timeout),
	}, nil, log)

	app.orchestrator = orchestrator.New(&orchestrator.Config{
		SearchResults: cfg.APIs.WebSearch.MaxResults,
	}, orchestrator.Dependencies{
		Generator:     app.generator,
		Weather:       weatherClient,
		Geocoding:     geocodingClient,
		Search:        searcher,
		Tracer:        tracing.Tracer(),
		Observability: app.obs,
		Logger:        log,
	})

	var sinks []interactions.Sink
	if withStorage && len(cfg.Storage.Sinks) > 0 {
		sinks, err = app.openStorage(ctx)
		if err != nil {
			app.close(context.Background())
			return nil, err
		}
	}
	app.recorder = interactions.NewRecorder(
		sinks, cfg.Storage.QueueSize, config.GetDuration(cfg.Storage.WriteTimeout), log,
	)

	return app, nil
}

// openStorage connects the configured stores and returns sinks in config order.
func (a *application) openStorage(ctx context.Context) ([]interactions.Sink, error) {
	storage := a.cfg.Storage

	err := retryWithBackoff(func() error {
		conns, err := database.Open(storage)
		if err != nil {
			return err
		}
		if failures := conns.Ping(ctx); len(failures) > 0 {
			_ = conns.Close()
			return fmt.Errorf("ping failed: %v", failures)
		}
		a.conns = conns
		return nil
	}, 5, 2*time.Second, a.log, "storage connection")
	if err != nil {
		return nil, err
	}

	sinks := make([]interactions.Sink, 0, len(storage.Sinks))
	for _, name := range storage.Sinks {
		switch name {
		case "sqlite":
			sink := interactions.NewSQLiteSink(a.conns.SQLite.DB)
			if err := sink.EnsureSchema(ctx); err != nil {
				return nil, fmt.Errorf("sqlite schema: %w", err)
			}
			sinks = append(sinks, sink)
		case "postgres":
			sink := interactions.NewPostgresSink(a.conns.Postgres.DB, storage.Postgres.Table)
			if err := sink.EnsureSchema(ctx); err != nil {
				return nil, fmt.Errorf("postgres schema: %w", err)
			}
			sinks = append(sinks, sink)
		case "redis":
			sinks = append(sinks, interactions.NewRedisSink(a.conns.Redis.Client, storage.Redis.Key, storage.Redis.MaxLen))
		case "elasticsearch":
			if err := a.conns.Elasticsearch.EnsureIndex(ctx, storage.Elasticsearch.Index); err != nil {
				return nil, err
			}
			sinks = append(sinks, interactions.NewElasticsearchSink(a.conns.Elasticsearch.Client, storage.Elasticsearch.Index))
		case "kafka":
			sinks = append(sinks, interactions.NewKafkaSink(a.conns.Kafka.Producer, storage.Kafka.Topic))
		}
	}

	a.log.Info("interaction sinks ready", map[string]interface{}{"sinks": storage.Sinks})
	return sinks, nil
}

// close drains the recorder before releasing connections.
func (a *application) close(ctx context.Context) {
	if a.recorder != nil {
		if err := a.recorder.Close(ctx); err != nil {
			a.log.Warn("interaction queue not fully drained", map[string]interface{}{"error": err})
		}
	}
	if a.conns != nil {
		_ = a.conns.Close()
	}
	if a.generator != nil {
		_ = a.generator.Close()
	}
	a.obs.Shutdown()
	_ = a.zapLog.Sync()
}
