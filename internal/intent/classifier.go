package intent

import (
	"context"
	"strings"
	"time"

	commonerrors "web-assistant/internal/common/errors"
	"web-assistant/internal/common/logger"
	"web-assistant/internal/common/metrics"
	"web-assistant/internal/common/validation"
	"web-assistant/internal/generation"
)

// Classifier asks the LLM whether one intent applies to a question.
// Classify never fails: every problem degrades to None with Err set.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, question string) Intent
}

type decodeFunc func(question string, verdict map[string]interface{}) Intent

type classifier struct {
	name   string
	prompt func(question string) string
	schema *validation.Schema
	decode decodeFunc
	gen    generation.Generator
	logger logger.Logger
}

func newClassifier(name string, prompt func(string) string, schema *validation.Schema, decode decodeFunc, gen generation.Generator, log logger.Logger) *classifier {
	return &classifier{
		name:   name,
		prompt: prompt,
		schema: schema,
		decode: decode,
		gen:    gen,
		logger: log.With(map[string]interface{}{"classifier": name}),
	}
}

func NewWeatherClassifier(gen generation.Generator, log logger.Logger) Classifier {
	return newClassifier("weather_classifier", weatherPrompt, weatherSchema, decodeWeather, gen, log)
}

func NewRoutingClassifier(gen generation.Generator, log logger.Logger) Classifier {
	return newClassifier("routing_classifier", routingPrompt, routingSchema, decodeRouting, gen, log)
}

func NewSearchClassifier(gen generation.Generator, log logger.Logger) Classifier {
	return newClassifier("search_classifier", searchPrompt, searchSchema, decodeSearch, gen, log)
}

func (c *classifier) Name() string {
	return c.name
}

func (c *classifier) Classify(ctx context.Context, question string) Intent {
	start := time.Now()

	text, err := c.gen.Generate(ctx, c.prompt(question), true)
	if err != nil {
		return c.fail(commonerrors.NewGenerationFailedError(c.name, err))
	}

	verdict, err := generation.ExtractJSONObject(text)
	if err != nil {
		return c.fail(commonerrors.NewClassificationParseFailedError(c.name, err))
	}
	if err := c.schema.ValidateDocument(verdict); err != nil {
		return c.fail(commonerrors.NewClassificationParseFailedError(c.name, err))
	}

	metrics.GenerationCallsTotal.WithLabelValues(c.name, metrics.OutcomeOK).Inc()
	result := c.decode(question, verdict)
	c.logger.Debug("classified question", map[string]interface{}{
		"intent":     string(result.Kind()),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return result
}

func (c *classifier) fail(err *commonerrors.StandardError) Intent {
	metrics.GenerationCallsTotal.WithLabelValues(c.name, metrics.OutcomeError).Inc()
	c.logger.Warn("classification failed, treating as unmatched", map[string]interface{}{
		"code":  string(err.Code),
		"error": err.Details,
	})
	return None{Reason: err.Message, Err: err}
}

func decodeWeather(_ string, v map[string]interface{}) Intent {
	if !flag(v, "is_weather_query") {
		return None{Reason: "not a weather query"}
	}
	location := slot(v, "location")
	if location == "" {
		return None{Reason: "weather query without a location"}
	}
	return Weather{Location: location}
}

func decodeRouting(_ string, v map[string]interface{}) Intent {
	if !flag(v, "is_routing_query") {
		return None{Reason: "not a routing query"}
	}
	origin, destination := slot(v, "origin"), slot(v, "destination")
	if origin == "" || destination == "" {
		return None{Reason: "routing query without both origin and destination"}
	}
	return Routing{Origin: origin, Destination: destination}
}

func decodeSearch(question string, v map[string]interface{}) Intent {
	if !flag(v, "needs_search") {
		return None{Reason: "no search needed"}
	}
	query := slot(v, "search_query")
	if query == "" {
		query = question
	}
	return Search{Query: query}
}

func flag(v map[string]interface{}, key string) bool {
	b, _ := v[key].(bool)
	return b
}

// slot returns a trimmed string slot; null, missing and blank are all "".
func slot(v map[string]interface{}, key string) string {
	s, _ := v[key].(string)
	return strings.TrimSpace(s)
}
