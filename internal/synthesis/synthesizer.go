// Package synthesis turns retrieved data (or the failure to retrieve it)
// into the final answer text.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"web-assistant/internal/common/logger"
	"web-assistant/internal/common/metrics"
	"web-assistant/internal/generation"
	"web-assistant/internal/providers/geocoding"
	"web-assistant/internal/providers/weather"
)

// Synthesizer wraps a Generator with the answer prompts and fallbacks.
type Synthesizer struct {
	gen    generation.Generator
	logger logger.Logger
}

// New creates a Synthesizer.
func New(gen generation.Generator, log logger.Logger) *Synthesizer {
	return &Synthesizer{
		gen:    gen,
		logger: log.With(map[string]interface{}{"component": "synthesis"}),
	}
}

func (s *Synthesizer) Weather(ctx context.Context, question string, report *weather.Report) Output {
	prompt := groundedPrompt(question, "Current weather data", weatherData(report))
	return s.run(ctx, "weather", prompt, SourceGrounded, weatherTemplate(report))
}

func (s *Synthesizer) WeatherFailure(ctx context.Context, question, location string, cause error) Output {
	task := fmt.Sprintf("get the current weather for %s", location)
	return s.run(ctx, "weather", failurePrompt(question, task, cause.Error()), SourceErrorNarrate, failureTemplate(task, cause))
}

func (s *Synthesizer) Routing(ctx context.Context, question string, route *geocoding.Route) Output {
	prompt := groundedPrompt(question, "Location data", routeData(route))
	return s.run(ctx, "routing", prompt, SourceGrounded, routeTemplate(route))
}

func (s *Synthesizer) RoutingFailure(ctx context.Context, question, origin, destination string, cause error) Output {
	task := fmt.Sprintf("look up %s and %s on the map", origin, destination)
	return s.run(ctx, "routing", failurePrompt(question, task, cause.Error()), SourceErrorNarrate, failureTemplate(task, cause))
}

func (s *Synthesizer) Search(ctx context.Context, question, query, snippets string) Output {
	prompt := groundedPrompt(question, "Web search results", snippets)
	return s.run(ctx, "search", prompt, SourceGrounded, searchTemplate(query, snippets))
}

func (s *Synthesizer) SearchFailure(ctx context.Context, question, query string, cause error) Output {
	task := fmt.Sprintf("search the web for \"%s\"", query)
	return s.run(ctx, "search", failurePrompt(question, task, cause.Error()), SourceErrorNarrate, failureTemplate(task, cause))
}

// NoResults handles a search that succeeded with nothing usable.
func (s *Synthesizer) NoResults(ctx context.Context, question, query string) Output {
	return s.run(ctx, "search", noResultsPrompt(question, query), SourceNoResults, noResultsTemplate(query))
}

// General answers from model knowledge alone. Its only fallback is Apology.
func (s *Synthesizer) General(ctx context.Context, question string) Output {
	return s.run(ctx, "general", generalPrompt(question), SourceGeneral, Apology)
}

func (s *Synthesizer) run(ctx context.Context, branch, prompt string, source Source, fallback string) Output {
	stage := "synthesis_" + branch

	text, err := s.gen.Generate(ctx, prompt, false)
	text = strings.TrimSpace(text)
	if err == nil && text != "" {
		metrics.GenerationCallsTotal.WithLabelValues(stage, metrics.OutcomeOK).Inc()
		return Output{Text: text, Source: source}
	}
	if err == nil {
		err = generation.ErrEmpty
	}

	metrics.GenerationCallsTotal.WithLabelValues(stage, metrics.OutcomeError).Inc()
	fallbackSource := SourceTemplate
	if source == SourceGeneral {
		fallbackSource = SourceApology
	}
	s.logger.Warn("synthesis failed, using fallback text", map[string]interface{}{
		"branch":   branch,
		"fallback": string(fallbackSource),
		"error":    err,
	})
	return Output{Text: fallback, Source: fallbackSource, Err: err}
}
