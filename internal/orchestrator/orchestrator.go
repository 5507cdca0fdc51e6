// Package orchestrator sequences classifiers, data sources and synthesis
// for one question.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"web-assistant/internal/common/logger"
	"web-assistant/internal/common/metrics"
	"web-assistant/internal/common/observability"
	"web-assistant/internal/generation"
	"web-assistant/internal/intent"
	"web-assistant/internal/providers/geocoding"
	"web-assistant/internal/providers/weather"
	"web-assistant/internal/synthesis"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrAIUnavailable is returned before any classification when the
	// generation client has no model.
	ErrAIUnavailable = errors.New("AI_UNAVAILABLE")
	ErrEmptyQuestion = errors.New("EMPTY_QUESTION")
)

// WeatherSource fetches current conditions for a location.
type WeatherSource interface {
	Current(ctx context.Context, location string) (*weather.Report, error)
}

// GeocodingSource resolves a place name to coordinates.
type GeocodingSource interface {
	Lookup(ctx context.Context, place string) (*geocoding.Coordinates, error)
}

// SearchSource returns formatted web results for a query.
type SearchSource interface {
	Search(ctx context.Context, query string, n int) (string, error)
}

// Config holds the orchestrator settings.
type Config struct {
	SearchResults int
}

// Dependencies wires the orchestrator to its collaborators.
type Dependencies struct {
	Generator     generation.Generator
	Weather       WeatherSource
	Geocoding     GeocodingSource
	Search        SearchSource
	Tracer        trace.Tracer
	Observability *observability.Observability
	Logger        logger.Logger
}

type branchFunc func(ctx context.Context, question string, in intent.Intent, diag *Diagnostics) answer

// route binds a classifier to the branch that runs when it matches.
type route struct {
	kind       intent.Kind
	classifier intent.Classifier
	run        branchFunc
}

// Orchestrator answers one question at a time through the classifier chain.
type Orchestrator struct {
	config *Config
	gen    generation.Generator
	synth  *synthesis.Synthesizer
	deps   Dependencies
	tracer trace.Tracer
	obs    *observability.Observability
	logger logger.Logger
	routes []route
}

// New creates an Orchestrator with the classifiers in precedence order.
func New(config *Config, deps Dependencies) *Orchestrator {
	log := deps.Logger.With(map[string]interface{}{"component": "orchestrator"})
	tracer := deps.Tracer
	if tracer == nil {
		var none *observability.Tracing
		tracer = none.Tracer()
	}

	o := &Orchestrator{
		config: config,
		gen:    deps.Generator,
		synth:  synthesis.New(deps.Generator, deps.Logger),
		deps:   deps,
		tracer: tracer,
		obs:    deps.Observability,
		logger: log,
	}

	// Priority order; the first matching classifier wins.
	o.routes = []route{
		{intent.KindWeather, intent.NewWeatherClassifier(deps.Generator, deps.Logger), o.runWeather},
		{intent.KindRouting, intent.NewRoutingClassifier(deps.Generator, deps.Logger), o.runRouting},
		{intent.KindSearch, intent.NewSearchClassifier(deps.Generator, deps.Logger), o.runSearch},
	}
	return o
}

// Answer runs the pipeline for one question. The only errors are
// ErrAIUnavailable and ErrEmptyQuestion; every other failure is
// narrated in the returned text.
func (o *Orchestrator) Answer(ctx context.Context, question string) (*Result, error) {
	if !o.Available() {
		return nil, ErrAIUnavailable
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.answer")
	defer span.End()

	diag := &Diagnostics{Checks: make([]Check, len(o.routes))}
	for i, r := range o.routes {
		diag.Checks[i] = Check{Classifier: r.classifier.Name()}
	}

	var ans answer
	matched := false
	for i, r := range o.routes {
		in := o.classify(ctx, r.classifier, question, &diag.Checks[i], diag)
		if !intent.Matched(in) {
			continue
		}
		diag.Type = string(r.kind)
		ans = r.run(ctx, question, in, diag)
		matched = true
		break
	}

	if !matched {
		diag.Type = "general"
		ans = o.runGeneral(ctx, question, diag)
	}

	diag.State = ans.state
	diag.FinalSource = ans.output.Source
	diag.SynthesisOK = ans.output.OK()
	diag.noteError(ans.output.Err)

	span.SetAttributes(
		attribute.String("assistant.type", diag.Type),
		attribute.String("assistant.final_src", string(diag.FinalSource)),
		attribute.String("assistant.state", string(diag.State)),
	)
	metrics.AnswersTotal.WithLabelValues(diag.Type, string(diag.FinalSource)).Inc()

	o.logger.Info("question answered", map[string]interface{}{
		"type":     diag.Type,
		"finalSrc": string(diag.FinalSource),
		"state":    string(diag.State),
	})

	return &Result{
		Response:          ans.output.Text,
		VisualizationData: ans.chart,
		MapData:           ans.mapped,
		Details:           diag,
	}, nil
}

func (o *Orchestrator) classify(ctx context.Context, c intent.Classifier, question string, check *Check, diag *Diagnostics) intent.Intent {
	ctx, span := o.tracer.Start(ctx, "classify."+c.Name())
	defer span.End()
	start := time.Now()

	check.Attempted = true
	in := c.Classify(ctx, question)
	check.Matched = intent.Matched(in)

	if none, ok := in.(intent.None); ok {
		check.Reason = none.Reason
		if none.Err != nil {
			check.noteError(none.Err)
			diag.noteError(none.Err)
			span.RecordError(none.Err)
		}
	}

	span.SetAttributes(attribute.Bool("assistant.matched", check.Matched))
	o.obs.RecordStage(ctx, c.Name(), time.Since(start), check.Error == "")
	return in
}

// stage wraps one adapter call in a span and a stage measurement.
func (o *Orchestrator) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, name)
	defer span.End()
	start := time.Now()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	o.obs.RecordStage(ctx, name, time.Since(start), err == nil)
	return err
}

func (o *Orchestrator) synthesize(ctx context.Context, fn func(ctx context.Context) synthesis.Output) synthesis.Output {
	ctx, span := o.tracer.Start(ctx, "synthesize")
	defer span.End()
	start := time.Now()

	out := fn(ctx)
	span.SetAttributes(attribute.String("assistant.final_src", string(out.Source)))
	o.obs.RecordStage(ctx, "synthesize", time.Since(start), out.OK())
	return out
}

func (o *Orchestrator) searchResults() int {
	if o.config != nil && o.config.SearchResults > 0 {
		return o.config.SearchResults
	}
	return 5
}

// Available reports whether questions can be answered at all.
func (o *Orchestrator) Available() bool {
	return o.gen != nil && o.gen.Available()
}

// Model names the LLM behind the answers.
func (o *Orchestrator) Model() string {
	if o.gen == nil {
		return ""
	}
	return o.gen.Model()
}
