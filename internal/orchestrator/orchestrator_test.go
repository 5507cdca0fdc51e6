package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"web-assistant/internal/common/logger"
	"web-assistant/internal/generation"
	"web-assistant/internal/generation/generationtest"
	"web-assistant/internal/providers/geocoding"
	"web-assistant/internal/providers/weather"
	"web-assistant/internal/synthesis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	weatherMarker   = "is_weather_query"
	routingMarker   = "is_routing_query"
	searchMarker    = "needs_search"
	groundedMarker  = "using ONLY the data below"
	failureMarker   = "Apologize briefly"
	noResultsMarker = "returned no relevant results"
	generalMarker   = "helpful, friendly assistant"

	notWeather = `{"is_weather_query": false, "location": null}`
	notRouting = `{"is_routing_query": false, "origin": null, "destination": null}`
	noSearch   = `{"needs_search": false, "search_query": null}`
)

type fakeWeather struct {
	report *weather.Report
	err    error
	calls  []string
}

func (f *fakeWeather) Current(_ context.Context, location string) (*weather.Report, error) {
	f.calls = append(f.calls, location)
	return f.report, f.err
}

type fakeGeocoding struct {
	places map[string]geocoding.Coordinates
	calls  []string
}

func (f *fakeGeocoding) Lookup(_ context.Context, place string) (*geocoding.Coordinates, error) {
	f.calls = append(f.calls, place)
	c, ok := f.places[place]
	if !ok {
		return nil, &geocoding.Error{Kind: geocoding.KindNotFound, Message: "Could not find a location named '" + place + "'."}
	}
	return &c, nil
}

type fakeSearch struct {
	result string
	err    error
	calls  []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) (string, error) {
	f.calls = append(f.calls, query)
	return f.result, f.err
}

type fixture struct {
	gen     *generationtest.Fake
	weather *fakeWeather
	geo     *fakeGeocoding
	search  *fakeSearch
	orch    *Orchestrator
}

func newFixture(t *testing.T, gen *generationtest.Fake) *fixture {
	f := &fixture{
		gen: gen,
		weather: &fakeWeather{report: &weather.Report{
			Location: "Paris", Country: "France", Condition: "Sunny",
			TempC: 21, TempF: 69.8, FeelsLikeC: 20.5, FeelsLikeF: 68.9,
			Humidity: 40, WindKPH: 11.2, WindMPH: 6.9, WindDir: "WSW",
			Lat: 48.87, Lon: 2.33,
		}},
		geo: &fakeGeocoding{places: map[string]geocoding.Coordinates{
			"Rome":  {Place: "Rome", Lat: 41.8933, Lon: 12.4829},
			"Milan": {Place: "Milan", Lat: 45.4642, Lon: 9.19},
		}},
		search: &fakeSearch{result: "Title: Go\nLink: https://go.dev\nSnippet: Go 1.24 is out."},
	}
	f.orch = New(&Config{SearchResults: 3}, Dependencies{
		Generator: gen,
		Weather:   f.weather,
		Geocoding: f.geo,
		Search:    f.search,
		Logger:    logger.NewTestLogger(t),
	})
	return f
}

func TestAnswer_AIUnavailableRunsNoClassifier(t *testing.T) {
	f := newFixture(t, generationtest.Unavailable())

	res, err := f.orch.Answer(context.Background(), "Weather in Paris?")
	assert.ErrorIs(t, err, ErrAIUnavailable)
	assert.Nil(t, res)
	assert.Empty(t, f.gen.Calls())
	assert.Empty(t, f.weather.calls)
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	f := newFixture(t, generationtest.New())

	_, err := f.orch.Answer(context.Background(), "   \t")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, f.gen.Calls())
}

func TestAnswer_WeatherGrounded(t *testing.T) {
	gen := generationtest.New().
		On(weatherMarker, `{"is_weather_query": true, "location": "Paris"}`).
		On(groundedMarker, "Sunny and 21°C in Paris.")
	f := newFixture(t, gen)

	res, err := f.orch.Answer(context.Background(), "What's the weather in Paris?")
	require.NoError(t, err)

	assert.Equal(t, "Sunny and 21°C in Paris.", res.Response)
	assert.Equal(t, "weather", res.Details.Type)
	assert.Equal(t, synthesis.SourceGrounded, res.Details.FinalSource)
	assert.Equal(t, StateWeatherAnswered, res.Details.State)
	assert.Equal(t, []string{"Paris"}, f.weather.calls)
	assert.Zero(t, gen.CallsContaining(routingMarker))
	assert.Zero(t, gen.CallsContaining(generalMarker))

	require.NotNil(t, res.VisualizationData)
	assert.Equal(t, []float64{21, 20.5, 40, 11.2}, res.VisualizationData.Values)
	require.NotNil(t, res.MapData)
	assert.Equal(t, "point", res.MapData.Type)
	assert.InDelta(t, 48.87, res.MapData.Point.Lat, 0.001)

	require.NotNil(t, res.Details.AdapterOK)
	assert.True(t, *res.Details.AdapterOK)
	assert.True(t, res.Details.SynthesisOK)
	assert.Equal(t, "Paris", res.Details.Slots["location"])
	assert.True(t, res.Details.Checks[0].Matched)
	assert.False(t, res.Details.Checks[1].Attempted)
	assert.False(t, res.Details.Checks[2].Attempted)
}

func TestAnswer_WeatherWithoutLocationFallsThrough(t *testing.T) {
	gen := generationtest.New().
		On(weatherMarker, `{"is_weather_query": true, "location": null}`).
		On(routingMarker, notRouting).
		On(searchMarker, noSearch).
		On(generalMarker, "It depends on where you are.")
	f := newFixture(t, gen)

	res, err := f.orch.Answer(context.Background(), "Is it cold outside?")
	require.NoError(t, err)

	assert.Empty(t, f.weather.calls)
	assert.Equal(t, "general", res.Details.Type)
	assert.Equal(t, synthesis.SourceGeneral, res.Details.FinalSource)
	assert.Equal(t, StateGeneralAnswered, res.Details.State)
	assert.Nil(t, res.VisualizationData)
	assert.Nil(t, res.MapData)
	for _, check := range res.Details.Checks {
		assert.True(t, check.Attempted)
		assert.False(t, check.Matched)
	}
}

func TestAnswer_MalformedClassifierOutputProceeds(t *testing.T) {
	gen := generationtest.New().
		On(weatherMarker, "Yes, this looks like weather to me!").
		On(routingMarker, notRouting).
		On(searchMarker, noSearch).
		On(generalMarker, "Here is an answer.")
	f := newFixture(t, gen)

	res, err := f.orch.Answer(context.Background(), "Weather in Paris?")
	require.NoError(t, err)

	assert.Empty(t, f.weather.calls)
	assert.Equal(t, "Here is an answer.", res.Response)
	assert.False(t, res.Details.Checks[0].Matched)
	assert.NotEmpty(t, res.Details.Checks[0].Error)
	assert.True(t, res.Details.Checks[1].Attempted)
	assert.Contains(t, res.Details.LastError, "weather_classifier")
}

func TestAnswer_PublicDetailsDropTransportErrors(t *testing.T) {
	transport := errors.New("googleapi: Error 503: backend pool exhausted at 10.0.3.7:443")
	gen := generationtest.New().
		OnError(weatherMarker, &generation.Error{Kind: generation.KindTransport, Reason: transport.Error(), Err: transport}).
		On(routingMarker, notRouting).
		On(searchMarker, noSearch).
		On(generalMarker, "Here is an answer.")
	f := newFixture(t, gen)

	res, err := f.orch.Answer(context.Background(), "Weather in Paris?")
	require.NoError(t, err)
	assert.Contains(t, res.Details.Checks[0].Error, "backend pool exhausted")
	assert.Contains(t, res.Details.LastError, "backend pool exhausted")

	public := res.Public()
	assert.Equal(t, "LLM generation failed", public.Details.Checks[0].Error)
	assert.Equal(t, "LLM generation failed", public.Details.LastError)
	assert.Equal(t, res.Response, public.Response)

	body, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "googleapi")

	// The original keeps the raw text for the stored record.
	assert.Contains(t, res.Details.LastError, "googleapi")
}

func TestDiagnosticsPublic_AdapterMessagesSurvive(t *testing.T) {
	diag := &Diagnostics{Checks: []Check{{Classifier: "weather_classifier"}}}
	diag.noteError(&weather.Error{
		Kind:    weather.KindConnection,
		Message: "Could not connect to the weather service.",
		Err:     errors.New("dial tcp 10.0.3.7:443: connect: connection refused"),
	})

	public := diag.Public()
	assert.Equal(t, "Could not connect to the weather service.", public.LastError)
	assert.Empty(t, public.Checks[0].Error)
	assert.Nil(t, (*Diagnostics)(nil).Public())
}

func TestAnswer_WeatherAdapterFailureIsNarrated(t *testing.T) {
	gen := generationtest.New().
		On(weatherMarker, `{"is_weather_query": true, "location": "Atlantis"}`).
		On(failureMarker, "Sorry, I couldn't find Atlantis.")
	f := newFixture(t, gen)
	f.weather.err = &weather.Error{Kind: weather.KindNotFound, Message: "Could not find weather data for 'Atlantis'."}

	res, err := f.orch.Answer(context.Background(), "Weather in Atlantis?")
	require.NoError(t, err)

	assert.Equal(t, "Sorry, I couldn't find Atlantis.", res.Response)
	assert.Equal(t, StateWeatherAnswered, res.Details.State)
	assert.Equal(t, synthesis.SourceErrorNarrate, res.Details.FinalSource)
	assert.False(t, *res.Details.AdapterOK)
	assert.Contains(t, res.Details.LastError, "Atlantis")
	assert.Nil(t, res.VisualizationData)
	assert.Zero(t, gen.CallsContaining(routingMarker))
}

func TestAnswer_Routing(t *testing.T) {
	gen := generationtest.New().
		On(weatherMarker, notWeather).
		On(routingMarker, `{"is_routing_query": true, "origin": "Rome", "destination": "Milan"}`).
		On(groundedMarker, "Rome and Milan are about 477 km apart.")
	f := newFixture(t, gen)

	res, err := f.orch.Answer(context.Background(), "How far is Milan from Rome?")
	require.NoError(t, err)

	assert.Equal(t, "routing", res.Details.Type)
	assert.Equal(t, StateRoutingAnswered, res.Details.State)
	assert.Equal(t, []string{"Rome", "Milan"}, f.geo.calls)
	require.NotNil(t, res.MapData)
	assert.Equal(t, "route", res.MapData.Type)
	assert.Equal(t, "Milan", res.MapData.Destination.Label)
	assert.InDelta(t, 477, res.MapData.DistanceKm, 5)
	require.NotNil(t, res.VisualizationData)
}

func TestAnswer_RoutingLookupFailure(t *testing.T) {
	gen := generationtest.New().
		On(weatherMarker, notWeather).
		On(routingMarker, `{"is_routing_query": true, "origin": "Rome", "destination": "Narnia"}`)
	f := newFixture(t, gen)

	res, err := f.orch.Answer(context.Background(), "Rome to Narnia?")
	require.NoError(t, err)

	assert.Equal(t, StateRoutingAnswered, res.Details.State)
	assert.Equal(t, synthesis.SourceTemplate, res.Details.FinalSource)
	assert.Contains(t, res.Response, "Narnia")
	assert.Nil(t, res.MapData)
}

func TestAnswer_SearchBranches(t *testing.T) {
	base := func() *generationtest.Fake {
		return generationtest.New().
			On(weatherMarker, notWeather).
			On(routingMarker, notRouting).
			On(searchMarker, `{"needs_search": true, "search_query": "latest go release"}`).
			On(groundedMarker, "Go 1.24 is out.").
			On(noResultsMarker, "Nothing relevant came up.").
			On(failureMarker, "The search failed, sorry.")
	}

	t.Run("results", func(t *testing.T) {
		f := newFixture(t, base())
		res, err := f.orch.Answer(context.Background(), "What's the latest Go?")
		require.NoError(t, err)
		assert.Equal(t, synthesis.SourceGrounded, res.Details.FinalSource)
		assert.Equal(t, StateSearchAnswered, res.Details.State)
		assert.Equal(t, []string{"latest go release"}, f.search.calls)
		assert.Nil(t, res.VisualizationData)
		assert.Nil(t, res.MapData)
	})

	t.Run("empty success goes to no results", func(t *testing.T) {
		f := newFixture(t, base())
		f.search.result = ""
		res, err := f.orch.Answer(context.Background(), "What's the latest Go?")
		require.NoError(t, err)
		assert.Equal(t, synthesis.SourceNoResults, res.Details.FinalSource)
		assert.Equal(t, "Nothing relevant came up.", res.Response)
		assert.True(t, *res.Details.AdapterOK)
		assert.Zero(t, f.gen.CallsContaining(failureMarker))
	})

	t.Run("error goes to narration", func(t *testing.T) {
		f := newFixture(t, base())
		f.search.result = ""
		f.search.err = errors.New("The web search service is currently unavailable.")
		res, err := f.orch.Answer(context.Background(), "What's the latest Go?")
		require.NoError(t, err)
		assert.Equal(t, synthesis.SourceErrorNarrate, res.Details.FinalSource)
		assert.False(t, *res.Details.AdapterOK)
		assert.Zero(t, f.gen.CallsContaining(noResultsMarker))
	})
}

func TestAnswer_GeneralFailureApologizes(t *testing.T) {
	gen := generationtest.New().
		On(weatherMarker, notWeather).
		On(routingMarker, notRouting).
		On(searchMarker, noSearch).
		OnError(generalMarker, &generation.Error{Kind: generation.KindBlocked, Reason: "SAFETY"})
	f := newFixture(t, gen)

	res, err := f.orch.Answer(context.Background(), "Something risky")
	require.NoError(t, err)

	assert.Equal(t, synthesis.Apology, res.Response)
	assert.Equal(t, StateFailed, res.Details.State)
	assert.Equal(t, synthesis.SourceApology, res.Details.FinalSource)
	assert.False(t, res.Details.SynthesisOK)
	assert.Contains(t, res.Details.LastError, "SAFETY")
}

func TestAnswer_EveryGenerationFailsStillAnswers(t *testing.T) {
	f := newFixture(t, generationtest.New())

	res, err := f.orch.Answer(context.Background(), "Anything")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Response)
	assert.Equal(t, synthesis.Apology, res.Response)
}

func TestAnswer_RepeatedQuestionIsStructurallyEqual(t *testing.T) {
	gen := generationtest.New().
		On(weatherMarker, `{"is_weather_query": true, "location": "Paris"}`).
		On(groundedMarker, "Sunny in Paris.")
	f := newFixture(t, gen)

	first, err := f.orch.Answer(context.Background(), "Weather in Paris?")
	require.NoError(t, err)
	second, err := f.orch.Answer(context.Background(), "Weather in Paris?")
	require.NoError(t, err)

	assert.Equal(t, first.Details, second.Details)
	assert.Equal(t, first.VisualizationData, second.VisualizationData)
	assert.Equal(t, first.MapData, second.MapData)
}
