package synthesis

import (
	"context"
	"errors"
	"testing"

	"web-assistant/internal/common/logger"
	"web-assistant/internal/generation"
	"web-assistant/internal/generation/generationtest"
	"web-assistant/internal/providers/geocoding"
	"web-assistant/internal/providers/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	groundedMarker  = "using ONLY the data below"
	failureMarker   = "Apologize briefly"
	noResultsMarker = "returned no relevant results"
	generalMarker   = "helpful, friendly assistant"
)

var paris = &weather.Report{
	Location: "Paris", Country: "France", Condition: "Sunny",
	TempC: 21, TempF: 69.8, FeelsLikeC: 20.5, FeelsLikeF: 68.9,
	Humidity: 40, WindKPH: 11.2, WindMPH: 6.9, WindDir: "WSW",
}

func TestWeather_Grounded(t *testing.T) {
	gen := generationtest.New().On(groundedMarker, "It's sunny and 21°C in Paris.")
	s := New(gen, logger.NewTestLogger(t))

	out := s.Weather(context.Background(), "Weather in Paris?", paris)
	assert.Equal(t, "It's sunny and 21°C in Paris.", out.Text)
	assert.Equal(t, SourceGrounded, out.Source)
	assert.True(t, out.OK())

	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].JSONMode)
	assert.Contains(t, calls[0].Prompt, "Weather in Paris?")
	assert.Contains(t, calls[0].Prompt, "Temperature: 21.0°C (69.8°F)")
	assert.Contains(t, calls[0].Prompt, "Location: Paris, France")
}

func TestWeather_TemplateFallback(t *testing.T) {
	gen := generationtest.New().OnError(groundedMarker, generation.ErrTransport)
	out := New(gen, logger.NewTestLogger(t)).Weather(context.Background(), "Weather in Paris?", paris)

	assert.Equal(t, "Got weather for Paris: Sunny, 21.0°C (69.8°F).", out.Text)
	assert.Equal(t, SourceTemplate, out.Source)
	assert.ErrorIs(t, out.Err, generation.ErrTransport)
}

func TestWeatherFailure_Narrated(t *testing.T) {
	gen := generationtest.New().On(failureMarker, "Sorry, I couldn't find Atlantis.")
	cause := errors.New("Could not find weather data for 'Atlantis'.")

	out := New(gen, logger.NewTestLogger(t)).WeatherFailure(context.Background(), "Weather in Atlantis?", "Atlantis", cause)
	assert.Equal(t, SourceErrorNarrate, out.Source)
	assert.Equal(t, "Sorry, I couldn't find Atlantis.", out.Text)
	assert.Contains(t, gen.Calls()[0].Prompt, cause.Error())
}

func TestFailure_TemplateKeepsProblem(t *testing.T) {
	gen := generationtest.New()
	cause := errors.New("The geocoding service is currently unavailable.")

	out := New(gen, logger.NewTestLogger(t)).RoutingFailure(context.Background(), "Rome to Milan?", "Rome", "Milan", cause)
	assert.Equal(t, SourceTemplate, out.Source)
	assert.Contains(t, out.Text, "Rome and Milan")
	assert.Contains(t, out.Text, cause.Error())
}

func TestRouting_GroundedAndTemplate(t *testing.T) {
	route := geocoding.NewRoute(
		geocoding.Coordinates{Place: "Rome", Lat: 41.8933, Lon: 12.4829},
		geocoding.Coordinates{Place: "Milan", Lat: 45.4642, Lon: 9.19},
	)

	gen := generationtest.New().On(groundedMarker, "About 477 km.")
	out := New(gen, logger.NewTestLogger(t)).Routing(context.Background(), "Rome to Milan?", route)
	assert.Equal(t, SourceGrounded, out.Source)
	assert.Contains(t, gen.Calls()[0].Prompt, "Straight-line distance")

	out = New(generationtest.New(), logger.NewTestLogger(t)).Routing(context.Background(), "Rome to Milan?", route)
	assert.Equal(t, SourceTemplate, out.Source)
	assert.Contains(t, out.Text, "Rome and Milan are about")
}

func TestSearch_Branches(t *testing.T) {
	snippets := "Title: Go\nLink: https://go.dev\nSnippet: Go 1.24 is out."

	gen := generationtest.New().
		On(groundedMarker, "Go 1.24 is the latest release.").
		On(noResultsMarker, "I couldn't find anything relevant.")
	s := New(gen, logger.NewTestLogger(t))

	out := s.Search(context.Background(), "Latest Go?", "latest go release", snippets)
	assert.Equal(t, SourceGrounded, out.Source)

	out = s.NoResults(context.Background(), "Latest Go?", "latest go release")
	assert.Equal(t, SourceNoResults, out.Source)
	assert.Equal(t, "I couldn't find anything relevant.", out.Text)

	out = New(generationtest.New(), logger.NewTestLogger(t)).NoResults(context.Background(), "Latest Go?", "latest go release")
	assert.Equal(t, SourceTemplate, out.Source)
	assert.Contains(t, out.Text, "latest go release")
}

func TestGeneral(t *testing.T) {
	gen := generationtest.New().On(generalMarker, "Paris is the capital of France.")
	out := New(gen, logger.NewTestLogger(t)).General(context.Background(), "Capital of France?")
	assert.Equal(t, SourceGeneral, out.Source)
	assert.Equal(t, "Paris is the capital of France.", out.Text)

	blocked := generationtest.New().OnError(generalMarker, &generation.Error{Kind: generation.KindBlocked, Reason: "SAFETY"})
	out = New(blocked, logger.NewTestLogger(t)).General(context.Background(), "Capital of France?")
	assert.Equal(t, SourceApology, out.Source)
	assert.Equal(t, Apology, out.Text)
	assert.ErrorIs(t, out.Err, generation.ErrBlocked)
}

func TestRun_WhitespaceReplyIsEmpty(t *testing.T) {
	gen := generationtest.New().On(generalMarker, "   ")
	out := New(gen, logger.NewTestLogger(t)).General(context.Background(), "q")
	assert.Equal(t, Apology, out.Text)
	assert.ErrorIs(t, out.Err, generation.ErrEmpty)
}
