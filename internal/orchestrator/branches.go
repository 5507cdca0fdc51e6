package orchestrator

import (
	"context"
	"fmt"

	commonerrors "web-assistant/internal/common/errors"

	"web-assistant/internal/intent"
	"web-assistant/internal/providers/geocoding"
	"web-assistant/internal/providers/weather"
	"web-assistant/internal/synthesis"
)

func (o *Orchestrator) runWeather(ctx context.Context, question string, in intent.Intent, diag *Diagnostics) answer {
	location := in.(intent.Weather).Location
	diag.Slots = map[string]string{"location": location}

	var report *weather.Report
	err := o.stage(ctx, "adapter.weather", func(ctx context.Context) error {
		var err error
		report, err = o.deps.Weather.Current(ctx, location)
		return err
	})
	diag.adapter(err == nil)

	if err != nil {
		o.adapterFailed("weather", err, diag)
		out := o.synthesize(ctx, func(ctx context.Context) synthesis.Output {
			return o.synth.WeatherFailure(ctx, question, location, err)
		})
		return answer{state: StateWeatherAnswered, output: out}
	}

	out := o.synthesize(ctx, func(ctx context.Context) synthesis.Output {
		return o.synth.Weather(ctx, question, report)
	})
	return answer{
		state:  StateWeatherAnswered,
		output: out,
		chart:  weatherChart(report),
		mapped: weatherMap(report),
	}
}

func (o *Orchestrator) runRouting(ctx context.Context, question string, in intent.Intent, diag *Diagnostics) answer {
	r := in.(intent.Routing)
	diag.Slots = map[string]string{"origin": r.Origin, "destination": r.Destination}

	var route *geocoding.Route
	err := o.stage(ctx, "adapter.geocoding", func(ctx context.Context) error {
		origin, err := o.deps.Geocoding.Lookup(ctx, r.Origin)
		if err != nil {
			return err
		}
		destination, err := o.deps.Geocoding.Lookup(ctx, r.Destination)
		if err != nil {
			return err
		}
		route = geocoding.NewRoute(*origin, *destination)
		return nil
	})
	diag.adapter(err == nil)

	if err != nil {
		o.adapterFailed("geocoding", err, diag)
		out := o.synthesize(ctx, func(ctx context.Context) synthesis.Output {
			return o.synth.RoutingFailure(ctx, question, r.Origin, r.Destination, err)
		})
		return answer{state: StateRoutingAnswered, output: out}
	}

	out := o.synthesize(ctx, func(ctx context.Context) synthesis.Output {
		return o.synth.Routing(ctx, question, route)
	})
	return answer{
		state:  StateRoutingAnswered,
		output: out,
		chart:  routeChart(route),
		mapped: routeMap(route),
	}
}

func (o *Orchestrator) runSearch(ctx context.Context, question string, in intent.Intent, diag *Diagnostics) answer {
	query := in.(intent.Search).Query
	diag.Slots = map[string]string{"search_query": query}

	var snippets string
	err := o.stage(ctx, "adapter.web_search", func(ctx context.Context) error {
		var err error
		snippets, err = o.deps.Search.Search(ctx, query, o.searchResults())
		return err
	})
	diag.adapter(err == nil)

	var out synthesis.Output
	switch {
	case err != nil:
		o.adapterFailed("web_search", err, diag)
		out = o.synthesize(ctx, func(ctx context.Context) synthesis.Output {
			return o.synth.SearchFailure(ctx, question, query, err)
		})
	case snippets == "":
		out = o.synthesize(ctx, func(ctx context.Context) synthesis.Output {
			return o.synth.NoResults(ctx, question, query)
		})
	default:
		out = o.synthesize(ctx, func(ctx context.Context) synthesis.Output {
			return o.synth.Search(ctx, question, query, snippets)
		})
	}
	return answer{state: StateSearchAnswered, output: out}
}

func (o *Orchestrator) runGeneral(ctx context.Context, question string, _ *Diagnostics) answer {
	out := o.synthesize(ctx, func(ctx context.Context) synthesis.Output {
		return o.synth.General(ctx, question)
	})
	if !out.OK() {
		return answer{state: StateFailed, output: out}
	}
	return answer{state: StateGeneralAnswered, output: out}
}

func (o *Orchestrator) adapterFailed(adapter string, err error, diag *Diagnostics) {
	stdErr := commonerrors.NewAdapterFailedError(adapter, err)
	o.logger.Warn("data source failed, narrating the error", map[string]interface{}{
		"code":    string(stdErr.Code),
		"details": stdErr.Details,
	})
	diag.noteError(err)
}

func weatherChart(r *weather.Report) *VisualizationData {
	return &VisualizationData{
		Title:  fmt.Sprintf("Current conditions in %s", r.Location),
		Labels: []string{"Temperature (°C)", "Feels like (°C)", "Humidity (%)", "Wind (km/h)"},
		Values: []float64{r.TempC, r.FeelsLikeC, float64(r.Humidity), r.WindKPH},
	}
}

func weatherMap(r *weather.Report) *MapData {
	if r.Lat == 0 && r.Lon == 0 {
		return nil
	}
	return &MapData{
		Type:  "point",
		Point: &MapPoint{Lat: r.Lat, Lon: r.Lon, Label: r.Place()},
	}
}

func routeChart(r *geocoding.Route) *VisualizationData {
	return &VisualizationData{
		Title:  fmt.Sprintf("Distance from %s to %s", r.Origin.Place, r.Destination.Place),
		Labels: []string{"Kilometres", "Miles"},
		Values: []float64{r.DistanceKm, r.DistanceMiles()},
	}
}

func routeMap(r *geocoding.Route) *MapData {
	return &MapData{
		Type:        "route",
		Origin:      &MapPoint{Lat: r.Origin.Lat, Lon: r.Origin.Lon, Label: r.Origin.Place},
		Destination: &MapPoint{Lat: r.Destination.Lat, Lon: r.Destination.Lon, Label: r.Destination.Place},
		DistanceKm:  r.DistanceKm,
	}
}
