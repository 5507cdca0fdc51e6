package synthesis

import (
	"fmt"

	"web-assistant/internal/providers/geocoding"
	"web-assistant/internal/providers/weather"
)

func weatherTemplate(r *weather.Report) string {
	return fmt.Sprintf("Got weather for %s: %s, %.1f°C (%.1f°F).", r.Location, r.Condition, r.TempC, r.TempF)
}

func routeTemplate(r *geocoding.Route) string {
	return fmt.Sprintf("%s and %s are about %.0f km (%.0f miles) apart in a straight line.",
		r.Origin.Place, r.Destination.Place, r.DistanceKm, r.DistanceMiles())
}

func searchTemplate(query, snippets string) string {
	return fmt.Sprintf("Here is what I found on the web for \"%s\":\n\n%s", query, snippets)
}

func failureTemplate(task string, err error) string {
	return fmt.Sprintf("Sorry, I couldn't %s. %s", task, err.Error())
}

func noResultsTemplate(query string) string {
	return fmt.Sprintf("I searched the web for \"%s\" but couldn't find any relevant results. Try rephrasing your question.", query)
}
