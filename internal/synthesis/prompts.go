package synthesis

import (
	"fmt"
	"strings"

	"web-assistant/internal/providers/geocoding"
	"web-assistant/internal/providers/weather"
)

const groundingRules = `Answer the user's question using ONLY the data below.
Be friendly but concise. Do not add facts, numbers or details that are not in the data.`

func groundedPrompt(question, label, data string) string {
	return fmt.Sprintf("%s\n\nUser question: \"%s\"\n\n%s:\n%s\n\nAnswer:", groundingRules, question, label, data)
}

func failurePrompt(question, task, problem string) string {
	return fmt.Sprintf(`The user asked: "%s"
We tried to %s but it failed with this problem: %s
Apologize briefly and explain the specific problem in plain words. Suggest what the user could try instead.
Do not make up an answer to the original question.`, question, task, problem)
}

func noResultsPrompt(question, query string) string {
	return fmt.Sprintf(`The user asked: "%s"
A web search for "%s" returned no relevant results.
Tell the user politely that nothing relevant was found, and suggest rephrasing or a more specific question.
Do not answer the question from memory.`, question, query)
}

func generalPrompt(question string) string {
	return fmt.Sprintf(`You are a helpful, friendly assistant. Answer the following question clearly and concisely.
If you do not know the answer, say so.

Question: %s`, question)
}

func weatherData(r *weather.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Location: %s\n", r.Place())
	fmt.Fprintf(&b, "Condition: %s\n", r.Condition)
	fmt.Fprintf(&b, "Temperature: %.1f°C (%.1f°F)\n", r.TempC, r.TempF)
	fmt.Fprintf(&b, "Feels like: %.1f°C (%.1f°F)\n", r.FeelsLikeC, r.FeelsLikeF)
	fmt.Fprintf(&b, "Humidity: %d%%\n", r.Humidity)
	fmt.Fprintf(&b, "Wind: %.1f km/h (%.1f mph) from %s", r.WindKPH, r.WindMPH, r.WindDir)
	return b.String()
}

func routeData(r *geocoding.Route) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Origin: %s (lat %.4f, lon %.4f)\n", placeName(r.Origin), r.Origin.Lat, r.Origin.Lon)
	fmt.Fprintf(&b, "Destination: %s (lat %.4f, lon %.4f)\n", placeName(r.Destination), r.Destination.Lat, r.Destination.Lon)
	fmt.Fprintf(&b, "Straight-line distance: %.1f km (%.1f miles)\n", r.DistanceKm, r.DistanceMiles())
	b.WriteString("Note: this is a great-circle distance, not a driving route.")
	return b.String()
}

func placeName(c geocoding.Coordinates) string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Place
}
