package intent

import "fmt"

func weatherPrompt(question string) string {
	return fmt.Sprintf(`Decide whether the user is asking about current weather conditions somewhere.
User question: "%s"

Answer ONLY with a JSON object of this exact form:
{"is_weather_query": true or false, "location": "<place name>" or null}
Set "location" to the place the user asks about, or null if none is named.`, question)
}

func routingPrompt(question string) string {
	return fmt.Sprintf(`Decide whether the user is asking for directions, a route, or the distance between two places.
User question: "%s"

Answer ONLY with a JSON object of this exact form:
{"is_routing_query": true or false, "origin": "<start place>" or null, "destination": "<end place>" or null}
Use null for any place the user does not name.`, question)
}

func searchPrompt(question string) string {
	return fmt.Sprintf(`Decide whether answering the user needs fresh information from a web search
(recent events, prices, schedules, facts likely to have changed) rather than general knowledge.
User question: "%s"

Answer ONLY with a JSON object of this exact form:
{"needs_search": true or false, "search_query": "<concise search engine query>" or null}`, question)
}
