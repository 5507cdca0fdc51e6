package intent

import "web-assistant/internal/common/validation"

func nullableString() map[string]interface{} {
	return map[string]interface{}{"type": []interface{}{"string", "null"}}
}

func verdictSchema(flag string, slots ...string) *validation.Schema {
	props := map[string]interface{}{
		flag: map[string]interface{}{"type": "boolean"},
	}
	for _, slot := range slots {
		props[slot] = nullableString()
	}
	return validation.MustCompile(map[string]interface{}{
		"type":       "object",
		"required":   []interface{}{flag},
		"properties": props,
	})
}

var (
	weatherSchema = verdictSchema("is_weather_query", "location")
	routingSchema = verdictSchema("is_routing_query", "origin", "destination")
	searchSchema  = verdictSchema("needs_search", "search_query")
)
