// Package intent turns a raw question into a typed Intent by asking the
// LLM for a fixed-schema JSON verdict.
package intent

type Kind string

const (
	KindWeather Kind = "weather"
	KindRouting Kind = "routing"
	KindSearch  Kind = "search"
	KindNone    Kind = "none"
)

// Intent is one of Weather, Routing, Search or None.
type Intent interface {
	Kind() Kind
}

type Weather struct {
	Location string
}

type Routing struct {
	Origin      string
	Destination string
}

type Search struct {
	Query string
}

// None means the classifier did not match. Err is set when the verdict
// could not be obtained (generation failure, malformed JSON, schema
// violation) and is nil for a clean "no".
type None struct {
	Reason string
	Err    error
}

func (Weather) Kind() Kind { return KindWeather }
func (Routing) Kind() Kind { return KindRouting }
func (Search) Kind() Kind  { return KindSearch }
func (None) Kind() Kind    { return KindNone }

// Matched reports whether in is anything other than None.
func Matched(in Intent) bool {
	return in != nil && in.Kind() != KindNone
}
