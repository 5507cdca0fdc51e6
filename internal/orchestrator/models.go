package orchestrator

import (
	"errors"

	commonerrors "web-assistant/internal/common/errors"
	"web-assistant/internal/generation"
	"web-assistant/internal/providers/geocoding"
	"web-assistant/internal/providers/weather"
	"web-assistant/internal/providers/websearch"
	"web-assistant/internal/synthesis"
)

// State is the terminal state of one answered question.
type State string

const (
	StateWeatherAnswered State = "weather_answered"
	StateRoutingAnswered State = "routing_answered"
	StateSearchAnswered  State = "search_answered"
	StateGeneralAnswered State = "general_answered"
	StateFailed          State = "failed"
)

// Result is the body returned by POST /ask.
type Result struct {
	Response          string             `json:"response"`
	VisualizationData *VisualizationData `json:"visualization_data,omitempty"`
	MapData           *MapData           `json:"map_data,omitempty"`
	Details           *Diagnostics       `json:"details"`
}

// Public returns a copy of r whose details carry no raw provider errors.
func (r *Result) Public() *Result {
	out := *r
	out.Details = r.Details.Public()
	return &out
}

type VisualizationData struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type MapPoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

// MapData is either a single point (Type "point") or a two-point route.
type MapData struct {
	Type        string    `json:"type"`
	Point       *MapPoint `json:"point,omitempty"`
	Origin      *MapPoint `json:"origin,omitempty"`
	Destination *MapPoint `json:"destination,omitempty"`
	DistanceKm  float64   `json:"distance_km,omitempty"`
}

// Check records what one classifier did for this question.
type Check struct {
	Classifier string `json:"classifier"`
	Attempted  bool   `json:"attempted"`
	Matched    bool   `json:"matched"`
	Reason     string `json:"reason,omitempty"`
	Error      string `json:"error,omitempty"`

	publicError string
}

func (c *Check) noteError(err error) {
	c.Error = errorText(err)
	c.publicError = publicErrorText(err)
}

// Diagnostics describes how the answer was produced. It is returned as
// "details" and stored with the interaction record.
type Diagnostics struct {
	Type        string            `json:"type"`
	FinalSource synthesis.Source  `json:"final_src"`
	State       State             `json:"state"`
	Checks      []Check           `json:"checks"`
	Slots       map[string]string `json:"slots,omitempty"`
	AdapterOK   *bool             `json:"adapter_ok,omitempty"`
	SynthesisOK bool              `json:"synthesis_ok"`
	LastError   string            `json:"last_error,omitempty"`

	publicLastError string
}

func (d *Diagnostics) noteError(err error) {
	if err != nil {
		d.LastError = errorText(err)
		d.publicLastError = publicErrorText(err)
	}
}

// Public returns a copy for the HTTP response. Error fields hold the
// user-facing message only; the raw text stays on d for the stored record.
func (d *Diagnostics) Public() *Diagnostics {
	if d == nil {
		return nil
	}
	out := *d
	out.Checks = make([]Check, len(d.Checks))
	for i, c := range d.Checks {
		c.Error = publicOr(c.Error, c.publicError)
		out.Checks[i] = c
	}
	out.LastError = publicOr(d.LastError, d.publicLastError)
	return &out
}

func publicOr(raw, public string) string {
	if raw == "" || public != "" {
		return public
	}
	return genericErrorText
}

// errorText prefers the details of a StandardError over its generic message.
func errorText(err error) string {
	if stdErr := commonerrors.AsStandardError(err); stdErr != nil && stdErr.Code != commonerrors.ErrCodeInternal && stdErr.Details != "" {
		return stdErr.Details
	}
	return err.Error()
}

const genericErrorText = "An internal error occurred."

// publicErrorText is the text a client may see for err. Data source errors
// already carry a user-facing message; everything else is reduced to its
// code's message.
func publicErrorText(err error) string {
	if stdErr := commonerrors.AsStandardError(err); stdErr != nil {
		return stdErr.Message
	}
	var (
		weatherErr *weather.Error
		geoErr     *geocoding.Error
		searchErr  *websearch.Error
		genErr     *generation.Error
	)
	switch {
	case errors.As(err, &weatherErr):
		return weatherErr.Message
	case errors.As(err, &geoErr):
		return geoErr.Message
	case errors.As(err, &searchErr):
		return searchErr.Message
	case errors.As(err, &genErr) && genErr.Kind == generation.KindBlocked:
		return "The response was blocked by the model's safety filters."
	case errors.As(err, &genErr):
		return "LLM generation failed"
	}
	return genericErrorText
}

func (d *Diagnostics) adapter(ok bool) {
	d.AdapterOK = &ok
}

// answer is what a branch hands back to the orchestrator.
type answer struct {
	state  State
	output synthesis.Output
	chart  *VisualizationData
	mapped *MapData
}
