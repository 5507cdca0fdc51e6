package weather

import "fmt"

// Report is the normalized current-conditions payload.
type Report struct {
	Location   string  `json:"location"`
	Region     string  `json:"region,omitempty"`
	Country    string  `json:"country,omitempty"`
	TempC      float64 `json:"temp_c"`
	TempF      float64 `json:"temp_f"`
	FeelsLikeC float64 `json:"feelslike_c"`
	FeelsLikeF float64 `json:"feelslike_f"`
	Condition  string  `json:"condition"`
	Humidity   int     `json:"humidity"`
	WindKPH    float64 `json:"wind_kph"`
	WindMPH    float64 `json:"wind_mph"`
	WindDir    string  `json:"wind_dir"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// Place renders "name, region, country" without empty parts.
func (r *Report) Place() string {
	place := r.Location
	for _, part := range []string{r.Region, r.Country} {
		if part != "" && part != r.Location {
			place += ", " + part
		}
	}
	return place
}

type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindAuth       ErrorKind = "auth"
	KindTimeout    ErrorKind = "timeout"
	KindConnection ErrorKind = "connection"
	KindService    ErrorKind = "service"
)

// Error carries a message that is safe to show to the user.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func notFound(location string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Could not find weather data for '%s'. Please check the location name.", location)}
}

func authFailure() *Error {
	return &Error{Kind: KindAuth, Message: "Weather service authentication failed. Please check the API key configuration."}
}

func timedOut(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "The weather service took too long to respond. Please try again later.", Err: err}
}

func connectionFailure(err error) *Error {
	return &Error{Kind: KindConnection, Message: "Could not connect to the weather service.", Err: err}
}

func serviceError(status int, err error) *Error {
	return &Error{Kind: KindService, Message: fmt.Sprintf("The weather service returned an error (status %d).", status), Err: err}
}

// apiResponse mirrors the fields read from the provider's current.json.
type apiResponse struct {
	Location struct {
		Name    string  `json:"name"`
		Region  string  `json:"region"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	} `json:"location"`
	Current struct {
		TempC      float64 `json:"temp_c"`
		TempF      float64 `json:"temp_f"`
		FeelsLikeC float64 `json:"feelslike_c"`
		FeelsLikeF float64 `json:"feelslike_f"`
		Humidity   int     `json:"humidity"`
		WindKPH    float64 `json:"wind_kph"`
		WindMPH    float64 `json:"wind_mph"`
		WindDir    string  `json:"wind_dir"`
		Condition  struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}
