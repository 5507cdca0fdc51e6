package geocoding

import "fmt"

type Coordinates struct {
	Place       string  `json:"place"`
	DisplayName string  `json:"display_name,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

type ErrorKind string

const (
	KindNotFound ErrorKind = "not_found"
	KindTimeout  ErrorKind = "timeout"
	KindService  ErrorKind = "service"
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

func notFound(place string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Could not find a location named '%s'.", place)}
}

func timedOut(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "The geocoding service took too long to respond. Please try again later.", Err: err}
}

func serviceError(err error) *Error {
	return &Error{Kind: KindService, Message: "The geocoding service is currently unavailable.", Err: err}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
