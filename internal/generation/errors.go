package generation

import "fmt"

// Kind classifies why a generation call produced no text.
type Kind int

const (
	KindUnavailable Kind = iota + 1
	KindBlocked
	KindEmpty
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindBlocked:
		return "blocked"
	case KindEmpty:
		return "empty"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// Error is returned by every failed Generate call. Reason carries the
// block reason for KindBlocked and the failure detail for KindTransport.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

var (
	ErrUnavailable = &Error{Kind: KindUnavailable}
	ErrBlocked     = &Error{Kind: KindBlocked}
	ErrEmpty       = &Error{Kind: KindEmpty}
	ErrTransport   = &Error{Kind: KindTransport}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnavailable:
		return "generation unavailable: no model configured"
	case KindBlocked:
		if e.Reason != "" {
			return fmt.Sprintf("generation blocked: %s", e.Reason)
		}
		return "generation blocked"
	case KindEmpty:
		return "generation returned no text"
	}
	if e.Reason != "" {
		return fmt.Sprintf("generation failed: %s", e.Reason)
	}
	return "generation failed"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrBlocked)
// holds whatever the block reason was.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func blocked(reason string, err error) *Error {
	return &Error{Kind: KindBlocked, Reason: reason, Err: err}
}

func transport(err error) *Error {
	return &Error{Kind: KindTransport, Reason: err.Error(), Err: err}
}
