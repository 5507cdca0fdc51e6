package geocoding

import "time"

type Config struct {
	BaseURL string
	// UserAgent identifies the application; public Nominatim instances
	// reject anonymous clients.
	UserAgent string
	Timeout   time.Duration
}
