package websearch

import "time"

// Config selects the primary provider (Google Custom Search, needs both
// APIKey and EngineID) or, when either is missing, the keyless fallback.
type Config struct {
	BaseURL     string
	APIKey      string
	EngineID    string
	FallbackURL string
	MaxResults  int
	Timeout     time.Duration
}

func (c *Config) hasPrimary() bool {
	return c.APIKey != "" && c.EngineID != ""
}
