package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	commonhttp "web-assistant/internal/common/http"
	"web-assistant/internal/common/logger"
	"web-assistant/internal/common/metrics"
)

const providerName = "weather"

type Client struct {
	config *Config
	http   commonhttp.Doer
	logger logger.Logger
}

func NewClient(config *Config, doer commonhttp.Doer, log logger.Logger) *Client {
	if doer == nil {
		doer = commonhttp.NewClient(config.Timeout)
	}
	return &Client{
		config: config,
		http:   doer,
		logger: log.With(map[string]interface{}{"provider": providerName}),
	}
}

// Current fetches current conditions for a free-text location.
// Failures are *Error values whose message can be shown to the user.
func (c *Client) Current(ctx context.Context, location string) (*Report, error) {
	report, err := c.current(ctx, strings.TrimSpace(location))
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		c.logger.Warn("weather lookup failed", map[string]interface{}{
			"location": location,
			"error":    err,
		})
		return nil, err
	}
	metrics.ProviderCallsTotal.WithLabelValues(providerName, metrics.OutcomeOK).Inc()
	return report, nil
}

func (c *Client) current(ctx context.Context, location string) (*Report, error) {
	if c.config.APIKey == "" {
		return nil, authFailure()
	}
	if location == "" {
		return nil, notFound(location)
	}

	params := url.Values{}
	params.Set("key", c.config.APIKey)
	params.Set("q", location)
	params.Set("aqi", "no")
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/current.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, serviceError(0, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if commonhttp.IsTimeout(err) {
			return nil, timedOut(err)
		}
		return nil, connectionFailure(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, notFound(location)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, authFailure()
	case resp.StatusCode != http.StatusOK:
		return nil, serviceError(resp.StatusCode, fmt.Errorf("weather API returned %d", resp.StatusCode))
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, serviceError(resp.StatusCode, fmt.Errorf("decode weather response: %w", err))
	}
	if body.Location.Name == "" {
		return nil, notFound(location)
	}

	return &Report{
		Location:   body.Location.Name,
		Region:     body.Location.Region,
		Country:    body.Location.Country,
		TempC:      body.Current.TempC,
		TempF:      body.Current.TempF,
		FeelsLikeC: body.Current.FeelsLikeC,
		FeelsLikeF: body.Current.FeelsLikeF,
		Condition:  body.Current.Condition.Text,
		Humidity:   body.Current.Humidity,
		WindKPH:    body.Current.WindKPH,
		WindMPH:    body.Current.WindMPH,
		WindDir:    body.Current.WindDir,
		Lat:        body.Location.Lat,
		Lon:        body.Location.Lon,
	}, nil
}
