package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	commonhttp "web-assistant/internal/common/http"
	"web-assistant/internal/common/logger"
	"web-assistant/internal/common/metrics"
)

const providerName = "geocoding"

type Client struct {
	config *Config
	http   commonhttp.Doer
	logger logger.Logger
}

func NewClient(config *Config, doer commonhttp.Doer, log logger.Logger) *Client {
	if doer == nil {
		doer = commonhttp.NewClient(config.Timeout, commonhttp.WithUserAgent(config.UserAgent))
	}
	return &Client{
		config: config,
		http:   doer,
		logger: log.With(map[string]interface{}{"provider": providerName}),
	}
}

// Lookup resolves a place name to its best-matching coordinates.
func (c *Client) Lookup(ctx context.Context, place string) (*Coordinates, error) {
	coords, err := c.lookup(ctx, strings.TrimSpace(place))
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		c.logger.Warn("geocoding lookup failed", map[string]interface{}{
			"place": place,
			"error": err,
		})
		return nil, err
	}
	metrics.ProviderCallsTotal.WithLabelValues(providerName, metrics.OutcomeOK).Inc()
	return coords, nil
}

func (c *Client) lookup(ctx context.Context, place string) (*Coordinates, error) {
	if place == "" {
		return nil, notFound(place)
	}

	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, serviceError(err)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if commonhttp.IsTimeout(err) {
			return nil, timedOut(err)
		}
		return nil, serviceError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serviceError(fmt.Errorf("geocoding API returned %d", resp.StatusCode))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, serviceError(fmt.Errorf("decode geocoding response: %w", err))
	}
	if len(results) == 0 {
		return nil, notFound(place)
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, serviceError(fmt.Errorf("unparseable coordinates %q,%q", results[0].Lat, results[0].Lon))
	}

	return &Coordinates{
		Place:       place,
		DisplayName: results[0].DisplayName,
		Lat:         lat,
		Lon:         lon,
	}, nil
}
