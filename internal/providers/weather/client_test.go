package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"web-assistant/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parisBody = `{
  "location": {"name": "Paris", "region": "Ile-de-France", "country": "France", "lat": 48.87, "lon": 2.33},
  "current": {
    "temp_c": 21.0, "temp_f": 69.8, "feelslike_c": 20.5, "feelslike_f": 68.9,
    "condition": {"text": "Sunny"}, "humidity": 40,
    "wind_kph": 11.2, "wind_mph": 6.9, "wind_dir": "WSW"
  }
}`

func newTestClient(t *testing.T, url, key string) *Client {
	return NewClient(&Config{BaseURL: url, APIKey: key, Timeout: time.Second}, nil, logger.NewTestLogger(t))
}

func TestCurrent_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/current.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "Paris", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(parisBody))
	}))
	defer server.Close()

	report, err := newTestClient(t, server.URL, "test-key").Current(context.Background(), "  Paris ")
	require.NoError(t, err)

	assert.Equal(t, "Paris", report.Location)
	assert.Equal(t, "Paris, Ile-de-France, France", report.Place())
	assert.Equal(t, 21.0, report.TempC)
	assert.Equal(t, 69.8, report.TempF)
	assert.Equal(t, 20.5, report.FeelsLikeC)
	assert.Equal(t, "Sunny", report.Condition)
	assert.Equal(t, 40, report.Humidity)
	assert.Equal(t, "WSW", report.WindDir)
	assert.InDelta(t, 48.87, report.Lat, 0.001)
}

func TestCurrent_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusBadRequest, KindNotFound},
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuth},
		{http.StatusInternalServerError, KindService},
		{http.StatusTooManyRequests, KindService},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL, "k").Current(context.Background(), "Atlantis")
			require.Error(t, err)

			var wErr *Error
			require.True(t, errors.As(err, &wErr))
			assert.Equal(t, tt.kind, wErr.Kind)
			assert.NotEmpty(t, wErr.Error())
		})
	}
}

func TestCurrent_NotFoundMentionsLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, "k").Current(context.Background(), "Atlantis")
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestCurrent_MissingKeySkipsNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, "").Current(context.Background(), "Paris")

	var wErr *Error
	require.True(t, errors.As(err, &wErr))
	assert.Equal(t, KindAuth, wErr.Kind)
	assert.False(t, called)
}

func TestCurrent_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL, APIKey: "k", Timeout: 50 * time.Millisecond}, nil, logger.NewNoOpLogger())
	_, err := c.Current(context.Background(), "Paris")

	var wErr *Error
	require.True(t, errors.As(err, &wErr))
	assert.Equal(t, KindTimeout, wErr.Kind)
}

func TestCurrent_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url, "k").Current(context.Background(), "Paris")

	var wErr *Error
	require.True(t, errors.As(err, &wErr))
	assert.Equal(t, KindConnection, wErr.Kind)
}

func TestCurrent_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, "k").Current(context.Background(), "Paris")

	var wErr *Error
	require.True(t, errors.As(err, &wErr))
	assert.Equal(t, KindService, wErr.Kind)
}
