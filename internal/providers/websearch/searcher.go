package websearch

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

const providerName = "web_search"

type Searcher struct {
	config *Config
	http   commonhttp.Doer
	logger logger.Logger
}

func NewSearcher(config *Config, doer commonhttp.Doer, log logger.Logger) *Searcher {
	if doer == nil {
		doer = commonhttp.NewClient(config.Timeout)
	}
	provider := "primary"
	if !config.hasPrimary() {
		provider = "fallback"
	}
	return &Searcher{
		config: config,
		http:   doer,
		logger: log.With(map[string]interface{}{"provider": providerName, "backend": provider}),
	}
}

// Search returns up to n formatted results for query. Zero usable results
// is ("", nil), not an error.
func (s *Searcher) Search(ctx context.Context, query string, n int) (string, error) {
	if n <= 0 {
		n = s.config.MaxResults
	}
	if n <= 0 {
		n = 5
	}

	var (
		results []Result
		err     error
	)
	if s.config.hasPrimary() {
		results, err = s.searchPrimary(ctx, query, n)
	} else {
		results, err = s.searchFallback(ctx, query)
	}
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		s.logger.Warn("web search failed", map[string]interface{}{"query": query, "error": err})
		return "", err
	}

	results = dedupe(results, n)
	if len(results) == 0 {
		metrics.ProviderCallsTotal.WithLabelValues(providerName, metrics.OutcomeEmpty).Inc()
		s.logger.Info("web search returned no results", map[string]interface{}{"query": query})
		return "", nil
	}

	metrics.ProviderCallsTotal.WithLabelValues(providerName, metrics.OutcomeOK).Inc()
	s.logger.Info("web search completed", map[string]interface{}{
		"query":       query,
		"resultCount": len(results),
	})
	return Format(results), nil
}

func (s *Searcher) searchPrimary(ctx context.Context, query string, n int) ([]Result, error) {
	// The Custom Search API caps num at 10.
	if n > 10 {
		n = 10
	}
	params := url.Values{}
	params.Add("key", s.config.APIKey)
	params.Add("cx", s.config.EngineID)
	params.Add("q", query)
	params.Add("num", strconv.Itoa(n))

	var body customSearchResponse
	if err := s.getJSON(ctx, s.config.BaseURL, params, &body); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(body.Items))
	for _, item := range body.Items {
		if item.Mime != "" && !strings.Contains(item.Mime, "html") {
			continue
		}
		results = append(results, Result{Title: item.Title, Link: item.Link, Snippet: item.Snippet})
	}
	return results, nil
}

func (s *Searcher) searchFallback(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("no_html", "1")
	params.Add("skip_disambig", "1")

	var body instantAnswerResponse
	if err := s.getJSON(ctx, s.config.FallbackURL, params, &body); err != nil {
		return nil, err
	}

	var results []Result
	if body.AbstractText != "" {
		title := body.Heading
		if title == "" {
			title = query
		}
		results = append(results, Result{Title: title, Link: body.AbstractURL, Snippet: body.AbstractText})
	}
	results = appendTopics(results, body.RelatedTopics)
	return results, nil
}

func appendTopics(results []Result, topics []instantAnswerTopic) []Result {
	for _, topic := range topics {
		if len(topic.Topics) > 0 {
			results = appendTopics(results, topic.Topics)
			continue
		}
		if topic.Text == "" {
			continue
		}
		title := topic.Text
		if i := strings.Index(title, " - "); i > 0 {
			title = title[:i]
		}
		results = append(results, Result{Title: title, Link: topic.FirstURL, Snippet: topic.Text})
	}
	return results
}

func (s *Searcher) getJSON(ctx context.Context, base string, params url.Values, out interface{}) error {
	u, err := url.Parse(base)
	if err != nil {
		return serviceError(fmt.Errorf("parse search URL: %w", err))
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return serviceError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		if commonhttp.IsTimeout(err) {
			return timedOut(err)
		}
		return serviceError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return authFailure(resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return serviceError(fmt.Errorf("search API returned %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return serviceError(fmt.Errorf("decode search response: %w", err))
	}
	return nil
}

// dedupe drops repeated links and results without text, keeping order.
func dedupe(results []Result, limit int) []Result {
	seen := make(map[string]bool)
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.Snippet) == "" && strings.TrimSpace(r.Title) == "" {
			continue
		}
		if r.Link != "" {
			if seen[r.Link] {
				continue
			}
			seen[r.Link] = true
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}
