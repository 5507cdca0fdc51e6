package websearch

import (
	"fmt"
	"strings"
)

const snippetLimit = 300

type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

func (r Result) format() string {
	return fmt.Sprintf("Title: %s\nLink: %s\nSnippet: %s", r.Title, r.Link, truncate(r.Snippet, snippetLimit))
}

// Format joins results as blank-line separated Title/Link/Snippet blocks.
func Format(results []Result) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = r.format()
	}
	return strings.Join(blocks, "\n\n")
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

type ErrorKind string

const (
	KindAuth    ErrorKind = "auth"
	KindTimeout ErrorKind = "timeout"
	KindService ErrorKind = "service"
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

func authFailure(status int) *Error {
	return &Error{Kind: KindAuth, Message: "The web search service rejected our credentials.", Err: fmt.Errorf("search API returned %d", status)}
}

func timedOut(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "The web search took too long to respond. Please try again later.", Err: err}
}

func serviceError(err error) *Error {
	return &Error{Kind: KindService, Message: "The web search service is currently unavailable.", Err: err}
}

type customSearchResponse struct {
	Items []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Mime    string `json:"mime"`
	} `json:"items"`
}

type instantAnswerTopic struct {
	Text     string               `json:"Text"`
	FirstURL string               `json:"FirstURL"`
	Name     string               `json:"Name"`
	Topics   []instantAnswerTopic `json:"Topics"`
}

type instantAnswerResponse struct {
	Heading       string               `json:"Heading"`
	AbstractText  string               `json:"AbstractText"`
	AbstractURL   string               `json:"AbstractURL"`
	RelatedTopics []instantAnswerTopic `json:"RelatedTopics"`
}
