// Package generationtest provides a scripted Generator for tests.
package generationtest

import (
	"context"
	"strings"
	"sync"

	"web-assistant/internal/generation"
)

type Call struct {
	Prompt   string
	JSONMode bool
}

type rule struct {
	contains string
	text     string
	err      error
}

// Fake answers each prompt with the first rule whose marker the prompt
// contains. Unmatched prompts get Default (or ErrEmpty when unset).
type Fake struct {
	mu          sync.Mutex
	rules       []rule
	calls       []Call
	unavailable bool

	ModelName string
	Default   string
}

func New() *Fake {
	return &Fake{ModelName: "fake-model"}
}

// Unavailable makes the fake behave like a client without credentials.
func Unavailable() *Fake {
	f := New()
	f.unavailable = true
	return f
}

// On answers prompts containing marker with text.
func (f *Fake) On(marker, text string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{contains: marker, text: text})
	return f
}

// OnError fails prompts containing marker with err.
func (f *Fake) OnError(marker string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{contains: marker, err: err})
	return f
}

func (f *Fake) Generate(_ context.Context, prompt string, jsonMode bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Prompt: prompt, JSONMode: jsonMode})
	if f.unavailable {
		return "", generation.ErrUnavailable
	}

	for _, r := range f.rules {
		if strings.Contains(prompt, r.contains) {
			return r.text, r.err
		}
	}
	if f.Default != "" {
		return f.Default, nil
	}
	return "", generation.ErrEmpty
}

func (f *Fake) Available() bool {
	return !f.unavailable
}

func (f *Fake) Model() string {
	return f.ModelName
}

// Calls returns a copy of every prompt seen so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsContaining counts prompts containing marker.
func (f *Fake) CallsContaining(marker string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.Contains(c.Prompt, marker) {
			n++
		}
	}
	return n
}
