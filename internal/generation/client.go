package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"web-assistant/internal/common/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator is the LLM boundary used by classifiers and the synthesizer.
type Generator interface {
	Generate(ctx context.Context, prompt string, jsonMode bool) (string, error)
	Available() bool
	Model() string
}

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// contentGenerator is the part of *genai.GenerativeModel the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client talks to Gemini. A Client built without credentials reports
// Available() == false and fails every call with ErrUnavailable.
type Client struct {
	config    Config
	logger    logger.Logger
	genai     *genai.Client
	textModel contentGenerator
	jsonModel contentGenerator
}

func New(ctx context.Context, cfg Config, log logger.Logger) *Client {
	c := &Client{
		config: cfg,
		logger: log.With(map[string]interface{}{"component": "generation", "model": cfg.Model}),
	}

	if cfg.APIKey == "" {
		c.logger.Warn("no API key configured; assistant will answer 500 to every question", nil)
		return c
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		c.logger.Error("failed to create generation client", map[string]interface{}{"error": err})
		return c
	}

	jsonModel := client.GenerativeModel(cfg.Model)
	jsonModel.ResponseMIMEType = "application/json"

	c.genai = client
	c.textModel = client.GenerativeModel(cfg.Model)
	c.jsonModel = jsonModel
	c.logger.Info("generation client initialized", nil)
	return c
}

func (c *Client) Available() bool {
	return c != nil && c.textModel != nil
}

func (c *Client) Model() string {
	return c.config.Model
}

func (c *Client) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	model := c.textModel
	if jsonMode {
		model = c.jsonModel
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		genErr := classify(err)
		c.logger.Warn("generation call failed", map[string]interface{}{
			"kind":       genErr.Kind.String(),
			"reason":     genErr.Reason,
			"jsonMode":   jsonMode,
			"durationMs": time.Since(start).Milliseconds(),
		})
		return "", genErr
	}

	text, genErr := responseText(resp)
	if genErr != nil {
		c.logger.Warn("generation returned no usable text", map[string]interface{}{
			"kind":   genErr.Kind.String(),
			"reason": genErr.Reason,
		})
		return "", genErr
	}

	c.logger.Debug("generation call succeeded", map[string]interface{}{
		"jsonMode":   jsonMode,
		"durationMs": time.Since(start).Milliseconds(),
		"chars":      len(text),
	})
	return text, nil
}

func (c *Client) Close() error {
	if c == nil || c.genai == nil {
		return nil
	}
	return c.genai.Close()
}

func classify(err error) *Error {
	var blockedErr *genai.BlockedError
	if errors.As(err, &blockedErr) {
		return blocked(blockReason(blockedErr), err)
	}
	return transport(err)
}

func blockReason(err *genai.BlockedError) string {
	if err.PromptFeedback != nil && err.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return err.PromptFeedback.BlockReason.String()
	}
	if err.Candidate != nil {
		return err.Candidate.FinishReason.String()
	}
	return "unknown"
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, *Error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", blocked(resp.PromptFeedback.BlockReason.String(), nil)
		}
		return "", ErrEmpty
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return "", blocked(cand.FinishReason.String(), nil)
	}
	if cand.Content == nil {
		return "", ErrEmpty
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
