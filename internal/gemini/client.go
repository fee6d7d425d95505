// Package gemini is a typed client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/metrics"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000

	maxAttempts = 3
	retryDelay  = 600 * time.Millisecond
)

// overloadPattern marks response bodies that indicate a transient
// capacity problem worth retrying.
var overloadPattern = regexp.MustCompile(`(?i)unavailable|overload`)

// ErrInvalidResponse is returned when the API responds 200 but the
// payload carries no candidate text part. This is a contract violation,
// not a transient condition, so it is terminal and never retried.
var ErrInvalidResponse = errors.New("gemini: response has no candidate text")

// retryableError wraps errors the retry driver is allowed to loop on:
// network failures, 503s, and overload response bodies. Everything else
// is terminal and surfaces immediately.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Message is one turn of conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options are sampling parameters. Nil fields use the defaults
// (temperature 0.7, 1000 max output tokens).
type Options struct {
	Temperature *float64
	MaxTokens   *int
}

// Usage reports token counts. The generateContent endpoint in use does
// not return usage, so all fields are always zero; callers persist and
// display them as-is rather than recomputing.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the normalized result of a generate call.
type Completion struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	CandidateCount  int     `json:"candidateCount"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client calls the Gemini generateContent endpoint with retry.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	sleep      func(time.Duration)
}

// NewClient creates a Gemini client for the given model.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		sleep: time.Sleep,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Generate sends the conversation to the model and returns the first
// candidate's text. Transient upstream failures (network errors, 503,
// overload bodies) are retried up to 3 attempts with a 600ms × attempt
// delay between them; other failures are terminal on first sight.
func (c *Client) Generate(ctx context.Context, msgs []Message, opts Options) (*Completion, error) {
	body, err := json.Marshal(c.buildRequest(msgs, opts))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		completion, err := c.doAttempt(ctx, body)
		if err == nil {
			metrics.CompletionAttemptsTotal.WithLabelValues("success").Inc()
			return completion, nil
		}

		var retryable *retryableError
		if !errors.As(err, &retryable) {
			metrics.CompletionAttemptsTotal.WithLabelValues("terminal").Inc()
			return nil, err
		}

		metrics.CompletionAttemptsTotal.WithLabelValues("retryable").Inc()
		lastErr = retryable.err
		if attempt < maxAttempts {
			c.sleep(retryDelay * time.Duration(attempt))
		}
	}

	return nil, fmt.Errorf("gemini: giving up after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) buildRequest(msgs []Message, opts Options) generateRequest {
	contents := make([]content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, content{
			Parts: []part{{Text: m.Content}},
			Role:  role,
		})
	}

	cfg := generationConfig{
		Temperature:     defaultTemperature,
		MaxOutputTokens: defaultMaxTokens,
		CandidateCount:  1,
	}
	if opts.Temperature != nil {
		cfg.Temperature = *opts.Temperature
	}
	if opts.MaxTokens != nil {
		cfg.MaxOutputTokens = *opts.MaxTokens
	}

	return generateRequest{Contents: contents, GenerationConfig: cfg}
}

func (c *Client) doAttempt(ctx context.Context, body []byte) (*Completion, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusServiceUnavailable || overloadPattern.Match(respBody) {
			return nil, &retryableError{err: fmt.Errorf("gemini API error [%d]: %s", resp.StatusCode, string(respBody))}
		}
		return nil, fmt.Errorf("gemini API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 ||
		result.Candidates[0].Content.Parts[0].Text == "" {
		return nil, ErrInvalidResponse
	}

	return &Completion{Content: result.Candidates[0].Content.Parts[0].Text}, nil
}
