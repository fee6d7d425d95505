package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-key", "gemini-2.0-flash", 5*time.Second)
	var delays []time.Duration
	c.sleep = func(d time.Duration) { delays = append(delays, d) }
	return c, &delays
}

func textResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":"` + text + `"}]}}]}`
}

func TestGenerate_Success(t *testing.T) {
	var captured generateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("X-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(textResponse("hello")))
	})

	completion, err := client.Generate(context.Background(), []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hey"},
		{Role: "system", Content: "be nice"},
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "hello", completion.Content)
	assert.Equal(t, Usage{}, completion.Usage)

	// Role translation: assistant → model, everything else → user.
	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "user", captured.Contents[2].Role)
	assert.Equal(t, "hi", captured.Contents[0].Parts[0].Text)

	// Sampling defaults.
	assert.Equal(t, 0.7, captured.GenerationConfig.Temperature)
	assert.Equal(t, 1000, captured.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, 1, captured.GenerationConfig.CandidateCount)
}

func TestGenerate_ExplicitSamplingParams(t *testing.T) {
	var captured generateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(textResponse("ok")))
	})

	temp := 0.0
	maxTokens := 250
	_, err := client.Generate(context.Background(), []Message{{Role: "user", Content: "x"}},
		Options{Temperature: &temp, MaxTokens: &maxTokens})
	require.NoError(t, err)

	// Zero temperature must survive (not replaced by the default).
	assert.Equal(t, 0.0, captured.GenerationConfig.Temperature)
	assert.Equal(t, 250, captured.GenerationConfig.MaxOutputTokens)
}

func TestGenerate_RetriesOn503ThenSucceeds(t *testing.T) {
	calls := 0
	client, delays := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("service unavailable"))
			return
		}
		w.Write([]byte(textResponse("recovered")))
	})

	completion, err := client.Generate(context.Background(), []Message{{Role: "user", Content: "x"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", completion.Content)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{600 * time.Millisecond, 1200 * time.Millisecond}, *delays)
}

func TestGenerate_RetryCeiling(t *testing.T) {
	calls := 0
	client, delays := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down"))
	})

	_, err := client.Generate(context.Background(), []Message{{Role: "user", Content: "x"}}, Options{})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	// 600ms after attempt 1, 1200ms after attempt 2, none after the last.
	assert.Equal(t, []time.Duration{600 * time.Millisecond, 1200 * time.Millisecond}, *delays)
	assert.Contains(t, err.Error(), "giving up after 3 attempts")
}

func TestGenerate_OverloadBodyIsRetryable(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("the model is overloaded, try again"))
			return
		}
		w.Write([]byte(textResponse("ok")))
	})

	completion, err := client.Generate(context.Background(), []Message{{Role: "user", Content: "x"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ok", completion.Content)
	assert.Equal(t, 2, calls)
}

func TestGenerate_NonRetryableErrorFailsFast(t *testing.T) {
	calls := 0
	client, delays := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid argument: bad content"))
	})

	_, err := client.Generate(context.Background(), []Message{{Role: "user", Content: "x"}}, Options{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *delays)
	assert.Contains(t, err.Error(), "invalid argument: bad content")
}

func TestGenerate_MissingTextIsTerminal(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), []Message{{Role: "user", Content: "x"}}, Options{})
	require.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, 1, calls, "malformed responses must not be retried")
}
