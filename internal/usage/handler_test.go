package usage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/gemini"
)

type fakeStats struct {
	count  int64
	usages []gemini.Usage
	err    error
}

func (f *fakeStats) Count(_ context.Context) (int64, error) {
	return f.count, f.err
}

func (f *fakeStats) ListUsage(_ context.Context) ([]gemini.Usage, error) {
	return f.usages, f.err
}

func TestGet_AggregatesUsage(t *testing.T) {
	stats := &fakeStats{
		count: 3,
		usages: []gemini.Usage{
			{TotalTokens: 1200},
			{PromptTokens: 300, CompletionTokens: 200},
			{},
		},
	}
	h := NewHandler(stats, 0.002)
	h.now = func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	}

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/system/usage", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, int64(3), report.TotalChats)
	assert.Equal(t, 1700, report.TotalTokens)
	assert.Equal(t, 0.0034, report.EstimatedCost)
	assert.Equal(t, "2025-03-15T12:00:00Z", report.LastUpdated)
}

func TestGet_EmptyWorkspace(t *testing.T) {
	h := NewHandler(&fakeStats{}, 0.002)
	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/system/usage", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Zero(t, report.TotalChats)
	assert.Zero(t, report.TotalTokens)
	assert.Zero(t, report.EstimatedCost)
}

func TestGet_StorageFailure(t *testing.T) {
	h := NewHandler(&fakeStats{err: errors.New("db down")}, 0.002)
	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/system/usage", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
