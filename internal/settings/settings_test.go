package settings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Defaults(t *testing.T) {
	s := NewStore()
	got := s.All()
	assert.Equal(t, []any{"gemini-2.0-flash"}, got["enabledModels"])
}

func TestStore_MergeReplacesPerKey(t *testing.T) {
	s := NewStore()
	merged := s.Merge(map[string]any{"theme": "dark"})
	assert.Equal(t, "dark", merged["theme"])
	assert.Equal(t, []any{"gemini-2.0-flash"}, merged["enabledModels"])

	merged = s.Merge(map[string]any{"enabledModels": []any{"gemini-2.0-pro"}})
	assert.Equal(t, []any{"gemini-2.0-pro"}, merged["enabledModels"])
	assert.Equal(t, "dark", merged["theme"])
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s := NewStore()
	got := s.All()
	got["theme"] = "dark"
	assert.NotContains(t, s.All(), "theme")
}

func TestHandler_GetAndUpdate(t *testing.T) {
	h := NewHandler(NewStore())

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "enabledModels")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(`{"theme":"dark"}`))
	h.Update(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dark", body["theme"])
	assert.Contains(t, body, "enabledModels")
}

func TestHandler_UpdateRejectsBadJSON(t *testing.T) {
	h := NewHandler(NewStore())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader("{"))
	h.Update(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
