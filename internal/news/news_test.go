package news

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

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/newsapi"
)

func TestNormalizeBrand_KnownAlias(t *testing.T) {
	b := normalizeBrand("  OpenAI ")
	assert.Equal(t, "openai", b.primary)
	assert.Equal(t, []string{"openai", "open ai", "open-ai"}, b.aliases)

	assert.True(t, b.strict.MatchString("OpenAI ships a new model"))
	assert.True(t, b.strict.MatchString("Open AI announces"))
	assert.True(t, b.strict.MatchString("open-ai researchers"))
	assert.False(t, b.strict.MatchString("openair festival"))
}

func TestNormalizeBrand_UnknownQuery(t *testing.T) {
	b := normalizeBrand("Acme Corp")
	assert.Equal(t, "acme corp", b.primary)
	assert.Equal(t, []string{"acme corp"}, b.aliases)
	assert.True(t, b.strict.MatchString("Acme Corp raises funds"))
	assert.True(t, b.strict.MatchString("acme-corp raises funds"))
	assert.False(t, b.strict.MatchString("acme corporation raises funds"))
}

func TestNormalizeBrand_MetacharactersDoNotPanic(t *testing.T) {
	b := normalizeBrand("c++ (lang)")
	assert.NotNil(t, b.strict)
}

func TestInferCategoryFromTitle(t *testing.T) {
	cases := map[string]string{
		"OpenAI launches new model":        "ai",
		"Quantum breakthrough in physics":  "science",
		"Startup lands Series B funding":   "business",
		"New vaccine trial begins":         "health",
		"Chip shortage hits hardware":      "technology",
		"Local team wins championship":     "all",
		"AI regulation moves forward":      "ai",
		"Study links diet to heart health": "science",
	}
	for title, want := range cases {
		assert.Equal(t, want, inferCategoryFromTitle(title), title)
	}
}

func TestAliasQuery(t *testing.T) {
	assert.Equal(t, `(openai OR "open ai" OR open-ai)`, aliasQuery(normalizeBrand("openai")))
	assert.Equal(t, `"acme corp"`, aliasQuery(normalizeBrand("acme corp")))
	assert.Equal(t, "nvidia", aliasQuery(normalizeBrand("nvidia")))
}

type fakeNewsClient struct {
	headlines  []newsapi.Article
	everything []newsapi.Article
	params     newsapi.EverythingParams
	err        error
}

func (f *fakeNewsClient) TopHeadlines(_ context.Context, _ string, _ int) ([]newsapi.Article, error) {
	return f.headlines, f.err
}

func (f *fakeNewsClient) Everything(_ context.Context, params newsapi.EverythingParams) ([]newsapi.Article, error) {
	f.params = params
	return f.everything, f.err
}

func article(title, desc string) newsapi.Article {
	a := newsapi.Article{Title: title, Description: desc, URL: "https://example.com/a"}
	a.Source.Name = "Example Wire"
	return a
}

func TestLatest_MapsArticles(t *testing.T) {
	client := &fakeNewsClient{headlines: []newsapi.Article{
		article("OpenAI launches new model", "Details inside"),
	}}
	h := NewHandler(client)

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/news/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cards []Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "ai", cards[0].Category)
	assert.Equal(t, "Example Wire", cards[0].Source)
	assert.Equal(t, "Details inside", cards[0].Content)
	assert.Nil(t, cards[0].ImageURL)
	assert.NotEmpty(t, cards[0].ID)
}

func TestSearch_ShortQueryReturnsEmptyList(t *testing.T) {
	h := NewHandler(&fakeNewsClient{})
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/news/search?q=a", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestSearch_BuildsAliasParamsAndFilters(t *testing.T) {
	client := &fakeNewsClient{everything: []newsapi.Article{
		article("OpenAI releases model", "big update"),
		article("Open air concerts return", "summer season"),
	}}
	h := NewHandler(client)
	h.now = func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	}

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/news/search?q=openai", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, `(openai OR "open ai" OR open-ai)`, client.params.Query)
	assert.Equal(t, "openai", client.params.QInTitle)
	assert.Equal(t, "title,description", client.params.SearchIn)
	assert.Equal(t, "2025-03-08", client.params.From)
	assert.Equal(t, "relevancy", client.params.SortBy)
	assert.Equal(t, 10, client.params.PageSize)

	var cards []Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "OpenAI releases model", cards[0].Title)
}

func TestSearch_UpstreamFailure(t *testing.T) {
	h := NewHandler(&fakeNewsClient{err: errors.New("boom")})
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/news/search?q=openai", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
