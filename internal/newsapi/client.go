// Package newsapi is a client for the NewsAPI.org v2 endpoints.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public NewsAPI endpoint.
const DefaultBaseURL = "https://newsapi.org/v2"

// Article is one news article as returned by NewsAPI.
type Article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

type articlesResponse struct {
	Status   string    `json:"status"`
	Articles []Article `json:"articles"`
}

// EverythingParams are query parameters for the /everything endpoint.
// Zero-valued fields are omitted from the request.
type EverythingParams struct {
	Query    string
	QInTitle string
	Language string
	SearchIn string
	From     string
	SortBy   string
	PageSize int
}

// Client queries NewsAPI.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a NewsAPI client. An empty baseURL uses the public
// endpoint.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TopHeadlines fetches the current top headlines for a language.
func (c *Client) TopHeadlines(ctx context.Context, language string, pageSize int) ([]Article, error) {
	q := url.Values{}
	q.Set("language", language)
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("apiKey", c.apiKey)
	return c.fetch(ctx, "/top-headlines?"+q.Encode())
}

// Everything searches the full article index.
func (c *Client) Everything(ctx context.Context, params EverythingParams) ([]Article, error) {
	q := url.Values{}
	q.Set("q", params.Query)
	if params.QInTitle != "" {
		q.Set("qInTitle", params.QInTitle)
	}
	if params.Language != "" {
		q.Set("language", params.Language)
	}
	if params.SearchIn != "" {
		q.Set("searchIn", params.SearchIn)
	}
	if params.From != "" {
		q.Set("from", params.From)
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	q.Set("apiKey", c.apiKey)
	return c.fetch(ctx, "/everything?"+q.Encode())
}

func (c *Client) fetch(ctx context.Context, path string) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("newsapi error [%d]: %s", resp.StatusCode, string(body))
	}

	var result articlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	return result.Articles, nil
}
