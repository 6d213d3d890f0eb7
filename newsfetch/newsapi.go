package newsfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIClient wraps the newsapi.org REST API.
type NewsAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewNewsAPIClient creates a client. The key is required; callers should
// validate configuration before constructing one.
func NewNewsAPIClient(apiKey string) (*NewsAPIClient, error) {
	if apiKey == "" {
		return nil, errors.New("NewsAPI key not found. Please set the NEWS_API_KEY environment variable")
	}
	return &NewsAPIClient{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Headline is one article record as returned by the search provider.
type Headline struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Description string `json:"description"`
}

type searchResponse struct {
	Status       string     `json:"status"`
	Code         string     `json:"code"`
	Message      string     `json:"message"`
	TotalResults int        `json:"totalResults"`
	Articles     []Headline `json:"articles"`
}

// Search fetches up to pageSize English articles for the topic, sorted by
// relevance.
func (c *NewsAPIClient) Search(ctx context.Context, topic string, pageSize int) ([]Headline, error) {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	if res.StatusCode != http.StatusOK || parsed.Status != "ok" {
		return nil, fmt.Errorf("newsapi error (status %d, code %q): %s", res.StatusCode, parsed.Code, parsed.Message)
	}
	return parsed.Articles, nil
}
