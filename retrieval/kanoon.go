package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"nyaymitra-backend/metrics"
	"nyaymitra-backend/models"
)

const (
	defaultSearchURL = "https://api.indiankanoon.org/search/"
	defaultTimeout   = 10 * time.Second
)

// Client queries the Indian Kanoon case-law search API.
// Failures never reach the caller: they become an empty RetrievalContext.
type Client struct {
	apiKey     string
	searchURL  string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// ClientOption is a functional option for Client
type ClientOption func(*Client)

// WithSearchURL overrides the search endpoint
func WithSearchURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.searchURL = u
		}
	}
}

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a search client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		searchURL:  defaultSearchURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search looks up case law for "<category> <queryText>". It makes a single
// attempt; RawResult is nil when the search failed for any reason.
// TruncatedText is left empty for the caller to fill with its own budget.
func (c *Client) Search(ctx context.Context, queryText, category string) *models.RetrievalContext {
	rc := &models.RetrievalContext{Query: queryText, Category: category}

	raw, err := c.search(ctx, category+" "+queryText)
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("Indian Kanoon search failed, continuing without case law")
		c.metrics.RecordRetrieval(false)
		return rc
	}

	rc.RawResult = raw
	c.metrics.RecordRetrieval(true)
	return rc
}

func (c *Client) search(ctx context.Context, formInput string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("formInput", formInput)
	params.Set("pagenum", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	switch compact.String() {
	case "null", "{}", "[]", `""`, "false", "0":
		return nil, fmt.Errorf("search API returned empty result %s", compact.String())
	}
	return compact.Bytes(), nil
}

// Budget fills TruncatedText with the serialized result capped at budget
// bytes and returns it. budget <= 0 means no cap.
func Budget(rc *models.RetrievalContext, budget int) string {
	if !rc.HasResult() {
		if rc != nil {
			rc.TruncatedText = ""
		}
		return ""
	}
	rc.TruncatedText = Truncate(string(rc.RawResult), budget)
	return rc.TruncatedText
}

// Truncate caps s at limit bytes without splitting a UTF-8 sequence.
// limit <= 0 means no cap.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// TruncateRunes caps s at limit characters. limit <= 0 means no cap.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
