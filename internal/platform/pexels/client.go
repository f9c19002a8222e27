// Package pexels provides slide image lookup backed by the Pexels photo
// search API.
package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/phrazzld/deck-api/internal/domain"
)

const defaultBaseURL = "https://api.pexels.com/v1"

// Client searches Pexels for a single representative photo per query.
//
// Image lookup is best-effort by contract: every failure mode (missing
// key, network error, rate limit, empty result) resolves to a nil
// attachment, never an error the caller must handle.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// New creates a Pexels client. If logger is nil, a default logger will
// be used.
func New(apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With(slog.String("component", "pexels")),
	}
}

// photo mirrors the subset of the Pexels search payload the service uses.
type photo struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Alt             string `json:"alt"`
	Src             struct {
		Large string `json:"large"`
	} `json:"src"`
}

type searchResponse struct {
	Photos []photo `json:"photos"`
}

// SearchOne returns the best landscape photo for query, or nil when no
// usable photo can be found for any reason.
func (c *Client) SearchOne(ctx context.Context, query string) *domain.ImageAttachment {
	if c.apiKey == "" || query == "" {
		return nil
	}

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, url.Values{
		"query":       {query},
		"per_page":    {"1"},
		"orientation": {"landscape"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Warn("failed to build image search request", "error", err)
		return nil
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("image search failed", "query", query, "error", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("image search rate limited", "query", query)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("image search returned non-OK status",
			"query", query, "status", resp.StatusCode)
		return nil
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Warn("failed to decode image search response", "query", query, "error", err)
		return nil
	}

	if len(parsed.Photos) == 0 {
		return nil
	}

	p := parsed.Photos[0]
	if p.Src.Large == "" {
		return nil
	}

	alt := p.Alt
	if alt == "" {
		alt = query
	}

	return &domain.ImageAttachment{
		URL:             p.Src.Large,
		Alt:             alt,
		Photographer:    p.Photographer,
		PhotographerURL: p.PhotographerURL,
		Width:           p.Width,
		Height:          p.Height,
	}
}
