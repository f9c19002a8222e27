// Package imagenorm calls the external HTML normalization collaborator
// that post-processes rendered decks (rewriting image references and
// embedding assets).
package imagenorm

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/deck-api/internal/config"
)

const defaultTimeout = 30 * time.Second

// Client normalizes rendered deck HTML through an external service.
//
// Normalization is strictly best-effort: any failure (service not
// configured, network error, non-OK status, timeout, empty result)
// degrades to returning the input unchanged.
type Client struct {
	url     string
	timeout time.Duration
	httpc   *http.Client
	logger  *slog.Logger
}

// New creates a normalizer client. An empty URL disables normalization.
// If logger is nil, a default logger will be used.
func New(cfg config.NormalizerConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		url:     cfg.URL,
		timeout: timeout,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger.With(slog.String("component", "imagenorm")),
	}
}

type normalizeRequest struct {
	HTML     string `json:"html"`
	Topic    string `json:"topic"`
	Language string `json:"language"`
}

type normalizeResponse struct {
	HTML string `json:"html"`
}

// Normalize sends html to the normalization service and returns the
// processed document, or html unchanged when the service cannot serve.
// topic and language give the service context for image selection.
func (c *Client) Normalize(ctx context.Context, html, topic, language string) string {
	if c.url == "" {
		return html
	}

	body, err := json.Marshal(normalizeRequest{HTML: html, Topic: topic, Language: language})
	if err != nil {
		c.logger.Warn("failed to encode normalization request", "error", err)
		return html
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("failed to build normalization request", "error", err)
		return html
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("normalization call failed, keeping draft", "error", err)
		return html
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("normalization returned non-OK status, keeping draft",
			"status", resp.StatusCode)
		return html
	}

	var parsed normalizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Warn("failed to decode normalization response, keeping draft", "error", err)
		return html
	}

	if parsed.HTML == "" {
		c.logger.Warn("normalization returned empty document, keeping draft")
		return html
	}

	return parsed.HTML
}
