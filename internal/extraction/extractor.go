// Package extraction converts binary documents to plain text through a
// remote PDF-services API: authenticate, upload, submit an extraction job,
// poll until terminal, download and normalize the result.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hexcelerate/jobfit/internal/logger"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultMaxPollAttempts = 60

	// minPlausibleLength guards against runs that technically succeed but
	// return garbage; anything shorter is treated as a failed extraction.
	minPlausibleLength = 10
)

// Config configures the remote extraction client.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string

	// PollInterval and MaxPollAttempts bound the status polling loop.
	// Zero values use the defaults (2s, 60 attempts).
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Client talks to the remote document extraction service.
type Client struct {
	cfg   Config
	httpc *http.Client
	log   *zap.Logger
}

// New creates an extraction client.
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = defaultMaxPollAttempts
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{},
		log:   logger.Or(log),
	}
}

// ExtractText runs the full five-step protocol and returns normalized plain
// text. All failures come back as *Error.
func (c *Client) ExtractText(ctx context.Context, document []byte) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	assetID, err := c.uploadAsset(ctx, token, document)
	if err != nil {
		return "", err
	}

	location, err := c.createJob(ctx, token, assetID)
	if err != nil {
		return "", err
	}

	result, err := c.pollJob(ctx, token, location)
	if err != nil {
		return "", err
	}

	downloadURI := result.downloadURI()
	if downloadURI == "" {
		return "", stageErrf("result", "no download URI in job result")
	}

	text, err := c.downloadResult(ctx, downloadURI)
	if err != nil {
		return "", err
	}

	c.log.Debug("extraction complete", zap.Int("chars", len(text)))
	return text, nil
}

// accessToken obtains a short-lived credential (step 1).
func (c *Client) accessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", stageErr("auth", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doJSON(req, &payload); err != nil {
		return "", stageErr("auth", err)
	}
	if payload.AccessToken == "" {
		return "", stageErrf("auth", "empty access token")
	}
	return payload.AccessToken, nil
}

// uploadAsset registers an asset and PUTs the document bytes to the
// returned upload URI (step 2).
func (c *Client) uploadAsset(ctx context.Context, token string, document []byte) (string, error) {
	body, _ := json.Marshal(map[string]string{"mediaType": "application/pdf"})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/assets", bytes.NewReader(body))
	if err != nil {
		return "", stageErr("upload", err)
	}
	c.authorize(req, token)
	req.Header.Set("Content-Type", "application/json")

	var payload struct {
		UploadURI string `json:"uploadUri"`
		AssetID   string `json:"assetID"`
	}
	if err := c.doJSON(req, &payload); err != nil {
		return "", stageErr("upload", err)
	}
	if payload.UploadURI == "" || payload.AssetID == "" {
		return "", stageErrf("upload", "missing uploadUri or assetID")
	}

	put, err := http.NewRequestWithContext(ctx, http.MethodPut, payload.UploadURI, bytes.NewReader(document))
	if err != nil {
		return "", stageErr("upload", err)
	}
	put.Header.Set("Content-Type", "application/pdf")

	resp, err := c.httpc.Do(put)
	if err != nil {
		return "", stageErr("upload", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", stageErrf("upload", "unexpected status %d", resp.StatusCode)
	}

	return payload.AssetID, nil
}

// createJob submits the extraction job and returns the status location
// (step 3).
func (c *Client) createJob(ctx context.Context, token, assetID string) (string, error) {
	body, _ := json.Marshal(map[string]string{"assetID": assetID})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/operation/extractpdf", bytes.NewReader(body))
	if err != nil {
		return "", stageErr("submit", err)
	}
	c.authorize(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", stageErr("submit", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(resp.Body)
		return "", stageErrf("submit", "unexpected status %d: %s", resp.StatusCode, truncate(string(payload), 200))
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", stageErrf("submit", "no location header in response")
	}
	return location, nil
}

// jobResult mirrors the shapes the service has been observed to return;
// the download URI moves around between operations.
type jobResult struct {
	Status  string `json:"status"`
	Content *struct {
		DownloadURI string `json:"downloadUri"`
	} `json:"content"`
	Resource *struct {
		DownloadURI string `json:"downloadUri"`
	} `json:"resource"`
	Asset *struct {
		DownloadURI string `json:"downloadUri"`
	} `json:"asset"`
	DownloadURI string `json:"downloadUri"`
}

func (r *jobResult) downloadURI() string {
	switch {
	case r.Content != nil && r.Content.DownloadURI != "":
		return r.Content.DownloadURI
	case r.Resource != nil && r.Resource.DownloadURI != "":
		return r.Resource.DownloadURI
	case r.DownloadURI != "":
		return r.DownloadURI
	case r.Asset != nil && r.Asset.DownloadURI != "":
		return r.Asset.DownloadURI
	}
	return ""
}

// pollJob polls the status location on a fixed interval up to the bounded
// attempt count, terminating early on a terminal status (step 4).
func (c *Client) pollJob(ctx context.Context, token, location string) (*jobResult, error) {
	for attempt := 1; attempt <= c.cfg.MaxPollAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, stageErr("poll", err)
		}
		c.authorize(req, token)

		var result jobResult
		if err := c.doJSON(req, &result); err != nil {
			return nil, stageErr("poll", err)
		}

		c.log.Debug("extraction job status",
			zap.String("status", result.Status),
			zap.Int("attempt", attempt))

		switch result.Status {
		case "done":
			return &result, nil
		case "failed":
			return nil, stageErrf("poll", "extraction job failed")
		}

		select {
		case <-ctx.Done():
			return nil, stageErr("poll", ctx.Err())
		case <-time.After(c.cfg.PollInterval):
		}
	}

	return nil, stageErrf("poll", "job did not complete within %d attempts", c.cfg.MaxPollAttempts)
}

// downloadResult fetches the result payload and normalizes it into plain
// text (step 5). Prefers structured elements; falls back to pattern
// extraction for non-JSON payloads.
func (c *Client) downloadResult(ctx context.Context, downloadURI string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURI, nil)
	if err != nil {
		return "", stageErr("download", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", stageErr("download", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", stageErrf("download", "unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", stageErr("download", err)
	}

	text := extractText(raw)
	if len(text) < minPlausibleLength {
		return "", stageErrf("download", "no usable text content in result (%d chars)", len(text))
	}
	return text, nil
}

var textFieldPattern = regexp.MustCompile(`"[Tt]ext"\s*:\s*"([^"\\]*(?:\\.[^"\\]*)*)"`)

// extractText pulls text out of the result payload, preferring the
// structured elements array.
func extractText(raw []byte) string {
	var payload struct {
		Elements []struct {
			Text string `json:"Text"`
		} `json:"elements"`
	}

	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Elements) > 0 {
		parts := make([]string, 0, len(payload.Elements))
		for _, el := range payload.Elements {
			if el.Text != "" {
				parts = append(parts, el.Text)
			}
		}
		return normalizeWhitespace(strings.Join(parts, " "))
	}

	// Fallback for ZIP-wrapped or otherwise non-JSON payloads.
	matches := textFieldPattern.FindAllSubmatch(raw, -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		part := string(m[1])
		part = strings.ReplaceAll(part, `\n`, " ")
		part = strings.ReplaceAll(part, `\"`, `"`)
		parts = append(parts, part)
	}
	return normalizeWhitespace(strings.Join(parts, " "))
}

var whitespacePattern = regexp.MustCompile(`\s+`)

func normalizeWhitespace(s string) string {
	s = strings.NewReplacer(`\n`, " ", `\r`, " ", `\t`, " ").Replace(s)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

func (c *Client) authorize(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-API-Key", c.cfg.ClientID)
}

// doJSON executes the request and decodes a JSON body, converting non-2xx
// statuses into errors.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return json.Unmarshal(body, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
