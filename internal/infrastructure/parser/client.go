package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable is the distinguishable signal that the external résumé
// parser cannot be reached. Callers branch on this kind, never on message
// text.
var ErrUnavailable = errors.New("resume parser unavailable")

const (
	healthTimeout = 2 * time.Second
	parseTimeout  = 60 * time.Second
)

// Result carries the parser's extraction output. Data is the parsed_data
// field of the response; Raw is the full response body, kept verbatim so the
// caller can persist it untouched.
type Result struct {
	Data json.RawMessage
	Raw  json.RawMessage
}

type Gateway interface {
	CheckAvailable(ctx context.Context) bool
	Parse(ctx context.Context, fileURL string) *Result
}

type httpGateway struct {
	baseURL      string
	healthClient *http.Client
	parseClient  *http.Client
	logger       *log.Logger
}

type parseRequest struct {
	URL string `json:"url"`
}

type parseResponse struct {
	ParsedData json.RawMessage `json:"parsed_data"`
}

func NewGateway(baseURL string, logger *log.Logger) Gateway {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	return &httpGateway{
		baseURL:      strings.TrimRight(baseURL, "/"),
		healthClient: &http.Client{Timeout: healthTimeout},
		parseClient:  &http.Client{Timeout: parseTimeout},
		logger:       logger,
	}
}

// CheckAvailable is a short liveness probe. Any failure means "unavailable";
// it never returns an error because parsing is an enhancement, not a
// requirement.
func (g *httpGateway) CheckAvailable(ctx context.Context) bool {
	if g == nil || g.healthClient == nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := g.healthClient.Do(req)
	if err != nil {
		if g.logger != nil {
			g.logger.Printf("[Parser] Health check failed, skipping enrichment: %v", err)
		}
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if g.logger != nil {
			g.logger.Printf("[Parser] Health check returned status=%d, skipping enrichment", resp.StatusCode)
		}
		return false
	}
	return true
}

// Parse forwards the file URL for extraction. The long timeout accounts for
// slow extraction of large documents. Every failure degrades to nil.
func (g *httpGateway) Parse(ctx context.Context, fileURL string) *Result {
	if g == nil || g.parseClient == nil {
		return nil
	}
	if !g.CheckAvailable(ctx) {
		return nil
	}

	body, err := json.Marshal(parseRequest{URL: fileURL})
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/parse-resume/", bytes.NewReader(body))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.parseClient.Do(req)
	if err != nil {
		if g.logger != nil {
			g.logger.Printf("[Parser] Parse request failed: %v", err)
		}
		return nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if g.logger != nil {
			g.logger.Printf("[Parser] Reading parse response failed: %v", err)
		}
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if g.logger != nil {
			g.logger.Printf("[Parser] Parse failed status=%d body=%q", resp.StatusCode, truncate(string(raw), 512))
		}
		return nil
	}

	out := &Result{Raw: json.RawMessage(raw)}
	var pr parseResponse
	if err := json.Unmarshal(raw, &pr); err == nil && len(pr.ParsedData) > 0 {
		out.Data = pr.ParsedData
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ Gateway = (*httpGateway)(nil)
