package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	notifyTimeout = 10 * time.Second

	// Name reported when the extraction carries no full name.
	unknownCandidate = "Unknown Candidate"
)

// ExtractionData is the normalized parser output the payload is built from.
// Fields mirror the extraction keys; all of them are optional.
type ExtractionData struct {
	FullName        string          `json:"fullName,omitempty"`
	Email           string          `json:"email,omitempty"`
	Github          string          `json:"github,omitempty"`
	Linkedin        string          `json:"linkedin,omitempty"`
	Employment      json.RawMessage `json:"employment,omitempty"`
	TechnicalSkills json.RawMessage `json:"technicalSkills,omitempty"`
	SoftSkills      json.RawMessage `json:"softSkills,omitempty"`
	Education       json.RawMessage `json:"education,omitempty"`
	CVURL           string          `json:"cvUrl,omitempty"`
}

// DecodeExtraction unmarshals a raw extraction payload, tolerating the
// double-encoded form where the payload is a JSON string containing JSON.
func DecodeExtraction(raw json.RawMessage) (ExtractionData, error) {
	var out ExtractionData
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return out, fmt.Errorf("empty extraction payload")
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return out, err
		}
		trimmed = bytes.TrimSpace([]byte(inner))
		if len(trimmed) == 0 {
			return out, fmt.Errorf("empty extraction payload")
		}
	}

	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Payload is the frozen contract of the receiving service. Field names and
// shape must not change without coordinating with the consumer.
type Payload struct {
	CVData   PayloadCVData   `json:"cv_data"`
	Metadata PayloadMetadata `json:"metadata"`
}

type PayloadCVData struct {
	PersonalInfo   PayloadPersonalInfo `json:"personal_info"`
	Education      json.RawMessage     `json:"education"`
	Qualifications json.RawMessage     `json:"qualifications"`
	Projects       []string            `json:"projects"`
	CVPublicLink   string              `json:"cv_public_link"`
	// work_experience is attached only when the extraction has employment
	// data; the consumer is strict about absent-vs-empty.
	WorkExperience json.RawMessage `json:"work_experience,omitempty"`
}

type PayloadPersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Github   string `json:"github"`
	Linkedin string `json:"linkedin"`
}

type PayloadMetadata struct {
	ApplicantName      string `json:"applicant_name"`
	Email              string `json:"email"`
	Status             string `json:"status"`
	CVProcessed        bool   `json:"cv_processed"`
	ProcessedTimestamp string `json:"processed_timestamp"`
}

// BuildPayload is pure: identical inputs produce an identical payload.
func BuildPayload(data ExtractionData, email, environment string, now time.Time) Payload {
	name := data.FullName
	applicant := name
	if applicant == "" {
		applicant = unknownCandidate
	}

	infoEmail := data.Email
	if infoEmail == "" {
		infoEmail = email
	}

	return Payload{
		CVData: PayloadCVData{
			PersonalInfo: PayloadPersonalInfo{
				Name:     name,
				Email:    infoEmail,
				Github:   data.Github,
				Linkedin: data.Linkedin,
			},
			Education:      orEmptyList(data.Education),
			Qualifications: orEmptyList(data.TechnicalSkills),
			Projects:       []string{},
			CVPublicLink:   data.CVURL,
			WorkExperience: data.Employment,
		},
		Metadata: PayloadMetadata{
			ApplicantName:      applicant,
			Email:              email,
			Status:             environment,
			CVProcessed:        true,
			ProcessedTimestamp: now.UTC().Format(time.RFC3339),
		},
	}
}

func orEmptyList(raw json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("[]")
	}
	return raw
}

// Result is a delivery outcome. Failures are data, never errors: callers
// branch on Success.
type Result struct {
	Success bool   `json:"success"`
	Status  int    `json:"status,omitempty"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, data ExtractionData, email string) Result
	NotifyWithRetry(ctx context.Context, data ExtractionData, email string, retries int, delay time.Duration) Result
}

type httpNotifier struct {
	url         string
	environment string
	client      *http.Client
	logger      *log.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

func NewNotifier(url, environment string, logger *log.Logger) Notifier {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return &httpNotifier{
		url:         url,
		environment: environment,
		client:      &http.Client{Timeout: notifyTimeout},
		logger:      logger,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

func (n *httpNotifier) Notify(ctx context.Context, data ExtractionData, email string) Result {
	if n == nil || n.client == nil {
		return Result{Success: false, Error: "notifier not configured"}
	}

	payload := BuildPayload(data, email, n.environment, n.now())
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Success: false, Error: "payload marshal failed", Details: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return Result{Success: false, Error: "request build failed", Details: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Candidate-Email", email)

	resp, err := n.client.Do(req)
	if err != nil {
		if n.logger != nil {
			n.logger.Printf("[Webhook] Delivery failed email=%s err=%v", email, err)
		}
		return Result{Success: false, Error: "webhook request failed", Details: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	bodyStr := strings.TrimSpace(string(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if n.logger != nil {
			n.logger.Printf("[Webhook] Delivery rejected email=%s status=%d body=%q", email, resp.StatusCode, bodyStr)
		}
		return Result{
			Success: false,
			Status:  resp.StatusCode,
			Error:   fmt.Sprintf("webhook responded with status %d", resp.StatusCode),
			Details: bodyStr,
		}
	}

	if n.logger != nil {
		n.logger.Printf("[Webhook] Delivered email=%s status=%d", email, resp.StatusCode)
	}
	return Result{Success: true, Status: resp.StatusCode, Data: bodyStr}
}

// NotifyWithRetry re-invokes Notify up to retries times with a fixed delay
// between attempts. Attempts are strictly sequential; the helper blocks for
// the full delay regardless of the failure type.
func (n *httpNotifier) NotifyWithRetry(ctx context.Context, data ExtractionData, email string, retries int, delay time.Duration) Result {
	if n == nil {
		return Result{Success: false, Error: "notifier not configured"}
	}
	if retries <= 0 {
		retries = 3
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}

	var failures []string
	for attempt := 1; attempt <= retries; attempt++ {
		res := n.Notify(ctx, data, email)
		if res.Success {
			return res
		}

		failures = append(failures, fmt.Sprintf("attempt %d: %s", attempt, res.Error))
		if n != nil && n.logger != nil {
			n.logger.Printf("[Webhook] Attempt %d/%d failed email=%s: %s", attempt, retries, email, res.Error)
		}
		if attempt < retries {
			n.sleep(delay)
		}
	}

	return Result{
		Success: false,
		Error:   fmt.Sprintf("webhook delivery failed after %d attempts", retries),
		Details: strings.Join(failures, "; "),
	}
}

var _ Notifier = (*httpNotifier)(nil)
