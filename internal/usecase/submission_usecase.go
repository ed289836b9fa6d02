package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"cv-intake/internal/domain/application"
	"cv-intake/internal/infrastructure/parser"
	"cv-intake/internal/infrastructure/storage"
	"cv-intake/internal/infrastructure/webhook"
	"cv-intake/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("application not found")
	ErrInternal     = errors.New("internal error")
)

type SubmissionInput struct {
	Name  string
	Email string
	Phone string

	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

type SubmissionResult struct {
	ID          uuid.UUID
	WebhookSent bool
}

type SubmissionUsecase interface {
	Submit(ctx context.Context, in SubmissionInput) (SubmissionResult, error)
}

type Submission struct {
	apps     repository.ApplicationRepository
	uploader storage.Uploader
	parser   parser.Gateway
	notifier webhook.Notifier
	cache    ListCache
	logger   *log.Logger

	webhookRetries    int
	webhookRetryDelay time.Duration
}

func NewSubmissionUsecase(
	apps repository.ApplicationRepository,
	uploader storage.Uploader,
	gateway parser.Gateway,
	notifier webhook.Notifier,
	cache ListCache,
	retries int,
	retryDelay time.Duration,
	logger *log.Logger,
) *Submission {
	return &Submission{
		apps:              apps,
		uploader:          uploader,
		parser:            gateway,
		notifier:          notifier,
		cache:             cache,
		logger:            logger,
		webhookRetries:    retries,
		webhookRetryDelay: retryDelay,
	}
}

// Submit runs the intake pipeline: validate, upload, enrich when the parser is
// reachable, notify the webhook, persist exactly once. Enrichment and
// notification failures never block record creation.
func (u *Submission) Submit(ctx context.Context, in SubmissionInput) (SubmissionResult, error) {
	if err := validateSubmission(in); err != nil {
		return SubmissionResult{}, err
	}

	in.Email = application.NormalizeEmail(in.Email)
	if !application.ValidEmail(in.Email) {
		return SubmissionResult{}, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}

	// The file is buffered once so the upload can be re-attempted without
	// re-reading a consumed stream.
	content, err := io.ReadAll(in.File)
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("%w: reading cv file: %v", ErrInternal, err)
	}
	if in.Size == 0 {
		in.Size = int64(len(content))
	}

	res, err := u.run(ctx, in, content, true)
	if err != nil && errors.Is(err, parser.ErrUnavailable) {
		// Upload failed on the enrichment-unavailable signal: retry once
		// with enrichment disabled instead of failing the submission.
		if u.logger != nil {
			u.logger.Printf("[Submission] Upload hit parser-unavailable signal, retrying without enrichment")
		}
		res, err = u.run(ctx, in, content, false)
	}
	return res, err
}

func (u *Submission) run(ctx context.Context, in SubmissionInput, content []byte, enrich bool) (SubmissionResult, error) {
	url, err := u.uploader.Upload(ctx, bytes.NewReader(content), in.FileName, in.ContentType)
	if err != nil {
		if errors.Is(err, parser.ErrUnavailable) {
			return SubmissionResult{}, err
		}
		return SubmissionResult{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	app := application.Application{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(in.Name),
		Email: in.Email,
		Phone: strings.TrimSpace(in.Phone),
		CV: application.CV{
			FileName:    in.FileName,
			ContentType: in.ContentType,
			Size:        in.Size,
			URL:         url,
		},
		Status: application.StatusPending,
	}

	var enrichment *parser.Result
	if enrich && u.parser != nil {
		enrichment = u.parser.Parse(ctx, url)
		if enrichment == nil && u.logger != nil {
			u.logger.Printf("[Submission] Enrichment skipped email=%s", in.Email)
		}
	}

	if enrichment != nil {
		app.CV.Analysis = enrichment.Raw

		raw := enrichment.Data
		if len(raw) == 0 {
			raw = enrichment.Raw
		}

		data, decodeErr := webhook.DecodeExtraction(raw)
		if decodeErr != nil {
			// Structural failure: keep the raw payload and still notify.
			if u.logger != nil {
				u.logger.Printf("[Submission] Extraction projection failed, keeping raw payload: %v", decodeErr)
			}
			app.ParsedResume = &application.ParsedResume{RawData: raw}
			data = webhook.ExtractionData{}
		} else {
			app.ParsedResume = projectResume(data, raw)
		}

		data.CVURL = url
		result := u.notifier.NotifyWithRetry(ctx, data, in.Email, u.webhookRetries, u.webhookRetryDelay)
		app.WebhookSent = result.Success
		app.WebhookResponse = marshalWebhookResult(result)
	}

	if err := u.apps.Create(ctx, app); err != nil {
		return SubmissionResult{}, fmt.Errorf("%w: persisting application: %v", ErrInternal, err)
	}

	if u.cache != nil {
		_ = u.cache.DeleteByPattern(ctx, applicationListCachePattern)
	}

	if u.logger != nil {
		u.logger.Printf("[Submission] Accepted id=%s email=%s webhook_sent=%t", app.ID, app.Email, app.WebhookSent)
	}
	return SubmissionResult{ID: app.ID, WebhookSent: app.WebhookSent}, nil
}

func validateSubmission(in SubmissionInput) error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(in.Phone) == "" {
		missing = append(missing, "phone")
	}
	if in.File == nil || strings.TrimSpace(in.FileName) == "" {
		missing = append(missing, "cv")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

func projectResume(data webhook.ExtractionData, raw json.RawMessage) *application.ParsedResume {
	p := &application.ParsedResume{
		FullName:   data.FullName,
		Email:      data.Email,
		Github:     data.Github,
		Linkedin:   data.Linkedin,
		Employment: data.Employment,
		Education:  data.Education,
		RawData:    raw,
	}

	// Skill lists tolerate malformed shapes; a list that does not decode is
	// simply dropped from the projection, never an error.
	var technical []string
	if len(data.TechnicalSkills) > 0 && json.Unmarshal(data.TechnicalSkills, &technical) == nil {
		p.TechnicalSkills = technical
	}
	var soft []string
	if len(data.SoftSkills) > 0 && json.Unmarshal(data.SoftSkills, &soft) == nil {
		p.SoftSkills = soft
	}

	return p
}

func marshalWebhookResult(res webhook.Result) json.RawMessage {
	b, err := json.Marshal(res)
	if err != nil {
		return nil
	}
	return b
}
