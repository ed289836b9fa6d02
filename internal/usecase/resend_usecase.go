package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"cv-intake/internal/domain/application"
	"cv-intake/internal/infrastructure/webhook"
	"cv-intake/internal/repository"

	"github.com/google/uuid"
)

type ResendUsecase interface {
	ResendWebhook(ctx context.Context, id uuid.UUID) (webhook.Result, error)
}

type Resend struct {
	apps     repository.ApplicationRepository
	notifier webhook.Notifier
	cache    ListCache
	logger   *log.Logger
}

func NewResendUsecase(apps repository.ApplicationRepository, notifier webhook.Notifier, cache ListCache, logger *log.Logger) *Resend {
	return &Resend{apps: apps, notifier: notifier, cache: cache, logger: logger}
}

// ResendWebhook re-derives the notification payload from the stored record and
// delivers it once, overwriting the record's delivery outcome. The record is
// only touched after the notifier returns.
func (u *Resend) ResendWebhook(ctx context.Context, id uuid.UUID) (webhook.Result, error) {
	app, err := u.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return webhook.Result{}, ErrNotFound
		}
		return webhook.Result{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	data := rebuildExtraction(app, u.logger)

	result := u.notifier.Notify(ctx, data, app.Email)

	if err := u.apps.UpdateWebhookResult(ctx, id, result.Success, marshalWebhookResult(result)); err != nil {
		return webhook.Result{}, fmt.Errorf("%w: recording webhook outcome: %v", ErrInternal, err)
	}

	if u.cache != nil {
		_ = u.cache.DeleteByPattern(ctx, applicationListCachePattern)
	}
	if u.logger != nil {
		u.logger.Printf("[Resend] Webhook resent id=%s success=%t", id, result.Success)
	}
	return result, nil
}

// rebuildExtraction prefers the stored raw payload, falls back to the
// structured projection, and finally to the bare applicant fields.
func rebuildExtraction(app application.Application, logger *log.Logger) webhook.ExtractionData {
	p := app.ParsedResume

	if p != nil && len(p.RawData) > 0 {
		data, err := webhook.DecodeExtraction(p.RawData)
		if err == nil {
			data.CVURL = app.CV.URL
			return data
		}
		if logger != nil {
			logger.Printf("[Resend] Raw payload unusable, falling back to structured fields: %v", err)
		}
	}

	if !p.Empty() {
		return webhook.ExtractionData{
			FullName:        p.FullName,
			Email:           p.Email,
			Github:          p.Github,
			Linkedin:        p.Linkedin,
			Employment:      p.Employment,
			TechnicalSkills: marshalStrings(p.TechnicalSkills),
			SoftSkills:      marshalStrings(p.SoftSkills),
			Education:       p.Education,
			CVURL:           app.CV.URL,
		}
	}

	return webhook.ExtractionData{
		FullName: app.Name,
		Email:    app.Email,
		CVURL:    app.CV.URL,
	}
}

func marshalStrings(vals []string) json.RawMessage {
	if len(vals) == 0 {
		return nil
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return nil
	}
	return b
}
