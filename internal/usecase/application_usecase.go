package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cv-intake/internal/domain/application"
	"cv-intake/internal/repository"

	"github.com/google/uuid"
)

type ApplicationUsecase interface {
	GetApplication(ctx context.Context, id uuid.UUID) (application.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
}

type Applications struct {
	apps   repository.ApplicationRepository
	cache  ListCache
	logger *log.Logger
}

func NewApplicationUsecase(apps repository.ApplicationRepository, cache ListCache, logger *log.Logger) *Applications {
	return &Applications{apps: apps, cache: cache, logger: logger}
}

func (u *Applications) GetApplication(ctx context.Context, id uuid.UUID) (application.Application, error) {
	app, err := u.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return app, nil
}

func (u *Applications) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	st := application.Status(strings.TrimSpace(status))
	if !st.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	if err := u.apps.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if u.cache != nil {
		_ = u.cache.DeleteByPattern(ctx, applicationListCachePattern)
	}
	if u.logger != nil {
		u.logger.Printf("[Applications] Status updated id=%s status=%s", id, st)
	}
	return nil
}

func (u *Applications) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	if err := u.apps.UpdateNotes(ctx, id, notes); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}
