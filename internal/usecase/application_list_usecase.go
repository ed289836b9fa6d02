package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"cv-intake/internal/domain/application"
	"cv-intake/internal/repository"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100

	listCacheTTL = 60 * time.Second
)

type ListParams struct {
	Page   int
	Limit  int
	Status string
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type ListResult struct {
	Items      []application.Application
	Pagination Pagination
}

type ApplicationListUsecase interface {
	ListApplications(ctx context.Context, params ListParams) (ListResult, error)
}

type ApplicationList struct {
	apps   repository.ApplicationRepository
	cache  ListCache
	logger *log.Logger
}

func NewApplicationListUsecase(apps repository.ApplicationRepository, cache ListCache, logger *log.Logger) *ApplicationList {
	return &ApplicationList{apps: apps, cache: cache, logger: logger}
}

// ListApplications returns one page of records, newest first, with the total
// count and computed page count. Identical parameters against an unchanged
// store return identical pages.
func (u *ApplicationList) ListApplications(ctx context.Context, params ListParams) (ListResult, error) {
	limit := params.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit < 0 || limit > maxListLimit {
		return ListResult{}, fmt.Errorf("%w: limit out of range", ErrInvalidInput)
	}

	page := params.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return ListResult{}, fmt.Errorf("%w: negative page", ErrInvalidInput)
	}

	if params.Status != "" && !application.Status(params.Status).Valid() {
		return ListResult{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, params.Status)
	}

	cacheKey := applicationListCacheKey(params.Status, page, limit)
	if u.cache != nil {
		var cached ListResult
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			if u.logger != nil {
				u.logger.Printf("[Applications] Cache HIT: %s", cacheKey)
			}
			return cached, nil
		}
	}

	items, total, err := u.apps.List(ctx, repository.ApplicationListFilter{
		Status: params.Status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}

	out := ListResult{
		Items: items,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: pages,
		},
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, out, listCacheTTL)
	}

	return out, nil
}
