package usecase

import (
	"context"
	"errors"
	"testing"

	"cv-intake/internal/domain/application"
)

func sampleApplications(n int) []application.Application {
	items := make([]application.Application, n)
	for i := range items {
		items[i] = application.Application{Name: "Applicant", Status: application.StatusPending}
	}
	return items
}

func TestListApplications_ParamValidation(t *testing.T) {
	tests := []struct {
		name   string
		params ListParams
	}{
		{name: "limit above maximum", params: ListParams{Limit: 101}},
		{name: "negative limit", params: ListParams{Limit: -1}},
		{name: "negative page", params: ListParams{Page: -2}},
		{name: "unknown status", params: ListParams{Status: "archived"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewApplicationListUsecase(&mockApps{}, nil, nil)
			_, err := uc.ListApplications(context.Background(), tt.params)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestListApplications_Defaults(t *testing.T) {
	apps := &mockApps{listItems: sampleApplications(3), listTotal: 3}
	uc := NewApplicationListUsecase(apps, nil, nil)

	res, err := uc.ListApplications(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Pagination.Page != 1 || res.Pagination.Limit != 10 {
		t.Fatalf("expected defaults page=1 limit=10, got %+v", res.Pagination)
	}
	if apps.lastList.Limit != 10 || apps.lastList.Offset != 0 {
		t.Fatalf("unexpected filter %+v", apps.lastList)
	}
}

func TestListApplications_PageMath(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		page  int
		pages int
		off   int
	}{
		{name: "partial last page", total: 25, limit: 10, page: 3, pages: 3, off: 20},
		{name: "exact fit", total: 20, limit: 10, page: 2, pages: 2, off: 10},
		{name: "empty store", total: 0, limit: 10, page: 1, pages: 0, off: 0},
		{name: "single oversized page", total: 7, limit: 50, page: 1, pages: 1, off: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := &mockApps{listTotal: tt.total}
			uc := NewApplicationListUsecase(apps, nil, nil)

			res, err := uc.ListApplications(context.Background(), ListParams{Page: tt.page, Limit: tt.limit})
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if res.Pagination.Pages != tt.pages {
				t.Fatalf("expected %d pages, got %d", tt.pages, res.Pagination.Pages)
			}
			if res.Pagination.Total != tt.total {
				t.Fatalf("expected total %d, got %d", tt.total, res.Pagination.Total)
			}
			if apps.lastList.Offset != tt.off {
				t.Fatalf("expected offset %d, got %d", tt.off, apps.lastList.Offset)
			}
		})
	}
}

func TestListApplications_StatusFilterForwarded(t *testing.T) {
	apps := &mockApps{listItems: sampleApplications(1), listTotal: 1}
	uc := NewApplicationListUsecase(apps, nil, nil)

	_, err := uc.ListApplications(context.Background(), ListParams{Status: "reviewed"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if apps.lastList.Status != "reviewed" {
		t.Fatalf("status filter not forwarded: %+v", apps.lastList)
	}
}

func TestListApplications_CacheRoundTrip(t *testing.T) {
	apps := &mockApps{listItems: sampleApplications(2), listTotal: 2}
	c := newMockCache()
	uc := NewApplicationListUsecase(apps, c, nil)

	params := ListParams{Page: 1, Limit: 10, Status: "pending"}

	first, err := uc.ListApplications(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.setCalls != 1 {
		t.Fatalf("expected the page to be cached")
	}

	// Second call must be served from the cache without touching the store.
	apps.listErr = errors.New("store must not be hit")
	second, err := uc.ListApplications(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if second.Pagination != first.Pagination {
		t.Fatalf("cached pagination mismatch: %+v vs %+v", second.Pagination, first.Pagination)
	}
	if len(second.Items) != len(first.Items) {
		t.Fatalf("cached items mismatch")
	}
}

func TestListApplications_StoreFailure(t *testing.T) {
	apps := &mockApps{listErr: errors.New("timeout")}
	uc := NewApplicationListUsecase(apps, nil, nil)

	_, err := uc.ListApplications(context.Background(), ListParams{})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
