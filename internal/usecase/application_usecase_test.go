package usecase

import (
	"context"
	"errors"
	"testing"

	"cv-intake/internal/domain/application"
	"cv-intake/internal/repository"

	"github.com/google/uuid"
)

func TestGetApplication_MapsNotFound(t *testing.T) {
	apps := &mockApps{getErr: repository.ErrApplicationNotFound}
	uc := NewApplicationUsecase(apps, nil, nil)

	_, err := uc.GetApplication(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		stored  application.Status
		wantErr error
	}{
		{name: "valid status", status: "reviewed", stored: application.StatusReviewed},
		{name: "trims whitespace", status: " hired ", stored: application.StatusHired},
		{name: "unknown status", status: "archived", wantErr: ErrInvalidInput},
		{name: "empty status", status: "", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := &mockApps{}
			c := newMockCache()
			uc := NewApplicationUsecase(apps, c, nil)

			err := uc.UpdateStatus(context.Background(), uuid.New(), tt.status)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(apps.statusUpdates) != 0 {
					t.Fatalf("store must not be touched on invalid status")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(apps.statusUpdates) != 1 || apps.statusUpdates[0] != tt.stored {
				t.Fatalf("expected stored status %s, got %v", tt.stored, apps.statusUpdates)
			}
			if len(c.deletes) != 1 {
				t.Fatalf("status change must invalidate the list cache")
			}
		})
	}
}

func TestUpdateStatus_MapsNotFound(t *testing.T) {
	apps := &mockApps{updateErr: repository.ErrApplicationNotFound}
	uc := NewApplicationUsecase(apps, nil, nil)

	if err := uc.UpdateStatus(context.Background(), uuid.New(), "hired"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateNotes(t *testing.T) {
	apps := &mockApps{}
	uc := NewApplicationUsecase(apps, nil, nil)

	if err := uc.UpdateNotes(context.Background(), uuid.New(), "strong Go background"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(apps.notesUpdates) != 1 || apps.notesUpdates[0] != "strong Go background" {
		t.Fatalf("notes not forwarded: %v", apps.notesUpdates)
	}
}
