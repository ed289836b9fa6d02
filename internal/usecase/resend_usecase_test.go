package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cv-intake/internal/domain/application"
	"cv-intake/internal/infrastructure/webhook"
	"cv-intake/internal/repository"

	"github.com/google/uuid"
)

func storedApplication() application.Application {
	return application.Application{
		ID:    uuid.New(),
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "1234567890",
		CV: application.CV{
			FileName: "resume.pdf",
			URL:      "https://b/cv/1-resume.pdf",
		},
		Status: application.StatusPending,
	}
}

func TestResendWebhook_NotFound(t *testing.T) {
	apps := &mockApps{getErr: repository.ErrApplicationNotFound}
	uc := NewResendUsecase(apps, &mockNotifier{}, nil, nil)

	_, err := uc.ResendWebhook(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResendWebhook_RebuildsFromRawPayload(t *testing.T) {
	app := storedApplication()
	app.ParsedResume = &application.ParsedResume{
		RawData: []byte(`{"fullName":"Jane Doe","email":"jane@example.com","github":"https://github.com/jane"}`),
	}

	apps := &mockApps{getApp: app}
	nt := &mockNotifier{result: webhook.Result{Success: true, Status: 200}}
	uc := NewResendUsecase(apps, nt, nil, nil)

	res, err := uc.ResendWebhook(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected notifier result forwarded")
	}
	if nt.notifyCalls != 1 || nt.retryCalls != 0 {
		t.Fatalf("resend must deliver exactly once, got notify=%d retry=%d", nt.notifyCalls, nt.retryCalls)
	}
	if nt.lastData.Github != "https://github.com/jane" {
		t.Fatalf("raw payload fields not rebuilt: %+v", nt.lastData)
	}
	if nt.lastData.CVURL != app.CV.URL {
		t.Fatalf("cv url must be re-attached, got %q", nt.lastData.CVURL)
	}
}

func TestResendWebhook_FallsBackToStructuredFields(t *testing.T) {
	app := storedApplication()
	app.ParsedResume = &application.ParsedResume{
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		TechnicalSkills: []string{"Go", "SQL"},
		RawData:         []byte(`definitely not json`),
	}

	apps := &mockApps{getApp: app}
	nt := &mockNotifier{result: webhook.Result{Success: true}}
	uc := NewResendUsecase(apps, nt, nil, nil)

	if _, err := uc.ResendWebhook(context.Background(), app.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if nt.lastData.FullName != "Jane Doe" {
		t.Fatalf("structured fields not used: %+v", nt.lastData)
	}

	var skills []string
	if err := json.Unmarshal(nt.lastData.TechnicalSkills, &skills); err != nil || len(skills) != 2 {
		t.Fatalf("skill list not re-encoded: %s", nt.lastData.TechnicalSkills)
	}
}

func TestResendWebhook_MinimalPayloadWithoutEnrichment(t *testing.T) {
	app := storedApplication()

	apps := &mockApps{getApp: app}
	nt := &mockNotifier{result: webhook.Result{Success: false, Error: "boom"}}
	uc := NewResendUsecase(apps, nt, nil, nil)

	res, err := uc.ResendWebhook(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("delivery failure is a result, not an error: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failed result forwarded")
	}

	want := webhook.ExtractionData{
		FullName: app.Name,
		Email:    app.Email,
		CVURL:    app.CV.URL,
	}
	got := nt.lastData
	if got.FullName != want.FullName || got.Email != want.Email || got.CVURL != want.CVURL {
		t.Fatalf("minimal payload mismatch: %+v", got)
	}
	if got.Github != "" || got.Employment != nil || got.TechnicalSkills != nil {
		t.Fatalf("no enrichment fields expected: %+v", got)
	}
}

func TestResendWebhook_RecordsOutcome(t *testing.T) {
	app := storedApplication()

	apps := &mockApps{getApp: app}
	nt := &mockNotifier{result: webhook.Result{Success: true, Status: 200}}
	c := newMockCache()
	uc := NewResendUsecase(apps, nt, c, nil)

	if _, err := uc.ResendWebhook(context.Background(), app.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(apps.webhookUpdates) != 1 {
		t.Fatalf("expected one recorded outcome, got %d", len(apps.webhookUpdates))
	}
	up := apps.webhookUpdates[0]
	if up.ID != app.ID || !up.Sent {
		t.Fatalf("unexpected outcome record: %+v", up)
	}

	var recorded webhook.Result
	if err := json.Unmarshal(up.Response, &recorded); err != nil || recorded.Status != 200 {
		t.Fatalf("recorded response must round-trip: %s", up.Response)
	}
	if len(c.deletes) != 1 {
		t.Fatalf("expected list cache invalidation")
	}
}

func TestResendWebhook_RecordUpdateFailure(t *testing.T) {
	apps := &mockApps{getApp: storedApplication(), updateErr: errors.New("write conflict")}
	uc := NewResendUsecase(apps, &mockNotifier{result: webhook.Result{Success: true}}, nil, nil)

	_, err := uc.ResendWebhook(context.Background(), uuid.New())
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
