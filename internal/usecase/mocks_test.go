package usecase

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"cv-intake/internal/domain/application"
	"cv-intake/internal/infrastructure/parser"
	"cv-intake/internal/infrastructure/webhook"
	"cv-intake/internal/repository"

	"github.com/google/uuid"
)

type mockApps struct {
	created []application.Application

	getApp application.Application
	getErr error

	createErr error

	webhookUpdates []webhookUpdate
	statusUpdates  []application.Status
	notesUpdates   []string
	updateErr      error

	listItems []application.Application
	listTotal int
	listErr   error
	lastList  repository.ApplicationListFilter
}

type webhookUpdate struct {
	ID       uuid.UUID
	Sent     bool
	Response json.RawMessage
}

func (m *mockApps) Create(_ context.Context, app application.Application) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, app)
	return nil
}

func (m *mockApps) GetByID(_ context.Context, _ uuid.UUID) (application.Application, error) {
	return m.getApp, m.getErr
}

func (m *mockApps) List(_ context.Context, f repository.ApplicationListFilter) ([]application.Application, int, error) {
	m.lastList = f
	return m.listItems, m.listTotal, m.listErr
}

func (m *mockApps) UpdateWebhookResult(_ context.Context, id uuid.UUID, sent bool, response json.RawMessage) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.webhookUpdates = append(m.webhookUpdates, webhookUpdate{ID: id, Sent: sent, Response: response})
	return nil
}

func (m *mockApps) UpdateStatus(_ context.Context, _ uuid.UUID, status application.Status) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *mockApps) UpdateNotes(_ context.Context, _ uuid.UUID, notes string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.notesUpdates = append(m.notesUpdates, notes)
	return nil
}

type mockUploader struct {
	url   string
	errs  []error
	calls int
}

func (m *mockUploader) Upload(_ context.Context, content io.Reader, _, _ string) (string, error) {
	m.calls++
	_, _ = io.Copy(io.Discard, content)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return m.url, nil
}

type mockGateway struct {
	res   *parser.Result
	calls int
}

func (m *mockGateway) CheckAvailable(context.Context) bool { return m.res != nil }

func (m *mockGateway) Parse(_ context.Context, _ string) *parser.Result {
	m.calls++
	return m.res
}

type mockNotifier struct {
	result webhook.Result

	notifyCalls int
	retryCalls  int

	lastData    webhook.ExtractionData
	lastEmail   string
	lastRetries int
}

func (m *mockNotifier) Notify(_ context.Context, data webhook.ExtractionData, email string) webhook.Result {
	m.notifyCalls++
	m.lastData = data
	m.lastEmail = email
	return m.result
}

func (m *mockNotifier) NotifyWithRetry(_ context.Context, data webhook.ExtractionData, email string, retries int, _ time.Duration) webhook.Result {
	m.retryCalls++
	m.lastData = data
	m.lastEmail = email
	m.lastRetries = retries
	return m.result
}

type mockCache struct {
	store    map[string][]byte
	deletes  []string
	getCalls int
	setCalls int
}

func newMockCache() *mockCache {
	return &mockCache{store: map[string][]byte{}}
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.getCalls++
	b, ok := m.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.setCalls++
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = b
	return nil
}

func (m *mockCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	m.store = map[string][]byte{}
	return nil
}
