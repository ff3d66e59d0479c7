package service

import (
	"context"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/tasks/v1"

	"github.com/vipul43/classmate-sync/internal/models"
)

type mockCredentialStore struct {
	getByUserFunc    func(ctx context.Context, userID, provider string) (*models.Credential, error)
	updateTokensFunc func(ctx context.Context, credentialID, accessToken, refreshToken string, expiresAt, refreshedAt, prevUpdatedAt time.Time) (bool, error)
	upsertFunc       func(ctx context.Context, credential *models.Credential) error
	deleteFunc       func(ctx context.Context, userID, provider string) error
}

func (m *mockCredentialStore) GetByUser(ctx context.Context, userID, provider string) (*models.Credential, error) {
	if m.getByUserFunc != nil {
		return m.getByUserFunc(ctx, userID, provider)
	}
	return nil, nil
}

func (m *mockCredentialStore) UpdateTokens(ctx context.Context, credentialID, accessToken, refreshToken string, expiresAt, refreshedAt, prevUpdatedAt time.Time) (bool, error) {
	if m.updateTokensFunc != nil {
		return m.updateTokensFunc(ctx, credentialID, accessToken, refreshToken, expiresAt, refreshedAt, prevUpdatedAt)
	}
	return true, nil
}

func (m *mockCredentialStore) Upsert(ctx context.Context, credential *models.Credential) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, credential)
	}
	return nil
}

func (m *mockCredentialStore) Delete(ctx context.Context, userID, provider string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, provider)
	}
	return nil
}

type mockRefreshClient struct {
	calls       int
	refreshFunc func(ctx context.Context, refreshToken string) (*TokenRefreshResult, error)
}

func (m *mockRefreshClient) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenRefreshResult, error) {
	m.calls++
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return nil, nil
}

type mockTokenProvider struct {
	calls int
	token string
	err   error
}

func (m *mockTokenProvider) GetValidAccessToken(ctx context.Context, userID string) (string, error) {
	m.calls++
	return m.token, m.err
}

type mockProviderClient struct {
	calls int

	listCalendarsFunc func(ctx context.Context, accessToken string) ([]*calendar.CalendarListEntry, error)
	listEventsFunc    func(ctx context.Context, accessToken, calendarID string, query EventQuery) ([]*calendar.Event, error)
	insertEventFunc   func(ctx context.Context, accessToken, calendarID string, event *calendar.Event) (*calendar.Event, error)
	patchEventFunc    func(ctx context.Context, accessToken, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error)
	deleteEventFunc   func(ctx context.Context, accessToken, calendarID, eventID string) error

	listTaskListsFunc func(ctx context.Context, accessToken string) ([]*tasks.TaskList, error)
	listTasksFunc     func(ctx context.Context, accessToken, listID string, showCompleted bool) ([]*tasks.Task, error)
	insertTaskFunc    func(ctx context.Context, accessToken, listID string, task *tasks.Task) (*tasks.Task, error)
	patchTaskFunc     func(ctx context.Context, accessToken, listID, taskID string, task *tasks.Task) (*tasks.Task, error)
	deleteTaskFunc    func(ctx context.Context, accessToken, listID, taskID string) error
}

func (m *mockProviderClient) ListCalendars(ctx context.Context, accessToken string) ([]*calendar.CalendarListEntry, error) {
	m.calls++
	if m.listCalendarsFunc != nil {
		return m.listCalendarsFunc(ctx, accessToken)
	}
	return nil, nil
}

func (m *mockProviderClient) ListEvents(ctx context.Context, accessToken, calendarID string, query EventQuery) ([]*calendar.Event, error) {
	m.calls++
	if m.listEventsFunc != nil {
		return m.listEventsFunc(ctx, accessToken, calendarID, query)
	}
	return nil, nil
}

func (m *mockProviderClient) InsertEvent(ctx context.Context, accessToken, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	m.calls++
	if m.insertEventFunc != nil {
		return m.insertEventFunc(ctx, accessToken, calendarID, event)
	}
	return event, nil
}

func (m *mockProviderClient) PatchEvent(ctx context.Context, accessToken, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error) {
	m.calls++
	if m.patchEventFunc != nil {
		return m.patchEventFunc(ctx, accessToken, calendarID, eventID, event)
	}
	return event, nil
}

func (m *mockProviderClient) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	m.calls++
	if m.deleteEventFunc != nil {
		return m.deleteEventFunc(ctx, accessToken, calendarID, eventID)
	}
	return nil
}

func (m *mockProviderClient) ListTaskLists(ctx context.Context, accessToken string) ([]*tasks.TaskList, error) {
	m.calls++
	if m.listTaskListsFunc != nil {
		return m.listTaskListsFunc(ctx, accessToken)
	}
	return nil, nil
}

func (m *mockProviderClient) ListTasks(ctx context.Context, accessToken, listID string, showCompleted bool) ([]*tasks.Task, error) {
	m.calls++
	if m.listTasksFunc != nil {
		return m.listTasksFunc(ctx, accessToken, listID, showCompleted)
	}
	return nil, nil
}

func (m *mockProviderClient) InsertTask(ctx context.Context, accessToken, listID string, task *tasks.Task) (*tasks.Task, error) {
	m.calls++
	if m.insertTaskFunc != nil {
		return m.insertTaskFunc(ctx, accessToken, listID, task)
	}
	return task, nil
}

func (m *mockProviderClient) PatchTask(ctx context.Context, accessToken, listID, taskID string, task *tasks.Task) (*tasks.Task, error) {
	m.calls++
	if m.patchTaskFunc != nil {
		return m.patchTaskFunc(ctx, accessToken, listID, taskID, task)
	}
	return task, nil
}

func (m *mockProviderClient) DeleteTask(ctx context.Context, accessToken, listID, taskID string) error {
	m.calls++
	if m.deleteTaskFunc != nil {
		return m.deleteTaskFunc(ctx, accessToken, listID, taskID)
	}
	return nil
}

type mockSelectionStore struct {
	calls   int
	synced  []models.CalendarSelection
	rows    []models.CalendarSelection
	setFunc func(ctx context.Context, userID, gcalID string, selected bool) error
}

func (m *mockSelectionStore) SyncFromProvider(ctx context.Context, userID string, calendars []models.CalendarSelection) error {
	m.calls++
	m.synced = calendars
	return nil
}

func (m *mockSelectionStore) ListByUser(ctx context.Context, userID string) ([]models.CalendarSelection, error) {
	m.calls++
	return m.rows, nil
}

func (m *mockSelectionStore) SetSelected(ctx context.Context, userID, gcalID string, selected bool) error {
	m.calls++
	if m.setFunc != nil {
		return m.setFunc(ctx, userID, gcalID, selected)
	}
	return nil
}

type mockOAuthFlow struct {
	authURLFunc  func(state string) string
	exchangeFunc func(ctx context.Context, code string) (*TokenRefreshResult, error)
}

func (m *mockOAuthFlow) AuthCodeURL(state string) string {
	if m.authURLFunc != nil {
		return m.authURLFunc(state)
	}
	return "https://accounts.example.com/auth?state=" + state
}

func (m *mockOAuthFlow) Exchange(ctx context.Context, code string) (*TokenRefreshResult, error) {
	if m.exchangeFunc != nil {
		return m.exchangeFunc(ctx, code)
	}
	return nil, nil
}

type memoryStateStore struct {
	states map[string]string
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: make(map[string]string)}
}

func (m *memoryStateStore) SaveState(ctx context.Context, key, userID string, ttl time.Duration) error {
	m.states[key] = userID
	return nil
}

func (m *memoryStateStore) ConsumeState(ctx context.Context, key string) (string, error) {
	userID := m.states[key]
	delete(m.states, key)
	return userID, nil
}
