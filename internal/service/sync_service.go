package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/tasks/v1"

	"github.com/vipul43/classmate-sync/internal/models"
	"github.com/vipul43/classmate-sync/internal/normalize"
	"github.com/vipul43/classmate-sync/internal/repository"
)

const (
	DefaultCalendarID = "primary"
	DefaultTaskListID = "@default"
)

// AccessTokenProvider returns an access token usable right now.
type AccessTokenProvider interface {
	GetValidAccessToken(ctx context.Context, userID string) (string, error)
}

// ProviderClient interface for Google Calendar and Tasks API operations
type ProviderClient interface {
	ListCalendars(ctx context.Context, accessToken string) ([]*calendar.CalendarListEntry, error)
	ListEvents(ctx context.Context, accessToken, calendarID string, query EventQuery) ([]*calendar.Event, error)
	InsertEvent(ctx context.Context, accessToken, calendarID string, event *calendar.Event) (*calendar.Event, error)
	PatchEvent(ctx context.Context, accessToken, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error

	ListTaskLists(ctx context.Context, accessToken string) ([]*tasks.TaskList, error)
	ListTasks(ctx context.Context, accessToken, listID string, showCompleted bool) ([]*tasks.Task, error)
	InsertTask(ctx context.Context, accessToken, listID string, task *tasks.Task) (*tasks.Task, error)
	PatchTask(ctx context.Context, accessToken, listID, taskID string, task *tasks.Task) (*tasks.Task, error)
	DeleteTask(ctx context.Context, accessToken, listID, taskID string) error
}

// CalendarSelectionStore persists the user's calendar mirror.
type CalendarSelectionStore interface {
	SyncFromProvider(ctx context.Context, userID string, calendars []models.CalendarSelection) error
	ListByUser(ctx context.Context, userID string) ([]models.CalendarSelection, error)
	SetSelected(ctx context.Context, userID, gcalID string, selected bool) error
}

// EventQuery narrows an event listing. Times are RFC 3339.
type EventQuery struct {
	TimeMin string
	TimeMax string
	Query   string
}

// SyncService mediates every calendar and task call made on a user's behalf.
type SyncService struct {
	tokens     AccessTokenProvider
	provider   ProviderClient
	selections CalendarSelectionStore
	logger     *zap.Logger
}

func NewSyncService(tokens AccessTokenProvider, provider ProviderClient, selections CalendarSelectionStore, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		tokens:     tokens,
		provider:   provider,
		selections: selections,
		logger:     logger,
	}
}

// ListCalendars fetches the provider's calendar list, mirrors it and returns
// the mirrored rows with their selection state.
func (s *SyncService) ListCalendars(ctx context.Context, userID string) ([]models.CalendarSelection, error) {
	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.provider.ListCalendars(ctx, token)
	if err != nil {
		return nil, providerError(err)
	}

	mirrored := make([]models.CalendarSelection, 0, len(entries))
	for _, entry := range entries {
		if entry == nil || entry.Deleted {
			continue
		}
		row := models.CalendarSelection{
			GcalID:    entry.Id,
			Summary:   entry.Summary,
			IsPrimary: entry.Primary,
		}
		if entry.SummaryOverride != "" {
			row.Summary = entry.SummaryOverride
		}
		if entry.BackgroundColor != "" {
			color := entry.BackgroundColor
			row.BackgroundColor = &color
		}
		mirrored = append(mirrored, row)
	}

	if err := s.selections.SyncFromProvider(ctx, userID, mirrored); err != nil {
		return nil, newError(KindInternal, "failed to store calendar list", err)
	}

	calendars, err := s.selections.ListByUser(ctx, userID)
	if err != nil {
		return nil, newError(KindInternal, "failed to load calendar list", err)
	}
	return calendars, nil
}

// SetCalendarSelected toggles whether a calendar feeds the schedule view.
// It never calls the provider.
func (s *SyncService) SetCalendarSelected(ctx context.Context, userID, gcalID string, selected bool) error {
	if strings.TrimSpace(gcalID) == "" {
		return BadRequest("Missing gcal_id")
	}

	if err := s.selections.SetSelected(ctx, userID, gcalID, selected); err != nil {
		if errors.Is(err, repository.ErrCalendarNotFound) {
			return BadRequest("Unknown gcal_id")
		}
		return newError(KindInternal, "failed to update calendar selection", err)
	}
	return nil
}

// ListEvents lists expanded events of one calendar.
func (s *SyncService) ListEvents(ctx context.Context, userID, calendarID string, query EventQuery) ([]models.Event, error) {
	calendarID = defaultString(calendarID, DefaultCalendarID)

	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.provider.ListEvents(ctx, token, calendarID, query)
	if err != nil {
		return nil, providerError(err)
	}
	return normalize.Events(events), nil
}

// CreateEvent creates an event and returns the provider's normalized copy.
func (s *SyncService) CreateEvent(ctx context.Context, userID, calendarID string, event models.Event) (models.Event, error) {
	calendarID = defaultString(calendarID, DefaultCalendarID)
	if err := normalize.ValidateEvent(event); err != nil {
		return models.Event{}, BadRequest(err.Error())
	}
	event.ID = ""

	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return models.Event{}, err
	}

	created, err := s.provider.InsertEvent(ctx, token, calendarID, normalize.ProviderEvent(event))
	if err != nil {
		return models.Event{}, providerError(err)
	}

	s.logger.Info("event created", zap.String("user_id", userID), zap.String("event_id", created.Id))
	return normalize.Event(created), nil
}

// UpdateEvent patches an event; only fields present on event are sent.
func (s *SyncService) UpdateEvent(ctx context.Context, userID, calendarID, eventID string, event models.Event) (models.Event, error) {
	calendarID = defaultString(calendarID, DefaultCalendarID)
	if strings.TrimSpace(eventID) == "" {
		return models.Event{}, BadRequest("Missing gcal_event_id")
	}
	if err := normalize.ValidateEvent(event); err != nil {
		return models.Event{}, BadRequest(err.Error())
	}
	event.ID = ""

	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return models.Event{}, err
	}

	updated, err := s.provider.PatchEvent(ctx, token, calendarID, eventID, normalize.ProviderEvent(event))
	if err != nil {
		return models.Event{}, providerError(err)
	}
	return normalize.Event(updated), nil
}

// DeleteEvent deletes an event. An event the provider no longer has counts
// as deleted.
func (s *SyncService) DeleteEvent(ctx context.Context, userID, calendarID, eventID string) error {
	calendarID = defaultString(calendarID, DefaultCalendarID)
	if strings.TrimSpace(eventID) == "" {
		return BadRequest("Missing gcal_event_id")
	}

	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.provider.DeleteEvent(ctx, token, calendarID, eventID); err != nil {
		if isGone(err) {
			s.logger.Info("event already deleted", zap.String("user_id", userID), zap.String("event_id", eventID))
			return nil
		}
		return providerError(err)
	}
	return nil
}

// ListTaskLists lists the user's task lists.
func (s *SyncService) ListTaskLists(ctx context.Context, userID string) ([]models.TaskList, error) {
	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	lists, err := s.provider.ListTaskLists(ctx, token)
	if err != nil {
		return nil, providerError(err)
	}
	return normalize.TaskLists(lists), nil
}

// ListTasks lists tasks of one list.
func (s *SyncService) ListTasks(ctx context.Context, userID, listID string, showCompleted bool) ([]models.Task, error) {
	listID = defaultString(listID, DefaultTaskListID)

	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.provider.ListTasks(ctx, token, listID, showCompleted)
	if err != nil {
		return nil, providerError(err)
	}
	return normalize.Tasks(items), nil
}

// CreateTask creates a task.
func (s *SyncService) CreateTask(ctx context.Context, userID, listID string, task models.Task) (models.Task, error) {
	listID = defaultString(listID, DefaultTaskListID)
	if err := normalize.ValidateTask(task); err != nil {
		return models.Task{}, BadRequest(err.Error())
	}
	task.ID = ""

	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return models.Task{}, err
	}

	created, err := s.provider.InsertTask(ctx, token, listID, normalize.ProviderTask(task))
	if err != nil {
		return models.Task{}, providerError(err)
	}
	return normalize.Task(created), nil
}

// UpdateTask patches a task.
func (s *SyncService) UpdateTask(ctx context.Context, userID, listID, taskID string, task models.Task) (models.Task, error) {
	listID = defaultString(listID, DefaultTaskListID)
	if strings.TrimSpace(taskID) == "" {
		return models.Task{}, BadRequest("Missing task_id")
	}
	if err := normalize.ValidateTask(task); err != nil {
		return models.Task{}, BadRequest(err.Error())
	}
	task.ID = ""

	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return models.Task{}, err
	}

	updated, err := s.provider.PatchTask(ctx, token, listID, taskID, normalize.ProviderTask(task))
	if err != nil {
		return models.Task{}, providerError(err)
	}
	return normalize.Task(updated), nil
}

// DeleteTask deletes a task; a task the provider no longer has counts as deleted.
func (s *SyncService) DeleteTask(ctx context.Context, userID, listID, taskID string) error {
	listID = defaultString(listID, DefaultTaskListID)
	if strings.TrimSpace(taskID) == "" {
		return BadRequest("Missing task_id")
	}

	token, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.provider.DeleteTask(ctx, token, listID, taskID); err != nil {
		if isGone(err) {
			return nil
		}
		return providerError(err)
	}
	return nil
}

// providerError wraps a failed provider call, passing the provider's own
// message through.
func providerError(err error) *Error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return newError(KindProviderError, apiErr.Message, err)
	}
	return newError(KindProviderError, err.Error(), err)
}

// isGone reports whether the provider answered 404, or 410 which Calendar
// uses for events that were already deleted.
func isGone(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
}

func defaultString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
