package handler_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vipul43/classmate-sync/internal/http/middleware"
	"github.com/vipul43/classmate-sync/internal/models"
	"github.com/vipul43/classmate-sync/internal/service"
)

type fakeCalendarService struct {
	listCalendarsFunc func(ctx context.Context, userID string) ([]models.CalendarSelection, error)
	setSelectedFunc   func(ctx context.Context, userID, gcalID string, selected bool) error
	listEventsFunc    func(ctx context.Context, userID, calendarID string, query service.EventQuery) ([]models.Event, error)
	createEventFunc   func(ctx context.Context, userID, calendarID string, event models.Event) (models.Event, error)
	updateEventFunc   func(ctx context.Context, userID, calendarID, eventID string, event models.Event) (models.Event, error)
	deleteEventFunc   func(ctx context.Context, userID, calendarID, eventID string) error
}

func (f *fakeCalendarService) ListCalendars(ctx context.Context, userID string) ([]models.CalendarSelection, error) {
	return f.listCalendarsFunc(ctx, userID)
}

func (f *fakeCalendarService) SetCalendarSelected(ctx context.Context, userID, gcalID string, selected bool) error {
	return f.setSelectedFunc(ctx, userID, gcalID, selected)
}

func (f *fakeCalendarService) ListEvents(ctx context.Context, userID, calendarID string, query service.EventQuery) ([]models.Event, error) {
	return f.listEventsFunc(ctx, userID, calendarID, query)
}

func (f *fakeCalendarService) CreateEvent(ctx context.Context, userID, calendarID string, event models.Event) (models.Event, error) {
	return f.createEventFunc(ctx, userID, calendarID, event)
}

func (f *fakeCalendarService) UpdateEvent(ctx context.Context, userID, calendarID, eventID string, event models.Event) (models.Event, error) {
	return f.updateEventFunc(ctx, userID, calendarID, eventID, event)
}

func (f *fakeCalendarService) DeleteEvent(ctx context.Context, userID, calendarID, eventID string) error {
	return f.deleteEventFunc(ctx, userID, calendarID, eventID)
}

type fakeTaskService struct {
	listTaskListsFunc func(ctx context.Context, userID string) ([]models.TaskList, error)
	listTasksFunc     func(ctx context.Context, userID, listID string, showCompleted bool) ([]models.Task, error)
	createTaskFunc    func(ctx context.Context, userID, listID string, task models.Task) (models.Task, error)
	updateTaskFunc    func(ctx context.Context, userID, listID, taskID string, task models.Task) (models.Task, error)
	deleteTaskFunc    func(ctx context.Context, userID, listID, taskID string) error
}

func (f *fakeTaskService) ListTaskLists(ctx context.Context, userID string) ([]models.TaskList, error) {
	return f.listTaskListsFunc(ctx, userID)
}

func (f *fakeTaskService) ListTasks(ctx context.Context, userID, listID string, showCompleted bool) ([]models.Task, error) {
	return f.listTasksFunc(ctx, userID, listID, showCompleted)
}

func (f *fakeTaskService) CreateTask(ctx context.Context, userID, listID string, task models.Task) (models.Task, error) {
	return f.createTaskFunc(ctx, userID, listID, task)
}

func (f *fakeTaskService) UpdateTask(ctx context.Context, userID, listID, taskID string, task models.Task) (models.Task, error) {
	return f.updateTaskFunc(ctx, userID, listID, taskID, task)
}

func (f *fakeTaskService) DeleteTask(ctx context.Context, userID, listID, taskID string) error {
	return f.deleteTaskFunc(ctx, userID, listID, taskID)
}

type fakeConnectionService struct {
	startFunc      func(ctx context.Context, userID string) (string, error)
	completeFunc   func(ctx context.Context, state, code string) (string, error)
	statusFunc     func(ctx context.Context, userID string) (service.ConnectionStatus, error)
	disconnectFunc func(ctx context.Context, userID string) error
}

func (f *fakeConnectionService) Start(ctx context.Context, userID string) (string, error) {
	return f.startFunc(ctx, userID)
}

func (f *fakeConnectionService) Complete(ctx context.Context, state, code string) (string, error) {
	return f.completeFunc(ctx, state, code)
}

func (f *fakeConnectionService) Status(ctx context.Context, userID string) (service.ConnectionStatus, error) {
	return f.statusFunc(ctx, userID)
}

func (f *fakeConnectionService) Disconnect(ctx context.Context, userID string) error {
	return f.disconnectFunc(ctx, userID)
}

// serve runs h against a request made as user-1, or anonymously when
// userID is empty.
func serve(t *testing.T, h gin.HandlerFunc, method, target, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if userID != "" {
		middleware.SetUserID(c, userID)
	}
	h(c)
	return w
}

