package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vipul43/classmate-sync/internal/models"
	"github.com/vipul43/classmate-sync/internal/service"
)

// CalendarService is the calendar half of the sync service.
type CalendarService interface {
	ListCalendars(ctx context.Context, userID string) ([]models.CalendarSelection, error)
	SetCalendarSelected(ctx context.Context, userID, gcalID string, selected bool) error
	ListEvents(ctx context.Context, userID, calendarID string, query service.EventQuery) ([]models.Event, error)
	CreateEvent(ctx context.Context, userID, calendarID string, event models.Event) (models.Event, error)
	UpdateEvent(ctx context.Context, userID, calendarID, eventID string, event models.Event) (models.Event, error)
	DeleteEvent(ctx context.Context, userID, calendarID, eventID string) error
}

// CalendarHandler serves /calendar routes.
type CalendarHandler struct {
	svc    CalendarService
	logger *zap.Logger
}

func NewCalendarHandler(svc CalendarService, logger *zap.Logger) *CalendarHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarHandler{svc: svc, logger: logger}
}

type selectionRequest struct {
	GcalID   string `json:"gcal_id"`
	Selected bool   `json:"selected"`
}

type eventRequest struct {
	GcalID      string       `json:"gcal_id" form:"gcal_id"`
	GcalEventID string       `json:"gcal_event_id" form:"gcal_event_id"`
	Event       models.Event `json:"event" form:"-"`
}

// ListCalendars handles GET /calendar/calendars.
func (h *CalendarHandler) ListCalendars(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	calendars, err := h.svc.ListCalendars(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if calendars == nil {
		calendars = []models.CalendarSelection{}
	}
	c.JSON(http.StatusOK, gin.H{"calendars": calendars})
}

// SetSelection handles POST /calendar/calendars/selection.
func (h *CalendarHandler) SetSelection(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req selectionRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	if err := h.svc.SetCalendarSelected(c.Request.Context(), userID, req.GcalID, req.Selected); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c)
}

// ListEvents handles GET /calendar/events.
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	query := service.EventQuery{
		TimeMin: c.Query("timeMin"),
		TimeMax: c.Query("timeMax"),
		Query:   c.Query("q"),
	}
	events, err := h.svc.ListEvents(c.Request.Context(), userID, c.Query("gcal_id"), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CreateEvent handles POST /calendar/events.
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req eventRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	event, err := h.svc.CreateEvent(c.Request.Context(), userID, req.GcalID, req.Event)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// UpdateEvent handles PATCH /calendar/events.
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req eventRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	event, err := h.svc.UpdateEvent(c.Request.Context(), userID, req.GcalID, req.GcalEventID, req.Event)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent handles DELETE /calendar/events. Ids come from the JSON body
// or, for clients that cannot send a DELETE body, the query string.
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req eventRequest
	if !bindDeleteRequest(c, h.logger, &req) {
		return
	}

	if err := h.svc.DeleteEvent(c.Request.Context(), userID, req.GcalID, req.GcalEventID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c)
}

func bindDeleteRequest(c *gin.Context, logger *zap.Logger, req any) bool {
	if c.Request.ContentLength > 0 {
		return bindJSON(c, logger, req)
	}
	if err := c.ShouldBindQuery(req); err != nil {
		badRequest(c, logger, "Invalid query parameters")
		return false
	}
	return true
}
