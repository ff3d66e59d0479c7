package googleclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"

	"github.com/vipul43/classmate-sync/internal/service"
)

const maxEventsPerPage = 250

// ListCalendars fetches the user's calendar list.
func (c *Client) ListCalendars(ctx context.Context, accessToken string) ([]*calendar.CalendarListEntry, error) {
	svc, err := c.calendarService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	c.logger.Debug("calendar list fetched", zap.Int("count", len(resp.Items)))
	return resp.Items, nil
}

// ListEvents fetches one page of expanded events ordered by start time.
func (c *Client) ListEvents(ctx context.Context, accessToken, calendarID string, query service.EventQuery) ([]*calendar.Event, error) {
	svc, err := c.calendarService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxEventsPerPage).
		Context(ctx)
	if query.TimeMin != "" {
		call = call.TimeMin(query.TimeMin)
	}
	if query.TimeMax != "" {
		call = call.TimeMax(query.TimeMax)
	}
	if query.Query != "" {
		call = call.Q(query.Query)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	c.logger.Debug("events fetched",
		zap.String("calendar_id", calendarID),
		zap.Int("count", len(resp.Items)),
		zap.Bool("has_more", resp.NextPageToken != ""))
	return resp.Items, nil
}

// InsertEvent creates an event and returns the provider's copy.
func (c *Client) InsertEvent(ctx context.Context, accessToken, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	svc, err := c.calendarService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	created, err := svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

// PatchEvent applies a partial update to an event.
func (c *Client) PatchEvent(ctx context.Context, accessToken, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error) {
	svc, err := c.calendarService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	updated, err := svc.Events.Patch(calendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	svc, err := c.calendarService(ctx, accessToken)
	if err != nil {
		return err
	}

	if err := svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
