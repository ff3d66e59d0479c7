// Package normalize converts between Google Calendar/Tasks resources and the
// app's event and task shapes. Every function here is pure and total.
package normalize

import (
	"encoding/json"

	"github.com/vipul43/classmate-sync/internal/models"
	"google.golang.org/api/calendar/v3"
)

// Event converts a provider event into the app shape.
func Event(src *calendar.Event) models.Event {
	if src == nil {
		return models.Event{Title: models.PlaceholderTitle}
	}

	title := src.Summary
	if title == "" {
		title = models.PlaceholderTitle
	}

	return models.Event{
		ID:          src.Id,
		Title:       title,
		Description: src.Description,
		Location:    src.Location,
		Start:       eventTime(src.Start),
		End:         eventTime(src.End),
		Recurrence:  rawJSON(src.Recurrence, len(src.Recurrence) > 0),
		Attendees:   rawJSON(src.Attendees, len(src.Attendees) > 0),
		Reminders:   rawJSON(appReminders(src.Reminders), src.Reminders != nil),
		Visibility:  src.Visibility,
		ColorID:     src.ColorId,
	}
}

// Events converts a page of provider events.
func Events(src []*calendar.Event) []models.Event {
	out := make([]models.Event, 0, len(src))
	for _, e := range src {
		out = append(out, Event(e))
	}
	return out
}

// ProviderEvent converts an app event back into the provider's shape.
// Absent optional fields stay unset so they are omitted on the wire.
// Opaque fields that do not decode are dropped; callers validate them
// with ValidateEvent first. The placeholder title is sent as no title.
func ProviderEvent(src models.Event) *calendar.Event {
	summary := src.Title
	if summary == models.PlaceholderTitle {
		summary = ""
	}

	dst := &calendar.Event{
		Id:          src.ID,
		Summary:     summary,
		Description: src.Description,
		Location:    src.Location,
		Start:       providerTime(src.Start),
		End:         providerTime(src.End),
		Visibility:  src.Visibility,
		ColorId:     src.ColorID,
	}

	if len(src.Recurrence) > 0 {
		var recurrence []string
		if json.Unmarshal(src.Recurrence, &recurrence) == nil {
			dst.Recurrence = recurrence
		}
	}
	if len(src.Attendees) > 0 {
		dst.Attendees = providerAttendees(src.Attendees)
	}
	if len(src.Reminders) > 0 {
		dst.Reminders = providerReminders(src.Reminders)
	}

	return dst
}

func eventTime(src *calendar.EventDateTime) *models.EventTime {
	if src == nil || (src.Date == "" && src.DateTime == "") {
		return nil
	}
	return &models.EventTime{
		Date:     src.Date,
		DateTime: src.DateTime,
		TimeZone: src.TimeZone,
	}
}

func providerTime(src *models.EventTime) *calendar.EventDateTime {
	if src == nil || (src.Date == "" && src.DateTime == "") {
		return nil
	}
	return &calendar.EventDateTime{
		Date:     src.Date,
		DateTime: src.DateTime,
		TimeZone: src.TimeZone,
	}
}

func rawJSON(v interface{}, present bool) json.RawMessage {
	if !present {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
