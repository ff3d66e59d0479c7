package models

import "encoding/json"

// PlaceholderTitle is used for provider events and tasks that have no summary.
const PlaceholderTitle = "(No title)"

// EventTime is either a date-only value (all-day) or a date-time with an
// optional time zone. Exactly one of Date and DateTime is expected to be set.
type EventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// IsDateOnly reports whether t carries a date without a time.
func (t *EventTime) IsDateOnly() bool {
	return t != nil && t.Date != "" && t.DateTime == ""
}

// Event is the app-side calendar event.
//
// Recurrence, Attendees and Reminders are mirrored from the provider as raw
// JSON and never interpreted here.
type Event struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	Start       *EventTime      `json:"start,omitempty"`
	End         *EventTime      `json:"end,omitempty"`
	Recurrence  json.RawMessage `json:"recurrence,omitempty"`
	Attendees   json.RawMessage `json:"attendees,omitempty"`
	Reminders   json.RawMessage `json:"reminders,omitempty"`
	Visibility  string          `json:"visibility,omitempty"`
	ColorID     string          `json:"colorId,omitempty"`
}

// AllDay is derived from Start and never stored.
func (e Event) AllDay() bool {
	return e.Start.IsDateOnly()
}

type eventAlias Event

// MarshalJSON adds the derived allDay flag.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		eventAlias
		AllDay bool `json:"allDay"`
	}{eventAlias(e), e.AllDay()})
}
