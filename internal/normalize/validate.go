package normalize

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vipul43/classmate-sync/internal/models"
	"google.golang.org/api/calendar/v3"
)

// ValidateEvent checks the parts of an incoming event that ProviderEvent
// would otherwise silently drop or the provider would reject.
func ValidateEvent(e models.Event) error {
	if err := validateTime("start", e.Start); err != nil {
		return err
	}
	if err := validateTime("end", e.End); err != nil {
		return err
	}
	if len(e.Recurrence) > 0 {
		var recurrence []string
		if err := json.Unmarshal(e.Recurrence, &recurrence); err != nil {
			return fmt.Errorf("recurrence must be an array of strings")
		}
	}
	if len(e.Attendees) > 0 {
		var attendees []*calendar.EventAttendee
		if err := json.Unmarshal(e.Attendees, &attendees); err != nil {
			return fmt.Errorf("attendees must be an array of attendee objects")
		}
	}
	if len(e.Reminders) > 0 {
		var reminders calendar.EventReminders
		if err := json.Unmarshal(e.Reminders, &reminders); err != nil {
			return fmt.Errorf("reminders must be a reminders object")
		}
	}
	return nil
}

func validateTime(field string, t *models.EventTime) error {
	if t == nil {
		return nil
	}
	if t.Date != "" && t.DateTime != "" {
		return fmt.Errorf("%s must carry either date or dateTime, not both", field)
	}
	if t.Date != "" {
		if _, err := time.Parse("2006-01-02", t.Date); err != nil {
			return fmt.Errorf("%s.date must be YYYY-MM-DD", field)
		}
	}
	if t.DateTime != "" {
		if _, err := time.Parse(time.RFC3339, t.DateTime); err != nil {
			return fmt.Errorf("%s.dateTime must be RFC 3339", field)
		}
	}
	return nil
}

// ValidateTask checks the fields of an incoming task the provider would reject.
func ValidateTask(t models.Task) error {
	switch t.Status {
	case "", models.TaskStatusNeedsAction, models.TaskStatusCompleted:
	default:
		return fmt.Errorf("status must be %q or %q", models.TaskStatusNeedsAction, models.TaskStatusCompleted)
	}
	if t.Due != "" {
		if _, err := time.Parse(time.RFC3339, t.Due); err != nil {
			return fmt.Errorf("due must be RFC 3339")
		}
	}
	return nil
}
