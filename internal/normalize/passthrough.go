package normalize

import (
	"encoding/json"
	"reflect"
	"strings"

	"google.golang.org/api/calendar/v3"
)

// The SDK omits zero values unless they are listed in ForceSendFields, so
// a blob like {"useDefault":false} would otherwise vanish on the wire.
// Every key present in an incoming blob is forced. Reminder objects always
// carry useDefault, and each override always carries method and minutes.

var (
	remindersAlways = []string{"UseDefault"}
	overrideAlways  = []string{"Method", "Minutes"}
)

func providerAttendees(raw json.RawMessage) []*calendar.EventAttendee {
	var attendees []*calendar.EventAttendee
	if json.Unmarshal(raw, &attendees) != nil {
		return nil
	}
	var items []map[string]json.RawMessage
	if json.Unmarshal(raw, &items) != nil || len(items) != len(attendees) {
		return attendees
	}
	for i, a := range attendees {
		if a != nil {
			a.ForceSendFields = forcedFields(calendar.EventAttendee{}, items[i])
		}
	}
	return attendees
}

func providerReminders(raw json.RawMessage) *calendar.EventReminders {
	var reminders calendar.EventReminders
	if json.Unmarshal(raw, &reminders) != nil {
		return nil
	}
	var keys map[string]json.RawMessage
	if json.Unmarshal(raw, &keys) != nil {
		return &reminders
	}
	reminders.ForceSendFields = forcedFields(reminders, keys, remindersAlways...)

	var overrides []map[string]json.RawMessage
	if json.Unmarshal(keys["overrides"], &overrides) == nil && len(overrides) == len(reminders.Overrides) {
		for i, o := range reminders.Overrides {
			if o != nil {
				o.ForceSendFields = forcedFields(calendar.EventReminder{}, overrides[i], overrideAlways...)
			}
		}
	}
	return &reminders
}

// appReminders returns a copy of src that marshals useDefault and every
// override's method and minutes even when they are zero.
func appReminders(src *calendar.EventReminders) *calendar.EventReminders {
	if src == nil {
		return nil
	}
	out := *src
	out.ForceSendFields = forcedFields(out, nil, append(remindersAlways, src.ForceSendFields...)...)
	if src.Overrides != nil {
		out.Overrides = make([]*calendar.EventReminder, len(src.Overrides))
		for i, o := range src.Overrides {
			if o == nil {
				continue
			}
			cp := *o
			cp.ForceSendFields = forcedFields(cp, nil, append(overrideAlways, o.ForceSendFields...)...)
			out.Overrides[i] = &cp
		}
	}
	return &out
}

// forcedFields lists, in struct order, the fields of v whose JSON key is
// present (and not null) in keys, plus the named fields in always.
func forcedFields(v interface{}, keys map[string]json.RawMessage, always ...string) []string {
	t := reflect.TypeOf(v)
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if key == "" || key == "-" {
			continue
		}
		raw, ok := keys[key]
		if (ok && string(raw) != "null") || contains(always, f.Name) {
			out = append(out, f.Name)
		}
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
