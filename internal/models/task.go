package models

import "encoding/json"

// Task status values used by the provider.
const (
	TaskStatusNeedsAction = "needsAction"
	TaskStatusCompleted   = "completed"
)

// TaskList is a provider task list.
type TaskList struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Updated string `json:"updated,omitempty"`
}

// Task is the app-side task. Due and CompletedAt are RFC 3339 strings as
// the provider sends them.
type Task struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status,omitempty"`
	Due         string `json:"due,omitempty"`
	CompletedAt string `json:"completedAt,omitempty"`
	Parent      string `json:"parent,omitempty"`
	Position    string `json:"position,omitempty"`
}

// Completed is derived from Status.
func (t Task) Completed() bool {
	return t.Status == TaskStatusCompleted
}

type taskAlias Task

// MarshalJSON adds the derived completed flag.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		taskAlias
		Completed bool `json:"completed"`
	}{taskAlias(t), t.Completed()})
}
