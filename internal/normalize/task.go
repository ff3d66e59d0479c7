package normalize

import (
	"github.com/vipul43/classmate-sync/internal/models"
	"google.golang.org/api/tasks/v1"
)

// Task converts a provider task into the app shape.
func Task(src *tasks.Task) models.Task {
	if src == nil {
		return models.Task{Title: models.PlaceholderTitle}
	}

	title := src.Title
	if title == "" {
		title = models.PlaceholderTitle
	}

	completedAt := ""
	if src.Completed != nil {
		completedAt = *src.Completed
	}

	return models.Task{
		ID:          src.Id,
		Title:       title,
		Notes:       src.Notes,
		Status:      src.Status,
		Due:         src.Due,
		CompletedAt: completedAt,
		Parent:      src.Parent,
		Position:    src.Position,
	}
}

// Tasks converts a page of provider tasks, skipping deleted ones.
func Tasks(src []*tasks.Task) []models.Task {
	out := make([]models.Task, 0, len(src))
	for _, t := range src {
		if t == nil || t.Deleted {
			continue
		}
		out = append(out, Task(t))
	}
	return out
}

// ProviderTask converts an app task back into the provider's shape.
// Parent and Position are read-only on the provider and are not sent.
func ProviderTask(src models.Task) *tasks.Task {
	dst := &tasks.Task{
		Id:     src.ID,
		Title:  src.Title,
		Notes:  src.Notes,
		Status: src.Status,
		Due:    src.Due,
	}
	if src.CompletedAt != "" {
		completed := src.CompletedAt
		dst.Completed = &completed
	}
	return dst
}

// TaskList converts a provider task list.
func TaskList(src *tasks.TaskList) models.TaskList {
	if src == nil {
		return models.TaskList{}
	}
	title := src.Title
	if title == "" {
		title = models.PlaceholderTitle
	}
	return models.TaskList{ID: src.Id, Title: title, Updated: src.Updated}
}

// TaskLists converts a page of provider task lists.
func TaskLists(src []*tasks.TaskList) []models.TaskList {
	out := make([]models.TaskList, 0, len(src))
	for _, l := range src {
		if l == nil {
			continue
		}
		out = append(out, TaskList(l))
	}
	return out
}
