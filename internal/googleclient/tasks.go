package googleclient

import (
	"context"
	"fmt"

	"google.golang.org/api/tasks/v1"
)

const maxTasksPerPage = 100

// ListTaskLists fetches the user's task lists.
func (c *Client) ListTaskLists(ctx context.Context, accessToken string) ([]*tasks.TaskList, error) {
	svc, err := c.tasksService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Tasklists.List().MaxResults(maxTasksPerPage).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}
	return resp.Items, nil
}

// ListTasks fetches one page of tasks from a list.
func (c *Client) ListTasks(ctx context.Context, accessToken, listID string, showCompleted bool) ([]*tasks.Task, error) {
	svc, err := c.tasksService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Tasks.List(listID).
		ShowCompleted(showCompleted).
		ShowHidden(showCompleted).
		MaxResults(maxTasksPerPage).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return resp.Items, nil
}

// InsertTask creates a task at the top of a list.
func (c *Client) InsertTask(ctx context.Context, accessToken, listID string, task *tasks.Task) (*tasks.Task, error) {
	svc, err := c.tasksService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	created, err := svc.Tasks.Insert(listID, task).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// PatchTask applies a partial update to a task.
func (c *Client) PatchTask(ctx context.Context, accessToken, listID, taskID string, task *tasks.Task) (*tasks.Task, error) {
	svc, err := c.tasksService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	updated, err := svc.Tasks.Patch(listID, taskID, task).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, accessToken, listID, taskID string) error {
	svc, err := c.tasksService(ctx, accessToken)
	if err != nil {
		return err
	}

	if err := svc.Tasks.Delete(listID, taskID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
