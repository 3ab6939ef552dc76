package api

import (
	"context"
	"fmt"
	"net/http"
)

// Task statuses as the backend reports them.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task is a task record as the backend returns it.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (t Task) Completed() bool {
	return t.Status == TaskStatusCompleted
}

// CreateTaskPayload is the body for creating a task.
type CreateTaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// UpdateTaskPayload is the body for a partial task update; nil fields are
// left untouched by the backend.
type UpdateTaskPayload struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

const taskLoadFailedMessage = "Failed to load tasks."
const taskSaveFailedMessage = "Failed to save task."

func tasksPath(userID string) string {
	return fmt.Sprintf("/api/user-%s/tasks", userID)
}

// ListTasks returns all tasks for the user.
func (c *Client) ListTasks(ctx context.Context, userID, token string) ([]Task, error) {
	req, err := c.newRequest(ctx, http.MethodGet, tasksPath(userID), nil, token)
	if err != nil {
		return nil, &Error{StatusCode: 0, Message: taskLoadFailedMessage}
	}

	var tasks []Task
	if err := c.doJSON(req, &tasks, taskLoadFailedMessage); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task and returns the stored record.
func (c *Client) CreateTask(ctx context.Context, userID string, payload CreateTaskPayload, token string) (*Task, error) {
	req, err := c.newRequest(ctx, http.MethodPost, tasksPath(userID), payload, token)
	if err != nil {
		return nil, &Error{StatusCode: 0, Message: taskSaveFailedMessage}
	}

	var task Task
	if err := c.doJSON(req, &task, taskSaveFailedMessage); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update and returns the stored record.
func (c *Client) UpdateTask(ctx context.Context, userID, taskID string, payload UpdateTaskPayload, token string) (*Task, error) {
	path := tasksPath(userID) + "/" + taskID
	req, err := c.newRequest(ctx, http.MethodPut, path, payload, token)
	if err != nil {
		return nil, &Error{StatusCode: 0, Message: taskSaveFailedMessage}
	}

	var task Task
	if err := c.doJSON(req, &task, taskSaveFailedMessage); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, userID, taskID, token string) error {
	path := tasksPath(userID) + "/" + taskID
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, token)
	if err != nil {
		return &Error{StatusCode: 0, Message: taskSaveFailedMessage}
	}
	return c.doJSON(req, nil, taskSaveFailedMessage)
}

// CompleteTask marks a task completed.
func (c *Client) CompleteTask(ctx context.Context, userID, taskID, token string) (*Task, error) {
	status := TaskStatusCompleted
	return c.UpdateTask(ctx, userID, taskID, UpdateTaskPayload{Status: &status}, token)
}

// UncompleteTask marks a task pending again.
func (c *Client) UncompleteTask(ctx context.Context, userID, taskID, token string) (*Task, error) {
	status := TaskStatusPending
	return c.UpdateTask(ctx, userID, taskID, UpdateTaskPayload{Status: &status}, token)
}
