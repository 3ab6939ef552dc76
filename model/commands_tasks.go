package model

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"todui/api"
)

var errNotLoggedIn = errors.New("Please log in to manage tasks.")

// token fetches a bearer token for a task operation.
func (m *Model) token(ctx context.Context) (string, error) {
	token, err := m.Auth.GetToken(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errNotLoggedIn
	}
	return token, nil
}

// FetchTasks loads the user's task list.
func (m *Model) FetchTasks() tea.Cmd {
	client := m.API
	userID := m.UserID
	getToken := m.token
	return func() tea.Msg {
		ctx := context.Background()
		if userID == "" {
			return TasksLoadedMsg{Err: errNotLoggedIn}
		}
		token, err := getToken(ctx)
		if err != nil {
			return TasksLoadedMsg{Err: err}
		}
		tasks, err := client.ListTasks(ctx, userID, token)
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

// CreateTask creates a task with the given title.
func (m *Model) CreateTask(title string) tea.Cmd {
	client := m.API
	userID := m.UserID
	getToken := m.token
	return func() tea.Msg {
		ctx := context.Background()
		if userID == "" {
			return TaskSavedMsg{Err: errNotLoggedIn}
		}
		token, err := getToken(ctx)
		if err != nil {
			return TaskSavedMsg{Err: err}
		}
		task, err := client.CreateTask(ctx, userID, api.CreateTaskPayload{Title: title}, token)
		return TaskSavedMsg{Task: task, Err: err}
	}
}

// ToggleTask flips a task between pending and completed.
func (m *Model) ToggleTask(task api.Task) tea.Cmd {
	client := m.API
	userID := m.UserID
	getToken := m.token
	return func() tea.Msg {
		ctx := context.Background()
		if userID == "" {
			return TaskSavedMsg{Err: errNotLoggedIn}
		}
		token, err := getToken(ctx)
		if err != nil {
			return TaskSavedMsg{Err: err}
		}

		var updated *api.Task
		if task.Completed() {
			updated, err = client.UncompleteTask(ctx, userID, task.ID, token)
		} else {
			updated, err = client.CompleteTask(ctx, userID, task.ID, token)
		}
		return TaskSavedMsg{Task: updated, Err: err}
	}
}

// DeleteTask removes a task.
func (m *Model) DeleteTask(taskID string) tea.Cmd {
	client := m.API
	userID := m.UserID
	getToken := m.token
	return func() tea.Msg {
		ctx := context.Background()
		if userID == "" {
			return TaskDeletedMsg{TaskID: taskID, Err: errNotLoggedIn}
		}
		token, err := getToken(ctx)
		if err != nil {
			return TaskDeletedMsg{TaskID: taskID, Err: err}
		}
		err = client.DeleteTask(ctx, userID, taskID, token)
		return TaskDeletedMsg{TaskID: taskID, Err: err}
	}
}
