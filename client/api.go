// Package client is the board-side half of the system: an HTTP client for
// the task endpoints, a session-scoped task cache and the optimistic
// mutation coordinator the UI drives.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"kanban/dto"
	"kanban/taskrule"
)

var (
	ErrForbidden = errors.New("not authorized")
	ErrNotFound  = errors.New("not found")
)

// Query narrows ListTasks results.
type Query struct {
	Status     string
	Priority   string
	AssignedTo string
}

// API is the server surface the coordinator talks to.
type API interface {
	ListTasks(ctx context.Context, q Query) ([]dto.TaskResponse, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error)
	UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest) (dto.TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// HTTPAPI talks to the server over its envelope protocol.
type HTTPAPI struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewHTTPAPI(baseURL, token string) *HTTPAPI {
	return &HTTPAPI{BaseURL: strings.TrimRight(baseURL, "/"), Token: token, HTTPClient: http.DefaultClient}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

func (a *HTTPAPI) ListTasks(ctx context.Context, q Query) ([]dto.TaskResponse, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Priority != "" {
		params.Set("priority", q.Priority)
	}
	if q.AssignedTo != "" {
		params.Set("assignedTo", q.AssignedTo)
	}
	path := "/tasks"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var tasks []dto.TaskResponse
	if err := a.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (a *HTTPAPI) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error) {
	var task dto.TaskResponse
	if err := a.do(ctx, http.MethodPost, "/tasks", req, &task); err != nil {
		return dto.TaskResponse{}, err
	}
	return task, nil
}

func (a *HTTPAPI) UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest) (dto.TaskResponse, error) {
	var task dto.TaskResponse
	if err := a.do(ctx, http.MethodPut, "/tasks/"+taskID, req, &task); err != nil {
		return dto.TaskResponse{}, err
	}
	return task, nil
}

func (a *HTTPAPI) DeleteTask(ctx context.Context, taskID string) error {
	return a.do(ctx, http.MethodDelete, "/tasks/"+taskID, nil, nil)
}

func (a *HTTPAPI) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	httpClient := a.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if !env.Success {
		return apiError(resp.StatusCode, env)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}
	return nil
}

// apiError turns a failed envelope back into the domain error the server
// raised. Invariant rejections are reconstructed so callers can render the
// offending subtask titles without string-matching the message.
func apiError(status int, env envelope) error {
	switch env.Code {
	case taskrule.CodeIncompleteSubtasks:
		return &taskrule.Rejection{
			Code:          env.Code,
			Message:       env.Message,
			PendingTitles: parsePendingTitles(env.Message),
		}
	case taskrule.CodeSubtaskRegression:
		return &taskrule.Rejection{Code: env.Code, Message: env.Message}
	}
	switch status {
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	if env.Message != "" {
		return errors.New(env.Message)
	}
	return fmt.Errorf("request failed with status %d", status)
}

// parsePendingTitles recovers the offending titles from the server message,
// which ends with ": title1, title2".
func parsePendingTitles(message string) []string {
	idx := strings.LastIndex(message, ": ")
	if idx < 0 {
		return nil
	}
	var titles []string
	for _, part := range strings.Split(message[idx+2:], ", ") {
		if part = strings.TrimSpace(part); part != "" {
			titles = append(titles, part)
		}
	}
	return titles
}
