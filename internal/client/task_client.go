package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kazz187/todo/internal/task"
)

// APIError is a non-2xx answer from the server. Message is the server's
// "message" field and may be empty when the body was not the usual shape.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// TaskClient talks to the /api/tasks REST endpoints.
type TaskClient struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*TaskClient)

func WithHTTPClient(c *http.Client) Option {
	return func(tc *TaskClient) {
		tc.httpClient = c
	}
}

// NewTaskClient takes the server root, e.g. "http://localhost:5000".
func NewTaskClient(baseURL string, opts ...Option) *TaskClient {
	c := &TaskClient{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/api/tasks",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TaskClient) ListTasks(ctx context.Context) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &tasks); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (c *TaskClient) CreateTask(ctx context.Context, title string) (*task.Task, error) {
	var t task.Task
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, c.baseURL, body, &t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &t, nil
}

// UpdateTask sends only the non-nil fields of in.
func (c *TaskClient) UpdateTask(ctx context.Context, id string, in task.UpdateInput) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodPut, c.taskURL(id), in, &t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &t, nil
}

// DeleteTask returns the server's confirmation message.
func (c *TaskClient) DeleteTask(ctx context.Context, id string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, c.taskURL(id), nil, &resp); err != nil {
		return "", fmt.Errorf("failed to delete task: %w", err)
	}
	return resp.Message, nil
}

func (c *TaskClient) taskURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func (c *TaskClient) do(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
