// Package client talks to a daylist server over its JSON API.
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
	"time"

	"daylist-cli/internal/model"
)

const APITimeout = 15 * time.Second

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("daylist server: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("daylist server: %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("server url %q: expected http(s)://host[:port]", baseURL)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: APITimeout},
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListTasks(ctx context.Context, date string) ([]model.Task, error) {
	path := "/tasks"
	if date = strings.TrimSpace(date); date != "" {
		path += "?" + url.Values{"date": {date}}.Encode()
	}
	var res struct {
		Items []model.Task `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	if res.Items == nil {
		res.Items = []model.Task{}
	}
	return res.Items, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &t)
	return t, err
}

func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	body := map[string]string{
		"date":     t.Date,
		"title":    t.Title,
		"notes":    t.Notes,
		"priority": string(t.Priority),
	}
	var out model.Task
	err := c.do(ctx, http.MethodPost, "/tasks", body, &out)
	return out, err
}

// TaskPatch holds the fields to change; nil fields are left alone.
type TaskPatch struct {
	Date     *string `json:"date,omitempty"`
	Title    *string `json:"title,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Priority *string `json:"priority,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, id string, p TaskPatch) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), p, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// UpdateOrder sends one batch reorder request.
func (c *Client) UpdateOrder(ctx context.Context, req model.ReorderRequest) (model.ReorderOutcome, error) {
	if req.Tasks == nil {
		req.Tasks = []model.ReorderEntry{}
	}
	var out model.ReorderOutcome
	err := c.do(ctx, http.MethodPut, "/tasks/update-order", req, &out)
	return out, err
}

func (c *Client) Health(ctx context.Context) error {
	var res struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &res); err != nil {
		return err
	}
	if !res.OK {
		return errors.New("daylist server: unhealthy")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Message string `json:"message"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(b, &e)
		return &StatusError{Code: resp.StatusCode, Message: e.Message}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
