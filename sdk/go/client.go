package kanbansdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kanban/internal/domain"
)

// Client is a minimal kanban HTTP API client.
type Client struct {
	BaseURL     string
	BasePath    string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/api",
		Timeout:  10 * time.Second,
	}
}

type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type State struct {
	Boards      []domain.Board `json:"boards"`
	ActiveBoard *domain.Board  `json:"activeBoard"`
	IsLoading   bool           `json:"isLoading"`
	Error       *string        `json:"error"`
	HasFetched  bool           `json:"hasFetched"`
}

type Task struct {
	BoardID  string `json:"boardId"`
	ColumnID string `json:"columnId"`
	domain.Task
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var resp Session
	err := c.do(ctx, http.MethodPost, "auth/login", map[string]any{"email": email, "password": password}, &resp)
	if err == nil {
		c.BearerToken = resp.Token
	}
	return resp, err
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var resp domain.User
	err := c.do(ctx, http.MethodGet, "me", nil, &resp)
	return resp, err
}

func (c *Client) State(ctx context.Context) (State, error) {
	var resp State
	err := c.do(ctx, http.MethodGet, "state", nil, &resp)
	return resp, err
}

// FetchBoards lists the server's boards; it satisfies the board store's
// Source so one store can be fed from another over HTTP.
func (c *Client) FetchBoards(ctx context.Context) ([]domain.Board, error) {
	var resp []domain.Board
	err := c.do(ctx, http.MethodGet, "boards", nil, &resp)
	return resp, err
}

// Refresh asks the server to refetch from its source.
func (c *Client) Refresh(ctx context.Context) (State, error) {
	var resp State
	err := c.do(ctx, http.MethodPost, "fetch", nil, &resp)
	return resp, err
}

func (c *Client) Board(ctx context.Context, id string) (domain.Board, error) {
	var resp domain.Board
	err := c.do(ctx, http.MethodGet, "boards/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

func (c *Client) CreateBoard(ctx context.Context, name string, columns []string) (domain.Board, error) {
	var resp domain.Board
	err := c.do(ctx, http.MethodPost, "boards", map[string]any{"name": name, "columns": columns}, &resp)
	return resp, err
}

func (c *Client) DeleteBoard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "boards/"+url.PathEscape(id), nil, nil)
}

func (c *Client) AddTask(ctx context.Context, columnID string, in domain.TaskInput) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("columns/%s/tasks", url.PathEscape(columnID)), in, &resp)
	return resp, err
}

// MoveTask moves a task; a nil index appends to the destination column.
func (c *Client) MoveTask(ctx context.Context, taskID, toColumnID string, index *int) (Task, error) {
	body := map[string]any{"toColumnId": toColumnID}
	if index != nil {
		body["index"] = *index
	}
	var resp Task
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("tasks/%s/move", url.PathEscape(taskID)), body, &resp)
	return resp, err
}

// Events returns recent events, newest first.
func (c *Client) Events(ctx context.Context, limit int) ([]domain.Event, error) {
	endpoint := "events"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp struct {
		Items []domain.Event `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Items, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var env struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &env) == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(c.BasePath, "/")
}
