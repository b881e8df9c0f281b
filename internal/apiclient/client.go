// Package apiclient talks to the remote HR task backend. Client serves as
// both the task list provider and the priority persister for the hierarchy
// engine.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/priority"
	"github.com/google/uuid"
)

const (
	tasksPath      = "/api/tasks"
	prioritiesPath = "/api/tasks/priorities"

	// RequestIDHeader carries one id per logical call, shared by its retries.
	RequestIDHeader = "X-Request-ID"
)

// Config holds connection settings for a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client is an HTTP client for the task backend.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client. A nil observer discards call events.
func New(cfg Config, observer Observer, opts ...Option) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTasks fetches the flat task list under scope. Scope 0 asks for every
// task.
func (c *Client) ListTasks(ctx context.Context, scope int) ([]domain.Task, error) {
	query := url.Values{"parent_id": {strconv.Itoa(scope)}}
	body, err := c.call(ctx, http.MethodGet, tasksPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var wire []taskJSON
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decoding task list: %w", err)
	}
	tasks := make([]domain.Task, 0, len(wire))
	for _, w := range wire {
		t, err := w.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decoding task list: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// UpdatePriorities sends the new sibling order for parentID.
func (c *Client) UpdatePriorities(ctx context.Context, parentID int, orderedIDs []int) (*priority.Response, error) {
	req := priorityRequest{ParentID: parentID, OrderedIDs: orderedIDs}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling priority update: %w", err)
	}

	body, err := c.call(ctx, http.MethodPut, prioritiesPath, data)
	if err != nil {
		return nil, fmt.Errorf("updating priorities under %d: %w", parentID, err)
	}

	var wire priorityResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &wire); err != nil {
			return nil, fmt.Errorf("decoding priority response: %w", err)
		}
	}
	return wire.toResponse(req), nil
}

// call performs one logical request with up to MaxRetries extra attempts.
// Client errors (4xx other than 429) and context expiry are not retried.
func (c *Client) call(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	start := time.Now()
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	requestID := uuid.New().String()
	event := CallEvent{Method: method, Path: path, RequestID: requestID}

	var lastErr error
	attempts := 1 + max(c.cfg.MaxRetries, 0)
	for i := 0; i < attempts; i++ {
		event.Attempts = i + 1
		body, status, err := c.doRequest(ctx, method, path, requestID, payload)
		event.StatusCode = status
		if err == nil {
			event.Success = true
			event.LatencyMs = time.Since(start).Milliseconds()
			c.observer.OnCallComplete(event)
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		var se *StatusError
		if errors.As(err, &se) && !se.Temporary() {
			break
		}
	}

	err := classify(ctx, lastErr)
	event.LatencyMs = time.Since(start).Milliseconds()
	event.ErrorCode = errorCode(err)
	c.observer.OnCallComplete(event)
	return nil, err
}

func (c *Client) doRequest(ctx context.Context, method, path, requestID string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, resp.StatusCode, nil
}

// classify maps the last attempt's failure onto the package sentinels.
// Status errors are returned as-is so callers can inspect the code.
func classify(ctx context.Context, err error) error {
	var se *StatusError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.As(err, &se):
		return se
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.As(err, &se):
		return "HTTP_" + strconv.Itoa(se.StatusCode)
	default:
		return "UNKNOWN"
	}
}
