package replay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/pose"
	"github.com/claude/repcounter/internal/session"
)

// StatusError is a non-retryable rejection from the server.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.Path, e.Status, strings.TrimSpace(e.Body))
}

// Client drives a session on a RepCounter server over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
	backoff    time.Duration
}

// Compile-time check: Client satisfies Sink.
var _ Sink = (*Client)(nil)

// NewClient creates a new HTTP client for the RepCounter server.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// Start begins a session on the server. The server runs its own clock, so
// fps is not used.
func (c *Client) Start(cfg session.Config, _ float64) error {
	return c.post("/api/v1/session/start", cfg, nil)
}

// Frame sends one frame and returns the server's tick result.
func (c *Client) Frame(named map[string]pose.Landmark) (session.TickResult, error) {
	body := struct {
		Detected  bool                     `json:"detected"`
		Landmarks map[string]pose.Landmark `json:"landmarks,omitempty"`
	}{Detected: len(named) > 0, Landmarks: named}

	var res session.TickResult
	err := c.post("/api/v1/session/frame", body, &res)
	return res, err
}

// Stop ends the session and returns the recorded workout.
func (c *Client) Stop() (*models.WorkoutRecord, error) {
	var rec *models.WorkoutRecord
	if err := c.post("/api/v1/session/stop", struct{}{}, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, session.ErrNoActiveSession
	}
	return rec, nil
}

// post sends v as JSON and decodes the response into out. Transport errors
// and 5xx responses are retried up to 3 times with exponential backoff; 4xx
// responses fail immediately with a *StatusError.
func (c *Client) post(path string, v, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(c.backoff << uint(attempt-1))
		}

		resp, err := c.httpClient.Post(c.serverURL+path, "application/json", bytes.NewReader(data))
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decoding %s response: %w", path, err)
			}
			return nil
		case resp.StatusCode < 500:
			return &StatusError{Path: path, Status: resp.StatusCode, Body: string(body)}
		}
		lastErr = &StatusError{Path: path, Status: resp.StatusCode, Body: string(body)}
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}

// IsRejected reports whether err is a 4xx rejection from the server.
func IsRejected(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status < 500
}
