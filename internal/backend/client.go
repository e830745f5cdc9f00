// Package backend provides the HTTP client for the interview backend, which
// owns problems, transcripts, and the candidate's editor content.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/interview-agent/internal/domain"
)

// ErrNoMoreProblems is returned by NextProblem when the backend reports the
// problem sequence is exhausted.
var ErrNoMoreProblems = errors.New("no more problems")

// Client is an HTTP client for the interview backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a backend client with a fixed per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchCode retrieves the candidate's current editor content for a session.
func (c *Client) FetchCode(ctx context.Context, sessionID string) (string, error) {
	var body struct {
		Code string `json:"code"`
	}
	url := fmt.Sprintf("%s/api/session/%s/code", c.baseURL, sessionID)
	if err := c.getJSON(ctx, url, &body); err != nil {
		return "", fmt.Errorf("fetch code: %w", err)
	}
	return body.Code, nil
}

// SaveTranscript persists one spoken turn to the backend store.
func (c *Client) SaveTranscript(ctx context.Context, sessionID string, speaker domain.Role, text string) error {
	payload, err := json.Marshal(map[string]string{
		"speaker": string(speaker),
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	url := fmt.Sprintf("%s/api/session/%s/transcript", c.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create transcript request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("save transcript: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// NextProblem asks the backend for the next problem in the sequence. It
// returns ErrNoMoreProblems when the backend responds without a question.
func (c *Client) NextProblem(ctx context.Context, sessionID string) (*domain.Problem, error) {
	var body struct {
		ID       int    `json:"id"`
		Question string `json:"question"`
	}
	url := fmt.Sprintf("%s/api/session/%s/next-problem", c.baseURL, sessionID)
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, fmt.Errorf("fetch next problem: %w", err)
	}
	if body.Question == "" {
		return nil, ErrNoMoreProblems
	}
	return &domain.Problem{ID: body.ID, Question: body.Question}, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// drainAndClose drains the body so the underlying connection can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
