// Package api implements the REST client for the remote study service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/artkel/gcp-guru/internal/model"
)

// Sentinel conditions distinguished from generic request failures.
var (
	// ErrExhausted signals that the current filter has no further unseen
	// questions. It routes to the session-summary flow, not an error banner.
	ErrExhausted = errors.New("session exhausted")
	// ErrNotFound signals an unknown question id.
	ErrNotFound = errors.New("not found")
)

// Error is a structured failure response from the backend.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
}

const defaultTimeout = 15 * time.Second

// Client talks to the remote study service. All question data and scores
// live server-side; the client never fabricates them.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New constructs a Client for the given base URL (e.g. "http://localhost:8000").
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetRandomQuestion fetches the next question, optionally filtered by tags.
// Returns ErrExhausted when the backend reports no further questions for
// the filter.
func (c *Client) GetRandomQuestion(ctx context.Context, tags []string) (*model.Question, error) {
	params := url.Values{}
	for _, tag := range tags {
		params.Add("tags", tag)
	}
	var q model.Question
	if err := c.get(ctx, "/api/questions/random", params, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ListQuestions fetches questions matching the filter.
func (c *Client) ListQuestions(ctx context.Context, filter model.ListFilter) ([]model.Question, error) {
	params := url.Values{}
	for _, tag := range filter.Tags {
		params.Add("tags", tag)
	}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.StarredOnly {
		params.Set("starred_only", "true")
	}
	var questions []model.Question
	if err := c.get(ctx, "/api/questions", params, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestion fetches a single question by id.
func (c *Client) GetQuestion(ctx context.Context, id int) (*model.Question, error) {
	var q model.Question
	if err := c.get(ctx, "/api/questions/"+strconv.Itoa(id), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

type answerSubmission struct {
	SelectedAnswers    []string `json:"selected_answers"`
	RequestExplanation bool     `json:"request_explanation"`
}

// SubmitAnswer submits the selected answer ids and returns the graded result.
func (c *Client) SubmitAnswer(ctx context.Context, id int, selected []string, requestExplanation bool) (*model.AnswerResult, error) {
	body := answerSubmission{SelectedAnswers: selected, RequestExplanation: requestExplanation}
	var result model.AnswerResult
	if err := c.post(ctx, "/api/questions/"+strconv.Itoa(id)+"/answer", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetHint fetches the hint text for a question.
func (c *Client) GetHint(ctx context.Context, id int) (string, error) {
	var resp struct {
		Hint string `json:"hint"`
	}
	if err := c.get(ctx, "/api/questions/"+strconv.Itoa(id)+"/hint", nil, &resp); err != nil {
		return "", err
	}
	return resp.Hint, nil
}

// GetExplanation fetches the explanation text for a question. With
// regenerate set the backend discards any cached explanation first.
func (c *Client) GetExplanation(ctx context.Context, id int, regenerate bool) (string, error) {
	params := url.Values{}
	if regenerate {
		params.Set("regenerate", "true")
	}
	var resp struct {
		Explanation string `json:"explanation"`
	}
	if err := c.get(ctx, "/api/questions/"+strconv.Itoa(id)+"/explanation", params, &resp); err != nil {
		return "", err
	}
	return resp.Explanation, nil
}

// ToggleStar sets the starred flag of a question and returns the confirmed value.
func (c *Client) ToggleStar(ctx context.Context, id int, starred bool) (bool, error) {
	params := url.Values{}
	params.Set("starred", strconv.FormatBool(starred))
	var resp struct {
		Success bool `json:"success"`
		Starred bool `json:"starred"`
	}
	if err := c.post(ctx, "/api/questions/"+strconv.Itoa(id)+"/star", params, nil, &resp); err != nil {
		return false, err
	}
	return resp.Starred, nil
}

// UpdateNote replaces the note of a question and returns the confirmed value.
func (c *Client) UpdateNote(ctx context.Context, id int, note string) (string, error) {
	params := url.Values{}
	params.Set("note", note)
	var resp struct {
		Success bool   `json:"success"`
		Note    string `json:"note"`
	}
	if err := c.post(ctx, "/api/questions/"+strconv.Itoa(id)+"/note", params, nil, &resp); err != nil {
		return "", err
	}
	return resp.Note, nil
}

// GetTags fetches the available topic tags.
func (c *Client) GetTags(ctx context.Context) ([]string, error) {
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := c.get(ctx, "/api/tags", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// GetProgress fetches the full progress summary.
func (c *Client) GetProgress(ctx context.Context) (*model.UserProgress, error) {
	var progress model.UserProgress
	if err := c.get(ctx, "/api/progress", nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// StartSession tells the backend a new study session begins.
func (c *Client) StartSession(ctx context.Context) error {
	return c.post(ctx, "/api/progress/session/start", nil, nil, nil)
}

// ResetProgress resets the selected progress data server-side.
func (c *Client) ResetProgress(ctx context.Context, opts model.ResetOptions) error {
	return c.post(ctx, "/api/progress/reset", nil, opts, nil)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, params url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, params, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorFromResponse converts a non-2xx response into a typed error. The
// backend reports "no further questions" as HTTP 410, which callers must
// treat as a flow signal rather than a failure.
func (c *Client) errorFromResponse(resp *http.Response) error {
	detail := decodeDetail(resp.Body)
	switch resp.StatusCode {
	case http.StatusGone:
		if detail == "" {
			return ErrExhausted
		}
		return fmt.Errorf("%w: %s", ErrExhausted, detail)
	case http.StatusNotFound:
		if detail == "" {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	}
	return &Error{Status: resp.StatusCode, Detail: detail}
}

func decodeDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
