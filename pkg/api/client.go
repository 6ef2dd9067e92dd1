// Package api talks to the studio backend's calendar endpoints. Every call
// takes a context, returns explicit errors, and logs through slog; no failure
// here is fatal to the UI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Guisb12/lusia-cal/pkg/session"
)

// Service is the calendar persistence contract the UI depends on. The HTTP
// client below is the production implementation; tests substitute fakes.
type Service interface {
	ListSessions(ctx context.Context, from, to time.Time) ([]session.Session, error)
	CreateSession(ctx context.Context, draft session.Draft) (session.Session, error)
	UpdateSession(ctx context.Context, id string, patch SessionPatch) (session.Session, error)
	DeleteSession(ctx context.Context, id string) error
	SearchStudents(ctx context.Context, query string) ([]session.Student, error)
}

// SessionPatch carries a partial update; nil fields are left untouched by
// the backend. Drag/resize commits only ever set the two time fields.
type SessionPatch struct {
	Title        *string    `json:"title,omitempty"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	StudentIDs   []string   `json:"student_ids,omitempty"`
	ClassID      *string    `json:"class_id,omitempty"`
	SubjectIDs   []string   `json:"subject_ids,omitempty"`
	TeacherNotes *string    `json:"teacher_notes,omitempty"`
}

// TimePatch builds the patch a gesture commit sends: new start/end, every
// other field unchanged.
func TimePatch(startsAt, endsAt time.Time) SessionPatch {
	return SessionPatch{StartsAt: &startsAt, EndsAt: &endsAt}
}

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

// Options configure a Client.
type Options struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a client for the given backend.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    httpClient,
		log:     logger,
	}
}

type createPayload struct {
	StudentIDs   []string `json:"student_ids"`
	ClassID      string   `json:"class_id,omitempty"`
	StartsAt     string   `json:"starts_at"`
	EndsAt       string   `json:"ends_at"`
	Title        string   `json:"title,omitempty"`
	SubjectIDs   []string `json:"subject_ids,omitempty"`
	TeacherNotes string   `json:"teacher_notes,omitempty"`
}

// ListSessions fetches sessions whose start falls in [from, to].
func (c *Client) ListSessions(ctx context.Context, from, to time.Time) ([]session.Session, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))
	var out []session.Session
	if err := c.do(ctx, http.MethodGet, "/calendar/sessions?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	c.log.Debug("listed sessions", "from", from, "to", to, "count", len(out))
	return out, nil
}

// CreateSession creates a session from a validated draft.
func (c *Client) CreateSession(ctx context.Context, draft session.Draft) (session.Session, error) {
	payload := createPayload{
		StudentIDs:   draft.StudentIDs,
		ClassID:      draft.ClassID,
		StartsAt:     draft.StartsAt.Format(time.RFC3339),
		EndsAt:       draft.EndsAt.Format(time.RFC3339),
		Title:        draft.Title,
		SubjectIDs:   draft.SubjectIDs,
		TeacherNotes: draft.TeacherNotes,
	}
	var out session.Session
	if err := c.do(ctx, http.MethodPost, "/calendar/sessions", payload, &out); err != nil {
		return session.Session{}, err
	}
	c.log.Info("created session", "id", out.ID, "starts_at", out.StartsAt)
	return out, nil
}

// UpdateSession applies a partial update to an existing session.
func (c *Client) UpdateSession(ctx context.Context, id string, patch SessionPatch) (session.Session, error) {
	if id == "" {
		return session.Session{}, fmt.Errorf("api: session id required")
	}
	var out session.Session
	if err := c.do(ctx, http.MethodPatch, "/calendar/sessions/"+url.PathEscape(id), patch, &out); err != nil {
		c.log.Warn("update session failed", "id", id, "error", err)
		return session.Session{}, err
	}
	c.log.Info("updated session", "id", id)
	return out, nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("api: session id required")
	}
	if err := c.do(ctx, http.MethodDelete, "/calendar/sessions/"+url.PathEscape(id), nil, nil); err != nil {
		c.log.Warn("delete session failed", "id", id, "error", err)
		return err
	}
	c.log.Info("deleted session", "id", id)
	return nil
}

// SearchStudents queries the organization's student directory by name.
func (c *Client) SearchStudents(ctx context.Context, query string) ([]session.Student, error) {
	q := url.Values{}
	q.Set("q", query)
	var out []session.Student
	if err := c.do(ctx, http.MethodGet, "/calendar/students/search?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	c.log.Debug("searched students", "query", query, "count", len(out))
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}
