package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Guisb12/lusia-cal/pkg/session"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Options{BaseURL: srv.URL, Token: "test-token"})
	return srv, client
}

func TestListSessionsSendsRangeAndAuth(t *testing.T) {
	from := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/calendar/sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		if got := r.URL.Query().Get("from"); got != from.Format(time.RFC3339) {
			t.Errorf("from param: got %q", got)
		}
		json.NewEncoder(w).Encode([]session.Session{
			{ID: "s1", StartsAt: from.Add(9 * time.Hour), EndsAt: from.Add(10 * time.Hour)},
		})
	})

	got, err := client.ListSessions(context.Background(), from, to)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("unexpected sessions: %+v", got)
	}
}

func TestUpdateSessionPatchesOnlyTimes(t *testing.T) {
	starts := time.Date(2026, time.March, 9, 9, 30, 0, 0, time.UTC)
	ends := starts.Add(time.Hour)

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/calendar/sessions/s1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("body not json: %v", err)
		}
		if _, ok := got["starts_at"]; !ok {
			t.Errorf("patch missing starts_at: %s", body)
		}
		if _, ok := got["title"]; ok {
			t.Errorf("patch should omit unchanged fields: %s", body)
		}
		json.NewEncoder(w).Encode(session.Session{ID: "s1", StartsAt: starts, EndsAt: ends})
	})

	got, err := client.UpdateSession(context.Background(), "s1", TimePatch(starts, ends))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.StartsAt.Equal(starts) {
		t.Fatalf("unexpected start: %v", got.StartsAt)
	}
}

func TestErrorResponsesSurfaceDetail(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "ends_at must be after starts_at"})
	})

	_, err := client.CreateSession(context.Background(), session.Draft{
		StartsAt:   time.Now(),
		EndsAt:     time.Now().Add(-time.Hour),
		StudentIDs: []string{"stu-1"},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "ends_at must be after starts_at" {
		t.Fatalf("message: got %q", apiErr.Message)
	}
}

func TestDeleteSession(t *testing.T) {
	var deleted bool
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && r.URL.Path == "/calendar/sessions/s9" {
			deleted = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	if err := client.DeleteSession(context.Background(), "s9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatalf("delete endpoint never hit")
	}
}

func TestSearchStudentsSendsQuery(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/calendar/students/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "mar" {
			t.Errorf("q param: got %q", got)
		}
		json.NewEncoder(w).Encode([]session.Student{
			{ID: "stu-9", FullName: "Maria Silva", DisplayName: "Maria"},
		})
	})

	got, err := client.SearchStudents(context.Background(), "mar")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "stu-9" {
		t.Fatalf("unexpected students: %+v", got)
	}
	if got[0].Label() != "Maria" {
		t.Fatalf("label = %q, want Maria", got[0].Label())
	}
}

func TestContextCancellationAborts(t *testing.T) {
	block := make(chan struct{})
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-block
	})
	t.Cleanup(func() { close(block) })
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.ListSessions(ctx, time.Now(), time.Now().Add(time.Hour)); err == nil {
		t.Fatalf("expected context error")
	}
}
