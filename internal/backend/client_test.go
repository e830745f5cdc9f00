package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ashureev/interview-agent/internal/domain"
)

func TestFetchCode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/session/sess-1/code" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "def solve(): pass"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	code, err := c.FetchCode(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("FetchCode failed: %v", err)
	}
	if code != "def solve(): pass" {
		t.Errorf("unexpected code %q", code)
	}
}

func TestFetchCodeNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.FetchCode(context.Background(), "sess-1"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestSaveTranscript(t *testing.T) {
	t.Parallel()

	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/session/sess-1/transcript" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if err := c.SaveTranscript(context.Background(), "sess-1", domain.RoleAgent, "hello"); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}
	if got["speaker"] != "AGENT" || got["text"] != "hello" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestNextProblem(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       2,
			"question": "Given a binary tree, find its maximum depth.",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	p, err := c.NextProblem(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("NextProblem failed: %v", err)
	}
	if p.ID != 2 || p.Question == "" {
		t.Errorf("unexpected problem %+v", p)
	}
}

func TestNextProblemExhausted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	_, err := c.NextProblem(context.Background(), "sess-1")
	if !errors.Is(err, ErrNoMoreProblems) {
		t.Fatalf("expected ErrNoMoreProblems, got %v", err)
	}
}
