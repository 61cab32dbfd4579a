package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fakeTokens struct {
	mu    sync.Mutex
	token string
}

func (f *fakeTokens) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeTokens) set(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":"u1","name":"Ann","email":"ann@example.com"}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "tok-1"}
	c := NewClient(srv.URL, tokens)

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}

	// After the token is dropped, no header is attached.
	tokens.set("")
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me without token: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header after logout, got %q", gotAuth)
	}
}

func TestUnauthorizedTriggersForcedLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid or expired token"}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	c := NewClient(srv.URL, tokens)
	forced := 0
	c.SetUnauthorizedHandler(func() { forced++ })

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if forced != 1 {
		t.Fatalf("expected one forced logout, got %d", forced)
	}
}

func TestErrorPayloadDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Missing required field"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeTokens{})
	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Missing required field" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestPlainTextErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("something broke"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeTokens{})
	err := c.MarkRead(context.Background(), "c1")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Message != "something broke" {
		t.Fatalf("expected plain text body captured, got %q", apiErr.Message)
	}
}

func TestMessagesPageDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
		w.Write([]byte(`{"content":[{"id":"m2","conversationId":"c1","senderId":"u2","messageText":"newer"},{"id":"m1","conversationId":"c1","senderId":"u2","messageText":"older"}],"number":2,"size":20,"last":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeTokens{})
	pg, err := c.Messages(context.Background(), "c1", 2, 20)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(pg.Content) != 2 || pg.Content[0].ID != "m2" || !pg.Last {
		t.Fatalf("unexpected page %+v", pg)
	}
}
