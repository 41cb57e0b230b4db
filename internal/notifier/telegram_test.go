package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/amishk599/internscout/internal/model"
)

func TestTelegramMessenger_SendsPlainTextForm(t *testing.T) {
	var gotPath, gotChat, gotText, gotParseMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		gotParseMode = r.PostForm.Get("parse_mode")
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	m := NewTelegramMessenger(srv.URL, "123:abc", "42", srv.Client(), discardLogger())
	o := sampleOpp("Data_Analyst *Intern*", "Acme")

	if err := m.Send(context.Background(), o); err != nil {
		t.Fatalf("Send() = %v", err)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotChat != "42" {
		t.Errorf("chat_id = %q", gotChat)
	}
	if gotText != FormatMessage(o) {
		t.Errorf("text = %q", gotText)
	}
	if gotParseMode != "" {
		t.Errorf("parse_mode = %q, want unset so titles are sent verbatim", gotParseMode)
	}
}

func TestTelegramMessenger_MissingCredentialsIsNoop(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	m := NewTelegramMessenger(srv.URL, "", "42", srv.Client(), discardLogger())
	if m.Configured() {
		t.Error("Configured() = true with empty token")
	}
	if err := m.Send(context.Background(), sampleOpp("A", "B")); err != nil {
		t.Errorf("Send() = %v, want nil", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no HTTP calls, got %d", calls.Load())
	}
}

func TestTelegramMessenger_NotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	m := NewTelegramMessenger(srv.URL, "t", "c", srv.Client(), discardLogger())
	err := m.Send(context.Background(), sampleOpp("A", "B"))
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("err = %v, want chat not found", err)
	}
}

func TestTelegramMessenger_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	m := NewTelegramMessenger(srv.URL, "t", "c", srv.Client(), discardLogger())
	err := m.Send(context.Background(), sampleOpp("A", "B"))
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("err = %v, want HTTPError 401", err)
	}
}

func TestTelegramMessenger_TransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	m := NewTelegramMessenger(url, "super-secret-token", "c", &http.Client{}, discardLogger())
	err := m.Send(context.Background(), sampleOpp("A", "B"))
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "super-secret-token") {
		t.Errorf("error leaks token: %v", err)
	}
}
