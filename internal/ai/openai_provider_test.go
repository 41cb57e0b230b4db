package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/internscout/internal/model"
)

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func chatWith(content string) chatResponse {
	c := chatChoice{}
	c.Message.Content = content
	return chatResponse{Choices: []chatChoice{c}}
}

func TestComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, chatWith(`{"matched_jobs":[]}`))

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", client)
	got, err := provider.Complete(context.Background(), "filter this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"matched_jobs":[]}` {
		t.Errorf("got %q, want json string", got)
	}
}

func TestComplete_HTTPError(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusInternalServerError, map[string]string{"error": "server error"})

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "filter this")
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("err = %v, want HTTPError 500", err)
	}
}

func TestComplete_RateLimitedCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", srv.Client())
	_, err := provider.Complete(context.Background(), "filter this")
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests || httpErr.RetryAfter != 7*time.Second {
		t.Errorf("HTTPError = %+v, want 429 with 7s", httpErr)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, chatResponse{Choices: nil})

	provider := NewOpenAIProvider(srv.URL, "test-key", "test-model", client)
	_, err := provider.Complete(context.Background(), "filter this")
	if err == nil {
		t.Fatal("expected error when LLM returns no choices")
	}
}

func TestComplete_SetsAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatWith("ok"))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "my-secret-key", "test-model", srv.Client())
	_, _ = provider.Complete(context.Background(), "hello")

	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer my-secret-key")
	}
}

func TestComplete_SendsStructuredOutputFormat(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatWith("{}"))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "key", "gpt-4o-mini", srv.Client())
	_, _ = provider.Complete(context.Background(), "filter this")

	if gotReq.ResponseFormat.Type != "json_schema" {
		t.Errorf("response_format.type = %q, want json_schema", gotReq.ResponseFormat.Type)
	}
	if gotReq.ResponseFormat.JSONSchema.Name != "job_filter_batch" {
		t.Errorf("response_format.json_schema.name = %q, want job_filter_batch", gotReq.ResponseFormat.JSONSchema.Name)
	}
	if _, ok := gotReq.ResponseFormat.JSONSchema.Schema["properties"].(map[string]any)["matched_jobs"]; !ok {
		t.Error("schema should describe matched_jobs")
	}
	if gotReq.Temperature != 0 {
		t.Errorf("temperature = %d, want 0", gotReq.Temperature)
	}
}
