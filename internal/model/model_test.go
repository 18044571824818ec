package model

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/tidwall/gjson"
)

func completionPayload(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func TestRespondReturnsBackendAnswer(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(completionPayload("Bitcoin is a decentralized currency. 🚀"))
	}))
	defer server.Close()

	m := New(server.URL, "test-model", "test-key")
	answer := m.Respond(context.Background(), "what is bitcoin")

	if answer != "Bitcoin is a decentralized currency. 🚀" {
		t.Errorf("answer = %q, want the backend content verbatim", answer)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want Bearer test-key", gotAuth)
	}
	if got := gjson.GetBytes(gotBody, "model").String(); got != "test-model" {
		t.Errorf("request model = %q, want test-model", got)
	}
	if got := gjson.GetBytes(gotBody, "messages.1.content").String(); got != "what is bitcoin" {
		t.Errorf("user message = %q, want the original text", got)
	}
	if got := gjson.GetBytes(gotBody, "temperature").Num; got != 0 {
		t.Errorf("temperature = %v, want 0", got)
	}
}

func TestRespondFallsBackOnBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := New(server.URL, "test-model", "test-key")
	answer := m.Respond(context.Background(), "what is bitcoin")

	if answer != FallbackMessage() {
		t.Errorf("answer = %q, want the fallback message", answer)
	}
}

func TestRespondFallsBackOnEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []map[string]any{}})
	}))
	defer server.Close()

	m := New(server.URL, "test-model", "test-key")
	if answer := m.Respond(context.Background(), "hi"); answer != FallbackMessage() {
		t.Errorf("answer = %q, want the fallback message", answer)
	}
}

func TestRespondUnconfiguredSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	m := New(server.URL, "test-model", "")
	answer := m.Respond(context.Background(), "what is bitcoin")

	if answer != FallbackMessage() {
		t.Errorf("answer = %q, want the fallback message", answer)
	}
	if calls.Load() != 0 {
		t.Errorf("backend saw %d calls, want 0", calls.Load())
	}
}

func TestRespondFallsBackOnNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	m := New(server.URL, "test-model", "test-key")
	if answer := m.Respond(context.Background(), "hi"); answer != FallbackMessage() {
		t.Errorf("answer = %q, want the fallback message", answer)
	}
}
