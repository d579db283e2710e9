package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chronicle-hq/headline-ledger/internal/domain"
)

func TestHTTPNotifierSuccess(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %s", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("decode event: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink, err := newHTTPNotifier(NotifierConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPNotifierConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			Headers:        map[string]string{"X-Test": "1"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPNotifier: %v", err)
	}

	evt := NewEvent("dp", "The Daily Pennsylvanian", domain.Record{Date: "2026-03-01", Headline: "Big Story"})
	if err := sink.Notify(context.Background(), evt); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if received.TargetID != "dp" || received.Record.Headline != "Big Story" {
		t.Fatalf("unexpected event payload %#v", received)
	}
}

func TestHTTPNotifierErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	sink, err := newHTTPNotifier(NotifierConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPNotifierConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			TimeoutSeconds: 1,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPNotifier: %v", err)
	}

	if err := sink.Notify(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
