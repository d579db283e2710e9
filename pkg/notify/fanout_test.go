package notify

import (
	"context"
	"errors"
	"testing"
)

type stubNotifier struct {
	id    string
	typ   string
	err   error
	calls int
}

func (s *stubNotifier) ID() string   { return s.id }
func (s *stubNotifier) Type() string { return s.typ }
func (s *stubNotifier) Notify(context.Context, Event) error {
	s.calls++
	return s.err
}

func TestFanoutNotifyAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Notifier{
		&stubNotifier{id: "ok", typ: "http"},
		&stubNotifier{id: "bad", typ: "http", err: errors.New("failed")},
	})

	count, err := fanout.Notify(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutEmptyIsNoop(t *testing.T) {
	fanout := NewFanout(nil)
	count, err := fanout.Notify(context.Background(), Event{})
	if count != 0 || err != nil {
		t.Fatalf("expected silent noop, got count=%d err=%v", count, err)
	}
	if fanout.Size() != 0 {
		t.Fatalf("expected size 0, got %d", fanout.Size())
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	sinks, err := BuildAll(reg, []NotifierConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPNotifierConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
		{ID: "log", Type: TypeLog},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(sinks) != 2 {
		t.Fatalf("expected 2 notifiers, got %d", len(sinks))
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	if _, err := BuildAll(DefaultRegistry(), []NotifierConfig{{ID: "x", Type: "pigeon"}}, nil); err == nil {
		t.Fatalf("expected error for unknown notifier type")
	}
}
