package notify

import (
	"os"
	"path/filepath"
	"testing"
)

func writeNotifiersFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write notifiers file: %v", err)
	}
	return file
}

func TestLoadRegistryYAML(t *testing.T) {
	file := writeNotifiersFile(t, "notifiers.yaml", `
notifiers:
  - id: run-log
    type: log
  - id: hook
    type: http
    enabled: false
    http:
      url: https://hooks.example.com/headline
`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}

	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 notifiers, got %d", len(reg.All()))
	}

	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "run-log" {
		t.Fatalf("unexpected enabled set %#v", enabled)
	}

	hook, ok := reg.ByID("hook")
	if !ok {
		t.Fatalf("expected notifier id hook")
	}
	if hook.HTTP.Method != "POST" {
		t.Fatalf("expected default method POST, got %q", hook.HTTP.Method)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("expected default timeout, got %d", hook.HTTP.TimeoutSeconds)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	file := writeNotifiersFile(t, "notifiers.yaml", `
notifiers:
  - id: dup
    type: log
  - id: dup
    type: log
`)

	if _, err := LoadRegistry(file); err == nil {
		t.Fatalf("expected duplicate notifier error, got nil")
	}
}

func TestLoadRegistryHTTPRequiresURL(t *testing.T) {
	file := writeNotifiersFile(t, "notifiers.yaml", `
notifiers:
  - id: hook
    type: http
    http:
      method: POST
`)

	if _, err := LoadRegistry(file); err == nil {
		t.Fatalf("expected http.url validation error, got nil")
	}
}
