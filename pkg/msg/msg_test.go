package msg

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGetMessage_EmbeddedCatalog(t *testing.T) {
	got := GetMessage("orthanc.system-status", 200)
	if got != "Orthanc /system response: 200" {
		t.Errorf("GetMessage() = %q", got)
	}
}

func TestGetMessage_Missing(t *testing.T) {
	got := GetMessage("does.not.exist")
	if got != "Message not found: does.not.exist" {
		t.Errorf("GetMessage() = %q", got)
	}
}

func TestGetMessage_ArgumentKinds(t *testing.T) {
	if err := Load(strings.NewReader("test:\n  args: \"{0}|{1}|{2}|{3}\"\n")); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := GetMessage("test.args", errors.New("boom"), 1500*time.Millisecond, map[string]int{"a": 1}, true)
	want := `boom|1.5s|{"a":1}|true`
	if got != want {
		t.Errorf("GetMessage() = %q, want %q", got, want)
	}
}

func TestLoad_OverridesExistingKeys(t *testing.T) {
	if err := Load(strings.NewReader("keycloak:\n  fail: \"overridden\"\n")); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer func() {
		_ = Load(strings.NewReader("keycloak:\n  fail: \"Keycloak health check failed on all endpoints\"\n"))
	}()

	if got := GetMessage("keycloak.fail"); got != "overridden" {
		t.Errorf("GetMessage() = %q, want overridden", got)
	}
	if got := GetMessage("auth.success"); got != "Successfully obtained token from auth service" {
		t.Errorf("unrelated key lost after merge: %q", got)
	}
}

func TestInit_MissingFile(t *testing.T) {
	if err := Init("/nonexistent/messages.yml"); err == nil {
		t.Error("Init() expected error for missing file")
	}
}
