package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

const testSecret = "postgres://app:hunter2@db:5432/pricing"

func TestSecretString_Redacted(t *testing.T) {
	s := SecretString(testSecret)

	outputs := map[string]string{
		"String": s.String(),
		"%s":     fmt.Sprintf("%s", s),
		"%v":     fmt.Sprintf("%v", s),
		"%+v":    fmt.Sprintf("%+v", struct{ URL SecretString }{s}),
		"%#v":    fmt.Sprintf("%#v", s),
	}
	for name, out := range outputs {
		if strings.Contains(out, "hunter2") {
			t.Errorf("%s leaked the secret: %s", name, out)
		}
		if !strings.Contains(out, redactedPlaceholder) {
			t.Errorf("%s = %q, want the placeholder", name, out)
		}
	}
}

func TestSecretString_MarshalJSON(t *testing.T) {
	cfg := struct {
		Name string       `json:"name"`
		URL  SecretString `json:"url"`
	}{"primary", SecretString(testSecret)}

	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"name":"primary","url":"` + redactedPlaceholder + `"}`
	if string(b) != want {
		t.Errorf("Marshal = %s, want %s", b, want)
	}
}

func TestSecretString_Unmask(t *testing.T) {
	s := SecretString(testSecret)
	if s.Unmask() != testSecret {
		t.Errorf("Unmask() = %q", s.Unmask())
	}
	if !s.IsSet() {
		t.Error("IsSet() = false for a configured value")
	}

	var empty SecretString
	if empty.IsSet() {
		t.Error("IsSet() = true for the zero value")
	}
	if empty.String() != redactedPlaceholder {
		t.Errorf("empty String() = %q", empty.String())
	}
}
