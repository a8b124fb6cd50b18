package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/signup"
)

// writeConfig creates a config using a file store inside a temp dir.
func writeConfig(t *testing.T) (configPath, storePath string) {
	t.Helper()
	dir := t.TempDir()
	storePath = filepath.Join(dir, "data", "storage.json")
	configPath = filepath.Join(dir, "signup.yaml")

	yaml := "debounce: 50ms\n" +
		"storage:\n" +
		"  backend: file\n" +
		"  file:\n" +
		"    path: " + storePath + "\n" +
		"log:\n" +
		"  level: error\n"
	if err := os.WriteFile(configPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	return configPath, storePath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFillSavesDraft(t *testing.T) {
	configPath, storePath := writeConfig(t)

	out, err := run(t, "fill", "-c", configPath, "--set", "email=ada@example.com")
	if err != nil {
		t.Fatalf("fill: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ada@example.com") {
		t.Errorf("output missing email:\n%s", out)
	}

	data, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatalf("store file: %v", err)
	}
	if !strings.Contains(string(data), `ada@example.com`) {
		t.Errorf("store = %s", data)
	}

	out, err = run(t, "draft", "-c", configPath)
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if !strings.Contains(out, `{"email":"ada@example.com"}`) {
		t.Errorf("draft output:\n%s", out)
	}

	// The next run starts from the draft.
	out, err = run(t, "fill", "-c", configPath, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var st signup.State
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if st.Fields[signup.FieldEmail].Value != "ada@example.com" {
		t.Errorf("restored email = %v", st.Fields[signup.FieldEmail].Value)
	}
	if st.Fields[signup.FieldEmail].Dirty {
		t.Error("Restored email should not be dirty")
	}

	out, err = run(t, "draft", "-c", configPath, "--clear")
	if err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, "draft", "-c", configPath)
	if !strings.Contains(out, "No draft saved") {
		t.Errorf("draft after clear:\n%s", out)
	}
}

func TestFillSubmit(t *testing.T) {
	configPath, _ := writeConfig(t)

	_, err := run(t, "fill", "-c", configPath, "--submit")
	if !errors.HasCode(err, "E402") {
		t.Errorf("empty submit error = %v, want E402", err)
	}

	out, err := run(t, "fill", "-c", configPath, "--submit",
		"--set", "email=a@b.com",
		"--set", "passwords.password=abcdef",
		"--set", "passwords.confirmPassword=abcdef",
		"--set", "firstName=Ada",
		"--set", "lastName=Lovelace",
		"--set", "address.street=Main St",
		"--set", "address.number=1",
		"--set", "address.postalCode=12345",
		"--set", "address.city=London",
		"--set", "role=teacher",
		"--set", "source.2=true",
		"--set", "agree=true",
	)
	if err != nil {
		t.Fatalf("submit: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Submitted 14 fields") {
		t.Errorf("output:\n%s", out)
	}
}

func TestFillErrors(t *testing.T) {
	configPath, _ := writeConfig(t)

	tests := []struct {
		set  string
		code string
	}{
		{"email", "E401"},
		{"=x", "E401"},
		{"nickname=x", "E301"},
		{"agree=maybe", "E303"},
		{"role=astronaut", "E302"},
		{"passwords=x", "E303"},
	}

	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			_, err := run(t, "fill", "-c", configPath, "--set", tt.set)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signup.json")
	if err := os.WriteFile(path, []byte(`{"debounce":"soon"}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "draft", "-c", path)
	if !errors.HasCode(err, "E103") {
		t.Errorf("error = %v, want E103", err)
	}

	_, err = run(t, "draft", "-c", filepath.Join(dir, "missing.json"))
	if !errors.HasCode(err, "E101") {
		t.Errorf("error = %v, want E101", err)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		current any
		raw     string
		want    any
		wantErr bool
	}{
		{"", "hello", "hello", false},
		{"", "", "", false},
		{false, "true", true, false},
		{true, "0", false, false},
		{false, "maybe", nil, true},
		{map[string]any{}, "x", nil, true},
	}

	for _, tt := range tests {
		got, err := parseValue(tt.current, tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseValue(%T, %q) error = %v", tt.current, tt.raw, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseValue(%T, %q) = %v, want %v", tt.current, tt.raw, got, tt.want)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}
