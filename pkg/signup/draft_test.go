package signup

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/signup/pkg/storage"
)

type brokenStore struct{ storage.Store }

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errWrite
}

func TestLoadDraft(t *testing.T) {
	tests := []struct {
		name    string
		stored  *string
		want    Draft
		wantLog string
	}{
		{name: "missing", stored: nil, want: Draft{}},
		{name: "saved", stored: ptr(`{"email":"a@b.com"}`), want: Draft{Email: "a@b.com"}},
		{name: "no email key", stored: ptr(`{}`), want: Draft{}},
		{name: "extra keys", stored: ptr(`{"email":"x@y.z","password":"p"}`), want: Draft{Email: "x@y.z"}},
		{name: "null", stored: ptr(`null`), want: Draft{}},
		{name: "not json", stored: ptr(`{email:`), want: Draft{}, wantLog: "ignoring malformed draft"},
		{name: "wrong type", stored: ptr(`{"email":42}`), want: Draft{}, wantLog: "ignoring malformed draft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore()
			if tt.stored != nil {
				_ = store.Set(ctx, StorageKey, *tt.stored)
			}

			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			got := LoadDraft(ctx, store, StorageKey, logger)
			if got != tt.want {
				t.Errorf("LoadDraft() = %+v, want %+v", got, tt.want)
			}
			if tt.wantLog != "" && !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("expected log %q, got:\n%s", tt.wantLog, logs.String())
			}
			if tt.wantLog == "" && logs.Len() != 0 {
				t.Errorf("unexpected log output:\n%s", logs.String())
			}
		})
	}
}

func TestLoadDraftStoreFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	got := LoadDraft(context.Background(), brokenStore{}, StorageKey, logger)
	if got != (Draft{}) {
		t.Errorf("LoadDraft() = %+v, want empty", got)
	}
	if !strings.Contains(logs.String(), "draft read failed") {
		t.Errorf("expected a warning, got:\n%s", logs.String())
	}

	if LoadDraft(context.Background(), nil, StorageKey, logger) != (Draft{}) {
		t.Error("nil store should yield the empty draft")
	}
}

func TestSaveDraft(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	if err := SaveDraft(ctx, store, "k", Draft{Email: "a@b.com"}); err != nil {
		t.Fatal(err)
	}
	raw, ok, _ := store.Get(ctx, "k")
	if !ok || raw != `{"email":"a@b.com"}` {
		t.Errorf("stored = %q, %v", raw, ok)
	}

	d, err := ParseDraft(raw)
	if err != nil || d.Email != "a@b.com" {
		t.Errorf("ParseDraft() = %+v, %v", d, err)
	}
}

func ptr(s string) *string { return &s }
