package signup

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/storage"
)

// StorageKey is the slot the draft is saved under.
const StorageKey = "saved-signup-form"

// Draft is the part of the form that survives restarts.
type Draft struct {
	Email string `json:"email"`
}

// LoadDraft reads the draft stored under key. A missing key, an unreadable
// store or a value that is not a JSON draft all yield the empty draft; the
// latter two are logged.
func LoadDraft(ctx context.Context, store storage.Store, key string, logger *slog.Logger) Draft {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		return Draft{}
	}

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn("draft read failed", "key", key, "error", err)
		return Draft{}
	}
	if !ok {
		return Draft{}
	}

	draft, err := ParseDraft(raw)
	if err != nil {
		logger.Warn("ignoring malformed draft", "key", key, "error", err)
		return Draft{}
	}
	return draft
}

// ParseDraft decodes a stored draft.
func ParseDraft(raw string) (Draft, error) {
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Draft{}, errors.New("E202").WithDetailf("malformed draft: %v", err)
	}
	return d, nil
}

// SaveDraft writes d under key as JSON.
func SaveDraft(ctx context.Context, store storage.Store, key string, d Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return errors.New("E203").Wrap(err)
	}
	return store.Set(ctx, key, string(data))
}
