package signup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/signup/pkg/debounce"
	"github.com/vango-dev/signup/pkg/storage"
)

// manualClock runs scheduled functions only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at   time.Duration
	fn   func()
	done bool
}

func (t *manualTimer) Stop() bool {
	was := !t.done
	t.done = true
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.done && t.at <= c.now {
			t.done = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

// recordingStore counts writes on top of a MemoryStore.
type recordingStore struct {
	*storage.MemoryStore
	mu     sync.Mutex
	writes []string
	fail   error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: storage.NewMemoryStore()}
}

func (r *recordingStore) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.writes = append(r.writes, value)
	fail := r.fail
	r.mu.Unlock()
	if fail != nil {
		return fail
	}
	return r.MemoryStore.Set(ctx, key, value)
}

func (r *recordingStore) Writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.writes))
	copy(out, r.writes)
	return out
}

// newTestForm builds a form with a manual clock, a recording store and a
// captured log.
func newTestForm(t *testing.T, initial Draft, opts ...Option) (*Form, *manualClock, *recordingStore, *bytes.Buffer) {
	t.Helper()
	clock := &manualClock{}
	store := newRecordingStore()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	base := []Option{
		WithStore(store),
		WithDebounceOptions(debounce.WithAfterFunc(clock.AfterFunc)),
		WithLogger(logger),
	}
	f := New(initial, append(base, opts...)...)
	t.Cleanup(f.Close)
	return f, clock, store, &logs
}

// fillValid sets every required field to a valid value.
func fillValid(t *testing.T, f *Form) {
	t.Helper()
	for _, kv := range []struct {
		path  string
		value any
	}{
		{FieldEmail, "a@b.com"},
		{FieldPassword, "abcdef"},
		{FieldConfirmPassword, "abcdef"},
		{FieldFirstName, "Ada"},
		{FieldLastName, "Lovelace"},
		{FieldStreet, "Main St"},
		{FieldNumber, "1"},
		{FieldPostalCode, "12345"},
		{FieldCity, "London"},
		{FieldRole, "founder"},
		{"source.1", true},
		{FieldAgree, true},
	} {
		if err := f.Set(kv.path, kv.value); err != nil {
			t.Fatalf("Set(%s): %v", kv.path, err)
		}
	}
}

func mustGet(t *testing.T, f *Form, path string) any {
	t.Helper()
	v, ok := f.Get(path)
	if !ok {
		t.Fatalf("Get(%q): not found", path)
	}
	return v
}

var errWrite = fmt.Errorf("disk full")

// gatedStore blocks its first Set until release is closed.
type gatedStore struct {
	*recordingStore
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		recordingStore: newRecordingStore(),
		started:        make(chan struct{}),
		release:        make(chan struct{}),
	}
}

func (g *gatedStore) Set(ctx context.Context, key, value string) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.started)
		<-g.release
	}
	return g.recordingStore.Set(ctx, key, value)
}
