package signup

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/signup/pkg/debounce"
	"github.com/vango-dev/signup/pkg/storage"
)

// DefaultDebounce is the quiet window before the draft is written.
const DefaultDebounce = 500 * time.Millisecond

// Handoff receives the flattened values of a valid submission.
type Handoff func(ctx context.Context, values Values)

// Option configures a Form.
type Option func(*options)

type options struct {
	store       storage.Store
	key         string
	window      time.Duration
	debounceOpt []debounce.Option
	writeTO     time.Duration
	logger      *slog.Logger
	handoff     Handoff
	metrics     *Metrics
	tracer      trace.Tracer
}

// WithStore enables draft persistence to store.
func WithStore(store storage.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithStorageKey overrides the draft slot (default: StorageKey).
func WithStorageKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithDebounce sets the draft write window.
func WithDebounce(window time.Duration) Option {
	return func(o *options) {
		o.window = window
	}
}

// WithDebounceOptions passes options to the draft debouncer.
func WithDebounceOptions(opts ...debounce.Option) Option {
	return func(o *options) {
		o.debounceOpt = append(o.debounceOpt, opts...)
	}
}

// WithWriteTimeout bounds each draft write (default: 5s).
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.writeTO = d
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHandoff sets the function that receives valid submissions.
func WithHandoff(h Handoff) Option {
	return func(o *options) {
		o.handoff = h
	}
}

// WithMetrics records submissions, changes and draft writes.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer for submit and draft spans.
// Defaults to the global OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}
