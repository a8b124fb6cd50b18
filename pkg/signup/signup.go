// Package signup implements the signup form: a validated field tree seeded
// from a saved draft, with debounced draft persistence, submission and reset.
//
// The form is safe for concurrent use. All mutation is serialized, and
// listeners run after the mutation that triggered them has finished.
package signup

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/signup/internal/errors"
	"github.com/vango-dev/signup/pkg/debounce"
	"github.com/vango-dev/signup/pkg/form"
	"github.com/vango-dev/signup/pkg/storage"
)

// Field paths.
const (
	FieldEmail           = "email"
	FieldPasswords       = "passwords"
	FieldPassword        = "passwords.password"
	FieldConfirmPassword = "passwords.confirmPassword"
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldAddress         = "address"
	FieldStreet          = "address.street"
	FieldNumber          = "address.number"
	FieldPostalCode      = "address.postalCode"
	FieldCity            = "address.city"
	FieldRole            = "role"
	FieldSource          = "source"
	FieldAgree           = "agree"
)

// Roles are the values the role field accepts.
var Roles = []string{"student", "teacher", "employee", "founder", "other"}

// DefaultRole is the role's initial value.
const DefaultRole = "student"

// SourceCount is the number of "how did you hear about us" checkboxes.
const SourceCount = 3

const tracerName = "signup"

// Values are the flattened form values keyed by dotted path.
type Values map[string]any

// Form is the signup form.
type Form struct {
	mu   sync.Mutex
	root *form.Group

	// changes collects root changes while mu is held.
	changes []form.Change

	listeners    []listener
	nextListener uint64

	store     storage.Store
	key       string
	debouncer *debounce.Debouncer
	writeTO   time.Duration
	handoff   Handoff
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

type listener struct {
	id uint64
	fn func(form.Change)
}

// New builds the form. The email field starts with the draft's email; pass
// the result of LoadDraft to restore a saved draft.
func New(initial Draft, opts ...Option) *Form {
	o := options{
		key:     StorageKey,
		window:  DefaultDebounce,
		writeTO: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	f := &Form{
		root:    newTree(initial),
		store:   o.store,
		key:     o.key,
		writeTO: o.writeTO,
		handoff: o.handoff,
		logger:  o.logger,
		metrics: o.metrics,
		tracer:  o.tracer,
	}
	if f.handoff == nil {
		f.handoff = f.logHandoff
	}
	if f.store != nil {
		f.debouncer = debounce.New(o.window, o.debounceOpt...)
	}

	f.root.Subscribe(func(c form.Change) {
		f.changes = append(f.changes, c)
	})

	return f
}

// newTree builds the field tree.
func newTree(initial Draft) *form.Group {
	passwords := form.NewGroup(form.EqualValues("password", "confirmPassword")).
		Add("password", form.NewControl("", form.Required(""), form.MinLength(6, ""))).
		Add("confirmPassword", form.NewControl("", form.Required(""), form.MinLength(6, "")))

	address := form.NewGroup().
		Add("street", form.NewControl("", form.Required(""))).
		Add("number", form.NewControl("", form.Required(""))).
		Add("postalCode", form.NewControl("", form.Required(""))).
		Add("city", form.NewControl("", form.Required("")))

	sources := make([]form.Node, SourceCount)
	for i := range sources {
		sources[i] = form.NewControl(false)
	}
	source := form.NewArray(sources...)

	return form.NewGroup().
		Add("email", form.NewControl(initial.Email, form.Required(""), form.Email(""))).
		Add("passwords", passwords).
		Add("firstName", form.NewControl("", form.Required(""))).
		Add("lastName", form.NewControl("", form.Required(""))).
		Add("address", address).
		Add("role", form.NewControl(DefaultRole, form.Required(""))).
		Add("source", source).
		Add("agree", form.NewControl(false, form.Required("")))
}

// Set changes the value at path as if the user typed or toggled it.
func (f *Form) Set(path string, value any) error {
	if path == FieldRole {
		if s, ok := value.(string); !ok || !slices.Contains(Roles, s) {
			return errors.New("E302").WithDetailf("role %#v; allowed: %v", value, Roles)
		}
	}

	f.mu.Lock()
	err := f.root.Set(path, value)
	changes, listeners := f.commit()
	f.mu.Unlock()

	f.notify(changes, listeners)
	return err
}

// Touch marks the control at path as touched, as when the user leaves it.
func (f *Form) Touch(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.root.Touch(path)
}

// Reset restores every field to its initial value and clears interaction
// flags. The draft is rewritten after the debounce window.
func (f *Form) Reset() {
	f.mu.Lock()
	f.root.Reset()
	changes, listeners := f.commit()
	f.mu.Unlock()

	f.notify(changes, listeners)
}

// Submit validates the whole form. An invalid form is logged and left
// alone; a valid one is passed to the handoff. The returned values are nil
// when ok is false.
func (f *Form) Submit(ctx context.Context) (values Values, ok bool) {
	ctx, span := f.tracer.Start(ctx, "signup.submit")
	defer span.End()

	f.mu.Lock()
	f.root.MarkAllTouched()
	valid := f.root.Valid()
	var invalid []string
	if valid {
		values = Values(form.Flatten(f.root))
	} else {
		invalid = f.invalidPaths()
	}
	f.mu.Unlock()

	if !valid {
		f.logger.Warn("invalid form", "invalid", invalid)
		f.metrics.recordSubmission("invalid")
		span.SetAttributes(attribute.StringSlice("signup.invalid", invalid))
		span.SetStatus(codes.Error, "invalid form")
		return nil, false
	}

	f.metrics.recordSubmission("valid")
	span.SetStatus(codes.Ok, "")
	f.handoff(ctx, values)
	return values, true
}

func (f *Form) logHandoff(_ context.Context, values Values) {
	f.logger.Info("signup submitted",
		"email", values[FieldEmail],
		"role", values[FieldRole],
		"fields", len(values),
	)
}

// invalidPaths lists every node with its own failures. Callers hold mu.
func (f *Form) invalidPaths() []string {
	var paths []string
	if len(f.root.Errors()) > 0 {
		paths = append(paths, "")
	}
	form.Walk(f.root, func(path string, n form.Node) {
		if len(n.Errors()) > 0 {
			paths = append(paths, path)
		}
	})
	return paths
}

// Valid reports whether the whole form is valid.
func (f *Form) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.root.Valid()
}

// Value returns the flattened values.
func (f *Form) Value() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Values(form.Flatten(f.root))
}

// Get returns the value at path.
func (f *Form) Get(path string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.root.ValueOf(path)
}

// Errors returns the failure keys of the node at path.
func (f *Form) Errors(path string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.root.Find(path)
	if !ok {
		return nil
	}
	return form.ErrorKeys(n.Errors())
}

// ShowsInvalid reports whether the control at path is invalid, touched and
// dirty, the condition under which a view shows its error.
func (f *Form) ShowsInvalid(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.root.Control(path)
	return ok && c.ShowsInvalid()
}

// EmailIsInvalid reports whether the email field should show an error.
func (f *Form) EmailIsInvalid() bool {
	return f.ShowsInvalid(FieldEmail)
}

// PasswordIsInvalid reports whether the password field should show an error.
func (f *Form) PasswordIsInvalid() bool {
	return f.ShowsInvalid(FieldPassword)
}

// Subscribe registers fn for every value change. fn runs after the change
// is applied and may call back into the form.
func (f *Form) Subscribe(fn func(form.Change)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextListener++
	id := f.nextListener
	f.listeners = append(f.listeners, listener{id: id, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listeners = slices.DeleteFunc(f.listeners, func(l listener) bool {
			return l.id == id
		})
	}
}

// Flush writes a pending draft now. It reports whether one was pending.
func (f *Form) Flush() bool {
	if f.debouncer == nil {
		return false
	}
	return f.debouncer.Flush()
}

// Close drops any pending draft write and stops persistence.
// Call Flush first to keep the last change.
func (f *Form) Close() {
	if f.debouncer != nil {
		f.debouncer.Stop()
	}
}

// commit takes the collected changes, schedules the draft write with the
// email as it is now, and snapshots the listeners. Callers hold mu, which
// keeps draft writes in mutation order.
func (f *Form) commit() ([]form.Change, []listener) {
	changes := f.changes
	f.changes = nil
	if len(changes) == 0 {
		return nil, nil
	}

	if f.debouncer != nil {
		v, _ := f.root.ValueOf(FieldEmail)
		email, _ := v.(string)
		f.debouncer.Trigger(func() {
			f.persist(Draft{Email: email})
		})
	}
	return changes, slices.Clone(f.listeners)
}

// notify runs listeners. Callers must not hold mu.
func (f *Form) notify(changes []form.Change, listeners []listener) {
	f.metrics.recordChanges(len(changes))
	for _, c := range changes {
		for _, l := range listeners {
			l.fn(c)
		}
	}
}

// persist writes the draft. Failures are logged and counted, never retried.
func (f *Form) persist(d Draft) {
	ctx, cancel := context.WithTimeout(context.Background(), f.writeTO)
	defer cancel()

	ctx, span := f.tracer.Start(ctx, "signup.draft.save",
		trace.WithAttributes(attribute.String("signup.storage_key", f.key)))
	defer span.End()

	start := time.Now()
	err := SaveDraft(ctx, f.store, f.key, d)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.metrics.recordDraftWrite("error", elapsed)
		f.logger.Warn("draft write failed", "key", f.key, "error", err)
		return
	}
	f.metrics.recordDraftWrite("ok", elapsed)
	f.logger.Debug("draft saved", "key", f.key)
}
