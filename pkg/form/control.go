package form

import (
	"reflect"

	"github.com/vango-dev/signup/internal/errors"
)

// Control is a single named input holding a string or bool value.
type Control struct {
	link
	initial    any
	value      any
	validators []Validator
	touched    bool
	dirty      bool
}

// NewControl creates a control with the given initial value.
// The initial value is restored by Reset.
func NewControl(initial any, validators ...Validator) *Control {
	return &Control{
		initial:    initial,
		value:      initial,
		validators: validators,
	}
}

// AddValidators appends validators to the control.
func (c *Control) AddValidators(validators ...Validator) {
	c.validators = append(c.validators, validators...)
}

// Value returns the current value.
func (c *Control) Value() any {
	return c.value
}

// Initial returns the construction-time value.
func (c *Control) Initial() any {
	return c.initial
}

// String returns the value as a string, or "" for non-string values.
func (c *Control) String() string {
	s, _ := c.value.(string)
	return s
}

// Bool returns the value as a bool, or false for non-bool values.
func (c *Control) Bool() bool {
	b, _ := c.value.(bool)
	return b
}

// SetValue updates the value, marks the control dirty and publishes a Change.
// A value whose type differs from the initial value's type is rejected,
// and so is nil once the control was built with a non-nil initial value.
func (c *Control) SetValue(value any) error {
	if c.initial != nil && (value == nil || reflect.TypeOf(c.initial) != reflect.TypeOf(value)) {
		return errors.New("E303").
			WithDetailf("%s expects %T, got %T", c.Path(), c.initial, value)
	}
	c.value = value
	c.dirty = true
	c.emit(Change{Path: c.Path(), Value: value})
	return nil
}

// MarkTouched records that the user focused and left the control.
func (c *Control) MarkTouched() {
	c.touched = true
}

// MarkAllTouched marks the control as touched.
func (c *Control) MarkAllTouched() {
	c.touched = true
}

// Errors runs every validator against the current value.
func (c *Control) Errors() []error {
	var errs []error
	for _, v := range c.validators {
		if err := v.Validate(c.value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Valid reports whether every validator passes.
func (c *Control) Valid() bool {
	for _, v := range c.validators {
		if v.Validate(c.value) != nil {
			return false
		}
	}
	return true
}

// Touched reports whether the control was touched.
func (c *Control) Touched() bool {
	return c.touched
}

// Dirty reports whether the control was changed.
func (c *Control) Dirty() bool {
	return c.dirty
}

// ShowsInvalid reports whether the control is invalid and the user has both
// touched and changed it. Views use it to decide when to show feedback.
func (c *Control) ShowsInvalid() bool {
	return c.touched && c.dirty && !c.Valid()
}

// Reset restores the initial value and clears interaction flags.
func (c *Control) Reset() {
	c.reset()
	c.emit(Change{Path: c.Path(), Value: c.value})
}

func (c *Control) reset() {
	c.value = c.initial
	c.touched = false
	c.dirty = false
}
