package form

import (
	"slices"
	"strconv"
)

// Array is an ordered list of nodes addressed by index ("source.0").
// The items passed to NewArray are its initial shape: Reset drops items
// appended later and brings back removed ones.
type Array struct {
	link
	items      []Node
	initial    []Node
	reshaped   bool
	validators []GroupValidator
}

// NewArray creates an array holding items.
func NewArray(items ...Node) *Array {
	a := &Array{initial: slices.Clone(items)}
	a.setItems(slices.Clone(items))
	return a
}

// AddValidators appends array-level validators.
func (a *Array) AddValidators(validators ...GroupValidator) {
	a.validators = append(a.validators, validators...)
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.items)
}

// At returns the item at index i, or nil when out of range.
func (a *Array) At(i int) Node {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Append adds an item to the end of the array, marks the array dirty and
// publishes a Change for it.
func (a *Array) Append(n Node) {
	n.attach(a, itoa(len(a.items)))
	a.items = append(a.items, n)
	a.reshaped = true
	a.notify(Change{Path: a.Path(), Value: a.Value()})
}

// RemoveAt removes the item at index i, re-indexes the rest, marks the
// array dirty and publishes a Change for it.
func (a *Array) RemoveAt(i int) {
	if i < 0 || i >= len(a.items) {
		return
	}
	a.items[i].attach(nil, "")
	a.setItems(slices.Delete(slices.Clone(a.items), i, i+1))
	a.reshaped = true
	a.notify(Change{Path: a.Path(), Value: a.Value()})
}

// setItems replaces the items and attaches each under its index.
func (a *Array) setItems(items []Node) {
	a.items = items
	for i, n := range items {
		n.attach(a, itoa(i))
	}
}

// ValueOf returns the current value at a dotted path below the array.
func (a *Array) ValueOf(path string) (any, bool) {
	return valueOf(a, path)
}

// Value returns the item values in order.
func (a *Array) Value() any {
	out := make([]any, len(a.items))
	for i, n := range a.items {
		out[i] = n.Value()
	}
	return out
}

// Errors runs the array-level validators.
func (a *Array) Errors() []error {
	var errs []error
	for _, v := range a.validators {
		if err := v.ValidateGroup(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Valid reports whether all items and array validators pass.
func (a *Array) Valid() bool {
	for _, n := range a.items {
		if !n.Valid() {
			return false
		}
	}
	return len(a.Errors()) == 0
}

// Touched reports whether any item was touched.
func (a *Array) Touched() bool {
	for _, n := range a.items {
		if n.Touched() {
			return true
		}
	}
	return false
}

// Dirty reports whether items were appended or removed, or any item was
// changed.
func (a *Array) Dirty() bool {
	if a.reshaped {
		return true
	}
	for _, n := range a.items {
		if n.Dirty() {
			return true
		}
	}
	return false
}

// MarkAllTouched marks every item as touched.
func (a *Array) MarkAllTouched() {
	for _, n := range a.items {
		n.MarkAllTouched()
	}
}

// Reset restores the items NewArray was given, resets each of them and
// publishes one Change for the array.
func (a *Array) Reset() {
	a.reset()
	a.notify(Change{Path: a.Path(), Value: a.Value()})
}

func (a *Array) reset() {
	for _, n := range a.items {
		if !slices.Contains(a.initial, n) {
			n.attach(nil, "")
		}
	}
	a.setItems(slices.Clone(a.initial))
	a.reshaped = false
	for _, n := range a.items {
		n.reset()
	}
}

// child resolves canonical indices only: "1" but not "01" or "+1".
func (a *Array) child(name string) (Node, bool) {
	i, err := strconv.Atoi(name)
	if err != nil || i < 0 || i >= len(a.items) || itoa(i) != name {
		return nil, false
	}
	return a.items[i], true
}

func (a *Array) each(fn func(name string, n Node)) {
	for i, n := range a.items {
		fn(itoa(i), n)
	}
}

func (a *Array) notify(c Change) {
	a.emit(c)
}
