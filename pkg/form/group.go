package form

import (
	"fmt"
	"strings"

	"github.com/vango-dev/signup/internal/errors"
)

// Group is a named collection of nodes with optional cross-field validators.
// A group is valid when every child is valid and every group validator passes.
type Group struct {
	link
	names      []string
	children   map[string]Node
	validators []GroupValidator

	subs    []subscription
	nextSub uint64
}

type subscription struct {
	id uint64
	fn func(Change)
}

// NewGroup creates an empty group.
func NewGroup(validators ...GroupValidator) *Group {
	return &Group{
		children:   make(map[string]Node),
		validators: validators,
	}
}

// Add appends a named child and returns the group for chaining.
// Adding an existing name replaces the child in place.
func (g *Group) Add(name string, n Node) *Group {
	if name == "" || strings.Contains(name, ".") {
		panic(fmt.Sprintf("form: invalid child name %q", name))
	}
	if _, exists := g.children[name]; !exists {
		g.names = append(g.names, name)
	}
	g.children[name] = n
	n.attach(g, name)
	return g
}

// AddValidators appends group-level validators.
func (g *Group) AddValidators(validators ...GroupValidator) {
	g.validators = append(g.validators, validators...)
}

// Names returns child names in declaration order.
func (g *Group) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Find returns the node at a dotted path below the group.
func (g *Group) Find(path string) (Node, bool) {
	return find(g, path)
}

// Control returns the control at a dotted path.
func (g *Group) Control(path string) (*Control, bool) {
	n, ok := find(g, path)
	if !ok {
		return nil, false
	}
	c, ok := n.(*Control)
	return c, ok
}

// ValueOf returns the current value at a dotted path.
func (g *Group) ValueOf(path string) (any, bool) {
	return valueOf(g, path)
}

// Set updates the control at path. Unknown paths and non-control nodes
// are reported as E301.
func (g *Group) Set(path string, value any) error {
	c, ok := g.Control(path)
	if !ok {
		return errors.New("E301").WithDetailf("no control at %q", path)
	}
	return c.SetValue(value)
}

// Touch marks the control at path as touched.
func (g *Group) Touch(path string) error {
	c, ok := g.Control(path)
	if !ok {
		return errors.New("E301").WithDetailf("no control at %q", path)
	}
	c.MarkTouched()
	return nil
}

// Value returns the group's values keyed by child name.
func (g *Group) Value() any {
	out := make(map[string]any, len(g.names))
	for _, name := range g.names {
		out[name] = g.children[name].Value()
	}
	return out
}

// Errors runs the group-level validators.
func (g *Group) Errors() []error {
	var errs []error
	for _, v := range g.validators {
		if err := v.ValidateGroup(g); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Valid reports whether all children and group validators pass.
func (g *Group) Valid() bool {
	for _, name := range g.names {
		if !g.children[name].Valid() {
			return false
		}
	}
	for _, v := range g.validators {
		if v.ValidateGroup(g) != nil {
			return false
		}
	}
	return true
}

// Touched reports whether any child was touched.
func (g *Group) Touched() bool {
	for _, name := range g.names {
		if g.children[name].Touched() {
			return true
		}
	}
	return false
}

// Dirty reports whether any child was changed.
func (g *Group) Dirty() bool {
	for _, name := range g.names {
		if g.children[name].Dirty() {
			return true
		}
	}
	return false
}

// MarkAllTouched marks every descendant as touched.
func (g *Group) MarkAllTouched() {
	for _, name := range g.names {
		g.children[name].MarkAllTouched()
	}
}

// Reset restores every descendant and publishes one Change for the group.
func (g *Group) Reset() {
	g.reset()
	g.notify(Change{Path: g.Path(), Value: g.Value()})
}

func (g *Group) reset() {
	for _, name := range g.names {
		g.children[name].reset()
	}
}

// Subscribe registers fn to be called after every change at or below the
// group. The returned function removes the subscription.
func (g *Group) Subscribe(fn func(Change)) (unsubscribe func()) {
	g.nextSub++
	id := g.nextSub
	g.subs = append(g.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range g.subs {
			if s.id == id {
				g.subs = append(g.subs[:i:i], g.subs[i+1:]...)
				return
			}
		}
	}
}

func (g *Group) child(name string) (Node, bool) {
	n, ok := g.children[name]
	return n, ok
}

func (g *Group) each(fn func(name string, n Node)) {
	for _, name := range g.names {
		fn(name, g.children[name])
	}
}

func (g *Group) notify(c Change) {
	subs := make([]subscription, len(g.subs))
	copy(subs, g.subs)
	for _, s := range subs {
		s.fn(c)
	}
	g.emit(c)
}
