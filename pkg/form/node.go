package form

import (
	"strconv"
	"strings"
)

// Node is a control, group or array in a form tree.
type Node interface {
	// Value returns the current value: the raw value for a Control,
	// map[string]any for a Group and []any for an Array.
	Value() any

	// Valid reports whether the node and all of its descendants pass
	// their validators.
	Valid() bool

	// Errors returns the node's own failures. For groups and arrays these
	// are the group-level validator failures only.
	Errors() []error

	// Touched reports whether the node or any descendant was touched.
	Touched() bool

	// Dirty reports whether the node or any descendant was changed.
	Dirty() bool

	// Reset restores initial values, clears interaction flags and
	// publishes a single Change for the node.
	Reset()

	// MarkAllTouched marks the node and all descendants as touched.
	MarkAllTouched()

	// Path returns the dotted path from the root to the node.
	Path() string

	attach(parent container, name string)
	reset()
}

// Change describes a value change somewhere in a form tree.
type Change struct {
	// Path is the dotted path of the node that changed. Reset of the root
	// group reports an empty path.
	Path string

	// Value is the node's value after the change.
	Value any
}

// container is a node with addressable children.
type container interface {
	Node
	child(name string) (Node, bool)
	each(fn func(name string, n Node))
	notify(c Change)
}

// link connects a node to its parent.
type link struct {
	parent container
	name   string
}

func (l *link) attach(parent container, name string) {
	l.parent = parent
	l.name = name
}

func (l *link) Path() string {
	if l.parent == nil {
		return ""
	}
	if p := l.parent.Path(); p != "" {
		return p + "." + l.name
	}
	return l.name
}

func (l *link) emit(c Change) {
	if l.parent != nil {
		l.parent.notify(c)
	}
}

// find walks a dotted path below c.
func find(c container, path string) (Node, bool) {
	if path == "" {
		return c, true
	}
	var n Node = c
	for _, seg := range strings.Split(path, ".") {
		cur, ok := n.(container)
		if !ok {
			return nil, false
		}
		next, ok := cur.child(seg)
		if !ok {
			return nil, false
		}
		n = next
	}
	return n, true
}

// valueOf implements Lookup for containers.
func valueOf(c container, path string) (any, bool) {
	n, ok := find(c, path)
	if !ok {
		return nil, false
	}
	return n.Value(), true
}

// Walk calls fn for every descendant of n in declaration order, depth first,
// parents before children. Paths are relative to n.
func Walk(n Node, fn func(path string, n Node)) {
	c, ok := n.(container)
	if !ok {
		return
	}
	walk(c, "", fn)
}

func walk(c container, prefix string, fn func(path string, n Node)) {
	c.each(func(name string, child Node) {
		p := name
		if prefix != "" {
			p = prefix + "." + name
		}
		fn(p, child)
		if cc, ok := child.(container); ok {
			walk(cc, p, fn)
		}
	})
}

// Flatten returns the values of every Control below n keyed by dotted path.
func Flatten(n Node) map[string]any {
	out := make(map[string]any)
	if c, ok := n.(*Control); ok {
		out[c.Path()] = c.Value()
		return out
	}
	Walk(n, func(path string, child Node) {
		if c, ok := child.(*Control); ok {
			out[path] = c.Value()
		}
	})
	return out
}

// Controls returns the dotted paths of every Control below n in order.
func Controls(n Node) []string {
	var paths []string
	Walk(n, func(path string, child Node) {
		if _, ok := child.(*Control); ok {
			paths = append(paths, path)
		}
	})
	return paths
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
