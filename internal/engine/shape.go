package engine

import (
	"strconv"
	"sync"
)

// PropertyKeyKind distinguishes string-keyed from symbol-keyed fields in a
// Shape. Private (#name) fields never go through a Shape — they live in
// an Object's own privateFields map, since they are invisible to
// [[OwnPropertyKeys]] and never transition shapes shared with other
// objects.
type PropertyKeyKind uint8

const (
	KeyString PropertyKeyKind = iota
	KeySymbol
)

// Field describes one property slot recorded in a Shape: its key, storage
// offset, and attribute bits. Accessor properties still occupy a slot —
// the slot holds an *Accessor value rather than a data value.
type Field struct {
	KeyKind      PropertyKeyKind
	Name         string
	SymbolKey    Value
	Offset       int
	Writable     bool
	Enumerable   bool
	Configurable bool
	IsAccessor   bool
}

func (f Field) matchesKey(name string, sym Value, kind PropertyKeyKind) bool {
	if f.KeyKind != kind {
		return false
	}
	if kind == KeyString {
		return f.Name == name
	}
	return f.SymbolKey.Is(sym)
}

// Shape is one node of the immutable hidden-class transition tree shared
// by every object with the same sequence of property additions. Objects
// that add properties in the same order and with the same attributes
// converge on the same Shape, which is what lets an inline cache key on
// (Shape, offset) instead of walking property storage every time.
type Shape struct {
	parent      *Shape
	field       Field // the field this shape added over its parent (zero value for the root)
	fieldCount  int   // len(Fields()) without having to walk the chain
	mu          sync.RWMutex
	transitions map[string]*Shape
	version     uint32
}

// RootShape is the empty shape every new ordinary object starts from.
var RootShape = &Shape{}

func transitionKey(f Field) string {
	prefix := "s:"
	key := f.Name
	if f.KeyKind == KeySymbol && f.SymbolKey.sym != nil {
		prefix = "y:"
		key = strconv.FormatUint(f.SymbolKey.sym.id, 36)
	}
	attr := byte(0)
	if f.Writable {
		attr |= 1
	}
	if f.Enumerable {
		attr |= 2
	}
	if f.Configurable {
		attr |= 4
	}
	if f.IsAccessor {
		attr |= 8
	}
	return prefix + key + string(rune(attr))
}

// Transition returns the (possibly newly created) child shape that adds
// field to s. Shapes are immutable: once created a transition is cached
// and shared by every object that takes the same step.
func (s *Shape) Transition(f Field) *Shape {
	key := transitionKey(f)

	s.mu.RLock()
	if s.transitions != nil {
		if child, ok := s.transitions[key]; ok {
			s.mu.RUnlock()
			return child
		}
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transitions == nil {
		s.transitions = make(map[string]*Shape)
	}
	if child, ok := s.transitions[key]; ok {
		return child
	}
	f.Offset = s.fieldCount
	child := &Shape{parent: s, field: f, fieldCount: s.fieldCount + 1}
	s.transitions[key] = child
	return child
}

// Fields returns every field from the root to this shape, in addition
// order (root first).
func (s *Shape) Fields() []Field {
	out := make([]Field, s.fieldCount)
	for n := s; n.parent != nil; n = n.parent {
		out[n.fieldCount-1] = n.field
	}
	return out
}

// Find looks up a field by key along this shape's own chain, returning
// (field, true) or (zero, false). Cost is O(depth); callers on a hot path
// should go through the inline cache instead.
func (s *Shape) Find(name string, sym Value, kind PropertyKeyKind) (Field, bool) {
	for n := s; n.parent != nil; n = n.parent {
		if n.field.matchesKey(name, sym, kind) {
			return n.field, true
		}
	}
	return Field{}, false
}

// WithUpdatedField returns a shape identical to s except that the field
// matching the given key has its attributes replaced. This walks back to
// the point of divergence and rebuilds the tail, since a Shape's fields
// are otherwise immutable once created — mirrors how DefineOwnProperty
// changes an existing property's attributes without touching its slot
// offset.
func (s *Shape) WithUpdatedField(name string, sym Value, kind PropertyKeyKind, updated Field) *Shape {
	fields := s.Fields()
	for i := range fields {
		if fields[i].matchesKey(name, sym, kind) {
			fields[i] = updated
			break
		}
	}
	return buildShape(fields)
}

// WithoutField returns a shape with the named field removed, renumbering
// offsets for everything declared after it. Object.DeleteOwn does not
// call it; it rebuilds its shape the same way through rebuildWithout.
// This does not reuse the transition tree of s's ancestors, since
// removal is rare enough that sharing isn't worth the bookkeeping.
func (s *Shape) WithoutField(name string, sym Value, kind PropertyKeyKind) *Shape {
	fields := s.Fields()
	out := fields[:0:0]
	for _, f := range fields {
		if f.matchesKey(name, sym, kind) {
			continue
		}
		out = append(out, f)
	}
	return buildShape(out)
}

func buildShape(fields []Field) *Shape {
	s := RootShape
	for _, f := range fields {
		f.Offset = 0 // Transition recomputes the offset
		s = s.Transition(f)
	}
	return s
}
