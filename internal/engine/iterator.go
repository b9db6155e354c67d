package engine

import "unicode/utf8"

// IteratorResult builds the {value, done} object IteratorNext returns,
// per the iterator result protocol every for-of loop and spread
// operation consumes.
func IteratorResult(ctx *Context, value Value, done bool) Value {
	o := NewObject(ObjectValue(ctx.Realm.ObjectPrototype))
	o.SetOwn("value", value, ctx.call)
	o.SetOwn("done", Bool(done), ctx.call)
	return ObjectValue(o)
}

// GetIterator implements the generic GetIterator(obj) abstract
// operation: look up @@iterator (modeled as the well-known string key
// "@@iterator" since this engine does not expose a separate Symbol
// registry entry point at this layer — internal/builtins wires the real
// Symbol.iterator value to this same key) and call it with obj as this.
func GetIterator(ctx *Context, obj Value) (Value, error) {
	method, err := GetProperty(ctx, obj, wellKnownIteratorKey, obj)
	if err != nil {
		return Undefined, err
	}
	if !method.IsCallable() {
		return Undefined, ctx.ThrowTypeError("value is not iterable")
	}
	return ctx.Call(method, obj, nil)
}

// wellKnownIteratorKey is the property name internal/builtins binds
// Symbol.iterator's value to on every iterable prototype.
const wellKnownIteratorKey = "@@iterator"

// WellKnownIteratorKey exposes the @@iterator property name so
// internal/builtins can bind Symbol.iterator's value to the same key
// every iterable prototype here already uses.
func WellKnownIteratorKey() string { return wellKnownIteratorKey }

// IteratorStep calls .next() on an iterator and returns (value, done).
func IteratorStep(ctx *Context, iterator Value) (Value, bool, error) {
	next, err := GetProperty(ctx, iterator, "next", iterator)
	if err != nil {
		return Undefined, true, err
	}
	if !next.IsCallable() {
		return Undefined, true, ctx.ThrowTypeError("iterator.next is not a function")
	}
	result, err := ctx.Call(next, iterator, nil)
	if err != nil {
		return Undefined, true, err
	}
	if !result.IsObject() {
		return Undefined, true, ctx.ThrowTypeError("iterator result is not an object")
	}
	done, _ := GetProperty(ctx, result, "done", result)
	value, _ := GetProperty(ctx, result, "value", result)
	return value, done.IsTruthy(), nil
}

// --- Array iterator ---

// ArrayIteratorKind selects which of values/keys/entries an Array
// iterator yields.
type ArrayIteratorKind uint8

const (
	ArrayIterValues ArrayIteratorKind = iota
	ArrayIterKeys
	ArrayIterEntries
)

type arrayIteratorState struct {
	target *Object
	index  uint32
	kind   ArrayIteratorKind
	done   bool
}

// NewArrayIterator creates a native iterator object over target's
// indices 0..length, honoring live length changes (an array mutated
// mid-iteration is observed by the iterator, per spec).
func NewArrayIterator(r *Realm, target *Object, kind ArrayIteratorKind) *Object {
	state := &arrayIteratorState{target: target, kind: kind}
	o := NewObject(ObjectValue(r.ArrayIteratorPrototype))
	attachNativeNext(r, o, func(ctx *Context) (Value, bool, error) {
		if state.done || state.index >= state.target.Array.length {
			state.done = true
			return Undefined, true, nil
		}
		idx := state.index
		state.index++
		switch state.kind {
		case ArrayIterKeys:
			return Int(int(idx)), false, nil
		case ArrayIterEntries:
			v := state.target.Array.elements[idx]
			pair := NewArrayFromValues(ObjectValue(r.ArrayPrototype), []Value{Int(int(idx)), v})
			return ObjectValue(pair), false, nil
		default:
			v := state.target.Array.elements[idx]
			return v, false, nil
		}
	})
	return o
}

// --- String iterator ---

// NewStringIterator creates a native iterator walking s by Unicode code
// point (not UTF-16 code unit), so astral-plane characters are yielded
// as a single string rather than split into a surrogate pair.
func NewStringIterator(r *Realm, s string) *Object {
	runes := []rune(s)
	idx := 0
	o := NewObject(ObjectValue(r.StringIteratorPrototype))
	attachNativeNext(r, o, func(ctx *Context) (Value, bool, error) {
		if idx >= len(runes) {
			return Undefined, true, nil
		}
		ch := runes[idx]
		idx++
		return String(string(ch)), false, nil
	})
	return o
}

// CodePointCount returns how many Unicode code points (iterator steps, as
// opposed to UTF-16 length) a string contains.
func CodePointCount(s string) int { return utf8.RuneCountInString(s) }

// --- Map / Set iterators ---

// NewMapIterator creates a native iterator over a Map's entries, keys, or
// values, in insertion order, skipping tombstoned (deleted) slots.
func NewMapIterator(r *Realm, m *orderedMap, kind ArrayIteratorKind) *Object {
	i := 0
	o := NewObject(ObjectValue(r.MapIteratorPrototype))
	attachNativeNext(r, o, func(ctx *Context) (Value, bool, error) {
		for i < len(m.keys) {
			idx := i
			i++
			if m.tombstoned[idx] {
				continue
			}
			switch kind {
			case ArrayIterKeys:
				return m.keys[idx], false, nil
			case ArrayIterEntries:
				pair := NewArrayFromValues(ObjectValue(r.ArrayPrototype), []Value{m.keys[idx], m.values[idx]})
				return ObjectValue(pair), false, nil
			default:
				return m.values[idx], false, nil
			}
		}
		return Undefined, true, nil
	})
	return o
}

// NewSetIterator creates a native iterator over a Set's entries, in
// insertion order. Set iterators always yield "entries" as [value,value]
// when kind==ArrayIterEntries, per the Set.prototype.entries contract.
func NewSetIterator(r *Realm, s *orderedMap, kind ArrayIteratorKind) *Object {
	i := 0
	o := NewObject(ObjectValue(r.SetIteratorPrototype))
	attachNativeNext(r, o, func(ctx *Context) (Value, bool, error) {
		for i < len(s.keys) {
			idx := i
			i++
			if s.tombstoned[idx] {
				continue
			}
			if kind == ArrayIterEntries {
				pair := NewArrayFromValues(ObjectValue(r.ArrayPrototype), []Value{s.keys[idx], s.keys[idx]})
				return ObjectValue(pair), false, nil
			}
			return s.keys[idx], false, nil
		}
		return Undefined, true, nil
	})
	return o
}

// attachNativeNext installs a "next" method on a freshly created
// iterator object implemented as a Go closure, and a "@@iterator" method
// returning the iterator itself — every built-in iterator is its own
// iterable, per the protocol.
func attachNativeNext(r *Realm, o *Object, step func(ctx *Context) (Value, bool, error)) {
	next := NewNativeFunction(ObjectValue(r.FunctionPrototype), "next", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		value, done, err := step(ctx)
		if err != nil {
			return Undefined, err
		}
		return IteratorResult(ctx, value, done), nil
	})
	o.SetOwnNonEnumerable("next", ObjectValue(next))
	self := NewNativeFunction(ObjectValue(r.FunctionPrototype), wellKnownIteratorKey, 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return this, nil
	})
	o.SetOwnNonEnumerable(wellKnownIteratorKey, ObjectValue(self))
}
