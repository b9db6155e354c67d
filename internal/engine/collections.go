package engine

import (
	"strconv"
	"unsafe"
	"weak"
)

// hashKey produces the SameValueZero bucket key used by Map/Set/
// WeakMap/WeakSet: object identity for objects, and a type-tagged
// representation for primitives so that e.g. the number 1 and the
// string "1" never collide.
func hashKey(v Value) string {
	switch v.typ {
	case TypeUndefined:
		return "u"
	case TypeNull:
		return "n"
	case TypeBoolean:
		if v.num != 0 {
			return "b1"
		}
		return "b0"
	case TypeNumber:
		if v.num != v.num { // NaN: SameValueZero treats every NaN as identical
			return "d:NaN"
		}
		return "d:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case TypeString:
		return "s:" + v.str
	case TypeSymbol:
		return "y:" + strconv.FormatUint(v.sym.id, 36)
	case TypeObject:
		return "o:" + strconv.FormatUint(uint64(objectAddr(v.obj)), 36)
	}
	return ""
}

func objectAddr(o *Object) uintptr {
	return uintptr(unsafe.Pointer(o))
}

// orderedMap backs both Map (key+value) and Set (key only, value ==
// key), preserving insertion order the way the ECMAScript spec requires
// for iteration — a deleted-then-reinserted key goes to the back, and a
// deleted key leaves a tombstone so existing iterators don't skip over
// renumbered entries.
type orderedMap struct {
	index      map[string]int
	keys       []Value
	values     []Value
	tombstoned []bool
	liveCount  int
}

func newOrderedMap() *orderedMap {
	return &orderedMap{index: make(map[string]int)}
}

func (m *orderedMap) Get(key Value) (Value, bool) {
	i, ok := m.index[hashKey(key)]
	if !ok || m.tombstoned[i] {
		return Undefined, false
	}
	return m.values[i], true
}

func (m *orderedMap) Has(key Value) bool {
	i, ok := m.index[hashKey(key)]
	return ok && !m.tombstoned[i]
}

func (m *orderedMap) Set(key, value Value) {
	h := hashKey(key)
	if i, ok := m.index[h]; ok && !m.tombstoned[i] {
		m.values[i] = value
		return
	}
	m.index[h] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	m.tombstoned = append(m.tombstoned, false)
	m.liveCount++
}

func (m *orderedMap) Delete(key Value) bool {
	h := hashKey(key)
	i, ok := m.index[h]
	if !ok || m.tombstoned[i] {
		return false
	}
	m.tombstoned[i] = true
	delete(m.index, h)
	m.liveCount--
	return true
}

func (m *orderedMap) Clear() {
	m.index = make(map[string]int)
	m.keys = nil
	m.values = nil
	m.tombstoned = nil
	m.liveCount = 0
}

func (m *orderedMap) Size() int { return m.liveCount }

// ForEach walks live entries in insertion order.
func (m *orderedMap) ForEach(fn func(key, value Value)) {
	for i, k := range m.keys {
		if m.tombstoned[i] {
			continue
		}
		fn(k, m.values[i])
	}
}

// NewMapObject creates a KindMap object.
func NewMapObject(proto Value) *Object {
	return &Object{Kind: KindMap, shape: RootShape, prototype: proto, extensible: true, Map: newOrderedMap()}
}

// NewSetObject creates a KindSet object.
func NewSetObject(proto Value) *Object {
	return &Object{Kind: KindSet, shape: RootShape, prototype: proto, extensible: true, Set: newOrderedMap()}
}

// weakTable backs WeakMap/WeakSet: keys are held via weak.Pointer so the
// table never keeps an otherwise-unreachable key (or its value) alive,
// the property that makes it observably different from Map/Set under
// garbage collection.
type weakTable struct {
	entries map[*Object]weakEntry
}

type weakEntry struct {
	keyRef weak.Pointer[Object]
	value  Value // Undefined / absent for WeakSet
}

func newWeakTable() *weakTable {
	return &weakTable{entries: make(map[*Object]weakEntry)}
}

func (w *weakTable) Set(key *Object, value Value) {
	w.entries[key] = weakEntry{keyRef: weak.Make(key), value: value}
}

func (w *weakTable) Get(key *Object) (Value, bool) {
	e, ok := w.entries[key]
	if !ok || e.keyRef.Value() == nil {
		return Undefined, false
	}
	return e.value, true
}

func (w *weakTable) Has(key *Object) bool {
	e, ok := w.entries[key]
	return ok && e.keyRef.Value() != nil
}

func (w *weakTable) Delete(key *Object) bool {
	if _, ok := w.entries[key]; !ok {
		return false
	}
	delete(w.entries, key)
	return true
}

// Prune drops entries whose key has been collected by Go's GC — called
// opportunistically (e.g. alongside a minor collection) since a
// weak.Pointer going nil is the only signal available that a key died.
func (w *weakTable) Prune() {
	for k, e := range w.entries {
		if e.keyRef.Value() == nil {
			delete(w.entries, k)
		}
	}
}

// NewWeakMapObject creates a KindWeakMap object.
func NewWeakMapObject(proto Value) *Object {
	return &Object{Kind: KindWeakMap, shape: RootShape, prototype: proto, extensible: true, Weak: newWeakTable()}
}

// NewWeakSetObject creates a KindWeakSet object.
func NewWeakSetObject(proto Value) *Object {
	return &Object{Kind: KindWeakSet, shape: RootShape, prototype: proto, extensible: true, Weak: newWeakTable()}
}
