package engine

import "github.com/google/uuid"

// Realm is one global environment's intrinsics registry: every built-in
// prototype and constructor a Context running in this realm resolves
// against. Each Realm is independent — two realms never share an
// Object, mirroring the ECMAScript notion of a realm as a GC-isolated
// execution universe (a ShadowRealm-style embedding point this engine
// does not itself implement, but keeps realms ready for).
type Realm struct {
	ID string

	GlobalObject *Object
	GC           *GarbageCollector

	ObjectPrototype   *Object
	FunctionPrototype *Object
	ArrayPrototype    *Object

	ErrorPrototype          *Object
	TypeErrorPrototype      *Object
	RangeErrorPrototype     *Object
	ReferenceErrorPrototype *Object
	SyntaxErrorPrototype    *Object
	URIErrorPrototype       *Object

	MapPrototype     *Object
	SetPrototype     *Object
	WeakMapPrototype *Object
	WeakSetPrototype *Object

	IteratorPrototype       *Object
	ArrayIteratorPrototype  *Object
	StringIteratorPrototype *Object
	MapIteratorPrototype    *Object
	SetIteratorPrototype    *Object

	PromisePrototype *Object

	ArrayBufferPrototype *Object
	TypedArrayPrototype  *Object
	DataViewPrototype    *Object

	SymbolPrototype *Object

	Constructors map[string]Value
}

// NewRealm allocates a realm with every prototype wired to
// ObjectPrototype (or Null for ObjectPrototype itself; ErrorPrototype
// for the Error subtype prototypes; IteratorPrototype for the built-in
// iterator prototypes) but otherwise empty — internal/builtins populates constructors, methods and
// well-known properties on top of this skeleton.
func NewRealm() *Realm {
	r := &Realm{ID: uuid.NewString(), Constructors: make(map[string]Value)}

	r.ObjectPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: Null, extensible: true}

	mk := func() *Object {
		return &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.ObjectPrototype), extensible: true}
	}

	r.FunctionPrototype = mk()
	r.ArrayPrototype = &Object{Kind: KindArray, shape: RootShape, prototype: ObjectValue(r.ObjectPrototype), extensible: true, Array: newArrayData()}

	r.ErrorPrototype = mk()
	r.TypeErrorPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.ErrorPrototype), extensible: true}
	r.RangeErrorPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.ErrorPrototype), extensible: true}
	r.ReferenceErrorPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.ErrorPrototype), extensible: true}
	r.SyntaxErrorPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.ErrorPrototype), extensible: true}
	r.URIErrorPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.ErrorPrototype), extensible: true}

	r.MapPrototype = mk()
	r.SetPrototype = mk()
	r.WeakMapPrototype = mk()
	r.WeakSetPrototype = mk()

	r.IteratorPrototype = mk()
	r.ArrayIteratorPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.IteratorPrototype), extensible: true}
	r.StringIteratorPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.IteratorPrototype), extensible: true}
	r.MapIteratorPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.IteratorPrototype), extensible: true}
	r.SetIteratorPrototype = &Object{Kind: KindPlain, shape: RootShape, prototype: ObjectValue(r.IteratorPrototype), extensible: true}

	r.PromisePrototype = mk()

	r.ArrayBufferPrototype = mk()
	r.TypedArrayPrototype = mk()
	r.DataViewPrototype = mk()

	r.SymbolPrototype = mk()

	r.GlobalObject = NewObject(ObjectValue(r.ObjectPrototype))

	r.GC = NewGarbageCollector(r.gcRoots)

	return r
}

// gcRoots is the GarbageCollector's root-set callback for this realm:
// the global object plus every realm intrinsic (permanently reachable,
// but walked anyway so their own outgoing edges, e.g. prototype method
// closures, get traced).
func (r *Realm) gcRoots() []*Object {
	return []*Object{
		r.GlobalObject, r.ObjectPrototype, r.FunctionPrototype, r.ArrayPrototype,
		r.ErrorPrototype, r.TypeErrorPrototype, r.RangeErrorPrototype,
		r.ReferenceErrorPrototype, r.SyntaxErrorPrototype, r.URIErrorPrototype,
		r.MapPrototype, r.SetPrototype, r.WeakMapPrototype, r.WeakSetPrototype,
		r.IteratorPrototype, r.ArrayIteratorPrototype, r.StringIteratorPrototype,
		r.MapIteratorPrototype, r.SetIteratorPrototype,
		r.PromisePrototype, r.ArrayBufferPrototype, r.TypedArrayPrototype, r.DataViewPrototype,
		r.SymbolPrototype,
	}
}

// DefineGlobal installs name on the realm's global object as a writable,
// non-enumerable, configurable binding — the shape the builtin registry
// uses for every constructor and global function it exposes.
func (r *Realm) DefineGlobal(name string, value Value) {
	r.GlobalObject.SetOwnNonEnumerable(name, value)
}
