package builtins

import "jsengine/internal/engine"

// WeakInitializer wires WeakMap and WeakSet, backed by engine.weakTable
// (object-keyed, weak.Pointer-held, no iteration or size surface — per
// the WeakMap/WeakSet contract, which exists precisely to avoid exposing
// anything that would let a program observe collection timing).
type WeakInitializer struct{}

func (WeakInitializer) Name() string  { return "Weak" }
func (WeakInitializer) Priority() int { return 132 }

func init() { register(WeakInitializer{}) }

func requireWeakKey(ctx *engine.Context, v engine.Value) (*engine.Object, error) {
	if !v.IsObject() {
		return nil, ctx.ThrowTypeError("Invalid value used as weak key")
	}
	return v.AsObject(), nil
}

func (WeakInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm

	wmProto := r.WeakMapPrototype
	requireWeakMap := func(ctx *engine.Context, this engine.Value) (*engine.Object, error) {
		if !this.IsObject() || this.AsObject().Weak == nil {
			return nil, ctx.ThrowTypeError("method called on incompatible receiver")
		}
		return this.AsObject(), nil
	}
	defineMethod(ctx, wmProto, "get", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireWeakMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		key, err := requireWeakKey(ctx, arg(args, 0))
		if err != nil {
			return engine.Undefined, nil
		}
		v, ok := o.Weak.Get(key)
		if !ok {
			return engine.Undefined, nil
		}
		return v, nil
	})
	defineMethod(ctx, wmProto, "set", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireWeakMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		key, err := requireWeakKey(ctx, arg(args, 0))
		if err != nil {
			return engine.Undefined, err
		}
		o.Weak.Set(key, arg(args, 1))
		return this, nil
	})
	defineMethod(ctx, wmProto, "has", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireWeakMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		key, err := requireWeakKey(ctx, arg(args, 0))
		if err != nil {
			return engine.False, nil
		}
		return engine.Bool(o.Weak.Has(key)), nil
	})
	defineMethod(ctx, wmProto, "delete", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireWeakMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		key, err := requireWeakKey(ctx, arg(args, 0))
		if err != nil {
			return engine.False, nil
		}
		return engine.Bool(o.Weak.Delete(key)), nil
	})

	wmCtor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "WeakMap", 0,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			m := engine.NewWeakMapObject(engine.ObjectValue(wmProto))
			if iterable := arg(args, 0); !iterable.IsNullish() {
				iter, err := engine.GetIterator(ctx, iterable)
				if err != nil {
					return engine.Undefined, err
				}
				for {
					entry, done, err := engine.IteratorStep(ctx, iter)
					if err != nil {
						return engine.Undefined, err
					}
					if done {
						break
					}
					k, _ := engine.GetProperty(ctx, entry, "0", entry)
					v, _ := engine.GetProperty(ctx, entry, "1", entry)
					key, err := requireWeakKey(ctx, k)
					if err != nil {
						return engine.Undefined, err
					}
					m.Weak.Set(key, v)
				}
			}
			return engine.ObjectValue(m), nil
		})
	wmCtor.SetOwnNonEnumerable("prototype", engine.ObjectValue(wmProto))
	wmProto.SetOwnNonEnumerable("constructor", engine.ObjectValue(wmCtor))
	r.DefineGlobal("WeakMap", engine.ObjectValue(wmCtor))
	r.Constructors["WeakMap"] = engine.ObjectValue(wmCtor)

	wsProto := r.WeakSetPrototype
	requireWeakSet := func(ctx *engine.Context, this engine.Value) (*engine.Object, error) {
		if !this.IsObject() || this.AsObject().Weak == nil {
			return nil, ctx.ThrowTypeError("method called on incompatible receiver")
		}
		return this.AsObject(), nil
	}
	defineMethod(ctx, wsProto, "add", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireWeakSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		key, err := requireWeakKey(ctx, arg(args, 0))
		if err != nil {
			return engine.Undefined, err
		}
		o.Weak.Set(key, engine.Undefined)
		return this, nil
	})
	defineMethod(ctx, wsProto, "has", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireWeakSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		key, err := requireWeakKey(ctx, arg(args, 0))
		if err != nil {
			return engine.False, nil
		}
		return engine.Bool(o.Weak.Has(key)), nil
	})
	defineMethod(ctx, wsProto, "delete", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireWeakSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		key, err := requireWeakKey(ctx, arg(args, 0))
		if err != nil {
			return engine.False, nil
		}
		return engine.Bool(o.Weak.Delete(key)), nil
	})

	wsCtor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "WeakSet", 0,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			s := engine.NewWeakSetObject(engine.ObjectValue(wsProto))
			if iterable := arg(args, 0); !iterable.IsNullish() {
				iter, err := engine.GetIterator(ctx, iterable)
				if err != nil {
					return engine.Undefined, err
				}
				for {
					v, done, err := engine.IteratorStep(ctx, iter)
					if err != nil {
						return engine.Undefined, err
					}
					if done {
						break
					}
					key, err := requireWeakKey(ctx, v)
					if err != nil {
						return engine.Undefined, err
					}
					s.Weak.Set(key, engine.Undefined)
				}
			}
			return engine.ObjectValue(s), nil
		})
	wsCtor.SetOwnNonEnumerable("prototype", engine.ObjectValue(wsProto))
	wsProto.SetOwnNonEnumerable("constructor", engine.ObjectValue(wsCtor))
	r.DefineGlobal("WeakSet", engine.ObjectValue(wsCtor))
	r.Constructors["WeakSet"] = engine.ObjectValue(wsCtor)
	return nil
}
