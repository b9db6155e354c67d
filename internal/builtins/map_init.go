package builtins

import "jsengine/internal/engine"

// MapInitializer wires the Map constructor and Map.prototype, backed by
// engine.orderedMap's SameValueZero-keyed insertion-order storage.
type MapInitializer struct{}

func (MapInitializer) Name() string  { return "Map" }
func (MapInitializer) Priority() int { return 130 }

func init() { register(MapInitializer{}) }

func (MapInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	proto := r.MapPrototype

	requireMap := func(ctx *engine.Context, this engine.Value) (*engine.Object, error) {
		if !this.IsObject() || this.AsObject().Map == nil {
			return nil, ctx.ThrowTypeError("method called on incompatible receiver")
		}
		return this.AsObject(), nil
	}

	defineMethod(ctx, proto, "get", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		v, ok := o.Map.Get(arg(args, 0))
		if !ok {
			return engine.Undefined, nil
		}
		return v, nil
	})
	defineMethod(ctx, proto, "set", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		o.Map.Set(arg(args, 0), arg(args, 1))
		return this, nil
	})
	defineMethod(ctx, proto, "has", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.Bool(o.Map.Has(arg(args, 0))), nil
	})
	defineMethod(ctx, proto, "delete", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.Bool(o.Map.Delete(arg(args, 0))), nil
	})
	defineMethod(ctx, proto, "clear", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		o.Map.Clear()
		return engine.Undefined, nil
	})
	defineMethod(ctx, proto, "forEach", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		cb := arg(args, 0)
		if !cb.IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Map.prototype.forEach requires a callback")
		}
		thisArg := arg(args, 1)
		var callErr error
		o.Map.ForEach(func(k, v engine.Value) {
			if callErr != nil {
				return
			}
			_, callErr = ctx.Call(cb, thisArg, []engine.Value{v, k, this})
		})
		return engine.Undefined, callErr
	})
	defineMethod(ctx, proto, "keys", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.ObjectValue(engine.NewMapIterator(r, o.Map, engine.ArrayIterKeys)), nil
	})
	defineMethod(ctx, proto, "values", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.ObjectValue(engine.NewMapIterator(r, o.Map, engine.ArrayIterValues)), nil
	})
	defineMethod(ctx, proto, "entries", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.ObjectValue(engine.NewMapIterator(r, o.Map, engine.ArrayIterEntries)), nil
	})
	defineMethod(ctx, proto, engine.WellKnownIteratorKey(), 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireMap(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.ObjectValue(engine.NewMapIterator(r, o.Map, engine.ArrayIterEntries)), nil
	})
	proto.DefineOwnProperty("size", engine.PropertyDescriptor{
		HasGet: true, Get: method(r, "get size", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			o, err := requireMap(ctx, this)
			if err != nil {
				return engine.Undefined, err
			}
			return engine.Int(o.Map.Size()), nil
		}),
		HasEnumerable: true, Enumerable: false,
		HasConfigurable: true, Configurable: true,
	})

	ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "Map", 0,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			m := engine.NewMapObject(engine.ObjectValue(proto))
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
					m.Map.Set(k, v)
				}
			}
			return engine.ObjectValue(m), nil
		})
	ctor.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
	proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(ctor))

	r.DefineGlobal("Map", engine.ObjectValue(ctor))
	r.Constructors["Map"] = engine.ObjectValue(ctor)
	return nil
}
