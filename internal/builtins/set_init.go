package builtins

import "jsengine/internal/engine"

// SetInitializer wires the Set constructor and Set.prototype, sharing
// engine.orderedMap with Map (values live as keys mapped to themselves).
type SetInitializer struct{}

func (SetInitializer) Name() string  { return "Set" }
func (SetInitializer) Priority() int { return 131 }

func init() { register(SetInitializer{}) }

func (SetInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	proto := r.SetPrototype

	requireSet := func(ctx *engine.Context, this engine.Value) (*engine.Object, error) {
		if !this.IsObject() || this.AsObject().Set == nil {
			return nil, ctx.ThrowTypeError("method called on incompatible receiver")
		}
		return this.AsObject(), nil
	}

	defineMethod(ctx, proto, "add", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		v := arg(args, 0)
		o.Set.Set(v, v)
		return this, nil
	})
	defineMethod(ctx, proto, "has", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.Bool(o.Set.Has(arg(args, 0))), nil
	})
	defineMethod(ctx, proto, "delete", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.Bool(o.Set.Delete(arg(args, 0))), nil
	})
	defineMethod(ctx, proto, "clear", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		o.Set.Clear()
		return engine.Undefined, nil
	})
	defineMethod(ctx, proto, "forEach", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		cb := arg(args, 0)
		if !cb.IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Set.prototype.forEach requires a callback")
		}
		thisArg := arg(args, 1)
		var callErr error
		o.Set.ForEach(func(k, _ engine.Value) {
			if callErr != nil {
				return
			}
			_, callErr = ctx.Call(cb, thisArg, []engine.Value{k, k, this})
		})
		return engine.Undefined, callErr
	})
	defineMethod(ctx, proto, "values", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.ObjectValue(engine.NewSetIterator(r, o.Set, engine.ArrayIterValues)), nil
	})
	defineMethod(ctx, proto, "keys", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.ObjectValue(engine.NewSetIterator(r, o.Set, engine.ArrayIterValues)), nil
	})
	defineMethod(ctx, proto, "entries", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.ObjectValue(engine.NewSetIterator(r, o.Set, engine.ArrayIterEntries)), nil
	})
	defineMethod(ctx, proto, engine.WellKnownIteratorKey(), 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireSet(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.ObjectValue(engine.NewSetIterator(r, o.Set, engine.ArrayIterValues)), nil
	})
	proto.DefineOwnProperty("size", engine.PropertyDescriptor{
		HasGet: true, Get: method(r, "get size", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			o, err := requireSet(ctx, this)
			if err != nil {
				return engine.Undefined, err
			}
			return engine.Int(o.Set.Size()), nil
		}),
		HasEnumerable: true, Enumerable: false,
		HasConfigurable: true, Configurable: true,
	})

	ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "Set", 0,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			s := engine.NewSetObject(engine.ObjectValue(proto))
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
					s.Set.Set(v, v)
				}
			}
			return engine.ObjectValue(s), nil
		})
	ctor.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
	proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(ctor))

	r.DefineGlobal("Set", engine.ObjectValue(ctor))
	r.Constructors["Set"] = engine.ObjectValue(ctor)
	return nil
}
