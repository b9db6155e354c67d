package builtins

import "jsengine/internal/engine"

// ObjectInitializer wires the Object constructor, Object.prototype, and
// the static reflection surface (keys/values/entries/defineProperty/
// getOwnPropertyDescriptor/freeze/...) every other initializer's
// prototypes ultimately chain up to.
type ObjectInitializer struct{}

func (ObjectInitializer) Name() string  { return "Object" }
func (ObjectInitializer) Priority() int { return 100 }

func init() { register(ObjectInitializer{}) }

func (ObjectInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	proto := r.ObjectPrototype

	defineMethod(ctx, proto, "hasOwnProperty", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsObject() {
			return engine.False, nil
		}
		return engine.Bool(this.AsObject().HasOwn(arg(args, 0).ToDisplayString())), nil
	})
	defineMethod(ctx, proto, "isPrototypeOf", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if !this.IsObject() || !target.IsObject() {
			return engine.False, nil
		}
		for cur := target.AsObject().GetPrototype(); cur.IsObject(); cur = cur.AsObject().GetPrototype() {
			if cur.AsObject() == this.AsObject() {
				return engine.True, nil
			}
		}
		return engine.False, nil
	})
	defineMethod(ctx, proto, "propertyIsEnumerable", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsObject() {
			return engine.False, nil
		}
		d, ok := this.AsObject().GetOwnPropertyDescriptor(arg(args, 0).ToDisplayString())
		return engine.Bool(ok && d.Enumerable), nil
	})
	defineMethod(ctx, proto, "toString", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		return engine.String(this.ToDisplayString()), nil
	})
	defineMethod(ctx, proto, "valueOf", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		return this, nil
	})

	ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "Object", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		a := arg(args, 0)
		if a.IsNullish() {
			return engine.ObjectValue(engine.NewObject(engine.ObjectValue(proto))), nil
		}
		return a, nil
	})
	ctor.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
	proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(ctor))

	ctor.SetOwnNonEnumerable("keys", method(r, "keys", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return engine.Undefined, ctx.ThrowTypeError("Object.keys called on non-object")
		}
		keys := o.AsObject().OwnKeys()
		vals := make([]engine.Value, len(keys))
		for i, k := range keys {
			vals[i] = engine.String(k)
		}
		return engine.ObjectValue(engine.NewArrayFromValues(engine.ObjectValue(r.ArrayPrototype), vals)), nil
	}))
	ctor.SetOwnNonEnumerable("values", method(r, "values", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return engine.Undefined, ctx.ThrowTypeError("Object.values called on non-object")
		}
		keys := o.AsObject().OwnKeys()
		vals := make([]engine.Value, len(keys))
		for i, k := range keys {
			v, _ := engine.GetProperty(ctx, o, k, o)
			vals[i] = v
		}
		return engine.ObjectValue(engine.NewArrayFromValues(engine.ObjectValue(r.ArrayPrototype), vals)), nil
	}))
	ctor.SetOwnNonEnumerable("entries", method(r, "entries", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return engine.Undefined, ctx.ThrowTypeError("Object.entries called on non-object")
		}
		keys := o.AsObject().OwnKeys()
		vals := make([]engine.Value, len(keys))
		for i, k := range keys {
			v, _ := engine.GetProperty(ctx, o, k, o)
			pair := engine.NewArrayFromValues(engine.ObjectValue(r.ArrayPrototype), []engine.Value{engine.String(k), v})
			vals[i] = engine.ObjectValue(pair)
		}
		return engine.ObjectValue(engine.NewArrayFromValues(engine.ObjectValue(r.ArrayPrototype), vals)), nil
	}))
	ctor.SetOwnNonEnumerable("getOwnPropertyNames", method(r, "getOwnPropertyNames", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return engine.Undefined, ctx.ThrowTypeError("Object.getOwnPropertyNames called on non-object")
		}
		names, err := engine.OwnPropertyKeysOf(ctx, o)
		if err != nil {
			return engine.Undefined, err
		}
		vals := make([]engine.Value, len(names))
		for i, n := range names {
			vals[i] = engine.String(n)
		}
		return engine.ObjectValue(engine.NewArrayFromValues(engine.ObjectValue(r.ArrayPrototype), vals)), nil
	}))
	ctor.SetOwnNonEnumerable("getPrototypeOf", method(r, "getPrototypeOf", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return engine.Null, nil
		}
		return engine.ReflectGetPrototypeOf(ctx, o)
	}))
	ctor.SetOwnNonEnumerable("setPrototypeOf", method(r, "setPrototypeOf", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return o, nil
		}
		ok, err := engine.ReflectSetPrototypeOf(ctx, o, arg(args, 1))
		if err != nil {
			return engine.Undefined, err
		}
		if !ok {
			return engine.Undefined, ctx.ThrowTypeError("Object.setPrototypeOf failed")
		}
		return o, nil
	}))
	ctor.SetOwnNonEnumerable("create", method(r, "create", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		protoArg := arg(args, 0)
		if !protoArg.IsNull() && !protoArg.IsObject() {
			return engine.Undefined, ctx.ThrowTypeError("Object prototype may only be an Object or null")
		}
		o := engine.NewObject(protoArg)
		if props := arg(args, 1); props.IsObject() {
			for _, k := range props.AsObject().OwnKeys() {
				descVal, _ := engine.GetProperty(ctx, props, k, props)
				o.DefineOwnProperty(k, engine.ObjectToDescriptor(descVal))
			}
		}
		return engine.ObjectValue(o), nil
	}))
	ctor.SetOwnNonEnumerable("defineProperty", method(r, "defineProperty", 3, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return engine.Undefined, ctx.ThrowTypeError("Object.defineProperty called on non-object")
		}
		ok, err := engine.DefineProperty(ctx, o, arg(args, 1).ToDisplayString(), engine.ObjectToDescriptor(arg(args, 2)))
		if err != nil {
			return engine.Undefined, err
		}
		if !ok {
			return engine.Undefined, ctx.ThrowTypeError("Cannot define property, object is not extensible or property is not configurable")
		}
		return o, nil
	}))
	ctor.SetOwnNonEnumerable("getOwnPropertyDescriptor", method(r, "getOwnPropertyDescriptor", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return engine.Undefined, nil
		}
		d, found, err := engine.ReflectGetOwnPropertyDescriptor(ctx, o, arg(args, 1).ToDisplayString())
		if err != nil {
			return engine.Undefined, err
		}
		if !found {
			return engine.Undefined, nil
		}
		return engine.DescriptorToObject(ctx, d), nil
	}))
	ctor.SetOwnNonEnumerable("freeze", method(r, "freeze", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return o, nil
		}
		obj := o.AsObject()
		obj.PreventExtensions()
		for _, k := range obj.OwnPropertyNames() {
			d, ok := obj.GetOwnPropertyDescriptor(k)
			if !ok {
				continue
			}
			d.HasWritable, d.Writable = true, false
			d.HasConfigurable, d.Configurable = true, false
			obj.DefineOwnProperty(k, d)
		}
		return o, nil
	}))
	ctor.SetOwnNonEnumerable("isFrozen", method(r, "isFrozen", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return engine.True, nil
		}
		obj := o.AsObject()
		if obj.IsExtensible() {
			return engine.False, nil
		}
		for _, k := range obj.OwnPropertyNames() {
			d, _ := obj.GetOwnPropertyDescriptor(k)
			if d.Configurable || (d.HasWritable && d.Writable) {
				return engine.False, nil
			}
		}
		return engine.True, nil
	}))
	ctor.SetOwnNonEnumerable("preventExtensions", method(r, "preventExtensions", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if o.IsObject() {
			o.AsObject().PreventExtensions()
		}
		return o, nil
	}))
	ctor.SetOwnNonEnumerable("isExtensible", method(r, "isExtensible", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o := arg(args, 0)
		if !o.IsObject() {
			return engine.False, nil
		}
		return engine.Bool(o.AsObject().IsExtensible()), nil
	}))
	ctor.SetOwnNonEnumerable("assign", method(r, "assign", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if !target.IsObject() {
			return engine.Undefined, ctx.ThrowTypeError("Object.assign target must be an object")
		}
		for _, src := range args[1:] {
			if !src.IsObject() {
				continue
			}
			for _, k := range src.AsObject().OwnKeys() {
				v, _ := engine.GetProperty(ctx, src, k, src)
				if _, err := engine.SetProperty(ctx, target, k, v, target); err != nil {
					return engine.Undefined, err
				}
			}
		}
		return target, nil
	}))

	r.DefineGlobal("Object", engine.ObjectValue(ctor))
	r.Constructors["Object"] = engine.ObjectValue(ctor)
	return nil
}
