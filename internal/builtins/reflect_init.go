package builtins

import "jsengine/internal/engine"

// ReflectInitializer wires the Reflect namespace object, a thin wrapper
// over the same property-protocol functions Object's static methods and
// Proxy's trap dispatch already use.
type ReflectInitializer struct{}

func (ReflectInitializer) Name() string  { return "Reflect" }
func (ReflectInitializer) Priority() int { return 141 }

func init() { register(ReflectInitializer{}) }

func requireReflectTarget(ctx *engine.Context, v engine.Value) error {
	if !v.IsObject() {
		return ctx.ThrowTypeError("Reflect target must be an object")
	}
	return nil
}

func (ReflectInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	ns := engine.NewObject(engine.ObjectValue(r.ObjectPrototype))

	ns.SetOwnNonEnumerable("get", method(r, "get", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		receiver := target
		if len(args) > 2 {
			receiver = args[2]
		}
		return engine.GetProperty(ctx, target, arg(args, 1).ToDisplayString(), receiver)
	}))
	ns.SetOwnNonEnumerable("set", method(r, "set", 3, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		receiver := target
		if len(args) > 3 {
			receiver = args[3]
		}
		ok, err := engine.SetProperty(ctx, target, arg(args, 1).ToDisplayString(), arg(args, 2), receiver)
		return engine.Bool(ok), err
	}))
	ns.SetOwnNonEnumerable("has", method(r, "has", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		ok, err := engine.HasProperty(ctx, target, arg(args, 1).ToDisplayString())
		return engine.Bool(ok), err
	}))
	ns.SetOwnNonEnumerable("deleteProperty", method(r, "deleteProperty", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		ok, err := engine.DeleteProperty(ctx, target, arg(args, 1).ToDisplayString())
		return engine.Bool(ok), err
	}))
	ns.SetOwnNonEnumerable("defineProperty", method(r, "defineProperty", 3, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		ok, err := engine.DefineProperty(ctx, target, arg(args, 1).ToDisplayString(), engine.ObjectToDescriptor(arg(args, 2)))
		return engine.Bool(ok), err
	}))
	ns.SetOwnNonEnumerable("getOwnPropertyDescriptor", method(r, "getOwnPropertyDescriptor", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		d, found, err := engine.ReflectGetOwnPropertyDescriptor(ctx, target, arg(args, 1).ToDisplayString())
		if err != nil {
			return engine.Undefined, err
		}
		if !found {
			return engine.Undefined, nil
		}
		return engine.DescriptorToObject(ctx, d), nil
	}))
	ns.SetOwnNonEnumerable("ownKeys", method(r, "ownKeys", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		keys, err := engine.ReflectOwnKeys(ctx, target)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.ObjectValue(engine.NewArrayFromValues(engine.ObjectValue(r.ArrayPrototype), keys)), nil
	}))
	ns.SetOwnNonEnumerable("getPrototypeOf", method(r, "getPrototypeOf", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		return engine.ReflectGetPrototypeOf(ctx, target)
	}))
	ns.SetOwnNonEnumerable("setPrototypeOf", method(r, "setPrototypeOf", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		ok, err := engine.ReflectSetPrototypeOf(ctx, target, arg(args, 1))
		return engine.Bool(ok), err
	}))
	ns.SetOwnNonEnumerable("isExtensible", method(r, "isExtensible", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		ok, err := engine.ReflectIsExtensible(ctx, target)
		return engine.Bool(ok), err
	}))
	ns.SetOwnNonEnumerable("preventExtensions", method(r, "preventExtensions", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if err := requireReflectTarget(ctx, target); err != nil {
			return engine.Undefined, err
		}
		ok, err := engine.ReflectPreventExtensions(ctx, target)
		return engine.Bool(ok), err
	}))
	ns.SetOwnNonEnumerable("apply", method(r, "apply", 3, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if !target.IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Reflect.apply target must be callable")
		}
		thisArg := arg(args, 1)
		argList := arg(args, 2)
		var rest []engine.Value
		if argList.IsArray() {
			a := argList.AsObject()
			n := a.ArrayLength()
			rest = make([]engine.Value, n)
			for i := uint32(0); i < n; i++ {
				rest[i] = a.ArrayGet(i)
			}
		}
		return ctx.Call(target, thisArg, rest)
	}))
	ns.SetOwnNonEnumerable("construct", method(r, "construct", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target := arg(args, 0)
		if !target.IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Reflect.construct target must be a constructor")
		}
		argList := arg(args, 1)
		var rest []engine.Value
		if argList.IsArray() {
			a := argList.AsObject()
			n := a.ArrayLength()
			rest = make([]engine.Value, n)
			for i := uint32(0); i < n; i++ {
				rest[i] = a.ArrayGet(i)
			}
		}
		newTarget := target
		if len(args) > 2 {
			newTarget = args[2]
		}
		return ctx.Construct(target, rest, newTarget)
	}))

	r.DefineGlobal("Reflect", engine.ObjectValue(ns))
	return nil
}
