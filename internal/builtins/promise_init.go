package builtins

import "jsengine/internal/engine"

// PromiseInitializer wires the Promise constructor and Promise.prototype
// over engine.PromiseData's pending/fulfilled/rejected state machine and
// the Context microtask queue every reaction runs through.
type PromiseInitializer struct{}

func (PromiseInitializer) Name() string  { return "Promise" }
func (PromiseInitializer) Priority() int { return 170 }

func init() { register(PromiseInitializer{}) }

func requirePromise(ctx *engine.Context, this engine.Value) (*engine.Object, error) {
	if !this.IsObject() || this.AsObject().Promise == nil {
		return nil, ctx.ThrowTypeError("method called on incompatible receiver")
	}
	return this.AsObject(), nil
}

func (PromiseInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	proto := r.PromisePrototype

	defineMethod(ctx, proto, "then", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requirePromise(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		derived := engine.ThenPromise(ctx, o, arg(args, 0), arg(args, 1))
		return engine.ObjectValue(derived), nil
	})
	defineMethod(ctx, proto, "catch", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requirePromise(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		derived := engine.ThenPromise(ctx, o, engine.Undefined, arg(args, 0))
		return engine.ObjectValue(derived), nil
	})
	defineMethod(ctx, proto, "finally", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requirePromise(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		onFinally := arg(args, 0)
		if !onFinally.IsCallable() {
			return engine.ObjectValue(engine.ThenPromise(ctx, o, onFinally, onFinally)), nil
		}
		wrapFulfill := method(r, "", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			v := arg(args, 0)
			if _, callErr := ctx.Call(onFinally, engine.Undefined, nil); callErr != nil {
				return engine.Undefined, callErr
			}
			return v, nil
		})
		wrapReject := method(r, "", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			reason := arg(args, 0)
			if _, callErr := ctx.Call(onFinally, engine.Undefined, nil); callErr != nil {
				return engine.Undefined, callErr
			}
			return engine.Undefined, ctx.ThrowValue(reason)
		})
		return engine.ObjectValue(engine.ThenPromise(ctx, o, wrapFulfill, wrapReject)), nil
	})

	ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "Promise", 1,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			executor := arg(args, 0)
			if !executor.IsCallable() {
				return engine.Undefined, ctx.ThrowTypeError("Promise resolver %s is not a function", executor.ToDisplayString())
			}
			p, resolve, reject := engine.NewPromiseCapability(ctx)
			resolveFn := method(r, "", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
				resolve(arg(args, 0))
				return engine.Undefined, nil
			})
			rejectFn := method(r, "", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
				reject(arg(args, 0))
				return engine.Undefined, nil
			})
			if _, err := ctx.Call(executor, engine.Undefined, []engine.Value{resolveFn, rejectFn}); err != nil {
				if ctx.HasException() {
					reject(ctx.ExceptionValue())
					ctx.ClearException()
				} else {
					return engine.Undefined, err
				}
			}
			return engine.ObjectValue(p), nil
		})
	ctor.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
	proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(ctor))

	defineStatic := func(name string, length int, impl engine.NativeImpl) {
		ctor.SetOwnNonEnumerable(name, method(r, name, length, impl))
	}
	defineStatic("resolve", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		v := arg(args, 0)
		if v.IsObject() && v.AsObject().Promise != nil {
			return v, nil
		}
		p, resolve, _ := engine.NewPromiseCapability(ctx)
		resolve(v)
		return engine.ObjectValue(p), nil
	})
	defineStatic("reject", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		p, _, reject := engine.NewPromiseCapability(ctx)
		reject(arg(args, 0))
		return engine.ObjectValue(p), nil
	})

	r.DefineGlobal("Promise", engine.ObjectValue(ctor))
	r.Constructors["Promise"] = engine.ObjectValue(ctor)
	return nil
}
