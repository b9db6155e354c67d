package builtins

import "jsengine/internal/engine"

// FunctionInitializer wires Function.prototype.call/apply/bind — the
// three operations spec.md's Function module names explicitly beyond
// plain [[Call]]/[[Construct]].
type FunctionInitializer struct{}

func (FunctionInitializer) Name() string  { return "Function" }
func (FunctionInitializer) Priority() int { return 150 }

func init() { register(FunctionInitializer{}) }

func (FunctionInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	proto := r.FunctionPrototype

	defineMethod(ctx, proto, "call", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Function.prototype.call called on non-function")
		}
		thisArg := arg(args, 0)
		var rest []engine.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return ctx.Call(this, thisArg, rest)
	})
	defineMethod(ctx, proto, "apply", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Function.prototype.apply called on non-function")
		}
		thisArg := arg(args, 0)
		argList := arg(args, 1)
		var rest []engine.Value
		if argList.IsArray() {
			arr := argList.AsObject()
			n := arr.ArrayLength()
			rest = make([]engine.Value, n)
			for i := uint32(0); i < n; i++ {
				rest[i] = arr.ArrayGet(i)
			}
		}
		return ctx.Call(this, thisArg, rest)
	})
	defineMethod(ctx, proto, "bind", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Function.prototype.bind called on non-function")
		}
		boundThis := arg(args, 0)
		var boundArgs []engine.Value
		if len(args) > 1 {
			boundArgs = append(boundArgs, args[1:]...)
		}
		bound := engine.NewBoundFunction(engine.ObjectValue(proto), this, boundThis, boundArgs)
		return engine.ObjectValue(bound), nil
	})
	defineMethod(ctx, proto, "toString", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		return engine.String(this.ToDisplayString()), nil
	})

	r.DefineGlobal("Function", engine.ObjectValue(engine.NewNativeFunction(engine.ObjectValue(proto), "Function", 1,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			return engine.Undefined, ctx.ThrowTypeError("the Function constructor cannot compile source text")
		})))
	return nil
}
