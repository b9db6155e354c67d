package builtins

import "jsengine/internal/engine"

// arg returns args[i], or Undefined if the call did not supply enough
// arguments — every native implementation below uses this instead of
// indexing args directly, since JavaScript call sites are never arity
// checked before the callee runs.
func arg(args []engine.Value, i int) engine.Value {
	if i < len(args) {
		return args[i]
	}
	return engine.Undefined
}

func method(r *engine.Realm, name string, length int, impl engine.NativeImpl) engine.Value {
	return engine.ObjectValue(engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), name, length, impl))
}

func defineMethod(ctx *engine.Context, proto *engine.Object, name string, length int, impl engine.NativeImpl) {
	proto.SetOwnNonEnumerable(name, method(ctx.Realm, name, length, impl))
}
