package builtins

import "jsengine/internal/engine"

// ProxyInitializer wires the Proxy constructor and Proxy.revocable, both
// of which just stamp an engine.ProxyData pair — all trap dispatch lives
// in internal/engine's property-protocol functions already.
type ProxyInitializer struct{}

func (ProxyInitializer) Name() string  { return "Proxy" }
func (ProxyInitializer) Priority() int { return 140 }

func init() { register(ProxyInitializer{}) }

func requireProxyArgs(ctx *engine.Context, args []engine.Value) (engine.Value, engine.Value, error) {
	target, handler := arg(args, 0), arg(args, 1)
	if !target.IsObject() || !handler.IsObject() {
		return engine.Undefined, engine.Undefined, ctx.ThrowTypeError("Cannot create proxy with a non-object as target or handler")
	}
	return target, handler, nil
}

func (ProxyInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm

	ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "Proxy", 2,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			target, handler, err := requireProxyArgs(ctx, args)
			if err != nil {
				return engine.Undefined, err
			}
			return engine.ObjectValue(engine.NewProxy(target, handler)), nil
		})
	ctor.SetOwnNonEnumerable("revocable", method(r, "revocable", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		target, handler, err := requireProxyArgs(ctx, args)
		if err != nil {
			return engine.Undefined, err
		}
		p := engine.NewProxy(target, handler)
		revoke := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "", 0,
			func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
				p.Proxy.Revoked = true
				return engine.Undefined, nil
			})
		result := engine.NewObject(engine.ObjectValue(r.ObjectPrototype))
		result.SetOwnNonEnumerable("proxy", engine.ObjectValue(p))
		result.SetOwnNonEnumerable("revoke", engine.ObjectValue(revoke))
		return engine.ObjectValue(result), nil
	}))

	r.DefineGlobal("Proxy", engine.ObjectValue(ctor))
	r.Constructors["Proxy"] = engine.ObjectValue(ctor)
	return nil
}
