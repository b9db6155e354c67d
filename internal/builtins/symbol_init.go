package builtins

import "jsengine/internal/engine"

// SymbolInitializer wires the Symbol function (callable, not
// constructible), Symbol.for's global registry, and the well-known
// symbols this engine recognizes (iterator, toStringTag).
type SymbolInitializer struct{}

func (SymbolInitializer) Name() string  { return "Symbol" }
func (SymbolInitializer) Priority() int { return 105 }

func init() { register(SymbolInitializer{}) }

func (SymbolInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	proto := r.SymbolPrototype

	defineMethod(ctx, proto, "toString", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsSymbol() {
			return engine.Undefined, ctx.ThrowTypeError("Symbol.prototype.toString called on non-symbol")
		}
		return engine.String("Symbol(" + this.SymbolDescription() + ")"), nil
	})

	registry := map[string]engine.Value{}

	fn := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "Symbol", 0,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			desc := ""
			if !arg(args, 0).IsUndefined() {
				desc = arg(args, 0).ToDisplayString()
			}
			return engine.NewSymbol(desc), nil
		})
	fn.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
	fn.SetOwnNonEnumerable("for", method(r, "for", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		key := arg(args, 0).ToDisplayString()
		if existing, ok := registry[key]; ok {
			return existing, nil
		}
		s := engine.NewSymbol(key)
		registry[key] = s
		return s, nil
	}))

	iteratorSym := engine.NewSymbol("Symbol.iterator")
	toStringTagSym := engine.NewSymbol("Symbol.toStringTag")
	fn.SetOwnNonEnumerable("iterator", iteratorSym)
	fn.SetOwnNonEnumerable("toStringTag", toStringTagSym)

	r.DefineGlobal("Symbol", engine.ObjectValue(fn))
	r.Constructors["Symbol"] = engine.ObjectValue(fn)
	return nil
}
