package builtins

import "jsengine/internal/engine"

// ErrorInitializer wires the Error constructor and its five subtypes
// (TypeError/RangeError/ReferenceError/SyntaxError/URIError), all sharing
// Error.prototype's toString.
type ErrorInitializer struct{}

func (ErrorInitializer) Name() string  { return "Error" }
func (ErrorInitializer) Priority() int { return 120 }

func init() { register(ErrorInitializer{}) }

func (ErrorInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm

	defineMethod(ctx, r.ErrorPrototype, "toString", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsObject() {
			return engine.String("Error"), nil
		}
		return engine.String(this.AsObject().ToDisplayString()), nil
	})
	r.ErrorPrototype.SetOwnNonEnumerable("name", engine.String("Error"))
	r.ErrorPrototype.SetOwnNonEnumerable("message", engine.String(""))

	makeCtor := func(kind string, proto *engine.Object) *engine.Object {
		ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), kind, 1,
			func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
				msg := ""
				if !arg(args, 0).IsUndefined() {
					msg = arg(args, 0).ToDisplayString()
				}
				e := ctx.Realm.NewError(kind, msg)
				return engine.ObjectValue(e), nil
			})
		ctor.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
		proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(ctor))
		proto.SetOwnNonEnumerable("name", engine.String(kind))
		r.DefineGlobal(kind, engine.ObjectValue(ctor))
		r.Constructors[kind] = engine.ObjectValue(ctor)
		return ctor
	}

	makeCtor("Error", r.ErrorPrototype)
	makeCtor("TypeError", r.TypeErrorPrototype)
	makeCtor("RangeError", r.RangeErrorPrototype)
	makeCtor("ReferenceError", r.ReferenceErrorPrototype)
	makeCtor("SyntaxError", r.SyntaxErrorPrototype)
	makeCtor("URIError", r.URIErrorPrototype)
	return nil
}
