package builtins

import "jsengine/internal/engine"

// ArrayInitializer wires the Array constructor, Array.isArray, and the
// Array.prototype surface this engine treats as in-scope computed
// properties (iteration, not the full ECMA-262 method catalog).
type ArrayInitializer struct{}

func (ArrayInitializer) Name() string  { return "Array" }
func (ArrayInitializer) Priority() int { return 110 }

func init() { register(ArrayInitializer{}) }

func (ArrayInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	proto := r.ArrayPrototype

	defineMethod(ctx, proto, "push", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() {
			return engine.Undefined, ctx.ThrowTypeError("Array.prototype.push called on non-array")
		}
		arr := this.AsObject()
		n := arr.ArrayLength()
		for _, v := range args {
			arr.SetOwn(indexName(n), v, ctx.Call)
			n++
		}
		return engine.Int(int(n)), nil
	})
	defineMethod(ctx, proto, "pop", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() {
			return engine.Undefined, ctx.ThrowTypeError("Array.prototype.pop called on non-array")
		}
		arr := this.AsObject()
		n := arr.ArrayLength()
		if n == 0 {
			return engine.Undefined, nil
		}
		v := arr.ArrayGet(n - 1)
		arr.DeleteOwn(indexName(n - 1))
		arr.SetOwn("length", engine.Int(int(n-1)), ctx.Call)
		return v, nil
	})
	defineMethod(ctx, proto, "forEach", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() || !arg(args, 0).IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Array.prototype.forEach requires a callback")
		}
		arr := this.AsObject()
		cb := arg(args, 0)
		thisArg := arg(args, 1)
		n := arr.ArrayLength()
		for i := uint32(0); i < n; i++ {
			if !arr.HasOwn(indexName(i)) {
				continue // holes are skipped, not visited as undefined
			}
			if _, err := ctx.Call(cb, thisArg, []engine.Value{arr.ArrayGet(i), engine.Int(int(i)), this}); err != nil {
				return engine.Undefined, err
			}
		}
		return engine.Undefined, nil
	})
	defineMethod(ctx, proto, "map", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() || !arg(args, 0).IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Array.prototype.map requires a callback")
		}
		arr := this.AsObject()
		cb := arg(args, 0)
		thisArg := arg(args, 1)
		n := arr.ArrayLength()
		out := make([]engine.Value, n)
		for i := uint32(0); i < n; i++ {
			v, err := ctx.Call(cb, thisArg, []engine.Value{arr.ArrayGet(i), engine.Int(int(i)), this})
			if err != nil {
				return engine.Undefined, err
			}
			out[i] = v
		}
		return engine.ObjectValue(engine.NewArrayFromValues(engine.ObjectValue(proto), out)), nil
	})
	defineMethod(ctx, proto, "filter", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() || !arg(args, 0).IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("Array.prototype.filter requires a callback")
		}
		arr := this.AsObject()
		cb := arg(args, 0)
		thisArg := arg(args, 1)
		n := arr.ArrayLength()
		var out []engine.Value
		for i := uint32(0); i < n; i++ {
			if !arr.HasOwn(indexName(i)) {
				continue
			}
			v := arr.ArrayGet(i)
			keep, err := ctx.Call(cb, thisArg, []engine.Value{v, engine.Int(int(i)), this})
			if err != nil {
				return engine.Undefined, err
			}
			if keep.IsTruthy() {
				out = append(out, v)
			}
		}
		return engine.ObjectValue(engine.NewArrayFromValues(engine.ObjectValue(proto), out)), nil
	})
	defineMethod(ctx, proto, "includes", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() {
			return engine.False, nil
		}
		arr := this.AsObject()
		needle := arg(args, 0)
		n := arr.ArrayLength()
		for i := uint32(0); i < n; i++ {
			if arr.ArrayGet(i).Is(needle) {
				return engine.True, nil
			}
		}
		return engine.False, nil
	})
	defineMethod(ctx, proto, "indexOf", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() {
			return engine.Int(-1), nil
		}
		arr := this.AsObject()
		needle := arg(args, 0)
		n := arr.ArrayLength()
		for i := uint32(0); i < n; i++ {
			if arr.HasOwn(indexName(i)) && arr.ArrayGet(i).StrictlyEquals(needle) {
				return engine.Int(int(i)), nil
			}
		}
		return engine.Int(-1), nil
	})
	defineMethod(ctx, proto, "join", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() {
			return engine.String(""), nil
		}
		sep := ","
		if !arg(args, 0).IsUndefined() {
			sep = arg(args, 0).ToDisplayString()
		}
		arr := this.AsObject()
		n := arr.ArrayLength()
		out := ""
		for i := uint32(0); i < n; i++ {
			if i > 0 {
				out += sep
			}
			if arr.HasOwn(indexName(i)) {
				v := arr.ArrayGet(i)
				if !v.IsNullish() {
					out += v.ToDisplayString()
				}
			}
		}
		return engine.String(out), nil
	})
	defineMethod(ctx, proto, "slice", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() {
			return engine.Undefined, ctx.ThrowTypeError("Array.prototype.slice called on non-array")
		}
		arr := this.AsObject()
		n := int(arr.ArrayLength())
		start := normalizeIndex(arg(args, 0), n, 0)
		end := normalizeIndex(arg(args, 1), n, n)
		var out []engine.Value
		for i := start; i < end; i++ {
			out = append(out, arr.ArrayGet(uint32(i)))
		}
		return engine.ObjectValue(engine.NewArrayFromValues(engine.ObjectValue(proto), out)), nil
	})

	defineMethod(ctx, proto, engine.WellKnownIteratorKey(), 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		if !this.IsArray() {
			return engine.Undefined, ctx.ThrowTypeError("not an array")
		}
		return engine.ObjectValue(engine.NewArrayIterator(r, this.AsObject(), engine.ArrayIterValues)), nil
	})
	defineMethod(ctx, proto, "entries", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		return engine.ObjectValue(engine.NewArrayIterator(r, this.AsObject(), engine.ArrayIterEntries)), nil
	})
	defineMethod(ctx, proto, "keys", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		return engine.ObjectValue(engine.NewArrayIterator(r, this.AsObject(), engine.ArrayIterKeys)), nil
	})
	defineMethod(ctx, proto, "values", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		return engine.ObjectValue(engine.NewArrayIterator(r, this.AsObject(), engine.ArrayIterValues)), nil
	})

	ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "Array", 1,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			if len(args) == 1 && args[0].IsNumber() {
				n := args[0].ToUint32()
				a := engine.NewArray(engine.ObjectValue(proto))
				a.SetOwn("length", engine.Int(int(n)), ctx.Call)
				return engine.ObjectValue(a), nil
			}
			return engine.ObjectValue(engine.NewArrayFromValues(engine.ObjectValue(proto), args)), nil
		})
	ctor.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
	proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(ctor))
	ctor.SetOwnNonEnumerable("isArray", method(r, "isArray", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		return engine.Bool(arg(args, 0).IsArray()), nil
	}))

	r.DefineGlobal("Array", engine.ObjectValue(ctor))
	r.Constructors["Array"] = engine.ObjectValue(ctor)
	return nil
}

func indexName(i uint32) string {
	return engine.Int(int(i)).ToDisplayString()
}

func normalizeIndex(v engine.Value, length, def int) int {
	if v.IsUndefined() {
		return def
	}
	n := int(v.ToInteger())
	if n < 0 {
		n += length
	}
	if n < 0 {
		n = 0
	}
	if n > length {
		n = length
	}
	return n
}
