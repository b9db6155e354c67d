package builtins

import "jsengine/internal/engine"

// TypedArrayInitializer wires %TypedArray%.prototype (the shared
// supertype every concrete kind's prototype chains to) and each of the
// nine concrete constructors (Int8Array .. Float64Array).
type TypedArrayInitializer struct{}

func (TypedArrayInitializer) Name() string  { return "TypedArray" }
func (TypedArrayInitializer) Priority() int { return 161 }

func init() { register(TypedArrayInitializer{}) }

func requireTypedArray(ctx *engine.Context, this engine.Value) (*engine.Object, error) {
	if !this.IsObject() || this.AsObject().TypedArr == nil {
		return nil, ctx.ThrowTypeError("method called on incompatible receiver")
	}
	return this.AsObject(), nil
}

func (TypedArrayInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	shared := r.TypedArrayPrototype

	shared.DefineOwnProperty("length", engine.PropertyDescriptor{
		HasGet: true, Get: method(r, "get length", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			o, err := requireTypedArray(ctx, this)
			if err != nil {
				return engine.Undefined, err
			}
			return engine.Int(o.TypedArr.Length), nil
		}),
		HasEnumerable: true, Enumerable: false,
		HasConfigurable: true, Configurable: true,
	})
	defineMethod(ctx, shared, "fill", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireTypedArray(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		v := arg(args, 0).ToFloat()
		n := o.TypedArr.Length
		start := normalizeIndex(arg(args, 1), n, 0)
		end := normalizeIndex(arg(args, 2), n, n)
		for i := start; i < end; i++ {
			if err := o.TypedArr.Set(i, v); err != nil {
				return engine.Undefined, throwFromBufferError(ctx, err)
			}
		}
		return this, nil
	})
	defineMethod(ctx, shared, "forEach", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireTypedArray(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		cb := arg(args, 0)
		if !cb.IsCallable() {
			return engine.Undefined, ctx.ThrowTypeError("callback must be a function")
		}
		for i := 0; i < o.TypedArr.Length; i++ {
			v, err := o.TypedArr.Get(i)
			if err != nil {
				return engine.Undefined, throwFromBufferError(ctx, err)
			}
			if _, err := ctx.Call(cb, arg(args, 1), []engine.Value{engine.Number(v), engine.Int(i), this}); err != nil {
				return engine.Undefined, err
			}
		}
		return engine.Undefined, nil
	})
	defineMethod(ctx, shared, engine.WellKnownIteratorKey(), 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireTypedArray(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		i := 0
		iter := engine.NewObject(engine.ObjectValue(r.ArrayIteratorPrototype))
		next := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "next", 0,
			func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
				if i >= o.TypedArr.Length {
					return engine.IteratorResult(ctx, engine.Undefined, true), nil
				}
				v, err := o.TypedArr.Get(i)
				i++
				if err != nil {
					return engine.Undefined, throwFromBufferError(ctx, err)
				}
				return engine.IteratorResult(ctx, engine.Number(v), false), nil
			})
		iter.SetOwnNonEnumerable("next", engine.ObjectValue(next))
		return engine.ObjectValue(iter), nil
	})

	kinds := []struct {
		name string
		kind engine.TypedArrayKind
	}{
		{"Int8Array", engine.KindInt8},
		{"Uint8Array", engine.KindUint8},
		{"Uint8ClampedArray", engine.KindUint8Clamped},
		{"Int16Array", engine.KindInt16},
		{"Uint16Array", engine.KindUint16},
		{"Int32Array", engine.KindInt32},
		{"Uint32Array", engine.KindUint32},
		{"Float32Array", engine.KindFloat32},
		{"Float64Array", engine.KindFloat64},
	}

	for _, k := range kinds {
		kind := k.kind
		proto := engine.NewObject(engine.ObjectValue(shared))
		bpe := kind.BytesPerElement()

		ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), k.name, 1,
			func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
				first := arg(args, 0)
				switch {
				case first.IsNumber():
					n := int(first.ToInteger())
					if n < 0 {
						return engine.Undefined, ctx.ThrowRangeError("Invalid typed array length")
					}
					buf := engine.NewArrayBuffer(engine.ObjectValue(r.ArrayBufferPrototype), n*bpe)
					return engine.ObjectValue(engine.NewTypedArray(engine.ObjectValue(proto), kind, engine.ObjectValue(buf), 0, n)), nil
				case first.IsObject() && first.AsObject().Buffer != nil:
					buf := first.AsObject().Buffer
					byteOffset := int(arg(args, 1).ToInteger())
					length := (buf.ByteLength() - byteOffset) / bpe
					if !arg(args, 2).IsUndefined() {
						length = int(arg(args, 2).ToInteger())
					}
					if byteOffset < 0 || byteOffset+length*bpe > buf.ByteLength() {
						return engine.Undefined, ctx.ThrowRangeError("Invalid typed array length/offset")
					}
					return engine.ObjectValue(engine.NewTypedArray(engine.ObjectValue(proto), kind, first, byteOffset, length)), nil
				case first.IsArray():
					src := first.AsObject()
					n := int(src.ArrayLength())
					buf := engine.NewArrayBuffer(engine.ObjectValue(r.ArrayBufferPrototype), n*bpe)
					ta := engine.NewTypedArray(engine.ObjectValue(proto), kind, engine.ObjectValue(buf), 0, n)
					for i := 0; i < n; i++ {
						if err := ta.TypedArr.Set(i, src.ArrayGet(uint32(i)).ToFloat()); err != nil {
							return engine.Undefined, throwFromBufferError(ctx, err)
						}
					}
					return engine.ObjectValue(ta), nil
				default:
					buf := engine.NewArrayBuffer(engine.ObjectValue(r.ArrayBufferPrototype), 0)
					return engine.ObjectValue(engine.NewTypedArray(engine.ObjectValue(proto), kind, engine.ObjectValue(buf), 0, 0)), nil
				}
			})
		ctor.SetOwnNonEnumerable("BYTES_PER_ELEMENT", engine.Int(bpe))
		ctor.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
		proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(ctor))
		proto.SetOwnNonEnumerable("BYTES_PER_ELEMENT", engine.Int(bpe))

		r.DefineGlobal(k.name, engine.ObjectValue(ctor))
		r.Constructors[k.name] = engine.ObjectValue(ctor)
	}
	return nil
}
