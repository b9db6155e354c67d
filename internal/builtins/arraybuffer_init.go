package builtins

import (
	"strings"

	"jsengine/internal/engine"
)

// ArrayBufferInitializer wires the ArrayBuffer constructor and
// ArrayBuffer.prototype (byteLength accessor, slice).
type ArrayBufferInitializer struct{}

func (ArrayBufferInitializer) Name() string  { return "ArrayBuffer" }
func (ArrayBufferInitializer) Priority() int { return 160 }

func init() { register(ArrayBufferInitializer{}) }

// throwFromBufferError maps the "TypeError: ..."/"RangeError: ..."
// prefixed errors the byte-level accessors in internal/engine return
// into the matching constructed Error object.
func throwFromBufferError(ctx *engine.Context, err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "TypeError: "):
		return ctx.ThrowTypeError(strings.TrimPrefix(msg, "TypeError: "))
	case strings.HasPrefix(msg, "RangeError: "):
		return ctx.ThrowRangeError(strings.TrimPrefix(msg, "RangeError: "))
	default:
		return ctx.ThrowTypeError(msg)
	}
}

func (ArrayBufferInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	proto := r.ArrayBufferPrototype

	requireBuffer := func(ctx *engine.Context, this engine.Value) (*engine.Object, error) {
		if !this.IsObject() || this.AsObject().Buffer == nil {
			return nil, ctx.ThrowTypeError("method called on incompatible receiver")
		}
		return this.AsObject(), nil
	}

	proto.DefineOwnProperty("byteLength", engine.PropertyDescriptor{
		HasGet: true, Get: method(r, "get byteLength", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			o, err := requireBuffer(ctx, this)
			if err != nil {
				return engine.Undefined, err
			}
			return engine.Int(o.Buffer.ByteLength()), nil
		}),
		HasEnumerable: true, Enumerable: false,
		HasConfigurable: true, Configurable: true,
	})
	defineMethod(ctx, proto, "slice", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireBuffer(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		n := o.Buffer.ByteLength()
		start := normalizeIndex(arg(args, 0), n, 0)
		end := normalizeIndex(arg(args, 1), n, n)
		bytes, err := o.Buffer.Slice(start, end)
		if err != nil {
			return engine.Undefined, throwFromBufferError(ctx, err)
		}
		out := engine.NewArrayBuffer(engine.ObjectValue(proto), len(bytes))
		copy(out.Buffer.Bytes(), bytes)
		return engine.ObjectValue(out), nil
	})

	ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "ArrayBuffer", 1,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			n := int(arg(args, 0).ToInteger())
			if n < 0 {
				return engine.Undefined, ctx.ThrowRangeError("Invalid array buffer length")
			}
			return engine.ObjectValue(engine.NewArrayBuffer(engine.ObjectValue(proto), n)), nil
		})
	ctor.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
	proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(ctor))
	ctor.SetOwnNonEnumerable("isView", method(r, "isView", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() {
			return engine.False, nil
		}
		o := v.AsObject()
		return engine.Bool(o.TypedArr != nil || o.DataView != nil), nil
	}))

	r.DefineGlobal("ArrayBuffer", engine.ObjectValue(ctor))
	r.Constructors["ArrayBuffer"] = engine.ObjectValue(ctor)
	return nil
}
