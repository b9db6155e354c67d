package builtins

import "jsengine/internal/engine"

// DataViewInitializer wires the DataView constructor and its
// endianness-parameterized get/set methods.
type DataViewInitializer struct{}

func (DataViewInitializer) Name() string  { return "DataView" }
func (DataViewInitializer) Priority() int { return 162 }

func init() { register(DataViewInitializer{}) }

func requireDataView(ctx *engine.Context, this engine.Value) (*engine.Object, error) {
	if !this.IsObject() || this.AsObject().DataView == nil {
		return nil, ctx.ThrowTypeError("method called on incompatible receiver")
	}
	return this.AsObject(), nil
}

func littleEndianArg(args []engine.Value, i int) bool {
	return arg(args, i).IsTruthy()
}

func (DataViewInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	proto := r.DataViewPrototype

	defineMethod(ctx, proto, "getUint8", 1, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireDataView(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		v, err := o.DataView.GetUint8(int(arg(args, 0).ToInteger()))
		if err != nil {
			return engine.Undefined, throwFromBufferError(ctx, err)
		}
		return engine.Int(int(v)), nil
	})
	defineMethod(ctx, proto, "setUint8", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireDataView(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		if err := o.DataView.SetUint8(int(arg(args, 0).ToInteger()), byte(int64(arg(args, 1).ToInteger()))); err != nil {
			return engine.Undefined, throwFromBufferError(ctx, err)
		}
		return engine.Undefined, nil
	})
	defineMethod(ctx, proto, "getInt16", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireDataView(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		v, err := o.DataView.GetInt16(int(arg(args, 0).ToInteger()), littleEndianArg(args, 1))
		if err != nil {
			return engine.Undefined, throwFromBufferError(ctx, err)
		}
		return engine.Int(int(v)), nil
	})
	defineMethod(ctx, proto, "setInt16", 3, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireDataView(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		v := int16(int64(arg(args, 1).ToInteger()))
		if err := o.DataView.SetInt16(int(arg(args, 0).ToInteger()), v, littleEndianArg(args, 2)); err != nil {
			return engine.Undefined, throwFromBufferError(ctx, err)
		}
		return engine.Undefined, nil
	})
	defineMethod(ctx, proto, "getUint32", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireDataView(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		v, err := o.DataView.GetUint32(int(arg(args, 0).ToInteger()), littleEndianArg(args, 1))
		if err != nil {
			return engine.Undefined, throwFromBufferError(ctx, err)
		}
		return engine.Number(float64(v)), nil
	})
	defineMethod(ctx, proto, "setUint32", 3, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireDataView(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		v := uint32(int64(arg(args, 1).ToInteger()))
		if err := o.DataView.SetUint32(int(arg(args, 0).ToInteger()), v, littleEndianArg(args, 2)); err != nil {
			return engine.Undefined, throwFromBufferError(ctx, err)
		}
		return engine.Undefined, nil
	})
	defineMethod(ctx, proto, "getFloat64", 2, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireDataView(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		v, err := o.DataView.GetFloat64(int(arg(args, 0).ToInteger()), littleEndianArg(args, 1))
		if err != nil {
			return engine.Undefined, throwFromBufferError(ctx, err)
		}
		return engine.Number(v), nil
	})
	defineMethod(ctx, proto, "setFloat64", 3, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		o, err := requireDataView(ctx, this)
		if err != nil {
			return engine.Undefined, err
		}
		if err := o.DataView.SetFloat64(int(arg(args, 0).ToInteger()), arg(args, 1).AsFloat(), littleEndianArg(args, 2)); err != nil {
			return engine.Undefined, throwFromBufferError(ctx, err)
		}
		return engine.Undefined, nil
	})

	proto.DefineOwnProperty("byteLength", engine.PropertyDescriptor{
		HasGet: true, Get: method(r, "get byteLength", 0, func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			o, err := requireDataView(ctx, this)
			if err != nil {
				return engine.Undefined, err
			}
			return engine.Int(o.DataView.ByteLength), nil
		}),
		HasEnumerable: true, Enumerable: false,
		HasConfigurable: true, Configurable: true,
	})

	ctor := engine.NewNativeFunction(engine.ObjectValue(r.FunctionPrototype), "DataView", 1,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			bufVal := arg(args, 0)
			if !bufVal.IsObject() || bufVal.AsObject().Buffer == nil {
				return engine.Undefined, ctx.ThrowTypeError("First argument to DataView constructor must be an ArrayBuffer")
			}
			buf := bufVal.AsObject().Buffer
			byteOffset := int(arg(args, 1).ToInteger())
			byteLength := buf.ByteLength() - byteOffset
			if !arg(args, 2).IsUndefined() {
				byteLength = int(arg(args, 2).ToInteger())
			}
			if byteOffset < 0 || byteLength < 0 || byteOffset+byteLength > buf.ByteLength() {
				return engine.Undefined, ctx.ThrowRangeError("Invalid DataView length")
			}
			return engine.ObjectValue(engine.NewDataView(engine.ObjectValue(proto), bufVal, byteOffset, byteLength)), nil
		})
	ctor.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
	proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(ctor))

	r.DefineGlobal("DataView", engine.ObjectValue(ctor))
	r.Constructors["DataView"] = engine.ObjectValue(ctor)
	return nil
}
