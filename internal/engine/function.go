package engine

import "fmt"

// Evaluator is the single back-edge into whatever runs source code. The
// engine never parses or walks an AST itself — a source-bodied function
// just stores an opaque Body reference and an Environment, and invoking
// it calls back out through this function.
type Evaluator func(body interface{}, env *Environment, this Value, newTarget Value, args []Value) (Value, error)

// NativeImpl is the Go-level implementation of a builtin function.
type NativeImpl func(ctx *Context, this Value, args []Value) (Value, error)

// FunctionData is the payload of a KindFunction or KindBoundFunction
// object. Exactly one of Native, Body, or BoundTarget is set, selecting which
// of [[Call]]'s three shapes applies.
type FunctionData struct {
	Name   string
	Length int // declared parameter count, for the non-configurable "length" property

	// Native functions call straight into Go.
	Native NativeImpl

	// Source-bodied functions store an opaque AST/closure reference and
	// the lexical environment they close over; calling them invokes the
	// Evaluator the owning Realm was constructed with.
	Body      interface{}
	Closure   *Environment
	Evaluator Evaluator
	IsArrow   bool
	IsGenerator bool
	IsAsync     bool

	// Bound functions wrap a target with a fixed this and prefix args.
	BoundTarget Value
	BoundThis   Value
	BoundArgs   []Value

	// Constructible functions get a "prototype" object for [[Construct]]
	// to set new instances' prototype to.
	HomePrototype Value
	IsClassConstructor bool
}

// NewNativeFunction builds a KindFunction object wrapping a Go
// implementation, the shape every builtin constructor/method uses.
func NewNativeFunction(proto Value, name string, length int, impl NativeImpl) *Object {
	o := &Object{
		Kind:       KindFunction,
		shape:      RootShape,
		prototype:  proto,
		extensible: true,
		Fn:         &FunctionData{Name: name, Length: length, Native: impl},
	}
	o.SetOwnNonEnumerable("name", String(name))
	o.SetOwnNonEnumerable("length", Int(length))
	return o
}

// NewFunction builds a KindFunction object for a source-bodied function.
func NewFunction(proto Value, name string, length int, body interface{}, closure *Environment, eval Evaluator) *Object {
	o := &Object{
		Kind:       KindFunction,
		shape:      RootShape,
		prototype:  proto,
		extensible: true,
		Fn: &FunctionData{
			Name: name, Length: length, Body: body, Closure: closure, Evaluator: eval,
		},
	}
	o.SetOwnNonEnumerable("name", String(name))
	o.SetOwnNonEnumerable("length", Int(length))
	return o
}

// NewBoundFunction implements Function.prototype.bind's [[Construct]]
// and [[Call]] delegation semantics.
func NewBoundFunction(proto Value, target Value, boundThis Value, boundArgs []Value) *Object {
	name := "bound"
	if target.IsObject() && target.obj.Fn != nil {
		name = "bound " + target.obj.Fn.Name
	}
	length := 0
	if target.IsObject() && target.obj.Fn != nil {
		length = target.obj.Fn.Length - len(boundArgs)
		if length < 0 {
			length = 0
		}
	}
	o := &Object{
		Kind:       KindBoundFunction,
		shape:      RootShape,
		prototype:  proto,
		extensible: true,
		Fn: &FunctionData{
			Name: name, Length: length,
			BoundTarget: target, BoundThis: boundThis, BoundArgs: boundArgs,
		},
	}
	o.SetOwnNonEnumerable("name", String(name))
	o.SetOwnNonEnumerable("length", Int(length))
	return o
}

// Call implements [[Call]]. this is the receiver the caller supplied
// (already coerced by the caller if needed); args is the argument list.
func (o *Object) Call(ctx *Context, this Value, args []Value) (Value, error) {
	if o.Kind != KindFunction && o.Kind != KindBoundFunction {
		return Undefined, fmt.Errorf("TypeError: value is not a function")
	}
	fn := o.Fn
	switch {
	case fn.Native != nil:
		return fn.Native(ctx, this, args)
	case fn.BoundTarget.IsObject():
		callArgs := append(append([]Value{}, fn.BoundArgs...), args...)
		return fn.BoundTarget.obj.Call(ctx, fn.BoundThis, callArgs)
	default:
		if fn.Evaluator == nil {
			return Undefined, fmt.Errorf("TypeError: function has no body")
		}
		callEnv := NewFunctionEnvironment(fn.Closure)
		return fn.Evaluator(fn.Body, callEnv, this, Undefined, args)
	}
}

// Construct implements [[Construct]]. newTarget is the function
// originally targeted by `new` (relevant for derived-class super calls);
// for an ordinary `new F()` it equals o's own value.
func (o *Object) Construct(ctx *Context, args []Value, newTarget Value) (Value, error) {
	if o.Kind != KindFunction && o.Kind != KindBoundFunction {
		return Undefined, fmt.Errorf("TypeError: value is not a constructor")
	}
	fn := o.Fn
	if fn.BoundTarget.IsObject() {
		callArgs := append(append([]Value{}, fn.BoundArgs...), args...)
		return fn.BoundTarget.obj.Construct(ctx, callArgs, newTarget)
	}
	proto := fn.HomePrototype
	if !proto.IsObject() {
		proto = ObjectValue(ctx.Realm.ObjectPrototype)
	}
	instance := ObjectValue(NewObject(proto))

	if fn.Native != nil {
		result, err := fn.Native(ctx, instance, args)
		if err != nil {
			return Undefined, err
		}
		if result.IsObject() {
			return result, nil
		}
		return instance, nil
	}
	if fn.Evaluator == nil {
		return Undefined, fmt.Errorf("TypeError: function has no body")
	}
	callEnv := NewFunctionEnvironment(fn.Closure)
	result, err := fn.Evaluator(fn.Body, callEnv, instance, newTarget, args)
	if err != nil {
		return Undefined, err
	}
	if result.IsObject() {
		return result, nil
	}
	return instance, nil
}
