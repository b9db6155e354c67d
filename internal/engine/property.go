package engine

import "fmt"

// call is the Caller adapter bound to this context — every accessor
// invocation inside the object model threads through here so getters/
// setters can themselves throw/return through the same Context.
func (c *Context) call(fn Value, this Value, args []Value) (Value, error) {
	if !fn.IsCallable() {
		return Undefined, fmt.Errorf("TypeError: value is not a function")
	}
	return fn.obj.Call(c, this, args)
}

// Call invokes a callable value, enforcing the execution-depth limit via
// the Context's frame stack.
func (c *Context) Call(fn Value, this Value, args []Value) (Value, error) {
	if !fn.IsCallable() {
		return Undefined, c.ThrowTypeError("value is not a function")
	}
	name := ""
	if fn.obj.Fn != nil {
		name = fn.obj.Fn.Name
	}
	if err := c.PushFrame(Frame{FunctionName: name, This: this}); err != nil {
		return Undefined, err
	}
	defer c.PopFrame()
	if fn.obj.Kind == KindProxy {
		return fn.obj.ProxyApply(c, this, args)
	}
	return fn.obj.Call(c, this, args)
}

// Construct invokes `new fn(...args)`, enforcing the execution-depth
// limit the same way Call does.
func (c *Context) Construct(fn Value, args []Value, newTarget Value) (Value, error) {
	if !fn.IsObject() {
		return Undefined, c.ThrowTypeError("value is not a constructor")
	}
	if err := c.PushFrame(Frame{FunctionName: "new"}); err != nil {
		return Undefined, err
	}
	defer c.PopFrame()
	if fn.obj.Kind == KindProxy {
		return fn.obj.ProxyConstruct(c, args, newTarget)
	}
	return fn.obj.Construct(c, args, newTarget)
}

// GetProperty implements [[Get]] for any value, dispatching to the
// Proxy trap table when the receiver is a Proxy and to the ordinary
// prototype-walking Get otherwise. Primitive receivers resolve against
// their conceptual prototype (string/number/boolean wrapper objects are
// out of scope, so a primitive receiver simply returns Undefined for any
// key it does not itself expose via Value.Length()-style fast paths).
func GetProperty(ctx *Context, receiver Value, name string, thisArg Value) (Value, error) {
	if receiver.typ != TypeObject || receiver.obj == nil {
		if receiver.typ == TypeString && name == "length" {
			return Int(receiver.Length()), nil
		}
		return Undefined, nil
	}
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxyGet(ctx, name, thisArg)
	}
	return receiver.obj.Get(name, thisArg, ctx.call), nil
}

// SetProperty implements [[Set]], dispatching to the Proxy trap table
// when needed.
func SetProperty(ctx *Context, receiver Value, name string, value Value, thisArg Value) (bool, error) {
	if receiver.typ != TypeObject || receiver.obj == nil {
		return false, nil
	}
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxySet(ctx, name, value, thisArg)
	}
	ok, err := receiver.obj.SetOwn(name, value, ctx.call)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// HasProperty implements [[HasProperty]].
func HasProperty(ctx *Context, receiver Value, name string) (bool, error) {
	if receiver.typ != TypeObject || receiver.obj == nil {
		return false, nil
	}
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxyHas(ctx, name)
	}
	return receiver.obj.Has(name), nil
}

// DeleteProperty implements [[Delete]].
func DeleteProperty(ctx *Context, receiver Value, name string) (bool, error) {
	if receiver.typ != TypeObject || receiver.obj == nil {
		return true, nil
	}
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxyDeleteProperty(ctx, name)
	}
	return receiver.obj.DeleteOwn(name), nil
}

// DefineProperty implements [[DefineOwnProperty]].
func DefineProperty(ctx *Context, receiver Value, name string, desc PropertyDescriptor) (bool, error) {
	if receiver.typ != TypeObject || receiver.obj == nil {
		return false, nil
	}
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxyDefineProperty(ctx, name, desc)
	}
	return receiver.obj.DefineOwnProperty(name, desc), nil
}

// OwnPropertyKeysOf implements [[OwnPropertyKeys]], including Proxy
// dispatch.
func OwnPropertyKeysOf(ctx *Context, receiver Value) ([]string, error) {
	if receiver.typ != TypeObject || receiver.obj == nil {
		return nil, nil
	}
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxyOwnKeys(ctx)
	}
	return receiver.obj.OwnPropertyNames(), nil
}

// DescriptorToObject builds the plain object representation of a
// PropertyDescriptor, the shape Object.getOwnPropertyDescriptor and the
// Proxy defineProperty trap argument both use.
func DescriptorToObject(ctx *Context, d PropertyDescriptor) Value {
	o := NewObject(ObjectValue(ctx.Realm.ObjectPrototype))
	if d.isAccessorDesc() {
		o.SetOwn("get", d.Get, ctx.call)
		o.SetOwn("set", d.Set, ctx.call)
	} else {
		o.SetOwn("value", d.Value, ctx.call)
		o.SetOwn("writable", Bool(d.Writable), ctx.call)
	}
	o.SetOwn("enumerable", Bool(d.Enumerable), ctx.call)
	o.SetOwn("configurable", Bool(d.Configurable), ctx.call)
	return ObjectValue(o)
}

// ObjectToDescriptor reads a plain descriptor-shaped object (as passed
// to Object.defineProperty or returned by a Proxy trap) into a
// PropertyDescriptor, only setting the Has* bits for keys actually
// present — a partial descriptor.
func ObjectToDescriptor(v Value) PropertyDescriptor {
	var d PropertyDescriptor
	if !v.IsObject() {
		return d
	}
	o := v.obj
	if val, ok := o.GetOwnProperty("value", Value{}, nil); ok {
		d.Value, d.HasValue = val, true
	}
	if val, ok := o.GetOwnProperty("writable", Value{}, nil); ok {
		d.Writable, d.HasWritable = val.IsTruthy(), true
	}
	if val, ok := o.GetOwnProperty("get", Value{}, nil); ok {
		d.Get, d.HasGet = val, true
	}
	if val, ok := o.GetOwnProperty("set", Value{}, nil); ok {
		d.Set, d.HasSet = val, true
	}
	if val, ok := o.GetOwnProperty("enumerable", Value{}, nil); ok {
		d.Enumerable, d.HasEnumerable = val.IsTruthy(), true
	}
	if val, ok := o.GetOwnProperty("configurable", Value{}, nil); ok {
		d.Configurable, d.HasConfigurable = val.IsTruthy(), true
	}
	return d
}
