package engine

import "fmt"

// ProxyData holds a Proxy exotic object's target and handler. A
// revoked proxy keeps both values around (so Revoke is idempotent) but
// every trap call checks Revoked first and throws.
type ProxyData struct {
	Target  Value
	Handler Value
	Revoked bool
}

// NewProxy creates a KindProxy object wrapping target with handler.
func NewProxy(target, handler Value) *Object {
	return &Object{
		Kind:       KindProxy,
		shape:      RootShape,
		extensible: true,
		prototype:  Null,
		Proxy:      &ProxyData{Target: target, Handler: handler},
	}
}

func (o *Object) trap(ctx *Context, name string) (Value, bool, error) {
	if o.Proxy.Revoked {
		return Undefined, false, ctx.ThrowTypeError("Cannot perform '%s' on a proxy that has been revoked", name)
	}
	if !o.Proxy.Handler.IsObject() {
		return Undefined, false, nil
	}
	fn := o.Proxy.Handler.obj.Get(name, o.Proxy.Handler, ctx.call)
	if !fn.IsCallable() {
		return Undefined, false, nil
	}
	return fn, true, nil
}

// ProxyGet implements the Proxy [[Get]] trap, falling back to
// Reflect.get on the target when the handler defines no "get" trap, and
// enforcing the invariant that a non-configurable, non-writable target
// data property must report its actual value.
func (o *Object) ProxyGet(ctx *Context, name string, receiver Value) (Value, error) {
	fn, ok, err := o.trap(ctx, "get")
	if err != nil {
		return Undefined, err
	}
	if !ok {
		return GetProperty(ctx, o.Proxy.Target, name, receiver)
	}
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target, String(name), receiver})
	if err != nil {
		return Undefined, err
	}
	if o.Proxy.Target.IsObject() {
		if desc, found := o.Proxy.Target.obj.GetOwnPropertyDescriptor(name); found {
			if !desc.Configurable {
				if desc.HasValue && !desc.Writable && !result.StrictlyEquals(desc.Value) {
					return Undefined, ctx.ThrowTypeError(
						"'get' on proxy: property '%s' is a non-configurable, non-writable own data property on the target but the proxy did not return its actual value", name)
				}
				if desc.HasGet && desc.Get.IsUndefined() && !result.IsUndefined() {
					return Undefined, ctx.ThrowTypeError(
						"'get' on proxy: property '%s' is a non-configurable own accessor property without a getter but the proxy did not return undefined", name)
				}
			}
		}
	}
	return result, nil
}

// ProxySet implements the Proxy [[Set]] trap, enforcing the invariant
// that a non-configurable, non-writable target data property cannot be
// reported as written unless the trap actually wrote its exact value.
func (o *Object) ProxySet(ctx *Context, name string, value, receiver Value) (bool, error) {
	fn, ok, err := o.trap(ctx, "set")
	if err != nil {
		return false, err
	}
	if !ok {
		return SetProperty(ctx, o.Proxy.Target, name, value, receiver)
	}
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target, String(name), value, receiver})
	if err != nil {
		return false, err
	}
	success := result.IsTruthy()
	if success && o.Proxy.Target.IsObject() {
		if desc, found := o.Proxy.Target.obj.GetOwnPropertyDescriptor(name); found {
			if !desc.Configurable && desc.HasValue && !desc.Writable && !value.StrictlyEquals(desc.Value) {
				return false, ctx.ThrowTypeError(
					"'set' on proxy: trap returned truish for property '%s' which exists in the proxy target as a non-configurable, non-writable data property with a different value", name)
			}
		}
	}
	return success, nil
}

// ProxyHas implements the Proxy [[HasProperty]] trap.
func (o *Object) ProxyHas(ctx *Context, name string) (bool, error) {
	fn, ok, err := o.trap(ctx, "has")
	if err != nil {
		return false, err
	}
	if !ok {
		if !o.Proxy.Target.IsObject() {
			return false, nil
		}
		return o.Proxy.Target.obj.Has(name), nil
	}
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target, String(name)})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

// ProxyDeleteProperty implements the Proxy [[Delete]] trap.
func (o *Object) ProxyDeleteProperty(ctx *Context, name string) (bool, error) {
	fn, ok, err := o.trap(ctx, "deleteProperty")
	if err != nil {
		return false, err
	}
	if !ok {
		if !o.Proxy.Target.IsObject() {
			return true, nil
		}
		return o.Proxy.Target.obj.DeleteOwn(name), nil
	}
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target, String(name)})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

// ProxyOwnKeys implements the Proxy [[OwnPropertyKeys]] trap, enforcing
// the invariant that the result must include every non-configurable own
// key of the target, and must equal the target's own keys exactly when
// the target is non-extensible.
func (o *Object) ProxyOwnKeys(ctx *Context) ([]string, error) {
	fn, ok, err := o.trap(ctx, "ownKeys")
	if err != nil {
		return nil, err
	}
	if !ok {
		if !o.Proxy.Target.IsObject() {
			return nil, nil
		}
		return o.Proxy.Target.obj.OwnPropertyNames(), nil
	}
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target})
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return nil, ctx.ThrowTypeError("proxy ownKeys must return an array")
	}
	keys := make([]string, 0, result.obj.Array.length)
	for i := uint32(0); i < result.obj.Array.length; i++ {
		if v, ok := result.obj.Array.elements[i]; ok {
			keys = append(keys, v.ToDisplayString())
		}
	}
	if o.Proxy.Target.IsObject() {
		target := o.Proxy.Target.obj
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			seen[k] = true
		}
		targetKeys := target.OwnPropertyNames()
		for _, tk := range targetKeys {
			desc, found := target.GetOwnPropertyDescriptor(tk)
			if found && !desc.Configurable && !seen[tk] {
				return nil, ctx.ThrowTypeError(
					"'ownKeys' on proxy: trap result did not include '%s', a non-configurable own property of the target", tk)
			}
		}
		if !target.IsExtensible() {
			if len(keys) != len(targetKeys) {
				return nil, ctx.ThrowTypeError(
					"'ownKeys' on proxy: target is non-extensible but the trap result does not match its own keys exactly")
			}
			targetSeen := make(map[string]bool, len(targetKeys))
			for _, tk := range targetKeys {
				targetSeen[tk] = true
			}
			for _, k := range keys {
				if !targetSeen[k] {
					return nil, ctx.ThrowTypeError(
						"'ownKeys' on proxy: target is non-extensible but the trap result contains '%s', which is not one of its own keys", k)
				}
			}
		}
	}
	return keys, nil
}

// ProxyDefineProperty implements the Proxy [[DefineOwnProperty]] trap.
func (o *Object) ProxyDefineProperty(ctx *Context, name string, desc PropertyDescriptor) (bool, error) {
	fn, ok, err := o.trap(ctx, "defineProperty")
	if err != nil {
		return false, err
	}
	if !ok {
		if !o.Proxy.Target.IsObject() {
			return false, nil
		}
		return o.Proxy.Target.obj.DefineOwnProperty(name, desc), nil
	}
	descObj := DescriptorToObject(ctx, desc)
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target, String(name), descObj})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

// ProxyGetOwnPropertyDescriptor implements the Proxy
// [[GetOwnProperty]] trap.
func (o *Object) ProxyGetOwnPropertyDescriptor(ctx *Context, name string) (PropertyDescriptor, bool, error) {
	fn, ok, err := o.trap(ctx, "getOwnPropertyDescriptor")
	if err != nil {
		return PropertyDescriptor{}, false, err
	}
	if !ok {
		if !o.Proxy.Target.IsObject() {
			return PropertyDescriptor{}, false, nil
		}
		d, found := o.Proxy.Target.obj.GetOwnPropertyDescriptor(name)
		return d, found, nil
	}
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target, String(name)})
	if err != nil {
		return PropertyDescriptor{}, false, err
	}
	if result.IsUndefined() {
		return PropertyDescriptor{}, false, nil
	}
	return ObjectToDescriptor(result), true, nil
}

// ProxyGetPrototypeOf / ProxySetPrototypeOf implement the matching
// traps.
func (o *Object) ProxyGetPrototypeOf(ctx *Context) (Value, error) {
	fn, ok, err := o.trap(ctx, "getPrototypeOf")
	if err != nil {
		return Undefined, err
	}
	if !ok {
		if !o.Proxy.Target.IsObject() {
			return Null, nil
		}
		return o.Proxy.Target.obj.GetPrototype(), nil
	}
	return fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target})
}

func (o *Object) ProxySetPrototypeOf(ctx *Context, proto Value) (bool, error) {
	fn, ok, err := o.trap(ctx, "setPrototypeOf")
	if err != nil {
		return false, err
	}
	if !ok {
		if !o.Proxy.Target.IsObject() {
			return false, nil
		}
		return o.Proxy.Target.obj.SetPrototype(proto), nil
	}
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target, proto})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

// ProxyIsExtensible / ProxyPreventExtensions implement the matching
// traps.
func (o *Object) ProxyIsExtensible(ctx *Context) (bool, error) {
	fn, ok, err := o.trap(ctx, "isExtensible")
	if err != nil {
		return false, err
	}
	if !ok {
		if !o.Proxy.Target.IsObject() {
			return false, nil
		}
		return o.Proxy.Target.obj.IsExtensible(), nil
	}
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

func (o *Object) ProxyPreventExtensions(ctx *Context) (bool, error) {
	fn, ok, err := o.trap(ctx, "preventExtensions")
	if err != nil {
		return false, err
	}
	if !ok {
		if !o.Proxy.Target.IsObject() {
			return false, nil
		}
		o.Proxy.Target.obj.PreventExtensions()
		return true, nil
	}
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

// ProxyApply implements the [[Call]] trap for callable proxy targets.
func (o *Object) ProxyApply(ctx *Context, this Value, args []Value) (Value, error) {
	fn, ok, err := o.trap(ctx, "apply")
	if err != nil {
		return Undefined, err
	}
	if !ok {
		if !o.Proxy.Target.IsCallable() {
			return Undefined, fmt.Errorf("TypeError: proxy target is not a function")
		}
		return o.Proxy.Target.obj.Call(ctx, this, args)
	}
	argsArray := ObjectValue(NewArrayFromValues(ObjectValue(ctx.Realm.ArrayPrototype), args))
	return fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target, this, argsArray})
}

// ProxyConstruct implements the [[Construct]] trap for constructible
// proxy targets.
func (o *Object) ProxyConstruct(ctx *Context, args []Value, newTarget Value) (Value, error) {
	fn, ok, err := o.trap(ctx, "construct")
	if err != nil {
		return Undefined, err
	}
	if !ok {
		if !o.Proxy.Target.IsCallable() {
			return Undefined, fmt.Errorf("TypeError: proxy target is not a constructor")
		}
		return o.Proxy.Target.obj.Construct(ctx, args, newTarget)
	}
	argsArray := ObjectValue(NewArrayFromValues(ObjectValue(ctx.Realm.ArrayPrototype), args))
	result, err := fn.obj.Call(ctx, o.Proxy.Handler, []Value{o.Proxy.Target, argsArray, newTarget})
	if err != nil {
		return Undefined, err
	}
	if !result.IsObject() {
		return Undefined, ctx.ThrowTypeError("'construct' on proxy: trap returned a non-object")
	}
	return result, nil
}
