package engine

// ReflectOwnKeys implements Reflect.ownKeys: every own property key,
// string indices first (ascending), then remaining string keys in
// creation order, then symbol keys in creation order — like
// OwnPropertyKeysOf but also including symbols, since Reflect (unlike
// Object.keys) does not filter non-enumerable or symbol-keyed
// properties. For a Proxy receiver only the ownKeys string keys are
// returned; symbol keys are not collected.
func ReflectOwnKeys(ctx *Context, receiver Value) ([]Value, error) {
	if receiver.typ != TypeObject || receiver.obj == nil {
		return nil, nil
	}
	names, err := OwnPropertyKeysOf(ctx, receiver)
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(names))
	for _, n := range names {
		out = append(out, String(n))
	}
	if receiver.obj.Kind != KindProxy {
		out = append(out, receiver.obj.OwnSymbolKeys()...)
	}
	return out, nil
}

// ReflectGetPrototypeOf / ReflectSetPrototypeOf / ReflectIsExtensible /
// ReflectPreventExtensions dispatch through the Proxy trap table the
// same way GetProperty/SetProperty do, since Reflect's operations are
// defined in terms of the same internal methods Proxy traps mirror.
func ReflectGetPrototypeOf(ctx *Context, receiver Value) (Value, error) {
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxyGetPrototypeOf(ctx)
	}
	return receiver.obj.GetPrototype(), nil
}

func ReflectSetPrototypeOf(ctx *Context, receiver Value, proto Value) (bool, error) {
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxySetPrototypeOf(ctx, proto)
	}
	return receiver.obj.SetPrototype(proto), nil
}

func ReflectIsExtensible(ctx *Context, receiver Value) (bool, error) {
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxyIsExtensible(ctx)
	}
	return receiver.obj.IsExtensible(), nil
}

func ReflectPreventExtensions(ctx *Context, receiver Value) (bool, error) {
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxyPreventExtensions(ctx)
	}
	receiver.obj.PreventExtensions()
	return true, nil
}

func ReflectGetOwnPropertyDescriptor(ctx *Context, receiver Value, name string) (PropertyDescriptor, bool, error) {
	if receiver.obj.Kind == KindProxy {
		return receiver.obj.ProxyGetOwnPropertyDescriptor(ctx, name)
	}
	d, ok := receiver.obj.GetOwnPropertyDescriptor(name)
	return d, ok, nil
}
