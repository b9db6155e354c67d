package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProxyGetFallsThroughToTargetWithNoTrap(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(Null)
	_, err := target.SetOwn("x", Int(1), nil)
	require.NoError(t, err)
	p := NewProxy(ObjectValue(target), ObjectValue(NewObject(Null)))

	v, err := p.ProxyGet(ctx, "x", ObjectValue(p))
	require.NoError(t, err)
	require.Equal(t, 1.0, v.ToFloat())
}

func TestProxyGetInvariantViolationOnNonConfigurableNonWritableProperty(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(Null)
	target.DefineOwnProperty("locked", PropertyDescriptor{
		HasValue: true, Value: Int(1),
		HasWritable: true, Writable: false,
		HasEnumerable: true, Enumerable: true,
		HasConfigurable: true, Configurable: false,
	})

	handler := NewObject(Null)
	_, err := handler.SetOwn("get", ObjectValue(NewNativeFunction(Null, "get", 3, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Int(999), nil // lies about a non-configurable, non-writable property
	})), nil)
	require.NoError(t, err)

	p := NewProxy(ObjectValue(target), ObjectValue(handler))
	_, err = p.ProxyGet(ctx, "locked", ObjectValue(p))
	require.Error(t, err, "a get trap returning a value that disagrees with a frozen target property must throw")
	require.True(t, ctx.HasException())
}

func TestProxyRevokedTrapsThrow(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(Null)
	p := NewProxy(ObjectValue(target), ObjectValue(NewObject(Null)))
	p.Proxy.Revoked = true

	_, err := p.ProxyGet(ctx, "x", ObjectValue(p))
	require.Error(t, err)
}

func TestProxyHasRespectsTrap(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(Null)
	_, err := target.SetOwn("x", Int(1), nil)
	require.NoError(t, err)

	handler := NewObject(Null)
	_, err = handler.SetOwn("has", ObjectValue(NewNativeFunction(Null, "has", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		return False, nil // always reports absence, overriding the target
	})), nil)
	require.NoError(t, err)
	p := NewProxy(ObjectValue(target), ObjectValue(handler))

	has, err := p.ProxyHas(ctx, "x")
	require.NoError(t, err)
	require.False(t, has)
}

func TestProxySetInvariantViolationOnNonConfigurableNonWritableProperty(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(Null)
	target.DefineOwnProperty("locked", PropertyDescriptor{
		HasValue: true, Value: Int(1),
		HasWritable: true, Writable: false,
		HasEnumerable: true, Enumerable: true,
		HasConfigurable: true, Configurable: false,
	})

	handler := NewObject(Null)
	_, err := handler.SetOwn("set", ObjectValue(NewNativeFunction(Null, "set", 4, func(ctx *Context, this Value, args []Value) (Value, error) {
		return True, nil // lies about having written a different value
	})), nil)
	require.NoError(t, err)

	p := NewProxy(ObjectValue(target), ObjectValue(handler))
	_, err = p.ProxySet(ctx, "locked", Int(2), ObjectValue(p))
	require.Error(t, err, "a set trap reporting success while disagreeing with a frozen target property must throw")
}

func TestProxyOwnKeysInvariantMustIncludeNonConfigurableTargetKeys(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(Null)
	target.DefineOwnProperty("locked", PropertyDescriptor{
		HasValue: true, Value: Int(1),
		HasEnumerable: true, Enumerable: true,
		HasConfigurable: true, Configurable: false,
	})

	handler := NewObject(Null)
	_, err := handler.SetOwn("ownKeys", ObjectValue(NewNativeFunction(Null, "ownKeys", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		return ObjectValue(NewArrayFromValues(ObjectValue(ctx.Realm.ArrayPrototype), nil)), nil
	})), nil)
	require.NoError(t, err)

	p := NewProxy(ObjectValue(target), ObjectValue(handler))
	_, err = p.ProxyOwnKeys(ctx)
	require.Error(t, err, "omitting a non-configurable own key of the target must throw")
}

func TestProxyOwnKeysInvariantMatchesExactlyWhenTargetNonExtensible(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(Null)
	target.DefineOwnProperty("x", PropertyDescriptor{
		HasValue: true, Value: Int(1),
		HasWritable: true, Writable: true,
		HasEnumerable: true, Enumerable: true,
		HasConfigurable: true, Configurable: true,
	})
	target.PreventExtensions()

	handler := NewObject(Null)
	_, err := handler.SetOwn("ownKeys", ObjectValue(NewNativeFunction(Null, "ownKeys", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		return ObjectValue(NewArrayFromValues(ObjectValue(ctx.Realm.ArrayPrototype), []Value{String("x"), String("extra")})), nil
	})), nil)
	require.NoError(t, err)

	p := NewProxy(ObjectValue(target), ObjectValue(handler))
	_, err = p.ProxyOwnKeys(ctx)
	require.Error(t, err, "a non-extensible target requires the trap result to match its own keys exactly")
}
