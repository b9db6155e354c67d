package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestContext() *Context {
	return NewContext(NewRealm())
}

func TestPromiseResolveFulfillsAndDrainsChainedThens(t *testing.T) {
	ctx := newTestContext()
	p, resolve, _ := NewPromiseCapability(ctx)
	resolve(Int(1))

	var seen float64
	derived := ThenPromise(ctx, p, ObjectValue(NewNativeFunction(Null, "", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(args[0].ToFloat() + 1), nil
	})), Undefined)
	derived2 := ThenPromise(ctx, derived, ObjectValue(NewNativeFunction(Null, "", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		seen = args[0].ToFloat() + 1
		return Number(seen), nil
	})), Undefined)

	require.Equal(t, PromiseStatePending, derived2.Promise.State, "reactions only run once microtasks drain")
	ctx.DrainMicrotasks()

	require.Equal(t, 3.0, seen, "Promise.resolve(1).then(v=>v+1).then(v=>v+1) settles at 3 after drain")
	require.Equal(t, PromiseStateFulfilled, derived2.Promise.State)
	require.Equal(t, 3.0, derived2.Promise.Result.ToFloat())
}

func TestPromiseRejectRunsRejectHandler(t *testing.T) {
	ctx := newTestContext()
	p, _, reject := NewPromiseCapability(ctx)
	reject(String("boom"))

	var caught string
	ThenPromise(ctx, p, Undefined, ObjectValue(NewNativeFunction(Null, "", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		caught = args[0].AsString()
		return Undefined, nil
	})))
	ctx.DrainMicrotasks()

	require.Equal(t, "boom", caught)
}

func TestPromiseResolveWithThenableAdoptsItsState(t *testing.T) {
	ctx := newTestContext()
	thenable := NewObject(Null)
	_, err := thenable.SetOwn("then", ObjectValue(NewNativeFunction(Null, "then", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		resolveArg := args[0]
		_, err := ctx.Call(resolveArg, Undefined, []Value{Int(7)})
		return Undefined, err
	})), nil)
	require.NoError(t, err)

	p, resolve, _ := NewPromiseCapability(ctx)
	resolve(ObjectValue(thenable))
	ctx.DrainMicrotasks()

	require.Equal(t, PromiseStateFulfilled, p.Promise.State)
	require.Equal(t, 7.0, p.Promise.Result.ToFloat())
}

func TestPromiseSettlesOnlyOnce(t *testing.T) {
	ctx := newTestContext()
	p, resolve, reject := NewPromiseCapability(ctx)
	resolve(Int(1))
	reject(String("ignored"))

	require.Equal(t, PromiseStateFulfilled, p.Promise.State)
	require.Equal(t, 1.0, p.Promise.Result.ToFloat())
}
