package engine

import "testing"

import "github.com/stretchr/testify/require"

func TestValueTypePredicates(t *testing.T) {
	require.True(t, Undefined.IsUndefined())
	require.True(t, Null.IsNull())
	require.True(t, Null.IsNullish())
	require.True(t, Undefined.IsNullish())
	require.True(t, True.IsBoolean())
	require.True(t, Number(1).IsNumber())
	require.True(t, String("x").IsString())
	require.True(t, NewSymbol("s").IsSymbol())
	require.True(t, ObjectValue(NewObject(Null)).IsObject())
}

func TestBoolConstructor(t *testing.T) {
	require.Equal(t, True, Bool(true))
	require.Equal(t, False, Bool(false))
}

func TestSymbolIdentity(t *testing.T) {
	a := NewSymbol("tag")
	b := NewSymbol("tag")
	require.False(t, a.Is(b), "two NewSymbol calls must never be SameValueZero-equal")
	require.True(t, a.Is(a))
	require.Equal(t, "tag", a.SymbolDescription())
}

func TestStrictlyEquals(t *testing.T) {
	require.True(t, Number(1).StrictlyEquals(Number(1)))
	require.False(t, Number(1).StrictlyEquals(String("1")))
	require.False(t, Undefined.StrictlyEquals(Null))
	o := NewObject(Null)
	require.True(t, ObjectValue(o).StrictlyEquals(ObjectValue(o)))
	require.False(t, ObjectValue(o).StrictlyEquals(ObjectValue(NewObject(Null))))
}

func TestEqualsLooseCoercion(t *testing.T) {
	require.True(t, Number(1).Equals(String("1")))
	require.True(t, Null.Equals(Undefined))
	require.False(t, Null.Equals(Number(0)))
}

func TestIsCallable(t *testing.T) {
	require.False(t, ObjectValue(NewObject(Null)).IsCallable())
	fn := NewNativeFunction(Null, "f", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Undefined, nil
	})
	require.True(t, ObjectValue(fn).IsCallable())
}

func TestIsArray(t *testing.T) {
	require.True(t, ObjectValue(NewArray(Null)).IsArray())
	require.False(t, ObjectValue(NewObject(Null)).IsArray())
}

func TestTruthiness(t *testing.T) {
	require.True(t, Number(1).IsTruthy())
	require.False(t, Number(0).IsTruthy())
	require.False(t, String("").IsTruthy())
	require.True(t, String("a").IsTruthy())
	require.False(t, Undefined.IsTruthy())
	require.True(t, ObjectValue(NewObject(Null)).IsTruthy())
}

func TestToFloatAndToInteger(t *testing.T) {
	require.Equal(t, 3.0, String("3").ToFloat())
	require.Equal(t, 0.0, String("notanumber").ToInteger())
	require.Equal(t, 1.0, True.ToFloat())
	require.Equal(t, 0.0, False.ToFloat())
}

func TestToInt32AndUint32Wrap(t *testing.T) {
	require.Equal(t, int32(-1), Number(4294967295).ToInt32())
	require.Equal(t, uint32(4294967295), Number(-1).ToUint32())
}
