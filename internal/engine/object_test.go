package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetOwnAndGetOwnProperty(t *testing.T) {
	o := NewObject(Null)
	_, err := o.SetOwn("x", Int(1), nil)
	require.NoError(t, err)
	v, ok := o.GetOwnProperty("x", Value{}, nil)
	require.True(t, ok)
	require.Equal(t, Int(1).AsFloat(), v.AsFloat())
}

func TestSetOwnNonEnumerableExcludedFromOwnKeys(t *testing.T) {
	o := NewObject(Null)
	_, err := o.SetOwn("visible", Int(1), nil)
	require.NoError(t, err)
	o.SetOwnNonEnumerable("hidden", Int(2))

	names := o.OwnKeys()
	require.Contains(t, names, "visible")
	require.NotContains(t, names, "hidden")

	_, ok := o.GetOwnProperty("hidden", Value{}, nil)
	require.True(t, ok, "a non-enumerable property is still an own property")
}

func TestShapeSharingAcrossObjectsWithSameFieldSequence(t *testing.T) {
	a := NewObject(Null)
	b := NewObject(Null)
	_, err := a.SetOwn("x", Int(1), nil)
	require.NoError(t, err)
	_, err = a.SetOwn("y", Int(2), nil)
	require.NoError(t, err)
	_, err = b.SetOwn("x", Int(3), nil)
	require.NoError(t, err)
	_, err = b.SetOwn("y", Int(4), nil)
	require.NoError(t, err)

	require.Same(t, a.shape, b.shape, "objects that add the same fields in the same order converge on one Shape")
}

func TestShapeDivergesOnDifferentFieldOrder(t *testing.T) {
	a := NewObject(Null)
	b := NewObject(Null)
	_, err := a.SetOwn("x", Int(1), nil)
	require.NoError(t, err)
	_, err = a.SetOwn("y", Int(2), nil)
	require.NoError(t, err)
	_, err = b.SetOwn("y", Int(2), nil)
	require.NoError(t, err)
	_, err = b.SetOwn("x", Int(1), nil)
	require.NoError(t, err)

	require.NotSame(t, a.shape, b.shape, "adding fields in a different order must transition to a different Shape")
}

func TestDeleteOwnRemovesDataButKeepsShape(t *testing.T) {
	o := NewObject(Null)
	_, err := o.SetOwn("x", Int(1), nil)
	require.NoError(t, err)
	shapeBefore := o.shape
	require.True(t, o.DeleteOwn("x"))

	_, ok := o.GetOwnProperty("x", Value{}, nil)
	require.False(t, ok, "has_own_property must return false after delete")
	require.Same(t, shapeBefore, o.shape, "deleted_shape_properties erases the slot, not the shape")
}

func TestPrototypeChainLookup(t *testing.T) {
	parent := NewObject(Null)
	_, err := parent.SetOwn("inherited", String("from parent"), nil)
	require.NoError(t, err)
	child := NewObject(ObjectValue(parent))

	v := child.Get("inherited", ObjectValue(child), nil)
	require.Equal(t, "from parent", v.AsString())
	require.True(t, child.Has("inherited"), "Has walks the prototype chain")
}

func TestHasOwnVsInherited(t *testing.T) {
	parent := NewObject(Null)
	_, err := parent.SetOwn("inherited", String("v"), nil)
	require.NoError(t, err)
	child := NewObject(ObjectValue(parent))
	_, err = child.SetOwn("own", Int(1), nil)
	require.NoError(t, err)

	_, ownOk := child.GetOwnProperty("own", Value{}, nil)
	require.True(t, ownOk)
	_, inheritedOk := child.GetOwnProperty("inherited", Value{}, nil)
	require.False(t, inheritedOk, "GetOwnProperty must not walk the prototype chain")
}

func TestArrayHolesAreNotVisited(t *testing.T) {
	a := NewArray(Null)
	_, err := a.SetOwn("5", Int(1), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(6), a.ArrayLength())

	_, ok := a.GetOwnProperty("0", Value{}, nil)
	require.False(t, ok, "index 0 is a hole, not an own property with value undefined")
}

func TestDefineOwnPropertyAccessor(t *testing.T) {
	o := NewObject(Null)
	getter := NewNativeFunction(Null, "get x", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Int(42), nil
	})
	ok := o.DefineOwnProperty("x", PropertyDescriptor{
		HasGet: true, Get: ObjectValue(getter),
		HasEnumerable: true, Enumerable: true,
		HasConfigurable: true, Configurable: true,
	})
	require.True(t, ok)
	desc, found := o.GetOwnPropertyDescriptor("x")
	require.True(t, found)
	require.True(t, desc.HasGet)
}

func TestSetOwnInvokesInheritedAccessorSetterWithOriginalReceiver(t *testing.T) {
	parent := NewObject(Null)
	var seenThis Value
	setter := NewNativeFunction(Null, "set x", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		seenThis = this
		return Undefined, nil
	})
	ok := parent.DefineOwnProperty("x", PropertyDescriptor{
		HasSet: true, Set: ObjectValue(setter),
		HasConfigurable: true, Configurable: true,
	})
	require.True(t, ok)

	child := NewObject(ObjectValue(parent))
	wrote, err := child.SetOwn("x", Int(5), func(fn Value, this Value, args []Value) (Value, error) {
		return fn.obj.Call(nil, this, args)
	})
	require.NoError(t, err)
	require.True(t, wrote)
	require.True(t, seenThis.IsObject())
	require.Same(t, child, seenThis.AsObject(), "an inherited setter must be invoked with the receiver, not the prototype")

	_, ownX := child.GetOwnProperty("x", Value{}, nil)
	require.False(t, ownX, "invoking the inherited setter must not create a shadowing own property")
}

func TestSetOwnRefusesToShadowInheritedNonWritableDataProperty(t *testing.T) {
	parent := NewObject(Null)
	ok := parent.DefineOwnProperty("x", PropertyDescriptor{
		HasValue: true, Value: Int(1),
		HasWritable: true, Writable: false,
		HasConfigurable: true, Configurable: true,
	})
	require.True(t, ok)
	child := NewObject(ObjectValue(parent))

	wrote, err := child.SetOwn("x", Int(99), nil)
	require.NoError(t, err)
	require.False(t, wrote, "[[Set]] reports false rather than shadowing an inherited non-writable data property")
	_, ownX := child.GetOwnProperty("x", Value{}, nil)
	require.False(t, ownX)
}

func TestSetOwnReportsFalseForNonWritableOwnDataProperty(t *testing.T) {
	o := NewObject(Null)
	ok := o.DefineOwnProperty("x", PropertyDescriptor{
		HasValue: true, Value: Int(1),
		HasWritable: true, Writable: false,
		HasConfigurable: true, Configurable: true,
	})
	require.True(t, ok)

	wrote, err := o.SetOwn("x", Int(2), nil)
	require.NoError(t, err)
	require.False(t, wrote, "[[Set]] on a non-writable own data property reports false, observable through Reflect.set")
	v, _ := o.GetOwnProperty("x", Value{}, nil)
	require.Equal(t, Int(1).AsFloat(), v.AsFloat())
}
