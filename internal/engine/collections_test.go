package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedMapSameValueZeroNaNKey(t *testing.T) {
	m := newOrderedMap()
	m.Set(Number(nanValue()), String("nan"))
	v, ok := m.Get(Number(nanValue()))
	require.True(t, ok, "SameValueZero treats NaN as equal to itself, unlike ===")
	require.Equal(t, "nan", v.AsString())
}

func TestOrderedMapStringAndNumberKeysDoNotCollide(t *testing.T) {
	m := newOrderedMap()
	m.Set(Number(1), String("number one"))
	m.Set(String("1"), String("string one"))
	require.Equal(t, 2, m.Size())

	v, ok := m.Get(Number(1))
	require.True(t, ok)
	require.Equal(t, "number one", v.AsString())
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestOrderedMapInsertionOrderPreservedAfterDelete(t *testing.T) {
	m := newOrderedMap()
	m.Set(String("a"), Int(1))
	m.Set(String("b"), Int(2))
	m.Set(String("c"), Int(3))
	require.True(t, m.Delete(String("b")))

	var order []string
	m.ForEach(func(k, v Value) { order = append(order, k.AsString()) })
	require.Equal(t, []string{"a", "c"}, order)
}

func TestOrderedMapSizeTracksLiveEntries(t *testing.T) {
	m := newOrderedMap()
	require.Equal(t, 0, m.Size())
	m.Set(String("a"), Int(1))
	m.Set(String("b"), Int(2))
	require.Equal(t, 2, m.Size())
	m.Delete(String("a"))
	require.Equal(t, 1, m.Size())
	m.Clear()
	require.Equal(t, 0, m.Size())
}

func TestWeakTableSetGetHasDelete(t *testing.T) {
	w := newWeakTable()
	key := NewObject(Null)
	w.Set(key, String("value"))
	require.True(t, w.Has(key))

	v, ok := w.Get(key)
	require.True(t, ok)
	require.Equal(t, "value", v.AsString())
	require.True(t, w.Delete(key))
	require.False(t, w.Has(key))
}

func TestNewMapObjectAndSetObjectKinds(t *testing.T) {
	m := NewMapObject(Null)
	require.Equal(t, KindMap, m.Kind)
	require.NotNil(t, m.Map)

	s := NewSetObject(Null)
	require.Equal(t, KindSet, s.Kind)
	require.NotNil(t, s.Set)
}
