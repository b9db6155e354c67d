package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinorCollectionSweepsUnreachableObjects(t *testing.T) {
	anchor := NewObject(Null)
	gc := NewGarbageCollector(func() []*Object { return []*Object{anchor} })
	gc.Allocate(anchor)

	for i := 0; i < 10000; i++ {
		gc.Allocate(NewObject(Null))
	}
	require.Equal(t, 10001, gc.HeapCount())

	gc.CollectMinor()

	require.Equal(t, 1, gc.HeapCount(), "every unreachable temp object must be freed by a minor collection")
	require.Equal(t, 10000, gc.Stats().LastYoungFreed)
}

func TestReachableObjectSurvivesCollection(t *testing.T) {
	root := NewObject(Null)
	child := NewObject(Null)
	_, err := root.SetOwn("child", ObjectValue(child), nil)
	require.NoError(t, err)

	gc := NewGarbageCollector(func() []*Object { return []*Object{root} })
	gc.Allocate(root)
	gc.Allocate(child)

	gc.CollectMinor()

	require.Equal(t, 2, gc.HeapCount(), "child is reachable through root's own property and must survive")
}

func TestPromotionToOldGeneration(t *testing.T) {
	root := NewObject(Null)
	gc := NewGarbageCollector(func() []*Object { return []*Object{root} })
	gc.Allocate(root)

	gc.CollectMinor()
	require.Equal(t, GenYoung, Generation(root.gc.generation))
	gc.CollectMinor()
	require.Equal(t, GenOld, Generation(root.gc.generation), "surviving survivalPromoteThreshold minor collections tenures an object")
	require.Equal(t, 1, gc.Stats().OldCount)
}

func TestMajorCollectionSweepsOldGenerationToo(t *testing.T) {
	root := &Object{Kind: KindPlain, shape: RootShape, prototype: Null, extensible: true}
	rooted := true
	gc := NewGarbageCollector(func() []*Object {
		if rooted {
			return []*Object{root}
		}
		return nil // no roots: nothing stays reachable
	})
	gc.Allocate(root)
	gc.CollectMinor()
	gc.CollectMinor() // promote to old
	require.Equal(t, GenOld, Generation(root.gc.generation))

	rooted = false
	gc.CollectMajor()
	require.Equal(t, 0, gc.HeapCount(), "a major collection can free even a tenured object once unreachable")
}
