package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jsengine/internal/engine"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession()
	require.NoError(t, err)
	return s
}

func TestEvalVarHoistingOutOfNestedBlock(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		function f() {
			if (true) {
				var x = 1;
			}
			return x;
		}
		f();
	`)
	require.NoError(t, err)
	require.Equal(t, 1.0, v.ToFloat())
}

func TestEvalClosureCapturesByReference(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		function makeCounter() {
			let count = 0;
			return function () {
				count = count + 1;
				return count;
			};
		}
		let c = makeCounter();
		c();
		c();
		c();
	`)
	require.NoError(t, err)
	require.Equal(t, 3.0, v.ToFloat())
}

func TestEvalTryCatchFinallyOverridesReturn(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		function f() {
			try {
				throw 1;
			} catch (e) {
				return e + 1;
			} finally {
				return 99;
			}
		}
		f();
	`)
	require.NoError(t, err)
	require.Equal(t, 99.0, v.ToFloat(), "a finally-block return overrides the catch block's return")
}

func TestEvalThrowUncaughtPropagatesAsThrownError(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Eval(`throw new TypeError("boom");`)
	require.Error(t, err)
	thrown, ok := err.(*ThrownError)
	require.True(t, ok)
	require.Contains(t, thrown.Error(), "boom")
}

func TestEvalForOfOverCustomIterator(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		let obj = {
			"@@iterator": function () {
				let i = 0;
				return {
					next: function () {
						i = i + 1;
						if (i > 3) {
							return { value: undefined, done: true };
						}
						return { value: i * 10, done: false };
					}
				};
			}
		};
		let sum = 0;
		for (let v of obj) {
			sum = sum + v;
		}
		sum;
	`)
	require.NoError(t, err)
	require.Equal(t, 60.0, v.ToFloat(), "a custom @@iterator object drives for-of via next()/done/value")
}

func TestEvalForOfBreakStopsCustomIteratorEarly(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		let obj = {
			"@@iterator": function () {
				let i = 0;
				return {
					next: function () {
						i = i + 1;
						return { value: i, done: false };
					}
				};
			}
		};
		let seen = 0;
		for (let v of obj) {
			seen = seen + 1;
			if (v === 2) {
				break;
			}
		}
		seen;
	`)
	require.NoError(t, err)
	require.Equal(t, 2.0, v.ToFloat())
}

func TestEvalArrayGrowsWhenIndexAssignedPastLength(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		let a = [1, 2, 3];
		a[5] = 6;
		a.length;
	`)
	require.NoError(t, err)
	require.Equal(t, 6.0, v.ToFloat(), "assigning past the end grows length to index+1")
}

func TestEvalArrayHoleIsUndefinedNotOwnProperty(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		let a = [1, 2, 3];
		a[5] = 6;
		a[4];
	`)
	require.NoError(t, err)
	require.True(t, v.IsUndefined(), "an unassigned index in a grown array reads as undefined")

	arrVal, err := s.Eval(`a;`)
	require.NoError(t, err)
	require.True(t, arrVal.IsObject())
	_, hasHole := arrVal.AsObject().GetOwnProperty("4", engine.Value{}, nil)
	require.False(t, hasHole, "the hole index is not an own property of the array")
}

func TestEvalForLoopSharedBindingSeesFinalValueInClosures(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		let fns = [];
		for (let i = 0; i < 3; i = i + 1) {
			fns.push(function () { return i; });
		}
		fns[0]() + fns[1]() + fns[2]();
	`)
	require.NoError(t, err)
	require.Equal(t, 9.0, v.ToFloat(),
		"documented simplification: one shared loop binding means every closure sees the post-loop value of i (3) instead of its own iteration's value")
}
