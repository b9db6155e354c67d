package builtins

import "jsengine/internal/engine"

// IteratorInitializer wires IteratorPrototype's shared [Symbol.iterator]
// method (every built-in iterator is its own iterable) that
// array/map/set/string iterators inherit rather than redefine.
type IteratorInitializer struct{}

func (IteratorInitializer) Name() string  { return "Iterator" }
func (IteratorInitializer) Priority() int { return 106 }

func init() { register(IteratorInitializer{}) }

func (IteratorInitializer) InitRuntime(ctx *engine.Context) error {
	r := ctx.Realm
	defineMethod(ctx, r.IteratorPrototype, engine.WellKnownIteratorKey(), 0,
		func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
			return this, nil
		})
	return nil
}
