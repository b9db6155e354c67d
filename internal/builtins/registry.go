// Package builtins wires the core object model in internal/engine into a
// concrete set of global constructors and prototypes: Object, Function,
// Array, Error and its five subtypes, Map, Set, WeakMap, WeakSet, Proxy,
// Reflect, Symbol, the iterator protocol, and ArrayBuffer/TypedArray/
// DataView.
package builtins

import (
	"sort"

	"jsengine/internal/engine"
)

// Initializer registers one builtin family's runtime surface onto a
// realm. Each initializer runs once per realm, in Priority() order, so
// later initializers (e.g. Map, which needs Object.prototype to already
// exist) can depend on earlier ones' output.
type Initializer interface {
	Name() string
	Priority() int
	InitRuntime(ctx *engine.Context) error
}

var registry []Initializer

func register(i Initializer) { registry = append(registry, i) }

// InstallAll runs every registered initializer against ctx's realm, in
// priority order.
func InstallAll(ctx *engine.Context) error {
	ordered := make([]Initializer, len(registry))
	copy(ordered, registry)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Priority() < ordered[j].Priority() })
	for _, init := range ordered {
		if err := init.InitRuntime(ctx); err != nil {
			return err
		}
	}
	return nil
}
