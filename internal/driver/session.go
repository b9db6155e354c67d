package driver

import (
	"jsengine/internal/builtins"
	"jsengine/internal/engine"
)

// Session bundles one realm/context pair with the tree-walking evaluator
// and lexical global scope needed to run source text end to end — the
// piece a CLI front end (or a test) drives directly instead of touching
// internal/engine's pieces one at a time.
type Session struct {
	Realm     *engine.Realm
	Ctx       *engine.Context
	Interp    *Interp
	GlobalEnv *engine.Environment
}

// NewSession builds a realm, installs every registered builtin family
// onto it, and bridges the realm's global object into a lexical global
// Environment so bare identifiers (Object, Array, Map, ...) resolve the
// way a real global scope would.
func NewSession() (*Session, error) {
	realm := engine.NewRealm()
	ctx := engine.NewContext(realm)
	if err := builtins.InstallAll(ctx); err != nil {
		return nil, err
	}

	globalEnv := engine.NewGlobalEnvironment()
	globalEnv.Declare("this", engine.ObjectValue(realm.GlobalObject), false, true)
	globalEnv.Declare("globalThis", engine.ObjectValue(realm.GlobalObject), false, true)
	for _, name := range realm.GlobalObject.OwnPropertyNames() {
		v, err := engine.GetProperty(ctx, engine.ObjectValue(realm.GlobalObject), name, engine.ObjectValue(realm.GlobalObject))
		if err != nil {
			return nil, err
		}
		globalEnv.Declare(name, v, true, true)
	}

	interp := NewInterp(ctx, globalEnv)
	return &Session{Realm: realm, Ctx: ctx, Interp: interp, GlobalEnv: globalEnv}, nil
}

// ThrownError wraps a JS exception value escaping the top level so a
// caller (the REPL/CLI) can format it the way a thrown Error's
// toString() would, rather than as a generic Go error.
type ThrownError struct{ Value engine.Value }

func (e *ThrownError) Error() string {
	if e.Value.IsObject() {
		obj := e.Value.AsObject()
		msg, hasMsg := obj.GetOwnProperty("message", engine.ObjectValue(obj), nil)
		name, hasName := obj.GetOwnProperty("name", engine.ObjectValue(obj), nil)
		if hasMsg && hasName && msg.IsString() && name.IsString() {
			return name.AsString() + ": " + msg.AsString()
		}
	}
	return e.Value.ToDisplayString()
}

// Eval parses src and evaluates it against the session's global scope,
// returning the value its last top-level expression statement produced
// (Undefined if the program ended on a non-expression statement).
func (s *Session) Eval(src string) (engine.Value, error) {
	prog, err := ParseProgram(src)
	if err != nil {
		return engine.Undefined, err
	}
	v, err := s.Interp.Run(prog, s.GlobalEnv)
	if err != nil && s.Ctx.HasException() {
		return engine.Undefined, &ThrownError{Value: s.Ctx.ExceptionValue()}
	}
	return v, err
}
