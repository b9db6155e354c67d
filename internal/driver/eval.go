package driver

import (
	"math"
	"strconv"
	"strings"

	"jsengine/internal/engine"
)

// Interp is the tree-walking evaluator bound to a single Context/Realm.
// Its Evaluator method is the callback every source-bodied engine
// function routes through — see internal/engine/function.go's Evaluator
// type, which deliberately carries no *Context parameter, so Interp
// closes over ctx instead of receiving it per call.
type Interp struct {
	ctx       *engine.Context
	globalEnv *engine.Environment
}

// NewInterp builds an evaluator bound to ctx, whose global scope is
// globalEnv (normally the Environment backing ctx.Realm.GlobalObject).
func NewInterp(ctx *engine.Context, globalEnv *engine.Environment) *Interp {
	return &Interp{ctx: ctx, globalEnv: globalEnv}
}

// Run evaluates a parsed program's top-level statements against env,
// draining the microtask queue afterward (Promise reactions have
// nowhere else to run). Returns the last expression
// statement's value, mirroring what a REPL echoes.
func (it *Interp) Run(prog *Program, env *engine.Environment) (engine.Value, error) {
	result := engine.Undefined
	it.hoist(prog.Stmts, env)
	for _, s := range prog.Stmts {
		if es, ok := s.(*ExprStmt); ok {
			v, err := it.evalExpr(es.X, env)
			if err != nil {
				return engine.Undefined, err
			}
			result = v
			continue
		}
		if err := it.execStmt(s, env); err != nil {
			return engine.Undefined, err
		}
		if it.ctx.Signaled() {
			break
		}
	}
	it.ctx.DrainMicrotasks()
	return result, nil
}

// Evaluator implements engine.Evaluator: body is always a *FunctionExpr
// (the Body field every source-bodied FunctionData carries), env is the
// call environment engine.Call/Construct already created chained to the
// function's closure.
func (it *Interp) Evaluator(body interface{}, env *engine.Environment, this engine.Value, newTarget engine.Value, args []engine.Value) (engine.Value, error) {
	fe, ok := body.(*FunctionExpr)
	if !ok {
		return engine.Undefined, it.ctx.ThrowTypeError("malformed function body")
	}

	if !fe.IsArrow {
		env.Declare("this", this, false, true)
		argsObj := engine.NewArrayFromValues(engine.ObjectValue(it.ctx.Realm.ArrayPrototype), args)
		it.ctx.Realm.GC.Allocate(argsObj)
		env.Declare("arguments", engine.ObjectValue(argsObj), false, true)
	}

	if err := it.bindParams(fe.Params, args, env); err != nil {
		return engine.Undefined, err
	}

	if fe.ExprBody != nil {
		return it.evalExpr(fe.ExprBody, env)
	}

	it.hoist(fe.Body.Stmts, env)
	for _, s := range fe.Body.Stmts {
		if err := it.execStmt(s, env); err != nil {
			return engine.Undefined, err
		}
		if it.ctx.HasReturn() {
			v := it.ctx.ReturnValue()
			it.ctx.ClearReturn()
			return v, nil
		}
		if it.ctx.Signaled() {
			break
		}
	}
	return engine.Undefined, nil
}

func (it *Interp) bindParams(params []Param, args []engine.Value, env *engine.Environment) error {
	for i, p := range params {
		if p.Rest {
			rest := args[min(i, len(args)):]
			arr := engine.NewArrayFromValues(engine.ObjectValue(it.ctx.Realm.ArrayPrototype), append([]engine.Value{}, rest...))
			it.ctx.Realm.GC.Allocate(arr)
			env.Declare(p.Name, engine.ObjectValue(arr), true, true)
			continue
		}
		var v engine.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = engine.Undefined
		}
		if v.IsUndefined() && p.Default != nil {
			dv, err := it.evalExpr(p.Default, env)
			if err != nil {
				return err
			}
			v = dv
		}
		env.Declare(p.Name, v, true, true)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// paramLength is the declared arity of a function expression for its
// "length" property: the count of leading params before the first
// default or rest parameter.
func paramLength(params []Param) int {
	n := 0
	for _, p := range params {
		if p.Default != nil || p.Rest {
			break
		}
		n++
	}
	return n
}

// --- statement hoisting ---

// hoist implements var/function-declaration hoisting the way a real
// parser's pre-pass would: var names (wherever nested) become
// function-scoped undefined bindings before any statement runs, function
// declarations at this level are fully materialized up front, and
// let/const names get a temporal-dead-zone placeholder in the current
// block scope.
func (it *Interp) hoist(stmts []Stmt, env *engine.Environment) {
	for _, s := range stmts {
		it.hoistVars(s, env)
	}
	for _, s := range stmts {
		switch d := s.(type) {
		case *VarDecl:
			if d.Kind != "var" {
				for _, decl := range d.Decls {
					env.Declare(decl.Name, engine.Undefined, d.Kind == "let", false)
				}
			}
		case *FunctionDecl:
			fnVal, _ := it.makeFunction(d.Fn, env)
			env.DeclareVar(d.Fn.Name, fnVal)
		}
	}
}

// hoistVars walks s (recursing into nested blocks/if/loops but not into
// nested function bodies, which hoist independently when called) raising
// every `var` name it finds to env's nearest function/global scope.
func (it *Interp) hoistVars(s Stmt, env *engine.Environment) {
	switch s := s.(type) {
	case *VarDecl:
		if s.Kind == "var" {
			for _, d := range s.Decls {
				env.DeclareVar(d.Name, engine.Undefined)
			}
		}
	case *BlockStmt:
		for _, st := range s.Stmts {
			it.hoistVars(st, env)
		}
	case *IfStmt:
		it.hoistVars(s.Cons, env)
		if s.Alt != nil {
			it.hoistVars(s.Alt, env)
		}
	case *WhileStmt:
		it.hoistVars(s.Body, env)
	case *ForStmt:
		if s.Init != nil {
			it.hoistVars(s.Init, env)
		}
		it.hoistVars(s.Body, env)
	case *ForOfStmt:
		it.hoistVars(s.Body, env)
	case *TryStmt:
		for _, st := range s.Block.Stmts {
			it.hoistVars(st, env)
		}
		if s.CatchBlock != nil {
			for _, st := range s.CatchBlock.Stmts {
				it.hoistVars(st, env)
			}
		}
		if s.FinallyBlock != nil {
			for _, st := range s.FinallyBlock.Stmts {
				it.hoistVars(st, env)
			}
		}
	case *SwitchStmt:
		for _, c := range s.Cases {
			for _, st := range c.Body {
				it.hoistVars(st, env)
			}
		}
	}
}

// --- statements ---

func (it *Interp) execStmts(stmts []Stmt, env *engine.Environment) error {
	it.hoist(stmts, env)
	for _, s := range stmts {
		if err := it.execStmt(s, env); err != nil {
			return err
		}
		if it.ctx.Signaled() {
			return nil
		}
	}
	return nil
}

func (it *Interp) execStmt(s Stmt, env *engine.Environment) error {
	switch s := s.(type) {
	case *EmptyStmt:
		return nil
	case *ExprStmt:
		_, err := it.evalExpr(s.X, env)
		return err
	case *VarDecl:
		return it.execVarDecl(s, env)
	case *BlockStmt:
		return it.execStmts(s.Stmts, env.Child())
	case *IfStmt:
		return it.execIf(s, env)
	case *WhileStmt:
		return it.execWhile(s, env)
	case *ForStmt:
		return it.execFor(s, env)
	case *ForOfStmt:
		return it.execForOf(s, env)
	case *ReturnStmt:
		v := engine.Undefined
		if s.X != nil {
			val, err := it.evalExpr(s.X, env)
			if err != nil {
				return err
			}
			v = val
		}
		it.ctx.SetReturn(v)
		return nil
	case *BreakStmt:
		it.ctx.SetBreak(s.Label)
		return nil
	case *ContinueStmt:
		it.ctx.SetContinue(s.Label)
		return nil
	case *ThrowStmt:
		v, err := it.evalExpr(s.X, env)
		if err != nil {
			return err
		}
		return it.ctx.ThrowValue(v)
	case *TryStmt:
		return it.execTry(s, env)
	case *FunctionDecl:
		return nil // fully handled by hoist
	case *SwitchStmt:
		return it.execSwitch(s, env)
	}
	return it.ctx.ThrowTypeError("unsupported statement")
}

func (it *Interp) execVarDecl(d *VarDecl, env *engine.Environment) error {
	for _, decl := range d.Decls {
		v := engine.Undefined
		if decl.Init != nil {
			val, err := it.evalExpr(decl.Init, env)
			if err != nil {
				return err
			}
			v = val
		}
		switch d.Kind {
		case "var":
			if decl.Init != nil {
				env.DeclareVar(decl.Name, v)
			}
		default:
			env.Initialize(decl.Name, v)
		}
	}
	return nil
}

func (it *Interp) execIf(s *IfStmt, env *engine.Environment) error {
	test, err := it.evalExpr(s.Test, env)
	if err != nil {
		return err
	}
	if test.IsTruthy() {
		return it.execStmt(s.Cons, env)
	}
	if s.Alt != nil {
		return it.execStmt(s.Alt, env)
	}
	return nil
}

func (it *Interp) execWhile(s *WhileStmt, env *engine.Environment) error {
	for {
		test, err := it.evalExpr(s.Test, env)
		if err != nil {
			return err
		}
		if !test.IsTruthy() {
			return nil
		}
		if err := it.execStmt(s.Body, env.Child()); err != nil {
			return err
		}
		if it.ctx.HasBreak() {
			it.ctx.ClearBreak()
			return nil
		}
		if it.ctx.HasContinue() {
			it.ctx.ClearContinue()
			continue
		}
		if it.ctx.Signaled() {
			return nil
		}
	}
}

// execFor runs the loop body in a single shared loop environment rather
// than giving each iteration its own copy of `let` bindings — a
// deliberate simplification, since Environment exposes no way to
// enumerate its own bindings for a shallow per-iteration copy from
// outside internal/engine.
func (it *Interp) execFor(s *ForStmt, env *engine.Environment) error {
	loopEnv := env.Child()
	if s.Init != nil {
		if err := it.execStmt(s.Init, loopEnv); err != nil {
			return err
		}
	}
	for {
		if s.Test != nil {
			test, err := it.evalExpr(s.Test, loopEnv)
			if err != nil {
				return err
			}
			if !test.IsTruthy() {
				return nil
			}
		}
		if err := it.execStmt(s.Body, loopEnv.Child()); err != nil {
			return err
		}
		if it.ctx.HasBreak() {
			it.ctx.ClearBreak()
			return nil
		}
		if it.ctx.HasContinue() {
			it.ctx.ClearContinue()
		} else if it.ctx.Signaled() {
			return nil
		}
		if s.Update != nil {
			if _, err := it.evalExpr(s.Update, loopEnv); err != nil {
				return err
			}
		}
	}
}

func (it *Interp) execForOf(s *ForOfStmt, env *engine.Environment) error {
	objVal, err := it.evalExpr(s.Object, env)
	if err != nil {
		return err
	}
	if s.IsIn {
		keys, err := enumerateForIn(it.ctx, objVal)
		if err != nil {
			return err
		}
		for _, k := range keys {
			iterEnv := env.Child()
			iterEnv.Declare(s.Name, engine.String(k), s.Kind != "const", true)
			if err := it.execStmt(s.Body, iterEnv); err != nil {
				return err
			}
			if it.ctx.HasBreak() {
				it.ctx.ClearBreak()
				return nil
			}
			if it.ctx.HasContinue() {
				it.ctx.ClearContinue()
				continue
			}
			if it.ctx.Signaled() {
				return nil
			}
		}
		return nil
	}

	iterator, err := engine.GetIterator(it.ctx, objVal)
	if err != nil {
		return err
	}
	for {
		value, done, err := engine.IteratorStep(it.ctx, iterator)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		iterEnv := env.Child()
		iterEnv.Declare(s.Name, value, s.Kind != "const", true)
		if err := it.execStmt(s.Body, iterEnv); err != nil {
			return err
		}
		if it.ctx.HasBreak() {
			it.ctx.ClearBreak()
			return nil
		}
		if it.ctx.HasContinue() {
			it.ctx.ClearContinue()
			continue
		}
		if it.ctx.Signaled() {
			return nil
		}
	}
}

// enumerateForIn walks the own-then-prototype-chain enumerable string
// keys of v, in the order for-in visits them, skipping duplicates a
// shadowing property introduces further down the chain.
func enumerateForIn(ctx *engine.Context, v engine.Value) ([]string, error) {
	if !v.IsObject() {
		return nil, nil
	}
	var out []string
	seen := map[string]bool{}
	cur := v.AsObject()
	for cur != nil {
		for _, name := range cur.OwnPropertyNames() {
			if seen[name] {
				continue
			}
			seen[name] = true
			if desc, ok := cur.GetOwnPropertyDescriptor(name); ok && desc.Enumerable {
				out = append(out, name)
			}
		}
		proto := cur.GetPrototype()
		if !proto.IsObject() {
			break
		}
		cur = proto.AsObject()
	}
	return out, nil
}

func (it *Interp) execTry(s *TryStmt, env *engine.Environment) error {
	ctx := it.ctx
	blockErr := it.execStmts(s.Block.Stmts, env.Child())

	if blockErr != nil && ctx.HasException() && s.HasCatch {
		val := ctx.ClearException()
		catchEnv := env.Child()
		if s.CatchParam != "" {
			catchEnv.Declare(s.CatchParam, val, true, true)
		}
		blockErr = it.execStmts(s.CatchBlock.Stmts, catchEnv)
	}

	if s.FinallyBlock == nil {
		return blockErr
	}

	savedReturn, savedHasReturn := ctx.ReturnValue(), ctx.HasReturn()
	savedBreak, savedHasBreak := ctx.BreakLabel(), ctx.HasBreak()
	savedContinue, savedHasContinue := ctx.ContinueLabel(), ctx.HasContinue()
	savedExceptionVal, savedHasException := ctx.ExceptionValue(), ctx.HasException()
	if savedHasReturn {
		ctx.ClearReturn()
	}
	if savedHasBreak {
		ctx.ClearBreak()
	}
	if savedHasContinue {
		ctx.ClearContinue()
	}
	if savedHasException {
		ctx.ClearException()
	}

	finallyErr := it.execStmts(s.FinallyBlock.Stmts, env.Child())
	if finallyErr != nil || ctx.Signaled() {
		return finallyErr
	}

	if savedHasException {
		return ctx.ThrowValue(savedExceptionVal)
	}
	if savedHasReturn {
		ctx.SetReturn(savedReturn)
	}
	if savedHasBreak {
		ctx.SetBreak(savedBreak)
	}
	if savedHasContinue {
		ctx.SetContinue(savedContinue)
	}
	return blockErr
}

func (it *Interp) execSwitch(s *SwitchStmt, env *engine.Environment) error {
	disc, err := it.evalExpr(s.Disc, env)
	if err != nil {
		return err
	}
	switchEnv := env.Child()
	matched := -1
	for i, c := range s.Cases {
		if c.Test == nil {
			continue
		}
		tv, err := it.evalExpr(c.Test, switchEnv)
		if err != nil {
			return err
		}
		if disc.StrictlyEquals(tv) {
			matched = i
			break
		}
	}
	if matched < 0 {
		for i, c := range s.Cases {
			if c.Test == nil {
				matched = i
				break
			}
		}
	}
	if matched < 0 {
		return nil
	}
	for i := matched; i < len(s.Cases); i++ {
		if err := it.execStmts(s.Cases[i].Body, switchEnv); err != nil {
			return err
		}
		if it.ctx.HasBreak() {
			it.ctx.ClearBreak()
			return nil
		}
		if it.ctx.Signaled() {
			return nil
		}
	}
	return nil
}

// --- expressions ---

func (it *Interp) evalExpr(e Expr, env *engine.Environment) (engine.Value, error) {
	switch e := e.(type) {
	case *NumberLit:
		return engine.Number(e.Value), nil
	case *StringLit:
		return engine.String(e.Value), nil
	case *BoolLit:
		return engine.Bool(e.Value), nil
	case *NullLit:
		return engine.Null, nil
	case *UndefinedLit:
		return engine.Undefined, nil
	case *ThisExpr:
		return it.resolveOr(env, "this", engine.Undefined), nil
	case *Identifier:
		v, err := env.Resolve(e.Name)
		if err != nil {
			return engine.Undefined, it.wrapEnvError(err)
		}
		return v, nil
	case *FunctionExpr:
		return it.makeFunction(e, env)
	case *ArrayLit:
		return it.evalArrayLit(e, env)
	case *ObjectLit:
		return it.evalObjectLit(e, env)
	case *SpreadExpr:
		return it.evalExpr(e.Arg, env)
	case *UnaryExpr:
		return it.evalUnary(e, env)
	case *UpdateExpr:
		return it.evalUpdate(e, env)
	case *BinaryExpr:
		return it.evalBinary(e, env)
	case *LogicalExpr:
		return it.evalLogical(e, env)
	case *ConditionalExpr:
		test, err := it.evalExpr(e.Test, env)
		if err != nil {
			return engine.Undefined, err
		}
		if test.IsTruthy() {
			return it.evalExpr(e.Cons, env)
		}
		return it.evalExpr(e.Alt, env)
	case *AssignExpr:
		return it.evalAssign(e, env)
	case *SequenceExpr:
		var v engine.Value
		for _, x := range e.Exprs {
			val, err := it.evalExpr(x, env)
			if err != nil {
				return engine.Undefined, err
			}
			v = val
		}
		return v, nil
	case *CallExpr:
		return it.evalCall(e, env)
	case *NewExpr:
		return it.evalNew(e, env)
	case *MemberExpr:
		v, _, err := it.evalMember(e, env)
		return v, err
	}
	return engine.Undefined, it.ctx.ThrowTypeError("unsupported expression")
}

// jsTypeOf reports the typeof result for v: Value.TypeName collapses
// every object to "object" (correct for typeof null, wrong for a
// callable), so a function value needs checking separately.
func jsTypeOf(v engine.Value) string {
	if v.IsCallable() {
		return "function"
	}
	return v.TypeName()
}

func (it *Interp) resolveOr(env *engine.Environment, name string, def engine.Value) engine.Value {
	if !env.HasBinding(name) {
		return def
	}
	v, err := env.Resolve(name)
	if err != nil {
		return def
	}
	return v
}

// wrapEnvError turns the plain Go errors Environment.Resolve/Assign
// return (string-prefixed the same way internal/builtins' buffer errors
// are) into real thrown JS Error values.
func (it *Interp) wrapEnvError(err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "ReferenceError: "):
		return it.ctx.ThrowReferenceError("%s", strings.TrimPrefix(msg, "ReferenceError: "))
	case strings.HasPrefix(msg, "TypeError: "):
		return it.ctx.ThrowTypeError("%s", strings.TrimPrefix(msg, "TypeError: "))
	default:
		return it.ctx.ThrowTypeError("%s", msg)
	}
}

func (it *Interp) makeFunction(fe *FunctionExpr, env *engine.Environment) (engine.Value, error) {
	closure := env
	if fe.Name != "" && !fe.IsArrow {
		closure = env.Child()
	}
	fn := engine.NewFunction(engine.ObjectValue(it.ctx.Realm.FunctionPrototype), fe.Name, paramLength(fe.Params), fe, closure, it.Evaluator)
	if !fe.IsArrow {
		proto := engine.NewObject(engine.ObjectValue(it.ctx.Realm.ObjectPrototype))
		fn.SetOwnNonEnumerable("prototype", engine.ObjectValue(proto))
		proto.SetOwnNonEnumerable("constructor", engine.ObjectValue(fn))
	}
	it.ctx.Realm.GC.Allocate(fn)
	if fe.Name != "" && !fe.IsArrow {
		closure.Declare(fe.Name, engine.ObjectValue(fn), false, true)
	}
	return engine.ObjectValue(fn), nil
}

func (it *Interp) evalArrayLit(e *ArrayLit, env *engine.Environment) (engine.Value, error) {
	arr := engine.NewArray(engine.ObjectValue(it.ctx.Realm.ArrayPrototype))
	it.ctx.Realm.GC.Allocate(arr)
	idx := uint32(0)
	arrVal := engine.ObjectValue(arr)
	for _, el := range e.Elements {
		if el == nil {
			idx++
			continue
		}
		if sp, ok := el.(*SpreadExpr); ok {
			srcVal, err := it.evalExpr(sp.Arg, env)
			if err != nil {
				return engine.Undefined, err
			}
			iterator, err := engine.GetIterator(it.ctx, srcVal)
			if err != nil {
				return engine.Undefined, err
			}
			for {
				v, done, err := engine.IteratorStep(it.ctx, iterator)
				if err != nil {
					return engine.Undefined, err
				}
				if done {
					break
				}
				if _, err := engine.SetProperty(it.ctx, arrVal, strconv.FormatUint(uint64(idx), 10), v, arrVal); err != nil {
					return engine.Undefined, err
				}
				idx++
			}
			continue
		}
		v, err := it.evalExpr(el, env)
		if err != nil {
			return engine.Undefined, err
		}
		if _, err := engine.SetProperty(it.ctx, arrVal, strconv.FormatUint(uint64(idx), 10), v, arrVal); err != nil {
			return engine.Undefined, err
		}
		idx++
	}
	if idx > arr.ArrayLength() {
		engine.SetProperty(it.ctx, arrVal, "length", engine.Int(int(idx)), arrVal)
	}
	return arrVal, nil
}

func (it *Interp) evalObjectLit(e *ObjectLit, env *engine.Environment) (engine.Value, error) {
	obj := engine.NewObject(engine.ObjectValue(it.ctx.Realm.ObjectPrototype))
	it.ctx.Realm.GC.Allocate(obj)
	objVal := engine.ObjectValue(obj)
	for _, prop := range e.Properties {
		if sp, ok := prop.Value.(*SpreadExpr); ok {
			srcVal, err := it.evalExpr(sp.Arg, env)
			if err != nil {
				return engine.Undefined, err
			}
			if srcVal.IsObject() {
				for _, name := range srcVal.AsObject().OwnPropertyNames() {
					if desc, ok := srcVal.AsObject().GetOwnPropertyDescriptor(name); ok && desc.Enumerable {
						v, err := engine.GetProperty(it.ctx, srcVal, name, srcVal)
						if err != nil {
							return engine.Undefined, err
						}
						if _, err := engine.SetProperty(it.ctx, objVal, name, v, objVal); err != nil {
							return engine.Undefined, err
						}
					}
				}
			}
			continue
		}
		var key string
		if prop.Computed {
			kv, err := it.evalExpr(prop.Key, env)
			if err != nil {
				return engine.Undefined, err
			}
			key = kv.ToDisplayString()
		} else {
			switch k := prop.Key.(type) {
			case *Identifier:
				key = k.Name
			case *StringLit:
				key = k.Value
			}
		}
		val, err := it.evalExpr(prop.Value, env)
		if err != nil {
			return engine.Undefined, err
		}
		if _, err := engine.SetProperty(it.ctx, objVal, key, val, objVal); err != nil {
			return engine.Undefined, err
		}
	}
	return objVal, nil
}

func (it *Interp) evalUnary(e *UnaryExpr, env *engine.Environment) (engine.Value, error) {
	if e.Op == "typeof" || e.Op == "TYPEOF" {
		if ident, ok := e.X.(*Identifier); ok {
			if !env.HasBinding(ident.Name) {
				return engine.String("undefined"), nil
			}
		}
		v, err := it.evalExpr(e.X, env)
		if err != nil {
			return engine.Undefined, err
		}
		return engine.String(jsTypeOf(v)), nil
	}
	if e.Op == "delete" || e.Op == "DELETE" {
		if mem, ok := e.X.(*MemberExpr); ok {
			objVal, name, err := it.evalMemberTarget(mem, env)
			if err != nil {
				return engine.Undefined, err
			}
			ok2, err := engine.DeleteProperty(it.ctx, objVal, name)
			if err != nil {
				return engine.Undefined, err
			}
			return engine.Bool(ok2), nil
		}
		return engine.True, nil
	}
	v, err := it.evalExpr(e.X, env)
	if err != nil {
		return engine.Undefined, err
	}
	switch e.Op {
	case "!":
		return engine.Bool(!v.IsTruthy()), nil
	case "-":
		return engine.Number(-v.ToFloat()), nil
	case "+":
		return engine.Number(v.ToFloat()), nil
	case "void", "VOID":
		return engine.Undefined, nil
	}
	return engine.Undefined, it.ctx.ThrowTypeError("unsupported unary operator %q", e.Op)
}

func (it *Interp) evalUpdate(e *UpdateExpr, env *engine.Environment) (engine.Value, error) {
	old, err := it.evalExpr(e.X, env)
	if err != nil {
		return engine.Undefined, err
	}
	oldNum := old.ToFloat()
	newNum := oldNum + 1
	if e.Op == "--" {
		newNum = oldNum - 1
	}
	if err := it.assignTo(e.X, engine.Number(newNum), env); err != nil {
		return engine.Undefined, err
	}
	if e.Prefix {
		return engine.Number(newNum), nil
	}
	return engine.Number(oldNum), nil
}

func (it *Interp) evalBinary(e *BinaryExpr, env *engine.Environment) (engine.Value, error) {
	x, err := it.evalExpr(e.X, env)
	if err != nil {
		return engine.Undefined, err
	}
	y, err := it.evalExpr(e.Y, env)
	if err != nil {
		return engine.Undefined, err
	}
	return it.applyBinary(e.Op, x, y)
}

func (it *Interp) applyBinary(op string, x, y engine.Value) (engine.Value, error) {
	switch op {
	case "+":
		xp, yp := x.ToPrimitive(""), y.ToPrimitive("")
		if xp.IsString() || yp.IsString() {
			return engine.String(xp.ToDisplayString() + yp.ToDisplayString()), nil
		}
		return engine.Number(xp.ToFloat() + yp.ToFloat()), nil
	case "-":
		return engine.Number(x.ToFloat() - y.ToFloat()), nil
	case "*":
		return engine.Number(x.ToFloat() * y.ToFloat()), nil
	case "/":
		return engine.Number(x.ToFloat() / y.ToFloat()), nil
	case "%":
		return engine.Number(math.Mod(x.ToFloat(), y.ToFloat())), nil
	case "**":
		return engine.Number(math.Pow(x.ToFloat(), y.ToFloat())), nil
	case "<", ">", "<=", ">=":
		return compareRelational(op, x, y), nil
	case "==":
		return engine.Bool(x.Equals(y)), nil
	case "!=":
		return engine.Bool(!x.Equals(y)), nil
	case "===":
		return engine.Bool(x.StrictlyEquals(y)), nil
	case "!==":
		return engine.Bool(!x.StrictlyEquals(y)), nil
	case "instanceof", "INSTANCEOF":
		return it.evalInstanceof(x, y)
	case "in", "IN":
		if !y.IsObject() {
			return engine.Undefined, it.ctx.ThrowTypeError("cannot use 'in' operator on a non-object")
		}
		ok, err := engine.HasProperty(it.ctx, y, x.ToDisplayString())
		if err != nil {
			return engine.Undefined, err
		}
		return engine.Bool(ok), nil
	}
	return engine.Undefined, it.ctx.ThrowTypeError("unsupported binary operator %q", op)
}

func compareRelational(op string, x, y engine.Value) engine.Value {
	if x.IsString() && y.IsString() {
		xs, ys := x.AsString(), y.AsString()
		switch op {
		case "<":
			return engine.Bool(xs < ys)
		case ">":
			return engine.Bool(xs > ys)
		case "<=":
			return engine.Bool(xs <= ys)
		default:
			return engine.Bool(xs >= ys)
		}
	}
	xf, yf := x.ToFloat(), y.ToFloat()
	switch op {
	case "<":
		return engine.Bool(xf < yf)
	case ">":
		return engine.Bool(xf > yf)
	case "<=":
		return engine.Bool(xf <= yf)
	default:
		return engine.Bool(xf >= yf)
	}
}

func (it *Interp) evalInstanceof(x, y engine.Value) (engine.Value, error) {
	if !y.IsCallable() {
		return engine.Undefined, it.ctx.ThrowTypeError("right-hand side of 'instanceof' is not callable")
	}
	if !x.IsObject() {
		return engine.False, nil
	}
	protoVal, err := engine.GetProperty(it.ctx, y, "prototype", y)
	if err != nil {
		return engine.Undefined, err
	}
	if !protoVal.IsObject() {
		return engine.Undefined, it.ctx.ThrowTypeError("function has non-object prototype")
	}
	cur := x.AsObject().GetPrototype()
	for cur.IsObject() {
		if cur.AsObject() == protoVal.AsObject() {
			return engine.True, nil
		}
		cur = cur.AsObject().GetPrototype()
	}
	return engine.False, nil
}

func (it *Interp) evalLogical(e *LogicalExpr, env *engine.Environment) (engine.Value, error) {
	x, err := it.evalExpr(e.X, env)
	if err != nil {
		return engine.Undefined, err
	}
	switch e.Op {
	case "&&":
		if !x.IsTruthy() {
			return x, nil
		}
		return it.evalExpr(e.Y, env)
	case "||":
		if x.IsTruthy() {
			return x, nil
		}
		return it.evalExpr(e.Y, env)
	default: // "??"
		if !x.IsNullish() {
			return x, nil
		}
		return it.evalExpr(e.Y, env)
	}
}

func (it *Interp) evalAssign(e *AssignExpr, env *engine.Environment) (engine.Value, error) {
	if e.Op == "=" {
		v, err := it.evalExpr(e.Value, env)
		if err != nil {
			return engine.Undefined, err
		}
		if err := it.assignTo(e.Target, v, env); err != nil {
			return engine.Undefined, err
		}
		return v, nil
	}
	cur, err := it.evalExpr(e.Target, env)
	if err != nil {
		return engine.Undefined, err
	}
	rhs, err := it.evalExpr(e.Value, env)
	if err != nil {
		return engine.Undefined, err
	}
	op := strings.TrimSuffix(e.Op, "=")
	result, err := it.applyBinary(op, cur, rhs)
	if err != nil {
		return engine.Undefined, err
	}
	if err := it.assignTo(e.Target, result, env); err != nil {
		return engine.Undefined, err
	}
	return result, nil
}

func (it *Interp) assignTo(target Expr, value engine.Value, env *engine.Environment) error {
	switch t := target.(type) {
	case *Identifier:
		if err := env.Assign(t.Name, value); err != nil {
			if strings.Contains(err.Error(), "is not defined") {
				it.globalEnv.DeclareVar(t.Name, value)
				return nil
			}
			return it.wrapEnvError(err)
		}
		return nil
	case *MemberExpr:
		objVal, name, err := it.evalMemberTarget(t, env)
		if err != nil {
			return err
		}
		_, err = engine.SetProperty(it.ctx, objVal, name, value, objVal)
		return err
	}
	return it.ctx.ThrowTypeError("invalid assignment target")
}

// evalMemberTarget evaluates a MemberExpr's object and resolves its
// property name, without performing the [[Get]] — the shared first half
// assignment and delete both need.
func (it *Interp) evalMemberTarget(m *MemberExpr, env *engine.Environment) (engine.Value, string, error) {
	objVal, err := it.evalExpr(m.Object, env)
	if err != nil {
		return engine.Undefined, "", err
	}
	if m.Computed {
		pv, err := it.evalExpr(m.Property, env)
		if err != nil {
			return engine.Undefined, "", err
		}
		return objVal, pv.ToDisplayString(), nil
	}
	return objVal, m.Property.(*StringLit).Value, nil
}

// evalMember evaluates a full member access, returning the resolved
// value along with the object it was read from (the `this` a CallExpr
// reuses for a method call).
func (it *Interp) evalMember(m *MemberExpr, env *engine.Environment) (engine.Value, engine.Value, error) {
	objVal, name, err := it.evalMemberTarget(m, env)
	if err != nil {
		return engine.Undefined, engine.Undefined, err
	}
	if m.Optional && objVal.IsNullish() {
		return engine.Undefined, engine.Undefined, nil
	}
	v, err := engine.GetProperty(it.ctx, objVal, name, objVal)
	if err != nil {
		return engine.Undefined, engine.Undefined, err
	}
	return v, objVal, nil
}

func (it *Interp) evalCall(e *CallExpr, env *engine.Environment) (engine.Value, error) {
	var fnVal, thisVal engine.Value
	var err error
	if mem, ok := e.Callee.(*MemberExpr); ok {
		fnVal, thisVal, err = it.evalMember(mem, env)
		if err != nil {
			return engine.Undefined, err
		}
		if mem.Optional && thisVal.IsNullish() {
			return engine.Undefined, nil
		}
	} else {
		fnVal, err = it.evalExpr(e.Callee, env)
		if err != nil {
			return engine.Undefined, err
		}
		thisVal = engine.Undefined
	}
	if e.Optional && fnVal.IsNullish() {
		return engine.Undefined, nil
	}
	args, err := it.evalArgs(e.Args, env)
	if err != nil {
		return engine.Undefined, err
	}
	return it.ctx.Call(fnVal, thisVal, args)
}

func (it *Interp) evalNew(e *NewExpr, env *engine.Environment) (engine.Value, error) {
	fnVal, err := it.evalExpr(e.Callee, env)
	if err != nil {
		return engine.Undefined, err
	}
	args, err := it.evalArgs(e.Args, env)
	if err != nil {
		return engine.Undefined, err
	}
	return it.ctx.Construct(fnVal, args, fnVal)
}

func (it *Interp) evalArgs(exprs []Expr, env *engine.Environment) ([]engine.Value, error) {
	var args []engine.Value
	for _, a := range exprs {
		if sp, ok := a.(*SpreadExpr); ok {
			srcVal, err := it.evalExpr(sp.Arg, env)
			if err != nil {
				return nil, err
			}
			iterator, err := engine.GetIterator(it.ctx, srcVal)
			if err != nil {
				return nil, err
			}
			for {
				v, done, err := engine.IteratorStep(it.ctx, iterator)
				if err != nil {
					return nil, err
				}
				if done {
					break
				}
				args = append(args, v)
			}
			continue
		}
		v, err := it.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}
