package engine

// PromiseState is the three-state lifecycle of a KindPromise object.
type PromiseState uint8

const (
	PromiseStatePending PromiseState = iota
	PromiseStateFulfilled
	PromiseStateRejected
)

func (s PromiseState) String() string {
	switch s {
	case PromiseStateFulfilled:
		return "fulfilled"
	case PromiseStateRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// reaction is one .then-registered fulfill/reject callback pair, queued
// as a microtask once the promise it watches settles.
type reaction struct {
	onFulfilled Value // callable, or Undefined for a passthrough
	onRejected  Value
	derived     *Object
}

// PromiseData is the payload of a KindPromise object: state plus the
// reaction queues waiting on it to settle.
type PromiseData struct {
	State   PromiseState
	Result  Value
	Handled bool

	fulfillReactions []reaction
	rejectReactions  []reaction
}

// NewPromiseObject creates a pending KindPromise object.
func NewPromiseObject(proto Value) *Object {
	return &Object{Kind: KindPromise, shape: RootShape, prototype: proto, extensible: true, Promise: &PromiseData{State: PromiseStatePending}}
}

// NewPromiseCapability builds a fresh pending promise plus the resolve/
// reject functions that settle it exactly once — the pattern the
// executor-taking constructor, Promise.resolve/reject, and .then's
// derived promise all need.
func NewPromiseCapability(ctx *Context) (promise *Object, resolve, reject func(Value)) {
	p := NewPromiseObject(ObjectValue(ctx.Realm.PromisePrototype))
	settled := false
	resolve = func(v Value) {
		if settled {
			return
		}
		settled = true
		ResolvePromise(ctx, p, v)
	}
	reject = func(v Value) {
		if settled {
			return
		}
		settled = true
		settlePromise(ctx, p, PromiseStateRejected, v)
	}
	return p, resolve, reject
}

// ResolvePromise implements the resolve half of Promise's resolution
// procedure: resolving with a thenable defers settlement to that
// thenable's own then; anything else settles p as fulfilled immediately.
func ResolvePromise(ctx *Context, p *Object, v Value) {
	if v.IsObject() && v.AsObject() == p {
		settlePromise(ctx, p, PromiseStateRejected, ObjectValue(ctx.Realm.NewError("TypeError", "chaining cycle detected for promise")))
		return
	}
	if v.IsObject() {
		then, err := GetProperty(ctx, v, "then", v)
		if err == nil && then.IsCallable() {
			ctx.EnqueueMicrotask(func() {
				resolveFn := NewNativeFunction(ObjectValue(ctx.Realm.FunctionPrototype), "", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
					ResolvePromise(ctx, p, argOrUndefined(args, 0))
					return Undefined, nil
				})
				rejectFn := NewNativeFunction(ObjectValue(ctx.Realm.FunctionPrototype), "", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
					settlePromise(ctx, p, PromiseStateRejected, argOrUndefined(args, 0))
					return Undefined, nil
				})
				_, callErr := ctx.Call(then, v, []Value{ObjectValue(resolveFn), ObjectValue(rejectFn)})
				if callErr != nil && ctx.HasException() {
					settlePromise(ctx, p, PromiseStateRejected, ctx.ExceptionValue())
					ctx.ClearException()
				}
			})
			return
		}
	}
	settlePromise(ctx, p, PromiseStateFulfilled, v)
}

func argOrUndefined(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined
}

func settlePromise(ctx *Context, p *Object, state PromiseState, result Value) {
	if p.Promise.State != PromiseStatePending {
		return
	}
	p.Promise.State = state
	p.Promise.Result = result
	queue := p.Promise.fulfillReactions
	if state == PromiseStateRejected {
		queue = p.Promise.rejectReactions
	}
	p.Promise.fulfillReactions = nil
	p.Promise.rejectReactions = nil
	for _, r := range queue {
		runReaction(ctx, r, state, result)
	}
}

// ThenPromise registers a fulfill/reject reaction pair, returning the
// derived promise that .then/.catch/.finally all hand back. Either
// callback may be Undefined, in which case the derived promise passes
// the settlement through unchanged.
func ThenPromise(ctx *Context, p *Object, onFulfilled, onRejected Value) *Object {
	derived := NewPromiseObject(ObjectValue(ctx.Realm.PromisePrototype))
	r := reaction{onFulfilled: onFulfilled, onRejected: onRejected, derived: derived}
	p.Promise.Handled = true
	switch p.Promise.State {
	case PromiseStatePending:
		p.Promise.fulfillReactions = append(p.Promise.fulfillReactions, r)
		p.Promise.rejectReactions = append(p.Promise.rejectReactions, r)
	case PromiseStateFulfilled:
		runReaction(ctx, r, PromiseStateFulfilled, p.Promise.Result)
	case PromiseStateRejected:
		runReaction(ctx, r, PromiseStateRejected, p.Promise.Result)
	}
	return derived
}

// runReaction schedules one reaction's callback as a microtask, settling
// its derived promise from the callback's return value, or from the
// error the callback threw if it did.
func runReaction(ctx *Context, r reaction, state PromiseState, result Value) {
	ctx.EnqueueMicrotask(func() {
		cb := r.onRejected
		if state == PromiseStateFulfilled {
			cb = r.onFulfilled
		}
		if !cb.IsCallable() {
			if state == PromiseStateFulfilled {
				ResolvePromise(ctx, r.derived, result)
			} else {
				settlePromise(ctx, r.derived, PromiseStateRejected, result)
			}
			return
		}
		v, err := ctx.Call(cb, Undefined, []Value{result})
		if err != nil && ctx.HasException() {
			settlePromise(ctx, r.derived, PromiseStateRejected, ctx.ExceptionValue())
			ctx.ClearException()
			return
		}
		ResolvePromise(ctx, r.derived, v)
	})
}
