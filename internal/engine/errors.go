package engine

// NewError builds a heap Error object of the given kind
// ("Error"/"TypeError"/"RangeError"/"ReferenceError"/"SyntaxError"/
// "URIError") with
// the given message, linked to the matching prototype registered on the
// Realm. This is the single representation every in-language exception
// uses — a plain object carrying a kind tag and a message, as
// spec.md §7 requires, not a family of Go error types.
func (r *Realm) NewError(kind, message string) *Object {
	proto := r.errorPrototypeFor(kind)
	o := NewObject(proto)
	o.Kind = KindError
	o.ErrKind = kind
	o.SetOwnNonEnumerable("message", String(message))
	o.SetOwnNonEnumerable("name", String(kind))
	o.SetOwnNonEnumerable("stack", String(kind+": "+message))
	return o
}

func (r *Realm) errorPrototypeFor(kind string) Value {
	switch kind {
	case "TypeError":
		return ObjectValue(r.TypeErrorPrototype)
	case "RangeError":
		return ObjectValue(r.RangeErrorPrototype)
	case "ReferenceError":
		return ObjectValue(r.ReferenceErrorPrototype)
	case "SyntaxError":
		return ObjectValue(r.SyntaxErrorPrototype)
	case "URIError":
		return ObjectValue(r.URIErrorPrototype)
	default:
		return ObjectValue(r.ErrorPrototype)
	}
}

// IsError reports whether v is a heap Error object, optionally of a
// specific kind when kind != "".
func IsError(v Value, kind string) bool {
	if !v.IsObject() || v.obj.Kind != KindError {
		return false
	}
	return kind == "" || v.obj.ErrKind == kind
}
