package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// matrixCase is one source program plus the expected display string of
// the value its final expression statement produces — the same
// table-driven shape used for end-to-end coverage of a builtin family.
type matrixCase struct {
	name string
	src  string
	want string
}

func runMatrix(t *testing.T, cases []matrixCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestSession(t)
			v, err := s.Eval(c.src)
			require.NoError(t, err)
			require.Equal(t, c.want, v.ToDisplayString())
		})
	}
}

func TestBuiltinArray(t *testing.T) {
	runMatrix(t, []matrixCase{
		{"push returns new length", `let a = [1, 2]; a.push(3);`, "3"},
		{"map doubles", `[1, 2, 3].map(function (x) { return x * 2; }).join(",");`, "2,4,6"},
		{"filter evens", `[1, 2, 3, 4].filter(function (x) { return x % 2 === 0; }).join(",");`, "2,4"},
		{"includes", `[1, 2, 3].includes(2);`, "true"},
		{"indexOf miss", `[1, 2, 3].indexOf(9);`, "-1"},
		{"slice negative", `[1, 2, 3, 4, 5].slice(-2).join(",");`, "4,5"},
		{"isArray", `Array.isArray([1]) && !Array.isArray({});`, "true"},
	})
}

func TestBuiltinMapAndSet(t *testing.T) {
	runMatrix(t, []matrixCase{
		{"map set/size", `
			let m = new Map([["a", 1], ["b", 2]]);
			m.set("c", 3);
			m.size;
		`, "3"},
		{"map get returns value", `new Map([["a", 1]]).get("a");`, "1"},
		{"map delete", `
			let m = new Map([["a", 1]]);
			m.delete("a");
			m.has("a");
		`, "false"},
		{"set dedups", `
			let s = new Set([1, 1, 2, 2, 3]);
			s.size;
		`, "3"},
		{"set has", `new Set([1, 2, 3]).has(2);`, "true"},
	})
}

func TestBuiltinWeakMapAndWeakSet(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		let key = {};
		let wm = new WeakMap();
		wm.set(key, "payload");
		wm.has(key) && wm.get(key) === "payload";
	`)
	require.NoError(t, err)
	require.Equal(t, "true", v.ToDisplayString())

	v2, err := s.Eval(`
		let k = {};
		let ws = new WeakSet();
		ws.add(k);
		ws.has(k);
	`)
	require.NoError(t, err)
	require.Equal(t, "true", v2.ToDisplayString())
}

func TestBuiltinErrorHierarchy(t *testing.T) {
	runMatrix(t, []matrixCase{
		{"TypeError instanceof Error", `new TypeError("bad") instanceof Error;`, "true"},
		{"RangeError name", `new RangeError("oops").name;`, "RangeError"},
		{"message carried", `new SyntaxError("nope").message;`, "nope"},
		{"URIError name", `new URIError("uri").name;`, "URIError"},
	})
}

func TestBuiltinFunctionCallApplyBind(t *testing.T) {
	runMatrix(t, []matrixCase{
		{"call", `
			function greet(greeting) { return greeting + " " + this.name; }
			greet.call({ name: "Ada" }, "hi");
		`, "hi Ada"},
		{"apply", `
			function sum(a, b) { return a + b; }
			sum.apply(null, [1, 2]);
		`, "3"},
		{"bind partial application", `
			function add(a, b) { return a + b; }
			let add5 = add.bind(null, 5);
			add5(10);
		`, "15"},
	})
}

func TestBuiltinObjectStatics(t *testing.T) {
	runMatrix(t, []matrixCase{
		{"keys", `Object.keys({ a: 1, b: 2 }).join(",");`, "a,b"},
		{"assign merges", `
			let target = { a: 1 };
			Object.assign(target, { b: 2 }, { c: 3 });
			Object.keys(target).join(",");
		`, "a,b,c"},
		{"freeze prevents writes", `
			let o = Object.freeze({ a: 1 });
			o.a = 2;
			o.a;
		`, "1"},
		{"isFrozen", `Object.isFrozen(Object.freeze({}));`, "true"},
		{"getPrototypeOf", `
			function Animal() {}
			let a = new Animal();
			Object.getPrototypeOf(a) === Animal.prototype;
		`, "true"},
	})
}

func TestBuiltinReflect(t *testing.T) {
	runMatrix(t, []matrixCase{
		{"get", `Reflect.get({ a: 1 }, "a");`, "1"},
		{"set", `
			let o = {};
			Reflect.set(o, "x", 5);
			o.x;
		`, "5"},
		{"has", `Reflect.has({ a: 1 }, "a");`, "true"},
		{"ownKeys", `Reflect.ownKeys({ a: 1, b: 2 }).join(",");`, "a,b"},
		{"apply", `Reflect.apply(function (a, b) { return a + b; }, null, [1, 2]);`, "3"},
	})
}

func TestBuiltinProxyTrapsThroughBuiltinsWiring(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		let target = { x: 1 };
		let seen = [];
		let p = new Proxy(target, {
			get: function (t, k) {
				seen.push(k);
				return t[k];
			}
		});
		let r = p.x;
		r + ":" + seen.join(",");
	`)
	require.NoError(t, err)
	require.Equal(t, "1:x", v.ToDisplayString())
}

func TestBuiltinProxyRevocable(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Eval(`
		let pair = Proxy.revocable({ x: 1 }, {});
		pair.revoke();
		pair.proxy.x;
	`)
	require.Error(t, err, "reading through a revoked proxy throws")
}

func TestBuiltinArrayBufferAndTypedArray(t *testing.T) {
	runMatrix(t, []matrixCase{
		{"byteLength", `new ArrayBuffer(16).byteLength;`, "16"},
		{"typed array fill/length", `
			let buf = new ArrayBuffer(4);
			let view = new Int32Array(buf);
			view.fill(7);
			view.length;
		`, "1"},
	})
}

func TestBuiltinDataView(t *testing.T) {
	s := newTestSession(t)
	v, err := s.Eval(`
		let buf = new ArrayBuffer(4);
		let dv = new DataView(buf);
		dv.setUint8(0, 200);
		dv.getUint8(0);
	`)
	require.NoError(t, err)
	require.Equal(t, 200.0, v.ToFloat())
}

func TestBuiltinSymbol(t *testing.T) {
	runMatrix(t, []matrixCase{
		{"distinct symbols", `Symbol("x") === Symbol("x");`, "false"},
		{"Symbol.for interns", `Symbol.for("k") === Symbol.for("k");`, "true"},
	})
}

func TestBuiltinPromiseResolvesThroughThenChain(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Eval(`
		var result;
		Promise.resolve(1).then(function (v) { return v + 1; }).then(function (v) {
			result = v + 1;
		});
	`)
	require.NoError(t, err)

	// Run drains the microtask queue once after all top-level statements
	// execute, so the .then chain only settles between Eval calls.
	v, err := s.Eval(`result;`)
	require.NoError(t, err)
	require.Equal(t, 3.0, v.ToFloat())
}
