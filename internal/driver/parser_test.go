package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) Stmt {
	t.Helper()
	prog, err := ParseProgram(src)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	return prog.Stmts[0]
}

func TestParseVarDecl(t *testing.T) {
	s := parseOne(t, "let x = 1;")
	decl, ok := s.(*VarDecl)
	require.True(t, ok)
	require.Equal(t, "let", decl.Kind)
	require.Len(t, decl.Decls, 1)
	require.Equal(t, "x", decl.Decls[0].Name)
	num, ok := decl.Decls[0].Init.(*NumberLit)
	require.True(t, ok)
	require.Equal(t, 1.0, num.Value)
}

func TestParseBinaryPrecedence(t *testing.T) {
	s := parseOne(t, "1 + 2 * 3;")
	expr := s.(*ExprStmt).X
	bin, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)
	_, lhsIsNum := bin.X.(*NumberLit)
	require.True(t, lhsIsNum)
	rhs, ok := bin.Y.(*BinaryExpr)
	require.True(t, ok, "* must bind tighter than + and nest on the right")
	require.Equal(t, "*", rhs.Op)
}

func TestParseArrowFunctionConciseBody(t *testing.T) {
	s := parseOne(t, "let f = x => x + 1;")
	decl := s.(*VarDecl)
	fn, ok := decl.Decls[0].Init.(*FunctionExpr)
	require.True(t, ok)
	require.True(t, fn.IsArrow)
	require.Len(t, fn.Params, 1)
	require.Equal(t, "x", fn.Params[0].Name)
	require.NotNil(t, fn.ExprBody)
	require.Nil(t, fn.Body)
}

func TestParseFunctionWithDefaultAndRestParams(t *testing.T) {
	s := parseOne(t, "function f(a, b = 1, ...rest) {}")
	decl, ok := s.(*FunctionDecl)
	require.True(t, ok)
	require.Len(t, decl.Fn.Params, 3)
	require.Nil(t, decl.Fn.Params[0].Default)
	require.NotNil(t, decl.Fn.Params[1].Default)
	require.True(t, decl.Fn.Params[2].Rest)
}

func TestParseMemberAndOptionalChain(t *testing.T) {
	s := parseOne(t, "a?.b.c;")
	expr := s.(*ExprStmt).X
	outer, ok := expr.(*MemberExpr)
	require.True(t, ok)
	require.False(t, outer.Computed)
	inner, ok := outer.Object.(*MemberExpr)
	require.True(t, ok)
	require.True(t, inner.Optional)
}

func TestParseForStatement(t *testing.T) {
	s := parseOne(t, "for (let i = 0; i < 10; i = i + 1) { i; }")
	forStmt, ok := s.(*ForStmt)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	require.NotNil(t, forStmt.Test)
	require.NotNil(t, forStmt.Update)
}

func TestParseForOfAndForIn(t *testing.T) {
	s1 := parseOne(t, "for (const x of arr) { x; }")
	forOf := s1.(*ForOfStmt)
	require.False(t, forOf.IsIn)
	require.Equal(t, "const", forOf.Kind)
	require.Equal(t, "x", forOf.Name)

	s2 := parseOne(t, "for (const k in obj) { k; }")
	forIn := s2.(*ForOfStmt)
	require.True(t, forIn.IsIn)
}

func TestParseTryCatchFinally(t *testing.T) {
	s := parseOne(t, "try { 1; } catch (e) { 2; } finally { 3; }")
	try, ok := s.(*TryStmt)
	require.True(t, ok)
	require.True(t, try.HasCatch)
	require.Equal(t, "e", try.CatchParam)
	require.NotNil(t, try.FinallyBlock)
}

func TestParseSwitchStatement(t *testing.T) {
	s := parseOne(t, "switch (x) { case 1: y; break; default: z; }")
	sw, ok := s.(*SwitchStmt)
	require.True(t, ok)
	require.Len(t, sw.Cases, 2)
	require.NotNil(t, sw.Cases[0].Test)
	require.Nil(t, sw.Cases[1].Test, "default case has a nil Test")
}

func TestParseObjectAndArrayLiterals(t *testing.T) {
	s := parseOne(t, "({a: 1, b});")
	obj, ok := s.(*ExprStmt).X.(*ObjectLit)
	require.True(t, ok)
	require.Len(t, obj.Properties, 2)
	require.True(t, obj.Properties[1].Shorthand)

	s2 := parseOne(t, "[1, , 3];")
	arr, ok := s2.(*ExprStmt).X.(*ArrayLit)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)
	require.Nil(t, arr.Elements[1], "elision leaves a nil hole entry")
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	_, err := ParseProgram("let = ;")
	require.Error(t, err)
}
