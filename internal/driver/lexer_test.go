package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenTypes(src string) []TokenType {
	l := NewLexer(src)
	var out []TokenType
	for {
		tok := l.NextToken()
		out = append(out, tok.Type)
		if tok.Type == TokEOF {
			return out
		}
	}
}

func TestLexerBasicTokens(t *testing.T) {
	require.Equal(t, []TokenType{TokLet, TokIdent, TokAssign, TokNumber, TokSemicolon, TokEOF},
		tokenTypes("let x = 1;"))
}

func TestLexerDotVsSpreadDisambiguation(t *testing.T) {
	require.Equal(t, []TokenType{TokIdent, TokDot, TokIdent, TokSemicolon, TokEOF},
		tokenTypes("a.b;"))
	require.Equal(t, []TokenType{TokLBracket, TokSpread, TokIdent, TokRBracket, TokSemicolon, TokEOF},
		tokenTypes("[...a];"))
}

func TestLexerStringLiteral(t *testing.T) {
	l := NewLexer(`"hello"`)
	tok := l.NextToken()
	require.Equal(t, TokString, tok.Type)
	require.Equal(t, "hello", tok.Literal)
}

func TestLexerTemplateLiteralIsOneStringToken(t *testing.T) {
	l := NewLexer("`hi ${1}`")
	tok := l.NextToken()
	require.Equal(t, TokString, tok.Type)
	require.Equal(t, "hi ${1}", tok.Literal, "no interpolation scanning: ${...} is kept as literal text")
	require.Equal(t, TokEOF, l.NextToken().Type)
}

func TestLexerKeywordOperatorsAreUppercaseTypes(t *testing.T) {
	require.Equal(t, []TokenType{TokIdent, TokInstanceof, TokIdent, TokSemicolon, TokEOF}, tokenTypes("a instanceof b;"))
	require.Equal(t, TokenType("INSTANCEOF"), TokInstanceof)
	require.Equal(t, TokenType("TYPEOF"), TokTypeof)
	require.Equal(t, TokenType("IN"), TokIn)
}

func TestLexerOptionalChainVsTernary(t *testing.T) {
	require.Equal(t, []TokenType{TokIdent, TokOptionalChain, TokIdent, TokSemicolon, TokEOF}, tokenTypes("a?.b;"))
	require.Equal(t, []TokenType{TokIdent, TokQuestion, TokNumber, TokColon, TokNumber, TokSemicolon, TokEOF},
		tokenTypes("a ? 1 : 2;"))
}

func TestLexerNumberLiteral(t *testing.T) {
	l := NewLexer("3.14")
	tok := l.NextToken()
	require.Equal(t, TokNumber, tok.Type)
	require.Equal(t, "3.14", tok.Literal)
}

func TestLexerLineAndColumnTracking(t *testing.T) {
	l := NewLexer("let\nx")
	first := l.NextToken()
	require.Equal(t, 1, first.Line)
	second := l.NextToken()
	require.Equal(t, 2, second.Line)
}
