package driver

import (
	"fmt"

	"jsengine/internal/diag"
)

// precedence levels, lowest to highest.
const (
	precNone = iota
	precComma
	precAssign
	precConditional
	precNullish
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precPostfix
	precCall
)

var binPrecedence = map[TokenType]int{
	TokOr:          precOr,
	TokAnd:         precAnd,
	TokNullish:     precNullish,
	TokEq:          precEquality,
	TokNotEq:       precEquality,
	TokStrictEq:    precEquality,
	TokStrictNotEq: precEquality,
	TokLt:          precRelational,
	TokGt:          precRelational,
	TokLtEq:        precRelational,
	TokGtEq:        precRelational,
	TokInstanceof:  precRelational,
	TokIn:          precRelational,
	TokPlus:        precAdditive,
	TokMinus:       precAdditive,
	TokStar:        precMultiplicative,
	TokSlash:       precMultiplicative,
	TokPercent:     precMultiplicative,
	TokStarStar:    precExponent,
	TokLParen:      precCall,
	TokDot:         precCall,
	TokLBracket:    precCall,
	TokOptionalChain: precCall,
}

var assignOps = map[TokenType]bool{
	TokAssign: true, TokPlusAssign: true, TokMinusAssign: true,
	TokStarAssign: true, TokSlashAssign: true, TokPercentAssign: true,
}

// Parser is a recursive-descent/Pratt parser over the Lexer's token
// stream, producing the AST in ast.go. It has no knowledge of types,
// classes, generics or modules — only the statement/expression subset
// the tree-walking evaluator understands.
type Parser struct {
	l    *Lexer
	cur  Token
	peek Token
}

func NewParser(src string) *Parser {
	p := &Parser{l: NewLexer(src)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return diag.NewRuntimeError("%d:%d: "+format, append([]interface{}{p.cur.Line, p.cur.Column}, args...)...)
}

func (p *Parser) expect(t TokenType) (Token, error) {
	if p.cur.Type != t {
		return Token{}, p.errf("expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

func (p *Parser) at(t TokenType) bool { return p.cur.Type == t }

func (p *Parser) skipSemi() {
	for p.at(TokSemicolon) {
		p.next()
	}
}

// ParseProgram parses the entire input as a sequence of statements.
func ParseProgram(src string) (*Program, error) {
	p := NewParser(src)
	prog := &Program{pos: pos{Line: 1, Column: 1}}
	for !p.at(TokEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
		p.skipSemi()
	}
	return prog, nil
}

// --- statements ---

func (p *Parser) parseStatement() (Stmt, error) {
	switch p.cur.Type {
	case TokSemicolon:
		s := &EmptyStmt{pos: curPos(p)}
		p.next()
		return s, nil
	case TokLBrace:
		return p.parseBlock()
	case TokVar, TokLet, TokConst:
		return p.parseVarDecl()
	case TokFunction:
		return p.parseFunctionDecl()
	case TokIf:
		return p.parseIf()
	case TokWhile:
		return p.parseWhile()
	case TokFor:
		return p.parseFor()
	case TokReturn:
		return p.parseReturn()
	case TokBreak:
		p2 := curPos(p)
		p.next()
		label := ""
		if p.at(TokIdent) {
			label = p.cur.Literal
			p.next()
		}
		p.skipSemi()
		return &BreakStmt{pos: p2, Label: label}, nil
	case TokContinue:
		p2 := curPos(p)
		p.next()
		label := ""
		if p.at(TokIdent) {
			label = p.cur.Literal
			p.next()
		}
		p.skipSemi()
		return &ContinueStmt{pos: p2, Label: label}, nil
	case TokThrow:
		p2 := curPos(p)
		p.next()
		x, err := p.parseExpr(precComma)
		if err != nil {
			return nil, err
		}
		p.skipSemi()
		return &ThrowStmt{pos: p2, X: x}, nil
	case TokTry:
		return p.parseTry()
	case TokSwitch:
		return p.parseSwitch()
	default:
		p2 := curPos(p)
		x, err := p.parseExpr(precComma)
		if err != nil {
			return nil, err
		}
		p.skipSemi()
		return &ExprStmt{pos: p2, X: x}, nil
	}
}

func curPos(p *Parser) pos { return pos{Line: p.cur.Line, Column: p.cur.Column} }

func (p *Parser) parseBlock() (*BlockStmt, error) {
	start := curPos(p)
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	b := &BlockStmt{pos: start}
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
		p.skipSemi()
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Parser) parseVarDecl() (Stmt, error) {
	start := curPos(p)
	kind := string(p.cur.Type)
	switch p.cur.Type {
	case TokVar:
		kind = "var"
	case TokLet:
		kind = "let"
	case TokConst:
		kind = "const"
	}
	p.next()
	decl := &VarDecl{pos: start, Kind: kind}
	for {
		name, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		d := Declarator{Name: name.Literal}
		if p.at(TokAssign) {
			p.next()
			init, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			d.Init = init
		}
		decl.Decls = append(decl.Decls, d)
		if !p.at(TokComma) {
			break
		}
		p.next()
	}
	p.skipSemi()
	return decl, nil
}

func (p *Parser) parseFunctionDecl() (Stmt, error) {
	start := curPos(p)
	fn, err := p.parseFunctionExpr(true)
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{pos: start, Fn: fn}, nil
}

func (p *Parser) parseFunctionExpr(requireName bool) (*FunctionExpr, error) {
	start := curPos(p)
	if _, err := p.expect(TokFunction); err != nil {
		return nil, err
	}
	name := ""
	if p.at(TokIdent) {
		name = p.cur.Literal
		p.next()
	} else if requireName {
		return nil, p.errf("expected function name")
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FunctionExpr{pos: start, Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseParams() ([]Param, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	var params []Param
	for !p.at(TokRParen) {
		var prm Param
		if p.at(TokSpread) {
			p.next()
			prm.Rest = true
		}
		name, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		prm.Name = name.Literal
		if p.at(TokAssign) {
			p.next()
			def, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			prm.Default = def
		}
		params = append(params, prm)
		if p.at(TokComma) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	start := curPos(p)
	p.next()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	test, err := p.parseExpr(precComma)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	cons, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var alt Stmt
	if p.at(TokElse) {
		p.next()
		alt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{pos: start, Test: test, Cons: cons, Alt: alt}, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	start := curPos(p)
	p.next()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	test, err := p.parseExpr(precComma)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{pos: start, Test: test, Body: body}, nil
}

// parseFor handles classic `for(init;test;update)`, `for(x of iterable)`,
// and `for(x in obj)`, disambiguating by scanning ahead for `of`/`in`
// after a single declarator.
func (p *Parser) parseFor() (Stmt, error) {
	start := curPos(p)
	p.next()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}

	if p.at(TokVar) || p.at(TokLet) || p.at(TokConst) {
		kind := string(p.cur.Type)
		switch p.cur.Type {
		case TokVar:
			kind = "var"
		case TokLet:
			kind = "let"
		case TokConst:
			kind = "const"
		}
		p.next()
		name, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		if p.at(TokOf) || p.at(TokIn) {
			isIn := p.at(TokIn)
			p.next()
			obj, err := p.parseExpr(precComma)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRParen); err != nil {
				return nil, err
			}
			body, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return &ForOfStmt{pos: start, Kind: kind, Name: name.Literal, Object: obj, Body: body, IsIn: isIn}, nil
		}
		// classic for: re-assemble the declarator list we already
		// partially consumed.
		decl := &VarDecl{pos: start, Kind: kind}
		d := Declarator{Name: name.Literal}
		if p.at(TokAssign) {
			p.next()
			init, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			d.Init = init
		}
		decl.Decls = append(decl.Decls, d)
		for p.at(TokComma) {
			p.next()
			n2, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			d2 := Declarator{Name: n2.Literal}
			if p.at(TokAssign) {
				p.next()
				init, err := p.parseExpr(precAssign)
				if err != nil {
					return nil, err
				}
				d2.Init = init
			}
			decl.Decls = append(decl.Decls, d2)
		}
		return p.finishClassicFor(start, decl)
	}

	var init Stmt
	if !p.at(TokSemicolon) {
		x, err := p.parseExpr(precComma)
		if err != nil {
			return nil, err
		}
		init = &ExprStmt{pos: start, X: x}
	}
	return p.finishClassicFor(start, init)
}

func (p *Parser) finishClassicFor(start pos, init Stmt) (Stmt, error) {
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	var test Expr
	if !p.at(TokSemicolon) {
		t, err := p.parseExpr(precComma)
		if err != nil {
			return nil, err
		}
		test = t
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	var update Expr
	if !p.at(TokRParen) {
		u, err := p.parseExpr(precComma)
		if err != nil {
			return nil, err
		}
		update = u
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ForStmt{pos: start, Init: init, Test: test, Update: update, Body: body}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	start := curPos(p)
	p.next()
	if p.at(TokSemicolon) || p.at(TokRBrace) || p.at(TokEOF) {
		return &ReturnStmt{pos: start}, nil
	}
	x, err := p.parseExpr(precComma)
	if err != nil {
		return nil, err
	}
	p.skipSemi()
	return &ReturnStmt{pos: start, X: x}, nil
}

func (p *Parser) parseTry() (Stmt, error) {
	start := curPos(p)
	p.next()
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	t := &TryStmt{pos: start, Block: block}
	if p.at(TokCatch) {
		t.HasCatch = true
		p.next()
		if p.at(TokLParen) {
			p.next()
			name, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			t.CatchParam = name.Literal
			if _, err := p.expect(TokRParen); err != nil {
				return nil, err
			}
		}
		cb, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		t.CatchBlock = cb
	}
	if p.at(TokFinally) {
		p.next()
		fb, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		t.FinallyBlock = fb
	}
	return t, nil
}

func (p *Parser) parseSwitch() (Stmt, error) {
	start := curPos(p)
	p.next()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	disc, err := p.parseExpr(precComma)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	sw := &SwitchStmt{pos: start, Disc: disc}
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		var c SwitchCase
		if p.at(TokCase) {
			p.next()
			t, err := p.parseExpr(precComma)
			if err != nil {
				return nil, err
			}
			c.Test = t
		} else if p.at(TokDefault) {
			p.next()
		} else {
			return nil, p.errf("expected case or default")
		}
		if _, err := p.expect(TokColon); err != nil {
			return nil, err
		}
		for !p.at(TokCase) && !p.at(TokDefault) && !p.at(TokRBrace) && !p.at(TokEOF) {
			s, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			c.Body = append(c.Body, s)
			p.skipSemi()
		}
		sw.Cases = append(sw.Cases, c)
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return sw, nil
}

// --- expressions (Pratt parser) ---

func (p *Parser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.parseBinaryRHS(left, minPrec)
}

func (p *Parser) parseBinaryRHS(left Expr, minPrec int) (Expr, error) {
	for {
		if assignOps[p.cur.Type] && minPrec <= precAssign {
			op := string(p.cur.Type)
			start := curPos(p)
			p.next()
			right, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			left = &AssignExpr{pos: start, Op: op, Target: left, Value: right}
			continue
		}
		if p.at(TokQuestion) && minPrec <= precConditional {
			start := curPos(p)
			p.next()
			cons, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokColon); err != nil {
				return nil, err
			}
			alt, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			left = &ConditionalExpr{pos: start, Test: left, Cons: cons, Alt: alt}
			continue
		}
		if p.at(TokComma) && minPrec <= precComma {
			start := curPos(p)
			p.next()
			right, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			seq, ok := left.(*SequenceExpr)
			if !ok {
				seq = &SequenceExpr{pos: start, Exprs: []Expr{left}}
			}
			seq.Exprs = append(seq.Exprs, right)
			left = seq
			continue
		}
		prec, ok := binPrecedence[p.cur.Type]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := string(p.cur.Type)
		start := curPos(p)
		switch p.cur.Type {
		case TokAnd, TokOr, TokNullish:
			p.next()
			right, err := p.parseExpr(prec + 1)
			if err != nil {
				return nil, err
			}
			left = &LogicalExpr{pos: start, Op: op, X: left, Y: right}
		case TokLParen, TokLBracket, TokDot, TokOptionalChain:
			// postfix call/member handled in parsePostfix already;
			// reaching here for these token types means the caller
			// is composing a larger binary chain after a call, which
			// parsePostfix already folded in, so stop.
			return left, nil
		default:
			p.next()
			nextMin := prec + 1
			if op == "**" {
				nextMin = prec // right-associative
			}
			right, err := p.parseExpr(nextMin)
			if err != nil {
				return nil, err
			}
			left = &BinaryExpr{pos: start, Op: op, X: left, Y: right}
		}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	switch p.cur.Type {
	case TokBang, TokMinus, TokPlus, TokTypeof, TokDelete, TokVoid:
		start := curPos(p)
		op := string(p.cur.Type)
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{pos: start, Op: op, X: x}, nil
	case TokIncrement, TokDecrement:
		start := curPos(p)
		op := string(p.cur.Type)
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UpdateExpr{pos: start, Op: op, X: x, Prefix: true}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parseCallOrMember()
	if err != nil {
		return nil, err
	}
	if p.at(TokIncrement) || p.at(TokDecrement) {
		start := curPos(p)
		op := string(p.cur.Type)
		p.next()
		return &UpdateExpr{pos: start, Op: op, X: expr, Prefix: false}, nil
	}
	return expr, nil
}

func (p *Parser) parseCallOrMember() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case TokDot:
			start := curPos(p)
			p.next()
			name, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{pos: start, Object: expr, Property: &StringLit{pos: start, Value: name.Literal}, Computed: false}
		case TokOptionalChain:
			start := curPos(p)
			p.next()
			if p.at(TokLParen) {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				expr = &CallExpr{pos: start, Callee: expr, Args: args, Optional: true}
				continue
			}
			name, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{pos: start, Object: expr, Property: &StringLit{pos: start, Value: name.Literal}, Computed: false, Optional: true}
		case TokLBracket:
			start := curPos(p)
			p.next()
			prop, err := p.parseExpr(precComma)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRBracket); err != nil {
				return nil, err
			}
			expr = &MemberExpr{pos: start, Object: expr, Property: prop, Computed: true}
		case TokLParen:
			start := curPos(p)
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &CallExpr{pos: start, Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]Expr, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	var args []Expr
	for !p.at(TokRParen) {
		if p.at(TokSpread) {
			start := curPos(p)
			p.next()
			arg, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			args = append(args, &SpreadExpr{pos: start, Arg: arg})
		} else {
			arg, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if p.at(TokComma) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	start := curPos(p)
	switch p.cur.Type {
	case TokNumber:
		lit := p.cur.Literal
		p.next()
		return &NumberLit{pos: start, Value: parseFloatLiteral(lit)}, nil
	case TokString:
		lit := p.cur.Literal
		p.next()
		return &StringLit{pos: start, Value: lit}, nil
	case TokTrue:
		p.next()
		return &BoolLit{pos: start, Value: true}, nil
	case TokFalse:
		p.next()
		return &BoolLit{pos: start, Value: false}, nil
	case TokNull:
		p.next()
		return &NullLit{pos: start}, nil
	case TokUndefined:
		p.next()
		return &UndefinedLit{pos: start}, nil
	case TokThis:
		p.next()
		return &ThisExpr{pos: start}, nil
	case TokNew:
		p.next()
		callee, err := p.parseCallOrMemberNoCall()
		if err != nil {
			return nil, err
		}
		var args []Expr
		if p.at(TokLParen) {
			args, err = p.parseArgs()
			if err != nil {
				return nil, err
			}
		}
		return &NewExpr{pos: start, Callee: callee, Args: args}, nil
	case TokFunction:
		return p.parseFunctionExpr(false)
	case TokLParen:
		return p.parseParenOrArrow()
	case TokLBracket:
		return p.parseArrayLit()
	case TokLBrace:
		return p.parseObjectLit()
	case TokIdent:
		name := p.cur.Literal
		p.next()
		if p.at(TokArrow) {
			return p.finishArrowSingleParam(start, name)
		}
		return &Identifier{pos: start, Name: name}, nil
	}
	return nil, p.errf("unexpected token %s (%q)", p.cur.Type, p.cur.Literal)
}

// parseCallOrMemberNoCall parses a `new` callee: member accesses but not
// a trailing call, since that call belongs to `new`'s own argument list.
func (p *Parser) parseCallOrMemberNoCall() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case TokDot:
			start := curPos(p)
			p.next()
			name, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{pos: start, Object: expr, Property: &StringLit{pos: start, Value: name.Literal}, Computed: false}
		case TokLBracket:
			start := curPos(p)
			p.next()
			prop, err := p.parseExpr(precComma)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRBracket); err != nil {
				return nil, err
			}
			expr = &MemberExpr{pos: start, Object: expr, Property: prop, Computed: true}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishArrowSingleParam(start pos, name string) (Expr, error) {
	p.next() // consume =>
	return p.finishArrowBody(start, []Param{{Name: name}})
}

func (p *Parser) finishArrowBody(start pos, params []Param) (Expr, error) {
	if p.at(TokLBrace) {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &FunctionExpr{pos: start, Params: params, Body: body, IsArrow: true}, nil
	}
	expr, err := p.parseExpr(precAssign)
	if err != nil {
		return nil, err
	}
	return &FunctionExpr{pos: start, Params: params, IsArrow: true, ExprBody: expr}, nil
}

// parseParenOrArrow disambiguates `(expr)` from `(params) => body` by
// speculatively parsing as a parameter list; on failure it retries
// as a parenthesized expression.
func (p *Parser) parseParenOrArrow() (Expr, error) {
	start := curPos(p)
	save := *p.l
	saveCur, savePeek := p.cur, p.peek

	if params, ok := p.tryParseArrowParams(); ok {
		if p.at(TokArrow) {
			p.next()
			return p.finishArrowBody(start, params)
		}
	}

	// not an arrow function: rewind and parse as a grouped expression.
	*p.l = save
	p.cur, p.peek = saveCur, savePeek

	p.next() // consume (
	expr, err := p.parseExpr(precComma)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return expr, nil
}

// tryParseArrowParams attempts to consume "(" ident ("," ident)* ")"
// (with optional defaults/rest), reporting false without consuming
// anything usable if the tokens don't fit that shape.
func (p *Parser) tryParseArrowParams() (params []Param, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	if !p.at(TokLParen) {
		return nil, false
	}
	ps, err := p.parseParams()
	if err != nil {
		return nil, false
	}
	return ps, true
}

func (p *Parser) parseArrayLit() (Expr, error) {
	start := curPos(p)
	p.next()
	arr := &ArrayLit{pos: start}
	for !p.at(TokRBracket) {
		if p.at(TokComma) {
			arr.Elements = append(arr.Elements, nil)
			p.next()
			continue
		}
		if p.at(TokSpread) {
			sStart := curPos(p)
			p.next()
			e, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, &SpreadExpr{pos: sStart, Arg: e})
		} else {
			e, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, e)
		}
		if p.at(TokComma) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(TokRBracket); err != nil {
		return nil, err
	}
	return arr, nil
}

func (p *Parser) parseObjectLit() (Expr, error) {
	start := curPos(p)
	p.next()
	obj := &ObjectLit{pos: start}
	for !p.at(TokRBrace) {
		if p.at(TokSpread) {
			sStart := curPos(p)
			p.next()
			e, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			obj.Properties = append(obj.Properties, Property{Value: &SpreadExpr{pos: sStart, Arg: e}})
			if p.at(TokComma) {
				p.next()
			}
			continue
		}
		var key Expr
		computed := false
		if p.at(TokLBracket) {
			computed = true
			p.next()
			k, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			key = k
			if _, err := p.expect(TokRBracket); err != nil {
				return nil, err
			}
		} else if p.at(TokString) {
			key = &StringLit{pos: curPos(p), Value: p.cur.Literal}
			p.next()
		} else if p.at(TokNumber) {
			key = &StringLit{pos: curPos(p), Value: p.cur.Literal}
			p.next()
		} else {
			name, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			key = &Identifier{pos: curPos(p), Name: name.Literal}
		}

		// method shorthand: `name(...) { ... }`
		if p.at(TokLParen) {
			mStart := curPos(p)
			params, err := p.parseParams()
			if err != nil {
				return nil, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			fn := &FunctionExpr{pos: mStart, Params: params, Body: body}
			obj.Properties = append(obj.Properties, Property{Key: key, Computed: computed, Value: fn})
			if p.at(TokComma) {
				p.next()
			}
			continue
		}

		if p.at(TokColon) {
			p.next()
			val, err := p.parseExpr(precAssign)
			if err != nil {
				return nil, err
			}
			obj.Properties = append(obj.Properties, Property{Key: key, Computed: computed, Value: val})
		} else if ident, isIdent := key.(*Identifier); isIdent && !computed {
			obj.Properties = append(obj.Properties, Property{
				Key: key, Value: &Identifier{pos: ident.pos, Name: ident.Name}, Shorthand: true,
			})
		} else {
			return nil, p.errf("expected ':' in object literal")
		}

		if p.at(TokComma) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseFloatLiteral(lit string) float64 {
	var f float64
	_, err := fmt.Sscanf(lit, "%g", &f)
	if err != nil {
		return 0
	}
	return f
}
