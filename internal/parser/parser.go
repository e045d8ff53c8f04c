// Package parser implements a recursive-descent parser for Tiny BASIC.
// It consumes tokens from an internal/lexer.Lexer one line at a time and
// builds an internal/ast.Program. Unlike the teacher's Pratt parser,
// Tiny BASIC's two-level Expression/Term/Factor grammar has no operator
// precedence to speak of, so a straight-line recursive descent is the
// idiomatic fit; the cursor/curToken/peekToken naming is carried over
// from the teacher regardless.
package parser

import (
	"github.com/tinybasic-lang/tbasic/internal/ast"
	"github.com/tinybasic-lang/tbasic/internal/diag"
	"github.com/tinybasic-lang/tbasic/internal/lexer"
	"github.com/tinybasic-lang/tbasic/internal/options"
	"github.com/tinybasic-lang/tbasic/internal/token"
)

// Parser turns tokens into an AST, reporting the first error it
// encounters through a diag.Reporter. Once the reporter holds an error,
// parsing stops: ParseProgram returns the lines accepted before the
// failing one and does not look at any later line.
type Parser struct {
	l    *lexer.Lexer
	opts *options.Options
	rep  *diag.Reporter

	curToken  token.Token
	peekToken token.Token

	impliedNext int // next label to assign under Implied mode
	prevLabel   int // highest label seen so far, for Mandatory mode's strictly-increasing check
}

// New creates a Parser over l, applying the line-number and limit policy
// from opts and reporting through rep.
func New(l *lexer.Lexer, opts *options.Options, rep *diag.Reporter) *Parser {
	p := &Parser{l: l, opts: opts, rep: rep, impliedNext: 1}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.Next()
}

func (p *Parser) curIs(t token.Type) bool { return p.curToken.Type == t }

func (p *Parser) fail(code diag.Code) {
	p.rep.SetParseError(code, p.curToken.Pos.Line, p.curToken.Pos.Column, 0)
}

func (p *Parser) failAt(code diag.Code, pos token.Position, label int) {
	p.rep.SetParseError(code, pos.Line, pos.Column, label)
}

// ParseProgram consumes the whole token stream and returns the resulting
// Program. Once the reporter has recorded an error, ParseProgram returns
// immediately with whatever lines were accepted so far — spec.md's
// sticky-error model treats the first parse error as terminal for the
// load/run operation that triggered it.
func ParseProgram(l *lexer.Lexer, opts *options.Options, rep *diag.Reporter) *ast.Program {
	p := New(l, opts, rep)
	prog := &ast.Program{}

	for !p.curIs(token.EOF) {
		if p.curIs(token.EOL) {
			p.nextToken()
			continue
		}
		line := p.parseLine()
		if rep.HasError() {
			return prog
		}
		// A labeled line with no statement (Statement == nil, e.g.
		// "10 REM note" or a bare "10") is kept only when
		// opts.CommentsOn is set; disabling comments drops it from the
		// Program entirely. An unlabeled blank or comment-only line
		// yields nothing but EOL and is skipped above in either case.
		if line != nil && (line.Statement != nil || p.opts.CommentsOn) {
			prog.Lines = append(prog.Lines, line)
		}
		if p.curIs(token.EOL) {
			p.nextToken()
		}
	}
	return prog
}

// parseLine parses one source line: an optional label, then a statement
// (or nothing, for a labeled comment-only or blank line).
func (p *Parser) parseLine() *ast.ProgramLine {
	startTok := p.curToken
	label := 0
	hasLabel := false

	if p.curIs(token.NUMBER) {
		hasLabel = true
		label = parseIntLiteral(p.curToken.Literal)
		if p.opts.LineLimit > 0 && label > p.opts.LineLimit {
			p.fail(diag.EInvalidLineNumber)
			return nil
		}
		p.nextToken()
	}

	switch p.opts.LineNumberMode {
	case options.Mandatory:
		if !hasLabel {
			p.failAt(diag.EInvalidLineNumber, startTok.Pos, 0)
			return nil
		}
		if label <= p.prevLabel {
			p.failAt(diag.EInvalidLineNumber, startTok.Pos, 0)
			return nil
		}
	case options.Implied:
		if !hasLabel {
			label = p.impliedNext
		}
	}
	if label > p.prevLabel {
		p.prevLabel = label
	}
	if hasLabel && label+1 > p.impliedNext {
		p.impliedNext = label + 1
	} else if !hasLabel && p.opts.LineNumberMode == options.Implied {
		p.impliedNext = label + 1
	}

	if p.curIs(token.EOL) || p.curIs(token.EOF) {
		return ast.NewProgramLine(startTok, label, nil)
	}

	stmt := p.parseStatement()
	if p.rep.HasError() {
		return nil
	}
	return ast.NewProgramLine(startTok, label, stmt)
}

func parseIntLiteral(lit string) int {
	n := 0
	for i := 0; i < len(lit); i++ {
		n = n*10 + int(lit[i]-'0')
	}
	return n
}

// ParseStatement parses a single statement starting at the current
// token, with no leading label. This is the entry point the REPL uses
// for instant (unlabeled) statements, where ParseProgram's line-label
// handling would not apply.
func (p *Parser) ParseStatement() ast.Statement {
	return p.parseStatement()
}

// parseStatement dispatches on the current keyword token. The caller
// must check p.rep.HasError() after calling this; a nil return with no
// error recorded cannot happen for the top-level call (only THEN's
// nested statement can legitimately need no extra check beyond the
// reporter).
func (p *Parser) parseStatement() ast.Statement {
	tok := p.curToken
	switch tok.Type {
	case token.LET:
		return p.parseLet(tok)
	case token.IF:
		return p.parseIf(tok)
	case token.GOTO:
		return p.parseGoto(tok)
	case token.GOSUB:
		return p.parseGosub(tok)
	case token.RETURN:
		p.nextToken()
		return ast.NewReturnStmt(tok)
	case token.END:
		p.nextToken()
		return ast.NewEndStmt(tok)
	case token.PRINT:
		return p.parsePrint(tok)
	case token.INPUT:
		return p.parseInput(tok)
	case token.PEEK:
		return p.parsePeek(tok)
	case token.POKE:
		return p.parsePoke(tok)
	default:
		p.fail(diag.EUnrecognisedCommand)
		return nil
	}
}

func (p *Parser) parseLet(tok token.Token) ast.Statement {
	p.nextToken() // consume LET
	if !p.curIs(token.VARIABLE) {
		p.fail(diag.EInvalidVariable)
		return nil
	}
	v := variableIndex(p.curToken.Literal)
	p.nextToken()
	if !p.curIs(token.EQUAL) {
		p.fail(diag.EInvalidAssignment)
		return nil
	}
	p.nextToken()
	expr := p.parseExpression()
	if p.rep.HasError() {
		return nil
	}
	return ast.NewLetStmt(tok, v, expr)
}

func (p *Parser) parseIf(tok token.Token) ast.Statement {
	p.nextToken() // consume IF
	left := p.parseExpression()
	if p.rep.HasError() {
		return nil
	}
	op, ok := p.parseRelOp()
	if !ok {
		p.fail(diag.EInvalidOperator)
		return nil
	}
	right := p.parseExpression()
	if p.rep.HasError() {
		return nil
	}
	if !p.curIs(token.THEN) {
		p.fail(diag.EThenExpected)
		return nil
	}
	p.nextToken() // consume THEN

	// A bare line label after THEN ("IF ... THEN 100") is sugar for
	// "IF ... THEN GOTO 100".
	if p.curIs(token.NUMBER) {
		target := p.parseExpression()
		if p.rep.HasError() {
			return nil
		}
		gotoStmt := ast.NewGotoStmt(tok, target)
		return ast.NewIfStmt(tok, left, op, right, gotoStmt)
	}

	then := p.parseStatement()
	if p.rep.HasError() {
		return nil
	}
	if _, nested := then.(*ast.IfStmt); nested {
		p.failAt(diag.EUnexpectedParameter, tok.Pos, 0)
		return nil
	}
	return ast.NewIfStmt(tok, left, op, right, then)
}

func (p *Parser) parseRelOp() (ast.RelOp, bool) {
	var op ast.RelOp
	switch p.curToken.Type {
	case token.EQUAL:
		op = ast.RelEqual
	case token.UNEQUAL:
		op = ast.RelUnequal
	case token.LESSTHAN:
		op = ast.RelLess
	case token.LESSOREQUAL:
		op = ast.RelLessEqual
	case token.GREATERTHAN:
		op = ast.RelGreater
	case token.GREATEROREQUAL:
		op = ast.RelGreaterEqual
	default:
		return 0, false
	}
	p.nextToken()
	return op, true
}

func (p *Parser) parseGoto(tok token.Token) ast.Statement {
	p.nextToken()
	target := p.parseExpression()
	if p.rep.HasError() {
		return nil
	}
	return ast.NewGotoStmt(tok, target)
}

func (p *Parser) parseGosub(tok token.Token) ast.Statement {
	p.nextToken()
	target := p.parseExpression()
	if p.rep.HasError() {
		return nil
	}
	return ast.NewGosubStmt(tok, target)
}

func (p *Parser) parsePrint(tok token.Token) ast.Statement {
	p.nextToken()
	var items []ast.PrintItem
	if p.curIs(token.EOL) || p.curIs(token.EOF) {
		return ast.NewPrintStmt(tok, items)
	}
	for {
		if p.curIs(token.STRING) {
			items = append(items, ast.PrintItem{IsString: true, String: p.curToken.Literal})
			p.nextToken()
		} else {
			expr := p.parseExpression()
			if p.rep.HasError() {
				return nil
			}
			items = append(items, ast.PrintItem{Expr: expr})
		}
		if !p.curIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return ast.NewPrintStmt(tok, items)
}

func (p *Parser) parseInput(tok token.Token) ast.Statement {
	p.nextToken()
	var vars []int
	if !p.curIs(token.VARIABLE) {
		p.fail(diag.EInvalidVariable)
		return nil
	}
	for {
		if !p.curIs(token.VARIABLE) {
			p.fail(diag.EInvalidVariable)
			return nil
		}
		vars = append(vars, variableIndex(p.curToken.Literal))
		p.nextToken()
		if !p.curIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return ast.NewInputStmt(tok, vars)
}

func (p *Parser) parsePeek(tok token.Token) ast.Statement {
	p.nextToken()
	if !p.curIs(token.VARIABLE) {
		p.fail(diag.EInvalidVariable)
		return nil
	}
	v := variableIndex(p.curToken.Literal)
	p.nextToken()
	if !p.curIs(token.COMMA) {
		p.fail(diag.EUnexpectedParameter)
		return nil
	}
	p.nextToken()
	addr := p.parseExpression()
	if p.rep.HasError() {
		return nil
	}
	return ast.NewPeekStmt(tok, v, addr)
}

func (p *Parser) parsePoke(tok token.Token) ast.Statement {
	p.nextToken()
	addr := p.parseExpression()
	if p.rep.HasError() {
		return nil
	}
	if !p.curIs(token.COMMA) {
		p.fail(diag.EUnexpectedParameter)
		return nil
	}
	p.nextToken()
	value := p.parseExpression()
	if p.rep.HasError() {
		return nil
	}
	return ast.NewPokeStmt(tok, addr, value)
}

// parseExpression parses [+|-] term ((+|-) term)*.
func (p *Parser) parseExpression() *ast.Expression {
	term := p.parseTerm()
	if p.rep.HasError() {
		return nil
	}
	expr := &ast.Expression{Term: term}
	for p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		op := ast.Add
		if p.curIs(token.MINUS) {
			op = ast.Sub
		}
		p.nextToken()
		rhs := p.parseTerm()
		if p.rep.HasError() {
			return nil
		}
		expr.Rest = append(expr.Rest, ast.RightTerm{Op: op, Term: rhs})
	}
	return expr
}

// parseTerm parses factor ((*|/) factor)*.
func (p *Parser) parseTerm() *ast.Term {
	factor := p.parseFactor()
	if p.rep.HasError() {
		return nil
	}
	term := &ast.Term{Factor: factor}
	for p.curIs(token.MULTIPLY) || p.curIs(token.DIVIDE) {
		op := ast.Mul
		if p.curIs(token.DIVIDE) {
			op = ast.Div
		}
		p.nextToken()
		rhs := p.parseFactor()
		if p.rep.HasError() {
			return nil
		}
		term.Rest = append(term.Rest, ast.RightFactor{Op: op, Factor: rhs})
	}
	return term
}

// parseFactor parses an optionally-signed variable, integer literal, or
// parenthesized sub-expression.
func (p *Parser) parseFactor() *ast.Factor {
	sign := ast.Positive
	if p.curIs(token.PLUS) {
		p.nextToken()
	} else if p.curIs(token.MINUS) {
		sign = ast.Negative
		p.nextToken()
	}

	tok := p.curToken
	switch {
	case p.curIs(token.VARIABLE):
		f := ast.NewFactor(tok, sign, ast.FactorVariable)
		f.Variable = variableIndex(tok.Literal)
		p.nextToken()
		return f
	case p.curIs(token.NUMBER):
		f := ast.NewFactor(tok, sign, ast.FactorValue)
		f.Value = int64(parseIntLiteral(tok.Literal))
		p.nextToken()
		return f
	case p.curIs(token.LEFT_PARENTHESIS):
		p.nextToken()
		inner := p.parseExpression()
		if p.rep.HasError() {
			return nil
		}
		if !p.curIs(token.RIGHT_PARENTHESIS) {
			p.fail(diag.EMissingParen)
			return nil
		}
		p.nextToken()
		f := ast.NewFactor(tok, sign, ast.FactorExpression)
		f.Expression = inner
		return f
	default:
		p.fail(diag.EInvalidExpression)
		return nil
	}
}

// variableIndex maps a single-letter VARIABLE token's literal to 1..26.
func variableIndex(letter string) int {
	c := letter[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return int(c-'A') + 1
}
