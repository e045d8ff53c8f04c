// Package ast defines the Tiny BASIC abstract syntax tree: Program,
// ProgramLine, Statement variants, and the three-level Expression/Term/
// Factor arithmetic grammar. Every node is owned by exactly one parent;
// there are no cycles. Nodes carry no behavior beyond position
// reporting — the interpreter, formatter, and C generator each walk the
// tree with their own visitor switch.
package ast

import "github.com/tinybasic-lang/tbasic/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// Sign is the unary sign applied to a Factor's payload.
type Sign int

const (
	Positive Sign = iota
	Negative
)

// FactorKind tags which payload a Factor carries.
type FactorKind int

const (
	FactorVariable FactorKind = iota
	FactorValue
	FactorExpression
)

// Factor is an atom with an optional sign: a variable reference (1..26),
// an integer literal, or a parenthesized sub-expression.
type Factor struct {
	Kind       FactorKind
	Sign       Sign
	Variable   int         // 1..26, valid when Kind == FactorVariable
	Value      int64       // valid when Kind == FactorValue
	Expression *Expression // valid when Kind == FactorExpression; never nil in that case
	token      token.Token
}

func (f *Factor) Pos() token.Position { return f.token.Pos }

// TermOp is the operator joining a Term's right-hand factors.
type TermOp int

const (
	Mul TermOp = iota
	Div
)

// RightFactor is one (operator, factor) pair in a Term's tail.
type RightFactor struct {
	Op     TermOp
	Factor *Factor
}

// Term is a factor followed by a possibly-empty, left-associative chain
// of multiplicative operations.
type Term struct {
	Factor *Factor
	Rest   []RightFactor
}

func (t *Term) Pos() token.Position { return t.Factor.Pos() }

// ExprOp is the operator joining an Expression's right-hand terms.
type ExprOp int

const (
	Add ExprOp = iota
	Sub
)

// RightTerm is one (operator, term) pair in an Expression's tail.
type RightTerm struct {
	Op   ExprOp
	Term *Term
}

// Expression is a term followed by a possibly-empty, left-associative
// chain of additive operations.
type Expression struct {
	Term *Term
	Rest []RightTerm
}

func (e *Expression) Pos() token.Position { return e.Term.Pos() }

// RelOp is the comparison operator in an IF statement.
type RelOp int

const (
	RelEqual RelOp = iota
	RelUnequal
	RelLess
	RelLessEqual
	RelGreater
	RelGreaterEqual
)

// String renders the operator in its BASIC spelling, as the formatter
// emits it (spec.md §4.5). The C generator uses it too, except that it
// spells = and <> as == and !=.
func (op RelOp) String() string {
	switch op {
	case RelEqual:
		return "="
	case RelUnequal:
		return "<>"
	case RelLess:
		return "<"
	case RelLessEqual:
		return "<="
	case RelGreater:
		return ">"
	case RelGreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// PrintItem is one element of a PRINT list: either a literal string or
// an expression to render as a decimal number.
type PrintItem struct {
	IsString bool
	String   string // valid when IsString
	Expr     *Expression
}

// Statement is implemented by every statement variant. A type switch on
// the concrete type is how the interpreter, formatter, and C generator
// dispatch; there is no separate visitor interface because the set of
// statement kinds is small and fixed (spec.md explicitly excludes
// user-defined extension of the statement grammar).
type Statement interface {
	Node
	statementNode()
}

type baseStmt struct {
	token token.Token
}

func (b baseStmt) Pos() token.Position { return b.token.Pos }
func (baseStmt) statementNode()        {}

// LetStmt is `LET var = expr`.
type LetStmt struct {
	baseStmt
	Var  int // 1..26
	Expr *Expression
}

// IfStmt is `IF left op right THEN then`. IF is not self-nestable; the
// parser enforces that Then is never itself an *IfStmt.
type IfStmt struct {
	baseStmt
	Left  *Expression
	Op    RelOp
	Right *Expression
	Then  Statement
}

// GotoStmt is `GOTO expr`.
type GotoStmt struct {
	baseStmt
	Target *Expression
}

// GosubStmt is `GOSUB expr`.
type GosubStmt struct {
	baseStmt
	Target *Expression
}

// ReturnStmt is `RETURN`.
type ReturnStmt struct{ baseStmt }

// EndStmt is `END`.
type EndStmt struct{ baseStmt }

// PrintStmt is `PRINT item, item, ...` (the list may be empty).
type PrintStmt struct {
	baseStmt
	Items []PrintItem
}

// InputStmt is `INPUT var, var, ...` (the list is non-empty once
// accepted by the parser).
type InputStmt struct {
	baseStmt
	Vars []int
}

// PeekStmt is `PEEK var, addr`.
type PeekStmt struct {
	baseStmt
	Var     int
	Address *Expression
}

// PokeStmt is `POKE addr, value`.
type PokeStmt struct {
	baseStmt
	Address *Expression
	Value   *Expression
}

// NewLetStmt and friends are constructors that stamp the statement's
// token (used for Pos()); the parser calls these as it reduces each
// production.
func NewLetStmt(tok token.Token, v int, expr *Expression) *LetStmt {
	return &LetStmt{baseStmt: baseStmt{tok}, Var: v, Expr: expr}
}

func NewIfStmt(tok token.Token, left *Expression, op RelOp, right *Expression, then Statement) *IfStmt {
	return &IfStmt{baseStmt: baseStmt{tok}, Left: left, Op: op, Right: right, Then: then}
}

func NewGotoStmt(tok token.Token, target *Expression) *GotoStmt {
	return &GotoStmt{baseStmt: baseStmt{tok}, Target: target}
}

func NewGosubStmt(tok token.Token, target *Expression) *GosubStmt {
	return &GosubStmt{baseStmt: baseStmt{tok}, Target: target}
}

func NewReturnStmt(tok token.Token) *ReturnStmt { return &ReturnStmt{baseStmt{tok}} }

func NewEndStmt(tok token.Token) *EndStmt { return &EndStmt{baseStmt{tok}} }

func NewPrintStmt(tok token.Token, items []PrintItem) *PrintStmt {
	return &PrintStmt{baseStmt: baseStmt{tok}, Items: items}
}

func NewInputStmt(tok token.Token, vars []int) *InputStmt {
	return &InputStmt{baseStmt: baseStmt{tok}, Vars: vars}
}

func NewPeekStmt(tok token.Token, v int, addr *Expression) *PeekStmt {
	return &PeekStmt{baseStmt: baseStmt{tok}, Var: v, Address: addr}
}

func NewPokeStmt(tok token.Token, addr, value *Expression) *PokeStmt {
	return &PokeStmt{baseStmt: baseStmt{tok}, Address: addr, Value: value}
}

// NewFactor constructs a Factor, stamping the token used for Pos().
func NewFactor(tok token.Token, sign Sign, kind FactorKind) *Factor {
	return &Factor{token: tok, Sign: sign, Kind: kind}
}

// ProgramLine is one line of a program: an optional label (0 means
// "none"), and a statement. Statement is nil for a comment-only line.
type ProgramLine struct {
	Label     int
	Statement Statement
	tok       token.Token // the line's first token, for Pos() when Statement is nil
}

func NewProgramLine(tok token.Token, label int, stmt Statement) *ProgramLine {
	return &ProgramLine{Label: label, Statement: stmt, tok: tok}
}

func (l *ProgramLine) Pos() token.Position {
	if l.Statement != nil {
		return l.Statement.Pos()
	}
	return l.tok.Pos
}

// Program is an ordered sequence of lines in source order — NOT sorted
// by label. Label lookups scan left to right (spec.md §3).
type Program struct {
	Lines []*ProgramLine
}

// FindLabelExact returns the first line whose label equals target, used
// under Optional line-number mode.
func (p *Program) FindLabelExact(target int) (*ProgramLine, int) {
	for i, l := range p.Lines {
		if l.Label == target {
			return l, i
		}
	}
	return nil, -1
}

// FindLabelAtLeast returns the first line whose label is >= target, used
// under Implied/Mandatory mode: a GOTO/GOSUB to a missing label lands on
// the next existing one.
func (p *Program) FindLabelAtLeast(target int) (*ProgramLine, int) {
	for i, l := range p.Lines {
		if l.Label >= target {
			return l, i
		}
	}
	return nil, -1
}
