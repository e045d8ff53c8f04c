// Package format renders a Program back to canonical Tiny BASIC source
// text: every FACTOR_EXPRESSION parenthesization is reproduced exactly,
// operators carry no surrounding whitespace, and labels are padded to a
// fixed column so listings line up. Formatting a parsed program and
// reparsing the result is expected to reproduce the same AST (spec.md's
// round-trip property); this package is exercised by the golden tests in
// format_test.go via go-snaps.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tinybasic-lang/tbasic/internal/ast"
)

// labelWidth is the number of columns a label is right-aligned into,
// followed by a single trailing space before the statement text; an
// unlabeled line is indented by the same six columns of plain spaces
// (spec.md §4.5: "%5d " or six spaces).
const labelWidth = 5

// Program renders an entire program, one line per source line.
func Program(prog *ast.Program) string {
	var sb strings.Builder
	for _, line := range prog.Lines {
		sb.WriteString(Line(line))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Line renders a single ProgramLine including its label prefix.
func Line(line *ast.ProgramLine) string {
	var sb strings.Builder
	if line.Label != 0 {
		fmt.Fprintf(&sb, "%*d ", labelWidth, line.Label)
	} else {
		sb.WriteString(strings.Repeat(" ", labelWidth+1))
	}
	if line.Statement != nil {
		sb.WriteString(Statement(line.Statement))
	}
	return sb.String()
}

// Statement renders a single statement in canonical form.
func Statement(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return fmt.Sprintf("LET %s=%s", varName(s.Var), Expression(s.Expr))
	case *ast.IfStmt:
		return fmt.Sprintf("IF %s%s%s THEN %s", Expression(s.Left), s.Op.String(), Expression(s.Right), Statement(s.Then))
	case *ast.GotoStmt:
		return fmt.Sprintf("GOTO %s", Expression(s.Target))
	case *ast.GosubStmt:
		return fmt.Sprintf("GOSUB %s", Expression(s.Target))
	case *ast.ReturnStmt:
		return "RETURN"
	case *ast.EndStmt:
		return "END"
	case *ast.PrintStmt:
		return "PRINT " + printItems(s.Items)
	case *ast.InputStmt:
		return "INPUT " + varList(s.Vars)
	case *ast.PeekStmt:
		return fmt.Sprintf("PEEK %s, %s", varName(s.Var), Expression(s.Address))
	case *ast.PokeStmt:
		return fmt.Sprintf("POKE %s, %s", Expression(s.Address), Expression(s.Value))
	default:
		return ""
	}
}

func printItems(items []ast.PrintItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if item.IsString {
			parts[i] = quoteString(item.String)
		} else {
			parts[i] = Expression(item.Expr)
		}
	}
	return strings.Join(parts, ",")
}

// quoteString renders a string literal the way the lexer reads one back:
// only '"' and '\' are backslash-escaped; every other byte is copied as is.
func quoteString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return "\"" + s + "\""
}

func varList(vars []int) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = varName(v)
	}
	return strings.Join(parts, ",")
}

func varName(v int) string {
	return string(rune('A' + v - 1))
}

// Expression renders an expression in fully-explicit form: every
// FACTOR_EXPRESSION keeps its parentheses (the grammar only produces
// them where they were written or required), and no operator is
// surrounded by whitespace.
func Expression(e *ast.Expression) string {
	var sb strings.Builder
	sb.WriteString(Term(e.Term))
	for _, rt := range e.Rest {
		if rt.Op == ast.Add {
			sb.WriteString("+")
		} else {
			sb.WriteString("-")
		}
		sb.WriteString(Term(rt.Term))
	}
	return sb.String()
}

// Term renders a term the same way Expression renders an expression.
func Term(t *ast.Term) string {
	var sb strings.Builder
	sb.WriteString(Factor(t.Factor))
	for _, rf := range t.Rest {
		if rf.Op == ast.Mul {
			sb.WriteString("*")
		} else {
			sb.WriteString("/")
		}
		sb.WriteString(Factor(rf.Factor))
	}
	return sb.String()
}

// Factor renders a single factor, including its sign and, for a
// parenthesized sub-expression, the enclosing parentheses.
func Factor(f *ast.Factor) string {
	var sb strings.Builder
	if f.Sign == ast.Negative {
		sb.WriteString("-")
	}
	switch f.Kind {
	case ast.FactorVariable:
		sb.WriteString(varName(f.Variable))
	case ast.FactorValue:
		sb.WriteString(strconv.FormatInt(f.Value, 10))
	case ast.FactorExpression:
		sb.WriteString("(")
		sb.WriteString(Expression(f.Expression))
		sb.WriteString(")")
	}
	return sb.String()
}
