// Package codegen translates a parsed Program into standalone C source.
// Every Tiny BASIC line becomes a C label; GOTO, GOSUB, IF-THEN-GOTO and
// falling off the end of a line all funnel through one trampoline
// (bas_exec's goto_block:) so label resolution happens at exactly one
// place in the generated code, mirroring how internal/interp resolves
// labels at exactly one place (resolveLabel) at runtime.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tinybasic-lang/tbasic/internal/ast"
	"github.com/tinybasic-lang/tbasic/internal/options"
)

// Generate emits a complete, compilable C translation unit for prog.
func Generate(prog *ast.Program, opts *options.Options) string {
	var g generator
	g.opts = opts
	g.usesInput = programUsesInput(prog)
	wantsMemory := programUsesMemory(prog)
	g.usesMemory = opts.MemorySize > 0 && wantsMemory
	g.memoryDisabled = opts.MemorySize <= 0 && wantsMemory

	g.preamble()
	g.execFunction(prog)
	g.mainFunction(prog)
	return g.buf.String()
}

type generator struct {
	buf            strings.Builder
	opts           *options.Options
	usesInput      bool
	usesMemory     bool
	memoryDisabled bool // program uses PEEK/POKE but --memory 0 disabled the array
}

func (g *generator) line(format string, args ...interface{}) {
	fmt.Fprintf(&g.buf, format+"\n", args...)
}

func (g *generator) preamble() {
	g.line("#include <stdio.h>")
	g.line("#include <stdlib.h>")
	g.line("")
	g.line("#define E_RETURN_WITHOUT_GOSUB 13")
	g.line("#define E_TOO_MANY_GOSUBS 17")
	if g.memoryDisabled {
		g.line("#define E_INVALID_EXPRESSION 5")
	}
	g.line("")
	g.line("static short int vars[26];")
	if g.usesMemory {
		g.line("static short int memory[%d];", g.opts.MemorySize)
	}
	g.line("static int gosub_stack[%d];", g.opts.GosubLimit)
	g.line("static int gosub_sp = 0;")
	g.line("")
	if g.usesInput {
		g.line("static short int bas_input(void) {")
		g.line("    short int ch = 0, sign, value;")
		g.line("    do {")
		g.line("        if (ch == '-') sign = -1; else sign = 1;")
		g.line("        ch = getchar();")
		g.line("    } while (ch < '0' || ch > '9');")
		g.line("    value = 0;")
		g.line("    do {")
		g.line("        value = 10 * value + (ch - '0');")
		g.line("        ch = getchar();")
		g.line("    } while (ch >= '0' && ch <= '9');")
		g.line("    return sign * value;")
		g.line("}")
		g.line("")
	}
}

// execFunction emits bas_exec, the single entry point that runs the
// program starting at start_label.
func (g *generator) execFunction(prog *ast.Program) {
	g.line("void bas_exec(int start_label) {")
	g.line("    int target = start_label;")
	g.line("")
	g.line("goto_block:")
	g.line("    if (!target) goto lbl_start;")
	cmp := "=="
	if g.opts.LineNumberMode != options.Optional {
		cmp = "<="
	}
	for _, pl := range prog.Lines {
		if pl.Label == 0 {
			continue
		}
		g.line("    if (target %s %d) goto line_%d;", cmp, pl.Label, pl.Label)
	}
	g.line("    return;")
	g.line("")
	g.line("lbl_start:")

	for i, pl := range prog.Lines {
		if pl.Label != 0 {
			g.line("line_%d:", pl.Label)
		}
		nextLabel := g.fallthroughLabel(prog, i)
		if pl.Statement == nil {
			g.fallthroughGoto(nextLabel)
			continue
		}
		g.statement(pl.Statement, nextLabel)
	}
	g.line("    return;") // valid target for an empty program's lbl_start
	g.line("}")
	g.line("")
}

// fallthroughLabel returns the label to resume at after line i executes
// without an explicit transfer of control: the label of the next labeled
// line, or -1 if no labeled line follows i.
func (g *generator) fallthroughLabel(prog *ast.Program, i int) int {
	for j := i + 1; j < len(prog.Lines); j++ {
		if prog.Lines[j].Label != 0 {
			return prog.Lines[j].Label
		}
	}
	return -1
}

func (g *generator) statement(stmt ast.Statement, fallthroughLabel int) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		g.line("    vars[%d] = %s;", s.Var-1, expr(s.Expr))
		g.fallthroughGoto(fallthroughLabel)

	case *ast.IfStmt:
		op := s.Op.String()
		switch s.Op {
		case ast.RelEqual:
			op = "=="
		case ast.RelUnequal:
			op = "!="
		}
		g.line("    if (%s %s %s) {", expr(s.Left), op, expr(s.Right))
		g.statement(s.Then, fallthroughLabel)
		g.line("    } else {")
		g.fallthroughGoto(fallthroughLabel)
		g.line("    }")

	case *ast.GotoStmt:
		g.line("    target = %s; goto goto_block;", expr(s.Target))

	case *ast.GosubStmt:
		g.line("    if (gosub_sp >= %d) exit(E_TOO_MANY_GOSUBS);", g.opts.GosubLimit)
		g.line("    gosub_stack[gosub_sp++] = %d;", fallthroughLabel)
		g.line("    target = %s; goto goto_block;", expr(s.Target))

	case *ast.ReturnStmt:
		g.line("    if (gosub_sp == 0) exit(E_RETURN_WITHOUT_GOSUB);")
		g.line("    target = gosub_stack[--gosub_sp]; if (target < 0) return; goto goto_block;")

	case *ast.EndStmt:
		g.line("    return;")

	case *ast.PrintStmt:
		g.printStatement(s)
		g.fallthroughGoto(fallthroughLabel)

	case *ast.InputStmt:
		for _, v := range s.Vars {
			g.line("    printf(\"? \"); vars[%d] = bas_input();", v-1)
		}
		g.fallthroughGoto(fallthroughLabel)

	case *ast.PeekStmt:
		if g.memoryDisabled {
			g.line("    exit(E_INVALID_EXPRESSION);")
			return
		}
		g.line("    vars[%d] = memory[%s];", s.Var-1, expr(s.Address))
		g.fallthroughGoto(fallthroughLabel)

	case *ast.PokeStmt:
		if g.memoryDisabled {
			g.line("    exit(E_INVALID_EXPRESSION);")
			return
		}
		g.line("    memory[%s] = %s;", expr(s.Address), expr(s.Value))
		g.fallthroughGoto(fallthroughLabel)
	}
}

func (g *generator) fallthroughGoto(label int) {
	if label < 0 {
		g.line("    return;")
		return
	}
	g.line("    target = %d; goto goto_block;", label)
}

func (g *generator) printStatement(s *ast.PrintStmt) {
	if len(s.Items) == 0 {
		g.line("    printf(\"\\n\");")
		return
	}
	var format strings.Builder
	var args []string
	for _, item := range s.Items {
		if item.IsString {
			format.WriteString(escapeC(item.String))
			continue
		}
		format.WriteString("%hd")
		args = append(args, expr(item.Expr))
	}
	format.WriteString("\\n")
	if len(args) == 0 {
		g.line("    printf(\"%s\");", format.String())
	} else {
		g.line("    printf(\"%s\", %s);", format.String(), strings.Join(args, ", "))
	}
}

func escapeC(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "%", "%%")
	return s
}

func (g *generator) mainFunction(prog *ast.Program) {
	g.line("int main(void) {")
	g.line("    bas_exec(0);")
	g.line("    exit(E_RETURN_WITHOUT_GOSUB);")
	g.line("}")
}

func expr(e *ast.Expression) string {
	var sb strings.Builder
	sb.WriteString(term(e.Term))
	for _, rt := range e.Rest {
		if rt.Op == ast.Add {
			sb.WriteString(" + ")
		} else {
			sb.WriteString(" - ")
		}
		sb.WriteString(term(rt.Term))
	}
	return sb.String()
}

func term(t *ast.Term) string {
	var sb strings.Builder
	sb.WriteString(factor(t.Factor))
	for _, rf := range t.Rest {
		if rf.Op == ast.Mul {
			sb.WriteString(" * ")
		} else {
			sb.WriteString(" / ")
		}
		sb.WriteString(factor(rf.Factor))
	}
	return sb.String()
}

func factor(f *ast.Factor) string {
	var sb strings.Builder
	if f.Sign == ast.Negative {
		sb.WriteString("-")
	}
	switch f.Kind {
	case ast.FactorVariable:
		fmt.Fprintf(&sb, "vars[%d]", f.Variable-1)
	case ast.FactorValue:
		sb.WriteString(strconv.FormatInt(f.Value, 10))
	case ast.FactorExpression:
		sb.WriteString("(")
		sb.WriteString(expr(f.Expression))
		sb.WriteString(")")
	}
	return sb.String()
}

// innerStatement returns the THEN statement of an IF, or stmt itself.
func innerStatement(stmt ast.Statement) ast.Statement {
	if s, ok := stmt.(*ast.IfStmt); ok {
		return s.Then
	}
	return stmt
}

func programUsesInput(prog *ast.Program) bool {
	for _, l := range prog.Lines {
		if _, ok := innerStatement(l.Statement).(*ast.InputStmt); ok {
			return true
		}
	}
	return false
}

func programUsesMemory(prog *ast.Program) bool {
	for _, l := range prog.Lines {
		switch innerStatement(l.Statement).(type) {
		case *ast.PeekStmt, *ast.PokeStmt:
			return true
		}
	}
	return false
}
