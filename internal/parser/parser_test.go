package parser

import (
	"testing"

	"github.com/tinybasic-lang/tbasic/internal/ast"
	"github.com/tinybasic-lang/tbasic/internal/diag"
	"github.com/tinybasic-lang/tbasic/internal/lexer"
	"github.com/tinybasic-lang/tbasic/internal/options"
)

func parse(t *testing.T, src string, opts ...options.Option) (*ast.Program, *diag.Reporter) {
	t.Helper()
	o := options.New(opts...)
	rep := diag.NewReporter()
	l := lexer.New(src)
	prog := ParseProgram(l, o, rep)
	return prog, rep
}

func TestParseLetAndPrint(t *testing.T) {
	prog, rep := parse(t, "10 LET A=1+2\n20 PRINT A,\"HI\"\n")
	if rep.HasError() {
		t.Fatalf("unexpected error: %s", rep.Diagnostic().Error())
	}
	if len(prog.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(prog.Lines))
	}
	let, ok := prog.Lines[0].Statement.(*ast.LetStmt)
	if !ok {
		t.Fatalf("line 0: got %T, want *ast.LetStmt", prog.Lines[0].Statement)
	}
	if let.Var != 1 {
		t.Fatalf("got var index %d, want 1 (A)", let.Var)
	}
	print, ok := prog.Lines[1].Statement.(*ast.PrintStmt)
	if !ok {
		t.Fatalf("line 1: got %T, want *ast.PrintStmt", prog.Lines[1].Statement)
	}
	if len(print.Items) != 2 || !print.Items[1].IsString {
		t.Fatalf("got %+v", print.Items)
	}
}

func TestParseIfThenGoto(t *testing.T) {
	prog, rep := parse(t, "10 IF A<>0 THEN 30\n20 END\n30 END\n")
	if rep.HasError() {
		t.Fatalf("unexpected error: %s", rep.Diagnostic().Error())
	}
	ifStmt, ok := prog.Lines[0].Statement.(*ast.IfStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.IfStmt", prog.Lines[0].Statement)
	}
	gotoStmt, ok := ifStmt.Then.(*ast.GotoStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.GotoStmt", ifStmt.Then)
	}
	_ = gotoStmt
}

func TestParseRejectsNestedIf(t *testing.T) {
	_, rep := parse(t, "10 IF A=1 THEN IF B=2 THEN END\n")
	if !rep.HasError() {
		t.Fatalf("expected parse error for nested IF")
	}
}

func TestMandatoryModeRequiresLabel(t *testing.T) {
	_, rep := parse(t, "PRINT 1\n", options.WithLineNumberMode(options.Mandatory))
	if !rep.HasError() {
		t.Fatalf("expected error in mandatory mode with missing label")
	}
	if rep.Code() != diag.EInvalidLineNumber {
		t.Fatalf("got code %v, want EInvalidLineNumber", rep.Code())
	}
}

func TestMandatoryModeRequiresStrictlyIncreasingLabels(t *testing.T) {
	_, rep := parse(t, "20 PRINT 1\n10 PRINT 2\n", options.WithLineNumberMode(options.Mandatory))
	if !rep.HasError() || rep.Code() != diag.EInvalidLineNumber {
		t.Fatalf("got %v, want EInvalidLineNumber for a non-increasing label", rep.Code())
	}
}

func TestMandatoryModeRejectsRepeatedLabel(t *testing.T) {
	_, rep := parse(t, "10 PRINT 1\n10 PRINT 2\n", options.WithLineNumberMode(options.Mandatory))
	if !rep.HasError() || rep.Code() != diag.EInvalidLineNumber {
		t.Fatalf("got %v, want EInvalidLineNumber for a repeated label", rep.Code())
	}
}

func TestMandatoryModeAcceptsIncreasingLabels(t *testing.T) {
	prog, rep := parse(t, "10 PRINT 1\n20 PRINT 2\n30 END\n", options.WithLineNumberMode(options.Mandatory))
	if rep.HasError() {
		t.Fatalf("unexpected error: %s", rep.Diagnostic().Error())
	}
	if len(prog.Lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(prog.Lines))
	}
}

func TestImpliedModeAssignsSequentialLabels(t *testing.T) {
	prog, rep := parse(t, "PRINT 1\nPRINT 2\n", options.WithLineNumberMode(options.Implied))
	if rep.HasError() {
		t.Fatalf("unexpected error: %s", rep.Diagnostic().Error())
	}
	if prog.Lines[0].Label != 1 || prog.Lines[1].Label != 2 {
		t.Fatalf("got labels %d, %d", prog.Lines[0].Label, prog.Lines[1].Label)
	}
}

func TestCommentOnlyLineKeptWhenCommentsEnabled(t *testing.T) {
	prog, rep := parse(t, "10 REM a note\n20 PRINT 1\n", options.WithComments(true))
	if rep.HasError() {
		t.Fatalf("unexpected error: %s", rep.Diagnostic().Error())
	}
	if len(prog.Lines) != 2 {
		t.Fatalf("got %d lines, want 2 (comment line kept)", len(prog.Lines))
	}
	if prog.Lines[0].Label != 10 || prog.Lines[0].Statement != nil {
		t.Fatalf("got %+v, want an empty-statement line labeled 10", prog.Lines[0])
	}
}

func TestCommentOnlyLineDroppedWhenCommentsDisabled(t *testing.T) {
	prog, rep := parse(t, "10 REM a note\n20 PRINT 1\n", options.WithComments(false))
	if rep.HasError() {
		t.Fatalf("unexpected error: %s", rep.Diagnostic().Error())
	}
	if len(prog.Lines) != 1 || prog.Lines[0].Label != 20 {
		t.Fatalf("got %+v, want only the PRINT line", prog.Lines)
	}
}

func TestParsePeekPoke(t *testing.T) {
	prog, rep := parse(t, "10 POKE 100,42\n20 PEEK A,100\n")
	if rep.HasError() {
		t.Fatalf("unexpected error: %s", rep.Diagnostic().Error())
	}
	if _, ok := prog.Lines[0].Statement.(*ast.PokeStmt); !ok {
		t.Fatalf("got %T, want *ast.PokeStmt", prog.Lines[0].Statement)
	}
	if _, ok := prog.Lines[1].Statement.(*ast.PeekStmt); !ok {
		t.Fatalf("got %T, want *ast.PeekStmt", prog.Lines[1].Statement)
	}
}

func TestParseMissingParenIsError(t *testing.T) {
	_, rep := parse(t, "10 LET A=(1+2\n")
	if !rep.HasError() || rep.Code() != diag.EMissingParen {
		t.Fatalf("got %v, want EMissingParen", rep.Code())
	}
}

func TestParseGosubReturn(t *testing.T) {
	prog, rep := parse(t, "10 GOSUB 100\n20 END\n100 RETURN\n")
	if rep.HasError() {
		t.Fatalf("unexpected error: %s", rep.Diagnostic().Error())
	}
	if _, ok := prog.Lines[0].Statement.(*ast.GosubStmt); !ok {
		t.Fatalf("got %T, want *ast.GosubStmt", prog.Lines[0].Statement)
	}
}
