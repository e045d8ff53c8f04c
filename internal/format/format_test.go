package format

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/tinybasic-lang/tbasic/internal/diag"
	"github.com/tinybasic-lang/tbasic/internal/lexer"
	"github.com/tinybasic-lang/tbasic/internal/options"
	"github.com/tinybasic-lang/tbasic/internal/parser"
)

func TestFormatCanonicalizesSpacingAndLabels(t *testing.T) {
	o := options.New()
	rep := diag.NewReporter()
	l := lexer.New("10    LET    A   =   1 + 2 * ( 3 - 4 )\n20 PRINT A , \"HI\"\n")
	prog := parser.ParseProgram(l, o, rep)
	if rep.HasError() {
		t.Fatalf("parse error: %s", rep.Diagnostic().Error())
	}
	snaps.MatchSnapshot(t, "canonical_form", Program(prog))
}

func TestFormatRoundTripsThroughReparse(t *testing.T) {
	src := "10 LET A=1+2*(3-4)\n20 IF A<>0 THEN GOTO 40\n30 PRINT \"NO\"\n40 PRINT \"YES\"\n"
	o := options.New()
	rep := diag.NewReporter()
	l := lexer.New(src)
	prog := parser.ParseProgram(l, o, rep)
	if rep.HasError() {
		t.Fatalf("parse error: %s", rep.Diagnostic().Error())
	}
	rendered := Program(prog)

	rep2 := diag.NewReporter()
	l2 := lexer.New(rendered)
	prog2 := parser.ParseProgram(l2, o, rep2)
	if rep2.HasError() {
		t.Fatalf("reparse error: %s", rep2.Diagnostic().Error())
	}
	rendered2 := Program(prog2)
	if rendered != rendered2 {
		t.Fatalf("round trip mismatch:\nfirst:  %q\nsecond: %q", rendered, rendered2)
	}
}

func TestFormatPeekPoke(t *testing.T) {
	o := options.New()
	rep := diag.NewReporter()
	l := lexer.New("10 POKE 100,42\n20 PEEK A,100\n")
	prog := parser.ParseProgram(l, o, rep)
	if rep.HasError() {
		t.Fatalf("parse error: %s", rep.Diagnostic().Error())
	}
	snaps.MatchSnapshot(t, "peek_poke", Program(prog))
}
