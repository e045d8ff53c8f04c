package lexer

import (
	"testing"

	"github.com/tinybasic-lang/tbasic/internal/token"
)

func TestNextBasicTokens(t *testing.T) {
	input := `10 LET A=1+2*(3-4)
20 PRINT "HI",A
`
	want := []token.Type{
		token.NUMBER, token.LET, token.VARIABLE, token.EQUAL, token.NUMBER,
		token.PLUS, token.NUMBER, token.MULTIPLY, token.LEFT_PARENTHESIS,
		token.NUMBER, token.MINUS, token.NUMBER, token.RIGHT_PARENTHESIS, token.EOL,
		token.NUMBER, token.PRINT, token.STRING, token.COMMA, token.VARIABLE, token.EOL,
		token.EOF,
	}

	l := New(input)
	for i, wantType := range want {
		tok := l.Next()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %s, want %s (literal %q)", i, tok.Type, wantType, tok.Literal)
		}
	}
}

func TestNextRelationalOperators(t *testing.T) {
	l := New("< <= <> > >= ><")
	want := []token.Type{
		token.LESSTHAN, token.LESSOREQUAL, token.UNEQUAL,
		token.GREATERTHAN, token.GREATEROREQUAL, token.UNEQUAL, token.EOF,
	}
	for i, wantType := range want {
		tok := l.Next()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, wantType)
		}
	}
}

func TestRemSkipsToEndOfLine(t *testing.T) {
	l := New("10 REM this is ignored\n20 END\n")
	tok := l.Next()
	if tok.Type != token.NUMBER {
		t.Fatalf("got %s, want NUMBER", tok.Type)
	}
	tok = l.Next()
	if tok.Type != token.EOL {
		t.Fatalf("got %s, want EOL", tok.Type)
	}
	tok = l.Next()
	if tok.Type != token.NUMBER || tok.Literal != "20" {
		t.Fatalf("got %s %q, want NUMBER 20", tok.Type, tok.Literal)
	}
}

func TestReadStringEscapesAndUnterminated(t *testing.T) {
	l := New(`"a\"b"`)
	tok := l.Next()
	if tok.Type != token.STRING || tok.Literal != `a"b` {
		t.Fatalf("got %s %q", tok.Type, tok.Literal)
	}

	l2 := New(`"unterminated`)
	tok2 := l2.Next()
	if tok2.Type != token.ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", tok2.Type)
	}
}

func TestPositionTracksLineAndColumn(t *testing.T) {
	l := New("A\nB")
	first := l.Next()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Fatalf("got %+v", first.Pos)
	}
	l.Next() // EOL
	third := l.Next()
	if third.Pos.Line != 2 || third.Pos.Column != 1 {
		t.Fatalf("got %+v", third.Pos)
	}
}

func TestEOFRepeats(t *testing.T) {
	l := New("")
	a := l.Next()
	b := l.Next()
	if a.Type != token.EOF || b.Type != token.EOF {
		t.Fatalf("expected repeated EOF, got %s then %s", a.Type, b.Type)
	}
}
