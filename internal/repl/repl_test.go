package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tinybasic-lang/tbasic/internal/options"
)

func runSession(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	r := New(strings.NewReader(script), &out, options.New())
	r.Run()
	return out.String()
}

func TestREPLStoresAndRunsProgram(t *testing.T) {
	out := runSession(t, "10 LET A=1+2\n20 PRINT A\nRUN\nEXIT\n")
	if !strings.Contains(out, "3") {
		t.Fatalf("got %q", out)
	}
}

func TestREPLInstantStatementRunsImmediately(t *testing.T) {
	out := runSession(t, "PRINT 1+1\nEXIT\n")
	if !strings.Contains(out, "2") {
		t.Fatalf("got %q", out)
	}
}

func TestREPLListShowsStoredLines(t *testing.T) {
	out := runSession(t, "10 PRINT 1\n20 PRINT 2\nLIST\nEXIT\n")
	if !strings.Contains(out, "10 PRINT 1") || !strings.Contains(out, "20 PRINT 2") {
		t.Fatalf("got %q", out)
	}
}

func TestREPLDeletesLineWhenReenteredBare(t *testing.T) {
	out := runSession(t, "10 PRINT 1\n10\nLIST\nEXIT\n")
	if strings.Contains(out, "PRINT 1") {
		t.Fatalf("expected line 10 to be deleted, got %q", out)
	}
}

func TestREPLVariablesPersistAcrossInstantStatements(t *testing.T) {
	out := runSession(t, "LET A=5\nPRINT A+1\nEXIT\n")
	if !strings.Contains(out, "6") {
		t.Fatalf("got %q", out)
	}
}

func TestREPLQuestionNPrintsSingleLine(t *testing.T) {
	out := runSession(t, "10 PRINT 1\n20 PRINT 2\n?10\nEXIT\n")
	if !strings.Contains(out, "10 PRINT 1") || strings.Contains(out, "20 PRINT 2") {
		t.Fatalf("got %q", out)
	}
}

func TestREPLSlashNDeletesLine(t *testing.T) {
	out := runSession(t, "10 PRINT 1\n20 PRINT 2\n/10\nLIST\nEXIT\n")
	if strings.Contains(out, "PRINT 1") || !strings.Contains(out, "20 PRINT 2") {
		t.Fatalf("expected line 10 deleted, got %q", out)
	}
}

func TestREPLTooLongLineIsRejected(t *testing.T) {
	long := "10 PRINT " + strings.Repeat("1+", 150) + "1"
	out := runSession(t, long+"\nLIST\nEXIT\n")
	if !strings.Contains(out, "too long") {
		t.Fatalf("expected a too-long diagnostic, got %q", out)
	}
	if strings.Contains(out, "10 PRINT") {
		t.Fatalf("expected the oversized line not to be stored, got %q", out)
	}
}

func TestREPLSystemExitsSession(t *testing.T) {
	out := runSession(t, "SYSTEM\nPRINT 999\n")
	if strings.Contains(out, "999") {
		t.Fatalf("expected session to stop before reaching PRINT 999, got %q", out)
	}
}
