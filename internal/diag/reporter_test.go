package diag

import "testing"

func TestReporterIsStickyToFirstError(t *testing.T) {
	rep := NewReporter()
	rep.SetParseError(EMissingParen, 1, 5, 0)
	rep.SetRuntimeError(EDivideByZero, 2, 1, 0)

	if rep.Code() != EMissingParen {
		t.Fatalf("got %v, want first-recorded EMissingParen", rep.Code())
	}
}

func TestReporterResetAllowsReuse(t *testing.T) {
	rep := NewReporter()
	rep.SetParseError(EMissingParen, 1, 5, 0)
	rep.Reset()
	if rep.HasError() {
		t.Fatalf("expected no error after Reset")
	}
	rep.SetRuntimeError(EOverflow, 3, 2, 0)
	if rep.Code() != EOverflow {
		t.Fatalf("got %v, want EOverflow", rep.Code())
	}
}

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	rep := NewReporter()
	rep.SetParseError(EMissingParen, 1, 10, 0)
	out := rep.Diagnostic().Format([]string{"10 LET A=(1+2"})
	if out == "" {
		t.Fatalf("expected non-empty output")
	}
	wantSubstrs := []string{"Parse error:", "missing parenthesis", "source line 1", "source column 10", "^"}
	for _, want := range wantSubstrs {
		if !contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatIncludesLineLabelWhenKnown(t *testing.T) {
	rep := NewReporter()
	rep.SetRuntimeError(EInvalidLineNumber, 4, 1, 100)
	out := rep.Diagnostic().Format(nil)
	if !contains(out, "line label 100") {
		t.Fatalf("output missing line label:\n%s", out)
	}
}

func TestSetMessagesReplacesTable(t *testing.T) {
	original := make(map[Code]string, len(messages))
	for k, v := range messages {
		original[k] = v
	}
	defer SetMessages(original)

	SetMessages(map[Code]string{EDivideByZero: "division par zero"})
	if Message(EDivideByZero) != "division par zero" {
		t.Fatalf("got %q", Message(EDivideByZero))
	}
	if Message(EOverflow) != "unknown error" {
		t.Fatalf("expected fallback for code missing from replaced table, got %q", Message(EOverflow))
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
