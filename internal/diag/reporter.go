package diag

import (
	"fmt"
	"strings"
)

// Diagnostic is a single recorded error: its code, the source position
// and line label it occurred at, and whether it was raised at parse or
// run time (which picks the rendered prefix). It implements
// the error interface so it can be returned and compared with errors.As
// from ordinary Go call sites, mirroring the teacher's CompilerError.
type Diagnostic struct {
	Code   Code
	Line   int
	Column int
	Label  int // 0 means "no label"
	kind   string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(nil)
}

// Format renders the diagnostic the way spec.md §7 specifies: a
// "Parse error:"/"Runtime error:" prefix, the localized message, then
// ", source line N, source column M" and ", line label L" when those
// fields are known. If source is non-nil, the offending line and a caret
// are appended underneath, matching the teacher's CompilerError.Format.
func (d *Diagnostic) Format(source []string) string {
	var sb strings.Builder

	prefix := "Error:"
	switch {
	case d.kind == "runtime" || d.Code.IsRuntime():
		prefix = "Runtime error:"
	case d.kind == "parse":
		prefix = "Parse error:"
	case d.Code.IsSystemic():
		prefix = "Error:"
	}

	sb.WriteString(prefix)
	sb.WriteString(" ")
	sb.WriteString(Message(d.Code))
	if d.Line > 0 {
		fmt.Fprintf(&sb, ", source line %d, source column %d", d.Line, d.Column)
	}
	if d.Label != 0 {
		fmt.Fprintf(&sb, ", line label %d", d.Label)
	}

	if source != nil && d.Line >= 1 && d.Line <= len(source) {
		sb.WriteString("\n")
		lineNumStr := fmt.Sprintf("%4d | ", d.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(source[d.Line-1])
		sb.WriteString("\n")
		col := d.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+col-1))
		sb.WriteString("^")
	}

	return sb.String()
}

// Reporter records at most one error: the first non-ENone SetCode call
// wins and every later call is ignored until Reset is invoked. This is
// the "sticky error sentinel" from spec.md §9, implemented as a plain
// struct rather than a thread-unsafe global, per the redesign note.
type Reporter struct {
	diag *Diagnostic
}

// NewReporter returns a Reporter with no recorded error.
func NewReporter() *Reporter {
	return &Reporter{}
}

// SetCode records an error if, and only if, none is already recorded.
// kind is "parse" or "runtime" and only affects the rendered prefix.
func (r *Reporter) SetCode(kind string, code Code, line, column, label int) {
	if r.diag != nil {
		return
	}
	r.diag = &Diagnostic{Code: code, Line: line, Column: column, Label: label, kind: kind}
}

// SetParseError is shorthand for SetCode("parse", ...).
func (r *Reporter) SetParseError(code Code, line, column, label int) {
	r.SetCode("parse", code, line, column, label)
}

// SetRuntimeError is shorthand for SetCode("runtime", ...).
func (r *Reporter) SetRuntimeError(code Code, line, column, label int) {
	r.SetCode("runtime", code, line, column, label)
}

// Code returns the recorded error code, or ENone if nothing is recorded.
func (r *Reporter) Code() Code {
	if r.diag == nil {
		return ENone
	}
	return r.diag.Code
}

// HasError reports whether any error has been recorded.
func (r *Reporter) HasError() bool {
	return r.diag != nil
}

// Diagnostic returns the recorded diagnostic, or nil if none.
func (r *Reporter) Diagnostic() *Diagnostic {
	return r.diag
}

// Reset clears the recorded error, allowing the reporter to be reused
// (e.g. by the REPL between statements).
func (r *Reporter) Reset() {
	r.diag = nil
}
