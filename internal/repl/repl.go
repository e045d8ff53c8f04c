// Package repl implements the interactive Tiny BASIC session: a
// line-indexed program buffer that the user edits incrementally, plus a
// handful of instant commands (LIST, RUN, SYSTEM, HELP) and bare
// statements that execute immediately against a persistent Interpreter.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tinybasic-lang/tbasic/internal/ast"
	"github.com/tinybasic-lang/tbasic/internal/diag"
	"github.com/tinybasic-lang/tbasic/internal/interp"
	"github.com/tinybasic-lang/tbasic/internal/lexer"
	"github.com/tinybasic-lang/tbasic/internal/options"
	"github.com/tinybasic-lang/tbasic/internal/parser"
	"github.com/tinybasic-lang/tbasic/internal/token"
)

// maxLabel bounds the program buffer's index space (spec.md's 0..4095
// line range).
const maxLabel = 4095

// maxLineLength is the longest line of input the REPL accepts (spec.md
// §4.7); anything longer is discarded with a diagnostic instead of
// being stored or executed.
const maxLineLength = 256

// REPL holds the in-progress program buffer and the Interpreter that
// instant statements and RUN share, so a variable set by one instant
// statement is visible to the next.
type REPL struct {
	opts   *options.Options
	out    io.Writer
	in     *bufio.Scanner
	lines  map[int]string
	interp *interp.Interpreter
	quit   bool
}

// New creates a REPL reading commands from in and writing output to out.
func New(in io.Reader, out io.Writer, opts *options.Options) *REPL {
	return &REPL{
		opts:  opts,
		out:   out,
		in:    bufio.NewScanner(in),
		lines: make(map[int]string),
	}
}

// Run drives the session until EXIT/SYSTEM or end of input.
func (r *REPL) Run() {
	fmt.Fprintln(r.out, "Tiny BASIC")
	for !r.quit && r.in.Scan() {
		line := r.in.Text()
		r.handle(line)
	}
}

func (r *REPL) handle(line string) {
	if len(line) > maxLineLength {
		fmt.Fprintln(r.out, "?line too long")
		return
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	upper := strings.ToUpper(trimmed)
	switch {
	case upper == "SYSTEM" || upper == "EXIT":
		r.quit = true
		return
	case upper == "HELP" || trimmed == "?":
		r.help()
		return
	case upper == "LIST" || strings.HasPrefix(upper, "LIST "):
		r.list(strings.TrimSpace(trimmed[4:]))
		return
	case upper == "RUN" || strings.HasPrefix(upper, "RUN "):
		r.runProgram(strings.TrimSpace(trimmed[3:]))
		return
	}

	if strings.HasPrefix(trimmed, "?") {
		if n, err := strconv.Atoi(strings.TrimSpace(trimmed[1:])); err == nil {
			r.printLine(n)
			return
		}
	}
	if strings.HasPrefix(trimmed, "/") {
		if n, err := strconv.Atoi(strings.TrimSpace(trimmed[1:])); err == nil {
			delete(r.lines, n)
			return
		}
	}

	if label, rest, ok := splitLeadingLabel(trimmed); ok {
		if rest == "" {
			delete(r.lines, label)
			return
		}
		if label > maxLabel {
			fmt.Fprintln(r.out, "?line number too large")
			return
		}
		r.lines[label] = rest
		return
	}

	r.execImmediate(trimmed)
}

// splitLeadingLabel recognizes "<digits> rest-of-line"; a bare number
// with nothing after it also matches, with rest == "" (meaning delete).
func splitLeadingLabel(s string) (int, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	label, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, "", false
	}
	return label, strings.TrimSpace(s[i:]), true
}

func (r *REPL) help() {
	fmt.Fprintln(r.out, "Commands: LIST [n[-m]], RUN [n], SYSTEM, EXIT, HELP")
	fmt.Fprintln(r.out, "Enter a line number followed by a statement to store it.")
	fmt.Fprintln(r.out, "Enter a line number alone to delete that line.")
	fmt.Fprintln(r.out, "Enter a statement with no line number to run it immediately.")
}

func (r *REPL) sortedLabels() []int {
	labels := make([]int, 0, len(r.lines))
	for l := range r.lines {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}

// printLine implements "?n": print the single stored line n, per
// spec.md §4.7.
func (r *REPL) printLine(n int) {
	if text, ok := r.lines[n]; ok {
		fmt.Fprintf(r.out, "%d %s\n", n, text)
	}
}

func (r *REPL) list(arg string) {
	lo, hi := 0, maxLabel
	switch {
	case arg == "":
		// whole program
	case strings.Contains(arg, "-"):
		parts := strings.SplitN(arg, "-", 2)
		if n, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			lo = n
		}
		if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			hi = n
		}
	default:
		if n, err := strconv.Atoi(arg); err == nil {
			lo, hi = n, n
		}
	}
	for _, label := range r.sortedLabels() {
		if label < lo || label > hi {
			continue
		}
		fmt.Fprintf(r.out, "%d %s\n", label, r.lines[label])
	}
}

// buildProgram reparses the whole stored buffer, in label order, into an
// ast.Program. A stored line's own label always wins regardless of the
// session's LineNumberMode, since every stored line already carries an
// explicit label by construction.
func (r *REPL) buildProgram(rep *diag.Reporter) *ast.Program {
	var sb strings.Builder
	for _, label := range r.sortedLabels() {
		fmt.Fprintf(&sb, "%d %s\n", label, r.lines[label])
	}
	l := lexer.New(sb.String())
	return parser.ParseProgram(l, r.opts, rep)
}

// ensureInterp lazily creates the single Interpreter shared by every RUN
// and instant statement for the life of the session, so a variable set
// by one persists for the next.
func (r *REPL) ensureInterp() {
	if r.interp == nil {
		r.interp = interp.New(r.out, discardingStdin{r.in}, r.opts, diag.NewReporter())
	}
}

func (r *REPL) runProgram(arg string) {
	rep := diag.NewReporter()
	prog := r.buildProgram(rep)
	if rep.HasError() {
		fmt.Fprintln(r.out, rep.Diagnostic().Format(nil))
		return
	}

	r.ensureInterp()
	r.interp.SetReporter(rep)

	if arg != "" {
		if n, err := strconv.Atoi(arg); err == nil {
			prog = sliceFrom(prog, n)
		}
	}
	r.interp.Run(prog)
	if rep.HasError() {
		fmt.Fprintln(r.out, rep.Diagnostic().Format(nil))
	}
}

// sliceFrom returns the suffix of prog's lines starting at the first
// label >= start, so RUN n behaves like GOTO n at program start.
func sliceFrom(prog *ast.Program, start int) *ast.Program {
	for i, l := range prog.Lines {
		if l.Label >= start {
			return &ast.Program{Lines: prog.Lines[i:]}
		}
	}
	return &ast.Program{}
}

// execImmediate parses trimmed as a single statement (no label) and runs
// it against the persistent Interpreter, the way a Tiny BASIC console
// executes a command typed without a line number.
func (r *REPL) execImmediate(trimmed string) {
	r.ensureInterp()
	rep := diag.NewReporter()
	l := lexer.New(trimmed + "\n")
	p := parser.New(l, r.opts, rep)
	stmt := p.ParseStatement()
	if rep.HasError() {
		fmt.Fprintln(r.out, rep.Diagnostic().Format(nil))
		return
	}
	prog := &ast.Program{Lines: []*ast.ProgramLine{ast.NewProgramLine(token.Token{}, 0, stmt)}}
	r.interp.SetReporter(rep)
	r.interp.Run(prog)
	if rep.HasError() {
		fmt.Fprintln(r.out, rep.Diagnostic().Format(nil))
	}
}

// discardingStdin adapts the REPL's line scanner so INPUT statements
// read subsequent terminal lines rather than trying to open a second
// reader over the same stream.
type discardingStdin struct {
	s *bufio.Scanner
}

func (d discardingStdin) Read(p []byte) (int, error) {
	if !d.s.Scan() {
		return 0, io.EOF
	}
	line := d.s.Text() + "\n"
	n := copy(p, line)
	return n, nil
}
