// Package interp implements a tree-walking interpreter for Tiny BASIC:
// 26 integer variables, a GOSUB return-address stack, dynamic GOTO/GOSUB
// label resolution, and a sandboxed PEEK/POKE memory array. It follows
// the teacher's Interpreter shape (a struct holding all mutable runtime
// state, New(output io.Writer), an Eval-style dispatch) generalized to
// Tiny BASIC's much smaller statement set.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tinybasic-lang/tbasic/internal/ast"
	"github.com/tinybasic-lang/tbasic/internal/diag"
	"github.com/tinybasic-lang/tbasic/internal/options"
)

const (
	minInt16 = -32768
	maxInt16 = 32767
)

// Interpreter executes a Program's statements in source order, following
// GOTO/GOSUB/IF control flow. Create with New; call Run to execute a
// Program (the REPL also runs its instant statements through Run, as a
// one-line Program).
type Interpreter struct {
	opts *options.Options
	rep  *diag.Reporter

	output io.Writer
	input  *bufio.Reader

	vars   [26]int
	memory []int16 // nil when PEEK/POKE is disabled (opts.MemorySize == 0)

	gosubStack []int // indices into prog.Lines

	prog    *ast.Program
	pc      int // index into prog.Lines of the statement about to run
	stopped bool
}

// New creates an Interpreter that writes PRINT output to out and reads
// INPUT from in.
func New(out io.Writer, in io.Reader, opts *options.Options, rep *diag.Reporter) *Interpreter {
	it := &Interpreter{
		opts:   opts,
		rep:    rep,
		output: out,
		input:  bufio.NewReader(in),
	}
	if opts.MemorySize > 0 {
		it.memory = make([]int16, opts.MemorySize)
	}
	return it
}

// Vars returns a copy of the 26-slot variable array (A=index 0 .. Z=index
// 25), for tests and REPL introspection.
func (it *Interpreter) Vars() [26]int { return it.vars }

// SetVars restores a previously captured variable array (see Vars).
func (it *Interpreter) SetVars(vars [26]int) { it.vars = vars }

// SetReporter swaps the diag.Reporter statements report through. The
// REPL calls this before every RUN and instant statement so each gets
// its own sticky-error slot while vars and PEEK/POKE memory persist on
// the same Interpreter across calls.
func (it *Interpreter) SetReporter(rep *diag.Reporter) { it.rep = rep }

// Stopped reports whether the last Run hit an END statement or
// ran off the end of the program.
func (it *Interpreter) Stopped() bool { return it.stopped }

// Run executes prog from its first line until END, falling off the end,
// or a runtime error is recorded on the reporter.
func (it *Interpreter) Run(prog *ast.Program) {
	it.prog = prog
	it.pc = 0
	it.stopped = false
	it.gosubStack = it.gosubStack[:0]
	it.loop()
}

// loop executes statements starting at it.pc until a stop condition.
func (it *Interpreter) loop() {
	for it.pc >= 0 && it.pc < len(it.prog.Lines) {
		if it.rep.HasError() {
			return
		}
		line := it.prog.Lines[it.pc]
		next := it.pc + 1
		if line.Statement == nil {
			it.pc = next
			continue
		}
		it.execStatement(line.Statement, &next)
		if it.rep.HasError() || it.stopped {
			return
		}
		it.pc = next
	}
	it.stopped = true
}

// execStatement runs one statement. next is the line index to continue
// at afterward; GOTO/GOSUB/RETURN/IF-with-GOTO overwrite it.
func (it *Interpreter) execStatement(stmt ast.Statement, next *int) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		v, ok := it.eval(s.Expr)
		if !ok {
			return
		}
		it.vars[s.Var-1] = v

	case *ast.IfStmt:
		it.execIf(s, next)

	case *ast.GotoStmt:
		it.execGoto(s.Target, next)

	case *ast.GosubStmt:
		it.execGosub(s.Target, next)

	case *ast.ReturnStmt:
		it.execReturn(next, stmt)

	case *ast.EndStmt:
		it.stopped = true

	case *ast.PrintStmt:
		it.execPrint(s)

	case *ast.InputStmt:
		it.execInput(s)

	case *ast.PeekStmt:
		it.execPeek(s)

	case *ast.PokeStmt:
		it.execPoke(s)

	default:
		panic(fmt.Sprintf("interp: unhandled statement type %T", stmt))
	}
}

func (it *Interpreter) execIf(s *ast.IfStmt, next *int) {
	l, ok := it.eval(s.Left)
	if !ok {
		return
	}
	r, ok := it.eval(s.Right)
	if !ok {
		return
	}
	if !compare(l, s.Op, r) {
		return
	}
	if g, isGoto := s.Then.(*ast.GotoStmt); isGoto {
		it.execGoto(g.Target, next)
		return
	}
	it.execStatement(s.Then, next)
}

func compare(l int, op ast.RelOp, r int) bool {
	switch op {
	case ast.RelEqual:
		return l == r
	case ast.RelUnequal:
		return l != r
	case ast.RelLess:
		return l < r
	case ast.RelLessEqual:
		return l <= r
	case ast.RelGreater:
		return l > r
	case ast.RelGreaterEqual:
		return l >= r
	default:
		return false
	}
}

func (it *Interpreter) execGoto(target *ast.Expression, next *int) {
	v, ok := it.eval(target)
	if !ok {
		return
	}
	idx, found := it.resolveLabel(v)
	if !found {
		it.runtimeErr(diag.EInvalidLineNumber, target)
		return
	}
	*next = idx
}

func (it *Interpreter) execGosub(target *ast.Expression, next *int) {
	if len(it.gosubStack) >= it.opts.GosubLimit {
		it.runtimeErr(diag.ETooManyGosubs, target)
		return
	}
	v, ok := it.eval(target)
	if !ok {
		return
	}
	idx, found := it.resolveLabel(v)
	if !found {
		it.runtimeErr(diag.EInvalidLineNumber, target)
		return
	}
	it.gosubStack = append(it.gosubStack, *next)
	*next = idx
}

func (it *Interpreter) execReturn(next *int, stmt ast.Statement) {
	if len(it.gosubStack) == 0 {
		it.runtimeErr(diag.EReturnWithoutGosub, stmt)
		return
	}
	n := len(it.gosubStack) - 1
	*next = it.gosubStack[n]
	it.gosubStack = it.gosubStack[:n]
}

// resolveLabel maps a target label value to a line index, honoring the
// Optional-exact-match vs Implied/Mandatory-"smallest >= target" policy.
func (it *Interpreter) resolveLabel(target int) (int, bool) {
	if it.opts.LineNumberMode == options.Optional {
		_, idx := it.prog.FindLabelExact(target)
		return idx, idx >= 0
	}
	_, idx := it.prog.FindLabelAtLeast(target)
	return idx, idx >= 0
}

func (it *Interpreter) execPrint(s *ast.PrintStmt) {
	var parts []string
	for _, item := range s.Items {
		if item.IsString {
			parts = append(parts, item.String)
			continue
		}
		v, ok := it.eval(item.Expr)
		if !ok {
			return
		}
		parts = append(parts, strconv.Itoa(v))
	}
	fmt.Fprintln(it.output, strings.Join(parts, ""))
}

// execInput reads one character at a time, per variable: skip characters
// until an optional '-' immediately precedes a digit, accumulate digits,
// and stop at the first non-digit, exactly as interpret_input_statement
// scans with getchar() (original_source/src/interpret.c). The character
// that ends one variable's scan is the character the next variable's
// scan begins on, so "INPUT A,B" reads both values off one line of
// comma- or space-separated input.
func (it *Interpreter) execInput(s *ast.InputStmt) {
	var ch byte
	for _, v := range s.Vars {
		fmt.Fprint(it.output, "? ")
		sign := 1
		for {
			if ch == '-' {
				sign = -1
			} else {
				sign = 1
			}
			b, err := it.input.ReadByte()
			if err != nil {
				it.vars[v-1] = 0
				return
			}
			ch = b
			if ch >= '0' && ch <= '9' {
				break
			}
		}
		value := 0
		for ch >= '0' && ch <= '9' {
			value = value*10 + int(ch-'0')
			if !it.checkRange(sign*value, s) {
				return
			}
			b, err := it.input.ReadByte()
			if err != nil {
				ch = 0
				break
			}
			ch = b
		}
		it.vars[v-1] = sign * value
	}
}

func (it *Interpreter) execPeek(s *ast.PeekStmt) {
	if it.memory == nil {
		it.runtimeErr(diag.EInvalidExpression, s.Address)
		return
	}
	addr, ok := it.eval(s.Address)
	if !ok {
		return
	}
	if addr < 0 || addr >= len(it.memory) {
		it.runtimeErr(diag.EMemory, s.Address)
		return
	}
	it.vars[s.Var-1] = int(it.memory[addr])
}

func (it *Interpreter) execPoke(s *ast.PokeStmt) {
	if it.memory == nil {
		it.runtimeErr(diag.EInvalidExpression, s.Address)
		return
	}
	addr, ok := it.eval(s.Address)
	if !ok {
		return
	}
	if addr < 0 || addr >= len(it.memory) {
		it.runtimeErr(diag.EMemory, s.Address)
		return
	}
	val, ok := it.eval(s.Value)
	if !ok {
		return
	}
	it.memory[addr] = int16(val)
}

// eval evaluates an expression to an int, trapping any result outside
// [-32768, 32767] as overflow, and division by zero. ok is false if a runtime error was recorded;
// callers must stop unwinding immediately in that case.
func (it *Interpreter) eval(e *ast.Expression) (int, bool) {
	acc, ok := it.evalTerm(e.Term)
	if !ok {
		return 0, false
	}
	for _, rt := range e.Rest {
		rhs, ok := it.evalTerm(rt.Term)
		if !ok {
			return 0, false
		}
		var sum int
		switch rt.Op {
		case ast.Add:
			sum = acc + rhs
		case ast.Sub:
			sum = acc - rhs
		}
		if !it.checkRange(sum, e) {
			return 0, false
		}
		acc = sum
	}
	return acc, true
}

func (it *Interpreter) evalTerm(t *ast.Term) (int, bool) {
	acc, ok := it.evalFactor(t.Factor)
	if !ok {
		return 0, false
	}
	for _, rf := range t.Rest {
		rhs, ok := it.evalFactor(rf.Factor)
		if !ok {
			return 0, false
		}
		var v int
		switch rf.Op {
		case ast.Mul:
			v = acc * rhs
		case ast.Div:
			if rhs == 0 {
				it.runtimeErr(diag.EDivideByZero, t)
				return 0, false
			}
			v = acc / rhs
		}
		if !it.checkRange(v, t) {
			return 0, false
		}
		acc = v
	}
	return acc, true
}

func (it *Interpreter) evalFactor(f *ast.Factor) (int, bool) {
	var v int
	switch f.Kind {
	case ast.FactorVariable:
		v = it.vars[f.Variable-1]
	case ast.FactorValue:
		v = int(f.Value)
	case ast.FactorExpression:
		var ok bool
		v, ok = it.eval(f.Expression)
		if !ok {
			return 0, false
		}
	}
	if f.Sign == ast.Negative {
		v = -v
	}
	if !it.checkRange(v, f) {
		return 0, false
	}
	return v, true
}

func (it *Interpreter) checkRange(v int, node ast.Node) bool {
	if v < minInt16 || v > maxInt16 {
		it.runtimeErr(diag.EOverflow, node)
		return false
	}
	return true
}

// currentLabel returns the label of the program line currently
// executing, for attaching to runtime error records (spec.md §3's
// Error record carries the line label the error occurred on, e.g.
// scenario 4: "LET A=10/0" at label 10 reports label 10).
func (it *Interpreter) currentLabel() int {
	if it.pc >= 0 && it.pc < len(it.prog.Lines) {
		return it.prog.Lines[it.pc].Label
	}
	return 0
}

func (it *Interpreter) runtimeErr(code diag.Code, node ast.Node) {
	pos := node.Pos()
	it.rep.SetRuntimeError(code, pos.Line, pos.Column, it.currentLabel())
}
