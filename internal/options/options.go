// Package options holds the mutable language policy shared by the parser,
// interpreter, and C generator: line-number mode, line-number limit,
// comment handling, and GOSUB stack depth. It follows the teacher
// lexer's functional-options idiom (WithPreserveComments, WithTracing)
// so every component is configured the same way.
package options

// LineNumberMode selects how the parser treats a missing line label.
type LineNumberMode int

const (
	// Optional allows lines to be labeled or unlabeled in any order;
	// labels need not be monotonic.
	Optional LineNumberMode = iota
	// Implied assigns an unlabeled line the label (previous + 1); the
	// first unlabeled line gets 1.
	Implied
	// Mandatory requires every line to carry a strictly increasing
	// label; a missing label is a parse error.
	Mandatory
)

func (m LineNumberMode) String() string {
	switch m {
	case Optional:
		return "optional"
	case Implied:
		return "implied"
	case Mandatory:
		return "mandatory"
	default:
		return "unknown"
	}
}

// ParseLineNumberMode parses the CLI/TOML spelling of a line-number mode.
func ParseLineNumberMode(s string) (LineNumberMode, bool) {
	switch s {
	case "optional":
		return Optional, true
	case "implied":
		return Implied, true
	case "mandatory":
		return Mandatory, true
	default:
		return Optional, false
	}
}

// defaultGosubLimit bounds the GOSUB stack in the absence of an explicit
// -g/--gosub-limit flag. It is generous enough that idiomatic Tiny BASIC
// programs never hit it by accident, while still catching runaway
// recursion.
const defaultGosubLimit = 255

// defaultMemorySize is the word count of the sandboxed PEEK/POKE address
// space when no explicit size is configured.
const defaultMemorySize = 4096

// Options is the mutable policy object threaded through the parser,
// interpreter, and C generator. Construct with New and Option functions;
// the zero value is not meaningful on its own.
type Options struct {
	LineNumberMode LineNumberMode
	LineLimit      int  // 0 means unlimited
	CommentsOn     bool
	GosubLimit     int
	MemorySize     int // size of the sandboxed PEEK/POKE address space; 0 disables PEEK/POKE
}

// Option configures an Options value at construction time.
type Option func(*Options)

// WithLineNumberMode sets the line-number policy.
func WithLineNumberMode(mode LineNumberMode) Option {
	return func(o *Options) { o.LineNumberMode = mode }
}

// WithLineLimit sets the maximum accepted label. 0 means unlimited.
func WithLineLimit(limit int) Option {
	return func(o *Options) { o.LineLimit = limit }
}

// WithComments controls whether the parser keeps labeled lines that
// carry no statement (such as "10 REM note") in the parsed Program, and
// so whether the interpreter, formatter and C generator see them. The
// tokenizer always discards REM text regardless of this flag.
func WithComments(enabled bool) Option {
	return func(o *Options) { o.CommentsOn = enabled }
}

// WithGosubLimit sets the maximum GOSUB stack depth.
func WithGosubLimit(limit int) Option {
	return func(o *Options) { o.GosubLimit = limit }
}

// WithMemory sets the size (in words) of the sandboxed PEEK/POKE address
// space. A size of 0 disables PEEK/POKE: both statements then raise
// E_INVALID_EXPRESSION at runtime.
func WithMemory(words int) Option {
	return func(o *Options) { o.MemorySize = words }
}

// New builds an Options value with the Tiny BASIC defaults, then applies
// opts in order.
func New(opts ...Option) *Options {
	o := &Options{
		LineNumberMode: Optional,
		LineLimit:      0,
		CommentsOn:     true,
		GosubLimit:     defaultGosubLimit,
		MemorySize:     defaultMemorySize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
