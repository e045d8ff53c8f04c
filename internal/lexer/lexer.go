// Package lexer implements the Tiny BASIC tokenizer: a mode-driven state
// machine with one byte of lookahead, pulling tokens out of an in-memory
// source string. Tokens are consumed immediately by the parser; the Lexer keeps
// no history beyond the single character it has buffered.
package lexer

import (
	"strings"

	"github.com/tinybasic-lang/tbasic/internal/token"
)

// Lexer tokenizes Tiny BASIC source text. Create with New; call Next
// repeatedly until it returns an EOF token (EOF repeats indefinitely, so
// the caller can always stop at the first one it sees).
type Lexer struct {
	input        string
	position     int // index of ch
	readPosition int // index of the next byte to read
	ch           byte
	line         int
	column       int // column of ch
}

// New creates a Lexer over the given source text. Both "\n" and "\r\n"
// line endings are accepted; "\r" is treated as ordinary whitespace.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Line returns the line number of the character the lexer is currently
// positioned at.
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.column}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isLetter accepts ASCII letters and any byte >= 0x80, so a localized
// keyword table can use non-ASCII spellings without the tokenizer
// needing encoding-specific logic (spec.md §3, §6).
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

// Next scans and returns the next token. The returned token's Pos is the
// position of its first character, captured before any of the token's
// text is consumed.
func (l *Lexer) Next() token.Token {
	for {
		switch l.ch {
		case ' ', '\t':
			l.readChar()
			continue
		case '\r':
			l.readChar()
			continue
		case '\n':
			tok := token.Token{Type: token.EOL, Literal: "\n", Pos: l.currentPos()}
			l.line++
			l.column = 0
			l.readChar()
			return tok
		case 0:
			return token.Token{Type: token.EOF, Literal: "", Pos: l.currentPos()}
		}

		start := l.currentPos()

		switch {
		case isLetter(l.ch):
			return l.readWord(start)
		case isDigit(l.ch):
			return l.readNumber(start)
		}

		switch l.ch {
		case '<':
			return l.readLessThan(start)
		case '>':
			return l.readGreaterThan(start)
		case '+':
			return l.single(token.PLUS, start)
		case '-':
			return l.single(token.MINUS, start)
		case '*':
			return l.single(token.MULTIPLY, start)
		case '/':
			return l.single(token.DIVIDE, start)
		case '=':
			return l.single(token.EQUAL, start)
		case '(':
			return l.single(token.LEFT_PARENTHESIS, start)
		case ')':
			return l.single(token.RIGHT_PARENTHESIS, start)
		case ',':
			return l.single(token.COMMA, start)
		case '"':
			return l.readString(start)
		default:
			ch := l.ch
			l.readChar()
			return token.Token{Type: token.ILLEGAL, Literal: string(ch), Pos: start}
		}
	}
}

func (l *Lexer) single(typ token.Type, pos token.Position) token.Token {
	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: typ, Literal: lit, Pos: pos}
}

// readWord accumulates letters, resolving REM specially: it drops the
// buffered text and switches to comment mode so the rest of the line is
// discarded (the trailing newline is still emitted as EOL afterwards).
func (l *Lexer) readWord(start token.Position) token.Token {
	var sb strings.Builder
	for isLetter(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	word := sb.String()

	typ := token.LookupWord(word)
	if typ == token.REM {
		l.skipComment()
		return l.Next()
	}
	return token.Token{Type: typ, Literal: word, Pos: start}
}

// skipComment discards characters until (not including) the next
// newline or EOF.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func (l *Lexer) readNumber(start token.Position) token.Token {
	var sb strings.Builder
	for isDigit(l.ch) {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return token.Token{Type: token.NUMBER, Literal: sb.String(), Pos: start}
}

// readLessThan resolves '<', '<=' and '<>'.
func (l *Lexer) readLessThan(start token.Position) token.Token {
	l.readChar() // consume '<'
	switch l.ch {
	case '=':
		l.readChar()
		return token.Token{Type: token.LESSOREQUAL, Literal: "<=", Pos: start}
	case '>':
		l.readChar()
		return token.Token{Type: token.UNEQUAL, Literal: "<>", Pos: start}
	default:
		return token.Token{Type: token.LESSTHAN, Literal: "<", Pos: start}
	}
}

// readGreaterThan resolves '>', '>=' and '><' (treated as '<>').
func (l *Lexer) readGreaterThan(start token.Position) token.Token {
	l.readChar() // consume '>'
	switch l.ch {
	case '=':
		l.readChar()
		return token.Token{Type: token.GREATEROREQUAL, Literal: ">=", Pos: start}
	case '<':
		l.readChar()
		return token.Token{Type: token.UNEQUAL, Literal: "><", Pos: start}
	default:
		return token.Token{Type: token.GREATERTHAN, Literal: ">", Pos: start}
	}
}

// readString accumulates characters until an unescaped closing quote.
// Backslash protects the next character literally; no escape sequence
// is interpreted beyond that. EOF before the closing quote yields
// ILLEGAL.
func (l *Lexer) readString(start token.Position) token.Token {
	l.readChar() // consume opening '"'
	var sb strings.Builder
	for {
		switch l.ch {
		case '"':
			l.readChar()
			return token.Token{Type: token.STRING, Literal: sb.String(), Pos: start}
		case 0:
			return token.Token{Type: token.ILLEGAL, Literal: sb.String(), Pos: start}
		case '\\':
			l.readChar()
			if l.ch == 0 {
				return token.Token{Type: token.ILLEGAL, Literal: sb.String(), Pos: start}
			}
			sb.WriteByte(l.ch)
			l.readChar()
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}
