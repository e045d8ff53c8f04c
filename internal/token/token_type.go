package token

// Type identifies the lexical class of a Token.
type Type int

// Token type constants, grouped the way the grammar groups them.
const (
	// Special tokens.
	ILLEGAL Type = iota // unrecognized character
	EOF                 // end of input

	// Literals and names.
	NUMBER   // integer literal: 123
	VARIABLE // a single-letter variable: A .. Z
	STRING   // a quoted string literal
	WORD     // an unrecognized multi-letter word (diagnosed by the parser)

	// Keywords.
	LET
	IF
	THEN
	GOTO
	GOSUB
	RETURN
	END
	PRINT
	INPUT
	REM
	PEEK
	POKE

	// Operators.
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	EQUAL
	UNEQUAL
	LESSTHAN
	LESSOREQUAL
	GREATERTHAN
	GREATEROREQUAL

	// Delimiters.
	LEFT_PARENTHESIS
	RIGHT_PARENTHESIS
	COMMA

	// Statement terminators.
	EOL // end of a source line

	// SYMBOL covers any single character that DEFAULT mode does not
	// otherwise recognize but that is not an error either (reserved for
	// future grammar growth; the current grammar never emits it).
	SYMBOL
)

var typeNames = [...]string{
	ILLEGAL:           "ILLEGAL",
	EOF:               "EOF",
	NUMBER:            "NUMBER",
	VARIABLE:          "VARIABLE",
	STRING:            "STRING",
	WORD:              "WORD",
	LET:               "LET",
	IF:                "IF",
	THEN:              "THEN",
	GOTO:              "GOTO",
	GOSUB:             "GOSUB",
	RETURN:            "RETURN",
	END:               "END",
	PRINT:             "PRINT",
	INPUT:             "INPUT",
	REM:               "REM",
	PEEK:              "PEEK",
	POKE:              "POKE",
	PLUS:              "PLUS",
	MINUS:             "MINUS",
	MULTIPLY:          "MULTIPLY",
	DIVIDE:            "DIVIDE",
	EQUAL:             "EQUAL",
	UNEQUAL:           "UNEQUAL",
	LESSTHAN:          "LESSTHAN",
	LESSOREQUAL:       "LESSOREQUAL",
	GREATERTHAN:       "GREATERTHAN",
	GREATEROREQUAL:    "GREATEROREQUAL",
	LEFT_PARENTHESIS:  "LEFT_PARENTHESIS",
	RIGHT_PARENTHESIS: "RIGHT_PARENTHESIS",
	COMMA:             "COMMA",
	EOL:               "EOL",
	SYMBOL:            "SYMBOL",
}

// String returns the name of the token type, for diagnostics and tests.
func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return "UNKNOWN"
}

// keywords maps the case-folded ASCII spelling of a keyword to its type.
// Lookup is case-insensitive on ASCII letters; non-ASCII bytes compare
// literally, so a localized keyword table can replace this map wholesale
// without touching the tokenizer.
var keywords = map[string]Type{
	"let":    LET,
	"if":     IF,
	"then":   THEN,
	"goto":   GOTO,
	"gosub":  GOSUB,
	"return": RETURN,
	"end":    END,
	"print":  PRINT,
	"input":  INPUT,
	"rem":    REM,
	"peek":   PEEK,
	"poke":   POKE,
}

// LookupWord classifies an accumulated WORD lexeme: a known keyword, a
// single-letter variable (A-Z, case-insensitive), or WORD itself (left for
// the parser to diagnose, per the permissive-lexing design note).
func LookupWord(word string) Type {
	if t, ok := keywords[foldASCII(word)]; ok {
		return t
	}
	if len(word) == 1 {
		c := word[0]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return VARIABLE
		}
	}
	return WORD
}

// foldASCII lower-cases ASCII letters only, leaving any byte >= 0x80
// untouched so localized (non-ASCII) keyword tables keep working without
// the tokenizer needing encoding-specific logic.
func foldASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
