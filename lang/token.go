package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"log/slog"
	"strconv"
)

// Kind classifies a [Token]. Every Kind is a terminal symbol of the grammar.
type Kind int

const (
	Plus    Kind = iota // '+'
	Minus               // '-'
	Star                // '*'
	Slash               // '/'
	Percent             // '%'
	Caret               // '^'
	LParen              // '('
	RParen              // ')'
	Comma               // ','
	Ident               // identifier
	Number              // number
	End                 // end of input
)

// numTerminals is the width of a row in the action table.
const numTerminals = int(End) + 1

// symbols maps each single-character operator or delimiter to its Kind.
var symbols = map[rune]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'%': Percent,
	'^': Caret,
	'(': LParen,
	')': RParen,
	',': Comma,
}

// Position locates a token or error in the input text.
type Position struct {
	Offset int // byte offset, starting at 0
	Column int // rune column, starting at 1
}

// String returns the position as "column N".
func (p Position) String() string {
	return "column " + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("offset", p.Offset),
		slog.Int("column", p.Column),
	)
}

// Token is a classified lexeme. Tokens are never mutated after the lexer
// emits them.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

// String returns the lexeme, or the kind name for the end-of-input token.
func (t Token) String() string {
	if t.Kind == End {
		return t.Kind.String()
	}

	return strconv.Quote(t.Lexeme)
}
