package lang

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Lexer splits expression text into tokens on demand. A Lexer is finite and
// cannot be restarted: after it emits the [End] token, or an error, every
// further call to [Lexer.Next] returns the same result.
type Lexer struct {
	input string
	pos   int
	col   int
	last  *Token
	err   error
}

// NewLexer returns a Lexer positioned at the start of text.
func NewLexer(text string) *Lexer {
	return &Lexer{input: text, col: 1}
}

// Tokenize returns a lazy sequence of the tokens in text, ending with the
// [End] token. The sequence stops early after yielding an error.
func Tokenize(text string) iter.Seq2[Token, error] {
	return NewLexer(text).All()
}

// All returns the remaining tokens of l as a sequence. Because a Lexer cannot
// be restarted, iterating the sequence a second time yields nothing new.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == End {
				return
			}
		}
	}
}

// Next returns the next token. The numeric lexeme of a [Number] token is
// delimited but not validated.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	if l.last != nil && l.last.Kind == End {
		return *l.last, nil
	}

	l.skipSpace()

	tok, err := l.scan()
	if err != nil {
		l.err = err

		return Token{}, err
	}

	l.last = &tok

	return tok, nil
}

func (l *Lexer) scan() (Token, error) {
	start := l.position()

	if l.eof() {
		return Token{Kind: End, Pos: start}, nil
	}

	r := l.peek()

	if kind, ok := symbols[r]; ok {
		l.advance()

		return Token{Kind: kind, Lexeme: string(r), Pos: start}, nil
	}

	switch {
	case unicode.IsLetter(r):
		for !l.eof() && isAlphanumeric(l.peek()) {
			l.advance()
		}

		return l.token(Ident, start), nil

	case isDigit(r) || r == '.':
		l.scanNumber()

		return l.token(Number, start), nil

	default:
		return Token{}, ErrLex.WithPosition(start).
			Wrapf("%q", r)
	}
}

// scanNumber consumes alphanumerics and dots. A sign directly after an
// exponent marker belongs to the literal when a digit follows it.
func (l *Lexer) scanNumber() {
	for !l.eof() {
		r := l.peek()

		if r == 'e' || r == 'E' {
			l.advance()

			if l.hasSignedExponent() {
				l.advance() // sign
			}

			continue
		}

		if !isAlphanumeric(r) && r != '.' {
			return
		}

		l.advance()
	}
}

func (l *Lexer) hasSignedExponent() bool {
	if l.pos+1 >= len(l.input) {
		return false
	}

	sign, next := l.input[l.pos], l.input[l.pos+1]

	return (sign == '+' || sign == '-') && isDigit(rune(next))
}

func (l *Lexer) token(kind Kind, start Position) Token {
	return Token{
		Kind:   kind,
		Lexeme: l.input[start.Offset:l.pos],
		Pos:    start,
	}
}

func (l *Lexer) skipSpace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return r
}

func (l *Lexer) advance() {
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	l.col++
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Column: l.col}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsIdentifier reports whether s is exactly one identifier token.
func IsIdentifier(s string) bool {
	for i, r := range s {
		if !isAlphanumeric(r) || (i == 0 && !unicode.IsLetter(r)) {
			return false
		}
	}

	return s != ""
}
