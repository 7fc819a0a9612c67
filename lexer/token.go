package lexer

import (
	"errgen.dev/errgen/source"
)

// Token is a single lexeme fetched from a source.
type Token struct {
	tokenType int
	typeName  string
	text      string
	pos       source.Pos
}

// NewToken creates new Token at given position.
func NewToken(tokenType int, typeName, text string, pos source.Pos) *Token {
	return &Token{tokenType, typeName, text, pos}
}

// Type returns token type.
func (t *Token) Type() int {
	return t.tokenType
}

// TypeName returns token type name.
func (t *Token) TypeName() string {
	return t.typeName
}

// Text returns token text exactly as written in the source.
func (t *Token) Text() string {
	return t.text
}

// Pos returns token start position.
func (t *Token) Pos() source.Pos {
	return t.pos
}

// End returns byte offset just past the token text.
func (t *Token) End() int {
	return t.pos.Offset() + len(t.text)
}

// SourceName returns source name or empty string.
func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

// Line returns 1-based line number or 0.
func (t *Token) Line() int {
	return t.pos.Line()
}

// Col returns 1-based column number or 0.
func (t *Token) Col() int {
	return t.pos.Col()
}

const (
	// EofTokenType marks the end of the source.
	EofTokenType = -2

	// LowestTokenType is the lowest token type value reserved by the lexer.
	LowestTokenType = -2

	// EofTokenName is the type name for EofTokenType.
	EofTokenName = "-end-of-file-"
)

// EofToken creates a token marking the end of given source.
func EofToken(s *source.Source) *Token {
	if s == nil {
		return &Token{tokenType: EofTokenType, typeName: EofTokenName}
	}
	return &Token{tokenType: EofTokenType, typeName: EofTokenName, pos: source.NewPos(s, s.Len())}
}
