package errspec

import (
	"errgen.dev/errgen"
	"errgen.dev/errgen/lexer"
)

// Error codes used by errspec:
const (
	UnexpectedEofError = errgen.SpecErrors + iota
	UnexpectedTokenError
	NoContentsFormError
	EmptyGenericsError
	BadStringError
	FieldDefinedError
	VariantDefinedError
	MissingMessageError
)

func eofError(token *lexer.Token) *errgen.Error {
	return errgen.FormatErrorPos(token, UnexpectedEofError, "unexpected EoF")
}

func unexpectedTokenError(token *lexer.Token) *errgen.Error {
	return errgen.FormatErrorPos(token, UnexpectedTokenError, "unexpected %s token %q", token.TypeName(), token.Text())
}

func noContentsError(token *lexer.Token) *errgen.Error {
	return errgen.FormatErrorPos(token, NoContentsFormError, "no valid contents form was recognized")
}

func emptyGenericsError(token *lexer.Token) *errgen.Error {
	return errgen.FormatErrorPos(token, EmptyGenericsError, "empty generic parameter list")
}

func badStringError(token *lexer.Token, e error) *errgen.Error {
	return errgen.FormatErrorPos(token, BadStringError, "incorrect string literal %s (%s)", token.Text(), e.Error())
}

func defFieldError(token *lexer.Token) *errgen.Error {
	return errgen.FormatErrorPos(token, FieldDefinedError, "field %q already defined", token.Text())
}

func defVariantError(token *lexer.Token) *errgen.Error {
	return errgen.FormatErrorPos(token, VariantDefinedError, "variant %q already defined", token.Text())
}

func missingMessageError(spec *ErrorSpec) *errgen.Error {
	return errgen.FormatErrorPos(spec.Pos, MissingMessageError, "any non-enum error must have a display message")
}
