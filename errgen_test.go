package errgen_test

import (
	"testing"

	"errgen.dev/errgen"
	"errgen.dev/errgen/internal/test"
)

type testPos struct{}

func (testPos) SourceName() string { return "test.errs" }
func (testPos) Line() int          { return 3 }
func (testPos) Col() int           { return 7 }

func TestNewError(t *testing.T) {
	e := errgen.NewError(errgen.SpecErrors, "something failed", "test.errs", 3, 7)
	test.ExpectString(t, "something failed in test.errs at line 3 col 7", e.Error())
	test.ExpectInt(t, errgen.SpecErrors, e.Code)
	test.ExpectString(t, "test.errs", e.SourceName)
	test.ExpectInt(t, 3, e.Line)
	test.ExpectInt(t, 7, e.Col)

	e = errgen.NewError(errgen.SpecErrors, "something failed", "", 0, 0)
	test.ExpectString(t, "something failed", e.Error())
}

func TestFormatError(t *testing.T) {
	e := errgen.FormatError(errgen.GenErrors, "bad name: %q", "123")
	test.ExpectString(t, "bad name: \"123\"", e.Error())

	e = errgen.FormatErrorPos(testPos{}, errgen.LexicalErrors, "unknown character")
	test.ExpectString(t, "unknown character in test.errs at line 3 col 7", e.Error())
}
