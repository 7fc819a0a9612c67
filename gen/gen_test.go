package gen

import (
	"strings"
	"testing"

	"errgen.dev/errgen/errspec"
	"errgen.dev/errgen/internal/test"
)

func parse(t *testing.T, src string) *errspec.ErrorSpec {
	t.Helper()
	spec, e := errspec.ParseString("string", src)
	if e != nil {
		t.Fatalf("input %q: unexpected parse error: %s", src, e.Error())
	}
	return spec
}

func generate(t *testing.T, src string) string {
	t.Helper()
	out, e := Generate(parse(t, src))
	if e != nil {
		t.Fatalf("input %q: unexpected error: %s", src, e.Error())
	}
	return string(out)
}

func checkGolden(t *testing.T, src, expected string) {
	t.Helper()
	got := generate(t, src)
	if got != expected {
		t.Errorf("input %q:\nexpected:\n%s\ngot:\n%s", src, expected, got)
	}
}

func TestUnitShape(t *testing.T) {
	checkGolden(t, `E1 "boom"`, `type E1 struct {
	_ struct{}
}

func (e *E1) Error() string {
	return "boom"
}
`)
}

func TestStructShape(t *testing.T) {
	checkGolden(t, `E2 "bad {x}" (x: string)`, `type E2 struct {
	_ struct{}

	X string
}

func (e *E2) Error() string {
	return fmt.Sprintf("bad %v",
		e.X,
	)
}
`)
}

func TestStructShapeNoPlaceholders(t *testing.T) {
	checkGolden(t, `E "plain" (x: int)`, `type E struct {
	_ struct{}

	X int
}

func (e *E) Error() string {
	return "plain"
}
`)
}

// A struct-form template always renders decoded braces, whether or not a
// placeholder forces it through the fmt path.
func TestStructShapeBraceEscapes(t *testing.T) {
	checkGolden(t, `E "a {{b}}" (x: int)`, `type E struct {
	_ struct{}

	X int
}

func (e *E) Error() string {
	return "a {b}"
}
`)

	checkGolden(t, `E "{{a}} {x}" (x: int)`, `type E struct {
	_ struct{}

	X int
}

func (e *E) Error() string {
	return fmt.Sprintf("{a} %v",
		e.X,
	)
}
`)
}

func TestStructFieldAlignment(t *testing.T) {
	checkGolden(t, `E "m" (id: int, reason: string)`, `type E struct {
	_ struct{}

	Id     int
	Reason string
}

func (e *E) Error() string {
	return "m"
}
`)
}

func TestSourceListShape(t *testing.T) {
	checkGolden(t, `E3 "wrapped" (E1, E2)`, `type E3 struct {
	_ struct{}

	E1 *E1
	E2 *E2
}

func (e *E3) Error() string {
	return "wrapped"
}

func (e *E3) Unwrap() error {
	switch {
	case e.E1 != nil:
		return e.E1
	case e.E2 != nil:
		return e.E2
	}
	return nil
}

func E3FromE1(err *E1) *E3 {
	return &E3{E1: err}
}

func E3FromE2(err *E2) *E3 {
	return &E3{E2: err}
}
`)
}

func TestTransparentShape(t *testing.T) {
	checkGolden(t, `E4 (E3)`, `type E4 struct {
	_ struct{}

	E3 *E3
}

func (e *E4) Error() string {
	switch {
	case e.E3 != nil:
		return e.E3.Error()
	}
	return ""
}

func (e *E4) Unwrap() error {
	switch {
	case e.E3 != nil:
		return e.E3
	}
	return nil
}

func E4FromE3(err *E3) *E4 {
	return &E4{E3: err}
}
`)
}

func TestArrayShape(t *testing.T) {
	checkGolden(t, `E5 "several" [E1]`, `type E5 struct {
	_ struct{}

	Errors []E1
}

func (e *E5) Error() string {
	var b strings.Builder
	b.WriteString("several:")
	for _, err := range e.Errors {
		b.WriteString("\n")
		b.WriteString(err.Error())
	}
	return b.String()
}
`)
}

func TestGenericShape(t *testing.T) {
	checkGolden(t, `E6<T any> "bad {v}" (v: T)`, `type E6[T any] struct {
	_ struct{}

	V T
}

func (e *E6[T]) Error() string {
	return fmt.Sprintf("bad %v",
		e.V,
	)
}
`)
}

func TestGenericConversions(t *testing.T) {
	out := generate(t, `E<T any> "m" (@when(linux) A, B)`)
	if !strings.Contains(out, "func EFromA[T any](err *A) *E[T] {") {
		t.Errorf("missing generic conversion head:\n%s", out)
	}
	if !strings.Contains(out, "return &E[T]{A: err}") {
		t.Errorf("missing generic conversion body:\n%s", out)
	}
}

func TestPlainAttrComments(t *testing.T) {
	out := generate(t, `@doc(a demo type) @deprecated E "m"`)
	if !strings.Contains(out, "// @doc(a demo type)\n// @deprecated\ntype E struct {") {
		t.Errorf("missing attr comments at the declaration:\n%s", out)
	}
}

// Conditional attributes must reappear at every generation site that refers
// to the guarded item, so that stripping the guarded lines leaves compilable
// output.
func TestCondReplication(t *testing.T) {
	samples := []struct {
		src   string
		count int
	}{
		// field declaration, Unwrap arm, conversion head
		{`E "m" (@when(linux) A, B)`, 3},
		// field declaration, Error arm, Unwrap arm, conversion head
		{`E (@when(linux) A, B)`, 4},
		// field declaration, Sprintf argument
		{`E "x {a}" (@when(linux) a: int)`, 2},
		// field declaration, collection loop
		{`E "m" [@when(linux) T]`, 2},
		// type declaration, Error method
		{`@when(linux) E "m"`, 2},
		// type declaration, Error method, Unwrap method, conversion head
		{`@when(linux) E "m" (A)`, 4},
	}

	for _, s := range samples {
		out := generate(t, s.src)
		got := strings.Count(out, "//errgen:when linux")
		if got != s.count {
			t.Errorf("input %q: expected %d directive sites, got %d:\n%s", s.src, s.count, got, out)
		}
	}
}

func TestGenerateRejectsMissingMessage(t *testing.T) {
	_, e := Generate(parse(t, "E (x: int)"))
	test.ExpectErrorCode(t, errspec.MissingMessageError, e)
}

func TestFile(t *testing.T) {
	out, e := File("demo", parse(t, `E1 "boom"`))
	if e != nil {
		t.Fatalf("unexpected error: %s", e.Error())
	}
	expected := `// Code generated by errgen. DO NOT EDIT.

package demo

type E1 struct {
	_ struct{}
}

func (e *E1) Error() string {
	return "boom"
}
`
	if string(out) != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, out)
	}
}

func TestFileImports(t *testing.T) {
	out, e := File("demo", parse(t, `E "bad {x}" (x: int)`))
	if e != nil {
		t.Fatalf("unexpected error: %s", e.Error())
	}
	if !strings.Contains(string(out), "\nimport \"fmt\"\n") {
		t.Errorf("expected single fmt import:\n%s", out)
	}

	out, e = File("demo", parse(t, `E "bad {x}" (x: int)`), parse(t, `E2 "all" [E]`))
	if e != nil {
		t.Fatalf("unexpected error: %s", e.Error())
	}
	if !strings.Contains(string(out), "import (\n\t\"fmt\"\n\t\"strings\"\n)") {
		t.Errorf("expected fmt and strings import block:\n%s", out)
	}

	out, e = File("demo", parse(t, `E "plain" (x: int)`))
	if e != nil {
		t.Fatalf("unexpected error: %s", e.Error())
	}
	if strings.Contains(string(out), "import") {
		t.Errorf("unexpected import block:\n%s", out)
	}
}

func TestFileBadPackageName(t *testing.T) {
	samples := []string{"", "123", "foo-bar", "a b"}
	for _, name := range samples {
		_, e := File(name, parse(t, `E "m"`))
		test.ExpectErrorCode(t, BadPackageNameError, e)
	}
}

func TestFileRejectsMissingMessage(t *testing.T) {
	_, e := File("demo", parse(t, `E1 "ok"`), parse(t, "E2 (x: int)"))
	test.ExpectErrorCode(t, errspec.MissingMessageError, e)
}

func TestUnescapeBraces(t *testing.T) {
	samples := map[string]string{
		"plain":     "plain",
		"a {{b}}":   "a {b}",
		"{{":        "{",
		"}}":        "}",
		"{unclosed": "{unclosed",
		"100%":      "100%",
	}
	for msg, expected := range samples {
		if got := unescapeBraces(msg); got != expected {
			t.Errorf("message %q: expected %q, got %q", msg, expected, got)
		}
	}
}

func TestTranslateMessage(t *testing.T) {
	samples := []struct {
		msg, format string
		args        []string
	}{
		{"plain", "plain", nil},
		{"bad {x}", "bad %v", []string{"x"}},
		{"{a} and {b}", "%v and %v", []string{"a", "b"}},
		{"{{literal}}", "{literal}", nil},
		{"100%", "100%%", nil},
		{"{x:hint}", "%v", []string{"x"}},
		{"{ x }", "%v", []string{"x"}},
		{"{unclosed", "{unclosed", nil},
		{"}", "}", nil},
	}

	for _, s := range samples {
		format, args := translateMessage(s.msg)
		if format != s.format {
			t.Errorf("message %q: expected format %q, got %q", s.msg, s.format, format)
			continue
		}
		if len(args) != len(s.args) {
			t.Errorf("message %q: expected args %v, got %v", s.msg, s.args, args)
			continue
		}
		for i := range args {
			if args[i] != s.args[i] {
				t.Errorf("message %q: expected args %v, got %v", s.msg, s.args, args)
				break
			}
		}
	}
}
