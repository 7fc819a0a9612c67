// Package gen emits Go type definitions and error-contract boilerplate for parsed error-specs.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"regexp"
	"strconv"
	"strings"

	"errgen.dev/errgen"
	"errgen.dev/errgen/errspec"
)

// Error codes used by gen:
const (
	// BadPackageNameError indicates that the package name passed to File is not a valid Go identifier.
	BadPackageNameError = errgen.GenErrors + iota

	// OutputError indicates that emitted source failed gofmt formatting.
	// This is a generator defect, not a caller error.
	OutputError
)

const header = "// Code generated by errgen. DO NOT EDIT."

var nameRe = regexp.MustCompile("^[A-Za-z_][A-Za-z_0-9]*$")

func badPackageNameError(name string) *errgen.Error {
	return errgen.FormatError(BadPackageNameError, "invalid package name: %s", name)
}

func outputError(e error) *errgen.Error {
	return errgen.FormatError(OutputError, "cannot format generated output: %s", e.Error())
}

// Generate validates spec and emits its Go declarations as a gofmt-formatted
// source fragment without a package clause. A struct-form spec with template
// placeholders needs "fmt" and an array-form spec needs "strings" in the
// enclosing file; File computes the import block itself.
// Returns nil and *errgen.Error on error.
func Generate(spec *errspec.ErrorSpec) ([]byte, error) {
	e := errspec.Validate(spec)
	if e != nil {
		return nil, e
	}

	em := &emitter{}
	em.emitSpec(spec)
	content, fe := format.Source(em.buf.Bytes())
	if fe != nil {
		return nil, outputError(fe)
	}

	return content, nil
}

// File validates all specs and emits one complete gofmt-formatted Go file
// containing the declarations of every spec, with a generated-code header,
// package clause, and import block.
// Returns nil and *errgen.Error on error.
func File(pkg string, specs ...*errspec.ErrorSpec) ([]byte, error) {
	if !nameRe.MatchString(pkg) {
		return nil, badPackageNameError(pkg)
	}
	for _, spec := range specs {
		e := errspec.Validate(spec)
		if e != nil {
			return nil, e
		}
	}

	em := &emitter{}
	em.buf.WriteString(header + "\n\npackage " + pkg + "\n")
	imports := neededImports(specs)
	if len(imports) == 1 {
		em.buf.WriteString("\nimport " + strconv.Quote(imports[0]) + "\n")
	} else if len(imports) > 1 {
		em.buf.WriteString("\nimport (\n")
		for _, imp := range imports {
			em.buf.WriteString("\t" + strconv.Quote(imp) + "\n")
		}
		em.buf.WriteString(")\n")
	}
	em.started = true

	for _, spec := range specs {
		em.emitSpec(spec)
	}

	content, fe := format.Source(em.buf.Bytes())
	if fe != nil {
		return nil, outputError(fe)
	}

	return content, nil
}

func neededImports(specs []*errspec.ErrorSpec) []string {
	needFmt := false
	needStrings := false
	for _, spec := range specs {
		switch spec.Contents.(type) {
		case errspec.StructFields:
			_, args := translateMessage(spec.Message)
			if len(args) > 0 {
				needFmt = true
			}
		case errspec.ArraySource:
			needStrings = true
		}
	}

	imports := make([]string, 0, 2)
	if needFmt {
		imports = append(imports, "fmt")
	}
	if needStrings {
		imports = append(imports, "strings")
	}
	return imports
}

type emitter struct {
	buf     bytes.Buffer
	started bool
}

// sep separates top-level declarations with a blank line.
func (em *emitter) sep() {
	if em.started {
		em.buf.WriteString("\n")
	}
	em.started = true
}

// emitSpec dispatches on the contents tag, one case per output shape.
func (em *emitter) emitSpec(spec *errspec.ErrorSpec) {
	switch contents := spec.Contents.(type) {
	case errspec.Unit:
		em.emitType(spec, nil)
		em.emitLiteralError(spec)

	case errspec.StructFields:
		fields := make([]fieldDecl, len(contents.Fields))
		for i, f := range contents.Fields {
			fields[i] = fieldDecl{attrs: f.Attrs, name: errspec.ExportedName(f.Name), typ: f.Type}
		}
		em.emitType(spec, fields)
		em.emitStructError(spec, contents.Fields)

	case errspec.SourceList:
		fields := make([]fieldDecl, len(contents.Variants))
		for i, v := range contents.Variants {
			fields[i] = fieldDecl{attrs: v.Attrs, name: v.Name, typ: "*" + v.Name}
		}
		em.emitType(spec, fields)
		if spec.HasMessage {
			em.emitLiteralError(spec)
		} else {
			em.emitTransparentError(spec, contents.Variants)
		}
		em.emitUnwrap(spec, contents.Variants)
		for _, v := range contents.Variants {
			em.emitConversion(spec, v)
		}

	case errspec.ArraySource:
		fields := []fieldDecl{{attrs: contents.Attrs, name: "Errors", typ: "[]" + contents.Type}}
		em.emitType(spec, fields)
		em.emitArrayError(spec, contents)
	}
}

type fieldDecl struct {
	attrs []errspec.Attr
	name  string
	typ   string
}

// emitType writes the type declaration: attribute comments, the forward
// compatibility marker (a blank "_ struct{}" field forbidding unkeyed
// composite literals from other packages), and the field block.
func (em *emitter) emitType(spec *errspec.ErrorSpec, fields []fieldDecl) {
	em.sep()
	em.writeAttrComments("", spec.Attrs)
	em.buf.WriteString("type " + declName(spec) + " struct {\n")
	em.buf.WriteString("\t_ struct{}\n")

	if len(fields) > 0 {
		em.buf.WriteString("\n")
		hasComments := false
		for _, f := range fields {
			if len(f.attrs) > 0 {
				hasComments = true
				break
			}
		}

		if hasComments {
			// comment lines interleave with fields, so each field forms
			// its own gofmt alignment section
			for i, f := range fields {
				if i > 0 {
					em.buf.WriteString("\n")
				}
				em.writeAttrComments("\t", f.attrs)
				em.buf.WriteString("\t" + f.name + " " + f.typ + "\n")
			}
		} else {
			width := 0
			for _, f := range fields {
				if len(f.name) > width {
					width = len(f.name)
				}
			}
			for _, f := range fields {
				em.buf.WriteString("\t" + pad(f.name, width+1) + f.typ + "\n")
			}
		}
	}

	em.buf.WriteString("}\n")
}

// emitLiteralError writes an Error method returning the message template verbatim.
func (em *emitter) emitLiteralError(spec *errspec.ErrorSpec) {
	em.sep()
	em.writeCondComments("", errspec.CondAttrs(spec.Attrs))
	em.buf.WriteString("func (e *" + typeRef(spec) + ") Error() string {\n")
	em.buf.WriteString("\treturn " + strconv.Quote(spec.Message) + "\n")
	em.buf.WriteString("}\n")
}

// emitStructError writes an Error method substituting template placeholders
// with the record's own field values, one argument per placeholder in
// template order, each on its own line.
func (em *emitter) emitStructError(spec *errspec.ErrorSpec, fields []errspec.Field) {
	fstr, args := translateMessage(spec.Message)
	em.sep()
	em.writeCondComments("", errspec.CondAttrs(spec.Attrs))
	em.buf.WriteString("func (e *" + typeRef(spec) + ") Error() string {\n")
	if len(args) == 0 {
		em.buf.WriteString("\treturn " + strconv.Quote(unescapeBraces(spec.Message)) + "\n}\n")
		return
	}

	em.buf.WriteString("\treturn fmt.Sprintf(" + strconv.Quote(fstr) + ",\n")
	for _, arg := range args {
		em.writeCondComments("\t\t", condFor(fields, arg))
		em.buf.WriteString("\t\te." + errspec.ExportedName(arg) + ",\n")
	}
	em.buf.WriteString("\t)\n}\n")
}

// emitTransparentError writes an Error method delegating verbatim to the
// active variant's own stringification.
func (em *emitter) emitTransparentError(spec *errspec.ErrorSpec, variants []errspec.Variant) {
	em.sep()
	em.writeCondComments("", errspec.CondAttrs(spec.Attrs))
	em.buf.WriteString("func (e *" + typeRef(spec) + ") Error() string {\n")
	em.buf.WriteString("\tswitch {\n")
	for _, v := range variants {
		em.writeCondComments("\t", errspec.CondAttrs(v.Attrs))
		em.buf.WriteString("\tcase e." + v.Name + " != nil:\n")
		em.buf.WriteString("\t\treturn e." + v.Name + ".Error()\n")
	}
	em.buf.WriteString("\t}\n\treturn \"\"\n}\n")
}

// emitUnwrap writes an Unwrap method returning the active variant, or nil
// when no variant is set.
func (em *emitter) emitUnwrap(spec *errspec.ErrorSpec, variants []errspec.Variant) {
	em.sep()
	em.writeCondComments("", errspec.CondAttrs(spec.Attrs))
	em.buf.WriteString("func (e *" + typeRef(spec) + ") Unwrap() error {\n")
	em.buf.WriteString("\tswitch {\n")
	for _, v := range variants {
		em.writeCondComments("\t", errspec.CondAttrs(v.Attrs))
		em.buf.WriteString("\tcase e." + v.Name + " != nil:\n")
		em.buf.WriteString("\t\treturn e." + v.Name + "\n")
	}
	em.buf.WriteString("\t}\n\treturn nil\n}\n")
}

// emitConversion writes the conversion function wrapping a value of the
// variant's type into the union.
func (em *emitter) emitConversion(spec *errspec.ErrorSpec, v errspec.Variant) {
	em.sep()
	em.writeCondComments("", errspec.CondAttrs(spec.Attrs))
	em.writeCondComments("", errspec.CondAttrs(v.Attrs))
	ref := typeRef(spec)
	em.buf.WriteString("func " + spec.Name + "From" + v.Name + funcTypeParams(spec) +
		"(err *" + v.Name + ") *" + ref + " {\n")
	em.buf.WriteString("\treturn &" + ref + "{" + v.Name + ": err}\n")
	em.buf.WriteString("}\n")
}

// emitArrayError writes an Error method producing the message template, a
// separator, then every contained error's own stringification on its own
// line, in sequence order.
func (em *emitter) emitArrayError(spec *errspec.ErrorSpec, contents errspec.ArraySource) {
	em.sep()
	em.writeCondComments("", errspec.CondAttrs(spec.Attrs))
	em.buf.WriteString("func (e *" + typeRef(spec) + ") Error() string {\n")
	em.buf.WriteString("\tvar b strings.Builder\n")
	em.buf.WriteString("\tb.WriteString(" + strconv.Quote(spec.Message+":") + ")\n")
	em.writeCondComments("\t", errspec.CondAttrs(contents.Attrs))
	em.buf.WriteString("\tfor _, err := range e.Errors {\n")
	em.buf.WriteString("\t\tb.WriteString(\"\\n\")\n")
	em.buf.WriteString("\t\tb.WriteString(err.Error())\n")
	em.buf.WriteString("\t}\n\treturn b.String()\n}\n")
}

// writeAttrComments writes all attributes of a declaration site: plain
// attributes as comments in spec order, then the conditional partition as
// directive lines, queried through CondAttrs like every other site.
func (em *emitter) writeAttrComments(indent string, attrs []errspec.Attr) {
	for _, a := range attrs {
		if a.Name == errspec.CondName {
			continue
		}
		if a.Args != "" {
			fmt.Fprintf(&em.buf, "%s// @%s(%s)\n", indent, a.Name, a.Args)
		} else {
			fmt.Fprintf(&em.buf, "%s// @%s\n", indent, a.Name)
		}
	}
	em.writeCondComments(indent, errspec.CondAttrs(attrs))
}

// writeCondComments replicates conditional-compilation attributes at a
// generation site, verbatim and in spec order.
func (em *emitter) writeCondComments(indent string, cond []errspec.Attr) {
	for _, a := range cond {
		if a.Args != "" {
			fmt.Fprintf(&em.buf, "%s//errgen:%s %s\n", indent, a.Name, a.Args)
		} else {
			fmt.Fprintf(&em.buf, "%s//errgen:%s\n", indent, a.Name)
		}
	}
}

func condFor(fields []errspec.Field, name string) []errspec.Attr {
	for _, f := range fields {
		if f.Name == name {
			return errspec.CondAttrs(f.Attrs)
		}
	}
	return nil
}

// declName returns the type name with its full parameter list, e.g. "E[T any]".
func declName(spec *errspec.ErrorSpec) string {
	if spec.Generics == nil {
		return spec.Name
	}
	return spec.Name + "[" + spec.Generics.Params + "]"
}

// typeRef returns the type name with bare parameter names, e.g. "E[T]",
// as used in receivers and composite literals.
func typeRef(spec *errspec.ErrorSpec) string {
	if spec.Generics == nil {
		return spec.Name
	}
	return spec.Name + "[" + strings.Join(spec.Generics.Names, ", ") + "]"
}

func funcTypeParams(spec *errspec.ErrorSpec) string {
	if spec.Generics == nil {
		return ""
	}
	return "[" + spec.Generics.Params + "]"
}

func pad(name string, width int) string {
	return name + strings.Repeat(" ", width-len(name))
}

// unescapeBraces decodes {{ and }} escapes of a struct-form template emitted
// without fmt. Struct-form templates always render decoded braces whether or
// not they contain placeholders; unit, enum, and array templates are verbatim.
func unescapeBraces(msg string) string {
	var b strings.Builder
	for i := 0; i < len(msg); i++ {
		ch := msg[i]
		if (ch == '{' || ch == '}') && i+1 < len(msg) && msg[i+1] == ch {
			i++
		}
		b.WriteByte(ch)
	}

	return b.String()
}

// translateMessage converts a message template to an fmt format string:
// {name} placeholders become %v and contribute an argument, {{ and }} become
// literal braces, % is escaped. A placeholder may carry a trailing
// ":"-separated hint which is ignored. Placeholder names are not checked
// against field names; an unknown name substitutes to a reference to a
// nonexistent field and is reported by the Go compiler.
func translateMessage(msg string) (string, []string) {
	var b strings.Builder
	var args []string
	for i := 0; i < len(msg); i++ {
		ch := msg[i]
		switch ch {
		case '{':
			if i+1 < len(msg) && msg[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			j := strings.IndexByte(msg[i+1:], '}')
			if j < 0 {
				b.WriteByte(ch)
				continue
			}
			name := strings.TrimSpace(msg[i+1 : i+1+j])
			if k := strings.IndexByte(name, ':'); k >= 0 {
				name = strings.TrimSpace(name[:k])
			}
			args = append(args, name)
			b.WriteString("%v")
			i += j + 1
		case '}':
			if i+1 < len(msg) && msg[i+1] == '}' {
				i++
			}
			b.WriteByte('}')
		case '%':
			b.WriteString("%%")
		default:
			b.WriteByte(ch)
		}
	}

	return b.String(), args
}
