/*
Package errspec converts error-spec descriptions to abstract syntax trees.

An error-spec describes a single generated error type:

	[@attr]* [pub] Name[<Generics>]
	["message template string"]
	( field: Type, field2: Type2, … )    # struct form
	| ( Variant1, Variant2, … )          # source-list form
	| [ Type ]                           # array form
	|                                    # unit form (nothing)

Attributes before the name apply to the whole type; attributes before a field
or variant apply to it and to every generated site referencing it. @when(…)
attributes are conditional-compilation markers, see CondAttrs. A leading "pub"
token marks requested visibility. The message template is a Go string literal
with {name} placeholders referring to struct fields; {{ and }} escape literal
braces. Field types and the array element type are opaque: any balanced token
run is captured verbatim and emitted as written.

A source-list form may omit the message template ("transparent" form); any
other form without a template is rejected by Validate. Several specs in one
source are separated by ";" and parsed with ParseAll.

The package does not check that referenced variant identifiers name existing
error types, nor that template placeholders match field names; both are left
to the Go compiler building the generated file.
*/
package errspec

import (
	"unicode"
	"unicode/utf8"

	"errgen.dev/errgen/source"
)

// Attr is a single attribute attached to a type, field, or variant.
type Attr struct {
	// Name contains attribute name without the leading "@".
	Name string

	// Args contains verbatim argument text without the surrounding parentheses,
	// or empty string if the attribute has no argument list.
	Args string
}

// Generics is an optional generic parameter list of a spec.
type Generics struct {
	// Params contains verbatim parameter list, e.g. "T any, U comparable".
	Params string

	// Names contains parameter names in declaration order, used for receiver type lists.
	Names []string
}

// ErrorSpec is a single parsed error-spec.
type ErrorSpec struct {
	// Attrs contains attributes to attach to the emitted type.
	Attrs []Attr

	// Public is true if the spec carries the "pub" visibility marker.
	Public bool

	// Name contains the declared type name.
	Name string

	// Generics contains the generic parameter list or nil.
	Generics *Generics

	// Message contains the decoded message template; valid only if HasMessage is true.
	Message string

	// HasMessage is true if the spec declares a message template.
	// A source-list spec without a template is transparent: its stringification
	// delegates to the active variant.
	HasMessage bool

	// Contents holds exactly one of Unit, StructFields, SourceList, or ArraySource.
	Contents Contents

	// Pos is the position of the name token, used to anchor diagnostics.
	Pos source.Pos
}

// Contents is the payload of an error-spec; implemented by Unit, StructFields,
// SourceList, and ArraySource.
type Contents interface {
	contents()
}

// Unit is the payload of an error-spec with no data.
type Unit struct{}

// StructFields is the payload of a struct-form error-spec.
type StructFields struct {
	// Fields contains at least one field; field names are unique after
	// export casing (see ExportedName).
	Fields []Field
}

// SourceList is the payload of a source-list error-spec.
type SourceList struct {
	// Variants contains at least one variant; variant names are unique.
	Variants []Variant
}

// ArraySource is the payload of an array-form error-spec.
type ArraySource struct {
	// Attrs contains attributes to attach to the generated collection field.
	Attrs []Attr

	// Type contains the verbatim element type.
	Type string
}

// Field is a single named, typed datum of a struct-form spec,
// usable inside the message template via its name.
type Field struct {
	// Attrs contains attributes to replicate at every site referencing the field.
	Attrs []Attr

	// Name contains the field name as written in the spec.
	Name string

	// Type contains the verbatim field type.
	Type string
}

// Variant is a single variant of a source-list spec. The name must match an
// externally defined error type; no structural check is performed on that type.
type Variant struct {
	// Attrs contains attributes to replicate at every site referencing the variant.
	Attrs []Attr

	// Name contains the referenced error type name.
	Name string
}

func (Unit) contents()         {}
func (StructFields) contents() {}
func (SourceList) contents()   {}
func (ArraySource) contents()  {}

// ExportedName returns the Go struct field name generated for a spec field
// name: the first rune upcased. Generated fields are always exported, so two
// spec field names mapping to the same exported name collide.
func ExportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	up := unicode.ToUpper(r)
	if up == r {
		return name
	}
	return string(up) + name[size:]
}
