package errspec

// Validate confirms grammar-level legality of a parsed spec: a message
// template must be present unless the contents is a source list.
// Returns nil on success and *errgen.Error anchored at the spec's declaration
// position on violation.
//
// Existence and error-capability of referenced variant types, and
// placeholder/field correspondence in the message template, are not checked
// here; both surface later when the Go compiler builds the generated file.
func Validate(spec *ErrorSpec) error {
	if !spec.HasMessage {
		if _, is := spec.Contents.(SourceList); !is {
			return missingMessageError(spec)
		}
	}

	return nil
}
