package errspec

// CondName is the name of conditional-compilation attributes: @when(<condition>)
// marks a field or variant as present only under certain build configurations.
const CondName = "when"

// CondAttrs returns the subsequence of attrs that are conditional-compilation
// attributes, preserving relative order. Every emission site that mentions a
// field or variant must re-query this partition and re-emit the result
// verbatim; re-deriving the set ad hoc per site risks drift between the
// declaration and its uses, which is a generator defect.
func CondAttrs(attrs []Attr) []Attr {
	var res []Attr
	for _, a := range attrs {
		if a.Name == CondName {
			res = append(res, a)
		}
	}

	return res
}
