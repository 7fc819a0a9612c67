package errspec

import (
	"testing"
)

func TestExportedName(t *testing.T) {
	samples := map[string]string{
		"x":      "X",
		"reason": "Reason",
		"Upper":  "Upper",
		"_tail":  "_tail",
	}
	for name, expected := range samples {
		if got := ExportedName(name); got != expected {
			t.Errorf("name %q: expected %q, got %q", name, expected, got)
		}
	}
}
