package errspec

import (
	"testing"
)

func TestCondAttrs(t *testing.T) {
	attrs := []Attr{
		{Name: "doc", Args: "first"},
		{Name: "when", Args: "linux"},
		{Name: "deprecated"},
		{Name: "when", Args: "amd64"},
	}

	cond := CondAttrs(attrs)
	if len(cond) != 2 {
		t.Fatalf("expected 2 conditional attrs, got %+v", cond)
	}
	if cond[0].Args != "linux" || cond[1].Args != "amd64" {
		t.Fatalf("relative order not preserved: %+v", cond)
	}
}

func TestCondAttrsEmpty(t *testing.T) {
	if cond := CondAttrs(nil); len(cond) != 0 {
		t.Fatalf("expected no attrs, got %+v", cond)
	}
	if cond := CondAttrs([]Attr{{Name: "doc"}}); len(cond) != 0 {
		t.Fatalf("expected no attrs, got %+v", cond)
	}
}
