package classify

import (
	"testing"

	"pybridge/internal/decl"
	"pybridge/internal/diag"
	"pybridge/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func marker(kind decl.MarkerKind, start, end uint32) decl.Marker {
	return decl.Marker{Kind: kind, Raw: kind.String(), Span: sp(start, end)}
}

func markerValue(kind decl.MarkerKind, value string, start, end uint32) decl.Marker {
	m := marker(kind, start, end)
	m.Value = value
	return m
}

func refRecv(start, end uint32) decl.Receiver {
	return decl.Receiver{Kind: decl.RecvRef, Span: sp(start, end)}
}

func param(name, typ string, start, end uint32) decl.Param {
	// the type occupies the tail of the parameter span in these fixtures
	return decl.Param{Name: name, Type: typ, Span: sp(start, end), TypeSpan: sp(end - 3, end)}
}

// checkOne runs the full pipeline for a single declaration and returns the
// produced descriptor (nil on failure) plus the collected diagnostics.
func checkOne(t *testing.T, d decl.Decl) (*Descriptor, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(32)
	desc, ok := CheckDecl(&d, diag.BagReporter{Bag: bag})
	if ok != (desc != nil) {
		t.Fatalf("ok=%v but desc=%v", ok, desc)
	}
	if ok && bag.HasErrors() {
		t.Fatalf("descriptor produced despite errors: %+v", bag.Items())
	}
	return desc, bag
}

// wantErrors asserts codes and primary spans, in order.
func wantErrors(t *testing.T, bag *diag.Bag, want ...diag.Diagnostic) {
	t.Helper()
	items := bag.Items()
	if len(items) != len(want) {
		t.Fatalf("got %d diagnostics, want %d: %+v", len(items), len(want), items)
	}
	for i := range want {
		if items[i].Code != want[i].Code {
			t.Errorf("diag %d: code %s, want %s", i, items[i].Code.ID(), want[i].Code.ID())
		}
		if items[i].Primary != want[i].Primary {
			t.Errorf("diag %d: span %v, want %v", i, items[i].Primary, want[i].Primary)
		}
	}
}

func errAt(code diag.Code, span source.Span) diag.Diagnostic {
	return diag.Diagnostic{Code: code, Primary: span}
}
