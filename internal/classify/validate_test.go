package classify

import (
	"strings"
	"testing"

	"pybridge/internal/decl"
	"pybridge/internal/diag"
)

func TestStaticRejectsReceiver(t *testing.T) {
	d := decl.Decl{
		Name:     "make",
		NameSpan: sp(10, 14),
		Receiver: refRecv(15, 20),
		Markers:  []decl.Marker{marker(decl.MarkerStaticMethod, 0, 5)},
	}
	desc, bag := checkOne(t, d)
	if desc != nil {
		t.Fatal("descriptor produced")
	}
	// anchored at the receiver span, not the name span
	wantErrors(t, bag, errAt(diag.ShapeUnexpectedReceiver, sp(15, 20)))
	if msg := bag.Items()[0].Message; msg != "unexpected receiver" {
		t.Fatalf("message = %q", msg)
	}
}

func TestClassAttrRejectsArguments(t *testing.T) {
	d := decl.Decl{
		Name:     "flavor",
		NameSpan: sp(10, 16),
		Markers:  []decl.Marker{marker(decl.MarkerClassAttr, 0, 5)},
		Params: []decl.Param{
			param("foo", "i32", 20, 28),
			param("bar", "i32", 30, 38),
		},
	}
	_, bag := checkOne(t, d)
	// single report per declaration, anchored at the first parameter
	wantErrors(t, bag, errAt(diag.ShapeClassAttrArgs, sp(20, 28)))
	if msg := bag.Items()[0].Message; msg != "class attribute methods cannot take arguments" {
		t.Fatalf("message = %q", msg)
	}
}

func TestGetterSetterRequireReceiver(t *testing.T) {
	cases := []struct {
		kind decl.MarkerKind
		want string
	}{
		{decl.MarkerGetter, "expected receiver for getter"},
		{decl.MarkerSetter, "expected receiver for setter"},
		{decl.MarkerCall, "expected receiver for call method"},
	}
	for _, tc := range cases {
		d := decl.Decl{
			Name:     "x",
			NameSpan: sp(10, 11),
			Markers:  []decl.Marker{marker(tc.kind, 0, 5)},
		}
		if tc.kind == decl.MarkerSetter {
			d.Params = []decl.Param{param("v", "i32", 12, 18)}
		}
		_, bag := checkOne(t, d)
		wantErrors(t, bag, errAt(diag.ShapeMissingReceiver, sp(10, 11)))
		if msg := bag.Items()[0].Message; msg != tc.want {
			t.Errorf("%v: message = %q, want %q", tc.kind, msg, tc.want)
		}
	}
}

func TestGetterRejectsArguments(t *testing.T) {
	d := decl.Decl{
		Name:     "get_x",
		NameSpan: sp(10, 15),
		Receiver: refRecv(16, 21),
		Markers:  []decl.Marker{marker(decl.MarkerGetter, 0, 5)},
		Params:   []decl.Param{param("v", "i32", 23, 29)},
	}
	_, bag := checkOne(t, d)
	wantErrors(t, bag, errAt(diag.ShapeGetterArgs, sp(23, 29)))
}

func TestSetterArity(t *testing.T) {
	base := func() decl.Decl {
		return decl.Decl{
			Name:     "set_x",
			NameSpan: sp(10, 15),
			Receiver: refRecv(16, 21),
			Markers:  []decl.Marker{marker(decl.MarkerSetter, 0, 5)},
		}
	}

	d := base()
	_, bag := checkOne(t, d)
	wantErrors(t, bag, errAt(diag.ShapeSetterArity, sp(10, 15)))

	d = base()
	d.Params = []decl.Param{param("v", "i32", 23, 29), param("w", "i32", 31, 37)}
	_, bag = checkOne(t, d)
	// anchored at the first extra parameter
	wantErrors(t, bag, errAt(diag.ShapeSetterArity, sp(31, 37)))

	d = base()
	d.Params = []decl.Param{param("v", "i32", 23, 29)}
	desc, bag := checkOne(t, d)
	if bag.Len() != 0 || desc == nil {
		t.Fatalf("valid setter rejected: %+v", bag.Items())
	}
	if desc.PyName != "x" {
		t.Fatalf("PyName = %q, want set_ prefix stripped", desc.PyName)
	}
}

func TestGenericsRejectedForAnyRole(t *testing.T) {
	kinds := []decl.MarkerKind{
		decl.MarkerStaticMethod, decl.MarkerClassMethod, decl.MarkerNew,
	}
	for _, kind := range kinds {
		d := decl.Decl{
			Name:     "f",
			NameSpan: sp(10, 11),
			Markers:  []decl.Marker{marker(kind, 0, 5)},
			Generics: []decl.GenericParam{
				{Name: "T", Span: sp(12, 13)},
				{Name: "U", Span: sp(15, 16)},
			},
		}
		_, bag := checkOne(t, d)
		// one report, anchored at the first generic parameter
		wantErrors(t, bag, errAt(diag.ShapeGenericParams, sp(12, 13)))
	}

	// inferred instance role as well
	d := decl.Decl{
		Name:     "f",
		NameSpan: sp(10, 11),
		Receiver: refRecv(12, 17),
		Generics: []decl.GenericParam{{Name: "T", Span: sp(18, 19)}},
	}
	_, bag := checkOne(t, d)
	wantErrors(t, bag, errAt(diag.ShapeGenericParams, sp(18, 19)))
}

func TestOpaqueParamsReportPerOccurrence(t *testing.T) {
	p1 := param("a", "impl Display", 20, 35)
	p1.Opaque = true
	p2 := param("b", "u32", 37, 43)
	p3 := param("c", "impl Iterator", 45, 61)
	p3.Opaque = true

	d := decl.Decl{
		Name:     "render",
		NameSpan: sp(10, 16),
		Receiver: refRecv(17, 22),
		Params:   []decl.Param{p1, p2, p3},
	}
	_, bag := checkOne(t, d)
	wantErrors(t, bag,
		errAt(diag.ShapeOpaqueParam, p1.TypeSpan),
		errAt(diag.ShapeOpaqueParam, p3.TypeSpan),
	)
}

func TestTextSignatureApplicability(t *testing.T) {
	textSig := func() decl.Marker { return markerValue(decl.MarkerTextSignature, "($self)", 6, 9) }

	// forbidden on a constructor, with relocation guidance
	d := decl.Decl{
		Name:     "new",
		NameSpan: sp(10, 13),
		Markers:  []decl.Marker{marker(decl.MarkerNew, 0, 5), textSig()},
	}
	_, bag := checkOne(t, d)
	wantErrors(t, bag, errAt(diag.ShapeTextSigConstructor, sp(6, 9)))
	if msg := bag.Items()[0].Message; !strings.Contains(msg, "type definition") {
		t.Fatalf("message = %q, want relocation guidance", msg)
	}

	// forbidden on property-style roles, with role-specific wording
	propCases := []struct {
		kind decl.MarkerKind
		recv bool
		word string
	}{
		{decl.MarkerGetter, true, "getter"},
		{decl.MarkerSetter, true, "setter"},
		{decl.MarkerClassAttr, false, "class attribute"},
	}
	for _, tc := range propCases {
		d := decl.Decl{
			Name:     "x",
			NameSpan: sp(10, 11),
			Markers:  []decl.Marker{marker(tc.kind, 0, 5), textSig()},
		}
		if tc.recv {
			d.Receiver = refRecv(12, 17)
		}
		if tc.kind == decl.MarkerSetter {
			d.Params = []decl.Param{param("v", "i32", 19, 25)}
		}
		_, bag := checkOne(t, d)
		wantErrors(t, bag, errAt(diag.ShapeTextSigProperty, sp(6, 9)))
		if msg := bag.Items()[0].Message; !strings.Contains(msg, tc.word) {
			t.Errorf("%v: message = %q, want %q named", tc.kind, msg, tc.word)
		}
	}

	// allowed on call-style roles
	allowed := []struct {
		kind decl.MarkerKind
		recv bool
	}{
		{decl.MarkerStaticMethod, false},
		{decl.MarkerClassMethod, false},
		{decl.MarkerCall, true},
	}
	for _, tc := range allowed {
		d := decl.Decl{
			Name:     "f",
			NameSpan: sp(10, 11),
			Markers:  []decl.Marker{marker(tc.kind, 0, 5), textSig()},
		}
		if tc.recv {
			d.Receiver = refRecv(12, 17)
		}
		desc, bag := checkOne(t, d)
		if bag.Len() != 0 || desc == nil {
			t.Errorf("%v: text_signature wrongly rejected: %+v", tc.kind, bag.Items())
		}
	}

	// allowed on a plain instance method
	d = decl.Decl{
		Name:     "f",
		NameSpan: sp(10, 11),
		Receiver: refRecv(12, 17),
		Markers:  []decl.Marker{textSig()},
	}
	desc, bag := checkOne(t, d)
	if bag.Len() != 0 || !desc.HasTextSig {
		t.Fatalf("instance text_signature: %+v", bag.Items())
	}
}

func TestNameOverrideValidation(t *testing.T) {
	mk := func(value string) decl.Decl {
		return decl.Decl{
			Name:     "f",
			NameSpan: sp(10, 11),
			Receiver: refRecv(12, 17),
			Markers:  []decl.Marker{markerValue(decl.MarkerName, value, 0, 5)},
		}
	}

	desc, bag := checkOne(t, mk("renamed"))
	if bag.Len() != 0 || desc.PyName != "renamed" {
		t.Fatalf("valid override rejected: %+v", bag.Items())
	}

	for _, bad := range []string{"", "1abc", "has space", "has-dash"} {
		_, bag := checkOne(t, mk(bad))
		wantErrors(t, bag, errAt(diag.MetaBadNameOverride, sp(0, 5)))
	}

	// reserved dunder names need the dedicated marker
	for _, reserved := range []string{"__new__", "__call__"} {
		_, bag := checkOne(t, mk(reserved))
		wantErrors(t, bag, errAt(diag.MetaReservedName, sp(0, 5)))
	}

	// roles with a fixed special name cannot be renamed
	d := decl.Decl{
		Name:     "create",
		NameSpan: sp(10, 16),
		Markers: []decl.Marker{
			marker(decl.MarkerNew, 0, 2),
			markerValue(decl.MarkerName, "make", 3, 5),
		},
	}
	_, bag = checkOne(t, d)
	wantErrors(t, bag, errAt(diag.MetaReservedName, sp(3, 5)))
}

func TestIndependentViolationsAggregateInFieldOrder(t *testing.T) {
	// receiver check fires before parameter checks, before generics,
	// before auxiliary options
	p := param("foo", "i32", 30, 38)
	d := decl.Decl{
		Name:     "attr",
		NameSpan: sp(10, 14),
		Receiver: refRecv(15, 20),
		Markers: []decl.Marker{
			marker(decl.MarkerClassAttr, 0, 2),
			markerValue(decl.MarkerTextSignature, "()", 3, 5),
		},
		Params:   []decl.Param{p},
		Generics: []decl.GenericParam{{Name: "T", Span: sp(25, 26)}},
	}
	_, bag := checkOne(t, d)
	wantErrors(t, bag,
		errAt(diag.ShapeUnexpectedReceiver, sp(15, 20)),
		errAt(diag.ShapeClassAttrArgs, sp(30, 38)),
		errAt(diag.ShapeGenericParams, sp(25, 26)),
		errAt(diag.ShapeTextSigProperty, sp(3, 5)),
	)
}

func TestValidationIsIdempotent(t *testing.T) {
	d := decl.Decl{
		Name:     "attr",
		NameSpan: sp(10, 14),
		Receiver: refRecv(15, 20),
		Markers:  []decl.Marker{marker(decl.MarkerClassAttr, 0, 2)},
		Params:   []decl.Param{param("foo", "i32", 30, 38)},
	}

	run := func() []diag.Diagnostic {
		bag := diag.NewBag(32)
		CheckDecl(&d, diag.BagReporter{Bag: bag})
		return bag.Items()
	}

	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("runs disagree: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Code != second[i].Code ||
			first[i].Primary != second[i].Primary ||
			first[i].Message != second[i].Message {
			t.Fatalf("diag %d differs between runs", i)
		}
	}
}
