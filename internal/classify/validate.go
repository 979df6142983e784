package classify

import (
	"fmt"

	"pybridge/internal/decl"
	"pybridge/internal/diag"
)

// validateShape runs every role-dependent and cross-cutting structural rule
// for one declaration. It never stops at the first violation: each
// independent rule reports on its own, in the fixed field order
// receiver → parameters → generics → auxiliary options, so the resulting
// diagnostics are byte-for-byte reproducible.
func validateShape(d *decl.Decl, role Role, res Resolved, r diag.Reporter) {
	validateReceiver(d, role, r)
	validateParams(d, role, r)
	validateGenerics(d, r)
	validateOptions(d, role, res, r)
}

func validateReceiver(d *decl.Decl, role Role, r diag.Reporter) {
	if role.needsReceiver() {
		if !d.Receiver.Present() {
			diag.ReportError(r, diag.ShapeMissingReceiver, d.NameSpan,
				fmt.Sprintf("expected receiver for %s", role)).Emit()
		}
		return
	}
	if d.Receiver.Present() {
		diag.ReportError(r, diag.ShapeUnexpectedReceiver, d.Receiver.Span,
			"unexpected receiver").
			WithNote(d.NameSpan,
				fmt.Sprintf("a %s is called without an instance", role)).
			Emit()
	}
}

func validateParams(d *decl.Decl, role Role, r diag.Reporter) {
	switch role {
	case RoleClassAttr:
		// one report per declaration, anchored at the first parameter
		if len(d.Params) > 0 {
			diag.ReportError(r, diag.ShapeClassAttrArgs, d.Params[0].Span,
				"class attribute methods cannot take arguments").Emit()
		}
	case RoleGetter:
		if len(d.Params) > 0 {
			diag.ReportError(r, diag.ShapeGetterArgs, d.Params[0].Span,
				"getter methods cannot take arguments").Emit()
		}
	case RoleSetter:
		switch {
		case len(d.Params) == 0:
			diag.ReportError(r, diag.ShapeSetterArity, d.NameSpan,
				"setter methods must take exactly one argument").Emit()
		case len(d.Params) > 1:
			diag.ReportError(r, diag.ShapeSetterArity, d.Params[1].Span,
				"setter methods must take exactly one argument").Emit()
		}
	case RoleInstance, RoleStatic, RoleClass, RoleNew, RoleCall:
		// any arity
	}

	// Opaque existential types are rejected per occurrence: the bridge
	// generator needs one concrete exposed signature per parameter.
	for i := range d.Params {
		if d.Params[i].Opaque {
			diag.ReportError(r, diag.ShapeOpaqueParam, d.Params[i].TypeSpan,
				"exposed methods cannot take `impl Trait` arguments").Emit()
		}
	}
}

func validateGenerics(d *decl.Decl, r diag.Reporter) {
	if len(d.Generics) == 0 {
		return
	}
	diag.ReportError(r, diag.ShapeGenericParams, d.Generics[0].Span,
		"generic type parameters are not supported").Emit()
}

func validateOptions(d *decl.Decl, role Role, res Resolved, r diag.Reporter) {
	if res.TextSig != nil {
		switch role {
		case RoleNew:
			diag.ReportError(r, diag.ShapeTextSigConstructor, res.TextSig.Span,
				"text_signature not allowed on a constructor; put it on the type definition instead").Emit()
		case RoleGetter, RoleSetter, RoleClassAttr:
			diag.ReportError(r, diag.ShapeTextSigProperty, res.TextSig.Span,
				fmt.Sprintf("text_signature not allowed on a %s", role)).Emit()
		case RoleInstance, RoleStatic, RoleClass, RoleCall:
			// a single call-style entry point with an author-controlled
			// signature; the option is meaningful here
		}
	}

	if res.Name != nil {
		validateNameOverride(d, role, res.Name, r)
	}
}
