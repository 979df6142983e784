package classify

import (
	"pybridge/internal/decl"
	"pybridge/internal/diag"
)

// reservedConstructorName is the conventional name that lets a bare
// receiver-less, argument-less declaration classify as a constructor
// without an explicit marker.
const reservedConstructorName = "new"

// classifyRole determines the single MethodRole of a declaration.
//
// An explicit role-selecting marker is authoritative. Without one, only two
// shapes are unambiguous: the conventional constructor hook, and a
// declaration with a receiver (an instance method). A receiver-less
// declaration is structurally compatible with several roles, so it is
// rejected instead of silently classified as static; author intent has to
// be declared.
func classifyRole(d *decl.Decl, res Resolved, r diag.Reporter) (Role, bool) {
	if res.RoleMarker != nil {
		role, ok := roleForMarker(res.RoleMarker.Kind)
		if ok {
			return role, true
		}
	}

	if !d.Receiver.Present() && len(d.Params) == 0 && d.Name == reservedConstructorName {
		return RoleNew, true
	}

	if d.Receiver.Present() {
		return RoleInstance, true
	}

	diag.ReportError(r, diag.RoleMissingStatic, d.NameSpan,
		"static method needs the \"staticmethod\" marker").
		WithNote(d.NameSpan,
			"a method without a receiver could be a static method, a class attribute or a constructor; mark it explicitly").
		Emit()
	return 0, false
}
