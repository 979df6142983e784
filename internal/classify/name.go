package classify

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"pybridge/internal/decl"
	"pybridge/internal/diag"
)

// validateNameOverride checks the explicit exposed name. The runtime
// normalizes identifiers to NFKC the way CPython does, so the override is
// normalized first and then checked as an identifier. Roles with a fixed
// special name cannot be renamed at all.
func validateNameOverride(d *decl.Decl, role Role, m *decl.Marker, r diag.Reporter) {
	if special := role.SpecialName(); special != "" {
		diag.ReportError(r, diag.MetaReservedName, m.Span,
			fmt.Sprintf("name override not allowed on a %s; it is always exposed as \"%s\"", role, special)).Emit()
		return
	}

	name := norm.NFKC.String(m.Value)
	if !validIdentifier(name) {
		diag.ReportError(r, diag.MetaBadNameOverride, m.Span,
			fmt.Sprintf("\"%s\" is not a valid exposed name", m.Value)).Emit()
		return
	}

	if reservedSpecialName(name) {
		diag.ReportError(r, diag.MetaReservedName, m.Span,
			fmt.Sprintf("\"%s\" is reserved; use the dedicated marker instead", name)).Emit()
	}
}

// normalizedName returns the NFKC form of an exposed name.
func normalizedName(s string) string {
	return norm.NFKC.String(s)
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '_' || unicode.IsLetter(c) {
			continue
		}
		if i > 0 && unicode.IsDigit(c) {
			continue
		}
		return false
	}
	return true
}

func reservedSpecialName(s string) bool {
	switch s {
	case RoleNew.SpecialName(), RoleCall.SpecialName():
		return true
	}
	return false
}
