package classify

import (
	"fmt"

	"pybridge/internal/decl"
	"pybridge/internal/diag"
)

// Resolved is the outcome of collapsing a declaration's markers: at most one
// role-selecting marker plus the auxiliary option bag. Pointers reference
// the declaration's own marker slice; Resolved never copies or mutates.
type Resolved struct {
	RoleMarker *decl.Marker // nil when the role must be inferred
	Name       *decl.Marker // explicit exposed-name override
	TextSig    *decl.Marker // signature documentation string
}

// resolveMarkers scans the marker list once, in source order, keeping the
// first occurrence of every slot and reporting conflicts against it.
//
// A second role-selecting marker is fatal for the declaration: the role is
// no longer uniquely determined, so the caller must not run role-dependent
// checks. Duplicate auxiliary markers and unknown markers are reported but
// leave the resolution usable, so shape checks still run and aggregate.
func resolveMarkers(d *decl.Decl, r diag.Reporter) (res Resolved, roleOK bool) {
	roleOK = true
	for i := range d.Markers {
		m := &d.Markers[i]

		if m.Kind.RoleSelecting() {
			if res.RoleMarker == nil {
				res.RoleMarker = m
				continue
			}
			diag.ReportError(r, diag.MetaMarkerConflict, m.Span,
				"cannot specify a second method type").
				WithNote(res.RoleMarker.Span,
					fmt.Sprintf("method type already specified as \"%s\" here", res.RoleMarker.Kind)).
				Emit()
			return res, false
		}

		switch m.Kind {
		case decl.MarkerName:
			res.Name = keepFirst(res.Name, m, r)
		case decl.MarkerTextSignature:
			res.TextSig = keepFirst(res.TextSig, m, r)
		default: // decl.MarkerUnknown
			diag.ReportError(r, diag.MetaUnknownMarker, m.Span,
				fmt.Sprintf("unknown marker \"%s\"", m.Raw)).Emit()
		}
	}
	return res, roleOK
}

func keepFirst(slot *decl.Marker, m *decl.Marker, r diag.Reporter) *decl.Marker {
	if slot == nil {
		return m
	}
	diag.ReportError(r, diag.MetaDuplicateMarker, m.Span,
		fmt.Sprintf("marker \"%s\" specified twice", m.Kind)).
		WithNote(slot.Span, "first specified here").
		Emit()
	return slot
}
