package classify

import (
	"pybridge/internal/decl"
	"pybridge/internal/diag"
	"pybridge/internal/source"
)

// errTracker forwards to the underlying reporter and remembers whether an
// error-severity diagnostic passed through. CheckDecl uses it to withhold
// the descriptor once anything failed, without coupling phases to Bag.
type errTracker struct {
	r       diag.Reporter
	errored bool
}

func (t *errTracker) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	if sev >= diag.SevError {
		t.errored = true
	}
	if t.r != nil {
		t.r.Report(code, sev, primary, msg, notes, fixes)
	}
}

// CheckDecl runs the full pipeline for one declaration: marker resolution,
// role classification, shape validation. It returns the validated
// descriptor, or nil with ok=false when any diagnostic of error severity
// was reported.
//
// Sequencing: a marker conflict leaves the role undetermined and a failed
// classification leaves no role at all; in both cases the role-dependent
// shape checks are skipped. Every other violation is independent and
// aggregates; a declaration with a forbidden receiver and forbidden
// generics reports both.
func CheckDecl(d *decl.Decl, r diag.Reporter) (*Descriptor, bool) {
	t := &errTracker{r: r}

	res, roleOK := resolveMarkers(d, t)
	if !roleOK {
		return nil, false
	}

	role, ok := classifyRole(d, res, t)
	if !ok {
		return nil, false
	}

	validateShape(d, role, res, t)
	if t.errored {
		return nil, false
	}
	return newDescriptor(d, res, role), true
}

// CheckBatch validates all declarations of one batch in source order,
// reporting every diagnostic into bag. Failures never short-circuit the
// batch: declaration N+1 is validated no matter what happened to N. The
// returned descriptors cover exactly the declarations that passed.
func CheckBatch(batch *decl.Batch, bag *diag.Bag) []*Descriptor {
	descs := make([]*Descriptor, 0, len(batch.Decls))
	r := diag.BagReporter{Bag: bag}
	for i := range batch.Decls {
		if desc, ok := CheckDecl(&batch.Decls[i], r); ok {
			descs = append(descs, desc)
		}
	}
	return descs
}
