package diag

import (
	"pybridge/internal/source"
)

// Note attaches a secondary span with its own message to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single text replacement of a fix suggestion.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix describes one possible automated correction, data-only.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one finding: a message anchored at a primary span, with
// optional secondary notes and fix suggestions. Instances are immutable
// value types; producers build them via New/ReportBuilder.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
