// Package diag defines the core diagnostic model shared by all validation
// phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by marker resolution, role classification and shape
//     validation.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO, CLI integration, or
// interactive behaviour. Rendering responsibilities live in internal/diagfmt,
// whereas batch orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue. Always
//     the smallest relevant element (receiver, one parameter, one marker),
//     never the whole declaration when something narrower exists.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage. The
// shape validator constructs a ReportBuilder via ReportError and chains
// WithNote / WithFix before calling Emit. diag.BagReporter aggregates the
// result into a Bag, which supports merging and deterministic sorting.
//
// A Bag never deduplicates and never reorders on Add: N independent
// violations stay N entries, and batch-level determinism comes from
// Bag.Sort over (file, start, end, severity, code).
package diag
