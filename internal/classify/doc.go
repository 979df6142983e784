// Package classify is the method-signature classification and validation
// core: given the annotated declarations of one type definition, it
// determines which kind of exposed method each declaration is, verifies
// that the declaration's shape is legal for that kind, and reports precise,
// span-anchored diagnostics on violation.
//
// The pipeline for one declaration is strictly layered:
//
//	resolveMarkers -> classifyRole -> validateShape -> Descriptor
//
// Marker resolution collapses the attached markers into at most one
// role-selecting marker plus auxiliary options, failing on conflicts.
// Classification picks the single MethodRole, either from the explicit
// marker or by structural inference. Shape validation applies the
// role-dependent receiver/arity table and the cross-cutting rules
// (generics, opaque parameter types, option applicability) in a fixed
// field order, aggregating all independent violations.
//
// The package is purely functional over its input: declarations are never
// mutated, there is no IO, and validating the same batch twice produces
// byte-identical diagnostics. Batch-level concurrency therefore lives one
// layer up, in internal/driver.
package classify
