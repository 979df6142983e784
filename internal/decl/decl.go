// Package decl holds the in-memory model of annotated function declarations
// as delivered by the syntax front end. Batches arrive as JSON dumps with
// byte-offset spans into the original source file; this package only decodes
// them, it performs no validation beyond structural well-formedness.
//
// Values are immutable once constructed: the classifier and validator
// derive judgments from a Decl but never write back into it.
package decl

import (
	"pybridge/internal/source"
)

// ReceiverKind describes the self-parameter shape of a declaration.
type ReceiverKind uint8

const (
	RecvNone ReceiverKind = iota
	RecvRef                // &self
	RecvMutRef             // &mut self
	RecvValue              // self
)

func (k ReceiverKind) String() string {
	switch k {
	case RecvNone:
		return "none"
	case RecvRef:
		return "ref"
	case RecvMutRef:
		return "mut_ref"
	case RecvValue:
		return "value"
	}
	return "unknown"
}

// Receiver is the declaration's self parameter, if any.
type Receiver struct {
	Kind ReceiverKind
	Span source.Span
}

// Present reports whether the declaration has a receiver at all.
func (r Receiver) Present() bool {
	return r.Kind != RecvNone
}

// Param is one ordinary (non-receiver) parameter.
type Param struct {
	Name       string
	Type       string // type text as written, e.g. "f64" or "impl Display"
	HasDefault bool
	Opaque     bool // impl-trait style opaque existential type
	Span       source.Span
	TypeSpan   source.Span
}

// GenericParam is one generic type parameter. Valid input has none; each
// keeps its own span so the validator can anchor the rejection precisely.
type GenericParam struct {
	Name string
	Span source.Span
}

// Decl is one function-like item under validation.
type Decl struct {
	Name     string
	NameSpan source.Span
	Receiver Receiver
	Params   []Param
	Generics []GenericParam
	Markers  []Marker
	Span     source.Span
}

// Batch is one front-end dump: every annotated declaration of a single
// type definition, plus the source file the spans point into.
type Batch struct {
	Type   string // name of the enclosing type definition
	Source string // path of the original source file
	File   source.FileID
	Decls  []Decl
}
