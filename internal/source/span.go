package source

import (
	"fmt"
)

// Span identifies a contiguous byte range inside one file. Validation code
// treats it as an opaque anchor: it is produced by the declaration front end
// and only resolved to line/column when a diagnostic is rendered.
type Span struct {
	File  FileID
	Start uint32 // байтовое смещение, включительно
	End   uint32 // не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends the span to include other. Spans from different files are
// returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Before reports whether s starts strictly before other, breaking ties by
// end offset. Used to keep diagnostic output in source order.
func (s Span) Before(other Span) bool {
	if s.File != other.File {
		return s.File < other.File
	}
	if s.Start != other.Start {
		return s.Start < other.Start
	}
	return s.End < other.End
}
