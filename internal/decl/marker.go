package decl

import "pybridge/internal/source"

// MarkerKind identifies one structured metadata marker attached to a
// declaration. Role-selecting kinds are mutually exclusive on one
// declaration; auxiliary kinds configure a role without selecting it.
type MarkerKind uint8

const (
	MarkerUnknown MarkerKind = iota

	// role-selecting
	MarkerStaticMethod
	MarkerClassMethod
	MarkerClassAttr
	MarkerGetter
	MarkerSetter
	MarkerNew
	MarkerCall

	// auxiliary
	MarkerName          // explicit exposed name ("name = \"...\"")
	MarkerTextSignature // signature documentation string
)

var markerNames = map[MarkerKind]string{
	MarkerUnknown:       "unknown",
	MarkerStaticMethod:  "staticmethod",
	MarkerClassMethod:   "classmethod",
	MarkerClassAttr:     "classattr",
	MarkerGetter:        "getter",
	MarkerSetter:        "setter",
	MarkerNew:           "new",
	MarkerCall:          "call",
	MarkerName:          "name",
	MarkerTextSignature: "text_signature",
}

func (k MarkerKind) String() string {
	if s, ok := markerNames[k]; ok {
		return s
	}
	return "unknown"
}

// RoleSelecting reports whether the marker picks the method role, as
// opposed to configuring it.
func (k MarkerKind) RoleSelecting() bool {
	switch k {
	case MarkerStaticMethod, MarkerClassMethod, MarkerClassAttr,
		MarkerGetter, MarkerSetter, MarkerNew, MarkerCall:
		return true
	}
	return false
}

// ParseMarkerKind maps the front end's marker name onto a MarkerKind.
// Unrecognized names map to MarkerUnknown; the resolver reports them with
// the marker's own span instead of failing the whole batch decode.
func ParseMarkerKind(name string) MarkerKind {
	for k, s := range markerNames {
		if k != MarkerUnknown && s == name {
			return k
		}
	}
	return MarkerUnknown
}

// Marker is one decoded metadata item in source order.
type Marker struct {
	Kind MarkerKind
	Raw  string // name as written, kept for unknown-marker messages
	// Value carries the option payload for auxiliary markers
	// (the override for "name", the signature text for "text_signature").
	Value string
	Span  source.Span
}
