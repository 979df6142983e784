package classify

import (
	"strings"

	"pybridge/internal/decl"
)

// Descriptor is the role-tagged method record handed to the bridge
// generator for every declaration that passed validation.
type Descriptor struct {
	// GoName is the declaration's own name in the host source.
	GoName string
	// PyName is the name the method is exposed under at runtime, after
	// applying overrides, special-role names and property-prefix stripping.
	PyName string
	Role   Role

	Receiver decl.ReceiverKind
	Params   []decl.Param

	TextSignature string
	HasTextSig    bool
}

// Arity returns the number of ordinary (non-receiver) parameters.
func (d *Descriptor) Arity() int {
	return len(d.Params)
}

func newDescriptor(d *decl.Decl, res Resolved, role Role) *Descriptor {
	out := &Descriptor{
		GoName:   d.Name,
		PyName:   exposedName(d, res, role),
		Role:     role,
		Receiver: d.Receiver.Kind,
		Params:   d.Params,
	}
	if res.TextSig != nil {
		out.TextSignature = res.TextSig.Value
		out.HasTextSig = true
	}
	return out
}

// exposedName picks the runtime-side name: an explicit override wins, roles
// with a fixed special name use it, and property accessors drop their
// conventional get_/set_ prefix the way the original runtime binding does.
func exposedName(d *decl.Decl, res Resolved, role Role) string {
	if res.Name != nil {
		return normalizedName(res.Name.Value)
	}
	if special := role.SpecialName(); special != "" {
		return special
	}
	switch role {
	case RoleGetter:
		return strings.TrimPrefix(d.Name, "get_")
	case RoleSetter:
		return strings.TrimPrefix(d.Name, "set_")
	}
	return d.Name
}
