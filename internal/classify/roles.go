package classify

import "pybridge/internal/decl"

// Role is the closed set of exposed-method kinds. Every declaration that
// survives validation carries exactly one Role; switches over it are kept
// exhaustive so a new role forces every role-dependent table to be revisited.
type Role uint8

const (
	RoleInstance Role = iota
	RoleStatic
	RoleClass
	RoleClassAttr
	RoleGetter
	RoleSetter
	RoleNew
	RoleCall
)

func (r Role) String() string {
	switch r {
	case RoleInstance:
		return "instance method"
	case RoleStatic:
		return "static method"
	case RoleClass:
		return "class method"
	case RoleClassAttr:
		return "class attribute"
	case RoleGetter:
		return "getter"
	case RoleSetter:
		return "setter"
	case RoleNew:
		return "constructor"
	case RoleCall:
		return "call method"
	}
	return "unknown"
}

// SpecialName returns the fixed runtime-side name for roles that have one
// ("" for roles whose exposed name is author-controlled).
func (r Role) SpecialName() string {
	switch r {
	case RoleNew:
		return "__new__"
	case RoleCall:
		return "__call__"
	}
	return ""
}

// needsReceiver reports whether the role requires a self receiver.
func (r Role) needsReceiver() bool {
	switch r {
	case RoleInstance, RoleGetter, RoleSetter, RoleCall:
		return true
	}
	return false
}

// roleForMarker maps a role-selecting marker onto its Role.
func roleForMarker(k decl.MarkerKind) (Role, bool) {
	switch k {
	case decl.MarkerStaticMethod:
		return RoleStatic, true
	case decl.MarkerClassMethod:
		return RoleClass, true
	case decl.MarkerClassAttr:
		return RoleClassAttr, true
	case decl.MarkerGetter:
		return RoleGetter, true
	case decl.MarkerSetter:
		return RoleSetter, true
	case decl.MarkerNew:
		return RoleNew, true
	case decl.MarkerCall:
		return RoleCall, true
	}
	return 0, false
}
