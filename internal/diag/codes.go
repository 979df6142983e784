package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Marker resolution (conflicting / duplicated / malformed markers)
	MetaInfo            Code = 1000
	MetaMarkerConflict  Code = 1001
	MetaDuplicateMarker Code = 1002
	MetaUnknownMarker   Code = 1003
	MetaBadNameOverride Code = 1004
	MetaReservedName    Code = 1005

	// Role classification
	RoleInfo          Code = 2000
	RoleMissingStatic Code = 2001

	// Shape validation
	ShapeInfo               Code = 3000
	ShapeUnexpectedReceiver Code = 3001
	ShapeMissingReceiver    Code = 3002
	ShapeClassAttrArgs      Code = 3003
	ShapeGetterArgs         Code = 3004
	ShapeSetterArity        Code = 3005
	ShapeGenericParams      Code = 3010
	ShapeOpaqueParam        Code = 3011
	ShapeTextSigConstructor Code = 3020
	ShapeTextSigProperty    Code = 3021

	// IO / batch decoding
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002

	// Project / manifest
	ProjInfo          Code = 5000
	ProjManifestError Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	MetaInfo:                "Marker information",
	MetaMarkerConflict:      "Conflicting method-type markers",
	MetaDuplicateMarker:     "Duplicated marker",
	MetaUnknownMarker:       "Unknown marker",
	MetaBadNameOverride:     "Invalid exposed name",
	MetaReservedName:        "Reserved exposed name",
	RoleInfo:                "Classification information",
	RoleMissingStatic:       "Missing static-method marker",
	ShapeInfo:               "Shape information",
	ShapeUnexpectedReceiver: "Unexpected receiver",
	ShapeMissingReceiver:    "Missing receiver",
	ShapeClassAttrArgs:      "Class attribute method takes arguments",
	ShapeGetterArgs:         "Getter method takes arguments",
	ShapeSetterArity:        "Wrong setter arity",
	ShapeGenericParams:      "Generic type parameters not supported",
	ShapeOpaqueParam:        "Opaque parameter type not supported",
	ShapeTextSigConstructor: "text_signature not allowed on a constructor",
	ShapeTextSigProperty:    "text_signature not allowed on property-style methods",
	IOInfo:                  "IO information",
	IOLoadFileError:         "Failed to load file",
	IODecodeError:           "Failed to decode declaration batch",
	ProjInfo:                "Project information",
	ProjManifestError:       "Invalid project manifest",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MET%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("ROL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SHP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
