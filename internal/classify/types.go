package classify

import (
	"protobridge-generator/internal/common"
	"protobridge-generator/internal/schema"
)

// Class is a type classification outcome. Every native type reference
// classifies to exactly one class; there is no error case.
type Class int

const (
	_ Class = iota // skip zero value so an unset Class is visibly invalid

	ClassPrimitive // configured primitive name (numeric widths, bool, string)
	ClassNullable  // single-argument nullable wrapper (pointer)
	ClassSequence  // homogeneous sequence (slice)
	ClassMap       // key/value associative wrapper
	ClassWire      // type originating from the configured wire package
	ClassEnum      // name present in the enum registry
	ClassCustom    // fallback: assumed to provide its own conversions
)

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassPrimitive:
		return "primitive"
	case ClassNullable:
		return "nullable"
	case ClassSequence:
		return "sequence"
	case ClassMap:
		return "map"
	case ClassWire:
		return "wire"
	case ClassEnum:
		return "enum"
	case ClassCustom:
		return "custom"
	default:
		return common.UnknownStr
	}
}

// Classification is the classifier's outcome for one type reference.
// Wrapper classes carry the recursively classified content.
type Classification struct {
	Class Class
	Ref   schema.TypeRef
	Inner *Classification // pointee, element, or map value
	Key   *Classification // map key
}

// String renders the classification tree for rationale and trace output.
func (c Classification) String() string {
	switch c.Class {
	case ClassNullable:
		return "nullable(" + c.Inner.String() + ")"
	case ClassSequence:
		return "sequence(" + c.Inner.String() + ")"
	case ClassMap:
		return "map(" + c.Key.String() + "," + c.Inner.String() + ")"
	default:
		return c.Class.String()
	}
}

// IsCollection reports whether the classification is a sequence or map,
// directly or behind one nullable wrapper.
func (c Classification) IsCollection() bool {
	if c.Class == ClassSequence || c.Class == ClassMap {
		return true
	}

	return c.Class == ClassNullable && c.Inner != nil &&
		(c.Inner.Class == ClassSequence || c.Inner.Class == ClassMap)
}
