package schema

// inferOptionality derives a field's wire-side presence from its native
// declaration when the wire struct is not inspectable and no override
// was given. The chain, first match wins:
//
//  1. slices and maps (possibly behind one pointer) are repeated
//  2. pointers are optional
//  3. an expect or default directive implies the wire side can be
//     absent, so optional
//  4. everything else is required
//
// A pointer to a pointer has no readable presence semantics; the
// caller reports it and asks for an explicit override.
func inferOptionality(fs *FieldSchema) (WireOptionality, bool) {
	ref := fs.Type

	if ref.Kind == RefKindPointer {
		switch ref.Elem.Kind {
		case RefKindSlice, RefKindMap:
			return OptionalityRepeated, true
		case RefKindPointer:
			return OptionalityUnknown, false
		}
	}

	switch {
	case ref.IsShape(RefKindSlice, RefKindMap):
		return OptionalityRepeated, true

	case ref.Kind == RefKindPointer:
		return OptionalityOptional, true

	case fs.Directives.Expect != ExpectNone || fs.Directives.WantsDefault():
		return OptionalityOptional, true

	default:
		return OptionalityRequired, true
	}
}
