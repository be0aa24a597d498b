package classify

import (
	"protobridge-generator/internal/schema"
	"protobridge-generator/primitive"
)

// Config holds the two configured facts classification depends on.
type Config struct {
	// PrimitiveNames is the set of type names treated as primitives.
	PrimitiveNames []string
	// WirePackage is the package path wire types originate from.
	WirePackage string
}

// DefaultConfig returns a config with the built-in primitive set.
func DefaultConfig() Config {
	return Config{PrimitiveNames: primitive.DefaultNames()}
}

// Classifier categorizes native type references. Classification is a
// pure function of the reference shape, this configuration, and the
// registry contents at call time; it is total and always yields one
// of the seven classes.
type Classifier struct {
	primitives map[string]struct{}
	wirePkg    string
}

// New creates a Classifier from a config.
func New(cfg Config) *Classifier {
	c := &Classifier{
		primitives: make(map[string]struct{}, len(cfg.PrimitiveNames)),
		wirePkg:    cfg.WirePackage,
	}
	for _, name := range cfg.PrimitiveNames {
		c.primitives[name] = struct{}{}
	}

	return c
}

// Classify applies the classification rules in fixed order:
// primitive name, nullable wrapper, sequence, associative map, wire
// origin, registered enum, custom fallback.
func (c *Classifier) Classify(ref schema.TypeRef, reg *Registry) Classification {
	if ref.IsShape(schema.RefKindBasic, schema.RefKindNamed) {
		if _, ok := c.primitives[ref.CanonicalName()]; ok {
			return Classification{Class: ClassPrimitive, Ref: ref}
		}
	}

	switch ref.Kind {
	case schema.RefKindPointer:
		inner := c.Classify(*ref.Elem, reg)
		return Classification{Class: ClassNullable, Ref: ref, Inner: &inner}

	case schema.RefKindSlice:
		inner := c.Classify(*ref.Elem, reg)
		return Classification{Class: ClassSequence, Ref: ref, Inner: &inner}

	case schema.RefKindMap:
		key := c.Classify(*ref.Key, reg)
		inner := c.Classify(*ref.Elem, reg)
		return Classification{Class: ClassMap, Ref: ref, Key: &key, Inner: &inner}
	}

	if ref.Kind == schema.RefKindNamed && ref.PkgPath != "" && ref.PkgPath == c.wirePkg {
		return Classification{Class: ClassWire, Ref: ref}
	}

	if ref.Kind == schema.RefKindNamed && reg.Has(ref.Name) {
		return Classification{Class: ClassEnum, Ref: ref}
	}

	return Classification{Class: ClassCustom, Ref: ref}
}
