package emit

import (
	"strings"

	"protobridge-generator/internal/common"
	"protobridge-generator/internal/schema"
)

// qualify records an import and returns the name generated code
// references the package by. An empty name falls back to the
// path-derived default.
func (c *genCtx) qualify(path, name string) string {
	if name == "" {
		name = common.PkgAlias(path)
	}

	spec := importSpec{Path: path}
	if name != common.PkgAlias(path) {
		spec.Alias = name
	}
	c.imports[path] = spec

	return name
}

// wireQual imports the struct's wire package and returns its binding
// name.
func (c *genCtx) wireQual() string {
	return c.qualify(c.sp.Schema.WirePkg, c.sp.Schema.WirePkgName)
}

// typeString renders a type reference as the generated file spells it:
// native-package names bare, imported names qualified, with the import
// recorded as a side effect.
func (c *genCtx) typeString(r schema.TypeRef) string {
	switch r.Kind {
	case schema.RefKindPointer:
		return "*" + c.typeString(*r.Elem)
	case schema.RefKindSlice:
		return "[]" + c.typeString(*r.Elem)
	case schema.RefKindMap:
		return "map[" + c.typeString(*r.Key) + "]" + c.typeString(*r.Elem)
	case schema.RefKindNamed:
		switch r.PkgPath {
		case "", c.syn.plan.Bundle.NativePath:
			return r.Name
		case c.sp.Schema.WirePkg:
			return c.wireQual() + "." + r.Name
		default:
			return c.qualify(r.PkgPath, "") + "." + r.Name
		}
	default:
		return r.Name
	}
}

// callRef renders a directive function reference. Qualified references
// (pkg.Fn) resolve their package against the bundle's import table so
// the generated file imports it; unqualified references are local.
func (c *genCtx) callRef(ref string) string {
	alias, _, found := strings.Cut(ref, ".")
	if !found {
		return ref
	}

	if path, ok := c.syn.plan.Bundle.Imports[alias]; ok {
		c.qualify(path, alias)
	}

	return ref
}

// wireRef is the wire field's declared type, mirrored from the native
// type when the wire struct could not be inspected.
func (c *genCtx) wireRef(f *schema.FieldSchema) schema.TypeRef {
	if f.WireType != nil {
		return *f.WireType
	}

	return c.mirrorWire(f.Type)
}

// wireBase is the wire field's value type behind optionality.
func (c *genCtx) wireBase(f *schema.FieldSchema) schema.TypeRef {
	ref := c.wireRef(f)
	if f.Wire == schema.OptionalityOptional && ref.Kind == schema.RefKindPointer {
		return *ref.Elem
	}

	return ref
}

// wireColl is the wire-side collection type for a field, with an
// optional outer pointer unwrapped.
func (c *genCtx) wireColl(f *schema.FieldSchema) schema.TypeRef {
	ref := c.wireRef(f)
	if ref.Kind == schema.RefKindPointer && ref.Elem != nil {
		ref = *ref.Elem
	}

	return ref
}

// mirrorWire guesses the wire-side type for a native reference: named
// types swap into the wire package, everything else carries over. Used
// only when the wire struct was not loadable, after the loader has
// already warned about it.
func (c *genCtx) mirrorWire(r schema.TypeRef) schema.TypeRef {
	switch r.Kind {
	case schema.RefKindPointer, schema.RefKindSlice:
		elem := c.mirrorWire(*r.Elem)
		return schema.TypeRef{Kind: r.Kind, Elem: &elem}
	case schema.RefKindMap:
		key := c.mirrorWire(*r.Key)
		elem := c.mirrorWire(*r.Elem)
		return schema.TypeRef{Kind: r.Kind, Key: &key, Elem: &elem}
	case schema.RefKindNamed:
		return schema.TypeRef{Kind: schema.RefKindNamed, Name: r.Name, PkgPath: c.sp.Schema.WirePkg}
	default:
		return r
	}
}

// localType reports whether a reference names a type in the native
// package, where generated bridge functions live.
func (c *genCtx) localType(ref schema.TypeRef) bool {
	return ref.Kind == schema.RefKindNamed &&
		(ref.PkgPath == "" || ref.PkgPath == c.syn.plan.Bundle.NativePath)
}

// fallibleRef reports whether the wire→native bridge function for a
// named type returns an error. External types are assumed infallible.
func (c *genCtx) fallibleRef(ref schema.TypeRef) bool {
	return c.localType(ref) && c.syn.fallible[ref.Name]
}

// zeroCheck returns the presence tests for a required wire value under
// a default directive. Only basic scalars have a usable zero test;
// bool is excluded because false is indistinguishable from absent.
func zeroCheck(src string, ref schema.TypeRef) (present, absent string, ok bool) {
	if ref.Kind != schema.RefKindBasic {
		return "", "", false
	}

	switch ref.Name {
	case "string":
		return src + ` != ""`, src + ` == ""`, true
	case "bool":
		return "", "", false
	default:
		return src + " != 0", src + " == 0", true
	}
}

// localName derives a scratch variable name from a field name. The
// suffix keeps it clear of the parameter, result, and builtin names.
func localName(name string) string {
	return strings.ToLower(name[:1]) + name[1:] + "Val"
}
