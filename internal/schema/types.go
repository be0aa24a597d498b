package schema

import (
	"strings"

	"protobridge-generator/internal/common"
)

// RefKind represents the shape of a declared type.
type RefKind int

const (
	RefKindUnknown RefKind = iota
	RefKindBasic           // int32, string, bool, etc.
	RefKindNamed           // named type (struct, enum, wrapper)
	RefKindPointer         // pointer to another type
	RefKindSlice           // slice of another type
	RefKindMap             // map from key type to value type
)

// String returns a human-readable representation of the RefKind.
func (k RefKind) String() string {
	switch k {
	case RefKindBasic:
		return "basic"
	case RefKindNamed:
		return "named"
	case RefKindPointer:
		return "pointer"
	case RefKindSlice:
		return "slice"
	case RefKindMap:
		return "map"
	default:
		return common.UnknownStr
	}
}

// TypeRef describes a declared type as the engine sees it: simple name,
// originating package, and shape with element references. It carries no
// go/types state so resolver tests can construct refs directly.
type TypeRef struct {
	Kind    RefKind
	Name    string   // simple name for basic and named types ("uint64", "TrackId")
	PkgPath string   // originating package path, empty for basics
	Elem    *TypeRef // pointee for pointers, element for slices, value for maps
	Key     *TypeRef // key type for maps
}

// String renders the reference in Go syntax with package-alias
// qualifiers, for diagnostics and trace output.
func (r TypeRef) String() string {
	switch r.Kind {
	case RefKindPointer:
		return "*" + r.Elem.String()
	case RefKindSlice:
		return "[]" + r.Elem.String()
	case RefKindMap:
		return "map[" + r.Key.String() + "]" + r.Elem.String()
	case RefKindNamed:
		if r.PkgPath != "" {
			return common.PkgAlias(r.PkgPath) + "." + r.Name
		}
		return r.Name
	case RefKindBasic:
		return r.Name
	default:
		return common.UnknownStr
	}
}

// CanonicalName returns the name the primitive table and classifier
// config match against: the bare name for basics and package-local
// named types, the alias-qualified name for imported ones
// ("time.Duration").
func (r TypeRef) CanonicalName() string {
	if r.Kind == RefKindNamed && r.PkgPath != "" {
		return common.PkgAlias(r.PkgPath) + "." + r.Name
	}

	return r.Name
}

// IsShape reports whether the reference has one of the given kinds.
func (r TypeRef) IsShape(kinds ...RefKind) bool {
	for _, k := range kinds {
		if r.Kind == k {
			return true
		}
	}

	return false
}

// WireOptionality describes how a field is represented on the wire side.
type WireOptionality int

const (
	OptionalityUnknown WireOptionality = iota
	OptionalityRequired
	OptionalityOptional
	OptionalityRepeated
)

// String returns a human-readable representation of the optionality.
func (o WireOptionality) String() string {
	switch o {
	case OptionalityRequired:
		return "required"
	case OptionalityOptional:
		return "optional"
	case OptionalityRepeated:
		return "repeated"
	default:
		return common.UnknownStr
	}
}

// ExpectMode is the three-way expect directive: absence of a wire value
// either panics, becomes an error, or is not special at all.
type ExpectMode int

const (
	ExpectNone ExpectMode = iota
	ExpectError
	ExpectPanic
)

// String returns a human-readable representation of the expect mode.
func (m ExpectMode) String() string {
	switch m {
	case ExpectNone:
		return "none"
	case ExpectError:
		return "error"
	case ExpectPanic:
		return "panic"
	default:
		return common.UnknownStr
	}
}

// FieldDirectives holds the parsed per-field directive surface.
type FieldDirectives struct {
	Ignore       bool
	FromFunc     string // wire→native conversion function reference
	ToFunc       string // native→wire conversion function reference
	Transparent  bool
	WireName     string // explicit wire field name (snake_case)
	WireOptional bool
	WireRequired bool
	Expect       ExpectMode
	ErrorFunc    string // error constructor reference for expect failures
	HasDefault   bool   // default directive present (bare or with a function)
	HasDefaultFn bool   // default_fn directive present
	DefaultFunc  string // function reference from default= or default_fn=
}

// WantsDefault reports whether any default directive was supplied.
func (d FieldDirectives) WantsDefault() bool {
	return d.HasDefault || d.HasDefaultFn
}

// HasCustomFunc reports whether at least one custom conversion function
// was supplied.
func (d FieldDirectives) HasCustomFunc() bool {
	return d.FromFunc != "" || d.ToFunc != ""
}

// FieldSchema is one native struct field as seen by the engine.
// Immutable once built by the loader.
type FieldSchema struct {
	Name       string  // native Go field name
	Type       TypeRef // declared native type
	WireName   string  // wire field name, renamed or derived (snake_case)
	WireGoName string  // exported Go name of the wire field
	// WireType is the wire field's declared type, nil when the wire
	// struct could not be inspected.
	WireType *TypeRef
	// Wire is the resolved wire-side presence. Inferred is true when it
	// came from the inference chain rather than the wire struct's shape
	// or an explicit override.
	Wire       WireOptionality
	Inferred   bool
	Directives FieldDirectives
}

// StructSchema is a native struct plus its struct-level directives,
// with fields in declaration order.
type StructSchema struct {
	Name    string
	PkgPath string
	PkgName string

	WireName    string // wire type name, renamed or same as Name
	WirePkg     string // wire package path, struct override or run default
	WirePkgName string

	Fields []FieldSchema

	// ErrorType is the struct-level custom error type name, empty when
	// conversion errors auto-generate a type instead.
	ErrorType string
	// ErrorFunc is the struct-level error constructor reference.
	ErrorFunc string

	// IgnoreList holds names from the struct-level ignore directive:
	// native fields listed here resolve to the ignore strategy, and
	// wire-only names are left at their zero value going native→wire.
	IgnoreList []string
}

// Ignored reports whether a field name (native or wire spelling) is in
// the struct-level ignore list. Matching is case-sensitive and exact.
func (s *StructSchema) Ignored(field FieldSchema) bool {
	for _, name := range s.IgnoreList {
		if name == field.Name || name == field.WireName {
			return true
		}
	}

	return false
}

// EnumVariant pairs a native enum constant with the wire constant it
// converts to. WireConst is empty when no wire constant matched by
// name, in which case conversion falls back to a numeric cast.
type EnumVariant struct {
	NativeConst string
	WireConst   string
}

// EnumSchema is a native enum declaration: a named integer type and its
// constants in declaration order.
type EnumSchema struct {
	Name        string
	PkgPath     string
	WireName    string
	WirePkg     string
	WirePkgName string
	Variants    []EnumVariant
}

// DeclKind distinguishes the two declaration forms a run processes.
type DeclKind int

const (
	DeclStruct DeclKind = iota
	DeclEnum
)

// Decl is one processed declaration. Bundle preserves the configured
// order so enum registration happens exactly where the declaration
// appears: a struct referencing an enum declared later in the run sees
// it as a plain custom type.
type Decl struct {
	Kind   DeclKind
	Struct *StructSchema
	Enum   *EnumSchema
}

// Bundle is the loader's output: all declarations in configured order,
// plus the resolved identity of the native package generated files
// belong to.
type Bundle struct {
	NativePath string
	NativeName string

	// NativeDir is the directory holding the native package's sources,
	// the default destination for generated files.
	NativeDir string

	// WirePath is the resolved import path of the run-level wire
	// package. Native type references into it classify as wire types.
	WirePath string

	Decls []Decl

	// Imports maps package aliases to import paths, harvested from the
	// native package's imports and the config's imports list. Generated
	// files resolve qualified directive references (pkg.Fn) against it.
	Imports map[string]string
}

// Structs returns the struct declarations in order.
func (b *Bundle) Structs() []*StructSchema {
	var out []*StructSchema
	for _, d := range b.Decls {
		if d.Kind == DeclStruct {
			out = append(out, d.Struct)
		}
	}

	return out
}

// Enums returns the enum declarations in order.
func (b *Bundle) Enums() []*EnumSchema {
	var out []*EnumSchema
	for _, d := range b.Decls {
		if d.Kind == DeclEnum {
			out = append(out, d.Enum)
		}
	}

	return out
}

// SplitIgnoreList parses a struct-level ignore directive value:
// comma-separated names, trimmed, case-sensitive, empties dropped.
func SplitIgnoreList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}

	return out
}
