package schema

import (
	"fmt"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"protobridge-generator/internal/common"
	"protobridge-generator/internal/diagnostic"
	"protobridge-generator/internal/match"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader loads the native and wire packages and builds declaration
// schemas from config entries, in configured order.
type Loader struct {
	cfg      *Config
	native   *packages.Package
	wirePkgs map[string]*packages.Package // keyed by config pattern
}

// NewLoader creates a Loader for one run configuration.
func NewLoader(cfg *Config) *Loader {
	return &Loader{
		cfg:      cfg,
		wirePkgs: make(map[string]*packages.Package),
	}
}

// Load loads all referenced packages and builds the declaration bundle.
// Unloadable packages fail the run; per-declaration problems become
// diagnostics and only exclude the offending declaration.
func (l *Loader) Load() (*Bundle, *diagnostic.Diagnostics, error) {
	d := &diagnostic.Diagnostics{}

	if err := l.loadPackages(); err != nil {
		return nil, d, err
	}

	bundle := &Bundle{
		NativePath: l.native.PkgPath,
		NativeName: l.native.Name,
		NativeDir:  l.nativeDir(),
		WirePath:   l.wirePath(),
		Imports:    l.importAliases(),
	}

	for _, entry := range l.cfg.Types {
		wirePkg := l.wirePkgs[entry.WirePackage]

		if entry.Enum {
			if enum := l.buildEnum(entry, wirePkg, d); enum != nil {
				bundle.Decls = append(bundle.Decls, Decl{Kind: DeclEnum, Enum: enum})
			}
			continue
		}

		if s := l.buildStruct(entry, wirePkg, d); s != nil {
			l.checkFuncRefs(s, d)
			if len(d.ErrorsFor(s.Name)) == 0 {
				bundle.Decls = append(bundle.Decls, Decl{Kind: DeclStruct, Struct: s})
			}
		}
	}

	return bundle, d, nil
}

// importAliases maps package names to import paths so generated files
// can resolve qualified directive references. The native package's own
// imports come first; config-listed paths win on alias collisions.
func (l *Loader) importAliases() map[string]string {
	out := make(map[string]string)
	for path, pkg := range l.native.Imports {
		out[pkg.Name] = path
	}
	for _, path := range l.cfg.Imports {
		out[common.PkgAlias(path)] = path
	}

	return out
}

// nativeDir is the directory of the native package's source files.
func (l *Loader) nativeDir() string {
	if first, ok := common.First(l.native.GoFiles); ok {
		return filepath.Dir(first)
	}

	return ""
}

// wirePath resolves the run-level wire pattern to its import path.
// When every type entry overrides the wire package, the first loaded
// one stands in.
func (l *Loader) wirePath() string {
	if pkg, ok := l.wirePkgs[l.cfg.Wire]; ok {
		return pkg.PkgPath
	}

	for _, entry := range l.cfg.Types {
		if pkg, ok := l.wirePkgs[entry.WirePackage]; ok {
			return pkg.PkgPath
		}
	}

	return ""
}

// loadPackages loads the native package and every distinct wire
// package the config references.
func (l *Loader) loadPackages() error {
	var err error

	l.native, err = loadOne(l.cfg.Native)
	if err != nil {
		return fmt.Errorf("native package: %w", err)
	}

	for _, entry := range l.cfg.Types {
		if _, ok := l.wirePkgs[entry.WirePackage]; ok {
			continue
		}

		pkg, err := loadOne(entry.WirePackage)
		if err != nil {
			return fmt.Errorf("wire package %s: %w", entry.WirePackage, err)
		}

		l.wirePkgs[entry.WirePackage] = pkg
	}

	return nil
}

// loadOne loads a single package by pattern.
func loadOne(pattern string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("pattern %q matched %d packages, want exactly one", pattern, len(pkgs))
	}

	return pkgs[0], nil
}

// buildStruct builds one StructSchema from a config entry. Returns nil
// when the entry cannot be built; the reasons are in the diagnostics.
func (l *Loader) buildStruct(entry TypeEntry, wirePkg *packages.Package, d *diagnostic.Diagnostics) *StructSchema {
	st := l.lookupStruct(entry.Name, d)
	if st == nil {
		return nil
	}

	s := &StructSchema{
		Name:        entry.Name,
		PkgPath:     l.native.PkgPath,
		PkgName:     l.native.Name,
		WireName:    entry.WireName,
		WirePkg:     wirePkg.PkgPath,
		WirePkgName: wirePkg.Name,
		ErrorType:   entry.ErrorType,
		ErrorFunc:   entry.ErrorFunc,
		IgnoreList:  entry.Ignore,
	}

	wireStruct := l.lookupWireStruct(entry.WireName, wirePkg)
	if wireStruct == nil {
		d.AddWarning("unknown_wire_type",
			fmt.Sprintf("wire type %s not found in %s, wire shapes will be inferred", entry.WireName, wirePkg.PkgPath),
			s.Name, "")
	}

	ok := true
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		fs, fieldOK := l.buildField(s, st, i, wireStruct, d)
		ok = ok && fieldOK
		if fieldOK {
			s.Fields = append(s.Fields, fs)
		}
	}

	if !ok {
		return nil
	}

	l.checkIgnoreList(s, wireStruct, d)

	return s
}

// checkIgnoreList warns about ignore-list names that match nothing on
// either side. Wire-only names are legitimate entries, they document
// wire fields left at their zero value; names matching nothing at all
// are probably typos.
func (l *Loader) checkIgnoreList(s *StructSchema, wireStruct *types.Struct, d *diagnostic.Diagnostics) {
	for _, name := range s.IgnoreList {
		if ignoreNameKnown(s, wireStruct, name) {
			continue
		}

		d.AddWarning("unknown_ignore_field",
			fmt.Sprintf("ignore list entry %s matches no native or wire field of %s", name, s.Name),
			s.Name, "")

		var candidates []string
		for _, f := range s.Fields {
			candidates = append(candidates, f.Name, f.WireName)
		}
		if wireStruct != nil {
			for i := 0; i < wireStruct.NumFields(); i++ {
				candidates = append(candidates, wireStruct.Field(i).Name())
			}
		}
		if sugg := match.Suggest(name, candidates); len(sugg) > 0 {
			d.Warnings[len(d.Warnings)-1].Suggestions = sugg
		}
	}
}

// ignoreNameKnown reports whether an ignore-list entry names a native
// field, a wire field, or anything when the wire struct could not be
// inspected (unknown shapes cannot be judged).
func ignoreNameKnown(s *StructSchema, wireStruct *types.Struct, name string) bool {
	for _, f := range s.Fields {
		if f.Name == name || f.WireName == name {
			return true
		}
	}

	if wireStruct == nil {
		return true
	}

	for i := 0; i < wireStruct.NumFields(); i++ {
		goName := wireStruct.Field(i).Name()
		if goName == name || common.ToSnakeCase(goName) == name {
			return true
		}
	}

	return false
}

// buildField builds one FieldSchema. The bool result is false when the
// field carries a configuration error that must abort the struct.
func (l *Loader) buildField(s *StructSchema, st *types.Struct, index int, wireStruct *types.Struct, d *diagnostic.Diagnostics) (FieldSchema, bool) {
	field := st.Field(index)

	fs := FieldSchema{
		Name: field.Name(),
		Type: typeRefOf(field.Type()),
	}

	tag := reflect.StructTag(st.Tag(index)).Get(TagKey)
	directives, err := ParseFieldTag(tag)
	if err != nil {
		d.AddError("bad_directive", err.Error(), s.Name, fs.Name)
		return fs, false
	}
	fs.Directives = directives

	if hasUnknownShape(fs.Type) {
		d.AddError("unsupported_field_type",
			fmt.Sprintf("type %s cannot cross the wire boundary", renderUnknown(fs.Type)),
			s.Name, fs.Name)
		return fs, false
	}

	fs.WireName = directives.WireName
	if fs.WireName == "" {
		fs.WireName = common.ToSnakeCase(fs.Name)
	}
	fs.WireGoName = common.ToGoName(fs.WireName)

	l.resolveWireSide(s, &fs, wireStruct, d)

	return fs, true
}

// resolveWireSide fills WireType and Wire from the wire struct's shape
// when available, falling back to the inference chain. Explicit
// overrides win over both.
func (l *Loader) resolveWireSide(s *StructSchema, fs *FieldSchema, wireStruct *types.Struct, d *diagnostic.Diagnostics) {
	if wireStruct != nil {
		if wf := findWireField(wireStruct, fs.WireGoName); wf != nil {
			ref := typeRefOf(wf.Type())
			fs.WireType = &ref
			fs.Wire = optionalityOfShape(ref)
		} else if !fs.Directives.Ignore && !s.Ignored(*fs) {
			d.AddWarning("unknown_wire_field",
				fmt.Sprintf("field %s not found in wire type %s", fs.WireGoName, s.WireName),
				s.Name, fs.Name,
			)
			l.suggestWireField(wireStruct, fs, d)
		}
	}

	switch {
	case fs.Directives.WireOptional && fs.Directives.WireRequired:
		// conflicting pair, the resolver reports it
	case fs.Directives.WireOptional:
		fs.Wire = OptionalityOptional
		return
	case fs.Directives.WireRequired:
		fs.Wire = OptionalityRequired
		return
	}

	if fs.Wire == OptionalityUnknown {
		inferred, ok := inferOptionality(fs)
		if !ok {
			d.AddError("ambiguous_optionality",
				fmt.Sprintf("cannot infer wire presence for %s.%s; add wire_optional or wire_required to the bridge tag",
					s.Name, fs.Name),
				s.Name, fs.Name)
			return
		}

		fs.Wire = inferred
		fs.Inferred = true
	}
}

// suggestWireField attaches a did-you-mean suggestion for a wire field
// name that resolved to nothing.
func (l *Loader) suggestWireField(wireStruct *types.Struct, fs *FieldSchema, d *diagnostic.Diagnostics) {
	var names []string
	for i := 0; i < wireStruct.NumFields(); i++ {
		names = append(names, wireStruct.Field(i).Name())
	}

	suggestions := match.Suggest(fs.WireGoName, names)
	if len(suggestions) == 0 {
		return
	}

	last := &d.Warnings[len(d.Warnings)-1]
	last.Suggestions = suggestions
}

// buildEnum builds one EnumSchema and pairs native constants with wire
// constants by name.
func (l *Loader) buildEnum(entry TypeEntry, wirePkg *packages.Package, d *diagnostic.Diagnostics) *EnumSchema {
	obj := l.native.Types.Scope().Lookup(entry.Name)
	if obj == nil {
		d.AddError("unknown_type",
			fmt.Sprintf("enum %s not found in %s", entry.Name, l.native.PkgPath),
			entry.Name, "")
		return nil
	}

	typeName, ok := obj.(*types.TypeName)
	if !ok {
		d.AddError("not_a_type", fmt.Sprintf("%s is not a type", entry.Name), entry.Name, "")
		return nil
	}

	basic, ok := typeName.Type().Underlying().(*types.Basic)
	if !ok || basic.Info()&types.IsInteger == 0 {
		d.AddError("not_an_enum",
			fmt.Sprintf("enum %s must be a named integer type", entry.Name),
			entry.Name, "")
		return nil
	}

	enum := &EnumSchema{
		Name:        entry.Name,
		PkgPath:     l.native.PkgPath,
		WireName:    entry.WireName,
		WirePkg:     wirePkg.PkgPath,
		WirePkgName: wirePkg.Name,
	}

	wireConsts := constsOfType(wirePkg.Types.Scope(), entry.WireName)
	if len(wireConsts) == 0 {
		d.AddWarning("unknown_wire_enum",
			fmt.Sprintf("no constants of wire enum %s found in %s, conversion falls back to numeric casts",
				entry.WireName, wirePkg.PkgPath),
			entry.Name, "")
	}

	for _, name := range constsOfType(l.native.Types.Scope(), entry.Name) {
		enum.Variants = append(enum.Variants, EnumVariant{
			NativeConst: name,
			WireConst:   matchWireConst(name, entry.Name, entry.WireName, wireConsts),
		})
	}

	if len(enum.Variants) == 0 {
		d.AddWarning("empty_enum",
			fmt.Sprintf("enum %s declares no constants", entry.Name),
			entry.Name, "")
	}

	return enum
}

// lookupStruct finds a named struct type in the native package.
func (l *Loader) lookupStruct(name string, d *diagnostic.Diagnostics) *types.Struct {
	scope := l.native.Types.Scope()

	obj := scope.Lookup(name)
	if obj == nil {
		diag := fmt.Sprintf("type %s not found in %s", name, l.native.PkgPath)
		d.AddError("unknown_type", diag, name, "")

		if sugg := match.Suggest(name, typeNames(scope)); len(sugg) > 0 {
			d.Errors[len(d.Errors)-1].Suggestions = sugg
		}
		return nil
	}

	typeName, ok := obj.(*types.TypeName)
	if !ok {
		d.AddError("not_a_type", fmt.Sprintf("%s is not a type", name), name, "")
		return nil
	}

	st, ok := typeName.Type().Underlying().(*types.Struct)
	if !ok {
		d.AddError("not_a_struct", fmt.Sprintf("%s is not a struct type", name), name, "")
		return nil
	}

	return st
}

// lookupWireStruct finds the wire struct by name, nil when absent.
func (l *Loader) lookupWireStruct(name string, wirePkg *packages.Package) *types.Struct {
	obj := wirePkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil
	}

	typeName, ok := obj.(*types.TypeName)
	if !ok {
		return nil
	}

	st, ok := typeName.Type().Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	return st
}

// findWireField returns the wire struct field with the given Go name.
func findWireField(st *types.Struct, goName string) *types.Var {
	for i := 0; i < st.NumFields(); i++ {
		if st.Field(i).Name() == goName {
			return st.Field(i)
		}
	}

	return nil
}

// typeRefOf converts a go/types type to the engine's shape model.
// Named types are leaves: the engine never descends into their
// structure, only their names and origins matter.
func typeRefOf(t types.Type) TypeRef {
	// types.Unalias requires go1.22; under go1.21 go/types never
	// materializes alias types, so t is already unaliased.
	switch tt := t.(type) {
	case *types.Basic:
		return TypeRef{Kind: RefKindBasic, Name: tt.Name()}

	case *types.Pointer:
		elem := typeRefOf(tt.Elem())
		return TypeRef{Kind: RefKindPointer, Elem: &elem}

	case *types.Slice:
		elem := typeRefOf(tt.Elem())
		return TypeRef{Kind: RefKindSlice, Elem: &elem}

	case *types.Map:
		key := typeRefOf(tt.Key())
		elem := typeRefOf(tt.Elem())
		return TypeRef{Kind: RefKindMap, Key: &key, Elem: &elem}

	case *types.Named:
		obj := tt.Obj()
		ref := TypeRef{Kind: RefKindNamed, Name: obj.Name()}
		if obj.Pkg() != nil {
			ref.PkgPath = obj.Pkg().Path()
		}
		return ref

	default:
		// Channels, functions, interfaces have no wire shape.
		return TypeRef{Kind: RefKindUnknown}
	}
}

// optionalityOfShape maps a wire field's declared shape to its
// presence semantics: pointers are optional, slices and maps are
// repeated, plain values are required.
func optionalityOfShape(ref TypeRef) WireOptionality {
	switch ref.Kind {
	case RefKindPointer:
		return OptionalityOptional
	case RefKindSlice, RefKindMap:
		return OptionalityRepeated
	default:
		return OptionalityRequired
	}
}

// hasUnknownShape reports whether the reference tree contains a shape
// the engine cannot convert.
func hasUnknownShape(ref TypeRef) bool {
	if ref.Kind == RefKindUnknown {
		return true
	}
	if ref.Elem != nil && hasUnknownShape(*ref.Elem) {
		return true
	}
	if ref.Key != nil && hasUnknownShape(*ref.Key) {
		return true
	}

	return false
}

// renderUnknown names the unsupported type in diagnostics, falling
// back to the empty-interface rendering.
func renderUnknown(ref TypeRef) string {
	if s := ref.String(); s != common.UnknownStr {
		return s
	}

	return common.InterfaceTypeStr
}

// typeNames lists the exported type names in a scope.
func typeNames(scope *types.Scope) []string {
	var names []string
	for _, name := range scope.Names() {
		if _, ok := scope.Lookup(name).(*types.TypeName); ok {
			names = append(names, name)
		}
	}

	return names
}

// constsOfType lists scope constants declared with the given named
// type, in scope order (alphabetical, deterministic).
func constsOfType(scope *types.Scope, typeName string) []string {
	obj := scope.Lookup(typeName)
	if obj == nil {
		return nil
	}

	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil
	}

	var names []string
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}
		if types.Identical(c.Type(), tn.Type()) {
			names = append(names, name)
		}
	}

	return names
}

// matchWireConst finds the wire constant corresponding to one native
// enum constant. Native constants conventionally prefix the type name
// ("StatusActive"); wire constants carry the schema compiler's
// spelling ("Status_ACTIVE", "Status_STATUS_ACTIVE", or bare
// "ACTIVE"). Matching is by the SCREAMING_SNAKE_CASE variant core.
func matchWireConst(nativeConst, enumName, wireEnumName string, wireConsts []string) string {
	variant := strings.TrimPrefix(nativeConst, enumName)
	if variant == "" {
		variant = nativeConst
	}

	screaming := common.ToScreamingSnakeCase(variant)
	prefixed := common.ToScreamingSnakeCase(enumName) + "_" + screaming

	for _, wc := range wireConsts {
		core := strings.TrimPrefix(wc, wireEnumName+"_")
		if core == screaming || core == prefixed || wc == screaming {
			return wc
		}
	}

	return ""
}
