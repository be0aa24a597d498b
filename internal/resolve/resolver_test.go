package resolve

import (
	"bytes"
	"fmt"
	"testing"

	"protobridge-generator/internal/classify"
	"protobridge-generator/internal/common"
	"protobridge-generator/internal/schema"
	"protobridge-generator/internal/trace"
)

const wirePkg = "example.com/app/catalogpb"

func named(name, pkg string) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindNamed, Name: name, PkgPath: pkg}
}

func basic(name string) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindBasic, Name: name}
}

func ptr(elem schema.TypeRef) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindPointer, Elem: &elem}
}

func sliceOf(elem schema.TypeRef) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindSlice, Elem: &elem}
}

func mapOf(key, elem schema.TypeRef) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindMap, Key: &key, Elem: &elem}
}

// field builds a FieldSchema the way the loader would, with the wire
// name derived from the native name.
func field(name string, typ schema.TypeRef, wire schema.WireOptionality, dirs schema.FieldDirectives) schema.FieldSchema {
	wireName := common.ToSnakeCase(name)

	return schema.FieldSchema{
		Name:       name,
		Type:       typ,
		WireName:   wireName,
		WireGoName: common.ToGoName(wireName),
		Wire:       wire,
		Directives: dirs,
	}
}

func wireTyped(fs schema.FieldSchema, ref schema.TypeRef) schema.FieldSchema {
	fs.WireType = &ref
	return fs
}

func structOf(name string, fields ...schema.FieldSchema) *schema.StructSchema {
	return &schema.StructSchema{
		Name:        name,
		PkgPath:     "example.com/app/catalog",
		PkgName:     "catalog",
		WireName:    name,
		WirePkg:     wirePkg,
		WirePkgName: "catalogpb",
		Fields:      fields,
	}
}

func bundleOf(decls ...schema.Decl) *schema.Bundle {
	return &schema.Bundle{
		NativePath: "example.com/app/catalog",
		NativeName: "catalog",
		Decls:      decls,
	}
}

func structDecl(s *schema.StructSchema) schema.Decl {
	return schema.Decl{Kind: schema.DeclStruct, Struct: s}
}

func enumDecl(e *schema.EnumSchema) schema.Decl {
	return schema.Decl{Kind: schema.DeclEnum, Enum: e}
}

func newTestResolver() *Resolver {
	return NewResolver(Config{WirePackage: wirePkg})
}

// resolveOne resolves a single-struct bundle and returns the field
// strategies.
func resolveOne(t *testing.T, s *schema.StructSchema) []FieldStrategy {
	t.Helper()

	plan := newTestResolver().Resolve(bundleOf(structDecl(s)))
	if len(plan.Structs) != 1 {
		t.Fatalf("expected 1 resolved struct, got %d (diagnostics: %v)", len(plan.Structs), plan.Diagnostics.Errors)
	}

	return plan.Structs[0].Fields
}

func TestPrecedenceTable(t *testing.T) {
	everything := schema.FieldDirectives{
		Ignore:       true,
		Transparent:  true,
		FromFunc:     "fromFn",
		ToFunc:       "toFn",
		HasDefaultFn: true,
		DefaultFunc:  "defaultFn",
		Expect:       schema.ExpectError,
	}

	tests := []struct {
		name string
		fs   schema.FieldSchema
		want StrategyKind
	}{
		{
			"ignore wins over everything",
			field("Id", basic("uint64"), schema.OptionalityRequired, everything),
			StrategyIgnore,
		},
		{
			"transparent overrides custom functions",
			field("Id", named("TrackId", "example.com/app/catalog"), schema.OptionalityRequired,
				schema.FieldDirectives{Transparent: true, FromFunc: "fromFn", ToFunc: "toFn"}),
			StrategyTransparent,
		},
		{
			"custom functions",
			field("Title", basic("string"), schema.OptionalityRequired,
				schema.FieldDirectives{FromFunc: "parseTitle", ToFunc: "renderTitle"}),
			StrategyCustom,
		},
		{
			"collection before default",
			field("Tracks", sliceOf(named("Track", "example.com/app/catalog")), schema.OptionalityRepeated,
				schema.FieldDirectives{HasDefaultFn: true, DefaultFunc: "defaultTracks"}),
			StrategyCollection,
		},
		{
			"default forces unwrap on matching sides",
			field("Timeout", basic("uint32"), schema.OptionalityRequired,
				schema.FieldDirectives{HasDefaultFn: true, DefaultFunc: "defaultTimeout"}),
			StrategyOptionUnwrap,
		},
		{
			"wire optional native required",
			field("Email", basic("string"), schema.OptionalityOptional, schema.FieldDirectives{}),
			StrategyOptionUnwrap,
		},
		{
			"native optional wire required",
			field("Note", ptr(basic("string")), schema.OptionalityRequired, schema.FieldDirectives{}),
			StrategyOptionUnwrap,
		},
		{
			"both optional with expect",
			field("Note", ptr(basic("string")), schema.OptionalityOptional,
				schema.FieldDirectives{Expect: schema.ExpectError}),
			StrategyOptionUnwrap,
		},
		{
			"both optional without expect",
			field("Note", ptr(basic("string")), schema.OptionalityOptional, schema.FieldDirectives{}),
			StrategyDirect,
		},
		{
			"both required",
			field("Id", basic("uint64"), schema.OptionalityRequired, schema.FieldDirectives{}),
			StrategyDirect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := resolveOne(t, structOf("Track", tt.fs))
			if got := fields[0].Kind; got != tt.want {
				t.Errorf("resolved %s, want %s (rationale: %s)", got, tt.want, fields[0].Rationale)
			}
		})
	}
}

func TestStructIgnoreListBothSpellings(t *testing.T) {
	s := structOf("Track",
		field("TrackId", basic("uint64"), schema.OptionalityRequired, schema.FieldDirectives{}),
		field("Title", basic("string"), schema.OptionalityRequired, schema.FieldDirectives{}),
	)
	s.IgnoreList = []string{"track_id", "Title"}

	fields := resolveOne(t, s)
	for i, st := range fields {
		if st.Kind != StrategyIgnore {
			t.Errorf("field %d resolved %s, want ignore", i, st.Kind)
		}
		if st.Rationale != "struct ignore list" {
			t.Errorf("field %d rationale = %q", i, st.Rationale)
		}
	}
}

func TestCustomSingleDirectionFallback(t *testing.T) {
	fs := field("Email", basic("string"), schema.OptionalityOptional,
		schema.FieldDirectives{ToFunc: "renderEmail", Expect: schema.ExpectError})

	fields := resolveOne(t, structOf("User", fs))
	st := fields[0]

	if st.Kind != StrategyCustom {
		t.Fatalf("resolved %s, want custom", st.Kind)
	}
	if st.Fallback == nil {
		t.Fatal("single-direction custom must carry a fallback strategy")
	}
	if st.Fallback.Kind != StrategyOptionUnwrap {
		t.Errorf("fallback kind = %s, want option_unwrap", st.Fallback.Kind)
	}
	if got := st.FromMode(); got != ErrorModeAuto {
		t.Errorf("FromMode() = %s, want auto_error via fallback", got)
	}
}

func TestCustomOverOptionalWireUnwraps(t *testing.T) {
	fs := field("Id", named("TrackId", "example.com/app/catalog"), schema.OptionalityOptional,
		schema.FieldDirectives{FromFunc: "trackIdFromWire", ToFunc: "trackIdToWire"})

	fields := resolveOne(t, structOf("Track", fs))
	st := fields[0]

	if st.Kind != StrategyCustom || !st.Unwrap {
		t.Fatalf("got kind=%s unwrap=%v, want unwrapping custom", st.Kind, st.Unwrap)
	}
	if st.Mode != ErrorModePanic {
		t.Errorf("mode = %s, want panic without expect directive", st.Mode)
	}
}

func TestCollectionShapes(t *testing.T) {
	track := named("Track", "example.com/app/catalog")
	wireTrack := named("Track", wirePkg)

	t.Run("slice of custom types", func(t *testing.T) {
		fs := wireTyped(
			field("Tracks", sliceOf(track), schema.OptionalityRepeated, schema.FieldDirectives{}),
			sliceOf(wireTrack))

		st := resolveOne(t, structOf("Playlist", fs))[0]
		if st.Kind != StrategyCollection || st.IsMap || st.Nullable {
			t.Fatalf("got %s (map=%v nullable=%v), want plain collection", st.Kind, st.IsMap, st.Nullable)
		}
		if st.Inner.Kind != StrategyDirect || !st.Inner.Convert {
			t.Errorf("inner = %s convert=%v, want converting direct", st.Inner.Kind, st.Inner.Convert)
		}
	})

	t.Run("slice of wire types copies", func(t *testing.T) {
		fs := wireTyped(
			field("Raw", sliceOf(wireTrack), schema.OptionalityRepeated, schema.FieldDirectives{}),
			sliceOf(wireTrack))

		st := resolveOne(t, structOf("Playlist", fs))[0]
		if st.Inner.Convert {
			t.Error("wire-origin elements must not convert")
		}
	})

	t.Run("nullable wrapper absorbs emptiness", func(t *testing.T) {
		fs := field("Tags", ptr(sliceOf(basic("string"))), schema.OptionalityRepeated, schema.FieldDirectives{})

		st := resolveOne(t, structOf("Playlist", fs))[0]
		if !st.Nullable {
			t.Error("pointer-wrapped slice must set Nullable")
		}
	})

	t.Run("map keys and values", func(t *testing.T) {
		fs := wireTyped(
			field("Plays", mapOf(basic("string"), basic("uint32")), schema.OptionalityRepeated, schema.FieldDirectives{}),
			mapOf(basic("string"), basic("uint64")))

		st := resolveOne(t, structOf("Playlist", fs))[0]
		if !st.IsMap || st.Key == nil {
			t.Fatalf("map collection needs a key strategy")
		}
		if st.Key.Convert {
			t.Error("identical key types must not convert")
		}
		if !st.Inner.Convert {
			t.Error("uint64 wire values must cast to uint32")
		}
	})

	t.Run("nested slices", func(t *testing.T) {
		fs := field("Grid", sliceOf(sliceOf(basic("uint32"))), schema.OptionalityRepeated, schema.FieldDirectives{})

		st := resolveOne(t, structOf("Playlist", fs))[0]
		if st.Inner.Kind != StrategyCollection {
			t.Fatalf("inner = %s, want nested collection", st.Inner.Kind)
		}
		if st.Inner.Inner.Kind != StrategyDirect {
			t.Errorf("innermost = %s, want direct", st.Inner.Inner.Kind)
		}
	})
}

func TestDirectConvertDecision(t *testing.T) {
	tests := []struct {
		name    string
		fs      schema.FieldSchema
		convert bool
	}{
		{
			"same primitive",
			wireTyped(field("Id", basic("uint64"), schema.OptionalityRequired, schema.FieldDirectives{}), basic("uint64")),
			false,
		},
		{
			"differing primitive casts",
			wireTyped(field("Count", basic("uint32"), schema.OptionalityRequired, schema.FieldDirectives{}), basic("uint64")),
			true,
		},
		{
			"wire type assigns",
			wireTyped(field("Raw", named("Track", wirePkg), schema.OptionalityRequired, schema.FieldDirectives{}), named("Track", wirePkg)),
			false,
		},
		{
			"custom type converts",
			wireTyped(field("Meta", named("Meta", "example.com/app/catalog"), schema.OptionalityRequired, schema.FieldDirectives{}), named("Meta", wirePkg)),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := resolveOne(t, structOf("Track", tt.fs))[0]
			if st.Kind != StrategyDirect {
				t.Fatalf("resolved %s, want direct", st.Kind)
			}
			if st.Convert != tt.convert {
				t.Errorf("Convert = %v, want %v", st.Convert, tt.convert)
			}
		})
	}
}

func TestNarrowingWarning(t *testing.T) {
	fs := wireTyped(
		field("Count", basic("uint32"), schema.OptionalityRequired, schema.FieldDirectives{}),
		basic("uint64"))

	plan := newTestResolver().Resolve(bundleOf(structDecl(structOf("Track", fs))))

	found := false
	for _, w := range plan.Diagnostics.Warnings {
		if w.Code == "narrowing_cast" {
			found = true
		}
	}
	if !found {
		t.Error("uint64 wire to uint32 native should warn about narrowing")
	}
	if len(plan.Structs) != 1 {
		t.Error("narrowing is a warning, the struct must still resolve")
	}
}

func TestConflictingDirectivesAbortStructOnly(t *testing.T) {
	bad := structOf("Track",
		field("Id", basic("uint64"), schema.OptionalityRequired,
			schema.FieldDirectives{WireOptional: true, WireRequired: true}),
	)
	good := structOf("User",
		field("Name", basic("string"), schema.OptionalityRequired, schema.FieldDirectives{}),
	)

	plan := newTestResolver().Resolve(bundleOf(structDecl(bad), structDecl(good)))

	if len(plan.Structs) != 1 || plan.Structs[0].Schema.Name != "User" {
		t.Fatalf("expected only User to survive, got %d structs", len(plan.Structs))
	}
	if len(plan.Diagnostics.ErrorsFor("Track")) == 0 {
		t.Error("conflicting optionality must be reported against Track")
	}
	if plan.Diagnostics.Errors[0].Code != "conflicting_optionality" {
		t.Errorf("code = %s", plan.Diagnostics.Errors[0].Code)
	}
}

func TestConflictingDefaultPair(t *testing.T) {
	s := structOf("Config",
		field("Timeout", basic("uint32"), schema.OptionalityOptional,
			schema.FieldDirectives{HasDefault: true, HasDefaultFn: true, DefaultFunc: "defaultTimeout"}),
	)

	plan := newTestResolver().Resolve(bundleOf(structDecl(s)))

	if len(plan.Structs) != 0 {
		t.Fatal("conflicting default directives must abort the struct")
	}
	if got := plan.Diagnostics.Errors[0].Code; got != "conflicting_default" {
		t.Errorf("code = %s", got)
	}
}

func TestEnumRegistryOrder(t *testing.T) {
	status := named("Status", "example.com/app/catalog")
	enum := &schema.EnumSchema{Name: "Status", PkgPath: "example.com/app/catalog", WireName: "Status", WirePkg: wirePkg}

	early := structOf("Early", field("State", status, schema.OptionalityRequired, schema.FieldDirectives{}))
	late := structOf("Late", field("State", status, schema.OptionalityRequired, schema.FieldDirectives{}))

	plan := newTestResolver().Resolve(bundleOf(structDecl(early), enumDecl(enum), structDecl(late)))

	if got := plan.Structs[0].Fields[0].Class.Class; got != classify.ClassCustom {
		t.Errorf("struct before enum declaration sees %s, want custom", got)
	}
	if got := plan.Structs[1].Fields[0].Class.Class; got != classify.ClassEnum {
		t.Errorf("struct after enum declaration sees %s, want enum", got)
	}
}

func mixedStruct() *schema.StructSchema {
	return structOf("Track",
		field("Id", basic("uint64"), schema.OptionalityRequired, schema.FieldDirectives{}),
		field("Title", ptr(basic("string")), schema.OptionalityOptional, schema.FieldDirectives{}),
		field("Tags", sliceOf(basic("string")), schema.OptionalityRepeated, schema.FieldDirectives{}),
		field("Email", basic("string"), schema.OptionalityOptional,
			schema.FieldDirectives{Expect: schema.ExpectError}),
	)
}

func planSummary(p *Plan) string {
	var sb []string
	for _, sp := range p.Structs {
		for _, st := range sp.Fields {
			sb = append(sb, fmt.Sprintf("%s/%s/%s", st.Kind, st.Mode, st.Rationale))
		}
		sb = append(sb, fmt.Sprintf("%s/%s", sp.Mode, sp.ErrorType))
	}

	return fmt.Sprint(sb)
}

func TestDeterminism(t *testing.T) {
	first := newTestResolver().Resolve(bundleOf(structDecl(mixedStruct())))
	second := newTestResolver().Resolve(bundleOf(structDecl(mixedStruct())))

	if a, b := planSummary(first), planSummary(second); a != b {
		t.Errorf("identical input resolved differently:\n%s\n%s", a, b)
	}

	for _, st := range first.Structs[0].Fields {
		if st.Kind == 0 {
			t.Error("every field must resolve to exactly one strategy")
		}
	}
}

func TestTracingDoesNotChangeResults(t *testing.T) {
	plain := newTestResolver().Resolve(bundleOf(structDecl(mixedStruct())))

	var buf bytes.Buffer
	traced := NewResolver(Config{
		WirePackage: wirePkg,
		Tracer:      trace.New(&buf, trace.ParseFilter("all")),
	}).Resolve(bundleOf(structDecl(mixedStruct())))

	if a, b := planSummary(plain), planSummary(traced); a != b {
		t.Errorf("tracing changed resolution:\n%s\n%s", a, b)
	}
	if buf.Len() == 0 {
		t.Error("enabled tracer produced no output")
	}
}

func TestShapeMismatchWarning(t *testing.T) {
	fs := field("Count", basic("uint32"), schema.OptionalityRepeated, schema.FieldDirectives{})

	plan := newTestResolver().Resolve(bundleOf(structDecl(structOf("Track", fs))))

	found := false
	for _, w := range plan.Diagnostics.Warnings {
		if w.Code == "shape_mismatch" {
			found = true
		}
	}
	if !found {
		t.Error("repeated wire field with scalar native type should warn")
	}
}
