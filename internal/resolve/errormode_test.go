package resolve

import (
	"strings"
	"testing"

	"protobridge-generator/internal/schema"
)

// optionalField is the canonical absence shape: wire optional value
// feeding a required native field.
func optionalField(dirs schema.FieldDirectives) schema.FieldSchema {
	return field("Email", basic("string"), schema.OptionalityOptional, dirs)
}

func errStruct(errType, errFn string, fs schema.FieldSchema) *schema.StructSchema {
	s := structOf("User", fs)
	s.ErrorType = errType
	s.ErrorFunc = errFn

	return s
}

func TestAbsenceModeChain(t *testing.T) {
	tests := []struct {
		name     string
		errType  string
		errFn    string
		dirs     schema.FieldDirectives
		wantMode ErrorMode
		wantFn   string
	}{
		{
			"no directive panics",
			"", "",
			schema.FieldDirectives{},
			ErrorModePanic, "",
		},
		{
			"expect panic",
			"", "",
			schema.FieldDirectives{Expect: schema.ExpectPanic},
			ErrorModePanic, "",
		},
		{
			"expect panic beats declared error type",
			"CatalogError", "NewCatalogError",
			schema.FieldDirectives{Expect: schema.ExpectPanic},
			ErrorModePanic, "",
		},
		{
			"bare expect contributes to generated type",
			"", "",
			schema.FieldDirectives{Expect: schema.ExpectError},
			ErrorModeAuto, "",
		},
		{
			"bare expect with field constructor",
			"", "",
			schema.FieldDirectives{Expect: schema.ExpectError, ErrorFunc: "missingEmail"},
			ErrorModeCustom, "missingEmail",
		},
		{
			"declared type uses struct constructor",
			"CatalogError", "NewCatalogError",
			schema.FieldDirectives{Expect: schema.ExpectError},
			ErrorModeCustom, "NewCatalogError",
		},
		{
			"field constructor overrides struct constructor",
			"CatalogError", "NewCatalogError",
			schema.FieldDirectives{Expect: schema.ExpectError, ErrorFunc: "missingEmail"},
			ErrorModeCustom, "missingEmail",
		},
		{
			"declared type applies without expect",
			"CatalogError", "NewCatalogError",
			schema.FieldDirectives{},
			ErrorModeCustom, "NewCatalogError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := resolveOne(t, errStruct(tt.errType, tt.errFn, optionalField(tt.dirs)))[0]

			if st.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", st.Mode, tt.wantMode)
			}
			if st.ErrorFunc != tt.wantFn {
				t.Errorf("error func = %q, want %q", st.ErrorFunc, tt.wantFn)
			}
		})
	}
}

func TestMissingErrorConstructor(t *testing.T) {
	s := errStruct("CatalogError", "", optionalField(schema.FieldDirectives{Expect: schema.ExpectError}))

	plan := newTestResolver().Resolve(bundleOf(structDecl(s)))

	if len(plan.Structs) != 0 {
		t.Fatal("a declared error type without any constructor must abort the struct")
	}

	errs := plan.Diagnostics.ErrorsFor("User")
	if len(errs) == 0 {
		t.Fatal("expected a configuration error for User")
	}
	if errs[0].Code != "missing_error_fn" {
		t.Errorf("code = %s", errs[0].Code)
	}
	if !strings.Contains(errs[0].Message, "CatalogError") {
		t.Errorf("message should name the error type, got %q", errs[0].Message)
	}
}

func TestDefaultSuppressesExpect(t *testing.T) {
	st := resolveOne(t, structOf("Config", optionalField(schema.FieldDirectives{
		HasDefaultFn: true,
		DefaultFunc:  "defaultEmail",
		Expect:       schema.ExpectError,
	})))[0]

	if !st.UseDefault || st.DefaultFunc != "defaultEmail" {
		t.Fatalf("default directive not honored: %+v", st)
	}
	if st.Mode != ErrorModeNone {
		t.Errorf("mode = %s, want none when a default covers absence", st.Mode)
	}
	if !strings.Contains(st.Rationale, "expect unreachable") {
		t.Errorf("rationale = %q", st.Rationale)
	}
}

func TestConversionModeAnalysis(t *testing.T) {
	tests := []struct {
		name        string
		s           *schema.StructSchema
		wantMode    ConversionMode
		wantType    string
		wantFunc    string
		synthesized bool
	}{
		{
			"panic fields never force fallibility",
			structOf("User", optionalField(schema.FieldDirectives{})),
			ModeInfallible, "", "", false,
		},
		{
			"bare expect synthesizes the error type",
			structOf("User", optionalField(schema.FieldDirectives{Expect: schema.ExpectError})),
			ModeFallible, "UserConversionError", "", true,
		},
		{
			"declared type passes through",
			errStruct("CatalogError", "NewCatalogError",
				optionalField(schema.FieldDirectives{Expect: schema.ExpectError})),
			ModeFallible, "CatalogError", "NewCatalogError", false,
		},
		{
			"field constructors alone skip synthesis",
			structOf("User", optionalField(schema.FieldDirectives{
				Expect:    schema.ExpectError,
				ErrorFunc: "missingEmail",
			})),
			ModeFallible, "", "", false,
		},
		{
			"defaults stay infallible",
			structOf("Config", optionalField(schema.FieldDirectives{
				HasDefaultFn: true,
				DefaultFunc:  "defaultEmail",
			})),
			ModeInfallible, "", "", false,
		},
		{
			"one erroring field among panicking ones",
			structOf("User",
				optionalField(schema.FieldDirectives{}),
				field("Name", basic("string"), schema.OptionalityOptional,
					schema.FieldDirectives{Expect: schema.ExpectError}),
			),
			ModeFallible, "UserConversionError", "", true,
		},
		{
			"to-only custom follows its fallback",
			structOf("User", optionalField(schema.FieldDirectives{
				ToFunc: "renderEmail",
				Expect: schema.ExpectError,
			})),
			ModeFallible, "UserConversionError", "", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := newTestResolver().Resolve(bundleOf(structDecl(tt.s)))
			if len(plan.Structs) != 1 {
				t.Fatalf("struct did not resolve: %v", plan.Diagnostics.Errors)
			}

			sp := plan.Structs[0]
			if sp.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", sp.Mode, tt.wantMode)
			}
			if sp.ErrorType != tt.wantType {
				t.Errorf("error type = %q, want %q", sp.ErrorType, tt.wantType)
			}
			if sp.ErrorFunc != tt.wantFunc {
				t.Errorf("error func = %q, want %q", sp.ErrorFunc, tt.wantFunc)
			}
			if sp.SynthesizeError != tt.synthesized {
				t.Errorf("synthesize = %v, want %v", sp.SynthesizeError, tt.synthesized)
			}
		})
	}
}

func TestCollectionAbsenceForms(t *testing.T) {
	t.Run("default on empty", func(t *testing.T) {
		st := resolveOne(t, structOf("Playlist",
			field("Tracks", sliceOf(basic("string")), schema.OptionalityRepeated,
				schema.FieldDirectives{HasDefaultFn: true, DefaultFunc: "defaultTracks"}),
		))[0]

		if !st.UseDefault || st.DefaultFunc != "defaultTracks" {
			t.Errorf("collection default not carried: %+v", st)
		}
	})

	t.Run("expect with constructor errors on empty", func(t *testing.T) {
		st := resolveOne(t, structOf("Playlist",
			field("Tracks", sliceOf(basic("string")), schema.OptionalityRepeated,
				schema.FieldDirectives{Expect: schema.ExpectError, ErrorFunc: "emptyTracks"}),
		))[0]

		if st.Mode != ErrorModeCustom || st.ErrorFunc != "emptyTracks" {
			t.Errorf("mode = %s fn = %q, want custom emptyTracks", st.Mode, st.ErrorFunc)
		}
	})

	t.Run("expect without constructor converts plainly", func(t *testing.T) {
		st := resolveOne(t, structOf("Playlist",
			field("Tracks", sliceOf(basic("string")), schema.OptionalityRepeated,
				schema.FieldDirectives{Expect: schema.ExpectError}),
		))[0]

		if st.Mode != ErrorModeNone {
			t.Errorf("mode = %s, collections have no auto error form", st.Mode)
		}
	})
}
