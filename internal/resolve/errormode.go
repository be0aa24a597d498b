package resolve

import (
	"fmt"

	"protobridge-generator/internal/diagnostic"
	"protobridge-generator/internal/schema"
)

// applyAbsence fills in what the generated code does when the wire
// value is absent. A default directive routes the branch to the
// default value and leaves the error mode at none; otherwise the
// expect sub-resolution decides.
func (r *Resolver) applyAbsence(st *FieldStrategy, s *schema.StructSchema, f *schema.FieldSchema, d *diagnostic.Diagnostics) {
	if f.Directives.WantsDefault() {
		st.UseDefault = true
		st.DefaultFunc = f.Directives.DefaultFunc

		return
	}

	st.Mode, st.ErrorFunc = r.absenceMode(s, f, d)
}

// absenceMode resolves the absence action for one field.
//
// expect=panic always panics. A struct-level custom error type forces
// the custom error mode and requires a constructor, field-level
// error_fn or the struct-level one; a missing constructor is a
// configuration error. A bare expect without a custom error type
// contributes to the auto-generated error type, unless the field names
// its own constructor. With no expect directive at all, absence of a
// required wire value aborts with a message naming the field.
func (r *Resolver) absenceMode(s *schema.StructSchema, f *schema.FieldSchema, d *diagnostic.Diagnostics) (ErrorMode, string) {
	if f.Directives.Expect == schema.ExpectPanic {
		return ErrorModePanic, ""
	}

	if s.ErrorType != "" {
		fn := f.Directives.ErrorFunc
		if fn == "" {
			fn = s.ErrorFunc
		}
		if fn == "" {
			d.AddError("missing_error_fn",
				fmt.Sprintf("error_type %s needs an error_fn, field-level or struct-level", s.ErrorType),
				s.Name, f.Name)
		}

		return ErrorModeCustom, fn
	}

	if f.Directives.Expect == schema.ExpectError {
		if f.Directives.ErrorFunc != "" {
			return ErrorModeCustom, f.Directives.ErrorFunc
		}

		return ErrorModeAuto, ""
	}

	return ErrorModePanic, ""
}

// FromMode returns the error mode the wire→native direction actually
// uses. A custom strategy with only a native→wire function delegates
// the forward direction to its fallback.
func (st *FieldStrategy) FromMode() ErrorMode {
	if st.Kind == StrategyCustom && st.FromFunc == "" && st.Fallback != nil {
		return st.Fallback.FromMode()
	}

	return st.Mode
}

// analyzeErrorMode decides the struct-wide conversion mode in one pass
// over the resolved strategies.
//
// The struct is fallible iff at least one field returns an error on
// absence; panic fields never force fallibility. A declared custom
// error type is returned as-is; otherwise <Name>ConversionError is
// synthesized with the single shared MissingField variant, but only
// when some field actually uses it. Fields evaluate in declaration
// order inside the generated routine, so a panic field declared before
// an erroring field aborts the conversion before the error path is
// reached; callers converting values with several absent fields see
// the first field's action, whichever kind it is.
func analyzeErrorMode(s *schema.StructSchema, fields []FieldStrategy) (mode ConversionMode, errorType, errorFunc string, synthesize bool) {
	fallible := false
	auto := false

	for i := range fields {
		m := fields[i].FromMode()
		fallible = fallible || m.Fallible()
		auto = auto || m == ErrorModeAuto
	}

	switch {
	case !fallible:
		return ModeInfallible, "", "", false
	case s.ErrorType != "":
		return ModeFallible, s.ErrorType, s.ErrorFunc, false
	case auto:
		return ModeFallible, s.Name + "ConversionError", "", true
	default:
		// Fallible purely through field-level error constructors.
		return ModeFallible, "", "", false
	}
}
