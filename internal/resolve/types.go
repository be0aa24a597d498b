package resolve

import (
	"protobridge-generator/internal/classify"
	"protobridge-generator/internal/common"
	"protobridge-generator/internal/diagnostic"
	"protobridge-generator/internal/schema"
)

// StrategyKind identifies which conversion strategy a field resolved to.
// Every field resolves to exactly one kind.
type StrategyKind int

const (
	// StrategyIgnore - field absent from the wire side, native side gets
	// its zero value or a default function result.
	StrategyIgnore StrategyKind = iota + 1
	// StrategyCustom - user-supplied conversion functions.
	StrategyCustom
	// StrategyTransparent - rewrap the single inner value of a wrapper
	// type without going through its general conversion path.
	StrategyTransparent
	// StrategyCollection - element-wise conversion of a slice or map.
	StrategyCollection
	// StrategyOptionUnwrap - branch on wire-side presence.
	StrategyOptionUnwrap
	// StrategyDirect - plain or cast assignment.
	StrategyDirect
)

// String returns a human-readable strategy name.
func (k StrategyKind) String() string {
	switch k {
	case StrategyIgnore:
		return "ignore"
	case StrategyCustom:
		return "custom"
	case StrategyTransparent:
		return "transparent"
	case StrategyCollection:
		return "collection"
	case StrategyOptionUnwrap:
		return "option_unwrap"
	case StrategyDirect:
		return "direct"
	default:
		return common.UnknownStr
	}
}

// ErrorMode describes what the generated wire→native code does when a
// wire value needed by a required native field is absent.
type ErrorMode int

const (
	// ErrorModeNone - absence is not special: the field never branches
	// on presence, or a default directive supplies the value.
	ErrorModeNone ErrorMode = iota
	// ErrorModePanic - abort with a message naming the wire field.
	ErrorModePanic
	// ErrorModeAuto - return the auto-generated conversion error type.
	ErrorModeAuto
	// ErrorModeCustom - return the result of a caller-supplied error
	// constructor.
	ErrorModeCustom
)

// String returns a human-readable error mode name.
func (m ErrorMode) String() string {
	switch m {
	case ErrorModeNone:
		return "none"
	case ErrorModePanic:
		return "panic"
	case ErrorModeAuto:
		return "auto_error"
	case ErrorModeCustom:
		return "custom_error"
	default:
		return common.UnknownStr
	}
}

// Fallible reports whether this mode makes the wire→native routine
// return an error. Panic aborts instead of returning and never makes
// a routine fallible.
func (m ErrorMode) Fallible() bool {
	return m == ErrorModeAuto || m == ErrorModeCustom
}

// FieldStrategy is the resolved conversion decision for one field:
// a strategy kind plus the attributes synthesis needs for it.
type FieldStrategy struct {
	// Field is the schema the strategy was resolved from. Nil on inner
	// strategies of collections, which describe elements, not fields.
	Field *schema.FieldSchema
	// Class is the native type's classification.
	Class classify.Classification

	Kind StrategyKind

	// FromFunc and ToFunc carry custom conversion function references.
	// When only one direction is supplied, Fallback holds the strategy
	// the other direction uses instead.
	FromFunc string
	ToFunc   string
	Fallback *FieldStrategy

	// Mode is the absence action for strategies that branch on wire
	// presence. ErrorFunc is the constructor reference for
	// ErrorModeCustom.
	Mode      ErrorMode
	ErrorFunc string

	// UseDefault routes the absence branch to a default value instead
	// of the error mode action. DefaultFunc is empty for the zero
	// value. UseDefault implies Mode is ErrorModeNone.
	UseDefault  bool
	DefaultFunc string

	// Unwrap is set when the wire side is optional and the generated
	// code must branch on presence. Wrap is set when the native side is
	// a nullable wrapper and the converted value must be re-wrapped.
	Unwrap bool
	Wrap   bool

	// Collection attributes: the recursively resolved element strategy,
	// the key strategy for maps, and whether the native collection sits
	// behind a nullable wrapper that absorbs emptiness.
	Inner    *FieldStrategy
	Key      *FieldStrategy
	IsMap    bool
	Nullable bool

	// Convert is set on direct strategies when the two sides have
	// different types and the assignment needs a conversion step.
	Convert bool

	// Rationale is the one-line reason this strategy won, for trace
	// output and tests.
	Rationale string
}

// ConversionMode is the struct-wide fallibility of the wire→native
// routine. The native→wire direction is always infallible.
type ConversionMode int

const (
	// ModeInfallible - the routine returns the native value directly.
	ModeInfallible ConversionMode = iota + 1
	// ModeFallible - the routine returns (value, error).
	ModeFallible
)

// String returns a human-readable conversion mode name.
func (m ConversionMode) String() string {
	switch m {
	case ModeInfallible:
		return "infallible"
	case ModeFallible:
		return "fallible"
	default:
		return common.UnknownStr
	}
}

// StructPlan is one struct's fully resolved conversion: per-field
// strategies in declaration order plus the struct-wide error policy.
type StructPlan struct {
	Schema *schema.StructSchema
	Fields []FieldStrategy

	Mode ConversionMode
	// ErrorType is the error type the fallible routine returns: the
	// declared custom type, or the synthesized <Name>ConversionError.
	ErrorType string
	// ErrorFunc is the struct-level error constructor for declared
	// custom error types.
	ErrorFunc string
	// SynthesizeError is set when ErrorType must be emitted alongside
	// the conversion routines.
	SynthesizeError bool
}

// EnumPlan carries an enum declaration through to synthesis.
// CastFallback is set when no wire constants were found and the
// conversion functions fall back to numeric casts.
type EnumPlan struct {
	Schema       *schema.EnumSchema
	CastFallback bool
}

// Plan is the resolver's output for one run: every declaration that
// survived configuration checking, in front-end order, plus the
// diagnostics collected along the way.
type Plan struct {
	Bundle  *schema.Bundle
	Structs []StructPlan
	Enums   []EnumPlan

	Diagnostics diagnostic.Diagnostics
}
