package resolve

import (
	"fmt"

	"protobridge-generator/internal/classify"
	"protobridge-generator/internal/diagnostic"
	"protobridge-generator/internal/schema"
	"protobridge-generator/internal/trace"
	"protobridge-generator/primitive"
)

// Config holds the configured facts resolution depends on: the
// primitive name set, the wire package path and an optional tracer.
type Config struct {
	PrimitiveNames []string
	WirePackage    string
	Tracer         *trace.Tracer
}

// Resolver turns declaration schemas into conversion plans. It owns the
// enum registry, so one Resolver must process one run's declarations in
// front-end order: enums register as they are encountered, and a struct
// referencing an enum declared later sees a plain custom type.
type Resolver struct {
	classifier *classify.Classifier
	registry   *classify.Registry
	tracer     *trace.Tracer
}

// NewResolver creates a Resolver with an empty enum registry.
func NewResolver(cfg Config) *Resolver {
	ccfg := classify.DefaultConfig()
	if len(cfg.PrimitiveNames) > 0 {
		ccfg.PrimitiveNames = cfg.PrimitiveNames
	}
	ccfg.WirePackage = cfg.WirePackage

	return &Resolver{
		classifier: classify.New(ccfg),
		registry:   classify.NewRegistry(),
		tracer:     cfg.Tracer,
	}
}

// Resolve processes the bundle's declarations in order and returns the
// conversion plan. Configuration errors abort the offending struct's
// synthesis only; the remaining declarations are unaffected.
func (r *Resolver) Resolve(bundle *schema.Bundle) *Plan {
	plan := &Plan{Bundle: bundle}

	for _, decl := range bundle.Decls {
		switch decl.Kind {
		case schema.DeclEnum:
			r.registry.Add(decl.Enum.Name)
			plan.Enums = append(plan.Enums, EnumPlan{
				Schema:       decl.Enum,
				CastFallback: missingWireConsts(decl.Enum),
			})

		case schema.DeclStruct:
			if sp, ok := r.resolveStruct(decl.Struct, &plan.Diagnostics); ok {
				plan.Structs = append(plan.Structs, sp)
			}
		}
	}

	return plan
}

// missingWireConsts reports whether no native variant found a wire
// constant, in which case the conversion functions cast numerically.
func missingWireConsts(e *schema.EnumSchema) bool {
	for _, v := range e.Variants {
		if v.WireConst != "" {
			return false
		}
	}

	return true
}

// resolveStruct resolves every field of one struct and analyzes the
// struct-wide error mode. Returns false when configuration errors
// abort this struct.
func (r *Resolver) resolveStruct(s *schema.StructSchema, d *diagnostic.Diagnostics) (StructPlan, bool) {
	r.tracer.Enter("resolve", s.Name)
	defer r.tracer.Exit("resolve", s.Name)

	checkDirectives(s, d)
	if len(d.ErrorsFor(s.Name)) > 0 {
		r.tracer.Eventf(s.Name, "aborted: conflicting directives")
		return StructPlan{}, false
	}

	sp := StructPlan{Schema: s}
	for i := range s.Fields {
		st := r.resolveField(s, &s.Fields[i], d)
		r.tracer.Eventf(s.Name, "strategy %s.%s: %s (%s)", s.Name, st.Field.Name, st.Kind, st.Rationale)
		sp.Fields = append(sp.Fields, st)
	}

	// Mode derivation can report missing error constructors.
	if len(d.ErrorsFor(s.Name)) > 0 {
		r.tracer.Eventf(s.Name, "aborted: missing error constructor")
		return StructPlan{}, false
	}

	sp.Mode, sp.ErrorType, sp.ErrorFunc, sp.SynthesizeError = analyzeErrorMode(s, sp.Fields)
	r.tracer.Eventf(s.Name, "mode %s, error type %q", sp.Mode, sp.ErrorType)

	return sp, true
}

// checkDirectives reports the mutually exclusive directive pairs.
// Transparent combined with custom functions is deliberately absent
// here: transparent silently wins (see resolveField).
func checkDirectives(s *schema.StructSchema, d *diagnostic.Diagnostics) {
	for i := range s.Fields {
		f := &s.Fields[i]

		if f.Directives.WireOptional && f.Directives.WireRequired {
			d.AddError("conflicting_optionality",
				"wire_optional and wire_required are mutually exclusive",
				s.Name, f.Name)
		}

		if f.Directives.HasDefault && f.Directives.HasDefaultFn {
			d.AddError("conflicting_default",
				"default and default_fn are mutually exclusive",
				s.Name, f.Name)
		}
	}
}

// resolveField applies the precedence order: ignore, transparent
// (which silently overrides custom functions), custom functions, then
// the shape-driven rules. First match wins; the result is total and
// deterministic.
func (r *Resolver) resolveField(s *schema.StructSchema, f *schema.FieldSchema, d *diagnostic.Diagnostics) FieldStrategy {
	cls := r.classifier.Classify(f.Type, r.registry)

	switch {
	case f.Directives.Ignore:
		return r.resolveIgnore(f, cls, "ignore directive")

	case s.Ignored(*f):
		return r.resolveIgnore(f, cls, "struct ignore list")

	case f.Directives.Transparent:
		return r.resolveTransparent(s, f, cls, d)

	case f.Directives.HasCustomFunc():
		return r.resolveCustom(s, f, cls, d)
	}

	return r.resolveShape(s, f, cls, d)
}

func (r *Resolver) resolveIgnore(f *schema.FieldSchema, cls classify.Classification, why string) FieldStrategy {
	return FieldStrategy{
		Field:       f,
		Class:       cls,
		Kind:        StrategyIgnore,
		UseDefault:  f.Directives.WantsDefault(),
		DefaultFunc: f.Directives.DefaultFunc,
		Rationale:   why,
	}
}

func (r *Resolver) resolveTransparent(s *schema.StructSchema, f *schema.FieldSchema, cls classify.Classification, d *diagnostic.Diagnostics) FieldStrategy {
	st := FieldStrategy{
		Field:     f,
		Class:     cls,
		Kind:      StrategyTransparent,
		Wrap:      cls.Class == classify.ClassNullable,
		Rationale: "transparent wrapper",
	}

	// Transparent wins over custom functions without a diagnostic.
	if f.Directives.HasCustomFunc() {
		st.Rationale = "transparent wrapper, custom functions overridden"
	}

	if f.Wire == schema.OptionalityOptional {
		st.Unwrap = true
		r.applyAbsence(&st, s, f, d)
	}

	return st
}

func (r *Resolver) resolveCustom(s *schema.StructSchema, f *schema.FieldSchema, cls classify.Classification, d *diagnostic.Diagnostics) FieldStrategy {
	st := FieldStrategy{
		Field:    f,
		Class:    cls,
		Kind:     StrategyCustom,
		FromFunc: f.Directives.FromFunc,
		ToFunc:   f.Directives.ToFunc,
	}

	switch {
	case st.FromFunc != "" && st.ToFunc != "":
		st.Rationale = "custom conversion functions, both directions"
	case st.FromFunc != "":
		st.Rationale = "custom wire to native function, reverse falls back"
	default:
		st.Rationale = "custom native to wire function, forward falls back"
	}

	// A single-direction function leaves the other direction to the
	// strategy that would apply without the custom directive.
	if st.FromFunc == "" || st.ToFunc == "" {
		fallback := r.resolveShape(s, f, cls, d)
		st.Fallback = &fallback
	}

	// The function receives the unwrapped value when the wire side is
	// optional but the native side is not. Without a from function the
	// fallback strategy owns that direction, absence handling included.
	if st.FromFunc != "" && f.Wire == schema.OptionalityOptional && cls.Class != classify.ClassNullable {
		st.Unwrap = true
		r.applyAbsence(&st, s, f, d)
	}

	return st
}

// resolveShape applies the shape-driven rules: collection, forced
// default, the optionality matrix, and the direct fallback. Custom
// single-direction fallbacks re-enter here.
func (r *Resolver) resolveShape(s *schema.StructSchema, f *schema.FieldSchema, cls classify.Classification, d *diagnostic.Diagnostics) FieldStrategy {
	if cls.IsCollection() {
		return r.resolveCollection(s, f, cls, d)
	}

	if f.Wire == schema.OptionalityRepeated {
		d.AddWarning("shape_mismatch",
			fmt.Sprintf("wire field %s is repeated but %s is not a collection type", f.WireName, cls.Ref),
			s.Name, f.Name)
	}

	nativeOpt := cls.Class == classify.ClassNullable
	wireOpt := f.Wire == schema.OptionalityOptional

	// A default directive forces the presence branch even when the two
	// sides already agree, so the fallback value is reachable.
	if f.Directives.WantsDefault() {
		st := FieldStrategy{
			Field:       f,
			Class:       cls,
			Kind:        StrategyOptionUnwrap,
			Unwrap:      wireOpt,
			Wrap:        nativeOpt,
			UseDefault:  true,
			DefaultFunc: f.Directives.DefaultFunc,
			Convert:     needsConvert(cls, derefWire(f.WireType)),
			Rationale:   "default directive forces presence branch",
		}
		if f.Directives.Expect != schema.ExpectNone {
			st.Rationale = "default directive forces presence branch, expect unreachable"
		}
		r.warnNarrowing(s, f, cls, d)

		return st
	}

	switch {
	case wireOpt && !nativeOpt:
		st := FieldStrategy{
			Field:     f,
			Class:     cls,
			Kind:      StrategyOptionUnwrap,
			Unwrap:    true,
			Convert:   needsConvert(cls, derefWire(f.WireType)),
			Rationale: "wire optional, native required",
		}
		r.applyAbsence(&st, s, f, d)
		r.warnNarrowing(s, f, cls, d)

		return st

	case !wireOpt && nativeOpt:
		r.warnNarrowing(s, f, cls, d)

		return FieldStrategy{
			Field:     f,
			Class:     cls,
			Kind:      StrategyOptionUnwrap,
			Wrap:      true,
			Convert:   needsConvert(cls, derefWire(f.WireType)),
			Rationale: "native optional, wire required",
		}

	case wireOpt && nativeOpt && f.Directives.Expect != schema.ExpectNone:
		st := FieldStrategy{
			Field:     f,
			Class:     cls,
			Kind:      StrategyOptionUnwrap,
			Unwrap:    true,
			Wrap:      true,
			Convert:   needsConvert(cls, derefWire(f.WireType)),
			Rationale: "both optional, expect forces presence",
		}
		r.applyAbsence(&st, s, f, d)
		r.warnNarrowing(s, f, cls, d)

		return st
	}

	return r.resolveDirect(s, f, cls, d)
}

// resolveDirect is the rule-of-last-resort: both sides required and
// matching, or both optional and matching (nil-aware).
func (r *Resolver) resolveDirect(s *schema.StructSchema, f *schema.FieldSchema, cls classify.Classification, d *diagnostic.Diagnostics) FieldStrategy {
	st := FieldStrategy{
		Field:     f,
		Class:     cls,
		Kind:      StrategyDirect,
		Convert:   needsConvert(cls, derefWire(f.WireType)),
		Rationale: "both sides required",
	}

	if cls.Class == classify.ClassNullable {
		st.Nullable = true
		st.Rationale = "both sides optional, nil-aware"
	}

	r.warnNarrowing(s, f, cls, d)

	return st
}

func (r *Resolver) resolveCollection(s *schema.StructSchema, f *schema.FieldSchema, cls classify.Classification, d *diagnostic.Diagnostics) FieldStrategy {
	st := FieldStrategy{
		Field: f,
		Class: cls,
		Kind:  StrategyCollection,
	}

	coll := cls
	if cls.Class == classify.ClassNullable {
		// A nullable wrapper around the collection absorbs emptiness:
		// empty wire sequence becomes the absent native state.
		st.Nullable = true
		coll = *cls.Inner
	}
	st.IsMap = coll.Class == classify.ClassMap

	wireElem, wireKey := wireElements(f.WireType)

	inner := r.resolveElement(*coll.Inner, wireElem)
	st.Inner = &inner

	if st.IsMap {
		key := r.resolveElement(*coll.Key, wireKey)
		st.Key = &key
	}

	// Collections honor a default on the empty wire state, and a
	// custom error constructor when the field explicitly expects
	// content. There is no panic form for empty collections.
	if f.Directives.WantsDefault() {
		st.UseDefault = true
		st.DefaultFunc = f.Directives.DefaultFunc
	} else if f.Directives.Expect != schema.ExpectNone {
		mode, fn := r.absenceMode(s, f, d)
		if mode == ErrorModeCustom && fn != "" {
			st.Mode = mode
			st.ErrorFunc = fn
		}
	}

	switch {
	case st.Nullable:
		st.Rationale = fmt.Sprintf("nullable collection of %s", coll.Inner)
	case st.UseDefault:
		st.Rationale = fmt.Sprintf("collection of %s, default on empty", coll.Inner)
	default:
		st.Rationale = fmt.Sprintf("collection of %s", coll.Inner)
	}

	return st
}

// resolveElement resolves the strategy for collection elements and map
// keys. Elements are always present on both sides, so only the direct,
// nested-collection, and nil-aware forms can apply.
func (r *Resolver) resolveElement(cls classify.Classification, wire *schema.TypeRef) FieldStrategy {
	switch cls.Class {
	case classify.ClassSequence, classify.ClassMap:
		st := FieldStrategy{
			Class:     cls,
			Kind:      StrategyCollection,
			IsMap:     cls.Class == classify.ClassMap,
			Rationale: "nested collection",
		}

		wireElem, wireKey := wireElements(wire)

		inner := r.resolveElement(*cls.Inner, wireElem)
		st.Inner = &inner

		if st.IsMap {
			key := r.resolveElement(*cls.Key, wireKey)
			st.Key = &key
		}

		return st

	case classify.ClassNullable:
		return FieldStrategy{
			Class:     cls,
			Kind:      StrategyDirect,
			Nullable:  true,
			Convert:   needsConvert(*cls.Inner, derefWire(wire)),
			Rationale: "nullable element, nil-aware",
		}

	default:
		return FieldStrategy{
			Class:     cls,
			Kind:      StrategyDirect,
			Convert:   needsConvert(cls, wire),
			Rationale: "collection element",
		}
	}
}

// needsConvert reports whether an assignment between the classified
// native side and the wire side needs a conversion step. Wire-origin
// types assign as-is; primitives cast when the names differ; enums and
// custom types always go through their conversion functions.
func needsConvert(cls classify.Classification, wire *schema.TypeRef) bool {
	switch cls.Class {
	case classify.ClassWire:
		return false

	case classify.ClassPrimitive:
		if wire == nil {
			return false
		}
		return wire.CanonicalName() != cls.Ref.CanonicalName()

	case classify.ClassNullable:
		return needsConvert(*cls.Inner, wire)

	default:
		return true
	}
}

// derefWire unwraps one pointer level of the wire type so comparisons
// and cast checks see the value type.
func derefWire(ref *schema.TypeRef) *schema.TypeRef {
	if ref != nil && ref.Kind == schema.RefKindPointer {
		return ref.Elem
	}

	return ref
}

// wireElements returns the wire-side element and key references for a
// collection-shaped wire field, unwrapping an optional outer pointer.
func wireElements(ref *schema.TypeRef) (elem, key *schema.TypeRef) {
	ref = derefWire(ref)
	if ref == nil {
		return nil, nil
	}

	return ref.Elem, ref.Key
}

// warnNarrowing flags primitive pairs whose conversion loses range in
// one direction. Nothing is flagged when the wire side is unknown.
func (r *Resolver) warnNarrowing(s *schema.StructSchema, f *schema.FieldSchema, cls classify.Classification, d *diagnostic.Diagnostics) {
	inner := cls
	if inner.Class == classify.ClassNullable {
		inner = *inner.Inner
	}
	if inner.Class != classify.ClassPrimitive {
		return
	}

	wire := derefWire(f.WireType)
	if wire == nil {
		return
	}

	native := primitive.FromName(inner.Ref.CanonicalName())
	wireKind := primitive.FromName(wire.CanonicalName())
	if native == 0 || wireKind == 0 || native == wireKind {
		return
	}

	toNative := primitive.CastCategory(wireKind, native)
	toWire := primitive.CastCategory(native, wireKind)
	if toNative&primitive.CategoryNarrowingCast != 0 || toWire&primitive.CategoryNarrowingCast != 0 {
		d.AddWarning("narrowing_cast",
			fmt.Sprintf("conversion between wire %s and native %s can lose range", wire.CanonicalName(), inner.Ref.CanonicalName()),
			s.Name, f.Name)
	}
}
