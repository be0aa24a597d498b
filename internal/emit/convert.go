package emit

import (
	"fmt"

	"protobridge-generator/internal/classify"
	"protobridge-generator/internal/schema"
)

// valueExpr is a rendered conversion: an expression for the converted
// value plus optional prelude statements the expression depends on.
// Prelude lines are tab-prefixed and newline-terminated; when the
// prelude is non-empty the expression is the variable it declared.
type valueExpr struct {
	prelude string
	expr    string
}

// leafValue renders the conversion of one present value: identity, a
// primitive cast, an enum or struct bridge call, or a nil-aware
// pointer rewrap. src must already be unwrapped. stmtOK allows a
// statement prelude for fallible calls; expression-only contexts get a
// panic bridge instead.
func (c *genCtx) leafValue(src string, convert bool, cls classify.Classification, wire schema.TypeRef, varName string, stmtOK bool) valueExpr {
	if !convert {
		return valueExpr{expr: src}
	}

	switch cls.Class {
	case classify.ClassPrimitive:
		if c.dir == wireToNative {
			return valueExpr{expr: c.typeString(cls.Ref) + "(" + src + ")"}
		}
		return valueExpr{expr: c.typeString(wire) + "(" + src + ")"}

	case classify.ClassNullable:
		return c.nullableValue(src, cls, wire)

	case classify.ClassEnum, classify.ClassCustom:
		return c.bridgeCall(src, cls.Ref, varName, stmtOK)

	default:
		// Wire-origin types assign as-is.
		return valueExpr{expr: src}
	}
}

// bridgeCall renders a call to a type's bridge function. A fallible
// callee inside a fallible routine propagates the error; anywhere else
// the failure escalates to a panic and a warning records the
// escalation.
func (c *genCtx) bridgeCall(src string, ref schema.TypeRef, varName string, stmtOK bool) valueExpr {
	call := c.convFuncName(ref) + "(" + src + ")"

	if c.dir == nativeToWire || !c.fallibleRef(ref) {
		return valueExpr{expr: call}
	}

	if stmtOK && c.fallible {
		prelude := fmt.Sprintf("\t%s, err := %s\n\tif err != nil {\n\treturn %s, err\n\t}\n",
			varName, call, c.zero)

		return valueExpr{prelude: prelude, expr: varName}
	}

	c.warnFallibleDependency(ref)

	return valueExpr{expr: fmt.Sprintf(
		"func() %s { v, err := %s; if err != nil { panic(err.Error()) }; return v }()",
		c.typeString(ref), call)}
}

// nullableValue rewraps a pointer value nil-aware, converting the
// pointee. This is the expression form for element and nested
// contexts; field-level pointer pairs use the statement form in
// renderNullableDirect.
func (c *genCtx) nullableValue(src string, cls classify.Classification, wire schema.TypeRef) valueExpr {
	inner := *cls.Inner
	wireInner := wire
	if wireInner.Kind == schema.RefKindPointer {
		wireInner = *wireInner.Elem
	}

	iv := c.leafValue("*"+src, true, inner, wireInner, "", false)

	return valueExpr{expr: fmt.Sprintf(
		"func() %s { if %s == nil { return nil }; v := %s; return &v }()",
		c.typeString(cls.Ref), src, iv.expr)}
}

// convFuncName is the bridge function name for a named type, qualified
// when the type lives outside the native package. External types are
// assumed to ship bridge functions alongside the type.
func (c *genCtx) convFuncName(ref schema.TypeRef) string {
	suffix := "FromWire"
	if c.dir == nativeToWire {
		suffix = "ToWire"
	}

	if c.localType(ref) {
		return ref.Name + suffix
	}

	return c.qualify(ref.PkgPath, "") + "." + ref.Name + suffix
}

// warnFallibleDependency records the panic escalation once per
// struct and dependency pair.
func (c *genCtx) warnFallibleDependency(ref schema.TypeRef) {
	key := c.sp.Schema.Name + "." + ref.Name
	if c.syn.warned[key] {
		return
	}
	c.syn.warned[key] = true

	c.syn.diags.AddWarning("fallible_dependency",
		fmt.Sprintf("conversion of %s can fail, failures inside %sFromWire escalate to a panic",
			ref.Name, c.sp.Schema.Name),
		c.sp.Schema.Name, c.field)
}
