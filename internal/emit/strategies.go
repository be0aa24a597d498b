package emit

import (
	"fmt"
	"strings"

	"protobridge-generator/internal/classify"
	"protobridge-generator/internal/resolve"
)

// renderField renders one field strategy for the context's direction.
// A nil result means this direction emits nothing for the field.
func (c *genCtx) renderField(st *resolve.FieldStrategy) *assignmentData {
	if st.Field != nil {
		c.field = st.Field.Name
	}

	switch st.Kind {
	case resolve.StrategyIgnore:
		return c.renderIgnore(st)
	case resolve.StrategyCustom:
		return c.renderCustom(st)
	case resolve.StrategyTransparent:
		return c.renderTransparent(st)
	case resolve.StrategyCollection:
		return c.renderCollection(st)
	case resolve.StrategyOptionUnwrap:
		return c.renderUnwrap(st)
	default:
		return c.renderDirect(st)
	}
}

// renderIgnore emits nothing, except a default function result for the
// native side. The wire field stays at its zero value by omission, and
// so does the native field without a default.
func (c *genCtx) renderIgnore(st *resolve.FieldStrategy) *assignmentData {
	if c.dir == nativeToWire || !st.UseDefault || st.DefaultFunc == "" {
		return nil
	}

	return &assignmentData{
		TargetField: c.tgtExpr(st.Field),
		SourceExpr:  c.callRef(st.DefaultFunc) + "()",
	}
}

// renderCustom calls the user-supplied conversion function. A missing
// direction renders through the fallback strategy. With an unwrap the
// function receives the dereferenced wire value going native, and its
// result is rewrapped going wire.
func (c *genCtx) renderCustom(st *resolve.FieldStrategy) *assignmentData {
	fn := st.FromFunc
	if c.dir == nativeToWire {
		fn = st.ToFunc
	}
	if fn == "" {
		return c.renderField(st.Fallback)
	}

	conv := func(src string) valueExpr {
		return valueExpr{expr: c.callRef(fn) + "(" + src + ")"}
	}

	return c.renderPresence(st, conv)
}

// renderTransparent rewraps the single inner value of a wrapper type
// with a named cast, honoring wire optionality like any presence
// branch.
func (c *genCtx) renderTransparent(st *resolve.FieldStrategy) *assignmentData {
	target := st.Class
	if st.Wrap && target.Class == classify.ClassNullable {
		target = *target.Inner
	}
	base := c.wireBase(st.Field)

	conv := func(src string) valueExpr {
		if c.dir == wireToNative {
			return valueExpr{expr: c.typeString(target.Ref) + "(" + src + ")"}
		}
		return valueExpr{expr: c.typeString(base) + "(" + src + ")"}
	}

	return c.renderPresence(st, conv)
}

// renderUnwrap branches on wire presence around the payload
// conversion.
func (c *genCtx) renderUnwrap(st *resolve.FieldStrategy) *assignmentData {
	payload := st.Class
	if st.Wrap && payload.Class == classify.ClassNullable {
		payload = *payload.Inner
	}
	base := c.wireBase(st.Field)

	conv := func(src string) valueExpr {
		return c.leafValue(src, st.Convert, payload, base, localName(st.Field.Name), true)
	}

	return c.renderPresence(st, conv)
}

// renderDirect assigns, casts, or calls through to the value's bridge.
func (c *genCtx) renderDirect(st *resolve.FieldStrategy) *assignmentData {
	f := st.Field

	if !st.Nullable {
		v := c.leafValue(c.srcExpr(f), st.Convert, st.Class, c.wireBase(f), localName(f.Name), true)
		return foldAssign(c.tgtExpr(f), v, false, "")
	}

	if !st.Convert {
		// Same pointer type on both sides.
		return &assignmentData{TargetField: c.tgtExpr(f), SourceExpr: c.srcExpr(f)}
	}

	return c.renderNullableDirect(st)
}

// renderNullableDirect handles matching optionality on both sides with
// a pointee conversion: nil carries over, present values convert and
// rewrap.
func (c *genCtx) renderNullableDirect(st *resolve.FieldStrategy) *assignmentData {
	f := st.Field
	src := c.srcExpr(f)
	varName := localName(f.Name)

	conv := c.leafValue("*"+src, true, *st.Class.Inner, c.wireBase(f), varName, true)
	present := presentAssign(c.tgtExpr(f), conv, true, varName)

	return blockData("\tif " + src + " != nil {\n" + present + "\t}")
}

// renderPresence renders a field whose generated code may branch on
// source presence, with conv converting the payload.
func (c *genCtx) renderPresence(st *resolve.FieldStrategy, conv func(string) valueExpr) *assignmentData {
	if c.dir == nativeToWire {
		return c.presenceToWire(st, conv)
	}

	return c.presenceFromWire(st, conv)
}

func (c *genCtx) presenceFromWire(st *resolve.FieldStrategy, conv func(string) valueExpr) *assignmentData {
	f := st.Field
	src := c.srcExpr(f)
	tgt := c.tgtExpr(f)
	varName := localName(f.Name)

	switch {
	case st.Unwrap:
		present := presentAssign(tgt, conv("*"+src), st.Wrap, varName)
		return c.presenceBranch(st, src+" != nil", src+" == nil", present, tgt)

	case st.UseDefault:
		// A forced presence branch on a required wire value: the zero
		// value stands in for absent when the type distinguishes it.
		presentCond, absentCond, ok := zeroCheck(src, c.wireBase(f))
		if !ok {
			// No usable zero test, so the default cannot trigger.
			return foldAssign(tgt, conv(src), st.Wrap, varName)
		}
		present := presentAssign(tgt, conv(src), st.Wrap, varName)
		return c.presenceBranch(st, presentCond, absentCond, present, tgt)

	default:
		return foldAssign(tgt, conv(src), st.Wrap, varName)
	}
}

func (c *genCtx) presenceToWire(st *resolve.FieldStrategy, conv func(string) valueExpr) *assignmentData {
	f := st.Field
	src := c.srcExpr(f)
	tgt := c.tgtExpr(f)
	varName := localName(f.Name)

	switch {
	case st.Wrap:
		// Native nullable: convert the pointee when present. Absent
		// leaves the wire zero value, or nil when the wire side is
		// optional.
		present := presentAssign(tgt, conv("*"+src), st.Unwrap, varName)
		return blockData("\tif " + src + " != nil {\n" + present + "\t}")

	case st.Unwrap:
		// Wire optional, native required: always present, rewrap.
		return foldAssign(tgt, conv(src), true, varName)

	default:
		return foldAssign(tgt, conv(src), false, varName)
	}
}

// presenceBranch combines the present statements with the strategy's
// absence action. Default directives branch to the default value;
// error and panic modes guard first so the present path stays at
// statement level.
func (c *genCtx) presenceBranch(st *resolve.FieldStrategy, presentCond, absentCond, present, tgt string) *assignmentData {
	switch {
	case st.UseDefault && st.DefaultFunc != "":
		return blockData("\tif " + presentCond + " {\n" + present + "\t} else {\n\t" +
			tgt + " = " + c.callRef(st.DefaultFunc) + "()\n\t}")

	case st.UseDefault:
		// Absent keeps the zero value.
		return blockData("\tif " + presentCond + " {\n" + present + "\t}")

	default:
		return blockData("\tif " + absentCond + " {\n\t" + c.absenceStmt(st) + "\n\t}\n" + present)
	}
}

// absenceStmt is the statement for an absent required wire value.
func (c *genCtx) absenceStmt(st *resolve.FieldStrategy) string {
	f := st.Field
	switch st.Mode {
	case resolve.ErrorModeAuto:
		return fmt.Sprintf("return %s, new%s(%q)", c.zero, c.sp.ErrorType, f.WireName)
	case resolve.ErrorModeCustom:
		return fmt.Sprintf("return %s, %s(%q)", c.zero, c.callRef(st.ErrorFunc), f.WireName)
	default:
		return fmt.Sprintf("panic(%q)", "wire field "+f.WireName+" is required")
	}
}

// presentAssign renders statements assigning a converted present
// value, rewrapping into a pointer when wrap is set.
func presentAssign(tgt string, v valueExpr, wrap bool, varName string) string {
	if !wrap {
		return v.prelude + "\t" + tgt + " = " + v.expr + "\n"
	}

	if v.prelude != "" && v.expr == varName {
		return v.prelude + "\t" + tgt + " = &" + varName + "\n"
	}

	return v.prelude + "\t" + varName + " := " + v.expr + "\n\t" + tgt + " = &" + varName + "\n"
}

// foldAssign folds a converted value into assignment data: the simple
// template form when possible, a block otherwise.
func foldAssign(tgt string, v valueExpr, wrap bool, varName string) *assignmentData {
	if !wrap && v.prelude == "" {
		return &assignmentData{TargetField: tgt, SourceExpr: v.expr}
	}

	return blockData(presentAssign(tgt, v, wrap, varName))
}

func blockData(block string) *assignmentData {
	return &assignmentData{Block: strings.TrimSuffix(block, "\n")}
}
