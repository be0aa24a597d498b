package emit

import (
	"fmt"
	"strings"

	"protobridge-generator/internal/classify"
	"protobridge-generator/internal/resolve"
	"protobridge-generator/internal/schema"
)

// renderCollection renders slice and map fields: allocate, loop,
// convert element-wise. A nullable native wrapper absorbs emptiness in
// both directions: the empty wire sequence reads back as the absent
// native state, and an absent native value writes the empty wire
// sequence.
func (c *genCtx) renderCollection(st *resolve.FieldStrategy) *assignmentData {
	f := st.Field
	src := c.srcExpr(f)
	tgt := c.tgtExpr(f)

	coll := st.Class
	if st.Nullable {
		coll = *st.Class.Inner
	}
	wireColl := c.wireColl(f)

	if c.dir == nativeToWire {
		if st.Nullable {
			loop := c.buildLoop(tgt, "(*"+src+")", st, coll, wireColl, 0, false)
			return blockData("\tif " + src + " != nil {\n" + loop + "\t}")
		}

		return blockData(c.buildLoop(tgt, src, st, coll, wireColl, 0, false))
	}

	if st.Mode == resolve.ErrorModeCustom {
		guard := fmt.Sprintf("\tif len(%s) == 0 {\n\treturn %s, %s(%q)\n\t}\n",
			src, c.zero, c.callRef(st.ErrorFunc), f.WireName)

		return blockData(guard + c.fromLoop(st, coll, wireColl, src, tgt))
	}

	body := c.fromLoop(st, coll, wireColl, src, tgt)

	if st.Nullable || st.UseDefault {
		block := "\tif len(" + src + ") != 0 {\n" + body + "\t}"
		if st.UseDefault && st.DefaultFunc != "" {
			block += " else {\n\t" + tgt + " = " + c.callRef(st.DefaultFunc) + "()\n\t}"
		}

		return blockData(block)
	}

	return blockData(body)
}

// fromLoop is the wire→native allocate-and-convert body, including the
// rewrap for nullable targets.
func (c *genCtx) fromLoop(st *resolve.FieldStrategy, coll classify.Classification, wireColl schema.TypeRef, src, tgt string) string {
	if !st.Nullable {
		return c.buildLoop(tgt, src, st, coll, wireColl, 0, false)
	}

	varName := localName(st.Field.Name)

	return c.buildLoop(varName, src, st, coll, wireColl, 0, true) +
		"\t" + tgt + " = &" + varName + "\n"
}

// buildLoop renders the allocate-and-convert loop for one collection
// level. declare allocates into a fresh local instead of assigning the
// target directly.
func (c *genCtx) buildLoop(tgt, src string, st *resolve.FieldStrategy, coll classify.Classification, wireColl schema.TypeRef, depth int, declare bool) string {
	if !wireColl.IsShape(schema.RefKindSlice, schema.RefKindMap) {
		wireColl = c.mirrorWire(coll.Ref)
	}

	makeType := c.typeString(coll.Ref)
	if c.dir == nativeToWire {
		makeType = c.typeString(wireColl)
	}

	assign := " = "
	if declare {
		assign = " := "
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "\t%s%smake(%s, len(%s))\n", tgt, assign, makeType, src)

	if st.IsMap {
		c.mapLoop(b, tgt, src, st, wireColl, depth)
	} else {
		c.sliceLoop(b, tgt, src, st, wireColl, depth)
	}

	return b.String()
}

func (c *genCtx) sliceLoop(b *strings.Builder, tgt, src string, st *resolve.FieldStrategy, wireColl schema.TypeRef, depth int) {
	idx := fmt.Sprintf("i_%d", depth)
	srcItem := src + "[" + idx + "]"
	tgtItem := tgt + "[" + idx + "]"

	fmt.Fprintf(b, "\tfor %s := range %s {\n", idx, src)
	b.WriteString(c.elementStmt(tgtItem, srcItem, st.Inner, elemRef(wireColl), fmt.Sprintf("v_%d", depth), depth))
	b.WriteString("\t}\n")
}

func (c *genCtx) mapLoop(b *strings.Builder, tgt, src string, st *resolve.FieldStrategy, wireColl schema.TypeRef, depth int) {
	key := fmt.Sprintf("k_%d", depth)
	val := fmt.Sprintf("v_%d", depth)

	fmt.Fprintf(b, "\tfor %s, %s := range %s {\n", key, val, src)

	keyExpr := key
	if st.Key != nil && st.Key.Convert {
		keyExpr = c.leafValue(key, true, st.Key.Class, keyRef(wireColl), "", false).expr
	}

	tgtItem := tgt + "[" + keyExpr + "]"
	b.WriteString(c.elementStmt(tgtItem, val, st.Inner, elemRef(wireColl), fmt.Sprintf("mv_%d", depth), depth))
	b.WriteString("\t}\n")
}

// elementStmt renders the statements converting one element into an
// indexed target. Elements recurse for nested collections; pointer
// elements rewrap nil-aware.
func (c *genCtx) elementStmt(tgt, src string, st *resolve.FieldStrategy, wire schema.TypeRef, varName string, depth int) string {
	switch {
	case st.Kind == resolve.StrategyCollection:
		return c.buildLoop(tgt, src, st, st.Class, wire, depth+1, false)

	case st.Nullable:
		return c.nullableElemStmt(tgt, src, st, wire, varName)

	default:
		v := c.leafValue(src, st.Convert, st.Class, wire, varName, true)
		return v.prelude + "\t" + tgt + " = " + v.expr + "\n"
	}
}

// nullableElemStmt converts a pointer element. The fallible form needs
// statement context; everything else uses the single-line rewrap
// literal.
func (c *genCtx) nullableElemStmt(tgt, src string, st *resolve.FieldStrategy, wire schema.TypeRef, varName string) string {
	inner := *st.Class.Inner

	if c.dir == wireToNative && c.fallible &&
		inner.Class == classify.ClassCustom && c.fallibleRef(inner.Ref) {
		wireInner := wire
		if wireInner.Kind == schema.RefKindPointer {
			wireInner = *wireInner.Elem
		}

		v := c.leafValue("*"+src, st.Convert, inner, wireInner, varName, true)

		return "\tif " + src + " != nil {\n" + presentAssign(tgt, v, true, varName) + "\t}\n"
	}

	v := c.leafValue(src, st.Convert, st.Class, wire, varName, false)

	return "\t" + tgt + " = " + v.expr + "\n"
}

// elemRef is the element type of a collection-shaped wire reference.
func elemRef(coll schema.TypeRef) schema.TypeRef {
	if coll.Elem != nil {
		return *coll.Elem
	}

	return schema.TypeRef{}
}

// keyRef is the key type of a map-shaped wire reference.
func keyRef(coll schema.TypeRef) schema.TypeRef {
	if coll.Key != nil {
		return *coll.Key
	}

	return schema.TypeRef{}
}
