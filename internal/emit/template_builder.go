package emit

import (
	"fmt"
	"sort"

	"protobridge-generator/internal/common"
	"protobridge-generator/internal/resolve"
	"protobridge-generator/internal/schema"
)

// bridgeData feeds the bridge file template.
type bridgeData struct {
	PackageName string
	Imports     []importSpec
	ErrorDef    string
	Routines    []routineData
}

// routineData is one conversion routine.
type routineData struct {
	Doc         []string
	Name        string
	Param       string
	ParamType   string
	ResultType  string
	Fallible    bool
	Assignments []assignmentData
}

// assignmentData is one field conversion inside a routine. Block holds
// a preformatted statement group; when it is empty the simple
// target = source form renders instead.
type assignmentData struct {
	Comment     string
	Block       string
	TargetField string
	SourceExpr  string
}

// importSpec describes an import of the generated file. Alias is set
// only when the binding name differs from the path-derived default.
type importSpec struct {
	Alias string
	Path  string
}

// direction distinguishes the two generated routines.
type direction int

const (
	wireToNative direction = iota
	nativeToWire
)

// genCtx carries per-routine synthesis state: the struct plan, the
// direction, and the import set shared by the enclosing file.
type genCtx struct {
	syn *Synthesizer
	sp  *resolve.StructPlan
	dir direction

	imports map[string]importSpec

	// fallible is set when the routine returns (value, error), which
	// lets nested fallible conversions propagate instead of panicking.
	fallible bool
	// zero is the routine's zero result literal for early error
	// returns.
	zero string
	// field is the name of the field currently being rendered, for
	// diagnostics raised from nested contexts.
	field string
}

// buildBridgeData assembles the template data for one struct: both
// routines over a shared import set.
func (s *Synthesizer) buildBridgeData(sp *resolve.StructPlan) *bridgeData {
	data := &bridgeData{PackageName: s.plan.Bundle.NativeName}
	if sp.SynthesizeError {
		data.ErrorDef = errorTypeDef(sp)
	}

	imports := make(map[string]importSpec)
	data.Routines = []routineData{
		s.buildRoutine(sp, wireToNative, imports),
		s.buildRoutine(sp, nativeToWire, imports),
	}
	data.Imports = sortedImports(imports)

	return data
}

// buildRoutine renders every field of one conversion direction.
func (s *Synthesizer) buildRoutine(sp *resolve.StructPlan, dir direction, imports map[string]importSpec) routineData {
	ctx := &genCtx{syn: s, sp: sp, dir: dir, imports: imports}

	wireType := ctx.wireQual() + "." + sp.Schema.WireName

	var r routineData
	if dir == wireToNative {
		r = routineData{
			Name:       sp.Schema.Name + "FromWire",
			Param:      "w",
			ParamType:  wireType,
			ResultType: sp.Schema.Name,
			Fallible:   sp.Mode == resolve.ModeFallible,
		}
	} else {
		r = routineData{
			Name:       sp.Schema.Name + "ToWire",
			Param:      "n",
			ParamType:  sp.Schema.Name,
			ResultType: wireType,
		}
	}
	ctx.fallible = r.Fallible
	ctx.zero = r.ResultType + "{}"
	r.Doc = routineDoc(sp, dir, wireType)

	for i := range sp.Fields {
		st := &sp.Fields[i]

		a := ctx.renderField(st)
		if a == nil {
			continue
		}
		if s.config.Comments && st.Rationale != "" {
			a.Comment = st.Field.Name + ": " + st.Rationale
		}
		r.Assignments = append(r.Assignments, *a)
	}

	return r
}

// srcExpr is the field access on the routine's parameter.
func (c *genCtx) srcExpr(f *schema.FieldSchema) string {
	if c.dir == wireToNative {
		return "w." + f.WireGoName
	}

	return "n." + f.Name
}

// tgtExpr is the field access on the routine's result.
func (c *genCtx) tgtExpr(f *schema.FieldSchema) string {
	if c.dir == wireToNative {
		return "out." + f.Name
	}

	return "out." + f.WireGoName
}

// routineDoc builds the doc comment lines for one routine.
func routineDoc(sp *resolve.StructPlan, dir direction, wireType string) []string {
	name := sp.Schema.Name
	if dir == nativeToWire {
		return []string{fmt.Sprintf("%sToWire converts a %s into its wire representation.", name, name)}
	}

	doc := []string{fmt.Sprintf("%sFromWire converts a wire %s into a %s.", name, wireType, name)}
	switch {
	case sp.Mode == resolve.ModeFallible:
		doc = append(doc, "It returns an error when a required wire value is absent.")
	case hasPanicField(sp):
		doc = append(doc, "It panics when a required wire value is absent.")
	}

	return doc
}

// hasPanicField reports whether any field aborts on an absent wire
// value in the wire→native direction.
func hasPanicField(sp *resolve.StructPlan) bool {
	for i := range sp.Fields {
		if sp.Fields[i].FromMode() == resolve.ErrorModePanic {
			return true
		}
	}

	return false
}

// sortedImports flattens the import set ordered by path.
func sortedImports(m map[string]importSpec) []importSpec {
	var out []importSpec
	for _, imp := range m {
		out = append(out, imp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}

// bridgeFilename derives the output filename for one declaration.
func bridgeFilename(name string) string {
	return common.ToSnakeCase(name) + "_bridge.go"
}
