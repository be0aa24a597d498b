package emit

import (
	"text/template"

	"protobridge-generator/internal/common"
	"protobridge-generator/internal/resolve"
)

// enumData feeds the enum bridge template.
type enumData struct {
	PackageName string
	Imports     []importSpec
	Name        string
	WireType    string
	FromName    string
	ToName      string
	Cast        bool
	Pairs       []enumPair
}

type enumPair struct {
	Native string
	Wire   string
}

// enumFile renders one enum's bridge file: value tables in both
// directions, or bare numeric casts when no wire constants matched.
func (s *Synthesizer) enumFile(ep *resolve.EnumPlan) (*GeneratedFile, error) {
	e := ep.Schema
	s.tracer.Enter("synthesize", e.Name)
	defer s.tracer.Exit("synthesize", e.Name)

	alias := e.WirePkgName
	if alias == "" {
		alias = common.PkgAlias(e.WirePkg)
	}

	data := &enumData{
		PackageName: s.plan.Bundle.NativeName,
		Name:        e.Name,
		WireType:    alias + "." + e.WireName,
		FromName:    e.Name + "FromWire",
		ToName:      e.Name + "ToWire",
		Cast:        ep.CastFallback,
	}

	spec := importSpec{Path: e.WirePkg}
	if alias != common.PkgAlias(e.WirePkg) {
		spec.Alias = alias
	}
	data.Imports = []importSpec{spec}

	for _, v := range e.Variants {
		if v.WireConst == "" {
			continue
		}
		data.Pairs = append(data.Pairs, enumPair{
			Native: v.NativeConst,
			Wire:   alias + "." + v.WireConst,
		})
	}
	if len(data.Pairs) == 0 {
		data.Cast = true
	}

	filename := bridgeFilename(e.Name)

	file, err := s.render(enumBridgeTemplate, data, filename)
	if err != nil {
		return nil, err
	}
	s.tracer.Fragment(e.Name, filename, string(file.Content))

	return file, nil
}

// Template for the enum bridge file.

var enumBridgeTemplate = template.Must(template.New("enum_bridge").Parse(`// Code generated by protobridge-generator. DO NOT EDIT.

package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{if .Cast}}
// {{.FromName}} converts a wire {{.WireType}} value into a {{.Name}}.
// No wire constants matched by name, so the conversion is a numeric
// cast.
func {{.FromName}}(w {{.WireType}}) {{.Name}} {
	return {{.Name}}(w)
}

// {{.ToName}} converts a {{.Name}} into its wire value.
func {{.ToName}}(n {{.Name}}) {{.WireType}} {
	return {{.WireType}}(n)
}
{{else}}
// {{.FromName}} converts a wire {{.WireType}} value into a {{.Name}}.
// Unmatched wire values map to the {{.Name}} zero value.
func {{.FromName}}(w {{.WireType}}) {{.Name}} {
	switch w {
{{range .Pairs}}	case {{.Wire}}:
		return {{.Native}}
{{end}}	default:
		return {{.Name}}(0)
	}
}

// {{.ToName}} converts a {{.Name}} into its wire value. Unmatched
// values cast numerically.
func {{.ToName}}(n {{.Name}}) {{.WireType}} {
	switch n {
{{range .Pairs}}	case {{.Native}}:
		return {{.Wire}}
{{end}}	default:
		return {{.WireType}}(n)
	}
}
{{end}}
`))
