package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"protobridge-generator/internal/diagnostic"
	"protobridge-generator/internal/resolve"
	"protobridge-generator/internal/schema"
	"protobridge-generator/internal/trace"
)

// Config holds synthesizer settings.
type Config struct {
	// OutputDir is where the caller intends to write the files. It is
	// used only for the unformatted-code sidecar on formatting
	// failures; writing the real files is WriteFiles' job.
	OutputDir string
	// Comments adds a per-field comment naming the resolved strategy.
	Comments bool
	// Tracer receives the synthesis trace. Nil disables tracing.
	Tracer *trace.Tracer
}

// GeneratedFile represents one generated source file.
type GeneratedFile struct {
	Filename string
	Content  []byte
}

// Synthesizer renders resolved conversion plans into bridge files, one
// per declaration.
type Synthesizer struct {
	config Config
	tracer *trace.Tracer

	plan     *resolve.Plan
	diags    *diagnostic.Diagnostics
	fallible map[string]bool
	warned   map[string]bool
}

// New creates a Synthesizer.
func New(config Config) *Synthesizer {
	return &Synthesizer{config: config, tracer: config.Tracer}
}

// Synthesize renders every declaration in the plan, in front-end
// order, and returns the generated files. Structs the resolver aborted
// have no plan entry and produce no file. Warnings raised during
// synthesis are appended to the plan's diagnostics.
func (s *Synthesizer) Synthesize(p *resolve.Plan) ([]GeneratedFile, error) {
	s.plan = p
	s.diags = &p.Diagnostics
	s.warned = make(map[string]bool)

	structs := make(map[string]*resolve.StructPlan, len(p.Structs))
	s.fallible = make(map[string]bool, len(p.Structs))
	for i := range p.Structs {
		sp := &p.Structs[i]
		structs[sp.Schema.Name] = sp
		s.fallible[sp.Schema.Name] = sp.Mode == resolve.ModeFallible
	}

	enums := make(map[string]*resolve.EnumPlan, len(p.Enums))
	for i := range p.Enums {
		enums[p.Enums[i].Schema.Name] = &p.Enums[i]
	}

	var files []GeneratedFile

	for _, decl := range p.Bundle.Decls {
		switch decl.Kind {
		case schema.DeclStruct:
			sp, ok := structs[decl.Struct.Name]
			if !ok {
				s.tracer.Eventf(decl.Struct.Name, "skipped %s: aborted by resolution", decl.Struct.Name)
				continue
			}

			file, err := s.structFile(sp)
			if err != nil {
				return nil, fmt.Errorf("synthesizing %s: %w", decl.Struct.Name, err)
			}
			files = append(files, *file)

		case schema.DeclEnum:
			ep, ok := enums[decl.Enum.Name]
			if !ok {
				continue
			}

			file, err := s.enumFile(ep)
			if err != nil {
				return nil, fmt.Errorf("synthesizing %s: %w", decl.Enum.Name, err)
			}
			files = append(files, *file)
		}
	}

	return files, nil
}

// structFile renders one struct's bridge file: the wire→native and
// native→wire routines, plus the synthesized error type when the plan
// asks for one.
func (s *Synthesizer) structFile(sp *resolve.StructPlan) (*GeneratedFile, error) {
	name := sp.Schema.Name
	s.tracer.Enter("synthesize", name)
	defer s.tracer.Exit("synthesize", name)

	data := s.buildBridgeData(sp)
	filename := bridgeFilename(name)

	file, err := s.render(bridgeTemplate, data, filename)
	if err != nil {
		return nil, err
	}
	s.tracer.Fragment(name, filename, string(file.Content))

	return file, nil
}

// render executes a template and formats the result. On a formatting
// failure the unformatted code is written to a sidecar file next to
// the intended output to aid debugging.
func (s *Synthesizer) render(tmpl *template.Template, data any, filename string) (*GeneratedFile, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: keep the unformatted code around, the write
		// attempt itself stays non-fatal.
		if s.config.OutputDir != "" {
			_ = writeDebugUnformatted(s.config.OutputDir, filename, buf.Bytes())
		}

		return nil, fmt.Errorf("formatting %s: %w", filename, err)
	}

	return &GeneratedFile{Filename: filename, Content: formatted}, nil
}

// errorTypeDef renders the synthesized conversion error type: one
// exported struct carrying the missing wire field name, plus the
// unexported constructor the generated routine calls.
func errorTypeDef(sp *resolve.StructPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "// %s is the error %sFromWire returns when a required wire value is absent.\n",
		sp.ErrorType, sp.Schema.Name)
	fmt.Fprintf(&b, "type %s struct {\n", sp.ErrorType)
	b.WriteString("\t// MissingField is the wire name of the absent field.\n")
	b.WriteString("\tMissingField string\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "func new%s(field string) *%s {\n", sp.ErrorType, sp.ErrorType)
	fmt.Fprintf(&b, "\treturn &%s{MissingField: field}\n", sp.ErrorType)
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "func (e *%s) Error() string {\n", sp.ErrorType)
	b.WriteString("\treturn \"missing required field: \" + e.MissingField\n")
	b.WriteString("}")

	return b.String()
}

// Template for the struct bridge file.

var bridgeTemplate = template.Must(template.New("bridge").Parse(`// Code generated by protobridge-generator. DO NOT EDIT.

package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{if .ErrorDef}}
{{.ErrorDef}}
{{end}}
{{range .Routines}}
{{range .Doc}}// {{.}}
{{end}}func {{.Name}}({{.Param}} {{.ParamType}}) {{if .Fallible}}({{.ResultType}}, error){{else}}{{.ResultType}}{{end}} {
	out := {{.ResultType}}{}
{{range .Assignments}}
{{if .Comment}}	// {{.Comment}}
{{end}}{{if .Block}}{{.Block}}
{{else}}	{{.TargetField}} = {{.SourceExpr}}
{{end}}{{end}}
	return out{{if .Fallible}}, nil{{end}}
}
{{end}}
`))
