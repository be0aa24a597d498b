package schema

import (
	"fmt"
	"go/types"
	"strings"

	"protobridge-generator/internal/diagnostic"
	"protobridge-generator/internal/match"
)

// checkFuncRefs validates the function and error-type references a
// struct's directives make against the native package scope. Unknown
// references are configuration errors; odd signatures only warn, the
// generated code's compiler has the final word.
func (l *Loader) checkFuncRefs(s *StructSchema, d *diagnostic.Diagnostics) {
	if s.ErrorType != "" {
		l.checkErrorType(s, d)
	}
	if s.ErrorFunc != "" {
		l.checkFunc(s.ErrorFunc, s.Name, "", funcShape{params: 1, results: 1}, d)
	}

	for _, f := range s.Fields {
		dir := f.Directives
		if dir.FromFunc != "" {
			l.checkFunc(dir.FromFunc, s.Name, f.Name, funcShape{params: 1, results: 1}, d)
		}
		if dir.ToFunc != "" {
			l.checkFunc(dir.ToFunc, s.Name, f.Name, funcShape{params: 1, results: 1}, d)
		}
		if dir.ErrorFunc != "" {
			l.checkFunc(dir.ErrorFunc, s.Name, f.Name, funcShape{params: 1, results: 1}, d)
		}
		if dir.DefaultFunc != "" {
			l.checkFunc(dir.DefaultFunc, s.Name, f.Name, funcShape{params: 0, results: 1}, d)
		}
	}
}

// funcShape is the arity a directive position expects.
type funcShape struct {
	params  int
	results int
}

// checkFunc validates one function reference. Qualified references
// (pkg.Fn) are trusted; the generated file's imports resolve them.
func (l *Loader) checkFunc(ref, structName, fieldName string, shape funcShape, d *diagnostic.Diagnostics) {
	if strings.Contains(ref, ".") {
		return
	}

	scope := l.native.Types.Scope()

	obj := scope.Lookup(ref)
	if obj == nil {
		d.AddError("unknown_function",
			fmt.Sprintf("function %s not found in %s", ref, l.native.PkgPath),
			structName, fieldName)

		if sugg := match.Suggest(ref, funcNames(scope)); len(sugg) > 0 {
			d.Errors[len(d.Errors)-1].Suggestions = sugg
		}
		return
	}

	fn, ok := obj.(*types.Func)
	if !ok {
		d.AddError("not_a_function",
			fmt.Sprintf("%s is not a function", ref),
			structName, fieldName)
		return
	}

	sig := fn.Type().(*types.Signature)
	if sig.Params().Len() != shape.params || sig.Results().Len() != shape.results {
		d.AddWarning("suspicious_signature",
			fmt.Sprintf("%s has signature %s, expected %d parameter(s) and %d result(s)",
				ref, sig, shape.params, shape.results),
			structName, fieldName)
	}
}

// checkErrorType validates a declared custom error type exists.
func (l *Loader) checkErrorType(s *StructSchema, d *diagnostic.Diagnostics) {
	scope := l.native.Types.Scope()

	obj := scope.Lookup(s.ErrorType)
	if obj == nil {
		d.AddError("unknown_error_type",
			fmt.Sprintf("error type %s not found in %s", s.ErrorType, l.native.PkgPath),
			s.Name, "")

		if sugg := match.Suggest(s.ErrorType, typeNames(scope)); len(sugg) > 0 {
			d.Errors[len(d.Errors)-1].Suggestions = sugg
		}
		return
	}

	if _, ok := obj.(*types.TypeName); !ok {
		d.AddError("not_a_type",
			fmt.Sprintf("%s is not a type", s.ErrorType),
			s.Name, "")
	}
}

// funcNames lists the function names in a scope.
func funcNames(scope *types.Scope) []string {
	var names []string
	for _, name := range scope.Names() {
		if _, ok := scope.Lookup(name).(*types.Func); ok {
			names = append(names, name)
		}
	}

	return names
}
