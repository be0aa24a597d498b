package classify

// Registry records the enum type names seen so far in one run. It is
// append-only and threaded explicitly through classification: a name
// must be registered before any struct referencing it is classified,
// otherwise the reference falls through to the custom class. The
// front end registers enums in declaration order, which makes that
// ordering requirement a visible precondition instead of hidden
// global state.
type Registry struct {
	names map[string]struct{}
}

// NewRegistry creates an empty enum registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Add records an enum type name. Adding a name twice is harmless.
func (r *Registry) Add(name string) {
	r.names[name] = struct{}{}
}

// Has reports whether the name has been registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.names)
}
