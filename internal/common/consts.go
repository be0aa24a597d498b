package common

const (
	// UnknownStr is the placeholder used in diagnostics when a struct or
	// field name is not available.
	UnknownStr = "<unknown>"

	// InterfaceTypeStr is the rendered form of the empty interface type.
	InterfaceTypeStr = "interface{}"
)
