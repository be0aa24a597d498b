// Package schema is the generator's front end: it loads the native and
// wire packages, parses bridge struct tags and the YAML run
// configuration, and materializes one StructSchema per configured type
// with every field's wire-side presence resolved.
//
// The engine packages consume these schemas read-only. Order matters:
// declarations are built in configured order, and an enum is only
// visible to structs declared after it.
package schema
