// Package diagnostic provides structured errors and warnings for the
// bridge generator's configuration surface.
//
// Key capabilities:
//   - Conflicting directive errors (mutually exclusive options)
//   - Unknown field / function reference errors with suggestions
//   - Optionality ambiguity reports naming the fixing annotations
//   - Per-struct error grouping so one bad struct never aborts the run
package diagnostic
