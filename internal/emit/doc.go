// Package emit turns conversion plans into Go source files.
//
// Synthesis uses text/template + go/format, one bridge file per
// declaration, with both conversion directions side by side.
//
// Fragment forms:
//   - Direct assignment with optional cast
//   - Presence branch on wire optionality (panic, error, or default)
//   - Pointer lift/deref with nil checks
//   - Slice and map mapping (make, loop, per-element conversion)
//   - Nested bridge calls (composed generated conversions)
//   - Custom conversion function calls
//   - Enum switch tables with numeric cast fallback
package emit
