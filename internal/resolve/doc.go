// Package resolve picks exactly one conversion strategy per field and
// the fallibility policy per struct.
//
// Precedence order, first match wins:
//  1. ignore directive or struct-level ignore list → ignore
//  2. custom conversion functions → custom (a missing direction falls
//     back to the strategy that would otherwise apply)
//  3. transparent directive → transparent, silently overriding custom
//     functions when both are present
//  4. sequence or map shape, optionally behind a nullable wrapper →
//     collection with a recursively resolved element strategy
//  5. default directive → option unwrap, forced so the default value
//     is reachable even when the two sides already agree
//  6. optionality mismatch (manual overrides win over observed shape)
//     → option unwrap with the expect-derived absence action
//  7. otherwise → direct
//
// Mutually exclusive directive pairs are configuration errors that
// abort the struct's synthesis and nothing else. The struct's
// wire→native routine is fallible iff at least one field resolves to
// an error-returning absence action; the native→wire direction is
// always infallible.
package resolve
