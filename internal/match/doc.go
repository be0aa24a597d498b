// Package match provides name normalization, Levenshtein distance
// calculation, and "did you mean" suggestion ranking for directive
// values that reference unknown wire fields or functions.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names against an unresolved one
package match
