// Package classify assigns every type reference to exactly one of seven
// structural classes consumed by strategy resolution.
//
// Classification rules, applied in order:
//  1. Configured primitive name → primitive
//  2. Pointer → nullable wrapper (contents classified recursively)
//  3. Slice → sequence (element classified recursively)
//  4. Map → map (key and value classified recursively)
//  5. Named type from the wire package → wire type
//  6. Named type present in the enum registry → enum
//  7. Anything else → custom type
//
// Classification is total: every reference gets a class and the same
// reference always gets the same class against the same registry state.
package classify
