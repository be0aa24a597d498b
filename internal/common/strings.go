package common

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a Go-style CamelCase identifier to snake_case,
// matching how schema compilers derive wire field names ("TrackId" ->
// "track_id", "URLPath" -> "url_path").
func ToSnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// ToGoName converts a snake_case wire field name to the exported Go
// identifier a schema compiler would generate for it ("track_id" ->
// "TrackId").
func ToGoName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	upperNext := true
	for _, r := range name {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// ToScreamingSnakeCase converts an identifier to SCREAMING_SNAKE_CASE,
// the convention wire enum variants use ("InProgress" -> "IN_PROGRESS").
func ToScreamingSnakeCase(name string) string {
	return strings.ToUpper(ToSnakeCase(name))
}
