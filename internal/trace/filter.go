package trace

import "strings"

// EnvVar controls tracing. "1", "true" or "all" traces every struct;
// "0", "false", "none" or an empty value disables tracing; anything
// else is a comma-separated pattern list.
const EnvVar = "PROTOBRIDGE_DEBUG"

type filterMode int

const (
	modeDisabled filterMode = iota
	modeAll
	modePatterns
)

// Filter decides which struct names produce trace output.
type Filter struct {
	mode     filterMode
	patterns []string
}

// ParseFilter interprets the environment variable value.
func ParseFilter(value string) Filter {
	switch value {
	case "1", "true", "all":
		return Filter{mode: modeAll}
	case "0", "false", "none", "":
		return Filter{mode: modeDisabled}
	}

	var patterns []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return Filter{mode: modeDisabled}
	}

	return Filter{mode: modePatterns, patterns: patterns}
}

// Enabled reports whether the given struct name is traced.
func (f Filter) Enabled(name string) bool {
	switch f.mode {
	case modeAll:
		return true
	case modePatterns:
		for _, p := range f.patterns {
			if matchPattern(p, name) {
				return true
			}
		}
	}

	return false
}

// matchPattern supports exact names plus three glob forms: "Track*"
// prefix, "*Request" suffix and "*User*" contains.
func matchPattern(pattern, name string) bool {
	if pattern == "all" || pattern == "*" || pattern == name {
		return true
	}

	if !strings.Contains(pattern, "*") {
		return false
	}

	switch {
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
		return strings.Contains(name, pattern[1:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(name, pattern[1:])
	default:
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}
}
