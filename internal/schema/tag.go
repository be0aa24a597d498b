package schema

import (
	"fmt"
	"strings"
)

// TagKey is the struct-tag key carrying field directives.
const TagKey = "bridge"

// ParseFieldTag parses the bridge tag value into directives. The value
// is a comma-separated option list, e.g.
//
//	Id    TrackId `bridge:"transparent,name=track_id"`
//	Email string  `bridge:"wire_optional,expect"`
//
// Function references accept a bare path or a single-quoted string;
// both forms are equivalent.
func ParseFieldTag(tag string) (FieldDirectives, error) {
	var d FieldDirectives
	if tag == "" {
		return d, nil
	}

	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}

		key, value, hasValue := strings.Cut(opt, "=")
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		switch key {
		case "ignore":
			d.Ignore = true

		case "transparent":
			d.Transparent = true

		case "name":
			if value == "" {
				return d, fmt.Errorf("option %q requires a wire field name", key)
			}
			d.WireName = value

		case "from":
			if value == "" {
				return d, fmt.Errorf("option %q requires a function reference", key)
			}
			d.FromFunc = value

		case "to":
			if value == "" {
				return d, fmt.Errorf("option %q requires a function reference", key)
			}
			d.ToFunc = value

		case "wire_optional":
			d.WireOptional = true

		case "wire_required":
			d.WireRequired = true

		case "expect":
			switch value {
			case "":
				d.Expect = ExpectError
			case "error":
				d.Expect = ExpectError
			case "panic":
				d.Expect = ExpectPanic
			default:
				return d, fmt.Errorf("option expect accepts no value, %q or %q, got %q", "error", "panic", value)
			}

		case "error_fn":
			if value == "" {
				return d, fmt.Errorf("option %q requires a function reference", key)
			}
			d.ErrorFunc = value

		case "default":
			d.HasDefault = true
			if hasValue {
				if value == "" {
					return d, fmt.Errorf("option %q requires a function reference when given a value", key)
				}
				d.DefaultFunc = value
			}

		case "default_fn":
			if value == "" {
				return d, fmt.Errorf("option %q requires a function reference", key)
			}
			d.HasDefaultFn = true
			d.DefaultFunc = value

		default:
			return d, fmt.Errorf("unknown bridge option %q", key)
		}
	}

	return d, nil
}

// unquote strips one level of surrounding single quotes, the quoted
// spelling of function references inside struct tags.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}

	return s
}
