package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer writes a hierarchical log of engine decisions to a sink,
// filtered by struct name. It is a pure observer: nothing in the
// pipeline reads it back, so enabling it cannot change any result.
//
// A nil *Tracer is valid and silently discards everything, which lets
// pipeline stages carry an optional tracer without guarding each call.
type Tracer struct {
	out    io.Writer
	filter Filter
	depth  int
}

// New creates a Tracer writing to out.
func New(out io.Writer, filter Filter) *Tracer {
	return &Tracer{out: out, filter: filter}
}

// FromEnv builds a Tracer from the PROTOBRIDGE_DEBUG environment
// variable, writing to stderr. Returns nil when tracing is disabled.
func FromEnv() *Tracer {
	filter := ParseFilter(os.Getenv(EnvVar))
	if filter.mode == modeDisabled {
		return nil
	}

	return New(os.Stderr, filter)
}

// Enabled reports whether events for the given struct name are
// written.
func (t *Tracer) Enabled(name string) bool {
	if t == nil {
		return false
	}

	return t.filter.Enabled(name)
}

// Enter logs the start of a phase for one struct and increases the
// nesting depth. Depth tracks call structure for every struct, traced
// or not, so indentation stays consistent across filtered output.
func (t *Tracer) Enter(phase, name string) {
	if t == nil {
		return
	}

	if t.filter.Enabled(name) {
		fmt.Fprintf(t.out, "%sENTER %s [%s]\n", t.indent(), phase, name)
	}
	t.depth++
}

// Exit logs the end of a phase and decreases the nesting depth.
func (t *Tracer) Exit(phase, name string) {
	if t == nil {
		return
	}

	if t.depth > 0 {
		t.depth--
	}
	if t.filter.Enabled(name) {
		fmt.Fprintf(t.out, "%sEXIT  %s [%s]\n", t.indent(), phase, name)
	}
}

// Eventf logs a single formatted event under the current depth.
func (t *Tracer) Eventf(name, format string, args ...any) {
	if t == nil || !t.filter.Enabled(name) {
		return
	}

	fmt.Fprintf(t.out, "%s| %s\n", t.indent(), fmt.Sprintf(format, args...))
}

// Fragment logs a block of generated code with line numbers.
func (t *Tracer) Fragment(name, label, code string) {
	if t == nil || !t.filter.Enabled(name) {
		return
	}

	indent := t.indent()
	fmt.Fprintf(t.out, "%s| generated %s:\n", indent, label)
	for i, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		fmt.Fprintf(t.out, "%s|   %3d | %s\n", indent, i+1, line)
	}
}

func (t *Tracer) indent() string {
	return strings.Repeat("  ", t.depth)
}
