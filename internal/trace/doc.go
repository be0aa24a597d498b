// Package trace is the observation tap for the generation pipeline.
//
// Output is gated by the PROTOBRIDGE_DEBUG environment variable and
// filtered per struct name, so a run over a large bundle can be
// narrowed to the one struct under investigation. The tracer never
// feeds anything back into the pipeline; with tracing on or off,
// every resolved strategy and generated file is identical.
package trace
