// Package main provides the protobridge-generator CLI.
//
// protobridge-generator reads a YAML run configuration, loads the
// native and wire packages, resolves one conversion strategy per
// field, and writes one bridge file per declaration with the
// <Type>FromWire and <Type>ToWire routines.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"protobridge-generator/internal/diagnostic"
	"protobridge-generator/internal/emit"
	"protobridge-generator/internal/resolve"
	"protobridge-generator/internal/schema"
	"protobridge-generator/internal/trace"
)

var (
	configFlag   = flag.String("config", "bridge.yaml", "path to the run configuration")
	outFlag      = flag.String("out", "", "output directory (default: the native package directory)")
	dryRunFlag   = flag.Bool("dry-run", false, "print generated files instead of writing them")
	commentsFlag = flag.Bool("comments", false, "annotate generated assignments with their strategies")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "protobridge-generator:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := schema.LoadConfig(*configFlag)
	if err != nil {
		return err
	}

	tracer := trace.FromEnv()

	bundle, diags, err := schema.NewLoader(cfg).Load()
	if err != nil {
		return err
	}

	plan := resolve.NewResolver(resolve.Config{
		PrimitiveNames: cfg.PrimitiveNames(),
		WirePackage:    bundle.WirePath,
		Tracer:         tracer,
	}).Resolve(bundle)

	outDir := outputDir(cfg, bundle)

	files, err := emit.New(emit.Config{
		OutputDir: outDir,
		Comments:  *commentsFlag,
		Tracer:    tracer,
	}).Synthesize(plan)
	if err != nil {
		return err
	}

	diags.Merge(plan.Diagnostics)
	report(diags)

	if *dryRunFlag {
		for _, f := range files {
			fmt.Printf("=== %s ===\n", f.Filename)
			os.Stdout.Write(f.Content)
		}
	} else {
		if err := emit.WriteFiles(files, outDir); err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println("Generated:", filepath.Join(outDir, f.Filename))
		}
	}

	if n := failedDecls(diags); n > 0 {
		return fmt.Errorf("%d of %d declarations failed", n, len(cfg.Types))
	}

	return nil
}

// outputDir picks the destination: the -out flag wins, then the
// config's output entry, then the native package directory so
// generated conversions live beside the types they convert.
func outputDir(cfg *schema.Config, bundle *schema.Bundle) string {
	if *outFlag != "" {
		return *outFlag
	}
	if cfg.Output != "" {
		return cfg.Output
	}

	return bundle.NativeDir
}

// report prints every collected diagnostic to stderr, warnings first,
// each in collection order.
func report(d *diagnostic.Diagnostics) {
	for _, w := range d.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w.String())
	}
	for _, e := range d.Errors {
		fmt.Fprintln(os.Stderr, "error:", e.String())
	}
}

// failedDecls counts the declarations that collected at least one
// error and therefore produced no bridge file.
func failedDecls(d *diagnostic.Diagnostics) int {
	seen := make(map[string]struct{})
	for _, e := range d.Errors {
		seen[e.Struct] = struct{}{}
	}

	return len(seen)
}
