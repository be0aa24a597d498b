//go:build ignore

// Debug harness: runs the pipeline over the catalog demo from the
// module root and dumps the intermediate state of every stage.
//
//	go run cmd/protobridge-generator/debug_dump_catalog.go
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"protobridge-generator/internal/emit"
	"protobridge-generator/internal/resolve"
	"protobridge-generator/internal/schema"
)

func main() {
	cfg, err := schema.LoadConfig("./catalog/bridge.yaml")
	if err != nil {
		fmt.Println("load config:", err)
		os.Exit(1)
	}

	bundle, diags, err := schema.NewLoader(cfg).Load()
	if err != nil {
		fmt.Println("load packages:", err)
		os.Exit(1)
	}
	if diags.HasErrors() {
		fmt.Println("front-end diagnostics:")
		spew.Dump(diags)
		os.Exit(1)
	}

	plan := resolve.NewResolver(resolve.Config{
		PrimitiveNames: cfg.PrimitiveNames(),
		WirePackage:    bundle.WirePath,
	}).Resolve(bundle)

	spew.Dump(plan.Structs)
	spew.Dump(plan.Enums)

	files, err := emit.New(emit.Config{}).Synthesize(plan)
	if err != nil {
		fmt.Println("synthesize error:", err)
		spew.Dump(plan.Diagnostics)
		os.Exit(1)
	}

	for _, f := range files {
		fmt.Println("===", f.Filename, "===")
		fmt.Println(string(f.Content))
	}
}
