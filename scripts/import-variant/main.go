// Command import-variant converts an OpenAPI component schema into a variant
// definition YAML file, ready to drop into a catalog directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	modelsource "github.com/agrodocs/docforge/pkg/modelsource/openapi"
)

func main() {
	var (
		schemaPath = flag.String("schema", "", "OpenAPI document path")
		component  = flag.String("component", "", "component schema name to import")
		variantID  = flag.String("variant", "", "variant id for the generated definition")
		outputPath = flag.String("output", "", "output path (stdout if empty)")
	)
	flag.Parse()

	if *schemaPath == "" || *component == "" || *variantID == "" {
		log.Fatal("-schema, -component, and -variant are required")
	}

	data, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("read schema: %v", err)
	}

	m, err := modelsource.New().ImportModel(context.Background(), data, *component, *variantID)
	if err != nil {
		log.Fatalf("import: %v", err)
	}

	payload, err := yaml.Marshal(m)
	if err != nil {
		log.Fatalf("encode variant: %v", err)
	}

	if *outputPath == "" {
		fmt.Print(string(payload))
		return
	}
	if err := os.WriteFile(*outputPath, payload, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf("Variant written to %s\n", *outputPath)
}
