package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gnemet/gridengine"
	"github.com/gnemet/gridengine/internal/renderers"
)

func main() {
	schema := flag.String("schema", "", "external schema file (default: the built-in catalog schema)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: grid-validator [-schema schema.json] <catalog_path1> [catalog_path2] ...")
		os.Exit(1)
	}

	var schemaPath string
	if *schema != "" {
		p, err := filepath.Abs(*schema)
		if err != nil {
			log.Fatalf("Invalid schema path: %v", err)
		}
		schemaPath = p
	}

	allValid := true
	for _, arg := range flag.Args() {
		name := filepath.Base(arg)
		if err := validate(schemaPath, arg); err != nil {
			allValid = false
			var verr *gridengine.ValidationError
			if !errors.As(err, &verr) {
				fmt.Printf("❌ Error validating %s: %v\n", name, err)
				continue
			}
			fmt.Printf("❌ %s is invalid!\n", name)
			for _, d := range verr.Details {
				fmt.Printf("   - %s\n", d)
			}
			continue
		}
		fmt.Printf("✅ %s is valid.\n", name)
	}

	if !allValid {
		os.Exit(1)
	}
}

// validate checks the catalog against the schema, then builds its column structure so
// structural rules the schema cannot express are reported too.
func validate(schemaPath, catalogPath string) error {
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return err
	}
	if schemaPath != "" {
		if err := gridengine.ValidateCatalogWith(schemaPath, data); err != nil {
			return err
		}
	}
	cat, err := gridengine.ParseCatalog(data)
	if err != nil {
		return err
	}
	_, err = cat.Structure(renderers.Registry)
	return err
}
