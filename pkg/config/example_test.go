package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/csvexpand/pkg/config"
)

func ExampleLoad_yaml() {
	ctx := context.Background()

	job := `
keyword: Toledo
replacements:
  builtin: es-provinces
inputs:
  - templates/**/*.csv
output:
  dir: out
`

	tmpDir, err := os.MkdirTemp("", "csvexpand-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, ".csvexpand.yaml")
	if err := os.WriteFile(path, []byte(job), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Println(cfg)
	fmt.Printf("Suffix: %s\n", cfg.Output.Suffix)

	// Output:
	// Toledo x [es-provinces] (1 inputs) -> out
	// Suffix: _localidades
}

func ExampleLoad_hcl() {
	ctx := context.Background()

	job := `
keyword = "Toledo"
inputs  = ["plantilla.csv"]

replacements {
  values = ["Madrid", "Cuenca", "Soria"]
}
`

	tmpDir, err := os.MkdirTemp("", "csvexpand-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "job.hcl")
	if err := os.WriteFile(path, []byte(job), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Println(cfg)

	// Output:
	// Toledo x [3 values] (1 inputs) -> .
}
