package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	gen "github.com/reoring/goalter/internal/gen"
)

func genCmd(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var typesCSV, out, dir string
	fs.StringVar(&typesCSV, "type", "", "comma-separated struct type names")
	fs.StringVar(&out, "o", "", "output filename")
	fs.StringVar(&dir, "dir", ".", "directory of the package declaring the types")
	_ = fs.Parse(args)
	if typesCSV == "" || out == "" {
		fs.Usage()
		os.Exit(2)
	}
	return generate(dir, splitCSV(typesCSV), out)
}

// generate writes the hydration functions for types into out.
func generate(dir string, types []string, out string) error {
	if len(types) == 0 {
		return errors.New("no types given")
	}
	pkg, err := gen.Collect(dir, types)
	if err != nil {
		return err
	}
	for _, s := range pkg.Skipped {
		fmt.Fprintf(os.Stderr, "goalter gen: skipped %s\n", s)
	}
	code, err := gen.Render(pkg)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(out, code, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
