package main

import (
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/davecgh/go-spew/spew"

	goalter "github.com/reoring/goalter"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

func explainCmd(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("explain", flag.ExitOnError)
	var path string
	var raw bool
	fs.StringVar(&path, "alters", "", "alters definition (.yaml, .yml or .json)")
	fs.BoolVar(&raw, "raw", false, "also dump the parsed steps")
	_ = fs.Parse(args)
	if path == "" {
		fs.Usage()
		os.Exit(2)
	}
	alters, err := goalter.LoadAltersFile(path)
	if err != nil {
		return err
	}
	explain(w, alters, raw)
	return nil
}

// explain prints one line per property in the order Alter visits them, and
// flags operations it will treat as identity.
func explain(w io.Writer, alters goalter.AltersMap, raw bool) {
	for _, key := range slices.Sorted(maps.Keys(alters)) {
		chain := alters[key]
		fmt.Fprintf(w, "%s: %s\n", key, chain)
		for _, s := range chain {
			if !s.Op.Known() {
				fmt.Fprintf(w, "  ! unknown operation, value passes through unchanged\n")
			}
		}
	}
	if raw {
		dumpConfig.Fdump(w, alters)
	}
}
