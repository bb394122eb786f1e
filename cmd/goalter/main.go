package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	sub := os.Args[1]
	var err error
	switch sub {
	case "run":
		err = runCmd(os.Args[2:])
	case "gen":
		err = genCmd(os.Args[2:])
	case "explain":
		err = explainCmd(os.Args[2:], os.Stdout)
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fatalf("goalter %s: %v", sub, err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `goalter CLI

Usage:
  goalter run -alters alters.yaml [-project goalter.yaml] [-in docs.json] [-o out.json] [-report] [-lang fr]
  goalter gen -type T1[,T2,...] -o out.go [-dir ./path/to/pkg]
  goalter explain -alters alters.yaml

Notes:
  - run reads a JSON document (a map or a list of maps) from -in or stdin.
  - stores named by get steps come from the project file (fixture or mongo).
  - hydrators are registered in Go code (see gen); run has none, so hydrate
    steps leave values unchanged and report an unresolved issue.`)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
