package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	json "github.com/goccy/go-json"

	goalter "github.com/reoring/goalter"
	"github.com/reoring/goalter/i18n"
)

type runOptions struct {
	alters  string
	project string
	in      string
	out     string
	lang    string
	report  bool
	strict  bool
	verbose bool
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var o runOptions
	fs.StringVar(&o.alters, "alters", "", "alters definition (.yaml, .yml or .json)")
	fs.StringVar(&o.project, "project", "", "project file (default ./"+defaultProjectFile+" when present)")
	fs.StringVar(&o.in, "in", "-", "input JSON document, - for stdin")
	fs.StringVar(&o.out, "o", "-", "output file, - for stdout")
	fs.StringVar(&o.lang, "lang", "", "issue message language (en, fr)")
	fs.BoolVar(&o.report, "report", false, "wrap the output as {document, issues}")
	fs.BoolVar(&o.strict, "strict", false, "refuse input with duplicate object keys")
	fs.BoolVar(&o.verbose, "v", false, "log at debug level")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(newTermHandler(os.Stderr, level)).With("component", "goalter")
	return run(ctx, o, os.Stdin, os.Stdout, logger)
}

func run(ctx context.Context, o runOptions, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	project, err := openProject(o.project)
	if err != nil {
		return err
	}
	altersPath := o.alters
	lang := o.lang
	if project != nil {
		if altersPath == "" {
			altersPath = project.path(project.Alters)
		}
		if lang == "" {
			lang = project.Language
		}
	}
	if altersPath == "" {
		return errors.New("no alters definition: pass -alters or set alters in the project file")
	}
	if lang != "" {
		i18n.SetLanguage(lang)
	}
	alters, err := goalter.LoadAltersFile(altersPath)
	if err != nil {
		return err
	}
	logger.Debug("alters loaded", "path", altersPath, "properties", len(alters))

	var container goalter.Container
	if project != nil {
		svc, closeFn, err := project.Services()
		if err != nil {
			return err
		}
		defer func() {
			if err := closeFn(context.Background()); err != nil {
				logger.Error("closing stores", "error", err)
			}
		}()
		container = svc
	}

	doc, err := readDocument(o.in, stdin, o.strict, logger)
	if err != nil {
		return err
	}
	eng := goalter.New(goalter.Config{Container: container, Logger: logger})
	out, issues, err := eng.AlterWithReport(ctx, doc, alters)
	if err != nil {
		return err
	}
	logger.Debug("alter done", "issues", len(issues))

	var payload any = out
	if o.report {
		payload = reportOf(out, issues)
	}
	return writeDocument(o.out, stdout, payload)
}

func openProject(path string) (*Project, error) {
	if path != "" {
		return LoadProject(path)
	}
	if _, err := os.Stat(defaultProjectFile); err == nil {
		return LoadProject(defaultProjectFile)
	}
	return nil, nil
}

// readDocument decodes the input document. Duplicate object keys are logged,
// or refused when strict is set.
func readDocument(path string, stdin io.Reader, strict bool, logger *slog.Logger) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	dups, _ := goalter.DuplicateKeys(data, 0)
	if len(dups) > 0 && strict {
		return nil, fmt.Errorf("input: %w", dups)
	}
	for _, d := range dups {
		logger.Warn("duplicate key in input", "path", d.Path, "message", d.Message)
	}
	return doc, nil
}

func writeDocument(path string, stdout io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

type issueReport struct {
	Path    string `json:"path"`
	Op      string `json:"op"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
	// Value is what the property holds after the pass.
	Value any `json:"value,omitempty"`
}

type runReport struct {
	Document any           `json:"document"`
	Issues   []issueReport `json:"issues"`
}

func reportOf(doc any, issues goalter.Issues) runReport {
	r := runReport{Document: doc, Issues: make([]issueReport, 0, len(issues))}
	for _, iss := range issues {
		ir := issueReport{Path: iss.Path, Op: iss.Op.String(), Code: iss.Code, Message: iss.Message}
		if iss.Cause != nil {
			ir.Cause = iss.Cause.Error()
		}
		ir.Value, _ = goalter.Lookup(doc, iss.Path)
		r.Issues = append(r.Issues, ir)
	}
	return r
}
