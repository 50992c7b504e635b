// testreport converts libtest JSON test output into an HTML report.
//
// Usage:
//
//	cargo test -- -Z unstable-options --format json | testreport -o report.html
//	testreport -i results.json -o report.html -repo owner/name -ref v1.2.0
//	testreport -i results.json -format json
//
// Input lines that are not test events (compiler output, logs) are kept in
// the report's "Other Output" section; broken event lines are listed as
// errors. Exit status is 0 when a report was written and 2 on usage or I/O
// errors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/dkoosis/testreport/internal/config"
	"github.com/dkoosis/testreport/internal/detect"
	"github.com/dkoosis/testreport/internal/version"
	"github.com/dkoosis/testreport/pkg/convert"
	"github.com/dkoosis/testreport/pkg/render"
	"github.com/dkoosis/testreport/pkg/testjson"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("testreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var input, output string
	fs.StringVar(&input, "input", "-", "Input file (use - for stdin)")
	fs.StringVar(&input, "i", "-", "Shorthand for -input")
	fs.StringVar(&output, "output", "-", "Output file (use - for stdout)")
	fs.StringVar(&output, "o", "-", "Shorthand for -output")
	var flags config.Flags
	fs.StringVar(&flags.ConfigPath, "config", "", "Config file (default: search for "+config.FileName+")")
	fs.StringVar(&flags.Title, "title", "", "Report title")
	fs.StringVar(&flags.Format, "format", "", "Output format: html, json")
	fs.StringVar(&flags.Template, "template", "", "Custom HTML template file")
	fs.StringVar(&flags.Theme, "theme", "", "Terminal summary theme: default, mono")
	fs.StringVar(&flags.Repo, "repo", "", "GitHub repository (owner/name) for source links")
	fs.StringVar(&flags.Ref, "ref", "", "Branch, tag, or commit for source links (default main)")
	fs.StringVar(&flags.LinkPattern, "link-pattern", "", "Source link URL template with {file} and {line}")
	fs.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "debug" {
			flags.DebugSet = true
		}
	})

	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "testreport", Level: log.WarnLevel})

	cfg, err := config.Resolve(flags, os.Getenv)
	if err != nil {
		logger.Error("resolving configuration", "err", err)
		return 2
	}
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	logger.Debug("configuration resolved",
		"file", cfg.ConfigPath, "format", cfg.Format,
		"title_source", cfg.TitleSource, "link_source", cfg.LinkSource)

	data, err := readInput(input, stdin)
	if err != nil {
		logger.Error("reading input", "err", err)
		return 2
	}
	switch detect.Sniff(data) {
	case detect.GoTestJSON:
		logger.Warn("input looks like go test -json output; its lines will be reported as errors")
	case detect.Unknown:
		logger.Debug("no test events found in input", "bytes", len(data))
	}

	renderer, err := selectRenderer(cfg)
	if err != nil {
		logger.Error("loading template", "err", err)
		return 2
	}

	results := testjson.Classify(string(data))
	stats := testjson.ComputeStats(results)
	logger.Debug("classified input",
		"passed", stats.Passed, "failed", stats.Failed, "ignored", stats.Ignored,
		"errors", stats.Errors, "raw", stats.RawLines)

	convCfg := convert.Config{Resolver: cfg.Resolver(), Title: cfg.Title, Renderer: renderer}
	if err := writeReport(results, convCfg, output, summaryRenderer(stderr, cfg.Theme), stdout, stderr); err != nil {
		logger.Error("writing output", "err", err)
		return 2
	}
	return 0
}

// writeReport renders results to output ("-" for stdout). A file output is
// followed by a summary on stderr built from the same model, so each source
// reference is resolved once.
func writeReport(results *testjson.Results, cfg convert.Config, output string, summary render.Renderer, stdout, stderr io.Writer) error {
	m := convert.Model(results, cfg)
	doc := convert.RenderModel(m, cfg)

	if output == "-" {
		if _, err := io.WriteString(stdout, doc); err != nil {
			return fmt.Errorf("writing stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(output, []byte(doc), 0o644); err != nil { //nolint:gosec // report is meant to be shared
		return fmt.Errorf("writing %s: %w", output, err)
	}

	text, _ := summary.Render(m)
	fmt.Fprintf(stderr, "Report written to %s\n%s", output, text)
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func selectRenderer(cfg *config.Resolved) (render.Renderer, error) {
	if cfg.Format == config.FormatJSON {
		return render.NewJSON(), nil
	}
	if cfg.Template == "" {
		return render.NewHTML(), nil
	}
	text, err := os.ReadFile(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return render.ParseHTML(cfg.Template, string(text))
}

// summaryRenderer uses the named theme only when w is a color-capable
// terminal; anything else gets the mono theme.
func summaryRenderer(w io.Writer, theme string) *render.Terminal {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || os.Getenv("NO_COLOR") != "" {
		return render.NewTerminal(render.ThemeByName("mono"), 80)
	}
	width := 80
	if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
		width = tw
	}
	return render.NewTerminal(render.ThemeByName(theme), width)
}
