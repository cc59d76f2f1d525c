// Command ber_plotter draws BER curves from a simulation results table.
//
// The table is looked up at the configured primary path and, failing that,
// one directory above it. Rows are grouped by modulation and drawn as one
// line each on a logarithmic BER axis. The chart is shown in the system
// image viewer, or written to a PNG with -save.
//
// Usage:
//
//	ber_plotter [-variant snr|noise] [-config file.yaml] [-input path] [-fallback path]
//	            [-save] [-output path] [-pdf path] [-theme name] [-v]
package main

import (
	"flag"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/user/ber_plotter_go/internal/config"
	"github.com/user/ber_plotter_go/internal/logging"
	"github.com/user/ber_plotter_go/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, nil))
}

// run parses args, executes the pipeline and returns the process exit code.
func run(args []string, stderr io.Writer, open report.Opener) int {
	fs := flag.NewFlagSet("ber_plotter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	variant := fs.String("variant", config.VariantSNR, "independent variable of the table: snr or noise")
	configPath := fs.String("config", "", "YAML file overriding the variant defaults")
	input := fs.String("input", "", "results table (.csv or .xlsx); the fallback is derived from it unless -fallback is set")
	fallback := fs.String("fallback", "", "fallback results table")
	save := fs.Bool("save", false, "write the chart to -output instead of displaying it")
	output := fs.String("output", "", "PNG output path used with -save")
	pdfPath := fs.String("pdf", "", "also write a PDF summary report to this path")
	theme := fs.String("theme", "", "chart theme: "+strings.Join(report.ThemeNames(), ", "))
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := logging.NewWithWriter(stderr, *verbose)
	defer logging.Flush(logger)

	cfg, err := config.ForVariant(*variant)
	if err != nil {
		logger.Error("invalid arguments", zap.Error(err))
		return 2
	}
	if *configPath != "" {
		if cfg, err = config.Load(*configPath, cfg); err != nil {
			logger.Error("invalid configuration", zap.Error(err))
			return 2
		}
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["input"] {
		cfg.Input.PrimaryPath = *input
		cfg.Input.FallbackPath = ""
	}
	if set["fallback"] {
		cfg.Input.FallbackPath = *fallback
	}
	if set["save"] {
		cfg.Output.Save = *save
	}
	if set["output"] {
		cfg.Output.Path = *output
	}
	if set["pdf"] {
		cfg.Output.PDFPath = *pdfPath
	}
	if set["theme"] {
		cfg.Chart.Theme = *theme
	}

	if _, err := NewApp(cfg, logger, open).Run(); err != nil {
		logFailure(logger, err)
		return 1
	}
	return 0
}
