package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/ber_plotter_go/internal/analysis"
	"github.com/user/ber_plotter_go/internal/config"
	"github.com/user/ber_plotter_go/internal/logging"
	"github.com/user/ber_plotter_go/internal/parser"
	"github.com/user/ber_plotter_go/internal/report"
)

// headRows is how many parsed rows are echoed at debug level.
const headRows = 5

// App runs the locate, load, normalize, organize and render pipeline once.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	open   report.Opener
}

// Result describes what a successful run produced.
type Result struct {
	DataPath    string
	Series      []analysis.Series
	Bounds      analysis.AxisBounds
	OutputPath  string // saved PNG, "" in display mode
	DisplayPath string // temporary PNG handed to the viewer
	PDFPath     string
}

// NewApp creates an App. A nil opener uses the system image viewer.
func NewApp(cfg config.Config, logger *zap.Logger, open report.Opener) *App {
	if open == nil {
		open = report.SystemViewer
	}
	return &App{cfg: cfg, logger: logging.OrNop(logger), open: open}
}

// Run executes the pipeline. Every stage failure ends the run; nothing is
// drawn before the table has been located, loaded and validated.
func (a *App) Run() (*Result, error) {
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := report.ParsePalette(cfg.Chart.Palette); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dataPath, err := parser.Locate(cfg.Input.PrimaryPath, cfg.Fallback(), a.logger)
	if err != nil {
		return nil, err
	}

	raw, err := parser.LoadRaw(dataPath)
	if err != nil {
		return nil, err
	}
	a.logger.Info("data loaded",
		zap.String("path", dataPath),
		zap.Int("rows", len(raw.Records)),
		zap.Strings("columns", raw.Header))

	table, err := parser.Parse(raw, cfg.Input.XColumn)
	if err != nil {
		return nil, err
	}
	for i, row := range table.Rows {
		if i == headRows {
			break
		}
		a.logger.Debug("row",
			zap.Int("index", i),
			zap.String("modulation", row.Modulation),
			zap.Float64(cfg.Input.XColumn, row.X),
			zap.Float64("ber", row.BER))
	}

	normalized := analysis.Normalize(table, cfg.Bounds.FloorBER)
	bounds := analysis.ComputeAxisBounds(normalized, cfg.Bounds)
	if bounds.FromFloor {
		a.logger.Info("no non-zero BER in data, lower axis bound derived from the floor value",
			zap.Float64("floor", cfg.Bounds.FloorBER),
			zap.Float64("lower", bounds.Lower))
	}

	series := analysis.OrganizeSeries(normalized, cfg.Chart.Priority)
	for _, sum := range analysis.Summarize(series) {
		a.logger.Debug("series",
			zap.String("modulation", sum.Modulation),
			zap.Int("points", sum.Points),
			zap.Float64("x_min", sum.XMin),
			zap.Float64("x_max", sum.XMax),
			zap.Float64("min_true_ber", sum.MinTrueBER),
			zap.Int("zero_error_points", sum.ZeroErrorPoints))
	}

	p, err := report.CreateBERPlot(series, bounds, cfg.Chart, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	img, err := report.EncodePNG(p, cfg.Chart.WidthInches, cfg.Chart.HeightInches, cfg.Chart.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	res := &Result{DataPath: dataPath, Series: series, Bounds: bounds}

	if cfg.Output.Save {
		if err := report.SavePNG(img, cfg.Output.Path); err != nil {
			return res, err
		}
		res.OutputPath = cfg.Output.Path
		a.logger.Info("plot saved", zap.String("output", cfg.Output.Path), zap.Int("dpi", cfg.Chart.DPI))
	} else {
		a.logger.Info("displaying plot")
		path, err := report.Display(img, a.open)
		res.DisplayPath = path
		if err != nil {
			return res, err
		}
	}

	if cfg.Output.PDFPath != "" {
		err := report.BuildPDFReport(cfg.Output.PDFPath, report.ReportInput{
			Title:         cfg.Chart.Title,
			Source:        dataPath,
			XColumn:       cfg.Input.XColumn,
			Bounds:        bounds,
			Summaries:     analysis.Summarize(series),
			ChartPNG:      img,
			ChartWidthIn:  cfg.Chart.WidthInches,
			ChartHeightIn: cfg.Chart.HeightInches,
		})
		if err != nil {
			return res, err
		}
		res.PDFPath = cfg.Output.PDFPath
		a.logger.Info("PDF report saved", zap.String("output", cfg.Output.PDFPath))
	}
	return res, nil
}

// logFailure reports a pipeline error with the fields of its category.
func logFailure(logger *zap.Logger, err error) {
	var (
		notFound *parser.NotFoundError
		loadErr  *parser.LoadError
		schema   *parser.SchemaError
		saveErr  *report.SaveError
	)
	switch {
	case errors.As(err, &notFound):
		logger.Error("data file not found",
			zap.String("primary", notFound.Primary),
			zap.String("fallback", notFound.Fallback))
	case errors.As(err, &loadErr):
		logger.Error("error reading results table",
			zap.String("path", loadErr.Path),
			zap.Int("row", loadErr.Row),
			zap.Error(loadErr.Err))
	case errors.As(err, &schema):
		logger.Error("results table is missing required columns",
			zap.Strings("required", schema.Required),
			zap.Strings("found", schema.Found),
			zap.Strings("missing", schema.Missing))
	case errors.As(err, &saveErr):
		logger.Error("error saving plot",
			zap.String("output", saveErr.Path),
			zap.Error(saveErr.Err))
	case errors.Is(err, report.ErrDisplay):
		logger.Error("error displaying plot", zap.Error(err))
	default:
		logger.Error("plot generation failed", zap.Error(err))
	}
}
