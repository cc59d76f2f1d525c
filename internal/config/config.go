package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/ber_plotter_go/internal/parser"
)

// Variant names accepted by ForVariant.
const (
	VariantSNR           = "snr"
	VariantNoiseVariance = "noise"
)

// Legend corners understood by the renderer.
const (
	LegendLowerLeft  = "lower left"
	LegendLowerRight = "lower right"
	LegendUpperLeft  = "upper left"
	LegendUpperRight = "upper right"
)

// InputConfig says where the results table lives and which column holds the
// independent variable.
type InputConfig struct {
	PrimaryPath  string `yaml:"primary_path"`
	FallbackPath string `yaml:"fallback_path"` // derived from PrimaryPath when empty
	XColumn      string `yaml:"x_column"`
}

// BoundsConfig holds the presentation constants used by the normalizer and
// the y-axis bound computation.
type BoundsConfig struct {
	FloorBER   float64 `yaml:"floor_ber"`   // substituted for BER == 0
	LowerScale float64 `yaml:"lower_scale"` // applied to the minimum true BER
	LowerMin   float64 `yaml:"lower_min"`   // hard safety minimum for the lower bound
	Upper      float64 `yaml:"upper"`
}

// ChartConfig describes the visual side of the figure.
type ChartConfig struct {
	Title          string   `yaml:"title"`
	XLabel         string   `yaml:"x_label"`
	YLabel         string   `yaml:"y_label"`
	Theme          string   `yaml:"theme"`
	Palette        []string `yaml:"palette"`
	Priority       []string `yaml:"priority"` // modulation names in legend order
	MarkerSize     float64  `yaml:"marker_size"`
	LineWidth      float64  `yaml:"line_width"`
	WidthInches    float64  `yaml:"width_inches"`
	HeightInches   float64  `yaml:"height_inches"`
	DPI            int      `yaml:"dpi"`
	LegendPosition string   `yaml:"legend_position"`
}

// OutputConfig selects between displaying and persisting the chart.
type OutputConfig struct {
	Save    bool   `yaml:"save"`
	Path    string `yaml:"path"`
	PDFPath string `yaml:"pdf_path"` // optional summary report, "" disables it
}

// Config is everything one pipeline invocation needs.
type Config struct {
	Variant string       `yaml:"variant"`
	Input   InputConfig  `yaml:"input"`
	Bounds  BoundsConfig `yaml:"bounds"`
	Chart   ChartConfig  `yaml:"chart"`
	Output  OutputConfig `yaml:"output"`
}

// BrightPalette is the default line palette, chosen to read on a dark background.
var BrightPalette = []string{
	"#00FFFF", // cyan
	"#FFFF00", // yellow
	"#FF00FF", // magenta
	"#00FF00", // lime
	"#FFA500", // orange
	"#FF69B4", // hot pink
}

// CanonicalModulations is the default legend priority.
var CanonicalModulations = []string{"QPSK", "QAM16", "QAM64"}

// DefaultConfig returns the SNR-indexed configuration.
//
// Defaults:
//   - input:  ../build/simulation_results_snr.csv, fallback ../simulation_results_snr.csv
//   - x column SNR_dB, title "BER vs. SNR (Eb/N0)"
//   - floor 1e-9, lower bound = max(min true BER * 0.1, 1e-7), upper bound 1.1
//   - dark_background theme, bright palette, 5pt markers, 1.5pt lines
//   - 10x7 in figure at 300 DPI, legend in the lower left corner
//   - display mode; when saving, ../ber_vs_snr_plot.png
func DefaultConfig() Config {
	return Config{
		Variant: VariantSNR,
		Input: InputConfig{
			PrimaryPath:  "../build/simulation_results_snr.csv",
			FallbackPath: "../simulation_results_snr.csv",
			XColumn:      "SNR_dB",
		},
		Bounds: BoundsConfig{
			FloorBER:   1e-9,
			LowerScale: 0.1,
			LowerMin:   1e-7,
			Upper:      1.1,
		},
		Chart: ChartConfig{
			Title:          "BER vs. SNR (Eb/N0)",
			XLabel:         "SNR (Eb/N0) [dB]",
			YLabel:         "Bit Error Rate (BER)",
			Theme:          "dark_background",
			Palette:        append([]string(nil), BrightPalette...),
			Priority:       append([]string(nil), CanonicalModulations...),
			MarkerSize:     5,
			LineWidth:      1.5,
			WidthInches:    10,
			HeightInches:   7,
			DPI:            300,
			LegendPosition: LegendLowerLeft,
		},
		Output: OutputConfig{
			Path: "../ber_vs_snr_plot.png",
		},
	}
}

// NoiseVarianceConfig returns the configuration for tables indexed by noise
// variance instead of SNR. Everything not listed here matches DefaultConfig.
func NoiseVarianceConfig() Config {
	cfg := DefaultConfig()
	cfg.Variant = VariantNoiseVariance
	cfg.Input = InputConfig{
		PrimaryPath:  "../build/simulation_results.csv",
		FallbackPath: "../simulation_results.csv",
		XColumn:      "NoiseVariance",
	}
	cfg.Chart.Title = "BER vs. Noise Variance"
	cfg.Chart.XLabel = "Noise Variance (N0/2)"
	cfg.Output.Path = "../ber_vs_noise_variance_plot.png"
	return cfg
}

// ForVariant returns the default configuration for a variant name.
func ForVariant(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case VariantSNR, "":
		return DefaultConfig(), nil
	case VariantNoiseVariance, "noise_variance", "noisevariance":
		return NoiseVarianceConfig(), nil
	default:
		return Config{}, fmt.Errorf("unknown variant %q (want %q or %q)", name, VariantSNR, VariantNoiseVariance)
	}
}

// Load overlays the YAML file at path on base. Unknown keys are rejected so a
// misspelled setting does not silently fall back to its default.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return cfg, nil
}

// RequiredColumns lists the columns a results table must carry.
func (c Config) RequiredColumns() []string {
	return parser.RequiredColumns(c.Input.XColumn)
}

// Fallback returns the configured fallback path, deriving one from the
// primary path when none is set.
func (c Config) Fallback() string {
	if c.Input.FallbackPath != "" {
		return c.Input.FallbackPath
	}
	return DeriveFallback(c.Input.PrimaryPath)
}

// DeriveFallback drops the directory segment that directly holds path:
// "../build/results.csv" becomes "../results.csv".
func DeriveFallback(path string) string {
	if path == "" {
		return ""
	}
	dir := filepath.Dir(path)
	return filepath.Join(filepath.Dir(dir), filepath.Base(path))
}

// Validate reports the first setting that would make the pipeline misbehave.
func (c Config) Validate() error {
	switch {
	case c.Input.PrimaryPath == "":
		return fmt.Errorf("input.primary_path must be set")
	case c.Input.XColumn == "":
		return fmt.Errorf("input.x_column must be set")
	case c.Bounds.FloorBER <= 0:
		return fmt.Errorf("bounds.floor_ber must be positive, got %g", c.Bounds.FloorBER)
	case c.Bounds.LowerScale <= 0:
		return fmt.Errorf("bounds.lower_scale must be positive, got %g", c.Bounds.LowerScale)
	case c.Bounds.LowerMin <= 0:
		return fmt.Errorf("bounds.lower_min must be positive, got %g", c.Bounds.LowerMin)
	case c.Bounds.Upper <= c.Bounds.LowerMin:
		return fmt.Errorf("bounds.upper (%g) must exceed bounds.lower_min (%g)", c.Bounds.Upper, c.Bounds.LowerMin)
	case len(c.Chart.Palette) == 0:
		return fmt.Errorf("chart.palette must not be empty")
	case c.Chart.MarkerSize <= 0 || c.Chart.LineWidth <= 0:
		return fmt.Errorf("chart.marker_size and chart.line_width must be positive")
	case c.Chart.WidthInches <= 0 || c.Chart.HeightInches <= 0:
		return fmt.Errorf("chart figure size must be positive, got %gx%g", c.Chart.WidthInches, c.Chart.HeightInches)
	case c.Chart.DPI <= 0:
		return fmt.Errorf("chart.dpi must be positive, got %d", c.Chart.DPI)
	case c.Output.Save && c.Output.Path == "":
		return fmt.Errorf("output.path must be set when saving")
	}
	switch c.Chart.LegendPosition {
	case LegendLowerLeft, LegendLowerRight, LegendUpperLeft, LegendUpperRight:
	default:
		return fmt.Errorf("unknown chart.legend_position %q", c.Chart.LegendPosition)
	}
	return nil
}
