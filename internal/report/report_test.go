package report

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/plot"

	"github.com/user/ber_plotter_go/internal/analysis"
	"github.com/user/ber_plotter_go/internal/config"
)

func sampleSeries() []analysis.Series {
	return []analysis.Series{
		{Modulation: "QPSK", Points: []analysis.Point{{X: 0, BER: 0.08}, {X: 4, BER: 0.01}, {X: 8, BER: 2e-4}, {X: 10, BER: 1e-9, Floored: true}}},
		{Modulation: "QAM16", Points: []analysis.Point{{X: 0, BER: 0.14}, {X: 4, BER: 0.05}, {X: 8, BER: 6e-3}, {X: 10, BER: 7e-4}}},
	}
}

func testChart() config.ChartConfig {
	chart := config.DefaultConfig().Chart
	chart.WidthInches, chart.HeightInches, chart.DPI = 4, 3, 50
	return chart
}

func TestSelectTheme(t *testing.T) {
	th, err := SelectTheme("dark_background")
	require.NoError(t, err)
	assert.Equal(t, color.Black, th.Background)

	th, err = SelectTheme("solarized")
	assert.ErrorIs(t, err, ErrThemeUnavailable)
	assert.Equal(t, DefaultThemeName, th.Name)
	assert.NotNil(t, th.Background)

	assert.Contains(t, ThemeNames(), "dark_background")
	assert.Contains(t, ThemeNames(), DefaultThemeName)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#00FFFF", color.NRGBA{R: 0, G: 255, B: 255, A: 255}, true},
		{"ffa500", color.NRGBA{R: 255, G: 165, B: 0, A: 255}, true},
		{"#FF69B480", color.NRGBA{R: 255, G: 105, B: 180, A: 128}, true},
		{"#FFF", color.NRGBA{}, false},
		{"#GGGGGG", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePalette(nil)
	assert.Error(t, err)
	colors, err := ParsePalette(config.BrightPalette)
	require.NoError(t, err)
	assert.Len(t, colors, len(config.BrightPalette))
}

func TestCreateBERPlot(t *testing.T) {
	bounds := analysis.AxisBounds{Lower: 2e-5, Upper: 1.1}

	p, err := CreateBERPlot(sampleSeries(), bounds, testChart(), nil)
	require.NoError(t, err)

	assert.Equal(t, "BER vs. SNR (Eb/N0)", p.Title.Text)
	assert.Equal(t, "SNR (Eb/N0) [dB]", p.X.Label.Text)
	assert.Equal(t, 2e-5, p.Y.Min, "floored points must not widen the axis")
	assert.Equal(t, 1.1, p.Y.Max)
	assert.IsType(t, plot.LogScale{}, p.Y.Scale)
	assert.IsType(t, plot.LinearScale{}, p.X.Scale)
	assert.Equal(t, color.Black, p.BackgroundColor)
	assert.False(t, p.Legend.Top)
	assert.True(t, p.Legend.Left)
}

func TestCreateBERPlotThemeFallback(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	chart := testChart()
	chart.Theme = "no_such_theme"

	p, err := CreateBERPlot(sampleSeries(), analysis.AxisBounds{Lower: 1e-7, Upper: 1.1}, chart, zap.New(core))
	require.NoError(t, err, "a missing theme never aborts rendering")
	assert.Equal(t, color.White, p.BackgroundColor)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "no_such_theme", warnings[0].ContextMap()["theme"])
}

func TestCreateBERPlotRejects(t *testing.T) {
	t.Run("non-positive lower bound", func(t *testing.T) {
		_, err := CreateBERPlot(sampleSeries(), analysis.AxisBounds{Lower: 0, Upper: 1.1}, testChart(), nil)
		assert.Error(t, err)
	})
	t.Run("nan bound", func(t *testing.T) {
		_, err := CreateBERPlot(sampleSeries(), analysis.AxisBounds{Lower: math.NaN(), Upper: 1.1}, testChart(), nil)
		assert.Error(t, err)
	})
	t.Run("bad palette", func(t *testing.T) {
		chart := testChart()
		chart.Palette = []string{"cyan"}
		_, err := CreateBERPlot(sampleSeries(), analysis.AxisBounds{Lower: 1e-7, Upper: 1.1}, chart, nil)
		assert.Error(t, err)
	})
}

func TestPaletteCycles(t *testing.T) {
	chart := testChart()
	chart.Palette = []string{"#00FFFF"}
	series := append(sampleSeries(), analysis.Series{Modulation: "QAM64", Points: []analysis.Point{{X: 0, BER: 0.2}}})

	p, err := CreateBERPlot(series, analysis.AxisBounds{Lower: 1e-7, Upper: 1.1}, chart, nil)
	require.NoError(t, err)
	_, err = EncodePNG(p, chart.WidthInches, chart.HeightInches, chart.DPI)
	assert.NoError(t, err)
}

func TestLegendPlacement(t *testing.T) {
	tests := []struct {
		position  string
		top, left bool
	}{
		{config.LegendLowerLeft, false, true},
		{config.LegendLowerRight, false, false},
		{config.LegendUpperLeft, true, true},
		{config.LegendUpperRight, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.position, func(t *testing.T) {
			var l plot.Legend
			placeLegend(&l, tt.position)
			assert.Equal(t, tt.top, l.Top)
			assert.Equal(t, tt.left, l.Left)
		})
	}
}

func TestTickGridStyles(t *testing.T) {
	g := newTickGrid(color.White)
	assert.Equal(t, g.Minor, g.style(plot.Tick{Value: 2e-3}))
	assert.Equal(t, g.Major, g.style(plot.Tick{Value: 1e-3, Label: "0.001"}))
	assert.NotEmpty(t, g.Major.Dashes)
	assert.NotEmpty(t, g.Minor.Dashes)
}

func TestEncodePNG(t *testing.T) {
	chart := testChart()
	p, err := CreateBERPlot(sampleSeries(), analysis.AxisBounds{Lower: 2e-5, Upper: 1.1}, chart, nil)
	require.NoError(t, err)

	data, err := EncodePNG(p, chart.WidthInches, chart.HeightInches, chart.DPI)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r+g+b, "dark theme background")
}

func TestEncodePNGAllFloored(t *testing.T) {
	series := []analysis.Series{{Modulation: "QPSK", Points: []analysis.Point{{X: 0, BER: 1e-9, Floored: true}, {X: 2, BER: 1e-9, Floored: true}}}}
	chart := testChart()
	p, err := CreateBERPlot(series, analysis.AxisBounds{Lower: 1e-10, Upper: 1.1, FromFloor: true}, chart, nil)
	require.NoError(t, err)
	_, err = EncodePNG(p, chart.WidthInches, chart.HeightInches, chart.DPI)
	assert.NoError(t, err)
}

func TestSavePNG(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "plot.png")
	require.NoError(t, SavePNG([]byte("png"), path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)

	err = SavePNG([]byte("png"), filepath.Join(dir, "missing", "plot.png"))
	var se *SaveError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, ErrSave)
	assert.Equal(t, filepath.Join(dir, "missing", "plot.png"), se.Path)
}

func TestDisplay(t *testing.T) {
	var opened string
	path, err := Display([]byte("png"), func(p string) error {
		opened = p
		return nil
	})
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })
	assert.Equal(t, path, opened)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)

	path, err = Display([]byte("png"), func(string) error { return errors.New("no viewer") })
	t.Cleanup(func() { os.Remove(path) })
	assert.ErrorIs(t, err, ErrDisplay)
	assert.NotErrorIs(t, err, ErrSave)
}

func TestBuildPDFReport(t *testing.T) {
	chart := testChart()
	series := sampleSeries()
	p, err := CreateBERPlot(series, analysis.AxisBounds{Lower: 2e-5, Upper: 1.1}, chart, nil)
	require.NoError(t, err)
	img, err := EncodePNG(p, chart.WidthInches, chart.HeightInches, chart.DPI)
	require.NoError(t, err)

	in := ReportInput{
		Title:         chart.Title,
		Source:        "build/simulation_results_snr.csv",
		XColumn:       "SNR_dB",
		Bounds:        analysis.AxisBounds{Lower: 2e-5, Upper: 1.1},
		Summaries:     analysis.Summarize(series),
		ChartPNG:      img,
		ChartWidthIn:  chart.WidthInches,
		ChartHeightIn: chart.HeightInches,
	}

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, BuildPDFReport(path, in))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	err = BuildPDFReport(filepath.Join(t.TempDir(), "missing", "report.pdf"), in)
	assert.ErrorIs(t, err, ErrSave)
}
