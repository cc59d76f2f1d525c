package report

import (
	"fmt"
	"image/color"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/ber_plotter_go/internal/analysis"
	"github.com/user/ber_plotter_go/internal/config"
	"github.com/user/ber_plotter_go/internal/logging"
)

const legendInset = 6 // points

// CreateBERPlot draws one marker-connected line per series on a linear x /
// logarithmic y axis limited to bounds. A missing theme is logged and
// replaced by the default theme.
func CreateBERPlot(series []analysis.Series, bounds analysis.AxisBounds, chart config.ChartConfig, logger *zap.Logger) (*plot.Plot, error) {
	logger = logging.OrNop(logger)

	if !(bounds.Lower > 0) || !(bounds.Upper > bounds.Lower) {
		return nil, fmt.Errorf("invalid y-axis bounds [%g, %g]", bounds.Lower, bounds.Upper)
	}
	colors, err := ParsePalette(chart.Palette)
	if err != nil {
		return nil, fmt.Errorf("failed to parse palette: %w", err)
	}

	theme, err := SelectTheme(chart.Theme)
	if err != nil {
		logger.Warn("plot theme not found, using default theme",
			zap.String("theme", chart.Theme),
			zap.String("fallback", theme.Name))
	} else {
		logger.Debug("using plot theme", zap.String("theme", theme.Name))
	}

	p := plot.New()
	p.Title.Text = chart.Title
	p.X.Label.Text = chart.XLabel
	p.Y.Label.Text = chart.YLabel
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	applyTheme(p, theme)

	p.Add(newTickGrid(theme.Grid))

	for i, s := range series {
		pts := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			pts[j].X = pt.X
			pts[j].Y = pt.BER
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %w", s.Modulation, err)
		}
		c := colors[i%len(colors)]
		line.Color = c
		line.LineStyle.Width = vg.Points(chart.LineWidth)
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(chart.MarkerSize / 2)
		points.Color = c

		p.Add(line, points)
		p.Legend.Add(s.Modulation, line, points)
	}

	// Set after Add, which widens the range to the data, floored points included.
	p.Y.Min = bounds.Lower
	p.Y.Max = bounds.Upper

	placeLegend(&p.Legend, chart.LegendPosition)
	return p, nil
}

func applyTheme(p *plot.Plot, th Theme) {
	p.BackgroundColor = th.Background
	p.Title.TextStyle.Color = th.Foreground
	p.Title.Padding = vg.Points(8)
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Color = th.Foreground
		ax.Label.TextStyle.Color = th.Foreground
		ax.Tick.Color = th.Foreground
		ax.Tick.Label.Color = th.Foreground
	}
	p.Legend.TextStyle.Color = th.Foreground
}

func placeLegend(l *plot.Legend, position string) {
	l.Padding = vg.Points(2)
	switch position {
	case config.LegendUpperLeft:
		l.Top, l.Left = true, true
		l.XOffs, l.YOffs = vg.Points(legendInset), -vg.Points(legendInset)
	case config.LegendUpperRight:
		l.Top, l.Left = true, false
		l.XOffs, l.YOffs = -vg.Points(legendInset), -vg.Points(legendInset)
	case config.LegendLowerRight:
		l.Top, l.Left = false, false
		l.XOffs, l.YOffs = -vg.Points(legendInset), vg.Points(legendInset)
	default:
		l.Top, l.Left = false, true
		l.XOffs, l.YOffs = vg.Points(legendInset), vg.Points(legendInset)
	}
}

// tickGrid draws grid lines at every tick of both axes. plotter.Grid skips
// minor ticks, which on a log axis carry the 2..9 decade subdivisions.
type tickGrid struct {
	Major draw.LineStyle
	Minor draw.LineStyle
}

func newTickGrid(c color.Color) *tickGrid {
	dotted := []vg.Length{vg.Points(1), vg.Points(2)}
	return &tickGrid{
		Major: draw.LineStyle{Color: c, Width: vg.Points(0.5), Dashes: dotted},
		Minor: draw.LineStyle{Color: c, Width: vg.Points(0.3), Dashes: dotted},
	}
}

// Plot implements plot.Plotter.
func (g *tickGrid) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for _, tk := range plt.X.Tick.Marker.Ticks(plt.X.Min, plt.X.Max) {
		if tk.Value < plt.X.Min || tk.Value > plt.X.Max {
			continue
		}
		x := trX(tk.Value)
		c.StrokeLine2(g.style(tk), x, c.Min.Y, x, c.Max.Y)
	}
	for _, tk := range plt.Y.Tick.Marker.Ticks(plt.Y.Min, plt.Y.Max) {
		if tk.Value < plt.Y.Min || tk.Value > plt.Y.Max {
			continue
		}
		y := trY(tk.Value)
		c.StrokeLine2(g.style(tk), c.Min.X, y, c.Max.X, y)
	}
}

func (g *tickGrid) style(tk plot.Tick) draw.LineStyle {
	if tk.IsMinor() {
		return g.Minor
	}
	return g.Major
}
