package analysis

import "math"

// Point is one (x, BER) sample of a series.
type Point struct {
	X       float64
	BER     float64
	Floored bool // BER is the display floor standing in for zero observed errors
}

// Series holds the points of one modulation scheme, sorted by X.
type Series struct {
	Modulation string
	Points     []Point
}

// AxisBounds is the y-axis range of the chart.
type AxisBounds struct {
	Lower float64
	Upper float64
	// FromFloor is set when no true (non-floored) BER was available and the
	// lower bound was derived from the floor value.
	FromFloor bool
}

// SeriesSummary condenses a series for logs and the PDF report.
type SeriesSummary struct {
	Modulation      string
	Points          int
	XMin            float64
	XMax            float64
	MinTrueBER      float64 // NaN when every point is floored
	ZeroErrorPoints int
}

// HasTrueBER reports whether the series has at least one non-floored point.
func (s SeriesSummary) HasTrueBER() bool {
	return !math.IsNaN(s.MinTrueBER)
}
