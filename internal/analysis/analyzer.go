package analysis

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/user/ber_plotter_go/internal/config"
	"github.com/user/ber_plotter_go/internal/parser"
)

// UnrankedPriority is the rank of modulations missing from the priority list.
const UnrankedPriority = 99

// Normalize returns a copy of table in which every BER that is exactly zero
// is replaced by floor and flagged, so it stays drawable on a log axis.
func Normalize(table *parser.ResultsTable, floor float64) *parser.ResultsTable {
	out := table.Clone()
	for i := range out.Rows {
		if out.Rows[i].BER == 0 {
			out.Rows[i].BER = floor
			out.Rows[i].Floored = true
		}
	}
	return out
}

// OrganizeSeries groups the rows by modulation. Series are ordered by their
// position in priority; names not in priority come last in the order they
// first appear in the table. Points are sorted by X, rows with equal X keep
// their table order.
func OrganizeSeries(table *parser.ResultsTable, priority []string) []Series {
	rank := make(map[string]int, len(priority))
	for i, name := range priority {
		if _, dup := rank[name]; !dup {
			rank[name] = i
		}
	}
	rankOf := func(name string) int {
		if r, ok := rank[name]; ok {
			return r
		}
		return UnrankedPriority
	}

	modulations := lo.Uniq(lo.Map(table.Rows, func(r parser.Row, _ int) string {
		return r.Modulation
	}))
	sort.SliceStable(modulations, func(i, j int) bool {
		return rankOf(modulations[i]) < rankOf(modulations[j])
	})

	series := make([]Series, 0, len(modulations))
	for _, mod := range modulations {
		rows := lo.Filter(table.Rows, func(r parser.Row, _ int) bool {
			return r.Modulation == mod
		})
		points := make([]Point, len(rows))
		for i, r := range rows {
			points[i] = Point{X: r.X, BER: r.BER, Floored: r.Floored}
		}
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].X < points[j].X
		})
		series = append(series, Series{Modulation: mod, Points: points})
	}
	return series
}

// ComputeAxisBounds derives the y-axis range from the smallest true BER in
// the table. Floored rows, and anything not strictly above the floor, are
// ignored so the substitute value never drags the axis down.
//
// lower = max(minTrue*LowerScale, LowerMin); with no true BER it is
// FloorBER*LowerScale. upper is bounds.Upper, raised if needed to stay above lower.
func ComputeAxisBounds(table *parser.ResultsTable, bounds config.BoundsConfig) AxisBounds {
	trueBER := make([]float64, 0, len(table.Rows))
	for _, r := range table.Rows {
		if !r.Floored && r.BER > bounds.FloorBER {
			trueBER = append(trueBER, r.BER)
		}
	}

	ab := AxisBounds{Upper: bounds.Upper}
	if len(trueBER) > 0 {
		ab.Lower = math.Max(floats.Min(trueBER)*bounds.LowerScale, bounds.LowerMin)
	} else {
		ab.Lower = bounds.FloorBER * bounds.LowerScale
		ab.FromFloor = true
	}
	if !(ab.Upper > ab.Lower) {
		ab.Upper = ab.Lower * 10
	}
	return ab
}

// Summarize condenses each series.
func Summarize(series []Series) []SeriesSummary {
	out := make([]SeriesSummary, 0, len(series))
	for _, s := range series {
		sum := SeriesSummary{Modulation: s.Modulation, Points: len(s.Points), MinTrueBER: math.NaN()}
		if len(s.Points) == 0 {
			out = append(out, sum)
			continue
		}
		xs := make([]float64, len(s.Points))
		var trueBER []float64
		for i, p := range s.Points {
			xs[i] = p.X
			if p.Floored {
				sum.ZeroErrorPoints++
			} else {
				trueBER = append(trueBER, p.BER)
			}
		}
		sum.XMin, sum.XMax = floats.Min(xs), floats.Max(xs)
		if len(trueBER) > 0 {
			sum.MinTrueBER = floats.Min(trueBER)
		}
		out = append(out, sum)
	}
	return out
}
