package grades

import (
	"fmt"
	"math"
)

type Point struct {
	Period string
	Value  float64
}

type SeriesKind int

const (
	WeightedSeries SeriesKind = iota
	CeilingSeries
)

// Chart describes the weighted GPA line chart. Reference is a flat line at
// Ceiling across every ordered period.
type Chart struct {
	Series     []Point
	Reference  []Point
	Ceiling    float64
	HasCeiling bool
	YMin       float64
	YMax       float64
}

// CurrentPeriod returns the latest period, in display order, that has an
// unweighted GPA.
func CurrentPeriod(r Result) (string, bool) {
	for i := len(r.Periods) - 1; i >= 0; i-- {
		if _, ok := r.Unweighted[r.Periods[i]]; ok {
			return r.Periods[i], true
		}
	}
	return "", false
}

// CurrentGPA reads both GPAs for the current period. Missing values read as 0.
func CurrentGPA(r Result) (period string, unweighted, weighted float64) {
	period, ok := CurrentPeriod(r)
	if !ok {
		return "", 0, 0
	}
	return period, r.Unweighted[period], r.Weighted[period]
}

func WeightedSeriesPoints(r Result) []Point {
	var points []Point
	for _, period := range r.Periods {
		if gpa, ok := r.Weighted[period]; ok {
			points = append(points, Point{Period: period, Value: gpa})
		}
	}
	return points
}

// YBounds keeps the ceiling and every plotted value on screen. Headroom is
// only added below the current GPA.
func YBounds(currentWeighted float64, series []Point, ceiling float64) (float64, float64) {
	yMin := math.Floor(currentWeighted - 0.5)

	maxValue := ceiling
	for _, p := range series {
		maxValue = math.Max(maxValue, p.Value)
	}
	return yMin, ceilTenth(maxValue)
}

// ceilTenth rounds up to the nearest 0.1 without letting float noise such as
// 3.3*10 = 33.000000000000004 push the result a full step higher.
func ceilTenth(v float64) float64 {
	scaled := v * 10
	if rounded := math.Round(scaled); math.Abs(scaled-rounded) < 1e-9 {
		return rounded / 10
	}
	return math.Ceil(scaled) / 10
}

func BuildChart(r Result) Chart {
	series := WeightedSeriesPoints(r)
	ceiling, hasCeiling := Ceiling(r)
	_, _, currentWeighted := CurrentGPA(r)

	chart := Chart{
		Series:     series,
		Ceiling:    ceiling,
		HasCeiling: hasCeiling,
	}
	if hasCeiling {
		for _, period := range r.Periods {
			chart.Reference = append(chart.Reference, Point{Period: period, Value: ceiling})
		}
	}
	chart.YMin, chart.YMax = YBounds(currentWeighted, series, ceiling)
	return chart
}

func (c Chart) CeilingLabel() string {
	return fmt.Sprintf("Maximum GPA (%.2f)", c.Ceiling)
}

// Tooltip returns the hover text for a point. The ceiling line carries no
// per-point meaning and never produces one.
func (c Chart) Tooltip(kind SeriesKind, index int) (string, bool) {
	if kind != WeightedSeries || index < 0 || index >= len(c.Series) {
		return "", false
	}
	return fmt.Sprintf("GPA: %.2f", c.Series[index].Value), true
}
