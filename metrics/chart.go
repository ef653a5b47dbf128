package metrics

import (
	"fmt"
	"strings"

	"trackifyr/models"
)

// Chart geometry shared by the templates. Values are percentages so the
// vertical scale is fixed at 0-100.
const (
	ChartWidth  = 600
	ChartHeight = 200
	chartMax    = 100
)

type Bar struct {
	X, Y, Width, Height float64
	Label               string
	Value               int
}

func scaleY(v int) float64 {
	if v > chartMax {
		v = chartMax
	}
	if v < 0 {
		v = 0
	}
	return ChartHeight - float64(v)*ChartHeight/chartMax
}

// Polyline returns SVG polyline points spreading values across the width.
func Polyline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	step := 0.0
	if len(values) > 1 {
		step = float64(ChartWidth) / float64(len(values)-1)
	}
	pts := make([]string, len(values))
	for i, v := range values {
		pts[i] = fmt.Sprintf("%.1f,%.1f", float64(i)*step, scaleY(v))
	}
	return strings.Join(pts, " ")
}

func LoadLine(points []models.LoadPoint) string {
	values := make([]int, len(points))
	for i, p := range points {
		values[i] = p.Load
	}
	return Polyline(values)
}

func EngagementLine(points []models.LoadPoint) string {
	values := make([]int, len(points))
	for i, p := range points {
		values[i] = p.Engagement
	}
	return Polyline(values)
}

// abbrev keeps the first n runes of s.
func abbrev(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// EngagementBars lays out one bar per day with a quarter slot of padding.
func EngagementBars(daily []models.DailyEngagement) []Bar {
	if len(daily) == 0 {
		return nil
	}
	slot := float64(ChartWidth) / float64(len(daily))
	bars := make([]Bar, len(daily))
	for i, d := range daily {
		y := scaleY(d.Engagement)
		bars[i] = Bar{
			X:      float64(i)*slot + slot/8,
			Y:      y,
			Width:  slot * 3 / 4,
			Height: ChartHeight - y,
			Label:  abbrev(d.Day, 3),
			Value:  d.Engagement,
		}
	}
	return bars
}
