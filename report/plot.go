/*
DESCRIPTION
  plot.go provides the comparison charts: error and control input traces per
  disturbance level, and grouped bar charts per metric.

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean)

  It is free software: you can redistribute it and/or modify them
  under the terms of the GNU General Public License as published by the
  Free Software Foundation, either version 3 of the License, or (at your
  option) any later version.

  It is distributed in the hope that it will be useful, but WITHOUT
  ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
  FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License
  for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt.  If not, see http://www.gnu.org/licenses.
*/

package report

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/quadeval/flightlog"
	"github.com/ausocean/quadeval/metrics"
)

// Chart dimensions.
const (
	traceWidth  = 10 * vg.Inch
	traceHeight = 6 * vg.Inch
	barsWidth   = 12 * vg.Inch
	barsHeight  = 6 * vg.Inch
	barWidth    = 24 // Points.
)

var thresholdColor = color.NRGBA{A: 77}

// ErrorChartName returns the filename of the error trace chart for level.
func ErrorChartName(level string) string { return "ez_vs_time_" + level + ".png" }

// InputChartName returns the filename of the control input chart for level.
func InputChartName(level string) string { return "u_vs_time_" + level + ".png" }

// MetricChartName returns the filename of the comparison chart for m.
func MetricChartName(m Metric) string { return m.Slug() + "_comparison.png" }

// ErrorChart renders the altitude error of each run against time as a PNG,
// with dashed lines marking the settling band of ±threshold. The target
// altitude is used only to label the band as a percentage.
func ErrorChart(level string, runs []*flightlog.Run, threshold, target float64) ([]byte, error) {
	if len(runs) == 0 {
		return nil, errors.New("no runs to plot")
	}
	return plotToBytes(
		fmt.Sprintf("Position Error vs. Time (%s Disturbance)", flightlog.LevelName(level)),
		"Time (s)",
		"Z-Axis Error (m)",
		traceWidth, traceHeight,
		func(p *plot.Plot) error {
			p.Add(plotter.NewGrid())
			err := plotutil.AddLines(p, traceArgs(runs, flightlog.Errors)...)
			if err != nil {
				return err
			}
			for _, y := range []float64{threshold, -threshold} {
				f := plotter.NewFunction(func(float64) float64 { return y })
				f.Color = thresholdColor
				f.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
				p.Add(f)
				if y >= 0 {
					p.Legend.Add(thresholdLabel(threshold, target), f)
				}
			}
			return nil
		},
	)
}

// InputChart renders the control input of each run against time as a PNG.
func InputChart(level string, runs []*flightlog.Run) ([]byte, error) {
	if len(runs) == 0 {
		return nil, errors.New("no runs to plot")
	}
	return plotToBytes(
		fmt.Sprintf("Control Input vs. Time (%s Disturbance)", flightlog.LevelName(level)),
		"Time (s)",
		"Control Input (u)",
		traceWidth, traceHeight,
		func(p *plot.Plot) error {
			p.Add(plotter.NewGrid())
			return plotutil.AddLines(p, traceArgs(runs, flightlog.Inputs)...)
		},
	)
}

// MetricChart renders a grouped bar chart of metric m as a PNG with one group
// per level and one bar per controller. Runs missing from t leave a gap.
func MetricChart(m Metric, t *Table, controllers, levels []string) ([]byte, error) {
	if len(t.Rows) == 0 {
		return nil, errors.New("no results to plot")
	}
	return plotToBytes(
		"Comparison of "+m.Name,
		"Disturbance Level",
		m.Name,
		barsWidth, barsHeight,
		func(p *plot.Plot) error {
			grid := plotter.NewGrid()
			grid.Vertical.Color = nil
			p.Add(grid)

			w := vg.Points(barWidth)
			groupWidth := w * vg.Length(len(controllers)-1)
			for i, c := range controllers {
				var labelled bool
				for j, l := range levels {
					s, ok := t.Lookup(l, c)
					if !ok {
						continue
					}
					bc, err := plotter.NewBarChart(plotter.Values{metrics.Round(m.Value(s), m.Precision)}, w)
					if err != nil {
						return fmt.Errorf("could not create bar chart: %w", err)
					}
					bc.XMin = float64(j)
					bc.Offset = w*vg.Length(i) - groupWidth/2
					bc.Color = plotutil.Color(i)
					bc.LineStyle.Width = 0
					p.Add(bc)
					if !labelled {
						p.Legend.Add(flightlog.ControllerName(c), bc)
						labelled = true
					}
				}
			}
			p.Legend.Top = true
			p.NominalX(levels...)
			return nil
		},
	)
}

// thresholdLabel returns the legend label of the settling band.
func thresholdLabel(threshold, target float64) string {
	if target == 0 {
		return fmt.Sprintf("±%g m Threshold", threshold)
	}
	return fmt.Sprintf("±%.0f%% Threshold", 100*threshold/target)
}

// traceArgs provides the name and line data arguments of plotutil.AddLines
// for the given column of each run.
func traceArgs(runs []*flightlog.Run, col func([]flightlog.Sample) []float64) []interface{} {
	args := make([]interface{}, 0, 2*len(runs))
	for _, r := range runs {
		args = append(args, flightlog.ControllerName(r.Controller), plotterXY(flightlog.Times(r.Samples), col(r.Samples)))
	}
	return args
}

// plotToBytes creates a plot with a specified name and x&y titles using the
// provided draw function, and then renders it as a PNG of the given size.
func plotToBytes(name, xTitle, yTitle string, width, height vg.Length, draw func(*plot.Plot) error) ([]byte, error) {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle
	err := draw(p)
	if err != nil {
		return nil, fmt.Errorf("could not draw plot contents: %w", err)
	}

	w, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("could not create plot writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("could not render plot: %w", err)
	}
	return buf.Bytes(), nil
}

// plotterXY provides a plotter.XYs type value based on the given x and y data.
func plotterXY(x, y []float64) plotter.XYs {
	xy := make(plotter.XYs, len(x))
	for i := range x {
		xy[i].X = x[i]
		xy[i].Y = y[i]
	}
	return xy
}
