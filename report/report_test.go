/*
DESCRIPTION
  report_test.go provides testing for the result table, fallback writing and
  chart rendering.

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
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/andreyvit/diff"

	"github.com/ausocean/quadeval/flightlog"
	"github.com/ausocean/quadeval/metrics"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// allRows returns one row per known (level, controller) pair in report order.
func allRows() []Row {
	var rows []Row
	for i, l := range flightlog.Levels {
		for j, c := range flightlog.Controllers {
			k := float64(3*i + j)
			rows = append(rows, Row{
				Level:      l,
				Controller: c,
				Metrics: metrics.Set{
					RMSE:          0.01 * k,
					MAE:           0.005 * k,
					SettlingTime:  2 + k,
					ControlEnergy: 1000 * k,
					Overshoot:     0.001 * k,
				},
			})
		}
	}
	return rows
}

func TestTableOrder(t *testing.T) {
	want := allRows()
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		in := make([]Row, len(want))
		copy(in, want)
		rng.Shuffle(len(in), func(i, j int) { in[i], in[j] = in[j], in[i] })

		got := NewTable(in).Rows
		for i := range want {
			if got[i].Level != want[i].Level || got[i].Controller != want[i].Controller {
				t.Fatalf("trial %d: did not get expected row %d. Got: %s/%s, Want: %s/%s",
					trial, i, got[i].Level, got[i].Controller, want[i].Level, want[i].Controller)
			}
		}
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{flightlog.Moderate, flightlog.PID, metrics.Set{RMSE: 0.04567, MAE: 0.0321, SettlingTime: 12.34, ControlEnergy: 5432.109, Overshoot: 0.0449}},
		{flightlog.Low, flightlog.FuzzyLADRC, metrics.Set{RMSE: 0.0101, MAE: 0.0069, SettlingTime: 3.96, ControlEnergy: 1000, Overshoot: 0}},
		{flightlog.Low, flightlog.PID, metrics.Set{RMSE: 0.02, MAE: 0.015, SettlingTime: 19.8, ControlEnergy: 2100.06, Overshoot: 0.123}},
	}

	var buf bytes.Buffer
	if err := NewTable(rows).WriteCSV(&buf); err != nil {
		t.Fatalf("could not write CSV: %v", err)
	}

	const want = "Level,Controller,RMSE (m),MAE (m),Settling Time (s),Control Energy,Overshoot (m)\n" +
		"Low,PID,0.020,0.015,19.8,2100.1,0.12\n" +
		"Low,T3-FA-LADRC,0.010,0.007,4.0,1000.0,0.00\n" +
		"Moderate,PID,0.046,0.032,12.3,5432.1,0.04\n"
	if got := buf.String(); got != want {
		t.Errorf("did not get expected CSV:\n%s", diff.LineDiff(want, got))
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTable(allRows()).WriteText(&buf); err != nil {
		t.Fatalf("could not write text table: %v", err)
	}
	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	if len(lines) != 10 {
		t.Errorf("did not get expected number of lines. Got: %d, Want: 10", len(lines))
	}
	if !bytes.Contains(lines[0], []byte("Settling Time (s)")) {
		t.Errorf("header missing from text table: %q", lines[0])
	}
}

func TestSlug(t *testing.T) {
	want := []string{
		"rmse_(m)_comparison.png",
		"mae_(m)_comparison.png",
		"settling_time_(s)_comparison.png",
		"control_energy_comparison.png",
		"overshoot_(m)_comparison.png",
	}
	for i, m := range Metrics {
		if got := MetricChartName(m); got != want[i] {
			t.Errorf("did not get expected chart name. Got: %s, Want: %s", got, want[i])
		}
	}
}

func TestFallbackName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"controller_comparison_results.csv", "controller_comparison_results_fallback.csv"},
		{"ez_vs_time_low.png", "ez_vs_time_low_fallback.png"},
		{"noext", "noext_fallback"},
	}
	for _, test := range tests {
		if got := FallbackName(test.in); got != test.want {
			t.Errorf("did not get expected fallback name. Got: %s, Want: %s", got, test.want)
		}
	}
}

func TestWriteWithFallback(t *testing.T) {
	dir := t.TempDir()
	data := []byte("payload")

	primary := filepath.Join(dir, "out.csv")
	fallback := filepath.Join(dir, "out_fallback.csv")
	got, err := WriteWithFallback(primary, fallback, data)
	if err != nil || got != primary {
		t.Fatalf("did not write primary. Got: %s, %v", got, err)
	}

	// The primary directory does not exist, so the fallback must be used.
	primary = filepath.Join(dir, "missing", "out.csv")
	got, err = WriteWithFallback(primary, fallback, data)
	if err != nil || got != fallback {
		t.Fatalf("did not write fallback. Got: %s, %v", got, err)
	}
	b, err := os.ReadFile(fallback)
	if err != nil || !bytes.Equal(b, data) {
		t.Errorf("did not get expected fallback contents. Got: %q, %v", b, err)
	}

	_, err = WriteWithFallback(primary, filepath.Join(dir, "missing", "fb.csv"), data)
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("expected WriteError, got: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not exist error, got: %v", err)
	}
}

func TestOutputSave(t *testing.T) {
	dir := t.TempDir()
	o := Output{Dir: filepath.Join(dir, "missing"), FallbackDir: dir}
	got, err := o.Save("ez_vs_time_low.png", []byte("x"))
	if err != nil {
		t.Fatalf("could not save: %v", err)
	}
	if want := filepath.Join(dir, "ez_vs_time_low_fallback.png"); got != want {
		t.Errorf("did not get expected location. Got: %s, Want: %s", got, want)
	}
}

func testRuns() []*flightlog.Run {
	var runs []*flightlog.Run
	for j, c := range flightlog.Controllers {
		s := make([]flightlog.Sample, 50)
		for i := range s {
			ez := 0.2 / float64(i+1+j)
			s[i] = flightlog.Sample{Time: 0.2 * float64(i), Ez: ez, U: 1 - ez, PosZ: 0.7 + ez}
		}
		runs = append(runs, &flightlog.Run{Controller: c, Level: flightlog.Low, Samples: s})
	}
	return runs
}

func TestCharts(t *testing.T) {
	runs := testRuns()

	b, err := ErrorChart(flightlog.Low, runs, metrics.DefaultSettlingThreshold, metrics.DefaultTargetZ)
	if err != nil {
		t.Fatalf("could not render error chart: %v", err)
	}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Error("error chart is not a PNG")
	}

	b, err = InputChart(flightlog.Low, runs[:1])
	if err != nil {
		t.Fatalf("could not render input chart: %v", err)
	}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Error("input chart is not a PNG")
	}

	// One row removed to check that gaps are tolerated.
	table := NewTable(allRows()[1:])
	for _, m := range Metrics {
		b, err = MetricChart(m, table, flightlog.Controllers, flightlog.Levels)
		if err != nil {
			t.Fatalf("could not render %s chart: %v", m.Name, err)
		}
		if !bytes.HasPrefix(b, pngMagic) {
			t.Errorf("%s chart is not a PNG", m.Name)
		}
	}

	if _, err := ErrorChart(flightlog.Low, nil, 0.014, 0.7); err == nil {
		t.Error("expected error for chart without runs")
	}
	if _, err := MetricChart(Metrics[0], NewTable(nil), flightlog.Controllers, flightlog.Levels); err == nil {
		t.Error("expected error for chart without results")
	}
}

func TestThresholdLabel(t *testing.T) {
	if got := thresholdLabel(0.014, 0.7); got != "±2% Threshold" {
		t.Errorf("did not get expected label. Got: %s", got)
	}
}
