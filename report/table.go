/*
DESCRIPTION
  table.go provides the result table of a controller comparison and its CSV
  and console renderings.

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

// Package report aggregates controller metrics into a sorted table and
// renders it, along with comparison charts, to files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ausocean/quadeval/flightlog"
	"github.com/ausocean/quadeval/metrics"
)

// Metric describes one metric column of the table.
type Metric struct {
	Name      string // Column header.
	Precision int    // Decimal places when reported.
	Value     func(metrics.Set) float64
}

// Slug returns the filename stem of the metric, its lower case name with
// spaces replaced by underscores.
func (m Metric) Slug() string {
	return strings.ReplaceAll(strings.ToLower(m.Name), " ", "_")
}

// Metrics lists the metric columns in table order.
var Metrics = []Metric{
	{"RMSE (m)", metrics.RMSEPrecision, func(s metrics.Set) float64 { return s.RMSE }},
	{"MAE (m)", metrics.MAEPrecision, func(s metrics.Set) float64 { return s.MAE }},
	{"Settling Time (s)", metrics.SettlingTimePrecision, func(s metrics.Set) float64 { return s.SettlingTime }},
	{"Control Energy", metrics.ControlEnergyPrecision, func(s metrics.Set) float64 { return s.ControlEnergy }},
	{"Overshoot (m)", metrics.OvershootPrecision, func(s metrics.Set) float64 { return s.Overshoot }},
}

// Row is the result of one run.
type Row struct {
	Level      string
	Controller string
	Metrics    metrics.Set
}

// Table holds rows ordered by level rank then controller rank.
type Table struct {
	Rows []Row
}

// NewTable returns a table of rows in report order. The order does not
// depend on the order of rows.
func NewTable(rows []Row) *Table {
	t := &Table{Rows: make([]Row, len(rows))}
	copy(t.Rows, rows)
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		if la, lb := flightlog.LevelRank(a.Level), flightlog.LevelRank(b.Level); la != lb {
			return la < lb
		}
		if ca, cb := flightlog.ControllerRank(a.Controller), flightlog.ControllerRank(b.Controller); ca != cb {
			return ca < cb
		}
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.Controller < b.Controller
	})
	return t
}

// Lookup returns the metrics for the given level and controller.
func (t *Table) Lookup(level, controller string) (metrics.Set, bool) {
	for _, r := range t.Rows {
		if r.Level == level && r.Controller == controller {
			return r.Metrics, true
		}
	}
	return metrics.Set{}, false
}

// Header returns the column names of the table.
func Header() []string {
	h := []string{"Level", "Controller"}
	for _, m := range Metrics {
		h = append(h, m.Name)
	}
	return h
}

// records returns the table as rows of formatted fields.
func (t *Table) records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := []string{flightlog.LevelName(r.Level), flightlog.ControllerName(r.Controller)}
		for _, m := range Metrics {
			v := metrics.Round(m.Value(r.Metrics), m.Precision)
			rec = append(rec, strconv.FormatFloat(v, 'f', m.Precision, 64))
		}
		out = append(out, rec)
	}
	return out
}

// WriteCSV writes the table with a header row to w.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	if err := cw.WriteAll(t.records()); err != nil {
		return fmt.Errorf("could not write records: %w", err)
	}
	return nil
}

// WriteText writes the table to w as aligned columns.
func (t *Table) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, rec := range append([][]string{Header()}, t.records()...) {
		for _, f := range rec {
			fmt.Fprint(tw, f, "\t")
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
