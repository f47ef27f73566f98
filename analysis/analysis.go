/*
DESCRIPTION
  analysis.go runs a controller comparison: it loads the log of every
  (controller, disturbance level) pair, computes metrics, and writes the
  result table and comparison charts.

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

// Package analysis provides the batch comparison of quadrotor altitude
// controllers across disturbance levels.
package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/quadeval/flightlog"
	"github.com/ausocean/quadeval/metrics"
	"github.com/ausocean/quadeval/report"
)

// TableName is the filename of the result table.
const TableName = "controller_comparison_results.csv"

// Result describes the outcome of a comparison.
type Result struct {
	Table     *report.Table
	TablePath string   // Location the table was written to.
	Charts    []string // Locations the charts were written to.
	Skipped   []error  // Load or computation failures of skipped runs.
}

// Run performs the comparison described by cfg. Runs that cannot be loaded
// are logged and skipped. The result table is printed to stdout. An error is
// returned only if cfg is invalid or an output could be written neither to
// its primary nor its fallback location.
func Run(cfg Config, log logging.Logger, stdout io.Writer) (*Result, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	err = os.MkdirAll(cfg.OutDir, 0755)
	if err != nil {
		log.Warning("could not create output directory", "dir", cfg.OutDir, "error", err.Error())
	}

	candidates := cfg.Candidates
	if len(candidates) == 0 {
		candidates, err = flightlog.Candidates(cfg.BaseDir)
		if err != nil {
			log.Error("could not list log files", "dir", cfg.BaseDir, "error", err.Error())
		}
	}

	res := &Result{}
	runs := make(map[string][]*flightlog.Run) // Keyed by level.
	var rows []report.Row
	for _, c := range cfg.Controllers {
		for _, l := range cfg.Levels {
			run, set, err := process(cfg, candidates, c, l, log)
			if err != nil {
				log.Warning("skipping run", "controller", c, "level", l, "error", err.Error())
				res.Skipped = append(res.Skipped, err)
				continue
			}
			runs[l] = append(runs[l], run)
			rows = append(rows, report.Row{Level: l, Controller: c, Metrics: set})
		}
	}

	res.Table = report.NewTable(rows)
	out := report.Output{Dir: cfg.OutDir, FallbackDir: cfg.BaseDir}

	var buf bytes.Buffer
	err = res.Table.WriteCSV(&buf)
	if err != nil {
		return res, fmt.Errorf("could not encode result table: %w", err)
	}
	res.TablePath, err = save(out, TableName, buf.Bytes(), log)
	if err != nil {
		return res, err
	}

	fmt.Fprintln(stdout, "Results Table:")
	err = res.Table.WriteText(stdout)
	if err != nil {
		log.Warning("could not print result table", "error", err.Error())
	}
	fmt.Fprintf(stdout, "\nResults saved to: %s\n", res.TablePath)

	for _, l := range cfg.Levels {
		if len(runs[l]) == 0 {
			log.Warning("no runs for level, skipping traces", "level", l)
			continue
		}
		err = chart(res, out, report.ErrorChartName(l), log, func() ([]byte, error) {
			return report.ErrorChart(l, runs[l], cfg.Metrics.SettlingThreshold, cfg.Metrics.TargetZ)
		})
		if err != nil {
			return res, err
		}
		err = chart(res, out, report.InputChartName(l), log, func() ([]byte, error) {
			return report.InputChart(l, runs[l])
		})
		if err != nil {
			return res, err
		}
	}

	if len(res.Table.Rows) == 0 {
		log.Warning("no results, skipping metric comparisons")
	} else {
		for _, m := range report.Metrics {
			err = chart(res, out, report.MetricChartName(m), log, func() ([]byte, error) {
				return report.MetricChart(m, res.Table, cfg.Controllers, cfg.Levels)
			})
			if err != nil {
				return res, err
			}
		}
	}

	fmt.Fprintf(stdout, "\nFigures saved to: %s\n", cfg.OutDir)
	log.Info("comparison complete", "rows", len(res.Table.Rows), "skipped", len(res.Skipped), "charts", len(res.Charts))
	return res, nil
}

// process loads and computes the metrics of one run.
func process(cfg Config, candidates []string, controller, level string, log logging.Logger) (*flightlog.Run, metrics.Set, error) {
	if m := flightlog.Matches(candidates, controller, level); len(m) > 1 {
		log.Warning("several logs match run, using first", "controller", controller, "level", level, "file", m[0])
	}

	run, err := flightlog.Load(cfg.BaseDir, candidates, controller, level)
	if err != nil {
		return nil, metrics.Set{}, err
	}
	log.Info("loaded log", "file", run.File, "samples", len(run.Samples))

	set, err := metrics.Compute(run.Samples, cfg.Metrics)
	if err != nil {
		return nil, metrics.Set{}, &flightlog.RunLoadError{Controller: controller, Level: level, File: run.File, Err: err}
	}
	if !set.Settled {
		log.Debug("run did not settle", "controller", controller, "level", level)
	}
	return run, set, nil
}

// chart renders a chart with draw and saves it. A chart that cannot be
// rendered is logged and skipped.
func chart(res *Result, out report.Output, name string, log logging.Logger, draw func() ([]byte, error)) error {
	b, err := draw()
	if err != nil {
		log.Error("could not render chart", "chart", name, "error", err.Error())
		return nil
	}
	path, err := save(out, name, b, log)
	if err != nil {
		return err
	}
	res.Charts = append(res.Charts, path)
	return nil
}

// save writes data with fallback, logging when the fallback is used.
func save(out report.Output, name string, data []byte, log logging.Logger) (string, error) {
	path, err := out.Save(name, data)
	var we *report.WriteError
	if errors.As(err, &we) {
		log.Error("could not write output", "primary", we.Primary, "fallback", we.Fallback, "error", we.Err.Error())
		return "", err
	}
	if err != nil {
		return "", err
	}
	if path != out.Path(name) {
		log.Warning("could not write to output directory, used fallback", "file", name, "path", path)
	} else {
		log.Debug("wrote output", "path", path)
	}
	return path, nil
}
