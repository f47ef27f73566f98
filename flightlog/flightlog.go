/*
DESCRIPTION
  flightlog.go locates and parses quadrotor simulation logs. Each log is a CSV
  file named quad_{controller}_{level}_<timestamp>_log.csv holding one row per
  sample of time, altitude error, control input and altitude.

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

// Package flightlog provides loading of quadrotor altitude control logs
// recorded for a (controller, disturbance level) pair.
package flightlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Required column names.
const (
	colTime = "time"
	colEz   = "ez"
	colU    = "u"
	colPosZ = "pos_z"
)

const logSuffix = "_log.csv"

// Sample is a single row of a log.
type Sample struct {
	Time float64 // Seconds.
	Ez   float64 // Altitude error (m), measured minus target.
	U    float64 // Control input.
	PosZ float64 // Altitude (m).
}

// Run holds the samples recorded for one controller under one disturbance level.
type Run struct {
	Controller string
	Level      string
	File       string
	Samples    []Sample
}

// RunLoadError is returned when the log for a run cannot be found or read.
type RunLoadError struct {
	Controller string
	Level      string
	File       string // Empty if no file matched.
	Err        error
}

func (e *RunLoadError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("could not load %s_%s: %v", e.Controller, e.Level, e.Err)
	}
	return fmt.Sprintf("could not load %s_%s from %s: %v", e.Controller, e.Level, e.File, e.Err)
}

func (e *RunLoadError) Unwrap() error { return e.Err }

// ErrNoMatch is wrapped by a RunLoadError when no candidate matches a run.
var ErrNoMatch = errors.New("no matching log file")

// Prefix returns the filename prefix of logs for the given controller and level.
func Prefix(controller, level string) string {
	return "quad_" + controller + "_" + level + "_"
}

// Locate returns the first candidate that names a log for the given
// controller and level.
func Locate(candidates []string, controller, level string) (string, error) {
	prefix := Prefix(controller, level)
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) && strings.HasSuffix(c, logSuffix) {
			return c, nil
		}
	}
	return "", &RunLoadError{Controller: controller, Level: level, Err: ErrNoMatch}
}

// Matches returns every candidate that names a log for the given controller
// and level.
func Matches(candidates []string, controller, level string) []string {
	var m []string
	prefix := Prefix(controller, level)
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) && strings.HasSuffix(c, logSuffix) {
			m = append(m, c)
		}
	}
	return m
}

// Candidates returns the sorted names of the regular files in dir.
func Candidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load locates the log for the given controller and level amongst candidates,
// which are names relative to dir, and reads it. All errors are of type
// *RunLoadError.
func Load(dir string, candidates []string, controller, level string) (*Run, error) {
	name, err := Locate(candidates, controller, level)
	if err != nil {
		return nil, err
	}

	samples, err := ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, &RunLoadError{Controller: controller, Level: level, File: name, Err: err}
	}
	return &Run{Controller: controller, Level: level, File: name, Samples: samples}, nil
}

// ReadFile reads the samples of the log at path.
func ReadFile(path string) (samples []Sample, re error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			re = multierror.Append(re, err)
		}
	}()
	return Read(f)
}

// Read parses a log from r. The header must name the time, ez, u and pos_z
// columns; other columns are ignored.
func Read(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("no header found")
	}
	if err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	var cols [4]int
	for i, name := range []string{colTime, colEz, colU, colPosZ} {
		c, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("missing column: %s", name)
		}
		cols[i] = c
	}

	var samples []Sample
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read record: %w", err)
		}

		var v [4]float64
		for i, c := range cols {
			if c >= len(record) {
				return nil, fmt.Errorf("short record on line %d", line)
			}
			v[i], err = strconv.ParseFloat(strings.TrimSpace(record[c]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s value on line %d: %w", header[c], line, err)
			}
		}
		samples = append(samples, Sample{Time: v[0], Ez: v[1], U: v[2], PosZ: v[3]})
	}

	if len(samples) == 0 {
		return nil, errors.New("no samples found")
	}
	return samples, nil
}

// Times returns the time column of samples.
func Times(samples []Sample) []float64 {
	return column(samples, func(s Sample) float64 { return s.Time })
}

// Errors returns the ez column of samples.
func Errors(samples []Sample) []float64 {
	return column(samples, func(s Sample) float64 { return s.Ez })
}

// Inputs returns the u column of samples.
func Inputs(samples []Sample) []float64 {
	return column(samples, func(s Sample) float64 { return s.U })
}

// Altitudes returns the pos_z column of samples.
func Altitudes(samples []Sample) []float64 {
	return column(samples, func(s Sample) float64 { return s.PosZ })
}

func column(samples []Sample, f func(Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = f(s)
	}
	return out
}
