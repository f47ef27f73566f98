/*
DESCRIPTION
  metrics.go computes tracking and effort metrics for a single altitude
  control run: RMSE, MAE, settling time, control energy and overshoot.

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

// Package metrics computes performance metrics for quadrotor altitude
// control runs.
package metrics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/quadeval/flightlog"
)

// Defaults used by the reference controller comparison.
const (
	DefaultTargetZ             = 0.7   // m.
	DefaultSettlingThreshold   = 0.014 // m, 2% of the target altitude.
	DefaultMinSettlingDuration = 2.0   // s.
	DefaultEnergyScale         = 2000  // Normalises simulation units to the reference table.

	// defaultStep is the time step assumed when it cannot be derived from the samples.
	defaultStep = 0.2 // s.
)

// Config holds the parameters of metric computation.
type Config struct {
	TargetZ             float64
	SettlingThreshold   float64
	MinSettlingDuration float64
	EnergyScale         float64
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		TargetZ:             DefaultTargetZ,
		SettlingThreshold:   DefaultSettlingThreshold,
		MinSettlingDuration: DefaultMinSettlingDuration,
		EnergyScale:         DefaultEnergyScale,
	}
}

// Set holds the metrics of one run. Values are unrounded.
type Set struct {
	RMSE          float64 // m.
	MAE           float64 // m.
	SettlingTime  float64 // s.
	ControlEnergy float64
	Overshoot     float64 // m.

	// Settled is false when the error never stayed in band for the minimum
	// duration, in which case SettlingTime is the final timestamp.
	Settled bool
}

// Rounded returns s rounded to reporting precision.
func (s Set) Rounded() Set {
	return Set{
		RMSE:          Round(s.RMSE, RMSEPrecision),
		MAE:           Round(s.MAE, MAEPrecision),
		SettlingTime:  Round(s.SettlingTime, SettlingTimePrecision),
		ControlEnergy: Round(s.ControlEnergy, ControlEnergyPrecision),
		Overshoot:     Round(s.Overshoot, OvershootPrecision),
		Settled:       s.Settled,
	}
}

// Reporting precision in decimal places.
const (
	RMSEPrecision          = 3
	MAEPrecision           = 3
	SettlingTimePrecision  = 1
	ControlEnergyPrecision = 1
	OvershootPrecision     = 2
)

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Compute returns the metrics of samples, which must be in time order.
func Compute(samples []flightlog.Sample, c Config) (Set, error) {
	if len(samples) == 0 {
		return Set{}, errors.New("no samples")
	}

	ez := flightlog.Errors(samples)
	u := flightlog.Inputs(samples)

	var s Set
	s.RMSE = math.Sqrt(floats.Dot(ez, ez) / float64(len(ez)))
	s.MAE = floats.Norm(ez, 1) / float64(len(ez))
	s.SettlingTime, s.Settled = SettlingTime(samples, c.SettlingThreshold, c.MinSettlingDuration)
	s.ControlEnergy = floats.Dot(u, u) * c.EnergyScale
	s.Overshoot = math.Max(0, floats.Max(flightlog.Altitudes(samples))-c.TargetZ)
	return s, nil
}

// Step returns the mean time between consecutive samples, or the default
// step if it is undefined or not positive.
func Step(samples []flightlog.Sample) float64 {
	if len(samples) < 2 {
		return defaultStep
	}
	diffs := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		diffs[i-1] = samples[i].Time - samples[i-1].Time
	}
	dt := stat.Mean(diffs, nil)
	if math.IsNaN(dt) || dt <= 0 {
		return defaultStep
	}
	return dt
}

// SettlingTime returns the start time of the first window of minDuration in
// which every |ez| is within threshold. If there is no such window the final
// timestamp is returned along with false.
func SettlingTime(samples []flightlog.Sample, threshold, minDuration float64) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}

	window := int(math.Round(minDuration / Step(samples)))
	if window < 1 {
		window = 1
	}

	// run counts consecutive in-band samples ending at i.
	run := 0
	for i, s := range samples {
		if math.Abs(s.Ez) <= threshold {
			run++
		} else {
			run = 0
		}
		if run >= window {
			return samples[i-window+1].Time, true
		}
	}
	return samples[len(samples)-1].Time, false
}
