/*
DESCRIPTION
  config.go provides the configuration of a controller comparison and its
  loading from a key/value configuration file.

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

package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/filemap"
	"github.com/ausocean/utils/sliceutils"

	"github.com/ausocean/quadeval/flightlog"
	"github.com/ausocean/quadeval/metrics"
)

// Default locations.
const (
	DefaultBaseDir = "data"
	DefaultOutDir  = "results"
)

// Configuration file keys.
const (
	keyBase        = "base"
	keyOut         = "out"
	keyFiles       = "files"
	keyControllers = "controllers"
	keyLevels      = "levels"
	keyTarget      = "target"
	keyThreshold   = "threshold"
	keySettle      = "settle"
	keyScale       = "scale"
)

// Config holds the parameters of a comparison. It is constructed once and
// not modified during a run.
type Config struct {
	BaseDir string // Directory holding the logs and fallback outputs.
	OutDir  string // Primary output directory.

	// Candidates are the log filenames considered. If empty, the regular
	// files of BaseDir are used.
	Candidates []string

	Controllers []string
	Levels      []string
	Metrics     metrics.Config
}

// DefaultConfig returns the configuration of the reference comparison.
func DefaultConfig() Config {
	return Config{
		BaseDir:     DefaultBaseDir,
		OutDir:      DefaultOutDir,
		Controllers: append([]string(nil), flightlog.Controllers...),
		Levels:      append([]string(nil), flightlog.Levels...),
		Metrics:     metrics.DefaultConfig(),
	}
}

// Validate checks that c names only known controllers and levels and that
// its metric parameters are usable.
func (c Config) Validate() error {
	if c.BaseDir == "" {
		return errors.New("base directory not set")
	}
	if c.OutDir == "" {
		return errors.New("output directory not set")
	}
	if len(c.Controllers) == 0 {
		return errors.New("no controllers")
	}
	for _, id := range c.Controllers {
		if !sliceutils.ContainsString(flightlog.Controllers, id) {
			return fmt.Errorf("unknown controller: %s", id)
		}
	}
	if len(c.Levels) == 0 {
		return errors.New("no disturbance levels")
	}
	for _, id := range c.Levels {
		if !sliceutils.ContainsString(flightlog.Levels, id) {
			return fmt.Errorf("unknown disturbance level: %s", id)
		}
	}
	if c.Metrics.SettlingThreshold < 0 {
		return fmt.Errorf("invalid settling threshold: %v", c.Metrics.SettlingThreshold)
	}
	if c.Metrics.MinSettlingDuration <= 0 {
		return fmt.Errorf("invalid settling duration: %v", c.Metrics.MinSettlingDuration)
	}
	return nil
}

// ReadConfig returns DefaultConfig updated with the values in the
// configuration file at path, which holds one "key value" pair per line.
func ReadConfig(path string) (Config, error) {
	c := DefaultConfig()
	vals, err := filemap.ReadFrom(path, "\n", " ")
	if err != nil {
		return c, fmt.Errorf("could not read config file: %w", err)
	}
	err = c.Update(vals)
	if err != nil {
		return c, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return c, nil
}

// Update sets the fields of c named by the keys of vals. Unknown keys are
// an error.
func (c *Config) Update(vals map[string]string) error {
	for k, v := range vals {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" {
			continue
		}
		var err error
		switch k {
		case keyBase:
			c.BaseDir = v
		case keyOut:
			c.OutDir = v
		case keyFiles:
			c.Candidates = splitList(v)
		case keyControllers:
			c.Controllers = splitList(v)
		case keyLevels:
			c.Levels = splitList(v)
		case keyTarget:
			c.Metrics.TargetZ, err = strconv.ParseFloat(v, 64)
		case keyThreshold:
			c.Metrics.SettlingThreshold, err = strconv.ParseFloat(v, 64)
		case keySettle:
			c.Metrics.MinSettlingDuration, err = strconv.ParseFloat(v, 64)
		case keyScale:
			c.Metrics.EnergyScale, err = strconv.ParseFloat(v, 64)
		default:
			return fmt.Errorf("unknown config param: %s", k)
		}
		if err != nil {
			return fmt.Errorf("expected float for config param %s: %w", k, err)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
