/*
DESCRIPTION
  ids.go defines the controller and disturbance level identifiers used in
  log filenames, along with their display names and report ranks.

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

package flightlog

import "strings"

// Controller identifiers as they appear in log filenames.
const (
	PID        = "pid"
	FixedLADRC = "fixed_ladrc"
	FuzzyLADRC = "t3_fuzzy_ladrc"
)

// Disturbance level identifiers as they appear in log filenames.
const (
	Low      = "low"
	Moderate = "moderate"
	Extreme  = "extreme"
)

// Controllers and Levels hold the known identifiers in rank order.
var (
	Controllers = []string{PID, FixedLADRC, FuzzyLADRC}
	Levels      = []string{Low, Moderate, Extreme}
)

var controllerNames = map[string]string{
	PID:        "PID",
	FixedLADRC: "Fixed LADRC",
	FuzzyLADRC: "T3-FA-LADRC",
}

// ControllerName returns the display name of a controller. Unknown
// identifiers are returned unchanged.
func ControllerName(id string) string {
	if n, ok := controllerNames[id]; ok {
		return n
	}
	return id
}

// LevelName returns the capitalised display name of a disturbance level.
func LevelName(id string) string {
	if id == "" {
		return id
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

// ControllerRank returns the 1-based rank of a controller, or 0 if unknown.
func ControllerRank(id string) int {
	return rank(Controllers, id)
}

// LevelRank returns the 1-based rank of a level, or 0 if unknown.
func LevelRank(id string) int {
	return rank(Levels, id)
}

func rank(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i + 1
		}
	}
	return 0
}
