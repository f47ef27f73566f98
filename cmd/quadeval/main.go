/*
DESCRIPTION
  quadeval compares the altitude control performance of PID, fixed LADRC and
  T3 fuzzy adaptive LADRC quadrotor controllers under low, moderate and
  extreme disturbances, using recorded simulation logs. A result table and
  comparison charts are written to the output directory.

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

// quadeval compares quadrotor altitude controllers from recorded simulation
// logs named quad_{controller}_{level}_<timestamp>_log.csv.
package main

import (
	"flag"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/quadeval/analysis"
)

// Logging configuration.
const (
	logPath      = "quadeval.log"
	logMaxSize   = 500 // MB.
	logMaxBackup = 10
	logMaxAge    = 28 // Days.
	logVerbosity = logging.Info
	logSuppress  = false
)

func main() {
	var (
		configPath = flag.String("config", "", "Path of an optional key/value config file.")
		baseDir    = flag.String("base", "", "Directory holding the logs. Overrides the config file.")
		outDir     = flag.String("out", "", "Output directory. Overrides the config file.")
		logLevel   = flag.Int("log-level", int(logVerbosity), "Log level, from Debug (-1) to Fatal (3).")
		logFile    = flag.String("log-path", logPath, "Path of the log file.")
	)
	flag.Parse()

	validLogLevel := true
	if *logLevel < int(logging.Debug) || *logLevel > int(logging.Fatal) {
		*logLevel = int(logVerbosity)
		validLogLevel = false
	}

	fileLog := &lumberjack.Logger{
		Filename:   *logFile,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()

	log := logging.New(int8(*logLevel), io.MultiWriter(os.Stderr, fileLog), logSuppress)
	if !validLogLevel {
		log.Error("invalid log level, defaulted to Info")
	}

	cfg := analysis.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = analysis.ReadConfig(*configPath)
		if err != nil {
			log.Fatal("could not read config", "error", err.Error())
		}
	}
	if *baseDir != "" {
		cfg.BaseDir = *baseDir
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	log.Info("starting comparison", "base", cfg.BaseDir, "out", cfg.OutDir, "controllers", cfg.Controllers, "levels", cfg.Levels)

	_, err := analysis.Run(cfg, log, os.Stdout)
	if err != nil {
		log.Fatal("comparison failed", "error", err.Error())
	}
}
