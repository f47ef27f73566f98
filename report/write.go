/*
DESCRIPTION
  write.go provides writing of report files to a primary location with a
  single fallback location.

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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// WriteError is returned when neither the primary nor the fallback location
// could be written.
type WriteError struct {
	Primary  string
	Fallback string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write %s or fallback %s: %v", e.Primary, e.Fallback, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FallbackName returns name with "_fallback" inserted before its extension.
func FallbackName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_fallback" + ext
}

// Output holds the directories report files are written to.
type Output struct {
	Dir         string // Primary directory.
	FallbackDir string // Used when a file cannot be written to Dir.
}

// Save writes data as name in the primary directory, falling back to the
// fallback directory with a "_fallback" suffixed name. The location written
// is returned.
func (o Output) Save(name string, data []byte) (string, error) {
	return WriteWithFallback(o.Path(name), o.FallbackPath(name), data)
}

// Path returns the primary location of name.
func (o Output) Path(name string) string { return filepath.Join(o.Dir, name) }

// FallbackPath returns the fallback location of name.
func (o Output) FallbackPath(name string) string {
	return filepath.Join(o.FallbackDir, FallbackName(name))
}

// WriteWithFallback writes data to primary, or to fallback if primary cannot
// be written. The location written is returned. If both fail a *WriteError
// holding both failures is returned.
func WriteWithFallback(primary, fallback string, data []byte) (string, error) {
	errPrimary := writeFile(primary, data)
	if errPrimary == nil {
		return primary, nil
	}
	errFallback := writeFile(fallback, data)
	if errFallback == nil {
		return fallback, nil
	}
	return "", &WriteError{
		Primary:  primary,
		Fallback: fallback,
		Err:      multierror.Append(errPrimary, errFallback),
	}
}

// writeFile creates path and writes data to it, closing the file whatever
// the outcome.
func writeFile(path string, data []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); e != nil {
			err = combineErrors(err, e)
		}
	}()
	_, err = f.Write(data)
	return err
}

func combineErrors(errors ...error) (err error) {
	for _, e := range errors {
		switch {
		case e == nil:
			// ignore
		case err == nil:
			err = e
		default:
			err = multierror.Append(err, e)
		}
	}
	return err
}
