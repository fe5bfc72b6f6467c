// Package batch converts many DXF files, one at a time, and reports each
// result. A failing file is counted and never stops the batch.
package batch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ddvk/dxf2png/render"
)

const dxfExt = ".dxf"

var (
	ErrNotExist = errors.New("input path doesn't exist")
	ErrPanic    = errors.New("conversion panicked")
)

// IsDXF reports whether name ends in .dxf, ignoring case.
func IsDXF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), dxfExt)
}

// Collect lists the files to convert. A .dxf file is returned as is. A
// directory gives its .dxf entries, or in tree mode the .dxf files of every
// directory below it that has no subdirectories. Order is the file system's.
func Collect(input string, tree bool) (files []string, err error) {
	info, err := os.Stat(input)
	if err != nil {
		return
	}
	if !info.IsDir() && IsDXF(input) {
		return []string{input}, nil
	}
	if !tree {
		var entries []os.DirEntry
		entries, err = os.ReadDir(input)
		if err != nil {
			return
		}
		for _, e := range entries {
			if IsDXF(e.Name()) {
				files = append(files, filepath.Join(input, e.Name()))
			}
		}
		return
	}

	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		var leaf []string
		for _, e := range entries {
			if e.IsDir() {
				return nil
			}
			if IsDXF(e.Name()) {
				leaf = append(leaf, filepath.Join(path, e.Name()))
			}
		}
		files = append(files, leaf...)
		return nil
	})
	return
}

// OutputPath is outDir/<base of input without extension>.<ext>.
func OutputPath(input, outDir, ext string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+"."+ext)
}

// MaskPath inserts _mask before the extension of out.
func MaskPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_mask" + ext
}

// ConvertFunc converts input and writes the image to output and the mask next to it.
type ConvertFunc func(input, output string) error

type Result struct {
	Input  string
	Output string
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Summary struct {
	Results []Result
	Failed  int
}

type Driver struct {
	Output  string
	Format  render.Format
	Convert ConvertFunc
	// Report receives the per file lines and the failure count.
	Report io.Writer
	RunID  uuid.UUID
}

// Run converts files in order and prints one line per file.
func (d *Driver) Run(files []string) Summary {
	var s Summary
	logger := log.WithField("run", d.RunID.String())
	for _, f := range files {
		r := Result{
			Input:  f,
			Output: OutputPath(f, d.Output, d.Format.Ext()),
		}
		r.Err = d.convert(r.Input, r.Output)
		entry := logger.WithField("file", f)
		if r.OK() {
			fmt.Fprintf(d.Report, "Filename `%s`: OK\n", f)
			entry.Debugf("wrote %s", r.Output)
		} else {
			fmt.Fprintf(d.Report, "Filename `%s`: FAILURE\n", f)
			entry.Errorf("%+v", r.Err)
			s.Failed++
		}
		s.Results = append(s.Results, r)
	}
	fmt.Fprintf(d.Report, "Fail converting: %d\n", s.Failed)
	return s
}

// convert calls d.Convert and turns a panic into the error of that file.
func (d *Driver) convert(input, output string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	return d.Convert(input, output)
}

// CheckInput prints a notice when input is missing and returns ErrNotExist.
// Callers go on regardless, the listing that follows reports the real error.
func CheckInput(w io.Writer, input string) error {
	if _, err := os.Stat(input); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "Input path `%s` doesn't exist\n", input)
		return ErrNotExist
	}
	return nil
}
