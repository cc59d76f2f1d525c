package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pkg/browser"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	// ErrSave means a finished chart could not be written to disk.
	ErrSave = errors.New("save error")
	// ErrDisplay means a finished chart could not be shown.
	ErrDisplay = errors.New("display error")
)

// SaveError reports a failed write of an output file.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

func (e *SaveError) Is(target error) bool { return target == ErrSave }

// EncodePNG draws p onto a widthIn x heightIn inch canvas at dpi and returns
// the PNG bytes.
func EncodePNG(p *plot.Plot, widthIn, heightIn float64, dpi int) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("failed to draw plot: %v", r)
		}
	}()

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	buf := new(bytes.Buffer)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePNG writes data to path. Failures are returned as *SaveError.
func SavePNG(data []byte, path string) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}

// Opener shows a file to the user.
type Opener func(path string) error

// SystemViewer opens a file with the platform's default application.
var SystemViewer Opener = browser.OpenFile

// Display writes data to a temporary PNG and hands it to open, returning the
// temporary path. The file is left in place for the viewer to read.
func Display(data []byte, open Opener) (string, error) {
	if open == nil {
		open = SystemViewer
	}
	f, err := os.CreateTemp("", "ber_plot_*.png")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDisplay, err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		return path, fmt.Errorf("%w: failed to write %s: %v", ErrDisplay, path, err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("%w: failed to write %s: %v", ErrDisplay, path, err)
	}
	if err := open(path); err != nil {
		return path, fmt.Errorf("%w: failed to open %s: %v", ErrDisplay, path, err)
	}
	return path, nil
}
