package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ddvk/dxf2png/config"
	"github.com/ddvk/dxf2png/dxf"
	"github.com/ddvk/dxf2png/render"
)

// ConvertFile returns the default ConvertFunc: read the drawing, paint it
// and write the flipped image and mask in format f.
func ConvertFile(cfg *config.Config, f render.Format) ConvertFunc {
	painter := render.NewPainter(cfg.Options())
	return func(input, output string) error {
		doc, err := dxf.Open(input)
		if err != nil {
			return err
		}
		out, err := painter.Paint(doc)
		if err != nil {
			return fmt.Errorf("paint %s: %w", input, err)
		}
		log.WithField("file", input).Debug(out.Stats)
		img, mask := out.Flipped()
		if err = WriteImage(output, img, f); err != nil {
			return err
		}
		return WriteImage(MaskPath(output), mask, f)
	}
}

// WriteImage encodes img into a temporary file next to path and renames it
// into place, so a failed write never leaves a partial image behind.
func WriteImage(path string, img image.Image, f render.Format) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	tmp := filepath.Join(dir, "."+name+"."+uuid.NewString()+".tmp")
	file, err := os.Create(tmp)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmp)
		}
	}()
	if err = render.Encode(file, img, f); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err = file.Close(); err != nil {
		return
	}
	return os.Rename(tmp, path)
}
