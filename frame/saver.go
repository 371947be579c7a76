package frame

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Supported image formats for persisted frames.
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// Saver writes frames to sequentially numbered image files.
type Saver struct {
	dir    string
	format string
	encode func(w io.Writer, img image.Image) error
}

// NewSaver creates dir if needed and returns a saver for format.
func NewSaver(dir, format string) (*Saver, error) {
	s := &Saver{dir: dir, format: format}

	switch format {
	case FormatPNG, "":
		s.format = FormatPNG
		s.encode = png.Encode
	case FormatBMP:
		s.encode = bmp.Encode
	case FormatTIFF:
		s.encode = func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, nil)
		}
	default:
		return nil, fmt.Errorf("unsupported frame format: %s (must be png, bmp or tiff)", format)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating frame directory: %w", err)
	}
	return s, nil
}

// Dir returns the output directory.
func (s *Saver) Dir() string {
	return s.dir
}

// Path returns the file path used for frame number n.
func (s *Saver) Path(n int) string {
	return filepath.Join(s.dir, FileName(n, s.format))
}

// FileName returns frame_<n> zero-padded to three digits with extension ext.
func FileName(n int, ext string) string {
	return fmt.Sprintf("frame_%03d.%s", n, ext)
}

// Save writes f to its numbered file and returns the path.
func (s *Saver) Save(f *Frame) (string, error) {
	path := s.Path(f.Index)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	if err := s.encode(w, f.RGBA()); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
