// Package imageio loads and saves rasters as image files.
//
// Stego output is only written in lossless formats: any lossy re-encoding
// destroys the embedded LSBs.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yyyoichi/lsb_zero/raster"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultPrefix is prepended to the source file name when naming stego output.
const DefaultPrefix = "Stego"

var (
	ErrLossyFormat = errors.New("output format must be lossless (png, bmp or tiff)")
)

// Decode reads any registered image format and returns its RGB raster and format name.
func Decode(r io.Reader) (*raster.Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return raster.FromImage(img), format, nil
}

func Load(path string) (*raster.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	b, format, err := Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return b, format, nil
}

// FormatOf maps a file extension to a lossless format name.
func FormatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrLossyFormat, ext)
	}
}

// Encode writes b in the named lossless format.
func Encode(w io.Writer, format string, b *raster.Buffer) error {
	img := b.Image()
	switch format {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrLossyFormat, format)
	}
}

// Save writes b to path in the format implied by its extension.
func Save(path string, b *raster.Buffer) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := Encode(f, format, b); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// StegoPath names the output for src: prefix + base name, with a .png extension, inside dir.
// An empty dir keeps the output next to the working directory, an empty prefix uses DefaultPrefix.
func StegoPath(src, dir, prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
	return filepath.Join(dir, prefix+base)
}

// ReadMessage returns the raw contents of a message file.
func ReadMessage(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message file: %w", err)
	}
	return b, nil
}
