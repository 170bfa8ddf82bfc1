// Package raster holds the 8-bit RGB pixel buffer shared by the embedder,
// the extractor and the distortion analyzer.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ChannelsPerPixel is the number of color channels stored for each pixel (R, G, B).
const ChannelsPerPixel = 3

var (
	ErrInvalidSize   = errors.New("raster width and height must not be negative")
	ErrInvalidLength = errors.New("pixel data length does not match raster size")
)

// Buffer is a row-major RGB raster without alpha.
// Pix holds Width*Height*3 bytes; the channels of pixel (x, y) start at (y*Width+x)*3.
type Buffer struct {
	Width, Height int
	Pix           []uint8
}

// New returns a black raster of the given size.
func New(width, height int) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*ChannelsPerPixel),
	}, nil
}

// FromPix wraps pix without copying it.
func FromPix(width, height int, pix []uint8) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if want := width * height * ChannelsPerPixel; len(pix) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidLength, len(pix), want)
	}
	return &Buffer{Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts src into an RGB raster, scanning rows from Bounds().Min.
// Alpha is dropped after conversion to non-premultiplied color.
func FromImage(src image.Image) *Buffer {
	bounds := src.Bounds()
	b := &Buffer{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
	b.Pix = make([]uint8, b.Width*b.Height*ChannelsPerPixel)

	if n, ok := src.(*image.NRGBA); ok {
		idx := 0
		for y := range b.Height {
			row := n.Pix[n.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := range b.Width {
				copy(b.Pix[idx:idx+3], row[x*4:x*4+3])
				idx += 3
			}
		}
		return b
	}

	idx := 0
	for y := range b.Height {
		for x := range b.Width {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			b.Pix[idx], b.Pix[idx+1], b.Pix[idx+2] = c.R, c.G, c.B
			idx += 3
		}
	}
	return b
}

// Image builds an opaque image from the raster.
func (b *Buffer) Image() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	idx := 0
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = b.Pix[idx], b.Pix[idx+1], b.Pix[idx+2]
		dst.Pix[i+3] = 0xff
		idx += 3
	}
	return dst
}

func (b *Buffer) Copy() *Buffer {
	pix := make([]uint8, len(b.Pix))
	_ = copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Channels returns the number of channel values, which is also the LSB capacity in bits.
func (b *Buffer) Channels() int {
	return b.Width * b.Height * ChannelsPerPixel
}

func (b *Buffer) PixOffset(x, y int) int {
	return (y*b.Width + x) * ChannelsPerPixel
}

func (b *Buffer) At(x, y int) (r, g, bl uint8) {
	i := b.PixOffset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

func (b *Buffer) Set(x, y int, r, g, bl uint8) {
	i := b.PixOffset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
}

func (b *Buffer) SameSize(other *Buffer) bool {
	return b.Width == other.Width && b.Height == other.Height
}
