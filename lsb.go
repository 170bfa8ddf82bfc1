// Package lsb hides byte messages in the least-significant bits of RGB rasters
// and recovers them.
//
// The message is followed by a fixed terminator and written one bit per channel
// in raster-scan order, R then G then B, most significant bit of each byte first.
// Extraction walks the same order and stops as soon as the decoded bytes end with
// the terminator.
package lsb

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/yyyoichi/lsb_zero/distortion"
	"github.com/yyyoichi/lsb_zero/internal/bitconv"
	"github.com/yyyoichi/lsb_zero/internal/lsb"
	"github.com/yyyoichi/lsb_zero/raster"
)

// DefaultTerminator marks the end of an embedded message.
const DefaultTerminator = bitconv.Terminator

var (
	ErrInsufficientCapacity = errors.New("message is too long to hide in this image")
	ErrTerminatorNotFound   = errors.New("terminator not found in image")
	ErrDimensionMismatch    = distortion.ErrDimensionMismatch
)

// Embed hides msg in src with the specified options.
// This is a convenience function that creates a Stego instance and calls its Embed method.
func Embed(ctx context.Context, src *raster.Buffer, msg []byte, opts ...Option) (*Result, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.Embed(ctx, src, msg)
}

// Extract recovers a message from src with the specified options.
// This is a convenience function that creates a Stego instance and calls its Extract method.
func Extract(ctx context.Context, src *raster.Buffer, opts ...Option) ([]byte, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.Extract(ctx, src)
}

// Compare measures the distortion between an original raster and its stego copy.
func Compare(original, stego *raster.Buffer) (distortion.Report, error) {
	return distortion.Compare(original, stego)
}

// Capacity returns the number of bits a width x height raster can hold.
func Capacity(width, height int) int {
	return width * height * raster.ChannelsPerPixel
}

type Stego struct {
	terminator []byte
	workers    int
}

// New initializes an embedder/extractor.
// The terminator and the number of embedding goroutines can be optionally specified.
// For default values, refer to the init function.
func New(opts ...Option) (*Stego, error) {
	s := new(Stego)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Embed hides msg in a copy of src.
//
// Process:
//  1. Encodes msg followed by the terminator into a bit stream.
//  2. Checks that the stream fits into the W*H*3 channels of src.
//  3. Replaces the LSB of channel i with stream bit i; the remaining channels are copied as is.
//
// src is never modified. Returns ErrInsufficientCapacity if the stream does not fit.
func (s *Stego) Embed(ctx context.Context, src *raster.Buffer, msg []byte) (*Result, error) {
	bits := bitconv.EncodedLen(len(msg), len(s.terminator))
	if err := lsb.Enable(src, bits); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInsufficientCapacity, err)
	}
	stream := bitconv.Encode(msg, s.terminator)
	dist, changed, err := lsb.Embed(ctx, src, stream, s.workers)
	if err != nil {
		return nil, err
	}
	return &Result{
		Buffer:  dist,
		Changed: changed,
		Bits:    stream.Len(),
	}, nil
}

// EmbedImage converts src to an RGB raster and embeds msg into it.
func (s *Stego) EmbedImage(ctx context.Context, src image.Image, msg []byte) (*Result, error) {
	return s.Embed(ctx, raster.FromImage(src), msg)
}

// Extract recovers a message from src.
//
// Process:
//  1. Reads channel LSBs in the embedding order and packs them into bytes.
//  2. After every byte, checks whether the decoded bytes end with the terminator.
//  3. On a match, returns everything before the terminator without reading further.
//
// A message that itself contains the terminator is cut at its first occurrence.
// Returns ErrTerminatorNotFound if every channel was read without a match.
func (s *Stego) Extract(ctx context.Context, src *raster.Buffer) ([]byte, error) {
	dec := bitconv.NewDecoder(s.terminator)
	found, err := lsb.Extract(ctx, src, dec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: read %d channels", ErrTerminatorNotFound, src.Channels())
	}
	return dec.Message(), nil
}

// ExtractImage converts src to an RGB raster and extracts a message from it.
func (s *Stego) ExtractImage(ctx context.Context, src image.Image) ([]byte, error) {
	return s.Extract(ctx, raster.FromImage(src))
}

// MaxMessageLen returns the longest message in bytes that fits into a width x height raster.
func (s *Stego) MaxMessageLen(width, height int) int {
	return max(Capacity(width, height)/8-len(s.terminator), 0)
}

// Terminator returns a copy of the configured terminator.
func (s *Stego) Terminator() []byte {
	return append([]byte(nil), s.terminator...)
}

func (s *Stego) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	if s.terminator == nil {
		s.terminator = []byte(DefaultTerminator)
	}
	if s.workers == 0 {
		s.workers = 1
	}
	return nil
}

// Result is the outcome of a successful Embed.
type Result struct {
	// Buffer is the stego raster, same size as the source.
	Buffer *raster.Buffer
	// Changed is the number of channel values whose LSB was flipped.
	// It equals distortion.Compare(src, Buffer).Changed.
	Changed int
	// Bits is the length of the embedded stream including the terminator.
	Bits int
}

// Image returns the stego raster as an opaque image.
func (r *Result) Image() *image.NRGBA {
	return r.Buffer.Image()
}
