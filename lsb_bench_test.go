package lsb_test

import (
	"bytes"
	"testing"

	lsb "github.com/yyyoichi/lsb_zero"
	"github.com/yyyoichi/lsb_zero/raster"
)

func createImage(w, h int) *raster.Buffer {
	b, _ := raster.New(w, h)
	for i := range b.Pix {
		b.Pix[i] = uint8(i * 31)
	}
	return b
}

// BenchmarkEmbed_FHD fills most of an FHD raster with varying goroutine counts
func BenchmarkEmbed_FHD(b *testing.B) {
	test := []struct {
		name string
		opts []lsb.Option
	}{
		{name: "workers_1", opts: []lsb.Option{lsb.WithWorkers(1)}},
		{name: "workers_4", opts: []lsb.Option{lsb.WithWorkers(4)}},
		{name: "workers_16", opts: []lsb.Option{lsb.WithWorkers(16)}},
	}

	img := createImage(1920, 1080)
	msg := bytes.Repeat([]byte("watermark"), 80000)
	ctx := b.Context()

	for _, tt := range test {
		b.Run(tt.name, func(b *testing.B) {
			s, err := lsb.New(tt.opts...)
			if err != nil {
				b.Fatalf("Failed to create Stego instance (%s): %v", tt.name, err)
			}
			for b.Loop() {
				res, err := s.Embed(ctx, img, msg)
				if err != nil {
					b.Fatalf("Failed to embed message (%s): %v", tt.name, err)
				}
				_ = res
			}
		})
	}
}

func BenchmarkExtract_FHD(b *testing.B) {
	img := createImage(1920, 1080)
	msg := bytes.Repeat([]byte("watermark"), 80000)
	ctx := b.Context()
	res, err := lsb.Embed(ctx, img, msg)
	if err != nil {
		b.Fatalf("Failed to embed message: %v", err)
	}
	for b.Loop() {
		if _, err := lsb.Extract(ctx, res.Buffer); err != nil {
			b.Fatalf("Failed to extract message: %v", err)
		}
	}
}
