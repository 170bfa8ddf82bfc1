// Package distortion measures how far a stego raster has drifted from its original.
package distortion

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/yyyoichi/lsb_zero/raster"
	"gonum.org/v1/gonum/stat"
)

// MaxValue is the peak channel value used by PSNR.
const MaxValue = 255.0

var (
	ErrDimensionMismatch = errors.New("images must have the same dimensions")
)

// Report is the result of a single comparison.
type Report struct {
	// MSE is the mean squared error over every channel of every pixel.
	MSE float64
	// PSNR in dB; +Inf when the rasters are identical.
	PSNR float64
	// Changed is the number of channel positions whose values differ.
	Changed int
}

// Identical reports whether the compared rasters matched bit for bit.
func (r Report) Identical() bool {
	return r.Changed == 0
}

// Compare computes MSE, PSNR and the changed channel count between a and b.
// The rasters must have the same width and height.
func Compare(a, b *raster.Buffer) (Report, error) {
	if !a.SameSize(b) {
		return Report{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, a.Width, a.Height, b.Width, b.Height)
	}
	if len(a.Pix) == 0 {
		return Report{PSNR: math.Inf(1)}, nil
	}

	squared := make([]float64, len(a.Pix))
	var changed int
	for i := range a.Pix {
		d := float64(a.Pix[i]) - float64(b.Pix[i])
		squared[i] = d * d
		if a.Pix[i] != b.Pix[i] {
			changed++
		}
	}
	mse := stat.Mean(squared, nil)
	return Report{
		MSE:     mse,
		PSNR:    PSNRFromMSE(mse),
		Changed: changed,
	}, nil
}

// CompareImages converts both images to RGB rasters and compares them.
func CompareImages(a, b image.Image) (Report, error) {
	return Compare(raster.FromImage(a), raster.FromImage(b))
}

// PSNRFromMSE returns 10*log10(255^2/mse), or +Inf for a zero error.
func PSNRFromMSE(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(MaxValue*MaxValue/mse)
}
