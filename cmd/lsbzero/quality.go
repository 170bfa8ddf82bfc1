package main

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	lsb "github.com/yyyoichi/lsb_zero"
	"github.com/yyyoichi/lsb_zero/imageio"
	"github.com/yyyoichi/lsb_zero/internal/bitconv"
	innerlsb "github.com/yyyoichi/lsb_zero/internal/lsb"
	"github.com/yyyoichi/lsb_zero/raster"
)

var qualityFlags struct {
	Seed    int64
	Workers int
	JPEG    bool
}

// TestParams describes a single quality case.
type TestParams struct {
	ImageWidth  int
	ImageHeight int
	MessageLen  int
	Fill        float64
	Format      string
}

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Evaluate round trips and distortion over a grid of image sizes and message lengths",
	Long: `Generates synthetic images, embeds random messages of several lengths, saves them
losslessly (or as JPEG with --jpeg), extracts them again and reports PSNR and bit accuracy.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		// Test parameters: 5 image sizes x 4 fill ratios
		imageSizes := [][]int{
			{1920, 1080}, // FHD
			{1280, 720},  // HD
			{640, 360},   // 360p
			{64, 64},
			{40, 1},
		}
		fills := []float64{0.01, 0.25, 0.75, 1.0}

		format := "png"
		if qualityFlags.JPEG {
			format = "jpeg"
		}

		s, err := lsb.New(lsb.WithWorkers(qualityFlags.Workers))
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid options")
		}
		rd := rand.New(rand.NewSource(qualityFlags.Seed))

		log.Info().Msgf("Total test cases: %d (image sizes) x %d (fill ratios) = %d",
			len(imageSizes), len(fills), len(imageSizes)*len(fills))

		successCount := 0
		totalTests := 0
		for _, size := range imageSizes {
			width, height := size[0], size[1]
			src := createImage(rd, width, height)
			for _, fill := range fills {
				params := TestParams{
					ImageWidth:  width,
					ImageHeight: height,
					MessageLen:  int(float64(s.MaxMessageLen(width, height)) * fill),
					Fill:        fill,
					Format:      format,
				}
				msg := make([]byte, params.MessageLen)
				// printable text keeps the terminator out of the random payload
				for i := range msg {
					msg[i] = byte('a' + rd.Intn(26))
				}
				totalTests++
				if testMessage(ctx, s, src, msg, params) {
					successCount++
				}
			}
		}

		log.Info().Msg("=== Results ===")
		log.Info().Msgf("Total tests: %d", totalTests)
		log.Info().Msgf("Successful: %d (%.2f%%)", successCount, float64(successCount)/float64(totalTests)*100)
		log.Info().Msgf("Failed: %d (%.2f%%)", totalTests-successCount, float64(totalTests-successCount)/float64(totalTests)*100)
	},
}

// createImage builds a gradient with a little noise so LSBs are not all equal.
func createImage(rd *rand.Rand, w, h int) *raster.Buffer {
	b, _ := raster.New(w, h)
	for y := range h {
		for x := range w {
			r := uint8(x * 255 / max(w, 1))
			g := uint8(y * 255 / max(h, 1))
			bl := uint8((x+y)*255/max(w+h, 1)) ^ uint8(rd.Intn(4))
			b.Set(x, y, r, g, bl)
		}
	}
	return b
}

func testMessage(ctx context.Context, s *lsb.Stego, src *raster.Buffer, msg []byte, params TestParams) bool {
	start := time.Now()
	caseLog := log.With().
		Str("size", fmt.Sprintf("%dx%d", params.ImageWidth, params.ImageHeight)).
		Int("message_bytes", params.MessageLen).
		Float64("fill", params.Fill).
		Str("format", params.Format).
		Logger()

	res, err := s.Embed(ctx, src, msg)
	if err != nil {
		caseLog.Error().Err(err).Msg(errorColor("[FAIL]") + " Embed error")
		return false
	}

	decoded, err := reencode(res.Buffer, params.Format)
	if err != nil {
		caseLog.Error().Err(err).Msg(errorColor("[FAIL]") + " Re-encode error")
		return false
	}

	report, err := lsb.Compare(src, decoded)
	if err != nil {
		caseLog.Error().Err(err).Msg(errorColor("[FAIL]") + " Compare error")
		return false
	}

	// Verify bit by bit, so lossy formats still report how much survived
	want := bitconv.BytesToBools(append(append([]byte(nil), msg...), s.Terminator()...))
	got := innerlsb.ReadBits(decoded, len(want))
	matches := 0
	for i := range want {
		if want[i] == got[i] {
			matches++
		}
	}
	accuracy := float64(matches) / float64(len(want)) * 100

	extracted, err := s.Extract(ctx, decoded)
	ok := err == nil && bytes.Equal(extracted, msg)
	event := caseLog.Info()
	label := successColor("[OK]")
	if !ok {
		event = caseLog.Warn().AnErr("extract", err)
		label = errorColor("[FAIL]")
	}
	event.
		Float64("psnr", report.PSNR).
		Int("changed", report.Changed).
		Float64("accuracy", accuracy).
		Dur("took", time.Since(start)).
		Msg(label)
	return ok
}

func reencode(b *raster.Buffer, format string) (*raster.Buffer, error) {
	var buf bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, b.Image(), &jpeg.Options{Quality: 100}); err != nil {
			return nil, err
		}
	} else if err := imageio.Encode(&buf, format, b); err != nil {
		return nil, err
	}
	decoded, _, err := imageio.Decode(&buf)
	return decoded, err
}

func init() {
	rootCmd.AddCommand(qualityCmd)

	qualityCmd.Flags().Int64Var(&qualityFlags.Seed, "seed", 1, "Seed for generated images and messages")
	qualityCmd.Flags().IntVar(&qualityFlags.Workers, "workers", 4, "Number of goroutines used for embedding")
	qualityCmd.Flags().BoolVar(&qualityFlags.JPEG, "jpeg", false, "Re-encode as JPEG (quality 100) to show that lossy formats destroy the payload")
}
