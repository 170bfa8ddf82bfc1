package main

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yyyoichi/lsb_zero/distortion"
	"github.com/yyyoichi/lsb_zero/imageio"
)

var compareCmd = &cobra.Command{
	Use:   "compare <original> <stego>",
	Short: "Calculate PSNR and bit changes between two images",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		orig, _, err := imageio.Load(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load original image")
		}
		stego, _, err := imageio.Load(args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load stego image")
		}
		report, err := distortion.Compare(orig, stego)
		if err != nil {
			log.Fatal().Err(err).Msg("Comparison failed")
		}
		fmt.Printf("MSE: %.6f\n", report.MSE)
		printReport(report)
	},
}

func printReport(r distortion.Report) {
	switch {
	case math.IsInf(r.PSNR, 1):
		fmt.Printf("PSNR: %s\n", successColor("inf dB (identical)"))
	case r.PSNR >= 40:
		fmt.Printf("PSNR: %s\n", successColor(fmt.Sprintf("%.2f dB", r.PSNR)))
	case r.PSNR >= 30:
		fmt.Printf("PSNR: %s\n", warningColor(fmt.Sprintf("%.2f dB", r.PSNR)))
	default:
		fmt.Printf("PSNR: %s\n", errorColor(fmt.Sprintf("%.2f dB", r.PSNR)))
	}
	fmt.Printf("Bits changed: %d\n", r.Changed)
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
