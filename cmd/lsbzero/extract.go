package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	lsb "github.com/yyyoichi/lsb_zero"
	"github.com/yyyoichi/lsb_zero/imageio"
)

var extractFlags struct {
	Image    string
	Original string
	Output   string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a hidden message from a stego image",
	Example: `  lsbzero extract -i Stegophoto.png
  lsbzero extract -i Stegophoto.png --original photo.png`,
	Run: func(cmd *cobra.Command, args []string) {
		src, _, err := imageio.Load(extractFlags.Image)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load image")
		}

		msg, err := lsb.Extract(cmd.Context(), src)
		if errors.Is(err, lsb.ErrTerminatorNotFound) {
			log.Fatal().Err(err).Msg("Image does not contain a hidden message")
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Extraction failed")
		}

		if extractFlags.Output != "" {
			if err := os.WriteFile(extractFlags.Output, msg, 0o644); err != nil {
				log.Fatal().Err(err).Msg("Failed to write message")
			}
			fmt.Printf("%s Message written to %s (%d bytes)\n", successColor("[OK]"), infoColor(extractFlags.Output), len(msg))
		} else {
			fmt.Printf("Decoded text: '%s'\n", msg)
		}

		if extractFlags.Original == "" {
			return
		}
		orig, _, err := imageio.Load(extractFlags.Original)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load original image")
		}
		report, err := lsb.Compare(orig, src)
		if err != nil {
			fmt.Printf("%s PSNR calculation failed: %v\n", warningColor("[WARN]"), err)
			return
		}
		printReport(report)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFlags.Image, "image", "i", "", "Path to the stego image (required)")
	extractCmd.MarkFlagRequired("image")
	extractCmd.Flags().StringVar(&extractFlags.Original, "original", "", "Original image for the PSNR report")
	extractCmd.Flags().StringVarP(&extractFlags.Output, "output", "o", "", "Write the message to this file instead of stdout")
}
