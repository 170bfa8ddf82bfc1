package main

import (
	"fmt"
	"image"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	lsb "github.com/yyyoichi/lsb_zero"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity <image>",
	Short: "Show how many message bytes an image can hold",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open image")
		}
		defer f.Close()

		// imageio registers the decoders
		config, format, err := image.DecodeConfig(f)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to decode image")
		}

		s, _ := lsb.New()
		fmt.Printf("Image:        %dx%d (%s)\n", config.Width, config.Height, format)
		fmt.Printf("Capacity:     %d bits\n", lsb.Capacity(config.Width, config.Height))
		fmt.Printf("Max message:  %s bytes\n", infoColor(s.MaxMessageLen(config.Width, config.Height)))
		if format == "jpeg" {
			fmt.Printf("%s embedding output must be saved losslessly (png, bmp, tiff)\n", warningColor("[NOTE]"))
		}
	},
}

func init() {
	rootCmd.AddCommand(capacityCmd)
}
