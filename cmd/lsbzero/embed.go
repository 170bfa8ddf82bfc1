package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	lsb "github.com/yyyoichi/lsb_zero"
	"github.com/yyyoichi/lsb_zero/imageio"
)

var embedFlags struct {
	Image    string
	Message  string
	File     string
	Output   string
	Dir      string
	Prefix   string
	Workers  int
	NoReport bool
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed a message into an image",
	Long: `Embeds the text given with -m, or the contents of the file given with -f, into the image.
The stego image is written as PNG named <prefix><image name>.png unless -o is set.`,
	Example: `  lsbzero embed -i photo.png -m "your message"
  lsbzero embed -i photo.png -f secret.txt -o out.png`,
	Run: func(cmd *cobra.Command, args []string) {
		msg, err := embedMessage(cmd)
		if err != nil {
			log.Fatal().Err(err).Msg("No message to embed")
		}

		src, format, err := imageio.Load(embedFlags.Image)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load image")
		}
		log.Debug().Str("format", format).Int("width", src.Width).Int("height", src.Height).Msg("Loaded image")

		s, err := lsb.New(lsb.WithWorkers(embedFlags.Workers))
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid options")
		}

		start := time.Now()
		res, err := s.Embed(cmd.Context(), src, msg)
		if errors.Is(err, lsb.ErrInsufficientCapacity) {
			log.Fatal().Err(err).
				Int("message_bytes", len(msg)).
				Int("max_bytes", s.MaxMessageLen(src.Width, src.Height)).
				Msg("Text is too long to hide in this image")
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Embedding failed")
		}
		log.Debug().Int("bits", res.Bits).Dur("took", time.Since(start)).Msg("Embedded message")

		out := embedFlags.Output
		if out == "" {
			out = imageio.StegoPath(embedFlags.Image, embedFlags.Dir, embedFlags.Prefix)
		}
		if err := imageio.Save(out, res.Buffer); err != nil {
			log.Fatal().Err(err).Msg("Failed to save stego image")
		}

		fmt.Printf("%s Text successfully encoded into %s\n", successColor("[OK]"), infoColor(out))
		if embedFlags.NoReport {
			fmt.Printf("Bits changed: %d\n", res.Changed)
			return
		}

		// Measure against what was actually written to disk.
		written, _, err := imageio.Load(out)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to reload stego image")
		}
		report, err := lsb.Compare(src, written)
		if err != nil {
			fmt.Printf("%s PSNR calculation failed: %v\n", warningColor("[WARN]"), err)
			fmt.Printf("Bits changed: %d\n", res.Changed)
			return
		}
		if report.Changed != res.Changed {
			log.Error().Int("embedder", res.Changed).Int("analyzer", report.Changed).Msg("Changed bit counts disagree")
		}
		printReport(report)
	},
}

func embedMessage(cmd *cobra.Command) ([]byte, error) {
	switch {
	case embedFlags.File != "":
		return imageio.ReadMessage(embedFlags.File)
	case cmdFlagSet(cmd, "message"):
		return []byte(embedFlags.Message), nil
	default:
		return nil, errors.New("either --message or --file is required")
	}
}

func cmdFlagSet(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().StringVarP(&embedFlags.Image, "image", "i", "", "Path to the cover image (required)")
	embedCmd.MarkFlagRequired("image")
	embedCmd.Flags().StringVarP(&embedFlags.Message, "message", "m", "", "Message text to embed")
	embedCmd.Flags().StringVarP(&embedFlags.File, "file", "f", "", "File whose contents are embedded")
	embedCmd.MarkFlagsMutuallyExclusive("message", "file")
	embedCmd.Flags().StringVarP(&embedFlags.Output, "output", "o", "", "Output path (.png, .bmp or .tiff)")
	embedCmd.Flags().StringVarP(&embedFlags.Dir, "dir", "d", "", "Directory for the generated output name")
	embedCmd.Flags().StringVar(&embedFlags.Prefix, "prefix", "Stego", "Prefix for the generated output name")
	embedCmd.Flags().IntVar(&embedFlags.Workers, "workers", 1, "Number of goroutines used for embedding")
	embedCmd.Flags().BoolVar(&embedFlags.NoReport, "no-report", false, "Skip the PSNR report")
}
