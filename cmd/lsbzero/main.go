package main

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
)

var rootFlags struct {
	LogLevel string
	JSONLog  bool
}

var rootCmd = &cobra.Command{
	Use:   "lsbzero",
	Short: "Hide text in the least significant bits of an image",
	Long: `lsbzero embeds a message into the LSBs of the R, G and B channels of an image,
extracts it again and reports the distortion (PSNR, changed bits) embedding introduced.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(rootFlags.LogLevel)
		if err != nil {
			return err
		}
		zerolog.SetGlobalLevel(level)
		if !rootFlags.JSONLog {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.JSONLog, "json-log", false, "write logs as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
