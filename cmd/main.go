// file: cmd/main.go

package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/emartisoft/C64-Collection/cmd/bam"
	"github.com/emartisoft/C64-Collection/cmd/info"
	"github.com/emartisoft/C64-Collection/cmd/list"
)

var flagLogLevel string

func main() {
	rootCmd := &cobra.Command{
		Use:           "d64",
		Short:         "Inspect and edit Commodore 1541 disk images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(strings.ToLower(flagLogLevel))
			if err != nil {
				return err
			}
			initLogging(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn",
		"Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(list.Command())
	rootCmd.AddCommand(info.Command())
	rootCmd.AddCommand(bam.Command())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func initLogging(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = zerolog.
		New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05.000",
		}).
		With().Timestamp().
		Logger()
}
