// Package cmd holds the nauert command line: quantizing onset files and
// serving quantization over HTTP.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "nauert",
	Short: "Rhythm quantizer",
	Long: `nauert turns millisecond onsets into nested tuplet rhythms, one
beat at a time, by searching the subdivisions a search tree allows.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLogger(logrus.StandardLogger())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
}

// Execute runs the root command.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func configureLogger(l *logrus.Logger) error {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	l.SetLevel(lvl)
	if logFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return nil
}
