package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var defaults = settings{beatspan: "1/4", tempo: "60", searchTree: "unweighted", workers: 1, maxBeats: 10000}

func init() {
	bindSettings(quantizeCmd.Flags(), &defaults)
	bindSettings(serveCmd.Flags(), &defaults)
	rootCmd.AddCommand(quantizeCmd)
}

// bindSettings registers the quantization flags shared by quantize and serve.
func bindSettings(f *pflag.FlagSet, s *settings) {
	f.StringVar(&s.beatspan, "beatspan", s.beatspan, "beat length as a note value")
	f.StringVar(&s.tempo, "tempo", s.tempo, "beats per minute")
	f.StringVar(&s.searchTree, "search-tree", s.searchTree, "search tree (unweighted, weighted)")
	f.IntVar(&s.workers, "workers", s.workers, "parallel jobs (1 = serial)")
	f.IntVar(&s.maxBeats, "max-beats", s.maxBeats, "reject inputs needing more beats (0 = unlimited)")
}

var quantizeCmd = &cobra.Command{
	Use:   "quantize [file]",
	Short: "Quantizes onsets read from a JSON file or stdin",
	Long: `Reads {"offsets": [...]} or {"durations": [...]} in milliseconds and
prints the selected rhythm of every beat.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "open input")
			}
			defer f.Close()
			in = f
		}

		return quantizeTo(cmd, in, cmd.OutOrStdout())
	},
}

func quantizeTo(cmd *cobra.Command, in io.Reader, out io.Writer) error {
	req, err := decodeRequest(in)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := run(ctx, req, defaults, logrus.StandardLogger())
	if err != nil {
		return err
	}
	logrus.WithField("run_id", resp.RunID).Infof("quantized %d beats", len(resp.Beats))

	var (
		i int
		b BeatResponse
	)
	for i, b = range resp.Beats {
		if b.Distance == "" {
			fmt.Fprintf(out, "beat %d offset=%s %s\n", i, b.OffsetMS, b.RTM)
			continue
		}
		fmt.Fprintf(out, "beat %d offset=%s %s distance=%s\n", i, b.OffsetMS, b.RTM, b.Distance)
	}

	return nil
}
