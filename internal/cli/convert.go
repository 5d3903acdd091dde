package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipline/clipline/internal/timeline"
)

// NewConvertCommand creates the "convert" command: frame <-> duration
// conversion at a configurable frame rate.
func NewConvertCommand(opts *RootOptions) *cobra.Command {
	var (
		frames   int
		duration float64
		fps      int
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert between frames and wall-clock duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps == 0 {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				fps = cfg.Timeline.FPS
			}
			if fps <= 0 {
				return fmt.Errorf("fps must be positive, got %d", fps)
			}

			out := cmd.OutOrStdout()
			switch {
			case cmd.Flags().Changed("frames"):
				sec := timeline.FrameToDuration(frames, fps)
				fmt.Fprintf(out, "%d frame(s) @ %dfps = %.4fs (%s)\n",
					frames, fps, sec, timeline.FormatTime(int64(sec*1000)))
			case cmd.Flags().Changed("duration"):
				f := timeline.DurationToFrame(duration, fps)
				fmt.Fprintf(out, "%.4fs @ %dfps = %d frame(s)\n", duration, fps, f)
			default:
				return fmt.Errorf("one of --frames or --duration is required")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 0, "frame count to convert")
	cmd.Flags().Float64Var(&duration, "duration", 0, "duration in seconds to convert")
	cmd.Flags().IntVar(&fps, "fps", 0, "frames per second (default from config)")
	return cmd
}
