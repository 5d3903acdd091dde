package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipline/clipline/internal/timeline"
)

// NewRulerCommand creates the "ruler" command: it renders the tick
// layout a timeline view would draw at a given zoom scale, which makes
// the coordinate math inspectable without a UI.
func NewRulerCommand(opts *RootOptions) *cobra.Command {
	var (
		scale int
		width int
	)

	cmd := &cobra.Command{
		Use:   "ruler",
		Short: "Print the ruler tick layout at a zoom scale",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale < 0 || scale > 100 {
				return fmt.Errorf("scale must be 0-100, got %d", scale)
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			fps := cfg.Timeline.FPS
			grid := timeline.GridSize(scale)
			step := timeline.Step(scale, fps)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scale=%d grid=%dpx step=%d\n", scale, grid, step)
			fmt.Fprintf(out, "%6s  %8s  %6s  %s\n", "tick", "px", "frame", "label")

			for count := 0; count*grid <= width; count++ {
				px := count * grid
				frame := timeline.GridFrame(float64(px), scale, fps)
				var label string
				if count%step == 0 {
					label = timeline.LongLabel(count/step, scale)
				} else {
					label = timeline.ShortLabel(count, step, scale)
				}
				fmt.Fprintf(out, "%6d  %8d  %6d  %s\n", count, px, frame, label)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&scale, "scale", 100, "zoom scale (0-100)")
	cmd.Flags().IntVar(&width, "width", 400, "ruler width in pixels")
	return cmd
}
