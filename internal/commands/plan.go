package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beesaferoot/seatctl/internal/floorplan"
	"github.com/beesaferoot/seatctl/internal/store"
)

// planSurface remembers the first error of the surface it wraps, since the
// renderer only logs failed frames.
type planSurface struct {
	inner floorplan.Surface
	shown int
	err   error
}

func (s *planSurface) Show(f floorplan.Frame) error {
	err := s.inner.Show(f)
	if err != nil && s.err == nil {
		s.err = err
	}
	s.shown++
	return err
}

type writerSurface struct {
	w io.Writer
}

func (s writerSurface) Show(f floorplan.Frame) error {
	_, err := s.w.Write(f.SVG)
	return err
}

func PlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [number]",
		Short: "Render the floor plan with seat overlay to an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			zoom, _ := cmd.Flags().GetFloat64("zoom")
			panX, _ := cmd.Flags().GetFloat64("pan-x")
			panY, _ := cmd.Flags().GetFloat64("pan-y")

			n, err := parseFloorNumber(args[0])
			if err != nil {
				return err
			}
			if zoom <= 0 {
				return fmt.Errorf("zoom must be positive, got %g", zoom)
			}
			if output == "" {
				output = fmt.Sprintf("floor-%d.svg", n)
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			st := store.New(a.client, a.logger)
			renderer := floorplan.NewRenderer(a.client, a.logger, floorplan.DefaultOptions())
			unbind := renderer.Bind(st)
			defer unbind()

			// seats are optional, the artwork alone still renders
			if err := st.LoadFloor(cmd.Context(), n); err != nil {
				a.logger.Warn("rendering without seat overlay", zap.Int("floor_number", n), zap.Error(err))
			}
			if err := renderer.Select(cmd.Context(), n); err != nil {
				return err
			}
			if status := renderer.Status(); status.State == floorplan.Error {
				a.logger.Warn("floor plan artwork unusable", zap.Int("floor_number", n), zap.Error(status.Err))
			}

			if frame, ok := renderer.Frame(); ok && zoom != 1 {
				vb := frame.ViewBox
				renderer.Zoom(zoom, vb.MinX+vb.Width/2, vb.MinY+vb.Height/2)
			}
			if panX != 0 || panY != 0 {
				renderer.Pan(panX, panY)
			}

			var inner floorplan.Surface = floorplan.FileSurface{Path: output}
			if output == "-" {
				inner = writerSurface{w: cmd.OutOrStdout()}
			}
			surface := &planSurface{inner: inner}
			renderer.Attach(surface)
			renderer.Detach()
			if surface.err != nil {
				return surface.err
			}
			if surface.shown == 0 {
				return fmt.Errorf("no plan rendered for floor %d", n)
			}

			if output != "-" {
				frame, _ := renderer.Frame()
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote floor %d plan to %s (%s)\n", n, output, frame.Transform)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout (default floor-<n>.svg)")
	cmd.Flags().Float64("zoom", 1, "Zoom factor around the plan centre")
	cmd.Flags().Float64("pan-x", 0, "Horizontal pan in viewBox units")
	cmd.Flags().Float64("pan-y", 0, "Vertical pan in viewBox units")

	return cmd
}
