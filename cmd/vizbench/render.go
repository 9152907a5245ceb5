package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/render"
)

func newRenderCmd() *cobra.Command {
	var (
		specPath     string
		frames       int
		targetFPS    int
		poolBudget   uint64
		qualityFloor float64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart spec repeatedly and report frame statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadSpec(specPath)
			if err != nil {
				return err
			}

			r, err := render.New(cmd.Context(),
				render.WithTargetFPS(targetFPS),
				render.WithPoolBudget(poolBudget),
				render.WithQualityFloor(qualityFloor),
			)
			if err != nil {
				return err
			}
			defer r.Close()

			p := message.NewPrinter(language.English)
			interactive := term.IsTerminal(int(os.Stdout.Fd()))
			chartType := vizr.Classify(spec)
			p.Printf("rendering %d frames of %s (%d rows) on %s\n",
				frames, chartType, spec.DataLen(), r.Backend().Name())

			var (
				total     time.Duration
				triangles int
				failed    int
			)
			start := time.Now()
			for i := 0; i < frames; i++ {
				stats, err := r.Render(spec)
				if err != nil {
					failed++
				}
				total += stats.FrameTime
				triangles += stats.TrianglesRendered
				if interactive && (i+1)%10 == 0 {
					fmt.Printf("\rframe %d/%d  q=%.2f  %v", i+1, frames, stats.Quality, stats.FrameTime)
				}
			}
			if interactive {
				fmt.Print("\r")
			}

			elapsed := time.Since(start)
			timer := r.FrameTimer()
			p.Printf("rendered %d frames in %v (%.1f fps, avg frame %v)\n",
				frames, elapsed.Round(time.Millisecond), timer.FPS(), timer.AverageFrameTime())
			p.Printf("triangles: %d total, quality settled at %.2f\n", triangles, r.Quality())
			if failed > 0 {
				p.Printf("degraded frames: %d\n", failed)
			}
			if s := r.PoolStats(); s != (render.PoolStats{}) {
				p.Printf("%s\n", s)
			}
			for _, suggestion := range r.SuggestOptimizations() {
				p.Printf("hint: %s\n", suggestion)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "chart spec YAML file")
	cmd.Flags().IntVarP(&frames, "frames", "n", 120, "number of frames to render")
	cmd.Flags().IntVar(&targetFPS, "target-fps", 60, "frame budget the quality controller steers toward")
	cmd.Flags().Uint64Var(&poolBudget, "pool-budget", render.DefaultPoolBudget, "buffer pool soft cap in bytes")
	cmd.Flags().Float64Var(&qualityFloor, "quality-floor", render.DefaultQualityFloor, "lowest adaptive quality")
	cmd.MarkFlagRequired("spec")
	return cmd
}
