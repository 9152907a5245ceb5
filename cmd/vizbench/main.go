// Command vizbench exercises the adaptive rendering pipeline from the
// command line: probe the available backends, load a chart spec from
// YAML, and render it repeatedly while reporting frame statistics.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vizgo/vizr"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "vizbench",
		Short: "Benchmark the vizr adaptive rendering pipeline",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				vizr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log backend probing and frame internals")

	root.AddCommand(newBackendsCmd())
	root.AddCommand(newRenderCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vizbench:", err)
		os.Exit(1)
	}
}
