package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vizgo/vizr/backend"
	_ "github.com/vizgo/vizr/backend/canvas"
	_ "github.com/vizgo/vizr/backend/webgl"
	_ "github.com/vizgo/vizr/backend/webgpu"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "Probe registered backends and print their profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := message.NewPrinter(language.English)
			registered := backend.Available()
			if len(registered) == 0 {
				return fmt.Errorf("no backends registered")
			}

			for _, name := range registered {
				b := backend.Get(name)
				if b == nil {
					p.Printf("%-10s unavailable on this platform\n", name)
					continue
				}
				if err := b.Init(cmd.Context()); err != nil {
					p.Printf("%-10s probe failed: %v\n", name, err)
					continue
				}
				prof := b.Profile()
				p.Printf("%-10s %d points @ %d fps, efficiency %.1f, compute=%v, buffers=%v\n",
					name, prof.MaxPoints, prof.TargetFPS, prof.MemoryEfficiency,
					prof.ComputeShaders, b.SupportsBuffers())
				b.Close()
			}

			selected, err := backend.CreateOptimal(cmd.Context())
			if err != nil {
				return err
			}
			defer selected.Close()
			p.Printf("selected: %s\n", selected.Name())
			return nil
		},
	}
}
