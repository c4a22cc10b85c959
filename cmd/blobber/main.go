package main

import (
	"os"

	"github.com/argus-labs/blobber/pkg/blobber"
	"github.com/spf13/cobra"
)

const serviceName = "blobber"

type rootFlags struct {
	mapPath string
	instant bool
	frames  uint32
}

func (f *rootFlags) options() blobber.Options {
	return blobber.Options{
		MapPath:         f.mapPath,
		Instant:         f.instant,
		AnimationFrames: f.frames,
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "A grid-locked first-person dungeon crawler",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&flags.mapPath, "map", "", "map file to load instead of the embedded dungeon")
	cmd.PersistentFlags().BoolVar(&flags.instant, "instant", false, "resolve moves in a single tick")
	cmd.PersistentFlags().Uint32Var(&flags.frames, "frames", 0, "ticks per animated move or turn")

	cmd.AddCommand(newPlayCmd(flags), newSimulateCmd(flags))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
