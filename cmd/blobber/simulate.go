package main

import (
	"github.com/argus-labs/blobber/pkg/blobber"
	"github.com/argus-labs/blobber/pkg/blobber/input"
	"github.com/argus-labs/blobber/pkg/blobber/scene"
	"github.com/argus-labs/blobber/pkg/ecs"
	"github.com/argus-labs/blobber/pkg/telemetry"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// maxSettleTicks bounds how long a scripted key waits for its animation to finish.
const maxSettleTicks = 10_000

type simulateFlags struct {
	keys  string
	ticks int
	state bool
}

type simulationResult struct {
	Tick   uint64               `json:"tick"`
	Player blobber.PlayerView   `json:"player"`
	Camera scene.Camera         `json:"camera"`
	State  []ecs.EntitySnapshot `json:"state,omitempty"`
}

func newSimulateCmd(root *rootFlags) *cobra.Command {
	flags := &simulateFlags{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run scripted input headless and print the final state as JSON",
		Long: "Each character of --keys is pressed on its own tick, and the game ticks until the " +
			"resulting animation finishes before the next key. --ticks idle ticks follow the script.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tel, err := telemetry.New(telemetry.Options{ServiceName: serviceName, Writer: cmd.ErrOrStderr()})
			if err != nil {
				return eris.Wrap(err, "failed to initialize telemetry")
			}
			defer func() {
				if err := tel.Shutdown(); err != nil {
					tel.Logger.Warn().Err(err).Msg("failed to shut down telemetry")
				}
			}()
			logger := tel.GetLogger("game")

			opts := root.options()
			opts.Logger = &logger
			game, err := blobber.NewGame(opts)
			if err != nil {
				return err
			}

			result, err := simulate(game, flags)
			if err != nil {
				if blobber.IsFatal(err) {
					tel.Logger.Fatal().Err(err).Msg("invariant violated")
				}
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return eris.Wrap(err, "failed to encode result")
			}
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}
	cmd.Flags().StringVar(&flags.keys, "keys", "", "keys to press in order, e.g. \"zzae\"")
	cmd.Flags().IntVar(&flags.ticks, "ticks", 0, "idle ticks to run after the script")
	cmd.Flags().BoolVar(&flags.state, "state", false, "include every entity in the output")
	return cmd
}

func simulate(game *blobber.Game, flags *simulateFlags) (simulationResult, error) {
	delta := 1 / game.Options().TickRate

	// The first tick spawns the player.
	if err := game.Tick(delta); err != nil {
		return simulationResult{}, err
	}

	for _, r := range flags.keys {
		game.Push(input.KeyPressed{Key: input.KeyFromRune(r)})
		if err := game.Tick(delta); err != nil {
			return simulationResult{}, err
		}
		if err := settle(game, delta); err != nil {
			return simulationResult{}, err
		}
	}

	for range flags.ticks {
		if err := game.Tick(delta); err != nil {
			return simulationResult{}, err
		}
	}

	player, err := game.Player()
	if err != nil {
		return simulationResult{}, err
	}
	result := simulationResult{
		Tick:   game.CurrentTick(),
		Player: player,
		Camera: game.Scene().Camera(),
	}
	if flags.state {
		if result.State, err = game.Snapshot(); err != nil {
			return simulationResult{}, err
		}
	}
	return result, nil
}

// settle ticks until the player has no running animation.
func settle(game *blobber.Game, delta float64) error {
	for range maxSettleTicks {
		player, err := game.Player()
		if err != nil {
			return err
		}
		if !player.Animating {
			return nil
		}
		if err := game.Tick(delta); err != nil {
			return err
		}
	}
	return eris.Errorf("animation did not finish within %d ticks", maxSettleTicks)
}
