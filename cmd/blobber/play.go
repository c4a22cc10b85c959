package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/argus-labs/blobber/pkg/blobber"
	"github.com/argus-labs/blobber/pkg/blobber/server"
	"github.com/argus-labs/blobber/pkg/telemetry"
	"github.com/gdamore/tcell/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errQuit = eris.New("quit")

type playFlags struct {
	debugAddr string
	logFile   string
}

func newPlayCmd(root *rootFlags) *cobra.Command {
	flags := &playFlags{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return play(cmd.Context(), root, flags)
		},
	}
	cmd.Flags().StringVar(&flags.debugAddr, "debug-addr", "", "serve the debug API on this address")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "write logs to this file; logs are discarded otherwise")
	return cmd
}

func play(ctx context.Context, root *rootFlags, flags *playFlags) error {
	// The terminal belongs to the screen, so logs go to a file or nowhere.
	var writer io.Writer = io.Discard
	if flags.logFile != "" {
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return eris.Wrap(err, "failed to open log file")
		}
		defer f.Close()
		writer = f
	}

	tel, err := telemetry.New(telemetry.Options{ServiceName: serviceName, Writer: writer})
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
	opts.DebugAddr = flags.debugAddr
	opts.Logger = &logger
	game, err := blobber.NewGame(opts)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return eris.Wrap(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return eris.Wrap(err, "failed to initialize screen")
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	var finiOnce sync.Once
	fini := func() { finiOnce.Do(screen.Fini) }
	defer fini()

	err = runHost(ctx, game, screen, fini, tel)
	fini()

	switch {
	case err == nil, eris.Is(err, errQuit):
		return nil
	case blobber.IsFatal(err):
		tel.Logger.Fatal().Err(err).Msg("invariant violated")
		return err
	default:
		return err
	}
}

// runHost runs the terminal poller, the fixed-rate tick loop and the optional debug server until
// one of them fails or the player quits.
func runHost(ctx context.Context, game *blobber.Game, screen tcell.Screen, fini func(), tel telemetry.Telemetry) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	group, ctx := errgroup.WithContext(ctx)

	// PollEvent only returns nil once the screen is finalized.
	group.Go(func() error {
		<-ctx.Done()
		fini()
		return nil
	})

	group.Go(func() error {
		var t translator
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			events, quit := t.translate(ev)
			if quit {
				return errQuit
			}
			game.Push(events...)
		}
	})

	group.Go(func() error {
		return tickLoop(ctx, game, screen, tel.GetLogger("host"))
	})

	if addr := game.Options().DebugAddr; addr != "" {
		srv := server.New(game, server.WithLogger(tel.GetLogger("debug")))
		group.Go(func() error {
			return srv.Serve(ctx, addr)
		})
	}

	return group.Wait()
}

func tickLoop(ctx context.Context, game *blobber.Game, c canvas, logger zerolog.Logger) error {
	period := time.Duration(float64(time.Second) / game.Options().TickRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now

			if err := game.Tick(delta); err != nil {
				return err
			}
			player, err := game.Player()
			if err != nil {
				return err
			}
			render(c, game.Map(), player, game.Scene().Camera(), game.CurrentTick())

			if delta > 2*period.Seconds() {
				logger.Debug().Float64("delta", delta).Msg("tick overran")
			}
		}
	}
}
