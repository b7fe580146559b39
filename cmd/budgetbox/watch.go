package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/baharkarakas/budgetbox/internal/budgetstate"
	"github.com/baharkarakas/budgetbox/internal/syncer"
)

var flagLogFile string

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stay running, pull on start and sync when the server comes back",
		RunE:  runWatch,
	}
	cmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	rootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	var logOut io.Writer = os.Stderr
	if flagLogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   flagLogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28,
		}
		defer lj.Close()
		logOut = lj
	}
	a, err := newApp(logOut)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// offline start keeps the local cache
	_, _ = a.coord.Load(ctx)
	printView(a)
	fmt.Printf("  Watching %s (server %s). Ctrl-C to quit.\n", a.cfg.StatePath, a.cfg.ServerURL)

	mon := syncer.NewMonitor(a.api, a.cfg.PollInterval.Duration, func(ctx context.Context) {
		a.coord.Trigger(ctx)
	}, a.log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mon.Run(gctx) })
	g.Go(func() error {
		return budgetstate.Watch(gctx, a.cfg.StatePath, func() {
			changed, err := a.store.Reload()
			if err != nil {
				a.log.Warn("reload state", "err", err)
				return
			}
			if changed {
				printView(a)
			}
		})
	})

	err = g.Wait()
	a.coord.Wait()
	return err
}
