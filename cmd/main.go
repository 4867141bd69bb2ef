package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/coursegen-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)

	if a.Cfg.RunsWorkers() {
		g.Go(func() error {
			if err := a.StartWorkers(gctx); err != nil {
				return fmt.Errorf("start workers: %w", err)
			}
			<-gctx.Done()
			a.WaitWorkers()
			return nil
		})
	}

	if a.Cfg.ServesAPI() {
		g.Go(func() error {
			return a.ServeHTTP(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		a.Log.Error("Shutting down with error", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("Shutdown complete")
}
