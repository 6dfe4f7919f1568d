package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/mazesense/internal/core/observability/log"
	"github.com/zeusync/mazesense/internal/injector"
	"github.com/zeusync/mazesense/internal/simulation"
	"github.com/zeusync/mazesense/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "configs/mazesense.yaml", "path to the run configuration (yaml or json)")
	hold := flag.Bool("hold", false, "keep the telemetry server up after the run until interrupted")
	flag.Parse()

	if err := run(*configPath, *hold); err != nil {
		fmt.Fprintln(os.Stderr, "mazesense:", err)
		os.Exit(1)
	}
}

func run(configPath string, hold bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := injector.InitializeApp(injector.ConfigPath(configPath))
	if err != nil {
		return err
	}
	defer app.Logger.Sync()

	runID := uuid.NewString()
	logger := app.Logger.With(log.String("run", runID))

	var sinks []simulation.Sink
	if app.Config.Telemetry.Enabled {
		srv := telemetry.NewServer(app.Config.Telemetry.Addr, app.Hub, logger)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := srv.Stop(stopCtx); err != nil {
				logger.Warn("failed to stop telemetry", log.Error(err))
			}
		}()
		sinks = append(sinks, app.Hub)
	}

	runner := simulation.NewRunner(runID, app.Mouse, app.Maze, logger, sinks...)
	summary, err := runner.Run(ctx, app.Config.Poses())
	if err != nil {
		return err
	}

	for _, name := range app.Mouse.SensorNames() {
		logger.Info("sensor summary",
			log.String("sensor", name),
			log.Float64("peak", summary.Peak[name]),
			log.Float64("last", app.Mouse.ReadingMap()[name]),
		)
	}

	if hold && app.Config.Telemetry.Enabled {
		logger.Info("run finished, holding telemetry until interrupted")
		<-ctx.Done()
	}
	return nil
}
