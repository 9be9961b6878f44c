package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jrazmi/taskwire/app/taskwire/api"
	"github.com/jrazmi/taskwire/app/taskwire/config"
	"github.com/jrazmi/taskwire/bridge/notifybridge"
	"github.com/jrazmi/taskwire/bridge/scaffolding/metrics"
	"github.com/jrazmi/taskwire/bridge/scaffolding/mid"
	"github.com/jrazmi/taskwire/core/cases/taskscase"
	"github.com/jrazmi/taskwire/core/repositories/tasksrepo"
	"github.com/jrazmi/taskwire/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/taskwire/core/repositories/usersessionsrepo"
	"github.com/jrazmi/taskwire/core/repositories/usersessionsrepo/stores/usersessionspgxstore"
	"github.com/jrazmi/taskwire/core/repositories/usersrepo"
	"github.com/jrazmi/taskwire/core/repositories/usersrepo/stores/userspgxstore"
	"github.com/jrazmi/taskwire/infrastructure/notify"
	"github.com/jrazmi/taskwire/infrastructure/postgresdb"
	"github.com/jrazmi/taskwire/infrastructure/web"
	"github.com/jrazmi/taskwire/sdk/environment"
	"github.com/jrazmi/taskwire/sdk/logger"
	"github.com/jrazmi/taskwire/sdk/telemetry"
)

var build = "develop"

func main() {
	_ = environment.LoadEnv()
	ctx := context.Background()

	tel := telemetry.NewTelemetry()
	log, err := logger.NewFromEnv(config.AppName,
		logger.WithTraceID(tel.GetTraceID),
		logger.WithEvents(logger.Events{
			Error: func(ctx context.Context, r logger.Record) {
				metrics.AddLogError()
			},
		}),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	if err := run(ctx, log, tel); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, tel telemetry.Telemetry) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	opts, err := config.LoadOptions(config.AppName)
	if err != nil {
		return err
	}

	// DATABASES
	pg, err := postgresdb.NewFromEnv(config.AppName, postgresdb.WithLogger(log.Logger))
	if err != nil {
		return fmt.Errorf("configuring postgres support: %w", err)
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing database connection")
		pg.Close()
	}()

	// REPOSITORIES
	log.InfoContext(ctx, "startup", "status", "initializing repository support")
	repos := config.Repositories{
		Tasks:    tasksrepo.NewRepository(log, taskspgxstore.NewStore(log, pg)),
		Users:    usersrepo.NewRepository(log, userspgxstore.NewStore(log, pg)),
		Sessions: usersessionsrepo.NewRepository(log, usersessionspgxstore.NewStore(log, pg)),
	}

	// NOTIFICATIONS
	hub := notify.NewHub(log, append(notifybridge.HubOptions(), notify.WithBuffer(opts.EventsBuffer))...)

	cases := config.Cases{
		Tasks: taskscase.NewCase(log, repos.Tasks, repos.Users, hub),
	}

	// WEB
	handlerOpts := []web.HandlerOption{
		web.WithLogging(log.Logger),
		web.WithTelemetry(tel),
		web.WithGlobalMiddleware(
			mid.Logger(log),
			mid.Errors(log),
			mid.Metrics(),
			mid.Panics(),
		),
	}
	wh, err := web.NewWebHandlerFromEnv(config.AppName, handlerOpts...)
	if err != nil {
		return fmt.Errorf("webhandler: %w", err)
	}

	api.AddHandlers(wh, config.Taskwire{
		Build:        build,
		Logger:       log,
		Telemetry:    tel,
		Pool:         pg,
		Hub:          hub,
		CORSOrigins:  wh.CORSOrigins(),
		Options:      opts,
		Repositories: repos,
		Cases:        cases,
	})

	server, err := web.NewServerFromEnv(config.AppName,
		web.WithHandler(wh),
		web.WithErrorLog(logger.NewStdLogger(log, logger.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}
	// Hijacked websocket connections are not tracked by Shutdown.
	server.RegisterOnShutdown(hub.Close)

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, server.Config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
