// Package api mounts the taskwire routes.
package api

import (
	"context"
	"expvar"
	"net/http"

	"github.com/jrazmi/taskwire/app/taskwire/config"
	"github.com/jrazmi/taskwire/bridge/cases/taskscasebridge"
	"github.com/jrazmi/taskwire/bridge/notifybridge"
	"github.com/jrazmi/taskwire/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskwire/bridge/scaffolding/mid"
	"github.com/jrazmi/taskwire/infrastructure/postgresdb"
	"github.com/jrazmi/taskwire/infrastructure/web"
)

// AddHandlers registers every route on wh.
func AddHandlers(wh *web.WebHandler, cfg config.Taskwire) {
	wh.GET("/{$}", func(ctx context.Context, r *http.Request) web.Encoder {
		return fopbridge.NewStatusResponse("Task Manager API is running", cfg.Build, http.StatusOK)
	})
	wh.GET("/health", health(cfg))
	wh.HandleRaw("GET /debug/vars", expvar.Handler())

	// Subscribers are anonymous, as with the socket server this replaces.
	public := wh.Group(config.ApiRoute)
	notifybridge.AddHttpRoutes(public, notifybridge.Config{
		Log:          cfg.Logger,
		Hub:          cfg.Hub,
		Origins:      cfg.CORSOrigins,
		WriteTimeout: cfg.Options.EventsWriteTimeout,
	})

	authed := wh.Group(config.ApiRoute, mid.Authenticate(cfg.Repositories.Sessions))
	taskscasebridge.AddHttpRoutes(authed, taskscasebridge.Config{
		Log:  cfg.Logger,
		Case: cfg.Cases.Tasks,
	})
}

func health(cfg config.Taskwire) web.HandlerFunc {
	return func(ctx context.Context, r *http.Request) web.Encoder {
		if err := postgresdb.StatusCheck(ctx, cfg.Pool); err != nil {
			cfg.Logger.WarnContext(ctx, "health: database unreachable", "error", err)
			return fopbridge.NewStatusResponse("db not ready", cfg.Build, http.StatusInternalServerError)
		}
		return fopbridge.NewStatusResponse("ok", cfg.Build, http.StatusOK)
	}
}
