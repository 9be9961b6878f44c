// Package taskscasebridge exposes the task case over HTTP.
package taskscasebridge

import (
	"github.com/jrazmi/taskwire/core/cases/taskscase"
	"github.com/jrazmi/taskwire/infrastructure/web"
	"github.com/jrazmi/taskwire/sdk/logger"
)

// Config holds configuration for the task bridge.
type Config struct {
	Log        *logger.Logger
	Case       *taskscase.Case
	Middleware []web.Middleware
}

type bridge struct {
	log   *logger.Logger
	tasks *taskscase.Case
}

func newBridge(log *logger.Logger, tasks *taskscase.Case) *bridge {
	return &bridge{
		log:   log,
		tasks: tasks,
	}
}

// AddHttpRoutes registers the task routes on group, which must already
// authenticate its requests.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Case)

	group.GET("/tasks", b.httpList, cfg.Middleware...)
	group.POST("/tasks", b.httpCreate, cfg.Middleware...)
	group.PUT("/tasks/{task_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/tasks/{task_id}", b.httpDelete, cfg.Middleware...)
}
