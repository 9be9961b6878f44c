// Package config holds what the taskwire service is assembled from.
package config

import (
	"fmt"
	"time"

	"github.com/jrazmi/taskwire/core/cases/taskscase"
	"github.com/jrazmi/taskwire/core/repositories/tasksrepo"
	"github.com/jrazmi/taskwire/core/repositories/usersessionsrepo"
	"github.com/jrazmi/taskwire/core/repositories/usersrepo"
	"github.com/jrazmi/taskwire/infrastructure/notify"
	"github.com/jrazmi/taskwire/infrastructure/postgresdb"
	"github.com/jrazmi/taskwire/sdk/environment"
	"github.com/jrazmi/taskwire/sdk/logger"
	"github.com/jrazmi/taskwire/sdk/telemetry"
)

// site wide globals.
const (
	AppName  = "TASKWIRE"
	ApiRoute = "/api"
)

// Options are the service settings not owned by an infrastructure package.
type Options struct {
	SessionTTL         time.Duration `env:"SESSION_TTL" default:"720h"`
	EventsBuffer       int           `env:"EVENTS_BUFFER" default:"64"`
	EventsWriteTimeout time.Duration `env:"EVENTS_WRITE_TIMEOUT" default:"5s"`
}

// LoadOptions reads Options from PREFIX_* variables.
func LoadOptions(prefix string) (Options, error) {
	var opts Options
	if err := environment.ParseEnvTags(prefix, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing taskwire options: %w", err)
	}
	return opts, nil
}

type Repositories struct {
	Tasks    *tasksrepo.Repository
	Users    *usersrepo.Repository
	Sessions *usersessionsrepo.Repository
}

type Cases struct {
	Tasks *taskscase.Case
}

// Taskwire is the overall configuration for the taskwire application.
type Taskwire struct {
	Build       string
	Logger      *logger.Logger
	Telemetry   telemetry.Telemetry
	Pool        *postgresdb.Pool
	Hub         *notify.Hub
	CORSOrigins []string
	Options     Options

	Repositories Repositories
	Cases        Cases
}
