// Package monolith provides the application container and module interface.
package monolith

import (
	"context"

	"github.com/solarb/solarb/internal/config"
	"github.com/solarb/solarb/internal/di"
	"github.com/solarb/solarb/internal/eventbus"
	"github.com/solarb/solarb/internal/logger"
)

// Monolith is the application container giving modules access to shared
// infrastructure.
type Monolith interface {
	Config() *config.Store
	Logger() *logger.Logger
	Bus() *eventbus.Bus
	Services() di.ServiceRegistry
}

// Module is a bounded context that registers its services and starts up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

type app struct {
	config    *config.Store
	logger    *logger.Logger
	bus       *eventbus.Bus
	container di.Container
}

// New creates the application container and registers the global services.
func New(cfg *config.Store, log *logger.Logger, bus *eventbus.Bus) *app {
	container := di.NewContainer()

	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("bus", bus)

	return &app{
		config:    cfg,
		logger:    log,
		bus:       bus,
		container: container,
	}
}

func (a *app) Config() *config.Store { return a.config }

func (a *app) Logger() *logger.Logger { return a.logger }

func (a *app) Bus() *eventbus.Bus { return a.bus }

func (a *app) Services() di.ServiceRegistry { return a.container }

// Container returns the DI container for module registration.
func (a *app) Container() di.Container { return a.container }

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules in order.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close releases shared resources.
func (a *app) Close() error {
	a.bus.Close()
	return nil
}
