// Package di provides a minimal service container for module wiring.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns the service registered under name, or nil if absent.
	Get(name string) any
}

// Container registers and resolves named services.
type Container interface {
	ServiceRegistry

	// Register stores a service under name, replacing any previous entry.
	Register(name string, service any)
}

type container struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{services: make(map[string]any)}
}

func (c *container) Register(name string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services[name]
}

// MustGet resolves a service by name and asserts its type, panicking on a
// wiring mistake. Intended for module startup paths only.
func MustGet[T any](r ServiceRegistry, name string) T {
	svc := r.Get(name)
	if svc == nil {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}
	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has type %T, not the requested type", name, svc))
	}
	return typed
}
