package di

import "sync"

// Token is a typed handle for a lazily-constructed service.
type Token[T any] struct {
	name string
}

// NewToken creates a token. The name must be unique across the process;
// convention is "context.Service" for public services and
// "context:service" for private ones.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry key.
func (t Token[T]) Name() string { return t.name }

// lazy builds its value once on first resolution.
type lazy[T any] struct {
	once    sync.Once
	factory func(ServiceRegistry) T
	value   T
}

func (l *lazy[T]) get(r ServiceRegistry) T {
	l.once.Do(func() {
		l.value = l.factory(r)
	})
	return l.value
}

// RegisterToken stores a factory under the token. Construction is deferred
// to the first GetToken, so registration order between modules is free.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.Register(token.name, &lazy[T]{factory: factory})
}

// GetToken resolves the token's service, building it on first use. Panics
// on a wiring mistake; intended for module startup paths only.
func GetToken[T any](r ServiceRegistry, token Token[T]) T {
	entry := MustGet[*lazy[T]](r, token.name)
	return entry.get(r)
}
