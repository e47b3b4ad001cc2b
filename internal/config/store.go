package config

import (
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Store holds the latest configuration snapshot.
//
// The core only ever reads the snapshot; updates come from the file watcher.
// Readers get an immutable *Config and must not mutate it.
type Store struct {
	current atomic.Pointer[Config]
}

// NewStore creates a store seeded with the given configuration.
func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.current.Store(cfg)
	return s
}

// Snapshot returns the latest configuration.
func (s *Store) Snapshot() *Config {
	return s.current.Load()
}

// Watch re-reads the config file on change and swaps the snapshot in.
// A snapshot failing validation is discarded and the previous one kept.
func (s *Store) Watch(v *viper.Viper, onError func(error)) {
	v.OnConfigChange(func(fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if err := cfg.Validate(); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		s.current.Store(&cfg)
	})
	v.WatchConfig()
}
