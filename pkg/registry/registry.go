// Package registry resolves volume names from parsed resource
// identifiers to the drivers configured to serve them.
package registry

import (
	"fmt"
	"sort"

	"github.com/marmos91/volcat/pkg/config"
	"github.com/marmos91/volcat/pkg/volume"
	"github.com/marmos91/volcat/pkg/volume/memory"
	"github.com/marmos91/volcat/pkg/volume/posix"
)

// Registry maps volume names to their serving drivers. It is built once
// per invocation from configuration and immutable afterwards.
type Registry struct {
	drivers map[string]volume.Driver
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{drivers: make(map[string]volume.Driver)}
}

// Register adds a driver under the given volume name. Duplicate names
// are rejected at construction, before any connection attempt.
func (r *Registry) Register(name string, drv volume.Driver) error {
	if name == "" {
		return fmt.Errorf("volume name must not be empty")
	}
	if drv == nil {
		return fmt.Errorf("volume %q: driver must not be nil", name)
	}
	if _, dup := r.drivers[name]; dup {
		return fmt.Errorf("volume %q declared twice", name)
	}
	r.drivers[name] = drv
	return nil
}

// Resolve returns the driver serving the target's volume. An unknown
// volume is a connection-class failure surfaced before any file
// activity.
func (r *Registry) Resolve(target volume.Target) (volume.Driver, error) {
	drv, ok := r.drivers[target.Volume]
	if !ok {
		return nil, &volume.ConnectError{
			Target: target,
			Err:    fmt.Errorf("%w: %q", volume.ErrUnknownVolume, target.Volume),
		}
	}
	return drv, nil
}

// Names returns the registered volume names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered volumes.
func (r *Registry) Len() int {
	return len(r.drivers)
}

// FromConfig builds a registry from the configured volume export table.
func FromConfig(cfg *config.Config) (*Registry, error) {
	r := New()
	for _, vc := range cfg.Volumes {
		var drv volume.Driver
		switch vc.Driver {
		case config.DriverPosix:
			drv = posix.New(posix.Config{Root: vc.Root, Hosts: vc.Hosts})
		case config.DriverMemory:
			mem := memory.New()
			if len(vc.Hosts) > 0 {
				mem.ServeHosts(vc.Hosts...)
			}
			drv = mem
		default:
			return nil, fmt.Errorf("volume %q: unknown driver %q", vc.Name, vc.Driver)
		}
		if err := r.Register(vc.Name, drv); err != nil {
			return nil, err
		}
	}
	return r, nil
}
