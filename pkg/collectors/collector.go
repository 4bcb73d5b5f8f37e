// Package collectors groups the core procfs accessors into snapshot collectors.
package collectors

import (
	"github.com/sirupsen/logrus"

	"github.com/danpilch/sysmon/pkg/cpu"
	"github.com/danpilch/sysmon/pkg/procfs"
	"github.com/danpilch/sysmon/pkg/process"
	"github.com/danpilch/sysmon/pkg/snapshot"
	"github.com/danpilch/sysmon/pkg/system"
)

// Registry holds all registered collectors.
type Registry struct {
	collectors []snapshot.Collector
}

// NewRegistry creates a new collector registry.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make([]snapshot.Collector, 0),
	}
}

// Default registers the system, memory, CPU and process collectors over r.
func Default(r *procfs.Reader, logger *logrus.Logger) *Registry {
	reg := NewRegistry()
	reg.Register(NewSystem(system.New(r)))
	reg.Register(NewMemory(system.New(r)))
	reg.Register(NewCPU(cpu.New(r)))
	reg.Register(NewProcesses(process.New(r, logger)))
	return reg
}

// Register adds a collector to the registry.
func (r *Registry) Register(c snapshot.Collector) {
	r.collectors = append(r.collectors, c)
}

// Collectors returns all registered collectors.
func (r *Registry) Collectors() []snapshot.Collector {
	return r.collectors
}

// GetByName returns a collector by name, or nil if not found.
func (r *Registry) GetByName(name string) snapshot.Collector {
	for _, c := range r.collectors {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
