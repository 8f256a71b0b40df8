// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend selects and constructs graphics drivers. Drivers register
// themselves from init() in their own packages; importing a driver package
// makes it available here.
package backend

import (
	"errors"
	"sync"

	"github.com/gogpu/holos/render"
)

// Driver name constants.
const (
	// DriverSoftware is the CPU-only driver used for headless runs and tests.
	DriverSoftware = "software"
	// DriverWGPU is the GPU driver built on gogpu/wgpu.
	DriverWGPU = "wgpu"
)

// ErrDriverNotAvailable is returned when a requested driver is not registered.
var ErrDriverNotAvailable = errors.New("backend: driver not available")

// Factory creates a new driver instance.
type Factory func() render.Driver

var (
	registryMu sync.RWMutex
	drivers    = make(map[string]Factory)
	// Priority order for driver selection (first available wins).
	driverPriority = []string{DriverWGPU, DriverSoftware}
)

// Register registers a driver factory with the given name, replacing any
// existing registration. Typically called from init() in driver packages.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	drivers[name] = factory
}

// Unregister removes a driver from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(drivers, name)
}

// Available returns the registered driver names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	return names
}

// Get returns a new driver instance by name.
func Get(name string) (render.Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := drivers[name]
	if !ok {
		return nil, ErrDriverNotAvailable
	}
	return factory(), nil
}

// Default returns the best available driver based on priority.
// Returns nil if no drivers are registered.
func Default() render.Driver {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range driverPriority {
		if factory, ok := drivers[name]; ok {
			if d := factory(); d != nil {
				return d
			}
		}
	}
	for _, factory := range drivers {
		if d := factory(); d != nil {
			return d
		}
	}
	return nil
}

// Open returns an initialized driver: the named one, or the default when
// name is empty.
func Open(name string) (render.Driver, error) {
	var d render.Driver
	if name == "" {
		d = Default()
		if d == nil {
			return nil, ErrDriverNotAvailable
		}
	} else {
		var err error
		d, err = Get(name)
		if err != nil {
			return nil, err
		}
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}
