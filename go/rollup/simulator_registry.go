// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rollup

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for CallSimulator factories.
//
// The registry is intended to be used by all client applications that would
// like to use simulator services. For an implementation to be available it
// needs to be registered. Typically, this registration is part of the init
// code of the package providing an implementation. Thus, by including the
// implementation package, simulator implementations become available in this
// central registry.

// NewSimulator performs a lookup for the given name (case-insensitive) in
// the registry and creates a new CallSimulator using the given optional
// configuration. If no configuration is provided, the implementation uses
// its default configuration. An error is returned if no factory was
// registered under the given name.
func NewSimulator(name string, config ...any) (CallSimulator, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("invalid configuration: too many arguments")
	}
	factory := GetSimulatorFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("simulator not found: %s", name)
	}
	c := any(nil)
	if len(config) > 0 {
		c = config[0]
	}
	return factory(c)
}

// GetSimulatorFactory performs a lookup for the given name (case-insensitive)
// in the registry. The result is nil if no factory was registered under the
// given name.
func GetSimulatorFactory(name string) SimulatorFactory {
	simulatorRegistryLock.Lock()
	defer simulatorRegistryLock.Unlock()
	return simulatorRegistry[strings.ToLower(name)]
}

// GetAllRegisteredSimulators obtains all registered implementations.
func GetAllRegisteredSimulators() map[string]SimulatorFactory {
	simulatorRegistryLock.Lock()
	defer simulatorRegistryLock.Unlock()
	return maps.Clone(simulatorRegistry)
}

// RegisterSimulatorFactory registers a new CallSimulator implementation to
// be exported for general use in the binary. The name is not case-sensitive,
// and an error is returned if a factory was bound to the same name before,
// or the factory is nil. This function is mainly intended to be used by
// package initialization code.
func RegisterSimulatorFactory(name string, factory SimulatorFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	simulatorRegistryLock.Lock()
	defer simulatorRegistryLock.Unlock()
	if _, found := simulatorRegistry[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	simulatorRegistry[key] = factory
	return nil
}

// SimulatorFactory is the type of a function that creates a new CallSimulator
// using a simulator specific configuration.
type SimulatorFactory func(config any) (CallSimulator, error)

// simulatorRegistry is a global registry for CallSimulator factories of
// different implementations and configurations.
var simulatorRegistry = map[string]SimulatorFactory{}

// simulatorRegistryLock to protect access to the registry.
var simulatorRegistryLock sync.Mutex
