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

// GetProcessor performs a lookup for the given name (case-insensitive) and
// creates a processor instance running calls with the given simulator on top
// of the given state. The result is nil if no factory was registered under
// the given name.
func GetProcessor(
	name string,
	simulator CallSimulator,
	state PublicStateTree,
	globals GlobalVariables,
) Processor {
	factory := GetProcessorFactory(name)
	if factory == nil {
		return nil
	}
	return factory(simulator, state, globals)
}

// GetProcessorFactory performs a lookup for the given name (case-insensitive)
// in the registry. The result is nil if no factory was registered under the
// given name.
func GetProcessorFactory(name string) ProcessorFactory {
	processorRegistryLock.Lock()
	defer processorRegistryLock.Unlock()
	return processorRegistry[strings.ToLower(name)]
}

// GetAllRegisteredProcessorFactories obtains all registered implementations.
func GetAllRegisteredProcessorFactories() map[string]ProcessorFactory {
	processorRegistryLock.Lock()
	defer processorRegistryLock.Unlock()
	return maps.Clone(processorRegistry)
}

// RegisterProcessorFactory can be used to register a new Processor
// implementation to be exported for general use in the binary. The name is
// not case-sensitive, and a panic is triggered if an implementation was bound
// to the same name before, or the implementation is nil. This function is
// mainly intended to be used by package initialization code.
func RegisterProcessorFactory(name string, factory ProcessorFactory) {
	key := strings.ToLower(name)
	if factory == nil {
		panic(fmt.Sprintf("invalid initialization: cannot register nil-processor using `%s`", key))
	}
	processorRegistryLock.Lock()
	defer processorRegistryLock.Unlock()
	if _, found := processorRegistry[key]; found {
		panic(fmt.Sprintf("invalid initialization: multiple processors registered for `%s`", key))
	}
	processorRegistry[key] = factory
}

// ProcessorFactory is the type of a function that creates a new Processor
// for a block with the given global variables, running calls with the given
// simulator on top of the given state.
type ProcessorFactory func(CallSimulator, PublicStateTree, GlobalVariables) Processor

// processorRegistry is a global registry for Processor factories of
// different implementations and configurations.
var processorRegistry = map[string]ProcessorFactory{}

// processorRegistryLock to protect access to the registry.
var processorRegistryLock sync.Mutex
