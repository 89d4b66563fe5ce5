// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"io"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	// registers the implementations available to the driver
	_ "github.com/Fantom-foundation/Tosca-Rollup/go/processor/enqueued"
	_ "github.com/Fantom-foundation/Tosca-Rollup/go/simulator/scripted"
)

var ListCmd = cli.Command{
	Action: doList,
	Name:   "list",
	Usage:  "List all registered processors and simulators",
}

func doList(context *cli.Context) error {
	printRegistered(context.App.Writer)
	return nil
}

func printRegistered(out io.Writer) {
	processors := maps.Keys(rollup.GetAllRegisteredProcessorFactories())
	slices.Sort(processors)
	fmt.Fprintln(out, "Processors:")
	for _, name := range processors {
		fmt.Fprintf(out, "\t%s\n", name)
	}

	simulators := maps.Keys(rollup.GetAllRegisteredSimulators())
	slices.Sort(simulators)
	fmt.Fprintln(out, "Simulators:")
	for _, name := range simulators {
		fmt.Fprintf(out, "\t%s\n", name)
	}
}
