// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tests

import (
	"context"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/srikanthallu/cats/inp"
	"github.com/srikanthallu/cats/sim"
)

func init() {
	io.Verbose = false
}

func Verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// Start reads a simulation file, lets change modify the data, and builds the model and solver
func Start(tst *testing.T, simfilepath string, change func(dat *inp.Simulation)) *sim.Main {
	dat, err := inp.ReadSim(simfilepath)
	if err != nil {
		tst.Fatalf("cannot read simulation file:\n%v", err)
	}
	if change != nil {
		change(dat)
	}
	main, err := sim.NewMain(dat, nil, chk.Verbose)
	if err != nil {
		tst.Fatalf("cannot build model:\n%v", err)
	}
	return main
}

// Run runs a simulation and stops the test on failure
func Run(tst *testing.T, main *sim.Main) {
	if err := main.Run(context.Background()); err != nil {
		tst.Fatalf("run failed:\n%v", err)
	}
}
