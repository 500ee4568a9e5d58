// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/srikanthallu/cats/dsc"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/idx"
)

// Discretize replaces the axial and time derivatives by algebraic relations on refined grids.
// Parameters given at the first grid point are broadcast to the new points and dCb/dt at
// the first location and first time is pinned to zero
func (o *Model) Discretize(cfg dsc.Config) (err error) {

	// check
	if !o.Built() {
		return errs.Prerequisite("Discretize", "balance equations")
	}
	if o.disc != nil {
		return errs.Prerequisite("Discretize", "a model not yet discretized")
	}

	// transforms
	ttr, err := cfg.Temporal()
	if err != nil {
		return
	}
	ztr, err := cfg.Spatial()
	if err != nil {
		return
	}
	tpts, tSt, err := ttr.Apply(o.Space.Time.Points)
	if err != nil {
		return
	}
	zpts, zSt, err := ztr.Apply(o.Space.Axial.Points)
	if err != nil {
		return
	}

	// new grids
	o.Space.Axial = &idx.Grid{Name: "axial", Points: zpts}
	o.Space.Time = &idx.Grid{Name: "time", Points: tpts}
	o.disc = &discretization{cfg: cfg, zSt: zSt, tSt: tSt}
	nz, nt := len(zpts), len(tpts)

	// broadcast first-point values
	for g := range o.CbIn {
		for a := range o.CbIn[g] {
			for k := range o.CbIn[g][a] {
				o.CbIn[g][a][k] = fill(nt, o.CbIn[g][a][k][0])
			}
		}
	}
	for a := range o.T {
		for k := range o.T[a] {
			o.T[a][k] = fill(nt, o.T[a][k][0])
		}
		o.AgeTab[a] = fillStr(nt, o.AgeTab[a][0])
	}
	for s := range o.Smax {
		for a := range o.Smax[s] {
			v := o.Smax[s][a][0][0]
			o.Smax[s][a] = make([][]float64, nz)
			for z := range o.Smax[s][a] {
				o.Smax[s][a][z] = fill(nt, v)
			}
		}
	}
	o.Net.Rebroadcast(nz)

	// variables and constraints on the new grids
	o.allocVars()
	o.allocCons()

	// pin dCb/dt at (first location, first time)
	f := o.vars[VarDCbDt]
	for g := 0; g < f.Shape.Ns; g++ {
		for a := 0; a < f.Shape.Na; a++ {
			for k := 0; k < f.Shape.Nk; k++ {
				f.fix(g, a, k, 0, 0, 0)
			}
		}
	}
	return
}

// Config returns the discretization settings
func (o *Model) Config() (cfg dsc.Config, ok bool) {
	if o.disc == nil {
		return
	}
	return o.disc.cfg, true
}
