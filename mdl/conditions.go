// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/idx"
)

// TimeValue is a point of a time series
type TimeValue struct {
	T float64 `json:"t" yaml:"t"`
	V float64 `json:"v" yaml:"v"`
}

// SetIsothermalTemp sets the temperature of an (age, temperature) pair at all times
func (o *Model) SetIsothermalTemp(age, temp string, value float64) error {
	if o.Space.Temps == nil {
		return errs.Prerequisite("SetIsothermalTemp", "temperature set")
	}
	a, k, err := o.Handles(age, temp)
	if err != nil {
		return err
	}
	if math.IsNaN(value) || value <= 0 {
		return errs.Domain("temperature", value, "must be positive")
	}
	o.T[a][k] = fill(o.Space.Nt(), value)
	return nil
}

// SetTemperatureRamp ramps the temperature linearly from its initial value at t0 to Tend at t1.
// Times at or after t1 are set to Tend
func (o *Model) SetTemperatureRamp(age, temp string, t0, t1, Tend float64) error {
	if o.disc == nil {
		return errs.Prerequisite("SetTemperatureRamp", "discretization")
	}
	a, k, err := o.Handles(age, temp)
	if err != nil {
		return err
	}
	if !(t1 > t0) {
		return errs.Domain("ramp end time", t1, io.Sf("must be greater than start time %g", t0))
	}
	if math.IsNaN(Tend) || Tend <= 0 {
		return errs.Domain("ramp end temperature", Tend, "must be positive")
	}
	T0 := o.T[a][k][0]
	slope := (Tend - T0) / (t1 - t0)
	for i, t := range o.Space.Time.Points {
		switch {
		case t <= t0:
		case t >= t1:
			o.T[a][k][i] = Tend
		default:
			o.T[a][k][i] = T0 + slope*(t-t0)
		}
	}
	return nil
}

// SetSiteDensity sets the maximum site density of an age at all locations and times
func (o *Model) SetSiteDensity(site, age string, value float64) error {
	if !o.Space.HasSites() {
		return errs.Prerequisite("SetSiteDensity", "sites")
	}
	s, err := o.Space.Sites.Handle(site)
	if err != nil {
		return err
	}
	a, err := o.Space.Ages.Handle(age)
	if err != nil {
		return err
	}
	if value, err = concentration("site density", value); err != nil {
		return err
	}
	for z := range o.Smax[s][a] {
		o.Smax[s][a][z] = fill(o.Space.Nt(), value)
	}
	return nil
}

// SetSiteBalance sets the number of sites each surface species occupies
func (o *Model) SetSiteBalance(site string, occupancy map[string]float64) error {
	if !o.Space.HasSites() {
		return errs.Prerequisite("SetSiteBalance", "sites")
	}
	s, err := o.Space.Sites.Handle(site)
	if err != nil {
		return err
	}
	for name := range occupancy {
		if _, err = o.Space.Surf.Handle(name); err != nil {
			return err
		}
	}
	for name, v := range occupancy {
		q, _ := o.Space.Surf.Handle(name)
		o.US[s][q] = v
	}
	return nil
}

// SetConstIC fixes the initial value of a species at all locations.
// Sites are not time dependent; for them the call only records the condition
func (o *Model) SetConstIC(spec, age, temp string, value float64) (err error) {
	if o.disc == nil {
		return errs.Prerequisite("SetConstIC", "discretization")
	}
	sp, err := o.Space.Lookup(spec)
	if err != nil {
		return
	}
	a, k, err := o.Handles(age, temp)
	if err != nil {
		return
	}
	if value, err = concentration("initial value of "+spec, value); err != nil {
		return
	}
	s := int(sp.H)
	for z := 0; z < o.Space.Nz(); z++ {
		switch sp.Phase {
		case idx.Gas:
			o.vars[VarCb].fix(s, a, k, z, 0, value)
			o.vars[VarC].fix(s, a, k, z, 0, value)
		case idx.Surface:
			o.vars[VarQ].fix(s, a, k, z, 0, value)
		}
	}
	o.icSet[condKey{sp, a, k}] = true
	return
}

// SetConstBC fixes the inlet value of a gas species at all times
func (o *Model) SetConstBC(spec, age, temp string, value float64) error {
	return o.SetTimeDependentBC(spec, age, temp, []TimeValue{{T: math.Inf(-1), V: value}}, value)
}

// SetTimeDependentBC fixes the inlet value of a gas species as a step function of time:
// at time t the value of the last pair with T <= t applies; before the first pair, initial applies.
// Values are clamped to the floor
func (o *Model) SetTimeDependentBC(spec, age, temp string, pairs []TimeValue, initial float64) (err error) {

	// check
	if o.disc == nil {
		return errs.Prerequisite("SetTimeDependentBC", "discretization")
	}
	g, err := o.Space.Gas.Handle(spec)
	if err != nil {
		return
	}
	a, k, err := o.Handles(age, temp)
	if err != nil {
		return
	}
	key := condKey{idx.Species{Phase: idx.Gas, H: g}, a, k}
	if !o.icSet[key] {
		return errs.Prerequisite("SetTimeDependentBC", "initial condition of "+spec)
	}
	if len(pairs) == 0 {
		return errs.Domain("boundary pairs", 0, "at least one (time, value) pair is required")
	}
	if initial, err = concentration("initial boundary value of "+spec, initial); err != nil {
		return
	}
	vals := make([]float64, len(pairs))
	for i, p := range pairs {
		if i > 0 && !(p.T > pairs[i-1].T) {
			return errs.Domain("boundary time", p.T, "times must be increasing")
		}
		if vals[i], err = concentration("boundary value of "+spec, p.V); err != nil {
			return
		}
	}

	// step function
	tol := idx.Tol * (o.Space.Time.Last() - o.Space.Time.First())
	for i, t := range o.Space.Time.Points {
		v := initial
		for j, p := range pairs {
			if p.T <= t+tol {
				v = vals[j]
			}
		}
		o.CbIn[g][a][k][i] = v
		o.vars[VarCb].fix(int(g), a, k, 0, i, v)
	}
	o.bcSet[key] = true
	return
}

// CheckBoundaries returns an error if, for some (age, temperature) pair, a gas species has no
// boundary condition or a surface species has no initial condition
func (o *Model) CheckBoundaries() error {
	if o.disc == nil {
		return errs.Prerequisite("solve", "discretization")
	}
	ages, temps := o.Space.Ages.List(), o.Space.Temps.List()
	if o.Space.Surf != nil {
		for q, name := range o.Space.Surf.List() {
			for a := range ages {
				for k := range temps {
					if !o.icSet[condKey{idx.Species{Phase: idx.Surface, H: idx.Handle(q)}, a, k}] {
						return errs.Prerequisite("solve", io.Sf("initial condition of %s at (%s, %s)", name, ages[a], temps[k]))
					}
				}
			}
		}
	}
	for g, name := range o.Space.Gas.List() {
		for a := range ages {
			for k := range temps {
				if !o.bcSet[condKey{idx.Species{Phase: idx.Gas, H: idx.Handle(g)}, a, k}] {
					return errs.Prerequisite("solve", io.Sf("boundary condition of %s at (%s, %s)", name, ages[a], temps[k]))
				}
			}
		}
	}
	return nil
}
