// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/srikanthallu/cats/dsc"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/inp"
	"github.com/srikanthallu/cats/mdl"
	"github.com/srikanthallu/cats/rxn"
)

// Build creates a discretized model with all conditions set from simulation data
func Build(sim *inp.Simulation) (m *mdl.Model, err error) {

	// transport
	m = mdl.New()
	tr := sim.Transport
	for _, set := range []func() error{
		func() error { return m.SetBulkPorosity(tr.Eb) },
		func() error { return m.SetWashcoatPorosity(tr.Ew) },
		func() error { return m.SetLinearVelocity(tr.V) },
		func() error { return m.SetMassTransferCoef(tr.Km) },
		func() error { return m.SetSurfaceToVolumeRatio(tr.Ga) },
	} {
		if err = set(); err != nil {
			return nil, err
		}
	}

	// index space
	steps := []func() error{
		func() error { return m.DefineAxial(sim.Axial.Start, sim.Axial.End, sim.Axial.Points...) },
		func() error { return m.DefineTemporal(sim.Time.Start, sim.Time.End, sim.Time.Points...) },
		func() error { return m.DefineAge(sim.Ages...) },
		func() error { return m.DefineTemperature(sim.Temps...) },
		func() error { return m.DefineGasSpecies(sim.Gas...) },
	}
	if len(sim.Surface) > 0 {
		steps = append(steps, func() error { return m.DefineSurfaceSpecies(sim.Surface...) })
	}
	if len(sim.Sites) > 0 {
		names := make([]string, len(sim.Sites))
		for i, s := range sim.Sites {
			names[i] = s.Name
		}
		steps = append(steps, func() error { return m.DefineSites(names...) })
	}
	for _, step := range steps {
		if err = step(); err != nil {
			return nil, err
		}
	}

	// sites
	for _, s := range sim.Sites {
		for _, age := range keys(s.Density) {
			if err = m.SetSiteDensity(s.Name, age, s.Density[age]); err != nil {
				return nil, err
			}
		}
		if err = m.SetSiteBalance(s.Name, s.Balance); err != nil {
			return nil, err
		}
	}

	// reactions
	kinds := make(map[string]rxn.Kind)
	for _, r := range sim.Reactions {
		if _, dup := kinds[r.Name]; dup {
			return nil, chk.Err("reaction %q is defined more than once", r.Name)
		}
		kind, e := rxn.ParseKind(r.Kind)
		if e != nil {
			return nil, errs.InvalidKind(r.Name, r.Kind)
		}
		kinds[r.Name] = kind
	}
	if err = m.DeclareReactions(kinds); err != nil {
		return
	}
	for _, r := range sim.Reactions {
		if err = m.ConfigureReaction(r.Name, r.Info); err != nil {
			return nil, err
		}
		for _, prm := range sortedBounds(r.Bounds) {
			if err = m.Net.SetParamBounds(r.Name, prm, r.Bounds[prm][0], r.Bounds[prm][1]); err != nil {
				return nil, err
			}
		}
		if r.Fixed {
			m.Net.Fix(r.Name)
		}
	}

	// balance equations and discretization
	if err = m.BuildConstraints(); err != nil {
		return nil, err
	}
	method, err := dsc.ParseMethod(sim.Disc.Method)
	if err != nil {
		return nil, err
	}
	err = m.Discretize(dsc.Config{Method: method, Elems: sim.Disc.Elems, TimeSteps: sim.Disc.TimeSteps, ColPoints: sim.Disc.ColPoints})
	if err != nil {
		return nil, err
	}
	for _, r := range sim.Reactions {
		if z := r.Zone; z != nil {
			if err = m.SetReactionZone(r.Name, z.Lo, z.Hi, z.Invert); err != nil {
				return nil, err
			}
		}
	}

	// conditions
	for _, c := range sim.Conditions {
		if err = setConditions(m, c); err != nil {
			return nil, err
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func setConditions(m *mdl.Model, c *inp.CondData) (err error) {
	if c.Temperature > 0 {
		if err = m.SetIsothermalTemp(c.Age, c.Temp, c.Temperature); err != nil {
			return
		}
	}
	if r := c.Ramp; r != nil {
		if err = m.SetTemperatureRamp(c.Age, c.Temp, r.T0, r.T1, r.Tend); err != nil {
			return
		}
	}
	for _, spec := range keys(c.IC) {
		if err = m.SetConstIC(spec, c.Age, c.Temp, c.IC[spec]); err != nil {
			return
		}
	}
	for _, spec := range keys(c.BC) {
		if err = m.SetConstBC(spec, c.Age, c.Temp, c.BC[spec]); err != nil {
			return
		}
	}
	names := make([]string, 0, len(c.Series))
	for spec := range c.Series {
		names = append(names, spec)
	}
	sort.Strings(names)
	for _, spec := range names {
		s := c.Series[spec]
		if s == nil {
			continue
		}
		if err = m.SetTimeDependentBC(spec, c.Age, c.Temp, s.Pairs, s.Initial); err != nil {
			return
		}
	}
	return
}

func keys(m map[string]float64) (res []string) {
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return
}

func sortedBounds(m map[string][2]float64) (res []string) {
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return
}
