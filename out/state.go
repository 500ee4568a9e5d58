// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements output handling: parameter state documents, archives and result tables
package out

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/idx"
	"github.com/srikanthallu/cats/mdl"
)

// Transport holds the transport parameters
type Transport struct {
	Eb float64 `json:"eb"` // bulk porosity
	Ew float64 `json:"ew"` // washcoat porosity
	V  float64 `json:"v"`  // linear velocity
	Km float64 `json:"km"` // mass transfer coefficient
	Ga float64 `json:"ga"` // surface to volume ratio
}

// Param holds a kinetic parameter. Infinite bounds are omitted
type Param struct {
	Name   string   `json:"name"`
	Value  float64  `json:"value"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Fixed  bool     `json:"fixed"`
	Pinned bool     `json:"pinned"`
}

// Reaction holds the state of one reaction
type Reaction struct {
	Name   string               `json:"name"`
	Kind   string               `json:"kind"`
	Fixed  bool                 `json:"fixed"`
	Params []*Param             `json:"params"`
	UGas   map[string][]float64 `json:"ugas"`            // gas species => [nz] net stoichiometry
	USurf  map[string][]float64 `json:"usurf,omitempty"` // surface species => [nz] net stoichiometry
	Orders map[string]float64   `json:"orders"`          // species => order
}

// Site holds the state of one site
type Site struct {
	Name      string                 `json:"name"`
	Occupancy map[string]float64     `json:"occupancy"` // surface species => occupancy
	Density   map[string][][]float64 `json:"density"`   // age => [nz][nt] site density
}

// State holds every mutable parameter of a model and, optionally, the values of its variables
type State struct {
	Transport Transport            `json:"transport"`
	Reactions []*Reaction          `json:"reactions,omitempty"`
	Sites     []*Site              `json:"sites,omitempty"`
	Vars      map[string][]float64 `json:"vars,omitempty"` // family => values
}

// Export returns the parameter state of a model. withVars => include the values of all variables
func Export(m *mdl.Model, withVars bool) (o *State) {
	o = &State{Transport: Transport{m.Eb, m.Ew, m.V, m.Km, m.Ga}}
	sp := &m.Space

	// reactions
	if m.Net != nil {
		for _, r := range m.Net.All() {
			res := &Reaction{Name: r.Name, Kind: r.Kind.String(), Fixed: r.Fixed,
				UGas: make(map[string][]float64), Orders: make(map[string]float64)}
			for _, p := range r.Prms {
				res.Params = append(res.Params, &Param{p.N, p.V, bound(p.Min), bound(p.Max), p.Fixed, p.Pinned})
			}
			for g, u := range r.UGas {
				res.UGas[sp.Gas.Name(idx.Handle(g))] = clone(u)
			}
			if len(r.USurf) > 0 {
				res.USurf = make(map[string][]float64)
				for q, u := range r.USurf {
					res.USurf[sp.Surf.Name(idx.Handle(q))] = clone(u)
				}
			}
			for s, v := range r.Orders {
				res.Orders[sp.SpeciesName(s)] = v
			}
			o.Reactions = append(o.Reactions, res)
		}
	}

	// sites
	for s := 0; s < sp.Sites.Len(); s++ {
		site := &Site{Name: sp.Sites.Name(idx.Handle(s)), Occupancy: make(map[string]float64),
			Density: make(map[string][][]float64)}
		for q, u := range m.US[s] {
			site.Occupancy[sp.Surf.Name(idx.Handle(q))] = u
		}
		for a, age := range sp.Ages.List() {
			site.Density[age] = make([][]float64, len(m.Smax[s][a]))
			for z, row := range m.Smax[s][a] {
				site.Density[age][z] = clone(row)
			}
		}
		o.Sites = append(o.Sites, site)
	}

	// variables
	if withVars {
		o.Vars = make(map[string][]float64)
		for _, kind := range mdl.VarKinds() {
			if f := m.Var(kind); f != nil {
				o.Vars[kind.String()] = clone(f.Val)
			}
		}
	}
	return
}

// Import sets the parameter state of a model. The state must match the structure of the model;
// nothing is changed if an error is returned
func Import(m *mdl.Model, o *State) (err error) {
	if err = check(m, o); err != nil {
		return
	}
	sp := &m.Space

	// transport
	t := o.Transport
	m.Eb, m.Ew, m.V, m.Km, m.Ga = t.Eb, t.Ew, t.V, t.Km, t.Ga

	// reactions
	for _, res := range o.Reactions {
		r, _ := m.Net.Get(res.Name)
		r.Fixed = res.Fixed
		for _, prm := range res.Params {
			p := r.Prm(prm.Name)
			p.V, p.Fixed, p.Pinned = prm.Value, prm.Fixed, prm.Pinned
			p.Min, p.Max = unbound(prm.Min, math.Inf(-1)), unbound(prm.Max, math.Inf(1))
		}
		for name, u := range res.UGas {
			h, _ := sp.Gas.Handle(name)
			copy(r.UGas[h], u)
		}
		for name, u := range res.USurf {
			h, _ := sp.Surf.Handle(name)
			copy(r.USurf[h], u)
		}
		for name, v := range res.Orders {
			s, _ := sp.Lookup(name)
			r.Orders[s] = v
		}
	}

	// sites
	for _, site := range o.Sites {
		s, _ := sp.Sites.Handle(site.Name)
		for name, u := range site.Occupancy {
			q, _ := sp.Surf.Handle(name)
			m.US[s][q] = u
		}
		for age, rows := range site.Density {
			a, _ := sp.Ages.Handle(age)
			for z, row := range rows {
				copy(m.Smax[s][a][z], row)
			}
		}
	}

	// variables
	for name, vals := range o.Vars {
		kind, _ := mdl.ParseVarKind(name)
		copy(m.Var(kind).Val, vals)
	}
	return
}

// SaveState writes the state of a model to a JSON file
func SaveState(path string, m *mdl.Model, withVars bool) error {
	b, err := json.MarshalIndent(Export(m, withVars), "", "  ")
	if err != nil {
		return chk.Err("cannot encode state:\n%v", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return chk.Err("cannot create directory %q:\n%v", dir, err)
		}
	}
	return os.WriteFile(path, b, 0644)
}

// LoadState reads a JSON file and sets the state of a model
func LoadState(path string, m *mdl.Model) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return chk.Err("cannot read state file %q:\n%v", path, err)
	}
	var o State
	if err = json.Unmarshal(b, &o); err != nil {
		return chk.Err("cannot decode state file %q:\n%v", path, err)
	}
	return Import(m, &o)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// check checks the structure of a state against a model
func check(m *mdl.Model, o *State) error {
	sp := &m.Space
	nz := sp.Nz()
	t := o.Transport
	if err := mdl.CheckTransport(t.Eb, t.Ew, t.V, t.Km, t.Ga); err != nil {
		return err
	}
	for _, res := range o.Reactions {
		if m.Net == nil {
			return errs.Prerequisite("Import", "declared reactions")
		}
		r, err := m.Net.Get(res.Name)
		if err != nil {
			return err
		}
		if res.Kind != r.Kind.String() {
			return errs.InvalidKind(res.Name, res.Kind)
		}
		for _, prm := range res.Params {
			if r.Prm(prm.Name) == nil {
				return errs.UnknownName(r.Kind.String()+" parameters", prm.Name)
			}
			lo, hi := unbound(prm.Min, math.Inf(-1)), unbound(prm.Max, math.Inf(1))
			quantity := res.Name + "." + prm.Name
			if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
				return errs.Domain(quantity+" lower bound", lo, io.Sf("must not exceed upper bound %g", hi))
			}
			if math.IsNaN(prm.Value) || prm.Value < lo || prm.Value > hi {
				return errs.Domain(quantity, prm.Value, io.Sf("value outside [%g, %g]", lo, hi))
			}
		}
		for name, vals := range res.UGas {
			if !sp.Gas.Has(name) {
				return errs.UnknownName("gas species", name)
			}
			if len(vals) != nz {
				return chk.Err("stoichiometry of %q in %q has %d points; the axial grid has %d", name, res.Name, len(vals), nz)
			}
		}
		for name, vals := range res.USurf {
			if !sp.Surf.Has(name) {
				return errs.UnknownName("surface species", name)
			}
			if len(vals) != nz {
				return chk.Err("stoichiometry of %q in %q has %d points; the axial grid has %d", name, res.Name, len(vals), nz)
			}
		}
		for name := range res.Orders {
			if _, err = sp.Lookup(name); err != nil {
				return err
			}
		}
	}
	for _, site := range o.Sites {
		if !sp.Sites.Has(site.Name) {
			return errs.UnknownName("sites", site.Name)
		}
		for name, u := range site.Occupancy {
			if !sp.Surf.Has(name) {
				return errs.UnknownName("surface species", name)
			}
			if math.IsNaN(u) || math.IsInf(u, 0) {
				return errs.Domain("occupancy of "+name+" on "+site.Name, u, "must be finite")
			}
		}
		for age, rows := range site.Density {
			if !sp.Ages.Has(age) {
				return errs.UnknownName(sp.Ages.Set(), age)
			}
			if len(rows) != nz {
				return chk.Err("density of %q at %q has %d points; the axial grid has %d", site.Name, age, len(rows), nz)
			}
			for _, row := range rows {
				if len(row) != sp.Nt() {
					return chk.Err("density of %q at %q has %d times; the time grid has %d", site.Name, age, len(row), sp.Nt())
				}
				for _, v := range row {
					if math.IsNaN(v) || v < 0 || v > mdl.Ceil {
						return errs.Domain("density of "+site.Name, v, "must be in [0, upper bound]")
					}
				}
			}
		}
	}
	for name, vals := range o.Vars {
		kind, err := mdl.ParseVarKind(name)
		if err != nil {
			return err
		}
		f := m.Var(kind)
		if f == nil || len(f.Val) != len(vals) {
			return chk.Err("values of %q do not match the model", name)
		}
	}
	return nil
}

func bound(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func unbound(v *float64, inf float64) float64 {
	if v == nil {
		return inf
	}
	return *v
}

func clone(v []float64) []float64 { return append([]float64{}, v...) }
