// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rxn

import (
	"bytes"
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/srikanthallu/cats/errs"
)

// Prm holds a kinetic parameter
type Prm struct {
	N      string  // name
	V      float64 // value
	Min    float64 // lower bound
	Max    float64 // upper bound
	Fixed  bool    // held constant
	Pinned bool    // stays fixed even if the reaction is unfixed
}

// parameter names per kind
var (
	prmNames = map[Kind][]string{
		Arrhenius:            {"A", "B", "E"},
		EquilibriumArrhenius: {"A", "E", "dH", "dS"},
	}
	required = map[Kind][]string{
		Arrhenius:            {"A", "E"},
		EquilibriumArrhenius: {"A", "E", "dH", "dS"},
	}
)

func newPrms(kind Kind) (prms []*Prm) {
	for _, n := range prmNames[kind] {
		p := &Prm{N: n, Min: math.Inf(-1), Max: math.Inf(1)}
		if n == "A" {
			p.Min = 0
		}
		prms = append(prms, p)
	}
	return
}

// Prm returns the parameter named n or nil
func (o *Reaction) Prm(n string) *Prm {
	for _, p := range o.Prms {
		if p.N == n {
			return p
		}
	}
	return nil
}

// Fix holds all kinetic parameters of a reaction constant
func (o *Network) Fix(name string) error {
	r, err := o.Get(name)
	if err != nil {
		return err
	}
	r.fix()
	return nil
}

// Unfix frees the kinetic parameters of a reaction, except pinned ones
func (o *Network) Unfix(name string) error {
	r, err := o.Get(name)
	if err != nil {
		return err
	}
	r.unfix()
	return nil
}

// FixAll fixes all reactions
func (o *Network) FixAll() {
	for _, r := range o.rxns {
		r.fix()
	}
}

// UnfixAll frees all reactions
func (o *Network) UnfixAll() {
	for _, r := range o.rxns {
		r.unfix()
	}
}

// FixEquilibriumRelation fixes dH and dS of an equilibrium reaction
func (o *Network) FixEquilibriumRelation(name string) error {
	r, err := o.Get(name)
	if err != nil {
		return err
	}
	if r.Kind != EquilibriumArrhenius {
		return errs.InvalidKind(name, r.Kind.String())
	}
	r.Prm("dH").Fixed = true
	r.Prm("dS").Fixed = true
	r.Fixed = true
	return nil
}

// FixAllEquilibriumRelations fixes dH and dS of all equilibrium reactions
func (o *Network) FixAllEquilibriumRelations() {
	for _, r := range o.OfKind(EquilibriumArrhenius) {
		o.FixEquilibriumRelation(r.Name)
	}
}

// SetParamBounds sets the bounds of a kinetic parameter
func (o *Network) SetParamBounds(name, prm string, lo, hi float64) error {
	r, err := o.Get(name)
	if err != nil {
		return err
	}
	p := r.Prm(prm)
	if p == nil {
		return errs.UnknownName(r.Kind.String()+" parameters", prm)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return errs.Domain(name+"."+prm+" lower bound", lo, io.Sf("must not exceed upper bound %g", hi))
	}
	if p.V < lo || p.V > hi {
		return errs.Domain(name+"."+prm, p.V, io.Sf("value outside [%g, %g]", lo, hi))
	}
	p.Min, p.Max = lo, hi
	return nil
}

// Flags holds the fixed state of one reaction
type Flags struct {
	Fixed bool
	Prms  []bool
}

// Snapshot records the fixed state of all reactions
func (o *Network) Snapshot() (res []Flags) {
	res = make([]Flags, len(o.rxns))
	for i, r := range o.rxns {
		res[i].Fixed = r.Fixed
		for _, p := range r.Prms {
			res[i].Prms = append(res[i].Prms, p.Fixed)
		}
	}
	return
}

// Restore sets the fixed state recorded by Snapshot
func (o *Network) Restore(flags []Flags) {
	for i, r := range o.rxns {
		r.Fixed = flags[i].Fixed
		for j, p := range r.Prms {
			p.Fixed = flags[i].Prms[j] || p.Pinned
		}
	}
}

// Info returns a table with the kinetic parameters
func (o *Network) Info() string {
	b := new(bytes.Buffer)
	b.WriteString(io.Sf("%-16s%-24s%-6s%14s%14s%14s%7s\n", "reaction", "kind", "prm", "value", "min", "max", "fixed"))
	for _, r := range o.rxns {
		for _, p := range r.Prms {
			b.WriteString(io.Sf("%-16s%-24s%-6s%14.6e%14.6e%14.6e%7v\n", r.Name, r.Kind, p.N, p.V, p.Min, p.Max, p.Fixed))
		}
		if r.Kind == EquilibriumArrhenius {
			Ar, Er := EquilibriumConsts(r.Prms[0].V, r.Prms[1].V, r.Prms[2].V, r.Prms[3].V)
			b.WriteString(io.Sf("%-16s%-24s%-6s%14.6e\n", r.Name, "(derived)", "Ar", Ar))
			b.WriteString(io.Sf("%-16s%-24s%-6s%14.6e\n", r.Name, "(derived)", "Er", Er))
		}
	}
	return b.String()
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o *Reaction) fix() {
	for _, p := range o.Prms {
		p.Fixed = true
	}
	o.Fixed = true
}

func (o *Reaction) unfix() {
	for _, p := range o.Prms {
		p.Fixed = p.Pinned
	}
	o.Fixed = false
}
