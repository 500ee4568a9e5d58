// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rxn

import (
	"math"
	"sort"

	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/idx"
)

// Info holds the configuration of one reaction. All fields are required; empty maps are fine
type Info struct {
	Parameters map[string]float64 `json:"parameters" yaml:"parameters"` // A, E, [B] or A, E, dH, dS
	Reactants  map[string]float64 `json:"reactants" yaml:"reactants"`   // species => moles
	Products   map[string]float64 `json:"products" yaml:"products"`     // species => moles
	Orders     map[string]float64 `json:"orders" yaml:"orders"`         // species => exponent
}

// Reaction holds the data of one reaction
type Reaction struct {
	Name       string
	Kind       Kind
	Prms       []*Prm                  // Arrhenius: A, B, E. Equilibrium: A, E, dH, dS
	Reactants  []idx.Species           // ordered as the combined species set
	Products   []idx.Species           // ordered as the combined species set
	Orders     map[idx.Species]float64 // only for reactants and products
	UGas       [][]float64             // [ngas][nz] net stoichiometry of gas species
	USurf      [][]float64             // [nsurf][nz] net stoichiometry of surface species
	Fixed      bool                    // kinetic parameters held constant
	Configured bool                    // Configure was called
}

// Network holds all reactions
type Network struct {
	space *idx.Space
	names *idx.Names
	rxns  []*Reaction
}

// NewNetwork declares the reactions. Names are sorted to fix the handles
func NewNetwork(space *idx.Space, kinds map[string]Kind) (o *Network, err error) {
	if space == nil || space.Gas == nil {
		return nil, errs.Prerequisite("DeclareReactions", "gas species")
	}
	keys := make([]string, 0, len(kinds))
	for name, kind := range kinds {
		if !kind.Valid() {
			return nil, errs.InvalidKind(name, kind.String())
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	names, err := idx.NewNames("reactions", keys...)
	if err != nil {
		return
	}
	o = &Network{space: space, names: names}
	nz := space.Nz()
	for _, name := range keys {
		r := &Reaction{Name: name, Kind: kinds[name], Orders: make(map[idx.Species]float64)}
		r.Prms = newPrms(r.Kind)
		r.UGas = alloc(space.Gas.Len(), nz)
		r.USurf = alloc(space.Surf.Len(), nz)
		o.rxns = append(o.rxns, r)
	}
	space.Seal()
	return
}

// Names returns the reaction names table
func (o *Network) Names() *idx.Names { return o.names }

// Len returns the number of reactions
func (o *Network) Len() int { return len(o.rxns) }

// All returns all reactions ordered by handle
func (o *Network) All() []*Reaction { return o.rxns }

// OfKind returns the reactions of a given kind
func (o *Network) OfKind(kind Kind) (res []*Reaction) {
	for _, r := range o.rxns {
		if r.Kind == kind {
			res = append(res, r)
		}
	}
	return
}

// Get returns a reaction by name
func (o *Network) Get(name string) (*Reaction, error) {
	h, err := o.names.Handle(name)
	if err != nil {
		return nil, err
	}
	return o.rxns[h], nil
}

// Unconfigured returns the names of reactions not configured yet
func (o *Network) Unconfigured() (res []string) {
	for _, r := range o.rxns {
		if !r.Configured {
			res = append(res, r.Name)
		}
	}
	return
}

// Configure sets parameters, stoichiometry and orders of a reaction.
// Nothing is changed if an error is returned.
func (o *Network) Configure(name string, info Info) (err error) {

	// check
	r, err := o.Get(name)
	if err != nil {
		return
	}
	switch {
	case info.Parameters == nil:
		return errs.MissingField(name, "parameters")
	case info.Reactants == nil:
		return errs.MissingField(name, "reactants")
	case info.Products == nil:
		return errs.MissingField(name, "products")
	case info.Orders == nil:
		return errs.MissingField(name, "orders")
	}
	for key := range info.Parameters {
		if r.Prm(key) == nil {
			return errs.UnknownName(r.Kind.String()+" parameters", key)
		}
	}
	for _, key := range required[r.Kind] {
		if _, ok := info.Parameters[key]; !ok {
			return errs.MissingField(name, "parameters."+key)
		}
	}
	if a := info.Parameters["A"]; a < 0 || math.IsNaN(a) {
		return errs.Domain(name+".A", a, "pre-exponential factor cannot be negative")
	}
	for _, m := range []map[string]float64{info.Reactants, info.Products, info.Orders} {
		for spec := range m {
			if _, err = o.space.Lookup(spec); err != nil {
				return
			}
		}
	}

	// reactants and products
	var reactants, products []idx.Species
	for _, s := range o.space.AllSpecies() {
		sname := o.space.SpeciesName(s)
		if _, ok := info.Reactants[sname]; ok {
			reactants = append(reactants, s)
		}
		if _, ok := info.Products[sname]; ok {
			products = append(products, s)
		}
	}

	// orders; stray entries are ignored
	orders := make(map[idx.Species]float64)
	for _, s := range append(append([]idx.Species{}, reactants...), products...) {
		if v, ok := info.Orders[o.space.SpeciesName(s)]; ok {
			orders[s] = v
		}
	}

	// commit
	for key, v := range info.Parameters {
		p := r.Prm(key)
		p.V = v
		if p.Pinned {
			p.Fixed = r.Fixed
			p.Pinned = false
		}
	}
	if r.Kind == Arrhenius {
		if _, ok := info.Parameters["B"]; !ok {
			p := r.Prm("B")
			p.V = 0
			p.Fixed = true
			p.Pinned = true
		}
	}
	net := func(set *idx.Names, u [][]float64) {
		for i := 0; i < set.Len(); i++ {
			name := set.Name(idx.Handle(i))
			v := info.Products[name] - info.Reactants[name]
			for k := range u[i] {
				u[i][k] = v
			}
		}
	}
	net(o.space.Gas, r.UGas)
	if o.space.HasSurface() {
		net(o.space.Surf, r.USurf)
	}
	r.Reactants = reactants
	r.Products = products
	r.Orders = orders
	r.Configured = true
	return
}

// SetZone zeroes the stoichiometry of a reaction at the axial points outside [lo, hi],
// or inside it if invert is set. The bounds may be given in any order
func (o *Network) SetZone(name string, lo, hi float64, invert bool, axial []float64) (err error) {
	r, err := o.Get(name)
	if err != nil {
		return
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	for k, z := range axial {
		inside := z >= lo && z <= hi
		if inside != invert {
			continue
		}
		for i := range r.UGas {
			r.UGas[i][k] = 0
		}
		for i := range r.USurf {
			r.USurf[i][k] = 0
		}
	}
	return
}

// Rebroadcast resizes the stoichiometry to nz points, copying the value at the first point
func (o *Network) Rebroadcast(nz int) {
	for _, r := range o.rxns {
		r.UGas = broadcast(r.UGas, nz)
		r.USurf = broadcast(r.USurf, nz)
	}
}

// Rate computes the rate of reaction r at temperature T. conc returns the
// concentration of a species: washcoat C for gas, q for surface, S for sites
func (o *Reaction) Rate(T float64, conc func(s idx.Species) float64) float64 {
	if o.Kind == Arrhenius {
		k := RateConst(o.Prms[0].V, o.Prms[1].V, o.Prms[2].V, T)
		return k * o.product(o.Reactants, conc)
	}
	Af, Ef, dH, dS := o.Prms[0].V, o.Prms[1].V, o.Prms[2].V, o.Prms[3].V
	Ar, Er := EquilibriumConsts(Af, Ef, dH, dS)
	rf := RateConst(Af, 0, Ef, T) * o.product(o.Reactants, conc)
	rr := RateConst(Ar, 0, Er, T) * o.product(o.Products, conc)
	return rf - rr
}

// Species returns the species taking part in the rate expression
func (o *Reaction) Species() (res []idx.Species) {
	res = append(res, o.Reactants...)
	if o.Kind == EquilibriumArrhenius {
		res = append(res, o.Products...)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o *Reaction) product(set []idx.Species, conc func(s idx.Species) float64) (res float64) {
	res = 1
	for _, s := range set {
		if n := o.Orders[s]; n != 0 {
			res *= math.Pow(conc(s), n)
		}
	}
	return
}

func alloc(m, n int) (a [][]float64) {
	a = make([][]float64, m)
	for i := range a {
		a[i] = make([]float64, n)
	}
	return
}

func broadcast(a [][]float64, n int) (res [][]float64) {
	res = alloc(len(a), n)
	for i, row := range a {
		if len(row) == 0 {
			continue
		}
		for k := range res[i] {
			res[i][k] = row[0]
		}
	}
	return
}
