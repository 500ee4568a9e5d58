// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/srikanthallu/cats/dsc"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/idx"
)

// BuildConstraints creates the balance equations. All reactions must be configured
func (o *Model) BuildConstraints() error {
	if o.Net == nil {
		return errs.Prerequisite("BuildConstraints", "declared reactions")
	}
	if names := o.Net.Unconfigured(); len(names) > 0 {
		return errs.Prerequisite("BuildConstraints", "configuration of reaction "+names[0])
	}
	if o.Built() {
		return errs.Prerequisite("BuildConstraints", "constraints not yet built")
	}
	o.allocCons()
	return nil
}

// allocCons (re)allocates all constraint families on the current grids
func (o *Model) allocCons() {
	everywhere := func(z, t int) bool { return true }
	stencil := func(st []*dsc.Stencil, i int) bool { return st != nil && st[i] != nil }
	var zSt, tSt []*dsc.Stencil
	if o.disc != nil {
		zSt, tSt = o.disc.zSt, o.disc.tSt
	}
	alongZ := func(z, t int) bool { return stencil(zSt, z) }
	alongT := func(z, t int) bool { return stencil(tSt, t) }
	gas := o.vars[VarCb].Shape
	o.cons = [nConKinds]*ConFamily{}
	o.cons[ConBulk] = newConFamily(ConBulk, gas, everywhere)
	o.cons[ConPore] = newConFamily(ConPore, gas, everywhere)
	o.cons[ConDCbDz] = newConFamily(ConDCbDz, gas, alongZ)
	o.cons[ConDCbDt] = newConFamily(ConDCbDt, gas, alongT)
	o.cons[ConDCDt] = newConFamily(ConDCDt, gas, alongT)
	if f := o.vars[VarQ]; f != nil {
		o.cons[ConSurf] = newConFamily(ConSurf, f.Shape, everywhere)
		o.cons[ConDQDt] = newConFamily(ConDQDt, f.Shape, alongT)
	}
	if f := o.vars[VarS]; f != nil {
		o.cons[ConSite] = newConFamily(ConSite, f.Shape, everywhere)
	}
}

// Residual evaluates constraint instance i of a family; get returns the value of a variable by global id
func (o *Model) Residual(kind ConKind, i int, get func(g int) float64) float64 {
	s, a, k, z, t := o.cons[kind].Shape.Tuple(i)
	v := func(vk VarKind) float64 { return get(o.gid(vk, s, a, k, z, t)) }
	switch kind {

	case ConBulk:
		// eb⋅dCb/dt + eb⋅v⋅dCb/dz + Ga⋅km⋅(Cb - C) = 0
		return o.Eb*v(VarDCbDt) + o.Eb*o.V*v(VarDCbDz) + o.Ga*o.Km*(v(VarCb)-v(VarC))

	case ConPore:
		// ew⋅(1-eb)⋅dC/dt - Ga⋅km⋅(Cb - C) - (1-eb)⋅Σ u_C⋅r = 0
		sum := 0.0
		for _, r := range o.Net.All() {
			if u := r.UGas[s][z]; u != 0 {
				sum += u * r.Rate(o.T[a][k][t], o.conc(get, a, k, z, t))
			}
		}
		return o.Ew*(1-o.Eb)*v(VarDCDt) - o.Ga*o.Km*(v(VarCb)-v(VarC)) - (1-o.Eb)*sum

	case ConSurf:
		// dq/dt - Σ u_q⋅r = 0
		sum := 0.0
		for _, r := range o.Net.All() {
			if u := r.USurf[s][z]; u != 0 {
				sum += u * r.Rate(o.T[a][k][t], o.conc(get, a, k, z, t))
			}
		}
		return v(VarDQDt) - sum

	case ConSite:
		// Smax - S - Σ u_S⋅q = 0
		sum := 0.0
		for q, u := range o.US[s] {
			if u != 0 {
				sum += u * get(o.gid(VarQ, q, a, k, z, t))
			}
		}
		return o.Smax[s][a][z][t] - v(VarS) - sum

	case ConDCbDz:
		return v(VarDCbDz) - o.weighted(o.disc.zSt[z], func(n int) float64 { return get(o.gid(VarCb, s, a, k, n, t)) })
	case ConDCbDt:
		return v(VarDCbDt) - o.weighted(o.disc.tSt[t], func(n int) float64 { return get(o.gid(VarCb, s, a, k, z, n)) })
	case ConDCDt:
		return v(VarDCDt) - o.weighted(o.disc.tSt[t], func(n int) float64 { return get(o.gid(VarC, s, a, k, z, n)) })
	case ConDQDt:
		return v(VarDQDt) - o.weighted(o.disc.tSt[t], func(n int) float64 { return get(o.gid(VarQ, s, a, k, z, n)) })
	}
	return 0
}

// Deps returns the global ids of the variables that constraint instance i depends on
func (o *Model) Deps(kind ConKind, i int) (deps []int) {
	s, a, k, z, t := o.cons[kind].Shape.Tuple(i)
	id := func(vk VarKind) int { return o.gid(vk, s, a, k, z, t) }
	switch kind {
	case ConBulk:
		deps = []int{id(VarCb), id(VarC), id(VarDCbDt), id(VarDCbDz)}
	case ConPore:
		deps = []int{id(VarCb), id(VarC), id(VarDCDt)}
		for _, r := range o.Net.All() {
			if r.UGas[s][z] != 0 {
				deps = o.rateDeps(deps, r.Species(), a, k, z, t)
			}
		}
	case ConSurf:
		deps = []int{id(VarDQDt)}
		for _, r := range o.Net.All() {
			if r.USurf[s][z] != 0 {
				deps = o.rateDeps(deps, r.Species(), a, k, z, t)
			}
		}
	case ConSite:
		deps = []int{id(VarS)}
		for q, u := range o.US[s] {
			if u != 0 {
				deps = append(deps, o.gid(VarQ, q, a, k, z, t))
			}
		}
	case ConDCbDz:
		deps = []int{id(VarDCbDz)}
		for _, n := range o.disc.zSt[z].Nodes {
			deps = append(deps, o.gid(VarCb, s, a, k, n, t))
		}
	case ConDCbDt, ConDCDt, ConDQDt:
		dv, sv := VarDCbDt, VarCb
		if kind == ConDCDt {
			dv, sv = VarDCDt, VarC
		} else if kind == ConDQDt {
			dv, sv = VarDQDt, VarQ
		}
		deps = []int{id(dv)}
		for _, n := range o.disc.tSt[t].Nodes {
			deps = append(deps, o.gid(sv, s, a, k, z, n))
		}
	}
	return unique(deps)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// concVar is the variable holding the concentration seen by the kinetics
var concVar = map[idx.Phase]VarKind{idx.Gas: VarC, idx.Surface: VarQ, idx.Site: VarS}

func (o *Model) conc(get func(g int) float64, a, k, z, t int) func(sp idx.Species) float64 {
	return func(sp idx.Species) float64 {
		return get(o.gid(concVar[sp.Phase], int(sp.H), a, k, z, t))
	}
}

func (o *Model) rateDeps(deps []int, species []idx.Species, a, k, z, t int) []int {
	for _, sp := range species {
		deps = append(deps, o.gid(concVar[sp.Phase], int(sp.H), a, k, z, t))
	}
	return deps
}

func (o *Model) weighted(st *dsc.Stencil, val func(n int) float64) (res float64) {
	for l, n := range st.Nodes {
		res += st.Weights[l] * val(n)
	}
	return
}

func unique(ids []int) (res []int) {
	for _, id := range ids {
		dup := false
		for _, r := range res {
			if r == id {
				dup = true
				break
			}
		}
		if !dup {
			res = append(res, id)
		}
	}
	return
}
