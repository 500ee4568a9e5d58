// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"

	"github.com/srikanthallu/cats/errs"
)

// Shape describes the species × age × temperature × location × time layout of a family
type Shape struct {
	Ns, Na, Nk, Nz, Nt int
}

// Len returns the number of instances
func (o Shape) Len() int { return o.Ns * o.Na * o.Nk * o.Nz * o.Nt }

// Index returns the flat index of a tuple
func (o Shape) Index(s, a, k, z, t int) int {
	return (((s*o.Na+a)*o.Nk+k)*o.Nz+z)*o.Nt + t
}

// Tuple returns the tuple of a flat index
func (o Shape) Tuple(i int) (s, a, k, z, t int) {
	t = i % o.Nt
	i /= o.Nt
	z = i % o.Nz
	i /= o.Nz
	k = i % o.Nk
	i /= o.Nk
	a = i % o.Na
	s = i / o.Na
	return
}

// VarKind identifies a family of state variables
type VarKind int

// variable families
const (
	VarCb    VarKind = iota // bulk concentration
	VarC                    // washcoat concentration
	VarDCbDt                // time derivative of Cb
	VarDCDt                 // time derivative of C
	VarDCbDz                // axial derivative of Cb
	VarQ                    // surface concentration
	VarDQDt                 // time derivative of q
	VarS                    // open site concentration
	nVarKinds
)

var varNames = [nVarKinds]string{"Cb", "C", "dCb_dt", "dC_dt", "dCb_dz", "q", "dq_dt", "S"}

func (o VarKind) String() string { return varNames[o] }

// VarKinds returns all families of variables
func VarKinds() (res []VarKind) {
	for k := VarKind(0); k < nVarKinds; k++ {
		res = append(res, k)
	}
	return
}

// ParseVarKind returns the family of variables with a given name
func ParseVarKind(name string) (VarKind, error) {
	for k, n := range varNames {
		if n == name {
			return VarKind(k), nil
		}
	}
	return 0, errs.UnknownName("variable families", name)
}

// VarFamily holds all instances of one family of variables
type VarFamily struct {
	Kind   VarKind
	Shape  Shape
	Offset int       // global id of the first instance
	Val    []float64 // values
	Lo, Hi []float64 // bounds
	Fixed  []bool    // persistent fixings: initial, boundary and pinned values
}

func newVarFamily(kind VarKind, shape Shape, bounded bool) (o *VarFamily) {
	n := shape.Len()
	o = &VarFamily{Kind: kind, Shape: shape, Val: make([]float64, n), Lo: make([]float64, n), Hi: make([]float64, n), Fixed: make([]bool, n)}
	for i := 0; i < n; i++ {
		if bounded {
			o.Val[i], o.Lo[i], o.Hi[i] = Floor, Floor, Ceil
		} else {
			o.Lo[i], o.Hi[i] = math.Inf(-1), math.Inf(1)
		}
	}
	return
}

// Get returns the value at a tuple
func (o *VarFamily) Get(s, a, k, z, t int) float64 { return o.Val[o.Shape.Index(s, a, k, z, t)] }

// IsFixed tells whether the instance at a tuple is persistently fixed
func (o *VarFamily) IsFixed(s, a, k, z, t int) bool { return o.Fixed[o.Shape.Index(s, a, k, z, t)] }

// fix sets and fixes the value at a tuple
func (o *VarFamily) fix(s, a, k, z, t int, v float64) {
	i := o.Shape.Index(s, a, k, z, t)
	o.Val[i] = v
	o.Fixed[i] = true
}

// ConKind identifies a family of constraints
type ConKind int

// constraint families
const (
	ConBulk  ConKind = iota // bulk transport
	ConPore                 // washcoat balance
	ConSurf                 // surface balance
	ConSite                 // site balance
	ConDCbDz                // axial derivative relation of Cb
	ConDCbDt                // time derivative relation of Cb
	ConDCDt                 // time derivative relation of C
	ConDQDt                 // time derivative relation of q
	nConKinds
)

var conNames = [nConKinds]string{"bulk_cons", "pore_cons", "surf_cons", "site_cons", "dCb_dz_disc_eq", "dCb_dt_disc_eq", "dC_dt_disc_eq", "dq_dt_disc_eq"}

func (o ConKind) String() string { return conNames[o] }

// ConFamily holds all instances of one family of constraints
type ConFamily struct {
	Kind   ConKind
	Shape  Shape
	Exists []bool // structurally present
	Active []bool // declared active
}

func newConFamily(kind ConKind, shape Shape, exists func(z, t int) bool) (o *ConFamily) {
	n := shape.Len()
	o = &ConFamily{Kind: kind, Shape: shape, Exists: make([]bool, n), Active: make([]bool, n)}
	for i := 0; i < n; i++ {
		_, _, _, z, t := shape.Tuple(i)
		o.Exists[i] = exists(z, t)
		o.Active[i] = true
	}
	return
}
