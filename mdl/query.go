// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"bytes"

	"github.com/cpmech/gosl/io"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/idx"
)

// Series holds results over time; gas species have a bulk and a washcoat column
type Series struct {
	Labels  []string    // column labels
	Time    []float64   // [nt]
	Columns [][]float64 // [ncol][nt]
}

// AtLocation returns the results of some species at one axial point
func (o *Model) AtLocation(species []string, age, temp string, loc float64) (res *Series, err error) {
	if o.disc == nil {
		return nil, errs.Prerequisite("AtLocation", "discretization")
	}
	z, err := o.Space.Axial.Find(loc)
	if err != nil {
		return
	}
	return o.series(species, age, temp, func(f *VarFamily, s, a, k, t int) float64 {
		return f.Get(s, a, k, z, t)
	})
}

// Breakthrough returns the results at the last axial point
func (o *Model) Breakthrough(species []string, age, temp string) (*Series, error) {
	if o.disc == nil {
		return nil, errs.Prerequisite("Breakthrough", "discretization")
	}
	return o.AtLocation(species, age, temp, o.Space.Axial.Last())
}

// IntegralAverage returns the trapezoidal average over the axial domain
func (o *Model) IntegralAverage(species []string, age, temp string) (res *Series, err error) {
	if o.disc == nil {
		return nil, errs.Prerequisite("IntegralAverage", "discretization")
	}
	zs := o.Space.Axial.Points
	span := zs[len(zs)-1] - zs[0]
	return o.series(species, age, temp, func(f *VarFamily, s, a, k, t int) float64 {
		total := 0.0
		for z := 1; z < len(zs); z++ {
			total += (zs[z] - zs[z-1]) * 0.5 * (f.Get(s, a, k, z, t) + f.Get(s, a, k, z-1, t))
		}
		return total / span
	})
}

// String returns a tab separated table
func (o *Series) String() string {
	b := new(bytes.Buffer)
	b.WriteString("Time")
	for _, l := range o.Labels {
		b.WriteString("\t" + l)
	}
	b.WriteString("\n")
	for i, t := range o.Time {
		b.WriteString(io.Sf("%g", t))
		for _, c := range o.Columns {
			b.WriteString(io.Sf("\t%g", c[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o *Model) series(species []string, age, temp string, value func(f *VarFamily, s, a, k, t int) float64) (res *Series, err error) {
	a, k, err := o.Handles(age, temp)
	if err != nil {
		return
	}
	res = &Series{Time: append([]float64{}, o.Space.Time.Points...)}
	add := func(label string, f *VarFamily, s int) {
		col := make([]float64, len(res.Time))
		for t := range col {
			col[t] = value(f, s, a, k, t)
		}
		res.Labels = append(res.Labels, label)
		res.Columns = append(res.Columns, col)
	}
	for _, name := range species {
		sp, e := o.Space.Lookup(name)
		if e != nil {
			return nil, e
		}
		s := int(sp.H)
		switch sp.Phase {
		case idx.Gas:
			add(name+"_b", o.vars[VarCb], s)
			add(name+"_w", o.vars[VarC], s)
		case idx.Surface:
			add(name, o.vars[VarQ], s)
		case idx.Site:
			add(name, o.vars[VarS], s)
		}
	}
	return
}
