// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package idx implements the index space of a monolith model: grids, labels and species sets
package idx

import (
	"github.com/srikanthallu/cats/errs"
)

// Phase tells where a species lives
type Phase int

// phases
const (
	Gas Phase = iota
	Surface
	Site
)

func (o Phase) String() string {
	switch o {
	case Gas:
		return "gas"
	case Surface:
		return "surface"
	case Site:
		return "site"
	}
	return "unknown"
}

// Species identifies a member of the combined species set
type Species struct {
	Phase Phase
	H     Handle
}

// Space holds the index sets. A nil field means "not defined yet"
type Space struct {
	Axial *Grid  // positions
	Time  *Grid  // times
	Ages  *Names // catalyst ages
	Temps *Names // isothermal temperature labels
	Gas   *Names // gas species
	Surf  *Names // surface species
	Sites *Names // sites

	sealed bool // species sets are closed after reactions are declared
}

// DefineAxial defines the axial dimension
func (o *Space) DefineAxial(start, end float64, points ...float64) (err error) {
	if o.Ages != nil {
		return errs.Prerequisite("DefineAxial", "axial domain before the age set")
	}
	if o.Axial != nil {
		return errs.Prerequisite("DefineAxial", "an undefined axial domain")
	}
	g, err := NewGrid("axial", start, end, points...)
	if err != nil {
		return
	}
	o.Axial = g
	return
}

// DefineTemporal defines the time dimension
func (o *Space) DefineTemporal(start, end float64, points ...float64) (err error) {
	if o.Ages != nil {
		return errs.Prerequisite("DefineTemporal", "time domain before the age set")
	}
	if o.Time != nil {
		return errs.Prerequisite("DefineTemporal", "an undefined time domain")
	}
	g, err := NewGrid("time", start, end, points...)
	if err != nil {
		return
	}
	o.Time = g
	return
}

// DefineAge registers the ages
func (o *Space) DefineAge(labels ...string) (err error) {
	if o.Axial == nil || o.Time == nil {
		return errs.Prerequisite("DefineAge", "axial and time domains")
	}
	if o.Ages != nil {
		return errs.Prerequisite("DefineAge", "an undefined age set")
	}
	ages, err := NewNames("age set", labels...)
	if err != nil {
		return
	}
	o.Ages = ages
	return
}

// DefineTemperature registers the temperature labels
func (o *Space) DefineTemperature(labels ...string) (err error) {
	if o.Ages == nil {
		return errs.Prerequisite("DefineTemperature", "age set")
	}
	if o.Temps != nil {
		return errs.Prerequisite("DefineTemperature", "an undefined temperature set")
	}
	temps, err := NewNames("temperature set", labels...)
	if err != nil {
		return
	}
	o.Temps = temps
	return
}

// DefineGasSpecies registers the gas species
func (o *Space) DefineGasSpecies(names ...string) (err error) {
	if o.Temps == nil {
		return errs.Prerequisite("DefineGasSpecies", "temperature set")
	}
	if o.Gas != nil {
		return errs.Prerequisite("DefineGasSpecies", "an undefined gas species set")
	}
	gas, err := NewNames("gas species", names...)
	if err != nil {
		return
	}
	o.Gas = gas
	return
}

// DefineSurfaceSpecies registers the surface species
func (o *Space) DefineSurfaceSpecies(names ...string) (err error) {
	if o.Gas == nil {
		return errs.Prerequisite("DefineSurfaceSpecies", "gas species")
	}
	if o.Surf != nil || o.sealed {
		return errs.Prerequisite("DefineSurfaceSpecies", "an open, undefined surface species set")
	}
	surf, err := NewNames("surface species", names...)
	if err != nil {
		return
	}
	if err = o.disjoint(surf); err != nil {
		return
	}
	o.Surf = surf
	return
}

// DefineSites registers the surface sites
func (o *Space) DefineSites(names ...string) (err error) {
	if o.Surf == nil {
		return errs.Prerequisite("DefineSites", "surface species")
	}
	if o.Sites != nil || o.sealed {
		return errs.Prerequisite("DefineSites", "an open, undefined site set")
	}
	sites, err := NewNames("sites", names...)
	if err != nil {
		return
	}
	if err = o.disjoint(sites); err != nil {
		return
	}
	o.Sites = sites
	return
}

// Seal closes the species sets; called when reactions are declared
func (o *Space) Seal() { o.sealed = true }

// Sealed tells whether the species sets are closed
func (o *Space) Sealed() bool { return o.sealed }

// HasSurface tells whether surface species are defined
func (o *Space) HasSurface() bool { return o.Surf != nil }

// HasSites tells whether sites are defined
func (o *Space) HasSites() bool { return o.Sites != nil }

// Lookup finds a species in the combined set
func (o *Space) Lookup(name string) (Species, error) {
	for _, p := range []Phase{Gas, Surface, Site} {
		set := o.phase(p)
		if set.Has(name) {
			h, _ := set.Handle(name)
			return Species{p, h}, nil
		}
	}
	return Species{}, errs.UnknownName("species set", name)
}

// SpeciesName returns the name of a species
func (o *Space) SpeciesName(s Species) string {
	return o.phase(s.Phase).Name(s.H)
}

// AllSpecies returns the combined species set ordered as gas, surface, sites
func (o *Space) AllSpecies() (res []Species) {
	for _, p := range []Phase{Gas, Surface, Site} {
		for i := 0; i < o.phase(p).Len(); i++ {
			res = append(res, Species{p, Handle(i)})
		}
	}
	return
}

// Nz returns the number of axial points
func (o *Space) Nz() int { return o.Axial.Len() }

// Nt returns the number of time points
func (o *Space) Nt() int { return o.Time.Len() }

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o *Space) phase(p Phase) *Names {
	switch p {
	case Gas:
		return o.Gas
	case Surface:
		return o.Surf
	}
	return o.Sites
}

func (o *Space) disjoint(n *Names) error {
	for _, name := range n.List() {
		if _, err := o.Lookup(name); err == nil {
			return errs.Domain(n.Set()+" name "+name, 0, "name already used by another species set")
		}
	}
	return nil
}
