// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mdl implements the monolith model: state variables, parameters, balance
// equations, discretization, initial/boundary conditions and slice masks
package mdl

import (
	"math"

	"github.com/srikanthallu/cats/dsc"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/idx"
	"github.com/srikanthallu/cats/rxn"
)

// bounds of concentrations
const (
	Floor = 1e-20 // smallest concentration; avoids singular power-law kinetics
	Ceil  = 1e5   // largest concentration
)

// default transport parameters
const (
	DefaultEb = 0.3309   // bulk porosity
	DefaultEw = 0.2      // washcoat porosity
	DefaultV  = 15110.0  // linear velocity
	DefaultKm = 1.12     // mass transfer coefficient
	DefaultGa = 5757.541 // surface to volume ratio
	DefaultT  = 298.0    // placeholder temperature [K]
)

// Model holds the whole monolith model. Build it in this order:
//
//	DefineAxial, DefineTemporal, DefineAge, DefineTemperature, DefineGasSpecies,
//	[DefineSurfaceSpecies, [DefineSites]], DeclareReactions, ConfigureReaction (all),
//	BuildConstraints, Discretize, conditions
type Model struct {

	// index space and reactions
	Space idx.Space    // index sets
	Net   *rxn.Network // nil until reactions are declared

	// transport parameters
	Eb float64 // bulk porosity
	Ew float64 // washcoat porosity
	V  float64 // linear velocity
	Km float64 // mass transfer coefficient
	Ga float64 // surface to volume ratio

	// parameter tables
	CbIn   [][][][]float64 // [gas][age][temp][time] inlet concentration
	T      [][][]float64   // [age][temp][time] temperature [K]
	AgeTab [][]string      // [age][time] age labels
	Smax   [][][][]float64 // [site][age][z][time] site density
	US     [][]float64     // [site][surf] site occupancy

	// variables and constraints
	vars  [nVarKinds]*VarFamily
	cons  [nConKinds]*ConFamily // nil until constraints are built
	nvars int

	// discretization; nil until Discretize
	disc *discretization

	// conditions
	icSet map[condKey]bool
	bcSet map[condKey]bool

	// continuation
	masks []SliceMask
}

// condKey identifies the conditions of a species for one (age, temperature) pair
type condKey struct {
	sp   idx.Species
	a, k int
}

type discretization struct {
	cfg dsc.Config
	zSt []*dsc.Stencil
	tSt []*dsc.Stencil
}

// New returns a model with default transport parameters
func New() *Model {
	return &Model{
		Eb: DefaultEb, Ew: DefaultEw, V: DefaultV, Km: DefaultKm, Ga: DefaultGa,
		icSet: make(map[condKey]bool),
		bcSet: make(map[condKey]bool),
	}
}

// index space /////////////////////////////////////////////////////////////////////////////////////

// DefineAxial defines the axial domain
func (o *Model) DefineAxial(start, end float64, points ...float64) error {
	return o.Space.DefineAxial(start, end, points...)
}

// DefineTemporal defines the time domain
func (o *Model) DefineTemporal(start, end float64, points ...float64) error {
	return o.Space.DefineTemporal(start, end, points...)
}

// DefineAge registers the ages and allocates the age table
func (o *Model) DefineAge(labels ...string) (err error) {
	if err = o.Space.DefineAge(labels...); err != nil {
		return
	}
	o.AgeTab = make([][]string, len(labels))
	for a, label := range labels {
		o.AgeTab[a] = fillStr(o.Space.Nt(), label)
	}
	return
}

// DefineTemperature registers the temperature labels and allocates the temperature table
func (o *Model) DefineTemperature(labels ...string) (err error) {
	if err = o.Space.DefineTemperature(labels...); err != nil {
		return
	}
	o.T = alloc3(o.Space.Ages.Len(), len(labels), o.Space.Nt(), DefaultT)
	return
}

// DefineGasSpecies registers the gas species and allocates their variables
func (o *Model) DefineGasSpecies(names ...string) (err error) {
	if err = o.Space.DefineGasSpecies(names...); err != nil {
		return
	}
	o.CbIn = make([][][][]float64, len(names))
	for g := range names {
		o.CbIn[g] = alloc3(o.Space.Ages.Len(), o.Space.Temps.Len(), o.Space.Nt(), Floor)
	}
	o.allocVars()
	return
}

// DefineSurfaceSpecies registers the surface species and allocates their variables
func (o *Model) DefineSurfaceSpecies(names ...string) (err error) {
	if err = o.Space.DefineSurfaceSpecies(names...); err != nil {
		return
	}
	o.allocVars()
	return
}

// DefineSites registers the sites and allocates their variables and densities
func (o *Model) DefineSites(names ...string) (err error) {
	if err = o.Space.DefineSites(names...); err != nil {
		return
	}
	o.Smax = make([][][][]float64, len(names))
	o.US = make([][]float64, len(names))
	for s := range names {
		o.Smax[s] = alloc3(o.Space.Ages.Len(), o.Space.Nz(), o.Space.Nt(), Floor)
		o.US[s] = make([]float64, o.Space.Surf.Len())
	}
	o.allocVars()
	return
}

// reactions ///////////////////////////////////////////////////////////////////////////////////////

// DeclareReactions declares the reactions and their kinds
func (o *Model) DeclareReactions(kinds map[string]rxn.Kind) (err error) {
	if o.Net != nil {
		return errs.Prerequisite("DeclareReactions", "reactions not yet declared")
	}
	net, err := rxn.NewNetwork(&o.Space, kinds)
	if err != nil {
		return
	}
	o.Net = net
	return
}

// ConfigureReaction sets parameters, stoichiometry and orders of a reaction
func (o *Model) ConfigureReaction(name string, info rxn.Info) error {
	if o.Net == nil {
		return errs.Prerequisite("ConfigureReaction", "declared reactions")
	}
	return o.Net.Configure(name, info)
}

// SetReactionZone restricts a reaction to the axial interval [lo, hi] (outside it if invert)
func (o *Model) SetReactionZone(name string, lo, hi float64, invert bool) error {
	if o.disc == nil {
		return errs.Prerequisite("SetReactionZone", "discretization")
	}
	return o.Net.SetZone(name, lo, hi, invert, o.Space.Axial.Points)
}

// transport ///////////////////////////////////////////////////////////////////////////////////////

// SetBulkPorosity sets eb
func (o *Model) SetBulkPorosity(eb float64) error {
	return setFraction(&o.Eb, "bulk porosity", eb)
}

// SetWashcoatPorosity sets ew
func (o *Model) SetWashcoatPorosity(ew float64) error {
	return setFraction(&o.Ew, "washcoat porosity", ew)
}

// SetLinearVelocity sets v
func (o *Model) SetLinearVelocity(v float64) error {
	return setNonNegative(&o.V, "linear velocity", v)
}

// SetMassTransferCoef sets km
func (o *Model) SetMassTransferCoef(km float64) error {
	return setNonNegative(&o.Km, "mass transfer coefficient", km)
}

// SetSurfaceToVolumeRatio sets Ga
func (o *Model) SetSurfaceToVolumeRatio(ga float64) error {
	return setNonNegative(&o.Ga, "surface to volume ratio", ga)
}

// CheckTransport checks transport parameters without setting them
func CheckTransport(eb, ew, v, km, ga float64) error {
	var dummy float64
	for _, err := range []error{
		setFraction(&dummy, "bulk porosity", eb),
		setFraction(&dummy, "washcoat porosity", ew),
		setNonNegative(&dummy, "linear velocity", v),
		setNonNegative(&dummy, "mass transfer coefficient", km),
		setNonNegative(&dummy, "surface to volume ratio", ga),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// access //////////////////////////////////////////////////////////////////////////////////////////

// Var returns a family of variables; nil if absent
func (o *Model) Var(kind VarKind) *VarFamily { return o.vars[kind] }

// Con returns a family of constraints; nil if absent
func (o *Model) Con(kind ConKind) *ConFamily { return o.cons[kind] }

// Axial returns the axial grid
func (o *Model) Axial() *idx.Grid { return o.Space.Axial }

// Time returns the time grid
func (o *Model) Time() *idx.Grid { return o.Space.Time }

// Built tells whether the balance equations exist
func (o *Model) Built() bool { return o.cons[ConBulk] != nil }

// Discretized tells whether Discretize was called
func (o *Model) Discretized() bool { return o.disc != nil }

// NumVars returns the total number of variable instances
func (o *Model) NumVars() int { return o.nvars }

// Handles returns the age and temperature handles
func (o *Model) Handles(age, temp string) (a, k int, err error) {
	ha, err := o.Space.Ages.Handle(age)
	if err != nil {
		return
	}
	hk, err := o.Space.Temps.Handle(temp)
	return int(ha), int(hk), err
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// allocVars (re)allocates all variable families on the current grids
func (o *Model) allocVars() {
	na, nk, nz, nt := o.Space.Ages.Len(), o.Space.Temps.Len(), o.Space.Nz(), o.Space.Nt()
	gas := Shape{o.Space.Gas.Len(), na, nk, nz, nt}
	o.vars = [nVarKinds]*VarFamily{}
	o.vars[VarCb] = newVarFamily(VarCb, gas, true)
	o.vars[VarC] = newVarFamily(VarC, gas, true)
	o.vars[VarDCbDt] = newVarFamily(VarDCbDt, gas, false)
	o.vars[VarDCDt] = newVarFamily(VarDCDt, gas, false)
	o.vars[VarDCbDz] = newVarFamily(VarDCbDz, gas, false)
	if o.Space.HasSurface() {
		surf := Shape{o.Space.Surf.Len(), na, nk, nz, nt}
		o.vars[VarQ] = newVarFamily(VarQ, surf, true)
		o.vars[VarDQDt] = newVarFamily(VarDQDt, surf, false)
	}
	if o.Space.HasSites() {
		o.vars[VarS] = newVarFamily(VarS, Shape{o.Space.Sites.Len(), na, nk, nz, nt}, true)
	}
	o.nvars = 0
	for _, f := range o.vars {
		if f != nil {
			f.Offset = o.nvars
			o.nvars += f.Shape.Len()
		}
	}
}

// lookup returns the family and local index of a global variable id
func (o *Model) lookup(g int) (*VarFamily, int) {
	for _, f := range o.vars {
		if f != nil && g >= f.Offset && g < f.Offset+f.Shape.Len() {
			return f, g - f.Offset
		}
	}
	return nil, -1
}

// gid returns the global id of a variable instance
func (o *Model) gid(kind VarKind, s, a, k, z, t int) int {
	f := o.vars[kind]
	return f.Offset + f.Shape.Index(s, a, k, z, t)
}

func setFraction(dest *float64, quantity string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return errs.Domain(quantity, v, "must be in [0, 1]")
	}
	*dest = v
	return nil
}

func setNonNegative(dest *float64, quantity string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return errs.Domain(quantity, v, "must be finite and non-negative")
	}
	*dest = v
	return nil
}

// concentration checks a concentration and clamps it to the floor
func concentration(quantity string, v float64) (float64, error) {
	if math.IsNaN(v) || v < 0 {
		return 0, errs.Domain(quantity, v, "concentrations cannot be negative")
	}
	if v > Ceil {
		return 0, errs.Domain(quantity, v, "concentration above upper bound")
	}
	if v < Floor {
		v = Floor
	}
	return v, nil
}

func fill(n int, v float64) (res []float64) {
	res = make([]float64, n)
	for i := range res {
		res[i] = v
	}
	return
}

func fillStr(n int, v string) (res []string) {
	res = make([]string, n)
	for i := range res {
		res[i] = v
	}
	return
}

func alloc3(m, n, p int, v float64) (res [][][]float64) {
	res = make([][][]float64, m)
	for i := range res {
		res[i] = make([][]float64, n)
		for j := range res[i] {
			res[i][j] = fill(p, v)
		}
	}
	return
}
