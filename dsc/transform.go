// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dsc implements discretization transforms that replace derivatives by algebraic relations
package dsc

import (
	"strings"

	"github.com/cpmech/gosl/utl"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/idx"
)

// Stencil gives the derivative at one grid point as a weighted sum of values at Nodes
type Stencil struct {
	Nodes   []int
	Weights []float64
}

// Transform discretizes one continuous dimension.
// stencils[i] is nil at the first point, where no derivative relation exists
type Transform interface {
	Apply(initial []float64) (points []float64, stencils []*Stencil, err error)
}

// Method selects the spatial scheme
type Method int

// methods
const (
	FiniteDifference Method = iota
	OrthogonalCollocation
)

func (o Method) String() string {
	if o == OrthogonalCollocation {
		return "oc"
	}
	return "fd"
}

// ParseMethod converts a name into a Method
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "", "fd", "finitedifference", "finite-difference":
		return FiniteDifference, nil
	case "oc", "orthogonalcollocation", "orthogonal-collocation", "collocation":
		return OrthogonalCollocation, nil
	}
	return 0, errs.UnknownName("discretization methods", name)
}

// Config holds the grid resolution
type Config struct {
	Method    Method // spatial scheme
	Elems     int    // number of axial elements
	TimeSteps int    // number of time elements
	ColPoints int    // collocation points per element (OrthogonalCollocation only)
}

// Temporal returns the time transform; always backward differences
func (o Config) Temporal() (Transform, error) {
	if o.TimeSteps < 1 {
		return nil, errs.Domain("time steps", float64(o.TimeSteps), "must be at least 1")
	}
	return &BackwardDifference{Nfe: o.TimeSteps}, nil
}

// Spatial returns the axial transform
func (o Config) Spatial() (Transform, error) {
	if o.Elems < 1 {
		return nil, errs.Domain("elements", float64(o.Elems), "must be at least 1")
	}
	if o.Method == OrthogonalCollocation {
		if o.ColPoints < 1 {
			return nil, errs.Domain("collocation points", float64(o.ColPoints), "must be at least 1")
		}
		return &RadauCollocation{Nfe: o.Elems, Ncp: o.ColPoints}, nil
	}
	return &BackwardDifference{Nfe: o.Elems}, nil
}

// Refine returns the union of the initial points and a uniform partition into nfe elements
func Refine(initial []float64, nfe int) []float64 {
	first, last := initial[0], initial[len(initial)-1]
	pts := append(utl.LinSpace(first, last, nfe+1), initial...)
	return idx.Unique(pts, last-first)
}

// BackwardDifference implements first order backward differences
type BackwardDifference struct {
	Nfe int // number of elements
}

// Apply implements Transform
func (o *BackwardDifference) Apply(initial []float64) (points []float64, stencils []*Stencil, err error) {
	if len(initial) < 2 {
		return nil, nil, errs.Domain("initial points", float64(len(initial)), "need at least 2")
	}
	points = Refine(initial, o.Nfe)
	stencils = make([]*Stencil, len(points))
	for i := 1; i < len(points); i++ {
		h := points[i] - points[i-1]
		stencils[i] = &Stencil{Nodes: []int{i - 1, i}, Weights: []float64{-1 / h, 1 / h}}
	}
	return
}
