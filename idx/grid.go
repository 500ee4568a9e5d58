// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idx

import (
	"math"
	"sort"

	"github.com/srikanthallu/cats/errs"
)

// Grid holds an ordered set of points along a continuous dimension
type Grid struct {
	Name   string    // e.g. "axial", "time"
	Points []float64 // sorted unique points
}

// NewGrid returns a grid on [start, end]. With no extra points the grid is {start, end}.
// Extra points outside [start, end] are rejected.
func NewGrid(name string, start, end float64, points ...float64) (o *Grid, err error) {
	if math.IsNaN(start) || math.IsNaN(end) || !(end > start) {
		return nil, errs.Domain(name+" end", end, "end must be greater than start")
	}
	pts := []float64{start, end}
	for _, p := range points {
		if math.IsNaN(p) || p < start || p > end {
			return nil, errs.Domain(name+" point", p, "points must lie within [start, end]")
		}
		pts = append(pts, p)
	}
	return &Grid{Name: name, Points: Unique(pts, end-start)}, nil
}

// Len returns the number of points
func (o *Grid) Len() int { return len(o.Points) }

// First returns the first point
func (o *Grid) First() float64 { return o.Points[0] }

// Last returns the last point
func (o *Grid) Last() float64 { return o.Points[len(o.Points)-1] }

// At returns point i
func (o *Grid) At(i int) float64 { return o.Points[i] }

// Find returns the index of the grid point matching x
func (o *Grid) Find(x float64) (int, error) {
	tol := Tol * (o.Last() - o.First())
	i := sort.SearchFloat64s(o.Points, x-tol)
	if i < len(o.Points) && math.Abs(o.Points[i]-x) <= tol {
		return i, nil
	}
	return 0, errs.Domain(o.Name+" point", x, "not a grid point")
}

// Tol is the relative tolerance used to merge grid points
const Tol = 1e-12

// Unique sorts x and merges points closer than Tol*span
func Unique(x []float64, span float64) (res []float64) {
	s := append([]float64{}, x...)
	sort.Float64s(s)
	tol := Tol * math.Abs(span)
	for _, v := range s {
		if len(res) > 0 && v-res[len(res)-1] <= tol {
			continue
		}
		res = append(res, v)
	}
	return
}
