// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tests implements functions to check whole simulations
package tests

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/srikanthallu/cats/mdl"
)

// CheckResiduals checks that all active constraints at times with index ≥ tmin hold within tol
func CheckResiduals(tst *testing.T, m *mdl.Model, tol float64, tmin int, verbose bool) {
	sys := m.Assemble()
	x := make([]float64, len(sys.Unk))
	sys.Init(x)
	var nchk, nbad int
	largest := 0.0
	for i, e := range sys.Eqs {
		_, _, _, _, t := m.Con(e.Kind).Shape.Tuple(e.I)
		if t < tmin {
			continue
		}
		nchk++
		r := math.Abs(sys.Residual(i, x))
		largest = math.Max(largest, r)
		if r > tol || math.IsNaN(r) {
			if nbad < 10 {
				tst.Errorf("residual of %v = %g is greater than %g", e, r, tol)
			}
			nbad++
		}
	}
	if verbose {
		io.Pforan("checked %d residuals; largest = %g\n", nchk, largest)
	}
	if nchk == 0 {
		tst.Errorf("no residual was checked")
	}
}

// CheckBounds checks that all bounded variables lie within their bounds
func CheckBounds(tst *testing.T, m *mdl.Model) {
	for _, kind := range mdl.VarKinds() {
		f := m.Var(kind)
		if f == nil {
			continue
		}
		for i, v := range f.Val {
			if v < f.Lo[i] || v > f.Hi[i] || math.IsNaN(v) {
				s, a, k, z, t := f.Shape.Tuple(i)
				tst.Errorf("%v(%d,%d,%d,%d,%d) = %g is outside [%g, %g]", kind, s, a, k, z, t, v, f.Lo[i], f.Hi[i])
				return
			}
		}
	}
}

// CompareSeries compares two series of results
func CompareSeries(tst *testing.T, msg string, tol float64, a, b *mdl.Series) {
	chk.Strings(tst, msg+": labels", a.Labels, b.Labels)
	chk.Array(tst, msg+": time", 1e-15, a.Time, b.Time)
	for i, l := range a.Labels {
		chk.Array(tst, msg+": "+l, tol, a.Columns[i], b.Columns[i])
	}
}
