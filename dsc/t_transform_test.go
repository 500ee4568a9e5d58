// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dsc

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/srikanthallu/cats/errs"
)

func Test_transform01(tst *testing.T) {

	chk.PrintTitle("transform01. backward differences")

	cfg := Config{Method: FiniteDifference, Elems: 4, TimeSteps: 20}
	tr, err := cfg.Temporal()
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	pts, sts, err := tr.Apply([]float64{0, 20})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Int(tst, "npts", len(pts), 21)
	chk.Float64(tst, "t10", 1e-14, pts[10], 10)
	if sts[0] != nil {
		tst.Errorf("no relation at the first point")
	}
	chk.Ints(tst, "nodes", sts[3].Nodes, []int{2, 3})
	chk.Array(tst, "weights", 1e-14, sts[3].Weights, []float64{-1, 1})

	// initial points are kept
	sp, _ := cfg.Spatial()
	pts, _, _ = sp.Apply([]float64{0, 1.5, 4})
	chk.Array(tst, "union", 1e-14, pts, []float64{0, 1, 1.5, 2, 3, 4})

	if _, err = (Config{Elems: 0}).Spatial(); !errors.Is(err, errs.ErrDomain) {
		tst.Errorf("zero elements should fail. err = %v", err)
	}
	if _, err = ParseMethod("spectral"); !errors.Is(err, errs.ErrUnknownName) {
		tst.Errorf("unknown method should fail. err = %v", err)
	}
}

func Test_transform02(tst *testing.T) {

	chk.PrintTitle("transform02. Radau points")

	x, err := RadauPoints(1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Array(tst, "s=1", 1e-14, x, []float64{1})
	x, _ = RadauPoints(2)
	chk.Array(tst, "s=2", 1e-13, x, []float64{1.0 / 3.0, 1})
	x, _ = RadauPoints(3)
	s6 := math.Sqrt(6)
	chk.Array(tst, "s=3", 1e-12, x, []float64{(4 - s6) / 10, (4 + s6) / 10, 1})
}

func Test_transform03(tst *testing.T) {

	chk.PrintTitle("transform03. collocation derivatives")

	for _, ncp := range []int{1, 2, 3, 4} {
		tr := &RadauCollocation{Nfe: 3, Ncp: ncp}
		pts, sts, err := tr.Apply([]float64{0, 6})
		if err != nil {
			tst.Errorf("%v", err)
			return
		}
		chk.Int(tst, "npts", len(pts), 3*ncp+1)
		chk.Float64(tst, "last", 1e-14, pts[len(pts)-1], 6)

		// polynomials of degree ncp are differentiated exactly
		f := func(z float64) float64 { return math.Pow(z, float64(ncp)) + 2*z }
		df := func(z float64) float64 { return float64(ncp)*math.Pow(z, float64(ncp-1)) + 2 }
		for i := 1; i < len(pts); i++ {
			d := 0.0
			for l, n := range sts[i].Nodes {
				d += sts[i].Weights[l] * f(pts[n])
			}
			chk.Float64(tst, "df", 1e-8, d, df(pts[i]))
		}
	}

	// one collocation point is a backward difference
	pts, sts, _ := (&RadauCollocation{Nfe: 2, Ncp: 1}).Apply([]float64{0, 4})
	chk.Array(tst, "pts", 1e-14, pts, []float64{0, 2, 4})
	chk.Array(tst, "weights", 1e-14, sts[2].Weights, []float64{-0.5, 0.5})
}
