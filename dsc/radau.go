// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dsc

import (
	"math"
	"sort"

	"github.com/srikanthallu/cats/errs"
	"gonum.org/v1/gonum/mat"
)

// RadauCollocation implements orthogonal collocation on finite elements with Lagrange
// polynomials on Radau points. Ncp = 1 reduces to backward differences
type RadauCollocation struct {
	Nfe int // number of elements
	Ncp int // number of collocation points per element
}

// Apply implements Transform
func (o *RadauCollocation) Apply(initial []float64) (points []float64, stencils []*Stencil, err error) {
	if len(initial) < 2 {
		return nil, nil, errs.Domain("initial points", float64(len(initial)), "need at least 2")
	}
	c, err := RadauPoints(o.Ncp)
	if err != nil {
		return
	}
	tau := append([]float64{0}, c...)
	D := LagrangeDeriv(tau)
	bry := Refine(initial, o.Nfe)
	points = []float64{bry[0]}
	stencils = []*Stencil{nil}
	for e := 1; e < len(bry); e++ {
		a, b := bry[e-1], bry[e]
		start := len(points) - 1
		for j := 1; j <= o.Ncp; j++ {
			x := a + c[j-1]*(b-a)
			if j == o.Ncp {
				x = b
			}
			st := &Stencil{Nodes: make([]int, o.Ncp+1), Weights: make([]float64, o.Ncp+1)}
			for l := 0; l <= o.Ncp; l++ {
				st.Nodes[l] = start + l
				st.Weights[l] = D[j][l] / (b - a)
			}
			points = append(points, x)
			stencils = append(stencils, st)
		}
	}
	return
}

// RadauPoints returns the s Radau points on (0, 1]: the roots of P_s(2x-1) - P_{s-1}(2x-1)
func RadauPoints(s int) (x []float64, err error) {
	if s < 1 {
		return nil, errs.Domain("collocation points", float64(s), "must be at least 1")
	}

	// coefficients of q(y) = P_s(y) - P_{s-1}(y), ascending powers
	p0, p1 := []float64{1}, []float64{0, 1}
	for n := 1; n < s; n++ {
		p2 := make([]float64, n+2)
		for i, v := range p1 {
			p2[i+1] += float64(2*n+1) * v / float64(n+1)
		}
		for i, v := range p0 {
			p2[i] -= float64(n) * v / float64(n+1)
		}
		p0, p1 = p1, p2
	}
	q := make([]float64, s+1)
	copy(q, p1)
	for i, v := range p0 {
		q[i] -= v
	}

	// roots from the companion matrix of the monic polynomial
	C := mat.NewDense(s, s, nil)
	for i := 0; i < s; i++ {
		if i > 0 {
			C.Set(i, i-1, 1)
		}
		C.Set(i, s-1, -q[i]/q[s])
	}
	var eig mat.Eigen
	if ok := eig.Factorize(C, mat.EigenNone); !ok {
		return nil, errs.Domain("collocation points", float64(s), "cannot compute Radau points")
	}
	for _, v := range eig.Values(nil) {
		y := polish(q, real(v))
		x = append(x, (y+1)/2)
	}
	sort.Float64s(x)
	x[s-1] = 1
	return
}

// LagrangeDeriv returns D[j][l] = dL_l/dx at tau[j], where L_l are the Lagrange polynomials on tau
func LagrangeDeriv(tau []float64) (D [][]float64) {
	n := len(tau)
	w := make([]float64, n)
	for l := range tau {
		w[l] = 1
		for m := range tau {
			if m != l {
				w[l] /= tau[l] - tau[m]
			}
		}
	}
	D = make([][]float64, n)
	for j := range tau {
		D[j] = make([]float64, n)
		sum := 0.0
		for l := range tau {
			if l != j {
				D[j][l] = (w[l] / w[j]) / (tau[j] - tau[l])
				sum += D[j][l]
			}
		}
		D[j][j] = -sum
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// polish refines a root of the polynomial with coefficients c using Newton's method
func polish(c []float64, y float64) float64 {
	for it := 0; it < 20; it++ {
		f, df := 0.0, 0.0
		for i := len(c) - 1; i >= 0; i-- {
			df = df*y + f
			f = f*y + c[i]
		}
		if df == 0 {
			break
		}
		dy := f / df
		y -= dy
		if math.Abs(dy) < 1e-15 {
			break
		}
	}
	return y
}
