// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nls

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/srikanthallu/cats/inp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Newton implements the Newton-Raphson method with a finite difference Jacobian.
// Unknowns are projected onto their bounds after each update
type Newton struct {
	dat *inp.SolverData
}

// add solver to factory
func init() {
	allocators["newton"] = func(dat *inp.SolverData) Solver {
		return &Newton{dat: dat}
	}
}

// Solve solves the system
func (o *Newton) Solve(ctx context.Context, p Problem) (res Result, err error) {

	// check
	neq, n := p.Size()
	if neq != n {
		res.Status = Singular
		return res, chk.Err("system is not square: %d equations and %d unknowns", neq, n)
	}
	res.X = make([]float64, n)
	if n == 0 {
		return
	}

	// initial point and bounds
	x := res.X
	lo, hi := make([]float64, n), make([]float64, n)
	p.Init(x)
	p.Bounds(lo, hi)
	project(x, lo, hi)

	// unknown => equations
	eqs := make([][]int, n)
	for i := 0; i < n; i++ {
		for _, j := range p.Deps(i) {
			eqs[j] = append(eqs[j], i)
		}
	}

	// auxiliary variables
	dat := o.dat
	fb := make([]float64, n)
	wb := mat.NewVecDense(n, nil)
	J := mat.NewDense(n, n, nil)
	var lu mat.LU
	var it, ndvg int
	var largFb, largFb0, Lδu float64
	var prevFb, prevLδu float64

	// message
	if dat.ShowR {
		io.Pf("\n%4s%23s%23s\n", "it", "largFb", "Lδu")
		defer func() {
			io.Pf("%4d%23.15e%23.15e\n", it, largFb, Lδu)
		}()
	}
	defer func() {
		res.Iterations, res.Residual, res.Step = it, largFb, Lδu
	}()

	// iterations
	for it = 0; it < dat.NmaxIt; it++ {

		// check context
		if e := ctx.Err(); e != nil {
			res.Status = Cancelled
			return res, fmt.Errorf("newton: cancelled at iteration %d: %w", it, e)
		}

		// right-hand side vector (fb) with negative of residuals
		for i := range fb {
			fb[i] = -p.Residual(i, x)
		}

		// find largest absolute component of fb
		largFb = floats.Norm(fb, math.Inf(1))
		if math.IsNaN(largFb) || math.IsInf(largFb, 0) {
			res.Status = Diverged
			return res, chk.Err("newton: residual is not finite at iteration %d", it)
		}

		// check largFb value
		if it == 0 {
			largFb0 = largFb
			if largFb < dat.FbMin { // already converged
				return
			}
		} else {
			if largFb < dat.FbTol*largFb0 { // converged on fb
				return
			}
			if largFb < dat.FbMin { // converged with smallest value of fb
				return
			}
		}

		// check divergence on fb
		if it > 1 && dat.DvgCtrl {
			if largFb > prevFb {
				ndvg++
			} else {
				ndvg = 0
			}
			if ndvg > dat.NdvgMax {
				res.Status = Diverged
				return res, chk.Err("newton: residual increased in %d consecutive iterations", ndvg)
			}
		}
		prevFb = largFb

		// assemble Jacobian matrix and factorise
		if it == 0 || !dat.CteTg {
			o.jacobian(J, p, x, fb, eqs, lo, hi)
			lu.Factorize(J)
		}

		// solve for wb := δx
		if e := lu.SolveVecTo(wb, false, mat.NewVecDense(n, fb)); e != nil {
			var cond mat.Condition
			if !errors.As(e, &cond) || math.IsInf(float64(cond), 1) {
				res.Status = Singular
				return res, chk.Err("newton: linear solve failed at iteration %d:\n%v", it, e)
			}
		}
		if !finite(wb.RawVector().Data) {
			res.Status = Singular
			return res, chk.Err("newton: Jacobian is singular at iteration %d", it)
		}

		// update unknowns
		δx := wb.RawVector().Data
		for j := range x {
			x[j] += δx[j]
		}
		project(x, lo, hi)

		// compute RMS norm of δx and check convergence on δx
		Lδu = rmsErr(δx, dat.Atol, dat.Rtol, x)
		if dat.ShowR {
			io.Pf("%4d%23.15e%23.15e\n", it, largFb, Lδu)
		}

		// stop if converged on δx
		if Lδu < dat.Itol {
			return
		}

		// check divergence on Lδu
		if it > 1 && dat.DvgCtrl {
			if Lδu > prevLδu {
				ndvg++
			}
			if ndvg > dat.NdvgMax {
				res.Status = Diverged
				return res, chk.Err("newton: increments grew in %d consecutive iterations", ndvg)
			}
		}
		prevLδu = Lδu
	}

	// check if iterations diverged
	res.Status = MaxIterations
	return res, chk.Err("newton: max number of iterations reached: it = %d, largFb = %g, Lδu = %g", it, largFb, Lδu)
}

// jacobian computes J = dR/dx by forward differences; fb holds -R(x)
func (o *Newton) jacobian(J *mat.Dense, p Problem, x, fb []float64, eqs [][]int, lo, hi []float64) {
	J.Zero()
	for j, xj := range x {
		h := o.dat.FdStep * math.Max(math.Abs(xj), 1)
		if xj+h > hi[j] {
			h = -h
		}
		x[j] = xj + h
		for _, i := range eqs[j] {
			J.Set(i, j, (p.Residual(i, x)+fb[i])/h)
		}
		x[j] = xj
	}
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func project(x, lo, hi []float64) {
	for j := range x {
		x[j] = math.Min(math.Max(x[j], lo[j]), hi[j])
	}
}

func finite(v []float64) bool {
	for _, a := range v {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return false
		}
	}
	return true
}

// rmsErr returns the RMS norm of u scaled by atol + rtol⋅|v|
func rmsErr(u []float64, atol, rtol float64, v []float64) float64 {
	sum := 0.0
	for i, a := range u {
		s := a / (atol + rtol*math.Abs(v[i]))
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(u)))
}
