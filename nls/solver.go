// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package nls implements solvers for systems of nonlinear algebraic equations
package nls

import (
	"context"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/srikanthallu/cats/inp"
)

// Problem defines a square system of nonlinear equations R(x) = 0
type Problem interface {
	Size() (neq, nunk int)               // number of equations and unknowns
	Init(x []float64)                    // sets the initial point
	Bounds(lo, hi []float64)             // sets the bounds of the unknowns
	Residual(i int, x []float64) float64 // residual of equation i
	Deps(i int) []int                    // unknowns equation i depends on
}

// Status tells how a solve ended
type Status int

// statuses
const (
	Converged Status = iota
	MaxIterations
	Diverged
	Singular
	Cancelled
)

var statusNames = []string{"converged", "max-iterations", "diverged", "singular", "cancelled"}

func (o Status) String() string {
	if o < 0 || int(o) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[o]
}

// Result holds the outcome of a solve
type Result struct {
	Status     Status    // how the solve ended
	Iterations int       // number of iterations performed
	Residual   float64   // largest absolute residual at the last iteration
	Step       float64   // RMS error of the last increment
	X          []float64 // last point
}

// Solver solves nonlinear systems. Solve returns a non-nil error if and only if the status is
// not Converged; the context is checked at every iteration
type Solver interface {
	Solve(ctx context.Context, p Problem) (Result, error)
}

// allocators holds all available solvers
var allocators = make(map[string]func(dat *inp.SolverData) Solver)

// New returns a new solver
func New(name string, dat *inp.SolverData) (Solver, error) {
	if allocator, ok := allocators[name]; ok {
		return allocator(dat), nil
	}
	return nil, chk.Err("cannot find solver named %q. available: %v", name, keys())
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func keys() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
