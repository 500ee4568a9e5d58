// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the staged continuation solver of monolith models
package sim

import (
	"context"
	"math"
	"time"

	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/inp"
	"github.com/srikanthallu/cats/mdl"
	"github.com/srikanthallu/cats/nls"
)

// stages
const (
	StageInitialize = "initialize"
	StageFull       = "full"
)

// Main holds all data for a simulation. It owns the model; solves run one at a time
type Main struct {
	Sim     *inp.Simulation // simulation data; may be nil
	Model   *mdl.Model      // the model
	Solver  nls.Solver      // nonlinear solver; e.g. newton
	Data    *inp.SolverData // solver data
	Metrics *Metrics        // solver metrics
	ShowMsg bool            // show messages
}

// NewMain builds the model described by simulation data and allocates the solver
func NewMain(sim *inp.Simulation, reg prometheus.Registerer, verbose bool) (o *Main, err error) {
	m, err := Build(sim)
	if err != nil {
		return
	}
	o, err = New(m, &sim.Solver, reg, verbose)
	if err != nil {
		return
	}
	o.Sim = sim
	if o.ShowMsg {
		io.Pf("> Model built: %d variables, %d constraints\n", m.NumVars(), m.NumCons())
	}
	return
}

// New returns a new Main for an existing model
func New(m *mdl.Model, dat *inp.SolverData, reg prometheus.Registerer, verbose bool) (o *Main, err error) {
	o = &Main{Model: m, Data: dat, Metrics: NewMetrics(reg), ShowMsg: verbose}
	o.Solver, err = nls.New(dat.Type, dat)
	return
}

// Run initializes the model by continuation and then solves the full system
func (o *Main) Run(ctx context.Context) (err error) {

	// exit commands
	cputime := time.Now()
	defer func() {
		if o.ShowMsg {
			if err == nil {
				io.PfGreen("> Success\n")
				io.Pf("> CPU time = %v\n", time.Since(cputime))
			} else {
				io.PfRed("> Failed\n")
			}
		}
	}()

	// run
	if err = o.Initialize(ctx); err != nil {
		return
	}
	return o.RunSolver(ctx)
}

// Initialize solves the model one (age, temperature, time) slice at a time, in time order,
// using each result as the starting point of the next slice. Reactions are held fixed during
// the procedure and their fixed state is restored on exit
func (o *Main) Initialize(ctx context.Context) (err error) {

	// check
	m := o.Model
	if err = m.CheckBoundaries(); err != nil {
		return
	}

	// hold reactions
	flags := m.Net.Snapshot()
	m.Net.FixAll()
	defer m.Net.Restore(flags)

	// message
	if o.ShowMsg {
		io.Pf("> Initializing by continuation\n")
	}

	// loop over (age, temperature) pairs
	for a := 0; a < m.Space.Ages.Len(); a++ {
		for k := 0; k < m.Space.Temps.Len(); k++ {
			if err = o.initPair(ctx, a, k); err != nil {
				return
			}
		}
	}
	return
}

// RunSolver solves the full system at once; all reactions are fixed
func (o *Main) RunSolver(ctx context.Context) (err error) {

	// check
	m := o.Model
	if err = m.CheckBoundaries(); err != nil {
		return
	}

	// no objective function
	if o.ShowMsg {
		io.Pf("> No objective function: fixing all reactions\n")
	}
	m.Net.FixAll()

	// solve
	if o.ShowMsg {
		io.Pf("> Solving full system\n")
	}
	res, err := o.solve(ctx, StageFull, m.Assemble())
	if err != nil {
		return errs.Convergence("all", "all", math.NaN(), res.Status.String(), err)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// initPair solves all times of one (age, temperature) pair
func (o *Main) initPair(ctx context.Context, a, k int) (err error) {
	m := o.Model
	pop := m.PushMask(mdl.SliceMask{Age: a, Temp: k, Time: mdl.Any})
	defer pop()
	if o.ShowMsg {
		io.Pf("  age %q temperature %q\n", m.Space.Ages.List()[a], m.Space.Temps.List()[k])
	}
	for t := 1; t < m.Space.Nt(); t++ {
		if err = o.initSlice(ctx, a, k, t); err != nil {
			return
		}
	}
	return
}

// initSlice solves one (age, temperature, time) slice
func (o *Main) initSlice(ctx context.Context, a, k, t int) (err error) {
	m := o.Model
	pop := m.PushMask(mdl.SliceMask{Age: a, Temp: k, Time: t})
	defer pop()
	res, err := o.solve(ctx, StageInitialize, m.Assemble())
	if err != nil {
		ages, temps := m.Space.Ages.List(), m.Space.Temps.List()
		return errs.Convergence(ages[a], temps[k], m.Space.Time.At(t), res.Status.String(), err)
	}
	if o.ShowMsg {
		io.Pf("    t = %g: %d iterations\n", m.Space.Time.At(t), res.Iterations)
	}
	return
}

// solve solves all independent blocks of a system within the time limit and stores the results
func (o *Main) solve(ctx context.Context, stage string, sys *mdl.System) (res nls.Result, err error) {

	// time limit
	if timeout := o.Data.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// metrics
	start := time.Now()
	_, nunk := sys.Size()
	o.Metrics.Unknowns.Set(float64(nunk))
	defer func() {
		o.Metrics.Duration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
		o.Metrics.Solves.WithLabelValues(stage, res.Status.String()).Inc()
	}()

	// solve blocks
	var total int
	for _, b := range sys.Split() {
		res, err = o.Solver.Solve(ctx, b)
		total += res.Iterations
		o.Metrics.Iterations.WithLabelValues(stage).Observe(float64(res.Iterations))
		if err != nil {
			return
		}
		b.Store(res.X)
	}
	res.Iterations = total
	return
}
