// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/inp"
	"github.com/srikanthallu/cats/mdl"
	"github.com/srikanthallu/cats/nls"
	"github.com/stretchr/testify/require"
)

func newMain(tst *testing.T, reg prometheus.Registerer) *Main {
	sim, err := inp.ReadSim("../examples/cats/first_order.yaml")
	require.NoError(tst, err)
	o, err := NewMain(sim, reg, chk.Verbose)
	require.NoError(tst, err)
	return o
}

// fixed returns the values and fixed flags of all persistently fixed instances
func fixed(m *mdl.Model) map[[2]int]float64 {
	res := make(map[[2]int]float64)
	for _, kind := range []mdl.VarKind{mdl.VarCb, mdl.VarC, mdl.VarDCbDt} {
		f := m.Var(kind)
		for i, fx := range f.Fixed {
			if fx {
				res[[2]int{int(kind), i}] = f.Val[i]
			}
		}
	}
	return res
}

func Test_main01(tst *testing.T) {

	chk.PrintTitle("main01. staged initialization")

	reg := prometheus.NewRegistry()
	o := newMain(tst, reg)
	m := o.Model
	chk.Int(tst, "nz", m.Axial().Len(), 3)
	chk.Int(tst, "nt", m.Time().Len(), 5)

	r, err := m.Net.Get("r1")
	require.NoError(tst, err)
	require.False(tst, r.Fixed)
	before := fixed(m)
	require.Len(tst, before, 48+32+8)

	err = o.Initialize(context.Background())
	require.NoError(tst, err)

	// fixed values are untouched and no mask is left
	require.Equal(tst, before, fixed(m))
	require.Empty(tst, m.Masks())
	p := m.Partition()
	chk.Int(tst, "held vars", p.HeldVars, 0)
	chk.Int(tst, "held cons", p.HeldCons, 0)
	f := m.Var(mdl.VarDCbDt)
	for a := 0; a < 2; a++ {
		for k := 0; k < 2; k++ {
			require.True(tst, f.IsFixed(0, a, k, 0, 0))
			require.Equal(tst, 0.0, f.Get(0, a, k, 0, 0))
		}
	}

	// reactions are free again
	require.False(tst, r.Fixed)
	require.False(tst, r.Prm("A").Fixed)
	require.True(tst, r.Prm("B").Fixed)

	// A is consumed along the monolith and B is produced
	cb := m.Var(mdl.VarCb)
	for t := 1; t < 5; t++ {
		out := cb.Get(0, 1, 1, 2, t)
		require.Greater(tst, out, 0.0)
		require.Less(tst, out, 1.0)
		require.Greater(tst, cb.Get(1, 1, 1, 2, t), mdl.Floor)
	}

	// the initial slice equations hold after the staged solve
	sys := m.Assemble()
	x := make([]float64, len(sys.Unk))
	sys.Init(x)
	for i := range sys.Eqs {
		if t := eqTime(m, sys.Eqs[i]); t > 0 {
			r := sys.Residual(i, x)
			if r > 1e-3 || r < -1e-3 {
				tst.Errorf("residual of %v = %g", sys.Eqs[i], r)
				break
			}
		}
	}

	// metrics
	chk.Float64(tst, "converged slices", 1e-15, testutil.ToFloat64(o.Metrics.Solves.WithLabelValues(StageInitialize, "converged")), 2*2*4)
	n, err := testutil.GatherAndCount(reg, "cats_solves_total")
	require.NoError(tst, err)
	chk.Int(tst, "series", n, 1)
}

func Test_main02(tst *testing.T) {

	chk.PrintTitle("main02. failing slice")

	// fail at the first block of the sixth slice: (a0, T1, t=2)
	o := newMain(tst, nil)
	m := o.Model
	nb := sliceBlocks(m)
	require.Greater(tst, nb, 0)
	o.Solver = &failing{failAt: 5*nb + 1, inner: o.Solver}
	before := fixed(m)

	err := o.Initialize(context.Background())
	require.Error(tst, err)
	require.True(tst, errors.Is(err, errs.ErrConvergence))
	var cerr *errs.ConvergenceError
	require.True(tst, errors.As(err, &cerr))
	require.Equal(tst, "a0", cerr.Age)
	require.Equal(tst, "T1", cerr.Temp)
	require.Equal(tst, 2.0, cerr.Time)
	require.Equal(tst, "diverged", cerr.Status)

	// masks are popped and reactions restored
	require.Empty(tst, m.Masks())
	r, _ := m.Net.Get("r1")
	require.False(tst, r.Fixed)
	require.Equal(tst, before, fixed(m))
	chk.Float64(tst, "converged", 1e-15, testutil.ToFloat64(o.Metrics.Solves.WithLabelValues(StageInitialize, "converged")), 5)
	chk.Float64(tst, "diverged", 1e-15, testutil.ToFloat64(o.Metrics.Solves.WithLabelValues(StageInitialize, "diverged")), 1)

	// cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o.Solver = o.Solver.(*failing).inner
	err = o.Initialize(ctx)
	require.True(tst, errors.Is(err, context.Canceled))
	require.True(tst, errors.As(err, &cerr))
	require.Equal(tst, "cancelled", cerr.Status)
	require.Equal(tst, 1.0, cerr.Time)
	require.Empty(tst, m.Masks())
}

func Test_main03(tst *testing.T) {

	chk.PrintTitle("main03. full solve")

	o := newMain(tst, nil)
	err := o.Run(context.Background())
	require.NoError(tst, err)
	chk.Float64(tst, "full", 1e-15, testutil.ToFloat64(o.Metrics.Solves.WithLabelValues(StageFull, "converged")), 1)

	// no objective => reactions stay fixed
	r, _ := o.Model.Net.Get("r1")
	require.True(tst, r.Fixed)

	res, err := o.Model.Breakthrough([]string{"A", "B"}, "a1", "T1")
	require.NoError(tst, err)
	require.Equal(tst, []string{"A_b", "A_w", "B_b", "B_w"}, res.Labels)
	last := len(res.Time) - 1
	require.Less(tst, res.Columns[0][last], 1.0)
	require.Greater(tst, res.Columns[2][last], mdl.Floor)

	// full solve failure is reported for all indices
	o.Solver = &failing{failAt: 1, inner: o.Solver}
	err = o.RunSolver(context.Background())
	var cerr *errs.ConvergenceError
	require.True(tst, errors.As(err, &cerr))
	require.Equal(tst, "all", cerr.Age)
	require.Equal(tst, "all", cerr.Temp)
}

func Test_main04(tst *testing.T) {

	chk.PrintTitle("main04. build errors")

	sim, err := inp.ReadSim("../examples/cats/first_order.yaml")
	require.NoError(tst, err)
	sim.Reactions[0].Kind = "langmuir"
	_, err = NewMain(sim, nil, false)
	require.True(tst, errors.Is(err, errs.ErrInvalidKind))

	sim, err = inp.ReadSim("../examples/cats/first_order.yaml")
	require.NoError(tst, err)
	sim.Conditions = sim.Conditions[:3]
	o, err := NewMain(sim, nil, false)
	require.NoError(tst, err)
	require.True(tst, errors.Is(o.Initialize(context.Background()), errs.ErrPrerequisite))
	require.True(tst, errors.Is(o.RunSolver(context.Background()), errs.ErrPrerequisite))

	sim, err = inp.ReadSim("../examples/cats/first_order.yaml")
	require.NoError(tst, err)
	sim.Conditions[0].IC["A"] = -1
	_, err = NewMain(sim, nil, false)
	require.True(tst, errors.Is(err, errs.ErrDomain))

	sim.Conditions[0].IC["A"] = 0
	sim.Solver.Type = "bisection"
	_, err = NewMain(sim, nil, false)
	require.Error(tst, err)

	// surface species without initial value
	sim, err = inp.ReadSim("../examples/cats/nh3_storage.yaml")
	require.NoError(tst, err)
	delete(sim.Conditions[0].IC, "ZNH4")
	o, err = NewMain(sim, nil, false)
	require.NoError(tst, err)
	err = o.Initialize(context.Background())
	require.True(tst, errors.Is(err, errs.ErrPrerequisite))
	require.Contains(tst, err.Error(), "ZNH4")
	require.True(tst, errors.Is(o.RunSolver(context.Background()), errs.ErrPrerequisite))
}

// sliceBlocks returns the number of independent blocks of one (age, temperature, time) slice
func sliceBlocks(m *mdl.Model) int {
	popOuter := m.PushMask(mdl.SliceMask{Age: 0, Temp: 0, Time: mdl.Any})
	defer popOuter()
	popInner := m.PushMask(mdl.SliceMask{Age: 0, Temp: 0, Time: 1})
	defer popInner()
	return len(m.Assemble().Split())
}

// failing fails at the given call of Solve; there is one call per block
type failing struct {
	calls  int
	failAt int
	inner  nls.Solver
}

func (o *failing) Solve(ctx context.Context, p nls.Problem) (nls.Result, error) {
	o.calls++
	if o.calls == o.failAt {
		return nls.Result{Status: nls.Diverged}, errors.New("residual increased")
	}
	return o.inner.Solve(ctx, p)
}

func eqTime(m *mdl.Model, e mdl.ConRef) int {
	_, _, _, _, t := m.Con(e.Kind).Shape.Tuple(e.I)
	return t
}
