// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/srikanthallu/cats/dsc"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/rxn"
)

// toy builds a 2 ages × 2 temperatures model with gas species A and B and the reaction A => B
func toy(tst *testing.T, discretize bool) *Model {
	m := New()
	steps := []func() error{
		func() error { return m.DefineAxial(0, 5) },
		func() error { return m.DefineTemporal(0, 4) },
		func() error { return m.DefineAge("a0", "a1") },
		func() error { return m.DefineTemperature("T0", "T1") },
		func() error { return m.DefineGasSpecies("A", "B") },
		func() error { return m.DeclareReactions(map[string]rxn.Kind{"r1": rxn.Arrhenius}) },
		func() error {
			return m.ConfigureReaction("r1", rxn.Info{
				Parameters: map[string]float64{"A": 10, "E": 0},
				Reactants:  map[string]float64{"A": 1},
				Products:   map[string]float64{"B": 1},
				Orders:     map[string]float64{"A": 1},
			})
		},
		func() error { return m.BuildConstraints() },
	}
	if discretize {
		steps = append(steps, func() error {
			return m.Discretize(dsc.Config{Method: dsc.FiniteDifference, Elems: 2, TimeSteps: 4})
		})
	}
	for i, step := range steps {
		if err := step(); err != nil {
			tst.Fatalf("step %d failed:\n%v", i, err)
		}
	}
	return m
}

// conditions sets ICs and BCs of the toy model
func conditions(tst *testing.T, m *Model) {
	for _, age := range m.Space.Ages.List() {
		for _, temp := range m.Space.Temps.List() {
			for _, spec := range []string{"A", "B"} {
				if err := m.SetConstIC(spec, age, temp, 0); err != nil {
					tst.Fatalf("%v", err)
				}
			}
			if err := m.SetConstBC("A", age, temp, 1); err != nil {
				tst.Fatalf("%v", err)
			}
			if err := m.SetConstBC("B", age, temp, 0); err != nil {
				tst.Fatalf("%v", err)
			}
		}
	}
}

func Test_model01(tst *testing.T) {

	chk.PrintTitle("model01. build order")

	m := New()
	if err := m.DeclareReactions(map[string]rxn.Kind{"r1": rxn.Arrhenius}); !errors.Is(err, errs.ErrPrerequisite) {
		tst.Errorf("reactions before gas species should fail. err = %v", err)
	}
	if err := m.DefineTemperature("T0"); !errors.Is(err, errs.ErrPrerequisite) {
		tst.Errorf("temperature before age should fail. err = %v", err)
	}
	if m.T != nil || m.Space.Temps != nil {
		tst.Errorf("nothing should be allocated")
	}
	if err := m.BuildConstraints(); !errors.Is(err, errs.ErrPrerequisite) {
		tst.Errorf("constraints before reactions should fail. err = %v", err)
	}

	m.DefineAxial(0, 5)
	m.DefineTemporal(0, 4)
	m.DefineAge("a0")
	m.DefineTemperature("T0")
	m.DefineGasSpecies("A", "B")
	m.DeclareReactions(map[string]rxn.Kind{"r1": rxn.Arrhenius, "r2": rxn.Arrhenius})
	if err := m.BuildConstraints(); !errors.Is(err, errs.ErrPrerequisite) {
		tst.Errorf("constraints before configuration should fail. err = %v", err)
	}
	if err := m.Discretize(dsc.Config{Elems: 2, TimeSteps: 4}); !errors.Is(err, errs.ErrPrerequisite) {
		tst.Errorf("discretization before constraints should fail. err = %v", err)
	}
	if err := m.SetReactionZone("r1", 0, 1, false); !errors.Is(err, errs.ErrPrerequisite) {
		tst.Errorf("zoning before discretization should fail. err = %v", err)
	}
	if err := m.SetConstIC("A", "a0", "T0", 1); !errors.Is(err, errs.ErrPrerequisite) {
		tst.Errorf("IC before discretization should fail. err = %v", err)
	}
	if m.Built() || m.Discretized() {
		tst.Errorf("model should not be built")
	}
}

func Test_model02(tst *testing.T) {

	chk.PrintTitle("model02. discretization")

	m := toy(tst, false)
	if err := m.SetIsothermalTemp("a1", "T1", 523.15); err != nil {
		tst.Errorf("%v", err)
		return
	}
	m.CbIn[0][1][1][0] = 0.25
	err := m.Discretize(dsc.Config{Method: dsc.FiniteDifference, Elems: 2, TimeSteps: 4})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Array(tst, "z", 1e-15, m.Space.Axial.Points, []float64{0, 2.5, 5})
	chk.Array(tst, "t", 1e-15, m.Space.Time.Points, []float64{0, 1, 2, 3, 4})
	chk.Array(tst, "T(a1,T1)", 1e-15, m.T[1][1], []float64{523.15, 523.15, 523.15, 523.15, 523.15})
	chk.Array(tst, "T(a0,T0)", 1e-15, m.T[0][0], []float64{298, 298, 298, 298, 298})
	chk.Array(tst, "Cb_in", 1e-15, m.CbIn[0][1][1], []float64{0.25, 0.25, 0.25, 0.25, 0.25})
	chk.Strings(tst, "age", m.AgeTab[1], []string{"a1", "a1", "a1", "a1", "a1"})
	r, _ := m.Net.Get("r1")
	chk.Array(tst, "u(A)", 1e-15, r.UGas[0], []float64{-1, -1, -1})
	chk.Array(tst, "u(B)", 1e-15, r.UGas[1], []float64{1, 1, 1})

	// pin
	f := m.Var(VarDCbDt)
	for g := 0; g < 2; g++ {
		for a := 0; a < 2; a++ {
			for k := 0; k < 2; k++ {
				if !f.IsFixed(g, a, k, 0, 0) || f.Get(g, a, k, 0, 0) != 0 {
					tst.Errorf("dCb/dt at (z0, t0) should be pinned to zero")
				}
				if f.IsFixed(g, a, k, 1, 0) || f.IsFixed(g, a, k, 0, 1) {
					tst.Errorf("only (z0, t0) should be pinned")
				}
			}
		}
	}

	// structure
	count := func(c *ConFamily) (n int) {
		for _, e := range c.Exists {
			if e {
				n++
			}
		}
		return
	}
	chk.Int(tst, "bulk", count(m.Con(ConBulk)), 2*2*2*3*5)
	chk.Int(tst, "dCb_dz", count(m.Con(ConDCbDz)), 2*2*2*2*5)
	chk.Int(tst, "dCb_dt", count(m.Con(ConDCbDt)), 2*2*2*3*4)
	if m.Con(ConSurf) != nil || m.Con(ConSite) != nil {
		tst.Errorf("surface and site families should be absent")
	}
	chk.Int(tst, "nvars", m.NumVars(), 5*2*2*2*3*5)
	if err = m.Discretize(dsc.Config{Elems: 2, TimeSteps: 4}); !errors.Is(err, errs.ErrPrerequisite) {
		tst.Errorf("second discretization should fail. err = %v", err)
	}

	// zoning after discretization
	if err = m.SetReactionZone("r1", 5, 2, false); err != nil {
		tst.Errorf("%v", err)
	}
	chk.Array(tst, "zoned u(A)", 1e-15, r.UGas[0], []float64{0, -1, -1})
}

func Test_model03(tst *testing.T) {

	chk.PrintTitle("model03. residuals")

	m := toy(tst, true)
	conditions(tst, m)
	vals := make([]float64, m.NumVars())
	for i := range vals {
		vals[i] = 0.5
	}
	set := func(kind VarKind, s, a, k, z, t int, v float64) { vals[m.gid(kind, s, a, k, z, t)] = v }
	get := func(g int) float64 { return vals[g] }

	// bulk at (A, a0, T0, z1, t2)
	set(VarCb, 0, 0, 0, 1, 2, 0.8)
	set(VarC, 0, 0, 0, 1, 2, 0.3)
	set(VarDCbDt, 0, 0, 0, 1, 2, 0.1)
	set(VarDCbDz, 0, 0, 0, 1, 2, -0.2)
	i := m.Con(ConBulk).Shape.Index(0, 0, 0, 1, 2)
	want := m.Eb*0.1 + m.Eb*m.V*(-0.2) + m.Ga*m.Km*(0.8-0.3)
	chk.Float64(tst, "bulk", 1e-9, m.Residual(ConBulk, i, get), want)

	// washcoat: rate = 10⋅C_A
	set(VarDCDt, 0, 0, 0, 1, 2, 0.05)
	want = m.Ew*(1-m.Eb)*0.05 - m.Ga*m.Km*(0.8-0.3) - (1-m.Eb)*(-1)*10*0.3
	chk.Float64(tst, "pore", 1e-9, m.Residual(ConPore, i, get), want)
	chk.Ints(tst, "pore deps", m.Deps(ConPore, i), []int{
		m.gid(VarCb, 0, 0, 0, 1, 2), m.gid(VarC, 0, 0, 0, 1, 2), m.gid(VarDCDt, 0, 0, 0, 1, 2),
	})

	// backward differences
	set(VarCb, 0, 0, 0, 0, 2, 1.0)
	set(VarCb, 0, 0, 0, 1, 1, 0.6)
	chk.Float64(tst, "dz", 1e-12, m.Residual(ConDCbDz, i, get), -0.2-(0.8-1.0)/2.5)
	chk.Float64(tst, "dt", 1e-12, m.Residual(ConDCbDt, i, get), 0.1-(0.8-0.6)/1.0)
}
