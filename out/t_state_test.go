// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/srikanthallu/cats/errs"
	"github.com/srikanthallu/cats/inp"
	"github.com/srikanthallu/cats/mdl"
	"github.com/srikanthallu/cats/sim"
	"github.com/stretchr/testify/require"
)

func build(tst *testing.T) *mdl.Model {
	dat, err := inp.ReadSim("../examples/cats/nh3_storage.yaml")
	require.NoError(tst, err)
	m, err := sim.Build(dat)
	require.NoError(tst, err)
	return m
}

// perturb changes all kinds of parameters of the storage model
func perturb(tst *testing.T, m *mdl.Model) {
	m.Eb, m.Km = 0.1/3.0, math.Pi
	r, err := m.Net.Get("r1")
	require.NoError(tst, err)
	r.Prm("A").V = 1.0 / 7.0
	r.Prm("dH").Pinned = true
	r.Prm("dH").Fixed = true
	r.Prm("dS").Min = -1e3
	r.UGas[0][2] = -2.0 / 3.0
	m.US[0][0] = 1.1
	m.Smax[0][0][1][4] = 0.0529 * 1.000001
	cb := m.Var(mdl.VarCb)
	for i := range cb.Val {
		cb.Val[i] = 1e-6 * math.Sqrt(float64(i+1))
	}
}

func encode(tst *testing.T, o *State) []byte {
	b, err := json.Marshal(o)
	require.NoError(tst, err)
	return b
}

func Test_state01(tst *testing.T) {

	chk.PrintTitle("state01. export and import")

	m := build(tst)
	perturb(tst, m)
	st := Export(m, true)

	// document
	require.Len(tst, st.Reactions, 1)
	r := st.Reactions[0]
	require.Equal(tst, "equilibrium-arrhenius", r.Kind)
	chk.Strings(tst, "params", []string{r.Params[0].Name, r.Params[1].Name, r.Params[2].Name, r.Params[3].Name}, []string{"A", "E", "dH", "dS"})
	require.NotNil(tst, r.Params[0].Max)
	chk.Float64(tst, "A max", 1e-15, *r.Params[0].Max, 1e7)
	require.Nil(tst, r.Params[1].Min)
	require.Nil(tst, r.Params[2].Max)
	require.True(tst, r.Params[2].Pinned)
	chk.Float64(tst, "ZNH4 order", 1e-15, r.Orders["ZNH4"], 1)
	require.Len(tst, r.UGas["NH3"], m.Space.Nz())
	require.Len(tst, st.Sites, 1)
	require.Len(tst, st.Sites[0].Density["Unaged"], m.Space.Nz())

	// import into a fresh model through JSON
	var dec State
	require.NoError(tst, json.Unmarshal(encode(tst, st), &dec))
	m2 := build(tst)
	require.NoError(tst, Import(m2, &dec))
	require.Equal(tst, encode(tst, st), encode(tst, Export(m2, true)))

	// bit-identical scalars
	r2, _ := m2.Net.Get("r1")
	require.Equal(tst, math.Float64bits(1.0/7.0), math.Float64bits(r2.Prm("A").V))
	require.Equal(tst, math.Float64bits(math.Pi), math.Float64bits(m2.Km))
	require.True(tst, math.IsInf(r2.Prm("E").Min, -1))
	require.True(tst, math.IsInf(r2.Prm("dS").Max, 1))
	chk.Float64(tst, "dS min", 1e-15, r2.Prm("dS").Min, -1e3)
	require.True(tst, r2.Prm("dH").Pinned)
	require.Equal(tst, m.Var(mdl.VarCb).Val, m2.Var(mdl.VarCb).Val)
}

func Test_state02(tst *testing.T) {

	chk.PrintTitle("state02. mismatched states")

	m := build(tst)
	st := Export(m, false)
	require.Nil(tst, st.Vars)
	st.Transport.Eb = 0.5

	// unknown reaction
	st.Reactions[0].Name = "r9"
	err := Import(m, st)
	require.True(tst, errors.Is(err, errs.ErrUnknownName))
	chk.Float64(tst, "eb unchanged", 1e-15, m.Eb, mdl.DefaultEb)

	// wrong kind
	st.Reactions[0].Name = "r1"
	st.Reactions[0].Kind = "arrhenius"
	err = Import(m, st)
	require.True(tst, errors.Is(err, errs.ErrInvalidKind))

	// wrong grid
	st.Reactions[0].Kind = "equilibrium-arrhenius"
	st.Reactions[0].UGas["NH3"] = []float64{-1}
	require.Error(tst, Import(m, st))

	// unknown family
	st = Export(m, false)
	st.Vars = map[string][]float64{"T": {1}}
	require.True(tst, errors.Is(Import(m, st), errs.ErrUnknownName))
	chk.Float64(tst, "eb unchanged", 1e-15, m.Eb, mdl.DefaultEb)
}

func Test_state03(tst *testing.T) {

	chk.PrintTitle("state03. files")

	m := build(tst)
	perturb(tst, m)
	fn := filepath.Join(tst.TempDir(), "states", "nh3.json")
	require.NoError(tst, SaveState(fn, m, false))

	m2 := build(tst)
	require.NoError(tst, LoadState(fn, m2))
	require.Equal(tst, encode(tst, Export(m, false)), encode(tst, Export(m2, false)))

	// variable values are not saved
	require.NotEqual(tst, m.Var(mdl.VarCb).Val, m2.Var(mdl.VarCb).Val)

	require.Error(tst, LoadState(filepath.Join(tst.TempDir(), "none.json"), m2))
}

func Test_state04(tst *testing.T) {

	chk.PrintTitle("state04. out of range values")

	m := build(tst)
	before := encode(tst, Export(m, false))
	for i, change := range []func(o *State){
		func(o *State) { o.Transport.Eb = 1.5 },
		func(o *State) { o.Transport.Km = -1 },
		func(o *State) { o.Transport.V = math.NaN() },
		func(o *State) { o.Sites[0].Density["Unaged"][1][2] = -3 },
		func(o *State) { o.Sites[0].Occupancy["ZNH4"] = math.Inf(1) },
		func(o *State) { o.Reactions[0].Params[0].Value = 2e7 },
		func(o *State) {
			lo := 1.0
			o.Reactions[0].Params[2].Min = &lo
		},
	} {
		st := Export(m, false)
		change(st)
		err := Import(m, st)
		if !errors.Is(err, errs.ErrDomain) {
			tst.Errorf("change %d: domain error expected; got %v", i, err)
		}
		require.Equal(tst, before, encode(tst, Export(m, false)))
	}
}
