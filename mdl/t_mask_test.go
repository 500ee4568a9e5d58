// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func checkPartition(tst *testing.T, m *Model, p Partition) {
	chk.Int(tst, "all variables", p.FreeVars+p.HeldVars+p.FixedVars, m.NumVars())
	chk.Int(tst, "all constraints", p.Active+p.HeldCons+p.Inactive, m.NumCons())
}

func Test_mask01(tst *testing.T) {

	chk.PrintTitle("mask01. partition")

	m := toy(tst, true)
	conditions(tst, m)

	// no masks
	p0 := m.Partition()
	checkPartition(tst, m, p0)
	chk.Int(tst, "held vars", p0.HeldVars, 0)
	chk.Int(tst, "held cons", p0.HeldCons, 0)
	chk.Int(tst, "fixed vars", p0.FixedVars, 48+32+8)
	chk.Int(tst, "free vars", p0.FreeVars, 512)
	chk.Int(tst, "active", p0.Active, 512)
	chk.Int(tst, "inactive", p0.Inactive, 88)

	// one (age, temperature) pair
	popOuter := m.PushMask(SliceMask{Age: 1, Temp: 0, Time: Any})
	p1 := m.Partition()
	checkPartition(tst, m, p1)
	chk.Int(tst, "held vars", p1.HeldVars, 600*3/4)
	chk.Int(tst, "free vars", p1.FreeVars, 512/4)

	// one time
	popInner := m.PushMask(SliceMask{Age: Any, Temp: Any, Time: 2})
	p2 := m.Partition()
	checkPartition(tst, m, p2)
	chk.Int(tst, "held vars", p2.HeldVars, 570)
	chk.Int(tst, "fixed vars", p2.FixedVars, 2)
	chk.Int(tst, "free vars", p2.FreeVars, 28)
	chk.Int(tst, "active", p2.Active, 28)
	chk.Int(tst, "held cons", p2.HeldCons, 484)
	if !m.Held(0, 0, 2) || !m.Held(1, 0, 1) || m.Held(1, 0, 2) {
		tst.Errorf("Held is wrong")
	}

	sys := m.Assemble()
	neq, nunk := sys.Size()
	chk.Int(tst, "slice equations", neq, 28)
	chk.Int(tst, "slice unknowns", nunk, 28)
	for _, g := range sys.Unk {
		f, j := m.lookup(g)
		_, a, k, _, t := f.Shape.Tuple(j)
		if a != 1 || k != 0 || t != 2 {
			tst.Errorf("unknown %d of %v is outside the slice", g, f.Kind)
		}
	}

	// the fixed inlet value separates the first location from the others
	blocks := sys.Split()
	chk.Int(tst, "slice blocks", len(blocks), 2)
	for _, b := range blocks {
		if n, u := b.Size(); n != u {
			tst.Errorf("block is not square: %d × %d", n, u)
		}
	}

	// pop restores
	chk.Int(tst, "depth", len(m.Masks()), 2)
	popInner()
	popInner()
	chk.Int(tst, "depth", len(m.Masks()), 1)
	if m.Partition() != p1 {
		tst.Errorf("popping the inner mask should restore the outer partition")
	}
	popOuter()
	if m.Partition() != p0 {
		tst.Errorf("popping all masks should restore the initial partition")
	}
	chk.Int(tst, "depth", len(m.Masks()), 0)
}

func Test_mask02(tst *testing.T) {

	chk.PrintTitle("mask02. out of order pop")

	m := toy(tst, true)
	popOuter := m.PushMask(SliceMask{Age: 0, Temp: 0, Time: Any})
	popInner := m.PushMask(SliceMask{Age: Any, Temp: Any, Time: 1})
	defer func() {
		if err := recover(); err == nil {
			tst.Errorf("popping out of order should panic")
		}
		popInner()
		popOuter()
		chk.Int(tst, "depth", len(m.Masks()), 0)
	}()
	popOuter()
}

func Test_mask03(tst *testing.T) {

	chk.PrintTitle("mask03. full system")

	m := toy(tst, true)
	conditions(tst, m)
	sys := m.Assemble()
	neq, nunk := sys.Size()
	chk.Int(tst, "equations", neq, 512)
	chk.Int(tst, "unknowns", nunk, 512)

	// fixed inlet and initial values split each (age, temperature) into several blocks
	blocks := sys.Split()
	chk.Int(tst, "blocks", len(blocks), 56)
	total := 0
	for _, b := range blocks {
		n, u := b.Size()
		if n != u {
			tst.Errorf("block is not square: %d × %d", n, u)
		}
		total += n
	}
	chk.Int(tst, "total", total, 512)

	// store
	x := make([]float64, nunk)
	sys.Init(x)
	x[0] = 0.75
	sys.Store(x)
	f, j := m.lookup(sys.Unk[0])
	chk.Float64(tst, "stored", 1e-15, f.Val[j], 0.75)
}
