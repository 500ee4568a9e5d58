// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

// ConRef identifies a constraint instance
type ConRef struct {
	Kind ConKind
	I    int
}

// System is the algebraic system made of the active constraints and the free variables
// they depend on. Values of all other variables are taken from the model
type System struct {
	m    *Model
	Eqs  []ConRef  // active constraint instances
	Unk  []int     // global ids of the unknowns
	pos  []int     // global id => position in Unk; -1 if not an unknown
	deps [][]int   // equation => positions of its unknowns
	base []float64 // snapshot of all values
	cur  []float64 // point being evaluated
	get  func(g int) float64
}

// Assemble builds the system for the current masks
func (o *Model) Assemble() (sys *System) {
	sys = &System{m: o, pos: make([]int, o.nvars), base: make([]float64, o.nvars)}
	for i := range sys.pos {
		sys.pos[i] = -1
	}
	for _, f := range o.vars {
		if f != nil {
			copy(sys.base[f.Offset:], f.Val)
		}
	}
	for kind, c := range o.cons {
		if c == nil {
			continue
		}
		for i := range c.Exists {
			if !o.Active(ConKind(kind), i) {
				continue
			}
			var d []int
			for _, g := range o.Deps(ConKind(kind), i) {
				f, j := o.lookup(g)
				if !o.Free(f.Kind, j) {
					continue
				}
				if sys.pos[g] < 0 {
					sys.pos[g] = len(sys.Unk)
					sys.Unk = append(sys.Unk, g)
				}
				d = append(d, sys.pos[g])
			}
			sys.Eqs = append(sys.Eqs, ConRef{ConKind(kind), i})
			sys.deps = append(sys.deps, d)
		}
	}
	sys.get = sys.value
	return
}

// Size returns the number of equations and unknowns
func (o *System) Size() (neq, nunk int) { return len(o.Eqs), len(o.Unk) }

// Init sets x to the current values of the unknowns
func (o *System) Init(x []float64) {
	for p, g := range o.Unk {
		x[p] = o.base[g]
	}
}

// Bounds sets the bounds of the unknowns
func (o *System) Bounds(lo, hi []float64) {
	for p, g := range o.Unk {
		f, j := o.m.lookup(g)
		lo[p], hi[p] = f.Lo[j], f.Hi[j]
	}
}

// Residual evaluates equation i at x
func (o *System) Residual(i int, x []float64) float64 {
	o.cur = x
	e := o.Eqs[i]
	return o.m.Residual(e.Kind, e.I, o.get)
}

// Deps returns the positions of the unknowns equation i depends on
func (o *System) Deps(i int) []int { return o.deps[i] }

// Store writes x into the model
func (o *System) Store(x []float64) {
	for p, g := range o.Unk {
		f, j := o.m.lookup(g)
		f.Val[j] = x[p]
		o.base[g] = x[p]
	}
}

// Split returns the independent blocks of the system; equations without unknowns are dropped
func (o *System) Split() (blocks []*System) {

	// union-find over unknowns
	parent := make([]int, len(o.Unk))
	for i := range parent {
		parent[i] = i
	}
	var find func(i int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, d := range o.deps {
		for _, p := range d[min(1, len(d)):] {
			parent[find(p)] = find(d[0])
		}
	}

	// group equations and unknowns by root
	byRoot := make(map[int]*System)
	var order []int
	block := func(root int) *System {
		b, ok := byRoot[root]
		if !ok {
			b = &System{m: o.m, pos: make([]int, len(o.pos)), base: o.base}
			for i := range b.pos {
				b.pos[i] = -1
			}
			b.get = b.value
			byRoot[root] = b
			order = append(order, root)
		}
		return b
	}
	for p, g := range o.Unk {
		b := block(find(p))
		b.pos[g] = len(b.Unk)
		b.Unk = append(b.Unk, g)
	}
	for i, d := range o.deps {
		if len(d) == 0 {
			continue
		}
		b := block(find(d[0]))
		nd := make([]int, len(d))
		for j, p := range d {
			nd[j] = b.pos[o.Unk[p]]
		}
		b.Eqs = append(b.Eqs, o.Eqs[i])
		b.deps = append(b.deps, nd)
	}
	for _, root := range order {
		blocks = append(blocks, byRoot[root])
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o *System) value(g int) float64 {
	if p := o.pos[g]; p >= 0 {
		return o.cur[p]
	}
	return o.base[g]
}
