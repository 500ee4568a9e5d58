// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Any selects every index of a dimension
const Any = -1

// SliceMask selects one (age, temperature, time) slice. Instances outside the slice are
// held: their variables are treated as fixed and their constraints as deactivated
type SliceMask struct {
	Age  int
	Temp int
	Time int
}

// Admits tells whether (a, k, t) belongs to the slice
func (o SliceMask) Admits(a, k, t int) bool {
	return (o.Age == Any || o.Age == a) && (o.Temp == Any || o.Temp == k) && (o.Time == Any || o.Time == t)
}

func (o SliceMask) String() string {
	f := func(i int) string {
		if i == Any {
			return "*"
		}
		return io.Sf("%d", i)
	}
	return io.Sf("(%s,%s,%s)", f(o.Age), f(o.Temp), f(o.Time))
}

// PushMask applies a mask on top of the current ones. The returned pop function removes it;
// masks must be popped in reverse order. Persistent fixings are never touched, so popping
// all masks restores the exact pre-push state. Not safe for concurrent use
func (o *Model) PushMask(m SliceMask) (pop func()) {
	depth := len(o.masks)
	o.masks = append(o.masks, m)
	done := false
	return func() {
		if done {
			return
		}
		if len(o.masks) != depth+1 {
			chk.Panic("mask %v popped out of order: %d masks pushed, expected %d", m, len(o.masks), depth+1)
		}
		o.masks = o.masks[:depth]
		done = true
	}
}

// Masks returns the current mask stack
func (o *Model) Masks() []SliceMask { return append([]SliceMask{}, o.masks...) }

// Held tells whether (a, k, t) is excluded by any mask
func (o *Model) Held(a, k, t int) bool {
	for _, m := range o.masks {
		if !m.Admits(a, k, t) {
			return true
		}
	}
	return false
}

// Free tells whether variable instance i of a family is an unknown under the current masks
func (o *Model) Free(kind VarKind, i int) bool {
	f := o.vars[kind]
	_, a, k, _, t := f.Shape.Tuple(i)
	return !f.Fixed[i] && !o.Held(a, k, t)
}

// Active tells whether constraint instance i of a family takes part under the current masks
func (o *Model) Active(kind ConKind, i int) bool {
	c := o.cons[kind]
	_, a, k, _, t := c.Shape.Tuple(i)
	return c.Exists[i] && c.Active[i] && !o.Held(a, k, t)
}

// Partition counts variable and constraint instances per state. Each instance is counted
// exactly once
type Partition struct {
	FreeVars  int // unknowns
	HeldVars  int // fixed by a mask
	FixedVars int // persistently fixed and not held
	Active    int // constraints taking part
	HeldCons  int // deactivated by a mask
	Inactive  int // absent or declared inactive and not held
}

// Partition returns the current partition of instances
func (o *Model) Partition() (p Partition) {
	for _, f := range o.vars {
		if f == nil {
			continue
		}
		for i := range f.Val {
			_, a, k, _, t := f.Shape.Tuple(i)
			switch {
			case o.Held(a, k, t):
				p.HeldVars++
			case f.Fixed[i]:
				p.FixedVars++
			default:
				p.FreeVars++
			}
		}
	}
	for _, c := range o.cons {
		if c == nil {
			continue
		}
		for i := range c.Exists {
			_, a, k, _, t := c.Shape.Tuple(i)
			switch {
			case !c.Exists[i]:
				p.Inactive++
			case o.Held(a, k, t):
				p.HeldCons++
			case c.Active[i]:
				p.Active++
			default:
				p.Inactive++
			}
		}
	}
	return
}

// NumCons returns the total number of constraint instances
func (o *Model) NumCons() (n int) {
	for _, c := range o.cons {
		if c != nil {
			n += c.Shape.Len()
		}
	}
	return
}
