// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rxn implements the reaction network: kinetic parameters, stoichiometry, orders and rates
package rxn

import (
	"math"
	"strings"

	"github.com/srikanthallu/cats/errs"
)

// R is the gas constant [J/mol/K]
const R = 8.3145

// Kind is the kinetic type of a reaction
type Kind int

// kinds
const (
	Arrhenius Kind = iota
	EquilibriumArrhenius
)

func (o Kind) String() string {
	switch o {
	case Arrhenius:
		return "arrhenius"
	case EquilibriumArrhenius:
		return "equilibrium-arrhenius"
	}
	return "unknown"
}

// Valid tells whether o is a known kind
func (o Kind) Valid() bool { return o == Arrhenius || o == EquilibriumArrhenius }

// ParseKind converts a name into a Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "arrhenius":
		return Arrhenius, nil
	case "equilibrium-arrhenius", "equilibrium_arrhenius", "equ_arrhenius", "equilibriumarrhenius":
		return EquilibriumArrhenius, nil
	}
	return 0, errs.InvalidKind("", name)
}

// RateConst computes k = A⋅T^B⋅exp(-E/R/T)
func RateConst(A, B, E, T float64) float64 {
	return A * math.Pow(T, B) * math.Exp(-E/R/T)
}

// EquilibriumConsts computes the reverse constants from the forward ones and ΔH, ΔS
//
//	Ar = Af⋅exp(-ΔS/R)
//	Er = Ef - ΔH
func EquilibriumConsts(Af, Ef, dH, dS float64) (Ar, Er float64) {
	return Af * math.Exp(-dS/R), Ef - dH
}
