// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a YAML or JSON simulation file
package inp

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/srikanthallu/cats/mdl"
	"github.com/srikanthallu/cats/rxn"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string   `json:"desc" yaml:"desc"`       // description of simulation
	Monitor []string `json:"monitor" yaml:"monitor"` // species reported at the outlet after a run
}

// GridData holds the definition of the axial or time domain
type GridData struct {
	Start  float64   `json:"start" yaml:"start"`   // first point
	End    float64   `json:"end" yaml:"end"`       // last point
	Points []float64 `json:"points" yaml:"points"` // extra points; e.g. measurement locations
}

// TransportData holds the mass transfer parameters
type TransportData struct {
	Eb float64 `json:"eb" yaml:"eb"` // bulk porosity
	Ew float64 `json:"ew" yaml:"ew"` // washcoat porosity
	V  float64 `json:"v" yaml:"v"`   // linear velocity
	Km float64 `json:"km" yaml:"km"` // mass transfer coefficient
	Ga float64 `json:"ga" yaml:"ga"` // surface to volume ratio
}

// ZoneData restricts a reaction to part of the axial domain
type ZoneData struct {
	Lo     float64 `json:"lo" yaml:"lo"`         // first location
	Hi     float64 `json:"hi" yaml:"hi"`         // last location
	Invert bool    `json:"invert" yaml:"invert"` // keep the reaction outside [lo, hi] instead
}

// ReactionData holds the definition of one reaction
type ReactionData struct {
	rxn.Info `yaml:",inline"`
	Name     string                `json:"name" yaml:"name"`     // unique name
	Kind     string                `json:"kind" yaml:"kind"`     // arrhenius or equilibrium-arrhenius
	Bounds   map[string][2]float64 `json:"bounds" yaml:"bounds"` // parameter => [lower, upper]
	Fixed    bool                  `json:"fixed" yaml:"fixed"`   // reaction is not to be fitted
	Zone     *ZoneData             `json:"zone" yaml:"zone"`     // optional zoning
}

// SiteData holds the definition of one site
type SiteData struct {
	Name    string             `json:"name" yaml:"name"`       // site name
	Density map[string]float64 `json:"density" yaml:"density"` // age => maximum site density
	Balance map[string]float64 `json:"balance" yaml:"balance"` // surface species => sites occupied
}

// DiscData holds the discretization settings
type DiscData struct {
	Method    string `json:"method" yaml:"method"`       // "fd" or "oc"
	Elems     int    `json:"elems" yaml:"elems"`         // number of axial elements
	TimeSteps int    `json:"timesteps" yaml:"timesteps"` // number of time steps
	ColPoints int    `json:"colpoints" yaml:"colpoints"` // collocation points per element (oc)
}

// RampData holds a linear temperature ramp
type RampData struct {
	T0   float64 `json:"t0" yaml:"t0"`     // start time
	T1   float64 `json:"t1" yaml:"t1"`     // end time
	Tend float64 `json:"tend" yaml:"tend"` // final temperature
}

// SeriesData holds a time dependent inlet condition
type SeriesData struct {
	Initial float64         `json:"initial" yaml:"initial"` // value before the first pair
	Pairs   []mdl.TimeValue `json:"pairs" yaml:"pairs"`     // (time, value) pairs
}

// CondData holds the conditions of one (age, temperature) pair
type CondData struct {
	Age         string                 `json:"age" yaml:"age"`                 // age label
	Temp        string                 `json:"temp" yaml:"temp"`               // temperature label
	Temperature float64                `json:"temperature" yaml:"temperature"` // isothermal value [K]; 0 => keep default
	Ramp        *RampData              `json:"ramp" yaml:"ramp"`               // optional ramp after Temperature
	IC          map[string]float64     `json:"ic" yaml:"ic"`                   // species => initial value
	BC          map[string]float64     `json:"bc" yaml:"bc"`                   // gas species => constant inlet value
	Series      map[string]*SeriesData `json:"series" yaml:"series"`           // gas species => time dependent inlet
}

// SolverData holds nonlinear solver data
type SolverData struct {

	// nonlinear solver
	Type    string  `json:"type" yaml:"type"`       // nonlinear solver type; e.g. "newton"
	NmaxIt  int     `json:"nmaxit" yaml:"nmaxit"`   // number of max iterations
	Atol    float64 `json:"atol" yaml:"atol"`       // absolute tolerance
	Rtol    float64 `json:"rtol" yaml:"rtol"`       // relative tolerance
	FbTol   float64 `json:"fbtol" yaml:"fbtol"`     // tolerance for convergence on fb
	FbMin   float64 `json:"fbmin" yaml:"fbmin"`     // minimum value of fb
	DvgCtrl bool    `json:"dvgctrl" yaml:"dvgctrl"` // use divergence control
	NdvgMax int     `json:"ndvgmax" yaml:"ndvgmax"` // max number of continued divergence
	CteTg   bool    `json:"ctetg" yaml:"ctetg"`     // use constant tangent (modified Newton) during iterations
	ShowR   bool    `json:"showr" yaml:"showr"`     // show residual
	FdStep  float64 `json:"fdstep" yaml:"fdstep"`   // relative step of the finite difference Jacobian

	// continuation
	SliceTimeout float64 `json:"slicetimeout" yaml:"slicetimeout"` // max seconds per slice solve; 0 => no limit

	// constants
	Eps float64 `json:"eps" yaml:"eps"` // smallest number satisfying 1.0 + ϵ > 1.0

	// derived
	Itol float64 `json:"-" yaml:"-"` // iterations tolerance
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data       Data            `json:"data" yaml:"data"`             // global information
	Axial      GridData        `json:"axial" yaml:"axial"`           // axial domain
	Time       GridData        `json:"time" yaml:"time"`             // time domain
	Ages       []string        `json:"ages" yaml:"ages"`             // age labels
	Temps      []string        `json:"temps" yaml:"temps"`           // temperature labels
	Gas        []string        `json:"gas" yaml:"gas"`               // gas species
	Surface    []string        `json:"surface" yaml:"surface"`       // surface species
	Sites      []*SiteData     `json:"sites" yaml:"sites"`           // sites
	Transport  TransportData   `json:"transport" yaml:"transport"`   // mass transfer
	Reactions  []*ReactionData `json:"reactions" yaml:"reactions"`   // reactions
	Disc       DiscData        `json:"disc" yaml:"disc"`             // discretization
	Conditions []*CondData     `json:"conditions" yaml:"conditions"` // conditions per (age, temperature)
	Solver     SolverData      `json:"solver" yaml:"solver"`         // nonlinear solver data

	// derived
	Key string `json:"-" yaml:"-"` // simulation key; e.g. scr01.yaml => scr01
	Dir string `json:"-" yaml:"-"` // directory of the input file
}

// ReadSim reads all simulation data from a .yaml, .yml, .json or .sim file
func ReadSim(simfilepath string) (o *Simulation, err error) {
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}
	o, err = ParseSim(b, filepath.Ext(simfilepath))
	if err != nil {
		return nil, chk.Err("ReadSim: cannot decode simulation file %q:\n%v", simfilepath, err)
	}
	o.Key = io.FnKey(filepath.Base(simfilepath))
	o.Dir = os.ExpandEnv(filepath.Dir(simfilepath))
	return
}

// ParseSim decodes simulation data; ext selects the format (".json" and ".sim" => JSON, otherwise YAML)
func ParseSim(b []byte, ext string) (o *Simulation, err error) {

	// set default values
	o = new(Simulation)
	o.SetDefault()

	// decode
	switch strings.ToLower(ext) {
	case ".json", ".sim":
		err = json.Unmarshal(b, o)
	default:
		err = yaml.Unmarshal(b, o)
	}
	if err != nil {
		return nil, err
	}

	// set solver constants
	o.Solver.PostProcess()
	return
}

// WriteSim writes simulation data in YAML format
func (o *Simulation) WriteSim(simfilepath string) error {
	b, err := yaml.Marshal(o)
	if err != nil {
		return err
	}
	return os.WriteFile(simfilepath, b, 0644)
}

// SetDefault sets default values
func (o *Simulation) SetDefault() {
	o.Transport.SetDefault()
	o.Disc.SetDefault()
	o.Solver.SetDefault()
}

// SetDefault sets default transport parameters
func (o *TransportData) SetDefault() {
	o.Eb = mdl.DefaultEb
	o.Ew = mdl.DefaultEw
	o.V = mdl.DefaultV
	o.Km = mdl.DefaultKm
	o.Ga = mdl.DefaultGa
}

// SetDefault sets default discretization settings
func (o *DiscData) SetDefault() {
	o.Method = "fd"
	o.Elems = 20
	o.TimeSteps = 100
	o.ColPoints = 1
}

// SetDefault sets defaults values
func (o *SolverData) SetDefault() {

	// nonlinear solver
	o.Type = "newton"
	o.NmaxIt = 20
	o.Atol = 1e-6
	o.Rtol = 1e-6
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.NdvgMax = 20
	o.FdStep = 1e-7

	// continuation
	o.SliceTimeout = 60

	// constants
	o.Eps = 1e-16
}

// PostProcess performs a post-processing of the just read file
func (o *SolverData) PostProcess() {

	// iterations tolerance
	o.Itol = utl.Max(10.0*o.Eps/o.Rtol, utl.Min(0.01, math.Sqrt(o.Rtol)))
}

// Timeout returns the time limit of each slice solve; zero means no limit
func (o *SolverData) Timeout() time.Duration {
	return time.Duration(o.SliceTimeout * float64(time.Second))
}
