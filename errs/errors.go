// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs defines the error types returned while building and solving a monolith model
package errs

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/io"
)

// sentinels; match with errors.Is
var (
	ErrPrerequisite = errors.New("cats: prerequisite not satisfied")
	ErrInvalidKind  = errors.New("cats: invalid reaction kind")
	ErrMissingField = errors.New("cats: missing configuration field")
	ErrDomain       = errors.New("cats: value out of domain")
	ErrConvergence  = errors.New("cats: solver did not converge")
	ErrUnknownName  = errors.New("cats: unknown name")
)

// PrerequisiteError reports a setup step invoked before its required predecessor
type PrerequisiteError struct {
	Step     string // step that was called; e.g. DefineTemperature
	Requires string // what has to happen first; e.g. age set
}

func (o *PrerequisiteError) Error() string {
	return io.Sf("%s: requires %s", o.Step, o.Requires)
}

func (o *PrerequisiteError) Unwrap() error { return ErrPrerequisite }

// Prerequisite returns a new PrerequisiteError
func Prerequisite(step, requires string) error {
	return &PrerequisiteError{Step: step, Requires: requires}
}

// InvalidKindError reports an unrecognised kinetic kind
type InvalidKindError struct {
	Reaction string
	Kind     string
}

func (o *InvalidKindError) Error() string {
	if o.Reaction == "" {
		return io.Sf("invalid reaction kind %q", o.Kind)
	}
	return io.Sf("reaction %q: invalid kind %q", o.Reaction, o.Kind)
}

func (o *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// InvalidKind returns a new InvalidKindError
func InvalidKind(reaction, kind string) error {
	return &InvalidKindError{Reaction: reaction, Kind: kind}
}

// MissingFieldError reports a reaction configuration without a required field
type MissingFieldError struct {
	Reaction string
	Field    string
}

func (o *MissingFieldError) Error() string {
	return io.Sf("reaction %q: missing field %q", o.Reaction, o.Field)
}

func (o *MissingFieldError) Unwrap() error { return ErrMissingField }

// MissingField returns a new MissingFieldError
func MissingField(reaction, field string) error {
	return &MissingFieldError{Reaction: reaction, Field: field}
}

// DomainError reports an out-of-range physical quantity
type DomainError struct {
	Quantity string
	Value    float64
	Reason   string
}

func (o *DomainError) Error() string {
	return io.Sf("%s = %g: %s", o.Quantity, o.Value, o.Reason)
}

func (o *DomainError) Unwrap() error { return ErrDomain }

// Domain returns a new DomainError
func Domain(quantity string, value float64, reason string) error {
	return &DomainError{Quantity: quantity, Value: value, Reason: reason}
}

// UnknownNameError reports an identifier that is not registered in a set
type UnknownNameError struct {
	Set  string
	Name string
}

func (o *UnknownNameError) Error() string {
	return io.Sf("%q is not in the %s", o.Name, o.Set)
}

func (o *UnknownNameError) Unwrap() error { return ErrUnknownName }

// UnknownName returns a new UnknownNameError
func UnknownName(set, name string) error {
	return &UnknownNameError{Set: set, Name: name}
}

// ConvergenceError reports a slice or full solve that failed.
// Age and Temp are "all" and Time is NaN for the joint solve
type ConvergenceError struct {
	Age    string
	Temp   string
	Time   float64
	Status string
	Cause  error
}

func (o *ConvergenceError) Error() string {
	at := "all"
	if !math.IsNaN(o.Time) {
		at = io.Sf("%g", o.Time)
	}
	msg := io.Sf("solve failed at (age=%s, temp=%s, time=%s): %s", o.Age, o.Temp, at, o.Status)
	if o.Cause != nil {
		msg += io.Sf(":\n%v", o.Cause)
	}
	return msg
}

func (o *ConvergenceError) Unwrap() []error {
	if o.Cause == nil {
		return []error{ErrConvergence}
	}
	return []error{ErrConvergence, o.Cause}
}

// Convergence returns a new ConvergenceError for a slice
func Convergence(age, temp string, time float64, status string, cause error) error {
	return &ConvergenceError{Age: age, Temp: temp, Time: time, Status: status, Cause: cause}
}
