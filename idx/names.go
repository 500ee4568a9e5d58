// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idx

import (
	"strings"

	"github.com/srikanthallu/cats/errs"
)

// Handle is a compact identifier interned from a name
type Handle int

// Names is a bidirectional name <-> handle table
type Names struct {
	set   string            // name of the set; e.g. "gas species"
	names []string          // handle => name
	index map[string]Handle // name => handle
}

// NewNames interns a list of unique non-empty names
func NewNames(set string, names ...string) (o *Names, err error) {
	if len(names) == 0 {
		return nil, errs.Domain(set+" size", 0, "at least one name is required")
	}
	o = &Names{set: set, names: make([]string, len(names)), index: make(map[string]Handle, len(names))}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, errs.Domain(set+" name", float64(i), "names cannot be empty")
		}
		if _, dup := o.index[name]; dup {
			return nil, errs.Domain(set+" name "+name, float64(i), "names must be unique")
		}
		o.names[i] = name
		o.index[name] = Handle(i)
	}
	return
}

// Set returns the name of the set
func (o *Names) Set() string { return o.set }

// Len returns the number of names
func (o *Names) Len() int {
	if o == nil {
		return 0
	}
	return len(o.names)
}

// Name returns the name corresponding to h
func (o *Names) Name(h Handle) string { return o.names[h] }

// Has tells whether name is registered
func (o *Names) Has(name string) bool {
	if o == nil {
		return false
	}
	_, ok := o.index[name]
	return ok
}

// Handle returns the handle corresponding to name
func (o *Names) Handle(name string) (Handle, error) {
	if o == nil {
		return 0, errs.UnknownName("empty set", name)
	}
	h, ok := o.index[name]
	if !ok {
		return 0, errs.UnknownName(o.set, name)
	}
	return h, nil
}

// List returns a copy of all names in registration order
func (o *Names) List() []string {
	if o == nil {
		return nil
	}
	return append([]string{}, o.names...)
}
