// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/srikanthallu/cats/errs"
	"github.com/stretchr/testify/require"
)

func Test_archive01(tst *testing.T) {

	chk.PrintTitle("archive01. put, get and keys")

	path := filepath.Join(tst.TempDir(), "db", "cats.db")
	a, err := OpenArchive(path)
	require.NoError(tst, err)
	require.Equal(tst, path, a.Path())

	m := build(tst)
	perturb(tst, m)
	st := Export(m, true)
	require.NoError(tst, a.Put("run-b", st))
	require.NoError(tst, a.Put("run-a", Export(build(tst), false)))

	keys, err := a.Keys()
	require.NoError(tst, err)
	chk.Strings(tst, "keys", keys, []string{"run-a", "run-b"})

	got, err := a.Get("run-b")
	require.NoError(tst, err)
	require.Equal(tst, encode(tst, st), encode(tst, got))

	// import the archived state
	m2 := build(tst)
	require.NoError(tst, Import(m2, got))
	require.Equal(tst, encode(tst, st), encode(tst, Export(m2, true)))

	// replace
	st.Transport.Ga = 1
	require.NoError(tst, a.Put("run-b", st))
	got, err = a.Get("run-b")
	require.NoError(tst, err)
	chk.Float64(tst, "ga", 1e-15, got.Transport.Ga, 1)

	// missing keys
	_, err = a.Get("run-c")
	require.True(tst, errors.Is(err, errs.ErrUnknownName))
	require.NoError(tst, a.Delete("run-a"))
	require.True(tst, errors.Is(a.Delete("run-a"), errs.ErrUnknownName))
	require.NoError(tst, a.Close())

	// reopen
	a, err = OpenArchive(path)
	require.NoError(tst, err)
	defer a.Close()
	keys, err = a.Keys()
	require.NoError(tst, err)
	chk.Strings(tst, "keys", keys, []string{"run-b"})
}
