// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/srikanthallu/cats/inp"
	"github.com/srikanthallu/cats/out"
	"github.com/srikanthallu/cats/sim"
)

var (
	verbose     bool
	initOnly    bool
	withVars    bool
	stateIn     string
	stateOut    string
	archivePath string
	key         string
	monitor     []string
	timeout     time.Duration
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(1)
		}
	}()

	// commands
	rootCmd := &cobra.Command{
		Use:          "cats",
		Short:        "catalytic monolith reactor simulations",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show messages")

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "initialize by continuation and solve the full model",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	runCmd.Flags().BoolVar(&initOnly, "init-only", false, "stop after the staged initialization")
	runCmd.Flags().StringVar(&stateIn, "state-in", "", "load parameter state from a JSON file before solving")
	runCmd.Flags().StringVar(&stateOut, "state-out", "", "save parameter state to a JSON file")
	runCmd.Flags().StringVar(&archivePath, "archive", "", "store the state in a SQLite archive")
	runCmd.Flags().StringVar(&key, "key", "", "archive key; default is the simulation key")
	runCmd.Flags().BoolVar(&withVars, "with-vars", false, "include variable values in saved states")
	runCmd.Flags().StringSliceVar(&monitor, "monitor", nil, "species reported at the outlet; default from the input file")
	runCmd.Flags().DurationVar(&timeout, "timeout", 0, "time limit of the whole run; 0 => none")

	infoCmd := &cobra.Command{
		Use:   "info [file]",
		Short: "build the model and print its size and kinetic parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  info,
	}

	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "inspect archives of states",
	}
	archiveCmd.AddCommand(&cobra.Command{
		Use:   "list [db]",
		Short: "list archived keys",
		Args:  cobra.ExactArgs(1),
		RunE:  archiveList,
	})
	archiveCmd.AddCommand(&cobra.Command{
		Use:   "show [db] [key]",
		Short: "print an archived state",
		Args:  cobra.ExactArgs(2),
		RunE:  archiveShow,
	})

	rootCmd.AddCommand(runCmd, infoCmd, archiveCmd)
	if err := rootCmd.Execute(); err != nil {
		chk.Panic("%v", err)
	}
}

func run(cmd *cobra.Command, args []string) (err error) {

	// message
	dat, err := inp.ReadSim(args[0])
	if err != nil {
		return
	}
	if verbose {
		io.PfWhite("\nCats -- catalytic monolith simulations\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "file", args[0],
			"show messages", "verbose", verbose,
			"initialization only", "init-only", initOnly,
			"state input", "state-in", stateIn,
			"state output", "state-out", stateOut,
			"archive", "archive", archivePath,
		))
	}

	// model and solver
	reg := prometheus.NewRegistry()
	main, err := sim.NewMain(dat, reg, verbose)
	if err != nil {
		return
	}
	m := main.Model
	if stateIn != "" {
		if err = out.LoadState(stateIn, m); err != nil {
			return
		}
	}

	// run
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if initOnly {
		err = main.Initialize(ctx)
	} else {
		err = main.Run(ctx)
	}
	if err != nil {
		return
	}

	// breakthrough
	species := monitor
	if len(species) == 0 {
		species = dat.Data.Monitor
	}
	if len(species) > 0 {
		for _, age := range m.Space.Ages.List() {
			for _, temp := range m.Space.Temps.List() {
				res, e := m.Breakthrough(species, age, temp)
				if e != nil {
					return e
				}
				io.Pfyel("\nbreakthrough: age %q temperature %q\n", age, temp)
				io.Pf("%v", res)
			}
		}
	}
	if verbose {
		reportMetrics(reg)
	}

	// save
	if stateOut != "" {
		if err = out.SaveState(stateOut, m, withVars); err != nil {
			return
		}
		io.Pf("> state saved to %q\n", stateOut)
	}
	if archivePath != "" {
		a, e := out.OpenArchive(archivePath)
		if e != nil {
			return e
		}
		defer a.Close()
		k := key
		if k == "" {
			k = dat.Key
		}
		if err = a.Put(k, out.Export(m, withVars)); err != nil {
			return
		}
		io.Pf("> state archived as %q in %q\n", k, a.Path())
	}
	return
}

func info(cmd *cobra.Command, args []string) (err error) {
	dat, err := inp.ReadSim(args[0])
	if err != nil {
		return
	}
	main, err := sim.NewMain(dat, nil, false)
	if err != nil {
		return
	}
	m := main.Model
	p := m.Partition()
	io.Pf("%s\n\n", dat.Data.Desc)
	io.Pf("axial points      = %v\n", m.Axial().Points)
	io.Pf("time points       = %v\n", m.Time().Points)
	io.Pf("variables         = %d (%d fixed)\n", m.NumVars(), p.FixedVars)
	io.Pf("constraints       = %d (%d active)\n", m.NumCons(), p.Active)
	io.Pf("\n%s", m.Net.Info())
	return
}

func archiveList(cmd *cobra.Command, args []string) error {
	a, err := out.OpenArchive(args[0])
	if err != nil {
		return err
	}
	defer a.Close()
	keys, err := a.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		io.Pf("%s\n", k)
	}
	return nil
}

func archiveShow(cmd *cobra.Command, args []string) error {
	a, err := out.OpenArchive(args[0])
	if err != nil {
		return err
	}
	defer a.Close()
	state, err := a.Get(args[1])
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	io.Pf("%s\n", b)
	return nil
}

// reportMetrics prints the solve counters
func reportMetrics(reg *prometheus.Registry) {
	mfs, err := reg.Gather()
	if err != nil {
		io.PfRed("cannot gather metrics: %v\n", err)
		return
	}
	for _, mf := range mfs {
		if mf.GetName() != "cats_solves_total" {
			continue
		}
		for _, mt := range mf.GetMetric() {
			labels := ""
			for _, l := range mt.GetLabel() {
				labels += io.Sf(" %s=%s", l.GetName(), l.GetValue())
			}
			io.Pf("solves%s: %g\n", labels, mt.GetCounter().GetValue())
		}
	}
}
