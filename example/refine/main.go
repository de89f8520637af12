// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

//go:build example
// +build example

// Command refine remeshes a synthetic octahedral sphere shell: repeated
// split / collapse / swap / smooth rounds until the sizing field is met,
// compacting between rounds.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	tetshell "github.com/prismesh/go-tetshell"
	"github.com/prismesh/go-tetshell/shell"
)

func sphereMesh(thickness float64) (*tetshell.Mesh, error) {
	mid := []r3.Vec{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	tris := []shell.Tri{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}
	base := make([]r3.Vec, len(mid))
	top := make([]r3.Vec, len(mid))
	for i, p := range mid {
		base[i] = r3.Scale(1-thickness/2, p)
		top[i] = r3.Scale(1+thickness/2, p)
	}
	cage, err := shell.NewCage(base, mid, top, tris)
	if err != nil {
		return nil, err
	}

	pos := append(append([]r3.Vec(nil), mid...), r3.Vec{})
	midID := []int{0, 1, 2, 3, 4, 5, -1}
	center := 6
	tets := make([][4]int, len(tris))
	for i, t := range tris {
		tets[i] = [4]int{center, t[0], t[1], t[2]}
	}
	return tetshell.NewMesh(cage, &shell.TrackChecker{MinArea: 1e-12}, pos, tets, midID)
}

func run(targetEdge float64, rounds int, optsPath string) error {
	var opts *tetshell.Options
	var err error
	if optsPath != "" {
		if opts, err = tetshell.LoadOptions(optsPath); err != nil {
			return err
		}
	} else {
		opts = tetshell.NewOptions(6, targetEdge)
	}

	m, err := sphereMesh(opts.TargetThickness)
	if err != nil {
		return err
	}
	opts.ResizeAdjustment(m.Cage.NumVerts())

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	tetshell.SetLogger(log)

	for round := 0; round < rounds; round++ {
		splits, err := tetshell.SplitPass(m, opts)
		if err != nil {
			return err
		}
		if _, err := tetshell.CollapsePass(m, opts); err != nil {
			return err
		}
		if _, err := tetshell.SwapEdgePass(m, opts); err != nil {
			return err
		}
		if _, err := tetshell.SwapFacePass(m, opts); err != nil {
			return err
		}
		if _, err := tetshell.SmoothPass(m, opts); err != nil {
			return err
		}
		m.Compact(opts)
		log.Info("round", "n", round, "verts", m.LiveVerts(), "tets", m.LiveTets())
		if splits == 0 {
			break
		}
	}
	fmt.Printf("final mesh: %d vertices, %d tets, %d shell faces\n",
		m.LiveVerts(), m.LiveTets(), m.Cage.LiveFaces())
	return nil
}

func main() {
	var (
		targetEdge float64
		rounds     int
		optsPath   string
	)
	cmd := &cobra.Command{
		Use:   "refine",
		Short: "remesh a synthetic sphere shell to a target edge length",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(targetEdge, rounds, optsPath)
		},
	}
	cmd.Flags().Float64Var(&targetEdge, "edge", 0.5, "target edge length")
	cmd.Flags().IntVar(&rounds, "rounds", 5, "maximum remeshing rounds")
	cmd.Flags().StringVar(&optsPath, "options", "", "YAML options file")
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
