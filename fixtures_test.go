// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/prismesh/go-tetshell/shell"
)

// Fixtures used across the operator tests.
//
// singleTetMesh: one tet (unit corner simplex) whose 4 faces are all pinned
// to a 4-triangle cage, one pillar per vertex, pillars straddling the mid
// surface so snapping hits the vertex itself.
//
// subdividedTetMesh: the same solid split 1-4 around an interior point, so
// it has interior edges and an interior vertex.
//
// fanMesh: n tets around the interior edge of an n-ring bipyramid with apex
// height h, built without a cage (no boundary pinning) for the pure-topology
// swap and collapse cases.

func cornerCage(t *testing.T) *shell.Cage {
	t.Helper()
	mid := []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}}
	centroid := r3.Vec{X: 0.25, Y: 0.25, Z: 0.25}
	base := make([]r3.Vec, 4)
	top := make([]r3.Vec, 4)
	for i, p := range mid {
		out := r3.Unit(r3.Sub(p, centroid))
		base[i] = r3.Sub(p, r3.Scale(0.1, out))
		top[i] = r3.Add(p, r3.Scale(0.1, out))
	}
	tris := []shell.Tri{{1, 2, 3}, {0, 3, 2}, {0, 1, 3}, {0, 2, 1}}
	cage, err := shell.NewCage(base, mid, top, tris)
	require.NoError(t, err)
	return cage
}

func singleTetMesh(t *testing.T) (*Mesh, *Options) {
	t.Helper()
	cage := cornerCage(t)
	pos := append([]r3.Vec(nil), cage.Mid...)
	m, err := NewMesh(cage, &shell.TrackChecker{MinArea: 1e-12},
		pos, [][4]int{{0, 1, 2, 3}}, []int{0, 1, 2, 3})
	require.NoError(t, err)
	return m, NewOptions(4, 1)
}

func subdividedTetMesh(t *testing.T, center r3.Vec) (*Mesh, *Options) {
	t.Helper()
	cage := cornerCage(t)
	pos := append(append([]r3.Vec(nil), cage.Mid...), center)
	tets := [][4]int{{4, 1, 2, 3}, {0, 4, 2, 3}, {0, 1, 4, 3}, {0, 1, 2, 4}}
	m, err := NewMesh(cage, &shell.TrackChecker{MinArea: 1e-12},
		pos, tets, []int{0, 1, 2, 3, -1})
	require.NoError(t, err)
	return m, NewOptions(4, 1)
}

// fanMesh builds n tets around the edge joining apexes (0,0,±h) over a unit
// ring. Vertex ids: ring 0..n-1, top apex n, bottom apex n+1. No cage, so
// the structural audit is switched off.
func fanMesh(t *testing.T, h float64, n int) (*Mesh, *Options) {
	t.Helper()
	cage, err := shell.NewCage(nil, nil, nil, nil)
	require.NoError(t, err)
	pos := make([]r3.Vec, n+2)
	mids := make([]int, n+2)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pos[i] = r3.Vec{X: math.Cos(a), Y: math.Sin(a)}
		mids[i] = -1
	}
	pos[n] = r3.Vec{Z: h}
	pos[n+1] = r3.Vec{Z: -h}
	mids[n], mids[n+1] = -1, -1
	tets := make([][4]int, n)
	for i := 0; i < n; i++ {
		tets[i] = [4]int{(i + 1) % n, i, n, n + 1}
	}
	m, err := NewMesh(cage, &shell.TrackChecker{}, pos, tets, mids)
	require.NoError(t, err)
	m.SkipAudit = true
	return m, NewOptions(0, 1)
}

// twoTetMesh is the post-swap form of fanMesh(h, 3): the ring triangle as a
// shared face between the two apex tets.
func twoTetMesh(t *testing.T, h float64) (*Mesh, *Options) {
	t.Helper()
	cage, err := shell.NewCage(nil, nil, nil, nil)
	require.NoError(t, err)
	pos := []r3.Vec{
		{X: 1}, {X: -0.5, Y: math.Sqrt(3) / 2}, {X: -0.5, Y: -math.Sqrt(3) / 2},
		{Z: h}, {Z: -h},
	}
	tets := [][4]int{{0, 1, 2, 3}, {0, 2, 1, 4}}
	m, err := NewMesh(cage, &shell.TrackChecker{}, pos, tets, []int{-1, -1, -1, -1, -1})
	require.NoError(t, err)
	m.SkipAudit = true
	return m, NewOptions(0, 1)
}

// octahedronMesh is 4 tets around the pole-to-pole diagonal of a unit
// octahedron, all 6 vertices pinned to an 8-triangle cage. The diagonal is
// an interior edge whose endpoints are both on the boundary. Vertex ids:
// ring 0..3, top pole 4, bottom pole 5.
func octahedronMesh(t *testing.T) (*Mesh, *Options) {
	t.Helper()
	mid := []r3.Vec{
		{X: 1}, {Y: 1}, {X: -1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	base := make([]r3.Vec, 6)
	top := make([]r3.Vec, 6)
	for i, p := range mid {
		base[i] = r3.Scale(0.9, p)
		top[i] = r3.Scale(1.1, p)
	}
	var tris []shell.Tri
	for i := 0; i < 4; i++ {
		tris = append(tris, shell.Tri{i, (i + 1) % 4, 4}, shell.Tri{(i + 1) % 4, i, 5})
	}
	cage, err := shell.NewCage(base, mid, top, tris)
	require.NoError(t, err)

	pos := append([]r3.Vec(nil), mid...)
	tets := make([][4]int, 4)
	for i := 0; i < 4; i++ {
		tets[i] = [4]int{(i + 1) % 4, i, 4, 5}
	}
	m, err := NewMesh(cage, &shell.TrackChecker{MinArea: 1e-12},
		pos, tets, []int{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	return m, NewOptions(6, 1)
}

// snapshot is a deep copy of everything an operator may touch, for the
// rejected-edits-change-nothing assertions.
type snapshot struct {
	verts  []Vertex
	tets   []Tet
	vt     [][]int
	base   []r3.Vec
	mid    []r3.Vec
	top    []r3.Vec
	faces  []shell.Tri
	tracks []shell.TrackSet
	adj    []float64
}

func takeSnapshot(m *Mesh, opts *Options) snapshot {
	s := snapshot{
		verts:  append([]Vertex(nil), m.Verts...),
		tets:   append([]Tet(nil), m.Tets...),
		vt:     make([][]int, len(m.VT)),
		base:   append([]r3.Vec(nil), m.Cage.Base...),
		mid:    append([]r3.Vec(nil), m.Cage.Mid...),
		top:    append([]r3.Vec(nil), m.Cage.Top...),
		faces:  append([]shell.Tri(nil), m.Cage.F...),
		tracks: make([]shell.TrackSet, len(m.Cage.Tracks)),
		adj:    append(opts.TargetAdjustment[:0:0], opts.TargetAdjustment...),
	}
	for i := range m.VT {
		s.vt[i] = append([]int(nil), m.VT[i]...)
	}
	for i := range m.Cage.Tracks {
		s.tracks[i] = m.Cage.Tracks[i].Clone()
	}
	return s
}

func requireUnchanged(t *testing.T, m *Mesh, opts *Options, s snapshot) {
	t.Helper()
	require.Equal(t, s.verts, m.Verts)
	require.Equal(t, s.tets, m.Tets)
	require.Equal(t, s.vt, m.VT)
	require.Equal(t, s.base, m.Cage.Base)
	require.Equal(t, s.mid, m.Cage.Mid)
	require.Equal(t, s.top, m.Cage.Top)
	require.Equal(t, s.faces, m.Cage.F)
	require.Equal(t, s.tracks, m.Cage.Tracks)
	require.Equal(t, s.adj, opts.TargetAdjustment)
}

// rejectAll is a Feasibility stub that declines every patch, for exercising
// the rollback paths of boundary edits.
type rejectAll struct{}

func (rejectAll) AttemptShellOperation(*shell.Cage, float64, []int, []shell.Tri) ([]shell.TrackSet, error) {
	return nil, fmt.Errorf("%w: declined by test stub", shell.ErrInfeasible)
}
