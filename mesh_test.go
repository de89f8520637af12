// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/prismesh/go-tetshell/shell"
)

var centroid = r3.Vec{X: 0.25, Y: 0.25, Z: 0.25}

func TestNewMeshAssignsBoundaryFaces(t *testing.T) {
	m, _ := singleTetMesh(t)
	require.Equal(t, 1, m.LiveTets())
	require.Equal(t, 4, m.LiveVerts())
	marked := 0
	for j := 0; j < 4; j++ {
		if m.Tets[0].PrismID[j] != -1 {
			marked++
		}
	}
	assert.Equal(t, 4, marked)
	for v := range m.VT {
		assert.True(t, sort.IntsAreSorted(m.VT[v]))
	}
	m.Sanity()
}

func TestNewMeshSubdivided(t *testing.T) {
	m, _ := subdividedTetMesh(t, centroid)
	require.Equal(t, 4, m.LiveTets())
	// Each child carries exactly one boundary face; the center has none.
	for i := range m.Tets {
		marked := 0
		for j := 0; j < 4; j++ {
			if m.Tets[i].PrismID[j] != -1 {
				marked++
			}
		}
		assert.Equal(t, 1, marked, "tet %d", i)
	}
	assert.Len(t, m.VT[4], 4)
	m.Sanity()
}

func TestNewMeshRejectsOffPillarVertex(t *testing.T) {
	cage := cornerCage(t)
	pos := append([]r3.Vec(nil), cage.Mid...)
	pos[2].X += 0.05
	_, err := NewMesh(cage, &shell.TrackChecker{}, pos, [][4]int{{0, 1, 2, 3}}, []int{0, 1, 2, 3})
	require.Error(t, err)
}

func TestNewMeshRejectsUnmatchedShellFace(t *testing.T) {
	cage := cornerCage(t)
	pos := append([]r3.Vec(nil), cage.Mid...)
	// Claiming vertex 3 is interior leaves three cage triangles unmatched.
	_, err := NewMesh(cage, &shell.TrackChecker{}, pos, [][4]int{{0, 1, 2, 3}}, []int{0, 1, 2, -1})
	require.Error(t, err)
}

func TestEdgeAndFaceNeighbors(t *testing.T) {
	m, _ := subdividedTetMesh(t, centroid)
	// Outer edge (0,1) is on two children; spoke (0,center) on three.
	assert.Len(t, m.EdgeNeighbors(0, 1), 2)
	assert.Len(t, m.EdgeNeighbors(0, 4), 3)
	// Interior face (0,1,center) separates two children.
	assert.Len(t, m.FaceNeighbors(0, 1, 4), 2)
	// Boundary face (0,1,2) belongs to one.
	assert.Len(t, m.FaceNeighbors(0, 1, 2), 1)

	assert.Len(t, m.edgeBoundaryFaces(0, 1), 2)
	assert.Empty(t, m.edgeBoundaryFaces(0, 4))
	assert.Len(t, m.vertexBoundaryFaces(0), 3)
	assert.Len(t, m.vertexBoundaryFaces(4), 0)
}

func TestSanityCatchesInversion(t *testing.T) {
	m, _ := subdividedTetMesh(t, centroid)
	m.Tets[0].Conn[0], m.Tets[0].Conn[1] = m.Tets[0].Conn[1], m.Tets[0].Conn[0]
	require.Panics(t, func() { m.Sanity() })
}

func TestSanityCatchesDriftedBoundaryVertex(t *testing.T) {
	m, _ := singleTetMesh(t)
	m.Verts[1].Pos.Z += 1e-3
	require.Panics(t, func() { m.Sanity() })
}

func TestSanityCatchesBrokenIncidence(t *testing.T) {
	m, _ := subdividedTetMesh(t, centroid)
	m.VT[0] = m.VT[0][:1]
	require.Panics(t, func() { m.Sanity() })
}

func TestCompactReclaimsTombstones(t *testing.T) {
	m, opts := subdividedTetMesh(t, centroid)
	require.NoError(t, CollapseEdge(m, opts, 4, 0, 10))
	require.Equal(t, 1, m.LiveTets())
	require.Equal(t, 5, len(m.Verts))

	vertMap, tetMap := m.Compact(opts)
	assert.Equal(t, 4, len(m.Verts))
	assert.Equal(t, 1, len(m.Tets))
	assert.Equal(t, -1, vertMap[4])
	assert.Len(t, vertMap, 5)
	assert.Len(t, tetMap, 5)
	assert.Equal(t, 4, m.Cage.LiveFaces())
	assert.Equal(t, 4, len(m.Cage.F))
	m.Sanity()
}
