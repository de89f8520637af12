// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package tetshell is the local-remeshing engine of a tetrahedral mesh whose
// boundary is pinned to a prism shell surface. It provides five local
// operators (edge split, edge collapse, 3-2 edge swap, 2-3 face swap, vertex
// smoothing), each wrapped in an all-or-nothing commit discipline: every
// tentative edit is gated through orientation, quality and size checks, and
// boundary edits additionally through the shell feasibility check, before any
// shared state is touched. A failed edit leaves mesh and shell bit-identical
// to the pre-call state.
package tetshell

import (
	"fmt"
	"math/big"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/prismesh/go-tetshell/shell"
)

// Vertex is one tet-mesh vertex. MidID is -1 for interior vertices, otherwise
// the index of the matching vertex on the shell's middle surface; while
// editing, Pos is authoritative and is pushed back to the shell on every
// shell-affecting commit.
type Vertex struct {
	Pos   r3.Vec
	MidID int

	// PosR is the exact shadow position; nil once the vertex has been
	// rounded to Pos. See round.go.
	PosR *[3]big.Rat
}

// Tet is one tetrahedron. Conn order carries orientation. PrismID[j] is -1
// for an interior face j, otherwise the shell triangle that face represents,
// in the (j+k+1)%4 face convention. Removal is a tombstone; slots are
// reclaimed only by Compact.
type Tet struct {
	Conn    [4]int
	PrismID [4]int
	Removed bool
}

// Mesh bundles the vertex and tet arenas, the vertex-to-tet connectivity
// index, and the shell cage the boundary is pinned to. It is the context
// object every operator runs against; operators are not safe for concurrent
// use.
type Mesh struct {
	Verts []Vertex
	Tets  []Tet
	// VT[v] lists v's incident live tets, ascending and de-duplicated.
	VT [][]int

	Cage  *shell.Cage
	Check shell.Feasibility

	// SkipAudit disables the post-commit sanity audit. The audit is cheap
	// relative to the feasibility check but quadratic bookkeeping on large
	// meshes; production drivers disable it after shakedown.
	SkipAudit bool
}

// NewMesh builds a mesh over the cage from vertex positions, tet connectivity
// and the per-vertex shell mid ids (-1 for interior). Boundary faces are
// matched to shell triangles by their sorted mid-id triple; it is an error if
// the number of matched faces differs from the cage's live triangle count.
func NewMesh(cage *shell.Cage, check shell.Feasibility, pos []r3.Vec, tets [][4]int, midID []int) (*Mesh, error) {
	if len(pos) != len(midID) {
		return nil, fmt.Errorf("tetshell: %d positions but %d mid ids", len(pos), len(midID))
	}
	m := &Mesh{
		Verts: make([]Vertex, len(pos)),
		Tets:  make([]Tet, len(tets)),
		VT:    make([][]int, len(pos)),
		Cage:  cage,
		Check: check,
	}
	for i := range pos {
		m.Verts[i] = Vertex{Pos: pos[i], MidID: midID[i]}
		if midID[i] != -1 && pos[i] != cage.Mid[midID[i]] {
			return nil, fmt.Errorf("tetshell: vertex %d disagrees with shell mid %d", i, midID[i])
		}
	}

	finder := make(map[[3]int]int, len(cage.F))
	for i, f := range cage.F {
		if f.IsRetired() {
			continue
		}
		finder[sort3([3]int(f))] = i
	}
	marks := 0
	for i, t := range tets {
		tt := Tet{Conn: t, PrismID: [4]int{-1, -1, -1, -1}}
		for j := 0; j < 4; j++ {
			var face [3]int
			for k := 0; k < 3; k++ {
				face[k] = midID[t[(j+k+1)%4]]
			}
			face = sort3(face)
			if face[0] < 0 {
				continue // not a boundary face
			}
			if fid, ok := finder[face]; ok {
				tt.PrismID[j] = fid
				marks++
			}
		}
		m.Tets[i] = tt
	}
	if marks != cage.LiveFaces() {
		return nil, fmt.Errorf("tetshell: %d boundary faces matched but shell has %d triangles",
			marks, cage.LiveFaces())
	}

	for i, t := range tets {
		for _, v := range t {
			m.VT[v] = append(m.VT[v], i)
		}
	}
	for v := range m.VT {
		sort.Ints(m.VT[v])
	}
	return m, nil
}

// LiveTets counts non-tombstoned tets.
func (m *Mesh) LiveTets() int {
	n := 0
	for i := range m.Tets {
		if !m.Tets[i].Removed {
			n++
		}
	}
	return n
}

// LiveVerts counts vertices with at least one incident live tet.
func (m *Mesh) LiveVerts() int {
	n := 0
	for v := range m.VT {
		if len(m.VT[v]) > 0 {
			n++
		}
	}
	return n
}

// midFace returns face j of conn keyed by shell mid ids, ascending. The
// first entry is -1 when any corner is interior.
func (m *Mesh) midFace(conn [4]int, j int) [3]int {
	var f [3]int
	for k := 0; k < 3; k++ {
		f[k] = m.Verts[conn[(j+k+1)%4]].MidID
	}
	return sort3(f)
}
