// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import "github.com/prismesh/go-tetshell/shell"

// Connectivity index: neighbor queries against the sorted VT lists, plus the
// single commit routine every operator funnels through.

// IncidentTets returns v's incident live tets, ascending. The returned slice
// aliases the index; callers must not mutate it.
func (m *Mesh) IncidentTets(v int) []int { return m.VT[v] }

// EdgeNeighbors returns the tets sharing edge (v0,v1): the sorted-merge
// intersection of the two incidence lists, O(deg). Empty means (v0,v1) is
// not a live edge.
func (m *Mesh) EdgeNeighbors(v0, v1 int) []int {
	return intersect(m.VT[v0], m.VT[v1])
}

// FaceNeighbors returns the tets sharing face (v0,v1,v2); at most 2 in a
// manifold mesh.
func (m *Mesh) FaceNeighbors(v0, v1, v2 int) []int {
	return intersect(intersect(m.VT[v0], m.VT[v1]), m.VT[v2])
}

// edgeBoundaryFaces collects the shell triangle ids of boundary faces that
// contain both v0 and v1: for each tet on the edge, face j is such a face
// when it carries a prism id and its opposite vertex conn[j] is neither
// endpoint. A boundary edge has exactly 2; an interior edge none.
func (m *Mesh) edgeBoundaryFaces(v0, v1 int) []int {
	var bnd []int
	for _, t := range m.EdgeNeighbors(v0, v1) {
		tt := &m.Tets[t]
		for j := 0; j < 4; j++ {
			if tt.PrismID[j] != -1 && tt.Conn[j] != v0 && tt.Conn[j] != v1 {
				bnd = append(bnd, tt.PrismID[j])
			}
		}
	}
	return bnd
}

// vertexBoundaryFaces collects the shell triangle ids of boundary faces
// incident to v (faces carrying a prism id whose opposite vertex is not v),
// ascending.
func (m *Mesh) vertexBoundaryFaces(v int) []int {
	var nb []int
	for _, t := range m.VT[v] {
		tt := &m.Tets[t]
		for j := 0; j < 4; j++ {
			if pid := tt.PrismID[j]; pid != -1 && tt.Conn[j] != v {
				nb = insertSorted(nb, pid)
			}
		}
	}
	return nb
}

// commitTets is the single commit step: tombstone the affected tets, append
// the replacement tets, rebuild the touched incidence lists, and re-derive
// prism assignments.
//
// Face identity is keyed by the sorted triple of shell mid ids a face spans,
// not by volume-vertex ids, so identities survive vertex renaming. The
// assigner map is seeded from the affected tets' live prism faces and then
// overridden by (movedTris[i] -> newFids[i]) for edits that moved boundary
// triangles. Two invariants are enforced after reassignment and are fatal:
// an edit that moved triangles must see every moved triangle claimed by a
// new face, and a purely interior edit must not lose any previously-assigned
// mapping entry.
func (m *Mesh) commitTets(affected []int, newTets [][4]int, newFids []int, movedTris []shell.Tri) {
	assigner := map[[3]int]int{}
	for _, ti := range affected {
		tt := &m.Tets[ti]
		tt.Removed = true
		for j := 0; j < 4; j++ {
			if pid := tt.PrismID[j]; pid != -1 {
				face := m.midFace(tt.Conn, j)
				if face[0] == -1 {
					panic(&SanityError{Check: "boundary face with interior corner", Tet: ti})
				}
				if _, dup := assigner[face]; !dup {
					assigner[face] = pid
				}
			}
		}
	}
	if len(newFids) != len(movedTris) {
		panic(&SanityError{Check: "moved-triangle shape mismatch", Tet: -1})
	}
	for i, tri := range movedTris {
		assigner[sort3([3]int(tri))] = newFids[i]
	}

	// Remove the affected tets from every incidence list they appear in.
	seen := map[int]bool{}
	for _, ti := range affected {
		for _, v := range m.Tets[ti].Conn {
			seen[v] = true
		}
	}
	for v := range seen {
		m.VT[v] = minus(m.VT[v], affected)
	}
	for len(m.VT) < len(m.Verts) {
		m.VT = append(m.VT, nil)
	}

	assigned := 0
	for _, conn := range newTets {
		tid := len(m.Tets)
		tt := Tet{Conn: conn, PrismID: [4]int{-1, -1, -1, -1}}
		for j := 0; j < 4; j++ {
			face := m.midFace(conn, j)
			if face[0] == -1 {
				continue
			}
			if pid, ok := assigner[face]; ok {
				tt.PrismID[j] = pid
				assigned++
			}
		}
		m.Tets = append(m.Tets, tt)
		for _, v := range conn {
			m.VT[v] = minus(m.VT[v], affected)
			m.VT[v] = insertSorted(m.VT[v], tid)
		}
	}

	logger.Debug("commit", "affected", len(affected), "new", len(newTets),
		"moved", len(movedTris), "assigned", assigned)
	if assigned < len(movedTris) {
		panic(&SanityError{Check: "moved shell triangle not claimed by any new face", Tet: -1})
	}
	if len(movedTris) == 0 && assigned != len(assigner) {
		panic(&SanityError{Check: "interior edit lost a boundary tag", Tet: -1})
	}
}
