// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/prismesh/go-tetshell/shell"
)

// CollapseEdge collapses v1 onto v2: tets containing both endpoints are
// deleted, tets containing only v1 get v1 replaced by v2, and on the
// boundary the two shell triangles losing the edge are merged away with the
// rest of v1's incident triangles remapped to v2.
//
// The precondition is deliberately asymmetric: a boundary vertex may not be
// collapsed onto an interior one, while interior-onto-boundary is permitted.
// Acceptance requires the link condition (the affected region's vertex set
// shrinks by exactly one), validity of every replacement tet, the size
// budget, and the quality rule: a regression is allowed only under the
// absolute CollapseQuality budget.
func CollapseEdge(m *Mesh, opts *Options, v1, v2 int, sizeBudget float64) error {
	if len(m.EdgeNeighbors(v1, v2)) == 0 {
		return fmt.Errorf("%w: (%d,%d)", ErrNoSuchEdge, v1, v2)
	}
	mid1, mid2 := m.Verts[v1].MidID, m.Verts[v2].MidID
	logger.Debug("collapse", "v1", v1, "v2", v2, "mid1", mid1, "mid2", mid2)

	if mid1 != -1 && mid2 == -1 {
		// Erasing a boundary vertex into the interior would orphan its
		// shell pillar.
		return fmt.Errorf("%w: collapse of boundary %d onto interior %d", ErrBoundary, v1, v2)
	}
	bndFaces := m.edgeBoundaryFaces(v1, v2)
	if len(bndFaces) == 0 && mid1 != -1 && mid2 != -1 {
		// Interior edge connecting two boundary vertices: merging them would
		// pinch the shell.
		return fmt.Errorf("%w: interior edge joins boundary vertices %d,%d", ErrBoundary, v1, v2)
	}

	affected := append([]int(nil), m.VT[v1]...)
	oldTets := make([][4]int, len(affected))
	for i, t := range affected {
		oldTets[i] = m.Tets[t].Conn
	}
	beforeQuality := m.maxQuality(oldTets)

	var newTets [][4]int
	for _, t := range affected {
		conn := m.Tets[t].Conn
		i1 := indexOf4(conn, v1)
		if i1 < 0 {
			panic(&SanityError{Check: "incidence list names tet without vertex", Tet: t})
		}
		if indexOf4(conn, v2) >= 0 {
			continue // tets on the edge itself are deleted
		}
		conn[i1] = v2
		newTets = append(newTets, conn)
	}

	// Link condition: the region must lose exactly one vertex.
	oldVerts := map[int]struct{}{}
	newVerts := map[int]struct{}{}
	for _, t := range oldTets {
		for _, v := range t {
			oldVerts[v] = struct{}{}
		}
	}
	for _, t := range newTets {
		for _, v := range t {
			newVerts[v] = struct{}{}
		}
	}
	if len(newVerts) != len(oldVerts)-1 {
		return fmt.Errorf("%w: collapse (%d,%d)", ErrLinkCondition, v1, v2)
	}

	afterQuality := m.maxQuality(newTets)
	if afterQuality > opts.CollapseQuality && beforeQuality < afterQuality {
		return fmt.Errorf("%w: %.3g -> %.3g", ErrQuality, beforeQuality, afterQuality)
	}
	if s := m.maxSize(newTets); s > sizeBudget {
		return fmt.Errorf("%w: %.3g > %.3g", ErrSize, s, sizeBudget)
	}
	for _, t := range newTets {
		if !m.tetValidConn(t) {
			return fmt.Errorf("%w: collapse (%d,%d)", ErrInverted, v1, v2)
		}
	}

	var oldFids, newFids []int
	var movedTris []shell.Tri
	if len(bndFaces) != 0 {
		oldFids = m.vertexBoundaryFaces(v1)
		for _, f := range oldFids {
			tri := m.Cage.F[f]
			if tri.Has(mid2) {
				continue // the two triangles losing the edge vanish
			}
			tri.Replace(mid1, mid2)
			movedTris = append(movedTris, tri)
			newFids = append(newFids, f)
		}
		if len(oldFids) != len(newFids)+2 {
			return fmt.Errorf("%w: boundary fan around %d is non-manifold", ErrBoundary, v1)
		}

		tracks, err := m.Check.AttemptShellOperation(m.Cage, -1, oldFids, movedTris)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrShellInfeasible, err)
		}
		m.Cage.CommitPatch(oldFids, newFids, movedTris, tracks)
		// Temporarily alias v1 to v2's pillar so the affected tets' boundary
		// faces key identically to the replacement faces during commit.
		m.Verts[v1].MidID = mid2
	}

	m.VT[v1] = nil
	m.commitTets(affected, newTets, newFids, movedTris)

	m.Verts[v1].Pos = r3.Vec{}
	m.Verts[v1].MidID = -1
	m.Verts[v1].PosR = nil

	m.audit()
	return nil
}
