// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/prismesh/go-tetshell/shell"
)

// SplitEdge inserts the midpoint of edge (v0,v1) and replaces each incident
// tet with two copies, one keeping each endpoint. If the edge lies on the
// boundary (exactly 2 adjacent shell triangles), a shell vertex is inserted
// at the midpoint of the endpoints' base/mid/top pillars and the 2 triangles
// split into 4, subject to the feasibility check. On any gate failure all
// tentative state is rolled back and the call reports why.
func SplitEdge(m *Mesh, opts *Options, v0, v1 int) error {
	affected := m.EdgeNeighbors(v0, v1)
	if len(affected) == 0 {
		return fmt.Errorf("%w: (%d,%d)", ErrNoSuchEdge, v0, v1)
	}
	logger.Debug("split", "v0", v0, "v1", v1, "incident", len(affected))

	bndPris := m.edgeBoundaryFaces(v0, v1)
	if n := len(bndPris); n != 0 && n != 2 {
		return fmt.Errorf("%w: edge (%d,%d) lies on %d shell triangles", ErrBoundary, v0, v1, n)
	}

	vx := len(m.Verts)
	newTets := make([][4]int, 0, 2*len(affected))
	for _, t := range affected {
		a := m.Tets[t].Conn
		replace4(&a, v0, vx)
		b := m.Tets[t].Conn
		replace4(&b, v1, vx)
		newTets = append(newTets, a, b)
	}

	va, vb := &m.Verts[v0], &m.Verts[v1]
	mid := r3.Scale(0.5, r3.Add(va.Pos, vb.Pos))
	m.Verts = append(m.Verts, Vertex{Pos: mid, MidID: -1, PosR: exactMidpoint(va, vb)})

	cageAppended := false
	rollback := func() {
		m.Verts = m.Verts[:vx]
		if cageAppended {
			m.Cage.PopVertex()
			opts.TargetAdjustment = opts.TargetAdjustment[:len(opts.TargetAdjustment)-1]
		}
	}

	pv0, pv1 := va.MidID, vb.MidID
	pvx := -1
	if len(bndPris) != 0 {
		if pv0 < 0 || pv1 < 0 {
			panic(&SanityError{Check: "boundary edge with interior endpoint", Tet: -1})
		}
		pvx = m.Cage.AppendVertex(
			r3.Scale(0.5, r3.Add(m.Cage.Base[pv0], m.Cage.Base[pv1])),
			mid,
			r3.Scale(0.5, r3.Add(m.Cage.Top[pv0], m.Cage.Top[pv1])))
		m.Verts[vx].MidID = pvx
		opts.TargetAdjustment = append(opts.TargetAdjustment,
			(opts.TargetAdjustment[pv0]+opts.TargetAdjustment[pv1])/2)
		cageAppended = true
	}

	for _, t := range newTets {
		if !m.tetValidConn(t) {
			rollback()
			return fmt.Errorf("%w: split (%d,%d)", ErrInverted, v0, v1)
		}
	}

	var newFids []int
	var movedTris []shell.Tri
	if len(bndPris) != 0 {
		f0, f1 := bndPris[0], bndPris[1]
		movedTris = []shell.Tri{m.Cage.F[f0], m.Cage.F[f1], m.Cage.F[f0], m.Cage.F[f1]}
		movedTris[0].Replace(pv0, pvx)
		movedTris[1].Replace(pv0, pvx)
		movedTris[2].Replace(pv1, pvx)
		movedTris[3].Replace(pv1, pvx)

		tracks, err := m.Check.AttemptShellOperation(m.Cage, -1, []int{f0, f1}, movedTris)
		if err != nil {
			rollback()
			return fmt.Errorf("%w: %v", ErrShellInfeasible, err)
		}
		newFids = []int{f0, f1, len(m.Cage.F), len(m.Cage.F) + 1}
		m.Cage.CommitPatch([]int{f0, f1}, newFids, movedTris, tracks)
	}

	m.commitTets(affected, newTets, newFids, movedTris)
	m.audit()
	return nil
}
