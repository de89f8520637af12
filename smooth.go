// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/prismesh/go-tetshell/shell"
)

// SmoothType selects how SmoothVertex moves the vertex.
type SmoothType int

const (
	// SmoothInteriorNewton takes a Newton step toward the AMIPS-minimizing
	// position over the one-ring. Interior vertices only.
	SmoothInteriorNewton SmoothType = iota
	// SmoothSurfaceSnap re-projects the boundary vertex onto the reference
	// surface along its pillar.
	SmoothSurfaceSnap
	// SmoothShellPan slides the whole pillar laterally within the shell,
	// then snaps.
	SmoothShellPan
	// SmoothShellZoom rescales the pillar's thickness toward the target.
	SmoothShellZoom
	// SmoothShellRotate re-aims the pillar along the local surface normal.
	SmoothShellRotate
)

// SmoothVertex moves vertex v0 according to typ. Boundary modes move the
// shell pillar as well and re-certify every incident boundary triangle
// through the feasibility check before committing. Interior moves are gated
// by the size budget; all moves are gated by one-ring validity. Connectivity
// is never changed.
func SmoothVertex(m *Mesh, opts *Options, typ SmoothType, v0 int, sizeBudget float64) error {
	tetNb := m.VT[v0]
	if len(tetNb) == 0 {
		return fmt.Errorf("%w: vertex %d has no incident tets", ErrNoSuchEdge, v0)
	}
	oldPos := m.Verts[v0].Pos
	pv0 := m.Verts[v0].MidID
	neighborPris := m.vertexBoundaryFaces(v0)
	logger.Debug("smooth", "v", v0, "type", typ, "boundary_faces", len(neighborPris))

	var oldBase, oldMid, oldTop r3.Vec
	if pv0 != -1 {
		oldBase, oldMid, oldTop = m.Cage.Base[pv0], m.Cage.Mid[pv0], m.Cage.Top[pv0]
	}
	rollback := func() {
		m.Verts[v0].Pos = oldPos
		if pv0 != -1 {
			m.Cage.Base[pv0], m.Cage.Mid[pv0], m.Cage.Top[pv0] = oldBase, oldMid, oldTop
		}
	}

	if typ == SmoothInteriorNewton {
		if pv0 != -1 || len(neighborPris) != 0 {
			return fmt.Errorf("%w: vertex %d is on the boundary", ErrBoundary, v0)
		}
		m.Verts[v0].Pos = m.newtonPosition(tetNb, v0)
	} else {
		if pv0 == -1 || len(neighborPris) == 0 {
			return fmt.Errorf("%w: vertex %d is interior", ErrBoundary, v0)
		}
		snapMid := typ == SmoothSurfaceSnap || typ == SmoothShellPan
		if typ == SmoothShellPan {
			dir, ok := m.panDirection(pv0, neighborPris)
			if !ok {
				rollback()
				return fmt.Errorf("%w: no pan direction at %d", ErrNoImprovement, v0)
			}
			m.Cage.Base[pv0] = r3.Add(m.Cage.Base[pv0], dir)
			m.Cage.Mid[pv0] = r3.Add(m.Cage.Mid[pv0], dir)
			m.Cage.Top[pv0] = r3.Add(m.Cage.Top[pv0], dir)
		}
		if snapMid {
			tracked := shell.TrackSet{}
			for _, f := range neighborPris {
				for r := range m.Cage.Tracks[f] {
					tracked[r] = struct{}{}
				}
			}
			snapped, ok := m.Cage.SnapToRef(pv0, tracked)
			if !ok {
				rollback()
				return fmt.Errorf("%w: pillar of %d misses the reference surface", ErrNoImprovement, v0)
			}
			m.Verts[v0].Pos = snapped
			m.Cage.Mid[pv0] = snapped
		} else {
			var ok bool
			if typ == SmoothShellZoom {
				ok = m.zoomPillar(pv0, opts.TargetThickness)
			} else {
				ok = m.rotatePillar(pv0, neighborPris)
			}
			if !ok {
				rollback()
				return fmt.Errorf("%w: no better pillar at %d", ErrNoImprovement, v0)
			}
		}
	}

	if pv0 == -1 {
		ring := make([][4]int, len(tetNb))
		for i, t := range tetNb {
			ring[i] = m.Tets[t].Conn
		}
		if s := m.maxSize(ring); s > sizeBudget {
			rollback()
			return fmt.Errorf("%w: %.3g > %.3g", ErrSize, s, sizeBudget)
		}
	}
	for _, t := range tetNb {
		if !m.tetValidConn(m.Tets[t].Conn) {
			rollback()
			return fmt.Errorf("%w: smoothing %d", ErrInverted, v0)
		}
	}

	if pv0 != -1 {
		// Re-certify every incident boundary triangle, not just the moved
		// pillar's two: lateral motion distorts the whole fan.
		oldFids := neighborPris
		movedTris := make([]shell.Tri, len(oldFids))
		for i, f := range oldFids {
			movedTris[i] = m.Cage.F[f]
		}
		// The tet gates above already bound the distortion, so the shell
		// check runs without a quality guard.
		tracks, err := m.Check.AttemptShellOperation(m.Cage, 1e10, oldFids, movedTris)
		if err != nil {
			rollback()
			return fmt.Errorf("%w: %v", ErrShellInfeasible, err)
		}
		m.Cage.CommitPatch(oldFids, oldFids, movedTris, tracks)
	}

	m.audit()
	return nil
}

// orientReorder puts slot vl first while preserving the tet's orientation
// class.
var orientReorder = [4][4]int{{0, 1, 2, 3}, {1, 0, 3, 2}, {2, 0, 1, 3}, {3, 1, 0, 2}}

// newtonPosition minimizes the one-ring AMIPS energy in v0, via one damped
// Newton step with a finite-difference Hessian and a gradient fallback.
// Returns the best position found, which is the current one if nothing
// improves.
func (m *Mesh) newtonPosition(nb []int, v0 int) r3.Vec {
	frames := make([][4]r3.Vec, 0, len(nb))
	for _, t := range nb {
		conn := m.Tets[t].Conn
		vl := indexOf4(conn, v0)
		if vl < 0 {
			panic(&SanityError{Check: "incidence list names tet without vertex", Tet: t})
		}
		var f [4]r3.Vec
		for j := 0; j < 4; j++ {
			f[j] = m.Verts[conn[orientReorder[vl][j]]].Pos
		}
		frames = append(frames, f)
	}
	energy := func(x r3.Vec) float64 {
		e := 0.0
		for _, f := range frames {
			e += tetQuality(x, f[1], f[2], f[3])
		}
		return e
	}

	x0 := m.Verts[v0].Pos
	e0 := energy(x0)
	if e0 >= qualityGarbage {
		return x0
	}
	scale := math.Cbrt(math.Abs(orient3d(frames[0][0], frames[0][1], frames[0][2], frames[0][3])))
	if scale == 0 {
		return x0
	}
	h := 1e-5 * scale

	axes := [3]r3.Vec{{X: h}, {Y: h}, {Z: h}}
	var g [3]float64
	var hess [9]float64
	ePlus := [3]float64{}
	eMinus := [3]float64{}
	for i := 0; i < 3; i++ {
		ePlus[i] = energy(r3.Add(x0, axes[i]))
		eMinus[i] = energy(r3.Sub(x0, axes[i]))
		g[i] = (ePlus[i] - eMinus[i]) / (2 * h)
	}
	for i := 0; i < 3; i++ {
		hess[i*3+i] = (ePlus[i] - 2*e0 + eMinus[i]) / (h * h)
		for j := i + 1; j < 3; j++ {
			epp := energy(r3.Add(x0, r3.Add(axes[i], axes[j])))
			epm := energy(r3.Add(x0, r3.Sub(axes[i], axes[j])))
			emp := energy(r3.Sub(x0, r3.Sub(axes[i], axes[j])))
			emm := energy(r3.Sub(x0, r3.Add(axes[i], axes[j])))
			v := (epp - epm - emp + emm) / (4 * h * h)
			hess[i*3+j] = v
			hess[j*3+i] = v
		}
	}

	step := r3.Vec{X: g[0], Y: g[1], Z: g[2]} // gradient fallback
	var d mat.VecDense
	if err := d.SolveVec(mat.NewDense(3, 3, hess[:]), mat.NewVecDense(3, g[:])); err == nil {
		step = r3.Vec{X: d.AtVec(0), Y: d.AtVec(1), Z: d.AtVec(2)}
	}
	if n := r3.Norm(step); n > scale || math.IsNaN(n) {
		if n == 0 || math.IsNaN(n) {
			return x0
		}
		step = r3.Scale(scale/n, step)
	}

	best, bestE := x0, e0
	for alpha := 1.0; alpha > 1.0/64; alpha /= 2 {
		x := r3.Sub(x0, r3.Scale(alpha, step))
		if e := energy(x); e < bestE {
			best, bestE = x, e
			break
		}
	}
	return best
}

// panDirection is the lateral smoothing direction for a boundary pillar: a
// damped Laplacian over the adjacent mid-surface vertices.
func (m *Mesh) panDirection(pv0 int, neighborPris []int) (r3.Vec, bool) {
	sum := r3.Vec{}
	n := 0
	seen := map[int]bool{}
	for _, f := range neighborPris {
		for _, v := range m.Cage.F[f] {
			if v == pv0 || seen[v] {
				continue
			}
			seen[v] = true
			sum = r3.Add(sum, m.Cage.Mid[v])
			n++
		}
	}
	if n == 0 {
		return r3.Vec{}, false
	}
	dir := r3.Scale(0.5, r3.Sub(r3.Scale(1/float64(n), sum), m.Cage.Mid[pv0]))
	if r3.Norm(dir) < 1e-12 {
		return r3.Vec{}, false
	}
	return dir, true
}

// zoomPillar rescales base and top about mid so the pillar reaches the
// target thickness.
func (m *Mesh) zoomPillar(pv0 int, targetThickness float64) bool {
	axis := r3.Sub(m.Cage.Top[pv0], m.Cage.Base[pv0])
	length := r3.Norm(axis)
	if length < 1e-15 || targetThickness <= 0 {
		return false
	}
	if math.Abs(length-targetThickness) < 1e-12 {
		return false // already there
	}
	s := targetThickness / length
	mid := m.Cage.Mid[pv0]
	m.Cage.Base[pv0] = r3.Add(mid, r3.Scale(s, r3.Sub(m.Cage.Base[pv0], mid)))
	m.Cage.Top[pv0] = r3.Add(mid, r3.Scale(s, r3.Sub(m.Cage.Top[pv0], mid)))
	return true
}

// rotatePillar re-aims the pillar along the area-weighted normal of the
// incident mid-surface triangles, preserving the two half-lengths.
func (m *Mesh) rotatePillar(pv0 int, neighborPris []int) bool {
	normal := r3.Vec{}
	for _, f := range neighborPris {
		t := m.Cage.F[f]
		n := r3.Cross(
			r3.Sub(m.Cage.Mid[t[1]], m.Cage.Mid[t[0]]),
			r3.Sub(m.Cage.Mid[t[2]], m.Cage.Mid[t[0]]))
		normal = r3.Add(normal, n)
	}
	if r3.Norm(normal) < 1e-15 {
		return false
	}
	normal = r3.Unit(normal)
	mid := m.Cage.Mid[pv0]
	up := r3.Sub(m.Cage.Top[pv0], mid)
	down := r3.Sub(mid, m.Cage.Base[pv0])
	if r3.Dot(normal, r3.Add(up, down)) < 0 {
		normal = r3.Scale(-1, normal)
	}
	m.Cage.Top[pv0] = r3.Add(mid, r3.Scale(r3.Norm(up), normal))
	m.Cage.Base[pv0] = r3.Sub(mid, r3.Scale(r3.Norm(down), normal))
	return true
}
