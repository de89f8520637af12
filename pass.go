// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pass drivers. Each pass harvests candidates from the current mesh into a
// heap, then drains it, skipping candidates that a committed operation made
// stale. A pass never fails because an individual operation was rejected;
// only structural errors propagate.

func (m *Mesh) edgeLen2(v0, v1 int) float64 {
	d := r3.Sub(m.Verts[v1].Pos, m.Verts[v0].Pos)
	return r3.Dot(d, d)
}

// sizingLength is the target edge length near the edge (v0, v1), scaled by
// the per-pillar adjustment on whichever endpoints sit on the shell.
func (m *Mesh) sizingLength(opts *Options, v0, v1 int) float64 {
	adj := 0.0
	for _, v := range [2]int{v0, v1} {
		a := 1.0
		if mid := m.Verts[v].MidID; mid != -1 && mid < len(opts.TargetAdjustment) {
			a = opts.TargetAdjustment[mid]
		}
		adj += a
	}
	return opts.TargetEdgeLength * adj / 2
}

// sizeBudget is the squared-circumradius cap matching a sizing length: the
// squared circumradius of a regular tet whose edge is at the split
// threshold.
func sizeBudget(l float64) float64 {
	lmax := l * 4 / 3
	return 3.0 / 8.0 * lmax * lmax
}

func (m *Mesh) collectEdges() []edgeCand {
	seen := make(map[[2]int]bool)
	var out []edgeCand
	for t := range m.Tets {
		if m.Tets[t].Removed {
			continue
		}
		conn := m.Tets[t].Conn
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				a, b := conn[i], conn[j]
				if a > b {
					a, b = b, a
				}
				if seen[[2]int{a, b}] {
					continue
				}
				seen[[2]int{a, b}] = true
				out = append(out, edgeCand{v0: a, v1: b})
			}
		}
	}
	return out
}

// SplitPass splits every edge longer than 4/3 of its sizing length, longest
// first, re-queuing oversized children. Returns the number of edges split.
func SplitPass(m *Mesh, opts *Options) (int, error) {
	var q edgeQueue
	for _, c := range m.collectEdges() {
		l := m.sizingLength(opts, c.v0, c.v1)
		if c.key = m.edgeLen2(c.v0, c.v1); c.key > (4.0/3.0)*(4.0/3.0)*l*l {
			q.push(c)
		}
	}
	done := 0
	for q.Len() > 0 {
		c := q.pop()
		if len(m.EdgeNeighbors(c.v0, c.v1)) == 0 {
			continue // stale
		}
		l := m.sizingLength(opts, c.v0, c.v1)
		if m.edgeLen2(c.v0, c.v1) <= (4.0/3.0)*(4.0/3.0)*l*l {
			continue
		}
		err := SplitEdge(m, opts, c.v0, c.v1)
		countOp("split", err)
		if err != nil {
			if errors.Is(err, ErrRejected) {
				continue
			}
			return done, err
		}
		done++
		vx := len(m.Verts) - 1
		for _, child := range [2]edgeCand{{v0: c.v0, v1: vx}, {v0: c.v1, v1: vx}} {
			cl := m.sizingLength(opts, child.v0, child.v1)
			if child.key = m.edgeLen2(child.v0, child.v1); child.key > (4.0/3.0)*(4.0/3.0)*cl*cl {
				q.push(child)
			}
		}
	}
	logger.Info("split pass done", "split", done)
	return done, nil
}

// CollapsePass collapses every edge shorter than 4/5 of its sizing length,
// shortest first, trying both directions of each edge. Returns the number
// of edges collapsed.
func CollapsePass(m *Mesh, opts *Options) (int, error) {
	var q edgeQueue
	for _, c := range m.collectEdges() {
		l := m.sizingLength(opts, c.v0, c.v1)
		if len2 := m.edgeLen2(c.v0, c.v1); len2 < (4.0/5.0)*(4.0/5.0)*l*l {
			c.key = -len2
			q.push(c)
		}
	}
	done := 0
	for q.Len() > 0 {
		c := q.pop()
		if len(m.EdgeNeighbors(c.v0, c.v1)) == 0 {
			continue
		}
		l := m.sizingLength(opts, c.v0, c.v1)
		if m.edgeLen2(c.v0, c.v1) >= (4.0/5.0)*(4.0/5.0)*l*l {
			continue
		}
		budget := sizeBudget(l)
		err := CollapseEdge(m, opts, c.v0, c.v1, budget)
		if errors.Is(err, ErrRejected) {
			err = CollapseEdge(m, opts, c.v1, c.v0, budget)
		}
		countOp("collapse", err)
		if err != nil {
			if errors.Is(err, ErrRejected) {
				continue
			}
			return done, err
		}
		done++
	}
	logger.Info("collapse pass done", "collapsed", done)
	return done, nil
}

// SwapEdgePass tries the 3-2 swap on every edge, worst incident quality
// first. Returns the number of swaps committed.
func SwapEdgePass(m *Mesh, opts *Options) (int, error) {
	var q edgeQueue
	for _, c := range m.collectEdges() {
		nb := m.EdgeNeighbors(c.v0, c.v1)
		if len(nb) != 3 {
			continue
		}
		ring := make([][4]int, len(nb))
		for i, t := range nb {
			ring[i] = m.Tets[t].Conn
		}
		c.key = m.maxQuality(ring)
		q.push(c)
	}
	done := 0
	for q.Len() > 0 {
		c := q.pop()
		if len(m.EdgeNeighbors(c.v0, c.v1)) == 0 {
			continue
		}
		l := m.sizingLength(opts, c.v0, c.v1)
		err := SwapEdge(m, opts, c.v0, c.v1, sizeBudget(l))
		countOp("swap_edge", err)
		if err != nil {
			if errors.Is(err, ErrRejected) {
				continue
			}
			return done, err
		}
		done++
	}
	logger.Info("edge swap pass done", "swapped", done)
	return done, nil
}

// SwapFacePass tries the 2-3 swap on every interior facet, worst incident
// quality first. Returns the number of swaps committed.
func SwapFacePass(m *Mesh, opts *Options) (int, error) {
	var q faceQueue
	seen := make(map[[3]int]bool)
	for t := range m.Tets {
		if m.Tets[t].Removed {
			continue
		}
		for j := 0; j < 4; j++ {
			f := sortedFace(m.Tets[t].Conn, j)
			if seen[f] {
				continue
			}
			seen[f] = true
			nb := m.FaceNeighbors(f[0], f[1], f[2])
			if len(nb) != 2 {
				continue
			}
			pair := [][4]int{m.Tets[nb[0]].Conn, m.Tets[nb[1]].Conn}
			q.push(faceCand{v: f, key: m.maxQuality(pair)})
		}
	}
	done := 0
	for q.Len() > 0 {
		c := q.pop()
		if len(m.FaceNeighbors(c.v[0], c.v[1], c.v[2])) != 2 {
			continue
		}
		l := m.sizingLength(opts, c.v[0], c.v[1])
		err := SwapFace(m, opts, c.v[0], c.v[1], c.v[2], sizeBudget(l))
		countOp("swap_face", err)
		if err != nil {
			if errors.Is(err, ErrRejected) {
				continue
			}
			return done, err
		}
		done++
	}
	logger.Info("face swap pass done", "swapped", done)
	return done, nil
}

// SmoothPass runs one smoothing sweep over every live vertex: a Newton step
// for interior vertices, a surface re-projection for boundary ones.
// Returns the number of vertices moved.
func SmoothPass(m *Mesh, opts *Options) (int, error) {
	done := 0
	for v := range m.Verts {
		if len(m.VT[v]) == 0 {
			continue
		}
		typ := SmoothInteriorNewton
		if m.Verts[v].MidID != -1 {
			typ = SmoothSurfaceSnap
		}
		err := SmoothVertex(m, opts, typ, v, sizeBudget(opts.TargetEdgeLength))
		countOp("smooth", err)
		if err != nil {
			if errors.Is(err, ErrRejected) {
				continue
			}
			return done, err
		}
		done++
	}
	logger.Info("smooth pass done", "moved", done)
	return done, nil
}
