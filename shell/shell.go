// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package shell holds the prism-layer surface that the tetrahedral mesh is
// pinned to: three offset copies (base, mid, top) of every shell vertex, a
// triangle array, and per-triangle sets of reference-surface triangles that
// the feasibility check certifies against.
//
// The cage is append-only during an editing session. Retired triangle slots
// are filled with -1 and physically removed only by Compact.
package shell

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Tri is a shell triangle as three indices into the vertex arrays.
type Tri [3]int

// IsRetired reports whether the triangle slot has been emptied.
func (t Tri) IsRetired() bool { return t[0] == -1 }

// Has reports whether v is one of the triangle's corners.
func (t Tri) Has(v int) bool { return t[0] == v || t[1] == v || t[2] == v }

// Replace substitutes a with b in place and reports whether a was found.
func (t *Tri) Replace(a, b int) bool {
	for i := range t {
		if t[i] == a {
			t[i] = b
			return true
		}
	}
	return false
}

// Sorted returns the corners in ascending order, for use as a map key.
func (t Tri) Sorted() Tri {
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	if t[1] > t[2] {
		t[1], t[2] = t[2], t[1]
	}
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	return t
}

// RotateMin rotates the corners so the smallest index is first while keeping
// the cyclic order, so a triangle's stored form does not depend on which
// corner an edit happened to touch.
func (t Tri) RotateMin() Tri {
	k := 0
	if t[1] < t[k] {
		k = 1
	}
	if t[2] < t[k] {
		k = 2
	}
	return Tri{t[k], t[(k+1)%3], t[(k+2)%3]}
}

// TrackSet is the set of reference-surface triangle ids a shell triangle is
// responsible for.
type TrackSet map[int]struct{}

// Clone returns an independent copy of the set.
func (s TrackSet) Clone() TrackSet {
	c := make(TrackSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// RefSurface is the immutable reference surface the shell was grown from.
type RefSurface struct {
	V []r3.Vec
	F []Tri
}

// Cage is the prism shell: parallel base/mid/top vertex arrays, the triangle
// array, and per-triangle tracked reference ids. An optional spatial index
// over the mid surface is kept in lockstep by CommitPatch.
type Cage struct {
	Base, Mid, Top []r3.Vec
	F              []Tri
	Tracks         []TrackSet

	Ref  RefSurface
	Grid *HashGrid
}

// NewCage builds a cage from parallel vertex arrays and a triangle list, with
// every triangle initially tracking its own reference triangle.
func NewCage(base, mid, top []r3.Vec, tris []Tri) (*Cage, error) {
	if len(base) != len(mid) || len(top) != len(mid) {
		return nil, fmt.Errorf("shell: vertex arrays disagree: base %d mid %d top %d",
			len(base), len(mid), len(top))
	}
	c := &Cage{
		Base:   base,
		Mid:    mid,
		Top:    top,
		F:      tris,
		Tracks: make([]TrackSet, len(tris)),
		Ref: RefSurface{
			V: append([]r3.Vec(nil), mid...),
			F: append([]Tri(nil), tris...),
		},
	}
	for i := range c.Tracks {
		c.Tracks[i] = TrackSet{i: {}}
	}
	return c, nil
}

// NumVerts returns the shell vertex count, including any appended mid-session.
func (c *Cage) NumVerts() int { return len(c.Mid) }

// LiveFaces counts triangle slots that have not been retired.
func (c *Cage) LiveFaces() int {
	n := 0
	for _, f := range c.F {
		if !f.IsRetired() {
			n++
		}
	}
	return n
}

// AppendVertex appends one pillar (base, mid, top) and returns its id.
func (c *Cage) AppendVertex(base, mid, top r3.Vec) int {
	c.Base = append(c.Base, base)
	c.Mid = append(c.Mid, mid)
	c.Top = append(c.Top, top)
	return len(c.Mid) - 1
}

// PopVertex removes the most recently appended pillar. Used only to roll back
// a tentative AppendVertex; ids of earlier vertices are stable.
func (c *Cage) PopVertex() {
	n := len(c.Mid) - 1
	c.Base = c.Base[:n]
	c.Mid = c.Mid[:n]
	c.Top = c.Top[:n]
}

// CommitPatch retires oldFids, writes movedTris/newTracks into the slots named
// by newFids (growing the arrays when a new id is past the end), and updates
// the spatial index. newFids may reuse retired slots. The caller must have run
// the feasibility check already; CommitPatch itself never fails.
func (c *Cage) CommitPatch(oldFids, newFids []int, movedTris []Tri, newTracks []TrackSet) {
	if len(newFids) != len(movedTris) || len(newFids) != len(newTracks) {
		panic(fmt.Sprintf("shell: patch shape mismatch: %d fids, %d tris, %d tracks",
			len(newFids), len(movedTris), len(newTracks)))
	}
	for _, f := range oldFids {
		c.F[f] = Tri{-1, -1, -1}
		c.Tracks[f] = nil
	}
	for i, f := range newFids {
		if f >= len(c.F) {
			for len(c.F) <= f {
				c.F = append(c.F, Tri{-1, -1, -1})
				c.Tracks = append(c.Tracks, nil)
			}
		}
		c.F[f] = movedTris[i].RotateMin()
		c.Tracks[f] = newTracks[i]
	}
	if c.Grid != nil {
		for _, f := range oldFids {
			c.Grid.Remove(f)
		}
		c.Grid.Insert(c, newFids)
	}
}

// Compact drops retired triangles and shell vertices no live triangle refers
// to, renumbering in place. It returns old-to-new id maps for vertices and
// triangles, -1 marking a dropped entry. The tet mesh rewrites its mid_id and
// prism_id fields through these maps in lockstep.
func (c *Cage) Compact() (vidMap, faceMap []int) {
	used := make([]bool, len(c.Mid))
	for _, f := range c.F {
		if f.IsRetired() {
			continue
		}
		used[f[0]], used[f[1]], used[f[2]] = true, true, true
	}
	vidMap = make([]int, len(c.Mid))
	nv := 0
	for i := range c.Mid {
		if !used[i] {
			vidMap[i] = -1
			continue
		}
		vidMap[i] = nv
		c.Base[nv] = c.Base[i]
		c.Mid[nv] = c.Mid[i]
		c.Top[nv] = c.Top[i]
		nv++
	}
	c.Base = c.Base[:nv]
	c.Mid = c.Mid[:nv]
	c.Top = c.Top[:nv]

	faceMap = make([]int, len(c.F))
	nf := 0
	for i, f := range c.F {
		if f.IsRetired() {
			faceMap[i] = -1
			continue
		}
		faceMap[i] = nf
		c.F[nf] = Tri{vidMap[f[0]], vidMap[f[1]], vidMap[f[2]]}
		c.Tracks[nf] = c.Tracks[i]
		nf++
	}
	c.F = c.F[:nf]
	c.Tracks = c.Tracks[:nf]

	if c.Grid != nil {
		c.Grid.Rebuild(c)
	}
	return vidMap, faceMap
}
