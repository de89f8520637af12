// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package shell

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func triArea(a, b, c r3.Vec) float64 {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	return 0.5 * r3.Norm(n)
}

// segTriIntersect intersects segment s0-s1 with triangle (a,b,c), inclusive of
// edges and corners. It returns the intersection point and true on a hit.
func segTriIntersect(s0, s1, a, b, c r3.Vec) (r3.Vec, bool) {
	const eps = 1e-12
	dir := r3.Sub(s1, s0)
	e1 := r3.Sub(b, a)
	e2 := r3.Sub(c, a)
	p := r3.Cross(dir, e2)
	det := r3.Dot(e1, p)
	if math.Abs(det) < eps {
		return r3.Vec{}, false
	}
	inv := 1 / det
	s := r3.Sub(s0, a)
	u := r3.Dot(s, p) * inv
	if u < -eps || u > 1+eps {
		return r3.Vec{}, false
	}
	q := r3.Cross(s, e1)
	v := r3.Dot(dir, q) * inv
	if v < -eps || u+v > 1+eps {
		return r3.Vec{}, false
	}
	t := r3.Dot(e2, q) * inv
	if t < -eps || t > 1+eps {
		return r3.Vec{}, false
	}
	return r3.Add(s0, r3.Scale(t, dir)), true
}

// SnapToRef shoots the pillar segment top[v]-base[v] through the tracked
// reference triangles and returns the first hit. The tet mesh uses this to
// re-project a boundary vertex onto the reference surface after a move.
func (c *Cage) SnapToRef(v int, tracked TrackSet) (r3.Vec, bool) {
	for f := range tracked {
		rf := c.Ref.F[f]
		if p, ok := segTriIntersect(c.Top[v], c.Base[v],
			c.Ref.V[rf[0]], c.Ref.V[rf[1]], c.Ref.V[rf[2]]); ok {
			return p, true
		}
	}
	return r3.Vec{}, false
}
