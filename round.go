// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"fmt"
	"math/big"

	"gonum.org/v1/gonum/spatial/r3"
)

// exactCoords returns the vertex position as exact rationals, taking the
// shadow coordinates when present and lifting the floats otherwise.
func exactCoords(v *Vertex) [3]*big.Rat {
	if v.PosR != nil {
		return [3]*big.Rat{&v.PosR[0], &v.PosR[1], &v.PosR[2]}
	}
	var r [3]*big.Rat
	for i, c := range [3]float64{v.Pos.X, v.Pos.Y, v.Pos.Z} {
		r[i] = new(big.Rat).SetFloat64(c)
	}
	return r
}

// exactMidpoint is the exact rational midpoint of two vertices. Split keeps
// it as a shadow position so a later Round can fall back to it if the float
// midpoint ever proves too coarse.
func exactMidpoint(va, vb *Vertex) *[3]big.Rat {
	a, b := exactCoords(va), exactCoords(vb)
	half := big.NewRat(1, 2)
	var mid [3]big.Rat
	for i := 0; i < 3; i++ {
		mid[i].Add(a[i], b[i])
		mid[i].Mul(&mid[i], half)
	}
	return &mid
}

// Round drops the exact shadow position of vertex v, committing to the
// float position, provided every incident tet stays valid at the float
// coordinates. A vertex without a shadow is already rounded and Round is a
// no-op.
func Round(m *Mesh, v int) error {
	vert := &m.Verts[v]
	if vert.PosR == nil {
		return nil
	}
	x, _ := vert.PosR[0].Float64()
	y, _ := vert.PosR[1].Float64()
	z, _ := vert.PosR[2].Float64()
	rounded := r3.Vec{X: x, Y: y, Z: z}

	oldPos := vert.Pos
	vert.Pos = rounded
	for _, t := range m.VT[v] {
		if !m.tetValidConn(m.Tets[t].Conn) {
			vert.Pos = oldPos
			return fmt.Errorf("%w: rounding %d", ErrInverted, v)
		}
	}
	vert.PosR = nil
	return nil
}
