// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Numeric oracle for one tetrahedron: orientation, an AMIPS-style shape
// energy (larger is worse, 27 is the regular-tet optimum of the cubed
// conformal energy), and squared circumradius as the size proxy. All pure;
// the operators use them as hard gates.

// qualityGarbage is returned for energies that are non-finite or below the
// theoretical floor, both of which mean the evaluation cannot be trusted.
const qualityGarbage = 1e50

// invRefShape is the inverse of the edge matrix of the unit regular
// tetrahedron; J = A * invRefShape maps the reference tet onto the actual one.
var invRefShape [3][3]float64

func init() {
	const (
		s3 = 1.7320508075688772 // sqrt(3)
		s6 = 2.449489742783178  // sqrt(6)
	)
	ref := mat.NewDense(3, 3, []float64{
		1, 0.5, 0.5,
		0, s3 / 2, s3 / 6,
		0, 0, s6 / 3,
	})
	var inv mat.Dense
	if err := inv.Inverse(ref); err != nil {
		panic("tetshell: reference shape not invertible: " + err.Error())
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			invRefShape[i][j] = inv.At(i, j)
		}
	}
}

func edgeMat(p0, p1, p2, p3 r3.Vec) [3]r3.Vec {
	return [3]r3.Vec{r3.Sub(p1, p0), r3.Sub(p2, p0), r3.Sub(p3, p0)}
}

func det3(e [3]r3.Vec) float64 {
	return r3.Dot(e[0], r3.Cross(e[1], e[2]))
}

// orient3d is the signed-volume orientation predicate: positive for a
// correctly oriented tet.
func orient3d(p0, p1, p2, p3 r3.Vec) float64 {
	return det3(edgeMat(p0, p1, p2, p3))
}

// tetValid reports non-degeneracy and correct orientation. This is the hard
// validity gate; it is never bypassed.
func tetValid(p0, p1, p2, p3 r3.Vec) bool {
	v := orient3d(p0, p1, p2, p3)
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// tetQuality is the cubed conformal AMIPS energy tr(JJ^T)^3 / det(J)^2.
// Scale invariant, minimized at 27 by the regular tet, qualityGarbage at
// degeneracy.
func tetQuality(p0, p1, p2, p3 r3.Vec) float64 {
	e := edgeMat(p0, p1, p2, p3)
	// Columns of J = A * invRefShape.
	var tr float64
	var jc [3]r3.Vec
	for c := 0; c < 3; c++ {
		jc[c] = r3.Add(
			r3.Scale(invRefShape[0][c], e[0]),
			r3.Add(r3.Scale(invRefShape[1][c], e[1]), r3.Scale(invRefShape[2][c], e[2])))
		tr += r3.Dot(jc[c], jc[c])
	}
	det := det3(jc)
	if det <= 0 {
		return qualityGarbage
	}
	energy := tr * tr * tr / (det * det)
	if math.IsInf(energy, 0) || math.IsNaN(energy) || energy < 27-1e-3 {
		return qualityGarbage
	}
	return energy
}

// circumradius2 is the squared circumradius, found by solving the 3x3 system
// 2(p_i - p0) . c = |p_i|^2 - |p0|^2. Degenerate tets get +inf.
func circumradius2(p0, p1, p2, p3 r3.Vec) float64 {
	e := edgeMat(p0, p1, p2, p3)
	a := mat.NewDense(3, 3, []float64{
		2 * e[0].X, 2 * e[0].Y, 2 * e[0].Z,
		2 * e[1].X, 2 * e[1].Y, 2 * e[1].Z,
		2 * e[2].X, 2 * e[2].Y, 2 * e[2].Z,
	})
	n0 := r3.Dot(p0, p0)
	b := mat.NewVecDense(3, []float64{
		r3.Dot(p1, p1) - n0,
		r3.Dot(p2, p2) - n0,
		r3.Dot(p3, p3) - n0,
	})
	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		return math.Inf(1)
	}
	d := r3.Sub(r3.Vec{X: c.AtVec(0), Y: c.AtVec(1), Z: c.AtVec(2)}, p0)
	return r3.Dot(d, d)
}

// maxQuality evaluates the worst AMIPS energy over a set of tets given as
// conn quadruples into the mesh arena.
func (m *Mesh) maxQuality(tets [][4]int) float64 {
	worst := 0.0
	for _, t := range tets {
		q := tetQuality(m.Verts[t[0]].Pos, m.Verts[t[1]].Pos, m.Verts[t[2]].Pos, m.Verts[t[3]].Pos)
		if q > worst {
			worst = q
		}
	}
	return worst
}

// maxSize evaluates the worst squared circumradius over a set of tets.
func (m *Mesh) maxSize(tets [][4]int) float64 {
	worst := 0.0
	for _, t := range tets {
		s := circumradius2(m.Verts[t[0]].Pos, m.Verts[t[1]].Pos, m.Verts[t[2]].Pos, m.Verts[t[3]].Pos)
		if s > worst {
			worst = s
		}
	}
	return worst
}

// tetValidConn is tetValid applied to a conn quadruple.
func (m *Mesh) tetValidConn(t [4]int) bool {
	return tetValid(m.Verts[t[0]].Pos, m.Verts[t[1]].Pos, m.Verts[t[2]].Pos, m.Verts[t[3]].Pos)
}
