// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func regularTet() [4]r3.Vec {
	return [4]r3.Vec{
		{},
		{X: 1},
		{X: 0.5, Y: math.Sqrt(3) / 2},
		{X: 0.5, Y: math.Sqrt(3) / 6, Z: math.Sqrt(6) / 3},
	}
}

func TestOrient3d(t *testing.T) {
	p := regularTet()
	require.Greater(t, orient3d(p[0], p[1], p[2], p[3]), 0.0)
	// Swapping two vertices flips the sign.
	require.Less(t, orient3d(p[1], p[0], p[2], p[3]), 0.0)
	// Coplanar points are degenerate.
	assert.Zero(t, orient3d(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{X: 1, Y: 1}))
}

func TestTetQualityRegularIsOptimal(t *testing.T) {
	p := regularTet()
	assert.InDelta(t, 27, tetQuality(p[0], p[1], p[2], p[3]), 1e-9)

	// Scale invariance.
	s := func(v r3.Vec) r3.Vec { return r3.Scale(17.5, v) }
	assert.InDelta(t, 27, tetQuality(s(p[0]), s(p[1]), s(p[2]), s(p[3])), 1e-9)

	// Any other shape is strictly worse.
	q := tetQuality(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1})
	assert.Greater(t, q, 27.0)
	assert.Less(t, q, qualityGarbage)
}

func TestTetQualityGarbage(t *testing.T) {
	p := regularTet()
	// Inverted.
	assert.Equal(t, qualityGarbage, tetQuality(p[1], p[0], p[2], p[3]))
	// Degenerate.
	assert.Equal(t, qualityGarbage, tetQuality(p[0], p[1], p[2], p[2]))
	// Non-finite input.
	assert.Equal(t, qualityGarbage, tetQuality(p[0], p[1], p[2], r3.Vec{Z: math.Inf(1)}))
}

func TestCircumradius2(t *testing.T) {
	// Unit corner simplex: circumcenter (1/2,1/2,1/2).
	r2 := circumradius2(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1})
	assert.InDelta(t, 0.75, r2, 1e-12)

	p := regularTet()
	// Regular tet with edge a has R^2 = 3a^2/8.
	assert.InDelta(t, 3.0/8.0, circumradius2(p[0], p[1], p[2], p[3]), 1e-9)

	assert.True(t, math.IsInf(circumradius2(p[0], p[1], p[2], r3.Scale(0.5, r3.Add(p[1], p[2]))), 1))
}

func TestMeshQualityAndSize(t *testing.T) {
	m, _ := subdividedTetMesh(t, r3.Vec{X: 0.25, Y: 0.25, Z: 0.25})
	conns := make([][4]int, 0, 4)
	for i := range m.Tets {
		conns = append(conns, m.Tets[i].Conn)
	}
	q := m.maxQuality(conns)
	require.Greater(t, q, 27.0)
	require.Less(t, q, qualityGarbage)
	require.Greater(t, m.maxSize(conns), 0.0)
	for _, c := range conns {
		require.True(t, m.tetValidConn(c))
	}
}
