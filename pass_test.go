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

func TestEdgeQueueOrdering(t *testing.T) {
	var q edgeQueue
	q.push(edgeCand{v0: 0, v1: 1, key: 1})
	q.push(edgeCand{v0: 2, v1: 3, key: 5})
	q.push(edgeCand{v0: 4, v1: 5, key: 3})
	assert.Equal(t, 5.0, q.pop().key)
	assert.Equal(t, 3.0, q.pop().key)
	assert.Equal(t, 1.0, q.pop().key)
	assert.Zero(t, q.Len())
}

func TestFaceQueueOrdering(t *testing.T) {
	var q faceQueue
	q.push(faceCand{v: [3]int{0, 1, 2}, key: 2})
	q.push(faceCand{v: [3]int{3, 4, 5}, key: 9})
	assert.Equal(t, 9.0, q.pop().key)
	assert.Equal(t, 2.0, q.pop().key)
}

func TestSplitPassMeetsSizing(t *testing.T) {
	m, opts := subdividedTetMesh(t, centroid)
	opts.TargetEdgeLength = 0.4
	n, err := SplitPass(m, opts)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	for _, c := range m.collectEdges() {
		l := m.sizingLength(opts, c.v0, c.v1)
		assert.LessOrEqual(t, m.edgeLen2(c.v0, c.v1), (4.0/3.0)*(4.0/3.0)*l*l+1e-9)
	}
	m.Sanity()
}

func TestCollapsePassCoarsens(t *testing.T) {
	m, opts := subdividedTetMesh(t, centroid)
	opts.TargetEdgeLength = 3 // everything is a short edge now
	n, err := CollapsePass(m, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, m.LiveTets())
	m.Sanity()
}

func TestSwapEdgePassFlipsFan(t *testing.T) {
	m, opts := fanMesh(t, math.Sqrt2, 3)
	n, err := SwapEdgePass(m, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, m.LiveTets())
}

func TestSwapFacePassFlipsSliver(t *testing.T) {
	m, opts := twoTetMesh(t, 0.3)
	n, err := SwapFacePass(m, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, m.LiveTets())
}

func TestSmoothPassVisitsEveryVertex(t *testing.T) {
	m, opts := subdividedTetMesh(t, r3.Vec{X: 0.15, Y: 0.15, Z: 0.15})
	n, err := SmoothPass(m, opts)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
	m.Sanity()
}
