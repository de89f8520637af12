// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersect(t *testing.T) {
	assert.Equal(t, []int{2, 5}, intersect([]int{1, 2, 5, 9}, []int{2, 3, 5}))
	assert.Empty(t, intersect([]int{1, 3}, []int{2, 4}))
	assert.Empty(t, intersect(nil, []int{1}))
}

func TestInsertSorted(t *testing.T) {
	a := []int{1, 4, 9}
	a = insertSorted(a, 4) // already present
	assert.Equal(t, []int{1, 4, 9}, a)
	a = insertSorted(a, 0)
	a = insertSorted(a, 6)
	a = insertSorted(a, 12)
	assert.Equal(t, []int{0, 1, 4, 6, 9, 12}, a)
}

func TestMinus(t *testing.T) {
	assert.Equal(t, []int{1, 9}, minus([]int{1, 4, 6, 9}, []int{4, 6}))
	assert.Equal(t, []int{1, 4}, minus([]int{1, 4}, []int{0, 9}))
	assert.Empty(t, minus([]int{3}, []int{3}))
}

func TestContains(t *testing.T) {
	assert.True(t, contains([]int{1, 4, 9}, 4))
	assert.False(t, contains([]int{1, 4, 9}, 5))
	assert.False(t, contains(nil, 0))
}

func TestReplace4(t *testing.T) {
	c := [4]int{7, 3, 9, 1}
	assert.Equal(t, 2, replace4(&c, 9, 5))
	assert.Equal(t, [4]int{7, 3, 5, 1}, c)
	assert.Equal(t, -1, replace4(&c, 9, 0))
}

func TestSortedFace(t *testing.T) {
	conn := [4]int{7, 3, 9, 1}
	// Face j excludes conn[j].
	assert.Equal(t, [3]int{1, 3, 9}, sortedFace(conn, 0))
	assert.Equal(t, [3]int{1, 7, 9}, sortedFace(conn, 1))
	assert.Equal(t, [3]int{1, 3, 7}, sortedFace(conn, 2))
	assert.Equal(t, [3]int{3, 7, 9}, sortedFace(conn, 3))
}
