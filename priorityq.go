// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import "container/heap"

// edgeCand is a candidate edge for a pass, ordered by key. Passes that want
// shortest-first push negated keys.
type edgeCand struct {
	v0, v1 int
	key    float64
}

type edgeQueue []edgeCand

func (q edgeQueue) Len() int            { return len(q) }
func (q edgeQueue) Less(i, j int) bool  { return q[i].key > q[j].key }
func (q edgeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *edgeQueue) Push(x interface{}) { *q = append(*q, x.(edgeCand)) }
func (q *edgeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

func (q *edgeQueue) push(c edgeCand) { heap.Push(q, c) }
func (q *edgeQueue) pop() edgeCand   { return heap.Pop(q).(edgeCand) }

type faceCand struct {
	v   [3]int
	key float64
}

type faceQueue []faceCand

func (q faceQueue) Len() int            { return len(q) }
func (q faceQueue) Less(i, j int) bool  { return q[i].key > q[j].key }
func (q faceQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *faceQueue) Push(x interface{}) { *q = append(*q, x.(faceCand)) }
func (q *faceQueue) Pop() interface{} {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

func (q *faceQueue) push(c faceCand) { heap.Push(q, c) }
func (q *faceQueue) pop() faceCand   { return heap.Pop(q).(faceCand) }
