// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import "sort"

// The connectivity index stores each vertex's incident tets as an ascending,
// de-duplicated []int. These helpers are the only ways those slices are
// manipulated, so ordering is preserved everywhere.

// intersect returns the elements common to two ascending slices.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// insertSorted inserts x into an ascending slice, keeping it ascending.
func insertSorted(a []int, x int) []int {
	i := sort.SearchInts(a, x)
	if i < len(a) && a[i] == x {
		return a
	}
	a = append(a, 0)
	copy(a[i+1:], a[i:])
	a[i] = x
	return a
}

// minus returns a with every element of the ascending slice rm removed.
func minus(a, rm []int) []int {
	out := make([]int, 0, len(a))
	j := 0
	for _, x := range a {
		for j < len(rm) && rm[j] < x {
			j++
		}
		if j < len(rm) && rm[j] == x {
			continue
		}
		out = append(out, x)
	}
	return out
}

// contains reports membership in an ascending slice.
func contains(a []int, x int) bool {
	i := sort.SearchInts(a, x)
	return i < len(a) && a[i] == x
}

// indexOf returns the position of x in a small fixed array, or -1.
func indexOf4(a [4]int, x int) int {
	for i, v := range a {
		if v == x {
			return i
		}
	}
	return -1
}

func indexOf3(a [3]int, x int) int {
	for i, v := range a {
		if v == x {
			return i
		}
	}
	return -1
}

// replace4 substitutes a with b in conn order and returns the slot, or -1.
func replace4(t *[4]int, a, b int) int {
	for i, v := range t {
		if v == a {
			t[i] = b
			return i
		}
	}
	return -1
}

func sort3(f [3]int) [3]int {
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	if f[1] > f[2] {
		f[1], f[2] = f[2], f[1]
	}
	if f[0] > f[1] {
		f[0], f[1] = f[1], f[0]
	}
	return f
}

// sortedFace returns the ascending vertex triple of face j of conn: the three
// entries other than conn[j], in the (j+k+1)%4 convention used throughout.
func sortedFace(conn [4]int, j int) [3]int {
	var f [3]int
	for k := 0; k < 3; k++ {
		f[k] = conn[(j+k+1)%4]
	}
	return sort3(f)
}
