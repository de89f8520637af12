// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package shell

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type cell [3]int

// HashGrid is a uniform hashed grid over mid-surface triangles, used by
// proximity queries while the shell is being edited. Triangles are bucketed
// by the cells their bounding box overlaps.
type HashGrid struct {
	h       float64
	cells   map[cell][]int
	inCells map[int][]cell
}

// NewHashGrid creates a grid with the given cell size.
func NewHashGrid(cellSize float64) *HashGrid {
	return &HashGrid{
		h:       cellSize,
		cells:   map[cell][]int{},
		inCells: map[int][]cell{},
	}
}

func (g *HashGrid) cellOf(p r3.Vec) cell {
	return cell{
		int(math.Floor(p.X / g.h)),
		int(math.Floor(p.Y / g.h)),
		int(math.Floor(p.Z / g.h)),
	}
}

// Insert adds the named cage triangles to the index.
func (g *HashGrid) Insert(c *Cage, fids []int) {
	for _, f := range fids {
		t := c.F[f]
		if t.IsRetired() {
			continue
		}
		lo := g.cellOf(minVec(c.Mid[t[0]], c.Mid[t[1]], c.Mid[t[2]]))
		hi := g.cellOf(maxVec(c.Mid[t[0]], c.Mid[t[1]], c.Mid[t[2]]))
		for x := lo[0]; x <= hi[0]; x++ {
			for y := lo[1]; y <= hi[1]; y++ {
				for z := lo[2]; z <= hi[2]; z++ {
					k := cell{x, y, z}
					g.cells[k] = append(g.cells[k], f)
					g.inCells[f] = append(g.inCells[f], k)
				}
			}
		}
	}
}

// Remove deletes one triangle from every cell it occupies.
func (g *HashGrid) Remove(fid int) {
	for _, k := range g.inCells[fid] {
		s := g.cells[k]
		for i, f := range s {
			if f == fid {
				s[i] = s[len(s)-1]
				g.cells[k] = s[:len(s)-1]
				break
			}
		}
	}
	delete(g.inCells, fid)
}

// Query returns candidate triangle ids whose cells overlap the box lo..hi.
// Candidates may repeat across cells; callers filter.
func (g *HashGrid) Query(lo, hi r3.Vec) []int {
	cl, ch := g.cellOf(lo), g.cellOf(hi)
	var out []int
	for x := cl[0]; x <= ch[0]; x++ {
		for y := cl[1]; y <= ch[1]; y++ {
			for z := cl[2]; z <= ch[2]; z++ {
				out = append(out, g.cells[cell{x, y, z}]...)
			}
		}
	}
	return out
}

// Rebuild reindexes every live triangle, used after compaction renumbers ids.
func (g *HashGrid) Rebuild(c *Cage) {
	g.cells = map[cell][]int{}
	g.inCells = map[int][]cell{}
	all := make([]int, 0, len(c.F))
	for i := range c.F {
		all = append(all, i)
	}
	g.Insert(c, all)
}

func minVec(a, b, c r3.Vec) r3.Vec {
	return r3.Vec{
		X: math.Min(a.X, math.Min(b.X, c.X)),
		Y: math.Min(a.Y, math.Min(b.Y, c.Y)),
		Z: math.Min(a.Z, math.Min(b.Z, c.Z)),
	}
}

func maxVec(a, b, c r3.Vec) r3.Vec {
	return r3.Vec{
		X: math.Max(a.X, math.Max(b.X, c.X)),
		Y: math.Max(a.Y, math.Max(b.Y, c.Y)),
		Z: math.Max(a.Z, math.Max(b.Z, c.Z)),
	}
}
