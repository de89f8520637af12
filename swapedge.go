// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import "fmt"

// SwapEdge performs the 3-2 bistellar flip: an interior edge shared by
// exactly 3 tets is removed and the 3 tets replaced by 2 spanning the
// opposite triangle. Boundary-adjacent edges are rejected outright, and the
// swap must not worsen the worst quality.
func SwapEdge(m *Mesh, opts *Options, v1, v2 int, sizeBudget float64) error {
	affected := m.EdgeNeighbors(v1, v2)
	if len(affected) == 0 {
		return fmt.Errorf("%w: (%d,%d)", ErrNoSuchEdge, v1, v2)
	}
	if len(affected) != 3 {
		return fmt.Errorf("%w: edge (%d,%d) shared by %d tets", ErrWrongNeighborCount, v1, v2, len(affected))
	}
	if len(m.edgeBoundaryFaces(v1, v2)) != 0 {
		return fmt.Errorf("%w: swap-edge at boundary (%d,%d)", ErrBoundary, v1, v2)
	}
	logger.Debug("swap-edge", "v1", v1, "v2", v2)

	oldTets := make([][4]int, len(affected))
	for i, t := range affected {
		oldTets[i] = m.Tets[t].Conn
	}
	beforeQuality := m.maxQuality(oldTets)

	// Ring vertices: n1 is shared by t0,t1; n2 by t0,t2; n0 by t1,t2 (the
	// vertex of t1 absent from t0). The two replacements keep t0's and t1's
	// conn order so orientation is inherited from the ring.
	t0, t1, t2 := oldTets[0], oldTets[1], oldTets[2]
	n0, n1, n2 := -1, -1, -1
	for j := 0; j < 4; j++ {
		if v := t0[j]; v != v1 && v != v2 {
			if indexOf4(t1, v) != -1 {
				n1 = v
			}
			if indexOf4(t2, v) != -1 {
				n2 = v
			}
		}
		if indexOf4(t0, t1[j]) == -1 {
			n0 = t1[j]
		}
	}
	if n0 == -1 || n1 == -1 || n2 == -1 || n0 == n1 || n1 == n2 {
		return fmt.Errorf("%w: edge (%d,%d) ring is not a fan", ErrWrongNeighborCount, v1, v2)
	}

	newTets := [][4]int{t0, t1}
	replace4(&newTets[0], v2, n0)
	replace4(&newTets[1], v1, n2)

	if s := m.maxSize(newTets); s > sizeBudget {
		return fmt.Errorf("%w: %.3g > %.3g", ErrSize, s, sizeBudget)
	}
	if afterQuality := m.maxQuality(newTets); beforeQuality < afterQuality {
		return fmt.Errorf("%w: %.3g -> %.3g", ErrQuality, beforeQuality, afterQuality)
	}
	for _, t := range newTets {
		if !m.tetValidConn(t) {
			return fmt.Errorf("%w: swap-edge (%d,%d)", ErrInverted, v1, v2)
		}
	}

	m.commitTets(affected, newTets, nil, nil)
	m.audit()
	return nil
}
