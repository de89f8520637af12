// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import "fmt"

// SwapFace performs the 2-3 bistellar flip: an interior face shared by
// exactly 2 tets is replaced by the diagonal joining the two opposite
// vertices, yielding 3 tets. Boundary faces are rejected, and the swap must
// not worsen the worst quality.
func SwapFace(m *Mesh, opts *Options, v0, v1, v2 int, sizeBudget float64) error {
	affected := m.FaceNeighbors(v0, v1, v2)
	switch len(affected) {
	case 0:
		return fmt.Errorf("%w: (%d,%d,%d)", ErrNoSuchEdge, v0, v1, v2)
	case 2:
	default:
		// A face with a single tet is on the boundary; more than 2 is
		// corrupt input.
		return fmt.Errorf("%w: face (%d,%d,%d) shared by %d tets", ErrBoundary, v0, v1, v2, len(affected))
	}
	logger.Debug("swap-face", "v0", v0, "v1", v1, "v2", v2)

	t0, t1 := affected[0], affected[1]
	oldTets := [][4]int{m.Tets[t0].Conn, m.Tets[t1].Conn}
	beforeQuality := m.maxQuality(oldTets)

	findOther := func(conn [4]int) int {
		for _, v := range conn {
			if v != v0 && v != v1 && v != v2 {
				return v
			}
		}
		panic(&SanityError{Check: "tet does not contain its own face", Tet: t0})
	}
	u1 := findOther(oldTets[1])

	// Each replacement keeps t0's conn order with one face corner swapped
	// for the opposite vertex of t1, inheriting t0's orientation.
	newTets := [][4]int{oldTets[0], oldTets[0], oldTets[0]}
	replace4(&newTets[0], v0, u1)
	replace4(&newTets[1], v1, u1)
	replace4(&newTets[2], v2, u1)

	for _, t := range newTets {
		if !m.tetValidConn(t) {
			return fmt.Errorf("%w: swap-face (%d,%d,%d)", ErrInverted, v0, v1, v2)
		}
	}
	if afterQuality := m.maxQuality(newTets); beforeQuality < afterQuality {
		return fmt.Errorf("%w: %.3g -> %.3g", ErrQuality, beforeQuality, afterQuality)
	}
	if s := m.maxSize(newTets); s > sizeBudget {
		return fmt.Errorf("%w: %.3g > %.3g", ErrSize, s, sizeBudget)
	}

	m.commitTets(affected, newTets, nil, nil)
	m.audit()
	return nil
}
