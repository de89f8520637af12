// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package shell

import (
	"errors"
	"fmt"
)

// ErrInfeasible is returned by a Feasibility check that declines a patch.
var ErrInfeasible = errors.New("shell: patch rejected by feasibility check")

// Feasibility re-certifies a proposed boundary patch against the reference
// surface. oldFids are the triangle slots being replaced and movedTris the
// proposed geometry; on success it returns one tracked set per proposed
// triangle. Implementations must be side-effect-free on failure: the cage is
// only mutated by the caller, after a success.
type Feasibility interface {
	AttemptShellOperation(c *Cage, distortionBound float64, oldFids []int, movedTris []Tri) ([]TrackSet, error)
}

// TrackChecker is the reference Feasibility implementation. It pools the
// replaced triangles' tracked sets, rejects degenerate or empty proposals,
// and hands the pooled set to every proposed triangle. Production deployments
// substitute an implementation that intersects each proposed triangle's prism
// volume with the reference surface; the contract is the same.
type TrackChecker struct {
	// MinArea rejects proposed mid-surface triangles thinner than this.
	MinArea float64
}

// AttemptShellOperation implements Feasibility.
func (tc *TrackChecker) AttemptShellOperation(c *Cage, distortionBound float64, oldFids []int, movedTris []Tri) ([]TrackSet, error) {
	pool := TrackSet{}
	for _, f := range oldFids {
		if c.F[f].IsRetired() {
			return nil, fmt.Errorf("%w: replacing retired triangle %d", ErrInfeasible, f)
		}
		for r := range c.Tracks[f] {
			pool[r] = struct{}{}
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: replaced patch tracks nothing", ErrInfeasible)
	}
	minArea := tc.MinArea
	if minArea == 0 {
		minArea = 1e-16
	}
	tracks := make([]TrackSet, len(movedTris))
	for i, t := range movedTris {
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			return nil, fmt.Errorf("%w: triangle %v has a repeated corner", ErrInfeasible, t)
		}
		if a := triArea(c.Mid[t[0]], c.Mid[t[1]], c.Mid[t[2]]); a < minArea {
			return nil, fmt.Errorf("%w: triangle %v degenerate (area %g)", ErrInfeasible, t, a)
		}
		tracks[i] = pool.Clone()
	}
	return tracks, nil
}
