// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"errors"
	"fmt"
)

// ErrRejected is the class of recoverable operator failures: the edit did not
// happen and the mesh, vertex attributes, and shell are exactly as before the
// call. Every specific rejection reason wraps it, so callers can
// errors.Is(err, ErrRejected) to distinguish "try the next candidate" from a
// genuine error.
var ErrRejected = errors.New("edit rejected")

var (
	// ErrNoSuchEdge reports an operator called on vertices that do not span a
	// live edge or face.
	ErrNoSuchEdge = fmt.Errorf("%w: no such edge or face", ErrRejected)
	// ErrBoundary reports an interior-only operator applied at the boundary,
	// or the collapse of a boundary vertex onto an interior one.
	ErrBoundary = fmt.Errorf("%w: boundary conflict", ErrRejected)
	// ErrWrongNeighborCount reports a swap whose edge or face is not shared
	// by exactly the required number of tets.
	ErrWrongNeighborCount = fmt.Errorf("%w: wrong neighbor count", ErrRejected)
	// ErrLinkCondition reports a collapse that would identify vertices
	// non-manifoldly.
	ErrLinkCondition = fmt.Errorf("%w: link condition violated", ErrRejected)
	// ErrInverted reports a tentative tet that is degenerate or wrongly
	// oriented.
	ErrInverted = fmt.Errorf("%w: inverted or degenerate tet", ErrRejected)
	// ErrQuality reports a quality regression past the acceptance rule.
	ErrQuality = fmt.Errorf("%w: quality regression", ErrRejected)
	// ErrSize reports a tentative tet over the size budget.
	ErrSize = fmt.Errorf("%w: size budget exceeded", ErrRejected)
	// ErrShellInfeasible reports that the boundary feasibility check declined
	// the proposed shell patch.
	ErrShellInfeasible = fmt.Errorf("%w: shell patch infeasible", ErrRejected)
	// ErrNoImprovement reports a smoothing move that found no better
	// position or pillar.
	ErrNoImprovement = fmt.Errorf("%w: no improvement found", ErrRejected)
)

// SanityError is an internal-consistency violation found by the post-commit
// audit. It is raised as a panic: by the time the audit runs the commit has
// already happened, so there is no state to roll back to and continuing
// would propagate a corrupt mesh.
type SanityError struct {
	Check string
	Tet   int
}

func (e *SanityError) Error() string {
	if e.Tet >= 0 {
		return fmt.Sprintf("tetshell: sanity violation (%s) at tet %d", e.Check, e.Tet)
	}
	return fmt.Sprintf("tetshell: sanity violation (%s)", e.Check)
}
