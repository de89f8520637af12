// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import "sort"

// audit runs the full structural check unless the caller opted out.
// Operators call it after every successful commit.
func (m *Mesh) audit() {
	if m.SkipAudit {
		return
	}
	m.Sanity()
}

type faceUse struct {
	count  int
	marked int // occurrences carrying a shell face id
}

// Sanity panics with a *SanityError on the first structural violation it
// finds: an invalid live tet, a duplicated tet, a facet shared by more than
// two tets, a surface facet without a shell face (or the reverse), a shell
// face count out of step with the cage, a broken incidence list, or a
// boundary vertex that has drifted off its pillar.
func (m *Mesh) Sanity() {
	faces := make(map[[3]int]*faceUse)
	seen := make(map[[4]int]int)
	marks := 0

	for t := range m.Tets {
		tet := &m.Tets[t]
		if tet.Removed {
			continue
		}
		if !m.tetValidConn(tet.Conn) {
			panic(&SanityError{Check: "tet is degenerate or inverted", Tet: t})
		}
		key := tet.Conn
		sort.Ints(key[:])
		if _, dup := seen[key]; dup {
			panic(&SanityError{Check: "duplicate tet", Tet: t})
		}
		seen[key] = t
		for j := 0; j < 4; j++ {
			f := sortedFace(tet.Conn, j)
			u := faces[f]
			if u == nil {
				u = &faceUse{}
				faces[f] = u
			}
			u.count++
			if tet.PrismID[j] != -1 {
				u.marked++
				marks++
				if tet.PrismID[j] < 0 || tet.PrismID[j] >= len(m.Cage.F) {
					panic(&SanityError{Check: "shell face id out of range", Tet: t})
				}
				if m.Cage.F[tet.PrismID[j]].IsRetired() {
					panic(&SanityError{Check: "tet facet tagged with retired shell face", Tet: t})
				}
			}
			if u.count > 2 {
				panic(&SanityError{Check: "facet shared by more than two tets", Tet: t})
			}
		}
	}

	for _, u := range faces {
		if u.count == 1 && u.marked != 1 {
			panic(&SanityError{Check: "surface facet without a shell face", Tet: -1})
		}
		if u.count == 2 && u.marked != 0 {
			panic(&SanityError{Check: "interior facet tagged with a shell face", Tet: -1})
		}
	}
	if live := m.Cage.LiveFaces(); marks != live {
		panic(&SanityError{Check: "shell face tags out of step with the cage", Tet: -1})
	}

	for v := range m.Verts {
		for i, t := range m.VT[v] {
			if i > 0 && m.VT[v][i-1] >= t {
				panic(&SanityError{Check: "incidence list not sorted", Tet: t})
			}
			if t < 0 || t >= len(m.Tets) || m.Tets[t].Removed {
				panic(&SanityError{Check: "incidence list names dead tet", Tet: t})
			}
			if indexOf4(m.Tets[t].Conn, v) < 0 {
				panic(&SanityError{Check: "incidence list names tet without vertex", Tet: t})
			}
		}
		mid := m.Verts[v].MidID
		if mid == -1 {
			continue
		}
		if mid < 0 || mid >= m.Cage.NumVerts() {
			panic(&SanityError{Check: "pillar id out of range", Tet: -1})
		}
		if len(m.VT[v]) > 0 && m.Verts[v].Pos != m.Cage.Mid[mid] {
			panic(&SanityError{Check: "boundary vertex off its pillar", Tet: -1})
		}
	}

	for t := range m.Tets {
		if m.Tets[t].Removed {
			continue
		}
		for _, v := range m.Tets[t].Conn {
			if !contains(m.VT[v], t) {
				panic(&SanityError{Check: "tet missing from incidence list", Tet: t})
			}
		}
	}
}
