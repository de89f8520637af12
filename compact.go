// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

// Compact drops tombstoned tets and vertices with no incident tet, compacts
// the cage in lockstep, and rewrites every cross-reference (connectivity,
// incidence lists, pillar ids, shell face tags, per-pillar target
// adjustments) through the resulting maps. It returns old-to-new id maps
// for vertices and tets, -1 marking a dropped entry. opts may be nil when
// no adjustment table needs remapping. Only run between passes: candidate
// ids held elsewhere go stale.
func (m *Mesh) Compact(opts *Options) (vertMap, tetMap []int) {
	vertMap = make([]int, len(m.Verts))
	nv := 0
	for v := range m.Verts {
		if len(m.VT[v]) == 0 {
			vertMap[v] = -1
			continue
		}
		vertMap[v] = nv
		m.Verts[nv] = m.Verts[v]
		m.VT[nv] = m.VT[v]
		nv++
	}
	m.Verts = m.Verts[:nv]
	m.VT = m.VT[:nv]

	tetMap = make([]int, len(m.Tets))
	nt := 0
	for t := range m.Tets {
		if m.Tets[t].Removed {
			tetMap[t] = -1
			continue
		}
		tetMap[t] = nt
		m.Tets[nt] = m.Tets[t]
		nt++
	}
	m.Tets = m.Tets[:nt]

	vidMap, faceMap := m.Cage.Compact()

	for t := range m.Tets {
		for j := 0; j < 4; j++ {
			m.Tets[t].Conn[j] = vertMap[m.Tets[t].Conn[j]]
			if pid := m.Tets[t].PrismID[j]; pid != -1 {
				m.Tets[t].PrismID[j] = faceMap[pid]
			}
		}
	}
	for v := range m.Verts {
		if mid := m.Verts[v].MidID; mid != -1 {
			m.Verts[v].MidID = vidMap[mid]
		}
		for i, t := range m.VT[v] {
			m.VT[v][i] = tetMap[t]
		}
	}

	if opts != nil && len(opts.TargetAdjustment) > 0 {
		adj := make([]float64, m.Cage.NumVerts())
		for i := range adj {
			adj[i] = 1
		}
		for old, nw := range vidMap {
			if nw != -1 && old < len(opts.TargetAdjustment) {
				adj[nw] = opts.TargetAdjustment[old]
			}
		}
		opts.TargetAdjustment = adj
	}

	logger.Info("compacted", "verts", nv, "tets", nt, "shell_faces", len(m.Cage.F))
	m.audit()
	return vertMap, tetMap
}
