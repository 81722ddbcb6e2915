package empdag

import (
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// Clone returns a deep structural copy of d. renameMap, when non-nil, maps
// this EmpDag's MP ids to the ids they should carry in the clone, for
// rebasing onto a destination container whose variable/equation indices have
// shifted (orchestrator.Process passes nil); every MP id present in d must have
// an entry in renameMap or Clone fails with EMPIncorrectInput, per SPEC_FULL
// §3's "error on missing mapping" contract. A nil renameMap clones with MP ids
// unchanged. The clone's per-MP arrays are re-indexed by the new id, so
// renameMap need not be order-preserving; it should still be dense from zero,
// since a scattered target range leaves unused array slots as nil MPs.
func (d *EmpDag) Clone(renameMap map[identity.MPIndex]identity.MPIndex) (*EmpDag, error) {
	d.muMP.RLock()
	d.muNash.RLock()
	defer d.muMP.RUnlock()
	defer d.muNash.RUnlock()

	remap := func(mi identity.MPIndex) (identity.MPIndex, error) {
		if renameMap == nil {
			return mi, nil
		}
		out, ok := renameMap[mi]
		if !ok {
			return identity.MPInvalid, rhperr.New(rhperr.EMPIncorrectInput,
				"Clone: renameMap has no entry for MP %s", mi)
		}

		return out, nil
	}

	// newIDOf[oldIndex] = new id's array slot.
	newIDOf := make([]int, len(d.mps))
	newSize := len(d.mps)
	for i, mp := range d.mps {
		newID, err := remap(mp.ID)
		if err != nil {
			return nil, err
		}
		newIDOf[i] = newID.ID()
		if newID.ID()+1 > newSize {
			newSize = newID.ID() + 1
		}
	}

	remapUID := func(u identity.NodeUID) (identity.NodeUID, error) {
		if u.IsNash() {
			return u, nil
		}
		newID, err := remap(identity.NewRegularMP(u.ID()))
		if err != nil {
			return 0, err
		}

		return identity.PackUID(identity.KindMP, u.EdgeKind(), newID.ID()), nil
	}

	out := New()
	out.mps = make([]*MathPrgm, newSize)
	out.mpCarcs = make([][]identity.NodeUID, newSize)
	out.mpVarcs = make([][]VFArc, newSize)
	out.mpRarcs = make([][]identity.NodeUID, newSize)

	for i, mp := range d.mps {
		slot := newIDOf[i]
		clone := *mp
		clone.ID = identity.NewRegularMP(slot)
		clone.ownedVars = append([]identity.VarIndex(nil), mp.ownedVars...)
		clone.ownedEqus = append([]identity.EquIndex(nil), mp.ownedEqus...)
		out.mps[slot] = &clone

		carcs := make([]identity.NodeUID, len(d.mpCarcs[i]))
		for j, a := range d.mpCarcs[i] {
			r, err := remapUID(a)
			if err != nil {
				return nil, err
			}
			carcs[j] = r
		}
		out.mpCarcs[slot] = carcs

		varcs := make([]VFArc, len(d.mpVarcs[i]))
		for j, a := range d.mpVarcs[i] {
			r, err := remapUID(a.Child)
			if err != nil {
				return nil, err
			}
			varcs[j] = VFArc{Child: r, Weight: a.Weight.Clone()}
		}
		out.mpVarcs[slot] = varcs

		rarcs := make([]identity.NodeUID, len(d.mpRarcs[i]))
		for j, a := range d.mpRarcs[i] {
			r, err := remapUID(a)
			if err != nil {
				return nil, err
			}
			rarcs[j] = r
		}
		out.mpRarcs[slot] = rarcs
	}

	out.nashes = make([]*NashNode, len(d.nashes))
	for i, n := range d.nashes {
		clone := *n
		clone.Children = make([]identity.NodeUID, len(n.Children))
		for j, c := range n.Children {
			r, err := remapUID(c)
			if err != nil {
				return nil, err
			}
			clone.Children[j] = r
		}
		out.nashes[i] = &clone
	}

	out.nashRarcs = make([][]identity.NodeUID, len(d.nashRarcs))
	for i, arcs := range d.nashRarcs {
		cloned := make([]identity.NodeUID, len(arcs))
		for j, a := range arcs {
			r, err := remapUID(a)
			if err != nil {
				return nil, err
			}
			cloned[j] = r
		}
		out.nashRarcs[i] = cloned
	}

	out.roots = make([]identity.NodeUID, len(d.roots))
	for i, r := range d.roots {
		ru, err := remapUID(r)
		if err != nil {
			return nil, err
		}
		out.roots[i] = ru
	}
	if d.hasRoot {
		ru, err := remapUID(d.uidRoot)
		if err != nil {
			return nil, err
		}
		out.uidRoot = ru
		out.hasRoot = true
	}

	out.Features = d.Features

	return out, nil
}
