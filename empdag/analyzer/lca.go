package analyzer

import (
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// LCA returns the lowest common ancestor of MPs u and v in a tree EmpDag,
// per spec.md §4.3: walk the preorder-larger node up through its first
// reverse arc until its [preorder, postorder] interval contains the other.
// Requires res to have been produced by Run on d. On a non-tree EmpDag the
// two nodes may share no single-node ancestor at all; callers must verify the
// result (for instance with IsNash) themselves, per spec.md's "on a DAG
// the spec requires that any two equation-owning MP share an ancestor that is
// a Nash node" rule.
func LCA(d *empdag.EmpDag, res *Result, u, v identity.MPIndex) (identity.NodeUID, error) {
	uu := identity.MPUid(u.ID())
	vu := identity.MPUid(v.ID())

	uInfo, ok := res.Info[uu]
	if !ok {
		return 0, rhperr.New(rhperr.EMPIncorrectInput, "LCA: MP %s not visited", u)
	}
	vInfo, ok := res.Info[vu]
	if !ok {
		return 0, rhperr.New(rhperr.EMPIncorrectInput, "LCA: MP %s not visited", v)
	}

	cur, curInfo := uu, uInfo
	other, otherInfo := vu, vInfo
	if curInfo.Preorder < otherInfo.Preorder {
		cur, curInfo, other, otherInfo = other, otherInfo, cur, curInfo
	}

	guard := 0
	for !contains(curInfo, otherInfo) {
		parent, ok := firstParent(d, cur)
		if !ok {
			return 0, rhperr.New(rhperr.EMPIncorrectInput, "LCA: no common ancestor for MPs %s and %s", u, v)
		}
		// Reverse arcs carry the incoming edge kind; res.Info is keyed by
		// forward UIDs, whose edge bit is CTRL.
		cur = parent.WithEdgeKind(identity.EdgeCTRL)
		curInfo, ok = res.Info[cur]
		if !ok {
			return 0, rhperr.New(rhperr.EMPIncorrectInput, "LCA: ancestor of MP %s was never visited", u)
		}
		guard++
		if guard > len(res.TopoOrder)+1 {
			return 0, rhperr.New(rhperr.EMPRuntimeError, "LCA: traversal exceeded node count, EmpDag is not a tree")
		}
	}

	return cur, nil
}

func contains(outer, inner *NodeInfo) bool {
	return outer.Preorder <= inner.Preorder && inner.Postorder <= outer.Postorder
}

func firstParent(d *empdag.EmpDag, uid identity.NodeUID) (identity.NodeUID, bool) {
	rarcs := d.ReverseArcs(uid)
	if len(rarcs) == 0 {
		return 0, false
	}

	return rarcs[0], true
}

// IsNash reports whether uid names a Nash node; exported for callers (e.g.
// the classification pass) implementing the "require LCA to be a Nash node"
// rule without importing identity directly.
func IsNash(uid identity.NodeUID) bool { return uid.IsNash() }
