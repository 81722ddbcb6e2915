package analyzer

import (
	"fmt"
	"strings"

	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// VarRole classifies one variable's relationship to the equation that
// touches it, per spec.md §4.3's per-equation classification rules.
type VarRole int

const (
	RoleOwn VarRole = iota
	RoleSolution
	RoleControl
	RoleHistory
	RoleEquilibrium
)

// EquStats tallies, for one equation, how many of its touched variables fall
// into each VarRole (spec.md's num_ownvar/num_solvar/num_ctrlvar/num_history
// counters).
type EquStats struct {
	NumOwnVar     int
	NumSolVar     int
	NumCtrlVar    int
	NumHistoryVar int
}

// classifyEquations walks every equation of every MP in d and tallies the
// role of each touched variable relative to the equation's owning MP,
// recording "foreign equation" and LCA-failure diagnostics along the way.
func classifyEquations(d *empdag.EmpDag, c container.Facade, res *Result, diags *rhperr.Diagnostics) {
	for i := 0; i < d.NumMP(); i++ {
		mp := d.MP(identity.NewRegularMP(i))
		if mp == nil {
			continue
		}
		for _, ei := range mp.OwnedEqus() {
			classifyOneEquation(d, c, res, diags, mp, ei)
		}
	}
}

func classifyOneEquation(
	d *empdag.EmpDag,
	c container.Facade,
	res *Result,
	diags *rhperr.Diagnostics,
	mpSelf *empdag.MathPrgm,
	ei identity.EquIndex,
) {
	equ, ok := c.Equation(ei)
	if !ok || equ == nil {
		return
	}

	stats := EquStats{}
	owningMPs := map[identity.MPIndex]bool{}
	hasOwnedDescendant := false

	for _, vi := range equ.SortedVars() {
		owner, ok := c.VarOwner(vi)
		if !ok {
			continue
		}
		owningMPs[owner] = true

		if owner.ID() == mpSelf.ID.ID() {
			stats.NumOwnVar++
			continue
		}

		switch relation(d, res, mpSelf.ID, owner) {
		case relSelfCtrlChild:
			stats.NumSolVar++
			hasOwnedDescendant = true
		case relVFChild:
			diags.Addf(rhperr.EMPIncorrectInput, mpName(mpSelf),
				"equation %s references variable owned by %s, a future (VF-child) variable in parent equation", equName(c, ei), mpName(d.MP(owner)))
		case relCtrlParent, relCtrlAncestor:
			stats.NumCtrlVar++
		case relVFParent, relVFAncestor:
			stats.NumHistoryVar++
		case relCtrlDescendant:
			stats.NumSolVar++
			hasOwnedDescendant = true
		default:
			stats.NumOwnVar += 0 // equilibrium-variable: verify LCA is a Nash node
			lca, err := LCA(d, res, mpSelf.ID, owner)
			if err != nil || !IsNash(lca) {
				diags.Addf(rhperr.EMPIncorrectInput, mpName(mpSelf),
					"equation %s touches variable of %s with no common Nash ancestor", equName(c, ei), mpName(d.MP(owner)))
			}
		}
	}

	if stats.NumOwnVar == 0 && !hasOwnedDescendant {
		names := make([]string, 0, len(owningMPs))
		for m := range owningMPs {
			names = append(names, mpName(d.MP(m)))
		}
		diags.Addf(rhperr.EMPIncorrectInput, mpName(mpSelf),
			"equation %s owns no variable of MP %s; owning MPs: %s — consider reassigning it",
			equName(c, ei), mpName(mpSelf), strings.Join(names, ", "))
	}
}

type relKind int

const (
	relNone relKind = iota
	relSelfCtrlChild
	relVFChild
	relCtrlParent
	relVFParent
	relCtrlAncestor
	relVFAncestor
	relCtrlDescendant
)

// relation classifies owner's structural position relative to self, per
// spec.md §4.3's ordered rule list (own-variable is handled by the caller
// before this is reached). Immediate relations (direct CTRL/VF child or
// parent) are checked first; anything else is judged by the single tree path
// between the two MPs, per spec.md §4.3's "ancestor/descendant reachable by
// a path containing >=1 CTRL edge" wording — a path may freely mix CTRL and
// VF edges, so ancestor/descendant status is decided by preorder/postorder
// interval containment (the same timestamps LCA uses), not by requiring
// every edge on the path to share one kind.
func relation(d *empdag.EmpDag, res *Result, self, owner identity.MPIndex) relKind {
	selfUid := identity.MPUid(self.ID())
	ownerUid := identity.MPUid(owner.ID())

	for _, c := range d.CtrlChildren(self) {
		if c == ownerUid {
			return relSelfCtrlChild
		}
	}
	for _, a := range d.VFChildren(self) {
		if a.Child == ownerUid {
			return relVFChild
		}
	}
	for _, r := range d.ReverseArcs(selfUid) {
		if r.ID() == owner.ID() && r.IsMP() {
			if r.EdgeKind() == identity.EdgeCTRL {
				return relCtrlParent
			}

			return relVFParent
		}
	}

	selfInfo, selfOK := res.Info[selfUid]
	ownerInfo, ownerOK := res.Info[ownerUid]
	if !selfOK || !ownerOK {
		return relNone
	}

	if contains(ownerInfo, selfInfo) {
		if pathHasCtrlEdge(d, res, selfUid, ownerUid) {
			return relCtrlAncestor
		}

		return relVFAncestor
	}
	if contains(selfInfo, ownerInfo) && pathHasCtrlEdge(d, res, ownerUid, selfUid) {
		return relCtrlDescendant
	}

	return relNone
}

// pathHasCtrlEdge walks the unique reverse-arc chain from descendant up to
// ancestor — the same "first reverse arc" traversal LCA uses — and reports
// whether at least one hop on that path is a CTRL edge. Callers must already
// know ancestor's preorder/postorder interval contains descendant's.
func pathHasCtrlEdge(d *empdag.EmpDag, res *Result, descendant, ancestor identity.NodeUID) bool {
	cur := descendant
	guard := 0
	for !uidEq(cur, ancestor) {
		parent, ok := firstParent(d, cur)
		if !ok {
			return false
		}
		if parent.EdgeKind() == identity.EdgeCTRL {
			return true
		}
		cur = parent
		guard++
		if guard > len(res.TopoOrder)+1 {
			return false
		}
	}

	return false
}

// uidEq compares two NodeUIDs by node kind and id, ignoring the edge-kind
// bit (which records the incoming edge, not an identity of the node).
func uidEq(a, b identity.NodeUID) bool {
	return a.Kind() == b.Kind() && a.ID() == b.ID()
}

func mpName(mp *empdag.MathPrgm) string {
	if mp == nil {
		return "?"
	}
	if mp.Name != "" {
		return mp.Name
	}

	return mp.ID.String()
}

func equName(c container.Facade, ei identity.EquIndex) string {
	if name, ok := c.EquName(ei); ok && name != "" {
		return name
	}

	return fmt.Sprintf("e%d", int(ei))
}
