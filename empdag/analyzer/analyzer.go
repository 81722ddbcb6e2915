// Package analyzer implements ReSHOP's EmpDagAnalyzer: a DFS-based static
// analysis over an empdag.EmpDag (cycle detection, preorder/postorder
// timestamps, topological order, is_tree/max_depth, saddle-path detection,
// lowest-common-ancestor queries, and per-equation classification), per
// spec.md §4.3.
//
// The traversal generalizes the teacher's three-color DFS machine
// (dfs/dfs.go, dfs/cycle.go, dfs/topological.go: White/Gray/Black states,
// post-order reversed into topological order, sentinel errors wrapped with
// fmt.Errorf/%w) from core.Graph's single string-keyed adjacency to the
// EmpDag's two node kinds and two forward-arc kinds, adding the path-state
// bookkeeping (path_type, saddle-path registration) spec.md §4.3 requires.
package analyzer

import (
	"sort"

	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// state mirrors the teacher's White/Gray/Black three-color scheme with three
// values; a detected cycle is recorded on Result (HasCycle, CycleStart)
// rather than as a node state.
type state int

const (
	notExplored state = iota
	inProgress
	processed
)

// PathType classifies the kind of path the DFS is currently inside.
type PathType int

const (
	PathUnset PathType = iota
	PathVFMin
	PathVFMax
	PathCtrl
	PathEquil
)

// ErrDagCycle is returned when the EmpDag contains a directed cycle.
var ErrDagCycle = rhperr.New(rhperr.EMPIncorrectInput, "cycle detected in EMPDAG")

// NodeInfo holds the per-node output of the analysis.
type NodeInfo struct {
	Preorder  int
	Postorder int
	Depth     int
}

// Result is the full output of a Run, per spec.md §4.3's bulleted list.
type Result struct {
	Info map[identity.NodeUID]*NodeInfo

	// TopoOrder is the unique DFS post-order (children first), stable
	// tie-broken by child insertion index, per §5's ordering guarantee.
	TopoOrder []identity.NodeUID
	TopoIndex map[identity.NodeUID]int

	IsTree   bool
	MaxDepth int

	AdversarialMPs   []identity.MPIndex
	SaddlePathStarts []identity.MPIndex

	CycleStart identity.NodeUID
	HasCycle   bool
}

// visitState is the per-node traversal bookkeeping carried alongside Result.
type visitState struct {
	st                   state
	pathType             PathType
	saddlePathStart      identity.MPIndex
	saddlePathRegistered bool
}

// Run performs the full static analysis described in spec.md §4.3 starting
// from every declared root of d, and returns the aggregated result alongside
// any diagnostics raised along the way. A non-empty Diagnostics return means
// the caller (normally orchestrator.Process) must abort.
func Run(d *empdag.EmpDag, c container.Facade) (*Result, *rhperr.Diagnostics) {
	diags := rhperr.NewDiagnostics()
	res := &Result{
		Info:      make(map[identity.NodeUID]*NodeInfo),
		TopoIndex: make(map[identity.NodeUID]int),
		IsTree:    true,
	}
	visited := make(map[identity.NodeUID]*visitState)
	clock := 0

	roots := d.Roots()
	if len(roots) == 0 {
		d.ComputeRoots()
		roots = d.Roots()
	}

	for _, r := range roots {
		if visited[r] == nil {
			clock = visit(d, r, 0, PathUnset, identity.MPInvalid, &clock, res, visited, diags)
		}
	}

	// Any MP never reached from a declared root is itself reported (spec.md
	// §4.3's "Error surface": "any MP that is not visited is reported").
	for i := 0; i < d.NumMP(); i++ {
		uid := identity.MPUid(i)
		if visited[uid] == nil {
			mp := d.MP(identity.NewRegularMP(i))
			diags.Addf(rhperr.EMPIncorrectInput, displayName(mp.Name, mp.ID), "MP %s was never reached from a root", displayName(mp.Name, mp.ID))
		}
	}
	for i := 0; i < d.NumNash(); i++ {
		n := d.Nash(identity.NashIndex(i))
		if len(n.Children) == 0 {
			diags.Addf(rhperr.EMPIncorrectInput, nashDisplayName(n), "Nash node %s has no children", nashDisplayName(n))
		}
	}

	sort.Slice(res.AdversarialMPs, func(i, j int) bool { return res.AdversarialMPs[i] < res.AdversarialMPs[j] })
	sort.Slice(res.SaddlePathStarts, func(i, j int) bool { return res.SaddlePathStarts[i] < res.SaddlePathStarts[j] })

	if c != nil {
		classifyEquations(d, c, res, diags)
	}

	d.Features.IsTree = res.IsTree
	d.Features.HasVFPath = d.Features.HasVFPath || len(res.AdversarialMPs) > 0

	return res, diags
}

// visit runs the three-color DFS from uid, reached at depth via a path of the
// given pathType, inheriting saddlePathStart from parent; it mutates res and
// visited in place and returns the updated clock value.
func visit(
	d *empdag.EmpDag,
	uid identity.NodeUID,
	depth int,
	pathType PathType,
	inheritedStart identity.MPIndex,
	clock *int,
	res *Result,
	visited map[identity.NodeUID]*visitState,
	diags *rhperr.Diagnostics,
) int {
	vs := &visitState{st: inProgress, pathType: pathType, saddlePathStart: inheritedStart}
	visited[uid] = vs

	*clock++
	info := &NodeInfo{Preorder: *clock, Depth: depth}
	res.Info[uid] = info
	if depth > res.MaxDepth {
		res.MaxDepth = depth
	}

	children := childrenOf(d, uid, pathType == PathVFMin || pathType == PathVFMax)
	for _, ch := range children {
		childVS, seen := visited[ch.uid]
		switch {
		case !seen:
			childPathType, childStart := propagate(d, uid, ch, pathType, inheritedStart, res, diags)
			*clock = visit(d, ch.uid, depth+1, childPathType, childStart, clock, res, visited, diags)
		case childVS.st == inProgress:
			res.HasCycle = true
			res.CycleStart = ch.uid
			diags.Add(ErrDagCycle)
		case childVS.st == processed:
			res.IsTree = false
		}
	}

	*clock++
	info.Postorder = *clock
	res.TopoIndex[uid] = len(res.TopoOrder)
	res.TopoOrder = append(res.TopoOrder, uid)
	vs.st = processed

	return *clock
}

// childEdge is one forward edge discovered while exploring a node, tagged
// with whether it is a VF edge (and, if so, the edge's ArcVF weight).
type childEdge struct {
	uid      identity.NodeUID
	isVF     bool
	arc      empdag.ArcVF
}

// childrenOf returns uid's forward children in the order spec.md §4.3
// prescribes: VF children then CTRL children for an MP reached via CTRL,
// reversed when the current node already lies inside a VF path.
func childrenOf(d *empdag.EmpDag, uid identity.NodeUID, inVFPath bool) []childEdge {
	if uid.IsNash() {
		n := d.Nash(identity.NashIndex(uid.ID()))
		out := make([]childEdge, 0, len(n.Children))
		for _, c := range n.Children {
			out = append(out, childEdge{uid: c})
		}

		return out
	}

	mp := identity.NewRegularMP(uid.ID())
	var vf []childEdge
	for _, a := range d.VFChildren(mp) {
		vf = append(vf, childEdge{uid: a.Child, isVF: true, arc: a.Weight})
	}
	var ctrl []childEdge
	for _, c := range d.CtrlChildren(mp) {
		ctrl = append(ctrl, childEdge{uid: c})
	}

	if inVFPath {
		return append(ctrl, vf...)
	}

	return append(vf, ctrl...)
}

// propagate implements spec.md §4.3's saddle-path detection rule for the edge
// (parent uid) -> (child ch), returning the path type and saddle-path-start
// the child's subtree should carry.
func propagate(
	d *empdag.EmpDag,
	parent identity.NodeUID,
	ch childEdge,
	parentPathType PathType,
	inheritedStart identity.MPIndex,
	res *Result,
	diags *rhperr.Diagnostics,
) (PathType, identity.MPIndex) {
	if !ch.isVF || parent.IsNash() || ch.uid.IsNash() {
		if parent.IsNash() {
			return PathEquil, inheritedStart
		}

		return PathCtrl, inheritedStart
	}

	parentMP := d.MP(identity.NewRegularMP(parent.ID()))
	childMP := d.MP(identity.NewRegularMP(ch.uid.ID()))
	if parentMP == nil || childMP == nil {
		return parentPathType, inheritedStart
	}

	start := inheritedStart
	if !start.Valid() {
		start = parentMP.ID
	}

	switch parentMP.Sense {
	case empdag.SenseMin, empdag.SenseMax:
		if childMP.Sense == parentMP.Sense {
			if parentMP.Sense == empdag.SenseMin {
				return PathVFMin, start
			}

			return PathVFMax, start
		}
		if childMP.Sense == empdag.SenseMin || childMP.Sense == empdag.SenseMax {
			res.AdversarialMPs = append(res.AdversarialMPs, childMP.ID)
			registerSaddleStart(res, start)
		}
	}

	if parentPathType == PathVFMin || parentPathType == PathVFMax {
		return parentPathType, start
	}

	return PathVFMin, start
}

func registerSaddleStart(res *Result, start identity.MPIndex) {
	for _, s := range res.SaddlePathStarts {
		if s == start {
			return
		}
	}
	res.SaddlePathStarts = append(res.SaddlePathStarts, start)
}

func displayName(name string, id identity.MPIndex) string {
	if name != "" {
		return name
	}

	return id.String()
}

func nashDisplayName(n *empdag.NashNode) string {
	if n.Name != "" {
		return n.Name
	}

	return n.ID.String()
}
