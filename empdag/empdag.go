package empdag

import (
	"sync"

	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// VFArc pairs a child node UID with the ArcVF weight carried on that edge.
type VFArc struct {
	Child  identity.NodeUID
	Weight ArcVF
}

// EmpDag is the typed directed graph of MP and Nash nodes described by
// spec.md §3/§4.2. Parallel arrays are indexed by MP id / Nash id exactly as
// the teacher's core.Graph indexes its vertex/edge maps by ID; muMP guards
// the MP-indexed arrays, muNash guards the Nash-indexed arrays, following the
// same two-lock-domain split as core.Graph's muVert/muEdgeAdj (see
// DESIGN.md).
type EmpDag struct {
	muMP   sync.RWMutex
	muNash sync.RWMutex

	mps     []*MathPrgm
	mpCarcs [][]identity.NodeUID // CTRL children, per MP id
	mpVarcs [][]VFArc            // VF children + weight, per MP id
	mpRarcs [][]identity.NodeUID // reverse arcs (parents, edge kind embedded), per MP id

	nashes     []*NashNode
	nashRarcs  [][]identity.NodeUID // reverse arcs, per Nash id (always exactly one CTRL parent once attached)

	roots   []identity.NodeUID
	uidRoot identity.NodeUID
	hasRoot bool

	Features Features
}

// New returns an empty EmpDag.
func New() *EmpDag {
	return &EmpDag{}
}

// NewMP allocates a fresh MP node with the given sense and optional name and
// returns its id.
func (d *EmpDag) NewMP(sense Sense, name string) identity.MPIndex {
	d.muMP.Lock()
	defer d.muMP.Unlock()

	id := identity.NewRegularMP(len(d.mps))
	d.mps = append(d.mps, NewMathPrgm(id, sense, name))
	d.mpCarcs = append(d.mpCarcs, nil)
	d.mpVarcs = append(d.mpVarcs, nil)
	d.mpRarcs = append(d.mpRarcs, nil)

	return id
}

// NewNash allocates a fresh Nash node and returns its id.
func (d *EmpDag) NewNash(name string) identity.NashIndex {
	d.muNash.Lock()
	defer d.muNash.Unlock()

	id := identity.NashIndex(len(d.nashes))
	d.nashes = append(d.nashes, NewNashNode(id, name))
	d.nashRarcs = append(d.nashRarcs, nil)

	return id
}

// MP returns the MathPrgm for id, or nil if id is out of range.
func (d *EmpDag) MP(id identity.MPIndex) *MathPrgm {
	d.muMP.RLock()
	defer d.muMP.RUnlock()
	if !d.validMPIndex(id) {
		return nil
	}

	return d.mps[id.ID()]
}

// Nash returns the NashNode for id, or nil if id is out of range.
func (d *EmpDag) Nash(id identity.NashIndex) *NashNode {
	d.muNash.RLock()
	defer d.muNash.RUnlock()
	if int(id) < 0 || int(id) >= len(d.nashes) {
		return nil
	}

	return d.nashes[id]
}

func (d *EmpDag) validMPIndex(id identity.MPIndex) bool {
	return id.Valid() && id.ID() < len(d.mps)
}

// MPAddVar records vi as owned by mp, and sets the container-side ownership
// metadata through the provided setter callback so the reverse mapping
// spec.md §3 requires ("every owned variable must map back to this MP") is
// kept in sync without EmpDag depending on container directly.
func (d *EmpDag) MPAddVar(mp identity.MPIndex, vi identity.VarIndex, setOwner func(identity.VarIndex, identity.MPIndex) error) error {
	m := d.MP(mp)
	if m == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "MPAddVar: unknown MP %s", mp)
	}
	if setOwner != nil {
		if err := setOwner(vi, mp); err != nil {
			return err
		}
	}
	m.AddVar(vi)

	return nil
}

// MPAddEqu records ei as owned by mp, with the same ownership-callback
// convention as MPAddVar.
func (d *EmpDag) MPAddEqu(mp identity.MPIndex, ei identity.EquIndex, setOwner func(identity.EquIndex, identity.MPIndex) error) error {
	m := d.MP(mp)
	if m == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "MPAddEqu: unknown MP %s", mp)
	}
	if setOwner != nil {
		if err := setOwner(ei, mp); err != nil {
			return err
		}
	}
	m.AddEqu(ei)

	return nil
}

// MPAddConstraint is shorthand for MPAddEqu used when ei is known to be one
// of mp's constraints (as opposed to its objective equation); it additionally
// increments mp's VI-type constraint counter when mp.Type == TypeVi.
func (d *EmpDag) MPAddConstraint(mp identity.MPIndex, ei identity.EquIndex, setOwner func(identity.EquIndex, identity.MPIndex) error) error {
	if err := d.MPAddEqu(mp, ei, setOwner); err != nil {
		return err
	}
	m := d.MP(mp)
	if m.Type == TypeVi {
		m.ConstraintCount++
	}

	return nil
}

// MPSetObjEqu sets mp's objective equation.
func (d *EmpDag) MPSetObjEqu(mp identity.MPIndex, ei identity.EquIndex) error {
	m := d.MP(mp)
	if m == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "MPSetObjEqu: unknown MP %s", mp)
	}
	m.SetObjEqu(ei)

	return nil
}

// MPSetObjVar sets mp's objective variable and coefficient.
func (d *EmpDag) MPSetObjVar(mp identity.MPIndex, vi identity.VarIndex, coeff float64) error {
	m := d.MP(mp)
	if m == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "MPSetObjVar: unknown MP %s", mp)
	}
	m.SetObjVar(vi, coeff)

	return nil
}

// NashAddMP attaches mp as a child of nash. A Nash node's only legal children
// are MPs (spec.md §4.2 invariant).
func (d *EmpDag) NashAddMP(nash identity.NashIndex, mp identity.MPIndex) error {
	n := d.Nash(nash)
	if n == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "NashAddMP: unknown Nash node %s", nash)
	}
	if d.MP(mp) == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "NashAddMP: unknown MP %s", mp)
	}

	mpUid := identity.MPUid(mp.ID())
	for _, c := range n.Children {
		if c.ID() == mp.ID() && c.IsMP() {
			return nil // idempotent: already a child
		}
	}
	d.muNash.Lock()
	n.AddChild(mpUid)
	d.muNash.Unlock()

	d.muMP.Lock()
	nashUid := identity.NashUid(int(nash)).WithEdgeKind(identity.EdgeCTRL)
	d.mpRarcs[mp.ID()] = append(d.mpRarcs[mp.ID()], nashUid)
	d.muMP.Unlock()

	return nil
}

// MPAddMPViaCtrl adds a CTRL edge parent -> child (Stackelberg leader/
// follower relation). Self-loops are rejected.
func (d *EmpDag) MPAddMPViaCtrl(parent, child identity.MPIndex) error {
	if parent.ID() == child.ID() {
		return rhperr.New(rhperr.EMPIncorrectInput, "MPAddMPViaCtrl: self-loop on MP %s", parent)
	}
	if d.MP(parent) == nil || d.MP(child) == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "MPAddMPViaCtrl: unknown MP endpoint")
	}

	d.muMP.Lock()
	defer d.muMP.Unlock()

	childUid := identity.MPUid(child.ID())
	for _, c := range d.mpCarcs[parent.ID()] {
		if c == childUid {
			return nil // idempotent
		}
	}
	d.mpCarcs[parent.ID()] = append(d.mpCarcs[parent.ID()], childUid)
	parentUid := identity.MPUid(parent.ID()).WithEdgeKind(identity.EdgeCTRL)
	d.mpRarcs[child.ID()] = append(d.mpRarcs[child.ID()], parentUid)

	return nil
}

// MPAddNashViaCtrl adds a CTRL edge parent -> nash, making nash one of
// parent's CTRL children alongside any sibling MP children.
func (d *EmpDag) MPAddNashViaCtrl(parent identity.MPIndex, nash identity.NashIndex) error {
	if d.MP(parent) == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "MPAddNashViaCtrl: unknown MP %s", parent)
	}
	if d.Nash(nash) == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "MPAddNashViaCtrl: unknown Nash node %s", nash)
	}

	d.muMP.Lock()
	defer d.muMP.Unlock()

	nashUid := identity.NashUid(int(nash))
	for _, c := range d.mpCarcs[parent.ID()] {
		if c == nashUid {
			return nil // idempotent
		}
	}
	d.mpCarcs[parent.ID()] = append(d.mpCarcs[parent.ID()], nashUid)

	d.muNash.Lock()
	parentUid := identity.MPUid(parent.ID()).WithEdgeKind(identity.EdgeCTRL)
	d.nashRarcs[nash] = append(d.nashRarcs[nash], parentUid)
	d.muNash.Unlock()

	return nil
}

// RemoveMPViaCtrl deletes the CTRL edge parent -> child, if present, along
// with its mirrored reverse arc. A no-op when the edge does not exist.
func (d *EmpDag) RemoveMPViaCtrl(parent, child identity.MPIndex) error {
	if d.MP(parent) == nil || d.MP(child) == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "RemoveMPViaCtrl: unknown MP endpoint")
	}

	d.muMP.Lock()
	defer d.muMP.Unlock()

	childUid := identity.MPUid(child.ID())
	children := d.mpCarcs[parent.ID()]
	for i, c := range children {
		if c == childUid {
			d.mpCarcs[parent.ID()] = append(children[:i], children[i+1:]...)

			break
		}
	}

	parentUid := identity.MPUid(parent.ID()).WithEdgeKind(identity.EdgeCTRL)
	rarcs := d.mpRarcs[child.ID()]
	for i, r := range rarcs {
		if r == parentUid {
			d.mpRarcs[child.ID()] = append(rarcs[:i], rarcs[i+1:]...)

			break
		}
	}

	return nil
}

// MPAddMPViaVF adds a value-function edge parent -> child carrying weight.
// Rejected when parent has sense max and child has sense feasibility, per
// spec.md §4.2's invariant.
func (d *EmpDag) MPAddMPViaVF(parent, child identity.MPIndex, weight ArcVF) error {
	if parent.ID() == child.ID() {
		return rhperr.New(rhperr.EMPIncorrectInput, "MPAddMPViaVF: self-loop on MP %s", parent)
	}
	pm, cm := d.MP(parent), d.MP(child)
	if pm == nil || cm == nil {
		return rhperr.New(rhperr.IndexOutOfRange, "MPAddMPViaVF: unknown MP endpoint")
	}
	if pm.Sense == SenseMax && cm.Sense == SenseFeasibility {
		return finalizeErr(pm, "VF edge from a max-sense MP to a feasibility-sense child is rejected")
	}

	d.muMP.Lock()
	defer d.muMP.Unlock()

	childUid := identity.MPUid(child.ID())
	d.mpVarcs[parent.ID()] = append(d.mpVarcs[parent.ID()], VFArc{Child: childUid, Weight: weight.Clone()})
	parentUid := identity.MPUid(parent.ID()).WithEdgeKind(identity.EdgeVF)
	d.mpRarcs[child.ID()] = append(d.mpRarcs[child.ID()], parentUid)
	d.Features.HasVFPath = true

	return nil
}

// SetRoot names uid as a root of the EmpDag. Previously named roots that
// have since gained a parent (a non-empty reverse-arc list) are dropped, so
// the list keeps naming only nodes without in-edges.
func (d *EmpDag) SetRoot(uid identity.NodeUID) {
	kept := d.roots[:0]
	for _, r := range d.roots {
		if r != uid && len(d.ReverseArcs(r)) == 0 {
			kept = append(kept, r)
		}
	}
	d.roots = append(kept, uid)
	d.uidRoot = uid
	d.hasRoot = true
}

// Roots returns the EmpDag's declared roots.
func (d *EmpDag) Roots() []identity.NodeUID { return d.roots }

// SingleRoot returns the canonical root and true when the EmpDag has exactly
// one source.
func (d *EmpDag) SingleRoot() (identity.NodeUID, bool) {
	if len(d.roots) != 1 {
		return 0, false
	}

	return d.roots[0], true
}

// FindArcVF returns the VF weight on the parent->child edge, if any.
func (d *EmpDag) FindArcVF(parent, child identity.MPIndex) (ArcVF, bool) {
	d.muMP.RLock()
	defer d.muMP.RUnlock()
	if !d.validMPIndex(parent) {
		return nil, false
	}
	childUid := identity.MPUid(child.ID())
	for _, a := range d.mpVarcs[parent.ID()] {
		if a.Child == childUid {
			return a.Weight, true
		}
	}

	return nil, false
}

// CtrlChildren returns parent's CTRL-edge children.
func (d *EmpDag) CtrlChildren(parent identity.MPIndex) []identity.NodeUID {
	d.muMP.RLock()
	defer d.muMP.RUnlock()
	if !d.validMPIndex(parent) {
		return nil
	}

	return d.mpCarcs[parent.ID()]
}

// VFChildren returns parent's VF-edge children with their weights.
func (d *EmpDag) VFChildren(parent identity.MPIndex) []VFArc {
	d.muMP.RLock()
	defer d.muMP.RUnlock()
	if !d.validMPIndex(parent) {
		return nil
	}

	return d.mpVarcs[parent.ID()]
}

// ReverseArcs returns uid's reverse arcs (parents, edge kind embedded).
func (d *EmpDag) ReverseArcs(uid identity.NodeUID) []identity.NodeUID {
	if uid.IsMP() {
		d.muMP.RLock()
		defer d.muMP.RUnlock()
		id := uid.ID()
		if id < 0 || id >= len(d.mpRarcs) {
			return nil
		}

		return d.mpRarcs[id]
	}
	d.muNash.RLock()
	defer d.muNash.RUnlock()
	id := uid.ID()
	if id < 0 || id >= len(d.nashRarcs) {
		return nil
	}

	return d.nashRarcs[id]
}

// NumMP returns the number of allocated MP nodes.
func (d *EmpDag) NumMP() int {
	d.muMP.RLock()
	defer d.muMP.RUnlock()

	return len(d.mps)
}

// NumNash returns the number of allocated Nash nodes.
func (d *EmpDag) NumNash() int {
	d.muNash.RLock()
	defer d.muNash.RUnlock()

	return len(d.nashes)
}

// ResetType clears every MP's Type back to TypeUndef and the EmpDag's
// RootKind feature (spec.md §4.2's "reset_type()"). orchestrator.Process
// does not call it: RecomputeModelType overwrites RootKind directly.
func (d *EmpDag) ResetType() {
	d.muMP.Lock()
	defer d.muMP.Unlock()
	for _, m := range d.mps {
		m.Type = TypeUndef
	}
	d.Features.RootKind = RootUndef
}

// ComputeRoots (re)derives d.roots from the reverse-arc lists: a node is a
// root iff its reverse-arc list is empty, per spec.md §3. Called after
// structural edits that might change which nodes have in-edges (e.g. after a
// reformulator re-points an edge).
func (d *EmpDag) ComputeRoots() {
	d.muMP.RLock()
	var roots []identity.NodeUID
	for i, r := range d.mpRarcs {
		if len(r) == 0 {
			roots = append(roots, identity.MPUid(i))
		}
	}
	d.muMP.RUnlock()

	d.muNash.RLock()
	for i, r := range d.nashRarcs {
		if len(r) == 0 {
			roots = append(roots, identity.NashUid(i))
		}
	}
	d.muNash.RUnlock()

	d.roots = roots
	if len(roots) == 1 {
		d.uidRoot = roots[0]
		d.hasRoot = true
	} else {
		d.hasRoot = false
	}
}
