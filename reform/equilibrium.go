package reform

import (
	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/ovf"
	"github.com/reshop/reshop-core/rhperr"
)

// Occurrence names one CCFLIB occurrence to reformulate: the MP whose
// objective variable rho stands for the OVF value, the arguments x feeding
// the template, and every equation (outside mp) where rho appears together
// with its coefficient there.
type Occurrence struct {
	MP       identity.MPIndex
	Rho      identity.VarIndex
	Args     []identity.VarIndex
	Template ovf.Template
	Targets  map[identity.EquIndex]float64
}

// equilTerm is the opaque nonlinear marker for the spliced <y, F(x)> term,
// following base.go's kNode convention: structural only, interpreted by the
// downstream container/solver, never by the core itself.
type equilTerm struct {
	Y    []identity.VarIndex
	X    []identity.VarIndex
	B0   []float64
	Coeff float64
}

// Equilibrium performs spec.md §4.5's Equilibrium reformulation: it creates a
// peer MP with its own variable block y and objective <y, F(x)> - k(y),
// inserts a Nash node above occ.MP (between occ.MP and its CTRL parent, if
// it has one),
// attaches the peer as the Nash node's second child, and rewrites every
// target equation's occurrence of rho via EquCopyExcept + a spliced nonlinear
// term carrying the equation's original coefficient.
func Equilibrium(c container.Facade, d *empdag.EmpDag, occ Occurrence) (identity.MPIndex, identity.NashIndex, error) {
	if err := checkNotSharedTag(occ.MP); err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}

	mp := d.MP(occ.MP)
	if mp == nil {
		return identity.MPInvalid, identity.NashInvalid, rhperr.New(rhperr.IndexOutOfRange, "Equilibrium: unknown MP %s", occ.MP)
	}
	if mp.Replaced() {
		return mp.ReplacedPeer, mp.ReplacedNash, nil
	}

	affine := occ.Template.AffineTransformation(occ.Args)

	y, err := occ.Template.CreateUvar(c, occ.Args, "y")
	if err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}

	peerID := d.NewMP(occ.Template.DefaultSense(), "")
	objEi, err := c.AddEquation(container.EquMapping, container.ConeFree)
	if err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}
	if err := d.MPAddEqu(peerID, objEi, c.SetEquOwner); err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}
	for _, vi := range y {
		if err := d.MPAddVar(peerID, vi, c.SetVarOwner); err != nil {
			return identity.MPInvalid, identity.NashInvalid, err
		}
	}

	// <y, F(x)> = sum_i y_i*(B x)_i + sum_i y_i*b0_i; with the catalog's
	// identity affine map this reduces to sum_i y_i*x_i + y_i*b0_i, a pure
	// bilinear/linear contribution the ContainerFacade represents directly.
	for i := range y {
		if i < len(occ.Args) {
			if err := c.EquAddBilinear(objEi, y[i], occ.Args[i], 1); err != nil {
				return identity.MPInvalid, identity.NashInvalid, err
			}
		}
		if i < len(affine.B0) && affine.B0[i] != 0 {
			if err := c.EquAddNewLinearVar(objEi, y[i], affine.B0[i]); err != nil {
				return identity.MPInvalid, identity.NashInvalid, err
			}
		}
	}
	if err := occ.Template.AddK(c, objEi, y); err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}
	if err := c.SyncLequ(objEi); err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}
	if err := d.MPSetObjEqu(peerID, objEi); err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}

	nash, err := attachNashAbove(d, occ.MP)
	if err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}
	if err := d.NashAddMP(nash, peerID); err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}

	for ei, coeff := range occ.Targets {
		newEi, err := c.EquCopyExcept(ei, occ.Rho)
		if err != nil {
			return identity.MPInvalid, identity.NashInvalid, err
		}
		if err := c.EquAddNonlinearExpression(newEi, equilTerm{Y: y, X: occ.Args, B0: affine.B0, Coeff: coeff}, coeff); err != nil {
			return identity.MPInvalid, identity.NashInvalid, err
		}
		if err := c.SyncLequ(newEi); err != nil {
			return identity.MPInvalid, identity.NashInvalid, err
		}
	}

	mp.MarkReplaced(peerID, nash)

	return peerID, nash, nil
}

// attachNashAbove inserts a fresh Nash node above mp: if mp already has a
// CTRL parent, ReplaceChildWithNash splices the Nash node between them;
// otherwise (mp has no parent, i.e. it is itself a root) a new Nash node is
// created and installed as the EmpDag's root with mp as its first child,
// synthesizing the EMP graph the spec calls for when "the original model had
// no EMP graph".
func attachNashAbove(d *empdag.EmpDag, mp identity.MPIndex) (identity.NashIndex, error) {
	rarcs := d.ReverseArcs(identity.MPUid(mp.ID()))
	for _, r := range rarcs {
		if r.IsMP() && r.EdgeKind() == identity.EdgeCTRL {
			return ReplaceChildWithNash(d, identity.NewRegularMP(r.ID()), mp)
		}
	}

	nash := d.NewNash("")
	if err := d.NashAddMP(nash, mp); err != nil {
		return identity.NashInvalid, err
	}
	d.SetRoot(identity.NashUid(int(nash)))

	return nash, nil
}
