package reform

import (
	"strconv"

	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// fenchelTerm is the opaque splice that replaces rho in a target equation: it
// names the dual blocks v, w, s, the per-coordinate shift and the target's
// coefficient, following the same structural-only convention as equilTerm.
type fenchelTerm struct {
	V, W, S []identity.VarIndex
	Shift   []float64
	Coeff   float64
}

// Fenchel performs spec.md §4.5's Fenchel reformulation for occ: it derives
// the coordinate-wise shift from the template's bounds, allocates the dual
// multiplier blocks (v per polyhedral row, w per finite upper bound, s when
// the quadratic part is nontrivial) owned by a new dual MP, and for each of
// occ's target equations replaces rho's contribution with a fenchelTerm
// splice. The dual MP's objective equation is created and registered but
// carries no terms, and no inclusion rows are emitted for v, w or s. The dual
// MP is attached under occ.MP's CTRL parent, or named a root when there is none.
func Fenchel(c container.Facade, d *empdag.EmpDag, occ Occurrence) (identity.MPIndex, error) {
	if err := checkNotSharedTag(occ.MP); err != nil {
		return identity.MPInvalid, err
	}
	mp := d.MP(occ.MP)
	if mp == nil {
		return identity.MPInvalid, rhperr.New(rhperr.IndexOutOfRange, "Fenchel: unknown MP %s", occ.MP)
	}
	if mp.Replaced() {
		return mp.ReplacedPeer, nil
	}

	n := len(occ.Args)
	shift := make([]float64, n)
	for i := 0; i < n; i++ {
		lb := occ.Template.VarLB(n, i)
		ub := occ.Template.VarUB(n, i)
		shift[i] = shiftFor(lb, ub)
	}

	set := occ.Template.SetNonbox(n)
	numRows := 0
	if set.A != nil {
		numRows = set.A.Rows()
	}
	v, err := createDualBlock(c, numRows, "v")
	if err != nil {
		return identity.MPInvalid, err
	}

	numBounded := 0
	for i := 0; i < n; i++ {
		if finiteUB(occ.Template.VarUB(n, i)) {
			numBounded++
		}
	}
	w, err := createDualBlock(c, numBounded, "w")
	if err != nil {
		return identity.MPInvalid, err
	}

	var s []identity.VarIndex
	if qf, ok := occ.Template.QuadraticFactorization(n); ok && qf.D != nil {
		s, err = createDualBlock(c, n, "s")
		if err != nil {
			return identity.MPInvalid, err
		}
	}

	dualID := d.NewMP(occ.Template.DefaultSense().Opposite(), "")
	objEi, err := c.AddEquation(container.EquMapping, container.ConeFree)
	if err != nil {
		return identity.MPInvalid, err
	}
	if err := d.MPAddEqu(dualID, objEi, c.SetEquOwner); err != nil {
		return identity.MPInvalid, err
	}
	for _, block := range [][]identity.VarIndex{v, w, s} {
		for _, vi := range block {
			if err := d.MPAddVar(dualID, vi, c.SetVarOwner); err != nil {
				return identity.MPInvalid, err
			}
		}
	}
	if err := c.SyncLequ(objEi); err != nil {
		return identity.MPInvalid, err
	}
	if err := d.MPSetObjEqu(dualID, objEi); err != nil {
		return identity.MPInvalid, err
	}

	parent, hasParent := firstCtrlParent(d, occ.MP)

	for ei, coeff := range occ.Targets {
		newEi, err := c.EquCopyExcept(ei, occ.Rho)
		if err != nil {
			return identity.MPInvalid, err
		}
		if err := c.EquAddNonlinearExpression(newEi, fenchelTerm{V: v, W: w, S: s, Shift: shift, Coeff: coeff}, coeff); err != nil {
			return identity.MPInvalid, err
		}
		if err := c.SyncLequ(newEi); err != nil {
			return identity.MPInvalid, err
		}
	}

	if hasParent {
		if err := d.MPAddMPViaCtrl(parent, dualID); err != nil {
			return identity.MPInvalid, err
		}
	} else {
		d.SetRoot(identity.MPUid(dualID.ID()))
	}

	mp.MarkReplaced(dualID, identity.NashInvalid)

	return dualID, nil
}

func shiftFor(lb, ub float64) float64 {
	switch {
	case finiteLB(lb) && finiteUB(ub):
		return 0.5 * (lb + ub)
	case finiteLB(lb):
		return lb
	case finiteUB(ub):
		return ub
	default:
		return 0
	}
}

func finiteLB(v float64) bool { return v > -1e300 }
func finiteUB(v float64) bool { return v < 1e300 }

func createDualBlock(c container.Facade, n int, prefix string) ([]identity.VarIndex, error) {
	if n == 0 {
		return nil, nil
	}

	return createBlock(c, n, prefix)
}

func createBlock(c container.Facade, n int, prefix string) ([]identity.VarIndex, error) {
	out := make([]identity.VarIndex, n)
	for i := 0; i < n; i++ {
		vi, err := c.AddVar(-1e300, 1e300)
		if err != nil {
			return nil, err
		}
		if err := c.SetVarName(vi, prefix+strconv.Itoa(i)); err != nil {
			return nil, err
		}
		out[i] = vi
	}

	return out, nil
}

func firstCtrlParent(d *empdag.EmpDag, mp identity.MPIndex) (identity.MPIndex, bool) {
	for _, r := range d.ReverseArcs(identity.MPUid(mp.ID())) {
		if r.IsMP() && r.EdgeKind() == identity.EdgeCTRL {
			return identity.NewRegularMP(r.ID()), true
		}
	}

	return identity.MPInvalid, false
}
