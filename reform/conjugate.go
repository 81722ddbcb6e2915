package reform

import (
	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// conjugateTerm is the opaque splice for the closed-form k*(eta) substitution:
// structural only, like equilTerm/fenchelTerm.
type conjugateTerm struct {
	Eta   []identity.VarIndex
	Coeff float64
}

// conjugateKNode is the opaque nonlinear marker for -k*(eta), local to this
// package since ovf's own kNode is private to its templates' AddK.
type conjugateKNode struct {
	Eta []identity.VarIndex
}

// Conjugate performs spec.md §4.5's Conjugate reformulation: for templates
// whose closed-form conjugate k*(eta) is known (Template.ConjugateSupported),
// it allocates a multiplier block eta matching occ.Args, builds a peer MP
// whose objective is <eta, x> - k*(eta), splices it into the EMPDAG as a
// Nash sibling exactly like Equilibrium, and rewrites occ's target equations
// to reference eta instead of rho. Unsupported templates return
// rhperr.NotImplemented rather than guess at a conjugate that does not exist
// in closed form.
func Conjugate(c container.Facade, d *empdag.EmpDag, occ Occurrence) (identity.MPIndex, identity.NashIndex, error) {
	if err := checkNotSharedTag(occ.MP); err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}
	mp := d.MP(occ.MP)
	if mp == nil {
		return identity.MPInvalid, identity.NashInvalid, rhperr.New(rhperr.IndexOutOfRange, "Conjugate: unknown MP %s", occ.MP)
	}
	if mp.Replaced() {
		return mp.ReplacedPeer, mp.ReplacedNash, nil
	}
	if !occ.Template.ConjugateSupported() {
		return identity.MPInvalid, identity.NashInvalid, rhperr.New(rhperr.NotImplemented,
			"Conjugate: template %q has no closed-form conjugate", occ.Template.Name())
	}

	eta, err := createBlock(c, len(occ.Args), "eta")
	if err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}

	peerID := d.NewMP(occ.Template.DefaultSense().Opposite(), "")
	objEi, err := c.AddEquation(container.EquMapping, container.ConeFree)
	if err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}
	if err := d.MPAddEqu(peerID, objEi, c.SetEquOwner); err != nil {
		return identity.MPInvalid, identity.NashInvalid, err
	}
	for _, vi := range eta {
		if err := d.MPAddVar(peerID, vi, c.SetVarOwner); err != nil {
			return identity.MPInvalid, identity.NashInvalid, err
		}
	}

	for i, ei := range eta {
		if i < len(occ.Args) {
			if err := c.EquAddBilinear(objEi, ei, occ.Args[i], 1); err != nil {
				return identity.MPInvalid, identity.NashInvalid, err
			}
		}
	}
	if err := addNegatedConjugateK(c, objEi, eta); err != nil {
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
		if err := c.EquAddNonlinearExpression(newEi, conjugateTerm{Eta: eta, Coeff: coeff}, coeff); err != nil {
			return identity.MPInvalid, identity.NashInvalid, err
		}
		if err := c.SyncLequ(newEi); err != nil {
			return identity.MPInvalid, identity.NashInvalid, err
		}
	}

	mp.MarkReplaced(peerID, nash)

	return peerID, nash, nil
}

func addNegatedConjugateK(c container.Facade, target identity.EquIndex, eta []identity.VarIndex) error {
	return c.EquAddNonlinearExpression(target, conjugateKNode{Eta: eta}, -1)
}
