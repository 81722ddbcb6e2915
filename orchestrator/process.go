package orchestrator

import (
	"github.com/reshop/reshop-core/empdag/analyzer"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/reform"
	"github.com/reshop/reshop-core/rhperr"
)

// Process clones src into a fresh destination Model, analyzes it, reformulates
// every MP named in occurrences (dispatched to the family each Occurrence
// selects), and recomputes the destination's model type, per spec.md §4.6's
// five numbered steps.
//
// occurrences maps an MP to the CCFLIB occurrence it carries; MPs absent from
// the map are left untouched by reformulation (they are already classical
// Opt/Vi MPs, not Ccflib ones).
func Process(cfg Config, src *Model, occurrences map[identity.MPIndex]Occurrence) (*Model, *analyzer.Result, error) {
	if src == nil || src.Container == nil || src.Dag == nil {
		return nil, nil, rhperr.New(rhperr.NullPointer, "Process: src model is incomplete")
	}

	// Steps 1-2: clone container and rebase the EmpDag. renameMap is nil
	// (identity) since the container clone preserves every index exactly.
	dstContainer := src.Container.Clone()
	dstDag, err := src.Dag.Clone(nil)
	if err != nil {
		return nil, nil, err
	}
	dst := &Model{Container: dstContainer, Dag: dstDag}

	// Step 3: analyze and abort on any raised diagnostic.
	res, diags := analyzer.Run(dst.Dag, dst.Container)
	if diagErr := diags.Err(); diagErr != nil {
		return nil, res, diagErr
	}

	// Step 4: reformulate mps2reformulate in ascending topological-order
	// index, so descendants are rewritten before their parents.
	for _, uid := range res.TopoOrder {
		if !uid.IsMP() {
			continue
		}
		mi := identity.NewRegularMP(uid.ID())
		occ, ok := occurrences[mi]
		if !ok {
			continue
		}
		if err := dispatch(dst, occ); err != nil {
			return nil, res, err
		}
	}

	// Step 5: recompute the destination's model type.
	RecomputeModelType(dst)

	return dst, res, nil
}

func dispatch(dst *Model, occ Occurrence) error {
	switch occ.Kind {
	case ReformEquilibrium:
		_, _, err := reform.Equilibrium(dst.Container, dst.Dag, occ.Data)
		return err
	case ReformFenchel:
		_, err := reform.Fenchel(dst.Container, dst.Dag, occ.Data)
		return err
	case ReformConjugate:
		_, _, err := reform.Conjugate(dst.Container, dst.Dag, occ.Data)
		return err
	default:
		return rhperr.New(rhperr.InvalidArgument, "Process: unknown reformulation kind %s for MP %s", occ.Kind, occ.Data.MP)
	}
}
