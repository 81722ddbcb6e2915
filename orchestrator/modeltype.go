package orchestrator

import (
	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
)

// ModelType is the structural classification recompute_modeltype assigns by
// walking every active equation's expression-type statistics, per spec.md
// §4.6 step 5.
type ModelType int

const (
	ModelUndef ModelType = iota
	ModelLP
	ModelQP
	ModelQCP
	ModelNLP
	ModelMIP
	ModelMINLP
)

func (t ModelType) String() string {
	switch t {
	case ModelLP:
		return "LP"
	case ModelQP:
		return "QP"
	case ModelQCP:
		return "QCP"
	case ModelNLP:
		return "NLP"
	case ModelMIP:
		return "MIP"
	case ModelMINLP:
		return "MINLP"
	default:
		return "undef"
	}
}

// RecomputeModelType implements spec.md §4.6 step 5: if dst's EmpDag has a
// single root MP with no CTRL or VF children, the EMP structure flattens into
// a classical Opt/Vi problem
// (Features.RootKind is set accordingly, and the root MP's ProbType records
// the LP/NLP/... classification); otherwise dst remains an EMP model and
// dst.Type alone carries the structural classification of the whole
// container.
func RecomputeModelType(dst *Model) {
	dst.Type = classifyContainer(dst.Container)

	root, single := dst.Dag.SingleRoot()
	if !single || !root.IsMP() {
		dst.IsEMP = true

		return
	}
	mi := identity.NewRegularMP(root.ID())
	if len(dst.Dag.CtrlChildren(mi)) > 0 || len(dst.Dag.VFChildren(mi)) > 0 {
		dst.IsEMP = true

		return
	}

	dst.IsEMP = false
	mp := dst.Dag.MP(mi)
	if mp == nil {
		return
	}
	mp.ProbType = dst.Type.String()
	if mp.Type == empdag.TypeVi {
		dst.Dag.Features.RootKind = empdag.RootVi
	} else {
		dst.Dag.Features.RootKind = empdag.RootOpt
	}
}

// classifyContainer walks every non-deleted equation and variable once,
// accumulating the presence of nonlinear terms, quadratic/bilinear terms,
// and integer variables, then folds those flags into one ModelType: any
// nonlinear term wins (NLP/MINLP), else any quadratic/bilinear term wins
// (QP/QCP — QCP when the quadratic term sits in a cone-inclusion equation,
// QP otherwise), else LP/MIP; any integer variable upgrades LP->MIP,
// NLP->MINLP.
func classifyContainer(c *container.InMemory) ModelType {
	hasNonlinear := false
	hasQuadraticInConstraint := false
	hasQuadratic := false

	for i := 0; i < c.NumEquSlots(); i++ {
		equ, ok := c.Equation(identity.EquIndex(i))
		if !ok {
			continue
		}
		if len(equ.Nonlinear) > 0 {
			hasNonlinear = true
		}
		if len(equ.Quadratic) > 0 || len(equ.Bilinear) > 0 {
			hasQuadratic = true
			if equ.Kind == container.EquConeInclusion {
				hasQuadraticInConstraint = true
			}
		}
	}

	hasInteger := false
	for i := 0; i < c.NumVarSlots(); i++ {
		v, ok := c.Variable(identity.VarIndex(i))
		if !ok {
			continue
		}
		if v.Integer {
			hasInteger = true
			break
		}
	}

	switch {
	case hasNonlinear && hasInteger:
		return ModelMINLP
	case hasNonlinear:
		return ModelNLP
	case hasQuadraticInConstraint:
		return ModelQCP
	case hasQuadratic:
		return ModelQP
	case hasInteger:
		return ModelMIP
	default:
		return ModelLP
	}
}
